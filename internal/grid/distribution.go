package grid

import "math"

// ToggleDistribution converts g in place between counts and distribution
// form. When toDistribution is set, every Y and E is divided by its bin width
// |edge[i+1]-edge[i]|; otherwise it is multiplied by it. It is a no-op when g
// is already in the requested form.
func ToggleDistribution(g *Grid, toDistribution bool) {
	if g.distribution == toDistribution {
		return
	}
	for i := range g.rows {
		edges := g.Edges(i)
		y, e := g.rows[i].Y, g.rows[i].E
		for j := range y {
			w := math.Abs(edges.Width(j))
			if !toDistribution {
				w = 1 / w
			}
			y[j] /= w
			e[j] /= w
		}
	}
	g.distribution = toDistribution
}
