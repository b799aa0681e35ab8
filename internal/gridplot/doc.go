// Package gridplot renders grids as heatmaps: PNG through gonum/plot and
// interactive HTML through go-echarts.
package gridplot
