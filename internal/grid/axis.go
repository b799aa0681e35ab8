package grid

import (
	"fmt"
	"strings"
)

// AxisKind distinguishes numeric row axes from categorical ones.
type AxisKind int

const (
	// NumericAxis values are coordinates: either R+1 boundaries or R centres.
	NumericAxis AxisKind = iota
	// SpectrumAxis values are spectrum numbers and carry no geometry.
	SpectrumAxis
)

func (k AxisKind) String() string {
	switch k {
	case NumericAxis:
		return "numeric"
	case SpectrumAxis:
		return "spectrum"
	default:
		return fmt.Sprintf("AxisKind(%d)", int(k))
	}
}

// ParseAxisKind is the inverse of AxisKind.String.
func ParseAxisKind(s string) (AxisKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "numeric", "":
		return NumericAxis, nil
	case "spectrum":
		return SpectrumAxis, nil
	}
	return 0, fmt.Errorf("unknown axis kind %q", s)
}

// RowAxis labels the rows of a grid. Distinct rows may write distinct slots
// concurrently through SetValue.
type RowAxis struct {
	kind   AxisKind
	values []float64
}

// NewNumericAxis returns a numeric axis holding a copy of values.
func NewNumericAxis(values []float64) *RowAxis {
	v := make([]float64, len(values))
	copy(v, values)
	return &RowAxis{kind: NumericAxis, values: v}
}

// NewSpectrumAxis returns a spectrum axis numbered 1..n.
func NewSpectrumAxis(n int) *RowAxis {
	v := make([]float64, n)
	for i := range v {
		v[i] = float64(i + 1)
	}
	return &RowAxis{kind: SpectrumAxis, values: v}
}

// Kind returns the axis kind.
func (a *RowAxis) Kind() AxisKind { return a.kind }

// Len returns the number of axis values.
func (a *RowAxis) Len() int { return len(a.values) }

// Value returns axis value i.
func (a *RowAxis) Value(i int) float64 { return a.values[i] }

// SetValue sets axis value i.
func (a *RowAxis) SetValue(i int, v float64) { a.values[i] = v }

// Values returns a copy of the axis values.
func (a *RowAxis) Values() []float64 {
	v := make([]float64, len(a.values))
	copy(v, a.values)
	return v
}

func (a *RowAxis) clone() *RowAxis {
	return &RowAxis{kind: a.kind, values: a.Values()}
}

// Boundaries returns the row boundaries of a grid with rows rows. A numeric
// axis with rows+1 values is taken as boundaries; one with rows values is
// taken as centres, which must be strictly increasing, and converted with
// EdgesFromCentres. Anything else, including every spectrum axis, fails with
// an *AxisError.
func (a *RowAxis) Boundaries(rows int) (*BinEdges, error) {
	if a == nil {
		return nil, &AxisError{Kind: SpectrumAxis, Reason: "grid has no row axis"}
	}
	if a.kind != NumericAxis {
		return nil, &AxisError{Kind: a.kind,
			Reason: "not a numeric axis; convert the spectrum axis to a numeric axis first"}
	}

	var (
		edges *BinEdges
		err   error
	)
	switch len(a.values) {
	case rows + 1:
		edges, err = NewBinEdges(a.values)
	case rows:
		if err := checkCentres(a.values); err != nil {
			return nil, &AxisError{Kind: a.kind, Reason: "centres are not strictly increasing: " + err.Error()}
		}
		edges, err = EdgesFromCentres(a.values)
	default:
		return nil, &AxisError{Kind: a.kind,
			Reason: fmt.Sprintf("%d values cannot describe %d rows", len(a.values), rows)}
	}
	if err != nil {
		return nil, &AxisError{Kind: a.kind, Reason: "values are not strictly increasing: " + err.Error()}
	}
	return edges, nil
}

// checkCentres is checkEdges without the length floor: a single centre is a
// valid axis.
func checkCentres(centres []float64) error {
	if len(centres) < 2 {
		return nil
	}
	return checkEdges(centres)
}
