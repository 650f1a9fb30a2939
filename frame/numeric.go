package frame

import "strconv"

// toFloat coerces a cell to float64. Numeric strings convert; everything
// else does not.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Float64Column extracts one column as float64 values, skipping cells that
// are missing or non-numeric. The second return lists the row indices that
// survived, so two columns can be aligned pairwise.
func (f *Frame) Float64Column(name string) ([]float64, []int, error) {
	cells, err := f.Column(name)
	if err != nil {
		return nil, nil, err
	}
	values := make([]float64, 0, len(cells))
	rows := make([]int, 0, len(cells))
	for i, cell := range cells {
		if cell == nil {
			continue
		}
		if n, ok := toFloat(cell); ok {
			values = append(values, n)
			rows = append(rows, i)
		}
	}
	return values, rows, nil
}

// IsNumeric reports whether a column holds at least one numeric cell and
// no non-numeric non-missing cells.
func (f *Frame) IsNumeric(name string) bool {
	cells, err := f.Column(name)
	if err != nil {
		return false
	}
	numeric := 0
	for _, cell := range cells {
		if cell == nil {
			continue
		}
		if _, ok := toFloat(cell); !ok {
			return false
		}
		numeric++
	}
	return numeric > 0
}

// NumericColumns returns the names of all numeric columns, in frame order.
func (f *Frame) NumericColumns() []string {
	var out []string
	for _, name := range f.cols {
		if f.IsNumeric(name) {
			out = append(out, name)
		}
	}
	return out
}

// AlignedFloat64Columns extracts two columns as pairwise-aligned float64
// slices, keeping only rows where both cells are numeric.
func (f *Frame) AlignedFloat64Columns(a, b string) ([]float64, []float64, error) {
	ca, err := f.Column(a)
	if err != nil {
		return nil, nil, err
	}
	cb, err := f.Column(b)
	if err != nil {
		return nil, nil, err
	}
	var xs, ys []float64
	for i := range ca {
		if ca[i] == nil || cb[i] == nil {
			continue
		}
		x, okx := toFloat(ca[i])
		y, oky := toFloat(cb[i])
		if !okx || !oky {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys, nil
}
