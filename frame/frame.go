// Package frame provides a small in-memory columnar table. It is the
// dataset handle the analysis operations pass between each other: ordered
// named columns over row-major cells, with the cleaning and extraction
// primitives those operations need.
package frame

import (
	"fmt"
	"strings"
)

// Frame is an ordered set of named columns over row-major cells. Cells are
// untyped; nil marks a missing value. Mutating methods return a new Frame
// and leave the receiver untouched.
type Frame struct {
	cols  []string
	index map[string]int
	rows  [][]any
}

// New creates an empty Frame with the given column names.
func New(columns []string) (*Frame, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		index[name] = i
	}
	return &Frame{
		cols:  append([]string(nil), columns...),
		index: index,
	}, nil
}

// FromRecords creates a Frame from column names and row records.
func FromRecords(columns []string, records [][]any) (*Frame, error) {
	f, err := New(columns)
	if err != nil {
		return nil, err
	}
	for i, rec := range records {
		if err := f.AppendRow(rec); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return f, nil
}

// AppendRow adds one row. The cell count must match the column count.
func (f *Frame) AppendRow(cells []any) error {
	if len(cells) != len(f.cols) {
		return fmt.Errorf("row has %d cells, frame has %d columns", len(cells), len(f.cols))
	}
	f.rows = append(f.rows, append([]any(nil), cells...))
	return nil
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.cols...)
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.rows) }

// NumColumns returns the number of columns.
func (f *Frame) NumColumns() int { return len(f.cols) }

// Cell returns the value at (row, column name).
func (f *Frame) Cell(row int, column string) (any, error) {
	ci, ok := f.index[column]
	if !ok {
		return nil, fmt.Errorf("no column %q", column)
	}
	if row < 0 || row >= len(f.rows) {
		return nil, fmt.Errorf("row %d out of range (len %d)", row, len(f.rows))
	}
	return f.rows[row][ci], nil
}

// Column returns all cells of one column.
func (f *Frame) Column(name string) ([]any, error) {
	ci, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("no column %q", name)
	}
	out := make([]any, len(f.rows))
	for i, row := range f.rows {
		out[i] = row[ci]
	}
	return out, nil
}

// Head returns a new Frame with at most n rows.
func (f *Frame) Head(n int) *Frame {
	if n > len(f.rows) {
		n = len(f.rows)
	}
	if n < 0 {
		n = 0
	}
	out := f.emptyCopy()
	for _, row := range f.rows[:n] {
		out.rows = append(out.rows, append([]any(nil), row...))
	}
	return out
}

// Select returns a new Frame restricted to the named columns, in the given
// order.
func (f *Frame) Select(columns []string) (*Frame, error) {
	out, err := New(columns)
	if err != nil {
		return nil, err
	}
	indices := make([]int, len(columns))
	for i, name := range columns {
		ci, ok := f.index[name]
		if !ok {
			return nil, fmt.Errorf("no column %q", name)
		}
		indices[i] = ci
	}
	for _, row := range f.rows {
		cells := make([]any, len(indices))
		for i, ci := range indices {
			cells[i] = row[ci]
		}
		out.rows = append(out.rows, cells)
	}
	return out, nil
}

// WithColumn returns a new Frame with an extra column appended. The cell
// count must match the row count.
func (f *Frame) WithColumn(name string, cells []any) (*Frame, error) {
	if f.HasColumn(name) {
		return nil, fmt.Errorf("column %q already exists", name)
	}
	if len(cells) != len(f.rows) {
		return nil, fmt.Errorf("column has %d cells, frame has %d rows", len(cells), len(f.rows))
	}
	out, err := New(append(f.Columns(), name))
	if err != nil {
		return nil, err
	}
	for i, row := range f.rows {
		out.rows = append(out.rows, append(append([]any(nil), row...), cells[i]))
	}
	return out, nil
}

// Copy returns a deep copy.
func (f *Frame) Copy() *Frame {
	out := f.emptyCopy()
	for _, row := range f.rows {
		out.rows = append(out.rows, append([]any(nil), row...))
	}
	return out
}

func (f *Frame) emptyCopy() *Frame {
	out, _ := New(f.cols)
	return out
}

// Render formats up to maxRows rows as an aligned text table. With maxRows
// <= 0 every row is included.
func (f *Frame) Render(maxRows int) string {
	if maxRows <= 0 || maxRows > len(f.rows) {
		maxRows = len(f.rows)
	}

	widths := make([]int, len(f.cols))
	for i, name := range f.cols {
		widths[i] = len(name)
	}
	cells := make([][]string, maxRows)
	for r := 0; r < maxRows; r++ {
		cells[r] = make([]string, len(f.cols))
		for c := range f.cols {
			s := formatCell(f.rows[r][c])
			cells[r][c] = s
			if len(s) > widths[c] {
				widths[c] = len(s)
			}
		}
	}

	var sb strings.Builder
	for i, name := range f.cols {
		if i > 0 {
			sb.WriteString("  ")
		}
		fmt.Fprintf(&sb, "%-*s", widths[i], name)
	}
	sb.WriteByte('\n')
	for r := 0; r < maxRows; r++ {
		for c := range f.cols {
			if c > 0 {
				sb.WriteString("  ")
			}
			fmt.Fprintf(&sb, "%-*s", widths[c], cells[r][c])
		}
		sb.WriteByte('\n')
	}
	if maxRows < len(f.rows) {
		fmt.Fprintf(&sb, "... %d more rows\n", len(f.rows)-maxRows)
	}
	return sb.String()
}

// String renders the first ten rows.
func (f *Frame) String() string {
	return f.Render(10)
}

func formatCell(v any) string {
	if v == nil {
		return "<nil>"
	}
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%g", x)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}
