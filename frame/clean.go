package frame

import (
	"fmt"
	"strconv"
	"strings"
)

// DropNA returns a new Frame without rows containing missing values.
func (f *Frame) DropNA() *Frame {
	out := f.emptyCopy()
	for _, row := range f.rows {
		missing := false
		for _, cell := range row {
			if cell == nil {
				missing = true
				break
			}
		}
		if !missing {
			out.rows = append(out.rows, append([]any(nil), row...))
		}
	}
	return out
}

// CountMissing returns the number of missing cells per column.
func (f *Frame) CountMissing() map[string]int {
	counts := make(map[string]int, len(f.cols))
	for _, name := range f.cols {
		counts[name] = 0
	}
	for _, row := range f.rows {
		for ci, cell := range row {
			if cell == nil {
				counts[f.cols[ci]]++
			}
		}
	}
	return counts
}

// FillNA returns a new Frame with missing cells replaced by value.
func (f *Frame) FillNA(value any) *Frame {
	out := f.emptyCopy()
	for _, row := range f.rows {
		cells := append([]any(nil), row...)
		for i, cell := range cells {
			if cell == nil {
				cells[i] = value
			}
		}
		out.rows = append(out.rows, cells)
	}
	return out
}

// FillColumn returns a new Frame with missing cells in one column
// replaced by value.
func (f *Frame) FillColumn(name string, value any) (*Frame, error) {
	ci, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("no column %q", name)
	}
	out := f.Copy()
	for _, row := range out.rows {
		if row[ci] == nil {
			row[ci] = value
		}
	}
	return out, nil
}

// DropDuplicates returns a new Frame keeping only the first occurrence of
// each distinct row.
func (f *Frame) DropDuplicates() *Frame {
	out := f.emptyCopy()
	seen := make(map[string]struct{}, len(f.rows))
	for _, row := range f.rows {
		key := rowKey(row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.rows = append(out.rows, append([]any(nil), row...))
	}
	return out
}

func rowKey(row []any) string {
	var sb strings.Builder
	for _, cell := range row {
		fmt.Fprintf(&sb, "%v\x00", cell)
	}
	return sb.String()
}

// Rename returns a new Frame with columns renamed per mapping. Names
// absent from the frame are ignored.
func (f *Frame) Rename(mapping map[string]string) (*Frame, error) {
	cols := make([]string, len(f.cols))
	for i, name := range f.cols {
		if renamed, ok := mapping[name]; ok {
			cols[i] = renamed
		} else {
			cols[i] = name
		}
	}
	out, err := New(cols)
	if err != nil {
		return nil, err
	}
	for _, row := range f.rows {
		out.rows = append(out.rows, append([]any(nil), row...))
	}
	return out, nil
}

// DropColumns returns a new Frame without the named columns.
func (f *Frame) DropColumns(names []string) (*Frame, error) {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		if !f.HasColumn(name) {
			return nil, fmt.Errorf("no column %q", name)
		}
		drop[name] = struct{}{}
	}
	var keep []string
	for _, name := range f.cols {
		if _, gone := drop[name]; !gone {
			keep = append(keep, name)
		}
	}
	return f.Select(keep)
}

// ConvertTypes returns a new Frame with the named columns converted to
// "int", "float", "string", or "bool". Cells that do not convert become
// missing.
func (f *Frame) ConvertTypes(types map[string]string) (*Frame, error) {
	for name, kind := range types {
		if !f.HasColumn(name) {
			return nil, fmt.Errorf("no column %q", name)
		}
		switch kind {
		case "int", "float", "string", "bool":
		default:
			return nil, fmt.Errorf("unsupported type %q for column %q", kind, name)
		}
	}

	out := f.Copy()
	for name, kind := range types {
		ci := out.index[name]
		for _, row := range out.rows {
			row[ci] = convertCell(row[ci], kind)
		}
	}
	return out, nil
}

func convertCell(v any, kind string) any {
	if v == nil {
		return nil
	}
	switch kind {
	case "string":
		return fmt.Sprintf("%v", v)
	case "int":
		if n, ok := toFloat(v); ok {
			return int(n)
		}
	case "float":
		if n, ok := toFloat(v); ok {
			return n
		}
	case "bool":
		switch x := v.(type) {
		case bool:
			return x
		case string:
			if b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(x))); err == nil {
				return b
			}
		}
	}
	return nil
}
