package datatools

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/martinemde/analyst/frame"
	"github.com/martinemde/analyst/reactloop"
)

// CleanData applies a set of cleaning operations to the dataset. The
// operations argument is a map whose keys select what to do: dropna
// (bool), fillna (column -> value, or a scalar for all columns),
// drop_duplicates (bool), convert_types (column -> type), rename_columns
// (old -> new), drop_columns (list).
func (t *Tools) CleanData(ctx context.Context, args reactloop.Args) (any, string, error) {
	f, ok := frameArg(args, "df")
	if !ok {
		return nil, noFrameMessage, nil
	}

	cleaned := f.Copy()
	var parts []string

	ops := mapArg(args, "operations")
	if ops == nil {
		// Individual flags as a fallback for models that skip the map form.
		ops = reactloop.NewArgs()
		for _, key := range []string{"dropna", "fillna", "drop_duplicates", "convert_types", "rename_columns", "drop_columns"} {
			if v, present := args.Get(key); present {
				ops.Set(key, v)
			}
		}
	}

	for pair := ops.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Key {
		case "dropna":
			if b, _ := pair.Value.AsBool(); b {
				before := cleaned.Len()
				cleaned = cleaned.DropNA()
				parts = append(parts, fmt.Sprintf("Dropped %d rows with missing values", before-cleaned.Len()))
			}
		case "fillna":
			if pair.Value.Kind == reactloop.KindMap {
				for fp := pair.Value.Map.Oldest(); fp != nil; fp = fp.Next() {
					filled, err := cleaned.FillColumn(fp.Key, cellValue(fp.Value))
					if err != nil {
						continue
					}
					cleaned = filled
					parts = append(parts, fmt.Sprintf("Filled missing values in column '%s'", fp.Key))
				}
			} else {
				cleaned = cleaned.FillNA(cellValue(pair.Value))
				parts = append(parts, "Filled missing values in all columns")
			}
		case "drop_duplicates":
			if b, _ := pair.Value.AsBool(); b {
				before := cleaned.Len()
				cleaned = cleaned.DropDuplicates()
				parts = append(parts, fmt.Sprintf("Dropped %d duplicate rows", before-cleaned.Len()))
			}
		case "convert_types":
			if pair.Value.Kind != reactloop.KindMap {
				continue
			}
			for cp := pair.Value.Map.Oldest(); cp != nil; cp = cp.Next() {
				if !cleaned.HasColumn(cp.Key) {
					continue
				}
				kind := cp.Value.AsString()
				converted, err := cleaned.ConvertTypes(map[string]string{cp.Key: kind})
				if err != nil {
					parts = append(parts, fmt.Sprintf("Failed to convert '%s' to %s: %v", cp.Key, kind, err))
					continue
				}
				cleaned = converted
				parts = append(parts, fmt.Sprintf("Converted '%s' to %s", cp.Key, kind))
			}
		case "rename_columns":
			if pair.Value.Kind != reactloop.KindMap {
				continue
			}
			mapping := make(map[string]string)
			for rp := pair.Value.Map.Oldest(); rp != nil; rp = rp.Next() {
				mapping[rp.Key] = rp.Value.AsString()
			}
			renamed, err := cleaned.Rename(mapping)
			if err != nil {
				parts = append(parts, fmt.Sprintf("Failed to rename columns: %v", err))
				continue
			}
			cleaned = renamed
			parts = append(parts, fmt.Sprintf("Renamed %d columns", len(mapping)))
		case "drop_columns":
			names := pair.Value.AsStringList()
			var present []string
			for _, name := range names {
				if cleaned.HasColumn(name) {
					present = append(present, name)
				}
			}
			if len(present) == 0 {
				continue
			}
			dropped, err := cleaned.DropColumns(present)
			if err != nil {
				parts = append(parts, fmt.Sprintf("Failed to drop columns: %v", err))
				continue
			}
			cleaned = dropped
			parts = append(parts, "Dropped columns: "+strings.Join(present, ", "))
		}
	}

	if len(parts) == 0 {
		return cleaned, "No cleaning operations performed", nil
	}
	return cleaned, strings.Join(parts, "; "), nil
}

// cellValue lowers a parsed argument value to a frame cell.
func cellValue(v reactloop.Value) any {
	switch v.Kind {
	case reactloop.KindNumber:
		return v.Num
	case reactloop.KindBool:
		return v.Bool
	case reactloop.KindString:
		return v.Str
	default:
		return v.AsString()
	}
}

// HandleOutliers flags outliers in numeric columns using the iqr, zscore,
// or percentile method. Each inspected column gains a companion
// <name>_is_outlier boolean column.
func (t *Tools) HandleOutliers(ctx context.Context, args reactloop.Args) (any, string, error) {
	f, ok := frameArg(args, "df")
	if !ok {
		return nil, noFrameMessage, nil
	}

	method := stringArg(args, "method", "iqr")
	threshold := floatArg(args, "threshold", defaultThreshold(method))

	columns := stringListArg(args, "columns")
	if columns == nil {
		columns = f.NumericColumns()
	} else {
		var numeric []string
		for _, name := range columns {
			if f.HasColumn(name) && f.IsNumeric(name) {
				numeric = append(numeric, name)
			}
		}
		columns = numeric
	}
	if len(columns) == 0 {
		return f, "No numeric columns available for outlier detection", nil
	}

	out := f.Copy()
	var parts []string
	for _, name := range columns {
		flags, count, err := outlierFlags(f, name, method, threshold)
		if err != nil {
			return nil, fmt.Sprintf("Error identifying outliers: %v", err), nil
		}
		cells := make([]any, len(flags))
		for i, flag := range flags {
			cells[i] = flag
		}
		out, err = out.WithColumn(name+"_is_outlier", cells)
		if err != nil {
			return nil, fmt.Sprintf("Error identifying outliers: %v", err), nil
		}
		parts = append(parts, fmt.Sprintf("%s: %d", name, count))
	}

	msg := fmt.Sprintf("Identified outliers using %s method: %s", method, strings.Join(parts, ", "))
	return out, msg, nil
}

func defaultThreshold(method string) float64 {
	switch method {
	case "zscore":
		return 3
	case "percentile":
		return 0.01
	default:
		return 1.5
	}
}

// outlierFlags computes a per-row outlier flag for one column. Rows with
// missing or non-numeric cells are never flagged.
func outlierFlags(f *frame.Frame, column, method string, threshold float64) ([]bool, int, error) {
	values, rows, err := f.Float64Column(column)
	if err != nil {
		return nil, 0, err
	}
	flags := make([]bool, f.Len())
	if len(values) == 0 {
		return flags, 0, nil
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var isOutlier func(x float64) bool
	switch method {
	case "iqr":
		q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
		q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
		iqr := q3 - q1
		lower, upper := q1-threshold*iqr, q3+threshold*iqr
		isOutlier = func(x float64) bool { return x < lower || x > upper }
	case "zscore":
		mean := stat.Mean(values, nil)
		std := stat.StdDev(values, nil)
		if std == 0 || math.IsNaN(std) {
			isOutlier = func(float64) bool { return false }
		} else {
			isOutlier = func(x float64) bool { return math.Abs((x-mean)/std) > threshold }
		}
	case "percentile":
		lower := stat.Quantile(threshold, stat.Empirical, sorted, nil)
		upper := stat.Quantile(1-threshold, stat.Empirical, sorted, nil)
		isOutlier = func(x float64) bool { return x < lower || x > upper }
	default:
		return nil, 0, fmt.Errorf("unsupported method %q (use iqr, zscore, or percentile)", method)
	}

	count := 0
	for i, x := range values {
		if isOutlier(x) {
			flags[rows[i]] = true
			count++
		}
	}
	return flags, count, nil
}

// ExamineDataframe summarizes the dataset's shape, columns, and first rows.
func (t *Tools) ExamineDataframe(ctx context.Context, args reactloop.Args) (any, string, error) {
	f, ok := frameArg(args, "df")
	if !ok {
		return nil, noFrameMessage, nil
	}

	kinds := make([]string, 0, f.NumColumns())
	for _, name := range f.Columns() {
		if f.IsNumeric(name) {
			kinds = append(kinds, name+" (numeric)")
		} else {
			kinds = append(kinds, name+" (text)")
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "DataFrame has %d rows and %d columns: %s\n",
		f.Len(), f.NumColumns(), strings.Join(f.Columns(), ", "))
	fmt.Fprintf(&sb, "Column types: %s\n", strings.Join(kinds, ", "))
	sb.WriteString("First rows:\n")
	sb.WriteString(f.Render(5))

	info := map[string]any{
		"columns": f.Columns(),
		"rows":    f.Len(),
	}
	return info, sb.String(), nil
}
