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

// ColumnStats holds the summary for one column.
type ColumnStats struct {
	Missing    int           `json:"missing"`
	MissingPct float64       `json:"missing_pct"`
	Numeric    *NumericStats `json:"numeric,omitempty"`
	TopValues  []ValueCount  `json:"top_values,omitempty"`
	Unique     int           `json:"unique,omitempty"`
}

// NumericStats is the describe() block for a numeric column.
type NumericStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// ValueCount is one entry of a categorical frequency table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ComputeStatistics summarizes the selected columns: missing counts,
// numeric describe blocks, and top values for categorical columns.
func (t *Tools) ComputeStatistics(ctx context.Context, args reactloop.Args) (any, string, error) {
	f, ok := frameArg(args, "df")
	if !ok {
		return nil, noFrameMessage, nil
	}
	if f.Len() == 0 {
		return nil, "Error: DataFrame is empty", nil
	}

	columns := stringListArg(args, "columns")
	if columns == nil {
		columns = f.Columns()
	} else {
		var invalid []string
		for _, name := range columns {
			if !f.HasColumn(name) {
				invalid = append(invalid, name)
			}
		}
		if len(invalid) > 0 {
			return nil, fmt.Sprintf("Error: Columns %v not found. Available columns: %s",
				invalid, strings.Join(f.Columns(), ", ")), nil
		}
	}

	missing := f.CountMissing()
	result := make(map[string]ColumnStats, len(columns))
	numericCount := 0

	var sb strings.Builder
	for _, name := range columns {
		cs := ColumnStats{
			Missing:    missing[name],
			MissingPct: round2(float64(missing[name]) / float64(f.Len()) * 100),
		}
		if f.IsNumeric(name) {
			numericCount++
			values, _, err := f.Float64Column(name)
			if err == nil && len(values) > 0 {
				cs.Numeric = describe(values)
				fmt.Fprintf(&sb, "%s: count=%d mean=%.4g std=%.4g min=%.4g median=%.4g max=%.4g missing=%d\n",
					name, cs.Numeric.Count, cs.Numeric.Mean, cs.Numeric.Std,
					cs.Numeric.Min, cs.Numeric.Median, cs.Numeric.Max, cs.Missing)
			}
		} else {
			cs.TopValues, cs.Unique = topValues(f, name, 10)
			tops := make([]string, 0, len(cs.TopValues))
			for _, vc := range cs.TopValues {
				tops = append(tops, fmt.Sprintf("%s (%d)", vc.Value, vc.Count))
			}
			fmt.Fprintf(&sb, "%s: %d unique, top: %s, missing=%d\n",
				name, cs.Unique, strings.Join(tops, ", "), cs.Missing)
		}
		result[name] = cs
	}

	msg := fmt.Sprintf("Computed statistics for %d columns (%d numeric, %d categorical)\n%s",
		len(columns), numericCount, len(columns)-numericCount, sb.String())
	return result, msg, nil
}

func describe(values []float64) *NumericStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return &NumericStats{
		Count:  len(values),
		Mean:   round4(stat.Mean(values, nil)),
		Std:    round4(stat.StdDev(values, nil)),
		Min:    sorted[0],
		Q25:    round4(stat.Quantile(0.25, stat.Empirical, sorted, nil)),
		Median: round4(stat.Quantile(0.5, stat.Empirical, sorted, nil)),
		Q75:    round4(stat.Quantile(0.75, stat.Empirical, sorted, nil)),
		Max:    sorted[len(sorted)-1],
	}
}

// topValues returns the n most frequent values of a column and the unique
// count. Ties break alphabetically for determinism.
func topValues(f *frame.Frame, name string, n int) ([]ValueCount, int) {
	cells, err := f.Column(name)
	if err != nil {
		return nil, 0
	}
	counts := make(map[string]int)
	for _, cell := range cells {
		if cell == nil {
			continue
		}
		counts[fmt.Sprintf("%v", cell)]++
	}
	out := make([]ValueCount, 0, len(counts))
	for value, count := range counts {
		out = append(out, ValueCount{Value: value, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	unique := len(out)
	if len(out) > n {
		out = out[:n]
	}
	return out, unique
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
func round4(x float64) float64 { return math.Round(x*10000) / 10000 }

// ComputeCorrelations builds a correlation matrix over the numeric columns
// using the pearson, spearman, or kendall method. The matrix is returned
// as a Frame, so it becomes the current dataset and can feed a heatmap or
// report.
func (t *Tools) ComputeCorrelations(ctx context.Context, args reactloop.Args) (any, string, error) {
	f, ok := frameArg(args, "df")
	if !ok {
		return nil, noFrameMessage, nil
	}

	method := stringArg(args, "method", "pearson")
	switch method {
	case "pearson", "spearman", "kendall":
	default:
		return nil, fmt.Sprintf("Error: Invalid correlation method '%s'. Valid options are: pearson, spearman, kendall", method), nil
	}

	numeric := f.NumericColumns()
	if len(numeric) < 2 {
		return nil, "Error: Not enough numeric columns for correlation analysis", nil
	}

	matrix, err := frame.New(append([]string{"column"}, numeric...))
	if err != nil {
		return nil, fmt.Sprintf("Error computing correlations: %v", err), nil
	}
	for _, a := range numeric {
		row := make([]any, 0, len(numeric)+1)
		row = append(row, a)
		for _, b := range numeric {
			r, err := correlate(f, a, b, method)
			if err != nil {
				return nil, fmt.Sprintf("Error computing correlations: %v", err), nil
			}
			row = append(row, round4(r))
		}
		if err := matrix.AppendRow(row); err != nil {
			return nil, fmt.Sprintf("Error computing correlations: %v", err), nil
		}
	}

	msg := fmt.Sprintf("Computed %s correlations for %d numeric columns\n%s",
		method, len(numeric), matrix.Render(len(numeric)))
	return matrix, msg, nil
}

// correlate computes one pairwise correlation coefficient.
func correlate(f *frame.Frame, a, b, method string) (float64, error) {
	xs, ys, err := f.AlignedFloat64Columns(a, b)
	if err != nil {
		return 0, err
	}
	if len(xs) < 2 {
		return math.NaN(), nil
	}
	switch method {
	case "pearson":
		return stat.Correlation(xs, ys, nil), nil
	case "spearman":
		return stat.Correlation(ranks(xs), ranks(ys), nil), nil
	case "kendall":
		return stat.Kendall(xs, ys, nil), nil
	default:
		return 0, fmt.Errorf("unsupported method %q", method)
	}
}

// ranks converts values to fractional ranks (ties share the average rank).
func ranks(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return values[idx[i]] < values[idx[j]] })

	out := make([]float64, len(values))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}

// IdentifyImportantFeatures ranks the numeric columns by the absolute
// value of their correlation with a numeric target column.
func (t *Tools) IdentifyImportantFeatures(ctx context.Context, args reactloop.Args) (any, string, error) {
	f, ok := frameArg(args, "df")
	if !ok {
		return nil, noFrameMessage, nil
	}

	target := stringArg(args, "target_column", "")
	if target == "" {
		return nil, "Error: target_column is required", nil
	}
	if !f.HasColumn(target) {
		return nil, fmt.Sprintf("Error: Target column '%s' not found in DataFrame", target), nil
	}
	if !f.IsNumeric(target) {
		return nil, fmt.Sprintf("Error: Target column '%s' must be numeric for this analysis", target), nil
	}

	numeric := f.NumericColumns()
	if len(numeric) < 2 {
		return nil, "Error: Not enough numeric columns for feature importance analysis", nil
	}

	type feature struct {
		name string
		corr float64
	}
	var features []feature
	for _, name := range numeric {
		if name == target {
			continue
		}
		r, err := correlate(f, name, target, "pearson")
		if err != nil {
			return nil, fmt.Sprintf("Error computing feature importance: %v", err), nil
		}
		features = append(features, feature{name: name, corr: r})
	}
	sort.Slice(features, func(i, j int) bool {
		return math.Abs(features[i].corr) > math.Abs(features[j].corr)
	})

	result := make(map[string]float64, len(features))
	var sb strings.Builder
	for i, feat := range features {
		result[feat.name] = round4(math.Abs(feat.corr))
		fmt.Fprintf(&sb, "%d. %s: %.4f\n", i+1, feat.name, math.Abs(feat.corr))
	}

	msg := fmt.Sprintf("Identified feature importance based on correlation with '%s'\n%s", target, sb.String())
	return result, msg, nil
}
