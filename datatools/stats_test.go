package datatools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinemde/analyst/frame"
)

func linearFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.FromRecords(
		[]string{"x", "double", "negated", "label"},
		[][]any{
			{1.0, 2.0, -1.0, "a"},
			{2.0, 4.0, -2.0, "b"},
			{3.0, 6.0, -3.0, "a"},
			{4.0, 8.0, -4.0, "c"},
		},
	)
	require.NoError(t, err)
	return f
}

func TestComputeStatistics(t *testing.T) {
	tools := NewTools()
	f := testFrame(t)

	result, msg, err := tools.ComputeStatistics(context.Background(),
		opArgs(t, `compute_statistics(df=df)`, f))
	require.NoError(t, err)
	assert.Contains(t, msg, "Computed statistics for 3 columns (2 numeric, 1 categorical)")

	stats := result.(map[string]ColumnStats)
	require.Contains(t, stats, "Sales")
	sales := stats["Sales"]
	require.NotNil(t, sales.Numeric)
	assert.Equal(t, 5, sales.Numeric.Count)
	assert.Equal(t, 1, sales.Missing)
	assert.Equal(t, 430.0, sales.Numeric.Min)
	assert.Equal(t, 100000.0, sales.Numeric.Max)

	region := stats["Region"]
	assert.Equal(t, 5, region.Unique)
	assert.Equal(t, "North", region.TopValues[0].Value)
	assert.Equal(t, 2, region.TopValues[0].Count)
}

func TestComputeStatisticsUnknownColumn(t *testing.T) {
	tools := NewTools()
	f := testFrame(t)

	result, msg, err := tools.ComputeStatistics(context.Background(),
		opArgs(t, `compute_statistics(df=df, columns=['Price'])`, f))
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Contains(t, msg, "not found")
	assert.Contains(t, msg, "Available columns: Region, Sales, Units")
}

func TestComputeStatisticsSingleColumnString(t *testing.T) {
	tools := NewTools()
	f := testFrame(t)

	result, _, err := tools.ComputeStatistics(context.Background(),
		opArgs(t, `compute_statistics(df=df, columns='Sales')`, f))
	require.NoError(t, err)

	stats := result.(map[string]ColumnStats)
	assert.Len(t, stats, 1)
	assert.Contains(t, stats, "Sales")
}

func TestComputeCorrelationsPearson(t *testing.T) {
	tools := NewTools()
	f := linearFrame(t)

	result, msg, err := tools.ComputeCorrelations(context.Background(),
		opArgs(t, `compute_correlations(df=df, method='pearson')`, f))
	require.NoError(t, err)
	assert.Contains(t, msg, "Computed pearson correlations for 3 numeric columns")

	matrix := result.(*frame.Frame)
	cell, err := matrix.Cell(0, "double")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cell.(float64), 1e-9)

	cell, err = matrix.Cell(0, "negated")
	require.NoError(t, err)
	assert.InDelta(t, -1.0, cell.(float64), 1e-9)
}

func TestComputeCorrelationsSpearman(t *testing.T) {
	tools := NewTools()
	// Monotonic but nonlinear: spearman sees a perfect relation.
	f, err := frame.FromRecords(
		[]string{"x", "cubed"},
		[][]any{{1.0, 1.0}, {2.0, 8.0}, {3.0, 27.0}, {4.0, 64.0}},
	)
	require.NoError(t, err)

	result, _, opErr := tools.ComputeCorrelations(context.Background(),
		opArgs(t, `compute_correlations(df=df, method='spearman')`, f))
	require.NoError(t, opErr)

	matrix := result.(*frame.Frame)
	cell, err := matrix.Cell(0, "cubed")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cell.(float64), 1e-9)
}

func TestComputeCorrelationsInvalidMethod(t *testing.T) {
	tools := NewTools()
	f := linearFrame(t)

	result, msg, err := tools.ComputeCorrelations(context.Background(),
		opArgs(t, `compute_correlations(df=df, method='cosine')`, f))
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Contains(t, msg, "Invalid correlation method 'cosine'")
}

func TestComputeCorrelationsNeedsTwoNumericColumns(t *testing.T) {
	tools := NewTools()
	f, err := frame.FromRecords([]string{"x", "label"}, [][]any{{1.0, "a"}, {2.0, "b"}})
	require.NoError(t, err)

	result, msg, opErr := tools.ComputeCorrelations(context.Background(),
		opArgs(t, `compute_correlations(df=df)`, f))
	require.NoError(t, opErr)
	assert.Nil(t, result)
	assert.Contains(t, msg, "Not enough numeric columns")
}

func TestIdentifyImportantFeatures(t *testing.T) {
	tools := NewTools()
	f := linearFrame(t)

	result, msg, err := tools.IdentifyImportantFeatures(context.Background(),
		opArgs(t, `identify_important_features(df=df, target_column='x')`, f))
	require.NoError(t, err)
	assert.Contains(t, msg, "feature importance based on correlation with 'x'")

	importance := result.(map[string]float64)
	assert.InDelta(t, 1.0, importance["double"], 1e-9)
	assert.InDelta(t, 1.0, importance["negated"], 1e-9)
}

func TestIdentifyImportantFeaturesNonNumericTarget(t *testing.T) {
	tools := NewTools()
	f := linearFrame(t)

	result, msg, err := tools.IdentifyImportantFeatures(context.Background(),
		opArgs(t, `identify_important_features(df=df, target_column='label')`, f))
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Contains(t, msg, "must be numeric")
}
