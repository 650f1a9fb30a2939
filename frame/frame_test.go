package frame

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salesFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := FromRecords(
		[]string{"Region", "Sales", "Units"},
		[][]any{
			{"North", 1200.0, 10},
			{"South", nil, 7},
			{"East", 950.5, nil},
			{"North", 1200.0, 10},
			{"West", 430.0, 3},
		},
	)
	require.NoError(t, err)
	return f
}

func TestNewRejectsDuplicateColumns(t *testing.T) {
	_, err := New([]string{"a", "b", "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column")
}

func TestAppendRowArity(t *testing.T) {
	f, err := New([]string{"a", "b"})
	require.NoError(t, err)
	assert.Error(t, f.AppendRow([]any{1}))
	assert.NoError(t, f.AppendRow([]any{1, 2}))
	assert.Equal(t, 1, f.Len())
}

func TestColumnAccess(t *testing.T) {
	f := salesFrame(t)

	assert.Equal(t, []string{"Region", "Sales", "Units"}, f.Columns())
	assert.Equal(t, 5, f.Len())

	sales, err := f.Column("Sales")
	require.NoError(t, err)
	assert.Equal(t, 1200.0, sales[0])
	assert.Nil(t, sales[1])

	_, err = f.Column("Price")
	assert.Error(t, err)

	cell, err := f.Cell(4, "Region")
	require.NoError(t, err)
	assert.Equal(t, "West", cell)
}

func TestDropNA(t *testing.T) {
	f := salesFrame(t)
	clean := f.DropNA()

	assert.Equal(t, 3, clean.Len())
	assert.Equal(t, 5, f.Len(), "receiver must be untouched")
	for name, count := range clean.CountMissing() {
		assert.Zero(t, count, "column %s still has missing values", name)
	}
}

func TestFillNA(t *testing.T) {
	f := salesFrame(t)
	filled := f.FillNA(0)

	for name, count := range filled.CountMissing() {
		assert.Zero(t, count, "column %s still has missing values", name)
	}
	cell, err := filled.Cell(1, "Sales")
	require.NoError(t, err)
	assert.Equal(t, 0, cell)
}

func TestDropDuplicates(t *testing.T) {
	f := salesFrame(t)
	deduped := f.DropDuplicates()
	assert.Equal(t, 4, deduped.Len())
}

func TestRename(t *testing.T) {
	f := salesFrame(t)
	renamed, err := f.Rename(map[string]string{"Sales": "Revenue", "Missing": "Ignored"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Region", "Revenue", "Units"}, renamed.Columns())
	assert.False(t, renamed.HasColumn("Sales"))
}

func TestDropColumns(t *testing.T) {
	f := salesFrame(t)

	slim, err := f.DropColumns([]string{"Units"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Region", "Sales"}, slim.Columns())

	_, err = f.DropColumns([]string{"Nope"})
	assert.Error(t, err)
}

func TestConvertTypes(t *testing.T) {
	f, err := FromRecords(
		[]string{"id", "score"},
		[][]any{
			{"1", "9.5"},
			{"2", "bad"},
		},
	)
	require.NoError(t, err)

	converted, err := f.ConvertTypes(map[string]string{"id": "int", "score": "float"})
	require.NoError(t, err)

	id, _ := converted.Cell(0, "id")
	assert.Equal(t, 1, id)
	score, _ := converted.Cell(0, "score")
	assert.Equal(t, 9.5, score)

	// Unconvertible cells become missing.
	bad, _ := converted.Cell(1, "score")
	assert.Nil(t, bad)

	_, err = f.ConvertTypes(map[string]string{"id": "complex"})
	assert.Error(t, err)
}

func TestFloat64Column(t *testing.T) {
	f := salesFrame(t)

	values, rows, err := f.Float64Column("Sales")
	require.NoError(t, err)
	assert.Equal(t, []float64{1200, 950.5, 1200, 430}, values)
	assert.Equal(t, []int{0, 2, 3, 4}, rows)
}

func TestNumericColumns(t *testing.T) {
	f := salesFrame(t)
	assert.Equal(t, []string{"Sales", "Units"}, f.NumericColumns())
	assert.False(t, f.IsNumeric("Region"))
}

func TestAlignedFloat64Columns(t *testing.T) {
	f := salesFrame(t)

	xs, ys, err := f.AlignedFloat64Columns("Sales", "Units")
	require.NoError(t, err)
	// Rows 1 (nil Sales) and 2 (nil Units) drop out.
	assert.Equal(t, []float64{1200, 1200, 430}, xs)
	assert.Equal(t, []float64{10, 10, 3}, ys)
}

func TestSelectAndHead(t *testing.T) {
	f := salesFrame(t)

	sel, err := f.Select([]string{"Sales", "Region"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Sales", "Region"}, sel.Columns())
	cell, _ := sel.Cell(0, "Sales")
	assert.Equal(t, 1200.0, cell)

	head := f.Head(2)
	assert.Equal(t, 2, head.Len())
}

func TestRender(t *testing.T) {
	f := salesFrame(t)
	out := f.Render(2)

	assert.True(t, strings.HasPrefix(out, "Region"))
	assert.Contains(t, out, "North")
	assert.Contains(t, out, "... 3 more rows")
}
