package datatools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testToolsWithDirs(t *testing.T) *Tools {
	t.Helper()
	base := t.TempDir()
	tools := NewTools()
	tools.PlotDir = filepath.Join(base, "plots")
	tools.ReportDir = filepath.Join(base, "reports")
	return tools
}

func TestGeneratePlotScatter(t *testing.T) {
	tools := testToolsWithDirs(t)
	f := linearFrame(t)

	result, msg, err := tools.GeneratePlot(context.Background(),
		opArgs(t, `generate_plot(df=df, plot_type='scatter', x='x', y='double')`, f))
	require.NoError(t, err)
	assert.Contains(t, msg, "Generated scatter plot:")

	path := result.(string)
	assert.True(t, strings.HasSuffix(path, ".png"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestGeneratePlotHistogram(t *testing.T) {
	tools := testToolsWithDirs(t)
	f := testFrame(t)

	result, _, err := tools.GeneratePlot(context.Background(),
		opArgs(t, `generate_plot(df=df, plot_type='histogram', y='Units', bins=4)`, f))
	require.NoError(t, err)
	_, statErr := os.Stat(result.(string))
	assert.NoError(t, statErr)
}

func TestGeneratePlotUnsupportedType(t *testing.T) {
	tools := testToolsWithDirs(t)
	f := testFrame(t)

	result, msg, err := tools.GeneratePlot(context.Background(),
		opArgs(t, `generate_plot(df=df, plot_type='sunburst')`, f))
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, "Error: Unsupported plot type 'sunburst'", msg)
}

func TestGeneratePlotRequiresFrame(t *testing.T) {
	tools := testToolsWithDirs(t)

	_, msg, err := tools.GeneratePlot(context.Background(),
		opArgs(t, `generate_plot(df=df, plot_type='line')`, nil))
	require.NoError(t, err)
	assert.Equal(t, "Error: No DataFrame provided", msg)
}

func TestGenerateReport(t *testing.T) {
	tools := testToolsWithDirs(t)
	f := linearFrame(t)

	plotResult, _, err := tools.GeneratePlot(context.Background(),
		opArgs(t, `generate_plot(df=df, plot_type='line', y='double')`, f))
	require.NoError(t, err)
	plotPath := plotResult.(string)

	call := `generate_report(df=df, title='Sales Analysis', summary='Linear growth across the board.', plots=['` + plotPath + `'])`
	result, msg, err := tools.GenerateReport(context.Background(), opArgs(t, call, f))
	require.NoError(t, err)
	assert.Contains(t, msg, "Generated HTML report:")

	raw, err := os.ReadFile(result.(string))
	require.NoError(t, err)
	html := string(raw)
	assert.Contains(t, html, "Sales Analysis")
	assert.Contains(t, html, "Linear growth across the board.")
	assert.Contains(t, html, "data:image/png;base64,")
	assert.Contains(t, html, "double", "dataset table should be embedded")
}

func TestGenerateReportSkipsMissingPlots(t *testing.T) {
	tools := testToolsWithDirs(t)

	result, msg, err := tools.GenerateReport(context.Background(),
		opArgs(t, `generate_report(title='Empty', summary='Nothing to show.', plots=['missing.png'])`, nil))
	require.NoError(t, err)
	assert.Contains(t, msg, "skipped missing plots: missing.png")

	raw, err := os.ReadFile(result.(string))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "base64,")
}
