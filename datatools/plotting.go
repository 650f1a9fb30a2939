package datatools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/martinemde/analyst/frame"
	"github.com/martinemde/analyst/reactloop"
)

// GeneratePlot renders the dataset as a PNG under the configured plot
// directory. plot_type selects line, bar, scatter, histogram, or boxplot;
// x and y name the columns to draw.
func (t *Tools) GeneratePlot(ctx context.Context, args reactloop.Args) (any, string, error) {
	f, ok := frameArg(args, "df")
	if !ok {
		return nil, noFrameMessage, nil
	}
	if f.Len() == 0 {
		return nil, "Error: DataFrame is empty", nil
	}

	plotType := stringArg(args, "plot_type", "")
	if plotType == "" {
		return nil, "Error: plot_type is required (line, bar, scatter, histogram, boxplot)", nil
	}

	p := plot.New()
	title := stringArg(args, "title", "")
	if title == "" {
		title = strings.ToUpper(plotType[:1]) + plotType[1:] + " Plot"
	}
	p.Title.Text = title
	p.X.Label.Text = stringArg(args, "xlabel", stringArg(args, "x", ""))
	p.Y.Label.Text = stringArg(args, "ylabel", stringArg(args, "y", ""))

	var err error
	switch plotType {
	case "line":
		err = addLine(p, f, args)
	case "bar":
		err = addBars(p, f, args)
	case "scatter":
		err = addScatter(p, f, args)
	case "histogram":
		err = addHistogram(p, f, args)
	case "boxplot":
		err = addBoxPlot(p, f, args)
	default:
		return nil, fmt.Sprintf("Error: Unsupported plot type '%s'", plotType), nil
	}
	if err != nil {
		return nil, fmt.Sprintf("Error generating %s plot: %v", plotType, err), nil
	}

	if err := os.MkdirAll(t.PlotDir, 0o755); err != nil {
		return nil, fmt.Sprintf("Error generating %s plot: %v", plotType, err), nil
	}
	name := fmt.Sprintf("%s_%s_%s.png", plotType, time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	path := filepath.Join(t.PlotDir, name)

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return nil, fmt.Sprintf("Error generating %s plot: %v", plotType, err), nil
	}
	return path, fmt.Sprintf("Generated %s plot: %s", plotType, path), nil
}

// yColumn resolves the y argument, defaulting to the first numeric column.
func yColumn(f *frame.Frame, args reactloop.Args) (string, error) {
	name := stringArg(args, "y", "")
	if name == "" {
		numeric := f.NumericColumns()
		if len(numeric) == 0 {
			return "", fmt.Errorf("no numeric columns to plot")
		}
		return numeric[0], nil
	}
	if !f.HasColumn(name) {
		return "", fmt.Errorf("no column %q", name)
	}
	if !f.IsNumeric(name) {
		return "", fmt.Errorf("column %q is not numeric", name)
	}
	return name, nil
}

// xyPoints builds plotter points from the x and y columns. With no x
// column, the row index is the x axis.
func xyPoints(f *frame.Frame, args reactloop.Args) (plotter.XYs, error) {
	y, err := yColumn(f, args)
	if err != nil {
		return nil, err
	}
	x := stringArg(args, "x", "")
	if x == "" || !f.IsNumeric(x) {
		values, _, err := f.Float64Column(y)
		if err != nil {
			return nil, err
		}
		pts := make(plotter.XYs, len(values))
		for i, v := range values {
			pts[i] = plotter.XY{X: float64(i), Y: v}
		}
		return pts, nil
	}

	xs, ys, err := f.AlignedFloat64Columns(x, y)
	if err != nil {
		return nil, err
	}
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	return pts, nil
}

func addLine(p *plot.Plot, f *frame.Frame, args reactloop.Args) error {
	pts, err := xyPoints(f, args)
	if err != nil {
		return err
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)
	p.Add(plotter.NewGrid())
	return nil
}

func addScatter(p *plot.Plot, f *frame.Frame, args reactloop.Args) error {
	pts, err := xyPoints(f, args)
	if err != nil {
		return err
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	p.Add(scatter)
	p.Add(plotter.NewGrid())
	return nil
}

// addBars draws one bar per row, labeled by the x column when it exists.
// Label counts are capped so axes stay readable.
func addBars(p *plot.Plot, f *frame.Frame, args reactloop.Args) error {
	y, err := yColumn(f, args)
	if err != nil {
		return err
	}
	values, rows, err := f.Float64Column(y)
	if err != nil {
		return err
	}
	const maxBars = 50
	if len(values) > maxBars {
		values = values[:maxBars]
		rows = rows[:maxBars]
	}

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(20))
	if err != nil {
		return err
	}
	p.Add(bars)

	if x := stringArg(args, "x", ""); x != "" && f.HasColumn(x) {
		labels := make([]string, len(rows))
		for i, r := range rows {
			cell, _ := f.Cell(r, x)
			labels[i] = fmt.Sprintf("%v", cell)
		}
		p.NominalX(labels...)
	}
	return nil
}

func addHistogram(p *plot.Plot, f *frame.Frame, args reactloop.Args) error {
	y, err := yColumn(f, args)
	if err != nil {
		return err
	}
	values, _, err := f.Float64Column(y)
	if err != nil {
		return err
	}
	bins := intArg(args, "bins", 16)
	hist, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return err
	}
	p.Add(hist)
	return nil
}

func addBoxPlot(p *plot.Plot, f *frame.Frame, args reactloop.Args) error {
	columns := stringListArg(args, "columns")
	if columns == nil {
		columns = f.NumericColumns()
	}
	if len(columns) == 0 {
		return fmt.Errorf("no numeric columns to plot")
	}

	for i, name := range columns {
		if !f.IsNumeric(name) {
			return fmt.Errorf("column %q is not numeric", name)
		}
		values, _, err := f.Float64Column(name)
		if err != nil {
			return err
		}
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(i), plotter.Values(values))
		if err != nil {
			return err
		}
		p.Add(box)
	}
	p.NominalX(columns...)
	return nil
}
