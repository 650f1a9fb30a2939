package datatools

import (
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/martinemde/analyst/reactloop"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; margin: 0; padding: 20px; color: #333; }
h1, h2 { color: #2c3e50; }
.container { max-width: 1200px; margin: 0 auto; }
.summary { background: #f8f9fa; border-left: 4px solid #2c3e50; padding: 12px 16px; white-space: pre-wrap; }
.plot { margin: 24px 0; text-align: center; }
.plot img { max-width: 100%; border: 1px solid #ddd; }
pre.table { background: #f8f9fa; padding: 12px; overflow-x: auto; }
.footer { margin-top: 32px; font-size: 0.85em; color: #888; }
</style>
</head>
<body>
<div class="container">
<h1>{{.Title}}</h1>
<h2>Summary</h2>
<div class="summary">{{.Summary}}</div>
{{range .Plots}}
<div class="plot"><img src="data:image/png;base64,{{.}}" alt="plot"></div>
{{end}}
{{if .Table}}
<h2>Data</h2>
<pre class="table">{{.Table}}</pre>
{{end}}
<div class="footer">Generated {{.GeneratedAt}}</div>
</div>
</body>
</html>
`))

type reportData struct {
	Title       string
	Summary     string
	Plots       []string
	Table       string
	GeneratedAt string
}

// GenerateReport writes an HTML report: a title, a text summary, any
// generated plots embedded as base64 images, and optionally the current
// dataset's first rows (pass df=df to include them).
func (t *Tools) GenerateReport(ctx context.Context, args reactloop.Args) (any, string, error) {
	title := stringArg(args, "title", "Analysis Report")
	summary := stringArg(args, "summary", "")

	var encoded []string
	var skipped []string
	for _, path := range stringListArg(args, "plots") {
		raw, err := os.ReadFile(path)
		if err != nil {
			skipped = append(skipped, path)
			continue
		}
		encoded = append(encoded, base64.StdEncoding.EncodeToString(raw))
	}

	var table string
	if f, ok := frameArg(args, "df"); ok {
		table = f.Render(20)
	}

	if err := os.MkdirAll(t.ReportDir, 0o755); err != nil {
		return nil, fmt.Sprintf("Error generating report: %v", err), nil
	}
	name := fmt.Sprintf("report_%s_%s.html", time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	path := filepath.Join(t.ReportDir, name)

	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Sprintf("Error generating report: %v", err), nil
	}
	defer out.Close()

	err = reportTemplate.Execute(out, reportData{
		Title:       title,
		Summary:     summary,
		Plots:       encoded,
		Table:       table,
		GeneratedAt: time.Now().Format(time.RFC1123),
	})
	if err != nil {
		return nil, fmt.Sprintf("Error generating report: %v", err), nil
	}

	msg := fmt.Sprintf("Generated HTML report: %s", path)
	if len(skipped) > 0 {
		msg += fmt.Sprintf(" (skipped missing plots: %s)", strings.Join(skipped, ", "))
	}
	return path, msg, nil
}
