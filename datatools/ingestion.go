package datatools

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	_ "modernc.org/sqlite"

	"github.com/martinemde/analyst/frame"
	"github.com/martinemde/analyst/reactloop"
)

// ReadExcel loads a worksheet into a Frame. sheet_name selects a sheet by
// name or zero-based index; it defaults to the first sheet. The first row
// is the header.
func (t *Tools) ReadExcel(ctx context.Context, args reactloop.Args) (any, string, error) {
	path := stringArg(args, "file_path", "")
	if path == "" {
		return nil, "Error: file_path is required", nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Sprintf("Error: File %s does not exist", path), nil
	}

	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Sprintf("Error loading Excel file: %v", err), nil
	}
	defer wb.Close()

	sheet, err := resolveSheet(wb, args)
	if err != nil {
		return nil, fmt.Sprintf("Error loading Excel file: %v", err), nil
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Sprintf("Error loading Excel file: %v", err), nil
	}
	if len(rows) == 0 {
		return nil, fmt.Sprintf("Error: sheet %q is empty", sheet), nil
	}

	header := rows[0]
	f, err := frame.New(header)
	if err != nil {
		return nil, fmt.Sprintf("Error loading Excel file: %v", err), nil
	}
	for _, row := range rows[1:] {
		cells := make([]any, len(header))
		for i := range header {
			if i < len(row) {
				cells[i] = typedCell(row[i])
			}
		}
		if err := f.AppendRow(cells); err != nil {
			return nil, fmt.Sprintf("Error loading Excel file: %v", err), nil
		}
	}

	msg := fmt.Sprintf("Successfully loaded data with %d rows and %d columns", f.Len(), f.NumColumns())
	return f, msg, nil
}

// resolveSheet picks a sheet by name or index from the sheet_name arg.
func resolveSheet(wb *excelize.File, args reactloop.Args) (string, error) {
	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}

	v, ok := args.Get("sheet_name")
	if !ok {
		return sheets[0], nil
	}
	if n, isNum := v.AsInt(); isNum && v.Kind == reactloop.KindNumber {
		if n < 0 || n >= len(sheets) {
			return "", fmt.Errorf("sheet index %d out of range (%d sheets)", n, len(sheets))
		}
		return sheets[n], nil
	}

	name := stringArg(args, "sheet_name", "")
	for _, s := range sheets {
		if s == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("no sheet %q (have: %s)", name, strings.Join(sheets, ", "))
}

// typedCell converts an Excel cell string to a typed value. Empty cells
// become missing values.
func typedCell(s string) any {
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return s
}

// ListExcelSheets lists the worksheet names in a workbook.
func (t *Tools) ListExcelSheets(ctx context.Context, args reactloop.Args) (any, string, error) {
	path := stringArg(args, "file_path", "")
	if path == "" {
		return nil, "Error: file_path is required", nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Sprintf("Error: File %s does not exist", path), nil
	}

	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Sprintf("Error listing Excel sheets: %v", err), nil
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	msg := fmt.Sprintf("Found %d sheets in the Excel file: %s", len(sheets), strings.Join(sheets, ", "))
	return sheets, msg, nil
}

// ReadSQL runs a query against a SQLite database and loads the result set
// into a Frame. dsn defaults to the configured database path.
func (t *Tools) ReadSQL(ctx context.Context, args reactloop.Args) (any, string, error) {
	query := stringArg(args, "query", "")
	if query == "" {
		return nil, "Error: query is required", nil
	}
	dsn := stringArg(args, "dsn", t.DefaultDSN)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Sprintf("Error executing SQL query: %v", err), nil
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Sprintf("Error executing SQL query: %v", err), nil
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Sprintf("Error executing SQL query: %v", err), nil
	}
	f, err := frame.New(columns)
	if err != nil {
		return nil, fmt.Sprintf("Error executing SQL query: %v", err), nil
	}

	for rows.Next() {
		scan := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range scan {
			ptrs[i] = &scan[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Sprintf("Error executing SQL query: %v", err), nil
		}
		cells := make([]any, len(columns))
		for i, v := range scan {
			cells[i] = sqlCell(v)
		}
		if err := f.AppendRow(cells); err != nil {
			return nil, fmt.Sprintf("Error executing SQL query: %v", err), nil
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Sprintf("Error executing SQL query: %v", err), nil
	}

	msg := fmt.Sprintf("Successfully loaded data with %d rows and %d columns from database", f.Len(), f.NumColumns())
	return f, msg, nil
}

// sqlCell normalizes driver values into frame cells.
func sqlCell(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(x)
	case int64:
		return float64(x)
	default:
		return x
	}
}
