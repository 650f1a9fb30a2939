package datatools

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinemde/analyst/frame"
)

func sampleWorkbook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, WriteSampleData(path))
	return path
}

func TestReadExcel(t *testing.T) {
	tools := NewTools()
	path := sampleWorkbook(t)

	result, msg, err := tools.ReadExcel(context.Background(),
		opArgs(t, fmt.Sprintf(`read_excel(file_path='%s')`, path), nil))
	require.NoError(t, err)
	assert.Equal(t, "Successfully loaded data with 1000 rows and 9 columns", msg)

	f := result.(*frame.Frame)
	assert.True(t, f.HasColumn("Total_Sales"))
	assert.True(t, f.IsNumeric("Unit_Price"))
	assert.True(t, IsFrame(result))

	// The generator leaves some ages and genders blank.
	missing := f.CountMissing()
	assert.Equal(t, 50, missing["Customer_Age"])
	assert.Equal(t, 50, missing["Customer_Gender"])
}

func TestReadExcelMissingFile(t *testing.T) {
	tools := NewTools()

	result, msg, err := tools.ReadExcel(context.Background(),
		opArgs(t, `read_excel(file_path='nope.xlsx')`, nil))
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, "Error: File nope.xlsx does not exist", msg)
}

func TestReadExcelBadSheet(t *testing.T) {
	tools := NewTools()
	path := sampleWorkbook(t)

	result, msg, err := tools.ReadExcel(context.Background(),
		opArgs(t, fmt.Sprintf(`read_excel(file_path='%s', sheet_name='Bogus')`, path), nil))
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Contains(t, msg, "no sheet")
}

func TestListExcelSheets(t *testing.T) {
	tools := NewTools()
	path := sampleWorkbook(t)

	result, msg, err := tools.ListExcelSheets(context.Background(),
		opArgs(t, fmt.Sprintf(`list_excel_sheets(file_path='%s')`, path), nil))
	require.NoError(t, err)
	assert.Contains(t, msg, "Found 1 sheets in the Excel file")

	sheets := result.([]string)
	assert.Len(t, sheets, 1)
}

func TestReadSQL(t *testing.T) {
	tools := NewTools()
	dsn := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE sales (region TEXT, amount REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sales VALUES ('North', 1200), ('South', 430), ('East', NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	result, msg, opErr := tools.ReadSQL(context.Background(),
		opArgs(t, fmt.Sprintf(`read_sql(query='SELECT region, amount FROM sales', dsn='%s')`, dsn), nil))
	require.NoError(t, opErr)
	assert.Equal(t, "Successfully loaded data with 3 rows and 2 columns from database", msg)

	f := result.(*frame.Frame)
	cell, err := f.Cell(0, "region")
	require.NoError(t, err)
	assert.Equal(t, "North", cell)
	cell, err = f.Cell(2, "amount")
	require.NoError(t, err)
	assert.Nil(t, cell)
}

func TestReadSQLBadQuery(t *testing.T) {
	tools := NewTools()
	dsn := filepath.Join(t.TempDir(), "empty.db")

	result, msg, err := tools.ReadSQL(context.Background(),
		opArgs(t, fmt.Sprintf(`read_sql(query='SELECT nope FROM missing', dsn='%s')`, dsn), nil))
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Contains(t, msg, "Error executing SQL query")
}
