package datatools

import (
	"github.com/martinemde/analyst/frame"
	"github.com/martinemde/analyst/llmclient"
	"github.com/martinemde/analyst/reactloop"
)

// Tools holds the configuration shared by all operations.
type Tools struct {
	PlotDir    string
	ReportDir  string
	DefaultDSN string
}

// NewTools creates a Tools with the default output locations.
func NewTools() *Tools {
	return &Tools{
		PlotDir:    "output/plots",
		ReportDir:  "output/reports",
		DefaultDSN: "data/analyst.db",
	}
}

// IsFrame is the dataset predicate for the loop: any operation returning a
// *frame.Frame replaces the current dataset.
func IsFrame(result any) bool {
	_, ok := result.(*frame.Frame)
	return ok
}

// Register adds every analysis operation to the registry.
func (t *Tools) Register(reg *reactloop.Registry) error {
	ops := map[string]reactloop.Operation{
		"read_excel":                  t.ReadExcel,
		"list_excel_sheets":           t.ListExcelSheets,
		"read_sql":                    t.ReadSQL,
		"clean_data":                  t.CleanData,
		"handle_outliers":             t.HandleOutliers,
		"examine_dataframe":           t.ExamineDataframe,
		"compute_statistics":          t.ComputeStatistics,
		"compute_correlations":        t.ComputeCorrelations,
		"identify_important_features": t.IdentifyImportantFeatures,
		"generate_plot":               t.GeneratePlot,
		"generate_report":             t.GenerateReport,
	}
	for name, op := range ops {
		if err := reg.Register(name, op); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry creates a registry with the frame dataset predicate and all
// operations registered.
func (t *Tools) NewRegistry() (*reactloop.Registry, error) {
	reg := reactloop.NewRegistry(IsFrame)
	if err := t.Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// Docs describes the operations for the completion system prompt, in the
// order they are usually applied.
func Docs() []llmclient.OperationDoc {
	return []llmclient.OperationDoc{
		{Signature: "read_excel(file_path, sheet_name)", Description: "Read data from an Excel file"},
		{Signature: "list_excel_sheets(file_path)", Description: "List all sheets in an Excel file"},
		{Signature: "read_sql(query, dsn)", Description: "Read data from a SQLite database"},
		{Signature: "examine_dataframe(df)", Description: "Examine dataset structure and columns"},
		{Signature: "clean_data(df, operations)", Description: "Clean the dataset (dropna, fillna, drop_duplicates, convert_types, rename_columns, drop_columns)"},
		{Signature: "handle_outliers(df, columns, method, threshold)", Description: "Flag outliers using iqr, zscore, or percentile"},
		{Signature: "compute_statistics(df, columns)", Description: "Compute summary statistics"},
		{Signature: "compute_correlations(df, method)", Description: "Compute a correlation matrix (pearson, spearman, kendall)"},
		{Signature: "identify_important_features(df, target_column)", Description: "Rank features by correlation with a target column"},
		{Signature: "generate_plot(df, plot_type, x, y)", Description: "Generate a visualization (line, bar, scatter, histogram, boxplot)"},
		{Signature: "generate_report(title, summary, plots, df)", Description: "Create an HTML report"},
	}
}
