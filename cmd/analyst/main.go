// Analyst is a conversational data analysis agent. It loads tabular data
// from Excel workbooks or a SQLite database, then reasons step by step
// with an LLM to clean, analyze, plot, and report on it.
//
// Usage:
//
//	analyst run "Analyze the sales data in data/sales_2023.xlsx"
//	analyst exec "read_excel(file_path='data/sales_2023.xlsx')"
//	analyst sample-data [path]
package main

func main() {
	Execute()
}
