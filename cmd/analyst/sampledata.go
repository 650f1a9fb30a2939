package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martinemde/analyst/datatools"
)

var sampleDataCmd = &cobra.Command{
	Use:   "sample-data [path]",
	Short: "Write a synthetic sales workbook for trying things out",
	Long: `Write a deterministic synthetic sales dataset (1000 rows, with some
missing values) as an .xlsx workbook. The default path is data/sales_2023.xlsx.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "data/sales_2023.xlsx"
		if len(args) == 1 {
			path = args[0]
		}
		if err := datatools.WriteSampleData(path); err != nil {
			return err
		}
		fmt.Printf("Wrote sample sales data to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sampleDataCmd)
}
