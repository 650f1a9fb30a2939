package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/martinemde/analyst/datatools"
	"github.com/martinemde/analyst/frame"
	"github.com/martinemde/analyst/reactloop"
)

var execCmd = &cobra.Command{
	Use:   "exec <action> [action...]",
	Short: "Execute operations directly, without the model",
	Long: `Execute one or more operations written in the same action syntax
the model uses. Operations run in order and any dataset a step produces
is available to the next step as df. Useful for scripting and debugging.`,
	Example: `
# Load and inspect a workbook
analyst exec "read_excel(file_path='data/sales_2023.xlsx')" "examine_dataframe(df=df)"

# Run a query against the configured database
analyst exec "read_sql(query='SELECT * FROM sales LIMIT 10')"
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		tools := datatools.NewTools()
		tools.PlotDir = cfg.PlotDir
		tools.ReportDir = cfg.ReportDir
		tools.DefaultDSN = cfg.DatabaseDSN
		registry, err := tools.NewRegistry()
		if err != nil {
			return err
		}

		parser := reactloop.NewParser(cfg.DatasetAlias)
		var dataset *frame.Frame

		for _, raw := range args {
			inv, err := parser.Parse(raw)
			if err != nil {
				return fmt.Errorf("parsing %q: %w", raw, err)
			}
			if reactloop.IsTerminating(inv.Name) {
				return fmt.Errorf("%s is only meaningful inside a model run", inv.Name)
			}

			resolved := reactloop.NewArgs()
			for pair := inv.Args.Oldest(); pair != nil; pair = pair.Next() {
				v := pair.Value
				if v.IsDataRef() {
					v = reactloop.DatasetValue(dataset)
				}
				resolved.Set(pair.Key, v)
			}

			result, message, derr := registry.Dispatch(cmd.Context(), inv.Name, resolved)
			if derr != nil && strings.HasPrefix(message, "Unknown action") {
				return fmt.Errorf("%s (available: %s)", message, strings.Join(registry.Names(), ", "))
			}
			fmt.Println(message)

			if f, ok := result.(*frame.Frame); ok {
				dataset = f
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
}
