package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "analyst",
	Short: "Analyst is an LLM-driven data analysis agent",
	Long: `Analyst runs a reason/act/observe loop over tabular data. The model
decides which operation to apply next (load, clean, analyze, plot, report)
and sees each result before choosing the following step.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default: search analyst.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

// loadConfig resolves the effective configuration for a command: file
// config (if any) with persistent flag overrides applied.
func loadConfig(cmd *cobra.Command) (*Config, error) {
	explicit, _ := cmd.Flags().GetString("config")
	cfg, err := LoadConfig(explicit)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}
