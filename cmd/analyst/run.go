package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/martinemde/analyst/datatools"
	"github.com/martinemde/analyst/llmclient"
	"github.com/martinemde/analyst/reactloop"
)

var runCmd = &cobra.Command{
	Use:   "run [task...]",
	Short: "Run an analysis task through the reasoning loop",
	Long: `Run a natural-language analysis task. The model chooses which
operation to apply at each step and stops when it calls finish.
The task can be given as arguments or piped from stdin.`,
	Example: `
# Analyze a workbook
analyst run "Load data/sales_2023.xlsx, clean it, and report total sales by region"

# Override the model for one run
analyst run --provider anthropic --model claude-sonnet-4-20250514 "Find outliers in the unit prices"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		applyRunFlags(cmd, cfg)

		task := strings.TrimSpace(strings.Join(args, " "))
		if task == "" {
			raw, rerr := readStdin()
			if rerr != nil {
				return rerr
			}
			task = raw
		}
		if task == "" {
			return fmt.Errorf("no task provided")
		}

		level, err := ParseLogLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger := newLogger(os.Stderr, level)

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		adapter, err := llmclient.NewGollmAdapter(cfg.Provider,
			llmclient.WithAPIKey(cfg.APIKey),
			llmclient.WithModel(cfg.Model),
			llmclient.WithTemperature(cfg.Temperature),
			llmclient.WithMaxTokens(cfg.MaxTokens),
		)
		if err != nil {
			return fmt.Errorf("configuring %s provider: %w", cfg.Provider, err)
		}
		client := llmclient.NewClient(llmclient.WithProvider(cfg.Provider, adapter))
		defer client.Close()

		tools := datatools.NewTools()
		tools.PlotDir = cfg.PlotDir
		tools.ReportDir = cfg.ReportDir
		tools.DefaultDSN = cfg.DatabaseDSN
		registry, err := tools.NewRegistry()
		if err != nil {
			return err
		}

		completer := llmclient.NewReActCompleter(client, datatools.Docs(),
			llmclient.ForProvider(cfg.Provider),
			llmclient.ForModel(cfg.Model),
			llmclient.WithSamplingTemperature(cfg.Temperature),
			llmclient.WithResponseTokenLimit(cfg.MaxTokens),
			llmclient.WithDatasetAlias(cfg.DatasetAlias),
		)

		sessionCfg := reactloop.DefaultSessionConfig()
		sessionCfg.MaxIterations = cfg.MaxIterations
		sessionCfg.DatasetAlias = cfg.DatasetAlias

		session := reactloop.NewSession(completer, registry, &sessionCfg)
		session.SetLogger(logger)

		sinkPath := filepath.Join(cfg.SessionLogDir, fmt.Sprintf("session_%s.json", session.ID()))
		session.SetSink(reactloop.NewJSONFileSink(sinkPath, session.ID()))

		quiet, _ := cmd.Flags().GetBool("quiet")
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			printEvents(session.Events(), quiet)
		}()

		result, _, err := session.Run(ctx, task)
		wg.Wait()
		if err != nil {
			return err
		}

		if result == nil {
			fmt.Println("\nThe run ended without a final answer. See the transcript at", sinkPath)
			return nil
		}
		fmt.Printf("\nResult: %s\n", *result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("provider", "", "LLM provider (openai, anthropic, ...)")
	runCmd.Flags().String("model", "", "Model name")
	runCmd.Flags().Int("max-iterations", 0, "Maximum reasoning iterations")
	runCmd.Flags().Float64("temperature", -1, "Sampling temperature")
	runCmd.Flags().BoolP("quiet", "q", false, "Only print the final result")
}

// applyRunFlags overlays run command flags onto the loaded config.
func applyRunFlags(cmd *cobra.Command, cfg *Config) {
	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		cfg.Provider = v
		cfg.applyEnv()
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Model = v
	}
	if v, _ := cmd.Flags().GetInt("max-iterations"); v > 0 {
		cfg.MaxIterations = v
	}
	if cmd.Flags().Changed("temperature") {
		v, _ := cmd.Flags().GetFloat64("temperature")
		cfg.Temperature = v
	}
}

// printEvents renders the live reasoning trace to stdout until the
// session closes the channel.
func printEvents(events <-chan reactloop.SessionEvent, quiet bool) {
	for ev := range events {
		if quiet {
			continue
		}
		switch ev.Kind {
		case reactloop.EventThought:
			fmt.Printf("[%d] Thought: %v\n", ev.Iteration, ev.Data["text"])
		case reactloop.EventAction:
			if action, ok := ev.Data["action"]; ok {
				fmt.Printf("[%d] Action: %v\n", ev.Iteration, action)
			} else {
				fmt.Printf("[%d] Action (unparsed): %v\n", ev.Iteration, ev.Data["raw"])
			}
		case reactloop.EventObservation:
			fmt.Printf("[%d] Observation: %v\n", ev.Iteration, ev.Data["text"])
		case reactloop.EventSteering:
			fmt.Printf("[%d] Steering: %v\n", ev.Iteration, ev.Data["text"])
		case reactloop.EventIterationLimit:
			fmt.Printf("[%d] Iteration budget reached\n", ev.Iteration)
		}
	}
}

// readStdin returns piped input, or empty when stdin is a terminal.
func readStdin() (string, error) {
	info, err := os.Stdin.Stat()
	if err != nil {
		return "", err
	}
	if info.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
