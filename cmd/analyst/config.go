package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all analyst configuration.
type Config struct {
	Provider      string  `yaml:"provider"`
	Model         string  `yaml:"model"`
	APIKey        string  `yaml:"api_key"`
	Temperature   float64 `yaml:"temperature"`
	MaxTokens     int     `yaml:"max_tokens"`
	MaxIterations int     `yaml:"max_iterations"`
	DatasetAlias  string  `yaml:"dataset_alias"`
	PlotDir       string  `yaml:"plot_dir"`
	ReportDir     string  `yaml:"report_dir"`
	DatabaseDSN   string  `yaml:"database_dsn"`
	SessionLogDir string  `yaml:"session_log_dir"`
	LogLevel      string  `yaml:"log_level"`
}

// DefaultConfig returns the built-in defaults, used when no config file
// exists and as the base every config file is merged onto.
func DefaultConfig() *Config {
	return &Config{
		Provider:      "openai",
		Temperature:   0.7,
		MaxTokens:     1024,
		MaxIterations: 10,
		DatasetAlias:  "df",
		PlotDir:       "output/plots",
		ReportDir:     "output/reports",
		DatabaseDSN:   "data/analyst.db",
		SessionLogDir: "logs",
		LogLevel:      "info",
	}
}

// DefaultSearchPaths returns the config file search order.
// An explicit path (from --config) is checked first.
// Then: ./analyst.yaml, ~/.config/analyst/config.yaml, /etc/analyst/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"analyst.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "analyst", "config.yaml"))
	}

	paths = append(paths, "/etc/analyst/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must
// exist. Otherwise the search paths are tried in order and an empty
// string means nothing was found, which is not an error: the defaults
// apply.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// LoadConfig loads configuration: .env first (so ${VAR} references in the
// YAML resolve), then the config file merged over the defaults.
func LoadConfig(explicit string) (*Config, error) {
	_ = godotenv.Load()

	path, err := FindConfig(explicit)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if path == "" {
		cfg.applyEnv()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv fills the API key from the provider's conventional environment
// variable when the config file left it empty.
func (c *Config) applyEnv() {
	if c.APIKey == "" && c.Provider != "" {
		c.APIKey = os.Getenv(strings.ToUpper(c.Provider) + "_API_KEY")
	}
}

// ParseLogLevel converts a case-insensitive string to an slog.Level.
// Unrecognized values fall back to info with an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", s)
	}
}

// newLogger builds the process logger writing to w at the configured
// level.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
