package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces the environment variables read by Config.
const envPrefix = "SHEETCONV"

// Config holds defaults read from the environment. Command-line flags
// override them.
type Config struct {
	Separator string    `envconfig:"SEPARATOR" default:","`
	NoHeader  bool      `envconfig:"NO_HEADER" default:"false"`
	Log       LogConfig `envconfig:"LOG"`
}

// LogConfig selects the diagnostic log output.
type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"warn"`
	Format string `envconfig:"FORMAT" default:"text"`
}

// loadConfig loads configuration from environment variables.
func loadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config from env: %w", err)
	}
	return cfg, nil
}

// newLogger builds a text or JSON logger writing to w.
func newLogger(cfg LogConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q (must be text or json)", cfg.Format)
}
