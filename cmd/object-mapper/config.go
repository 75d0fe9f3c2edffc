package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/caarlos0/env/v11"

	"object-mapper/engine"
)

// Config holds flag defaults read from the environment.
type Config struct {
	Spec     string `env:"OBJECT_MAPPER_SPEC"`
	Mode     string `env:"OBJECT_MAPPER_MODE" envDefault:"path"`
	MaxDepth int    `env:"OBJECT_MAPPER_MAX_DEPTH" envDefault:"256"`
	LogLevel string `env:"OBJECT_MAPPER_LOG_LEVEL" envDefault:"warn"`
}

// DefaultConfig returns the configuration used when no variable is set.
func DefaultConfig() Config {
	return Config{
		Mode:     "path",
		MaxDepth: engine.DefaultMaxDepth,
		LogLevel: "warn",
	}
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// newLogger builds a text logger on w at the named level (debug, info, warn, error).
func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
