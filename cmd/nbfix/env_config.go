package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-nbfix/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // NBFIX_CONFIG: config file name or path
	Base       string // NBFIX_BASE: root of the document tree
	Workers    int    // NBFIX_WORKERS: parallel workers (0 = unset)
	LogLevel   string // NBFIX_LOG_LEVEL: diagnostic log level
	LogFormat  string // NBFIX_LOG_FORMAT: console, json, pretty
}

// knownEnvVars lists valid NBFIX_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"NBFIX_CONFIG":     true,
	"NBFIX_BASE":       true,
	"NBFIX_WORKERS":    true,
	"NBFIX_LOG_LEVEL":  true,
	"NBFIX_LOG_FORMAT": true,
}

// loadEnvConfig reads configuration from environment variables.
// An unparsable NBFIX_WORKERS is ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("NBFIX_CONFIG"),
		Base:       os.Getenv("NBFIX_BASE"),
		LogLevel:   os.Getenv("NBFIX_LOG_LEVEL"),
		LogFormat:  os.Getenv("NBFIX_LOG_FORMAT"),
	}

	if workers := os.Getenv("NBFIX_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints warnings for unrecognized NBFIX_* variables.
// Helps catch typos like NBFIX_WORKER instead of NBFIX_WORKERS.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "NBFIX_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies set environment values over the loaded config.
// Flags are applied afterwards, giving: flags > env > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Base != "" {
		cfg.Base = env.Base
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
}
