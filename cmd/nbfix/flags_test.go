package main

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-nbfix/internal/config"
)

// ---------------------------------------------------------------------------
// TestParseRunFlags - Flag parsing
// ---------------------------------------------------------------------------

func TestParseRunFlags(t *testing.T) {
	t.Parallel()

	noUsage := func(io.Writer) {}

	t.Run("all flags", func(t *testing.T) {
		t.Parallel()

		args := []string{
			"-c", "ci", "-q", "-v",
			"--base", "site", "-e", ".ipynb", "--ext", ".nb",
			"-w", "4", "--log-level", "debug", "--log-format", "json",
			"docs", "learning",
		}
		f, rest, err := parseRunFlags("fix", args, noUsage, io.Discard)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := &runFlags{
			common: commonFlags{config: "ci", quiet: true, verbose: true},
			rules: ruleFlags{
				base:       "site",
				extensions: []string{".ipynb", ".nb"},
				workers:    4,
				logLevel:   "debug",
				logFormat:  "json",
			},
		}
		if diff := cmp.Diff(want, f, cmp.AllowUnexported(runFlags{}, commonFlags{}, ruleFlags{})); diff != "" {
			t.Errorf("flags mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"docs", "learning"}, rest); diff != "" {
			t.Errorf("args mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("workers unset by default", func(t *testing.T) {
		t.Parallel()

		f, _, err := parseRunFlags("fix", nil, noUsage, io.Discard)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.rules.workers != workersUnset {
			t.Errorf("workers = %d, want workersUnset", f.rules.workers)
		}
	})

	t.Run("help prints usage", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		_, _, err := parseRunFlags("fix", []string{"--help"}, printFixUsage, &buf)
		if !errors.Is(err, flag.ErrHelp) {
			t.Fatalf("error = %v, want flag.ErrHelp", err)
		}
		if !bytes.Contains(buf.Bytes(), []byte("Usage: nbfix fix")) {
			t.Errorf("usage not printed: %q", buf.String())
		}
	})

	t.Run("invalid worker value", func(t *testing.T) {
		t.Parallel()

		if _, _, err := parseRunFlags("fix", []string{"-w", "many"}, noUsage, io.Discard); err == nil {
			t.Error("expected error for non-numeric workers")
		}
	})
}

// ---------------------------------------------------------------------------
// TestMergeFlags - CLI values override config
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	t.Run("set flags override", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		mergeFlags(&runFlags{rules: ruleFlags{
			base:       "site",
			extensions: []string{".nb"},
			workers:    0,
			logLevel:   "trace",
			logFormat:  "pretty",
		}}, cfg)

		if cfg.Base != "site" || cfg.Workers != 0 || cfg.Log.Level != "trace" || cfg.Log.Format != "pretty" {
			t.Errorf("flags not merged: %+v", cfg)
		}
		if diff := cmp.Diff([]string{".nb"}, cfg.Extensions); diff != "" {
			t.Errorf("extensions mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unset flags keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Workers = 6
		mergeFlags(&runFlags{rules: ruleFlags{workers: workersUnset}}, cfg)

		if cfg.Workers != 6 {
			t.Errorf("Workers = %d, want 6", cfg.Workers)
		}
		if diff := cmp.Diff(config.DefaultConfig().Extensions, cfg.Extensions); diff != "" {
			t.Errorf("extensions changed (-want +got):\n%s", diff)
		}
	})
}
