package main

// Notes:
// - isCommand: we test command name matching.
// - runMain: we test exit codes and output for fix, check, config, version and
//   help over temporary document trees. Roots are passed explicitly so the
//   tests never depend on the working directory.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestIsCommand - Command name matching
// ---------------------------------------------------------------------------

func TestIsCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg  string
		want bool
	}{
		{"fix", true},
		{"check", true},
		{"config", true},
		{"version", true},
		{"help", true},
		{"completion", true},
		{"docs", false},
		{"--verbose", false},
		{"Fix", false},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			t.Parallel()
			if got := isCommand(tt.arg); got != tt.want {
				t.Errorf("isCommand(%q) = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Version - Version output
// ---------------------------------------------------------------------------

func TestRunMain_Version(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv()
	code := runMain(context.Background(), []string{"nbfix", "version"}, env)

	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, ExitSuccess)
	}
	if got := stdout.String(); got != "nbfix "+Version+"\n" {
		t.Errorf("stdout = %q", got)
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Help - Help output
// ---------------------------------------------------------------------------

func TestRunMain_Help(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{"main usage", []string{"nbfix", "help"}, ExitSuccess, "Commands:"},
		{"fix usage", []string{"nbfix", "help", "fix"}, ExitSuccess, "nbfix fix"},
		{"check usage", []string{"nbfix", "help", "check"}, ExitSuccess, "status 5"},
		{"config usage", []string{"nbfix", "help", "config"}, ExitSuccess, "nbfix config"},
		{"unknown command", []string{"nbfix", "help", "convert"}, ExitUsage, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			code := runMain(context.Background(), tt.args, env)

			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d", code, tt.wantCode)
			}
			if tt.wantOut != "" && !strings.Contains(stdout.String(), tt.wantOut) {
				t.Errorf("stdout missing %q:\n%s", tt.wantOut, stdout.String())
			}
			if tt.wantCode != ExitSuccess && !strings.Contains(stderr.String(), "unknown command") {
				t.Errorf("stderr = %q, want unknown command", stderr.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Fix - Fixing a document tree
// ---------------------------------------------------------------------------

func TestRunMain_Fix(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	clean := writeFile(t, base, "docs/clean.ipynb", cleanNotebook)
	dirty := writeFile(t, base, "docs/guide/dirty.ipynb", dirtyNotebook)
	docs := filepath.Join(base, "docs")

	env, stdout, stderr := testEnv()
	code := runMain(context.Background(), []string{"nbfix", "--base", base, "-v", docs}, env)

	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d\nstderr: %s", code, ExitSuccess, stderr.String())
	}

	if got := readFile(t, clean); got != cleanNotebook {
		t.Errorf("clean notebook was rewritten:\n%s", got)
	}

	fixed := readFile(t, dirty)
	for _, want := range []string{`"id": "intro-md0"`, `"id": "intro-code0"`, `"print(1)\n"`} {
		if !strings.Contains(fixed, want) {
			t.Errorf("fixed notebook missing %s:\n%s", want, fixed)
		}
	}
	if strings.Contains(fixed, "title: Intro") {
		t.Errorf("frontmatter not removed:\n%s", fixed)
	}

	out := stdout.String()
	if !strings.Contains(out, "fixed "+dirty) {
		t.Errorf("verbose output missing changed notebook:\n%s", out)
	}
	if !strings.Contains(out, "nbfix: processed 2 notebooks, modified 1") {
		t.Errorf("summary missing:\n%s", out)
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_FixIdempotent - Second run changes nothing
// ---------------------------------------------------------------------------

func TestRunMain_FixIdempotent(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	dirty := writeFile(t, base, "docs/dirty.ipynb", dirtyNotebook)
	args := []string{"nbfix", "fix", "-q", "--base", base, dirty}

	env, _, _ := testEnv()
	if code := runMain(context.Background(), args, env); code != ExitSuccess {
		t.Fatalf("first run exit code = %d", code)
	}
	first := readFile(t, dirty)

	env, stdout, _ := testEnv()
	if code := runMain(context.Background(), args, env); code != ExitSuccess {
		t.Fatalf("second run exit code = %d", code)
	}
	if got := readFile(t, dirty); got != first {
		t.Errorf("second run changed the notebook:\nfirst:\n%s\nsecond:\n%s", first, got)
	}
	if stdout.Len() != 0 {
		t.Errorf("quiet run printed %q", stdout.String())
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Check - Check mode never writes
// ---------------------------------------------------------------------------

func TestRunMain_Check(t *testing.T) {
	t.Parallel()

	t.Run("changes found", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		dirty := writeFile(t, base, "docs/dirty.ipynb", dirtyNotebook)

		env, stdout, stderr := testEnv()
		code := runMain(context.Background(), []string{"nbfix", "check", "--base", base, dirty}, env)

		if code != ExitChanges {
			t.Fatalf("exit code = %d, want %d", code, ExitChanges)
		}
		if got := readFile(t, dirty); got != dirtyNotebook {
			t.Error("check rewrote the notebook")
		}
		if !strings.Contains(stdout.String(), "would modify 1") {
			t.Errorf("summary = %q", stdout.String())
		}
		if !strings.Contains(stderr.String(), ErrChangesFound.Error()) {
			t.Errorf("stderr = %q", stderr.String())
		}
	})

	t.Run("clean tree", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		clean := writeFile(t, base, "docs/clean.ipynb", cleanNotebook)

		env, _, _ := testEnv()
		code := runMain(context.Background(), []string{"nbfix", "check", "--base", base, clean}, env)

		if code != ExitSuccess {
			t.Fatalf("exit code = %d, want %d", code, ExitSuccess)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunMain_Errors - Exit codes for failures
// ---------------------------------------------------------------------------

func TestRunMain_Errors(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	malformed := writeFile(t, base, "docs/broken.ipynb", `{"cells": [`)
	invalid := writeFile(t, base, "docs/invalid.ipynb", `{"cells": [], "metadata": {}}`)
	markdown := writeFile(t, base, "docs/readme.md", "# readme\n")
	outside := writeFile(t, t.TempDir(), "other.ipynb", cleanNotebook)
	empty := filepath.Join(base, "empty")
	writeFile(t, empty, "notes.txt", "nothing here")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"unknown flag", []string{"nbfix", "--nope"}, ExitUsage, "unknown flag"},
		{"too many workers", []string{"nbfix", "--workers", "99", "--base", base, base}, ExitUsage, "invalid worker count"},
		{"bad extension", []string{"nbfix", "--ext", "ipynb", "--base", base, base}, ExitUsage, "extension"},
		{"bad log format", []string{"nbfix", "--log-format", "xml", "--base", base, base}, ExitUsage, "log.format"},
		{"missing root", []string{"nbfix", "--base", base, filepath.Join(base, "missing")}, ExitIO, "root not found"},
		{"no notebooks", []string{"nbfix", "--base", base, empty}, ExitIO, "no notebooks found"},
		{"not a notebook", []string{"nbfix", "--base", base, markdown}, ExitUsage, "notebook extension"},
		{"malformed", []string{"nbfix", "--base", base, malformed}, ExitMalformed, "FAILED"},
		{"invalid", []string{"nbfix", "--base", base, invalid}, ExitMalformed, "nbformat"},
		{"outside base", []string{"nbfix", "--base", base, outside}, ExitIO, "outside"},
		{"missing config", []string{"nbfix", "--config", filepath.Join(base, "none.yaml"), "--base", base, base}, ExitUsage, "config file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, stderr := testEnv()
			code := runMain(context.Background(), tt.args, env)

			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d\nstderr: %s", code, tt.wantCode, stderr.String())
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantErr, stderr.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Canceled - Canceled context fails every notebook
// ---------------------------------------------------------------------------

func TestRunMain_Canceled(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	dirty := writeFile(t, base, "docs/dirty.ipynb", dirtyNotebook)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env, _, stderr := testEnv()
	code := runMain(ctx, []string{"nbfix", "--base", base, dirty}, env)

	if code != ExitGeneral {
		t.Fatalf("exit code = %d, want %d", code, ExitGeneral)
	}
	if got := readFile(t, dirty); got != dirtyNotebook {
		t.Error("canceled run rewrote the notebook")
	}
	if !strings.Contains(stderr.String(), "context canceled") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Config - Effective configuration output
// ---------------------------------------------------------------------------

func TestRunMain_Config(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "nbfix.yaml", "roots:\n  - site/docs\nsplit:\n  codeLanguages:\n    - python\n    - ipython\n")

	env, stdout, stderr := testEnv()
	code := runMain(context.Background(), []string{"nbfix", "config", "--config", cfgPath, "--workers", "3"}, env)

	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d\nstderr: %s", code, ExitSuccess, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{"site/docs", "ipython", "workers: 3", "OperatingSystemTabs", "docs/images"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}

	env, _, _ = testEnv()
	if code := runMain(context.Background(), []string{"nbfix", "config", "extra"}, env); code != ExitUsage {
		t.Errorf("config with arguments exit code = %d, want %d", code, ExitUsage)
	}
}
