package main

// Notes:
// - processBatch: we test ordering, error propagation, concurrency bounds and
//   cancellation with a stub processFunc, no files are touched.
// - countResults/printResults: we test the summary lines of fix and check,
//   verbose and quiet output, and literal block listing.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	nbfix "github.com/alnah/go-nbfix"
)

// ---------------------------------------------------------------------------
// TestProcessBatch - Worker pool
// ---------------------------------------------------------------------------

func TestProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		called := false
		got := processBatch(context.Background(), 4, nil, func(context.Context, string) (nbfix.Report, error) {
			called = true
			return nbfix.Report{}, nil
		})
		if got != nil || called {
			t.Errorf("processBatch(nil) = %v, called = %v", got, called)
		}
	})

	t.Run("results keep file order", func(t *testing.T) {
		t.Parallel()

		files := []string{"a.ipynb", "b.ipynb", "c.ipynb", "d.ipynb", "e.ipynb"}
		errBoom := errors.New("boom")
		results := processBatch(context.Background(), 3, files, func(_ context.Context, path string) (nbfix.Report, error) {
			if path == "c.ipynb" {
				return nbfix.Report{Path: path}, errBoom
			}
			return nbfix.Report{Path: path, Modified: path == "a.ipynb"}, nil
		})

		paths := make([]string, len(results))
		for i, r := range results {
			paths[i] = r.Path
		}
		if diff := cmp.Diff(files, paths); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
		if !errors.Is(results[2].Err, errBoom) {
			t.Errorf("results[2].Err = %v, want boom", results[2].Err)
		}
		if !results[0].Report.Modified {
			t.Error("results[0] report lost")
		}
	})

	t.Run("concurrency bounded by workers", func(t *testing.T) {
		t.Parallel()

		files := make([]string, 20)
		for i := range files {
			files[i] = fmt.Sprintf("%02d.ipynb", i)
		}

		var mu sync.Mutex
		var active, peak int32
		processBatch(context.Background(), 2, files, func(_ context.Context, path string) (nbfix.Report, error) {
			n := atomic.AddInt32(&active, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			atomic.AddInt32(&active, -1)
			return nbfix.Report{Path: path}, nil
		})

		if peak > 2 {
			t.Errorf("peak concurrency = %d, want <= 2", peak)
		}
	})

	t.Run("canceled context skips processing", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var calls int32
		results := processBatch(ctx, 2, []string{"a.ipynb", "b.ipynb"}, func(context.Context, string) (nbfix.Report, error) {
			atomic.AddInt32(&calls, 1)
			return nbfix.Report{}, nil
		})

		if calls != 0 {
			t.Errorf("process called %d times, want 0", calls)
		}
		for _, r := range results {
			if !errors.Is(r.Err, context.Canceled) {
				t.Errorf("%s: Err = %v, want context.Canceled", r.Path, r.Err)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestCountResults - Summary counts
// ---------------------------------------------------------------------------

func TestCountResults(t *testing.T) {
	t.Parallel()

	results := []Result{
		{Path: "a", Report: nbfix.Report{Modified: true}},
		{Path: "b"},
		{Path: "c", Err: errors.New("x")},
		{Path: "d", Report: nbfix.Report{Modified: true}},
	}

	want := ResultSummary{Processed: 3, Modified: 2, Failed: 1}
	if got := countResults(results); got != want {
		t.Errorf("countResults() = %+v, want %+v", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestPrintResults - Output formatting
// ---------------------------------------------------------------------------

func TestPrintResults(t *testing.T) {
	t.Parallel()

	results := []Result{
		{Path: "docs/a.ipynb", Report: nbfix.Report{
			Modified:    true,
			CellsBefore: 1,
			CellsAfter:  3,
			SplitStats:  nbfix.SplitStats{CodeCells: 1},
			Literal: []nbfix.LiteralBlock{
				{CellID: "intro", Line: 4, Language: "js", Lexer: "JavaScript", Reason: nbfix.ReasonLanguage},
			},
		}},
		{Path: "docs/b.ipynb"},
		{Path: "docs/c.ipynb", Err: errors.New("boom")},
	}

	tests := []struct {
		name       string
		mode       runMode
		quiet      bool
		verbose    bool
		wantOut    []string
		notWantOut []string
	}{
		{
			name:       "fix summary",
			mode:       modeFix,
			wantOut:    []string{"nbfix: processed 2 notebooks, modified 1, failed 1"},
			notWantOut: []string{"docs/a.ipynb"},
		},
		{
			name:    "check verbose",
			mode:    modeCheck,
			verbose: true,
			wantOut: []string{
				"would fix docs/a.ipynb (cells 1 -> 3, 1 code cells extracted",
				"literal docs/a.ipynb:intro line 4 JavaScript (language)",
				"would modify 1",
			},
			notWantOut: []string{"docs/b.ipynb"},
		},
		{
			name:       "quiet",
			mode:       modeFix,
			quiet:      true,
			verbose:    true,
			notWantOut: []string{"nbfix:", "docs/a.ipynb"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			summary := printResults(results, tt.mode, tt.quiet, tt.verbose, env)

			if summary.Failed != 1 {
				t.Errorf("Failed = %d, want 1", summary.Failed)
			}
			if !strings.Contains(stderr.String(), "FAILED docs/c.ipynb: boom") {
				t.Errorf("stderr = %q, want failure line", stderr.String())
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout missing %q:\n%s", want, stdout.String())
				}
			}
			for _, notWant := range tt.notWantOut {
				if strings.Contains(stdout.String(), notWant) {
					t.Errorf("stdout should not contain %q:\n%s", notWant, stdout.String())
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDescribeReport - Change summary
// ---------------------------------------------------------------------------

func TestDescribeReport(t *testing.T) {
	t.Parallel()

	r := nbfix.Report{
		CellsBefore: 2,
		CellsAfter:  2,
		NormalizeStats: nbfix.NormalizeStats{
			Frontmatter: true,
			Directives:  2,
			Images:      1,
			Links:       1,
		},
	}

	want := "cells 2 -> 2, frontmatter removed, 2 directives, 2 image paths"
	if got := describeReport(r); got != want {
		t.Errorf("describeReport() = %q, want %q", got, want)
	}
}
