package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	nbfix "github.com/alnah/go-nbfix"
)

// processFunc fixes or checks one notebook.
type processFunc func(ctx context.Context, path string) (nbfix.Report, error)

// Result holds the outcome of processing one notebook.
type Result struct {
	Path     string
	Report   nbfix.Report
	Err      error
	Duration time.Duration
}

// processBatch runs process over files with the given number of workers.
// Results keep the order of files.
func processBatch(ctx context.Context, workers int, files []string, process processFunc) []Result {
	if len(files) == 0 {
		return nil
	}

	concurrency := workers
	if concurrency > len(files) {
		concurrency = len(files)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Result, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = Result{Path: files[idx], Err: err}
					continue
				}
				start := time.Now()
				report, err := process(ctx, files[idx])
				results[idx] = Result{
					Path:     files[idx],
					Report:   report,
					Err:      err,
					Duration: time.Since(start),
				}
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// ResultSummary counts the outcomes of a batch.
type ResultSummary struct {
	Processed int
	Modified  int
	Failed    int
}

// countResults tallies processed, modified and failed notebooks.
func countResults(results []Result) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		summary.Processed++
		if r.Report.Modified {
			summary.Modified++
		}
	}
	return summary
}

// printResults writes failures to stderr and, unless quiet, the per-notebook
// lines and the summary to stdout. It returns the summary.
func printResults(results []Result, mode runMode, quiet, verbose bool, env *Environment) ResultSummary {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Path, r.Err)
			continue
		}
		if quiet || !verbose {
			continue
		}
		if r.Report.Modified {
			fmt.Fprintf(env.Stdout, "%s %s (%s, %v)\n",
				mode.verb(), r.Path, describeReport(r.Report), r.Duration.Round(time.Millisecond))
		}
		for _, b := range r.Report.Literal {
			fmt.Fprintf(env.Stdout, "  literal %s:%s line %d %s (%s)\n",
				r.Path, b.CellID, b.Line, blockLanguage(b), b.Reason)
		}
	}

	if !quiet {
		fmt.Fprintf(env.Stdout, "nbfix: processed %d notebooks, %s %d",
			summary.Processed, mode.summaryVerb(), summary.Modified)
		if summary.Failed > 0 {
			fmt.Fprintf(env.Stdout, ", failed %d", summary.Failed)
		}
		fmt.Fprintln(env.Stdout)
	}

	return summary
}

// describeReport summarizes the changes made to one notebook.
func describeReport(r nbfix.Report) string {
	n := r.NormalizeStats
	s := fmt.Sprintf("cells %d -> %d", r.CellsBefore, r.CellsAfter)
	if n.Frontmatter {
		s += ", frontmatter removed"
	}
	if n.Directives > 0 {
		s += fmt.Sprintf(", %d directives", n.Directives)
	}
	if links := n.Images + n.Links + n.Outputs; links > 0 {
		s += fmt.Sprintf(", %d image paths", links)
	}
	if r.SplitStats.CodeCells > 0 {
		s += fmt.Sprintf(", %d code cells extracted", r.SplitStats.CodeCells)
	}
	return s
}

func blockLanguage(b nbfix.LiteralBlock) string {
	switch {
	case b.Lexer != "":
		return b.Lexer
	case b.Language != "":
		return b.Language
	}
	return "plain"
}
