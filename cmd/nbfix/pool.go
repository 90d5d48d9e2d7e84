package main

import (
	"fmt"
	"runtime"

	"github.com/alnah/go-nbfix/internal/config"
)

// Worker bounds. Fixing a notebook is CPU-light and mostly I/O, so the
// ceiling only limits open files.
const (
	minWorkers = 1
	maxWorkers = config.MaxWorkers
)

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > maxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

// resolveWorkers determines the actual worker count.
// If workers > 0, uses that value. Otherwise uses GOMAXPROCS capped at maxWorkers.
// The result never exceeds the number of files.
func resolveWorkers(workers, files int) int {
	n := workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
		if n > maxWorkers {
			n = maxWorkers
		}
	}
	if n > files {
		n = files
	}
	if n < minWorkers {
		return minWorkers
	}
	return n
}
