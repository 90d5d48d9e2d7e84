package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alnah/go-nbfix/internal/fileutil"
)

// Default roots searched under the base when none are given.
var defaultRoots = []string{"docs", "learning"}

// missingRootError reports a root that does not exist.
type missingRootError struct {
	root string
	base string // set when the root was resolved against the base
}

func (e *missingRootError) Error() string {
	return fmt.Sprintf("%v: %s", ErrRootNotFound, e.root)
}

func (e *missingRootError) Unwrap() error { return ErrRootNotFound }

// noNotebooksError reports an empty discovery.
type noNotebooksError struct {
	extensions []string
}

func (e *noNotebooksError) Error() string {
	return fmt.Sprintf("%v (extensions: %s)", ErrNoNotebooks, strings.Join(e.extensions, ", "))
}

func (e *noNotebooksError) Unwrap() error { return ErrNoNotebooks }

// root is a place to search for notebooks.
type root struct {
	path     string
	explicit bool   // named on the command line; missing is an error
	base     string // base the path was joined to, "" for command line roots
}

// resolveRoots returns the roots to search. Command line arguments are used
// as given. Otherwise config roots, then the default roots, are joined to base.
func resolveRoots(args, configRoots []string, base string) []root {
	if len(args) > 0 {
		roots := make([]root, 0, len(args))
		for _, a := range args {
			roots = append(roots, root{path: a, explicit: true})
		}
		return roots
	}

	names := configRoots
	explicit := true
	if len(names) == 0 {
		names = defaultRoots
		explicit = false
	}

	roots := make([]root, 0, len(names))
	for _, n := range names {
		roots = append(roots, root{path: filepath.Join(base, n), explicit: explicit, base: base})
	}
	return roots
}

// discoverNotebooks finds all notebooks under roots. Hidden files and
// directories are skipped, results are sorted and deduplicated.
func discoverNotebooks(roots []root, extensions []string) ([]string, error) {
	var files []string
	for _, r := range roots {
		found, err := discoverRoot(r, extensions)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	for i, f := range files {
		files[i] = filepath.Clean(f)
	}
	slices.Sort(files)
	files = slices.Compact(files)

	if len(files) == 0 {
		return nil, &noNotebooksError{extensions: extensions}
	}
	return files, nil
}

func discoverRoot(r root, extensions []string) ([]string, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if !r.explicit {
				return nil, nil
			}
			return nil, &missingRootError{root: r.path, base: r.base}
		}
		return nil, err
	}

	if !info.IsDir() {
		if !fileutil.HasExtension(r.path, extensions) {
			return nil, fmt.Errorf("%w: %s (expected %s)", ErrNotNotebook, r.path, strings.Join(extensions, ", "))
		}
		return []string{r.path}, nil
	}

	var files []string
	err = filepath.WalkDir(r.path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if path != r.path && fileutil.IsHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !fileutil.HasExtension(path, extensions) {
			return nil
		}
		files = append(files, path)
		return nil
	})

	return files, err
}
