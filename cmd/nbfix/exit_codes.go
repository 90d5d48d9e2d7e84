package main

import (
	"errors"
	"os"

	nbfix "github.com/alnah/go-nbfix"
	"github.com/alnah/go-nbfix/internal/config"
	"github.com/alnah/go-nbfix/internal/fileutil"
	"github.com/alnah/go-nbfix/internal/hints"
)

// Exit codes for the nbfix CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Every notebook processed
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or rules
	ExitIO        = 3 // File not found, permission denied, write failure
	ExitMalformed = 4 // Notebook is not valid JSON or fails validation
	ExitChanges   = 5 // check found notebooks that would change
)

// Sentinel errors for the CLI.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrRootNotFound       = errors.New("root not found")
	ErrNotNotebook        = errors.New("file does not have a notebook extension")
	ErrNoNotebooks        = errors.New("no notebooks found")
	ErrChangesFound       = errors.New("notebooks would be modified")
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrChangesFound) {
		return ExitChanges
	}

	// Notebook content errors (exit 4)
	if errors.Is(err, nbfix.ErrMalformedNotebook) ||
		errors.Is(err, nbfix.ErrInvalidNotebook) {
		return ExitMalformed
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, nbfix.ErrReadNotebook) ||
		errors.Is(err, nbfix.ErrWriteNotebook) ||
		errors.Is(err, nbfix.ErrOutsideBase) ||
		errors.Is(err, ErrRootNotFound) ||
		errors.Is(err, ErrNoNotebooks) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrNotNotebook) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, fileutil.ErrExtensionEmpty) ||
		errors.Is(err, fileutil.ErrExtensionNoDot) ||
		errors.Is(err, fileutil.ErrExtensionPathTraversal) ||
		errors.Is(err, nbfix.ErrInvalidContainerTag) ||
		errors.Is(err, nbfix.ErrInvalidLanguage) ||
		errors.Is(err, nbfix.ErrInvalidAssetPrefix) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths("nbfix"))
	case errors.Is(err, ErrNoNotebooks):
		var noNB *noNotebooksError
		if errors.As(err, &noNB) {
			return hints.ForNoNotebooks(noNB.extensions)
		}
		return hints.ForNoNotebooks(nil)
	case errors.Is(err, ErrRootNotFound):
		var missing *missingRootError
		if errors.As(err, &missing) && missing.base != "" {
			return hints.ForMissingRoot(missing.base)
		}
		return ""
	case errors.Is(err, nbfix.ErrOutsideBase):
		return hints.ForOutsideBase()
	case errors.Is(err, nbfix.ErrMalformedNotebook), errors.Is(err, nbfix.ErrInvalidNotebook):
		return hints.ForMalformedNotebook()
	case errors.Is(err, nbfix.ErrWriteNotebook):
		return hints.ForWriteNotebook()
	}
	return ""
}
