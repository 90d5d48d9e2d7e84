// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-nbfix/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-nbfix") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForNoNotebooks returns hints when discovery finds nothing to process.
func ForNoNotebooks(extensions []string) string {
	hints := []string{"pass the directories holding notebooks as arguments"}
	if len(extensions) > 0 {
		hints = append(hints, "files must end in "+strings.Join(extensions, ", ")+" (see --ext)")
	}
	return formatHints(hints)
}

// ForMissingRoot returns hints for a root directory that does not exist.
func ForMissingRoot(base string) string {
	return format("roots are resolved against --base (" + base + ")")
}

// ForOutsideBase returns hints for notebooks outside the document tree.
func ForOutsideBase() string {
	return format("set --base to the root of the documentation tree")
}

// ForMalformedNotebook returns hints for notebooks that fail to decode or validate.
func ForMalformedNotebook() string {
	return format("open the notebook in Jupyter and save it to repair the JSON")
}

// ForWriteNotebook returns hints for write failures.
func ForWriteNotebook() string {
	return format("check the notebook's directory is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
