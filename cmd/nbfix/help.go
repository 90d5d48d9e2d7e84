package main

import (
	"fmt"
	"io"
)

// runHelp prints usage for a command, or the main usage.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case cmdFix:
		printFixUsage(env.Stdout)
	case cmdCheck:
		printCheckUsage(env.Stdout)
	case cmdConfig:
		printConfigUsage(env.Stdout)
	case cmdCompletion:
		printCompletionUsage(env.Stdout)
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: nbfix version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		printUsage(env.Stdout)
	default:
		fmt.Fprintf(env.Stderr, "nbfix: unknown command %q\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nbfix [command] [flags] [roots...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  fix        Normalize and split notebooks in place (default)")
	fmt.Fprintln(w, "  check      Report notebooks that fix would change, write nothing")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'nbfix help <command>' for details on a specific command.")
}

// printFixUsage prints usage for the fix command.
func printFixUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nbfix fix [flags] [roots...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rewrite notebooks converted from MDX: strip frontmatter and directives,")
	fmt.Fprintln(w, "make image paths relative, and move fenced code into code cells.")
	fmt.Fprintln(w, "Notebooks that need no change are not written.")
	fmt.Fprintln(w)
	printRunArguments(w)
	printRunFlags(w)
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nbfix check [flags] [roots...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Report the notebooks fix would change without writing them.")
	fmt.Fprintln(w, "Exits with status 5 when at least one notebook would change.")
	fmt.Fprintln(w, "With --verbose, also lists fenced blocks left in markdown cells.")
	fmt.Fprintln(w)
	printRunArguments(w)
	printRunFlags(w)
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nbfix config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration after merging defaults, the config file,")
	fmt.Fprintln(w, "NBFIX_* environment variables and flags.")
	fmt.Fprintln(w)
	printRunFlags(w)
}

func printRunArguments(w io.Writer) {
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  roots    Notebook files or directories (default: config roots,")
	fmt.Fprintln(w, "           else docs and learning under --base)")
	fmt.Fprintln(w)
}

func printRunFlags(w io.Writer) {
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -b, --base <dir>          Root of the document tree (default \".\")")
	fmt.Fprintln(w, "  -e, --ext <ext>           Notebook extension, repeatable (default .ipynb)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --log-level <s>       Diagnostic log level: trace, debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>      Diagnostic log format: console, json, pretty")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             List every changed notebook")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  NBFIX_CONFIG, NBFIX_BASE, NBFIX_WORKERS, NBFIX_LOG_LEVEL, NBFIX_LOG_FORMAT")
}
