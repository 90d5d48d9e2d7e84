package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Commands recognised as the first argument.
const (
	cmdFix        = "fix"
	cmdCheck      = "check"
	cmdConfig     = "config"
	cmdCompletion = "completion"
	cmdVersion    = "version"
	cmdHelp       = "help"
)

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches the command line and returns the process exit code.
// Without a command name the arguments are handed to fix.
func runMain(ctx context.Context, args []string, env *Environment) int {
	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}

	command := cmdFix
	if len(rest) > 0 && isCommand(rest[0]) {
		command, rest = rest[0], rest[1:]
	}

	var err error
	switch command {
	case cmdVersion:
		fmt.Fprintf(env.Stdout, "nbfix %s\n", Version)
		return ExitSuccess
	case cmdHelp:
		return runHelp(rest, env)
	case cmdConfig:
		err = runConfig(rest, env)
	case cmdCompletion:
		err = runCompletion(rest, env)
	case cmdCheck:
		err = runFix(ctx, rest, modeCheck, env)
	default:
		err = runFix(ctx, rest, modeFix, env)
	}

	if err != nil {
		fmt.Fprintf(env.Stderr, "nbfix: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// isCommand reports whether arg names a command rather than a root.
func isCommand(arg string) bool {
	switch arg {
	case cmdFix, cmdCheck, cmdConfig, cmdCompletion, cmdVersion, cmdHelp:
		return true
	}
	return false
}
