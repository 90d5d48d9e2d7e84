package main

import (
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-nbfix/internal/config"
)

// workersUnset detects if --workers was explicitly set.
// Since 0 is a valid value (auto), we use an out-of-range sentinel.
const workersUnset = -1

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// ruleFlags holds flags that shape how notebooks are found and logged.
type ruleFlags struct {
	base       string
	extensions []string
	workers    int
	logLevel   string
	logFormat  string
}

// runFlags holds all flags for the fix and check commands.
type runFlags struct {
	common commonFlags
	rules  ruleFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "list every changed notebook")
}

// addRuleFlags adds discovery and logging flags to a FlagSet.
func addRuleFlags(fs *flag.FlagSet, f *ruleFlags) {
	fs.StringVarP(&f.base, "base", "b", "", "root of the document tree (default \".\")")
	fs.StringSliceVarP(&f.extensions, "ext", "e", nil, "notebook file extension, repeatable (default .ipynb)")
	fs.IntVarP(&f.workers, "workers", "w", workersUnset, "parallel workers (0 = auto)")
	fs.StringVar(&f.logLevel, "log-level", "", "diagnostic log level: trace, debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "diagnostic log format: console, json, pretty")
}

// parseRunFlags parses fix or check flags and returns positional args.
func parseRunFlags(name string, args []string, usage func(io.Writer), stderr io.Writer) (*runFlags, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &runFlags{}

	addCommonFlags(fs, &f.common)
	addRuleFlags(fs, &f.rules)

	fs.Usage = func() { usage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *runFlags, cfg *config.Config) {
	if flags.rules.base != "" {
		cfg.Base = flags.rules.base
	}
	if len(flags.rules.extensions) > 0 {
		cfg.Extensions = flags.rules.extensions
	}
	if flags.rules.workers != workersUnset {
		cfg.Workers = flags.rules.workers
	}
	if flags.rules.logLevel != "" {
		cfg.Log.Level = flags.rules.logLevel
	}
	if flags.rules.logFormat != "" {
		cfg.Log.Format = flags.rules.logFormat
	}
}
