package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	nbfix "github.com/alnah/go-nbfix"
	"github.com/alnah/go-nbfix/internal/config"
	"github.com/alnah/go-nbfix/internal/logging"
	"github.com/alnah/go-nbfix/internal/yamlutil"
)

// runMode selects whether notebooks are rewritten.
type runMode int

const (
	modeFix runMode = iota
	modeCheck
)

func (m runMode) String() string {
	if m == modeCheck {
		return cmdCheck
	}
	return cmdFix
}

// verb labels a changed notebook in verbose output.
func (m runMode) verb() string {
	if m == modeCheck {
		return "would fix"
	}
	return "fixed"
}

func (m runMode) summaryVerb() string {
	if m == modeCheck {
		return "would modify"
	}
	return "modified"
}

// runFix discovers notebooks and fixes or checks them.
func runFix(ctx context.Context, args []string, mode runMode, env *Environment) error {
	usage := printFixUsage
	if mode == modeCheck {
		usage = printCheckUsage
	}

	flags, positional, err := parseRunFlags(mode.String(), args, usage, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if flags.rules.workers != workersUnset {
		if err := validateWorkers(flags.rules.workers); err != nil {
			return err
		}
	}

	warnUnknownEnvVars(env.Stderr)
	cfg, err := loadRunConfig(flags)
	if err != nil {
		return err
	}

	provider, err := logging.NewProvider(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	logger := provider.GetLogger("nbfix")

	fixer, err := newFixer(cfg, logger, mode == modeCheck && flags.common.verbose)
	if err != nil {
		return err
	}

	files, err := discoverNotebooks(resolveRoots(positional, cfg.Roots, cfg.Base), cfg.Extensions)
	if err != nil {
		return err
	}

	workers := resolveWorkers(cfg.Workers, len(files))
	logger.Debug("batch started", "mode", mode.String(), "notebooks", len(files), "workers", workers)

	process := fixer.FixFile
	if mode == modeCheck {
		process = fixer.CheckFile
	}
	start := env.Now()
	results := processBatch(ctx, workers, files, process)
	logger.Debug("batch finished", "elapsed", env.Now().Sub(start).String())

	summary := printResults(results, mode, flags.common.quiet, flags.common.verbose, env)

	if summary.Failed > 0 {
		return fmt.Errorf("%d notebook(s) failed: %w", summary.Failed, firstError(results))
	}
	if mode == modeCheck && summary.Modified > 0 {
		return fmt.Errorf("%w: %d of %d", ErrChangesFound, summary.Modified, summary.Processed)
	}
	return nil
}

// loadRunConfig resolves the configuration. Priority: flags > env > config file > defaults.
// The config file is --config, then NBFIX_CONFIG; without either the defaults apply.
func loadRunConfig(flags *runFlags) (*config.Config, error) {
	env := loadEnvConfig()

	configPath := flags.common.config
	if configPath == "" {
		configPath = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	if flags != nil {
		mergeFlags(flags, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newFixer builds the library fixer from the resolved configuration.
func newFixer(cfg *config.Config, logger logging.Logger, literal bool) (*nbfix.Fixer, error) {
	return nbfix.NewFixer(
		nbfix.WithBaseDir(cfg.Base),
		nbfix.WithContainerTags(cfg.Split.ContainerTags...),
		nbfix.WithCodeLanguages(cfg.Split.CodeLanguages...),
		nbfix.WithShellLanguages(cfg.Split.ShellLanguages...),
		nbfix.WithAssetPrefixes(cfg.Images.AssetPrefixes...),
		nbfix.WithLiteralBlocks(literal),
		nbfix.WithLogger(logger),
	)
}

// firstError returns the first failure of a batch, in file order.
func firstError(results []Result) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// runConfig prints the effective configuration as YAML.
func runConfig(args []string, env *Environment) error {
	fs := flag.NewFlagSet(cmdConfig, flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	f := &runFlags{}
	addCommonFlags(fs, &f.common)
	addRuleFlags(fs, &f.rules)
	fs.Usage = func() { printConfigUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: config takes no arguments, got %s", ErrUsage, strings.Join(fs.Args(), " "))
	}

	cfg, err := loadRunConfig(f)
	if err != nil {
		return err
	}

	out, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = env.Stdout.Write(out)
	return err
}
