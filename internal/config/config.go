package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	nbfix "github.com/alnah/go-nbfix"
	"github.com/alnah/go-nbfix/internal/fileutil"
	"github.com/alnah/go-nbfix/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field limits.
const (
	MaxWorkers        = 16
	MaxPathLength     = 4096 // PATH_MAX on Linux
	MaxListLength     = 64   // entries per list field
	MaxTagLength      = 64   // "OperatingSystemTabs"
	MaxLanguageLength = 32   // "python", "bash"
)

// Log levels and formats accepted by the log section.
var (
	validLogLevels  = []string{"trace", "debug", "info", "warn", "warning", "error"}
	validLogFormats = []string{"console", "json", "pretty"}
)

// Config holds all configuration for a notebook fixing run.
type Config struct {
	Base       string       `yaml:"base"`       // Root of the document tree (default ".")
	Roots      []string     `yaml:"roots"`      // Directories searched for notebooks, relative to base
	Extensions []string     `yaml:"extensions"` // Notebook file suffixes (default .ipynb)
	Workers    int          `yaml:"workers"`    // 0 = auto
	Split      SplitConfig  `yaml:"split"`
	Images     ImagesConfig `yaml:"images"`
	Log        LogConfig    `yaml:"log"`
}

// SplitConfig defines the cell splitter rules. Empty lists keep the defaults.
type SplitConfig struct {
	ContainerTags  []string `yaml:"containerTags"`  // Elements whose content is never split
	CodeLanguages  []string `yaml:"codeLanguages"`  // Fence languages extracted as code
	ShellLanguages []string `yaml:"shellLanguages"` // Fence languages extracted as shell commands
}

// ImagesConfig defines image path rewriting.
type ImagesConfig struct {
	AssetPrefixes []string `yaml:"assetPrefixes"` // Root-relative image directories
}

// LogConfig defines diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // console, json, pretty
}

// Validate checks bounds and the shape of every rule.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("base", c.Base, MaxPathLength); err != nil {
		return err
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	if err := validateList("roots", c.Roots, MaxPathLength, nil); err != nil {
		return err
	}
	if err := validateList("extensions", c.Extensions, MaxPathLength, fileutil.ValidateExtension); err != nil {
		return err
	}

	if err := validateList("split.containerTags", c.Split.ContainerTags, MaxTagLength, nbfix.ValidateContainerTag); err != nil {
		return err
	}
	if err := validateList("split.codeLanguages", c.Split.CodeLanguages, MaxLanguageLength, nbfix.ValidateLanguage); err != nil {
		return err
	}
	if err := validateList("split.shellLanguages", c.Split.ShellLanguages, MaxLanguageLength, nbfix.ValidateLanguage); err != nil {
		return err
	}
	if err := validateList("images.assetPrefixes", c.Images.AssetPrefixes, MaxPathLength, nbfix.ValidateAssetPrefix); err != nil {
		return err
	}

	if err := validateChoice("log.level", c.Log.Level, validLogLevels); err != nil {
		return err
	}
	if err := validateChoice("log.format", c.Log.Format, validLogFormats); err != nil {
		return err
	}

	return nil
}

// validateList checks the length of a list and of each entry, then runs check
// on each entry when check is not nil.
func validateList(fieldName string, values []string, maxLength int, check func(string) error) error {
	if len(values) > MaxListLength {
		return fmt.Errorf("%w: %s (%d entries, max %d)", ErrFieldTooLong, fieldName, len(values), MaxListLength)
	}
	for i, v := range values {
		name := fmt.Sprintf("%s[%d]", fieldName, i)
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidValue, name)
		}
		if err := validateFieldLength(name, v, maxLength); err != nil {
			return err
		}
		if check == nil {
			continue
		}
		if err := check(v); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidValue, name, err)
		}
	}
	return nil
}

// validateChoice accepts "" or one of choices, ignoring case.
func validateChoice(fieldName, value string, choices []string) error {
	if value == "" {
		return nil
	}
	for _, c := range choices {
		if strings.EqualFold(value, c) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(choices, ", "))
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Base:       ".",
		Extensions: []string{".ipynb"},
		Split: SplitConfig{
			ContainerTags:  nbfix.DefaultContainerTags(),
			CodeLanguages:  nbfix.DefaultCodeLanguages(),
			ShellLanguages: nbfix.DefaultShellLanguages(),
		},
		Images: ImagesConfig{AssetPrefixes: nbfix.DefaultAssetPrefixes()},
		Log:    LogConfig{Level: "warn", Format: "console"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields the file leaves empty take their value from DefaultConfig.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.fillDefaults()
	return &cfg, nil
}

// fillDefaults copies default values into empty fields.
func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.Base == "" {
		c.Base = d.Base
	}
	if len(c.Extensions) == 0 {
		c.Extensions = d.Extensions
	}
	if len(c.Split.ContainerTags) == 0 {
		c.Split.ContainerTags = d.Split.ContainerTags
	}
	if len(c.Split.CodeLanguages) == 0 {
		c.Split.CodeLanguages = d.Split.CodeLanguages
	}
	if len(c.Split.ShellLanguages) == 0 {
		c.Split.ShellLanguages = d.Split.ShellLanguages
	}
	if len(c.Images.AssetPrefixes) == 0 {
		c.Images.AssetPrefixes = d.Images.AssetPrefixes
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-nbfix/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-nbfix", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// SearchPaths lists where a config name is looked up, in order.
func SearchPaths(name string) []string {
	paths := []string{name + ".yaml", name + ".yml"}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths,
			filepath.Join(userConfigDir, "go-nbfix", name+".yaml"),
			filepath.Join(userConfigDir, "go-nbfix", name+".yml"),
		)
	}
	return paths
}
