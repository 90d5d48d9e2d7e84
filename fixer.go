package nbfix

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/alnah/go-nbfix/internal/fileutil"
)

// Default rule set.
var (
	defaultContainerTags  = []string{"Admonition", "Tabs", "OperatingSystemTabs", "details"}
	defaultCodeLanguages  = []string{"python", "py"}
	defaultShellLanguages = []string{"bash", "shell", "sh"}
	defaultAssetPrefixes  = []string{"docs/images", "learning/images"}
)

// DefaultContainerTags returns the container tags whose content is never split.
func DefaultContainerTags() []string { return append([]string(nil), defaultContainerTags...) }

// DefaultCodeLanguages returns the fence languages extracted as code cells.
func DefaultCodeLanguages() []string { return append([]string(nil), defaultCodeLanguages...) }

// DefaultShellLanguages returns the fence languages extracted as shell cells.
func DefaultShellLanguages() []string { return append([]string(nil), defaultShellLanguages...) }

// DefaultAssetPrefixes returns the root-relative image directories whose
// links are made relative.
func DefaultAssetPrefixes() []string { return append([]string(nil), defaultAssetPrefixes...) }

// Fixer applies the normalize and split passes to notebooks.
// A Fixer is immutable once built and safe for concurrent use.
type Fixer struct {
	rules   rules
	logger  Logger
	literal bool
}

// rules is the compiled rule set of a Fixer.
type rules struct {
	baseDir    string
	containers []containerPattern
	codeLangs  map[string]bool
	shellLangs map[string]bool
	assetLink  *regexp.Regexp // nil when no asset prefix is configured
}

// extractable reports whether a fence with this language becomes a code cell.
func (r rules) extractable(lang string) bool {
	return r.codeLangs[lang] || r.shellLangs[lang]
}

// Option configures a Fixer.
type Option func(*settings)

type settings struct {
	baseDir        string
	containerTags  []string
	codeLanguages  []string
	shellLanguages []string
	assetPrefixes  []string
	logger         Logger
	literal        bool
}

// WithBaseDir sets the root of the document tree. Image paths are made
// relative to a notebook's directory within this tree. Defaults to ".".
func WithBaseDir(dir string) Option {
	return func(s *settings) { s.baseDir = dir }
}

// WithContainerTags replaces the container tags whose content is never split.
func WithContainerTags(tags ...string) Option {
	return func(s *settings) { s.containerTags = tags }
}

// WithCodeLanguages replaces the fence languages extracted as code cells.
func WithCodeLanguages(langs ...string) Option {
	return func(s *settings) { s.codeLanguages = langs }
}

// WithShellLanguages replaces the fence languages extracted as shell cells,
// whose command lines get a "!" prefix.
func WithShellLanguages(langs ...string) Option {
	return func(s *settings) { s.shellLanguages = langs }
}

// WithAssetPrefixes replaces the root-relative image directories whose
// markdown links are made relative.
func WithAssetPrefixes(prefixes ...string) Option {
	return func(s *settings) { s.assetPrefixes = prefixes }
}

// WithLiteralBlocks makes FixFile and CheckFile list the fenced blocks left
// in markdown cells on the returned Report.
func WithLiteralBlocks(enabled bool) Option {
	return func(s *settings) { s.literal = enabled }
}

// WithLogger sets the logger. Passing nil disables logging.
func WithLogger(l Logger) Option {
	return func(s *settings) { s.logger = l }
}

// NewFixer builds a Fixer from the default rule set and opts.
func NewFixer(opts ...Option) (*Fixer, error) {
	s := settings{
		baseDir:        ".",
		containerTags:  DefaultContainerTags(),
		codeLanguages:  DefaultCodeLanguages(),
		shellLanguages: DefaultShellLanguages(),
		assetPrefixes:  DefaultAssetPrefixes(),
	}
	for _, opt := range opts {
		opt(&s)
	}

	f := &Fixer{logger: s.logger, literal: s.literal}
	if f.logger == nil {
		f.logger = nopLogger{}
	}

	f.rules.baseDir = s.baseDir
	if f.rules.baseDir == "" {
		f.rules.baseDir = "."
	}

	for _, tag := range s.containerTags {
		if err := ValidateContainerTag(tag); err != nil {
			return nil, err
		}
		f.rules.containers = append(f.rules.containers, newContainerPattern(tag))
	}

	var err error
	if f.rules.codeLangs, err = languageSet(s.codeLanguages); err != nil {
		return nil, err
	}
	if f.rules.shellLangs, err = languageSet(s.shellLanguages); err != nil {
		return nil, err
	}

	prefixes := make([]string, 0, len(s.assetPrefixes))
	for _, p := range s.assetPrefixes {
		if err := ValidateAssetPrefix(p); err != nil {
			return nil, err
		}
		prefixes = append(prefixes, p)
	}
	if len(prefixes) > 0 {
		f.rules.assetLink = assetLinkPattern(prefixes)
	}

	return f, nil
}

func languageSet(langs []string) (map[string]bool, error) {
	set := make(map[string]bool, len(langs))
	for _, lang := range langs {
		if err := ValidateLanguage(lang); err != nil {
			return nil, err
		}
		set[strings.ToLower(lang)] = true
	}
	return set, nil
}

// ValidateContainerTag checks that tag can name a container element.
func ValidateContainerTag(tag string) error {
	if tag == "" || strings.ContainsAny(tag, "<>/") || strings.IndexFunc(tag, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidContainerTag, tag)
	}
	return nil
}

// ValidateLanguage checks that lang can appear as a fence language tag.
func ValidateLanguage(lang string) error {
	if lang == "" || strings.IndexFunc(lang, func(r rune) bool { return !isWordRune(r) }) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, lang)
	}
	return nil
}

// ValidateAssetPrefix checks that prefix names a directory of the document tree.
func ValidateAssetPrefix(prefix string) error {
	trimmed := strings.Trim(prefix, "/")
	if trimmed == "" || strings.ContainsAny(trimmed, "()[]") || strings.IndexFunc(trimmed, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidAssetPrefix, prefix)
	}
	return nil
}

// Report describes what fixing one notebook did.
type Report struct {
	Path           string
	Modified       bool // Normalized || Split
	Normalized     bool
	Split          bool
	Title          string // frontmatter title removed from the first cell
	NormalizeStats NormalizeStats
	SplitStats     SplitStats
	CellsBefore    int
	CellsAfter     int
	Literal        []LiteralBlock // only filled by FixFile and CheckFile with WithLiteralBlocks
}

// Fix runs both passes over nb in place. dir is the notebook's directory
// relative to the root of the document tree.
func (f *Fixer) Fix(nb *Notebook, dir string) Report {
	r := Report{CellsBefore: len(nb.Cells)}
	r.NormalizeStats, r.Normalized = f.normalize(nb, dir)
	r.SplitStats, r.Split = f.split(nb)
	r.Title = r.NormalizeStats.Title
	r.CellsAfter = len(nb.Cells)
	r.Modified = r.Normalized || r.Split
	return r
}

// FixFile fixes the notebook at path and writes it back when it changed.
// Unchanged notebooks are never rewritten.
func (f *Fixer) FixFile(ctx context.Context, path string) (Report, error) {
	return f.processFile(ctx, path, true)
}

// CheckFile reports what FixFile would do without writing anything.
func (f *Fixer) CheckFile(ctx context.Context, path string) (Report, error) {
	return f.processFile(ctx, path, false)
}

func (f *Fixer) processFile(ctx context.Context, path string, write bool) (Report, error) {
	report := Report{Path: path}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	dir, err := f.treeDir(path)
	if err != nil {
		return report, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return report, fmt.Errorf("%w: %v", ErrReadNotebook, err)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- caller-provided notebook path
	if err != nil {
		return report, fmt.Errorf("%w: %v", ErrReadNotebook, err)
	}

	nb, err := Decode(data)
	if err != nil {
		return report, err
	}
	if err := Validate(nb); err != nil {
		return report, err
	}

	report = f.Fix(nb, dir)
	report.Path = path
	if f.literal {
		report.Literal = f.LiteralBlocks(nb)
	}
	f.logger.Debug("notebook processed",
		"path", path,
		"modified", report.Modified,
		"cells_before", report.CellsBefore,
		"cells_after", report.CellsAfter,
	)

	if !report.Modified || !write {
		return report, nil
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}
	out, err := Encode(nb)
	if err != nil {
		return report, fmt.Errorf("%w: %v", ErrWriteNotebook, err)
	}
	if err := fileutil.WriteFileAtomic(path, out, info.Mode().Perm()); err != nil {
		return report, fmt.Errorf("%w: %v", ErrWriteNotebook, err)
	}
	f.logger.Info("notebook rewritten", "path", path)
	return report, nil
}

// treeDir returns the directory of path relative to the base directory,
// with forward slashes.
func (f *Fixer) treeDir(path string) (string, error) {
	base, err := filepath.Abs(f.rules.baseDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadNotebook, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadNotebook, err)
	}

	rel, err := filepath.Rel(base, filepath.Dir(abs))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideBase, path)
	}
	return filepath.ToSlash(rel), nil
}
