package nbfix

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Precompiled regex patterns shared by the normalizer.
var (
	// YAML frontmatter at the very start of a cell: ---\n...\n---\n
	frontmatterPattern = regexp.MustCompile(`(?s)\A---\n.*?(?m:^)---(?:\n+|\z)`)

	// MDX comment lines: {/* cspell:ignore ... */}
	directivePattern = regexp.MustCompile(`(?m)^\{/\*.*?\*/\}\s*\n?`)

	// JSX <Image src="..." alt="..." />, attributes in either order
	imagePattern = regexp.MustCompile(
		`<Image\s+` +
			`(?:src="(?P<src1>[^"]+)"\s+alt="(?P<alt1>[^"]*)"` +
			`|alt="(?P<alt2>[^"]*)"\s+src="(?P<src2>[^"]+)")` +
			`\s*/?>`,
	)
)

// Capture group indexes of imagePattern.
var (
	imageSrc1 = imagePattern.SubexpIndex("src1")
	imageAlt1 = imagePattern.SubexpIndex("alt1")
	imageSrc2 = imagePattern.SubexpIndex("src2")
	imageAlt2 = imagePattern.SubexpIndex("alt2")
)

// imageAttrs extracts (src, alt) from imagePattern submatch indexes.
// A missing alt yields "".
func imageAttrs(text string, loc []int) (src, alt string) {
	group := func(i int) string {
		if loc[2*i] < 0 {
			return ""
		}
		return text[loc[2*i]:loc[2*i+1]]
	}
	if src = group(imageSrc1); src != "" {
		return src, group(imageAlt1)
	}
	return group(imageSrc2), group(imageAlt2)
}

// assetLinkPattern builds the pattern for markdown images whose path starts
// with one of the given root-relative prefixes.
func assetLinkPattern(prefixes []string) *regexp.Regexp {
	quoted := make([]string, len(prefixes))
	for i, p := range prefixes {
		quoted[i] = regexp.QuoteMeta(strings.Trim(p, "/"))
	}
	return regexp.MustCompile(`!\[([^\]]*)\]\((/(?:` + strings.Join(quoted, "|") + `)/[^)]+)\)`)
}

// relativePath converts a root-relative asset path such as /docs/images/a.png
// into a path relative to notebookDir, which is itself relative to the root of
// the document tree. URLs and paths that are not root-relative are returned
// unchanged.
func relativePath(src, notebookDir string) string {
	if !isRootRelative(src) {
		return src
	}
	treePath := filepath.FromSlash(strings.TrimPrefix(src, "/"))
	if notebookDir == "" {
		notebookDir = "."
	}
	rel, err := filepath.Rel(filepath.FromSlash(notebookDir), treePath)
	if err != nil {
		return src
	}
	return filepath.ToSlash(rel)
}

// isRootRelative reports whether src is an absolute path inside the document
// tree rather than a URL or protocol-relative reference.
func isRootRelative(src string) bool {
	return strings.HasPrefix(src, "/") && !strings.HasPrefix(src, "//")
}
