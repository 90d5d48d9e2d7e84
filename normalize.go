package nbfix

import (
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NormalizeStats counts the rewrites made by the normalizer.
type NormalizeStats struct {
	Frontmatter bool   // frontmatter removed from the first cell
	Title       string // title declared in the removed frontmatter, if any
	Directives  int    // {/* ... */} directives removed
	Images      int    // <Image> elements converted to markdown images
	Links       int    // absolute markdown image paths made relative
	Outputs     int    // outputs whose <Image> text became an HTML <img>
}

// Normalize runs the first pass over nb and reports whether anything changed.
// dir is the notebook's directory relative to the root of the document tree;
// it anchors the relative image paths.
func (f *Fixer) Normalize(nb *Notebook, dir string) bool {
	_, changed := f.normalize(nb, dir)
	return changed
}

func (f *Fixer) normalize(nb *Notebook, dir string) (NormalizeStats, bool) {
	var stats NormalizeStats
	changed := false

	for i, cell := range nb.Cells {
		if cell.Type() == CellMarkdown {
			original := cell.Source()
			text := original

			// Only the first cell of the document can carry frontmatter.
			if i == 0 {
				text = stripFrontmatter(text, &stats)
			}
			text = stripDirectives(text, &stats)
			text = rewriteImages(text, dir, &stats)
			text = f.rewriteAssetLinks(text, dir, &stats)

			if text != original {
				cell.SetSource(text)
				changed = true
			}
		}

		for _, out := range cell.Outputs() {
			if rewriteOutputImage(out, dir) {
				stats.Outputs++
				changed = true
			}
		}
	}

	return stats, changed
}

// stripFrontmatter removes a leading ---/--- block and the blank lines after it.
func stripFrontmatter(text string, stats *NormalizeStats) string {
	loc := frontmatterPattern.FindStringIndex(text)
	if loc == nil {
		return text
	}
	stats.Frontmatter = true
	stats.Title = frontmatterTitle(text[loc[0]:loc[1]])
	return text[loc[1]:]
}

// frontmatterTitle reads the title key of a frontmatter block.
// Blocks that are not valid YAML have no title.
func frontmatterTitle(block string) string {
	var meta struct {
		Title string `yaml:"title"`
	}
	if _, err := frontmatter.Parse(strings.NewReader(block), &meta); err != nil {
		return ""
	}
	return strings.TrimSpace(meta.Title)
}

// stripDirectives deletes every {/* ... */} line.
func stripDirectives(text string, stats *NormalizeStats) string {
	n := len(directivePattern.FindAllStringIndex(text, -1))
	if n == 0 {
		return text
	}
	stats.Directives += n
	return directivePattern.ReplaceAllString(text, "")
}

// rewriteImages turns <Image src alt /> elements into ![alt](relative-src).
func rewriteImages(text, dir string, stats *NormalizeStats) string {
	out, n := replaceAllSubmatchFunc(imagePattern, text, func(loc []int) string {
		src, alt := imageAttrs(text, loc)
		return "![" + alt + "](" + relativePath(src, dir) + ")"
	})
	stats.Images += n
	return out
}

// rewriteAssetLinks makes the path of ![alt](/prefix/...) images relative.
func (f *Fixer) rewriteAssetLinks(text, dir string, stats *NormalizeStats) string {
	if f.rules.assetLink == nil {
		return text
	}
	out, n := replaceAllSubmatchFunc(f.rules.assetLink, text, func(loc []int) string {
		alt := text[loc[2]:loc[3]]
		src := text[loc[4]:loc[5]]
		return "![" + alt + "](" + relativePath(src, dir) + ")"
	})
	stats.Links += n
	return out
}

// rewriteOutputImage replaces a pre-rendered <Image> in an output's plain text
// with an HTML <img> representation. The plain text representation is
// removed so the viewer renders the HTML one.
func rewriteOutputImage(out Output, dir string) bool {
	plain, ok := out.Text(MIMEPlain)
	if !ok {
		return false
	}
	loc := imagePattern.FindStringSubmatchIndex(plain)
	if loc == nil {
		return false
	}

	src, alt := imageAttrs(plain, loc)
	data := out.Data()
	data[MIMEHTML] = []any{renderImage(relativePath(src, dir), alt)}
	delete(data, MIMEPlain)
	return true
}

// renderImage renders a self-closing <img> element with escaped attributes.
func renderImage(src, alt string) string {
	node := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Img,
		Data:     "img",
		Attr: []html.Attribute{
			{Key: "src", Val: src},
			{Key: "alt", Val: alt},
		},
	}
	var sb strings.Builder
	// strings.Builder never fails and img has no children, so Render cannot error.
	_ = html.Render(&sb, node)
	return sb.String()
}

// replaceAllSubmatchFunc is regexp.ReplaceAllStringFunc with access to the
// submatch indexes of each match. It returns the new text and the number of
// replacements.
func replaceAllSubmatchFunc(re *regexp.Regexp, text string, repl func(loc []int) string) (string, int) {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, 0
	}

	var sb strings.Builder
	sb.Grow(len(text))
	prev := 0
	for _, loc := range matches {
		sb.WriteString(text[prev:loc[0]])
		sb.WriteString(repl(loc))
		prev = loc[1]
	}
	sb.WriteString(text[prev:])
	return sb.String(), len(matches)
}
