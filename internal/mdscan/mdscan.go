// Package mdscan locates fenced code blocks in markdown with a CommonMark parser.
//
// The notebook splitter recognises fences with its own line scanner. This
// package parses the same text with goldmark so blocks the splitter leaves in
// place can be listed, whatever fence syntax they use.
package mdscan

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Block is a fenced code block found in a markdown source.
type Block struct {
	Offset   int    // byte offset of the opening fence line
	Line     int    // 1-based line number of the opening fence
	Language string // first word of the info string, lowercased
	Lexer    string // canonical name of the matching syntax, "" when unknown
}

// FencedBlocks returns the fenced code blocks of source in document order.
// Blocks whose opening line cannot be located (an empty block without an
// info string) are skipped.
func FencedBlocks(source string) []Block {
	src := []byte(source)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		offset, ok := openingOffset(fenced, source)
		if !ok {
			return ast.WalkSkipChildren, nil
		}
		lang := strings.ToLower(string(fenced.Language(src)))
		blocks = append(blocks, Block{
			Offset:   offset,
			Line:     strings.Count(source[:offset], "\n") + 1,
			Language: lang,
			Lexer:    lexerName(lang),
		})
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

// openingOffset finds the start of the line holding the opening fence.
func openingOffset(fenced *ast.FencedCodeBlock, source string) (int, bool) {
	if fenced.Info != nil {
		return lineStart(source, fenced.Info.Segment.Start), true
	}
	lines := fenced.Lines()
	if lines.Len() == 0 {
		return 0, false
	}
	first := lineStart(source, lines.At(0).Start)
	if first == 0 {
		return 0, false
	}
	// The fence sits on the line before the first content line.
	return lineStart(source, first-1), true
}

func lineStart(source string, pos int) int {
	return strings.LastIndexByte(source[:pos], '\n') + 1
}

func lexerName(lang string) string {
	if lang == "" {
		return ""
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}
