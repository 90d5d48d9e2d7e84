package nbfix

import "github.com/alnah/go-nbfix/internal/mdscan"

// Reasons a fenced block stays inside a markdown cell.
const (
	ReasonContainer = "container" // starts inside a container element
	ReasonLanguage  = "language"  // language is not extracted
	ReasonSyntax    = "syntax"    // fence form the splitter does not recognise
)

// LiteralBlock is a fenced code block kept as text in a markdown cell.
type LiteralBlock struct {
	CellID   string
	Line     int // 1-based, within the cell text
	Language string
	Lexer    string // canonical syntax name, "" when the language is unknown
	Reason   string
}

// LiteralBlocks lists the fenced code blocks found in the markdown cells of
// nb. On a fixed notebook these are the blocks the splitter left in place.
func (f *Fixer) LiteralBlocks(nb *Notebook) []LiteralBlock {
	var out []LiteralBlock
	for _, cell := range nb.Cells {
		if cell.Type() != CellMarkdown {
			continue
		}
		text := cell.Source()
		blocks := mdscan.FencedBlocks(text)
		if len(blocks) == 0 {
			continue
		}

		regions := noSplitRegions(text, f.rules.containers)
		for _, b := range blocks {
			out = append(out, LiteralBlock{
				CellID:   cell.ID(),
				Line:     b.Line,
				Language: b.Language,
				Lexer:    b.Lexer,
				Reason:   f.literalReason(b, regions),
			})
		}
	}
	return out
}

func (f *Fixer) literalReason(b mdscan.Block, regions []region) string {
	switch {
	case inRegion(b.Offset, regions):
		return ReasonContainer
	case !f.rules.extractable(b.Language):
		return ReasonLanguage
	default:
		return ReasonSyntax
	}
}
