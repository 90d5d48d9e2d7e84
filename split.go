package nbfix

import "fmt"

// SplitStats counts the cells produced by the splitter.
type SplitStats struct {
	SplitCells    int // markdown cells replaced by their split result
	MarkdownCells int // markdown cells created
	CodeCells     int // code cells created
	DroppedBlocks int // fenced blocks with an empty body
}

// Split runs the second pass over nb: markdown cells holding extractable fenced
// blocks outside container regions are replaced by an ordered run of markdown
// and code cells. It reports whether the cell list changed.
func (f *Fixer) Split(nb *Notebook) bool {
	_, changed := f.split(nb)
	return changed
}

func (f *Fixer) split(nb *Notebook) (SplitStats, bool) {
	var stats SplitStats
	changed := false

	cells := make([]*Cell, 0, len(nb.Cells))
	for _, cell := range nb.Cells {
		if cell.Type() != CellMarkdown {
			cells = append(cells, cell)
			continue
		}
		parts := f.splitCell(cell, &stats)
		if len(parts) != 1 || parts[0] != cell {
			stats.SplitCells++
			changed = true
		}
		cells = append(cells, parts...)
	}

	nb.Cells = cells
	return stats, changed
}

// splitCell returns the cells replacing cell. A cell without candidate blocks
// is returned as is.
func (f *Fixer) splitCell(cell *Cell, stats *SplitStats) []*Cell {
	text := cell.Source()
	candidates := f.candidates(text)
	if len(candidates) == 0 {
		return []*Cell{cell}
	}

	baseID, ok := cell.fields["id"].(string)
	if !ok {
		baseID = defaultCellID
	}

	parts := make([]*Cell, 0, 2*len(candidates)+1)
	prev := 0
	for n, fc := range candidates {
		if md := text[prev:fc.start]; !isBlank(md) {
			parts = append(parts, NewMarkdownCell(fmt.Sprintf("%s-md%d", baseID, n), markdownText(md)))
			stats.MarkdownCells++
		}
		prev = fc.end

		code := extractBody(fc.body, fc.indent)
		if code == "" {
			stats.DroppedBlocks++
			continue
		}
		if f.rules.shellLangs[fc.lang] {
			code = shellPrefix(code)
		}
		parts = append(parts, NewCodeCell(fmt.Sprintf("%s-code%d", baseID, n), code))
		stats.CodeCells++
	}

	if md := text[prev:]; !isBlank(md) {
		parts = append(parts, NewMarkdownCell(fmt.Sprintf("%s-md%d", baseID, len(candidates)), markdownText(md)))
		stats.MarkdownCells++
	}
	return parts
}

// candidates returns the fenced blocks of text that become code cells: those
// with an extractable language that do not start inside a container region.
func (f *Fixer) candidates(text string) []fence {
	fences := findFences(text)
	if len(fences) == 0 {
		return nil
	}

	regions := noSplitRegions(text, f.rules.containers)
	var out []fence
	for _, fc := range fences {
		if f.rules.extractable(fc.lang) && !inRegion(fc.start, regions) {
			out = append(out, fc)
		}
	}
	return out
}

// markdownText trims the newlines around a markdown chunk and ends it with
// exactly one.
func markdownText(s string) string {
	for len(s) > 0 && s[0] == '\n' {
		s = s[1:]
	}
	for len(s) > 0 && s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	return s + "\n"
}
