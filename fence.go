package nbfix

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// fenceMarker opens and closes a fenced code block.
const fenceMarker = "```"

// fence is a fenced code block found in a cell's text.
type fence struct {
	start  int    // offset of the opening line
	end    int    // offset just past the closing fence, before its newline
	indent string // spaces before the opening fence
	lang   string // language tag, lowercased
	body   string // text between the fences
}

// findFences returns the fenced code blocks of text in order.
//
// A block opens on a line made of an indentation of spaces, three backticks, an
// optional word-character language tag and optional trailing whitespace. It
// closes on the first later line made of the same indentation, three backticks
// and optional spaces. Lines that open no block are skipped; a block without a
// closing line is not a block.
func findFences(text string) []fence {
	var fences []fence
	pos := 0
	for pos < len(text) {
		if f, ok := matchFence(text, pos); ok {
			fences = append(fences, f)
			pos = f.end
		}
		next := strings.IndexByte(text[pos:], '\n')
		if next < 0 {
			break
		}
		pos += next + 1
	}
	return fences
}

// matchFence tries to match a fenced block opening at lineStart.
func matchFence(text string, lineStart int) (fence, bool) {
	i := lineStart
	for i < len(text) && text[i] == ' ' {
		i++
	}
	indent := text[lineStart:i]
	if !strings.HasPrefix(text[i:], fenceMarker) {
		return fence{}, false
	}
	i += len(fenceMarker)

	langStart := i
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isWordRune(r) {
			break
		}
		i += size
	}
	lang := text[langStart:i]

	// Whitespace after the tag may span blank lines; the body starts after
	// the last newline of that run.
	wsEnd := i
	for wsEnd < len(text) {
		r, size := utf8.DecodeRuneInString(text[wsEnd:])
		if !unicode.IsSpace(r) {
			break
		}
		wsEnd += size
	}
	nl := strings.LastIndexByte(text[i:wsEnd], '\n')
	if nl < 0 {
		return fence{}, false
	}
	bodyStart := i + nl + 1

	closing := indent + fenceMarker
	for q := bodyStart; q <= len(text); {
		if strings.HasPrefix(text[q:], closing) {
			j := q + len(closing)
			for j < len(text) && text[j] == ' ' {
				j++
			}
			if j == len(text) || text[j] == '\n' {
				return fence{
					start:  lineStart,
					end:    j,
					indent: indent,
					lang:   strings.ToLower(lang),
					body:   text[bodyStart:q],
				}, true
			}
		}
		next := strings.IndexByte(text[q:], '\n')
		if next < 0 {
			break
		}
		q += next + 1
	}
	return fence{}, false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// extractBody turns a fence body into code cell text: the fence indentation
// is removed from every line (lines without it lose all leading whitespace),
// the remaining common indentation is removed, and blank lines at both ends
// are dropped. Non-empty results end with exactly one newline.
func extractBody(body, indent string) string {
	result := body
	if indent != "" {
		lines := strings.Split(body, "\n")
		for i, line := range lines {
			switch {
			case isBlank(line):
				lines[i] = ""
			case strings.HasPrefix(line, indent):
				lines[i] = line[len(indent):]
			default:
				lines[i] = strings.TrimLeftFunc(line, unicode.IsSpace)
			}
		}
		result = strings.Join(lines, "\n")
	}

	result = strings.Trim(dedent(result), "\n")
	if result == "" {
		return ""
	}
	return result + "\n"
}

// dedent removes the longest run of spaces and tabs shared by every non-blank
// line. Lines holding only spaces and tabs become empty.
func dedent(text string) string {
	lines := strings.Split(text, "\n")
	margin, found := "", false
	for i, line := range lines {
		rest := strings.TrimLeft(line, " \t")
		if rest == "" {
			lines[i] = ""
			continue
		}
		lead := line[:len(line)-len(rest)]
		switch {
		case !found:
			margin, found = lead, true
		case strings.HasPrefix(lead, margin):
		case strings.HasPrefix(margin, lead):
			margin = lead
		default:
			margin = commonPrefix(margin, lead)
		}
	}

	if margin != "" {
		for i, line := range lines {
			lines[i] = strings.TrimPrefix(line, margin)
		}
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// shellPrefix marks every command line of a shell block with "!" so the
// notebook runs it as a shell command. Blank and comment lines are kept.
func shellPrefix(code string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		lines[i] = "!" + line
	}
	return strings.Join(lines, "\n")
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
