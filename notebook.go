package nbfix

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CellType identifies the kind of a notebook cell.
type CellType string

// Cell types defined by nbformat 4.
const (
	CellMarkdown CellType = "markdown"
	CellCode     CellType = "code"
	CellRaw      CellType = "raw"
)

// MIME types read and written by the output rewrite.
const (
	MIMEPlain = "text/plain"
	MIMEHTML  = "text/html"
)

// defaultCellID is the base for generated ids when a split cell has no id.
const defaultCellID = "split"

// Notebook is a decoded notebook document.
// Every top-level key other than "cells" is kept opaque and written back as read.
type Notebook struct {
	Cells  []*Cell
	fields map[string]any
}

// Cell wraps a decoded cell object. Keys the fixer does not know about are
// preserved on encode.
type Cell struct {
	fields map[string]any
}

// Output wraps a decoded output object attached to a cell.
type Output struct {
	fields map[string]any
}

// NewNotebook returns an nbformat 4.5 notebook holding the given cells.
func NewNotebook(cells ...*Cell) *Notebook {
	return &Notebook{
		Cells: cells,
		fields: map[string]any{
			"metadata":       map[string]any{},
			"nbformat":       json.Number("4"),
			"nbformat_minor": json.Number("5"),
		},
	}
}

// NewMarkdownCell creates a markdown cell with the given id and text.
func NewMarkdownCell(id, text string) *Cell {
	return &Cell{fields: map[string]any{
		"cell_type": string(CellMarkdown),
		"id":        id,
		"metadata":  map[string]any{},
		"source":    splitLines(text),
	}}
}

// NewCodeCell creates an unexecuted code cell with the given id and text.
func NewCodeCell(id, text string) *Cell {
	return &Cell{fields: map[string]any{
		"cell_type":       string(CellCode),
		"execution_count": nil,
		"id":              id,
		"metadata":        map[string]any{},
		"outputs":         []any{},
		"source":          splitLines(text),
	}}
}

// Type returns the cell_type field.
func (c *Cell) Type() CellType {
	s, _ := c.fields["cell_type"].(string)
	return CellType(s)
}

// ID returns the cell id, or "" when the cell has none.
func (c *Cell) ID() string {
	s, _ := c.fields["id"].(string)
	return s
}

// Source returns the cell text. nbformat allows either a string or a list of
// lines; both are joined into one string.
func (c *Cell) Source() string {
	return joinText(c.fields["source"])
}

// SetSource replaces the cell text, stored as a list of lines that keep their
// trailing newline.
func (c *Cell) SetSource(text string) {
	c.fields["source"] = splitLines(text)
}

// Field returns a raw field of the cell.
func (c *Cell) Field(key string) (any, bool) {
	v, ok := c.fields[key]
	return v, ok
}

// Outputs returns the outputs attached to the cell. Cells without an outputs
// list (markdown, raw) return nil.
func (c *Cell) Outputs() []Output {
	list, ok := c.fields["outputs"].([]any)
	if !ok {
		return nil
	}
	outputs := make([]Output, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			outputs = append(outputs, Output{fields: m})
		}
	}
	return outputs
}

// NewOutput creates an execute_result output with the given MIME bundle.
func NewOutput(data map[string]any) Output {
	return Output{fields: map[string]any{
		"output_type":     "execute_result",
		"data":            data,
		"metadata":        map[string]any{},
		"execution_count": nil,
	}}
}

// AddOutput appends an output to a code cell.
func (c *Cell) AddOutput(o Output) {
	list, _ := c.fields["outputs"].([]any)
	c.fields["outputs"] = append(list, o.fields)
}

// Data returns the MIME bundle of the output, or nil.
func (o Output) Data() map[string]any {
	data, _ := o.fields["data"].(map[string]any)
	return data
}

// Text returns the representation stored under mime, joined if it is a list
// of fragments.
func (o Output) Text(mime string) (string, bool) {
	data := o.Data()
	if data == nil {
		return "", false
	}
	v, ok := data[mime]
	if !ok {
		return "", false
	}
	return joinText(v), true
}

// Decode parses a notebook document. Numbers are kept as json.Number so they
// are written back exactly as read.
func Decode(data []byte) (*Notebook, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedNotebook, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformedNotebook)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document is not an object", ErrMalformedNotebook)
	}

	nb := &Notebook{fields: doc}
	if raw, ok := doc["cells"]; ok {
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: cells is not a list", ErrMalformedNotebook)
		}
		nb.Cells = make([]*Cell, 0, len(list))
		for i, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: cell %d is not an object", ErrMalformedNotebook, i)
			}
			nb.Cells = append(nb.Cells, &Cell{fields: m})
		}
	}
	delete(doc, "cells")

	return nb, nil
}

// Encode serializes the notebook with sorted keys, one-space indentation and a
// single trailing newline. HTML characters are written as is.
func Encode(nb *Notebook) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", " ")
	if err := enc.Encode(nb.document()); err != nil {
		return nil, fmt.Errorf("encoding notebook: %w", err)
	}
	return buf.Bytes(), nil
}

// document rebuilds the top-level object with the current cell list.
func (nb *Notebook) document() map[string]any {
	doc := make(map[string]any, len(nb.fields)+1)
	for k, v := range nb.fields {
		doc[k] = v
	}
	cells := make([]any, len(nb.Cells))
	for i, c := range nb.Cells {
		cells[i] = c.fields
	}
	doc["cells"] = cells
	return doc
}

// joinText flattens a string or a list of string fragments.
func joinText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		var sb strings.Builder
		for _, item := range t {
			if s, ok := item.(string); ok {
				sb.WriteString(s)
			}
		}
		return sb.String()
	case []string:
		return strings.Join(t, "")
	default:
		return ""
	}
}

// splitLines splits text into lines that keep their trailing newline.
// The empty string yields an empty list.
func splitLines(text string) []any {
	lines := make([]any, 0, strings.Count(text, "\n")+1)
	for text != "" {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
	return lines
}
