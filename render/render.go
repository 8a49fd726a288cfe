// Package render converts annotation documents back to Obsidian page text.
//
// Annotations are applied one by one in document order. Each annotation wraps its current range
// with a prefix and a suffix (and may replace or trim the range), after which the ranges of the
// remaining annotations are moved to follow the rewritten text. Offsets are UTF-16 units, so the
// page is rewritten as a UTF-16 buffer.
package render

import (
	"strings"
	"unicode/utf16"

	"github.com/npillmayer/schuko/tracing"

	"github.com/samepage-network/obsidian-samepage/document"
)

// tracer traces with key 'samepage.render'.
func tracer() tracing.Trace {
	return tracing.Select("samepage.render")
}

// Options configure Render.
type Options struct {
	// NotebookID returns the local notebook identifier, references into it are rendered without
	// notebook prefix. nil means empty identifier.
	NotebookID func() string

	// App selects rendering hints, document.App if empty.
	App string
}

type span struct {
	start, end int
}

type renderer struct {
	app     string
	local   string
	content []uint16
	spans   []span
}

func units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// Render returns page text for d.
// Returns document.MalformedDocumentError if d offsets or block tiling are broken.
func Render(d document.Document, opts Options) (string, error) {
	if e := document.Validate(d); e != nil {
		tracer().Errorf("%s", e.Error())
		return "", e
	}

	r := &renderer{app: opts.App, content: units(d.Content), spans: make([]span, len(d.Annotations))}
	if r.app == "" {
		r.app = document.App
	}
	if opts.NotebookID != nil {
		r.local = opts.NotebookID()
	}
	for i, a := range d.Annotations {
		r.spans[i] = span{a.Start, a.End}
	}

	firstBlock := -1
	for i, a := range d.Annotations {
		if a.Type() == document.BlockType {
			firstBlock = i
			break
		}
	}

	for i, a := range d.Annotations {
		r.apply(i, a, i == firstBlock)
	}
	tracer().Debugf("rendered %d annotation(s) into %d unit(s)", len(d.Annotations), len(r.content))
	return string(utf16.Decode(r.content)), nil
}

func (r *renderer) apply(i int, a document.Annotation, first bool) {
	s, e := r.spans[i].start, r.spans[i].end
	body := append([]uint16(nil), r.content[s:e]...)
	h := a.Hints(r.app)

	var prefix, suffix string
	switch attrs := a.Attributes.(type) {
	case document.Block:
		prefix = blockPrefix(attrs, h, first)
		if n := len(body); n > 0 && body[n-1] == '\n' {
			body = body[:n-1]
		}

	case document.Bold:
		prefix, suffix = emphasis(document.Emphasis(attrs), h, "**")

	case document.Italics:
		prefix, suffix = emphasis(document.Emphasis(attrs), h, "_")

	case document.Strikethrough:
		prefix, suffix = emphasis(document.Emphasis(attrs), h, "~~")

	case document.Link:
		prefix, suffix = "[", "]("+attrs.Href+")"
		body = dropPlaceholder(body)

	case document.Image:
		prefix, suffix = "![", "]("+attrs.Src+")"
		body = dropPlaceholder(body)

	case document.Reference:
		page := attrs.NotebookPageID
		if attrs.NotebookUUID != r.local {
			page = attrs.NotebookUUID + ":" + page
		}
		body = units("[[" + page + "]]")

	case document.Code:
		fence := strings.Repeat("`", max(3, attrs.Ticks))
		prefix, suffix = fence+attrs.Language+"\n", fence
	}

	pre, suf := units(prefix), units(suffix)
	replaced := make([]uint16, 0, len(r.content)+len(pre)+len(suf)-(e-s)+len(body))
	replaced = append(replaced, r.content[:s]...)
	replaced = append(replaced, pre...)
	replaced = append(replaced, body...)
	replaced = append(replaced, suf...)
	replaced = append(replaced, r.content[e:]...)
	r.content = replaced

	delta := len(pre) + len(body) + len(suf) - (e - s)
	for j := i + 1; j < len(r.spans); j++ {
		sp := &r.spans[j]
		nested := s <= sp.start && sp.end <= e
		sp.start = remap(sp.start, s, e, delta, len(pre), len(body), nested)
		sp.end = remap(sp.end, s, e, delta, len(pre), len(body), nested)
	}
}

// remap moves position p of a later annotation after range [s, e) was rewritten.
// Positions inside the range keep their distance from the range start, capped by body length.
// Bounds at s or e of an annotation that is not nested stay outside the inserted delimiters.
func remap(p, s, e, delta, pre, body int, nested bool) int {
	switch {
	case p < s:
		return p
	case p > e || (p == e && !nested):
		return p + delta
	case p > s || nested:
		return s + pre + min(p-s, body)
	default:
		return p
	}
}

func blockPrefix(b document.Block, h document.Hints, first bool) string {
	indent := h.Spacing
	if indent == "" {
		indent = strings.Repeat("\t", max(b.Level-1, 0))
	}

	marker := ""
	switch b.ViewType {
	case document.BulletView:
		marker = "- "
	case document.NumberedView:
		marker = "1. "
		if h.Marker != "" {
			marker = h.Marker
		}
	}

	switch {
	case first:
		return indent + marker
	case b.ViewType == document.DocumentView:
		return "\n\n" + indent
	default:
		return "\n" + indent + marker
	}
}

func emphasis(attrs document.Emphasis, h document.Hints, delimiter string) (prefix, suffix string) {
	if attrs.Delimiter != "" {
		delimiter = attrs.Delimiter
	}
	if h.Delimiter != "" {
		delimiter = h.Delimiter
	}
	if attrs.Open {
		return delimiter, ""
	}
	return delimiter, delimiter
}

func dropPlaceholder(body []uint16) []uint16 {
	if string(utf16.Decode(body)) == document.Placeholder {
		return nil
	}
	return body
}
