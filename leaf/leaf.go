// Package leaf parses Obsidian pages into annotation documents.
//
// The dialect covers paragraphs, nested bullet and numbered blocks, bold, italics, strikethrough
// (closed or left open until the end of block), links, images, fenced code blocks, and page
// references. Page text must round-trip: render.Render(Parse(text)) == text.
package leaf

import (
	"github.com/google/uuid"
	"github.com/npillmayer/schuko/tracing"

	"github.com/samepage-network/obsidian-samepage/document"
	"github.com/samepage-network/obsidian-samepage/grammar"
	"github.com/samepage-network/obsidian-samepage/lexer"
	"github.com/samepage-network/obsidian-samepage/parser"
)

// tracer traces with key 'samepage.leaf'.
func tracer() tracing.Trace {
	return tracing.Select("samepage.leaf")
}

// Options configure Parser.
type Options struct {
	// NotebookID returns the local notebook identifier stored in references without notebook prefix.
	// nil means empty identifier.
	NotebookID func() string

	// BlockID returns identifier for block number index (in content order).
	// nil leaves blocks without identifiers.
	BlockID func(index int) string

	// Debug adds expected terminals to syntax errors and traces chart sizes.
	Debug bool
}

// UUIDBlockIDs returns a BlockID generator producing random UUIDs.
func UUIDBlockIDs() func(int) string {
	return func(int) string {
		return uuid.NewString()
	}
}

// Parser is immutable and safe for concurrent use.
type Parser struct {
	parser  *parser.Parser
	blockID func(int) string
}

// New builds the page lexer and grammar.
func New(opts Options) (*Parser, error) {
	notebookID := opts.NotebookID
	if notebookID == nil {
		notebookID = func() string { return "" }
	}

	p, e := parser.New(newGrammar(notebookID), newLexer(), parser.WithDebug(opts.Debug))
	if e != nil {
		return nil, e
	}
	return &Parser{p, opts.BlockID}, nil
}

// Grammar returns the page grammar.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.parser.Grammar()
}

// Lexer returns the page lexer.
func (p *Parser) Lexer() *lexer.Lexer {
	return p.parser.Lexer()
}

// Parse converts page text to document.
// Every document has at least one block, empty text becomes a single empty paragraph.
func (p *Parser) Parse(text string) (document.Document, error) {
	result, e := p.parser.Parse("page", text)
	if e != nil {
		return document.Document{}, e
	}

	d := result.(document.Document)
	if p.blockID != nil {
		d = assignBlockIDs(d, p.blockID)
	}
	tracer().Debugf("parsed %d unit(s) into %d annotation(s)", d.Len(), len(d.Annotations))
	return d, nil
}

// Parse is a shortcut for New(opts) followed by Parse(text).
func Parse(text string, opts Options) (document.Document, error) {
	p, e := New(opts)
	if e != nil {
		return document.Document{}, e
	}
	return p.Parse(text)
}

func assignBlockIDs(d document.Document, blockID func(int) string) document.Document {
	anns := make([]document.Annotation, len(d.Annotations))
	copy(anns, d.Annotations)
	index := 0
	for i, a := range anns {
		if b, f := a.Attributes.(document.Block); f {
			b.ID = blockID(index)
			anns[i].Attributes = b
			index++
		}
	}
	d.Annotations = anns
	return d
}
