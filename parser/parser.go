// Package parser defines Earley chart parser.
//
// The parser keeps one column per token boundary. A column holds parse states (rules with a dot
// position and the column they started in), the states waiting for each nonterminal (shared by
// every state predicted for it), states expecting a terminal, and nullable completions.
// Each branch carries a grammar.Context threaded through rule preprocess hooks, so rules may track
// and veto interpretations per branch. Only the current and the next column are retained.
package parser

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/samepage-network/obsidian-samepage/grammar"
	"github.com/samepage-network/obsidian-samepage/lexer"
	"github.com/samepage-network/obsidian-samepage/source"
)

// tracer traces with key 'samepage.parser'.
func tracer() tracing.Trace {
	return tracing.Select("samepage.parser")
}

// Parser is immutable and safe for concurrent use.
type Parser struct {
	grammar *grammar.Grammar
	lexer   *lexer.Lexer
	rules   map[string][]*grammar.Rule
	debug   bool
}

// Option configures Parser.
type Option func(p *Parser)

// WithDebug makes NoParseError list the expected terminals together with the rules expecting them.
func WithDebug(debug bool) Option {
	return func(p *Parser) {
		p.debug = debug
	}
}

// New creates parser for validated grammar g using lexer l.
// Every terminal of g must be a token type name of l.
func New(g *grammar.Grammar, l *lexer.Lexer, opts ...Option) (*Parser, error) {
	if e := g.Validate(); e != nil {
		return nil, e
	}

	p := &Parser{grammar: g, lexer: l, rules: make(map[string][]*grammar.Rule)}
	for _, r := range g.Rules {
		p.rules[r.Name] = append(p.rules[r.Name], r)
		for _, sym := range r.Symbols {
			if !sym.Terminal {
				continue
			}
			if _, f := l.TypeOf(sym.Name); !f {
				return nil, unknownTerminalError(sym.Name, r.String())
			}
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

func (p *Parser) Lexer() *lexer.Lexer {
	return p.lexer
}

// Parse tokenizes text and returns the value produced by the only derivation of start nonterminal.
// name is used in error messages only.
func (p *Parser) Parse(name, text string) (any, error) {
	src := source.New(name, text)
	toks, e := p.lexer.Tokens(src)
	if e != nil {
		return nil, e
	}
	return p.ParseTokens(src, toks)
}

// ParseTokens parses tokens fetched from src.
func (p *Parser) ParseTokens(src *source.Source, toks []*lexer.Token) (any, error) {
	col := newColumn(0)
	col.wants[p.grammar.Start] = &wantList{}
	p.predict(col, p.grammar.Start, grammar.Context{})
	p.process(col)

	for _, tok := range toks {
		next := newColumn(col.index + 1)
		for i := len(col.scannable) - 1; i >= 0; i-- {
			st := col.scannable[i]
			if st.expecting().Name != tok.TypeName() {
				continue
			}
			if n := st.next(tok); n != nil {
				next.states = append(next.states, n)
			}
		}
		p.process(next)
		if p.debug {
			tracer().Debugf("column %d: %d state(s), %d scannable after %s", next.index, len(next.states), len(next.scannable), tok)
		}

		if len(next.states) == 0 {
			details := ""
			if p.debug {
				details = expectations(tok, col)
			}
			e := noParseError(tok, details)
			tracer().Errorf("%s", e.Error())
			return nil, e
		}
		col = next
	}

	var results []any
	for _, st := range col.states {
		if st.complete && st.rule.Name == p.grammar.Start && st.ctx.Index == 0 && st.data != grammar.Reject {
			results = append(results, st.data)
		}
	}

	switch len(results) {
	case 0:
		return nil, unexpectedEndError(lexer.EofToken(src))
	case 1:
		return results[0], nil
	default:
		e := ambiguousGrammarError(len(results))
		tracer().Errorf("%s in %q", e.Error(), src.Name())
		return nil, e
	}
}

func (p *Parser) predict(col *column, name string, ctx grammar.Context) {
	wantedBy := col.wants[name]
	for _, r := range p.rules[name] {
		col.states = append(col.states, newState(r, grammar.Context{Flags: ctx.Flags, Index: col.index}, wantedBy))
	}
}

func (p *Parser) complete(col *column, left, right *state) {
	if n := left.next(right.data); n != nil {
		col.states = append(col.states, n)
	}
}

func (p *Parser) process(col *column) {
	for w := 0; w < len(col.states); w++ {
		st := col.states[w]
		if st.complete {
			p.finish(col, st)
			continue
		}

		sym := st.expecting()
		if sym.Terminal {
			col.scannable = append(col.scannable, st)
			continue
		}

		if wl, f := col.wants[sym.Name]; f {
			wl.states = append(wl.states, st)
			done := col.completed[sym.Name]
			for i, l := 0, len(done); i < l; i++ {
				p.complete(col, st, done[i])
			}
		} else {
			col.wants[sym.Name] = &wantList{states: []*state{st}}
			p.predict(col, sym.Name, st.ctx)
		}
	}
}

func (p *Parser) finish(col *column, st *state) {
	if st.rule.Postprocess != nil {
		st.data = st.rule.Postprocess(st.data.([]any), st.ctx)
	}
	if st.data == grammar.Reject {
		if p.debug {
			tracer().Debugf("column %d: rejected %s", col.index, st)
		}
		return
	}

	if st.wantedBy != nil {
		waiting := st.wantedBy.states
		for i, l := 0, len(waiting); i < l; i++ {
			p.complete(col, waiting[i], st)
		}
	}
	if st.ctx.Index == col.index {
		col.completed[st.rule.Name] = append(col.completed[st.rule.Name], st)
	}
}
