package parser

import (
	"github.com/samepage-network/obsidian-samepage/grammar"
)

// wantList is shared by all states predicted for the same nonterminal in a column,
// states waiting later on that nonterminal are appended in place.
type wantList struct {
	states []*state
}

type state struct {
	rule     *grammar.Rule
	dot      int
	ctx      grammar.Context
	wantedBy *wantList
	left     *state
	right    any
	data     any
	complete bool
}

func newState(r *grammar.Rule, ctx grammar.Context, wantedBy *wantList) *state {
	s := &state{rule: r, ctx: ctx, wantedBy: wantedBy, complete: len(r.Symbols) == 0}
	if s.complete {
		s.data = []any{}
	}
	return s
}

func (s *state) expecting() grammar.Symbol {
	return s.rule.Symbols[s.dot]
}

// next advances s over a child value; nil means preprocess discarded the branch.
func (s *state) next(child any) *state {
	dot := s.dot + 1
	ctx := s.ctx
	if s.rule.Preprocess != nil {
		var ok bool
		ctx, ok = s.rule.Preprocess(s.ctx, dot)
		if !ok {
			return nil
		}
	}

	n := &state{
		rule:     s.rule,
		dot:      dot,
		ctx:      ctx,
		wantedBy: s.wantedBy,
		left:     s,
		right:    child,
		complete: dot == len(s.rule.Symbols),
	}
	if n.complete {
		n.data = n.children()
	}
	return n
}

func (s *state) children() []any {
	result := make([]any, s.dot)
	n := s
	for i := s.dot - 1; i >= 0; i-- {
		result[i] = n.right
		n = n.left
	}
	return result
}

func (s *state) String() string {
	return s.rule.StringAt(s.dot)
}

type column struct {
	index     int
	states    []*state
	wants     map[string]*wantList
	scannable []*state
	completed map[string][]*state
}

func newColumn(index int) *column {
	return &column{
		index:     index,
		wants:     make(map[string]*wantList),
		completed: make(map[string][]*state),
	}
}
