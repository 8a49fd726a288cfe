// Package grammar defines rules driving the chart parser.
//
// A rule produces a nonterminal from a sequence of symbols. When a rule is complete the parser
// calls its Postprocess with the values of matched children (*lexer.Token for terminals, produced
// values for nonterminals); returning Reject vetoes the derivation. Preprocess is called each time
// the parser advances over a symbol and may replace the branch Context or kill the branch.
package grammar

import (
	"sort"

	"github.com/samepage-network/obsidian-samepage"
)

// Error codes used by grammar validation:
const (
	// UndefinedNontermError indicates a symbol referring to a nonterminal without rules.
	UndefinedNontermError = samepage.ParserErrors + 10 + iota

	// MissingStartError indicates that grammar has no rule for its start nonterminal.
	MissingStartError
)

// Symbol is either a terminal (token type name) or a nonterminal (rule name).
type Symbol struct {
	Name     string
	Terminal bool
}

// T creates terminal symbol.
func T(typeName string) Symbol {
	return Symbol{typeName, true}
}

// N creates nonterminal symbol.
func N(name string) Symbol {
	return Symbol{name, false}
}

func (s Symbol) String() string {
	if s.Terminal {
		return "%" + s.Name
	}
	return s.Name
}

type rejected struct{}

func (rejected) String() string {
	return "-reject-"
}

// Reject is returned by Postprocess to veto a derivation.
var Reject any = rejected{}

// Postprocess reduces children values to the value of the rule.
type Postprocess = func(data []any, ctx Context) any

// Preprocess maps branch context when the rule advances to position dot.
// ok == false discards the branch.
type Preprocess = func(ctx Context, dot int) (next Context, ok bool)

// Rule describes one production.
type Rule struct {
	Name        string
	Symbols     []Symbol
	Postprocess Postprocess
	Preprocess  Preprocess
}

func (r *Rule) String() string {
	return r.StringAt(-1)
}

// StringAt formats rule with a dot before symbol dot; dot < 0 omits the dot.
func (r *Rule) StringAt(dot int) string {
	s := r.Name + " →"
	for i, sym := range r.Symbols {
		if i == dot {
			s += " ●"
		}
		s += " " + sym.String()
	}
	if dot == len(r.Symbols) {
		s += " ●"
	}
	return s
}

// Grammar is a set of rules with start nonterminal.
type Grammar struct {
	Start string
	Rules []*Rule
}

// Validate checks that start nonterminal and every referenced nonterminal have rules.
func (g *Grammar) Validate() error {
	names := make(map[string]bool, len(g.Rules))
	for _, r := range g.Rules {
		names[r.Name] = true
	}
	if !names[g.Start] {
		return samepage.FormatError(MissingStartError, "no rules for start nonterminal %q", g.Start)
	}

	var undefined []string
	for _, r := range g.Rules {
		for _, sym := range r.Symbols {
			if !sym.Terminal && !names[sym.Name] {
				undefined = append(undefined, sym.Name+" in "+r.String())
			}
		}
	}
	if len(undefined) > 0 {
		sort.Strings(undefined)
		return samepage.FormatError(UndefinedNontermError, "undefined nonterminal %s", undefined[0])
	}
	return nil
}

// Context is per-branch parse state.
// Index is the column where the branch started, Flags is an immutable flag set.
type Context struct {
	Flags Flags
	Index int
}

// Flags is an immutable sorted set of flag names, zero value is the empty set.
type Flags struct {
	names []string
}

// NewFlags creates set containing names.
func NewFlags(names ...string) Flags {
	var f Flags
	for _, n := range names {
		f = f.With(n)
	}
	return f
}

func (f Flags) find(name string) (int, bool) {
	i := sort.SearchStrings(f.names, name)
	return i, i < len(f.names) && f.names[i] == name
}

func (f Flags) Has(name string) bool {
	_, found := f.find(name)
	return found
}

// With returns set containing name, f itself is not changed.
func (f Flags) With(name string) Flags {
	i, found := f.find(name)
	if found {
		return f
	}
	names := make([]string, len(f.names)+1)
	copy(names, f.names[:i])
	names[i] = name
	copy(names[i+1:], f.names[i:])
	return Flags{names}
}

// Without returns set not containing name, f itself is not changed.
func (f Flags) Without(name string) Flags {
	i, found := f.find(name)
	if !found {
		return f
	}
	names := make([]string, len(f.names)-1)
	copy(names, f.names[:i])
	copy(names[i:], f.names[i+1:])
	return Flags{names}
}

func (f Flags) Len() int {
	return len(f.names)
}

func (f Flags) String() string {
	s := "{"
	for i, n := range f.names {
		if i > 0 {
			s += " "
		}
		s += n
	}
	return s + "}"
}
