// Package lexer defines lexical analyzer.
package lexer

import (
	"github.com/dlclark/regexp2"
	"github.com/npillmayer/schuko/tracing"

	"github.com/samepage-network/obsidian-samepage"
	"github.com/samepage-network/obsidian-samepage/source"
)

// Error codes used by lexer:
const (
	// UnmatchedInputError indicates that no rule matches at current position.
	// Error message contains the text at current source position.
	UnmatchedInputError = samepage.LexicalErrors + iota

	// BadRuleError indicates that a rule expression cannot be compiled.
	BadRuleError

	// MatchError indicates that the regular expression engine gave up (e.g. timed out).
	MatchError
)

const excerptLen = 10

// tracer traces with key 'samepage.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("samepage.lexer")
}

// TokenType describes token type for specific rule.
type TokenType struct {
	// Type contains token type, equal to rule index.
	Type int

	// TypeName contains token type name.
	TypeName string
}

// Rule defines a token type with its regular expression.
// Expressions use .NET/Perl syntax (lookaround and backreferences are allowed) in multiline mode,
// so ^ matches at the start of any line and \A at the start of text only.
type Rule struct {
	TypeName string `json:"name"`
	Re       string `json:"re"`
}

// Literal creates a rule matching exact text.
func Literal(typeName, text string) Rule {
	return Rule{typeName, regexp2.Escape(text)}
}

// Lexer performs lexical analysis of a source using ordered rules.
// At each position the first rule (in declaration order) matching at that position wins,
// there is no longest-match arbitration between rules.
// Lexer itself is immutable and safe for concurrent use.
type Lexer struct {
	rules []Rule
	types []TokenType
	res   []*regexp2.Regexp
}

// New creates new Lexer, rule index becomes token type.
func New(rules []Rule) (*Lexer, error) {
	l := &Lexer{
		rules: append([]Rule(nil), rules...),
		types: make([]TokenType, len(rules)),
		res:   make([]*regexp2.Regexp, len(rules)),
	}
	for i, r := range rules {
		re, e := regexp2.Compile(`\G(?:`+r.Re+`)`, regexp2.Multiline)
		if e != nil {
			return nil, samepage.FormatError(BadRuleError, "bad rule %q: %s", r.TypeName, e.Error())
		}
		l.types[i] = TokenType{i, r.TypeName}
		l.res[i] = re
	}
	return l, nil
}

// MustNew is like New but panics on bad rules.
func MustNew(rules []Rule) *Lexer {
	l, e := New(rules)
	if e != nil {
		panic(e)
	}
	return l
}

// Rules returns a copy of lexer rules.
func (l *Lexer) Rules() []Rule {
	return append([]Rule(nil), l.rules...)
}

// TypeOf returns token type for type name.
func (l *Lexer) TypeOf(name string) (int, bool) {
	for _, t := range l.types {
		if t.TypeName == name {
			return t.Type, true
		}
	}
	return 0, false
}

// Scanner holds the current position in a source.
type Scanner struct {
	src *source.Source
	pos int
}

func NewScanner(src *source.Source) *Scanner {
	return &Scanner{src: src}
}

// Pos returns current rune position.
func (s *Scanner) Pos() int {
	return s.pos
}

func (s *Scanner) IsEmpty() bool {
	return s.pos >= s.src.Len()
}

func unmatchedInputError(src *source.Source, pos int) *samepage.Error {
	runes := src.Runes()
	end := pos + excerptLen
	if end > len(runes) {
		end = len(runes)
	}
	return samepage.FormatErrorPos(source.NewPos(src, pos), UnmatchedInputError, "unmatched input %q", string(runes[pos:end]))
}

// Next fetches token starting at current scanner position and advances the scanner.
// Returns EoF token if the scanner is at the end of source.
// Returns nil token and samepage.Error and does not advance if no rule matches.
func (l *Lexer) Next(s *Scanner) (*Token, error) {
	if s.IsEmpty() {
		return EofToken(s.src), nil
	}

	runes := s.src.Runes()
	for i, re := range l.res {
		m, e := re.FindRunesMatchStartingAt(runes, s.pos)
		if e != nil {
			return nil, samepage.FormatErrorPos(source.NewPos(s.src, s.pos), MatchError, "rule %q: %s", l.types[i].TypeName, e.Error())
		}
		if m == nil || m.Index != s.pos || m.Length == 0 {
			continue
		}

		t := NewToken(l.types[i].Type, l.types[i].TypeName, m.String(), source.NewPos(s.src, s.pos))
		s.pos += m.Length
		return t, nil
	}

	return nil, unmatchedInputError(s.src, s.pos)
}

// Tokens fetches all tokens of src, EoF token is not included.
func (l *Lexer) Tokens(src *source.Source) ([]*Token, error) {
	s := NewScanner(src)
	var result []*Token
	for !s.IsEmpty() {
		t, e := l.Next(s)
		if e != nil {
			tracer().Errorf("%s", e.Error())
			return nil, e
		}
		result = append(result, t)
	}
	tracer().Debugf("%d token(s) in %q", len(result), src.Name())
	return result, nil
}
