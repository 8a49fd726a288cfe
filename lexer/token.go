package lexer

import (
	"fmt"

	"github.com/samepage-network/obsidian-samepage/source"
)

// Token is a lexeme captured by a rule.
type Token struct {
	tokenType int
	typeName  string
	text      string
	source    *source.Source
	pos       int
	offset    int
	line, col int
}

func (t *Token) Type() int {
	return t.tokenType
}

func (t *Token) TypeName() string {
	return t.typeName
}

func (t *Token) Text() string {
	return t.text
}

func (t *Token) Source() *source.Source {
	return t.source
}

func (t *Token) SourceName() string {
	if t.source == nil {
		return ""
	}
	return t.source.Name()
}

// Pos returns rune position of the token.
func (t *Token) Pos() int {
	return t.pos
}

// Offset returns UTF-16 offset of the token.
func (t *Token) Offset() int {
	return t.offset
}

func (t *Token) Line() int {
	return t.line
}

func (t *Token) Col() int {
	return t.col
}

func (t *Token) String() string {
	return fmt.Sprintf("%s %q", t.typeName, t.text)
}

// NewToken creates token at position sp, zero sp means no position.
func NewToken(tokenType int, typeName, text string, sp source.Pos) *Token {
	return &Token{tokenType, typeName, text, sp.Source(), sp.Pos(), sp.Offset(), sp.Line(), sp.Col()}
}

const (
	EofTokenType = -1
	EofTokenName = "-end-of-file-"
)

func EofToken(s *source.Source) *Token {
	t := &Token{tokenType: EofTokenType, typeName: EofTokenName, source: s}
	if s != nil {
		t.pos = s.Len()
		t.offset = s.Units(t.pos)
		t.line, t.col = s.LineCol(t.pos)
	}
	return t
}
