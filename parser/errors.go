package parser

import (
	"github.com/samepage-network/obsidian-samepage"
	"github.com/samepage-network/obsidian-samepage/lexer"
)

// Syntax errors:
const (
	// NoParseError indicates that no derivation can consume the token.
	NoParseError = samepage.SyntaxErrors + iota

	// UnexpectedEndError indicates that the text ended before any derivation of start nonterminal completed.
	UnexpectedEndError
)

// Parser errors:
const (
	// AmbiguousGrammarError indicates that more than one derivation of start nonterminal completed.
	// The input may be valid, the grammar failed to disambiguate it.
	AmbiguousGrammarError = samepage.ParserErrors + iota

	// UnknownTerminalError indicates a grammar terminal that lexer does not define.
	UnknownTerminalError
)

func noParseError(t *lexer.Token, details string) *samepage.Error {
	e := samepage.FormatErrorPos(t, NoParseError, "unexpected %s token %q", t.TypeName(), t.Text())
	if details != "" {
		e.Message += "\n" + details
	}
	return e
}

func unexpectedEndError(t *lexer.Token) *samepage.Error {
	return samepage.FormatErrorPos(t, UnexpectedEndError, "unexpected end of text")
}

func ambiguousGrammarError(count int) *samepage.Error {
	return samepage.FormatError(AmbiguousGrammarError, "ambiguous grammar: %d derivations", count)
}

func unknownTerminalError(name, rule string) *samepage.Error {
	return samepage.FormatError(UnknownTerminalError, "unknown terminal %q in %s", name, rule)
}
