/*
Package samepage converts Obsidian pages to SamePage annotation documents and back.

Consists of subpackages:
  - source: page text with line and UTF-16 offset lookup used by the lexer and errors;
  - lexer: first-match lexical analyzer driven by an ordered list of regular expressions;
  - grammar: rules, symbols, and per-branch parse contexts;
  - parser: Earley chart parser running grammar rules with preprocess/postprocess hooks;
  - document: annotation document model and the combinators used by grammar reductions;
  - leaf: the Obsidian dialect (lexer rules and grammar) and the page parser;
  - render: inverse transform from document to page text;
  - cmd/samepage: console utility for parsing, rendering, and round-trip checks.

Typical usage is:

1. Create a leaf.Parser supplying the local notebook identifier accessor.

2. Parse page text into a document.Document and hand it to the sync layer.

3. Render a (possibly merged) document back to page text with render.Render.
*/
package samepage

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	LexicalErrors  = 101 // used by lexer
	SyntaxErrors   = 201 // used by parser
	ParserErrors   = 301 // used by parser and grammar
	DocumentErrors = 401 // used by document and render
)

// Error is the error type used by samepage subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source text or 0.
	Line int

	// Col contains column number in source text or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos and lexer.Token implement this interface.
type SourcePos interface {
	// SourceName returns source name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// line and col will be added to error message if provided (non-zero), name is added if not empty.
func NewError(code int, msg, name string, line, col int) *Error {
	if line != 0 && col != 0 {
		if name != "" {
			msg += fmt.Sprintf(" in %s", name)
		}
		msg += fmt.Sprintf(" at line %d col %d", line, col)
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Code returns a bare error value to compare against with errors.Is.
func Code(code int) error {
	return &Error{Code: code}
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}
