package leaf

import (
	"github.com/samepage-network/obsidian-samepage/lexer"
)

// Token type names of the Obsidian dialect.
const (
	tAlias           = "alias"
	tAsset           = "asset"
	tURL             = "url"
	tReference       = "reference"
	tInitialBullet   = "initialBullet"
	tInitialNumbered = "initialNumbered"
	tInitialIndent   = "initialIndent"
	tBullet          = "bullet"
	tNumbered        = "numbered"
	tCodeBlock       = "codeBlock"
	tOpenDoubleTilde = "openDoubleTilde"
	tTab             = "tab"
	tEscape          = "escape"
	tText            = "text"
	tParagraph       = "paragraph"
	tNewLine         = "newLine"
	tStrike          = "strike"
	tBoldUnder       = "boldUnder"
	tBoldStar        = "boldStar"
	tOpenUnder       = "openUnder"
	tCloseUnder      = "closeUnder"
	tStar            = "star"
	tTilde           = "tilde"
	tCarot           = "carot"
	tUnder           = "under"
	tLeftBracket     = "leftBracket"
	tLeftParen       = "leftParen"
	tRightBracket    = "rightBracket"
	tRightParen      = "rightParen"
	tExclamationMark = "exclamationMark"
	tTicks           = "ticks"
)

// url pieces: scheme or www, host, domain labels, top level domain, optional port and path.
const (
	urlScheme = `(?:https?://|www\.)`
	urlHost   = `(?:(?:[a-z\u00a1-\uffff0-9][-_]*)*[a-z\u00a1-\uffff0-9]+)`
	urlDomain = `(?:\.(?:[a-z\u00a1-\uffff0-9]-*)*[a-z\u00a1-\uffff0-9]+)*`
	urlTLD    = `(?:\.(?:[a-z\u00a1-\uffff]{2,}))`
	urlPort   = `(?::\d{2,5})?`
	urlPath   = `(?:[/?#][^\s"\)']*)?`

	urlRe = urlScheme + `(?:` + urlHost + urlDomain + urlTLD + `)` + urlPort + urlPath
)

// indentRe is one indentation step: a tab or four spaces.
const indentRe = `(?:\t|    )`

// rules are ordered, the first matching rule wins.
var rules = []lexer.Rule{
	{tAlias, `\[[^\]]*\]\([^\)]*\)`},
	{tAsset, `!\[[^\]]*\]\([^\)]*\)`},
	{tURL, urlRe},
	{tReference, `\[\[[^\]]+\]\]`},
	{tInitialBullet, `\A` + indentRe + `*- `},
	{tInitialNumbered, `\A` + indentRe + `*\d+\. `},
	{tInitialIndent, `\A` + indentRe + `+`},
	{tBullet, `\n` + indentRe + `*- `},
	{tNumbered, `\n` + indentRe + `*\d+\. `},
	{tCodeBlock, "(`{3,})[A-Za-z0-9_ -]*\\n(?:[^`]|(?!\\1)`)*\\1`*"},
	{tOpenDoubleTilde, `~~(?=(?:[^~]|~[^~])*~~)`},
	{tTab, indentRe},
	{tEscape, "\\\\[~_*[\\]!()`\\\\]"},
	{tText, "(?:[^~_*[\\]\\n\\t!()`\\\\]|\\\\(?![~_*[\\]!()`\\\\])|`(?!``)|``(?!`))+"},
	{tParagraph, `\n\n(?!` + indentRe + `*(?:- |\d+\. ))\t*`},
	{tNewLine, `\n`},
	lexer.Literal(tStrike, "~~"),
	lexer.Literal(tBoldUnder, "__"),
	lexer.Literal(tBoldStar, "**"),
	{tOpenUnder, `(?<![\p{L}\p{N}_])_`},
	{tCloseUnder, `_(?![\p{L}\p{N}_])`},
	lexer.Literal(tStar, "*"),
	lexer.Literal(tTilde, "~"),
	lexer.Literal(tCarot, "^"),
	lexer.Literal(tUnder, "_"),
	lexer.Literal(tLeftBracket, "["),
	lexer.Literal(tLeftParen, "("),
	lexer.Literal(tRightBracket, "]"),
	lexer.Literal(tRightParen, ")"),
	lexer.Literal(tExclamationMark, "!"),
	{tTicks, "`+"},
}

// newLexer returns the page lexer.
func newLexer() *lexer.Lexer {
	return lexer.MustNew(rules)
}
