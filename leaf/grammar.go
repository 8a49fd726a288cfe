package leaf

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/samepage-network/obsidian-samepage/document"
	"github.com/samepage-network/obsidian-samepage/grammar"
	"github.com/samepage-network/obsidian-samepage/lexer"
)

const startRule = "main"

// Branch flags marking emphasis opened by an enclosing rule.
const (
	fDoubleStar  = "doubleStar"
	fDoubleUnder = "doubleUnder"
	fSingleStar  = "singleStar"
	fSingleUnder = "singleUnder"
	fDoubleTilde = "doubleTilde"
)

var notebookRe = regexp2.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}:`, regexp2.None)

// textTypes are token types taken literally.
var textTypes = []string{
	tText, tCarot, tTilde, tUnder, tLeftParen, tLeftBracket, tRightParen, tRightBracket,
	tExclamationMark, tURL, tTab, tNewLine, tEscape, tTicks,
}

type builder struct {
	rules []*grammar.Rule
}

// add appends a rule, symbols are space separated, terminals are prefixed with '%'.
func (b *builder) add(name, symbols string, post grammar.Postprocess) *grammar.Rule {
	r := &grammar.Rule{Name: name, Postprocess: post}
	for _, s := range strings.Fields(symbols) {
		if strings.HasPrefix(s, "%") {
			r.Symbols = append(r.Symbols, grammar.T(s[1:]))
		} else {
			r.Symbols = append(r.Symbols, grammar.N(s))
		}
	}
	b.rules = append(b.rules, r)
	return r
}

func doc(x any) document.Document {
	return x.(document.Document)
}

func token(x any) *lexer.Token {
	return x.(*lexer.Token)
}

func first(data []any, _ grammar.Context) any {
	return document.First(data)
}

func concat(data []any, _ grammar.Context) any {
	return document.Concat(doc(data[0]), doc(data[1]))
}

func empty([]any, grammar.Context) any {
	return document.Empty()
}

func null([]any, grammar.Context) any {
	return document.Null()
}

func textOf(data []any, _ grammar.Context) any {
	return document.TextOf(token(data[0]))
}

// levelOf counts indentation steps of block marker text.
func levelOf(s string) int {
	return strings.Count(s, "\t") + strings.Count(s, "    ") + 1
}

// splitMarker splits marker text into leading indentation and the marker itself.
func splitMarker(s string) (indent, marker string) {
	i := len(s) - len(strings.TrimLeft(s, " \t"))
	return s[:i], s[i:]
}

// newBlock terminates inner with a newline and wraps it into a block annotation.
func newBlock(inner document.Document, level int, view document.ViewType, spacing, marker string) document.Document {
	content := document.Append(inner, "\n")
	ann := document.New(0, content.Len(), document.Block{Level: level, ViewType: view})
	h := document.Hints{}
	if level > 1 {
		h.Spacing = spacing
	}
	if view == document.NumberedView && marker != "1. " {
		h.Marker = marker
	}
	if h != (document.Hints{}) {
		ann = ann.WithHints(document.App, h)
	}
	return document.WrapAnnotation(ann, content)
}

func initialBlock(data []any, _ grammar.Context) any {
	if len(data) == 0 {
		return newBlock(document.Empty(), 1, document.DocumentView, "", "")
	}
	indent := token(data[0]).Text()
	return newBlock(document.Empty(), levelOf(indent), document.DocumentView, indent, "")
}

// firstParagraph puts block content in front of the trailing newline of the initial block.
func firstParagraph(data []any, _ grammar.Context) any {
	initial, inner := doc(data[0]), doc(data[1])
	n := inner.Len()
	anns := make([]document.Annotation, 0, len(initial.Annotations)+len(inner.Annotations))
	for _, a := range initial.Annotations {
		a.End += n
		anns = append(anns, a)
	}
	anns = append(anns, inner.Annotations...)
	return document.Document{Content: inner.Content + initial.Content, Annotations: anns}
}

func firstListBlock(view document.ViewType) grammar.Postprocess {
	return func(data []any, _ grammar.Context) any {
		text := token(data[0]).Text()
		indent, marker := splitMarker(text)
		return newBlock(doc(data[1]), levelOf(text), view, indent, marker)
	}
}

func additionalBlock(view document.ViewType) grammar.Postprocess {
	return func(data []any, _ grammar.Context) any {
		text := token(data[0]).Text()
		var indent, marker string
		if view == document.DocumentView {
			indent = strings.TrimPrefix(text, "\n\n")
		} else {
			indent, marker = splitMarker(strings.TrimPrefix(text, "\n"))
		}
		return newBlock(doc(data[1]), levelOf(text), view, indent, marker)
	}
}

func resetFlags(ctx grammar.Context, dot int) (grammar.Context, bool) {
	if dot == 1 {
		return grammar.Context{Index: ctx.Index}, true
	}
	return ctx, true
}

// openGuard sets flag when the rule reaches at, the branch dies if flag is already set.
func openGuard(flag string, at int) grammar.Preprocess {
	return func(ctx grammar.Context, dot int) (grammar.Context, bool) {
		if dot != at {
			return ctx, true
		}
		if ctx.Flags.Has(flag) {
			return ctx, false
		}
		ctx.Flags = ctx.Flags.With(flag)
		return ctx, true
	}
}

func closeGuard(flag string, at int) grammar.Preprocess {
	return func(ctx grammar.Context, dot int) (grammar.Context, bool) {
		if dot == at {
			ctx.Flags = ctx.Flags.Without(flag)
		}
		return ctx, true
	}
}

func innerItalicsGuard(ctx grammar.Context, dot int) (grammar.Context, bool) {
	switch dot {
	case 2:
		ctx.Flags = ctx.Flags.With(fSingleStar)
	case 4:
		ctx.Flags = ctx.Flags.Without(fDoubleStar)
	}
	return ctx, true
}

type emphasis func(delimiter string, open bool) document.Attributes

func bold(delimiter string, open bool) document.Attributes {
	return document.Bold{Delimiter: delimiter, Open: open}
}

func italics(delimiter string, open bool) document.Attributes {
	return document.Italics{Delimiter: delimiter, Open: open}
}

func strikethrough(delimiter string, open bool) document.Attributes {
	return document.Strikethrough{Delimiter: delimiter, Open: open}
}

// openEmphasis handles a delimiter left open until the end of block.
func openEmphasis(attrs emphasis, suffix string) grammar.Postprocess {
	return func(data []any, _ grammar.Context) any {
		inner := document.Append(doc(data[2]), suffix)
		return document.Concat(doc(data[0]), document.Wrap(attrs(token(data[1]).Text(), true), inner))
	}
}

func literalTail(text string) grammar.Postprocess {
	return func(data []any, _ grammar.Context) any {
		return document.Concat(doc(data[0]), document.Text(text))
	}
}

func closedEmphasis(attrs emphasis, delimiter string) grammar.Postprocess {
	return func(data []any, _ grammar.Context) any {
		return document.Wrap(attrs(delimiter, false), doc(data[1]))
	}
}

// innerOpenItalics handles an italics delimiter left open inside bold text.
func innerOpenItalics(delimiter string) grammar.Postprocess {
	return func(data []any, _ grammar.Context) any {
		return document.Concat(doc(data[0]), document.Wrap(italics(delimiter, true), doc(data[2])))
	}
}

func closedStrikethrough(data []any, _ grammar.Context) any {
	inner := doc(data[1])
	for _, a := range inner.Annotations {
		if a.Type() == document.StrikethroughType {
			return grammar.Reject
		}
	}
	return document.Wrap(strikethrough("~~", false), inner)
}

// labeled handles [label](target) and ![label](target) tokens, an empty label becomes a placeholder.
func labeled(attrs func(target string) document.Attributes) grammar.Postprocess {
	return func(data []any, _ grammar.Context) any {
		text := strings.TrimPrefix(token(data[0]).Text(), "!")
		i := strings.IndexByte(text, ']')
		label := text[1:i]
		if label == "" {
			label = document.Placeholder
		}
		return document.Wrap(attrs(text[i+2:len(text)-1]), document.Text(label))
	}
}

func link(href string) document.Attributes {
	return document.Link{Href: href}
}

func image(src string) document.Attributes {
	return document.Image{Src: src}
}

// imageFallback handles ![label](url) when the label contains brackets.
func imageFallback(data []any, _ grammar.Context) any {
	return document.Wrap(image(token(data[5]).Text()), doc(data[2]))
}

func codeBlock(data []any, _ grammar.Context) any {
	text := token(data[0]).Text()
	ticks := len(text) - len(strings.TrimLeft(text, "`"))
	nl := strings.IndexByte(text, '\n')
	attrs := document.Code{Language: text[ticks:nl]}
	if ticks > 3 {
		attrs.Ticks = ticks
	}

	content := text[nl+1:]
	if closing := len(content) - len(strings.TrimRight(content, "`")); closing >= 3 {
		content = content[:len(content)-closing]
	}
	return document.Wrap(attrs, document.Text(content))
}

func closeUnderText(data []any, ctx grammar.Context) any {
	if ctx.Flags.Has(fSingleUnder) {
		return grammar.Reject
	}
	return textOf(data, ctx)
}

// reference returns postprocess for [[page]] and [[notebook-uuid:page]] tokens.
func reference(notebookID func() string) grammar.Postprocess {
	return func(data []any, _ grammar.Context) any {
		text := token(data[0]).Text()
		value := text[2 : len(text)-2]
		attrs := document.Reference{NotebookPageID: value}
		if m, _ := notebookRe.FindStringMatch(value); m != nil {
			attrs.NotebookUUID = value[:m.Length-1]
			attrs.NotebookPageID = value[m.Length:]
		} else {
			attrs.NotebookUUID = notebookID()
		}
		return document.Wrap(attrs, document.Null())
	}
}

// newGrammar builds the page grammar, references without notebook prefix get notebookID().
func newGrammar(notebookID func() string) *grammar.Grammar {
	b := &builder{}

	b.add(startRule, "firstBlock additionalBlock", concat)

	b.add("initialParagraph", "", initialBlock)
	b.add("initialParagraph", "%"+tInitialIndent, initialBlock)
	b.add("firstBlock", "initialParagraph block", firstParagraph)
	b.add("firstBlock", "%"+tInitialBullet+" block", firstListBlock(document.BulletView))
	b.add("firstBlock", "%"+tInitialNumbered+" block", firstListBlock(document.NumberedView))

	b.add("additionalBlock", "", empty)
	b.add("additionalBlock", "additionalBlock additionalBlockType", concat).Preprocess = resetFlags
	b.add("additionalBlockType", "%"+tParagraph+" block", additionalBlock(document.DocumentView))
	b.add("additionalBlockType", "%"+tBullet+" block", additionalBlock(document.BulletView))
	b.add("additionalBlockType", "%"+tNumbered+" block", additionalBlock(document.NumberedView))

	b.add("additionalToken", "token", first)
	b.add("additionalToken", "additionalToken token", concat)
	b.add("tokenStar", "additionalToken", first)
	b.add("tokenStar", "", empty)

	b.add("block", "tokenStar", first)
	b.add("block", "tokenStar %boldStar additionalToken", openEmphasis(bold, "")).Preprocess = openGuard(fDoubleStar, 2)
	b.add("block", "tokenStar %boldStar additionalToken %star", openEmphasis(bold, "*")).Preprocess = openGuard(fDoubleStar, 2)
	b.add("block", "tokenStar %boldUnder additionalToken", openEmphasis(bold, "")).Preprocess = openGuard(fDoubleUnder, 2)
	b.add("block", "tokenStar %star additionalToken", openEmphasis(italics, "")).Preprocess = openGuard(fSingleStar, 2)
	b.add("block", "tokenStar %openUnder additionalToken", openEmphasis(italics, "")).Preprocess = openGuard(fSingleUnder, 2)
	b.add("block", "tokenStar %strike additionalToken", openEmphasis(strikethrough, "")).Preprocess = openGuard(fDoubleTilde, 2)
	b.add("block", "tokenStar %openDoubleTilde additionalToken", openEmphasis(strikethrough, "")).Preprocess = openGuard(fDoubleTilde, 2)
	b.add("block", "tokenStar %boldStar", literalTail("**"))
	b.add("block", "tokenStar %boldUnder", literalTail("__"))
	b.add("block", "tokenStar %star", literalTail("*"))
	b.add("block", "tokenStar %under", literalTail("_"))
	b.add("block", "tokenStar %strike", literalTail("~~"))
	b.add("block", "tokenStar %openDoubleTilde", literalTail("~~"))

	b.add("strikeBoundary", "%strike", empty)
	b.add("strikeBoundary", "%openDoubleTilde", empty)
	b.add("token", "%openDoubleTilde additionalToken strikeBoundary", closedStrikethrough).Preprocess = openGuard(fDoubleTilde, 1)

	b.add("boldUnderExpression", "additionalToken %boldUnder", first).Preprocess = closeGuard(fDoubleUnder, 2)
	b.add("boldUnderExpression", "additionalToken %openUnder additionalToken %boldUnder", innerOpenItalics("_")).Preprocess = innerItalicsGuard
	b.add("token", "%boldUnder boldUnderExpression", closedEmphasis(bold, "__")).Preprocess = openGuard(fDoubleUnder, 1)
	b.add("boldStarExpression", "additionalToken %boldStar", first).Preprocess = closeGuard(fDoubleStar, 2)
	b.add("boldStarExpression", "additionalToken %star additionalToken %boldStar", innerOpenItalics("*")).Preprocess = innerItalicsGuard
	b.add("token", "%boldStar boldStarExpression", closedEmphasis(bold, "**")).Preprocess = openGuard(fDoubleStar, 1)
	b.add("italicUnderExpression", "additionalToken %closeUnder", first).Preprocess = closeGuard(fSingleUnder, 2)
	b.add("token", "%openUnder italicUnderExpression", closedEmphasis(italics, "_")).Preprocess = openGuard(fSingleUnder, 1)
	b.add("italicStarExpression", "additionalToken %star", first).Preprocess = closeGuard(fSingleStar, 2)
	b.add("token", "%star italicStarExpression", closedEmphasis(italics, "*")).Preprocess = openGuard(fSingleStar, 1)

	b.add("token", "%"+tAlias, labeled(link))
	b.add("token", "%"+tAsset, labeled(image))
	b.add("token", "%"+tCodeBlock, codeBlock)
	b.add("imageAlias", "additionalToken", first)
	b.add("imageAlias", "", null)
	b.add("token", "%exclamationMark %leftBracket imageAlias %rightBracket %leftParen %url %rightParen", imageFallback)
	b.add("token", "%"+tReference, reference(notebookID))

	b.add("token", "textToken", first)
	for _, t := range textTypes {
		b.add("textToken", "%"+t, textOf)
	}
	b.add("textToken", "%"+tCloseUnder, closeUnderText)

	return &grammar.Grammar{Start: startRule, Rules: b.rules}
}
