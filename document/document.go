// Package document defines the annotation document: a flat content string and typed ranges over it.
//
// Offsets are UTF-16 code units. Annotation attributes form a closed set of types, the annotation
// type is derived from its attributes value.
package document

import (
	"encoding/json"
	"unicode/utf16"

	"github.com/samepage-network/obsidian-samepage"
)

// Placeholder stands in for zero-width constructs: references and unlabeled links or images.
const Placeholder = "\x00"

// App is the application key of hints recorded by this module.
const App = "obsidian"

// MalformedDocumentError indicates broken offsets or block tiling.
const MalformedDocumentError = samepage.DocumentErrors

type Type string

const (
	BlockType         Type = "block"
	BoldType          Type = "bold"
	ItalicsType       Type = "italics"
	StrikethroughType Type = "strikethrough"
	LinkType          Type = "link"
	ImageType         Type = "image"
	CodeType          Type = "code"
	ReferenceType     Type = "reference"
)

type ViewType string

const (
	DocumentView ViewType = "document"
	BulletView   ViewType = "bullet"
	NumberedView ViewType = "numbered"
)

// Attributes is implemented by Block, Bold, Italics, Strikethrough, Link, Image, Code, and Reference.
type Attributes interface {
	Type() Type
}

type Block struct {
	Level    int      `json:"level"`
	ViewType ViewType `json:"viewType"`
	ID       string   `json:"id,omitempty"`
}

// Emphasis holds attributes shared by bold, italics, and strikethrough.
// Open marks a delimiter never closed within its block.
type Emphasis struct {
	Delimiter string `json:"delimiter,omitempty"`
	Open      bool   `json:"open,omitempty"`
}

type Bold Emphasis

type Italics Emphasis

type Strikethrough Emphasis

type Link struct {
	Href string `json:"href"`
}

type Image struct {
	Src string `json:"src"`
}

// Code is a fenced code block, Ticks is set only for fences longer than three backticks.
type Code struct {
	Language string `json:"language"`
	Ticks    int    `json:"ticks,omitempty"`
}

type Reference struct {
	NotebookPageID string `json:"notebookPageId"`
	NotebookUUID   string `json:"notebookUuid"`
}

func (Block) Type() Type         { return BlockType }
func (Bold) Type() Type          { return BoldType }
func (Italics) Type() Type       { return ItalicsType }
func (Strikethrough) Type() Type { return StrikethroughType }
func (Link) Type() Type          { return LinkType }
func (Image) Type() Type         { return ImageType }
func (Code) Type() Type          { return CodeType }
func (Reference) Type() Type     { return ReferenceType }

// Hints are rendering hints of one application.
type Hints struct {
	// Spacing is the literal leading whitespace of a nested block.
	Spacing string `json:"spacing,omitempty"`
	// Marker is the literal marker of a numbered block other than "1. ".
	Marker string `json:"marker,omitempty"`
	// Delimiter is the literal emphasis delimiter.
	Delimiter string `json:"delimiter,omitempty"`
}

// AppAttributes maps application key to its hints.
type AppAttributes map[string]Hints

// Annotation is a typed range [Start, End) of document content.
type Annotation struct {
	Start         int
	End           int
	Attributes    Attributes
	AppAttributes AppAttributes
}

// New creates annotation for range [start, end).
func New(start, end int, attrs Attributes) Annotation {
	return Annotation{Start: start, End: end, Attributes: attrs}
}

func (a Annotation) Type() Type {
	if a.Attributes == nil {
		return ""
	}
	return a.Attributes.Type()
}

// Hints returns hints recorded for app, zero Hints if none.
func (a Annotation) Hints(app string) Hints {
	return a.AppAttributes[app]
}

// WithHints returns a copy of a with hints for app replaced.
func (a Annotation) WithHints(app string, h Hints) Annotation {
	aa := make(AppAttributes, len(a.AppAttributes)+1)
	for k, v := range a.AppAttributes {
		aa[k] = v
	}
	aa[app] = h
	a.AppAttributes = aa
	return a
}

// Shift returns a copy of a moved by n units.
func (a Annotation) Shift(n int) Annotation {
	a.Start += n
	a.End += n
	return a
}

type annotationOut struct {
	Type          Type          `json:"type"`
	Start         int           `json:"start"`
	End           int           `json:"end"`
	Attributes    Attributes    `json:"attributes,omitempty"`
	AppAttributes AppAttributes `json:"appAttributes,omitempty"`
}

type annotationIn struct {
	Type          Type            `json:"type"`
	Start         int             `json:"start"`
	End           int             `json:"end"`
	Attributes    json.RawMessage `json:"attributes"`
	AppAttributes AppAttributes   `json:"appAttributes"`
}

func (a Annotation) MarshalJSON() ([]byte, error) {
	return json.Marshal(annotationOut{a.Type(), a.Start, a.End, a.Attributes, a.AppAttributes})
}

func decodeAttributes[T Attributes](raw json.RawMessage) (Attributes, error) {
	var v T
	if len(raw) == 0 || string(raw) == "null" {
		return v, nil
	}
	e := json.Unmarshal(raw, &v)
	return v, e
}

func (a *Annotation) UnmarshalJSON(data []byte) error {
	var in annotationIn
	if e := json.Unmarshal(data, &in); e != nil {
		return e
	}

	var attrs Attributes
	var e error
	switch in.Type {
	case BlockType:
		attrs, e = decodeAttributes[Block](in.Attributes)
	case BoldType:
		attrs, e = decodeAttributes[Bold](in.Attributes)
	case ItalicsType:
		attrs, e = decodeAttributes[Italics](in.Attributes)
	case StrikethroughType:
		attrs, e = decodeAttributes[Strikethrough](in.Attributes)
	case LinkType:
		attrs, e = decodeAttributes[Link](in.Attributes)
	case ImageType:
		attrs, e = decodeAttributes[Image](in.Attributes)
	case CodeType:
		attrs, e = decodeAttributes[Code](in.Attributes)
	case ReferenceType:
		attrs, e = decodeAttributes[Reference](in.Attributes)
	default:
		return samepage.FormatError(MalformedDocumentError, "unknown annotation type %q", in.Type)
	}
	if e != nil {
		return e
	}

	*a = Annotation{in.Start, in.End, attrs, in.AppAttributes}
	return nil
}

// Document is the parse result and render input.
// Annotations are kept in production order, which is not necessarily position order.
type Document struct {
	Content     string       `json:"content"`
	Annotations []Annotation `json:"annotations"`
}

func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	if d.Annotations == nil {
		d.Annotations = []Annotation{}
	}
	return json.Marshal(plain(d))
}

// Len returns content length in UTF-16 units.
func (d Document) Len() int {
	return Len(d.Content)
}

// Len returns length of s in UTF-16 units.
func Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
