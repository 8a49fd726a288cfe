package document

// The combinators never modify their arguments: the parser shares fragments between branches.

// Texter is anything with source text, e.g. *lexer.Token.
type Texter interface {
	Text() string
}

// Empty returns a fragment without content.
func Empty() Document {
	return Document{}
}

// Null returns a fragment holding a single Placeholder.
func Null() Document {
	return Document{Content: Placeholder}
}

// TextOf returns a plain fragment made of items text.
func TextOf(items ...Texter) Document {
	s := ""
	for _, item := range items {
		s += item.Text()
	}
	return Document{Content: s}
}

// Text returns a plain fragment.
func Text(s string) Document {
	return Document{Content: s}
}

// Concat appends b to a shifting b annotations by the length of a.
func Concat(a, b Document) Document {
	if len(b.Annotations) == 0 {
		return Document{a.Content + b.Content, cloneAnnotations(a.Annotations, 0)}
	}

	n := a.Len()
	anns := make([]Annotation, 0, len(a.Annotations)+len(b.Annotations))
	anns = append(anns, a.Annotations...)
	for _, ann := range b.Annotations {
		anns = append(anns, ann.Shift(n))
	}
	return Document{a.Content + b.Content, anns}
}

// First returns the first child, for pass-through rules.
func First(xs []any) any {
	return xs[0]
}

// Wrap returns inner with an annotation covering all of its content put in front of its annotations.
func Wrap(attrs Attributes, inner Document) Document {
	return WrapAnnotation(New(0, inner.Len(), attrs), inner)
}

// WrapAnnotation puts ann in front of inner annotations.
func WrapAnnotation(ann Annotation, inner Document) Document {
	anns := make([]Annotation, 0, len(inner.Annotations)+1)
	anns = append(anns, ann)
	anns = append(anns, inner.Annotations...)
	return Document{inner.Content, anns}
}

// Append returns d with suffix added to its content, annotations are unchanged.
func Append(d Document, suffix string) Document {
	return Document{d.Content + suffix, cloneAnnotations(d.Annotations, 0)}
}

func cloneAnnotations(anns []Annotation, extra int) []Annotation {
	if len(anns) == 0 && extra == 0 {
		return nil
	}
	result := make([]Annotation, len(anns), len(anns)+extra)
	copy(result, anns)
	return result
}
