package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samepage-network/obsidian-samepage/internal/test"
)

type text string

func (t text) Text() string {
	return string(t)
}

func TestLen(t *testing.T) {
	assert.Equal(t, 0, Len(""))
	assert.Equal(t, 3, Len("abc"))
	assert.Equal(t, 2, Len("日本"))
	assert.Equal(t, 3, Len("😀a"))
	assert.Equal(t, 1, Null().Len())
}

func TestConcatShiftsAnnotations(t *testing.T) {
	a := Wrap(Bold{Delimiter: "**"}, Text("😀b"))
	b := Wrap(Link{Href: "https://samepage.network"}, Text("cd"))
	c := Concat(a, b)

	assert.Equal(t, "😀bcd", c.Content)
	require.Len(t, c.Annotations, 2)
	assert.Equal(t, New(0, 3, Bold{Delimiter: "**"}), c.Annotations[0])
	assert.Equal(t, New(3, 5, Link{Href: "https://samepage.network"}), c.Annotations[1])

	// inputs are untouched
	assert.Equal(t, New(0, 2, Link{Href: "https://samepage.network"}), b.Annotations[0])
	assert.Len(t, a.Annotations, 1)
}

func TestConcatDoesNotShareBackingArrays(t *testing.T) {
	base := Wrap(Bold{}, Text("a"))
	base.Annotations = append(make([]Annotation, 0, 8), base.Annotations...)
	left := Concat(base, Wrap(Italics{}, Text("b")))
	right := Concat(base, Wrap(Strikethrough{}, Text("c")))

	assert.Equal(t, ItalicsType, left.Annotations[1].Type())
	assert.Equal(t, StrikethroughType, right.Annotations[1].Type())
	assert.Len(t, base.Annotations, 1)
}

func TestCombinators(t *testing.T) {
	assert.Equal(t, Document{}, Empty())
	assert.Equal(t, Placeholder, Null().Content)
	assert.Equal(t, "ab", TextOf(text("a"), text("b")).Content)
	assert.Equal(t, "x", First([]any{"x", "y"}))

	d := Concat(Concat(Text("a"), Wrap(Code{Language: "go"}, Text("b"))), Text("c"))
	assert.Equal(t, "abc", d.Content)
	assert.Equal(t, []Annotation{New(1, 2, Code{Language: "go"})}, d.Annotations)

	appended := Append(d, "\n")
	assert.Equal(t, "abc\n", appended.Content)
	assert.Equal(t, d.Annotations, appended.Annotations)
}

func TestWithHints(t *testing.T) {
	a := New(0, 1, Block{Level: 2, ViewType: DocumentView})
	b := a.WithHints(App, Hints{Spacing: "    "})
	assert.Nil(t, a.AppAttributes)
	assert.Equal(t, "    ", b.Hints(App).Spacing)
	assert.Equal(t, Hints{}, b.Hints("roam"))
}

func TestJSONRoundTrip(t *testing.T) {
	src := `{
		"content": "Hello \u0000 bold\n",
		"annotations": [
			{"type": "block", "start": 0, "end": 13, "attributes": {"level": 2, "viewType": "bullet"},
				"appAttributes": {"obsidian": {"spacing": "\t"}}},
			{"type": "reference", "start": 6, "end": 7,
				"attributes": {"notebookPageId": "page", "notebookUuid": "abcd"}},
			{"type": "bold", "start": 8, "end": 12, "attributes": {"delimiter": "__", "open": true}},
			{"type": "code", "start": 8, "end": 12, "attributes": {"language": "", "ticks": 4}}
		]
	}`
	var d Document
	require.NoError(t, json.Unmarshal([]byte(src), &d))
	require.Len(t, d.Annotations, 4)
	assert.Equal(t, Block{Level: 2, ViewType: BulletView}, d.Annotations[0].Attributes)
	assert.Equal(t, "\t", d.Annotations[0].Hints(App).Spacing)
	assert.Equal(t, Reference{NotebookPageID: "page", NotebookUUID: "abcd"}, d.Annotations[1].Attributes)
	assert.Equal(t, Bold{Delimiter: "__", Open: true}, d.Annotations[2].Attributes)
	assert.Equal(t, Code{Ticks: 4}, d.Annotations[3].Attributes)

	out, e := json.Marshal(d)
	require.NoError(t, e)
	assert.JSONEq(t, src, string(out))
}

func TestJSONUnknownType(t *testing.T) {
	var a Annotation
	e := json.Unmarshal([]byte(`{"type": "highlight", "start": 0, "end": 1}`), &a)
	test.ExpectErrorCode(t, MalformedDocumentError, e)
}

func TestEmptyDocumentJSON(t *testing.T) {
	out, e := json.Marshal(Empty())
	require.NoError(t, e)
	assert.JSONEq(t, `{"content": "", "annotations": []}`, string(out))
}

func TestValidate(t *testing.T) {
	block := func(s, e int) Annotation {
		return New(s, e, Block{Level: 1, ViewType: DocumentView})
	}
	valid := Document{"ab\ncd\n", []Annotation{block(0, 3), New(0, 2, Italics{}), block(3, 6), New(3, 6, Bold{})}}
	assert.NoError(t, Validate(valid))
	assert.NoError(t, Validate(Empty()))

	broken := []Document{
		{"ab\n", nil},
		{"ab\n", []Annotation{block(0, 2)}},
		{"ab\n", []Annotation{block(0, 4)}},
		{"ab\ncd\n", []Annotation{block(0, 3), block(2, 6)}},
		{"ab\ncd\n", []Annotation{block(0, 3), block(3, 6), New(2, 4, Bold{})}},
		{"ab\n", []Annotation{block(0, 3), New(2, 1, Bold{})}},
		{"ab\n", []Annotation{block(0, 3), {Start: 0, End: 1}}},
		{"ab\n", []Annotation{New(0, 3, Block{Level: 0, ViewType: DocumentView})}},
		{"ab\n", []Annotation{New(0, 3, Block{Level: 1, ViewType: "quote"})}},
	}
	for i, d := range broken {
		e := Validate(d)
		if e == nil {
			t.Errorf("sample #%d: expecting error", i)
			continue
		}
		test.ExpectErrorCode(t, MalformedDocumentError, e)
	}
}
