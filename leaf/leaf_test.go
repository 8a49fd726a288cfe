package leaf

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samepage-network/obsidian-samepage/document"
	"github.com/samepage-network/obsidian-samepage/internal/test"
	"github.com/samepage-network/obsidian-samepage/parser"
)

const localNotebook = "local-notebook"

type oracleCase struct {
	Name     string          `json:"name"`
	Markdown string          `json:"markdown"`
	Expected json.RawMessage `json:"expected"`
}

func loadOracle(t *testing.T) []oracleCase {
	data, e := os.ReadFile("testdata/oracle.json")
	require.NoError(t, e)
	var cases []oracleCase
	require.NoError(t, json.Unmarshal(data, &cases))
	require.NotEmpty(t, cases)
	return cases
}

func newTestParser(t *testing.T) *Parser {
	p, e := New(Options{NotebookID: func() string { return localNotebook }})
	require.NoError(t, e)
	return p
}

func block(start, end, level int, view document.ViewType) document.Annotation {
	return document.New(start, end, document.Block{Level: level, ViewType: view})
}

func TestOracle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "samepage.leaf")
	defer teardown()

	p := newTestParser(t)
	names := make(map[string]bool)
	for _, c := range loadOracle(t) {
		assert.False(t, names[c.Name], "duplicate case name %q", c.Name)
		names[c.Name] = true
		t.Run(c.Name, func(t *testing.T) {
			d, e := p.Parse(c.Markdown)
			require.NoError(t, e)
			out, e := json.Marshal(d)
			require.NoError(t, e)
			assert.JSONEq(t, string(c.Expected), string(out))
			assert.NoError(t, document.Validate(d))
		})
	}
}

func TestEmptyPage(t *testing.T) {
	d, e := newTestParser(t).Parse("")
	require.NoError(t, e)
	assert.Equal(t, "\n", d.Content)
	assert.Equal(t, []document.Annotation{block(0, 1, 1, document.DocumentView)}, d.Annotations)
}

func TestDocumentSamples(t *testing.T) {
	samples := []struct {
		name     string
		src      string
		content  string
		expected []document.Annotation
	}{
		{"indented first block", "\tHello", "Hello\n", []document.Annotation{
			block(0, 6, 2, document.DocumentView).WithHints(document.App, document.Hints{Spacing: "\t"}),
		}},
		{"open strikethrough", "a ~~b", "a b\n", []document.Annotation{
			block(0, 4, 1, document.DocumentView),
			document.New(2, 3, document.Strikethrough{Delimiter: "~~", Open: true}),
		}},
		{"strikethrough does not cross blocks", "~~a\n\nb~~", "a\nb~~\n", []document.Annotation{
			block(0, 2, 1, document.DocumentView),
			document.New(0, 1, document.Strikethrough{Delimiter: "~~", Open: true}),
			block(2, 6, 1, document.DocumentView),
		}},
		{"closed strikethrough", "a ~~b~~ c", "a b c\n", []document.Annotation{
			block(0, 6, 1, document.DocumentView),
			document.New(2, 3, document.Strikethrough{Delimiter: "~~"}),
		}},
		{"escapes are text", `x \*not\* y`, "x \\*not\\* y\n", []document.Annotation{
			block(0, 12, 1, document.DocumentView),
		}},
		{"four tick fence", "````\na ``` b\n````", "a ``` b\n\n", []document.Annotation{
			block(0, 9, 1, document.DocumentView),
			document.New(0, 8, document.Code{Ticks: 4}),
		}},
		{"open italics inside bold", "**a*b**", "ab\n", []document.Annotation{
			block(0, 3, 1, document.DocumentView),
			document.New(0, 2, document.Bold{Delimiter: "**"}),
			document.New(1, 2, document.Italics{Delimiter: "*", Open: true}),
		}},
		{"bold inside italics", "*a **b** c*", "a b c\n", []document.Annotation{
			block(0, 6, 1, document.DocumentView),
			document.New(0, 5, document.Italics{Delimiter: "*"}),
			document.New(2, 3, document.Bold{Delimiter: "**"}),
		}},
		{"nested lists", "- a\n\t- b\n\t\t1. c", "a\nb\nc\n", []document.Annotation{
			block(0, 2, 1, document.BulletView),
			block(2, 4, 2, document.BulletView).WithHints(document.App, document.Hints{Spacing: "\t"}),
			block(4, 6, 3, document.NumberedView).WithHints(document.App, document.Hints{Spacing: "\t\t"}),
		}},
		{"numbered markers", "1. one\n2. two", "one\ntwo\n", []document.Annotation{
			block(0, 4, 1, document.NumberedView),
			block(4, 8, 1, document.NumberedView).WithHints(document.App, document.Hints{Marker: "2. "}),
		}},
		{"wide characters", "日本語 **太字**", "日本語 太字\n", []document.Annotation{
			block(0, 7, 1, document.DocumentView),
			document.New(4, 6, document.Bold{Delimiter: "**"}),
		}},
		{"surrogate pairs", "😀 *x*", "😀 x\n", []document.Annotation{
			block(0, 5, 1, document.DocumentView),
			document.New(3, 4, document.Italics{Delimiter: "*"}),
		}},
		{"nested bullet after paragraph", "Intro\n\n\t- nested", "Intro\n\nnested\n", []document.Annotation{
			block(0, 7, 1, document.DocumentView),
			block(7, 14, 2, document.BulletView).WithHints(document.App, document.Hints{Spacing: "\t"}),
		}},
		{"nested numbered after paragraph", "Intro\n\n    1. nested", "Intro\n\nnested\n", []document.Annotation{
			block(0, 7, 1, document.DocumentView),
			block(7, 14, 2, document.NumberedView).WithHints(document.App, document.Hints{Spacing: "    "}),
		}},
		{"underscores around accented word", "_café_", "café\n", []document.Annotation{
			block(0, 5, 1, document.DocumentView),
			document.New(0, 4, document.Italics{Delimiter: "_"}),
		}},
		{"underscore after accented letter", "café_", "café_\n", []document.Annotation{
			block(0, 6, 1, document.DocumentView),
		}},
		{"underscores around ideograph", "日本 _語_", "日本 語\n", []document.Annotation{
			block(0, 5, 1, document.DocumentView),
			document.New(3, 4, document.Italics{Delimiter: "_"}),
		}},
	}

	p := newTestParser(t)
	for _, s := range samples {
		t.Run(s.name, func(t *testing.T) {
			d, e := p.Parse(s.src)
			require.NoError(t, e)
			assert.Equal(t, s.content, d.Content)
			assert.Equal(t, s.expected, d.Annotations)
			assert.NoError(t, document.Validate(d))
		})
	}
}

func TestDelimiters(t *testing.T) {
	samples := map[string]document.Attributes{
		"**a**": document.Bold{Delimiter: "**"},
		"__a__": document.Bold{Delimiter: "__"},
		"*a*":   document.Italics{Delimiter: "*"},
		"_a_":   document.Italics{Delimiter: "_"},
		"~~a~~": document.Strikethrough{Delimiter: "~~"},
	}

	p := newTestParser(t)
	for src, attrs := range samples {
		d, e := p.Parse(src)
		require.NoError(t, e, src)
		require.Len(t, d.Annotations, 2, src)
		assert.Equal(t, document.New(0, 1, attrs), d.Annotations[1], src)
	}
}

func TestForeignReference(t *testing.T) {
	d, e := newTestParser(t).Parse("see [[0b5a2c1e-7d3f-4e2a-9c1b-1234567890ab:Other page]]")
	require.NoError(t, e)
	assert.Equal(t, "see "+document.Placeholder+"\n", d.Content)
	require.Len(t, d.Annotations, 2)
	assert.Equal(t, document.New(4, 5, document.Reference{
		NotebookPageID: "Other page",
		NotebookUUID:   "0b5a2c1e-7d3f-4e2a-9c1b-1234567890ab",
	}), d.Annotations[1])
}

func TestBlockIDs(t *testing.T) {
	p, e := New(Options{
		NotebookID: func() string { return localNotebook },
		BlockID:    func(i int) string { return "b" + strings.Repeat("x", i) },
	})
	require.NoError(t, e)

	d, e := p.Parse("one\n\n- two **bold**\n- three")
	require.NoError(t, e)
	var ids []string
	for _, a := range d.Annotations {
		if b, f := a.Attributes.(document.Block); f {
			ids = append(ids, b.ID)
		}
	}
	assert.Equal(t, []string{"b", "bx", "bxx"}, ids)
}

func TestUUIDBlockIDs(t *testing.T) {
	gen := UUIDBlockIDs()
	a, b := gen(0), gen(0)
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestAmbiguousImageLabel(t *testing.T) {
	for _, src := range []string{"![a]b](https://x.com)", "![a [b] c](https://x.com)"} {
		_, e := Parse(src, Options{})
		test.ExpectErrorCode(t, parser.AmbiguousGrammarError, e)
	}
}

func TestNoParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "samepage.parser")
	defer teardown()

	_, e := Parse("****text", Options{Debug: true})
	test.ExpectErrorCode(t, parser.NoParseError, e)
	test.ExpectPos(t, 1, 3, e)
	assert.Contains(t, e.Error(), "one of the following was expected")
}

func TestDelimiterExamples(t *testing.T) {
	samples := []struct {
		src      string
		content  string
		expected []document.Annotation
	}{
		{"Deal **with** odd **asterisks", "Deal with odd asterisks\n", []document.Annotation{
			block(0, 24, 1, document.DocumentView),
			document.New(5, 9, document.Bold{Delimiter: "**"}),
			document.New(14, 23, document.Bold{Delimiter: "**", Open: true}),
		}},
		{"Review __public pages", "Review public pages\n", []document.Annotation{
			block(0, 20, 1, document.DocumentView),
			document.New(7, 19, document.Bold{Delimiter: "__", Open: true}),
		}},
		{"**hello *world**", "hello world\n", []document.Annotation{
			block(0, 12, 1, document.DocumentView),
			document.New(0, 11, document.Bold{Delimiter: "**"}),
			document.New(6, 11, document.Italics{Delimiter: "*", Open: true}),
		}},
		{"[[abcd1234-abcd-1234-abcd-1234abcd1234:reference]]", document.Placeholder + "\n", []document.Annotation{
			block(0, 2, 1, document.DocumentView),
			document.New(0, 1, document.Reference{NotebookPageID: "reference", NotebookUUID: "abcd1234-abcd-1234-abcd-1234abcd1234"}),
		}},
		{"- A\n- B", "A\nB\n", []document.Annotation{
			block(0, 2, 1, document.BulletView),
			block(2, 4, 1, document.BulletView),
		}},
	}

	p := newTestParser(t)
	for _, s := range samples {
		d, e := p.Parse(s.src)
		require.NoError(t, e, s.src)
		assert.Equal(t, s.content, d.Content, s.src)
		assert.Equal(t, s.expected, d.Annotations, s.src)
	}
}
