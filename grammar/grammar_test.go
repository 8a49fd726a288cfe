package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samepage-network/obsidian-samepage/internal/test"
)

func TestFlagsAreImmutable(t *testing.T) {
	empty := Flags{}
	a := empty.With("singleStar")
	b := a.With("doubleStar")
	c := b.Without("singleStar")

	assert.Equal(t, 0, empty.Len())
	assert.True(t, a.Has("singleStar"))
	assert.False(t, a.Has("doubleStar"))
	assert.Equal(t, "{doubleStar singleStar}", b.String())
	assert.Equal(t, "{doubleStar}", c.String())
	assert.True(t, b.Has("singleStar"))
	assert.Equal(t, a, a.With("singleStar"))
	assert.Equal(t, c, c.Without("missing"))
	assert.Equal(t, 2, b.Len())
}

func TestFlagsSharingBackingArray(t *testing.T) {
	base := NewFlags("b", "d")
	left := base.With("a")
	right := base.With("c")
	assert.Equal(t, "{a b d}", left.String())
	assert.Equal(t, "{b c d}", right.String())
	assert.Equal(t, "{b d}", base.String())
}

func TestRuleString(t *testing.T) {
	r := &Rule{Name: "token", Symbols: []Symbol{T("star"), N("italicStarExpression")}}
	assert.Equal(t, "token → %star italicStarExpression", r.String())
	assert.Equal(t, "token → %star ● italicStarExpression", r.StringAt(1))
	assert.Equal(t, "token → %star italicStarExpression ●", r.StringAt(2))
}

func TestValidate(t *testing.T) {
	g := &Grammar{Start: "main", Rules: []*Rule{
		{Name: "main", Symbols: []Symbol{N("item"), T("end")}},
		{Name: "item"},
	}}
	assert.NoError(t, g.Validate())

	g.Start = "root"
	test.ExpectErrorCode(t, MissingStartError, g.Validate())

	g.Start = "main"
	g.Rules = append(g.Rules, &Rule{Name: "item", Symbols: []Symbol{N("missing")}})
	test.ExpectErrorCode(t, UndefinedNontermError, g.Validate())
}

func TestReject(t *testing.T) {
	var v any = Reject
	assert.True(t, v == Reject)
	assert.False(t, any(struct{}{}) == Reject)
}
