package lucene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_RoundTrip(t *testing.T) {
	tests := []string{
		"foo",
		"title:foo",
		`"hello world"`,
		"foo^3",
		"NOT foo",
		"(foo)",
		"price:[100 TO 500]",
		"price:{100 TO 500}",
		"price:>=100",
		"title:/h.*llo/",
		"title:*",
		"_missing_:title",
		"*",
		"region:(ca OR ny)",
	}
	for _, query := range tests {
		t.Run(query, func(t *testing.T) {
			result := Parse(query, Or)
			require.True(t, result.IsSuccess(), "unexpected errors: %v", result.Errors)
			rendered := result.Document.Render()

			reparsed := Parse(rendered, Or)
			require.True(t, reparsed.IsSuccess(), "re-parse of %q failed: %v", rendered, reparsed.Errors)
			assert.Equal(t, rendered, reparsed.Document.Render(), "rendering is not idempotent for %q", query)
		})
	}
}

func TestRender_BooleanOperatorsNormalized(t *testing.T) {
	result := Parse("foo AND bar OR baz", And)
	require.True(t, result.IsSuccess())
	assert.Equal(t, "foo AND bar OR baz", result.Document.Render())
}

func TestRender_RequiredProhibited(t *testing.T) {
	result := Parse("+foo -bar", Or)
	require.True(t, result.IsSuccess())
	assert.Equal(t, "+foo -bar", result.Document.Render())
}

func TestRender_EmptyDocument(t *testing.T) {
	result := Parse("", Or)
	require.True(t, result.IsSuccess())
	assert.Equal(t, "", result.Document.Render())
}

func TestRender_EscapesSpecialCharsInSyntheticField(t *testing.T) {
	field := &Field{FieldName: "a:b", Query: &Term{Term: "x", RawTerm: "x"}}
	rendered := Render(field)
	assert.Equal(t, `a\:b:x`, rendered)
}

func TestRender_MultiTerm(t *testing.T) {
	result := Parse("title:foo bar baz", Or)
	require.True(t, result.IsSuccess())
	assert.Equal(t, "title:foo bar baz", result.Document.Render())
}
