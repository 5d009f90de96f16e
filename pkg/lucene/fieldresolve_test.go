package lucene

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldResolutionVisitor_ResolvesFieldNode(t *testing.T) {
	resolver := FieldResolver(func(_ context.Context, field string) (string, bool) {
		if field == "title" {
			return "t", true
		}
		return "", false
	})
	chain := NewChainedVisitor().Add(NewFieldResolutionVisitor(resolver), 0)
	doc := mustParse(t, "title:foo")
	ctx := NewVisitorContext(nil)
	result := doc.RunVisitors(chain, ctx)

	field := result.Query.(*Field)
	assert.Equal(t, "t", field.FieldName)

	original, ok := ctx.OriginalField(field)
	require.True(t, ok)
	assert.Equal(t, "title", original)
}

func TestFieldResolutionVisitor_UnresolvedFieldRecordedNotErrored(t *testing.T) {
	resolver := FieldResolver(func(_ context.Context, field string) (string, bool) { return "", false })
	chain := NewChainedVisitor().Add(NewFieldResolutionVisitor(resolver), 0)
	doc := mustParse(t, "missing:foo")
	ctx := NewVisitorContext(nil)
	assert.Nil(t, ctx.ValidationResult())

	vr := NewValidationResult()
	ctx.SetValidationResult(vr)
	result := doc.RunVisitors(chain, ctx)

	field := result.Query.(*Field)
	assert.Equal(t, "missing", field.FieldName)
	assert.Contains(t, vr.UnresolvedFields, "missing")
}

func TestFieldResolutionVisitor_ResolvesExistsMissingRange(t *testing.T) {
	resolver := FieldResolver(func(_ context.Context, field string) (string, bool) { return "resolved_" + field, true })
	chain := NewChainedVisitor().Add(NewFieldResolutionVisitor(resolver), 0)

	doc := mustParse(t, "title:*")
	result := doc.RunVisitors(chain, nil)
	assert.Equal(t, "resolved_title", result.Query.(*Exists).FieldName)

	doc = mustParse(t, "_missing_:title")
	result = doc.RunVisitors(chain, nil)
	assert.Equal(t, "resolved_title", result.Query.(*Missing).FieldName)

	doc = mustParse(t, "price:[1 TO 2]")
	result = doc.RunVisitors(chain, nil)
	assert.Equal(t, "resolved_price", result.Query.(*Range).FieldName)
}

func TestNewHierarchicalFieldResolver(t *testing.T) {
	resolver := NewHierarchicalFieldResolver(map[string]string{
		"data": "resolved",
	})

	resolved, ok := resolver(context.Background(), "data.x.y")
	require.True(t, ok)
	assert.Equal(t, "resolved.x.y", resolved)

	resolved, ok = resolver(context.Background(), "data")
	require.True(t, ok)
	assert.Equal(t, "resolved", resolved)

	_, ok = resolver(context.Background(), "other.x")
	assert.False(t, ok)
}
