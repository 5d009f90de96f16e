package lucene

import (
	"context"
	"strings"
)

// FieldResolver maps a field name as written to the name it should be
// rewritten to. (_, false) means "leave it unresolved" and is recorded,
// not treated as an error.
type FieldResolver func(ctx context.Context, field string) (resolved string, ok bool)

// NewFieldResolutionVisitor builds the field-resolution visitor from spec
// section 4.6: every field-carrying node (Field, Exists, Missing, Range)
// gets its name run through resolver, with the pre-resolution name stashed
// on the context so a later stage can recover what the user actually typed.
func NewFieldResolutionVisitor(resolver FieldResolver) *Visitor {
	v := &Visitor{Name: "field_resolve"}

	resolve := func(ctx *VisitorContext, n Node, field string) string {
		if field == "" || resolver == nil {
			return field
		}
		resolved, ok := resolver(ctx.Context(), field)
		result := ctx.ValidationResult()
		if !ok {
			if result != nil {
				result.UnresolvedFields = appendUnique(result.UnresolvedFields, field)
			}
			return field
		}
		if result != nil {
			result.recordField(field)
		}
		ctx.StashOriginalField(n, field)
		return resolved
	}

	v.Field = func(ctx *VisitorContext, n *Field) Node {
		n.FieldName = resolve(ctx, n, n.FieldName)
		if n.Query != nil {
			n.Query = v.Accept(ctx, n.Query)
		}
		return n
	}
	v.Exists = func(ctx *VisitorContext, n *Exists) Node {
		n.FieldName = resolve(ctx, n, n.FieldName)
		return n
	}
	v.Missing = func(ctx *VisitorContext, n *Missing) Node {
		n.FieldName = resolve(ctx, n, n.FieldName)
		return n
	}
	v.Range = func(ctx *VisitorContext, n *Range) Node {
		n.FieldName = resolve(ctx, n, n.FieldName)
		return n
	}

	return v
}

// NewHierarchicalFieldResolver builds a FieldResolver from a flat alias map
// (e.g. {"data": "resolved"}) that also resolves dotted descendants by
// longest-matching prefix: "data.x.y" resolves to "resolved.x.y" via the
// "data" entry. internal/schema.Schema.ResolveField resolves a query field to
// a canonical name through a precomputed alias map at a single level; this
// generalizes that lookup to dotted hierarchical paths.
func NewHierarchicalFieldResolver(aliases map[string]string) FieldResolver {
	return func(_ context.Context, field string) (string, bool) {
		if resolved, ok := aliases[field]; ok {
			return resolved, true
		}
		parts := strings.Split(field, ".")
		for i := len(parts) - 1; i > 0; i-- {
			prefix := strings.Join(parts[:i], ".")
			resolved, ok := aliases[prefix]
			if !ok {
				continue
			}
			return resolved + "." + strings.Join(parts[i:], "."), true
		}
		return "", false
	}
}
