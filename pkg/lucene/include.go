package lucene

import (
	"context"
	"strings"
)

// IncludeResolver looks up the query text an "@include:name" reference
// should expand to. A blank or whitespace-only text with a nil error means
// the name is unresolved, not an error; a non-nil error means the lookup itself failed.
type IncludeResolver func(ctx context.Context, name string) (string, error)

// IncludeSkip lets a caller veto expansion of a particular include
// reference (e.g. one already expanded by a prior pass) without disabling
// the visitor entirely.
type IncludeSkip func(n *Field) bool

const includeFieldName = "@include"

// NewIncludeVisitor builds the include-expansion visitor from spec section
// 4.5. defaultOp is the clause operator used when parsing a resolved
// include's text, matching whatever operator the original document was
// parsed with.
func NewIncludeVisitor(resolver IncludeResolver, skip IncludeSkip, defaultOp Operator) *Visitor {
	v := &Visitor{Name: "include"}

	v.Field = func(ctx *VisitorContext, n *Field) Node {
		if !strings.EqualFold(n.FieldName, includeFieldName) {
			if n.Query != nil {
				n.Query = v.Accept(ctx, n.Query)
			}
			return n
		}

		name, ok := includeNameOf(n.Query)
		result := ctx.ValidationResult()
		if !ok {
			if n.Query != nil {
				n.Query = v.Accept(ctx, n.Query)
			}
			return n
		}

		if result != nil {
			result.ReferencedIncludes = appendUnique(result.ReferencedIncludes, name)
		}

		if skip != nil && skip(n) {
			return n
		}

		if ctx.IncludeStackContains(name) {
			addIncludeError(result, "Circular include: %s", name)
			return n
		}

		if resolver == nil {
			markUnresolvedInclude(result, name)
			return n
		}

		text, err := resolver(ctx.Context(), name)
		if err != nil {
			addIncludeError(result, "Error resolving include '%s': %s", name, err)
			return n
		}
		if strings.TrimSpace(text) == "" {
			markUnresolvedInclude(result, name)
			return n
		}

		ctx.PushInclude(name)
		parsed := Parse(text, defaultOp)
		if !parsed.IsSuccess() || parsed.Document == nil {
			ctx.PopInclude()
			addIncludeError(result, "Invalid include query for '%s'", name)
			return n
		}
		expanded := v.Accept(ctx, parsed.Document)
		ctx.PopInclude()

		doc, _ := expanded.(*Document)
		var inner Node
		if doc != nil {
			inner = doc.Query
		}
		// Always wrap in a Group, even when inner is a single bare term —
		// spec section 4.5 calls this out explicitly since downstream
		// callers assume outer parentheses around every expansion.
		return &Group{baseNode: baseNode{n.span}, Query: inner}
	}

	return v
}

func includeNameOf(n Node) (string, bool) {
	switch q := n.(type) {
	case *Term:
		return q.Term, true
	case *Phrase:
		return q.Phrase, true
	default:
		return "", false
	}
}

func addIncludeError(result *ValidationResult, format string, args ...interface{}) {
	if result == nil {
		return
	}
	result.Errors = append(result.Errors, newValidationError(-1, format, args...))
}

func markUnresolvedInclude(result *ValidationResult, name string) {
	if result == nil {
		return
	}
	result.UnresolvedIncludes = appendUnique(result.UnresolvedIncludes, name)
}
