package lucene

import (
	"fmt"
	"strings"
)

// ValidationOptions configures the validation visitor (spec section 4.7).
// A zero-value ValidationOptions allows every field, operation and depth —
// those gates only apply when the relevant slice/limit is non-empty/positive —
// but rejects leading wildcards, since AllowLeadingWildcards is false.
type ValidationOptions struct {
	AllowedFields         []string
	RestrictedFields      []string
	AllowLeadingWildcards bool
	AllowedMaxNodeDepth   int
	AllowedOperations     []string
	RestrictedOperations  []string
	ShouldThrow           bool
}

// ValidationResult accumulates what one validation run observed. It is also
// reused, unchanged in shape, by the include and field-resolution visitors
// to record referenced/unresolved names — spec section 3.4 lists it as one
// shared diagnostic entity, not something private to section 4.7.
type ValidationResult struct {
	Errors             []*ValidationError
	ReferencedFields   []string
	ReferencedIncludes []string
	UnresolvedIncludes []string
	UnresolvedFields   []string
	MaxNodeDepth       int
	Operations         map[string]map[string]bool
}

func NewValidationResult() *ValidationResult {
	return &ValidationResult{Operations: make(map[string]map[string]bool)}
}

func (r *ValidationResult) addError(index int, format string, args ...interface{}) {
	r.Errors = append(r.Errors, newValidationError(index, format, args...))
}

func (r *ValidationResult) recordField(field string) {
	if field == "" {
		return
	}
	r.ReferencedFields = appendUnique(r.ReferencedFields, field)
}

func (r *ValidationResult) recordOperation(op, field string) {
	set, ok := r.Operations[op]
	if !ok {
		set = make(map[string]bool)
		r.Operations[op] = set
	}
	set[field] = true
}

// ValidationException wraps a ValidationResult that carries at least one
// error; raised only by ValidateAndThrow, never by Validate.
type ValidationException struct {
	Result *ValidationResult
}

func (e *ValidationException) Error() string {
	switch len(e.Result.Errors) {
	case 0:
		return "validation failed"
	case 1:
		return "validation failed: " + e.Result.Errors[0].Message
	default:
		return fmt.Sprintf("validation failed: %s (and %d more)", e.Result.Errors[0].Message, len(e.Result.Errors)-1)
	}
}

func appendUnique(xs []string, x string) []string {
	for _, v := range xs {
		if v == x {
			return xs
		}
	}
	return append(xs, x)
}

func containsString(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// validationState is the per-run bookkeeping the validation visitor's
// handlers need beyond what a node itself carries: depth (incremented on
// Group entry, decremented on exit), the field currently in scope (for
// attributing an operation like regex/wildcard to the field it sits under),
// and a running error counter: each error the visitor adds takes the next
// value (1, 2, ...) as its ValidationError.Index.
type validationState struct {
	depth int
	field string
	index int
}

func (s *validationState) next() int {
	s.index++
	return s.index
}

// NewValidationVisitor builds the validation visitor described in spec
// section 4.7. It expects ctx.ValidationResult() to already hold a
// *ValidationResult to populate — Document.Validate sets one up before
// running the chain.
func NewValidationVisitor(opts ValidationOptions) *Visitor {
	st := &validationState{}
	v := &Visitor{Name: "validate"}

	v.Group = func(ctx *VisitorContext, n *Group) Node {
		st.depth++
		if result := ctx.ValidationResult(); result != nil {
			if st.depth > result.MaxNodeDepth {
				result.MaxNodeDepth = st.depth
			}
			if opts.AllowedMaxNodeDepth > 0 && st.depth > opts.AllowedMaxNodeDepth {
				result.addError(st.next(), "maximum query depth %d exceeded", opts.AllowedMaxNodeDepth)
			}
		}
		if n.Query != nil {
			n.Query = v.Accept(ctx, n.Query)
		}
		st.depth--
		return n
	}

	v.Field = func(ctx *VisitorContext, n *Field) Node {
		prevField := st.field
		st.field = n.FieldName
		recordField(ctx, opts, st, n.FieldName)
		if n.Query != nil {
			n.Query = v.Accept(ctx, n.Query)
		}
		st.field = prevField
		return n
	}

	v.Exists = func(ctx *VisitorContext, n *Exists) Node {
		recordField(ctx, opts, st, n.FieldName)
		recordOperation(ctx, opts, st, "exists", n.FieldName)
		return n
	}

	v.Missing = func(ctx *VisitorContext, n *Missing) Node {
		recordField(ctx, opts, st, n.FieldName)
		recordOperation(ctx, opts, st, "missing", n.FieldName)
		return n
	}

	v.Range = func(ctx *VisitorContext, n *Range) Node {
		if n.FieldName != "" {
			recordField(ctx, opts, st, n.FieldName)
		}
		recordOperation(ctx, opts, st, "range", n.FieldName)
		return n
	}

	v.Regex = func(ctx *VisitorContext, n *Regex) Node {
		recordOperation(ctx, opts, st, "regex", st.field)
		return n
	}

	v.Boolean = func(ctx *VisitorContext, n *Boolean) Node {
		recordOperation(ctx, opts, st, "boolean", st.field)
		for i := range n.Clauses {
			if n.Clauses[i].Query != nil {
				n.Clauses[i].Query = v.Accept(ctx, n.Clauses[i].Query)
			}
		}
		return n
	}

	v.Term = func(ctx *VisitorContext, n *Term) Node {
		if n.IsPrefix {
			recordOperation(ctx, opts, st, "prefix", st.field)
		} else if n.IsWildcard {
			recordOperation(ctx, opts, st, "wildcard", st.field)
		}
		if !opts.AllowLeadingWildcards && hasLeadingWildcard(n.Term) {
			if result := ctx.ValidationResult(); result != nil {
				result.addError(st.next(), "leading wildcards are not allowed: %q", n.RawTerm)
			}
		}
		return n
	}

	return v
}

func hasLeadingWildcard(s string) bool {
	return strings.HasPrefix(s, "*") || strings.HasPrefix(s, "?")
}

func recordField(ctx *VisitorContext, opts ValidationOptions, st *validationState, field string) {
	result := ctx.ValidationResult()
	if result == nil || field == "" {
		return
	}
	result.recordField(field)
	if len(opts.AllowedFields) > 0 && !containsString(opts.AllowedFields, field) {
		result.addError(st.next(), "field %q is not in the allowed field list", field)
	}
	if containsString(opts.RestrictedFields, field) {
		result.addError(st.next(), "field %q is restricted", field)
	}
}

func recordOperation(ctx *VisitorContext, opts ValidationOptions, st *validationState, op, field string) {
	result := ctx.ValidationResult()
	if result == nil {
		return
	}
	result.recordOperation(op, field)
	if len(opts.AllowedOperations) > 0 && !containsString(opts.AllowedOperations, op) {
		result.addError(st.next(), "operation %q is not allowed", op)
	}
	if containsString(opts.RestrictedOperations, op) {
		result.addError(st.next(), "operation %q is restricted", op)
	}
}
