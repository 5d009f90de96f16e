package lucene

import (
	"context"
	"sort"
	"strings"
)

// Visitor is a set of per-variant handlers plus a single dispatch entry,
// Accept. This is the tagged-dispatch shape spec section 9 asks for in
// place of inheritance: a handler left nil falls back to the default —
// recurse into children, return the node unchanged — exactly as a leaf
// variant (Term, Phrase, Range, Regex, Exists, Missing, MatchAll,
// MultiTerm) has no children to recurse into and so is always returned
// unchanged unless its own handler is set.
//
// This is grounded on spec sections 4.3/9 and on the shape of a
// pattern-dispatch visitor as sketched there: "a record of handler functions
// with a default recursive behavior".
type Visitor struct {
	Name string

	Document  func(ctx *VisitorContext, n *Document) Node
	Group     func(ctx *VisitorContext, n *Group) Node
	Boolean   func(ctx *VisitorContext, n *Boolean) Node
	Field     func(ctx *VisitorContext, n *Field) Node
	Not       func(ctx *VisitorContext, n *Not) Node
	Term      func(ctx *VisitorContext, n *Term) Node
	Phrase    func(ctx *VisitorContext, n *Phrase) Node
	Range     func(ctx *VisitorContext, n *Range) Node
	Regex     func(ctx *VisitorContext, n *Regex) Node
	Exists    func(ctx *VisitorContext, n *Exists) Node
	Missing   func(ctx *VisitorContext, n *Missing) Node
	MatchAll  func(ctx *VisitorContext, n *MatchAll) Node
	MultiTerm func(ctx *VisitorContext, n *MultiTerm) Node
}

// Accept dispatches n to its handler, or applies the default behavior when
// none is set. Traversal is depth-first, left-to-right, matching source
// order (spec section 5) so that any visitor accumulating diagnostics in
// ctx produces a deterministic error list.
func (v *Visitor) Accept(ctx *VisitorContext, n Node) Node {
	if n == nil {
		return nil
	}
	switch node := n.(type) {
	case *Document:
		if v.Document != nil {
			return v.Document(ctx, node)
		}
		if node.Query != nil {
			node.Query = v.Accept(ctx, node.Query)
		}
		return node
	case *Group:
		if v.Group != nil {
			return v.Group(ctx, node)
		}
		if node.Query != nil {
			node.Query = v.Accept(ctx, node.Query)
		}
		return node
	case *Boolean:
		if v.Boolean != nil {
			return v.Boolean(ctx, node)
		}
		for i := range node.Clauses {
			if node.Clauses[i].Query != nil {
				node.Clauses[i].Query = v.Accept(ctx, node.Clauses[i].Query)
			}
		}
		return node
	case *Field:
		if v.Field != nil {
			return v.Field(ctx, node)
		}
		if node.Query != nil {
			node.Query = v.Accept(ctx, node.Query)
		}
		return node
	case *Not:
		if v.Not != nil {
			return v.Not(ctx, node)
		}
		if node.Query != nil {
			node.Query = v.Accept(ctx, node.Query)
		}
		return node
	case *Term:
		if v.Term != nil {
			return v.Term(ctx, node)
		}
		return node
	case *Phrase:
		if v.Phrase != nil {
			return v.Phrase(ctx, node)
		}
		return node
	case *Range:
		if v.Range != nil {
			return v.Range(ctx, node)
		}
		return node
	case *Regex:
		if v.Regex != nil {
			return v.Regex(ctx, node)
		}
		return node
	case *Exists:
		if v.Exists != nil {
			return v.Exists(ctx, node)
		}
		return node
	case *Missing:
		if v.Missing != nil {
			return v.Missing(ctx, node)
		}
		return node
	case *MatchAll:
		if v.MatchAll != nil {
			return v.MatchAll(ctx, node)
		}
		return node
	case *MultiTerm:
		if v.MultiTerm != nil {
			return v.MultiTerm(ctx, node)
		}
		return node
	default:
		return n
	}
}

// VisitorContext is a string-keyed bag of per-run values, exactly as spec
// section 4.3 calls for: "untyped by design to keep the visitor framework
// extensible without plumbing every future option through signatures".
// Typed accessor methods below are the "phantom-typed token" idea from
// section 9, expressed as ordinary Go methods instead of generic key types.
// A VisitorContext lives for exactly one chain run and is never shared
// across concurrent runs.
type VisitorContext struct {
	values        map[string]interface{}
	goCtx         context.Context
	includeStack  []string
	originalField map[Node]string
}

// NewVisitorContext creates an empty context. goCtx, if nil, defaults to
// context.Background() — it exists purely so a resolver can observe
// cancellation; the traversal itself never selects on it.
func NewVisitorContext(goCtx context.Context) *VisitorContext {
	if goCtx == nil {
		goCtx = context.Background()
	}
	return &VisitorContext{
		values:        make(map[string]interface{}),
		goCtx:         goCtx,
		originalField: make(map[Node]string),
	}
}

func (c *VisitorContext) Context() context.Context { return c.goCtx }

func (c *VisitorContext) Get(key string) (interface{}, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c *VisitorContext) Set(key string, val interface{}) {
	c.values[key] = val
}

const (
	ctxKeyFieldResolver     = "lucene.field_resolver"
	ctxKeyIncludeResolver   = "lucene.include_resolver"
	ctxKeyValidationOptions = "lucene.validation_options"
	ctxKeyValidationResult  = "lucene.validation_result"
)

func (c *VisitorContext) FieldResolver() FieldResolver {
	v, _ := c.Get(ctxKeyFieldResolver)
	r, _ := v.(FieldResolver)
	return r
}

func (c *VisitorContext) SetFieldResolver(r FieldResolver) { c.Set(ctxKeyFieldResolver, r) }

func (c *VisitorContext) IncludeResolver() IncludeResolver {
	v, _ := c.Get(ctxKeyIncludeResolver)
	r, _ := v.(IncludeResolver)
	return r
}

func (c *VisitorContext) SetIncludeResolver(r IncludeResolver) { c.Set(ctxKeyIncludeResolver, r) }

func (c *VisitorContext) ValidationOptions() ValidationOptions {
	v, _ := c.Get(ctxKeyValidationOptions)
	opts, _ := v.(ValidationOptions)
	return opts
}

func (c *VisitorContext) SetValidationOptions(o ValidationOptions) { c.Set(ctxKeyValidationOptions, o) }

func (c *VisitorContext) ValidationResult() *ValidationResult {
	v, _ := c.Get(ctxKeyValidationResult)
	r, _ := v.(*ValidationResult)
	return r
}

func (c *VisitorContext) SetValidationResult(r *ValidationResult) { c.Set(ctxKeyValidationResult, r) }

// PushInclude records name as currently expanding. PopInclude must be called
// once traversal of its expansion finishes, even on error, or the stack
// leaks and every later sibling include looks like a false cycle.
func (c *VisitorContext) PushInclude(name string) { c.includeStack = append(c.includeStack, name) }

func (c *VisitorContext) PopInclude() {
	if len(c.includeStack) > 0 {
		c.includeStack = c.includeStack[:len(c.includeStack)-1]
	}
}

func (c *VisitorContext) IncludeStackContains(name string) bool {
	for _, s := range c.includeStack {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// StashOriginalField records a field-carrying node's name before the
// field-resolution visitor overwrote it, so a later stage (rendering a
// diagnostic, an audit visitor) can recover what the user actually typed.
func (c *VisitorContext) StashOriginalField(n Node, name string) { c.originalField[n] = name }

func (c *VisitorContext) OriginalField(n Node) (string, bool) {
	name, ok := c.originalField[n]
	return name, ok
}

// chainEntry pairs a visitor with the priority it was added at and its
// insertion sequence. The sort does not read seq: equal priorities keep
// insertion order because sort.SliceStable keeps the append order (spec
// section 4.3).
type chainEntry struct {
	visitor  *Visitor
	priority int
	seq      int
}

// ChainedVisitor composes an ordered list of visitors by ascending
// priority. Lower priority runs first; ties keep insertion order. This
// models spec section 4.3's add/remove/replace/before/after vocabulary,
// expressed with a Name string per Visitor standing in for the reference
// type parameter a generic-bearing host language would use here — bundled
// visitors are concrete instances (one include visitor, one field-resolution
// visitor, one validation visitor), not a family of types to parameterize
// over.
type ChainedVisitor struct {
	entries []chainEntry
	nextSeq int
}

func NewChainedVisitor() *ChainedVisitor {
	return &ChainedVisitor{}
}

func (c *ChainedVisitor) sort() {
	sort.SliceStable(c.entries, func(i, j int) bool {
		return c.entries[i].priority < c.entries[j].priority
	})
}

// Add appends v at priority and re-sorts.
func (c *ChainedVisitor) Add(v *Visitor, priority int) *ChainedVisitor {
	c.entries = append(c.entries, chainEntry{visitor: v, priority: priority, seq: c.nextSeq})
	c.nextSeq++
	c.sort()
	return c
}

// Remove drops the visitor registered under name, if any.
func (c *ChainedVisitor) Remove(name string) *ChainedVisitor {
	out := c.entries[:0]
	for _, e := range c.entries {
		if e.visitor.Name != name {
			out = append(out, e)
		}
	}
	c.entries = out
	return c
}

// Replace swaps the visitor registered under name for v, keeping its
// existing priority unless newPriority is given. If name isn't found, v is
// appended instead (priority 0 when newPriority is omitted).
func (c *ChainedVisitor) Replace(name string, v *Visitor, newPriority ...int) *ChainedVisitor {
	for i, e := range c.entries {
		if e.visitor.Name == name {
			p := e.priority
			if len(newPriority) > 0 {
				p = newPriority[0]
			}
			c.entries[i] = chainEntry{visitor: v, priority: p, seq: e.seq}
			c.sort()
			return c
		}
	}
	return c.Add(v, firstOr(newPriority, 0))
}

// Before inserts v immediately ahead of the visitor registered under
// refName (priority = ref's priority - 1).
func (c *ChainedVisitor) Before(refName string, v *Visitor) *ChainedVisitor {
	for _, e := range c.entries {
		if e.visitor.Name == refName {
			return c.Add(v, e.priority-1)
		}
	}
	return c.Add(v, 0)
}

// After inserts v immediately behind the visitor registered under refName
// (priority = ref's priority + 1).
func (c *ChainedVisitor) After(refName string, v *Visitor) *ChainedVisitor {
	for _, e := range c.entries {
		if e.visitor.Name == refName {
			return c.Add(v, e.priority+1)
		}
	}
	return c.Add(v, 0)
}

// Run threads root through every visitor in ascending priority order, each
// one observing the full tree produced by all earlier ones.
func (c *ChainedVisitor) Run(ctx *VisitorContext, root Node) Node {
	for _, e := range c.entries {
		root = e.visitor.Accept(ctx, root)
	}
	return root
}

func firstOr(xs []int, def int) int {
	if len(xs) > 0 {
		return xs[0]
	}
	return def
}
