package lucene

// Span is the source-position range of an AST node: the offsets and the
// 1-based line/column of its start. Every node carries one, propagated from
// the originating token(s); a rewrite that preserves a node must carry its
// Span forward unchanged.
type Span struct {
	StartOffset int
	EndOffset   int
	StartLine   int
	StartColumn int
}

// Node is the closed set of AST variants from spec section 3.2. Rather than
// exposing a string Type() for a type switch, the set here is sealed with an
// unexported astNode() method: only types in this package can implement Node, so a type
// switch over Node is exhaustive and the compiler enforces it.
type Node interface {
	Span() Span
	astNode()
}

type baseNode struct {
	span Span
}

func (n baseNode) Span() Span { return n.span }
func (baseNode) astNode()     {}

// Occur is a clause's participation requirement within a Boolean.
type Occur int

const (
	Should Occur = iota
	Must
	MustNot
)

func (o Occur) String() string {
	switch o {
	case Must:
		return "Must"
	case MustNot:
		return "MustNot"
	default:
		return "Should"
	}
}

// Operator is the connective joining a clause to the one before it.
type Operator int

const (
	Implicit Operator = iota
	And
	Or
)

func (o Operator) String() string {
	switch o {
	case And:
		return "And"
	case Or:
		return "Or"
	default:
		return "Implicit"
	}
}

// RangeOp names a shorthand comparison range (field:>v, field:<=v, ...).
type RangeOp int

const (
	Gt RangeOp = iota
	Gte
	Lt
	Lte
)

func (o RangeOp) String() string {
	switch o {
	case Gt:
		return ">"
	case Gte:
		return ">="
	case Lt:
		return "<"
	default:
		return "<="
	}
}

// Document is the root of every parse: one optional top-level expression.
// Query is nil only for an empty or whitespace-only input.
type Document struct {
	baseNode
	Query Node
}

// Group is a parenthesized subexpression, with an optional trailing boost.
type Group struct {
	baseNode
	Query Node
	Boost *float64
}

// Clause is one element of a Boolean: an inner expression paired with its
// occurrence requirement and the operator connecting it to the prior clause.
// It is not itself a Node — it never appears anywhere but inside
// Boolean.Clauses.
type Clause struct {
	Query    Node
	Occur    Occur
	Operator Operator
}

// Boolean is a flat list of clauses. The parser never nests a Boolean
// directly inside another Boolean; an explicit Group always separates them.
type Boolean struct {
	baseNode
	Clauses []Clause
}

// Field binds a field name to an inner expression. That expression is always
// leaf-ish (Term, Phrase, Regex, MultiTerm, or a Group) — never a bare
// Boolean; a boolean field value is wrapped in a Group by the parser. A
// field-bound range or field:* is parsed to a Range or Exists node that
// carries the field name itself, with no Field around it.
type Field struct {
	baseNode
	FieldName string
	Query     Node
}

// Term is a bare or wildcarded word. RawTerm preserves the as-written form
// (with backslash escapes intact) for round-trip rendering; Term is the
// unescaped value visitors and evaluators should match against.
type Term struct {
	baseNode
	Term       string
	RawTerm    string
	IsPrefix   bool
	IsWildcard bool
	Boost      *float64
}

// Phrase is a double-quoted sequence.
type Phrase struct {
	baseNode
	Phrase string
	Boost  *float64
}

// Range is a bracketed range ([min TO max], {min TO max}, or mixed) or a
// shorthand comparison (field:>v). A nil Min or Max means unbounded (the
// written endpoint was "*"); Op is non-nil only for the shorthand form, in
// which case exactly one of Min/Max is set and the inclusivity flags mirror
// the operator.
type Range struct {
	baseNode
	FieldName    string
	Min          *string
	Max          *string
	MinInclusive bool
	MaxInclusive bool
	Op           *RangeOp
}

// Regex is a /pattern/ literal.
type Regex struct {
	baseNode
	Pattern string
}

// Not is a prefix NOT.
type Not struct {
	baseNode
	Query Node
}

// Exists is a presence check, written field:*.
type Exists struct {
	baseNode
	FieldName string
}

// Missing is a negated presence check.
type Missing struct {
	baseNode
	FieldName string
}

// MatchAll is a bare "*" anywhere outside a field value.
type MatchAll struct {
	baseNode
}

// MultiTerm is a run of adjacent unquoted terms inside a field value, e.g.
// field:foo bar — terms separated by whitespace with no intervening operator
// or field binding.
type MultiTerm struct {
	baseNode
	Terms []string
}
