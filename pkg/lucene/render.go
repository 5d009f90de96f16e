package lucene

import (
	"strconv"
	"strings"
)

// Render produces the canonical string form of n: parsing that string back
// reproduces a tree equivalent to n, modulo source positions and whitespace
// (spec section 4.4). It is a plain function rather than a *Visitor handler
// set: rendering never rewrites the tree or calls out to a resolver, so a
// type switch over a strings.Builder is simpler than forcing it through the
// mutate-and-return Visitor signature for no benefit.
func Render(n Node) string {
	var b strings.Builder
	renderInto(&b, n)
	return b.String()
}

func renderInto(b *strings.Builder, n Node) {
	switch node := n.(type) {
	case nil:
		return
	case *Document:
		renderInto(b, node.Query)
	case *Group:
		b.WriteByte('(')
		renderInto(b, node.Query)
		b.WriteByte(')')
		renderBoost(b, node.Boost)
	case *Boolean:
		renderBoolean(b, node)
	case *Field:
		b.WriteString(escape(node.FieldName))
		b.WriteByte(':')
		renderInto(b, node.Query)
	case *Not:
		b.WriteString("NOT ")
		renderInto(b, node.Query)
	case *Term:
		renderTerm(b, node)
	case *Phrase:
		b.WriteByte('"')
		b.WriteString(escapeQuoted(node.Phrase))
		b.WriteByte('"')
		renderBoost(b, node.Boost)
	case *Range:
		renderRange(b, node)
	case *Regex:
		b.WriteByte('/')
		b.WriteString(node.Pattern)
		b.WriteByte('/')
	case *Exists:
		b.WriteString(escape(node.FieldName))
		b.WriteString(":*")
	case *Missing:
		b.WriteString("_missing_:")
		b.WriteString(escape(node.FieldName))
	case *MatchAll:
		b.WriteByte('*')
	case *MultiTerm:
		for i, t := range node.Terms {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(escapePreservingWildcards(t))
		}
	}
}

func renderBoost(b *strings.Builder, boost *float64) {
	if boost == nil {
		return
	}
	b.WriteByte('^')
	b.WriteString(strconv.FormatFloat(*boost, 'g', -1, 64))
}

func renderTerm(b *strings.Builder, t *Term) {
	if t.RawTerm != "" {
		b.WriteString(t.RawTerm)
	} else {
		b.WriteString(escapePreservingWildcards(t.Term))
	}
	renderBoost(b, t.Boost)
}

func renderBoolean(b *strings.Builder, n *Boolean) {
	for i, clause := range n.Clauses {
		if i > 0 {
			switch clause.Operator {
			case And:
				b.WriteString("AND ")
			case Or:
				b.WriteString("OR ")
			}
			// Implicit: no connector text.
		}
		switch clause.Occur {
		case Must:
			b.WriteByte('+')
		case MustNot:
			b.WriteByte('-')
		}
		renderInto(b, clause.Query)
		if i < len(n.Clauses)-1 {
			b.WriteByte(' ')
		}
	}
}

func renderRange(b *strings.Builder, r *Range) {
	if r.Op != nil {
		if r.FieldName != "" {
			b.WriteString(escape(r.FieldName))
			b.WriteByte(':')
		}
		b.WriteString(r.Op.String())
		renderEndpoint(b, endpointFor(r))
		return
	}
	if r.FieldName != "" {
		b.WriteString(escape(r.FieldName))
		b.WriteByte(':')
	}
	if r.MinInclusive {
		b.WriteByte('[')
	} else {
		b.WriteByte('{')
	}
	renderEndpoint(b, r.Min)
	b.WriteString(" TO ")
	renderEndpoint(b, r.Max)
	if r.MaxInclusive {
		b.WriteByte(']')
	} else {
		b.WriteByte('}')
	}
}

func endpointFor(r *Range) *string {
	if r.Min != nil {
		return r.Min
	}
	return r.Max
}

func renderEndpoint(b *strings.Builder, v *string) {
	if v == nil {
		b.WriteByte('*')
		return
	}
	b.WriteString(escape(*v))
}

// escapeQuoted escapes the contents of a phrase: every special rune plus an
// unescaped '"', since that would otherwise terminate the phrase early.
func escapeQuoted(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '"' || isSpecialRune(r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
