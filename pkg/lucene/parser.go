package lucene

import (
	"fmt"
	"strconv"
)

// ParseResult is what Parse returns: the document is always non-nil, even
// when Errors is non-empty — a malformed query never prevents a result.
type ParseResult struct {
	Document        *Document
	Errors          ParseErrors
	DefaultOperator Operator
}

// IsSuccess reports whether parsing produced no diagnostics.
func (r ParseResult) IsSuccess() bool { return len(r.Errors) == 0 }

// Parse parses text under the given default clause operator. defaultOp
// governs how a later stage (a visitor, an evaluator) should interpret an
// Implicit clause operator; the parser itself never resolves Implicit away
// — spec section 4.2 requires it survive in the tree so round-tripping and
// downstream interpretation stay decoupled from what the caller asked for.
func Parse(text string, defaultOp Operator) ParseResult {
	p := NewParser(text, defaultOp)
	doc := p.parseDocument()
	var errs ParseErrors
	errs = append(errs, p.lexer.Errors()...)
	errs = append(errs, p.errors...)
	return ParseResult{Document: doc, Errors: errs, DefaultOperator: defaultOp}
}

// Parser is a recursive-descent parser over a Lexer's token stream. It keeps
// a one-token lookahead (current, peek); precedence is not table-driven —
// spec section 4.2 wants a fixed 3-tier grammar (query, unary, primary), so
// each tier is its own function instead of a single precedence-climbing loop.
type Parser struct {
	lexer     *Lexer
	current   Token
	peek      Token
	lastEnd   int
	defaultOp Operator
	errors    []*ParseError
}

// NewParser creates a parser over input. Most callers should use Parse.
func NewParser(input string, defaultOp Operator) *Parser {
	l := NewLexer(input)
	p := &Parser{lexer: l, defaultOp: defaultOp}
	p.current = l.NextToken()
	p.peek = l.NextToken()
	p.lastEnd = p.current.Position.Offset
	return p
}

func (p *Parser) advance() {
	p.lastEnd = p.current.Position.Offset + p.current.Length
	p.current = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) addError(message string, pos Position, length int) {
	p.errors = append(p.errors, newParseError(message, pos, length))
}

func spanFrom(start Position, end int) Span {
	return Span{StartOffset: start.Offset, EndOffset: end, StartLine: start.Line, StartColumn: start.Column}
}

// parseDocument parses the whole input. A stray ')' at document level (no
// matching '(') is recorded as an error and skipped, and parsing resumes —
// the remaining clauses still end up in the returned document.
func (p *Parser) parseDocument() *Document {
	start := p.current.Position
	var clauses []Clause
	clauses = appendAsClauses(clauses, p.parseQuery())
	for p.current.Type == TokenRParen {
		p.addError("unmatched ')'", p.current.Position, p.current.Length)
		p.advance()
		clauses = appendAsClauses(clauses, p.parseQuery())
	}

	var query Node
	switch {
	case len(clauses) == 0:
		query = nil
	case len(clauses) == 1 && clauses[0].Occur == Should:
		query = clauses[0].Query
	default:
		query = &Boolean{baseNode: baseNode{spanFrom(start, p.lastEnd)}, Clauses: clauses}
	}
	return &Document{baseNode: baseNode{spanFrom(start, p.lastEnd)}, Query: query}
}

func appendAsClauses(clauses []Clause, n Node) []Clause {
	if n == nil {
		return clauses
	}
	if b, ok := n.(*Boolean); ok {
		return append(clauses, b.Clauses...)
	}
	return append(clauses, Clause{Query: n, Occur: Should, Operator: Implicit})
}

// parseQuery is tier 1: a flat run of clauses joined by AND, OR, or implicit
// adjacency. It stops at EOF or an unconsumed ')', leaving that token for
// the caller (parseGroup or parseDocument) to deal with. A single Should
// clause collapses to its bare query — spec section 4.2 reserves the
// Boolean wrapper for when there's more than one clause, or the one clause
// present carries a non-Should occurrence (+t / -t).
func (p *Parser) parseQuery() Node {
	start := p.current.Position
	if p.atClauseStop() {
		return nil
	}

	var clauses []Clause
	pendingOp := Implicit

	for !p.atClauseStop() {
		clause, ok := p.parseOneClause()
		if ok {
			clause.Operator = pendingOp
			clauses = append(clauses, clause)
		}
		if p.atClauseStop() {
			break
		}
		switch p.current.Type {
		case TokenAnd:
			pendingOp = And
			p.advance()
		case TokenOr:
			pendingOp = Or
			p.advance()
		default:
			if p.startsClause() {
				pendingOp = Implicit
			} else {
				p.addError(fmt.Sprintf("unexpected token %s", p.current.Type), p.current.Position, p.current.Length)
				p.advance()
				pendingOp = Implicit
			}
		}
	}

	switch {
	case len(clauses) == 0:
		return nil
	case len(clauses) == 1 && clauses[0].Occur == Should:
		return clauses[0].Query
	default:
		return &Boolean{baseNode: baseNode{spanFrom(start, p.lastEnd)}, Clauses: clauses}
	}
}

func (p *Parser) atClauseStop() bool {
	return p.current.Type == TokenEOF || p.current.Type == TokenRParen
}

func (p *Parser) startsClause() bool {
	switch p.current.Type {
	case TokenNot, TokenPlus, TokenMinus, TokenLParen, TokenLBracket, TokenLBrace,
		TokenRegex, TokenPhrase, TokenTerm, TokenPrefix, TokenWildcard,
		TokenGt, TokenGte, TokenLt, TokenLte:
		return true
	}
	return false
}

func (p *Parser) parseOneClause() (Clause, bool) {
	occur := Should
	switch p.current.Type {
	case TokenPlus:
		occur = Must
		p.advance()
	case TokenMinus:
		occur = MustNot
		p.advance()
	}
	if !p.startsClause() {
		if occur != Should {
			p.addError("expected query after occurrence modifier", p.current.Position, p.current.Length)
		}
		return Clause{}, false
	}
	query := p.parseUnary()
	return Clause{Query: query, Occur: occur}, true
}

// parseUnary is tier 2: NOT binds to the next unary (so "NOT NOT a" parses),
// everything else falls through to primary.
func (p *Parser) parseUnary() Node {
	if p.current.Type == TokenNot {
		start := p.current.Position
		p.advance()
		inner := p.parseUnary()
		return &Not{baseNode: baseNode{spanFrom(start, p.lastEnd)}, Query: inner}
	}
	return p.parsePrimary()
}

// parsePrimary is tier 3: groups, ranges, regex, phrase, term, field
// bindings, and match-all.
func (p *Parser) parsePrimary() Node {
	start := p.current.Position
	switch p.current.Type {
	case TokenLParen:
		return p.parseGroup()
	case TokenLBracket, TokenLBrace:
		return p.parseBracketRange("", start)
	case TokenGt, TokenGte, TokenLt, TokenLte:
		return p.parseShorthandRange("", start)
	case TokenRegex:
		lit := p.current.Literal
		p.advance()
		return &Regex{baseNode: baseNode{spanFrom(start, p.lastEnd)}, Pattern: lit}
	case TokenPhrase:
		return p.parsePhrasePrimary()
	case TokenTerm, TokenPrefix, TokenWildcard:
		return p.parseTermOrField()
	default:
		p.addError(fmt.Sprintf("unexpected token %s", p.current.Type), p.current.Position, p.current.Length)
		p.advance()
		return &Term{baseNode: baseNode{spanFrom(start, p.lastEnd)}}
	}
}

func isBareMatchAll(tok Token) bool {
	return tok.Type == TokenPrefix && tok.Literal == "*"
}

// parseTermOrField disambiguates a bare word into a field binding (peek is
// ':'), a standalone MatchAll (the literal is exactly "*"), or a plain term.
func (p *Parser) parseTermOrField() Node {
	start := p.current.Position
	tok := p.current

	if p.peek.Type == TokenColon {
		fieldName := unescape(tok.Literal)
		p.advance() // consume field name
		p.advance() // consume ':'
		return p.parseFieldValue(fieldName, start)
	}
	if isBareMatchAll(tok) {
		p.advance()
		return &MatchAll{baseNode: baseNode{spanFrom(start, p.lastEnd)}}
	}
	// A bare word outside a field binding is always a single Term: unlike a
	// field value, adjacent bare words here are separate top-level clauses
	// (each its own implicit-OR Should clause), not a MultiTerm — spec
	// section 3.2 scopes MultiTerm to "inside a field value".
	return p.parseTermPrimary()
}

// parseFieldValue parses what follows "field:". The _missing_ sentinel
// inverts the _exists_ keyword of other Lucene dialects (this parser does not
// reserve _exists_: "_exists_:f" is an ordinary Field): spec section
// 4.4 needs a Missing variant distinct from Exists, and "_missing_:field" is
// the natural syntax for it alongside the bare "field:*" Exists form.
func (p *Parser) parseFieldValue(field string, start Position) Node {
	if field == "_missing_" {
		return p.parseMissingField(start)
	}
	switch p.current.Type {
	case TokenLParen:
		inner := p.parseGroup()
		return &Field{baseNode: baseNode{spanFrom(start, p.lastEnd)}, FieldName: field, Query: inner}
	case TokenLBracket, TokenLBrace:
		// Range carries field directly (spec 4.6 lists it alongside Field,
		// Exists, Missing as a field-carrying node in its own right) rather
		// than being nested under a separate Field wrapper.
		return p.parseBracketRange(field, start)
	case TokenGt, TokenGte, TokenLt, TokenLte:
		return p.parseShorthandRange(field, start)
	case TokenRegex:
		lit := p.current.Literal
		p.advance()
		rx := &Regex{baseNode: baseNode{spanFrom(start, p.lastEnd)}, Pattern: lit}
		return &Field{baseNode: baseNode{spanFrom(start, p.lastEnd)}, FieldName: field, Query: rx}
	case TokenPhrase:
		ph := p.parsePhrasePrimary()
		return &Field{baseNode: baseNode{spanFrom(start, p.lastEnd)}, FieldName: field, Query: ph}
	case TokenTerm, TokenPrefix, TokenWildcard:
		if isBareMatchAll(p.current) {
			p.advance()
			return &Exists{baseNode: baseNode{spanFrom(start, p.lastEnd)}, FieldName: field}
		}
		val := p.parseMultiTerm()
		return &Field{baseNode: baseNode{spanFrom(start, p.lastEnd)}, FieldName: field, Query: val}
	default:
		p.addError("expected a value after field binding", p.current.Position, p.current.Length)
		return &Field{
			baseNode:  baseNode{spanFrom(start, p.lastEnd)},
			FieldName: field,
			Query:     &Term{baseNode: baseNode{spanFrom(start, p.lastEnd)}},
		}
	}
}

func (p *Parser) parseMissingField(start Position) Node {
	if p.current.Type != TokenTerm && p.current.Type != TokenPrefix && p.current.Type != TokenWildcard {
		p.addError("expected field name after _missing_:", p.current.Position, p.current.Length)
		return &Missing{baseNode: baseNode{spanFrom(start, p.lastEnd)}}
	}
	name := unescape(p.current.Literal)
	p.advance()
	return &Missing{baseNode: baseNode{spanFrom(start, p.lastEnd)}, FieldName: name}
}

// parseMultiTerm reads one or more adjacent bare words with no operator
// between them. A single word collapses to a bare Term (the common case);
// two or more become a MultiTerm, per spec section 3.2.
func (p *Parser) parseMultiTerm() Node {
	first := p.parseTermPrimary()
	firstTerm, _ := first.(*Term)
	if firstTerm == nil {
		return first
	}
	words := []string{firstTerm.Term}
	startSpan := first.Span()

	for p.isBareTermStart() {
		next := p.parseTermPrimary()
		if t, ok := next.(*Term); ok {
			words = append(words, t.Term)
		}
	}
	if len(words) == 1 {
		return first
	}
	span := startSpan
	span.EndOffset = p.lastEnd
	return &MultiTerm{baseNode: baseNode{span}, Terms: words}
}

func (p *Parser) isBareTermStart() bool {
	switch p.current.Type {
	case TokenTerm, TokenPrefix, TokenWildcard:
		return p.peek.Type != TokenColon
	}
	return false
}

// parseTermPrimary reads a single bare word (term, prefix, or wildcard) plus
// any trailing boost.
func (p *Parser) parseTermPrimary() Node {
	start := p.current.Position
	tok := p.current
	p.advance()
	term := &Term{
		baseNode:   baseNode{spanFrom(start, p.lastEnd)},
		Term:       unescape(tok.Literal),
		RawTerm:    tok.Literal,
		IsPrefix:   tok.Type == TokenPrefix,
		IsWildcard: tok.Type == TokenWildcard,
	}
	term.Boost = p.maybeBoost()
	term.span = spanFrom(start, p.lastEnd)
	return term
}

func (p *Parser) parsePhrasePrimary() Node {
	start := p.current.Position
	lit := p.current.Literal
	p.advance()
	phrase := &Phrase{baseNode: baseNode{spanFrom(start, p.lastEnd)}, Phrase: unescape(lit)}
	phrase.Boost = p.maybeBoost()
	phrase.span = spanFrom(start, p.lastEnd)
	return phrase
}

func (p *Parser) parseGroup() Node {
	start := p.current.Position
	p.advance() // consume '('
	inner := p.parseQuery()
	if p.current.Type != TokenRParen {
		p.addError("expected ')'", p.current.Position, p.current.Length)
	} else {
		p.advance()
	}
	group := &Group{baseNode: baseNode{spanFrom(start, p.lastEnd)}, Query: inner}
	group.Boost = p.maybeBoost()
	group.span = spanFrom(start, p.lastEnd)
	return group
}

func (p *Parser) maybeBoost() *float64 {
	if p.current.Type != TokenCaret {
		return nil
	}
	p.advance()
	if p.current.Type != TokenTerm {
		p.addError("expected a number after '^'", p.current.Position, p.current.Length)
		return nil
	}
	val, err := strconv.ParseFloat(p.current.Literal, 64)
	if err != nil {
		p.addError("invalid boost value '"+p.current.Literal+"'", p.current.Position, p.current.Length)
		p.advance()
		return nil
	}
	p.advance()
	return &val
}

// parseBracketRange parses "[min TO max]", "{min TO max}", and the two
// mixed-inclusivity forms. spanStart is the start of the whole construct —
// the field name's start position when field-bound, or the bracket's own
// position otherwise.
func (p *Parser) parseBracketRange(field string, spanStart Position) Node {
	minInclusive := p.current.Type == TokenLBracket
	p.advance() // consume '[' or '{'

	minVal := p.readRangeEndpoint()

	if p.current.Type != TokenTo {
		p.addError("expected TO in range", p.current.Position, p.current.Length)
	} else {
		p.advance()
	}

	maxVal := p.readRangeEndpoint()

	var maxInclusive bool
	switch p.current.Type {
	case TokenRBracket:
		maxInclusive = true
		p.advance()
	case TokenRBrace:
		maxInclusive = false
		p.advance()
	default:
		p.addError("expected ']' or '}'", p.current.Position, p.current.Length)
	}

	return &Range{
		baseNode:     baseNode{spanFrom(spanStart, p.lastEnd)},
		FieldName:    field,
		Min:          minVal,
		Max:          maxVal,
		MinInclusive: minInclusive,
		MaxInclusive: maxInclusive,
	}
}

// parseShorthandRange parses "field:>v", "field:>=v", "field:<v", "field:<=v".
// spanStart follows the same convention as parseBracketRange's.
func (p *Parser) parseShorthandRange(field string, spanStart Position) Node {
	var op RangeOp
	switch p.current.Type {
	case TokenGt:
		op = Gt
	case TokenGte:
		op = Gte
	case TokenLt:
		op = Lt
	case TokenLte:
		op = Lte
	}
	p.advance()
	val := p.readRangeEndpoint()

	r := &Range{baseNode: baseNode{spanFrom(spanStart, p.lastEnd)}, FieldName: field, Op: &op}
	switch op {
	case Gt:
		r.Min, r.MinInclusive = val, false
	case Gte:
		r.Min, r.MinInclusive = val, true
	case Lt:
		r.Max, r.MaxInclusive = val, false
	case Lte:
		r.Max, r.MaxInclusive = val, true
	}
	return r
}

// readRangeEndpoint reads one range boundary; a bare "*" means unbounded.
func (p *Parser) readRangeEndpoint() *string {
	switch p.current.Type {
	case TokenTerm, TokenPrefix, TokenWildcard, TokenPhrase:
		lit := unescape(p.current.Literal)
		p.advance()
		if lit == "*" {
			return nil
		}
		return &lit
	default:
		p.addError("expected a range endpoint", p.current.Position, p.current.Length)
		return nil
	}
}
