package lucene

import "context"

// Render returns the canonical string form of d (spec section 6.1).
func (d *Document) Render() string {
	return Render(d)
}

// RunVisitors threads d through chain and returns the (possibly rewritten)
// resulting document. ctx is created fresh if nil.
func (d *Document) RunVisitors(chain *ChainedVisitor, ctx *VisitorContext) *Document {
	if ctx == nil {
		ctx = NewVisitorContext(context.Background())
	}
	result := chain.Run(ctx, d)
	doc, ok := result.(*Document)
	if !ok {
		return d
	}
	return doc
}

// ExpandIncludes is a convenience wrapper around the include visitor: it
// builds a one-visitor chain and runs it. defaultOp must match whatever
// operator d was originally parsed with, since a resolved include's text is
// parsed under the same default.
func (d *Document) ExpandIncludes(resolver IncludeResolver, defaultOp Operator, ctx *VisitorContext) *Document {
	if ctx == nil {
		ctx = NewVisitorContext(context.Background())
	}
	if ctx.ValidationResult() == nil {
		ctx.SetValidationResult(NewValidationResult())
	}
	chain := NewChainedVisitor().Add(NewIncludeVisitor(resolver, nil, defaultOp), 0)
	return d.RunVisitors(chain, ctx)
}

// Validate walks d once under opts and returns what it found. It never
// raises — use ValidateAndThrow for that.
func (d *Document) Validate(opts ValidationOptions) *ValidationResult {
	ctx := NewVisitorContext(context.Background())
	result := NewValidationResult()
	ctx.SetValidationResult(result)
	ctx.SetValidationOptions(opts)
	chain := NewChainedVisitor().Add(NewValidationVisitor(opts), 0)
	d.RunVisitors(chain, ctx)
	return result
}

// ValidateAndThrow mirrors Validate but returns a *ValidationException when
// the result carries at least one error. It sets opts.ShouldThrow, but no
// code reads that option: Validate and the validation visitor never raise,
// whatever its value, and this method is the only path that returns a
// ValidationException.
func (d *Document) ValidateAndThrow(opts ValidationOptions) (*ValidationResult, error) {
	opts.ShouldThrow = true
	result := d.Validate(opts)
	if len(result.Errors) > 0 {
		return result, &ValidationException{Result: result}
	}
	return result, nil
}
