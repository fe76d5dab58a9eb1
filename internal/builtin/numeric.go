package builtin

import (
	"fmt"
	"math"

	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/output"
)

// numericBound is shared by minimum/maximum/exclusiveMinimum/exclusiveMaximum:
// a single float64 bound, inclusive or exclusive, low or high (§name-minimum
// etc., adapted from the teacher's per-keyword big.Rat comparisons onto
// plain float64 since this module decodes JSON numbers that way).
type numericBound struct {
	field     string
	bound     float64
	exclusive bool
	low       bool // true: instance must be >= (or >) bound; false: <= (or <)
}

func (k *numericBound) Kind() []string { return []string{k.field} }

func (k *numericBound) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	n, ok := asNumber(obj[k.field])
	if !ok {
		return nil, false
	}
	return &numericBound{field: k.field, bound: n, exclusive: k.exclusive, low: k.low}, true
}

func (k *numericBound) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	n, ok := asNumber(instance)
	if !ok {
		return output.NewAnnotation(loc, kwLoc, abs, true), nil
	}
	ok2 := false
	switch {
	case k.low && k.exclusive:
		ok2 = n > k.bound
	case k.low && !k.exclusive:
		ok2 = n >= k.bound
	case !k.low && k.exclusive:
		ok2 = n < k.bound
	default:
		ok2 = n <= k.bound
	}
	if ok2 {
		return output.NewAnnotation(loc, kwLoc, abs, true), nil
	}
	return output.NewError(loc, kwLoc, abs, fmt.Sprintf("%g violates %s %g", n, k.field, k.bound)), nil
}

func newMinimum() keyword.Keyword    { return &numericBound{field: "minimum", low: true} }
func newMaximum() keyword.Keyword    { return &numericBound{field: "maximum", low: false} }
func newExclMinimum() keyword.Keyword { return &numericBound{field: "exclusiveMinimum", low: true, exclusive: true} }
func newExclMaximum() keyword.Keyword { return &numericBound{field: "exclusiveMaximum", low: false, exclusive: true} }

// MultipleOfKeyword checks that the instance divided by "multipleOf" yields
// an integer, within an absolute tolerance of 1e-9 on the quotient
// (§name-multipleof).
type MultipleOfKeyword struct {
	divisor float64
}

func (k *MultipleOfKeyword) Kind() []string { return []string{"multipleOf"} }

func (k *MultipleOfKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	n, ok := asNumber(obj["multipleOf"])
	if !ok || n <= 0 {
		return nil, false
	}
	return &MultipleOfKeyword{divisor: n}, true
}

func (k *MultipleOfKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	n, ok := asNumber(instance)
	if !ok {
		return output.NewAnnotation(loc, kwLoc, abs, true), nil
	}
	quotient := n / k.divisor
	if math.Abs(quotient-math.Round(quotient)) < 1e-9 {
		return output.NewAnnotation(loc, kwLoc, abs, true), nil
	}
	return output.NewError(loc, kwLoc, abs, fmt.Sprintf("%g should be a multiple of %g", n, k.divisor)), nil
}

// ExclusiveBoolMinimumKeyword/ExclusiveBoolMaximumKeyword implement
// draft-04's boolean exclusiveMinimum/exclusiveMaximum, which only modify
// the meaning of a sibling "minimum"/"maximum" rather than carrying their
// own bound.
type exclusiveBoolBound struct {
	field      string
	boundField string
	low        bool
	exclusive  bool
	bound      float64
}

func (k *exclusiveBoolBound) Kind() []string { return []string{k.field} }

func (k *exclusiveBoolBound) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	excl, ok := obj[k.field].(bool)
	if !ok || !excl {
		return nil, false
	}
	bound, ok := asNumber(obj[k.boundField])
	if !ok {
		return nil, false
	}
	return &exclusiveBoolBound{field: k.field, low: k.low, exclusive: true, bound: bound}, true
}

func (k *exclusiveBoolBound) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	n, ok := asNumber(instance)
	if !ok {
		return output.NewAnnotation(loc, kwLoc, abs, true), nil
	}
	valid := n > k.bound
	if !k.low {
		valid = n < k.bound
	}
	if valid {
		return output.NewAnnotation(loc, kwLoc, abs, true), nil
	}
	return output.NewError(loc, kwLoc, abs, fmt.Sprintf("%g violates exclusive %s", n, k.field)), nil
}

func newExclBoolMinimum() keyword.Keyword {
	return &exclusiveBoolBound{field: "exclusiveMinimum", boundField: "minimum", low: true}
}
func newExclBoolMaximum() keyword.Keyword {
	return &exclusiveBoolBound{field: "exclusiveMaximum", boundField: "maximum", low: false}
}
