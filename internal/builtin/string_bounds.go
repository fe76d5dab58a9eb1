package builtin

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/output"
)

// stringLenBound implements minLength/maxLength, counting runes per RFC 8259
// the way the teacher's evaluateMinLength/evaluateMaxLength do.
type stringLenBound struct {
	field string
	n     int
	min   bool
}

func (k *stringLenBound) Kind() []string { return []string{k.field} }

func (k *stringLenBound) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	n, ok := asNumber(obj[k.field])
	if !ok {
		return nil, false
	}
	return &stringLenBound{field: k.field, n: int(n), min: k.min}, true
}

func (k *stringLenBound) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	s, ok := asString(instance)
	if !ok {
		return output.NewAnnotation(loc, kwLoc, abs, true), nil
	}
	length := utf8.RuneCountInString(s)
	if k.min && length < k.n {
		return output.NewError(loc, kwLoc, abs, fmt.Sprintf("value should be at least %d characters", k.n)), nil
	}
	if !k.min && length > k.n {
		return output.NewError(loc, kwLoc, abs, fmt.Sprintf("value should be at most %d characters", k.n)), nil
	}
	return output.NewAnnotation(loc, kwLoc, abs, true), nil
}

func newMinLength() keyword.Keyword { return &stringLenBound{field: "minLength", min: true} }
func newMaxLength() keyword.Keyword { return &stringLenBound{field: "maxLength", min: false} }

// PatternKeyword checks the instance against an ECMA-262-flavored regular
// expression, compiled once at Setup and cached on the keyword instance
// (§name-pattern).
type PatternKeyword struct {
	raw string
	re  *regexp.Regexp
}

func (k *PatternKeyword) Kind() []string { return []string{"pattern"} }

func (k *PatternKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	raw, ok := asString(obj["pattern"])
	if !ok {
		return nil, false
	}
	re, err := regexp.Compile(raw)
	if err != nil {
		return nil, false
	}
	return &PatternKeyword{raw: raw, re: re}, true
}

func (k *PatternKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	s, ok := asString(instance)
	if !ok {
		return output.NewAnnotation(loc, kwLoc, abs, true), nil
	}
	if k.re.MatchString(s) {
		return output.NewAnnotation(loc, kwLoc, abs, true), nil
	}
	return output.NewError(loc, kwLoc, abs, fmt.Sprintf("value does not match pattern %q", k.raw)), nil
}
