package builtin

import (
	"fmt"
	"strings"

	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/output"
)

// TypeKeyword checks the instance's JSON Schema primitive type against the
// schema's "type" value, a single string or an array of strings. "integer"
// matches any number with a zero fractional part (§name-type).
type TypeKeyword struct {
	types []string
}

func (k *TypeKeyword) Kind() []string { return []string{"type"} }

func (k *TypeKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	raw, ok := obj["type"]
	if !ok {
		return nil, false
	}
	var types []string
	switch v := raw.(type) {
	case string:
		types = []string{v}
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok {
				types = append(types, s)
			}
		}
	default:
		return nil, false
	}
	if len(types) == 0 {
		return nil, false
	}
	return &TypeKeyword{types: types}, true
}

func (k *TypeKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc := ctx.InstanceLocation().String()
	kwLoc := ctx.KeywordLocation().String()
	abs := absOf(ctx)
	got := dataType(instance)
	for _, want := range k.types {
		if want == "number" && got == "integer" {
			return output.NewAnnotation(loc, kwLoc, abs, true), nil
		}
		if want == got {
			return output.NewAnnotation(loc, kwLoc, abs, true), nil
		}
	}
	return output.NewError(loc, kwLoc, abs, fmt.Sprintf("value is %s but should be %s", got, strings.Join(k.types, ", "))), nil
}

func absOf(ctx keyword.EvalContext) string {
	if u := ctx.AbsoluteKeywordLocation(); u != nil {
		return u.String()
	}
	return ""
}
