package builtin

import (
	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/output"
)

// EnumKeyword checks that the instance equals one of the values listed in
// "enum" (§name-enum).
type EnumKeyword struct {
	values []any
}

func (k *EnumKeyword) Kind() []string { return []string{"enum"} }

func (k *EnumKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	arr, ok := asArray(obj["enum"])
	if !ok {
		return nil, false
	}
	return &EnumKeyword{values: arr}, true
}

func (k *EnumKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	for _, v := range k.values {
		if deepEqual(instance, v) {
			return output.NewAnnotation(loc, kwLoc, abs, true), nil
		}
	}
	return output.NewError(loc, kwLoc, abs, "value should match one of the values specified by enum"), nil
}

// ConstKeyword checks that the instance equals exactly the value of
// "const" (§name-const).
type ConstKeyword struct {
	value any
}

func (k *ConstKeyword) Kind() []string { return []string{"const"} }

func (k *ConstKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	v, ok := obj["const"]
	if !ok {
		return nil, false
	}
	return &ConstKeyword{value: v}, true
}

func (k *ConstKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	if deepEqual(instance, k.value) {
		return output.NewAnnotation(loc, kwLoc, abs, true), nil
	}
	return output.NewError(loc, kwLoc, abs, "value does not match the constant value"), nil
}
