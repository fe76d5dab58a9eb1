package builtin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/output"
)

// spliceChildren appends child's children into container without folding
// child's own validity into container.Valid — used by anyOf/oneOf, whose
// validity rule isn't "every branch must pass".
func spliceChildren(container, child *output.Node) {
	if child == nil {
		return
	}
	if child.Transient {
		container.Children = append(container.Children, child.Children...)
		return
	}
	container.Children = append(container.Children, child)
}

func lookupArrayChildren(ctx keyword.CompileContext, field string, arr []any) []keyword.Handle {
	out := make([]keyword.Handle, 0, len(arr))
	for i := range arr {
		h, ok := lookupChild(ctx, pointer.Pointer{field, strconv.Itoa(i)})
		if !ok {
			continue
		}
		out = append(out, h)
	}
	return out
}

func arraySubschemas(field string) func(value any) []pointer.Pointer {
	return func(value any) []pointer.Pointer {
		obj, ok := asObject(value)
		if !ok {
			return nil
		}
		arr, ok := asArray(obj[field])
		if !ok {
			return nil
		}
		out := make([]pointer.Pointer, 0, len(arr))
		for i := range arr {
			out = append(out, pointer.Pointer{field, strconv.Itoa(i)})
		}
		return out
	}
}

// AllOfKeyword requires the instance to validate against every subschema
// listed in "allOf" (§name-allof).
type AllOfKeyword struct{ targets []keyword.Handle }

func (k *AllOfKeyword) Kind() []string                     { return []string{"allOf"} }
func (k *AllOfKeyword) Subschemas(value any) []pointer.Pointer { return arraySubschemas("allOf")(value) }

func (k *AllOfKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	arr, ok := asArray(obj["allOf"])
	if !ok || len(arr) == 0 {
		return nil, false
	}
	return &AllOfKeyword{targets: lookupArrayChildren(ctx, "allOf", arr)}, true
}

func (k *AllOfKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	container := output.NewContainer(loc, kwLoc, abs, true)
	var failing []string
	for i, target := range k.targets {
		child, err := ctx.EvaluateHandle(target, instance, nil, pointer.Pointer{strconv.Itoa(i)})
		if err != nil {
			return nil, err
		}
		container.Append(child)
		if child != nil && !child.Valid {
			failing = append(failing, strconv.Itoa(i))
		}
	}
	if len(failing) > 0 {
		container.Invalidate()
		container.Append(output.NewError(loc, kwLoc, abs, fmt.Sprintf("value does not match allOf schema at index %s", strings.Join(failing, ", "))))
	}
	return container, nil
}

var _ keyword.SubschemaDiscoverer = (*AllOfKeyword)(nil)

// AnyOfKeyword requires the instance to validate against at least one
// subschema listed in "anyOf" (§name-anyof).
type AnyOfKeyword struct{ targets []keyword.Handle }

func (k *AnyOfKeyword) Kind() []string                     { return []string{"anyOf"} }
func (k *AnyOfKeyword) Subschemas(value any) []pointer.Pointer { return arraySubschemas("anyOf")(value) }

func (k *AnyOfKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	arr, ok := asArray(obj["anyOf"])
	if !ok || len(arr) == 0 {
		return nil, false
	}
	return &AnyOfKeyword{targets: lookupArrayChildren(ctx, "anyOf", arr)}, true
}

func (k *AnyOfKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	container := output.NewContainer(loc, kwLoc, abs, true)
	anyValid := false
	for i, target := range k.targets {
		child, err := ctx.EvaluateHandle(target, instance, nil, pointer.Pointer{strconv.Itoa(i)})
		if err != nil {
			return nil, err
		}
		if child != nil && child.Valid {
			anyValid = true
		}
		spliceChildren(container, child)
	}
	if anyValid {
		return container, nil
	}
	container.Invalidate()
	container.Append(output.NewError(loc, kwLoc, abs, "value does not match any anyOf schema"))
	return container, nil
}

var _ keyword.SubschemaDiscoverer = (*AnyOfKeyword)(nil)

// OneOfKeyword requires the instance to validate against exactly one
// subschema listed in "oneOf" (§name-oneof).
type OneOfKeyword struct{ targets []keyword.Handle }

func (k *OneOfKeyword) Kind() []string                     { return []string{"oneOf"} }
func (k *OneOfKeyword) Subschemas(value any) []pointer.Pointer { return arraySubschemas("oneOf")(value) }

func (k *OneOfKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	arr, ok := asArray(obj["oneOf"])
	if !ok || len(arr) == 0 {
		return nil, false
	}
	return &OneOfKeyword{targets: lookupArrayChildren(ctx, "oneOf", arr)}, true
}

func (k *OneOfKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	container := output.NewContainer(loc, kwLoc, abs, true)
	var matches []string
	var matchedNode *output.Node
	for i, target := range k.targets {
		child, err := ctx.EvaluateHandle(target, instance, nil, pointer.Pointer{strconv.Itoa(i)})
		if err != nil {
			return nil, err
		}
		spliceChildren(container, child)
		if child != nil && child.Valid {
			matches = append(matches, strconv.Itoa(i))
			matchedNode = child
		}
	}
	switch len(matches) {
	case 1:
		_ = matchedNode
		return container, nil
	case 0:
		container.Invalidate()
		container.Append(output.NewError(loc, kwLoc, abs, "value does not match any oneOf schema"))
	default:
		container.Invalidate()
		container.Append(output.NewError(loc, kwLoc, abs, fmt.Sprintf("value matches multiple oneOf schemas at indexes %s", strings.Join(matches, ", "))))
	}
	return container, nil
}

var _ keyword.SubschemaDiscoverer = (*OneOfKeyword)(nil)

// NotKeyword requires the instance to fail validation against "not"
// (§name-not).
type NotKeyword struct{ target keyword.Handle }

func (k *NotKeyword) Kind() []string { return []string{"not"} }
func (k *NotKeyword) Subschemas(value any) []pointer.Pointer {
	obj, ok := asObject(value)
	if !ok {
		return nil
	}
	if !isSchemaLike(obj["not"]) {
		return nil
	}
	return []pointer.Pointer{{"not"}}
}

func (k *NotKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	if !isSchemaLike(obj["not"]) {
		return nil, false
	}
	h, ok := lookupChild(ctx, pointer.Pointer{"not"})
	if !ok {
		return nil, false
	}
	return &NotKeyword{target: h}, true
}

func (k *NotKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	child, err := ctx.EvaluateHandle(k.target, instance, nil, nil)
	if err != nil {
		return nil, err
	}
	if child != nil && child.Valid {
		return output.NewError(loc, kwLoc, abs, "value should not match the not schema"), nil
	}
	return output.NewAnnotation(loc, kwLoc, abs, true), nil
}

var _ keyword.SubschemaDiscoverer = (*NotKeyword)(nil)
