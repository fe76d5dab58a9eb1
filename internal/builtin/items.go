package builtin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/output"
)

// PrefixItemsKeyword validates array elements against the same-index schema
// in "prefixItems" (2020-12 tuple form, §name-prefixitems).
type PrefixItemsKeyword struct{ targets []keyword.Handle }

func (k *PrefixItemsKeyword) Kind() []string { return []string{"prefixItems"} }
func (k *PrefixItemsKeyword) Subschemas(value any) []pointer.Pointer {
	return arraySubschemas("prefixItems")(value)
}

func (k *PrefixItemsKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	arr, ok := asArray(obj["prefixItems"])
	if !ok || len(arr) == 0 {
		return nil, false
	}
	return &PrefixItemsKeyword{targets: lookupArrayChildren(ctx, "prefixItems", arr)}, true
}

func (k *PrefixItemsKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	container := output.NewContainer(loc, kwLoc, abs, true)
	arr, ok := asArray(instance)
	if !ok {
		return container, nil
	}
	var invalid []string
	for i, target := range k.targets {
		if i >= len(arr) {
			break
		}
		child, err := ctx.EvaluateHandle(target, arr[i], pointer.Pointer{strconv.Itoa(i)}, pointer.Pointer{strconv.Itoa(i)})
		if err != nil {
			return nil, err
		}
		container.Append(child)
		if child != nil && child.Valid {
			ctx.MarkEvaluated(ctx.InstanceLocation().AppendIndex(i))
		} else {
			invalid = append(invalid, strconv.Itoa(i))
		}
	}
	if len(invalid) > 0 {
		container.Append(output.NewError(loc, kwLoc, abs, fmt.Sprintf("items at index %s do not match prefixItems", strings.Join(invalid, ", "))))
	}
	return container, nil
}

var _ keyword.SubschemaDiscoverer = (*PrefixItemsKeyword)(nil)

// ItemsKeyword validates every array element beyond the "prefixItems"
// length against a single subschema (2020-12 form), or — when no sibling
// "prefixItems"/legacy tuple form is present — against every element
// (draft-04/07/2019-09 single-schema form, §name-items).
type ItemsKeyword struct {
	target    keyword.Handle
	skip      int // number of leading elements already covered by prefixItems/tuple items
}

func (k *ItemsKeyword) Kind() []string { return []string{"items"} }
func (k *ItemsKeyword) Subschemas(value any) []pointer.Pointer {
	obj, ok := asObject(value)
	if !ok {
		return nil
	}
	if isSchemaLike(obj["items"]) {
		return []pointer.Pointer{{"items"}}
	}
	if arr, ok := asArray(obj["items"]); ok {
		return arraySubschemas("items")(map[string]any{"items": arr})
	}
	return nil
}

func (k *ItemsKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	if !isSchemaLike(obj["items"]) {
		return nil, false // legacy tuple-array form is handled by LegacyItemsKeyword
	}
	h, ok := lookupChild(ctx, pointer.Pointer{"items"})
	if !ok {
		return nil, false
	}
	skip := 0
	if prefix, ok := asArray(obj["prefixItems"]); ok {
		skip = len(prefix)
	}
	return &ItemsKeyword{target: h, skip: skip}, true
}

func (k *ItemsKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	container := output.NewContainer(loc, kwLoc, abs, true)
	arr, ok := asArray(instance)
	if !ok {
		return container, nil
	}
	var invalid []string
	for i := k.skip; i < len(arr); i++ {
		child, err := ctx.EvaluateHandle(k.target, arr[i], pointer.Pointer{strconv.Itoa(i)}, pointer.Pointer{strconv.Itoa(i)})
		if err != nil {
			return nil, err
		}
		container.Append(child)
		if child != nil && child.Valid {
			ctx.MarkEvaluated(ctx.InstanceLocation().AppendIndex(i))
		} else {
			invalid = append(invalid, strconv.Itoa(i))
		}
	}
	if len(invalid) > 0 {
		container.Append(output.NewError(loc, kwLoc, abs, fmt.Sprintf("items at index %s do not match items schema", strings.Join(invalid, ", "))))
	}
	return container, nil
}

var _ keyword.SubschemaDiscoverer = (*ItemsKeyword)(nil)

// LegacyItemsKeyword implements draft-04/07's array form of "items": a
// positional tuple, with "additionalItems" governing elements beyond the
// tuple's length.
type LegacyItemsKeyword struct {
	targets     []keyword.Handle
	additional  keyword.Handle
	hasAdditional bool
}

func (k *LegacyItemsKeyword) Kind() []string { return []string{"items", "additionalItems"} }

func (k *LegacyItemsKeyword) Subschemas(value any) []pointer.Pointer {
	obj, ok := asObject(value)
	if !ok {
		return nil
	}
	arr, ok := asArray(obj["items"])
	if !ok {
		return nil
	}
	out := arraySubschemas("items")(map[string]any{"items": arr})
	if isSchemaLike(obj["additionalItems"]) {
		out = append(out, pointer.Pointer{"additionalItems"})
	}
	return out
}

func (k *LegacyItemsKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	arr, ok := asArray(obj["items"])
	if !ok {
		return nil, false
	}
	out := &LegacyItemsKeyword{targets: lookupArrayChildren(ctx, "items", arr)}
	if isSchemaLike(obj["additionalItems"]) {
		if h, ok := lookupChild(ctx, pointer.Pointer{"additionalItems"}); ok {
			out.additional, out.hasAdditional = h, true
		}
	}
	return out, true
}

func (k *LegacyItemsKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	container := output.NewContainer(loc, kwLoc, abs, true)
	arr, ok := asArray(instance)
	if !ok {
		return container, nil
	}
	var invalid []string
	for i := 0; i < len(arr); i++ {
		var target keyword.Handle
		if i < len(k.targets) {
			target = k.targets[i]
		} else if k.hasAdditional {
			target = k.additional
		} else {
			break
		}
		child, err := ctx.EvaluateHandle(target, arr[i], pointer.Pointer{strconv.Itoa(i)}, pointer.Pointer{strconv.Itoa(i)})
		if err != nil {
			return nil, err
		}
		container.Append(child)
		if child != nil && child.Valid {
			ctx.MarkEvaluated(ctx.InstanceLocation().AppendIndex(i))
		} else {
			invalid = append(invalid, strconv.Itoa(i))
		}
	}
	if len(invalid) > 0 {
		container.Append(output.NewError(loc, kwLoc, abs, fmt.Sprintf("items at index %s do not match their schema", strings.Join(invalid, ", "))))
	}
	return container, nil
}

var _ keyword.SubschemaDiscoverer = (*LegacyItemsKeyword)(nil)

// ContainsKeyword requires at least minContains (default 1, or 0 if
// explicitly so) and at most maxContains elements to validate against
// "contains" (§name-contains).
type ContainsKeyword struct {
	target                keyword.Handle
	minContains           int
	maxContains           int
	hasMax                bool
}

func (k *ContainsKeyword) Kind() []string { return []string{"contains", "minContains", "maxContains"} }
func (k *ContainsKeyword) Subschemas(value any) []pointer.Pointer {
	obj, ok := asObject(value)
	if !ok || !isSchemaLike(obj["contains"]) {
		return nil
	}
	return []pointer.Pointer{{"contains"}}
}

func (k *ContainsKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok || !isSchemaLike(obj["contains"]) {
		return nil, false
	}
	h, ok := lookupChild(ctx, pointer.Pointer{"contains"})
	if !ok {
		return nil, false
	}
	out := &ContainsKeyword{target: h, minContains: 1}
	if n, ok := asNumber(obj["minContains"]); ok {
		out.minContains = int(n)
	}
	if n, ok := asNumber(obj["maxContains"]); ok {
		out.maxContains, out.hasMax = int(n), true
	}
	return out, true
}

func (k *ContainsKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	container := output.NewContainer(loc, kwLoc, abs, true)
	arr, ok := asArray(instance)
	if !ok {
		return container, nil
	}
	var matched int
	for i, v := range arr {
		child, err := ctx.EvaluateHandle(k.target, v, pointer.Pointer{strconv.Itoa(i)}, pointer.Pointer{})
		if err != nil {
			return nil, err
		}
		if child != nil && child.Valid {
			matched++
			ctx.MarkEvaluated(ctx.InstanceLocation().AppendIndex(i))
		}
	}
	if matched < k.minContains {
		container.Append(output.NewError(loc, kwLoc, abs, fmt.Sprintf("value should contain at least %d matching items, found %d", k.minContains, matched)))
		return container, nil
	}
	if k.hasMax && matched > k.maxContains {
		container.Append(output.NewError(loc, kwLoc, abs, fmt.Sprintf("value should contain at most %d matching items, found %d", k.maxContains, matched)))
		return container, nil
	}
	return container, nil
}
