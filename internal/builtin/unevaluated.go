package builtin

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/output"
)

// UnevaluatedItemsKeyword validates every array element not already marked
// evaluated — by "items"/"prefixItems"/"contains" or by a nested applicator
// spliced in through $ref/allOf/if-then-else/anyOf/oneOf — against its own
// subschema (§name-unevaluateditems). The dialect must order this keyword
// after every other array applicator so the evaluated-locations trie is
// complete by the time it runs.
type UnevaluatedItemsKeyword struct{ target keyword.Handle }

func (k *UnevaluatedItemsKeyword) Kind() []string { return []string{"unevaluatedItems"} }

func (k *UnevaluatedItemsKeyword) Subschemas(value any) []pointer.Pointer {
	obj, ok := asObject(value)
	if !ok || !isSchemaLike(obj["unevaluatedItems"]) {
		return nil
	}
	return []pointer.Pointer{{"unevaluatedItems"}}
}

func (k *UnevaluatedItemsKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok || !isSchemaLike(obj["unevaluatedItems"]) {
		return nil, false
	}
	h, ok := lookupChild(ctx, pointer.Pointer{"unevaluatedItems"})
	if !ok {
		return nil, false
	}
	return &UnevaluatedItemsKeyword{target: h}, true
}

func (k *UnevaluatedItemsKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	container := output.NewContainer(loc, kwLoc, abs, true)
	arr, ok := asArray(instance)
	if !ok {
		return container, nil
	}
	var invalid []string
	for i := range arr {
		if ctx.IsEvaluated(ctx.InstanceLocation().AppendIndex(i)) {
			continue
		}
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
		container.Append(output.NewError(loc, kwLoc, abs, fmt.Sprintf("unevaluated items at index %s do not match unevaluatedItems schema", strings.Join(invalid, ", "))))
	}
	return container, nil
}

var _ keyword.SubschemaDiscoverer = (*UnevaluatedItemsKeyword)(nil)

// UnevaluatedPropertiesKeyword validates every object property not already
// marked evaluated against its own subschema (§name-unevaluatedproperties).
// Must run after every other object applicator for the same reason as
// UnevaluatedItemsKeyword.
type UnevaluatedPropertiesKeyword struct{ target keyword.Handle }

func (k *UnevaluatedPropertiesKeyword) Kind() []string { return []string{"unevaluatedProperties"} }

func (k *UnevaluatedPropertiesKeyword) Subschemas(value any) []pointer.Pointer {
	obj, ok := asObject(value)
	if !ok || !isSchemaLike(obj["unevaluatedProperties"]) {
		return nil
	}
	return []pointer.Pointer{{"unevaluatedProperties"}}
}

func (k *UnevaluatedPropertiesKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok || !isSchemaLike(obj["unevaluatedProperties"]) {
		return nil, false
	}
	h, ok := lookupChild(ctx, pointer.Pointer{"unevaluatedProperties"})
	if !ok {
		return nil, false
	}
	return &UnevaluatedPropertiesKeyword{target: h}, true
}

func (k *UnevaluatedPropertiesKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	container := output.NewContainer(loc, kwLoc, abs, true)
	inst, ok := asObject(instance)
	if !ok {
		return container, nil
	}
	var invalid []string
	for name, v := range inst {
		if ctx.IsEvaluated(ctx.InstanceLocation().Append(name)) {
			continue
		}
		child, err := ctx.EvaluateHandle(k.target, v, pointer.Pointer{name}, pointer.Pointer{name})
		if err != nil {
			return nil, err
		}
		container.Append(child)
		if child != nil && child.Valid {
			ctx.MarkEvaluated(ctx.InstanceLocation().Append(name))
		} else {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		container.Append(output.NewError(loc, kwLoc, abs, fmt.Sprintf("unevaluated properties %s do not match unevaluatedProperties schema", strings.Join(invalid, ", "))))
	}
	return container, nil
}

var _ keyword.SubschemaDiscoverer = (*UnevaluatedPropertiesKeyword)(nil)
