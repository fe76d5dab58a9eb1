package builtin

import (
	"fmt"

	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/output"
)

// sizeBound implements minItems/maxItems/minProperties/maxProperties: a
// single non-negative integer bound on the length of an array or the
// property count of an object.
type sizeBound struct {
	field  string
	n      int
	min    bool
	object bool
}

func (k *sizeBound) Kind() []string { return []string{k.field} }

func (k *sizeBound) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	n, ok := asNumber(obj[k.field])
	if !ok {
		return nil, false
	}
	return &sizeBound{field: k.field, n: int(n), min: k.min, object: k.object}, true
}

func (k *sizeBound) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	var length int
	if k.object {
		obj, ok := asObject(instance)
		if !ok {
			return output.NewAnnotation(loc, kwLoc, abs, true), nil
		}
		length = len(obj)
	} else {
		arr, ok := asArray(instance)
		if !ok {
			return output.NewAnnotation(loc, kwLoc, abs, true), nil
		}
		length = len(arr)
	}
	unit := "items"
	if k.object {
		unit = "properties"
	}
	if k.min && length < k.n {
		return output.NewError(loc, kwLoc, abs, fmt.Sprintf("should have at least %d %s", k.n, unit)), nil
	}
	if !k.min && length > k.n {
		return output.NewError(loc, kwLoc, abs, fmt.Sprintf("should have at most %d %s", k.n, unit)), nil
	}
	return output.NewAnnotation(loc, kwLoc, abs, true), nil
}

func newMinItems() keyword.Keyword      { return &sizeBound{field: "minItems", min: true} }
func newMaxItems() keyword.Keyword      { return &sizeBound{field: "maxItems", min: false} }
func newMinProperties() keyword.Keyword { return &sizeBound{field: "minProperties", min: true, object: true} }
func newMaxProperties() keyword.Keyword { return &sizeBound{field: "maxProperties", min: false, object: true} }

// UniqueItemsKeyword checks that no two elements of an array instance are
// structurally equal, when "uniqueItems" is true (§name-uniqueitems).
type UniqueItemsKeyword struct{}

func (k *UniqueItemsKeyword) Kind() []string { return []string{"uniqueItems"} }

func (k *UniqueItemsKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	v, ok := obj["uniqueItems"].(bool)
	if !ok || !v {
		return nil, false
	}
	return k, true
}

func (k *UniqueItemsKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	arr, ok := asArray(instance)
	if !ok {
		return output.NewAnnotation(loc, kwLoc, abs, true), nil
	}
	for i := 0; i < len(arr); i++ {
		for j := i + 1; j < len(arr); j++ {
			if deepEqual(arr[i], arr[j]) {
				return output.NewError(loc, kwLoc, abs, fmt.Sprintf("items at %d and %d are duplicates", i, j)), nil
			}
		}
	}
	return output.NewAnnotation(loc, kwLoc, abs, true), nil
}
