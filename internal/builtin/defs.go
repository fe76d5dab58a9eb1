package builtin

import (
	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/output"
)

// DefsKeyword discovers the embedded schemas under a pure container keyword
// ("$defs" in 2019-09/2020-12, "definitions" in draft-04/07). It asserts
// nothing about instances itself.
type DefsKeyword struct {
	Field string
}

func (k *DefsKeyword) Kind() []string { return []string{k.Field} }

func (k *DefsKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	if _, ok := obj[k.Field]; !ok {
		return nil, false
	}
	return k, true
}

func (k *DefsKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	return nil, nil
}

func (k *DefsKeyword) Subschemas(value any) []pointer.Pointer {
	obj, ok := asObject(value)
	if !ok {
		return nil
	}
	defs, ok := asObject(obj[k.Field])
	if !ok {
		return nil
	}
	var out []pointer.Pointer
	for name, v := range defs {
		if !isSchemaLike(v) {
			continue
		}
		out = append(out, pointer.Pointer{k.Field, name})
	}
	return out
}

var _ keyword.SubschemaDiscoverer = (*DefsKeyword)(nil)
