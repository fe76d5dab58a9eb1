package builtin

import (
	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/output"
)

// DependentSchemasKeyword applies, for every property present in an object
// instance, the schema keyed by that property name under "dependentSchemas"
// (§name-dependentschemas, core vocabulary).
type DependentSchemasKeyword struct {
	targets map[string]keyword.Handle
}

func (k *DependentSchemasKeyword) Kind() []string { return []string{"dependentSchemas"} }

func (k *DependentSchemasKeyword) Subschemas(value any) []pointer.Pointer {
	obj, ok := asObject(value)
	if !ok {
		return nil
	}
	deps, ok := asObject(obj["dependentSchemas"])
	if !ok {
		return nil
	}
	var out []pointer.Pointer
	for name, v := range deps {
		if isSchemaLike(v) {
			out = append(out, pointer.Pointer{"dependentSchemas", name})
		}
	}
	return out
}

func (k *DependentSchemasKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	deps, ok := asObject(obj["dependentSchemas"])
	if !ok {
		return nil, false
	}
	targets := make(map[string]keyword.Handle, len(deps))
	for name := range deps {
		if h, ok := lookupChild(ctx, pointer.Pointer{"dependentSchemas", name}); ok {
			targets[name] = h
		}
	}
	return &DependentSchemasKeyword{targets: targets}, true
}

func (k *DependentSchemasKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	container := output.NewContainer(loc, kwLoc, abs, true)
	inst, ok := asObject(instance)
	if !ok {
		return container, nil
	}
	for name, target := range k.targets {
		if _, present := inst[name]; !present {
			continue
		}
		child, err := ctx.EvaluateHandle(target, instance, nil, pointer.Pointer{name})
		if err != nil {
			return nil, err
		}
		container.Append(child)
	}
	return container, nil
}

var _ keyword.SubschemaDiscoverer = (*DependentSchemasKeyword)(nil)
