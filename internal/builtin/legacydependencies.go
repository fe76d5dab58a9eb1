package builtin

import (
	"fmt"
	"strings"

	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/output"
)

// LegacyDependenciesKeyword implements draft-04/draft-07's single
// "dependencies" keyword, which 2019-09 split into dependentRequired and
// dependentSchemas: each entry is either an array of required property
// names or a subschema applied to the whole instance.
type LegacyDependenciesKeyword struct {
	required map[string][]string
	schemas  map[string]keyword.Handle
}

func (k *LegacyDependenciesKeyword) Kind() []string { return []string{"dependencies"} }

func (k *LegacyDependenciesKeyword) Subschemas(value any) []pointer.Pointer {
	obj, ok := asObject(value)
	if !ok {
		return nil
	}
	deps, ok := asObject(obj["dependencies"])
	if !ok {
		return nil
	}
	var out []pointer.Pointer
	for name, v := range deps {
		if isSchemaLike(v) {
			out = append(out, pointer.Pointer{"dependencies", name})
		}
	}
	return out
}

func (k *LegacyDependenciesKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	deps, ok := asObject(obj["dependencies"])
	if !ok {
		return nil, false
	}
	out := &LegacyDependenciesKeyword{required: map[string][]string{}, schemas: map[string]keyword.Handle{}}
	for name, v := range deps {
		if arr, ok := asArray(v); ok {
			var names []string
			for _, e := range arr {
				if s, ok := e.(string); ok {
					names = append(names, s)
				}
			}
			out.required[name] = names
			continue
		}
		if isSchemaLike(v) {
			if h, ok := lookupChild(ctx, pointer.Pointer{"dependencies", name}); ok {
				out.schemas[name] = h
			}
		}
	}
	return out, true
}

func (k *LegacyDependenciesKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	container := output.NewContainer(loc, kwLoc, abs, true)
	inst, ok := asObject(instance)
	if !ok {
		return container, nil
	}
	var failing []string
	for key, names := range k.required {
		if _, present := inst[key]; !present {
			continue
		}
		for _, name := range names {
			if _, ok := inst[name]; !ok {
				failing = append(failing, fmt.Sprintf("%s requires %s", key, name))
			}
		}
	}
	if len(failing) > 0 {
		container.Append(output.NewError(loc, kwLoc, abs, strings.Join(failing, "; ")))
	}
	for key, target := range k.schemas {
		if _, present := inst[key]; !present {
			continue
		}
		child, err := ctx.EvaluateHandle(target, instance, nil, pointer.Pointer{key})
		if err != nil {
			return nil, err
		}
		container.Append(child)
	}
	return container, nil
}

var _ keyword.SubschemaDiscoverer = (*LegacyDependenciesKeyword)(nil)
