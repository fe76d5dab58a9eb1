package builtin

import (
	"fmt"
	"strings"

	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/output"
)

// RequiredKeyword checks that every name listed in "required" is present as
// a property of an object instance (§name-required).
type RequiredKeyword struct {
	names []string
}

func (k *RequiredKeyword) Kind() []string { return []string{"required"} }

func (k *RequiredKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	arr, ok := asArray(obj["required"])
	if !ok || len(arr) == 0 {
		return nil, false
	}
	var names []string
	for _, v := range arr {
		if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}
	return &RequiredKeyword{names: names}, true
}

func (k *RequiredKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	inst, ok := asObject(instance)
	if !ok {
		return output.NewAnnotation(loc, kwLoc, abs, true), nil
	}
	var missing []string
	for _, name := range k.names {
		if _, ok := inst[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return output.NewAnnotation(loc, kwLoc, abs, true), nil
	}
	quoted := make([]string, len(missing))
	for i, m := range missing {
		quoted[i] = "'" + m + "'"
	}
	word := "property"
	if len(missing) > 1 {
		word = "properties"
	}
	return output.NewError(loc, kwLoc, abs, fmt.Sprintf("required %s %s missing", word, strings.Join(quoted, ", "))), nil
}

// DependentRequiredKeyword checks that, for each key present in the
// instance, every name in that key's array is also present
// (§name-dependentrequired).
type DependentRequiredKeyword struct {
	deps map[string][]string
}

func (k *DependentRequiredKeyword) Kind() []string { return []string{"dependentRequired"} }

func (k *DependentRequiredKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	raw, ok := asObject(obj["dependentRequired"])
	if !ok {
		return nil, false
	}
	deps := make(map[string][]string, len(raw))
	for key, v := range raw {
		arr, ok := asArray(v)
		if !ok {
			continue
		}
		var names []string
		for _, e := range arr {
			if s, ok := e.(string); ok {
				names = append(names, s)
			}
		}
		deps[key] = names
	}
	return &DependentRequiredKeyword{deps: deps}, true
}

func (k *DependentRequiredKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	inst, ok := asObject(instance)
	if !ok {
		return output.NewAnnotation(loc, kwLoc, abs, true), nil
	}
	var failing []string
	for key, names := range k.deps {
		if _, present := inst[key]; !present {
			continue
		}
		for _, name := range names {
			if _, ok := inst[name]; !ok {
				failing = append(failing, fmt.Sprintf("%s requires %s", key, name))
			}
		}
	}
	if len(failing) == 0 {
		return output.NewAnnotation(loc, kwLoc, abs, true), nil
	}
	return output.NewError(loc, kwLoc, abs, strings.Join(failing, "; ")), nil
}
