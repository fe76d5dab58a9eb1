package builtin

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/output"
)

// PropertiesKeyword validates, for each name present in both the instance
// and "properties", the child value against the corresponding subschema,
// marking every matched property evaluated for additionalProperties/
// unevaluatedProperties (§name-properties).
type PropertiesKeyword struct {
	targets map[string]keyword.Handle
}

func (k *PropertiesKeyword) Kind() []string { return []string{"properties"} }

func (k *PropertiesKeyword) Subschemas(value any) []pointer.Pointer {
	obj, ok := asObject(value)
	if !ok {
		return nil
	}
	props, ok := asObject(obj["properties"])
	if !ok {
		return nil
	}
	var out []pointer.Pointer
	for name, v := range props {
		if isSchemaLike(v) {
			out = append(out, pointer.Pointer{"properties", name})
		}
	}
	return out
}

func (k *PropertiesKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	props, ok := asObject(obj["properties"])
	if !ok {
		return nil, false
	}
	targets := make(map[string]keyword.Handle, len(props))
	for name := range props {
		if h, ok := lookupChild(ctx, pointer.Pointer{"properties", name}); ok {
			targets[name] = h
		}
	}
	return &PropertiesKeyword{targets: targets}, true
}

func (k *PropertiesKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	container := output.NewContainer(loc, kwLoc, abs, true)
	inst, ok := asObject(instance)
	if !ok {
		return container, nil
	}
	var invalid []string
	for name, target := range k.targets {
		v, present := inst[name]
		if !present {
			continue
		}
		child, err := ctx.EvaluateHandle(target, v, pointer.Pointer{name}, pointer.Pointer{name})
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
		quoted := make([]string, len(invalid))
		for i, n := range invalid {
			quoted[i] = "'" + n + "'"
		}
		container.Append(output.NewError(loc, kwLoc, abs, fmt.Sprintf("properties %s do not match their schemas", strings.Join(quoted, ", "))))
	}
	return container, nil
}

var _ keyword.SubschemaDiscoverer = (*PropertiesKeyword)(nil)

// PatternPropertiesKeyword validates, for each instance property whose name
// matches one of "patternProperties"'s regular-expression keys, the value
// against that key's subschema (§name-patternproperties).
type PatternPropertiesKeyword struct {
	patterns []patternTarget
}

type patternTarget struct {
	re     *regexp.Regexp
	target keyword.Handle
	raw    string
}

func (k *PatternPropertiesKeyword) Kind() []string { return []string{"patternProperties"} }

func (k *PatternPropertiesKeyword) Subschemas(value any) []pointer.Pointer {
	obj, ok := asObject(value)
	if !ok {
		return nil
	}
	props, ok := asObject(obj["patternProperties"])
	if !ok {
		return nil
	}
	var out []pointer.Pointer
	for name, v := range props {
		if isSchemaLike(v) {
			out = append(out, pointer.Pointer{"patternProperties", name})
		}
	}
	return out
}

func (k *PatternPropertiesKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	props, ok := asObject(obj["patternProperties"])
	if !ok {
		return nil, false
	}
	var pats []patternTarget
	for raw := range props {
		re, err := regexp.Compile(raw)
		if err != nil {
			continue
		}
		h, ok := lookupChild(ctx, pointer.Pointer{"patternProperties", raw})
		if !ok {
			continue
		}
		pats = append(pats, patternTarget{re: re, target: h, raw: raw})
	}
	return &PatternPropertiesKeyword{patterns: pats}, true
}

func (k *PatternPropertiesKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	container := output.NewContainer(loc, kwLoc, abs, true)
	inst, ok := asObject(instance)
	if !ok {
		return container, nil
	}
	var invalid bool
	for name, v := range inst {
		for _, pat := range k.patterns {
			if !pat.re.MatchString(name) {
				continue
			}
			child, err := ctx.EvaluateHandle(pat.target, v, pointer.Pointer{name}, pointer.Pointer{name})
			if err != nil {
				return nil, err
			}
			container.Append(child)
			if child != nil && child.Valid {
				ctx.MarkEvaluated(ctx.InstanceLocation().Append(name))
			} else {
				invalid = true
			}
		}
	}
	if invalid {
		container.Append(output.NewError(loc, kwLoc, abs, "one or more properties do not match their patternProperties schema"))
	}
	return container, nil
}

var _ keyword.SubschemaDiscoverer = (*PatternPropertiesKeyword)(nil)

// AdditionalPropertiesKeyword validates every instance property not already
// claimed by "properties"/"patternProperties" against its own subschema
// (§name-additionalproperties). The sibling property names and patterns are
// read from the schema value at Setup, so the result does not depend on
// evaluated-property marks or on keyword order.
type AdditionalPropertiesKeyword struct {
	target          keyword.Handle
	propertyNames   map[string]bool
	patternStrings  []string
	patterns        []*regexp.Regexp
}

func (k *AdditionalPropertiesKeyword) Kind() []string { return []string{"additionalProperties"} }

func (k *AdditionalPropertiesKeyword) Subschemas(value any) []pointer.Pointer {
	obj, ok := asObject(value)
	if !ok {
		return nil
	}
	if !isSchemaLike(obj["additionalProperties"]) {
		return nil
	}
	return []pointer.Pointer{{"additionalProperties"}}
}

func (k *AdditionalPropertiesKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	if !isSchemaLike(obj["additionalProperties"]) {
		return nil, false
	}
	h, ok := lookupChild(ctx, pointer.Pointer{"additionalProperties"})
	if !ok {
		return nil, false
	}
	out := &AdditionalPropertiesKeyword{target: h, propertyNames: map[string]bool{}}
	if props, ok := asObject(obj["properties"]); ok {
		for name := range props {
			out.propertyNames[name] = true
		}
	}
	if pp, ok := asObject(obj["patternProperties"]); ok {
		for raw := range pp {
			if re, err := regexp.Compile(raw); err == nil {
				out.patterns = append(out.patterns, re)
			}
		}
	}
	return out, true
}

func (k *AdditionalPropertiesKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	container := output.NewContainer(loc, kwLoc, abs, true)
	inst, ok := asObject(instance)
	if !ok {
		return container, nil
	}
	var invalid []string
	for name, v := range inst {
		if k.propertyNames[name] {
			continue
		}
		matched := false
		for _, re := range k.patterns {
			if re.MatchString(name) {
				matched = true
				break
			}
		}
		if matched {
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
		container.Append(output.NewError(loc, kwLoc, abs, fmt.Sprintf("additional properties %s are not allowed", strings.Join(invalid, ", "))))
	}
	return container, nil
}

var _ keyword.SubschemaDiscoverer = (*AdditionalPropertiesKeyword)(nil)

// PropertyNamesKeyword validates every property name of an object instance,
// treated as a string value, against "propertyNames" (§name-propertynames).
type PropertyNamesKeyword struct{ target keyword.Handle }

func (k *PropertyNamesKeyword) Kind() []string { return []string{"propertyNames"} }

func (k *PropertyNamesKeyword) Subschemas(value any) []pointer.Pointer {
	obj, ok := asObject(value)
	if !ok {
		return nil
	}
	if !isSchemaLike(obj["propertyNames"]) {
		return nil
	}
	return []pointer.Pointer{{"propertyNames"}}
}

func (k *PropertyNamesKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	if !isSchemaLike(obj["propertyNames"]) {
		return nil, false
	}
	h, ok := lookupChild(ctx, pointer.Pointer{"propertyNames"})
	if !ok {
		return nil, false
	}
	return &PropertyNamesKeyword{target: h}, true
}

func (k *PropertyNamesKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	container := output.NewContainer(loc, kwLoc, abs, true)
	inst, ok := asObject(instance)
	if !ok {
		return container, nil
	}
	var invalid []string
	for name := range inst {
		child, err := ctx.EvaluateHandle(k.target, name, pointer.Pointer{name}, pointer.Pointer{name})
		if err != nil {
			return nil, err
		}
		container.Append(child)
		if child != nil && !child.Valid {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		container.Append(output.NewError(loc, kwLoc, abs, fmt.Sprintf("property names %s do not match propertyNames schema", strings.Join(invalid, ", "))))
	}
	return container, nil
}

var _ keyword.SubschemaDiscoverer = (*PropertyNamesKeyword)(nil)
