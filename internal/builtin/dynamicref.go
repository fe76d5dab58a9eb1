package builtin

import (
	"fmt"
	"strings"

	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/output"
)

// DynamicRefKeyword handles 2020-12's "$dynamicRef". Setup resolves the
// citation statically, exactly like $ref, to use as the fallback target
// when no enclosing dynamic scope frame declares a matching $dynamicAnchor
// (§9 Open Question 2: "fallback to static $ref").
type DynamicRefKeyword struct {
	anchorName   string
	staticTarget keyword.Handle
}

func (k *DynamicRefKeyword) Kind() []string { return []string{"$dynamicRef"} }

func (k *DynamicRefKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	citation, ok := asString(obj["$dynamicRef"])
	if !ok {
		return nil, false
	}
	h, resolved, found := ctx.LookupURI(citation)
	if !found {
		return nil, false
	}
	name := citation
	if i := strings.IndexByte(citation, '#'); i >= 0 {
		name = citation[i+1:]
	}
	_ = resolved
	return &DynamicRefKeyword{anchorName: name, staticTarget: h}, true
}

func (k *DynamicRefKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	target := k.staticTarget
	if h, ok := ctx.ResolveDynamicAnchor(k.anchorName); ok {
		target = h
	}
	node, err := ctx.EvaluateHandle(target, instance, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("$dynamicRef: %w", err)
	}
	return node, nil
}

func (k *DynamicRefKeyword) Refs(value any) []keyword.Ref {
	obj, ok := asObject(value)
	if !ok {
		return nil
	}
	citation, ok := asString(obj["$dynamicRef"])
	if !ok {
		return nil
	}
	return []keyword.Ref{{Keyword: "$dynamicRef", Citation: citation, Dynamic: true}}
}

var _ keyword.RefDiscoverer = (*DynamicRefKeyword)(nil)

// RecursiveRefKeyword handles 2019-09's "$recursiveRef", which in practice
// is always "#". It resolves statically like $ref, but at evaluation time
// prefers the outermost dynamic-scope frame carrying $recursiveAnchor: true,
// addressed via the shared empty-name convention (§9 design notes).
type RecursiveRefKeyword struct {
	staticTarget keyword.Handle
}

func (k *RecursiveRefKeyword) Kind() []string { return []string{"$recursiveRef"} }

func (k *RecursiveRefKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	citation, ok := asString(obj["$recursiveRef"])
	if !ok {
		return nil, false
	}
	h, _, found := ctx.LookupURI(citation)
	if !found {
		return nil, false
	}
	return &RecursiveRefKeyword{staticTarget: h}, true
}

func (k *RecursiveRefKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	target := k.staticTarget
	if h, ok := ctx.ResolveDynamicAnchor(""); ok {
		target = h
	}
	node, err := ctx.EvaluateHandle(target, instance, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("$recursiveRef: %w", err)
	}
	return node, nil
}

func (k *RecursiveRefKeyword) Refs(value any) []keyword.Ref {
	obj, ok := asObject(value)
	if !ok {
		return nil
	}
	citation, ok := asString(obj["$recursiveRef"])
	if !ok {
		return nil
	}
	return []keyword.Ref{{Keyword: "$recursiveRef", Citation: citation, Dynamic: true}}
}

var _ keyword.RefDiscoverer = (*RecursiveRefKeyword)(nil)
