package builtin

import (
	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/output"
)

// AnchorKeyword handles "$anchor" (introduced in 2019-09) and "$dynamicAnchor"
// (2020-12), both of which name the current schema resource rather than
// assert anything about an instance.
type AnchorKeyword struct {
	Field   string
	Dynamic bool
}

func (k *AnchorKeyword) Kind() []string { return []string{k.Field} }

func (k *AnchorKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	if _, ok := obj[k.Field]; !ok {
		return nil, false
	}
	return k, true
}

func (k *AnchorKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	return nil, nil
}

func (k *AnchorKeyword) Anchors(value any) ([]keyword.Anchor, error) {
	obj, ok := asObject(value)
	if !ok {
		return nil, nil
	}
	name, ok := asString(obj[k.Field])
	if !ok || name == "" {
		return nil, nil
	}
	return []keyword.Anchor{{Name: name, Keyword: k.Field, Dynamic: k.Dynamic}}, nil
}

var _ keyword.AnchorDiscoverer = (*AnchorKeyword)(nil)

// RecursiveAnchorKeyword handles 2019-09's boolean "$recursiveAnchor": true,
// which marks the current resource as a legacy recursion target under the
// empty-name convention shared with RecursiveRefKeyword (§9 design notes).
type RecursiveAnchorKeyword struct{}

func (k *RecursiveAnchorKeyword) Kind() []string { return []string{"$recursiveAnchor"} }

func (k *RecursiveAnchorKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	v, ok := obj["$recursiveAnchor"].(bool)
	if !ok || !v {
		return nil, false
	}
	return k, true
}

func (k *RecursiveAnchorKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	return nil, nil
}

func (k *RecursiveAnchorKeyword) Anchors(value any) ([]keyword.Anchor, error) {
	obj, ok := asObject(value)
	if !ok {
		return nil, nil
	}
	if v, ok := obj["$recursiveAnchor"].(bool); !ok || !v {
		return nil, nil
	}
	return []keyword.Anchor{{Name: "", Keyword: "$recursiveAnchor", Dynamic: true}}, nil
}

var _ keyword.AnchorDiscoverer = (*RecursiveAnchorKeyword)(nil)
