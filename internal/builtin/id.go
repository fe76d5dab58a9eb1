package builtin

import (
	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/uri"
	"github.com/altair-labs/interrogator/output"
)

// IdentifyKeyword discovers a schema resource's declared identifier. Field
// is "$id" for draft-07/2019-09/2020-12 or "id" for draft-04. When the
// declared value carries a fragment, draft-04/07 treat it as a legacy
// plain-name anchor rather than a resource boundary (AllowFragmentAnchor);
// 2019-09+ dialects forbid a fragment in "$id" entirely and simply ignore it
// here, leaving anchor declaration to $anchor/$dynamicAnchor.
type IdentifyKeyword struct {
	Field               string
	AllowFragmentAnchor bool
}

func (k *IdentifyKeyword) Kind() []string { return []string{k.Field} }

func (k *IdentifyKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	if _, ok := obj[k.Field]; !ok {
		return nil, false
	}
	return k, true
}

// Evaluate is a no-op: identification is consumed entirely at compile time.
func (k *IdentifyKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	return nil, nil
}

func (k *IdentifyKeyword) Identify(base *uri.Ref, value any) (*uri.Ref, []*uri.Ref, error) {
	obj, ok := asObject(value)
	if !ok {
		return nil, nil, nil
	}
	raw, ok := asString(obj[k.Field])
	if !ok || raw == "" {
		return nil, nil, nil
	}
	resolved, err := uri.Resolve(base, raw)
	if err != nil {
		return nil, nil, nil
	}
	if _, hasFrag := resolved.Fragment(); hasFrag {
		if k.AllowFragmentAnchor {
			// Legacy "$id": "#name" anchor form — not a resource boundary.
			return nil, nil, nil
		}
		return nil, nil, nil
	}
	return resolved, []*uri.Ref{resolved}, nil
}

// Anchors contributes the legacy fragment-as-anchor form for draft-04/07.
func (k *IdentifyKeyword) Anchors(value any) ([]keyword.Anchor, error) {
	if !k.AllowFragmentAnchor {
		return nil, nil
	}
	obj, ok := asObject(value)
	if !ok {
		return nil, nil
	}
	raw, ok := asString(obj[k.Field])
	if !ok {
		return nil, nil
	}
	u, err := uri.Parse(raw)
	if err != nil {
		return nil, nil
	}
	frag, has := u.Fragment()
	if !has || frag == "" || u.IsPointerFragment() {
		return nil, nil
	}
	return []keyword.Anchor{{Name: frag, Keyword: k.Field}}, nil
}

var (
	_ keyword.Identifier      = (*IdentifyKeyword)(nil)
	_ keyword.AnchorDiscoverer = (*IdentifyKeyword)(nil)
)
