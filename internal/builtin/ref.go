package builtin

import (
	"fmt"

	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/output"
)

// RefKeyword handles "$ref" (and, for draft-04, the bare-string "$ref" that
// predates $recursiveRef/$dynamicRef). Setup resolves the citation to a
// target handle once, per the compiler's guarantee that non-pending
// reference targets already exist in the graph by the time Setup runs
// (§4.6 step 11b–c).
type RefKeyword struct {
	Field  string
	target keyword.Handle
}

func (k *RefKeyword) Kind() []string { return []string{k.Field} }

func (k *RefKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	citation, ok := asString(obj[k.Field])
	if !ok {
		return nil, false
	}
	h, _, found := ctx.LookupURI(citation)
	if !found {
		return nil, false
	}
	return &RefKeyword{Field: k.Field, target: h}, true
}

func (k *RefKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	node, err := ctx.EvaluateHandle(k.target, instance, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k.Field, err)
	}
	return node, nil
}

func (k *RefKeyword) Refs(value any) []keyword.Ref {
	obj, ok := asObject(value)
	if !ok {
		return nil
	}
	citation, ok := asString(obj[k.Field])
	if !ok {
		return nil
	}
	return []keyword.Ref{{Keyword: k.Field, Citation: citation}}
}

var _ keyword.RefDiscoverer = (*RefKeyword)(nil)
