// Package eval implements the evaluation engine (component G, spec.md
// §4.7): given a compiled handle and an instance, walk the finalized
// keyword list, combine the resulting output.Node tree, and recurse across
// reference edges while maintaining the dynamic scope and evaluated-
// locations bookkeeping that unevaluatedProperties/unevaluatedItems and
// $dynamicRef/$recursiveRef depend on.
package eval

import (
	"fmt"

	"github.com/altair-labs/interrogator/internal/graph"
	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/internal/uri"
	"github.com/altair-labs/interrogator/output"
)

// Engine evaluates instances against schemas compiled into a Graph.
type Engine struct {
	graph *graph.Graph
}

// New returns an Engine bound to g.
func New(g *graph.Graph) *Engine {
	return &Engine{graph: g}
}

// Evaluate runs instance against the schema at h, producing an output tree
// shaped per structure (§4.7 step 6, §4.8).
func (e *Engine) Evaluate(h keyword.Handle, instance any, structure output.Structure) (*output.Node, error) {
	s, err := e.graph.Get(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	ctx := newContext(e.graph, structure)
	ctx.instance = instance
	node, err := e.evalSchema(ctx, s)
	if err != nil {
		return nil, err
	}
	return output.Build(node, structure), nil
}

// evalSchema runs every finalized keyword of s against ctx's current
// instance/location state, combining their outputs into one container node
// (§4.7 steps 1–5).
func (e *Engine) evalSchema(ctx *Context, s *graph.CompiledSchema) (*output.Node, error) {
	savedURI, savedLoc := ctx.resourceURI, ctx.resourceLoc
	ctx.resourceURI = resourceURIOf(s)
	ctx.resourceLoc = nil
	ctx.PushDynamicScope(s.Handle())
	defer func() {
		ctx.PopDynamicScope()
		ctx.resourceURI, ctx.resourceLoc = savedURI, savedLoc
	}()

	root := output.NewContainer(
		ctx.instanceLoc.String(),
		ctx.keywordLoc.String(),
		absString(ctx.AbsoluteKeywordLocation()),
		true,
	)

	valid := true
	for _, kw := range s.Keywords() {
		if ctx.ShouldShortCircuit() {
			break
		}
		names := kw.Kind()
		suffix := pointer.Pointer{}
		if len(names) > 0 {
			suffix = pointer.Pointer{names[0]}
		}
		savedKeywordLoc, savedResourceLoc := ctx.keywordLoc, ctx.resourceLoc
		ctx.keywordLoc = ctx.keywordLoc.Join(suffix)
		ctx.resourceLoc = ctx.resourceLoc.Join(suffix)

		child, err := kw.Evaluate(ctx, ctx.instance)

		ctx.keywordLoc, ctx.resourceLoc = savedKeywordLoc, savedResourceLoc

		if err != nil {
			return nil, err
		}
		if child == nil {
			continue
		}
		root.Append(child)
		if !child.Valid {
			valid = false
			if ctx.structure == output.Flag {
				ctx.shortCircuit = true
			}
		}
	}
	if valid {
		ctx.MarkEvaluated(ctx.instanceLoc)
	} else {
		root.Invalidate()
	}
	return root, nil
}

// EvaluateHandle implements keyword.EvalContext: it recurses into h with
// instancePath/keywordPath appended to the caller's current locations,
// restoring them on return (§4.7 step 3).
func (c *Context) EvaluateHandle(h keyword.Handle, instance any, instancePath, keywordPath pointer.Pointer) (*output.Node, error) {
	s, err := c.g.Get(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}

	savedInstance, savedInstanceLoc, savedKeywordLoc := c.instance, c.instanceLoc, c.keywordLoc
	c.instance = instance
	c.instanceLoc = c.instanceLoc.Join(instancePath)
	c.keywordLoc = c.keywordLoc.Join(keywordPath)

	e := &Engine{graph: c.g}
	node, err := e.evalSchema(c, s)

	c.instance, c.instanceLoc, c.keywordLoc = savedInstance, savedInstanceLoc, savedKeywordLoc
	return node, err
}

func resourceURIOf(s *graph.CompiledSchema) *uri.Ref {
	uris := s.URIs()
	if len(uris) > 0 {
		return uris[0]
	}
	return s.BaseURI()
}

func absString(u *uri.Ref) string {
	if u == nil {
		return ""
	}
	return u.String()
}
