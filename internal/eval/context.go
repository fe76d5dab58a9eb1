package eval

import (
	"github.com/altair-labs/interrogator/internal/graph"
	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/internal/uri"
	"github.com/altair-labs/interrogator/output"
)

// trieNode is one level of the evaluated-locations trie (§4.7 step 5, §9
// design notes): a nested map keyed by pointer tokens, write-on-success from
// applicators, read by unevaluatedProperties/unevaluatedItems.
type trieNode struct {
	evaluated bool
	children  map[string]*trieNode
}

func newTrieNode() *trieNode { return &trieNode{children: make(map[string]*trieNode)} }

func (t *trieNode) mark(toks pointer.Pointer) {
	cur := t
	for _, tok := range toks {
		child, ok := cur.children[tok]
		if !ok {
			child = newTrieNode()
			cur.children[tok] = child
		}
		cur = child
	}
	cur.evaluated = true
}

func (t *trieNode) isEvaluated(toks pointer.Pointer) bool {
	cur := t
	for _, tok := range toks {
		child, ok := cur.children[tok]
		if !ok {
			return false
		}
		cur = child
	}
	return cur.evaluated
}

func (t *trieNode) evaluatedChildren(toks pointer.Pointer) []string {
	cur := t
	for _, tok := range toks {
		child, ok := cur.children[tok]
		if !ok {
			return nil
		}
		cur = child
	}
	var out []string
	for k, c := range cur.children {
		if c.evaluated {
			out = append(out, k)
		}
	}
	return out
}

// Context is the per-evaluation-call state threaded through every keyword
// invocation and recursive evaluation (§4.7 step 2). It implements
// keyword.EvalContext.
type Context struct {
	g         *graph.Graph
	structure output.Structure

	instanceLoc pointer.Pointer
	keywordLoc  pointer.Pointer // accumulates across the whole walk, including synthetic "$ref" hops — the teacher's "evaluation path"
	resourceURI *uri.Ref        // current schema resource's own canonical uri
	resourceLoc pointer.Pointer // keyword location relative to the current resource, resets on entering a new CompiledSchema

	instance any

	evaluated *trieNode
	scope     []keyword.Handle

	global *keyword.GlobalMap
	local  *keyword.GlobalMap

	shortCircuit bool
}

func newContext(g *graph.Graph, structure output.Structure) *Context {
	return &Context{
		g:         g,
		structure: structure,
		evaluated: newTrieNode(),
		global:    g.GlobalState(),
		local:     keyword.NewGlobalMap(),
	}
}

// Instance returns the instance value under evaluation at the current
// location.
func (c *Context) Instance() any { return c.instance }

// InstanceLocation returns the current instance location.
func (c *Context) InstanceLocation() pointer.Pointer { return c.instanceLoc }

// KeywordLocation returns the current (cumulative) keyword location.
func (c *Context) KeywordLocation() pointer.Pointer { return c.keywordLoc }

// AbsoluteKeywordLocation returns the current absolute keyword location,
// computed as the current resource's own uri extended by the
// resource-relative suffix accumulated since entering it.
func (c *Context) AbsoluteKeywordLocation() *uri.Ref {
	if c.resourceURI == nil {
		return nil
	}
	if len(c.resourceLoc) == 0 {
		return c.resourceURI
	}
	var base pointer.Pointer
	if c.resourceURI.IsPointerFragment() {
		frag, _ := c.resourceURI.Fragment()
		base = pointer.Parse(frag)
	}
	joined := base.Join(c.resourceLoc)
	u, err := c.resourceURI.WithFragment(joined.String())
	if err != nil {
		return c.resourceURI
	}
	return u
}

// Structure returns the requested output shape.
func (c *Context) Structure() output.Structure { return c.structure }

// ShouldShortCircuit reports whether flag-structure short-circuiting is in
// effect and an error has already been seen (§4.7 "Short-circuit rule").
func (c *Context) ShouldShortCircuit() bool { return c.structure == output.Flag && c.shortCircuit }

// MarkEvaluated records instanceLoc (absolute, from the root instance) as
// evaluated.
func (c *Context) MarkEvaluated(instanceLoc pointer.Pointer) { c.evaluated.mark(instanceLoc) }

// IsEvaluated reports whether instanceLoc has been marked evaluated.
func (c *Context) IsEvaluated(instanceLoc pointer.Pointer) bool {
	return c.evaluated.isEvaluated(instanceLoc)
}

// EvaluatedChildren returns the property/index tokens directly under
// instanceLoc that have been marked evaluated.
func (c *Context) EvaluatedChildren(instanceLoc pointer.Pointer) []string {
	return c.evaluated.evaluatedChildren(instanceLoc)
}

// PushDynamicScope pushes h onto the dynamic scope stack.
func (c *Context) PushDynamicScope(h keyword.Handle) { c.scope = append(c.scope, h) }

// PopDynamicScope pops the most recently pushed handle.
func (c *Context) PopDynamicScope() {
	if len(c.scope) > 0 {
		c.scope = c.scope[:len(c.scope)-1]
	}
}

// ResolveDynamicAnchor walks the dynamic scope outermost-first, returning
// the first frame whose resource declares a matching $dynamicAnchor /
// $recursiveAnchor (§9 Open Question 2).
func (c *Context) ResolveDynamicAnchor(name string) (keyword.Handle, bool) {
	for _, h := range c.scope {
		s, err := c.g.Get(h)
		if err != nil {
			continue
		}
		for _, a := range s.Anchors() {
			if a.Dynamic && a.Name == name {
				return h, true
			}
		}
	}
	return 0, false
}

// GlobalState returns the interrogator-wide state map.
func (c *Context) GlobalState() *keyword.GlobalMap { return c.global }

// LocalState returns the per-evaluation-call mutable state map.
func (c *Context) LocalState() *keyword.GlobalMap { return c.local }

var _ keyword.EvalContext = (*Context)(nil)
