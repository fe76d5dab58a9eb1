// Package graph implements the schema graph (component E, spec.md §4.5)
// and the compiler that populates it (component F, §4.6): a slot-keyed map
// from stable opaque handle to compiled schema, plus a URI index, parent/
// child/dependency edges, and reference resolution.
package graph

import (
	"sync"

	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/internal/store"
	"github.com/altair-labs/interrogator/internal/uri"
)

// Graph is the schema store (§3 "Schema store"). Handles never collide,
// never reuse within a live session.
type Graph struct {
	mu     sync.Mutex
	slots  map[keyword.Handle]*CompiledSchema
	byURI  map[string]keyword.Handle
	next   keyword.Handle
	global *keyword.GlobalMap

	txOpen bool
	snap   *graphSnapshot
}

type graphSnapshot struct {
	slots map[keyword.Handle]*CompiledSchema
	byURI map[string]keyword.Handle
	next  keyword.Handle
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		slots:  make(map[keyword.Handle]*CompiledSchema),
		byURI:  make(map[string]keyword.Handle),
		global: keyword.NewGlobalMap(),
	}
}

// Begin opens a transaction over the graph (§5).
func (g *Graph) Begin() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.txOpen {
		return ErrTransactionOpen
	}
	g.snap = &graphSnapshot{
		slots: cloneSlots(g.slots),
		byURI: cloneURIIndex(g.byURI),
		next:  g.next,
	}
	g.txOpen = true
	return nil
}

// Commit closes the open transaction, keeping the current state.
func (g *Graph) Commit() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.txOpen {
		return ErrNoTransaction
	}
	g.txOpen = false
	g.snap = nil
	return nil
}

// Rollback closes the open transaction, restoring the pre-Begin state.
func (g *Graph) Rollback() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.txOpen {
		return ErrNoTransaction
	}
	g.slots = g.snap.slots
	g.byURI = g.snap.byURI
	g.next = g.snap.next
	g.txOpen = false
	g.snap = nil
	return nil
}

func cloneSlots(m map[keyword.Handle]*CompiledSchema) map[keyword.Handle]*CompiledSchema {
	out := make(map[keyword.Handle]*CompiledSchema, len(m))
	for k, v := range m {
		// Copy each record so edges and URIs appended to an existing
		// schema during the transaction do not survive a rollback; the
		// record's slices only ever grow, so a struct copy suffices.
		cp := *v
		out[k] = &cp
	}
	return out
}

func cloneURIIndex(m map[string]keyword.Handle) map[string]keyword.Handle {
	out := make(map[string]keyword.Handle, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Get returns the compiled schema view for handle.
func (g *Graph) Get(h keyword.Handle) (*CompiledSchema, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.slots[h]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return s, nil
}

// GetByURI returns the compiled schema addressed by u, if indexed.
func (g *Graph) GetByURI(u *uri.Ref) (*CompiledSchema, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	h, ok := g.byURI[u.String()]
	if !ok {
		return nil, false
	}
	return g.slots[h], true
}

func (g *Graph) lookupURI(u *uri.Ref) (keyword.Handle, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	h, ok := g.byURI[u.String()]
	return h, ok
}

// NewSlot creates a placeholder compiled-schema record (keyword list empty,
// compiled=false), exposing its handle immediately so later work-queue
// items can reference it before the second pass finishes (§4.6 step 10).
func (g *Graph) NewSlot(path pointer.Pointer, parent *keyword.Handle, dialectURI, baseURI *uri.Ref, srcHandle store.Handle, srcPointer pointer.Pointer, value any) *CompiledSchema {
	g.mu.Lock()
	defer g.mu.Unlock()
	h := g.next + 1
	g.next = h
	s := &CompiledSchema{
		handle:        h,
		g:             g,
		path:          path,
		parent:        parent,
		dialectURI:    dialectURI,
		baseURI:       baseURI,
		sourceHandle:  srcHandle,
		sourcePointer: srcPointer,
		value:         value,
	}
	g.slots[h] = s
	return s
}

// IndexURI adds uri to the index, pointing at h. It is safe to call
// repeatedly with the same (uri, h) pair.
func (g *Graph) IndexURI(u *uri.Ref, h keyword.Handle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.byURI[u.String()] = h
}

// SetID records the declared identifier (resource-root marker) for s.
func (s *CompiledSchema) SetID(id *uri.Ref) { s.id = id }

// ID returns the declared identifier, if s is a resource root.
func (s *CompiledSchema) ID() (*uri.Ref, bool) {
	if s.id == nil {
		return nil, false
	}
	return s.id, true
}

// AddURI appends u to s's URI list if not already present, and indexes it.
func (s *CompiledSchema) AddURI(u *uri.Ref) {
	for _, existing := range s.uris {
		if existing.String() == u.String() {
			return
		}
	}
	s.uris = append(s.uris, u)
	s.g.IndexURI(u, s.handle)
}

// AddSubschema records an embedded (unidentified) subschema handle.
func (s *CompiledSchema) AddSubschema(h keyword.Handle) { s.subschemas = append(s.subschemas, h) }

// SetAnchors records the anchors discovered directly inside s.
func (s *CompiledSchema) SetAnchors(anchors []keyword.Anchor) { s.anchors = anchors }

// Finalize records the finalized keyword list and marks s compiled.
func (s *CompiledSchema) Finalize(keywords []keyword.Keyword) {
	s.keywords = keywords
	s.compiled = true
}

// Remove deletes a partial record, used when an ancestor probe fails
// (§4.6 "continue-on-err").
func (g *Graph) Remove(h keyword.Handle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.slots, h)
	for u, hh := range g.byURI {
		if hh == h {
			delete(g.byURI, u)
		}
	}
}

// AddReference appends a reference edge from referrer to referenced, first
// checking that doing so would not create a cycle (§4.5 "add_reference",
// §8 invariant 2).
func (g *Graph) AddReference(ref Reference) error {
	cycle, err := g.transitiveDependenciesContains(ref.ReferencedHandle, ref.ReferrerHandle)
	if err != nil {
		return err
	}
	if cycle {
		return ErrCyclicGraph
	}
	referrer, err := g.Get(ref.ReferrerHandle)
	if err != nil {
		return err
	}
	referenced, err := g.Get(ref.ReferencedHandle)
	if err != nil {
		return err
	}
	referrer.refsOut = append(referrer.refsOut, ref)
	referenced.dependents = append(referenced.dependents, ref.ReferrerHandle)
	return nil
}

// AddDependent unconditionally appends referrer to referenced's dependents,
// without a cycle check (§4.5 "add_dependent").
func (g *Graph) AddDependent(referenced, referrer keyword.Handle) error {
	s, err := g.Get(referenced)
	if err != nil {
		return err
	}
	s.dependents = append(s.dependents, referrer)
	return nil
}

// DirectDependencies returns the schemas h directly references.
func (g *Graph) DirectDependencies(h keyword.Handle) ([]*CompiledSchema, error) {
	s, err := g.Get(h)
	if err != nil {
		return nil, err
	}
	var out []*CompiledSchema
	for _, r := range s.refsOut {
		dep, err := g.Get(r.ReferencedHandle)
		if err != nil {
			return nil, err
		}
		out = append(out, dep)
	}
	return out, nil
}

// DirectDependents returns the schemas that directly reference h.
func (g *Graph) DirectDependents(h keyword.Handle) ([]*CompiledSchema, error) {
	s, err := g.Get(h)
	if err != nil {
		return nil, err
	}
	var out []*CompiledSchema
	for _, d := range s.dependents {
		dep, err := g.Get(d)
		if err != nil {
			return nil, err
		}
		out = append(out, dep)
	}
	return out, nil
}

// TransitiveDependencies depth-first walks h's reference edges, yielding
// every schema reachable (excluding h itself).
func (g *Graph) TransitiveDependencies(h keyword.Handle) ([]*CompiledSchema, error) {
	visited := map[keyword.Handle]bool{h: true}
	var out []*CompiledSchema
	var walk func(keyword.Handle) error
	walk = func(cur keyword.Handle) error {
		s, err := g.Get(cur)
		if err != nil {
			return err
		}
		for _, r := range s.refsOut {
			if visited[r.ReferencedHandle] {
				continue
			}
			visited[r.ReferencedHandle] = true
			dep, err := g.Get(r.ReferencedHandle)
			if err != nil {
				return err
			}
			out = append(out, dep)
			if err := walk(r.ReferencedHandle); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(h); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Graph) transitiveDependenciesContains(from, target keyword.Handle) (bool, error) {
	deps, err := g.TransitiveDependencies(from)
	if err != nil {
		// from may not exist yet for a brand-new referent; treat as no cycle.
		return false, nil
	}
	for _, d := range deps {
		if d.handle == target {
			return true, nil
		}
	}
	return false, nil
}

// AllDependents depth-first walks h's dependent edges, yielding every
// schema that transitively depends on h.
func (g *Graph) AllDependents(h keyword.Handle) ([]*CompiledSchema, error) {
	visited := map[keyword.Handle]bool{h: true}
	var out []*CompiledSchema
	var walk func(keyword.Handle) error
	walk = func(cur keyword.Handle) error {
		s, err := g.Get(cur)
		if err != nil {
			return err
		}
		for _, d := range s.dependents {
			if visited[d] {
				continue
			}
			visited[d] = true
			dep, err := g.Get(d)
			if err != nil {
				return err
			}
			out = append(out, dep)
			if err := walk(d); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(h); err != nil {
		return nil, err
	}
	return out, nil
}

// Ancestors follows parent pointers, stopping at any identified schema
// boundary (a resource root never has a parent, by the Open-Question
// decision in SPEC_FULL.md §9.1).
func (g *Graph) Ancestors(h keyword.Handle) ([]*CompiledSchema, error) {
	var out []*CompiledSchema
	cur, err := g.Get(h)
	if err != nil {
		return nil, err
	}
	for {
		parent, ok := cur.Parent()
		if !ok {
			break
		}
		p, err := g.Get(parent)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
		cur = p
	}
	return out, nil
}

// Descendants depth-first walks h's embedded-subschema edges.
func (g *Graph) Descendants(h keyword.Handle) ([]*CompiledSchema, error) {
	var out []*CompiledSchema
	var walk func(keyword.Handle) error
	walk = func(cur keyword.Handle) error {
		s, err := g.Get(cur)
		if err != nil {
			return err
		}
		for _, c := range s.subschemas {
			child, err := g.Get(c)
			if err != nil {
				return err
			}
			out = append(out, child)
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(h); err != nil {
		return nil, err
	}
	return out, nil
}

// GlobalState returns the graph's shared any-keyed state map (§4.6).
func (g *Graph) GlobalState() *keyword.GlobalMap { return g.global }
