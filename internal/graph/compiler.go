package graph

import (
	"context"
	"fmt"

	"github.com/altair-labs/interrogator/internal/dialect"
	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/internal/store"
	"github.com/altair-labs/interrogator/internal/uri"
)

// pendingRef is carried on a work-queue item that was pushed purely to
// resolve a reference: once the referent finishes compiling, the edge is
// recorded back on the referrer (§4.6 step 11b/e).
type pendingRef struct {
	referrerHandle keyword.Handle
	ref            keyword.Ref
}

// toCompile is one entry in the compiler's work deque (§4.6 "ToCompile").
type toCompile struct {
	handle            *keyword.Handle
	uri               *uri.Ref
	path              pointer.Pointer
	parent            *keyword.Handle
	defaultDialectIdx int
	continueOnErr     bool
	pending           *pendingRef
}

// Compiler drives the graph closure algorithm (component F, §4.6).
type Compiler struct {
	graph    *Graph
	src      *store.Store
	dialects *dialect.Dialects

	validateMetaschema bool
	validator          func(d *dialect.Dialect, value any) error
}

// NewCompiler builds a Compiler over the given graph, source store, and
// dialect registry.
func NewCompiler(g *Graph, src *store.Store, dialects *dialect.Dialects) *Compiler {
	return &Compiler{graph: g, src: src, dialects: dialects}
}

// WithMetaschemaValidation enables the optional self-validation pass (§9
// "Metaschema self-validation"). validate is invoked against the same
// evaluation engine the caller uses for ordinary instances — it lives
// outside this package to avoid a dependency cycle between graph and eval.
func (c *Compiler) WithMetaschemaValidation(validate func(d *dialect.Dialect, value any) error) *Compiler {
	c.validateMetaschema = true
	c.validator = validate
	return c
}

// Compile compiles the root at u and its transitive closure, running
// entirely inside the transaction the caller has already opened (§4.6
// "The compiler runs inside a transaction started by its caller").
func (c *Compiler) Compile(ctx context.Context, u *uri.Ref) (keyword.Handle, error) {
	q := []toCompile{{
		uri:               u,
		defaultDialectIdx: c.dialects.DefaultIndex(),
	}}
	if err := c.run(ctx, q); err != nil {
		return 0, err
	}
	h, ok := c.graph.lookupURI(u)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSchemaNotFound, u.String())
	}
	return h, nil
}

// CompileAll compiles every uri in uris and their transitive closures as a
// single batch (§6 "compile_all", atomic all-or-nothing via the caller's
// transaction).
func (c *Compiler) CompileAll(ctx context.Context, uris []*uri.Ref) ([]keyword.Handle, error) {
	q := make([]toCompile, 0, len(uris))
	for _, u := range uris {
		q = append(q, toCompile{uri: u, defaultDialectIdx: c.dialects.DefaultIndex()})
	}
	if err := c.run(ctx, q); err != nil {
		return nil, err
	}
	out := make([]keyword.Handle, len(uris))
	for i, u := range uris {
		h, ok := c.graph.lookupURI(u)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, u.String())
		}
		out[i] = h
	}
	return out, nil
}

// run pops items front-to-back, pushing to the front when a dependency must
// run before the current item resumes and to the back otherwise (§5
// "Ordering").
func (c *Compiler) run(ctx context.Context, q []toCompile) error {
	for len(q) > 0 {
		item := q[0]
		q = q[1:]

		next, err := c.tick(ctx, item, &q)
		if err != nil {
			if item.continueOnErr {
				if item.handle != nil {
					c.graph.Remove(*item.handle)
				}
				continue
			}
			return err
		}
		if next != nil {
			q = append([]toCompile{*next}, q...)
		}
	}
	return nil
}

// tick performs one pass of the algorithm in §4.6 over item. When it pushes
// dependency work, it puts that work at the front of the deque with item
// re-queued right behind it and returns (nil, nil), as it also does when
// item is now done; a non-nil result is re-queued at the front by run.
func (c *Compiler) tick(ctx context.Context, item toCompile, q *[]toCompile) (*toCompile, error) {
	// Step 1: acquire source.
	_, srcPtr, value, err := c.src.Resolve(ctx, item.uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSchemaNotFound, item.uri.String(), err)
	}
	srcHandle, _, _, _ := c.src.Get(item.uri)

	// Step 2: determine dialect.
	dl, dialectIdx := c.dialects.PertinentTo(value)
	if !dl.IsPertinentTo(value) {
		dl = c.dialects.At(item.defaultDialectIdx)
		dialectIdx = item.defaultDialectIdx
	}

	// Step 3: already compiled under this uri?
	if existing, ok := c.graph.GetByURI(item.uri); ok && existing.Compiled() {
		return nil, nil
	}

	// Step 4: optional metaschema validation.
	if c.validateMetaschema && c.validator != nil {
		if err := c.validator(dl, value); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMetaschemaInvalid, item.uri.String(), err)
		}
	}

	base := item.uri.Base()

	// Step 5: identify.
	primary, allURIs, err := dl.Identify(base, value)
	if err != nil {
		return nil, err
	}

	parent := item.parent
	path := item.path

	// Step 6: branching.
	if primary != nil {
		parent = nil // resource root
	} else if parent == nil && path == nil {
		if frag, has := item.uri.Fragment(); has && item.uri.IsPointerFragment() {
			// Arrived via a direct cross-document $ref to an interior
			// location: compile ancestors root-first, continuing on error.
			// Once the root has compiled, a pointer still unknown here does
			// not address a schema.
			if root, ok := c.graph.GetByURI(base); ok && root.Compiled() {
				return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, item.uri.String())
			}
			ancestors := ancestorURIs(base, pointer.Parse(frag))
			fresh := []toCompile{}
			for i := len(ancestors) - 1; i >= 0; i-- {
				fresh = append(fresh, toCompile{uri: ancestors[i], defaultDialectIdx: item.defaultDialectIdx, continueOnErr: true})
			}
			*q = append(fresh, append([]toCompile{item}, *q...)...)
			return nil, nil
		} else if has {
			// Anchor fragment: compile the root first, then retry. Once the
			// root has compiled, an anchor still unknown here is an error.
			if compiledRoot, ok := c.graph.GetByURI(base); ok && compiledRoot.Compiled() {
				return nil, fmt.Errorf("%w: %s", ErrUnknownAnchor, item.uri.String())
			}
			root := base
			*q = append([]toCompile{{uri: root, defaultDialectIdx: item.defaultDialectIdx}, item}, *q...)
			return nil, nil
		}
	}

	resourceBase := base
	if primary != nil {
		resourceBase = primary
	} else if parent != nil {
		if p, err := c.graph.Get(*parent); err == nil {
			resourceBase = p.baseURI
		}
	}

	// Step 9/10: create the slot now so later items can reference its
	// handle even before finalization completes.
	var s *CompiledSchema
	if item.handle != nil {
		s, err = c.graph.Get(*item.handle)
		if err != nil {
			return nil, err
		}
	} else {
		s = c.graph.NewSlot(path, parent, dl.ID(), resourceBase, srcHandle, srcPtr, value)
		h := s.Handle()
		item.handle = &h
	}
	if primary != nil {
		s.SetID(primary)
	}

	// URI list: this schema's own uri, every identify-discovered uri, and
	// (only when embedded without its own id, per SPEC_FULL.md §9.1) every
	// parent-derived pointer uri.
	s.AddURI(item.uri)
	for _, u := range allURIs {
		s.AddURI(u)
	}
	if primary == nil && parent != nil {
		if p, err := c.graph.Get(*parent); err == nil {
			suffix := path
			if len(p.Path()) <= len(path) {
				suffix = path[len(p.Path()):]
			}
			for _, pu := range p.URIs() {
				if ju := mustJoinPointer(pu, suffix); ju != nil {
					s.AddURI(ju)
				}
			}
		}
	}

	// Step 8: anchors.
	anchors, err := dl.Anchors(value)
	if err != nil {
		return nil, err
	}
	s.SetAnchors(anchors)
	for _, a := range anchors {
		if au, err := s.BaseURI().WithFragment(a.Name); err == nil {
			s.AddURI(au)
		}
	}

	// Step 9: link every uri to the source location.
	for _, u := range s.URIs() {
		_ = c.src.Link(u, store.Link{Handle: srcHandle, Pointer: srcPtr})
	}

	return c.maybeFinalize(ctx, item, s, dl, dialectIdx, q)
}

// maybeFinalize implements §4.6 step 11.
func (c *Compiler) maybeFinalize(ctx context.Context, item toCompile, s *CompiledSchema, dl *dialect.Dialect, dialectIdx int, q *[]toCompile) (*toCompile, error) {
	// 11a: subschema discovery.
	var pushed []toCompile
	for _, sp := range dl.Subschemas(s.Value()) {
		childPath := s.Path().Join(sp)
		already := false
		for _, existingChild := range s.Subschemas() {
			if cs, err := c.graph.Get(existingChild); err == nil && cs.Path().String() == childPath.String() {
				already = true
				break
			}
		}
		if already {
			continue
		}
		childURI, err := s.BaseURI().WithFragment(childPath.String())
		if err != nil {
			return nil, err
		}
		h := s.Handle()
		pushed = append(pushed, toCompile{
			uri:               stripLeadingSlashSlash(childURI),
			path:              childPath,
			parent:            &h,
			defaultDialectIdx: dialectIdx,
		})
	}
	if len(pushed) > 0 {
		*q = append(append(pushed, item), *q...)
		return nil, nil
	}

	// 11b/c: reference discovery.
	var refsPushed []toCompile
	for _, r := range dl.Refs(s.Value()) {
		target, resolved, ok := s.LookupURI(r.Citation)
		if ok {
			_ = c.graph.AddReference(Reference{
				ReferrerHandle:   s.Handle(),
				ReferencedHandle: target,
				Citation:         r.Citation,
				Resolved:         resolved,
				Keyword:          r.Keyword,
				Dynamic:          r.Dynamic,
			})
			continue
		}
		refURI, err := resolveCitation(s.BaseURI(), r.Citation)
		if err != nil {
			return nil, err
		}
		refsPushed = append(refsPushed, toCompile{
			uri:               refURI,
			defaultDialectIdx: dialectIdx,
			pending:           &pendingRef{referrerHandle: s.Handle(), ref: r},
		})
	}
	if len(refsPushed) > 0 {
		*q = append(append(refsPushed, item), *q...)
		return nil, nil
	}

	// 11d: instantiate keyword evaluators.
	var finalized []keyword.Keyword
	for _, template := range dl.Keywords() {
		if kw, ok := template.Setup(s); ok {
			finalized = append(finalized, kw)
		}
	}
	s.Finalize(finalized)

	// 11e: if this item carried a pending ref, record it now.
	if item.pending != nil {
		if err := c.graph.AddReference(Reference{
			ReferrerHandle:   item.pending.referrerHandle,
			ReferencedHandle: s.Handle(),
			Citation:         item.pending.ref.Citation,
			Resolved:         s.BaseURI(),
			Keyword:          item.pending.ref.Keyword,
			Dynamic:          item.pending.ref.Dynamic,
		}); err != nil {
			return nil, err
		}
	}
	if item.parent != nil {
		if p, err := c.graph.Get(*item.parent); err == nil {
			p.AddSubschema(s.Handle())
		}
	}
	return nil, nil
}

// ancestorURIs returns the ancestor URIs of base+frag from the deepest
// pointer upward to the document root, so the compiler can queue them
// root-first (§4.6 step 6).
func ancestorURIs(base *uri.Ref, frag pointer.Pointer) []*uri.Ref {
	var out []*uri.Ref
	for i := len(frag) - 1; i >= 0; i-- {
		u, err := base.WithFragment(frag[:i].String())
		if err == nil {
			out = append(out, u)
		}
	}
	out = append(out, base)
	return out
}

// mustJoinPointer extends parentURI's pointer fragment with suffix. It
// returns nil for an anchor-fragment parent URI, which does not extend with
// a pointer suffix, and when the joined fragment cannot be set.
func mustJoinPointer(parentURI *uri.Ref, suffix pointer.Pointer) *uri.Ref {
	frag, _ := parentURI.Fragment()
	base := frag
	if base != "" && !parentURI.IsPointerFragment() {
		return nil
	}
	joined := pointer.Parse(base).Join(suffix)
	u, err := parentURI.Base().WithFragment(joined.String())
	if err != nil {
		return nil
	}
	return u
}

func stripLeadingSlashSlash(u *uri.Ref) *uri.Ref { return u }
