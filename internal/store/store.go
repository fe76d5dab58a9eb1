// Package store implements the source repository (component B) and the
// deserializer/resolver chains (component C) from spec.md §4.2–§4.3: a
// content-addressable store of root documents with interior indexing by
// URI and JSON Pointer, guaranteeing at-most-one copy per logical document.
package store

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/internal/uri"
)

// Handle is an opaque, stable reference to an owned document.
type Handle uint64

// Link maps a URI to an interior location within an owned document.
type Link struct {
	Handle  Handle
	Pointer pointer.Pointer
}

// Store is the source repository. It is not safe for concurrent use from
// multiple goroutines without external synchronization beyond what Begin
// provides (§5: single-threaded per interrogator instance).
type Store struct {
	mu            sync.Mutex
	docs          map[Handle]any
	links         map[string]Link
	next          Handle
	deserializers *DeserializerChain
	resolvers     *ResolverChain

	txOpen bool
	snap   *snapshot
}

type snapshot struct {
	docs  map[Handle]any
	links map[string]Link
	next  Handle
}

// New creates an empty Store using the given deserializer and resolver
// chains.
func New(deserializers *DeserializerChain, resolvers *ResolverChain) *Store {
	return &Store{
		docs:          make(map[Handle]any),
		links:         make(map[string]Link),
		deserializers: deserializers,
		resolvers:     resolvers,
	}
}

// Begin opens a transaction, snapshotting the current store state. Only one
// transaction may be open at a time (§5).
func (s *Store) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.txOpen {
		return ErrTransactionOpen
	}
	s.snap = &snapshot{
		docs:  cloneDocs(s.docs),
		links: cloneLinks(s.links),
		next:  s.next,
	}
	s.txOpen = true
	return nil
}

// Commit closes the open transaction, keeping the current state.
func (s *Store) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.txOpen {
		return ErrNoTransaction
	}
	s.txOpen = false
	s.snap = nil
	return nil
}

// Rollback closes the open transaction, restoring the pre-Begin state
// byte-for-byte (§8 invariant 7).
func (s *Store) Rollback() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.txOpen {
		return ErrNoTransaction
	}
	s.docs = s.snap.docs
	s.links = s.snap.links
	s.next = s.snap.next
	s.txOpen = false
	s.snap = nil
	return nil
}

func cloneDocs(m map[Handle]any) map[Handle]any {
	out := make(map[Handle]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneLinks(m map[string]Link) map[string]Link {
	out := make(map[string]Link, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Insert records value as the owned document at the fragment-free uri. If
// the base uri is already linked to a document, the insert succeeds
// idempotently when value is structurally equal to the prior value, else it
// fails with ErrConflictingInsert (§8 invariant 1). If uri itself carries a
// named-anchor fragment, a link for that fragmented form is also created,
// pointing at the new document's root — but a pointer fragment on insert is
// rejected outright (§3, §4.2).
func (s *Store) Insert(u *uri.Ref, value any) (Handle, error) {
	if frag, has := u.Fragment(); has {
		if u.IsPointerFragment() {
			return 0, fmt.Errorf("%w: %s", ErrPointerFragmentOnInsert, u.String())
		}
		_ = frag
	}
	base := u.Base()
	key := base.String()

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.links[key]; ok {
		if reflect.DeepEqual(s.docs[existing.Handle], value) {
			return existing.Handle, nil
		}
		return 0, fmt.Errorf("%w: %s", ErrConflictingInsert, key)
	}

	h := s.next + 1
	s.next = h
	s.docs[h] = value
	s.links[key] = Link{Handle: h, Pointer: nil}

	if frag, has := u.Fragment(); has && frag != "" {
		fragKey := u.String()
		s.links[fragKey] = Link{Handle: h, Pointer: nil}
	}
	return h, nil
}

// Link records that uri addresses the interior location (handle, ptr) of an
// already-owned document. It rejects a pointer that does not resolve inside
// the target document, and rejects a distinct prior link for the same uri;
// it is idempotent when the prior link is identical (§4.2).
func (s *Store) Link(u *uri.Ref, l Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[l.Handle]
	if !ok {
		return fmt.Errorf("%w: unknown handle for link target", ErrUnknownURI)
	}
	if _, ok := pointer.Resolve(doc, l.Pointer); !ok {
		return fmt.Errorf("%w: %s%s", ErrPointerOutOfDocument, u.String(), l.Pointer.String())
	}

	key := u.String()
	if existing, ok := s.links[key]; ok {
		if existing.Handle == l.Handle && existing.Pointer.String() == l.Pointer.String() {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrConflictingLink, key)
	}
	s.links[key] = l
	return nil
}

// Get returns the owned document handle, interior pointer, and resolved
// interior value addressed by uri, without triggering a fetch.
func (s *Store) Get(u *uri.Ref) (Handle, pointer.Pointer, any, error) {
	s.mu.Lock()
	l, ok := s.links[u.String()]
	var doc any
	if ok {
		doc = s.docs[l.Handle]
	}
	s.mu.Unlock()

	if !ok {
		return 0, nil, nil, fmt.Errorf("%w: %s", ErrUnknownURI, u.String())
	}
	v, found := pointer.Resolve(doc, l.Pointer)
	if !found {
		return 0, nil, nil, fmt.Errorf("%w: %s", ErrPointerOutOfDocument, u.String())
	}
	return l.Handle, l.Pointer, v, nil
}

// Indexed reports whether uri is already linked, without fetching.
func (s *Store) Indexed(u *uri.Ref) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.links[u.String()]
	return ok
}

// Resolve returns the indexed (handle, pointer, value) for uri, fetching and
// deserializing via the resolver/deserializer chains and inserting the
// result when uri is not yet indexed (§4.2 "resolve").
func (s *Store) Resolve(ctx context.Context, u *uri.Ref) (Handle, pointer.Pointer, any, error) {
	if s.Indexed(u) {
		return s.Get(u)
	}
	base := u.Base()
	if !s.Indexed(base) {
		data, err := s.resolvers.Resolve(ctx, base.String())
		if err != nil {
			return 0, nil, nil, err
		}
		value, err := s.deserializers.Deserialize(data)
		if err != nil {
			return 0, nil, nil, err
		}
		if _, err := s.Insert(base, value); err != nil {
			return 0, nil, nil, err
		}
	}
	if frag, has := u.Fragment(); has && u.IsPointerFragment() {
		h, _, _, err := s.Get(base)
		if err != nil {
			return 0, nil, nil, err
		}
		toks := pointer.Parse(frag)
		if err := s.Link(u, Link{Handle: h, Pointer: toks}); err != nil {
			return 0, nil, nil, err
		}
	}
	return s.Get(u)
}

// DocumentAt returns the full owned document for handle h.
func (s *Store) DocumentAt(h Handle) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.docs[h]
	return v, ok
}
