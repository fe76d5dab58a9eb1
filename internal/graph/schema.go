package graph

import (
	"fmt"

	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/internal/store"
	"github.com/altair-labs/interrogator/internal/uri"
)

// Reference is a dependency edge: (referrer, referenced, citation as
// written, fully-resolved absolute uri, originating keyword) — §3
// "Reference".
type Reference struct {
	ReferrerHandle   keyword.Handle
	ReferencedHandle keyword.Handle
	Citation         string
	Resolved         *uri.Ref
	Keyword          string
	Dynamic          bool
}

// CompiledSchema is the core graph node (§3 "Compiled schema").
type CompiledSchema struct {
	handle     keyword.Handle
	g          *Graph
	id         *uri.Ref // declared $id, nil if this schema is not a resource root
	path       pointer.Pointer
	uris       []*uri.Ref
	dialectURI *uri.Ref
	baseURI    *uri.Ref
	parent     *keyword.Handle
	subschemas []keyword.Handle
	refsOut    []Reference
	dependents []keyword.Handle
	anchors    []keyword.Anchor

	sourceHandle  store.Handle
	sourcePointer pointer.Pointer
	value         any

	keywords []keyword.Keyword
	compiled bool
}

// Handle returns the schema's opaque handle.
func (s *CompiledSchema) Handle() keyword.Handle { return s.handle }

// Value returns the raw schema JSON value.
func (s *CompiledSchema) Value() any { return s.value }

// BaseURI returns the base URI used to resolve relative references inside
// this schema.
func (s *CompiledSchema) BaseURI() *uri.Ref { return s.baseURI }

// Path returns the JSON Pointer path from the containing document root.
func (s *CompiledSchema) Path() pointer.Pointer { return s.path }

// URIs returns every URI under which this schema can be addressed.
func (s *CompiledSchema) URIs() []*uri.Ref { return s.uris }

// DialectURI returns the metaschema URI identifying this schema's dialect.
func (s *CompiledSchema) DialectURI() *uri.Ref { return s.dialectURI }

// Parent returns the containing schema's handle, for an embedded subschema
// that declared no id of its own.
func (s *CompiledSchema) Parent() (keyword.Handle, bool) {
	if s.parent == nil {
		return 0, false
	}
	return *s.parent, true
}

// Subschemas returns the handles of embedded (unidentified) subschemas.
func (s *CompiledSchema) Subschemas() []keyword.Handle { return s.subschemas }

// ReferencesOut returns the reference edges this schema declares.
func (s *CompiledSchema) ReferencesOut() []Reference { return s.refsOut }

// Dependents returns the handles of schemas that reference this one.
func (s *CompiledSchema) Dependents() []keyword.Handle { return s.dependents }

// Anchors returns the anchors declared directly inside this schema.
func (s *CompiledSchema) Anchors() []keyword.Anchor { return s.anchors }

// Keywords returns the finalized keyword evaluator list.
func (s *CompiledSchema) Keywords() []keyword.Keyword { return s.keywords }

// Compiled reports whether the second compile pass has completed.
func (s *CompiledSchema) Compiled() bool { return s.compiled }

// SourceLocation returns the owning document handle and interior pointer.
func (s *CompiledSchema) SourceLocation() (store.Handle, pointer.Pointer) {
	return s.sourceHandle, s.sourcePointer
}

// LookupURI resolves citation against this schema's base URI and looks up
// the result in the owning graph's URI index (§4.6 step 11b precondition:
// by Setup time every non-pending reference target already exists).
func (s *CompiledSchema) LookupURI(citation string) (keyword.Handle, *uri.Ref, bool) {
	resolved, err := resolveCitation(s.baseURI, citation)
	if err != nil {
		return 0, nil, false
	}
	h, ok := s.g.lookupURI(resolved)
	return h, resolved, ok
}

func resolveCitation(base *uri.Ref, citation string) (*uri.Ref, error) {
	if base == nil {
		return uri.Parse(citation)
	}
	return uri.Resolve(base, citation)
}

// GlobalState satisfies keyword.CompileContext by exposing the Graph's
// shared global state.
func (s *CompiledSchema) GlobalState() *keyword.GlobalMap { return s.g.global }

var _ keyword.SchemaView = (*CompiledSchema)(nil)
var _ keyword.CompileContext = (*CompiledSchema)(nil)

func (s *CompiledSchema) String() string {
	return fmt.Sprintf("CompiledSchema{handle=%d, path=%s}", s.handle, s.path.String())
}
