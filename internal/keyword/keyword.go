// Package keyword defines the extensible keyword boundary (spec.md §6
// "Keyword boundary", component D/F/G glue): the interface by which a
// compiled schema becomes a sequence of keyword evaluators, and the
// optional capabilities (identify, dialect, subschemas, anchors, refs) a
// keyword implementation may provide. Absence of a capability is signaled
// the idiomatic Go way — the keyword simply does not implement the optional
// interface — rather than by a sentinel "unimplemented" return value; the
// dialect registry probes each capability once via a type assertion at
// construction time (§4.4 "these indexes are gathered once").
package keyword

import (
	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/internal/uri"
	"github.com/altair-labs/interrogator/output"
)

// Handle is an opaque, stable key into the schema graph (component E). It
// is defined here, rather than in the graph package, so that keyword
// implementations can recurse into subschemas and follow references
// without the graph package importing keyword (which stores Keyword
// instances and would otherwise cycle back).
type Handle uint64

// Anchor is a named position inside a schema resource, discovered during
// compilation (§3 "Anchor").
type Anchor struct {
	Name       string
	Path       pointer.Pointer
	Keyword    string
	Dynamic    bool // true for $dynamicAnchor / $recursiveAnchor
}

// Ref is a reference citation discovered inside a schema value, before
// resolution (§3 "Reference" — the "as written" half; the compiler fills in
// the resolved absolute form).
type Ref struct {
	Keyword string // originating keyword, e.g. "$ref", "$dynamicRef"
	Path    pointer.Pointer
	Citation string
	Dynamic bool
}

// SchemaView is the read-only facade over a compiled schema (§3 "Compiled
// schema") that Setup and capability probes receive. Concrete
// implementations live in package graph.
type SchemaView interface {
	Handle() Handle
	Value() any
	BaseURI() *uri.Ref
	Path() pointer.Pointer
	URIs() []*uri.Ref
	DialectURI() *uri.Ref
	Parent() (Handle, bool)

	// LookupURI resolves a (possibly relative) reference citation against
	// this schema's base URI and returns the handle of the schema already
	// known under the resolved URI. Per the compiler algorithm (§4.6 step
	// 11b–c), by the time Setup runs every reference citation's target is
	// guaranteed to already be present in the graph.
	LookupURI(citation string) (Handle, *uri.Ref, bool)
}

// CompileContext is passed to Setup: the SchemaView plus compiler-wide
// state. Registries that live above this package (formats, content
// decoders and media types, the assert-format flag) reach keywords through
// GlobalState.
type CompileContext interface {
	SchemaView
	// GlobalState exposes the per-interrogator any-keyed map (§4.6 "global
	// state map") for cross-keyword, cross-schema compile-time state.
	GlobalState() *GlobalMap
}

// EvalContext is passed to Evaluate, carrying the evaluation-time state
// described in §4.7 step 2: instance/keyword locations, the structure, the
// evaluated-locations trie, and the ability to recurse.
type EvalContext interface {
	Instance() any
	InstanceLocation() pointer.Pointer
	KeywordLocation() pointer.Pointer
	AbsoluteKeywordLocation() *uri.Ref
	Structure() output.Structure
	ShouldShortCircuit() bool

	// MarkEvaluated records that instanceLoc (relative to the root
	// instance) was successfully evaluated by the calling applicator (§4.7
	// step 5, the evaluated-locations trie).
	MarkEvaluated(instanceLoc pointer.Pointer)
	// IsEvaluated reports whether instanceLoc has already been marked, for
	// unevaluatedProperties/unevaluatedItems (§9 design notes).
	IsEvaluated(instanceLoc pointer.Pointer) bool

	// EvaluateHandle recurses evaluation into the schema at h against
	// instance, with instancePath/keywordPath appended to the current
	// locations (§4.7 step 3 "recurse into a subschema").
	EvaluateHandle(h Handle, instance any, instancePath, keywordPath pointer.Pointer) (*output.Node, error)

	// PushDynamicScope/PopDynamicScope maintain the dynamic-scope stack used
	// to resolve $dynamicRef/$recursiveRef at evaluation time (§9 Open
	// Question 2). ResolveDynamicAnchor walks the stack outermost-first
	// looking for a frame whose resource declares a matching
	// $dynamicAnchor/$recursiveAnchor.
	PushDynamicScope(h Handle)
	PopDynamicScope()
	ResolveDynamicAnchor(name string) (Handle, bool)

	GlobalState() *GlobalMap
	LocalState() *GlobalMap
}

// GlobalMap is a minimal any-keyed store, used for the compiler's "global
// state map" and the per-evaluation "mutable per-evaluation state" (§4.6,
// §4.7).
type GlobalMap struct {
	values map[string]any
}

// NewGlobalMap returns an empty GlobalMap.
func NewGlobalMap() *GlobalMap { return &GlobalMap{values: make(map[string]any)} }

// Get returns the value stored under key, if any.
func (m *GlobalMap) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key.
func (m *GlobalMap) Set(key string, value any) { m.values[key] = value }

// Keyword is a single plugged-in keyword implementation. Kind identifies
// which JSON field(s) it owns; a composite keyword (e.g. one jointly
// handling "items" and "prefixItems") returns more than one name.
type Keyword interface {
	Kind() []string

	// Setup is invoked at compile time against a clone of the dialect's
	// keyword template. It returns the keyword instance to keep in the
	// schema's finalized list (typically the receiver itself, or a new
	// value capturing schema-specific compiled state such as a regular
	// expression or a resolved reference target) together with true, or
	// (nil, false) when the keyword is inapplicable to this schema — the
	// field is absent, or a sibling keyword supersedes it (§4.6 step 11d).
	Setup(ctx CompileContext) (Keyword, bool)

	// Evaluate is invoked at evaluation time. A nil *output.Node with a nil
	// error means the keyword produced no output (e.g. purely structural
	// bookkeeping); a non-nil error aborts evaluation of the enclosing
	// schema.
	Evaluate(ctx EvalContext, instance any) (*output.Node, error)
}

// Identifier is the optional capability used to discover a schema's
// declared identifier(s) (§4.4 "identify"). The primary keyword is $id
// (2019-09/2020-12) or id (draft-04).
type Identifier interface {
	Identify(base *uri.Ref, value any) (primary *uri.Ref, all []*uri.Ref, err error)
}

// DialectDetector is the optional capability used to decide whether a
// keyword's dialect is pertinent to a given schema value (§4.4
// "is_pertinent_to"), typically by inspecting "$schema".
type DialectDetector interface {
	IsPertinentTo(value any) bool
}

// SubschemaDiscoverer is the optional capability that enumerates embedded
// subschema pointers reachable from value (§4.4 "subschemas").
type SubschemaDiscoverer interface {
	Subschemas(value any) []pointer.Pointer
}

// AnchorDiscoverer is the optional capability that enumerates anchors
// declared directly inside value (§4.4 "anchors").
type AnchorDiscoverer interface {
	Anchors(value any) ([]Anchor, error)
}

// RefDiscoverer is the optional capability that enumerates reference
// citations inside value (§4.4 "refs").
type RefDiscoverer interface {
	Refs(value any) []Ref
}
