// Package dialect implements the dialect registry (component D, spec.md
// §4.4): a bundle of keyword implementations and metaschema documents
// identified by a dialect URI, plus the precomputed capability indexes used
// to identify, detect, and discover subschemas/anchors/refs in a schema
// value without re-probing every keyword on every call.
package dialect

import (
	"fmt"

	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/internal/uri"
)

// Dialect bundles an identifier, its metaschema documents, an ordered list
// of keyword implementations, and the capability indexes gathered once at
// construction (§4.4).
type Dialect struct {
	id          *uri.Ref
	metaschemas map[string]any // metaschema uri (string form) -> schema value
	keywords    []keyword.Keyword

	identifiers []keyword.Identifier
	detectors   []keyword.DialectDetector
	subschemas  []keyword.SubschemaDiscoverer
	anchors     []keyword.AnchorDiscoverer
	refs        []keyword.RefDiscoverer
}

// New constructs a Dialect. id must carry no fragment. metaschemas must
// include an entry whose key equals id's canonical string form. At least
// one keyword must be Identifier-capable and at least one must be
// DialectDetector-capable, or construction fails (§7).
func New(id *uri.Ref, metaschemas map[string]any, keywords []keyword.Keyword) (*Dialect, error) {
	if _, has := id.Fragment(); has {
		return nil, fmt.Errorf("%w: %s", ErrFragmentInDialectID, id.String())
	}
	d := &Dialect{id: id, metaschemas: metaschemas, keywords: keywords}
	for _, k := range keywords {
		if c, ok := k.(keyword.Identifier); ok {
			d.identifiers = append(d.identifiers, c)
		}
		if c, ok := k.(keyword.DialectDetector); ok {
			d.detectors = append(d.detectors, c)
		}
		if c, ok := k.(keyword.SubschemaDiscoverer); ok {
			d.subschemas = append(d.subschemas, c)
		}
		if c, ok := k.(keyword.AnchorDiscoverer); ok {
			d.anchors = append(d.anchors, c)
		}
		if c, ok := k.(keyword.RefDiscoverer); ok {
			d.refs = append(d.refs, c)
		}
	}
	if len(d.identifiers) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoIdentifyCapableKeyword, id.String())
	}
	if len(d.detectors) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDialectCapableKeyword, id.String())
	}
	return d, nil
}

// ID returns the dialect's identifier URI.
func (d *Dialect) ID() *uri.Ref { return d.id }

// Metaschemas returns the dialect's metaschema documents, keyed by URI.
func (d *Dialect) Metaschemas() map[string]any { return d.metaschemas }

// PrimaryMetaschema returns the metaschema document whose URI equals the
// dialect id, used for metaschema self-validation (§9).
func (d *Dialect) PrimaryMetaschema() (any, bool) {
	v, ok := d.metaschemas[d.id.String()]
	return v, ok
}

// Keywords returns the dialect's ordered keyword templates.
func (d *Dialect) Keywords() []keyword.Keyword { return d.keywords }

// Identify concatenates the results of every identify-capable keyword,
// resolving each against base, and returns the first non-empty primary id
// found along with every discovered URI (§4.4 "identify").
func (d *Dialect) Identify(base *uri.Ref, value any) (*uri.Ref, []*uri.Ref, error) {
	var primary *uri.Ref
	var all []*uri.Ref
	for _, id := range d.identifiers {
		p, uris, err := id.Identify(base, value)
		if err != nil {
			return nil, nil, err
		}
		if primary == nil && p != nil {
			primary = p
		}
		all = append(all, uris...)
	}
	return primary, all, nil
}

// IsPertinentTo reports whether any of this dialect's dialect-detection
// keywords claims value. The comparison of a declared metaschema with the
// dialect id (relaxed per §4.4: http/https, trailing slash,
// empty-vs-missing fragment) is done by those keywords, not here.
func (d *Dialect) IsPertinentTo(value any) bool {
	for _, det := range d.detectors {
		if det.IsPertinentTo(value) {
			return true
		}
	}
	return false
}

// Subschemas returns the union of every subschema-discovery keyword's
// output (§4.4 "subschemas").
func (d *Dialect) Subschemas(value any) []pointer.Pointer {
	seen := make(map[string]struct{})
	var out []pointer.Pointer
	for _, sd := range d.subschemas {
		for _, p := range sd.Subschemas(value) {
			key := p.String()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// Anchors returns the concatenation of every anchor-discovery keyword's
// output, erroring if two anchors within value share a name (§4.4
// "anchors").
func (d *Dialect) Anchors(value any) ([]keyword.Anchor, error) {
	var out []keyword.Anchor
	seen := make(map[string]struct{})
	for _, ad := range d.anchors {
		found, err := ad.Anchors(value)
		if err != nil {
			return nil, err
		}
		for _, a := range found {
			if _, ok := seen[a.Name]; ok {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateAnchor, a.Name)
			}
			seen[a.Name] = struct{}{}
			out = append(out, a)
		}
	}
	return out, nil
}

// Refs returns the concatenation of every ref-discovery keyword's output
// (§4.4 "refs").
func (d *Dialect) Refs(value any) []keyword.Ref {
	var out []keyword.Ref
	for _, rd := range d.refs {
		out = append(out, rd.Refs(value)...)
	}
	return out
}
