package dialect

import (
	"fmt"

	"github.com/altair-labs/interrogator/internal/uri"
)

// Dialects is an ordered registry of dialects with a designated primary
// (§4.4 "The registry (Dialects) holds an ordered list and a designated
// primary").
type Dialects struct {
	list       []*Dialect
	primaryIdx int
}

// NewDialects builds a registry from dialects, designating the first as
// primary. It forbids duplicate ids (§4.4, §7).
func NewDialects(dialects ...*Dialect) (*Dialects, error) {
	seen := make(map[string]struct{}, len(dialects))
	for _, d := range dialects {
		key := d.ID().String()
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDialect, key)
		}
		seen[key] = struct{}{}
	}
	return &Dialects{list: dialects, primaryIdx: 0}, nil
}

// DefaultIndex returns the index of the primary (default) dialect.
func (d *Dialects) DefaultIndex() int { return d.primaryIdx }

// Primary returns the designated default dialect.
func (d *Dialects) Primary() *Dialect { return d.list[d.primaryIdx] }

// At returns the dialect at idx.
func (d *Dialects) At(idx int) *Dialect { return d.list[idx] }

// ByID returns the dialect registered under id, its index, and whether it
// was found, using the relaxed comparison §4.4 describes for detection.
func (d *Dialects) ByID(id *uri.Ref) (*Dialect, int, bool) {
	for i, dl := range d.list {
		if uri.Equal(dl.ID(), id) {
			return dl, i, true
		}
	}
	return nil, -1, false
}

// PertinentTo returns the first dialect whose predicate accepts value,
// falling back to the primary dialect when none does (§4.4
// "pertinent_to").
func (d *Dialects) PertinentTo(value any) (*Dialect, int) {
	for i, dl := range d.list {
		if dl.IsPertinentTo(value) {
			return dl, i
		}
	}
	return d.Primary(), d.primaryIdx
}

// All returns every registered dialect, in registration order.
func (d *Dialects) All() []*Dialect { return d.list }
