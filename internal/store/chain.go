package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-json-experiment/json"
	"github.com/goccy/go-yaml"
	"golang.org/x/sync/errgroup"
)

// Deserializer converts raw bytes into a JSON value tree (map[string]any /
// []any / string / float64 / bool / nil). It returns (nil, false, nil) to
// pass to the next deserializer in the chain, or a non-nil error to abort
// the chain early.
type Deserializer func(data []byte) (any, bool, error)

// DeserializerChain tries each Deserializer in order; the first success
// wins (§4.3). JSON is always present and always first.
type DeserializerChain struct {
	entries []Deserializer
}

// NewDeserializerChain returns a chain with the mandatory JSON deserializer
// already installed, using github.com/go-json-experiment/json per the
// ambient stack (§10).
func NewDeserializerChain() *DeserializerChain {
	c := &DeserializerChain{}
	c.Append(jsonDeserializer)
	return c
}

// Append adds a deserializer to the end of the chain.
func (c *DeserializerChain) Append(d Deserializer) *DeserializerChain {
	c.entries = append(c.entries, d)
	return c
}

// Deserialize runs the chain over data, returning the composite error with
// all per-format failures preserved if every entry passes or fails.
func (c *DeserializerChain) Deserialize(data []byte) (any, error) {
	var errs []error
	for _, d := range c.entries {
		v, ok, err := d(data)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			return v, nil
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrDeserialization, joinErrs(errs))
	}
	return nil, ErrDeserialization
}

func jsonDeserializer(data []byte) (any, bool, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false, fmt.Errorf("json: %w", err)
	}
	return v, true, nil
}

// YAMLDeserializer decodes YAML (a superset of JSON) via
// github.com/goccy/go-yaml, installed as the second entry in the default
// chain (§10 ambient stack).
func YAMLDeserializer(data []byte) (any, bool, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, false, fmt.Errorf("yaml: %w", err)
	}
	return v, true, nil
}

// Resolver fetches the bytes for an absolute base URI. It returns
// (nil, false, nil) to pass to the next resolver, or an error to abort.
type Resolver func(ctx context.Context, uri string) ([]byte, bool, error)

// ResolverChain tries each Resolver in order; the first non-pass wins
// (§4.3).
type ResolverChain struct {
	entries []Resolver
}

// NewResolverChain returns an empty resolver chain; callers register
// loaders (HTTP, filesystem, embedded) via Append.
func NewResolverChain() *ResolverChain {
	return &ResolverChain{}
}

// Append adds a resolver to the end of the chain.
func (c *ResolverChain) Append(r Resolver) *ResolverChain {
	c.entries = append(c.entries, r)
	return c
}

// Resolve runs the chain over uri, returning ErrNotFound if every entry
// passed.
func (c *ResolverChain) Resolve(ctx context.Context, uri string) ([]byte, error) {
	for _, r := range c.entries {
		data, ok, err := r(ctx, uri)
		if err != nil {
			return nil, err
		}
		if ok {
			return data, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, uri)
}

// ResolveMany fetches multiple independent URIs concurrently using
// golang.org/x/sync/errgroup. The compiler does not call it: it resolves
// one URI at a time through Store.Resolve.
func (c *ResolverChain) ResolveMany(ctx context.Context, uris []string) (map[string][]byte, error) {
	results := make(map[string][]byte, len(uris))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, u := range uris {
		g.Go(func() error {
			data, err := c.Resolve(gctx, u)
			if err != nil {
				return err
			}
			mu.Lock()
			results[u] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func joinErrs(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	msg := "multiple deserialization failures:"
	for _, e := range errs {
		msg += " [" + e.Error() + "]"
	}
	return fmt.Errorf("%s", msg)
}
