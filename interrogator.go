// Package jsonschema is the public entry point: a fluent builder over the
// source store, schema graph, dialect registry and evaluation engine, in
// the same style as the teacher's Compiler (NewCompiler, WithEncoderJSON,
// SetAssertFormat, RegisterDecoder, ...), generalized from one hard-wired
// dialect to a registry of dialects and from Compiler.schemas to the
// content-addressable store + schema graph described in spec.md §4. The
// package name is unchanged from the teacher's; the module path
// (github.com/altair-labs/interrogator) is what identifies this as the new
// tree, the same way gopkg.in/yaml.v3 ships package yaml.
package jsonschema

import (
	"context"
	"fmt"
	"sync"

	"github.com/altair-labs/interrogator/internal/builtin"
	"github.com/altair-labs/interrogator/internal/dialect"
	"github.com/altair-labs/interrogator/internal/dialects"
	"github.com/altair-labs/interrogator/internal/eval"
	"github.com/altair-labs/interrogator/internal/format"
	"github.com/altair-labs/interrogator/internal/graph"
	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/store"
	"github.com/altair-labs/interrogator/internal/uri"
	"github.com/altair-labs/interrogator/output"
)

// pendingSource is a source document staged via WithSourceValue before the
// store exists to insert it into.
type pendingSource struct {
	uri   *uri.Ref
	value any
}

// Interrogator bundles the source store, schema graph, dialect registry and
// evaluation engine behind a single fluent configuration surface (§10
// "Configuration").
type Interrogator struct {
	mu sync.RWMutex

	customDialects []*dialect.Dialect
	defaultDialect string // id of the dialect to designate primary; "" keeps draft 2020-12

	deserializers *store.DeserializerChain
	resolvers     *store.ResolverChain
	pending       []pendingSource

	assertFormat       bool
	validateMetaschema bool
	formats            format.Registry
	decoders           map[string]builtin.Decoder
	mediaTypes         map[string]builtin.MediaTypeParser

	built    bool
	buildErr error

	src      *store.Store
	g        *graph.Graph
	compiler *graph.Compiler
	engine   *eval.Engine
	dialects *dialect.Dialects
}

// New returns an Interrogator pre-loaded with the four built-in dialects
// (drafts 04, 07, 2019-09 and 2020-12, in increasing-recency order so
// 2020-12 is the default primary, §4.4), a JSON+YAML deserializer chain,
// and the default format/content registries (§12).
func New() *Interrogator {
	return &Interrogator{
		deserializers: store.NewDeserializerChain().Append(store.YAMLDeserializer),
		resolvers:     store.NewResolverChain(),
		formats:       format.Default,
		decoders:      cloneDecoders(builtin.DefaultDecoders),
		mediaTypes:    cloneMediaTypes(builtin.DefaultMediaTypes),
	}
}

func cloneDecoders(m map[string]builtin.Decoder) map[string]builtin.Decoder {
	out := make(map[string]builtin.Decoder, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneMediaTypes(m map[string]builtin.MediaTypeParser) map[string]builtin.MediaTypeParser {
	out := make(map[string]builtin.MediaTypeParser, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// WithDialect registers an additional dialect beyond the four built-ins.
func (it *Interrogator) WithDialect(d *dialect.Dialect) *Interrogator {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.customDialects = append(it.customDialects, d)
	return it
}

// WithDefaultDialect designates the dialect whose id equals id as the
// registry's primary (the dialect used when a schema declares none, §4.4).
func (it *Interrogator) WithDefaultDialect(id string) *Interrogator {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.defaultDialect = id
	return it
}

// WithResolver appends r to the resolver chain (§4.3); callers register
// HTTP, filesystem or embedded-fs loaders here.
func (it *Interrogator) WithResolver(r store.Resolver) *Interrogator {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.resolvers.Append(r)
	return it
}

// WithDeserializer appends d to the deserializer chain (§4.3).
func (it *Interrogator) WithDeserializer(d store.Deserializer) *Interrogator {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.deserializers.Append(d)
	return it
}

// WithSourceValue stages value for insertion as the owned document at uri
// the first time the interrogator is built (first Compile/CompileAll call),
// letting callers hand in already-parsed schema documents instead of routing
// them through the resolver chain (§4.2 "insert").
func (it *Interrogator) WithSourceValue(rawURI string, value any) *Interrogator {
	it.mu.Lock()
	defer it.mu.Unlock()
	u, err := uri.ParseAbsolute(rawURI)
	if err != nil {
		it.buildErr = fmt.Errorf("%w: %s", ErrInvalidSourceURI, rawURI)
		return it
	}
	it.pending = append(it.pending, pendingSource{uri: u, value: value})
	return it
}

// WithAssertFormat toggles whether the format keyword reports an assertion
// failure (rather than a pure annotation) on a mismatch, mirroring the
// teacher's SetAssertFormat.
func (it *Interrogator) WithAssertFormat(assert bool) *Interrogator {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.assertFormat = assert
	return it
}

// WithMetaschemaValidation enables self-validating every compiled schema
// against its dialect's metaschema before its keywords are finalized (§9).
func (it *Interrogator) WithMetaschemaValidation(enabled bool) *Interrogator {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.validateMetaschema = enabled
	return it
}

// WithFormat registers or overrides a named format checker, mirroring the
// teacher's RegisterFormat.
func (it *Interrogator) WithFormat(name string, chk format.Checker) *Interrogator {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.formats = it.formats.With(name, chk)
	return it
}

// WithDecoder registers or overrides a contentEncoding decoder, mirroring
// the teacher's RegisterDecoder.
func (it *Interrogator) WithDecoder(name string, dec builtin.Decoder) *Interrogator {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.decoders[name] = dec
	return it
}

// WithMediaType registers or overrides a contentMediaType parser, mirroring
// the teacher's RegisterMediaType.
func (it *Interrogator) WithMediaType(name string, parser builtin.MediaTypeParser) *Interrogator {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.mediaTypes[name] = parser
	return it
}

// build lazily assembles the store, graph, dialect registry and engine on
// first use, so every With* call can still be applied beforehand.
func (it *Interrogator) build() error {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.built {
		return it.buildErr
	}
	it.built = true
	if it.buildErr != nil {
		return it.buildErr
	}

	builtins, err := builtinDialects()
	if err != nil {
		it.buildErr = err
		return err
	}
	all := append(builtins, it.customDialects...)
	reg, err := dialect.NewDialects(all...)
	if err != nil {
		it.buildErr = err
		return err
	}
	if it.defaultDialect != "" {
		if _, idx, ok := reg.ByID(mustParseURI(it.defaultDialect)); ok {
			reg = reorderPrimary(reg, idx)
		}
	}
	it.dialects = reg

	it.src = store.New(it.deserializers, it.resolvers)
	it.g = graph.New()
	it.g.GlobalState().Set(builtin.FormatsStateKey, it.formats)
	it.g.GlobalState().Set(builtin.AssertFormatStateKey, it.assertFormat)
	it.g.GlobalState().Set(builtin.DecodersStateKey, it.decoders)
	it.g.GlobalState().Set(builtin.MediaTypesStateKey, it.mediaTypes)

	it.compiler = graph.NewCompiler(it.g, it.src, it.dialects)
	it.engine = eval.New(it.g)
	if it.validateMetaschema {
		it.compiler = it.compiler.WithMetaschemaValidation(it.validateSchemaValue)
	}

	for _, dl := range it.dialects.All() {
		for metaURI, value := range dl.Metaschemas() {
			u, err := uri.ParseAbsolute(metaURI)
			if err != nil {
				continue
			}
			_, _ = it.src.Insert(u, value)
		}
	}

	if err := it.src.Begin(); err != nil {
		it.buildErr = err
		return err
	}
	for _, p := range it.pending {
		if _, err := it.src.Insert(p.uri, p.value); err != nil {
			_ = it.src.Rollback()
			it.buildErr = err
			return err
		}
	}
	if err := it.src.Commit(); err != nil {
		it.buildErr = err
		return err
	}
	return nil
}

// validateSchemaValue evaluates value against d's primary metaschema using
// this interrogator's own engine, compiled lazily on first need (§9).
func (it *Interrogator) validateSchemaValue(d *dialect.Dialect, value any) error {
	meta, ok := d.PrimaryMetaschema()
	if !ok {
		return nil
	}
	metaURI, err := uri.ParseAbsolute(d.ID().String())
	if err != nil {
		return err
	}
	h, err := it.compiler.Compile(context.Background(), metaURI)
	if err != nil {
		return err
	}
	node, err := it.engine.Evaluate(h, value, output.Flag)
	if err != nil {
		return err
	}
	if node != nil && !node.Valid {
		return ErrMetaschemaViolation
	}
	return nil
}

func builtinDialects() ([]*dialect.Dialect, error) {
	d202012, err := dialects.Draft202012()
	if err != nil {
		return nil, err
	}
	d201909, err := dialects.Draft201909()
	if err != nil {
		return nil, err
	}
	d07, err := dialects.Draft07()
	if err != nil {
		return nil, err
	}
	d04, err := dialects.Draft04()
	if err != nil {
		return nil, err
	}
	return []*dialect.Dialect{d202012, d201909, d07, d04}, nil
}

func reorderPrimary(reg *dialect.Dialects, idx int) *dialect.Dialects {
	all := reg.All()
	reordered := make([]*dialect.Dialect, 0, len(all))
	reordered = append(reordered, all[idx])
	for i, d := range all {
		if i != idx {
			reordered = append(reordered, d)
		}
	}
	out, err := dialect.NewDialects(reordered...)
	if err != nil {
		return reg
	}
	return out
}

func mustParseURI(s string) *uri.Ref {
	u, err := uri.ParseAbsolute(s)
	if err != nil {
		return &uri.Ref{}
	}
	return u
}

// Compile compiles rawURI and its transitive closure inside a single
// transaction spanning both the source store and the schema graph (§5,
// §4.6), rolling both back together on failure.
func (it *Interrogator) Compile(ctx context.Context, rawURI string) (keyword.Handle, error) {
	if err := it.build(); err != nil {
		return 0, err
	}
	u, err := uri.ParseAbsolute(rawURI)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidSourceURI, rawURI)
	}
	if err := it.beginTx(); err != nil {
		return 0, err
	}
	h, err := it.compiler.Compile(ctx, u)
	if err != nil {
		it.rollbackTx()
		return 0, err
	}
	if err := it.commitTx(); err != nil {
		return 0, err
	}
	return h, nil
}

// CompileAll compiles every uri in rawURIs and their transitive closures as
// one atomic batch (§6 "compile_all").
func (it *Interrogator) CompileAll(ctx context.Context, rawURIs []string) ([]keyword.Handle, error) {
	if err := it.build(); err != nil {
		return nil, err
	}
	uris := make([]*uri.Ref, len(rawURIs))
	for i, s := range rawURIs {
		u, err := uri.ParseAbsolute(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSourceURI, s)
		}
		uris[i] = u
	}
	if err := it.beginTx(); err != nil {
		return nil, err
	}
	hs, err := it.compiler.CompileAll(ctx, uris)
	if err != nil {
		it.rollbackTx()
		return nil, err
	}
	if err := it.commitTx(); err != nil {
		return nil, err
	}
	return hs, nil
}

func (it *Interrogator) beginTx() error {
	if err := it.src.Begin(); err != nil {
		return err
	}
	if err := it.g.Begin(); err != nil {
		_ = it.src.Rollback()
		return err
	}
	return nil
}

func (it *Interrogator) commitTx() error {
	if err := it.g.Commit(); err != nil {
		return err
	}
	return it.src.Commit()
}

func (it *Interrogator) rollbackTx() {
	_ = it.g.Rollback()
	_ = it.src.Rollback()
}

// Evaluate runs instance against the schema compiled at handle h, shaped per
// structure (§4.7, §4.8).
func (it *Interrogator) Evaluate(h keyword.Handle, instance any, structure output.Structure) (*output.Node, error) {
	if err := it.build(); err != nil {
		return nil, err
	}
	return it.engine.Evaluate(h, instance, structure)
}

// Validate is a convenience wrapper: compile rawURI then evaluate instance
// against it with the Flag output shape, returning only the pass/fail bit.
func (it *Interrogator) Validate(ctx context.Context, rawURI string, instance any) (bool, error) {
	h, err := it.Compile(ctx, rawURI)
	if err != nil {
		return false, err
	}
	node, err := it.Evaluate(h, instance, output.Flag)
	if err != nil {
		return false, err
	}
	return node != nil && node.Valid, nil
}

// Graph exposes the underlying schema graph for introspection (dependency
// edges, ancestors/descendants, §12 "evaluated-locations trie API" and
// graph-walk passthroughs).
func (it *Interrogator) Graph() (*graph.Graph, error) {
	if err := it.build(); err != nil {
		return nil, err
	}
	return it.g, nil
}

// Dialects exposes the resolved dialect registry.
func (it *Interrogator) Dialects() (*dialect.Dialects, error) {
	if err := it.build(); err != nil {
		return nil, err
	}
	return it.dialects, nil
}
