package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/internal/uri"
)

func mustURI(t *testing.T, s string) *uri.Ref {
	t.Helper()
	u, err := uri.ParseAbsolute(s)
	require.NoError(t, err)
	return u
}

func TestNewSlotAndGet(t *testing.T) {
	g := New()
	base := mustURI(t, "https://example.com/a.json")
	s := g.NewSlot(nil, nil, base, base, 0, nil, map[string]any{"type": "string"})
	require.NotZero(t, s.Handle())

	got, err := g.Get(s.Handle())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = g.Get(s.Handle() + 1000)
	assert.Error(t, err)
}

func TestIndexURIAndGetByURI(t *testing.T) {
	g := New()
	base := mustURI(t, "https://example.com/a.json")
	s := g.NewSlot(nil, nil, base, base, 0, nil, nil)
	s.AddURI(base)

	got, ok := g.GetByURI(base)
	require.True(t, ok)
	assert.Equal(t, s.Handle(), got.Handle())
}

func TestRollbackRestoresPreTransactionState(t *testing.T) {
	g := New()
	base := mustURI(t, "https://example.com/a.json")
	original := g.NewSlot(nil, nil, base, base, 0, nil, nil)
	original.AddURI(base)

	require.NoError(t, g.Begin())

	extra := mustURI(t, "https://example.com/b.json")
	g.NewSlot(nil, nil, extra, extra, 0, nil, nil)

	require.NoError(t, g.Rollback())

	_, ok := g.GetByURI(extra)
	assert.False(t, ok, "schema added during the rolled-back transaction must not survive")

	got, ok := g.GetByURI(base)
	require.True(t, ok)
	assert.Equal(t, original.Handle(), got.Handle())
}

func TestCommitKeepsChanges(t *testing.T) {
	g := New()
	require.NoError(t, g.Begin())
	base := mustURI(t, "https://example.com/a.json")
	s := g.NewSlot(nil, nil, base, base, 0, nil, nil)
	s.AddURI(base)
	require.NoError(t, g.Commit())

	got, ok := g.GetByURI(base)
	require.True(t, ok)
	assert.Equal(t, s.Handle(), got.Handle())
}

func TestBeginTwiceErrors(t *testing.T) {
	g := New()
	require.NoError(t, g.Begin())
	assert.Error(t, g.Begin())
	require.NoError(t, g.Commit())
}

func TestCommitWithoutBeginErrors(t *testing.T) {
	g := New()
	assert.Error(t, g.Commit())
	assert.Error(t, g.Rollback())
}

func TestAddReferenceDetectsCycle(t *testing.T) {
	g := New()
	a := g.NewSlot(nil, nil, nil, nil, 0, nil, nil)
	b := g.NewSlot(nil, nil, nil, nil, 0, nil, nil)

	require.NoError(t, g.AddReference(Reference{ReferrerHandle: a.Handle(), ReferencedHandle: b.Handle()}))
	err := g.AddReference(Reference{ReferrerHandle: b.Handle(), ReferencedHandle: a.Handle()})
	assert.ErrorIs(t, err, ErrCyclicGraph)
}

func TestDependencyWalks(t *testing.T) {
	g := New()
	a := g.NewSlot(nil, nil, nil, nil, 0, nil, nil)
	b := g.NewSlot(nil, nil, nil, nil, 0, nil, nil)
	c := g.NewSlot(nil, nil, nil, nil, 0, nil, nil)

	require.NoError(t, g.AddReference(Reference{ReferrerHandle: a.Handle(), ReferencedHandle: b.Handle()}))
	require.NoError(t, g.AddReference(Reference{ReferrerHandle: b.Handle(), ReferencedHandle: c.Handle()}))

	deps, err := g.TransitiveDependencies(a.Handle())
	require.NoError(t, err)
	assert.Len(t, deps, 2)

	dependents, err := g.AllDependents(c.Handle())
	require.NoError(t, err)
	assert.Len(t, dependents, 2)
}

func TestDescendantsFollowsSubschemaEdges(t *testing.T) {
	g := New()
	parent := g.NewSlot(nil, nil, nil, nil, 0, nil, nil)
	child := g.NewSlot(pointer.Parse("/properties/a"), nil, nil, nil, 0, nil, nil)
	parent.AddSubschema(child.Handle())

	desc, err := g.Descendants(parent.Handle())
	require.NoError(t, err)
	require.Len(t, desc, 1)
	assert.Equal(t, child.Handle(), desc[0].Handle())
}

func TestGlobalStateSetGet(t *testing.T) {
	g := New()
	g.GlobalState().Set("assertFormat", true)
	v, ok := g.GlobalState().Get("assertFormat")
	require.True(t, ok)
	assert.Equal(t, true, v)
}
