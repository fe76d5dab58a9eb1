package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altair-labs/interrogator/internal/graph"
	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/pointer"
	"github.com/altair-labs/interrogator/output"
)

func TestTrieMarkAndIsEvaluated(t *testing.T) {
	g := graph.New()
	ctx := newContext(g, output.Basic)

	ctx.MarkEvaluated(pointer.Parse("/properties/a"))
	assert.True(t, ctx.IsEvaluated(pointer.Parse("/properties/a")))
	assert.False(t, ctx.IsEvaluated(pointer.Parse("/properties/b")))
}

func TestTrieEvaluatedChildren(t *testing.T) {
	g := graph.New()
	ctx := newContext(g, output.Basic)

	ctx.MarkEvaluated(pointer.Parse("/a"))
	ctx.MarkEvaluated(pointer.Parse("/b"))

	children := ctx.EvaluatedChildren(nil)
	assert.ElementsMatch(t, []string{"a", "b"}, children)
}

func TestDynamicScopePushPopResolve(t *testing.T) {
	g := graph.New()
	ctx := newContext(g, output.Basic)

	s := g.NewSlot(nil, nil, nil, nil, 0, nil, nil)
	s.SetAnchors([]keyword.Anchor{{Name: "items", Dynamic: true}})

	ctx.PushDynamicScope(s.Handle())
	h, ok := ctx.ResolveDynamicAnchor("items")
	require.True(t, ok)
	assert.Equal(t, s.Handle(), h)

	_, ok = ctx.ResolveDynamicAnchor("missing")
	assert.False(t, ok)

	ctx.PopDynamicScope()
	_, ok = ctx.ResolveDynamicAnchor("items")
	assert.False(t, ok, "popped scope frame must no longer be searched")
}

func TestShouldShortCircuitOnlyUnderFlag(t *testing.T) {
	g := graph.New()
	basic := newContext(g, output.Basic)
	basic.shortCircuit = true
	assert.False(t, basic.ShouldShortCircuit())

	flag := newContext(g, output.Flag)
	assert.False(t, flag.ShouldShortCircuit())
	flag.shortCircuit = true
	assert.True(t, flag.ShouldShortCircuit())
}
