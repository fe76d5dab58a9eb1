package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAndString(t *testing.T) {
	p := Parse("/a/b~1c/0")
	assert.Equal(t, Pointer{"a", "b/c", "0"}, p)
	assert.Equal(t, "/a/b~1c/0", p.String())
}

func TestParseEmpty(t *testing.T) {
	p := Parse("")
	assert.Empty(t, p)
	assert.Equal(t, "", p.String())
}

func TestAppendAndAppendIndex(t *testing.T) {
	p := Parse("/a")
	p2 := p.Append("b")
	assert.Equal(t, "/a/b", p2.String())

	p3 := p.AppendIndex(2)
	assert.Equal(t, "/a/2", p3.String())

	// original untouched
	assert.Equal(t, "/a", p.String())
}

func TestJoin(t *testing.T) {
	p := Parse("/a").Join(Parse("/b/c"))
	assert.Equal(t, "/a/b/c", p.String())
}

func TestResolve(t *testing.T) {
	doc := map[string]any{
		"a": []any{
			map[string]any{"b": "hello"},
		},
	}
	v, ok := Resolve(doc, Parse("/a/0/b"))
	assert.True(t, ok)
	assert.Equal(t, "hello", v)

	_, ok = Resolve(doc, Parse("/a/5/b"))
	assert.False(t, ok)

	_, ok = Resolve(doc, Parse("/missing"))
	assert.False(t, ok)
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "a~01~1b", Escape("a~1/b"))
}
