package uri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAbsolute(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"absolute http", "http://example.com/schema.json", false},
		{"absolute with path only", "urn:uuid:6e8bc430-9c3a-11d9-9669-0800200c9a66", false},
		{"relative path", "schema.json", true},
		{"fragment bearing", "http://example.com/schema.json#/a/b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAbsolute(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsPointerFragment(t *testing.T) {
	r, err := Parse("http://example.com/schema.json#/definitions/foo")
	require.NoError(t, err)
	assert.True(t, r.IsPointerFragment())

	r, err = Parse("http://example.com/schema.json#foo")
	require.NoError(t, err)
	assert.False(t, r.IsPointerFragment())

	r, err = Parse("http://example.com/schema.json#")
	require.NoError(t, err)
	assert.True(t, r.IsPointerFragment())
}

func TestResolveRelative(t *testing.T) {
	base, err := ParseAbsolute("http://example.com/a/b/schema.json")
	require.NoError(t, err)

	got, err := Resolve(base, "other.json")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/a/b/other.json", got.String())

	got, err = Resolve(base, "/c/d.json")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/c/d.json", got.String())

	got, err = Resolve(base, "#anchor")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/a/b/schema.json#anchor", got.String())
}

func TestResolveDotSegments(t *testing.T) {
	base, err := ParseAbsolute("http://example.com/a/b/schema.json")
	require.NoError(t, err)

	got, err := Resolve(base, "../c.json")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/a/c.json", got.String())
}

func TestEqualRelaxed(t *testing.T) {
	a, err := Parse("https://example.com/schema.json/")
	require.NoError(t, err)
	b, err := Parse("http://example.com/schema.json")
	require.NoError(t, err)
	assert.True(t, Equal(a, b))
}

func TestBaseStripsFragment(t *testing.T) {
	r, err := Parse("http://example.com/schema.json#/x")
	require.NoError(t, err)
	base := r.Base()
	_, hasFrag := base.Fragment()
	assert.False(t, hasFrag)
	assert.Equal(t, "http://example.com/schema.json", base.String())
}

func TestSortURIs(t *testing.T) {
	b, _ := Parse("http://example.com/b.json")
	a, _ := Parse("http://example.com/a.json")
	refs := []*Ref{b, a}
	SortURIs(refs)
	assert.Equal(t, "http://example.com/a.json", refs[0].String())
	assert.Equal(t, "http://example.com/b.json", refs[1].String())
}

func TestURNRoundtrip(t *testing.T) {
	r, err := Parse("urn:example:schema#frag")
	require.NoError(t, err)
	assert.True(t, r.IsURN())
	assert.Equal(t, "example", r.Namespace())
	assert.Equal(t, "urn:example:schema#frag", r.String())
}
