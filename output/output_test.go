package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendFoldsValidity(t *testing.T) {
	root := NewContainer("", "", "", false)
	root.Append(NewAnnotation("/a", "/properties/a", "", "ok"))
	assert.True(t, root.Valid)

	root.Append(NewError("/b", "/properties/b", "", "wrong type"))
	assert.False(t, root.Valid)
	assert.Len(t, root.Children, 2)
}

func TestAppendSplicesTransient(t *testing.T) {
	root := NewContainer("", "", "", false)
	transient := NewContainer("", "/allOf/0", "", true)
	transient.Append(NewError("/x", "/allOf/0/required", "", "missing x"))
	root.Append(transient)

	require.Len(t, root.Children, 1)
	assert.False(t, root.Valid)
	assert.Equal(t, "missing x", root.Children[0].Error)
}

func TestBuildFlag(t *testing.T) {
	root := NewContainer("", "", "", false)
	root.Append(NewError("/a", "/properties/a", "", "bad"))
	got := Build(root, Flag)
	assert.False(t, got.Valid)
	assert.Nil(t, got.Children)
}

func TestBuildBasicFlattens(t *testing.T) {
	root := NewContainer("", "", "", false)
	inner := NewContainer("/a", "/properties/a", "", false)
	inner.Append(NewError("/a/b", "/properties/a/properties/b", "", "bad"))
	root.Append(inner)

	got := Build(root, Basic)
	assert.False(t, got.Valid)
	assert.Len(t, got.Children, 2)
}

func TestBuildDetailedPrunesSuccessful(t *testing.T) {
	root := NewContainer("", "", "", false)
	root.Append(NewAnnotation("/a", "/properties/a", "", "ok"))
	root.Append(NewError("/b", "/properties/b", "", "bad"))

	got := Build(root, Detailed)
	require.Len(t, got.Children, 1)
	assert.Equal(t, "bad", got.Children[0].Error)
}

func TestBuildVerboseKeepsEverything(t *testing.T) {
	root := NewContainer("", "", "", false)
	root.Append(NewAnnotation("/a", "/properties/a", "", "ok"))
	root.Append(NewError("/b", "/properties/b", "", "bad"))

	got := Build(root, Verbose)
	assert.Len(t, got.Children, 2)
}

func TestParseStructure(t *testing.T) {
	assert.Equal(t, Flag, ParseStructure("flag"))
	assert.Equal(t, Detailed, ParseStructure("detailed"))
	assert.Equal(t, Verbose, ParseStructure("verbose"))
	assert.Equal(t, Basic, ParseStructure("nonsense"))
}

func TestCollectWiresValidAndError(t *testing.T) {
	n := NewError("/a", "/properties/a", "https://example.com/schema#/properties/a", "value must be of type string")
	data, err := n.Collect()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"valid":false`)
	assert.Contains(t, string(data), "value must be of type string")
}

func TestDetectShapes(t *testing.T) {
	flag := []byte(`{"valid":false}`)
	shape, err := Detect(flag)
	require.NoError(t, err)
	assert.Equal(t, ShapeFlag, shape)

	basic := []byte(`{"valid":false,"errors":[{"valid":false,"error":"bad"}]}`)
	shape, err = Detect(basic)
	require.NoError(t, err)
	assert.Equal(t, ShapeBasic, shape)

	detailed := []byte(`{"valid":false,"errors":[{"valid":false,"errors":[{"valid":false,"error":"bad"}]}]}`)
	shape, err = Detect(detailed)
	require.NoError(t, err)
	assert.Equal(t, ShapeDetailed, shape)
}
