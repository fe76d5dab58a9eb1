package jsonschema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altair-labs/interrogator/output"
)

func personSchema() map[string]any {
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"$id":     "https://example.com/person.json",
		"type":    "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"age":  map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []any{"name"},
	}
}

func TestCompileAndEvaluateValid(t *testing.T) {
	it := New().WithSourceValue("https://example.com/person.json", personSchema())

	h, err := it.Compile(context.Background(), "https://example.com/person.json")
	require.NoError(t, err)

	node, err := it.Evaluate(h, map[string]any{"name": "Ada", "age": float64(30)}, output.Flag)
	require.NoError(t, err)
	assert.True(t, node.Valid)
}

func TestCompileAndEvaluateInvalid(t *testing.T) {
	it := New().WithSourceValue("https://example.com/person.json", personSchema())

	h, err := it.Compile(context.Background(), "https://example.com/person.json")
	require.NoError(t, err)

	node, err := it.Evaluate(h, map[string]any{"age": float64(-5)}, output.Basic)
	require.NoError(t, err)
	assert.False(t, node.Valid)
	assert.NotEmpty(t, node.Children)
}

func TestValidateConvenience(t *testing.T) {
	it := New().WithSourceValue("https://example.com/person.json", personSchema())

	ok, err := it.Validate(context.Background(), "https://example.com/person.json", map[string]any{"name": "Grace"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = it.Validate(context.Background(), "https://example.com/person.json", map[string]any{"age": 1})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWithDefaultDialectReorders(t *testing.T) {
	it := New().WithDefaultDialect("http://json-schema.org/draft-07/schema")
	dialects, err := it.Dialects()
	require.NoError(t, err)
	assert.Contains(t, dialects.Primary().ID().String(), "draft-07")
}

func TestWithSourceValueRejectsRelativeURI(t *testing.T) {
	it := New().WithSourceValue("not-absolute", personSchema())
	_, err := it.Compile(context.Background(), "https://example.com/person.json")
	assert.ErrorIs(t, err, ErrInvalidSourceURI)
}

func TestCompileAllIsAtomic(t *testing.T) {
	it := New().
		WithSourceValue("https://example.com/person.json", personSchema()).
		WithSourceValue("https://example.com/other.json", map[string]any{
			"$schema": "https://json-schema.org/draft/2020-12/schema",
			"$id":     "https://example.com/other.json",
			"type":    "string",
		})

	handles, err := it.CompileAll(context.Background(), []string{
		"https://example.com/person.json",
		"https://example.com/other.json",
	})
	require.NoError(t, err)
	assert.Len(t, handles, 2)
}

func TestWithMetaschemaValidationAcceptsValidSchema(t *testing.T) {
	it := New().
		WithMetaschemaValidation(true).
		WithSourceValue("https://example.com/person.json", personSchema())

	_, err := it.Compile(context.Background(), "https://example.com/person.json")
	require.NoError(t, err)
}

func TestWithFormatRegistersCustomChecker(t *testing.T) {
	schema := map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"$id":     "https://example.com/custom-format.json",
		"type":    "string",
		"format":  "always-fail",
	}
	it := New().
		WithAssertFormat(true).
		WithFormat("always-fail", func(string) bool { return false }).
		WithSourceValue("https://example.com/custom-format.json", schema)

	ok, err := it.Validate(context.Background(), "https://example.com/custom-format.json", "anything")
	require.NoError(t, err)
	assert.False(t, ok)
}
