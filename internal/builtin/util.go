// Package builtin implements the built-in keyword vocabulary shared by the
// four bundled dialects (draft-04, draft-07, 2019-09, 2020-12). Each
// exported type satisfies keyword.Keyword and, where applicable, one of the
// optional capability interfaces (keyword.Identifier, keyword.RefDiscoverer,
// keyword.SubschemaDiscoverer, keyword.AnchorDiscoverer).
package builtin

import (
	"math/big"
	"reflect"

	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/pointer"
)

// lookupChild resolves the handle of the embedded subschema at path,
// relative to ctx's own schema (§4.6 step 11a guarantees subschemas are
// discovered, and therefore already present in the graph, before Setup
// runs for any keyword of the enclosing schema).
func lookupChild(ctx keyword.CompileContext, path pointer.Pointer) (keyword.Handle, bool) {
	h, _, ok := ctx.LookupURI("#" + path.String())
	return h, ok
}

// dataType identifies the JSON Schema primitive type of v, adapted from the
// teacher's getDataType (utils.go) for the go-json-experiment/json decode
// shape (numbers decode to float64).
func dataType(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		bf := new(big.Float).SetFloat64(t)
		if _, acc := bf.Int(nil); acc == big.Exact {
			return "integer"
		}
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

// asNumber extracts a float64 from a decoded JSON number, reporting false
// for anything else.
func asNumber(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

func deepEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// schemaAt resolves a JSON Pointer path inside a decoded schema value.
func schemaAt(value any, path pointer.Pointer) (any, bool) {
	return pointer.Resolve(value, path)
}

// isSchemaLike reports whether v is a valid "schema" per the boolean-
// schema extension (true/false are valid schemas meaning always-pass /
// always-fail) in addition to an object.
func isSchemaLike(v any) bool {
	switch v.(type) {
	case bool, map[string]any:
		return true
	default:
		return false
	}
}
