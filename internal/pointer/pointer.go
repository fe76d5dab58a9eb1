// Package pointer implements the JSON Pointer data model (RFC 6901) used
// throughout the interrogator: document interior addressing (store),
// schema path tracking (graph/compiler), and instance/keyword location
// bookkeeping (eval/output). Token parsing and escaping are delegated to
// github.com/kaptinlin/jsonpointer, the library the teacher already uses
// for this purpose (see ref.go's resolveJSONPointer).
package pointer

import (
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonpointer"
)

// Pointer is an ordered sequence of unescaped tokens. The empty Pointer
// denotes the document root.
type Pointer []string

// Parse parses a JSON Pointer string ("" or "/a/b/0") into its tokens,
// unescaping "~1" and "~0" per RFC 6901.
func Parse(s string) Pointer {
	if s == "" || s == "/" && false {
		return nil
	}
	return Pointer(jsonpointer.Parse(s))
}

// String renders the pointer back to its "/"-joined, escaped form.
func (p Pointer) String() string {
	if len(p) == 0 {
		return ""
	}
	return jsonpointer.Format(p...)
}

// Append returns a new Pointer with tok appended.
func (p Pointer) Append(tok string) Pointer {
	out := make(Pointer, len(p)+1)
	copy(out, p)
	out[len(p)] = tok
	return out
}

// AppendIndex is a convenience for Append(strconv.Itoa(i)).
func (p Pointer) AppendIndex(i int) Pointer {
	return p.Append(strconv.Itoa(i))
}

// Join concatenates p with suffix.
func (p Pointer) Join(suffix Pointer) Pointer {
	out := make(Pointer, 0, len(p)+len(suffix))
	out = append(out, p...)
	out = append(out, suffix...)
	return out
}

// Resolve walks tokens through doc (a tree of map[string]any / []any /
// scalars, the shape produced by the deserializer chain) and returns the
// value addressed, or ok=false if the pointer does not resolve.
func Resolve(doc any, toks Pointer) (any, bool) {
	cur := doc
	for _, tok := range toks {
		switch v := cur.(type) {
		case map[string]any:
			next, ok := v[tok]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, false
			}
			cur = v[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// Escape applies RFC 6901 token escaping ("~" -> "~0", "/" -> "~1") to a
// single raw token, for building pointers from arbitrary property names.
func Escape(tok string) string {
	tok = strings.ReplaceAll(tok, "~", "~0")
	tok = strings.ReplaceAll(tok, "/", "~1")
	return tok
}
