package builtin

import (
	"fmt"

	"github.com/altair-labs/interrogator/internal/format"
	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/output"
)

// FormatsStateKey/AssertFormatStateKey are the GlobalState keys a dialect's
// construction code sets to customize the format registry and the
// annotation-vs-assertion toggle (mirroring the teacher's Compiler.Formats
// and Compiler.AssertFormat fields).
const (
	FormatsStateKey      = "builtin.formats"
	AssertFormatStateKey = "builtin.assertFormat"
)

// DefaultFormats is the registry FormatKeyword falls back to when the
// compiler hasn't installed one via FormatsStateKey.
var DefaultFormats = format.Default

// FormatKeyword implements "format" (§name-format). By default format is an
// annotation only; Assert makes an unrecognized value produce an error —
// the same AssertFormat toggle the teacher exposes on its Compiler.
type FormatKeyword struct {
	name     string
	checker  format.Checker
	known    bool
	assert   bool
}

func (k *FormatKeyword) Kind() []string { return []string{"format"} }

func (k *FormatKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	name, ok := asString(obj["format"])
	if !ok {
		return nil, false
	}
	registry := DefaultFormats
	if v, ok := ctx.GlobalState().Get(FormatsStateKey); ok {
		if r, ok := v.(format.Registry); ok {
			registry = r
		}
	}
	assert, _ := ctx.GlobalState().Get(AssertFormatStateKey)
	chk, known := registry[name]
	return &FormatKeyword{name: name, checker: chk, known: known, assert: assert == true}, true
}

func (k *FormatKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	s, ok := asString(instance)
	if !ok {
		return output.NewAnnotation(loc, kwLoc, abs, k.name), nil
	}
	if !k.known {
		if k.assert {
			return output.NewError(loc, kwLoc, abs, fmt.Sprintf("unknown format '%s'", k.name)), nil
		}
		return output.NewAnnotation(loc, kwLoc, abs, k.name), nil
	}
	if !k.checker(s) {
		if k.assert {
			return output.NewError(loc, kwLoc, abs, fmt.Sprintf("value does not match format '%s'", k.name)), nil
		}
	}
	return output.NewAnnotation(loc, kwLoc, abs, k.name), nil
}

var _ keyword.Keyword = (*FormatKeyword)(nil)
