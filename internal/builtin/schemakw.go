package builtin

import (
	"strings"

	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/output"
)

// SchemaDetector implements dialect detection by comparing a schema value's
// declared "$schema" against the dialect's own id, using the relaxed
// http/https and trailing-slash comparison the registry documents.
type SchemaDetector struct {
	DialectID string
}

func (k *SchemaDetector) Kind() []string { return []string{"$schema"} }

func (k *SchemaDetector) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	if _, ok := obj["$schema"]; !ok {
		return nil, false
	}
	return k, true
}

func (k *SchemaDetector) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	return nil, nil
}

func (k *SchemaDetector) IsPertinentTo(value any) bool {
	obj, ok := asObject(value)
	if !ok {
		return false
	}
	declared, ok := asString(obj["$schema"])
	if !ok {
		return false
	}
	return relaxedEqual(declared, k.DialectID)
}

func relaxedEqual(a, b string) bool {
	norm := func(s string) string {
		s = strings.TrimSuffix(s, "#")
		s = strings.TrimSuffix(s, "/")
		s = strings.Replace(s, "https://", "http://", 1)
		return s
	}
	return norm(a) == norm(b)
}

var _ keyword.DialectDetector = (*SchemaDetector)(nil)
