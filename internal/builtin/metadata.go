package builtin

import (
	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/output"
)

// MetadataKeyword produces a pure annotation for one of the schema metadata
// fields the teacher's Schema struct carries as plain fields (title,
// description, default, deprecated, readOnly, writeOnly, examples,
// $comment) — here made real evaluation-time annotations so they surface in
// detailed/verbose output the way every other annotation keyword does.
type MetadataKeyword struct {
	field string
	value any
}

func (k *MetadataKeyword) Kind() []string { return []string{k.field} }

func newMetadataKeyword(field string) *MetadataKeyword { return &MetadataKeyword{field: field} }

func (k *MetadataKeyword) Setup(ctx keyword.CompileContext) (keyword.Keyword, bool) {
	obj, ok := asObject(ctx.Value())
	if !ok {
		return nil, false
	}
	v, present := obj[k.field]
	if !present {
		return nil, false
	}
	return &MetadataKeyword{field: k.field, value: v}, true
}

func (k *MetadataKeyword) Evaluate(ctx keyword.EvalContext, instance any) (*output.Node, error) {
	loc, kwLoc, abs := ctx.InstanceLocation().String(), ctx.KeywordLocation().String(), absOf(ctx)
	return output.NewAnnotation(loc, kwLoc, abs, k.value), nil
}

// NewTitleKeyword, NewDescriptionKeyword, ... are the per-field template
// constructors a dialect registers; each is inapplicable (Setup returns
// false) whenever the field is absent from the schema.
func NewTitleKeyword() *MetadataKeyword       { return newMetadataKeyword("title") }
func NewDescriptionKeyword() *MetadataKeyword { return newMetadataKeyword("description") }
func NewDefaultKeyword() *MetadataKeyword     { return newMetadataKeyword("default") }
func NewDeprecatedKeyword() *MetadataKeyword  { return newMetadataKeyword("deprecated") }
func NewReadOnlyKeyword() *MetadataKeyword    { return newMetadataKeyword("readOnly") }
func NewWriteOnlyKeyword() *MetadataKeyword   { return newMetadataKeyword("writeOnly") }
func NewExamplesKeyword() *MetadataKeyword    { return newMetadataKeyword("examples") }
func NewCommentKeyword() *MetadataKeyword     { return newMetadataKeyword("$comment") }

var _ keyword.Keyword = (*MetadataKeyword)(nil)
