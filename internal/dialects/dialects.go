// Package dialects assembles the four built-in dialect.Dialect values
// (drafts 04, 07, 2019-09, 2020-12) from internal/builtin's keyword
// implementations, grounded in the teacher's per-keyword files
// (type.go, properties.go, items.go, allOf.go, ...) and, for the
// draft-specific differences the teacher's single-dialect design doesn't
// need to express, in
// original_source/src/draft/draft_{04,07,2019_09,2020_12}.rs.
package dialects

import (
	"fmt"

	"github.com/altair-labs/interrogator/internal/builtin"
	"github.com/altair-labs/interrogator/internal/dialect"
	"github.com/altair-labs/interrogator/internal/keyword"
	"github.com/altair-labs/interrogator/internal/uri"
)

func mustURI(s string) *uri.Ref {
	u, err := uri.ParseAbsolute(s)
	if err != nil {
		panic(fmt.Sprintf("dialects: invalid built-in dialect id %q: %s", s, err))
	}
	return u
}

// sharedAssertions lists the keywords identical in name and semantics across
// all four drafts. additionalProperties reads its sibling
// properties/patternProperties from the schema value, so its position here
// does not matter; drafts that also carry
// unevaluatedProperties/unevaluatedItems append those last of all, after
// every other applicator has had a chance to mark locations.
func sharedAssertions() []keyword.Keyword {
	return []keyword.Keyword{
		builtin.NewCommentKeyword(),
		&builtin.TypeKeyword{},
		&builtin.EnumKeyword{},
		&builtin.ConstKeyword{},
		builtin.NewMultipleOf(),
		builtin.NewMinItems(), builtin.NewMaxItems(),
		builtin.NewMinProperties(), builtin.NewMaxProperties(),
		builtin.NewMinLength(), builtin.NewMaxLength(),
		&builtin.PatternKeyword{},
		&builtin.UniqueItemsKeyword{},
		&builtin.RequiredKeyword{},
		&builtin.PropertiesKeyword{},
		&builtin.PatternPropertiesKeyword{},
		&builtin.PropertyNamesKeyword{},
		&builtin.AllOfKeyword{},
		&builtin.AnyOfKeyword{},
		&builtin.OneOfKeyword{},
		&builtin.NotKeyword{},
		&builtin.FormatKeyword{},
		&builtin.ContentKeyword{},
		builtin.NewTitleKeyword(), builtin.NewDescriptionKeyword(),
		builtin.NewDefaultKeyword(), builtin.NewDeprecatedKeyword(),
		builtin.NewReadOnlyKeyword(), builtin.NewWriteOnlyKeyword(),
		builtin.NewExamplesKeyword(),
	}
}

func minimalMetaschema(id string) any {
	return map[string]any{
		"$id":         id,
		"$schema":     id,
		"title":       "Built-in metaschema",
		"type":        []any{"object", "boolean"},
	}
}

// Draft202012 is the "https://json-schema.org/draft/2020-12/schema" dialect.
func Draft202012() (*dialect.Dialect, error) {
	const id = "https://json-schema.org/draft/2020-12/schema"
	kws := []keyword.Keyword{
		&builtin.IdentifyKeyword{Field: "$id"},
		&builtin.SchemaDetector{DialectID: id},
		&builtin.AnchorKeyword{Field: "$anchor"},
		&builtin.AnchorKeyword{Field: "$dynamicAnchor", Dynamic: true},
		&builtin.RefKeyword{Field: "$ref"},
		&builtin.DynamicRefKeyword{},
		&builtin.DefsKeyword{Field: "$defs"},
	}
	kws = append(kws, sharedAssertions()...)
	kws = append(kws,
		builtin.NewMinimum(), builtin.NewMaximum(),
		builtin.NewExclusiveMinimum(), builtin.NewExclusiveMaximum(),
		&builtin.DependentRequiredKeyword{},
		&builtin.DependentSchemasKeyword{},
		&builtin.ConditionalKeyword{},
		&builtin.PrefixItemsKeyword{},
		&builtin.ItemsKeyword{},
		&builtin.ContainsKeyword{},
		&builtin.AdditionalPropertiesKeyword{},
		&builtin.UnevaluatedItemsKeyword{},
		&builtin.UnevaluatedPropertiesKeyword{},
	)
	return dialect.New(mustURI(id), map[string]any{id: minimalMetaschema(id)}, kws)
}

// Draft201909 is the "https://json-schema.org/draft/2019-09/schema" dialect.
func Draft201909() (*dialect.Dialect, error) {
	const id = "https://json-schema.org/draft/2019-09/schema"
	kws := []keyword.Keyword{
		&builtin.IdentifyKeyword{Field: "$id"},
		&builtin.SchemaDetector{DialectID: id},
		&builtin.AnchorKeyword{Field: "$anchor"},
		&builtin.RecursiveAnchorKeyword{},
		&builtin.RefKeyword{Field: "$ref"},
		&builtin.RecursiveRefKeyword{},
		&builtin.DefsKeyword{Field: "$defs"},
	}
	kws = append(kws, sharedAssertions()...)
	kws = append(kws,
		builtin.NewMinimum(), builtin.NewMaximum(),
		builtin.NewExclusiveMinimum(), builtin.NewExclusiveMaximum(),
		&builtin.DependentRequiredKeyword{},
		&builtin.DependentSchemasKeyword{},
		&builtin.ConditionalKeyword{},
		&builtin.LegacyItemsKeyword{}, // tuple array form, draft-07 holdover still legal until 2020-12
		&builtin.ItemsKeyword{},       // single-schema form
		&builtin.ContainsKeyword{},
		&builtin.AdditionalPropertiesKeyword{},
		&builtin.UnevaluatedItemsKeyword{},
		&builtin.UnevaluatedPropertiesKeyword{},
	)
	return dialect.New(mustURI(id), map[string]any{id: minimalMetaschema(id)}, kws)
}

// Draft07 is the "http://json-schema.org/draft-07/schema" dialect (its
// conventional "$schema" value carries a trailing "#", stripped here since
// a dialect id may carry no fragment; SchemaDetector's relaxed comparison
// still matches schemas that declare the "#"-suffixed form).
func Draft07() (*dialect.Dialect, error) {
	const id = "http://json-schema.org/draft-07/schema"
	kws := []keyword.Keyword{
		&builtin.IdentifyKeyword{Field: "$id", AllowFragmentAnchor: true}, // draft-07 has no $anchor; legacy fragment anchors come from $id
		&builtin.SchemaDetector{DialectID: id},
		&builtin.RefKeyword{Field: "$ref"},
		&builtin.DefsKeyword{Field: "definitions"},
	}
	kws = append(kws, sharedAssertions()...)
	kws = append(kws,
		builtin.NewMinimum(), builtin.NewMaximum(),
		builtin.NewExclusiveMinimum(), builtin.NewExclusiveMaximum(),
		&builtin.LegacyDependenciesKeyword{},
		&builtin.ConditionalKeyword{},
		&builtin.LegacyItemsKeyword{},
		&builtin.ItemsKeyword{},
		&builtin.AdditionalPropertiesKeyword{},
	)
	return dialect.New(mustURI(id), map[string]any{id: minimalMetaschema(id)}, kws)
}

// Draft04 is the "http://json-schema.org/draft-04/schema" dialect: "id"
// instead of "$id", boolean exclusiveMinimum/Maximum modifying a sibling
// minimum/maximum, "dependencies" instead of dependentRequired/Schemas, and
// no if/then/else, $defs, or contains. propertyNames is part of
// sharedAssertions but stays inert here since draft-04 schemas never carry
// it.
func Draft04() (*dialect.Dialect, error) {
	const id = "http://json-schema.org/draft-04/schema"
	kws := []keyword.Keyword{
		&builtin.IdentifyKeyword{Field: "id", AllowFragmentAnchor: true},
		&builtin.SchemaDetector{DialectID: id},
		&builtin.RefKeyword{Field: "$ref"},
		&builtin.DefsKeyword{Field: "definitions"},
	}
	kws = append(kws, sharedAssertions()...)
	kws = append(kws,
		builtin.NewMinimum(), builtin.NewMaximum(),
		builtin.NewExclusiveBoolMinimum(), builtin.NewExclusiveBoolMaximum(),
		&builtin.LegacyDependenciesKeyword{},
		&builtin.LegacyItemsKeyword{},
		&builtin.ItemsKeyword{},
		&builtin.AdditionalPropertiesKeyword{},
	)
	return dialect.New(mustURI(id), map[string]any{id: minimalMetaschema(id)}, kws)
}
