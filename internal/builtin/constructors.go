package builtin

import "github.com/altair-labs/interrogator/internal/keyword"

// The following exported constructors expose the unexported per-field bound
// templates (numericBound, stringLenBound, sizeBound, exclusiveBoolBound) to
// internal/dialects, which assembles each draft's keyword list from
// templates rather than from zero-value struct literals, since these
// keyword types carry a fixed field/low/exclusive configuration that must
// be set before Setup ever runs.

func NewMinimum() keyword.Keyword    { return newMinimum() }
func NewMaximum() keyword.Keyword    { return newMaximum() }
func NewExclusiveMinimum() keyword.Keyword { return newExclMinimum() }
func NewExclusiveMaximum() keyword.Keyword { return newExclMaximum() }
func NewExclusiveBoolMinimum() keyword.Keyword { return newExclBoolMinimum() }
func NewExclusiveBoolMaximum() keyword.Keyword { return newExclBoolMaximum() }

func NewMinLength() keyword.Keyword { return newMinLength() }
func NewMaxLength() keyword.Keyword { return newMaxLength() }

func NewMinItems() keyword.Keyword      { return newMinItems() }
func NewMaxItems() keyword.Keyword      { return newMaxItems() }
func NewMinProperties() keyword.Keyword { return newMinProperties() }
func NewMaxProperties() keyword.Keyword { return newMaxProperties() }

func NewMultipleOf() keyword.Keyword { return &MultipleOfKeyword{} }
