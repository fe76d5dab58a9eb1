package jsonschema

import "errors"

// === Interrogator builder errors ===
var (
	// ErrInvalidSourceURI is returned when a caller-supplied URI string does
	// not parse as an absolute URI-reference.
	ErrInvalidSourceURI = errors.New("interrogator: invalid source uri")

	// ErrMetaschemaViolation is returned by metaschema self-validation (§9)
	// when a compiled schema does not validate against its dialect's
	// primary metaschema.
	ErrMetaschemaViolation = errors.New("interrogator: schema violates its dialect's metaschema")
)
