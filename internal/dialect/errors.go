package dialect

import "errors"

// === Identify/Dialect errors (§7 "Identify/Dialect" family) ===
var (
	// ErrFragmentInDialectID is returned when a dialect id carries a
	// non-empty fragment.
	ErrFragmentInDialectID = errors.New("dialect: id must not carry a fragment")

	// ErrDuplicateDialect is returned when two dialects in one registry
	// share an id.
	ErrDuplicateDialect = errors.New("dialect: duplicate dialect id")

	// ErrNoIdentifyCapableKeyword is returned when a dialect has no keyword
	// implementing Identifier.
	ErrNoIdentifyCapableKeyword = errors.New("dialect: no identify-capable keyword")

	// ErrNoDialectCapableKeyword is returned when a dialect has no keyword
	// implementing DialectDetector.
	ErrNoDialectCapableKeyword = errors.New("dialect: no dialect-capable keyword")

	// ErrDuplicateAnchor is returned when anchor discovery finds two
	// anchors of the same name within one schema resource.
	ErrDuplicateAnchor = errors.New("dialect: duplicate anchor name within schema resource")
)
