package uri

import (
	"errors"
	"fmt"
)

// wrapf wraps sentinel with a formatted detail message, preserving errors.Is
// compatibility (§7: every error carries the offending input nested).
func wrapf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)
}

// === Parsing errors ===
var (
	// ErrInvalidURI is returned when a string cannot be parsed as any URI form.
	ErrInvalidURI = errors.New("invalid uri")

	// ErrInvalidURN is returned when a urn: scheme string fails URN grammar.
	ErrInvalidURN = errors.New("invalid urn")

	// ErrInvalidURNFragment is returned when a fragment set on a URN does not
	// satisfy the urn fragment grammar (rq-components / f-component).
	ErrInvalidURNFragment = errors.New("invalid urn fragment")

	// ErrNotAbsolute is returned when an absolute URI was required but the
	// input carries no scheme, or carries a non-empty fragment in base form.
	ErrNotAbsolute = errors.New("uri is not absolute")

	// ErrSchemeChange is returned when resolving a reference would change the
	// scheme of a URN in a way that corrupts its structure.
	ErrSchemeChange = errors.New("scheme change would corrupt uri structure")
)
