package store

import "errors"

// === Source errors (§7 "Source" family) ===
var (
	// ErrFragmentOnInsert names a fragment-bearing insert. Insert does not
	// return it: it accepts a named-anchor fragment and rejects a pointer
	// fragment with ErrPointerFragmentOnInsert.
	ErrFragmentOnInsert = errors.New("source: insert does not accept a uri with a fragment")

	// ErrPointerFragmentOnInsert is returned when the fragment is a JSON
	// Pointer; pointer fragments must go through Link, not Insert.
	ErrPointerFragmentOnInsert = errors.New("source: pointer fragment is not insertable, use link")

	// ErrConflictingInsert is returned when a base URI is inserted twice
	// with non-structurally-equal values.
	ErrConflictingInsert = errors.New("source: conflicting insert for uri")

	// ErrConflictingLink is returned when a uri is linked to a different
	// (handle, pointer) pair than one already recorded.
	ErrConflictingLink = errors.New("source: conflicting link for uri")

	// ErrPointerOutOfDocument is returned when a link's pointer does not
	// resolve inside its target document.
	ErrPointerOutOfDocument = errors.New("source: pointer does not resolve inside document")

	// ErrUnknownURI is returned by Get when no document or link is indexed
	// under the given uri.
	ErrUnknownURI = errors.New("source: unknown uri")
)

// === Resolution errors (§7 "Resolution" family) ===
var (
	// ErrNotFound is returned when every resolver in the chain passed.
	ErrNotFound = errors.New("source: schema not found by any resolver")

	// ErrDeserialization is returned when every deserializer in the chain
	// rejected the content.
	ErrDeserialization = errors.New("source: deserialization failed for all candidates")
)

// === Transaction errors ===
var (
	// ErrTransactionOpen is returned by Begin when a transaction is already
	// open on this store (§5: at most one open transaction, enforced by
	// assertion).
	ErrTransactionOpen = errors.New("source: a transaction is already open")

	// ErrNoTransaction is returned by Commit/Rollback when none is open.
	ErrNoTransaction = errors.New("source: no transaction is open")
)
