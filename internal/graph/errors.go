package graph

import "errors"

// === Graph errors (§7 "Compile" and introspection families) ===
var (
	// ErrUnknownHandle is returned when a handle does not belong to this
	// graph — distinct from every other compile error per §7.
	ErrUnknownHandle = errors.New("graph: unknown handle")

	// ErrUnknownURI reports that no schema is indexed under a uri. GetByURI
	// signals that case with its boolean result and does not return it.
	ErrUnknownURI = errors.New("graph: unknown uri")

	// ErrCyclicGraph is returned by AddReference when the new edge would
	// create a cycle (§8 invariant 2).
	ErrCyclicGraph = errors.New("graph: adding reference would create a cycle")

	// ErrSchemaNotFound is returned when the compiler cannot obtain a
	// source document for a schema URI.
	ErrSchemaNotFound = errors.New("graph: schema not found")

	// ErrUnknownAnchor is returned when an anchor-fragment reference cannot
	// be resolved after its root has compiled.
	ErrUnknownAnchor = errors.New("graph: unknown anchor")

	// ErrMetaschemaInvalid is returned when metaschema self-validation is
	// enabled and a schema fails validation against its dialect's primary
	// metaschema.
	ErrMetaschemaInvalid = errors.New("graph: schema is invalid against its metaschema")

	// ErrPointerParse names the failed-pointer-parse compile error; no
	// function in this package returns it.
	ErrPointerParse = errors.New("graph: failed to parse pointer")

	// ErrTransactionOpen mirrors store.ErrTransactionOpen for the schema
	// graph half of a transaction (§5: enforced by assertion).
	ErrTransactionOpen = errors.New("graph: a transaction is already open")

	// ErrNoTransaction mirrors store.ErrNoTransaction.
	ErrNoTransaction = errors.New("graph: no transaction is open")
)
