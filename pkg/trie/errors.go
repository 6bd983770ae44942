package trie

import (
	"errors"
	"fmt"
)

// ErrProofInvalid is the umbrella for every "proof rejected" condition. Two
// families wrap it, and callers must never conflate either with legitimate
// absence: format errors (malformed node or path encodings) and integrity
// errors (a proof whose hash chain does not bind to the claimed root).
// errors.Is(err, ErrProofInvalid) holds for all of them; absence is not an
// error at all, the verification functions report it through their boolean
// result.
var ErrProofInvalid = errors.New("trie: proof invalid")

var (
	// ErrNotFound is returned by trie reads for keys with no value.
	ErrNotFound = errors.New("trie: key not found")

	// ErrInvalidNode marks malformed node encodings: bad RLP, wrong arity,
	// invalid child references, corrupt compact paths.
	ErrInvalidNode = fmt.Errorf("%w: invalid encoded node", ErrProofInvalid)

	// ErrProofEmpty is returned for an empty proof against a non-empty root.
	ErrProofEmpty = fmt.Errorf("%w: empty proof", ErrProofInvalid)

	// ErrRootMismatch is returned when the first proof node does not hash to
	// the claimed root.
	ErrRootMismatch = fmt.Errorf("%w: root hash mismatch", ErrProofInvalid)

	// ErrHashMismatch is returned when a proof node does not hash to the
	// reference that led to it.
	ErrHashMismatch = fmt.Errorf("%w: node hash mismatch", ErrProofInvalid)

	// ErrProofTruncated is returned when the walk needs a proof node past the
	// end of the supplied chain.
	ErrProofTruncated = fmt.Errorf("%w: proof truncated", ErrProofInvalid)

	// ErrFuelExhausted is returned when a proof forces more traversal steps
	// than its size can justify. Honest proofs never hit this bound.
	ErrFuelExhausted = fmt.Errorf("%w: traversal fuel exhausted", ErrProofInvalid)
)
