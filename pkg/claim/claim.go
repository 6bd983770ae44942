// Package claim evaluates non-arrival claims against committed state roots.
//
// A claim asserts that a transaction never arrived in a given chain state:
// it names the state root, the transaction identifier, and a Merkle proof of
// the identifier's absence. Evaluation is the trust boundary of the payout
// flow, so its outcomes are strict: a claim is accepted only when the proof
// cryptographically shows the key absent under a registered root. A proof
// that fails verification is rejected as invalid, never treated as evidence
// of absence.
package claim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/a6gr73-hash/surety-go/pkg/crypto"
	"github.com/a6gr73-hash/surety-go/pkg/log"
	"github.com/a6gr73-hash/surety-go/pkg/trie"
	"github.com/a6gr73-hash/surety-go/pkg/types"
)

var (
	// ErrUnknownRoot is returned when the claimed state root has not been
	// registered for the claimed chain.
	ErrUnknownRoot = errors.New("claim: state root not registered")

	// ErrNoPayout is returned for claims without a positive payout amount.
	ErrNoPayout = errors.New("claim: missing or zero payout")

	// ErrEmptyTxID is returned for claims naming no transaction.
	ErrEmptyTxID = errors.New("claim: empty transaction id")
)

// Verdict is the outcome of evaluating a non-arrival claim.
type Verdict int

const (
	// Accepted means the proof shows the transaction absent under the
	// registered root; the payout is owed.
	Accepted Verdict = iota

	// RejectedPresent means the proof is valid but shows the transaction
	// recorded in the state, refuting the claim.
	RejectedPresent

	// RejectedProof means the proof failed verification and proves nothing.
	RejectedProof
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case RejectedPresent:
		return "rejected-present"
	case RejectedProof:
		return "rejected-proof"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// NonArrival is a claim that a transaction is absent from a chain state.
// The trie is keyed by keccak256(TxID); callers submit the raw identifier
// and the proof walks its digest.
type NonArrival struct {
	ChainID   uint64
	TxID      []byte
	StateRoot types.Hash
	Proof     [][]byte
	Payout    *uint256.Int
}

// Key returns the trie key the claim is judged against.
func (c *NonArrival) Key() []byte {
	return crypto.Keccak256(c.TxID)
}

// RootRegistry records the state roots trusted for each chain. How roots
// become trusted (oracles, governance) is outside this package; evaluation
// only consults the registry.
type RootRegistry struct {
	mu    sync.RWMutex
	roots map[uint64]map[types.Hash]struct{}
}

// NewRootRegistry creates an empty registry.
func NewRootRegistry() *RootRegistry {
	return &RootRegistry{roots: make(map[uint64]map[types.Hash]struct{})}
}

// Register marks a root as trusted for a chain.
func (r *RootRegistry) Register(chainID uint64, root types.Hash) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.roots[chainID]
	if !ok {
		m = make(map[types.Hash]struct{})
		r.roots[chainID] = m
	}
	m[root] = struct{}{}
}

// Lookup reports whether a root is trusted for a chain.
func (r *RootRegistry) Lookup(chainID uint64, root types.Hash) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.roots[chainID][root]
	return ok
}

// Evaluator decides non-arrival claims against a root registry.
type Evaluator struct {
	registry *RootRegistry
	logger   *log.Logger
}

// NewEvaluator creates an evaluator over the given registry. A nil logger
// uses the package default.
func NewEvaluator(registry *RootRegistry, logger *log.Logger) *Evaluator {
	if logger == nil {
		logger = log.Default()
	}
	return &Evaluator{
		registry: registry,
		logger:   logger.Module("claim"),
	}
}

// Evaluate judges a claim. The error return covers malformed claims and
// unregistered roots; proof failures are not errors but the RejectedProof
// verdict, since a hostile proof is an expected input.
//
// Accepted is returned only when every check passes: the root is registered,
// the proof binds to it, and the walk shows the hashed transaction id
// definitively absent.
func (e *Evaluator) Evaluate(c *NonArrival) (Verdict, error) {
	if len(c.TxID) == 0 {
		return RejectedProof, ErrEmptyTxID
	}
	if c.Payout == nil || c.Payout.IsZero() {
		return RejectedProof, ErrNoPayout
	}
	if !e.registry.Lookup(c.ChainID, c.StateRoot) {
		e.logger.Warn("claim against unregistered root",
			"chain", c.ChainID, "root", c.StateRoot.Hex())
		return RejectedProof, fmt.Errorf("%w: chain %d root %s", ErrUnknownRoot, c.ChainID, c.StateRoot.Hex())
	}

	key := c.Key()
	_, found, err := trie.Verify(c.StateRoot, key, c.Proof)
	if err != nil {
		e.logger.Warn("claim proof rejected",
			"chain", c.ChainID, "root", c.StateRoot.Hex(), "err", err)
		return RejectedProof, nil
	}
	if found {
		e.logger.Info("claim refuted, transaction arrived",
			"chain", c.ChainID, "root", c.StateRoot.Hex())
		return RejectedPresent, nil
	}

	e.logger.Info("claim accepted",
		"chain", c.ChainID, "root", c.StateRoot.Hex(), "payout", c.Payout.Dec())
	return Accepted, nil
}
