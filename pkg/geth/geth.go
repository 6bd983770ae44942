// Package geth adapts go-ethereum's Merkle Patricia Trie as an independent
// reference implementation. This is the only package that imports
// go-ethereum directly; all other packages use the local types.
//
// Its main use is differential testing: roots and proofs produced here must
// agree byte for byte with the local trie, and proofs built here must verify
// with the local walker.
package geth

import (
	"fmt"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	gethtrie "github.com/ethereum/go-ethereum/trie"
	"github.com/ethereum/go-ethereum/triedb"

	"github.com/a6gr73-hash/surety-go/pkg/types"
)

// ToGethHash converts a local Hash to a go-ethereum Hash.
func ToGethHash(h types.Hash) gethcommon.Hash {
	return gethcommon.Hash(h)
}

// FromGethHash converts a go-ethereum Hash to a local Hash.
func FromGethHash(h gethcommon.Hash) types.Hash {
	return types.Hash(h)
}

// ProofBuilder maintains a go-ethereum trie over an in-memory database and
// produces ordered Merkle proofs from it.
type ProofBuilder struct {
	db *triedb.Database
	tr *gethtrie.Trie
}

// NewProofBuilder creates an empty trie backed by an in-memory node store.
func NewProofBuilder() *ProofBuilder {
	db := triedb.NewDatabase(rawdb.NewMemoryDatabase(), nil)
	return &ProofBuilder{
		db: db,
		tr: gethtrie.NewEmpty(db),
	}
}

// Update inserts or replaces a key. An empty value deletes the key, matching
// go-ethereum's convention.
func (b *ProofBuilder) Update(key, value []byte) error {
	return b.tr.Update(key, value)
}

// Delete removes a key.
func (b *ProofBuilder) Delete(key []byte) error {
	return b.tr.Delete(key)
}

// Root returns the current root hash.
func (b *ProofBuilder) Root() types.Hash {
	return FromGethHash(b.tr.Hash())
}

// Prove collects the nodes on the path toward key, root first. go-ethereum
// emits them in walk order, so appending preserves the chain layout the
// verifier expects.
func (b *ProofBuilder) Prove(key []byte) ([][]byte, error) {
	var list proofList
	if err := b.tr.Prove(key, &list); err != nil {
		return nil, fmt.Errorf("geth prove: %w", err)
	}
	return list, nil
}

// Close releases the backing node database.
func (b *ProofBuilder) Close() error {
	return b.db.Close()
}

// proofList collects proof nodes in insertion order. It satisfies
// ethdb.KeyValueWriter; node hashes arrive as keys and are discarded, order
// carries the chain structure.
type proofList [][]byte

func (l *proofList) Put(key, value []byte) error {
	*l = append(*l, value)
	return nil
}

func (l *proofList) Delete(key []byte) error {
	return fmt.Errorf("proofList: delete not supported")
}

func (l *proofList) DeleteRange(start, end []byte) error {
	return fmt.Errorf("proofList: delete range not supported")
}
