// Package trie implements the Merkle Patricia Trie proof engine behind the
// Surety protocol's non-arrival disputes: an in-memory reference trie for
// building state, and stateless verification of inclusion and exclusion
// proofs against a trusted root.
//
// Key convention: every function takes the key exactly as given and expands
// it to nibbles directly. Callers whose tries are keyed by hash (the ledger
// state tries watchers dispute over) must apply keccak256 to the pre-image
// before calling; this package never hashes keys on the caller's behalf.
package trie

import (
	"bytes"
	"fmt"

	"github.com/a6gr73-hash/surety-go/pkg/types"
)

// emptyRoot is the hash of the empty trie, keccak256(rlp("")).
var emptyRoot = types.EmptyRootHash

// Trie is an in-memory Merkle Patricia Trie. It is the reference
// implementation used to build state and generate proofs; it is not safe for
// concurrent mutation.
type Trie struct {
	root node
}

// New creates an empty trie.
func New() *Trie {
	return &Trie{}
}

// Put inserts a key-value pair. An empty value deletes the key.
func (t *Trie) Put(key, value []byte) error {
	k := keybytesToHex(key)
	if len(value) == 0 {
		root, err := t.remove(t.root, k)
		if err != nil {
			return err
		}
		t.root = root
		return nil
	}
	root, err := t.insert(t.root, k, valueNode(bytes.Clone(value)))
	if err != nil {
		return err
	}
	t.root = root
	return nil
}

// Delete removes the key from the trie. Deleting an absent key is a no-op.
func (t *Trie) Delete(key []byte) error {
	root, err := t.remove(t.root, keybytesToHex(key))
	if err != nil {
		return err
	}
	t.root = root
	return nil
}

// Get returns the value stored under key, or ErrNotFound.
func (t *Trie) Get(key []byte) ([]byte, error) {
	n := t.root
	k := keybytesToHex(key)
	for {
		switch cur := n.(type) {
		case nil:
			return nil, ErrNotFound
		case *shortNode:
			if len(k) < len(cur.Key) || !bytes.Equal(k[:len(cur.Key)], cur.Key) {
				return nil, ErrNotFound
			}
			n = cur.Val
			k = k[len(cur.Key):]
		case *fullNode:
			n = cur.Children[k[0]]
			k = k[1:]
		case valueNode:
			return cur, nil
		default:
			return nil, fmt.Errorf("%w: unresolved node in trie", ErrInvalidNode)
		}
	}
}

// Hash computes the root hash of the trie, caching node hashes along the way.
func (t *Trie) Hash() types.Hash {
	if t.root == nil {
		return emptyRoot
	}
	h := newHasher()
	hashed, cached := h.hash(t.root, true)
	t.root = cached
	return types.BytesToHash([]byte(hashed.(hashNode)))
}

func newFlag() nodeFlag {
	return nodeFlag{dirty: true}
}

func (t *Trie) insert(n node, key []byte, value node) (node, error) {
	if len(key) == 0 {
		return value, nil
	}
	switch n := n.(type) {
	case nil:
		return &shortNode{Key: key, Val: value, flags: newFlag()}, nil

	case *shortNode:
		matchlen := prefixLen(key, n.Key)
		if matchlen == len(n.Key) {
			// Whole short-node key matches: descend.
			child, err := t.insert(n.Val, key[matchlen:], value)
			if err != nil {
				return nil, err
			}
			return &shortNode{Key: n.Key, Val: child, flags: newFlag()}, nil
		}
		// Paths diverge: branch at the first differing nibble.
		branch := &fullNode{flags: newFlag()}
		var err error
		branch.Children[n.Key[matchlen]], err = t.insert(nil, n.Key[matchlen+1:], n.Val)
		if err != nil {
			return nil, err
		}
		branch.Children[key[matchlen]], err = t.insert(nil, key[matchlen+1:], value)
		if err != nil {
			return nil, err
		}
		if matchlen == 0 {
			return branch, nil
		}
		return &shortNode{Key: key[:matchlen], Val: branch, flags: newFlag()}, nil

	case *fullNode:
		child, err := t.insert(n.Children[key[0]], key[1:], value)
		if err != nil {
			return nil, err
		}
		nn := n.copy()
		nn.flags = newFlag()
		nn.Children[key[0]] = child
		return nn, nil

	default:
		return nil, fmt.Errorf("%w: unresolved node in trie", ErrInvalidNode)
	}
}

func (t *Trie) remove(n node, key []byte) (node, error) {
	switch n := n.(type) {
	case nil:
		return nil, nil

	case *shortNode:
		matchlen := prefixLen(key, n.Key)
		if matchlen < len(n.Key) {
			return n, nil // key absent, no change
		}
		if matchlen == len(key) {
			return nil, nil // leaf removed entirely
		}
		child, err := t.remove(n.Val, key[len(n.Key):])
		if err != nil {
			return nil, err
		}
		switch child := child.(type) {
		case nil:
			return nil, nil
		case *shortNode:
			// Merge the surviving child into this node's key.
			merged := make([]byte, 0, len(n.Key)+len(child.Key))
			merged = append(merged, n.Key...)
			merged = append(merged, child.Key...)
			return &shortNode{Key: merged, Val: child.Val, flags: newFlag()}, nil
		default:
			return &shortNode{Key: n.Key, Val: child, flags: newFlag()}, nil
		}

	case *fullNode:
		child, err := t.remove(n.Children[key[0]], key[1:])
		if err != nil {
			return nil, err
		}
		nn := n.copy()
		nn.flags = newFlag()
		nn.Children[key[0]] = child

		// If a single child remains, the branch collapses into a short node.
		pos := -1
		for i, ch := range &nn.Children {
			if ch != nil {
				if pos == -1 {
					pos = i
				} else {
					pos = -2
					break
				}
			}
		}
		switch {
		case pos == -1:
			return nil, nil
		case pos == 16:
			return &shortNode{Key: []byte{terminatorByte}, Val: nn.Children[16], flags: newFlag()}, nil
		case pos >= 0:
			if cn, ok := nn.Children[pos].(*shortNode); ok {
				merged := make([]byte, 0, 1+len(cn.Key))
				merged = append(merged, byte(pos))
				merged = append(merged, cn.Key...)
				return &shortNode{Key: merged, Val: cn.Val, flags: newFlag()}, nil
			}
			return &shortNode{Key: []byte{byte(pos)}, Val: nn.Children[pos], flags: newFlag()}, nil
		default:
			return nn, nil
		}

	case valueNode:
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: unresolved node in trie", ErrInvalidNode)
	}
}
