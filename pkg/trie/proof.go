package trie

import (
	"bytes"
	"fmt"

	"github.com/a6gr73-hash/surety-go/pkg/crypto"
	"github.com/a6gr73-hash/surety-go/pkg/types"
)

// embeddedHopFactor scales the traversal fuel. Honest proofs consume a
// nibble or a proof entry on every step; only malformed proofs built from
// chains of empty-path embedded nodes can burn fuel without progress, and
// those must run out rather than loop.
const embeddedHopFactor = 8

func traversalFuel(proofLen, nibbles int) int {
	return embeddedHopFactor * (proofLen + nibbles + 1)
}

// Prove returns the ordered chain of encoded nodes on the path from the root
// toward key, root first. For a present key the chain resolves it to a
// value; for an absent key the chain ends at the node that proves absence,
// so the result serves as an exclusion proof. Nodes embedded in their parent
// are not emitted separately; verifiers consume them in place.
func (t *Trie) Prove(key []byte) ([][]byte, error) {
	if t.root == nil {
		// The empty proof demonstrates absence against the empty root.
		return nil, nil
	}
	t.Hash()

	hexKey := keybytesToHex(key)
	var proof [][]byte
	n := t.root
	pos := 0
	for n != nil {
		switch cur := n.(type) {
		case *shortNode:
			enc := encodeShortNode(collapseShort(cur))
			if len(proof) == 0 || len(enc) >= 32 {
				proof = append(proof, enc)
			}
			if len(hexKey)-pos < len(cur.Key) || !bytes.Equal(cur.Key, hexKey[pos:pos+len(cur.Key)]) {
				return proof, nil // path diverges: absence is proven here
			}
			pos += len(cur.Key)
			n = cur.Val
		case *fullNode:
			enc := encodeFullNode(collapseFull(cur))
			if len(proof) == 0 || len(enc) >= 32 {
				proof = append(proof, enc)
			}
			n = cur.Children[hexKey[pos]]
			pos++
		case valueNode:
			return proof, nil
		default:
			return nil, fmt.Errorf("%w: unresolved node in trie", ErrInvalidNode)
		}
	}
	return proof, nil
}

// collapseShort returns a proof-ready copy: compact key, large child
// replaced by its hash.
func collapseShort(n *shortNode) *shortNode {
	collapsed := n.copy()
	collapsed.Key = hexToCompact(n.Key)
	collapsed.Val = collapseRef(n.Val)
	return collapsed
}

// collapseFull returns a proof-ready copy with all children collapsed.
func collapseFull(n *fullNode) *fullNode {
	collapsed := n.copy()
	for i := 0; i < 16; i++ {
		if n.Children[i] != nil {
			collapsed.Children[i] = collapseRef(n.Children[i])
		}
	}
	return collapsed
}

// collapseRef replaces a child whose encoding reaches the 32-byte threshold
// with its hash reference; smaller children stay embedded.
func collapseRef(n node) node {
	switch n := n.(type) {
	case *shortNode:
		c := collapseShort(n)
		if enc := encodeShortNode(c); len(enc) >= 32 {
			return hashNode(crypto.Keccak256(enc))
		}
		return c
	case *fullNode:
		c := collapseFull(n)
		if enc := encodeFullNode(c); len(enc) >= 32 {
			return hashNode(crypto.Keccak256(enc))
		}
		return c
	default:
		return n
	}
}

// Verify walks an ordered node chain against a claimed root and decides the
// status of key: (value, true, nil) when the proof shows the key present,
// (nil, false, nil) when it shows the key definitively absent, and a non-nil
// error when the proof proves neither: malformed encodings, a broken hash
// chain, or a truncated walk. Callers must treat the error case as "proof
// rejected", strictly distinct from absence.
//
// The key is used exactly as given; hash-keyed tries require the caller to
// apply keccak256 to the pre-image first.
func Verify(root types.Hash, key []byte, proof [][]byte) (value []byte, found bool, err error) {
	if len(proof) == 0 {
		if root == emptyRoot {
			return nil, false, nil
		}
		return nil, false, ErrProofEmpty
	}
	if got := crypto.Keccak256Hash(proof[0]); got != root {
		return nil, false, fmt.Errorf("%w: got %s, want %s", ErrRootMismatch, got.Hex(), root.Hex())
	}
	cur, err := decodeNode(hashNode(root.Bytes()), proof[0])
	if err != nil {
		return nil, false, err
	}

	path := keybytesToHex(key)
	return walk(cur, path, proof, traversalFuel(len(proof), len(path)))
}

// walk runs the traversal state machine from an already-decoded root node,
// spending one unit of fuel per visited node.
func walk(cur node, path []byte, proof [][]byte, fuel int) (value []byte, found bool, err error) {
	idx := 0
	for {
		if fuel--; fuel < 0 {
			return nil, false, ErrFuelExhausted
		}
		switch n := cur.(type) {
		case *shortNode:
			if hasTerm(n.Key) {
				// Leaf: the entire remaining path must match, not a prefix.
				if bytes.Equal(path, n.Key) {
					return []byte(n.Val.(valueNode)), true, nil
				}
				return nil, false, nil
			}
			// Extension: a diverging path is proof of absence, not an error.
			if len(path) < len(n.Key) || !bytes.Equal(path[:len(n.Key)], n.Key) {
				return nil, false, nil
			}
			path = path[len(n.Key):]
			cur, err = resolveChild(n.Val, proof, &idx)
			if err != nil {
				return nil, false, err
			}

		case *fullNode:
			nib := path[0]
			path = path[1:]
			if nib == terminatorByte {
				if v, ok := n.Children[16].(valueNode); ok {
					return []byte(v), true, nil
				}
				return nil, false, nil
			}
			child := n.Children[nib]
			if child == nil {
				return nil, false, nil
			}
			cur, err = resolveChild(child, proof, &idx)
			if err != nil {
				return nil, false, err
			}

		default:
			return nil, false, fmt.Errorf("%w: unexpected %T in traversal", ErrInvalidNode, cur)
		}
	}
}

// resolveChild turns a child reference into the next node to walk. A
// 32-byte hash reference requires the next proof entry to hash to it and
// advances the proof index; an embedded node is consumed in place with no
// hash check and no index advance.
func resolveChild(ref node, proof [][]byte, idx *int) (node, error) {
	switch ref := ref.(type) {
	case hashNode:
		if *idx+1 >= len(proof) {
			return nil, ErrProofTruncated
		}
		next := proof[*idx+1]
		if !bytes.Equal(crypto.Keccak256(next), ref) {
			return nil, fmt.Errorf("%w: proof[%d]", ErrHashMismatch, *idx+1)
		}
		*idx++
		return decodeNode(ref, next)
	case *shortNode, *fullNode:
		return ref, nil
	default:
		return nil, fmt.Errorf("%w: unresolvable child reference", ErrInvalidNode)
	}
}

// Get returns the value proven for key, or nil when the proof shows the key
// absent. A proof that shows neither is returned as an error, never as an
// empty value.
func Get(root types.Hash, key []byte, proof [][]byte) ([]byte, error) {
	value, found, err := Verify(root, key, proof)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return value, nil
}

// VerifyInclusion reports whether the proof shows key present with exactly
// the given value. A rejected proof returns an error; a valid proof showing
// a different value (or absence) returns false.
func VerifyInclusion(root types.Hash, key, value []byte, proof [][]byte) (bool, error) {
	got, found, err := Verify(root, key, proof)
	if err != nil {
		return false, err
	}
	return found && bytes.Equal(got, value), nil
}

// VerifyNonInclusion reports whether the proof shows key definitively
// absent. A rejected proof is an error, never false: a broken proof must not
// pass for a valid non-arrival claim, and must not be mistaken for presence
// either.
func VerifyNonInclusion(root types.Hash, key []byte, proof [][]byte) (bool, error) {
	_, found, err := Verify(root, key, proof)
	if err != nil {
		return false, err
	}
	return !found, nil
}
