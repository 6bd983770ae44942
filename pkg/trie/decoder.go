package trie

import (
	"fmt"

	"github.com/a6gr73-hash/surety-go/pkg/rlp"
)

// decodeNode decodes an RLP-encoded trie node into its typed form. The hash
// is the reference this node was reached through (nil for embedded nodes);
// it is cached on the decoded node. All returned errors wrap ErrInvalidNode.
func decodeNode(hash hashNode, data []byte) (node, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty encoding", ErrInvalidNode)
	}
	items, err := rlp.SplitList(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNode, err)
	}
	switch len(items) {
	case 2:
		return decodeShort(hash, items)
	case 17:
		return decodeFull(hash, items)
	default:
		return nil, fmt.Errorf("%w: invalid node arity %d", ErrInvalidNode, len(items))
	}
}

// decodeShort decodes a 2-element list into a leaf or extension node. The
// first element is the compact-encoded path; the terminator flag inside it
// decides which of the two shapes this is.
func decodeShort(hash hashNode, items []rlp.Item) (node, error) {
	if !items[0].IsString() {
		return nil, fmt.Errorf("%w: node path is not a string", ErrInvalidNode)
	}
	key, err := compactToHex(items[0].Payload())
	if err != nil {
		return nil, err
	}
	flag := nodeFlag{hash: hash}

	if hasTerm(key) {
		// Leaf: the second element is the stored value.
		if !items[1].IsString() {
			return nil, fmt.Errorf("%w: leaf value is not a string", ErrInvalidNode)
		}
		return &shortNode{Key: key, Val: valueNode(items[1].Payload()), flags: flag}, nil
	}

	// Extension: the second element references the child.
	child, err := decodeRef(items[1])
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, fmt.Errorf("%w: extension with empty child", ErrInvalidNode)
	}
	return &shortNode{Key: key, Val: child, flags: flag}, nil
}

// decodeFull decodes a 17-element list into a branch node.
func decodeFull(hash hashNode, items []rlp.Item) (node, error) {
	n := &fullNode{flags: nodeFlag{hash: hash}}
	for i := 0; i < 16; i++ {
		child, err := decodeRef(items[i])
		if err != nil {
			return nil, err
		}
		n.Children[i] = child
	}
	if !items[16].IsString() {
		return nil, fmt.Errorf("%w: branch value is not a string", ErrInvalidNode)
	}
	if v := items[16].Payload(); len(v) > 0 {
		n.Children[16] = valueNode(v)
	}
	return n, nil
}

// decodeRef decodes a child slot. A slot is either empty (zero-length
// string), a 32-byte hash reference, or an embedded node (a list whose full
// encoding is below the 32-byte hashing threshold). Everything else is
// malformed.
func decodeRef(it rlp.Item) (node, error) {
	if it.IsList() {
		if len(it.Raw()) >= 32 {
			return nil, fmt.Errorf("%w: oversized embedded node (%d bytes)", ErrInvalidNode, len(it.Raw()))
		}
		return decodeNode(nil, it.Raw())
	}
	switch payload := it.Payload(); len(payload) {
	case 0:
		return nil, nil
	case 32:
		return hashNode(payload), nil
	default:
		return nil, fmt.Errorf("%w: child reference of %d bytes", ErrInvalidNode, len(payload))
	}
}
