package trie

import (
	"github.com/a6gr73-hash/surety-go/pkg/crypto"
	"github.com/a6gr73-hash/surety-go/pkg/rlp"
)

// encBufPool recycles the scratch buffers used to assemble node payloads.
var encBufPool = rlp.NewBufferPool()

// hasher computes the hash of trie nodes.
type hasher struct{}

func newHasher() *hasher {
	return &hasher{}
}

// hash computes the hash of a node. If the RLP-encoded node is less than 32
// bytes, the node itself is returned (it gets embedded in its parent).
// Otherwise the Keccak-256 hash of the encoding is returned as a hashNode.
//
// If force is true, the hash is computed even for an encoding below 32 bytes
// (used for the root node).
func (h *hasher) hash(n node, force bool) (node, node) {
	if hash, dirty := n.cache(); hash != nil && !dirty {
		return hash, n
	}
	collapsed, cached := h.hashChildren(n)
	hashed := h.store(collapsed, force)

	cachedHash, _ := hashed.(hashNode)
	switch cn := cached.(type) {
	case *shortNode:
		cn.flags.hash = cachedHash
		cn.flags.dirty = false
	case *fullNode:
		cn.flags.hash = cachedHash
		cn.flags.dirty = false
	}
	return hashed, cached
}

// hashChildren replaces child nodes with their hashes or inline forms.
// Returns the collapsed version (for hashing) and the cached version (for
// keeping in the trie).
func (h *hasher) hashChildren(original node) (node, node) {
	switch n := original.(type) {
	case *shortNode:
		collapsed, cached := n.copy(), n.copy()
		collapsed.Key = hexToCompact(n.Key)
		if _, ok := n.Val.(valueNode); !ok {
			childH, childC := h.hash(n.Val, false)
			collapsed.Val = childH
			cached.Val = childC
		}
		return collapsed, cached
	case *fullNode:
		collapsed, cached := n.copy(), n.copy()
		for i := 0; i < 16; i++ {
			if n.Children[i] != nil {
				childH, childC := h.hash(n.Children[i], false)
				collapsed.Children[i] = childH
				cached.Children[i] = childC
			}
		}
		return collapsed, cached
	default:
		return n, n
	}
}

// store encodes a collapsed node and returns either the node itself (below
// the 32-byte threshold) or its Keccak-256 hash.
func (h *hasher) store(n node, force bool) node {
	switch n.(type) {
	case hashNode, valueNode:
		return n
	}
	enc := encodeNode(n)
	if len(enc) < 32 && !force {
		return n
	}
	return hashNode(crypto.Keccak256(enc))
}

// encodeNode RLP-encodes a collapsed trie node:
// shortNode => 2-element list [compactKey, val]
// fullNode  => 17-element list [child0..child15, value]
// The short node's key must already be in compact encoding.
func encodeNode(n node) []byte {
	switch n := n.(type) {
	case *shortNode:
		return encodeShortNode(n)
	case *fullNode:
		return encodeFullNode(n)
	case hashNode:
		return []byte(n)
	case valueNode:
		return rlp.AppendString(nil, n)
	default:
		return nil
	}
}

func encodeShortNode(n *shortNode) []byte {
	buf := encBufPool.Get()
	buf = rlp.AppendString(buf, n.Key)
	buf = appendChild(buf, n.Val)
	out := rlp.WrapList(buf)
	encBufPool.Put(buf)
	return out
}

func encodeFullNode(n *fullNode) []byte {
	buf := encBufPool.Get()
	for i := 0; i < 17; i++ {
		buf = appendChild(buf, n.Children[i])
	}
	out := rlp.WrapList(buf)
	encBufPool.Put(buf)
	return out
}

// appendChild appends the encoding of a child slot to a node payload:
// empty slots as the empty string, values and hash references as strings,
// small collapsed nodes inline.
func appendChild(dst []byte, n node) []byte {
	if n == nil {
		return append(dst, 0x80)
	}
	switch n := n.(type) {
	case valueNode:
		return rlp.AppendString(dst, n)
	case hashNode:
		return rlp.AppendString(dst, n)
	case *shortNode:
		return append(dst, encodeShortNode(n)...)
	case *fullNode:
		return append(dst, encodeFullNode(n)...)
	default:
		return append(dst, 0x80)
	}
}
