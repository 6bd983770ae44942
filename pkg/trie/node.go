package trie

// The three node shapes of a Merkle Patricia Trie. A fullNode is a branch
// with 16 child slots plus a value slot; a shortNode is a leaf (key carries
// the terminator nibble) or an extension (it does not); hashNode and
// valueNode are the reference and payload leaves of the in-memory tree.

type node interface {
	cache() (hashNode, bool)
}

type (
	fullNode struct {
		Children [17]node // 0-15 are nibble children, 16 is the value slot
		flags    nodeFlag
	}
	shortNode struct {
		Key   []byte // hex nibbles, terminator included for leaves
		Val   node
		flags nodeFlag
	}
	hashNode  []byte
	valueNode []byte
)

// nodeFlag caches the hash of a node and tracks whether it changed since the
// hash was computed.
type nodeFlag struct {
	hash  hashNode
	dirty bool
}

func (n *fullNode) cache() (hashNode, bool)  { return n.flags.hash, n.flags.dirty }
func (n *shortNode) cache() (hashNode, bool) { return n.flags.hash, n.flags.dirty }
func (n hashNode) cache() (hashNode, bool)   { return nil, true }
func (n valueNode) cache() (hashNode, bool)  { return nil, true }

func (n *fullNode) copy() *fullNode {
	c := *n
	return &c
}

func (n *shortNode) copy() *shortNode {
	c := *n
	return &c
}
