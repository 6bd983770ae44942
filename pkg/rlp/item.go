// Package rlp implements the Recursive Length Prefix encoding used by trie
// nodes and proofs. Decoding is strict: the package rejects every
// non-canonical form (truncated payloads, long-form sizes the short form
// could express, leading zero size bytes, single bytes below 0x80 wrapped in
// a string header) instead of silently accepting it. Proof material is
// adversarial input; anything ambiguous is an error.
package rlp

import "io"

// Kind represents the type of an RLP value.
type Kind int

const (
	Byte   Kind = iota // Single byte in [0x00, 0x7f].
	String             // RLP string (including empty string).
	List               // RLP list.
)

// Item is a zero-copy view of one decoded RLP item inside a backing buffer.
// The view is only valid while the backing buffer is; Item never copies.
type Item struct {
	kind    Kind
	raw     []byte // full encoding, header included
	payload []byte // payload view; for Byte, the byte itself
}

// Kind returns the RLP type of the item.
func (it Item) Kind() Kind { return it.kind }

// Raw returns the item's full encoding, header included.
func (it Item) Raw() []byte { return it.raw }

// Payload returns the item's payload bytes. For a Byte item this is the byte
// itself, for a List the concatenated encodings of its elements.
func (it Item) Payload() []byte { return it.payload }

// IsString reports whether the item is a string (or single byte).
func (it Item) IsString() bool { return it.kind != List }

// IsList reports whether the item is a list.
func (it Item) IsList() bool { return it.kind == List }

// Split reads the first RLP item from buf and returns it along with the
// remaining bytes. An empty buf returns io.EOF; a truncated item returns
// io.ErrUnexpectedEOF; non-canonical headers return the matching sentinel.
func Split(buf []byte) (Item, []byte, error) {
	if len(buf) == 0 {
		return Item{}, nil, io.EOF
	}
	prefix := buf[0]
	switch {
	case prefix <= 0x7f:
		return Item{kind: Byte, raw: buf[:1], payload: buf[:1]}, buf[1:], nil

	case prefix <= 0xb7:
		// Short string: 0-55 payload bytes.
		size := int(prefix - 0x80)
		if len(buf) < 1+size {
			return Item{}, nil, io.ErrUnexpectedEOF
		}
		if size == 1 && buf[1] <= 0x7f {
			// Must use the direct single-byte form.
			return Item{}, nil, ErrCanonSize
		}
		return Item{kind: String, raw: buf[:1+size], payload: buf[1 : 1+size]}, buf[1+size:], nil

	case prefix <= 0xbf:
		return splitLong(buf, String, int(prefix-0xb7))

	case prefix <= 0xf7:
		// Short list: 0-55 payload bytes.
		size := int(prefix - 0xc0)
		if len(buf) < 1+size {
			return Item{}, nil, io.ErrUnexpectedEOF
		}
		return Item{kind: List, raw: buf[:1+size], payload: buf[1 : 1+size]}, buf[1+size:], nil

	default:
		return splitLong(buf, List, int(prefix-0xf7))
	}
}

// splitLong handles the long form shared by strings and lists: the header is
// followed by lenOfLen big-endian bytes giving the payload size.
func splitLong(buf []byte, kind Kind, lenOfLen int) (Item, []byte, error) {
	if len(buf) < 1+lenOfLen {
		return Item{}, nil, io.ErrUnexpectedEOF
	}
	sizeBytes := buf[1 : 1+lenOfLen]
	if sizeBytes[0] == 0 {
		return Item{}, nil, ErrCanonSize
	}
	size := readBigEndian(sizeBytes)
	if size <= 55 {
		return Item{}, nil, ErrNonCanonicalSize
	}
	if size > uint64(len(buf)-1-lenOfLen) {
		return Item{}, nil, io.ErrUnexpectedEOF
	}
	end := 1 + lenOfLen + int(size)
	return Item{kind: kind, raw: buf[:end], payload: buf[1+lenOfLen : end]}, buf[end:], nil
}

// SplitList interprets buf as exactly one RLP list and partitions its
// payload into child items. The list must cover the whole buffer and its
// payload must divide into items with zero leftover bytes.
func SplitList(buf []byte) ([]Item, error) {
	it, rest, err := Split(buf)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, ErrTrailingBytes
	}
	if !it.IsList() {
		return nil, ErrExpectedList
	}
	var items []Item
	content := it.payload
	for len(content) > 0 {
		child, remaining, err := Split(content)
		if err != nil {
			return nil, err
		}
		items = append(items, child)
		content = remaining
	}
	return items, nil
}

// SplitString interprets buf as exactly one RLP string and returns its
// payload.
func SplitString(buf []byte) ([]byte, error) {
	it, rest, err := Split(buf)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, ErrTrailingBytes
	}
	if !it.IsString() {
		return nil, ErrExpectedString
	}
	return it.payload, nil
}

// readBigEndian decodes up to 8 big-endian bytes into a uint64.
func readBigEndian(b []byte) uint64 {
	var val uint64
	for _, x := range b {
		val = (val << 8) | uint64(x)
	}
	return val
}
