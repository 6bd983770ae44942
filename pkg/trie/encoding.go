package trie

// Hex-prefix (HP) encoding as specified in the Ethereum Yellow Paper,
// Appendix C.
//
// Trie keys are walked one nibble at a time. The hex nibble representation
// uses values 0x0-0xf for data nibbles and 0x10 (the terminator) to mark the
// end of a leaf key. The compact (hex-prefix) form packs a nibble sequence
// into bytes with a leading flag nibble carrying the leaf/extension bit and
// the length parity.

import "fmt"

const terminatorByte = 16

// keybytesToHex converts a raw byte key to a hex nibble sequence, appending
// the terminator nibble. Each byte expands to its high nibble then its low
// nibble.
func keybytesToHex(str []byte) []byte {
	l := len(str)*2 + 1
	nibbles := make([]byte, l)
	for i, b := range str {
		nibbles[i*2] = b / 16
		nibbles[i*2+1] = b % 16
	}
	nibbles[l-1] = terminatorByte
	return nibbles
}

// hexToCompact converts a hex nibble sequence (with possible terminator) to
// compact encoding.
//
// The high nibble of the first byte encodes flags:
//   - bit 1 (0x20): set if the key is a leaf (terminator present)
//   - bit 0 (0x10): set if the data nibble count is odd
//
// If the nibble count is odd, the low nibble of the first byte carries the
// first data nibble; otherwise it is zero padding.
func hexToCompact(hex []byte) []byte {
	terminator := byte(0)
	if hasTerm(hex) {
		terminator = 1
		hex = hex[:len(hex)-1]
	}
	buf := make([]byte, len(hex)/2+1)
	buf[0] = terminator << 5
	if len(hex)&1 == 1 {
		buf[0] |= 1 << 4
		buf[0] |= hex[0]
		hex = hex[1:]
	}
	decodeNibbles(hex, buf[1:])
	return buf
}

// compactToHex converts compact encoded bytes back to the hex nibble
// sequence, terminator included for leaf keys. The encoding is validated:
// reserved flag bits and a parity flag that disagrees with the content
// (nonzero padding in the even case) are rejected, as is empty input.
func compactToHex(compact []byte) ([]byte, error) {
	if len(compact) == 0 {
		return nil, fmt.Errorf("%w: empty compact path", ErrInvalidNode)
	}
	flags := compact[0] >> 4
	if flags > 3 {
		return nil, fmt.Errorf("%w: reserved path flag bits 0x%x", ErrInvalidNode, flags)
	}
	odd := flags&1 != 0
	if !odd && compact[0]&0x0f != 0 {
		return nil, fmt.Errorf("%w: nonzero padding in even-length path", ErrInvalidNode)
	}

	n := (len(compact) - 1) * 2
	if odd {
		n++
	}
	isLeaf := flags&2 != 0
	nibbles := make([]byte, 0, n+1)
	if odd {
		nibbles = append(nibbles, compact[0]&0x0f)
	}
	for _, b := range compact[1:] {
		nibbles = append(nibbles, b>>4, b&0x0f)
	}
	if isLeaf {
		nibbles = append(nibbles, terminatorByte)
	}
	return nibbles, nil
}

// decodeNibbles packs pairs of nibbles into bytes.
func decodeNibbles(nibbles []byte, bytes []byte) {
	for bi, ni := 0, 0; ni < len(nibbles); bi, ni = bi+1, ni+2 {
		bytes[bi] = nibbles[ni]<<4 | nibbles[ni+1]
	}
}

// prefixLen returns the length of the common prefix of a and b.
func prefixLen(a, b []byte) int {
	var i, length int
	if len(a) < len(b) {
		length = len(a)
	} else {
		length = len(b)
	}
	for ; i < length; i++ {
		if a[i] != b[i] {
			break
		}
	}
	return i
}

// hasTerm returns true if the hex nibble sequence ends with the terminator.
func hasTerm(s []byte) bool {
	return len(s) > 0 && s[len(s)-1] == terminatorByte
}
