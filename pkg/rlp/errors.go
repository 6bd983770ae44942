package rlp

import "errors"

var (
	// ErrExpectedString is returned when a list is encountered where a string was expected.
	ErrExpectedString = errors.New("rlp: expected string")

	// ErrExpectedList is returned when a string is encountered where a list was expected.
	ErrExpectedList = errors.New("rlp: expected list")

	// ErrCanonSize is returned when an RLP item uses a non-canonical size encoding,
	// such as a single byte below 0x80 wrapped in a short-string header or a
	// length-of-length with leading zero bytes.
	ErrCanonSize = errors.New("rlp: non-canonical size information")

	// ErrNonCanonicalSize is returned when the long form encodes a size that the
	// short form could have expressed.
	ErrNonCanonicalSize = errors.New("rlp: non-canonical size")

	// ErrCanonInt is returned when an integer uses non-canonical encoding (leading zeros).
	ErrCanonInt = errors.New("rlp: non-canonical integer encoding")

	// ErrEOL is returned when the end of the current list has been reached.
	ErrEOL = errors.New("rlp: end of list")

	// ErrTrailingBytes is returned when input continues past a complete top-level item.
	ErrTrailingBytes = errors.New("rlp: trailing bytes after item")

	// ErrUint64Range is returned when a decoded integer exceeds uint64 range.
	ErrUint64Range = errors.New("rlp: uint64 overflow")

	// ErrValueTooLarge is returned when a value is too large to encode.
	ErrValueTooLarge = errors.New("rlp: value too large")
)
