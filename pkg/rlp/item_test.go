package rlp

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestSplitSingleByte(t *testing.T) {
	it, rest, err := Split([]byte{0x61, 0xff})
	if err != nil {
		t.Fatal(err)
	}
	if it.Kind() != Byte {
		t.Fatalf("kind = %v, want Byte", it.Kind())
	}
	if !bytes.Equal(it.Payload(), []byte{0x61}) {
		t.Fatalf("payload = %x", it.Payload())
	}
	if !bytes.Equal(rest, []byte{0xff}) {
		t.Fatalf("rest = %x", rest)
	}
}

func TestSplitEmptyBuffer(t *testing.T) {
	_, _, err := Split(nil)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want io.EOF", err)
	}
}

// Round-trip across the scalar length boundaries: empty, single byte, the
// short/long form switch at 55/56, and a 65535-byte payload exercising a
// two-byte length-of-length.
func TestStringRoundTripBoundaries(t *testing.T) {
	for _, n := range []int{0, 1, 55, 56, 65535} {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(0x80 + i%100) // keep single-byte fast path out of play
		}
		enc := AppendString(nil, data)
		it, rest, err := Split(enc)
		if err != nil {
			t.Fatalf("len %d: %v", n, err)
		}
		if len(rest) != 0 {
			t.Fatalf("len %d: %d leftover bytes", n, len(rest))
		}
		if !bytes.Equal(it.Payload(), data) {
			t.Fatalf("len %d: payload mismatch", n)
		}
		if !bytes.Equal(it.Raw(), enc) {
			t.Fatalf("len %d: raw view mismatch", n)
		}
	}
}

// Round-trip across list arities, covering the 17-element branch-node shape.
func TestListRoundTripArities(t *testing.T) {
	for _, arity := range []int{0, 1, 16, 17} {
		var payload []byte
		for i := 0; i < arity; i++ {
			payload = AppendString(payload, []byte{0xaa, byte(i)})
		}
		enc := WrapList(payload)
		items, err := SplitList(enc)
		if err != nil {
			t.Fatalf("arity %d: %v", arity, err)
		}
		if len(items) != arity {
			t.Fatalf("arity %d: got %d items", arity, len(items))
		}
		for i, it := range items {
			want := []byte{0xaa, byte(i)}
			if !bytes.Equal(it.Payload(), want) {
				t.Fatalf("arity %d item %d: payload %x, want %x", arity, i, it.Payload(), want)
			}
		}
	}
}

func TestSplitRejectsNonCanonical(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  error
	}{
		{"single byte wrapped as short string", []byte{0x81, 0x05}, ErrCanonSize},
		{"long form for short size", append([]byte{0xb8, 0x02}, make([]byte, 2)...), ErrNonCanonicalSize},
		{"long list form for short size", append([]byte{0xf8, 0x03}, 0x01, 0x02, 0x03), ErrNonCanonicalSize},
		{"leading zero in string size", append([]byte{0xb9, 0x00, 0x38}, make([]byte, 56)...), ErrCanonSize},
		{"leading zero in list size", append([]byte{0xf9, 0x00, 0x38}, make([]byte, 56)...), ErrCanonSize},
		{"truncated short string", []byte{0x83, 0x01}, io.ErrUnexpectedEOF},
		{"truncated long string header", []byte{0xb8}, io.ErrUnexpectedEOF},
		{"truncated long string payload", []byte{0xb8, 0x38, 0x01}, io.ErrUnexpectedEOF},
		{"truncated list", []byte{0xc3, 0x01}, io.ErrUnexpectedEOF},
		{"declared length past buffer", []byte{0xbb, 0xff, 0xff, 0xff, 0xff}, io.ErrUnexpectedEOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Split(tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSplitListRejectsLeftover(t *testing.T) {
	// A list followed by an extra byte is not a single list.
	enc := append(WrapList(AppendString(nil, []byte("ok"))), 0x00)
	if _, err := SplitList(enc); !errors.Is(err, ErrTrailingBytes) {
		t.Fatalf("err = %v, want ErrTrailingBytes", err)
	}
}

func TestSplitListRejectsString(t *testing.T) {
	if _, err := SplitList(AppendString(nil, []byte("str"))); !errors.Is(err, ErrExpectedList) {
		t.Fatalf("err = %v, want ErrExpectedList", err)
	}
}

func TestSplitListRejectsTruncatedElement(t *testing.T) {
	// List header claims 2 payload bytes; the element inside claims 3.
	enc := []byte{0xc2, 0x83, 0x01}
	if _, err := SplitList(enc); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("err = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestSplitString(t *testing.T) {
	got, err := SplitString(AppendString(nil, []byte("dog")))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "dog" {
		t.Fatalf("payload = %q", got)
	}
	if _, err := SplitString([]byte{0xc0}); !errors.Is(err, ErrExpectedString) {
		t.Fatalf("err = %v, want ErrExpectedString", err)
	}
}

func TestSplitViewsShareBacking(t *testing.T) {
	// Item is a view: mutating the backing buffer must show through.
	enc := AppendString(nil, []byte{0xaa, 0xbb, 0xcc})
	it, _, err := Split(enc)
	if err != nil {
		t.Fatal(err)
	}
	enc[1] = 0x11
	if it.Payload()[0] != 0x11 {
		t.Fatal("payload is not a view into the backing buffer")
	}
}
