package rlp

import (
	"bytes"
	"io"
	"math/big"
	"reflect"
)

// Decode reads an RLP-encoded value from r and stores it in the value
// pointed to by val.
func Decode(r io.Reader, val interface{}) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return DecodeBytes(data, val)
}

// DecodeBytes decodes an RLP-encoded byte slice into the value pointed to by
// val. The input must consist of exactly one item; trailing bytes are an
// error.
func DecodeBytes(b []byte, val interface{}) error {
	s := newByteStream(b)
	if err := s.decodeValue(reflect.ValueOf(val)); err != nil {
		return err
	}
	if s.pos != len(s.data) {
		return ErrTrailingBytes
	}
	return nil
}

// Stream provides sequential access to the items of an RLP-encoded buffer.
// List and ListEnd establish nested read scopes.
type Stream struct {
	data  []byte
	pos   int
	stack []int // exclusive end offsets of open lists
}

// NewStream creates a new RLP stream reading from r.
func NewStream(r io.Reader) *Stream {
	data, _ := io.ReadAll(r)
	return newByteStream(data)
}

func newByteStream(data []byte) *Stream {
	return &Stream{data: data}
}

// limit returns the current read boundary.
func (s *Stream) limit() int {
	if len(s.stack) > 0 {
		return s.stack[len(s.stack)-1]
	}
	return len(s.data)
}

// Kind reads the type tag and payload size of the next value without
// consuming it.
func (s *Stream) Kind() (Kind, uint64, error) {
	it, err := s.peek()
	if err != nil {
		return 0, 0, err
	}
	return it.kind, uint64(len(it.payload)), nil
}

func (s *Stream) peek() (Item, error) {
	lim := s.limit()
	if s.pos >= lim {
		return Item{}, io.EOF
	}
	it, _, err := Split(s.data[s.pos:lim])
	return it, err
}

func (s *Stream) next() (Item, error) {
	it, err := s.peek()
	if err != nil {
		return Item{}, err
	}
	s.pos += len(it.raw)
	return it, nil
}

// Bytes reads an RLP string value and returns its payload.
func (s *Stream) Bytes() ([]byte, error) {
	it, err := s.next()
	if err != nil {
		return nil, err
	}
	if !it.IsString() {
		return nil, ErrExpectedString
	}
	return it.payload, nil
}

// List reads the start of an RLP list and enters a scope for reading list
// items. Subsequent reads stay within the list until ListEnd.
func (s *Stream) List() (uint64, error) {
	it, err := s.peek()
	if err != nil {
		return 0, err
	}
	if !it.IsList() {
		return 0, ErrExpectedList
	}
	end := s.pos + len(it.raw)
	s.stack = append(s.stack, end)
	s.pos = end - len(it.payload)
	return uint64(len(it.payload)), nil
}

// ListEnd verifies that all items in the current list have been read and
// leaves the list scope.
func (s *Stream) ListEnd() error {
	if len(s.stack) == 0 {
		return ErrExpectedList
	}
	end := s.stack[len(s.stack)-1]
	if s.pos != end {
		return ErrEOL
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

// Uint64 reads an RLP-encoded unsigned integer.
func (s *Stream) Uint64() (uint64, error) {
	b, err := s.Bytes()
	if err != nil {
		return 0, err
	}
	if len(b) == 0 {
		return 0, nil
	}
	if len(b) > 8 {
		return 0, ErrUint64Range
	}
	if b[0] == 0 {
		return 0, ErrCanonInt
	}
	return readBigEndian(b), nil
}

// BigInt reads an RLP-encoded big integer.
func (s *Stream) BigInt() (*big.Int, error) {
	b, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	if len(b) > 1 && b[0] == 0 {
		return nil, ErrCanonInt
	}
	return new(big.Int).SetBytes(b), nil
}

// decodeValue decodes the next RLP value into v (must be a non-nil pointer).
func (s *Stream) decodeValue(v reflect.Value) error {
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrExpectedString
	}
	return s.decodeInto(v.Elem())
}

func (s *Stream) decodeInto(v reflect.Value) error {
	if v.Type() == reflect.TypeOf(big.Int{}) {
		bi, err := s.BigInt()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(*bi))
		return nil
	}
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		if v.Type() == reflect.TypeOf((*big.Int)(nil)) {
			bi, err := s.BigInt()
			if err != nil {
				return err
			}
			v.Set(reflect.ValueOf(bi))
			return nil
		}
		return s.decodeInto(v.Elem())
	}

	switch v.Kind() {
	case reflect.Bool:
		b, err := s.Bytes()
		if err != nil {
			return err
		}
		switch {
		case len(b) == 0:
			v.SetBool(false)
		case len(b) == 1 && b[0] == 0x01:
			v.SetBool(true)
		default:
			return ErrCanonInt
		}
		return nil

	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		u, err := s.Uint64()
		if err != nil {
			return err
		}
		v.SetUint(u)
		return nil

	case reflect.String:
		b, err := s.Bytes()
		if err != nil {
			return err
		}
		v.SetString(string(b))
		return nil

	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b, err := s.Bytes()
			if err != nil {
				return err
			}
			v.SetBytes(bytes.Clone(b))
			return nil
		}
		return s.decodeList(v)

	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b, err := s.Bytes()
			if err != nil {
				return err
			}
			if len(b) != v.Len() {
				return ErrCanonSize
			}
			reflect.Copy(v, reflect.ValueOf(b))
			return nil
		}
		return s.decodeList(v)

	case reflect.Struct:
		return s.decodeStruct(v)

	default:
		return ErrExpectedString
	}
}

func (s *Stream) decodeList(v reflect.Value) error {
	if _, err := s.List(); err != nil {
		return err
	}
	i := 0
	for s.pos < s.stack[len(s.stack)-1] {
		if v.Kind() == reflect.Slice && i >= v.Len() {
			v.Set(reflect.Append(v, reflect.New(v.Type().Elem()).Elem()))
		}
		if i >= v.Len() {
			return ErrEOL
		}
		if err := s.decodeInto(v.Index(i)); err != nil {
			return err
		}
		i++
	}
	return s.ListEnd()
}

func (s *Stream) decodeStruct(v reflect.Value) error {
	if _, err := s.List(); err != nil {
		return err
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).IsExported() {
			continue
		}
		if err := s.decodeInto(v.Field(i)); err != nil {
			return err
		}
	}
	return s.ListEnd()
}
