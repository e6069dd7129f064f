package seedbloom

import (
	"encoding/binary"
	"strconv"
)

// Key is a value with a canonical byte serialization. Two keys that append
// the same bytes are the same element as far as a filter is concerned.
type Key interface {
	// AppendKey appends the canonical encoding of the key to dst and
	// returns the extended slice.
	AppendKey(dst []byte) []byte
}

// Int is a signed integer key encoded as 8 big-endian bytes (two's complement).
type Int int64

// AppendKey implements Key.
func (i Int) AppendKey(dst []byte) []byte {
	return binary.BigEndian.AppendUint64(dst, uint64(i))
}

// Uint is an unsigned integer key encoded as 8 big-endian bytes.
type Uint uint64

// AppendKey implements Key.
func (u Uint) AppendKey(dst []byte) []byte {
	return binary.BigEndian.AppendUint64(dst, uint64(u))
}

// Decimal is a signed integer key encoded as base-10 ASCII text, e.g. "-42".
// Combined with [MD5] it yields the same bit positions as the classic
// md5(seed || x) textbook filter.
type Decimal int64

// AppendKey implements Key.
func (d Decimal) AppendKey(dst []byte) []byte {
	return strconv.AppendInt(dst, int64(d), 10)
}

// String is a string key encoded as its raw bytes.
type String string

// AppendKey implements Key.
func (s String) AppendKey(dst []byte) []byte {
	return append(dst, s...)
}

// Bytes is a byte slice key encoded as itself.
type Bytes []byte

// AppendKey implements Key.
func (b Bytes) AppendKey(dst []byte) []byte {
	return append(dst, b...)
}
