// Package leb128 implements the unsigned little-endian base 128 integers
// used by AV1 for unit and tile sizes.
//
// Each byte carries 7 bits of the value, least-significant group first.
// The high bit of a byte signals that another byte follows. AV1 limits the
// encoding to 8 bytes, so a decoded value never exceeds 56 bits.
package leb128

import (
	"fmt"

	"github.com/ulikunitz/av1"
)

const (
	// MaxLen is the maximum number of bytes of an encoded value.
	MaxLen = 8
	// MaxValue is the largest value that can be decoded.
	MaxValue = 1<<(7*MaxLen) - 1
)

// Decode decodes a value from the start of p and returns the number of
// bytes it occupied. Bytes following the terminating byte are ignored.
// Padded encodings with redundant zero groups are accepted.
func Decode(p []byte) (v uint64, n int, err error) {
	for i := 0; ; i++ {
		if i == MaxLen {
			return 0, 0, fmt.Errorf(
				"leb128: more than %d bytes: %w",
				MaxLen, av1.ErrOverflow)
		}
		if i >= len(p) {
			return 0, 0, fmt.Errorf(
				"leb128: input ends after %d bytes: %w",
				i, av1.ErrTruncated)
		}
		b := p[i]
		// 8 groups of 7 bits always fit into 56 bits, therefore the
		// accumulator cannot overflow here.
		v |= uint64(b&0x7f) << (7 * uint(i))
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
	}
}

// Len returns the number of bytes required for the minimal encoding of v.
func Len(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// Append appends the minimal encoding of v to p. Values larger than
// MaxValue result in encodings longer than MaxLen, which Decode rejects.
func Append(p []byte, v uint64) []byte {
	for v >= 0x80 {
		p = append(p, byte(v)|0x80)
		v >>= 7
	}
	return append(p, byte(v))
}

// Encode returns the minimal encoding of v.
func Encode(v uint64) []byte {
	return Append(make([]byte, 0, Len(v)), v)
}

// EncodeFixed encodes v into exactly n bytes. Encoders use it to reserve
// a size field before the size is known.
func EncodeFixed(v uint64, n int) ([]byte, error) {
	if !(1 <= n && n <= MaxLen) {
		return nil, fmt.Errorf("leb128: length %d out of range [1,%d]",
			n, MaxLen)
	}
	if Len(v) > n {
		return nil, fmt.Errorf("leb128: %d doesn't fit into %d bytes: %w",
			v, n, av1.ErrOverflow)
	}
	p := make([]byte, n)
	for i := 0; i < n-1; i++ {
		p[i] = byte(v&0x7f) | 0x80
		v >>= 7
	}
	p[n-1] = byte(v)
	return p, nil
}
