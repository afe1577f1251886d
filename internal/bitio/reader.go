// Package bitio reads the fixed-width syntax elements of AV1 headers. Bits
// are read most-significant first.
package bitio

import (
	"fmt"

	"github.com/ulikunitz/av1"
)

// Reader reads bits from a byte slice.
type Reader struct {
	data     []byte
	bitIndex int
}

// NewReader creates a bit reader for data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the number of bits read.
func (r *Reader) Pos() int { return r.bitIndex }

// Remaining returns the number of bits that can still be read.
func (r *Reader) Remaining() int { return len(r.data)*8 - r.bitIndex }

// BytePos returns the position of the next byte boundary at or after the
// current bit.
func (r *Reader) BytePos() int { return (r.bitIndex + 7) / 8 }

func (r *Reader) readBit() uint32 {
	b := r.data[r.bitIndex>>3] >> (7 - uint(r.bitIndex&7))
	r.bitIndex++
	return uint32(b & 1)
}

// F reads n bits as an unsigned number; n must be in the range [0,32].
func (r *Reader) F(n int) (uint32, error) {
	if n < 0 || n > 32 {
		return 0, fmt.Errorf("bitio: can't read %d bits", n)
	}
	if n > r.Remaining() {
		return 0, fmt.Errorf("bitio: %d bits requested, %d left: %w",
			n, r.Remaining(), av1.ErrTruncated)
	}
	var x uint32
	for i := 0; i < n; i++ {
		x = x<<1 | r.readBit()
	}
	return x, nil
}

// Flag reads a single bit as boolean.
func (r *Reader) Flag() (bool, error) {
	b, err := r.F(1)
	return b == 1, err
}

// UVLC reads a variable-length unsigned number using the AV1 uvlc() syntax.
func (r *Reader) UVLC() (uint32, error) {
	leadingZeros := 0
	for {
		done, err := r.Flag()
		if err != nil {
			return 0, err
		}
		if done {
			break
		}
		leadingZeros++
	}
	if leadingZeros >= 32 {
		return 1<<32 - 1, nil
	}
	v, err := r.F(leadingZeros)
	if err != nil {
		return 0, err
	}
	return v + (1<<uint(leadingZeros) - 1), nil
}

// ByteAlign skips the bits up to the next byte boundary.
func (r *Reader) ByteAlign() {
	r.bitIndex = r.BytePos() * 8
}

// LE reads an unsigned little-endian number of n bytes. The reader must be
// byte aligned.
func (r *Reader) LE(n int) (uint64, error) {
	if r.bitIndex&7 != 0 {
		return 0, fmt.Errorf("bitio: le(%d) at unaligned position %d",
			n, r.bitIndex)
	}
	if n < 0 || n > 8 {
		return 0, fmt.Errorf("bitio: can't read %d bytes", n)
	}
	i := r.bitIndex >> 3
	if n > len(r.data)-i {
		return 0, fmt.Errorf("bitio: le(%d) with %d bytes left: %w",
			n, len(r.data)-i, av1.ErrTruncated)
	}
	var v uint64
	for k := 0; k < n; k++ {
		v |= uint64(r.data[i+k]) << (8 * uint(k))
	}
	r.bitIndex += 8 * n
	return v, nil
}

// Writer writes bits most-significant first. It is used to build headers
// in tests and tools.
type Writer struct {
	data  []byte
	nbits int
}

// WriteBits writes the n least-significant bits of x.
func (w *Writer) WriteBits(x uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		if w.nbits&7 == 0 {
			w.data = append(w.data, 0)
		}
		if (x>>uint(i))&1 != 0 {
			w.data[len(w.data)-1] |= 0x80 >> uint(w.nbits&7)
		}
		w.nbits++
	}
}

// WriteFlag writes a single bit.
func (w *Writer) WriteFlag(f bool) {
	if f {
		w.WriteBits(1, 1)
	} else {
		w.WriteBits(0, 1)
	}
}

// Bytes returns the bytes written so far. The last byte is padded with
// zero bits.
func (w *Writer) Bytes() []byte { return w.data }
