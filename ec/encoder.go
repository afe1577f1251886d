package ec

import (
	"fmt"

	"github.com/ulikunitz/av1"
)

// Encoder encodes symbols so that the Decoder reproduces them. It follows
// the encoder of the AV1 reference implementation: low collects the
// interval base, bytes are buffered as 16-bit values before the carry is
// propagated in Bytes.
type Encoder struct {
	low uint64
	rng uint32
	// cnt counts the bits in low that are not yet output, offset by 16.
	cnt int
	buf []uint16
}

// NewEncoder creates a new encoder.
func NewEncoder() *Encoder {
	return &Encoder{rng: 1 << windowBits, cnt: -9}
}

// WriteSymbol encodes symbol using the table cdf.
func (e *Encoder) WriteSymbol(symbol int, cdf CDF) error {
	if err := cdf.Verify(); err != nil {
		return err
	}
	n := cdf.Symbols()
	if !(0 <= symbol && symbol < n) {
		return fmt.Errorf("ec: symbol %d out of range [0,%d)", symbol, n)
	}
	fl := uint32(ProbTop - cdf[symbol])
	fh := uint32(ProbTop - cdf[symbol+1])
	r, l := e.rng, e.low
	v := ((r >> 8) * (fh >> probShift) >> (7 - probShift)) +
		minProb*uint32(n-1-symbol)
	if symbol > 0 {
		u := ((r >> 8) * (fl >> probShift) >> (7 - probShift)) +
			minProb*uint32(n-symbol)
		if u > r {
			return fmt.Errorf("ec: symbol %d has no probability: %w",
				symbol, av1.ErrMalformed)
		}
		l += uint64(r - u)
		r = u - v
	} else {
		if v >= r {
			return fmt.Errorf("ec: symbol %d has no probability: %w",
				symbol, av1.ErrMalformed)
		}
		r -= v
	}
	e.normalize(l, r)
	return nil
}

// WriteBool encodes a bit with probability 1/2.
func (e *Encoder) WriteBool(b bool) error {
	s := 0
	if b {
		s = 1
	}
	return e.WriteSymbol(s, boolCDF)
}

// WriteLiteral encodes the n least-significant bits of x, most-significant
// bit first.
func (e *Encoder) WriteLiteral(x uint32, n int) error {
	for i := n - 1; i >= 0; i-- {
		if err := e.WriteBool((x>>uint(i))&1 != 0); err != nil {
			return err
		}
	}
	return nil
}

// normalize renormalizes the range and outputs the bytes that are settled.
func (e *Encoder) normalize(low uint64, rng uint32) {
	c := e.cnt
	d := windowBits - floorLog2(rng)
	s := c + d
	if s >= 0 {
		c += 16
		m := uint64(1)<<uint(c) - 1
		if s >= 8 {
			e.buf = append(e.buf, uint16(low>>uint(c)))
			low &= m
			c -= 8
			m >>= 8
		}
		e.buf = append(e.buf, uint16(low>>uint(c)))
		s = c + d - 24
		low &= m
	}
	e.low = low << uint(d)
	e.rng = rng << uint(d)
	e.cnt = s
}

// Bytes flushes the encoder state and returns the encoded data. The
// encoder may still be used afterwards; Bytes doesn't change its state.
// The result has at least MinInput bytes.
func (e *Encoder) Bytes() []byte {
	const m = 0x3fff
	c := e.cnt
	s := 10 + c
	x := ((e.low + m) &^ m) | (m + 1)
	buf := append([]uint16(nil), e.buf...)
	if s > 0 {
		n := uint64(1)<<uint(c+16) - 1
		for s > 0 {
			buf = append(buf, uint16(x>>uint(c+16)))
			x &= n
			s -= 8
			c -= 8
			n >>= 8
		}
	}
	out := make([]byte, len(buf), max(len(buf), MinInput))
	var carry uint32
	for i := len(buf) - 1; i >= 0; i-- {
		carry += uint32(buf[i])
		out[i] = byte(carry)
		carry >>= 8
	}
	for len(out) < MinInput {
		out = append(out, 0)
	}
	return out
}
