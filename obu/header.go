package obu

import (
	"fmt"

	"github.com/ulikunitz/av1"
)

// Header is the header of an open bitstream unit.
type Header struct {
	Type Type
	// Forbidden is the forbidden bit. ParseHeader never returns a header
	// with the bit set; the field exists for writing test streams.
	Forbidden bool
	Extension bool
	HasSize   bool
	// Only valid if Extension is set.
	TemporalID uint8
	SpatialID  uint8
}

// Len returns the encoded length of the header in bytes.
func (h Header) Len() int {
	if h.Extension {
		return 2
	}
	return 1
}

// ParseHeader parses the header at the start of p and returns it together
// with the number of bytes it occupies.
func ParseHeader(p []byte) (h Header, n int, err error) {
	if len(p) < 1 {
		return Header{}, 0, fmt.Errorf("obu: no header byte: %w",
			av1.ErrTruncated)
	}
	b := p[0]
	if b&0x80 != 0 {
		return Header{}, 0, fmt.Errorf("obu: forbidden bit set: %w",
			av1.ErrMalformed)
	}
	h = Header{
		Type:      Type(b>>3) & 0xf,
		Extension: b&0x04 != 0,
		HasSize:   b&0x02 != 0,
	}
	if !h.Extension {
		return h, 1, nil
	}
	if len(p) < 2 {
		return Header{}, 0, fmt.Errorf("obu: no extension byte: %w",
			av1.ErrTruncated)
	}
	h.TemporalID = p[1] >> 5
	h.SpatialID = (p[1] >> 3) & 0x3
	return h, 2, nil
}

// AppendBinary appends the encoded header to p.
func (h Header) AppendBinary(p []byte) []byte {
	b := byte(h.Type&0xf) << 3
	if h.Forbidden {
		b |= 0x80
	}
	if h.Extension {
		b |= 0x04
	}
	if h.HasSize {
		b |= 0x02
	}
	p = append(p, b)
	if h.Extension {
		p = append(p, (h.TemporalID&0x7)<<5|(h.SpatialID&0x3)<<3)
	}
	return p
}
