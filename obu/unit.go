package obu

import (
	"fmt"
	"io"

	"github.com/ulikunitz/av1"
	"github.com/ulikunitz/av1/leb128"
)

// Unit is an open bitstream unit. The payload references the buffer the
// unit has been parsed from; the unit must not outlive it.
type Unit struct {
	Header Header
	// Offset of the first header byte in the parsed buffer.
	Offset int
	// Payload without header and size field.
	Payload []byte
	// Size is the total number of bytes spanned by the unit.
	Size int
}

// ParseOne parses the unit starting at offset in p. It returns the unit and
// the number of bytes consumed. Units without size field extend to the end
// of p. The budget b is consulted for the payload size; nil means
// Unlimited.
func ParseOne(p []byte, offset int, b Budget) (u Unit, n int, err error) {
	if offset < 0 || offset > len(p) {
		return Unit{}, 0, &Error{offset, fmt.Errorf(
			"offset beyond buffer of %d bytes: %w",
			len(p), av1.ErrTruncated)}
	}
	if b == nil {
		b = Unlimited
	}
	q := p[offset:]
	h, n, err := ParseHeader(q)
	if err != nil {
		return Unit{}, 0, &Error{offset, err}
	}
	var size uint64
	if h.HasSize {
		var k int
		size, k, err = leb128.Decode(q[n:])
		if err != nil {
			return Unit{}, 0, &Error{offset, err}
		}
		n += k
	} else {
		size = uint64(len(q) - n)
	}
	if size > uint64(len(q)-n) {
		return Unit{}, 0, &Error{offset, fmt.Errorf(
			"payload size %d exceeds remaining %d bytes: %w",
			size, len(q)-n, av1.ErrTruncated)}
	}
	if err = b.Reserve(int64(size)); err != nil {
		return Unit{}, 0, &Error{offset, err}
	}
	end := n + int(size)
	u = Unit{
		Header:  h,
		Offset:  offset,
		Payload: q[n:end:end],
		Size:    end,
	}
	return u, end, nil
}

// ParseAll parses all units in p. An empty buffer results in an empty list.
// On error the units parsed before the failing one are returned together
// with the error.
func ParseAll(p []byte) ([]Unit, error) {
	r := NewReader(p, nil)
	units := []Unit{}
	for {
		u, err := r.Next()
		if err != nil {
			if err == io.EOF {
				return units, nil
			}
			return units, err
		}
		units = append(units, u)
	}
}

// AppendUnit appends a unit with header h and the given payload to p. If
// h.HasSize is set the payload size is written as leb128 value.
func AppendUnit(p []byte, h Header, payload []byte) []byte {
	p = h.AppendBinary(p)
	if h.HasSize {
		p = leb128.Append(p, uint64(len(payload)))
	}
	return append(p, payload...)
}
