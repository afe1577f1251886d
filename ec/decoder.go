package ec

import (
	"fmt"

	"github.com/ulikunitz/av1"
	"github.com/ulikunitz/av1/internal/bits"
	"github.com/ulikunitz/av1/internal/xlog"
)

const (
	// probShift is EC_PROB_SHIFT.
	probShift = 6
	// minProb is EC_MIN_PROB; it guarantees every symbol a minimum
	// interval width.
	minProb = 4
	// windowBits is the width of the range register.
	windowBits = 15
	// MinInput is the number of bytes required to prime the decoder.
	MinInput = 2
	// maxPadding is the number of bits the decoder may read past the end
	// of its input. AV1 requires SymbolMaxBits >= -14 for conforming
	// streams.
	maxPadding = 14
)

func floorLog2(x uint32) int { return bits.FloorLog2(x) }

// boolCDF is the table used by read_bool.
var boolCDF = CDF{0, 1 << 14, ProbTop}

// Decoder decodes symbols from the payload of a tile.
type Decoder struct {
	data []byte
	// bit position in data
	pos int
	rng uint32
	val uint32
	// maxBits is SymbolMaxBits: the number of bits left in data. It
	// becomes negative once the decoder pads with zeros.
	maxBits int
	// for debugging
	symbolCounter int
}

// NewDecoder creates a decoder for the tile payload p. It fails if p has
// fewer than MinInput bytes.
func NewDecoder(p []byte) (*Decoder, error) {
	if len(p) < MinInput {
		return nil, fmt.Errorf(
			"ec: %d bytes can't prime the decoder: %w",
			len(p), av1.ErrTruncated)
	}
	d := &Decoder{data: p}
	numBits := min(8*len(p), windowBits)
	buf := d.readBits(numBits)
	padded := buf << uint(windowBits-numBits)
	d.val = (1<<windowBits - 1) ^ padded
	d.rng = 1 << windowBits
	d.maxBits = 8*len(p) - windowBits
	return d, nil
}

// readBits reads n bits; the caller guarantees that they are available.
func (d *Decoder) readBits(n int) uint32 {
	var x uint32
	for i := 0; i < n; i++ {
		b := d.data[d.pos>>3] >> (7 - uint(d.pos&7))
		x = x<<1 | uint32(b&1)
		d.pos++
	}
	return x
}

// Range returns the current value of the range register.
func (d *Decoder) Range() uint32 { return d.rng }

// Value returns the current value of the value register.
func (d *Decoder) Value() uint32 { return d.val }

// BitsLeft returns the number of input bits not consumed yet. The value is
// negative if the decoder reads padding.
func (d *Decoder) BitsLeft() int { return d.maxBits }

// ReadSymbol decodes a symbol using the table cdf.
func (d *Decoder) ReadSymbol(cdf CDF) (symbol int, err error) {
	if err = cdf.Verify(); err != nil {
		return 0, err
	}
	n := cdf.Symbols()
	cur := d.rng
	var prev uint32
	symbol = -1
	for {
		symbol++
		prev = cur
		f := uint32(ProbTop - cdf[symbol+1])
		cur = ((d.rng >> 8) * (f >> probShift) >> (7 - probShift)) +
			minProb*uint32(n-symbol-1)
		if d.val >= cur {
			break
		}
	}
	rng := prev - cur
	nbits := windowBits - floorLog2(rng)
	if d.maxBits-nbits < -maxPadding {
		return 0, fmt.Errorf(
			"ec: symbol %d needs %d bits, %d left: %w",
			d.symbolCounter, nbits, d.maxBits, av1.ErrTruncated)
	}
	d.symbolCounter++
	d.rng = rng << uint(nbits)
	k := min(nbits, max(0, d.maxBits))
	newData := d.readBits(k)
	padded := newData << uint(nbits-k)
	d.val = padded ^ (((d.val-cur)+1)<<uint(nbits) - 1)
	d.maxBits -= nbits

	xlog.Printf(debug, "S %4d 0x%04x 0x%04x %d/%d\n",
		d.symbolCounter, d.rng, d.val, symbol, n)
	return symbol, nil
}

// ReadAdaptive decodes a symbol using the adaptive table a and updates it.
func (d *Decoder) ReadAdaptive(a *Adaptive) (symbol int, err error) {
	if symbol, err = d.ReadSymbol(a.CDF); err != nil {
		return 0, err
	}
	a.Update(symbol)
	return symbol, nil
}

// ReadBool decodes a bit with probability 1/2.
func (d *Decoder) ReadBool() (bool, error) {
	s, err := d.ReadSymbol(boolCDF)
	return s == 1, err
}

// ReadLiteral decodes an n-bit unsigned number, most-significant bit
// first.
func (d *Decoder) ReadLiteral(n int) (uint32, error) {
	var x uint32
	for i := 0; i < n; i++ {
		b, err := d.ReadBool()
		if err != nil {
			return 0, err
		}
		x <<= 1
		if b {
			x |= 1
		}
	}
	return x, nil
}
