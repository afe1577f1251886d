package block

import (
	"fmt"

	"github.com/ulikunitz/av1/internal/bits"
)

// BlockSize identifies one of the block sizes supported by AV1. The values
// follow the order used by the AV1 specification.
type BlockSize uint8

// Block sizes
const (
	Block4x4 BlockSize = iota
	Block4x8
	Block8x4
	Block8x8
	Block8x16
	Block16x8
	Block16x16
	Block16x32
	Block32x16
	Block32x32
	Block32x64
	Block64x32
	Block64x64
	Block64x128
	Block128x64
	Block128x128
	Block4x16
	Block16x4
	Block8x32
	Block32x8
	Block16x64
	Block64x16
	numBlockSizes
)

var blockDims = [numBlockSizes]struct{ w, h int }{
	{4, 4}, {4, 8}, {8, 4}, {8, 8}, {8, 16}, {16, 8}, {16, 16},
	{16, 32}, {32, 16}, {32, 32}, {32, 64}, {64, 32}, {64, 64},
	{64, 128}, {128, 64}, {128, 128}, {4, 16}, {16, 4}, {8, 32},
	{32, 8}, {16, 64}, {64, 16},
}

// Valid reports whether bs is a defined block size.
func (bs BlockSize) Valid() bool { return bs < numBlockSizes }

// Width returns the width in pixels.
func (bs BlockSize) Width() int { return blockDims[bs].w }

// Height returns the height in pixels.
func (bs BlockSize) Height() int { return blockDims[bs].h }

// Log2 returns the base-2 logarithm of the larger side.
func (bs BlockSize) Log2() int {
	return bits.FloorLog2(uint32(max(bs.Width(), bs.Height())))
}

// Area returns the number of pixels covered by the block.
func (bs BlockSize) Area() int { return bs.Width() * bs.Height() }

func (bs BlockSize) String() string {
	if !bs.Valid() {
		return fmt.Sprintf("BlockSize(%d)", uint8(bs))
	}
	return fmt.Sprintf("%dx%d", bs.Width(), bs.Height())
}

// SizeOf returns the block size for the given dimensions. The flag is
// false if AV1 doesn't support the dimensions.
func SizeOf(w, h int) (bs BlockSize, ok bool) {
	for i, d := range blockDims {
		if d.w == w && d.h == h {
			return BlockSize(i), true
		}
	}
	return 0, false
}

// Rect is a rectangle in pixel coordinates of the frame.
type Rect struct {
	X, Y int
	W, H int
}

// Area returns the number of pixels in the rectangle.
func (r Rect) Area() int { return r.W * r.H }

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", r.W, r.H, r.X, r.Y)
}
