package analyze

import (
	"fmt"

	"github.com/ulikunitz/av1"
	"github.com/ulikunitz/av1/block"
	"github.com/ulikunitz/av1/obu"
)

// TileParams describe a single tile.
type TileParams struct {
	// Num is the tile number in raster order.
	Num int
	// Rect is the area of the tile in pixels. It must cover full
	// superblocks.
	Rect           block.Rect
	SuperblockSize int
	Context        block.FrameContext
	// BaseQP is the quantizer index at the start of the tile.
	BaseQP int
}

// Verify checks the parameters for consistency.
func (p *TileParams) Verify() error {
	sb := p.SuperblockSize
	if sb != 64 && sb != 128 {
		return fmt.Errorf("analyze: superblock size %d: %w",
			sb, av1.ErrMalformed)
	}
	r := p.Rect
	if r.W <= 0 || r.H <= 0 || r.X < 0 || r.Y < 0 ||
		r.W%sb != 0 || r.H%sb != 0 || r.X%sb != 0 || r.Y%sb != 0 {
		return fmt.Errorf("analyze: tile area %v for superblock size %d: %w",
			r, sb, av1.ErrMalformed)
	}
	if !(0 <= p.BaseQP && p.BaseQP <= block.MaxQP) {
		return fmt.Errorf("analyze: base qp %d: %w",
			p.BaseQP, av1.ErrMalformed)
	}
	return nil
}

// fingerprint packs the parameters besides the base quantizer index that
// influence the decoded units. Units are cached relative to the tile
// origin, so the position is not included.
func (p *TileParams) fingerprint() uint64 {
	fc := p.Context
	var f uint64
	for i, b := range []bool{fc.KeyFrame, fc.DeltaQ,
		fc.AllowHighPrecisionMV, fc.ForceIntegerMV,
		p.SuperblockSize == 128} {
		if b {
			f |= 1 << uint(i)
		}
	}
	f |= uint64(fc.DeltaQRes&3) << 8
	return uint64(p.Rect.W)<<40 | uint64(p.Rect.H)<<16 | f
}

// FrameParams describe a frame. The values are not derived from the frame
// header, which is only parsed partially.
type FrameParams struct {
	Width, Height  int
	SuperblockSize int
	Tiles          obu.TileInfo
	Context        block.FrameContext
	BaseQP         int
}

// Verify checks the frame parameters.
func (p *FrameParams) Verify() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("analyze: frame size %dx%d: %w",
			p.Width, p.Height, av1.ErrMalformed)
	}
	if p.SuperblockSize != 64 && p.SuperblockSize != 128 {
		return fmt.Errorf("analyze: superblock size %d: %w",
			p.SuperblockSize, av1.ErrMalformed)
	}
	ti := p.Tiles
	if ti.Cols < 1 || ti.Rows < 1 || ti.ColsLog2 < 0 || ti.RowsLog2 < 0 ||
		ti.ColsLog2 > 6 || ti.RowsLog2 > 6 {
		return fmt.Errorf("analyze: tile layout %+v: %w",
			ti, av1.ErrMalformed)
	}
	return nil
}

// tileSpan returns the start and end of tile i in superblocks for a
// uniform tile spacing.
func tileSpan(i, n, log2 int) (start, end int) {
	size := (n + 1<<uint(log2) - 1) >> uint(log2)
	start = i * size
	end = min(start+size, n)
	return start, end
}

// TileParams computes the parameters of tile num. The tiles use the
// uniform spacing of AV1 and cover full superblocks; blocks outside the
// frame are not treated specially.
func (p *FrameParams) TileParams(num int) (TileParams, error) {
	ti := p.Tiles
	if !(0 <= num && num < ti.NumTiles()) {
		return TileParams{}, fmt.Errorf("analyze: tile %d of %d: %w",
			num, ti.NumTiles(), av1.ErrMalformed)
	}
	sb := p.SuperblockSize
	sbCols := (p.Width + sb - 1) / sb
	sbRows := (p.Height + sb - 1) / sb
	x0, x1 := tileSpan(num%ti.Cols, sbCols, ti.ColsLog2)
	y0, y1 := tileSpan(num/ti.Cols, sbRows, ti.RowsLog2)
	if x0 >= x1 || y0 >= y1 {
		return TileParams{}, fmt.Errorf(
			"analyze: tile %d outside of %dx%d frame: %w",
			num, p.Width, p.Height, av1.ErrMalformed)
	}
	return TileParams{
		Num: num,
		Rect: block.Rect{
			X: x0 * sb, Y: y0 * sb,
			W: (x1 - x0) * sb, H: (y1 - y0) * sb,
		},
		SuperblockSize: sb,
		Context:        p.Context,
		BaseQP:         p.BaseQP,
	}, nil
}

// StreamParams provide the frame level values that are not parsed from
// the stream.
type StreamParams struct {
	BaseQP               int
	DeltaQ               bool
	DeltaQRes            uint
	AllowHighPrecisionMV bool
	// Tiles is the tile layout of all frames. A zero value means a
	// single tile.
	Tiles obu.TileInfo
	// FrameHeaderSize is the number of bytes of the frame header in
	// frame units. Tiles of frame units are not decoded if it is zero.
	FrameHeaderSize int
	// Width and Height override the maximum frame size of the sequence
	// header.
	Width, Height int
}

// frameParams derives the parameters for a frame.
func (p *StreamParams) frameParams(seq *obu.SeqHeader,
	hdr obu.FrameHeaderPrefix) FrameParams {

	fp := FrameParams{
		Width:          seq.MaxFrameWidth,
		Height:         seq.MaxFrameHeight,
		SuperblockSize: seq.SuperblockSize(),
		Tiles:          p.Tiles,
		Context: block.FrameContext{
			KeyFrame:             hdr.IsIntra(),
			DeltaQ:               p.DeltaQ,
			DeltaQRes:            p.DeltaQRes,
			AllowHighPrecisionMV: p.AllowHighPrecisionMV,
			ForceIntegerMV:       seq.ForceIntegerMV == 1,
		},
		BaseQP: p.BaseQP,
	}
	if p.Width > 0 {
		fp.Width = p.Width
	}
	if p.Height > 0 {
		fp.Height = p.Height
	}
	if fp.Tiles == (obu.TileInfo{}) {
		fp.Tiles = obu.SingleTile
	}
	return fp
}
