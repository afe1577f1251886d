package obu

import (
	"fmt"

	"github.com/ulikunitz/av1"
	"github.com/ulikunitz/av1/internal/bitio"
)

// TileInfo describes the tile layout of a frame. The values come from the
// tile_info syntax of the frame header.
type TileInfo struct {
	Cols     int
	Rows     int
	ColsLog2 int
	RowsLog2 int
	// SizeBytes is the number of bytes of the tile_size_minus_1 fields;
	// range [1,4].
	SizeBytes int
}

// NumTiles returns the number of tiles of the frame.
func (ti TileInfo) NumTiles() int { return ti.Cols * ti.Rows }

// SingleTile is the layout of a frame with one tile.
var SingleTile = TileInfo{Cols: 1, Rows: 1, SizeBytes: 4}

// Tile is the payload of a single tile.
type Tile struct {
	Num  int
	Data []byte
}

// SplitTileGroup splits the payload of a tile group into tiles. For frame
// units the payload must start after the byte-aligned frame header.
func SplitTileGroup(data []byte, ti TileInfo) ([]Tile, error) {
	numTiles := ti.NumTiles()
	if numTiles < 1 {
		return nil, fmt.Errorf("obu: %d tiles: %w",
			numTiles, av1.ErrMalformed)
	}
	if numTiles > 1 && !(1 <= ti.SizeBytes && ti.SizeBytes <= 4) {
		return nil, fmt.Errorf("obu: tile size bytes %d: %w",
			ti.SizeBytes, av1.ErrMalformed)
	}
	r := bitio.NewReader(data)
	start, end := 0, numTiles-1
	if numTiles > 1 {
		present, err := r.Flag()
		if err != nil {
			return nil, fmt.Errorf("obu: tile group: %w", err)
		}
		if present {
			tileBits := ti.ColsLog2 + ti.RowsLog2
			s, err := r.F(tileBits)
			if err != nil {
				return nil, fmt.Errorf("obu: tile group: %w", err)
			}
			e, err := r.F(tileBits)
			if err != nil {
				return nil, fmt.Errorf("obu: tile group: %w", err)
			}
			start, end = int(s), int(e)
		}
	}
	if start > end || end >= numTiles {
		return nil, fmt.Errorf("obu: tile group range [%d,%d] of %d: %w",
			start, end, numTiles, av1.ErrMalformed)
	}
	r.ByteAlign()
	pos := r.BytePos()
	tiles := make([]Tile, 0, end-start+1)
	for num := start; num <= end; num++ {
		if num == end {
			tiles = append(tiles, Tile{num, data[pos:]})
			break
		}
		v, err := bitio.NewReader(data[pos:]).LE(ti.SizeBytes)
		if err != nil {
			return tiles, fmt.Errorf("obu: tile %d size: %w", num, err)
		}
		pos += ti.SizeBytes
		size := v + 1
		if size > uint64(len(data)-pos) {
			return tiles, fmt.Errorf(
				"obu: tile %d size %d exceeds %d bytes left: %w",
				num, size, len(data)-pos, av1.ErrTruncated)
		}
		k := pos + int(size)
		tiles = append(tiles, Tile{num, data[pos:k:k]})
		pos = k
	}
	return tiles, nil
}

// AppendTileGroup appends a tile group payload without start and end
// fields for the given tiles. It is the inverse of SplitTileGroup and is
// used to build test streams.
func AppendTileGroup(p []byte, ti TileInfo, tiles [][]byte) []byte {
	if ti.NumTiles() > 1 {
		// tile_start_and_end_present_flag = 0 and byte alignment
		p = append(p, 0)
	}
	for i, t := range tiles {
		if i < len(tiles)-1 {
			v := uint64(len(t) - 1)
			for k := 0; k < ti.SizeBytes; k++ {
				p = append(p, byte(v>>(8*uint(k))))
			}
		}
		p = append(p, t...)
	}
	return p
}
