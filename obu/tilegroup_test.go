package obu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulikunitz/av1"
)

func TestSplitTileGroupSingle(t *testing.T) {
	data := []byte{1, 2, 3}
	tiles, err := SplitTileGroup(data, SingleTile)
	require.NoError(t, err)
	require.Len(t, tiles, 1)
	assert.Equal(t, data, tiles[0].Data)
}

func TestSplitTileGroup(t *testing.T) {
	ti := TileInfo{Cols: 2, Rows: 2, ColsLog2: 1, RowsLog2: 1,
		SizeBytes: 2}
	in := [][]byte{{1}, {2, 2}, {3, 3, 3}, {4, 4, 4, 4}}
	p := AppendTileGroup(nil, ti, in)
	tiles, err := SplitTileGroup(p, ti)
	require.NoError(t, err)
	require.Len(t, tiles, 4)
	for i, tile := range tiles {
		assert.Equal(t, i, tile.Num)
		assert.Equal(t, in[i], tile.Data)
	}

	_, err = SplitTileGroup(p[:6], ti)
	assert.ErrorIs(t, err, av1.ErrTruncated)
}

func TestSplitTileGroupRange(t *testing.T) {
	ti := TileInfo{Cols: 4, Rows: 1, ColsLog2: 2, SizeBytes: 1}
	// flag=1, tg_start=2, tg_end=3: 1 10 11 000
	p := []byte{0xd8, 0x00, 7, 8, 9}
	tiles, err := SplitTileGroup(p, ti)
	require.NoError(t, err)
	require.Len(t, tiles, 2)
	assert.Equal(t, 2, tiles[0].Num)
	assert.Equal(t, []byte{7}, tiles[0].Data)
	assert.Equal(t, 3, tiles[1].Num)
	assert.Equal(t, []byte{8, 9}, tiles[1].Data)

	// tg_start=3, tg_end=2: 1 11 10 000
	_, err = SplitTileGroup([]byte{0xf0, 0}, ti)
	assert.ErrorIs(t, err, av1.ErrMalformed)
}
