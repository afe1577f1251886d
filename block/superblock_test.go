package block

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/av1"
	"github.com/ulikunitz/av1/ec"
)

func TestParseSuperblockQP(t *testing.T) {
	m := ec.DefaultModel()
	w := newSymbolWriter(t).sym(int(PartitionSplit), m.PartitionCDF(6))
	for i := 0; i < 4; i++ {
		w.sym(int(PartitionNone), m.PartitionCDF(5))
	}
	for i := 0; i < 4; i++ {
		w.sym(0, m.Skip).sym(1, m.DeltaQAbs).lit(0, 1).
			sym(int(DCPred), m.YMode)
	}
	fc := FrameContext{KeyFrame: true, DeltaQ: true}
	sb, qp, err := ParseSuperblock(w.decoder(), m, 64, 0, 64, fc, 100,
		NewMVContext())
	require.NoError(t, err)
	assert.Equal(t, 104, qp)
	require.Len(t, sb.Units, 4)
	pos := [][2]int{{64, 0}, {96, 0}, {64, 32}, {96, 32}}
	for i, cu := range sb.Units {
		assert.Equal(t, 101+i, cu.QP, "unit %d", i)
		assert.Equal(t, pos[i], [2]int{cu.X, cu.Y}, "unit %d", i)
		assert.Equal(t, 32, cu.Width)
	}
	assert.Empty(t, sb.MotionVectors())
}

func TestParseSuperblockInter(t *testing.T) {
	m := ec.DefaultModel()
	w := newSymbolWriter(t).sym(int(PartitionVert), m.PartitionCDF(7)).
		sym(int(PartitionNone), m.PartitionCDF(7)).
		sym(int(PartitionNone), m.PartitionCDF(7))
	// left 64x128: GlobalMV on Last
	w.sym(0, m.Skip).sym(1, m.IsInter).sym(0, m.CompMode).
		sym(0, m.RefFrame).sym(int(GlobalMV-NearestMV), m.InterMode)
	// right 64x128: intra
	w.sym(0, m.Skip).sym(0, m.IsInter).sym(int(VPred), m.YMode)
	sb, _, err := ParseSuperblock(w.decoder(), m, 0, 128, 128,
		FrameContext{}, 30, NewMVContext())
	require.NoError(t, err)
	require.Len(t, sb.Units, 2)
	assert.Equal(t, []MVEntry{
		{X: 0, Y: 128, Width: 64, Height: 128, Ref: LastFrame,
			Ref2: NoneFrame},
	}, sb.MotionVectors())
}

func TestMotionVectors(t *testing.T) {
	units := []CodingUnit{
		{X: 0, Width: 8, Height: 8, Mode: DCPred,
			Refs: [2]RefFrame{IntraFrame, NoneFrame}},
		{X: 8, Width: 8, Height: 8, Mode: GlobalMV,
			Refs: [2]RefFrame{LastFrame, NoneFrame}},
		{X: 16, Width: 8, Height: 8, Mode: NewNewMV,
			Refs: [2]RefFrame{LastFrame, GoldenFrame},
			MVs:  [2]MotionVector{{Row: 4}, {Col: -4}}},
	}
	got := MotionVectors(units)
	want := []MVEntry{
		{X: 8, Width: 8, Height: 8, Ref: LastFrame, Ref2: NoneFrame},
		{X: 16, Width: 8, Height: 8,
			Ref: LastFrame, MV: MotionVector{Row: 4},
			Ref2: GoldenFrame, MV2: MotionVector{Col: -4}},
	}
	assert.Equal(t, want, got)
	assert.False(t, got[0].IsCompound())
	assert.True(t, got[1].IsCompound())
}

func TestMotionVectorsCompoundUnit(t *testing.T) {
	sb := &Superblock{Units: []CodingUnit{
		{X: 16, Width: 8, Height: 8, Mode: NewNewMV,
			Refs: [2]RefFrame{LastFrame, GoldenFrame},
			MVs:  [2]MotionVector{{Row: 4}, {Col: -4}}},
	}}
	mvs := sb.MotionVectors()
	if len(mvs) != 1 {
		t.Fatalf("MotionVectors() returned %d entries; want 1", len(mvs))
	}
	if mvs[0].MV != (MotionVector{Row: 4}) ||
		mvs[0].MV2 != (MotionVector{Col: -4}) {
		t.Errorf("MotionVectors()[0] = %v; want vectors (4,0) and (0,-4)",
			mvs[0])
	}
}

func TestParseSuperblockSize(t *testing.T) {
	d := newSymbolWriter(t).decoder()
	for _, size := range []int{0, 32, 96, 256} {
		_, _, err := ParseSuperblock(d, ec.DefaultModel(), 0, 0, size,
			FrameContext{}, 0, NewMVContext())
		if !errors.Is(err, av1.ErrMalformed) {
			t.Errorf("size %d: error %v; want %v", size, err,
				av1.ErrMalformed)
		}
	}
}

func TestParseSuperblockRandomInput(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	m := ec.DefaultModel()
	for i := 0; i < 500; i++ {
		p := make([]byte, 2+r.Intn(64))
		r.Read(p)
		d, err := ec.NewDecoder(p)
		require.NoError(t, err)
		fc := FrameContext{
			KeyFrame:             i%3 == 0,
			DeltaQ:               i%2 == 0,
			DeltaQRes:            uint(i % 4),
			AllowHighPrecisionMV: i%5 == 0,
		}
		_, qp, err := ParseSuperblock(d, m, 0, 0, 64<<(i%2), fc, 128,
			NewMVContext())
		if err != nil && !errors.Is(err, av1.ErrTruncated) &&
			!errors.Is(err, av1.ErrMalformed) {
			t.Fatalf("input %x: unexpected error %v", p, err)
		}
		if qp < MinQP || qp > MaxQP {
			t.Fatalf("input %x: qp %d out of range", p, qp)
		}
	}
}
