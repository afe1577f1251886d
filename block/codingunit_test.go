package block

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/av1"
	"github.com/ulikunitz/av1/ec"
)

var testRect = Rect{X: 16, Y: 48, W: 16, H: 8}

func TestDecodeIntra(t *testing.T) {
	m := ec.DefaultModel()
	d := newSymbolWriter(t).
		sym(1, m.Skip).
		sym(int(PaethPred), m.YMode).
		decoder()
	cu, qp, err := DecodeCodingUnit(d, m, testRect,
		FrameContext{KeyFrame: true}, 100, NewMVContext())
	require.NoError(t, err)
	assert.Equal(t, 100, qp)
	assert.Equal(t, CodingUnit{
		X: 16, Y: 48, Width: 16, Height: 8,
		Skip: true,
		Mode: PaethPred,
		Refs: [2]RefFrame{IntraFrame, NoneFrame},
		QP:   100,
	}, cu)
	assert.False(t, cu.IsInter())
	assert.Equal(t, 0, cu.NumRefs())
}

func TestDecodeDeltaQ(t *testing.T) {
	m := ec.DefaultModel()
	tests := []struct {
		name  string
		res   uint
		qp    int
		write func(w *symbolWriter)
		want  int
	}{
		{"zero", 0, 100, func(w *symbolWriter) {
			w.sym(0, m.DeltaQAbs)
		}, 100},
		{"negative", 1, 100, func(w *symbolWriter) {
			w.sym(2, m.DeltaQAbs).lit(1, 1)
		}, 96},
		{"rem_bits", 0, 100, func(w *symbolWriter) {
			w.sym(3, m.DeltaQAbs).lit(1, 3).lit(3, 2).lit(0, 1)
		}, 108},
		{"clip_high", 2, 250, func(w *symbolWriter) {
			w.sym(2, m.DeltaQAbs).lit(0, 1)
		}, MaxQP},
		{"clip_low", 1, 3, func(w *symbolWriter) {
			w.sym(3, m.DeltaQAbs).lit(0, 3).lit(0, 1).lit(1, 1)
		}, MinQP},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newSymbolWriter(t).sym(0, m.Skip)
			tc.write(w)
			w.sym(int(DCPred), m.YMode)
			fc := FrameContext{KeyFrame: true, DeltaQ: true,
				DeltaQRes: tc.res}
			cu, qp, err := DecodeCodingUnit(w.decoder(), m, testRect,
				fc, tc.qp, NewMVContext())
			require.NoError(t, err)
			if qp != tc.want {
				t.Errorf("qp = %d; want %d", qp, tc.want)
			}
			if cu.QP != tc.want {
				t.Errorf("cu.QP = %d; want %d", cu.QP, tc.want)
			}
		})
	}
}

func TestDecodeNewMV(t *testing.T) {
	m := ec.DefaultModel()
	w := newSymbolWriter(t).
		sym(0, m.Skip).
		sym(1, m.IsInter).
		sym(0, m.CompMode).
		sym(3, m.RefFrame).
		sym(3, m.InterMode).
		sym(3, m.MVJoint)
	// row: negative, class 0
	w.sym(1, m.MVSign).sym(0, m.MVClass).sym(1, m.MVClass0Bit).
		sym(2, m.MVClass0Fr[1]).sym(1, m.MVClass0HP)
	// col: positive, class 2
	w.sym(0, m.MVSign).sym(2, m.MVClass).
		sym(1, m.MVBits[0]).sym(0, m.MVBits[1]).
		sym(0, m.MVFr).sym(0, m.MVHP)
	// NearestMV and NearMV reuse the vector.
	w.sym(0, m.Skip).sym(1, m.IsInter).sym(0, m.CompMode).
		sym(3, m.RefFrame).sym(0, m.InterMode)
	w.sym(0, m.Skip).sym(1, m.IsInter).sym(0, m.CompMode).
		sym(3, m.RefFrame).sym(1, m.InterMode)

	d := w.decoder()
	mvc := NewMVContext()
	fc := FrameContext{AllowHighPrecisionMV: true}
	want := MotionVector{Row: -14, Col: 41}
	for i, mode := range []PredictionMode{NewMV, NearestMV, NearMV} {
		cu, _, err := DecodeCodingUnit(d, m, testRect, fc, 60, mvc)
		require.NoError(t, err, "unit %d", i)
		assert.Equal(t, mode, cu.Mode)
		assert.Equal(t, [2]RefFrame{GoldenFrame, NoneFrame}, cu.Refs)
		assert.Equal(t, want, cu.MVs[0], "unit %d", i)
		assert.True(t, cu.MVs[1].IsZero())
		assert.Equal(t, 1, cu.NumRefs())
	}
	assert.Equal(t, want, mvc.Nearest(GoldenFrame))
	assert.True(t, mvc.Nearest(LastFrame).IsZero())
}

func TestDecodeForceIntegerMV(t *testing.T) {
	m := ec.DefaultModel()
	d := newSymbolWriter(t).
		sym(0, m.Skip).sym(1, m.IsInter).sym(0, m.CompMode).
		sym(0, m.RefFrame).sym(int(NewMV-NearestMV), m.InterMode).
		sym(2, m.MVJoint).
		sym(0, m.MVSign).sym(0, m.MVClass).sym(0, m.MVClass0Bit).
		decoder()
	mvc := NewMVContext()
	mvc.Push(LastFrame, MotionVector{Row: 13, Col: -5})
	fc := FrameContext{ForceIntegerMV: true}
	cu, _, err := DecodeCodingUnit(d, m, testRect, fc, 60, mvc)
	require.NoError(t, err)
	// prediction (16,-8) plus one full pixel in row direction
	assert.Equal(t, MotionVector{Row: 24, Col: -8}, cu.MVs[0])
}

func TestDecodeLowerPrecision(t *testing.T) {
	m := ec.DefaultModel()
	tests := []struct {
		fc   FrameContext
		want MotionVector
	}{
		{FrameContext{AllowHighPrecisionMV: true},
			MotionVector{Row: 3, Col: -5}},
		{FrameContext{}, MotionVector{Row: 2, Col: -4}},
		{FrameContext{ForceIntegerMV: true},
			MotionVector{Row: 0, Col: -8}},
	}
	for _, tc := range tests {
		d := newSymbolWriter(t).
			sym(0, m.Skip).sym(1, m.IsInter).sym(0, m.CompMode).
			sym(0, m.RefFrame).sym(0, m.InterMode).
			decoder()
		mvc := NewMVContext()
		mvc.Push(LastFrame, MotionVector{Row: 3, Col: -5})
		cu, _, err := DecodeCodingUnit(d, m, testRect, tc.fc, 60, mvc)
		require.NoError(t, err)
		if cu.MVs[0] != tc.want {
			t.Errorf("%+v: mv %v; want %v", tc.fc, cu.MVs[0], tc.want)
		}
	}
}

func TestDecodeCompound(t *testing.T) {
	m := ec.DefaultModel()
	d := newSymbolWriter(t).
		sym(0, m.Skip).sym(1, m.IsInter).sym(1, m.CompMode).
		sym(0, m.RefFrame).sym(6, m.RefFrame).
		sym(int(NearestNewMV-NearestNearestMV), m.CompoundMode).
		sym(0, m.MVJoint).
		decoder()
	mvc := NewMVContext()
	mvc.Push(LastFrame, MotionVector{Row: 16, Col: 16})
	cu, _, err := DecodeCodingUnit(d, m, testRect,
		FrameContext{AllowHighPrecisionMV: true}, 60, mvc)
	require.NoError(t, err)
	assert.Equal(t, NearestNewMV, cu.Mode)
	assert.True(t, cu.Mode.IsCompound())
	assert.Equal(t, [2]RefFrame{LastFrame, AltRefFrame}, cu.Refs)
	assert.Equal(t, [2]MotionVector{{Row: 16, Col: 16}, {}}, cu.MVs)
	assert.Equal(t, 2, cu.NumRefs())
}

func TestDecodeErrors(t *testing.T) {
	m := ec.DefaultModel()

	d := newSymbolWriter(t).
		sym(0, m.Skip).sym(1, m.IsInter).sym(1, m.CompMode).
		sym(2, m.RefFrame).sym(2, m.RefFrame).
		sym(0, m.CompoundMode).
		decoder()
	_, _, err := DecodeCodingUnit(d, m, testRect, FrameContext{}, 60,
		NewMVContext())
	if !errors.Is(err, av1.ErrMalformed) {
		t.Errorf("duplicate references: error %v; want %v",
			err, av1.ErrMalformed)
	}

	d = newSymbolWriter(t).decoder()
	_, _, err = DecodeCodingUnit(d, m, testRect,
		FrameContext{DeltaQ: true, DeltaQRes: 4}, 60, NewMVContext())
	if !errors.Is(err, av1.ErrMalformed) {
		t.Errorf("DeltaQRes 4: error %v; want %v", err, av1.ErrMalformed)
	}

	wide := *m
	wide.YMode = make(ec.CDF, NumIntraModes+2)
	for i := range wide.YMode {
		wide.YMode[i] = uint16(i * ec.ProbTop / (NumIntraModes + 1))
	}
	d = newSymbolWriter(t).sym(0, m.Skip).sym(NumIntraModes, wide.YMode).
		decoder()
	_, _, err = DecodeCodingUnit(d, &wide, testRect,
		FrameContext{KeyFrame: true}, 60, NewMVContext())
	if !errors.Is(err, av1.ErrMalformed) {
		t.Errorf("unmapped y mode: error %v; want %v",
			err, av1.ErrMalformed)
	}
}

func TestMVContext(t *testing.T) {
	c := NewMVContext()
	a := MotionVector{Row: 1, Col: 2}
	b := MotionVector{Row: -3, Col: 4}
	c.Push(BwdRefFrame, a)
	assert.Equal(t, a, c.Near(BwdRefFrame))
	c.Push(BwdRefFrame, a)
	assert.Equal(t, a, c.Near(BwdRefFrame))
	c.Push(BwdRefFrame, b)
	assert.Equal(t, b, c.Nearest(BwdRefFrame))
	assert.Equal(t, a, c.Near(BwdRefFrame))
	c.Push(IntraFrame, b)
	assert.True(t, c.Nearest(IntraFrame).IsZero())
	c.Reset()
	assert.True(t, c.Nearest(BwdRefFrame).IsZero())
}

func TestModeStrings(t *testing.T) {
	tests := []struct {
		s    interface{ String() string }
		want string
	}{
		{PaethPred, "Paeth"},
		{NewNewMV, "NewNewMV"},
		{PredictionMode(40), "PredictionMode(40)"},
		{NoneFrame, "None"},
		{AltRefFrame, "AltRef"},
		{RefFrame(9), "RefFrame(9)"},
		{PartitionVert4, "Vert4"},
	}
	for _, tc := range tests {
		if s := tc.s.String(); s != tc.want {
			t.Errorf("String() = %q; want %q", s, tc.want)
		}
	}
}
