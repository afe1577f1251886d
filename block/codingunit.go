package block

import (
	"fmt"

	"github.com/ulikunitz/av1"
	"github.com/ulikunitz/av1/ec"
)

// PredictionMode is the luma prediction mode of a coding unit. The values
// follow the AV1 numbering: intra modes first, followed by the single
// reference and the compound inter modes.
type PredictionMode uint8

// Intra prediction modes
const (
	DCPred PredictionMode = iota
	VPred
	HPred
	D45Pred
	D135Pred
	D113Pred
	D157Pred
	D203Pred
	D67Pred
	SmoothPred
	SmoothVPred
	SmoothHPred
	PaethPred
	NumIntraModes = int(PaethPred) + 1
)

// Inter prediction modes
const (
	NearestMV PredictionMode = iota + PaethPred + 1
	NearMV
	GlobalMV
	NewMV
	NearestNearestMV
	NearNearMV
	NearestNewMV
	NewNearestMV
	NearNewMV
	NewNearMV
	GlobalGlobalMV
	NewNewMV
	numPredictionModes
)

var modeNames = [numPredictionModes]string{
	"DC", "V", "H", "D45", "D135", "D113", "D157", "D203", "D67",
	"Smooth", "SmoothV", "SmoothH", "Paeth",
	"NearestMV", "NearMV", "GlobalMV", "NewMV",
	"NearestNearestMV", "NearNearMV", "NearestNewMV", "NewNearestMV",
	"NearNewMV", "NewNearMV", "GlobalGlobalMV", "NewNewMV",
}

func (pm PredictionMode) String() string {
	if pm < numPredictionModes {
		return modeNames[pm]
	}
	return fmt.Sprintf("PredictionMode(%d)", uint8(pm))
}

// IsInter reports whether the mode is an inter prediction mode.
func (pm PredictionMode) IsInter() bool {
	return NearestMV <= pm && pm < numPredictionModes
}

// IsCompound reports whether the mode uses two reference frames.
func (pm PredictionMode) IsCompound() bool {
	return NearestNearestMV <= pm && pm < numPredictionModes
}

// parts returns the single reference modes used for both references of a
// compound mode. For single reference modes the second value is the
// mode itself.
func (pm PredictionMode) parts() [2]PredictionMode {
	switch pm {
	case NearestNearestMV:
		return [2]PredictionMode{NearestMV, NearestMV}
	case NearNearMV:
		return [2]PredictionMode{NearMV, NearMV}
	case NearestNewMV:
		return [2]PredictionMode{NearestMV, NewMV}
	case NewNearestMV:
		return [2]PredictionMode{NewMV, NearestMV}
	case NearNewMV:
		return [2]PredictionMode{NearMV, NewMV}
	case NewNearMV:
		return [2]PredictionMode{NewMV, NearMV}
	case GlobalGlobalMV:
		return [2]PredictionMode{GlobalMV, GlobalMV}
	case NewNewMV:
		return [2]PredictionMode{NewMV, NewMV}
	}
	return [2]PredictionMode{pm, pm}
}

// RefFrame identifies a reference frame.
type RefFrame int8

// Reference frames
const (
	NoneFrame RefFrame = iota - 1
	IntraFrame
	LastFrame
	Last2Frame
	Last3Frame
	GoldenFrame
	BwdRefFrame
	AltRef2Frame
	AltRefFrame
	NumRefFrames
)

var refNames = [...]string{
	"None", "Intra", "Last", "Last2", "Last3", "Golden", "BwdRef",
	"AltRef2", "AltRef",
}

func (rf RefFrame) String() string {
	if NoneFrame <= rf && rf < NumRefFrames {
		return refNames[rf+1]
	}
	return fmt.Sprintf("RefFrame(%d)", int8(rf))
}

// CodingUnit is the decoded syntax of a leaf block. Intra units have the
// references IntraFrame and NoneFrame. Single reference inter units have
// NoneFrame as second reference. The vectors of unused references are
// zero.
type CodingUnit struct {
	X, Y          int
	Width, Height int
	Skip          bool
	Mode          PredictionMode
	Refs          [2]RefFrame
	MVs           [2]MotionVector
	// QP is the quantizer index in effect for the unit.
	QP int
}

// IsInter reports whether the unit uses inter prediction.
func (cu *CodingUnit) IsInter() bool { return cu.Refs[0] > IntraFrame }

// NumRefs returns the number of reference frames used by an inter unit.
func (cu *CodingUnit) NumRefs() int {
	switch {
	case !cu.IsInter():
		return 0
	case cu.Refs[1] > IntraFrame:
		return 2
	}
	return 1
}

// FrameContext contains the frame level parameters that control the coding
// unit syntax.
type FrameContext struct {
	// KeyFrame restricts all units to intra prediction.
	KeyFrame bool
	// DeltaQ enables the quantizer index delta for every unit.
	DeltaQ bool
	// DeltaQRes is the log2 of the scale applied to quantizer deltas.
	// It must be in the range [0,3].
	DeltaQRes            uint
	AllowHighPrecisionMV bool
	ForceIntegerMV       bool
}

const (
	// MinQP and MaxQP limit the quantizer index after a delta has been
	// applied.
	MinQP = 1
	MaxQP = 255

	deltaQSmall = 3
)

// symReader decodes symbols and literals for one unit. The first error is
// kept and all later reads return zero.
type symReader struct {
	d   *ec.Decoder
	r   Rect
	err error
}

func (sr *symReader) fail(name string, err error) {
	if sr.err == nil {
		sr.err = fmt.Errorf("block: %s at (%d,%d): %w",
			name, sr.r.X, sr.r.Y, err)
	}
}

// symbol reads a symbol and checks that it is below n.
func (sr *symReader) symbol(name string, cdf ec.CDF, n int) int {
	if sr.err != nil {
		return 0
	}
	s, err := sr.d.ReadSymbol(cdf)
	if err != nil {
		sr.fail(name, err)
		return 0
	}
	if s >= n {
		sr.fail(name, fmt.Errorf("symbol %d out of range: %w",
			s, av1.ErrMalformed))
		return 0
	}
	return s
}

func (sr *symReader) flag(name string, cdf ec.CDF) bool {
	return sr.symbol(name, cdf, 2) == 1
}

func (sr *symReader) literal(name string, n int) int {
	if sr.err != nil {
		return 0
	}
	x, err := sr.d.ReadLiteral(n)
	if err != nil {
		sr.fail(name, err)
		return 0
	}
	return int(x)
}

// DecodeCodingUnit decodes the coding unit for the leaf block r. The
// argument qp is the quantizer index in effect before the unit; the
// function returns the index in effect after it. The motion vector
// context is updated for inter units.
func DecodeCodingUnit(d *ec.Decoder, m *ec.Model, r Rect, fc FrameContext,
	qp int, mvc *MVContext) (cu CodingUnit, newQP int, err error) {

	if fc.DeltaQRes > 3 {
		return CodingUnit{}, qp, fmt.Errorf(
			"block: delta q resolution %d: %w",
			fc.DeltaQRes, av1.ErrMalformed)
	}
	sr := &symReader{d: d, r: r}
	cu = CodingUnit{
		X: r.X, Y: r.Y, Width: r.W, Height: r.H,
		Refs: [2]RefFrame{IntraFrame, NoneFrame},
	}
	cu.Skip = sr.flag("skip", m.Skip)
	if fc.DeltaQ {
		qp = readDeltaQ(sr, m, fc, qp)
	}
	cu.QP = qp

	inter := false
	if !fc.KeyFrame {
		inter = sr.flag("is_inter", m.IsInter)
	}
	if !inter {
		cu.Mode = PredictionMode(sr.symbol("y_mode", m.YMode,
			NumIntraModes))
		if sr.err != nil {
			return CodingUnit{}, qp, sr.err
		}
		return cu, qp, nil
	}

	n := int(AltRefFrame - LastFrame + 1)
	compound := sr.flag("comp_mode", m.CompMode)
	cu.Refs[0] = LastFrame + RefFrame(sr.symbol("ref_frame", m.RefFrame, n))
	if compound {
		cu.Refs[1] = LastFrame + RefFrame(sr.symbol("ref_frame",
			m.RefFrame, n))
		cu.Mode = NearestNearestMV + PredictionMode(sr.symbol(
			"compound_mode", m.CompoundMode, 8))
	} else {
		cu.Mode = NearestMV + PredictionMode(sr.symbol("inter_mode",
			m.InterMode, 4))
	}
	if sr.err != nil {
		return CodingUnit{}, qp, sr.err
	}
	if compound && cu.Refs[0] == cu.Refs[1] {
		return CodingUnit{}, qp, fmt.Errorf(
			"block: compound reference %v twice at (%d,%d): %w",
			cu.Refs[0], r.X, r.Y, av1.ErrMalformed)
	}

	parts := cu.Mode.parts()
	for i := 0; i < cu.NumRefs(); i++ {
		ref := cu.Refs[i]
		var mv MotionVector
		switch parts[i] {
		case NearestMV:
			mv = mvc.Nearest(ref)
		case NearMV:
			mv = mvc.Near(ref)
		case GlobalMV:
			// zero vector
		case NewMV:
			pred := mvc.Nearest(ref).lowerPrecision(
				fc.AllowHighPrecisionMV, fc.ForceIntegerMV)
			mv = pred.Add(readMV(sr, m, fc))
		}
		cu.MVs[i] = mv.lowerPrecision(fc.AllowHighPrecisionMV,
			fc.ForceIntegerMV).clamp()
	}
	if sr.err != nil {
		return CodingUnit{}, qp, sr.err
	}
	for i := 0; i < cu.NumRefs(); i++ {
		mvc.Push(cu.Refs[i], cu.MVs[i])
	}
	return cu, qp, nil
}

// readDeltaQ reads the quantizer index delta and returns the new index.
func readDeltaQ(sr *symReader, m *ec.Model, fc FrameContext, qp int) int {
	abs := sr.symbol("delta_q_abs", m.DeltaQAbs, deltaQSmall+1)
	if abs == deltaQSmall {
		n := sr.literal("delta_q_rem_bits", 3) + 1
		abs = sr.literal("delta_q_abs_bits", n) + 1<<n + 1
	}
	if abs == 0 || sr.err != nil {
		return qp
	}
	delta := abs
	if sr.literal("delta_q_sign_bit", 1) == 1 {
		delta = -abs
	}
	if sr.err != nil {
		return qp
	}
	return max(MinQP, min(qp+delta<<fc.DeltaQRes, MaxQP))
}

// readMV reads a motion vector difference.
func readMV(sr *symReader, m *ec.Model, fc FrameContext) MotionVector {
	var diff MotionVector
	joint := sr.symbol("mv_joint", m.MVJoint, 4)
	if joint == 2 || joint == 3 {
		diff.Row = readMVComponent(sr, m, fc)
	}
	if joint == 1 || joint == 3 {
		diff.Col = readMVComponent(sr, m, fc)
	}
	return diff
}

func readMVComponent(sr *symReader, m *ec.Model, fc FrameContext) int32 {
	sign := sr.flag("mv_sign", m.MVSign)
	class := sr.symbol("mv_class", m.MVClass, ec.NumMVClasses)
	var mag int32
	var fr, hp int
	if class == 0 {
		c0 := sr.symbol("mv_class0_bit", m.MVClass0Bit, 2)
		fr, hp = 3, 1
		if !fc.ForceIntegerMV {
			fr = sr.symbol("mv_class0_fr", m.MVClass0Fr[c0], 4)
			if fc.AllowHighPrecisionMV {
				hp = sr.symbol("mv_class0_hp", m.MVClass0HP, 2)
			}
		}
		mag = int32(c0<<3|fr<<1|hp) + 1
	} else {
		d := 0
		for i := 0; i < class; i++ {
			d |= sr.symbol("mv_bit", m.MVBits[i], 2) << i
		}
		fr, hp = 3, 1
		if !fc.ForceIntegerMV {
			fr = sr.symbol("mv_fr", m.MVFr, 4)
			if fc.AllowHighPrecisionMV {
				hp = sr.symbol("mv_hp", m.MVHP, 2)
			}
		}
		mag = 2<<(class+2) + int32(d<<3|fr<<1|hp) + 1
	}
	if sign {
		return -mag
	}
	return mag
}
