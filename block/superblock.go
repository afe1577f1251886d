package block

import (
	"fmt"

	"github.com/ulikunitz/av1"
	"github.com/ulikunitz/av1/ec"
)

// Superblock is the root unit of the block structure. It owns the
// partition tree and the coding units of its leaves in depth-first order.
type Superblock struct {
	X, Y  int
	Size  int
	Root  *PartitionNode
	Units []CodingUnit
}

// MVEntry locates the motion vectors of an inter unit in the frame. Ref2
// is NoneFrame and MV2 is zero unless the unit is compound.
type MVEntry struct {
	X, Y          int
	Width, Height int
	Ref           RefFrame
	MV            MotionVector
	Ref2          RefFrame
	MV2           MotionVector
}

// IsCompound reports whether the entry carries a second reference.
func (e MVEntry) IsCompound() bool { return e.Ref2 > IntraFrame }

// MotionVectors returns one entry for every inter unit. Zero vectors are
// included.
func MotionVectors(units []CodingUnit) []MVEntry {
	var entries []MVEntry
	for i := range units {
		cu := &units[i]
		if !cu.IsInter() {
			continue
		}
		e := MVEntry{
			X: cu.X, Y: cu.Y,
			Width: cu.Width, Height: cu.Height,
			Ref:  cu.Refs[0],
			MV:   cu.MVs[0],
			Ref2: NoneFrame,
		}
		if cu.NumRefs() == 2 {
			e.Ref2 = cu.Refs[1]
			e.MV2 = cu.MVs[1]
		}
		entries = append(entries, e)
	}
	return entries
}

// MotionVectors returns the motion vectors of the inter units of the
// superblock.
func (sb *Superblock) MotionVectors() []MVEntry {
	return MotionVectors(sb.Units)
}

// ParseSuperblock decodes the superblock at (x, y). The size must be 64 or
// 128. The quantizer index qp is threaded through all leaves; the index
// after the last leaf is returned.
func ParseSuperblock(d *ec.Decoder, m *ec.Model, x, y, size int,
	fc FrameContext, qp int, mvc *MVContext) (sb *Superblock, newQP int,
	err error) {

	var bs BlockSize
	switch size {
	case 64:
		bs = Block64x64
	case 128:
		bs = Block128x128
	default:
		return nil, qp, fmt.Errorf("block: superblock size %d: %w",
			size, av1.ErrMalformed)
	}
	root, err := ParsePartition(d, m, x, y, bs)
	if err != nil {
		return nil, qp, err
	}
	sb = &Superblock{X: x, Y: y, Size: size, Root: root}
	qp, err = sb.decodeUnits(d, m, root, fc, qp, mvc)
	if err != nil {
		return nil, qp, err
	}
	return sb, qp, nil
}

// decodeUnits decodes the leaves of the subtree n and returns the
// quantizer index after the last one.
func (sb *Superblock) decodeUnits(d *ec.Decoder, m *ec.Model,
	n *PartitionNode, fc FrameContext, qp int, mvc *MVContext) (int, error) {

	if n.IsLeaf() {
		cu, qp, err := DecodeCodingUnit(d, m, n.Rect(), fc, qp, mvc)
		if err != nil {
			return qp, err
		}
		sb.Units = append(sb.Units, cu)
		return qp, nil
	}
	var err error
	for _, c := range n.Children {
		if qp, err = sb.decodeUnits(d, m, c, fc, qp, mvc); err != nil {
			return qp, err
		}
	}
	return qp, nil
}
