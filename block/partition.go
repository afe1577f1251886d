package block

import (
	"fmt"

	"github.com/ulikunitz/av1"
	"github.com/ulikunitz/av1/ec"
)

// PartitionType describes how a block is divided. The values are the
// symbols of the partition syntax element.
type PartitionType uint8

// Partition types
const (
	PartitionNone PartitionType = iota
	PartitionHorz
	PartitionVert
	PartitionSplit
	PartitionHorzA
	PartitionHorzB
	PartitionVertA
	PartitionVertB
	PartitionHorz4
	PartitionVert4
	numPartitionTypes
)

var partitionNames = [numPartitionTypes]string{
	"None", "Horz", "Vert", "Split", "HorzA", "HorzB", "VertA",
	"VertB", "Horz4", "Vert4",
}

func (pt PartitionType) String() string {
	if pt < numPartitionTypes {
		return partitionNames[pt]
	}
	return fmt.Sprintf("PartitionType(%d)", uint8(pt))
}

const (
	// MaxPartitionDepth limits the nesting of partition nodes. Every
	// level at least halves the area, so a 128x128 superblock can't
	// reach deeper than 10 levels before its blocks drop below 4x4.
	MaxPartitionDepth = 10
	// minPartitionSide is the smallest side of a block for which a
	// partition symbol is read. Smaller blocks are always leaves.
	minPartitionSide = 8
)

// splitRect computes the child rectangles of r for the partition type in
// the order in which they are decoded. It doesn't check whether the
// children have supported sizes.
func splitRect(r Rect, pt PartitionType) []Rect {
	x, y, w, h := r.X, r.Y, r.W, r.H
	hw, hh := w/2, h/2
	qw, qh := w/4, h/4
	switch pt {
	case PartitionHorz:
		return []Rect{{x, y, w, hh}, {x, y + hh, w, hh}}
	case PartitionVert:
		return []Rect{{x, y, hw, h}, {x + hw, y, hw, h}}
	case PartitionSplit:
		return []Rect{
			{x, y, hw, hh}, {x + hw, y, hw, hh},
			{x, y + hh, hw, hh}, {x + hw, y + hh, hw, hh},
		}
	case PartitionHorzA:
		return []Rect{
			{x, y, hw, hh}, {x + hw, y, hw, hh},
			{x, y + hh, w, hh},
		}
	case PartitionHorzB:
		return []Rect{
			{x, y, w, hh},
			{x, y + hh, hw, hh}, {x + hw, y + hh, hw, hh},
		}
	case PartitionVertA:
		return []Rect{
			{x, y, hw, hh}, {x, y + hh, hw, hh},
			{x + hw, y, hw, h},
		}
	case PartitionVertB:
		return []Rect{
			{x, y, hw, h},
			{x + hw, y, hw, hh}, {x + hw, y + hh, hw, hh},
		}
	case PartitionHorz4:
		return []Rect{
			{x, y, w, qh}, {x, y + qh, w, qh},
			{x, y + 2*qh, w, qh}, {x, y + 3*qh, w, qh},
		}
	case PartitionVert4:
		return []Rect{
			{x, y, qw, h}, {x + qw, y, qw, h},
			{x + 2*qw, y, qw, h}, {x + 3*qw, y, qw, h},
		}
	}
	return nil
}

// SubBlocks returns the child rectangles of a block at (x, y) with size bs
// for the partition type pt. It fails if a child would have a size AV1
// doesn't support.
func SubBlocks(x, y int, bs BlockSize, pt PartitionType) ([]Rect, error) {
	if !bs.Valid() || pt >= numPartitionTypes {
		return nil, fmt.Errorf("block: partition %v of %v: %w",
			pt, bs, av1.ErrMalformed)
	}
	rects := splitRect(Rect{x, y, bs.Width(), bs.Height()}, pt)
	for _, r := range rects {
		if _, ok := SizeOf(r.W, r.H); !ok {
			return nil, fmt.Errorf(
				"block: partition %v of %v yields %dx%d: %w",
				pt, bs, r.W, r.H, av1.ErrMalformed)
		}
	}
	return rects, nil
}

// PartitionNode is a node of the partition tree. Leaves have the partition
// type PartitionNone and no children.
type PartitionNode struct {
	X, Y      int
	Size      BlockSize
	Partition PartitionType
	Children  []*PartitionNode
}

// IsLeaf reports whether the node is a leaf.
func (n *PartitionNode) IsLeaf() bool { return len(n.Children) == 0 }

// Rect returns the rectangle covered by the node.
func (n *PartitionNode) Rect() Rect {
	return Rect{n.X, n.Y, n.Size.Width(), n.Size.Height()}
}

// Walk calls f for every node in depth-first order, parents before their
// children. If f returns false the children of the node are skipped.
func (n *PartitionNode) Walk(f func(n *PartitionNode) bool) {
	if !f(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(f)
	}
}

// Leaves returns the leaves in depth-first order.
func (n *PartitionNode) Leaves() []*PartitionNode {
	var leaves []*PartitionNode
	n.Walk(func(n *PartitionNode) bool {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
		return true
	})
	return leaves
}

// ParsePartition reads the partition tree of the block at (x, y) with
// size bs from d.
func ParsePartition(d *ec.Decoder, m *ec.Model, x, y int, bs BlockSize) (
	*PartitionNode, error) {

	return parsePartition(d, m, x, y, bs, 0)
}

func parsePartition(d *ec.Decoder, m *ec.Model, x, y int, bs BlockSize,
	depth int) (*PartitionNode, error) {

	if depth > MaxPartitionDepth {
		return nil, fmt.Errorf("block: partition depth %d at (%d,%d): %w",
			depth, x, y, av1.ErrMalformed)
	}
	if !bs.Valid() {
		return nil, fmt.Errorf("block: invalid size %v at (%d,%d): %w",
			bs, x, y, av1.ErrMalformed)
	}
	n := &PartitionNode{X: x, Y: y, Size: bs}
	w, h := bs.Width(), bs.Height()
	if w < minPartitionSide || h < minPartitionSide {
		return n, nil
	}
	s, err := d.ReadSymbol(m.PartitionCDF(bs.Log2()))
	if err != nil {
		return nil, fmt.Errorf("block: partition at (%d,%d): %w",
			x, y, err)
	}
	if s >= int(numPartitionTypes) {
		return nil, fmt.Errorf(
			"block: partition symbol %d at (%d,%d): %w",
			s, x, y, av1.ErrMalformed)
	}
	pt := PartitionType(s)
	if pt == PartitionNone {
		return n, nil
	}
	rects, err := SubBlocks(x, y, bs, pt)
	if err != nil {
		return nil, err
	}
	n.Partition = pt
	n.Children = make([]*PartitionNode, 0, len(rects))
	for _, r := range rects {
		cs, _ := SizeOf(r.W, r.H)
		c, err := parsePartition(d, m, r.X, r.Y, cs, depth+1)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}
