package block

import "fmt"

// MotionVector is a displacement in units of 1/8 pixel. The zero value is
// a valid vector meaning no displacement.
type MotionVector struct {
	Row int32
	Col int32
}

// IsZero reports whether the vector describes no displacement.
func (mv MotionVector) IsZero() bool { return mv.Row == 0 && mv.Col == 0 }

// Add returns the sum of both vectors.
func (mv MotionVector) Add(v MotionVector) MotionVector {
	return MotionVector{Row: mv.Row + v.Row, Col: mv.Col + v.Col}
}

func (mv MotionVector) String() string {
	return fmt.Sprintf("(%d,%d)", mv.Row, mv.Col)
}

const (
	// mvLimit bounds the absolute value of a vector component.
	mvLimit = 1<<14 - 1
)

func clampComponent(x int32) int32 {
	return max(-mvLimit, min(x, mvLimit))
}

func (mv MotionVector) clamp() MotionVector {
	return MotionVector{Row: clampComponent(mv.Row),
		Col: clampComponent(mv.Col)}
}

// lowerComponent reduces the precision of a predicted component if high
// precision vectors are disabled. With forceInteger the component is
// rounded to full pixels.
func lowerComponent(x int32, allowHP, forceInteger bool) int32 {
	switch {
	case forceInteger:
		a := x
		if a < 0 {
			a = -a
		}
		a = (a + 3) >> 3 << 3
		if x > 0 {
			return a
		}
		return -a
	case allowHP:
		return x
	case x&1 == 0:
		return x
	case x > 0:
		return x - 1
	default:
		return x + 1
	}
}

func (mv MotionVector) lowerPrecision(allowHP, forceInteger bool) MotionVector {
	return MotionVector{
		Row: lowerComponent(mv.Row, allowHP, forceInteger),
		Col: lowerComponent(mv.Col, allowHP, forceInteger),
	}
}

// MVContext holds the motion vector predictions of a tile. It keeps the
// last two distinct vectors used with every reference frame. The context
// is updated after every inter block and must be used by one goroutine
// only.
type MVContext struct {
	stacks [NumRefFrames][2]MotionVector
	counts [NumRefFrames]int
}

// NewMVContext returns an empty context.
func NewMVContext() *MVContext { return new(MVContext) }

// Reset clears all predictions.
func (c *MVContext) Reset() { *c = MVContext{} }

func (c *MVContext) valid(ref RefFrame) bool {
	return LastFrame <= ref && ref < NumRefFrames
}

// Nearest returns the most recent vector used with ref. It returns the
// zero vector if there is none.
func (c *MVContext) Nearest(ref RefFrame) MotionVector {
	if !c.valid(ref) || c.counts[ref] == 0 {
		return MotionVector{}
	}
	return c.stacks[ref][0]
}

// Near returns the second most recent distinct vector used with ref. If
// there is only one vector it is returned instead.
func (c *MVContext) Near(ref RefFrame) MotionVector {
	if !c.valid(ref) {
		return MotionVector{}
	}
	switch c.counts[ref] {
	case 0:
		return MotionVector{}
	case 1:
		return c.stacks[ref][0]
	}
	return c.stacks[ref][1]
}

// Push records mv as the most recent vector for ref.
func (c *MVContext) Push(ref RefFrame, mv MotionVector) {
	if !c.valid(ref) {
		return
	}
	s := &c.stacks[ref]
	if c.counts[ref] > 0 && s[0] == mv {
		return
	}
	s[1] = s[0]
	s[0] = mv
	if c.counts[ref] < len(s) {
		c.counts[ref]++
	}
}
