package ec

import (
	"fmt"

	"github.com/ulikunitz/av1"
)

// ProbTop is the fixed-point total of all probabilities.
const ProbTop = 1 << 15

// CDF is a cumulative distribution table. For n symbols it has n+1
// entries: the first is 0, the last is ProbTop and entry i+1 is the
// cumulative probability of the symbols 0 to i. Tables must be
// non-decreasing.
type CDF []uint16

// Symbols returns the number of symbols described by the table.
func (c CDF) Symbols() int { return len(c) - 1 }

// Verify checks the table invariants.
func (c CDF) Verify() error {
	if len(c) < 2 {
		return fmt.Errorf("ec: CDF with %d entries: %w",
			len(c), av1.ErrMalformed)
	}
	if c[0] != 0 {
		return fmt.Errorf("ec: CDF starts with %d: %w",
			c[0], av1.ErrMalformed)
	}
	if c[len(c)-1] != ProbTop {
		return fmt.Errorf("ec: CDF ends with %d: %w",
			c[len(c)-1], av1.ErrMalformed)
	}
	for i := 1; i < len(c); i++ {
		if c[i] < c[i-1] {
			return fmt.Errorf("ec: CDF decreases at %d: %w",
				i, av1.ErrMalformed)
		}
	}
	return nil
}

// Clone returns a copy of the table.
func (c CDF) Clone() CDF {
	return append(CDF(nil), c...)
}

// maxAdaptCount caps the symbol counter of an adaptive table.
const maxAdaptCount = 32

// Adaptive is a table that is updated after each decoded symbol, as done
// by AV1 if disable_cdf_update is 0.
type Adaptive struct {
	CDF   CDF
	Count int
}

// NewAdaptive creates an adaptive table starting with a copy of c.
func NewAdaptive(c CDF) *Adaptive {
	return &Adaptive{CDF: c.Clone()}
}

// Update adapts the table towards symbol.
func (a *Adaptive) Update(symbol int) {
	n := a.CDF.Symbols()
	rate := 3 + min(floorLog2(uint32(n)), 2)
	if a.Count > 15 {
		rate++
	}
	if a.Count > 31 {
		rate++
	}
	var tmp uint16
	for i := 0; i < n-1; i++ {
		if i == symbol {
			tmp = ProbTop
		}
		v := &a.CDF[i+1]
		if tmp < *v {
			*v -= (*v - tmp) >> uint(rate)
		} else {
			*v += (tmp - *v) >> uint(rate)
		}
	}
	if a.Count < maxAdaptCount {
		a.Count++
	}
}
