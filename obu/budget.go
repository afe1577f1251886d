package obu

import (
	"fmt"
	"sync"

	"github.com/ulikunitz/av1"
)

// Budget is consulted before the reader trusts a size decoded from the
// stream. Reserve returns an error if the size must not be used.
type Budget interface {
	Reserve(n int64) error
}

// Limit is a Budget with a per-unit cap and a cumulative cap. Zero values
// disable the respective cap. Limit is safe for concurrent use.
type Limit struct {
	MaxUnitSize int64
	MaxTotal    int64

	mu   sync.Mutex
	used int64
}

// Reserve implements the Budget interface.
func (l *Limit) Reserve(n int64) error {
	if n < 0 {
		return fmt.Errorf("obu: negative reservation %d: %w",
			n, av1.ErrResourceRejected)
	}
	if l.MaxUnitSize > 0 && n > l.MaxUnitSize {
		return fmt.Errorf("obu: unit size %d exceeds limit %d: %w",
			n, l.MaxUnitSize, av1.ErrResourceRejected)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.MaxTotal > 0 && l.used+n > l.MaxTotal {
		return fmt.Errorf("obu: total %d exceeds limit %d: %w",
			l.used+n, l.MaxTotal, av1.ErrResourceRejected)
	}
	l.used += n
	return nil
}

// Used returns the number of bytes reserved so far.
func (l *Limit) Used() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.used
}

type unlimited struct{}

func (unlimited) Reserve(n int64) error { return nil }

// Unlimited is a Budget accepting every size.
var Unlimited Budget = unlimited{}
