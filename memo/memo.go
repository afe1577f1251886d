// Package memo caches the coding units decoded for tiles. A Memo is
// created explicitly and shared by all goroutines decoding tiles with the
// same frame parameters.
package memo

import (
	"container/list"
	"errors"
	"fmt"
	"sync"

	"github.com/ulikunitz/av1/block"
	"github.com/ulikunitz/av1/internal/hash"
)

// DefaultCapacity is the default number of cache entries.
const DefaultCapacity = 64

// Policy selects the entries removed if the cache is full.
type Policy int

const (
	// Approximate removes a quarter of the entries in map iteration
	// order. The order is not related to the use of the entries.
	Approximate Policy = iota
	// LRU removes the least recently used entry.
	LRU
)

func (p Policy) String() string {
	switch p {
	case Approximate:
		return "approximate"
	case LRU:
		return "lru"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy converts the string returned by Policy.String back to the
// policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "approximate":
		return Approximate, nil
	case "lru":
		return LRU, nil
	}
	return 0, fmt.Errorf("memo: unknown eviction policy %q", s)
}

// Config defines the capacity and the eviction policy of a Memo.
type Config struct {
	Capacity int
	Policy   Policy
}

// ApplyDefaults replaces zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.Capacity == 0 {
		c.Capacity = DefaultCapacity
	}
}

// Verify checks the configuration for errors. Zero values will be
// replaced by default values.
func (c *Config) Verify() error {
	if c == nil {
		return errors.New("memo: configuration is nil")
	}
	c.ApplyDefaults()
	if c.Capacity < 1 {
		return errors.New("memo: Capacity must be positive")
	}
	if !(Approximate <= c.Policy && c.Policy <= LRU) {
		return fmt.Errorf("memo: unsupported policy %v", c.Policy)
	}
	return nil
}

// Key computes the cache key for the payload of a tile and the base
// quantizer index of its frame.
func Key(tile []byte, baseQP int) uint64 {
	return hash.Sum64(tile, uint64(int64(baseQP)))
}

// Stats provides the counters of a Memo.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Errors    uint64
}

type entry struct {
	key   uint64
	units []block.CodingUnit
	// elem is only used by the LRU policy.
	elem *list.Element
}

// Memo caches coding unit lists by key. The zero value is not usable; use
// New.
type Memo struct {
	cfg Config

	// mu is held across lookup, parse and insert.
	mu      sync.Mutex
	entries map[uint64]*entry
	recency *list.List
	stats   Stats
}

// New creates a new Memo.
func New(cfg Config) (*Memo, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	m := &Memo{
		cfg:     cfg,
		entries: make(map[uint64]*entry, cfg.Capacity),
	}
	if cfg.Policy == LRU {
		m.recency = list.New()
	}
	return m, nil
}

func clone(units []block.CodingUnit) []block.CodingUnit {
	if units == nil {
		return nil
	}
	return append(make([]block.CodingUnit, 0, len(units)), units...)
}

// GetOrParse returns the units stored for key. If there are none, parse is
// called and a successful result is stored. The lock of the Memo is held
// while parse runs, so concurrent callers for the same key parse only
// once. The returned slice is owned by the caller. Errors are returned
// but not cached.
//
// A nil Memo calls parse directly.
func (m *Memo) GetOrParse(key uint64,
	parse func() ([]block.CodingUnit, error)) ([]block.CodingUnit, error) {

	if m == nil {
		return parse()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok {
		m.stats.Hits++
		if e.elem != nil {
			m.recency.MoveToFront(e.elem)
		}
		return clone(e.units), nil
	}
	m.stats.Misses++
	units, err := parse()
	if err != nil {
		m.stats.Errors++
		return nil, err
	}
	if len(m.entries) >= m.cfg.Capacity {
		m.evict()
	}
	e := &entry{key: key, units: clone(units)}
	if m.recency != nil {
		e.elem = m.recency.PushFront(e)
	}
	m.entries[key] = e
	return units, nil
}

// evict removes entries according to the policy. It requires the lock.
func (m *Memo) evict() {
	switch m.cfg.Policy {
	case LRU:
		back := m.recency.Back()
		e := m.recency.Remove(back).(*entry)
		delete(m.entries, e.key)
		m.stats.Evictions++
	default:
		n := max(1, m.cfg.Capacity/4)
		for k := range m.entries {
			if n == 0 {
				break
			}
			delete(m.entries, k)
			m.stats.Evictions++
			n--
		}
	}
}

// Len returns the number of entries.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Clear removes all entries. The statistics are kept.
func (m *Memo) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
	if m.recency != nil {
		m.recency.Init()
	}
}

// Stats returns the current counters.
func (m *Memo) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}
