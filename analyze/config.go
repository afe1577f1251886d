package analyze

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/ulikunitz/av1/ec"
	"github.com/ulikunitz/av1/internal/xlog"
	"github.com/ulikunitz/av1/memo"
	"github.com/ulikunitz/av1/obu"
)

// Config defines the parameters of an Analyzer.
type Config struct {
	// Workers is the number of goroutines decoding the tiles of a frame.
	Workers int
	// CacheEntries is the capacity of the coding unit cache.
	CacheEntries int
	Eviction     memo.Policy
	DisableCache bool

	// Budget limits the unit sizes accepted from streams.
	Budget obu.Budget
	// Model provides the symbol tables. The default model is used if
	// it is nil.
	Model *ec.Model
	// Logger receives the diagnostics. No output is produced if it is
	// nil.
	Logger xlog.Logger
}

// ApplyDefaults replaces zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.CacheEntries == 0 {
		c.CacheEntries = memo.DefaultCapacity
	}
	if c.Budget == nil {
		c.Budget = obu.Unlimited
	}
	if c.Model == nil {
		c.Model = ec.DefaultModel()
	}
}

// Verify checks the configuration for errors. Zero values will be
// replaced by default values.
func (c *Config) Verify() error {
	if c == nil {
		return errors.New("analyze: configuration is nil")
	}
	c.ApplyDefaults()
	if !(1 <= c.Workers) {
		return errors.New("analyze: Workers must be positive")
	}
	if !c.DisableCache {
		mc := c.memoConfig()
		if err := mc.Verify(); err != nil {
			return err
		}
	}
	if err := c.Model.Verify(); err != nil {
		return fmt.Errorf("analyze: model: %w", err)
	}
	return nil
}

func (c *Config) memoConfig() memo.Config {
	return memo.Config{Capacity: c.CacheEntries, Policy: c.Eviction}
}
