package btree

import (
	"cmp"
	"fmt"
)

const (
	// MinimumDegree is the smallest minimum degree a tree accepts.
	MinimumDegree = 2
	// DefaultMinDegree is the minimum degree used by DefaultConfig.
	DefaultMinDegree = 3
)

// Config configures a B-tree.
type Config[K any] struct {
	// MinDegree is the minimum degree t. Non-root nodes hold between t-1 and
	// 2t-1 entries.
	MinDegree int
	// Compare orders keys. It must return a negative number if a < b, zero if
	// a == b and a positive number if a > b, and it must define a total order.
	Compare func(a, b K) int
	// Observer, if set, is called synchronously for every structural change.
	Observer func(Event)
}

// DefaultConfig returns a configuration for naturally ordered keys with
// minimum degree DefaultMinDegree.
func DefaultConfig[K cmp.Ordered]() Config[K] {
	return Config[K]{
		MinDegree: DefaultMinDegree,
		Compare:   cmp.Compare[K],
	}
}

func (cfg Config[K]) normalized() Config[K] {
	return cfg
}

func (cfg Config[K]) validate() error {
	cfg = cfg.normalized()
	if cfg.MinDegree < MinimumDegree {
		return fmt.Errorf("%w: minimum degree must be at least %d, is %d",
			ErrInvalidConfig, MinimumDegree, cfg.MinDegree)
	}
	if cfg.Compare == nil {
		return fmt.Errorf("%w: compare function is required", ErrInvalidConfig)
	}
	return nil
}

func (cfg Config[K]) maxEntries() int {
	return 2*cfg.MinDegree - 1
}

func (cfg Config[K]) minEntries() int {
	return cfg.MinDegree - 1
}
