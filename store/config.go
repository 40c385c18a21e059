// Package store implements the in-memory indexed triple store: three
// term-ordered indexes, an exact existence set, a property-hierarchy index,
// result caches with LRU eviction, and a batched bulk-load path.
package store

import (
	"fmt"

	"github.com/c360studio/semgraph/errors"
)

// Config configures store capacity limits and cache behavior.
type Config struct {
	// QueryCacheSize is the maximum number of cached query results.
	QueryCacheSize int `json:"query_cache_size" yaml:"query_cache_size"`

	// QueryCacheEvictionFraction is the share of entries dropped in one
	// LRU eviction pass when the query cache is full.
	QueryCacheEvictionFraction float64 `json:"query_cache_eviction_fraction" yaml:"query_cache_eviction_fraction"`

	// MaxCachedResultSize is the largest result set (in triples) the query
	// cache will store. Bigger results are returned but not cached.
	MaxCachedResultSize int `json:"max_cached_result_size" yaml:"max_cached_result_size"`

	// BatchChunkSize is the number of buffered triples merged into the
	// indexes per chunk on batch commit.
	BatchChunkSize int `json:"batch_chunk_size" yaml:"batch_chunk_size"`

	// MaxBatchSize is the hard cap on the batch buffer. Exceeding it
	// auto-commits the buffer and restarts batch mode.
	MaxBatchSize int `json:"max_batch_size" yaml:"max_batch_size"`

	// MaxHierarchyDepth bounds transitive hierarchy traversal.
	MaxHierarchyDepth int `json:"max_hierarchy_depth" yaml:"max_hierarchy_depth"`
}

// DefaultConfig returns the store defaults.
func DefaultConfig() Config {
	return Config{
		QueryCacheSize:             1000,
		QueryCacheEvictionFraction: 0.1,
		MaxCachedResultSize:        1000,
		BatchChunkSize:             500,
		MaxBatchSize:               10000,
		MaxHierarchyDepth:          10,
	}
}

// Validate checks configuration invariants.
func (c Config) Validate() error {
	if c.QueryCacheSize <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "store", "Validate",
			fmt.Sprintf("query_cache_size must be positive, got %d", c.QueryCacheSize))
	}
	if c.QueryCacheEvictionFraction <= 0 || c.QueryCacheEvictionFraction > 1 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "store", "Validate",
			fmt.Sprintf("query_cache_eviction_fraction must be in (0, 1], got %v", c.QueryCacheEvictionFraction))
	}
	if c.MaxCachedResultSize <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "store", "Validate",
			fmt.Sprintf("max_cached_result_size must be positive, got %d", c.MaxCachedResultSize))
	}
	if c.BatchChunkSize <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "store", "Validate",
			fmt.Sprintf("batch_chunk_size must be positive, got %d", c.BatchChunkSize))
	}
	if c.MaxBatchSize < c.BatchChunkSize {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "store", "Validate",
			fmt.Sprintf("max_batch_size %d must be at least batch_chunk_size %d", c.MaxBatchSize, c.BatchChunkSize))
	}
	if c.MaxHierarchyDepth <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "store", "Validate",
			fmt.Sprintf("max_hierarchy_depth must be positive, got %d", c.MaxHierarchyDepth))
	}
	return nil
}
