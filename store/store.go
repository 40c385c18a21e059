package store

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/c360studio/semgraph/errors"
	"github.com/c360studio/semgraph/metric"
	"github.com/c360studio/semgraph/pkg/cache"
	"github.com/c360studio/semgraph/rdf"
)

// Store is the in-memory indexed triple store. The triples map is the
// canonical triple set keyed by the three-term join key and doubles as the
// exact existence set consulted before any fully-bound index lookup. All
// state is guarded by a single lock so mutations are atomic relative to
// concurrent reads.
type Store struct {
	mu     sync.RWMutex
	config Config
	logger *slog.Logger

	triples   map[string]rdf.Triple
	spo       *tripleIndex
	pos       *tripleIndex
	osp       *tripleIndex
	hierarchy *hierarchyIndex

	queryCache    cache.Cache[[]rdf.Triple]
	semanticCache cache.Cache[[]string]
	closureCache  cache.Cache[[]string]

	batchActive bool
	batchBuffer []rdf.Triple

	metrics *metric.Metrics
}

// NewStore creates a store with the given configuration. The metrics
// registry is optional; a nil registry disables metrics. A nil logger falls
// back to slog.Default().
func NewStore(config Config, logger *slog.Logger, registry *metric.MetricsRegistry) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	cacheOptions := []cache.Option[[]rdf.Triple]{
		cache.WithEvictionFraction[[]rdf.Triple](config.QueryCacheEvictionFraction),
	}
	if registry != nil {
		cacheOptions = append(cacheOptions, cache.WithMetrics[[]rdf.Triple](registry, "store_query"))
	}
	queryCache, err := cache.NewLRU(config.QueryCacheSize, cacheOptions...)
	if err != nil {
		return nil, errors.Wrap(err, "store", "NewStore", "create query cache")
	}
	semanticCache, err := cache.NewSimple[[]string]()
	if err != nil {
		return nil, errors.Wrap(err, "store", "NewStore", "create semantic cache")
	}
	closureCache, err := cache.NewSimple[[]string]()
	if err != nil {
		return nil, errors.Wrap(err, "store", "NewStore", "create closure cache")
	}

	s := &Store{
		config:        config,
		logger:        logger,
		triples:       make(map[string]rdf.Triple),
		spo:           newTripleIndex(),
		pos:           newTripleIndex(),
		osp:           newTripleIndex(),
		hierarchy:     newHierarchyIndex(),
		queryCache:    queryCache,
		semanticCache: semanticCache,
		closureCache:  closureCache,
	}
	if registry != nil {
		s.metrics = registry.CoreMetrics()
	}
	return s, nil
}

// Add inserts a triple into the triple set and all three indexes. Idempotent
// for triples already present. In batch mode the triple is buffered instead
// and the indexes stay untouched until commit.
func (s *Store) Add(triple rdf.Triple) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.batchActive {
		s.batchBuffer = append(s.batchBuffer, triple)
		if len(s.batchBuffer) >= s.config.MaxBatchSize {
			// Hard cap reached: commit what we have and stay in batch
			// mode so memory stays bounded during long bulk loads.
			s.logger.Warn("batch buffer overflow, auto-committing",
				"buffered", len(s.batchBuffer), "max", s.config.MaxBatchSize)
			s.commitBufferLocked()
		}
		return nil
	}

	if s.insertLocked(triple) {
		s.invalidateLocked(triple)
		s.recordMutation("add")
	}
	return nil
}

// Remove deletes a triple from the triple set, all three indexes, and the
// hierarchy index. No-op if the triple is absent.
func (s *Store) Remove(triple rdf.Triple) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := triple.Key()
	if _, exists := s.triples[key]; !exists {
		return nil
	}

	subject := triple.Subject().String()
	predicate := triple.Predicate().String()
	object := triple.Object().String()

	delete(s.triples, key)
	s.spo.remove(subject, predicate, key)
	s.pos.remove(predicate, object, key)
	s.osp.remove(object, subject, key)
	if s.hierarchy.observes(triple) {
		s.hierarchy.remove(triple)
	}

	s.invalidateLocked(triple)
	s.recordMutation("remove")
	return nil
}

// Contains reports whether the exact triple is present. This is the
// existence-set fast path: a single key lookup, no index walk.
func (s *Store) Contains(triple rdf.Triple) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.triples[triple.Key()]
	return ok
}

// Match returns all triples satisfying the given bound terms; nil terms are
// wildcards. The lookup uses whichever index has the most bound leading
// terms; a fully-bound pattern short-circuits through the existence set.
// Results are sorted by triple key for deterministic output.
func (s *Store) Match(subject, predicate, object rdf.Term) []rdf.Triple {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matchLocked(subject, predicate, object)
}

func (s *Store) matchLocked(subject, predicate, object rdf.Term) []rdf.Triple {
	var candidates []rdf.Triple

	switch {
	case subject != nil && predicate != nil && object != nil:
		// Existence set decides exact lookups without touching an index.
		key := subject.String() + " " + predicate.String() + " " + object.String()
		triple, ok := s.triples[key]
		if !ok {
			return nil
		}
		return []rdf.Triple{triple}

	case subject != nil && predicate != nil:
		candidates = s.spo.lookupTwo(subject.String(), predicate.String())
	case predicate != nil && object != nil:
		candidates = s.pos.lookupTwo(predicate.String(), object.String())
	case subject != nil && object != nil:
		candidates = s.osp.lookupTwo(object.String(), subject.String())
	case subject != nil:
		candidates = s.spo.lookupOne(subject.String())
	case predicate != nil:
		candidates = s.pos.lookupOne(predicate.String())
	case object != nil:
		candidates = s.osp.lookupOne(object.String())
	default:
		candidates = make([]rdf.Triple, 0, len(s.triples))
		for _, t := range s.triples {
			candidates = append(candidates, t)
		}
	}

	out := filterExact(candidates, subject, predicate, object)
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// filterExact verifies every candidate against the bound terms. The index
// leaves already satisfy them, so this is a cheap consistency check over the
// narrowed set, not a second scan.
func filterExact(candidates []rdf.Triple, subject, predicate, object rdf.Term) []rdf.Triple {
	out := make([]rdf.Triple, 0, len(candidates))
	for _, t := range candidates {
		if subject != nil && !rdf.SameTerm(t.Subject(), subject) {
			continue
		}
		if predicate != nil && !rdf.SameTerm(t.Predicate(), predicate) {
			continue
		}
		if object != nil && !rdf.SameTerm(t.Object(), object) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Query is the cache-checked wrapper over Match. Results larger than the
// configured threshold are returned but not cached.
func (s *Store) Query(subject, predicate, object rdf.Term) []rdf.Triple {
	start := time.Now()
	key := patternKey(subject, predicate, object)

	if cached, ok := s.queryCache.Get(key); ok {
		s.recordQuery("pattern", "cache_hit", time.Since(start))
		return copyTriples(cached)
	}

	results := s.Match(subject, predicate, object)
	if len(results) <= s.config.MaxCachedResultSize {
		if _, err := s.queryCache.Set(key, results); err != nil {
			s.logger.Debug("query cache set failed", "key", key, "error", err)
		}
	}
	s.recordQuery("pattern", "ok", time.Since(start))
	return copyTriples(results)
}

// patternKey builds the query cache key from the three-term pattern, with
// "*" standing in for wildcards.
func patternKey(subject, predicate, object rdf.Term) string {
	var sb strings.Builder
	for i, term := range []rdf.Term{subject, predicate, object} {
		if i > 0 {
			sb.WriteByte('|')
		}
		if term == nil {
			sb.WriteByte('*')
		} else {
			sb.WriteString(term.String())
		}
	}
	return sb.String()
}

// copyTriples keeps cached result slices immutable against caller mutation.
func copyTriples(in []rdf.Triple) []rdf.Triple {
	out := make([]rdf.Triple, len(in))
	copy(out, in)
	return out
}

// QueryPropertyHierarchy returns the bounded-depth transitive closure of a
// property in the requested direction, memoized per (property, direction).
// The result contains term strings in N-Triples form, sorted, excluding the
// start property itself.
func (s *Store) QueryPropertyHierarchy(property rdf.Term, direction TraversalDirection) ([]string, error) {
	if property == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidTerm, "store", "QueryPropertyHierarchy", "nil property")
	}
	key := property.String() + "|" + string(direction)

	if cached, ok := s.closureCache.Get(key); ok {
		return append([]string(nil), cached...), nil
	}

	s.mu.RLock()
	closure, err := s.hierarchy.closure(property.String(), direction, s.config.MaxHierarchyDepth)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	if _, err := s.closureCache.Set(key, closure); err != nil {
		s.logger.Debug("closure cache set failed", "key", key, "error", err)
	}
	return append([]string(nil), closure...), nil
}

// Optimize rebuilds all indexes from the canonical triple set and drops all
// caches. Intended after heavy churn to remove fragmentation.
func (s *Store) Optimize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.spo.clear()
	s.pos.clear()
	s.osp.clear()
	s.hierarchy.clear()

	for _, triple := range s.triples {
		subject := triple.Subject().String()
		predicate := triple.Predicate().String()
		object := triple.Object().String()
		s.spo.add(subject, predicate, triple)
		s.pos.add(predicate, object, triple)
		s.osp.add(object, subject, triple)
		if s.hierarchy.observes(triple) {
			s.hierarchy.add(triple)
		}
	}

	s.clearCachesLocked(true)
	s.logger.Info("store optimized", "triples", len(s.triples))
}

// Statistics is a point-in-time snapshot of store state and cache behavior.
type Statistics struct {
	TripleCount   int                `json:"triple_count"`
	SPOSize       int                `json:"spo_size"`
	POSSize       int                `json:"pos_size"`
	OSPSize       int                `json:"osp_size"`
	BatchActive   bool               `json:"batch_active"`
	BatchBuffered int                `json:"batch_buffered"`
	QueryCache    cache.StatsSummary `json:"query_cache"`
	SemanticCache cache.StatsSummary `json:"semantic_cache"`
	ClosureCache  cache.StatsSummary `json:"closure_cache"`
}

// Statistics returns a snapshot of the store.
func (s *Store) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Statistics{
		TripleCount:   len(s.triples),
		SPOSize:       s.spo.size(),
		POSSize:       s.pos.size(),
		OSPSize:       s.osp.size(),
		BatchActive:   s.batchActive,
		BatchBuffered: len(s.batchBuffer),
		QueryCache:    s.queryCache.Stats().Summary(),
		SemanticCache: s.semanticCache.Stats().Summary(),
		ClosureCache:  s.closureCache.Stats().Summary(),
	}
}

// Size returns the number of triples in the store.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.triples)
}

// insertLocked adds a triple to the set and all indexes. Reports whether the
// triple was new. Caller holds the write lock.
func (s *Store) insertLocked(triple rdf.Triple) bool {
	key := triple.Key()
	if _, exists := s.triples[key]; exists {
		return false
	}

	subject := triple.Subject().String()
	predicate := triple.Predicate().String()
	object := triple.Object().String()

	s.triples[key] = triple
	s.spo.add(subject, predicate, triple)
	s.pos.add(predicate, object, triple)
	s.osp.add(object, subject, triple)
	if s.hierarchy.observes(triple) {
		s.hierarchy.add(triple)
	}
	return true
}

// invalidateLocked drops caches affected by a mutation. The query and
// semantic caches always go; the closure cache only when the mutated triple
// carries a hierarchy predicate.
func (s *Store) invalidateLocked(triple rdf.Triple) {
	s.clearCachesLocked(s.hierarchy.observes(triple))
}

func (s *Store) clearCachesLocked(includeClosure bool) {
	if err := s.queryCache.Clear(); err != nil {
		s.logger.Debug("query cache clear failed", "error", err)
	}
	if err := s.semanticCache.Clear(); err != nil {
		s.logger.Debug("semantic cache clear failed", "error", err)
	}
	if includeClosure {
		if err := s.closureCache.Clear(); err != nil {
			s.logger.Debug("closure cache clear failed", "error", err)
		}
	}
	s.updateTripleGauge()
}

func (s *Store) recordMutation(operation string) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordMutation(operation)
}

func (s *Store) recordQuery(kind, status string, duration time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordQuery(kind, status, duration)
}

func (s *Store) updateTripleGauge() {
	if s.metrics == nil {
		return
	}
	s.metrics.SetTripleCount(len(s.triples))
}

// Close releases cache resources.
func (s *Store) Close() error {
	var firstErr error
	for _, c := range []interface{ Close() error }{s.queryCache, s.semanticCache, s.closureCache} {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing store caches: %w", err)
		}
	}
	return firstErr
}
