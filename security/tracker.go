package security

import "sync"

// ResourceTracker accounts resources allocated on behalf of running queries
// so the guard can return them to the pre-query baseline on completion or
// timeout. Executors report allocations through the tracker handle the guard
// passes them.
type ResourceTracker struct {
	mu      sync.Mutex
	byQuery map[string]int64
	total   int64
}

// NewResourceTracker returns an empty tracker.
func NewResourceTracker() *ResourceTracker {
	return &ResourceTracker{byQuery: make(map[string]int64)}
}

// Track records amount units of resource held by queryID.
func (rt *ResourceTracker) Track(queryID string, amount int64) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.byQuery[queryID] += amount
	rt.total += amount
}

// Release returns every resource held by queryID to the pool.
func (rt *ResourceTracker) Release(queryID string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.total -= rt.byQuery[queryID]
	delete(rt.byQuery, queryID)
}

// InUse reports the total tracked resource count across all queries.
func (rt *ResourceTracker) InUse() int64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.total
}

// Held reports the resources currently attributed to queryID.
func (rt *ResourceTracker) Held(queryID string) int64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.byQuery[queryID]
}
