package store

import (
	"sort"

	"github.com/c360studio/semgraph/errors"
	"github.com/c360studio/semgraph/rdf"
)

// BeginBatch switches the store into batch mode: subsequent Add calls buffer
// triples in memory instead of touching the indexes.
func (s *Store) BeginBatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.batchActive {
		return errors.WrapInvalid(errors.ErrBatchActive, "store", "BeginBatch", "batch already in progress")
	}
	s.batchActive = true
	s.batchBuffer = s.batchBuffer[:0]
	return nil
}

// CommitBatch merges the buffered triples into the indexes and leaves batch
// mode. Buffered triples are sorted by predicate for index locality and
// merged in fixed-size chunks.
func (s *Store) CommitBatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.batchActive {
		return errors.WrapInvalid(errors.ErrBatchNotActive, "store", "CommitBatch", "no batch in progress")
	}
	s.commitBufferLocked()
	s.batchActive = false
	return nil
}

// RollbackBatch discards the buffered triples and leaves batch mode. Triples
// already merged by an overflow auto-commit are not rolled back.
func (s *Store) RollbackBatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.batchActive {
		return errors.WrapInvalid(errors.ErrBatchNotActive, "store", "RollbackBatch", "no batch in progress")
	}
	discarded := len(s.batchBuffer)
	s.batchBuffer = nil
	s.batchActive = false
	if discarded > 0 {
		s.logger.Info("batch rolled back", "discarded", discarded)
	}
	return nil
}

// commitBufferLocked bulk-merges the buffer into the indexes: sort by
// predicate, split into chunks, collect each chunk's delta of genuinely new
// triples, then apply the delta in one pass. Caller holds the write lock.
func (s *Store) commitBufferLocked() {
	if len(s.batchBuffer) == 0 {
		return
	}

	sort.SliceStable(s.batchBuffer, func(i, j int) bool {
		return s.batchBuffer[i].Predicate().Value() < s.batchBuffer[j].Predicate().Value()
	})

	inserted := 0
	hierarchyTouched := false
	chunkSize := s.config.BatchChunkSize
	for start := 0; start < len(s.batchBuffer); start += chunkSize {
		end := min(start+chunkSize, len(s.batchBuffer))
		chunk := s.batchBuffer[start:end]

		// Collect the chunk's delta first so duplicates inside the
		// buffer and triples already present are filtered before any
		// index is touched.
		delta := s.collectDeltaLocked(chunk)
		for _, triple := range delta {
			if s.insertLocked(triple) {
				inserted++
				if s.hierarchy.observes(triple) {
					hierarchyTouched = true
				}
			}
		}
	}

	s.batchBuffer = s.batchBuffer[:0]
	s.clearCachesLocked(hierarchyTouched)
	s.recordMutation("batch_commit")
	s.logger.Info("batch committed", "inserted", inserted)
}

// collectDeltaLocked returns the chunk's triples that are not yet in the
// store, deduplicated within the chunk.
func (s *Store) collectDeltaLocked(chunk []rdf.Triple) []rdf.Triple {
	seen := make(map[string]struct{}, len(chunk))
	delta := make([]rdf.Triple, 0, len(chunk))
	for _, triple := range chunk {
		key := triple.Key()
		if _, exists := s.triples[key]; exists {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		delta = append(delta, triple)
	}
	return delta
}
