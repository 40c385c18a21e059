package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semgraph/errors"
	"github.com/c360studio/semgraph/rdf"
)

func TestBatchEquivalence(t *testing.T) {
	triples := make([]rdf.Triple, 0, 20)
	for i := 0; i < 20; i++ {
		triples = append(triples, mustTriple(t,
			fmt.Sprintf("<http://example.org/s%d>", i),
			fmt.Sprintf("http://example.org/p%d", i%3),
			fmt.Sprintf(`"value %d"`, i)))
	}

	individual := newTestStore(t)
	for _, triple := range triples {
		require.NoError(t, individual.Add(triple))
	}

	batched := newTestStore(t)
	require.NoError(t, batched.BeginBatch())
	for _, triple := range triples {
		require.NoError(t, batched.Add(triple))
	}
	assert.Equal(t, 0, batched.Size(), "buffered triples are invisible until commit")
	require.NoError(t, batched.CommitBatch())

	assert.Equal(t, individual.Match(nil, nil, nil), batched.Match(nil, nil, nil),
		"batched and individual loading must produce identical index state")
}

func TestBatchChunkedCommit(t *testing.T) {
	config := DefaultConfig()
	config.BatchChunkSize = 3
	s, err := NewStore(config, nil, nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.BeginBatch())
	for i := 0; i < 10; i++ {
		triple := mustTriple(t,
			fmt.Sprintf("<http://example.org/s%d>", i),
			"http://example.org/p",
			fmt.Sprintf(`"%d"`, i))
		require.NoError(t, s.Add(triple))
	}
	require.NoError(t, s.CommitBatch())

	assert.Equal(t, 10, s.Size())
}

func TestBatchDeduplicatesBuffer(t *testing.T) {
	s := newTestStore(t)
	triple := mustTriple(t, "<http://example.org/a>", "http://example.org/p", `"v"`)
	require.NoError(t, s.Add(triple))

	require.NoError(t, s.BeginBatch())
	require.NoError(t, s.Add(triple))
	require.NoError(t, s.Add(triple))
	require.NoError(t, s.CommitBatch())

	assert.Equal(t, 1, s.Size())
}

func TestBatchRollbackDiscardsBuffer(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.BeginBatch())
	require.NoError(t, s.Add(mustTriple(t, "<http://example.org/a>", "http://example.org/p", `"v"`)))
	require.NoError(t, s.RollbackBatch())

	assert.Equal(t, 0, s.Size())
	assert.Empty(t, s.Match(nil, nil, nil))
}

func TestBatchStateErrors(t *testing.T) {
	s := newTestStore(t)

	err := s.CommitBatch()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrBatchNotActive)

	err = s.RollbackBatch()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrBatchNotActive)

	require.NoError(t, s.BeginBatch())
	err = s.BeginBatch()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrBatchActive)
	require.NoError(t, s.RollbackBatch())
}

func TestBatchOverflowAutoCommits(t *testing.T) {
	config := DefaultConfig()
	config.BatchChunkSize = 2
	config.MaxBatchSize = 4
	s, err := NewStore(config, nil, nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.BeginBatch())
	for i := 0; i < 5; i++ {
		triple := mustTriple(t,
			fmt.Sprintf("<http://example.org/s%d>", i),
			"http://example.org/p",
			fmt.Sprintf(`"%d"`, i))
		require.NoError(t, s.Add(triple))
	}

	// The buffer hit the hard cap at 4 and auto-committed; the 5th is
	// still buffered and batch mode is still active.
	assert.Equal(t, 4, s.Size())
	stats := s.Statistics()
	assert.True(t, stats.BatchActive)
	assert.Equal(t, 1, stats.BatchBuffered)

	require.NoError(t, s.CommitBatch())
	assert.Equal(t, 5, s.Size())
}
