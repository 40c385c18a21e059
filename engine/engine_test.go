package engine

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semgraph/algebra"
	"github.com/c360studio/semgraph/errors"
	"github.com/c360studio/semgraph/rdf"
	"github.com/c360studio/semgraph/security"
	"github.com/c360studio/semgraph/store"
	"github.com/c360studio/semgraph/vocabulary"
)

func newTestEngine(t *testing.T, guard *security.Guard) (*Engine, *store.Store) {
	t.Helper()
	s, err := store.NewStore(store.DefaultConfig(), nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return New(s, guard, nil), s
}

func addTriple(t *testing.T, s *store.Store, subject, predicate string, object rdf.Term) {
	t.Helper()
	triple, err := rdf.NewTriple(rdf.MustIRI(subject), rdf.MustIRI(predicate), object)
	require.NoError(t, err)
	require.NoError(t, s.Add(triple))
}

func seedTasks(t *testing.T, s *store.Store) {
	t.Helper()
	task := rdf.MustIRI("http://example.org/Task")
	addTriple(t, s, "http://example.org/a", vocabulary.RDFType, task)
	addTriple(t, s, "http://example.org/a", vocabulary.RDFSLabel, rdf.NewLiteral("write report"))
	addTriple(t, s, "http://example.org/b", vocabulary.RDFType, task)
	addTriple(t, s, "http://example.org/b", vocabulary.RDFSLabel, rdf.NewLiteral("file taxes"))
	addTriple(t, s, "http://example.org/b", "http://example.org/done", rdf.NewLiteral("yes"))
}

func TestSelectJoinsPatterns(t *testing.T) {
	e, s := newTestEngine(t, nil)
	seedTasks(t, s)

	solutions, err := e.Select(context.Background(), SelectRequest{
		Patterns: []algebra.TriplePattern{
			{
				Subject:   algebra.Var("s"),
				Predicate: algebra.Bound(rdf.MustIRI(vocabulary.RDFType)),
				Object:    algebra.Bound(rdf.MustIRI("http://example.org/Task")),
			},
			{
				Subject:   algebra.Var("s"),
				Predicate: algebra.Bound(rdf.MustIRI(vocabulary.RDFSLabel)),
				Object:    algebra.Var("label"),
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, solutions, 2)
	for _, solution := range solutions {
		assert.True(t, solution.Bound("s"))
		assert.True(t, solution.Bound("label"))
	}
}

func TestSelectAppliesFilter(t *testing.T) {
	e, s := newTestEngine(t, nil)
	seedTasks(t, s)

	solutions, err := e.Select(context.Background(), SelectRequest{
		Patterns: []algebra.TriplePattern{
			{
				Subject:   algebra.Var("s"),
				Predicate: algebra.Bound(rdf.MustIRI(vocabulary.RDFSLabel)),
				Object:    algebra.Var("label"),
			},
		},
		Filter: algebra.FunctionCall{
			Name: algebra.FnContains,
			Args: []algebra.Expression{
				algebra.Variable{Name: "label"},
				algebra.TermValue{Term: rdf.NewLiteral("taxes")},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, solutions, 1)
	s0, _ := solutions[0].Get("s")
	assert.Equal(t, "<http://example.org/b>", s0.String())
}

func TestExistsFilterAgainstStore(t *testing.T) {
	e, s := newTestEngine(t, nil)
	seedTasks(t, s)

	// Tasks without a done marker.
	solutions, err := e.Select(context.Background(), SelectRequest{
		Patterns: []algebra.TriplePattern{
			{
				Subject:   algebra.Var("s"),
				Predicate: algebra.Bound(rdf.MustIRI(vocabulary.RDFType)),
				Object:    algebra.Bound(rdf.MustIRI("http://example.org/Task")),
			},
		},
		Filter: algebra.Exists{
			Negated: true,
			Patterns: []algebra.TriplePattern{
				{
					Subject:   algebra.Var("s"),
					Predicate: algebra.Bound(rdf.MustIRI("http://example.org/done")),
					Object:    algebra.Var("status"),
				},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, solutions, 1)
	s0, _ := solutions[0].Get("s")
	assert.Equal(t, "<http://example.org/a>", s0.String())
}

func TestConstructFromSolutions(t *testing.T) {
	e, s := newTestEngine(t, nil)
	seedTasks(t, s)

	triples, err := e.Construct(context.Background(), ConstructRequest{
		SelectRequest: SelectRequest{
			Patterns: []algebra.TriplePattern{
				{
					Subject:   algebra.Var("s"),
					Predicate: algebra.Bound(rdf.MustIRI(vocabulary.RDFType)),
					Object:    algebra.Bound(rdf.MustIRI("http://example.org/Task")),
				},
			},
		},
		Template: []algebra.TriplePattern{
			{
				Subject:   algebra.Var("s"),
				Predicate: algebra.Bound(rdf.MustIRI("http://example.org/status")),
				Object:    algebra.Bound(rdf.NewLiteral("open")),
			},
		},
	})
	require.NoError(t, err)
	assert.Len(t, triples, 2)
}

func TestGuardedSelectRejectsComplexQuery(t *testing.T) {
	config := security.DefaultConfig()
	config.MaxComplexity = 1
	guard, err := security.NewGuard(config, nil, nil)
	require.NoError(t, err)

	e, s := newTestEngine(t, guard)
	seedTasks(t, s)

	_, err = e.Select(context.Background(), SelectRequest{
		Text: "SELECT ?s WHERE { ?s a ?t . ?s ?p ?o }",
		Patterns: []algebra.TriplePattern{
			{Subject: algebra.Var("s"), Predicate: algebra.Var("p"), Object: algebra.Var("o")},
			{Subject: algebra.Var("s"), Predicate: algebra.Var("q"), Object: algebra.Var("r")},
		},
	})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrQueryTooComplex))
}

func TestGuardedSelectAdmitsSimpleQuery(t *testing.T) {
	guard, err := security.NewGuard(security.DefaultConfig(), nil, nil)
	require.NoError(t, err)

	e, s := newTestEngine(t, guard)
	seedTasks(t, s)

	solutions, err := e.Select(context.Background(), SelectRequest{
		Text:     "SELECT ?s WHERE { ?s a <http://example.org/Task> }",
		ClientID: "tester",
		Patterns: []algebra.TriplePattern{
			{
				Subject:   algebra.Var("s"),
				Predicate: algebra.Bound(rdf.MustIRI(vocabulary.RDFType)),
				Object:    algebra.Bound(rdf.MustIRI("http://example.org/Task")),
			},
		},
	})
	require.NoError(t, err)
	assert.Len(t, solutions, 2)
	assert.Equal(t, int64(0), guard.Tracker().InUse())
}

func TestSelectSharedVariableWithinPattern(t *testing.T) {
	e, s := newTestEngine(t, nil)
	addTriple(t, s, "http://example.org/n", "http://example.org/linksTo", rdf.MustIRI("http://example.org/n"))
	addTriple(t, s, "http://example.org/m", "http://example.org/linksTo", rdf.MustIRI("http://example.org/n"))

	// Self-links only: the same variable in two positions must agree.
	solutions, err := e.Select(context.Background(), SelectRequest{
		Patterns: []algebra.TriplePattern{
			{
				Subject:   algebra.Var("x"),
				Predicate: algebra.Bound(rdf.MustIRI("http://example.org/linksTo")),
				Object:    algebra.Var("x"),
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, solutions, 1)
	x, _ := solutions[0].Get("x")
	assert.Equal(t, "<http://example.org/n>", x.String())
}
