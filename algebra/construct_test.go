package algebra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semgraph/rdf"
	"github.com/c360studio/semgraph/vocabulary"
)

func TestConstructSubstitutesBindings(t *testing.T) {
	e := NewConstructEvaluator(nil)

	template := []TriplePattern{
		{
			Subject:   Var("s"),
			Predicate: Bound(rdf.MustIRI(vocabulary.RDFType)),
			Object:    Bound(rdf.MustIRI("http://example.org/Person")),
		},
		{
			Subject:   Var("s"),
			Predicate: Bound(rdf.MustIRI(vocabulary.RDFSLabel)),
			Object:    Var("name"),
		},
	}

	solutions := []*rdf.SolutionMapping{
		solutionWith(map[string]rdf.Term{
			"s":    rdf.MustIRI("http://example.org/alice"),
			"name": rdf.NewLiteral("Alice"),
		}),
		solutionWith(map[string]rdf.Term{
			"s":    rdf.MustIRI("http://example.org/bob"),
			"name": rdf.NewLiteral("Bob"),
		}),
	}

	triples := e.Construct(template, solutions)
	require.Len(t, triples, 4)
	assert.Equal(t, "<http://example.org/alice>", triples[0].Subject().String())
	assert.Equal(t, "<"+vocabulary.RDFType+">", triples[0].Predicate().String())
	assert.Equal(t, `"Alice"`, triples[1].Object().String())
	assert.Equal(t, "<http://example.org/bob>", triples[2].Subject().String())
}

func TestConstructSuppressesDuplicates(t *testing.T) {
	e := NewConstructEvaluator(nil)

	// Both solutions bind ?s to the same subject, so the type triple is
	// produced once.
	template := []TriplePattern{
		{
			Subject:   Var("s"),
			Predicate: Bound(rdf.MustIRI(vocabulary.RDFType)),
			Object:    Bound(rdf.MustIRI("http://example.org/Task")),
		},
	}
	same := rdf.MustIRI("http://example.org/a")
	solutions := []*rdf.SolutionMapping{
		solutionWith(map[string]rdf.Term{"s": same}),
		solutionWith(map[string]rdf.Term{"s": same}),
	}

	triples := e.Construct(template, solutions)
	assert.Len(t, triples, 1)
}

func TestConstructSkipsUnboundAndInvalid(t *testing.T) {
	e := NewConstructEvaluator(nil)

	template := []TriplePattern{
		{
			Subject:   Var("s"),
			Predicate: Bound(rdf.MustIRI(vocabulary.RDFSLabel)),
			Object:    Var("missing"),
		},
		{
			Subject:   Var("s"),
			Predicate: Bound(rdf.MustIRI(vocabulary.RDFType)),
			Object:    Bound(rdf.MustIRI("http://example.org/Task")),
		},
		{
			// Literal in subject position is invalid and skipped.
			Subject:   Var("label"),
			Predicate: Bound(rdf.MustIRI(vocabulary.RDFType)),
			Object:    Bound(rdf.MustIRI("http://example.org/Task")),
		},
	}

	solutions := []*rdf.SolutionMapping{
		solutionWith(map[string]rdf.Term{
			"s":     rdf.MustIRI("http://example.org/a"),
			"label": rdf.NewLiteral("not a subject"),
		}),
	}

	triples := e.Construct(template, solutions)
	require.Len(t, triples, 1)
	assert.Equal(t, "<http://example.org/a>", triples[0].Subject().String())
}

func TestConstructScopesBlankNodesPerSolution(t *testing.T) {
	e := NewConstructEvaluator(nil)

	blank, err := rdf.NewBlankNode("item")
	require.NoError(t, err)
	template := []TriplePattern{
		{
			Subject:   Bound(blank),
			Predicate: Bound(rdf.MustIRI(vocabulary.RDFSLabel)),
			Object:    Var("name"),
		},
	}

	solutions := []*rdf.SolutionMapping{
		solutionWith(map[string]rdf.Term{"name": rdf.NewLiteral("first")}),
		solutionWith(map[string]rdf.Term{"name": rdf.NewLiteral("second")}),
	}

	triples := e.Construct(template, solutions)
	require.Len(t, triples, 2)
	assert.NotEqual(t, triples[0].Subject().String(), triples[1].Subject().String(),
		"template blank nodes are fresh per solution")
}
