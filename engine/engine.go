// Package engine wires the triple store, the algebra execution layer and the
// security guard into a single query entry point. Callers hand it parsed
// pattern/filter/construct operations; the engine matches basic graph
// patterns against the store, evaluates filters (installing itself as the
// EXISTS sub-evaluator) and instantiates construct templates, all under the
// guard's admission pipeline and timeout.
package engine

import (
	"context"
	"log/slog"

	"github.com/c360studio/semgraph/algebra"
	"github.com/c360studio/semgraph/errors"
	"github.com/c360studio/semgraph/rdf"
	"github.com/c360studio/semgraph/security"
	"github.com/c360studio/semgraph/store"
)

// SelectRequest is a pattern/filter query returning solution mappings.
// Text, ClientID and Admin feed the security guard; Patterns is the basic
// graph pattern, Filter an optional expression applied to each solution.
type SelectRequest struct {
	Text     string
	ClientID string
	Admin    bool

	Patterns []algebra.TriplePattern
	Filter   algebra.Expression
}

// ConstructRequest is a construct query: a select over Patterns/Filter whose
// solutions instantiate Template into triples.
type ConstructRequest struct {
	SelectRequest
	Template []algebra.TriplePattern
}

// Engine executes parsed queries against one store.
type Engine struct {
	store     *store.Store
	guard     *security.Guard
	filter    *algebra.FilterEvaluator
	construct *algebra.ConstructEvaluator
	logger    *slog.Logger
}

// New creates an engine over the given store. guard may be nil, in which
// case queries run unguarded (no validation, rate limiting or timeout).
// logger may be nil.
func New(s *store.Store, guard *security.Guard, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		store:     s,
		guard:     guard,
		filter:    algebra.NewFilterEvaluator(logger),
		construct: algebra.NewConstructEvaluator(logger),
		logger:    logger,
	}
	e.filter.SetExistsEvaluator(e.exists)
	return e
}

// Select matches the request's basic graph pattern, applies its filter and
// returns the surviving solutions in match order.
func (e *Engine) Select(ctx context.Context, req SelectRequest) ([]*rdf.SolutionMapping, error) {
	var results []*rdf.SolutionMapping
	err := e.guarded(ctx, req, func(ctx context.Context, resources *security.QueryResources) error {
		solutions, err := e.matchPatterns(ctx, req.Patterns, nil)
		if err != nil {
			return err
		}
		if resources != nil {
			resources.Track(int64(len(solutions)))
		}
		if req.Filter != nil {
			solutions, err = e.filter.Filter(ctx, req.Filter, solutions)
			if err != nil {
				return err
			}
		}
		results = solutions
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Construct runs the request's select part and instantiates its template
// once per solution, suppressing duplicate triples.
func (e *Engine) Construct(ctx context.Context, req ConstructRequest) ([]rdf.Triple, error) {
	var results []rdf.Triple
	err := e.guarded(ctx, req.SelectRequest, func(ctx context.Context, resources *security.QueryResources) error {
		solutions, err := e.matchPatterns(ctx, req.Patterns, nil)
		if err != nil {
			return err
		}
		if resources != nil {
			resources.Track(int64(len(solutions)))
		}
		if req.Filter != nil {
			solutions, err = e.filter.Filter(ctx, req.Filter, solutions)
			if err != nil {
				return err
			}
		}
		results = e.construct.Construct(req.Template, solutions)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) guarded(ctx context.Context, req SelectRequest, run security.ExecFunc) error {
	if e.guard == nil {
		return run(ctx, nil)
	}
	query := security.Query{
		Text:     req.Text,
		ClientID: req.ClientID,
		Admin:    req.Admin,
		Patterns: len(req.Patterns),
	}
	if req.Filter != nil {
		query.Filters = 1
	}
	return e.guard.Execute(ctx, query, run)
}

// exists reports whether the sub-pattern has at least one match under the
// given bindings. Installed on the filter evaluator at construction.
func (e *Engine) exists(ctx context.Context, patterns []algebra.TriplePattern, solution *rdf.SolutionMapping) (bool, error) {
	solutions, err := e.matchPatterns(ctx, patterns, solution)
	if err != nil {
		return false, err
	}
	return len(solutions) > 0, nil
}

// matchPatterns joins the patterns left to right with a nested-loop join,
// narrowing each pattern through the store's query cache using whatever
// terms the accumulated bindings make concrete.
func (e *Engine) matchPatterns(ctx context.Context, patterns []algebra.TriplePattern, base *rdf.SolutionMapping) ([]*rdf.SolutionMapping, error) {
	start := base
	if start == nil {
		start = rdf.NewSolutionMapping()
	}
	solutions := []*rdf.SolutionMapping{start}

	for _, pattern := range patterns {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapTransient(err, "engine", "matchPatterns", "query cancelled")
		}
		var next []*rdf.SolutionMapping
		for _, solution := range solutions {
			subject, _ := pattern.Subject.Resolve(solution)
			predicate, _ := pattern.Predicate.Resolve(solution)
			object, _ := pattern.Object.Resolve(solution)

			for _, candidate := range e.store.Query(subject, predicate, object) {
				if extended, ok := extendSolution(pattern, candidate, solution); ok {
					next = append(next, extended)
				}
			}
		}
		solutions = next
		if len(solutions) == 0 {
			break
		}
	}
	return solutions, nil
}

// extendSolution binds the pattern's unbound variables to the candidate's
// terms. A variable occurring twice in one pattern must resolve to the same
// term both times.
func extendSolution(pattern algebra.TriplePattern, candidate rdf.Triple, solution *rdf.SolutionMapping) (*rdf.SolutionMapping, bool) {
	extended := solution.Clone()
	positions := []struct {
		position algebra.PatternTerm
		value    rdf.Term
	}{
		{pattern.Subject, candidate.Subject()},
		{pattern.Predicate, candidate.Predicate()},
		{pattern.Object, candidate.Object()},
	}
	for _, p := range positions {
		if !p.position.IsVariable() {
			continue
		}
		name := p.position.VariableName()
		if bound, ok := extended.Get(name); ok {
			if !rdf.SameTerm(bound, p.value) {
				return nil, false
			}
			continue
		}
		extended.Bind(name, p.value)
	}
	return extended, true
}
