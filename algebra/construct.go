package algebra

import (
	"fmt"
	"log/slog"

	"github.com/c360studio/semgraph/rdf"
)

// ConstructEvaluator instantiates construct templates over solution
// sequences.
type ConstructEvaluator struct {
	logger *slog.Logger
}

// NewConstructEvaluator creates a construct evaluator. A nil logger falls
// back to slog.Default().
func NewConstructEvaluator(logger *slog.Logger) *ConstructEvaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConstructEvaluator{logger: logger}
}

// Construct instantiates the template once per (solution, pattern) pair,
// substituting bound variable values. Output triples are deduplicated by
// their three-term key within one invocation, and the first-produced order
// is preserved. An instantiation that references an unbound variable or
// produces an invalid triple is skipped, never fatal to the batch.
//
// Blank-node labels in the template are scoped per solution: the same label
// produces the same blank node within one solution's instantiations and a
// fresh one for the next solution.
func (e *ConstructEvaluator) Construct(template []TriplePattern, solutions []*rdf.SolutionMapping) []rdf.Triple {
	seen := make(map[string]struct{})
	var out []rdf.Triple

	for i, solution := range solutions {
		for _, pattern := range template {
			triple, ok := e.instantiate(pattern, solution, i)
			if !ok {
				continue
			}
			key := triple.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, triple)
		}
	}
	return out
}

// instantiate resolves one pattern against one solution. The solution index
// scopes blank-node labels.
func (e *ConstructEvaluator) instantiate(pattern TriplePattern, solution *rdf.SolutionMapping, solutionIndex int) (rdf.Triple, bool) {
	subject, ok := resolveConstructTerm(pattern.Subject, solution, solutionIndex)
	if !ok {
		e.logger.Debug("construct instantiation skipped", "position", "subject")
		return rdf.Triple{}, false
	}
	predicateTerm, ok := resolveConstructTerm(pattern.Predicate, solution, solutionIndex)
	if !ok {
		e.logger.Debug("construct instantiation skipped", "position", "predicate")
		return rdf.Triple{}, false
	}
	predicate, ok := predicateTerm.(rdf.IRI)
	if !ok {
		e.logger.Debug("construct instantiation skipped", "reason", "non-IRI predicate")
		return rdf.Triple{}, false
	}
	object, ok := resolveConstructTerm(pattern.Object, solution, solutionIndex)
	if !ok {
		e.logger.Debug("construct instantiation skipped", "position", "object")
		return rdf.Triple{}, false
	}

	triple, err := rdf.NewTriple(subject, predicate, object)
	if err != nil {
		e.logger.Debug("construct instantiation skipped", "error", err)
		return rdf.Triple{}, false
	}
	return triple, true
}

func resolveConstructTerm(p PatternTerm, solution *rdf.SolutionMapping, solutionIndex int) (rdf.Term, bool) {
	term, ok := p.Resolve(solution)
	if !ok {
		return nil, false
	}
	if blank, isBlank := term.(rdf.BlankNode); isBlank && !p.IsVariable() {
		scoped, err := rdf.NewBlankNode(fmt.Sprintf("%s_%d", blank.ID(), solutionIndex))
		if err != nil {
			return nil, false
		}
		return scoped, true
	}
	return term, true
}
