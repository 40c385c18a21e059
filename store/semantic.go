package store

import (
	"sort"
	"strings"

	"github.com/c360studio/semgraph/errors"
	"github.com/c360studio/semgraph/rdf"
	"github.com/c360studio/semgraph/vocabulary"
)

// SemanticPattern is a structured query over subjects: every non-empty
// constraint must hold for a subject to qualify. The result is every triple
// whose subject qualifies.
type SemanticPattern struct {
	// Type requires the subject to carry rdf:type with this object.
	Type rdf.Term

	// Domain requires the subject to carry rdfs:domain with this object.
	Domain rdf.Term

	// Range requires the subject to carry rdfs:range with this object.
	Range rdf.Term

	// RequiredPredicates requires the subject to carry at least one triple
	// with each listed predicate.
	RequiredPredicates []rdf.IRI
}

// isEmpty reports whether no constraint is set.
func (p SemanticPattern) isEmpty() bool {
	return p.Type == nil && p.Domain == nil && p.Range == nil && len(p.RequiredPredicates) == 0
}

// key builds the semantic cache key from the pattern's constraints.
func (p SemanticPattern) key() string {
	var sb strings.Builder
	sb.WriteString("type=")
	if p.Type != nil {
		sb.WriteString(p.Type.String())
	}
	sb.WriteString(";domain=")
	if p.Domain != nil {
		sb.WriteString(p.Domain.String())
	}
	sb.WriteString(";range=")
	if p.Range != nil {
		sb.WriteString(p.Range.String())
	}
	sb.WriteString(";required=")
	predicates := make([]string, len(p.RequiredPredicates))
	for i, pred := range p.RequiredPredicates {
		predicates[i] = pred.String()
	}
	sort.Strings(predicates)
	sb.WriteString(strings.Join(predicates, ","))
	return sb.String()
}

// semanticConstraint is one resolvable constraint: a (predicate, object)
// requirement where a nil object means "any object".
type semanticConstraint struct {
	predicate string
	object    rdf.Term
}

// SemanticQuery answers a structured pattern: the most selective available
// constraint seeds the candidate subject set, the remaining constraints
// filter it, and the result is every triple about a surviving subject. The
// result's triple-key set is cached until the next mutation.
func (s *Store) SemanticQuery(pattern SemanticPattern) ([]rdf.Triple, error) {
	if pattern.isEmpty() {
		return nil, errors.WrapInvalid(errors.ErrInvalidPattern, "store", "SemanticQuery",
			"pattern has no constraints")
	}

	cacheKey := pattern.key()
	if keys, ok := s.semanticCache.Get(cacheKey); ok {
		return s.resolveKeys(keys), nil
	}

	s.mu.RLock()
	subjects := s.semanticSubjectsLocked(pattern)

	var results []rdf.Triple
	for subject := range subjects {
		results = append(results, s.spo.lookupOne(subject)...)
	}
	s.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool { return results[i].Key() < results[j].Key() })

	keys := make([]string, len(results))
	for i, t := range results {
		keys[i] = t.Key()
	}
	if _, err := s.semanticCache.Set(cacheKey, keys); err != nil {
		s.logger.Debug("semantic cache set failed", "key", cacheKey, "error", err)
	}
	return results, nil
}

// semanticSubjectsLocked computes qualifying subject strings. Caller holds
// at least a read lock.
func (s *Store) semanticSubjectsLocked(pattern SemanticPattern) map[string]struct{} {
	constraints := pattern.constraints()

	// Seed from the most selective constraint: smallest candidate count
	// from the POS index.
	best := 0
	bestCount := -1
	for i, c := range constraints {
		var count int
		if c.object != nil {
			count = len(s.pos.lookupTwo(c.predicate, c.object.String()))
		} else {
			count = s.pos.countOne(c.predicate)
		}
		if bestCount < 0 || count < bestCount {
			best = i
			bestCount = count
		}
	}

	candidates := s.constraintSubjectsLocked(constraints[best])

	// Filter candidates against the remaining constraints.
	for i, c := range constraints {
		if i == best || len(candidates) == 0 {
			continue
		}
		allowed := s.constraintSubjectsLocked(c)
		for subject := range candidates {
			if _, ok := allowed[subject]; !ok {
				delete(candidates, subject)
			}
		}
	}
	return candidates
}

// constraintSubjectsLocked returns the subjects satisfying one constraint.
func (s *Store) constraintSubjectsLocked(c semanticConstraint) map[string]struct{} {
	var triples []rdf.Triple
	if c.object != nil {
		triples = s.pos.lookupTwo(c.predicate, c.object.String())
	} else {
		triples = s.pos.lookupOne(c.predicate)
	}
	subjects := make(map[string]struct{}, len(triples))
	for _, t := range triples {
		subjects[t.Subject().String()] = struct{}{}
	}
	return subjects
}

// constraints expands the pattern into its resolvable constraints. Never
// empty for a non-empty pattern.
func (p SemanticPattern) constraints() []semanticConstraint {
	var out []semanticConstraint
	if p.Type != nil {
		out = append(out, semanticConstraint{predicate: "<" + vocabulary.RDFType + ">", object: p.Type})
	}
	if p.Domain != nil {
		out = append(out, semanticConstraint{predicate: "<" + vocabulary.RDFSDomain + ">", object: p.Domain})
	}
	if p.Range != nil {
		out = append(out, semanticConstraint{predicate: "<" + vocabulary.RDFSRange + ">", object: p.Range})
	}
	for _, pred := range p.RequiredPredicates {
		out = append(out, semanticConstraint{predicate: pred.String()})
	}
	return out
}

// resolveKeys maps cached triple keys back to live triples, dropping any
// that no longer exist.
func (s *Store) resolveKeys(keys []string) []rdf.Triple {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]rdf.Triple, 0, len(keys))
	for _, key := range keys {
		if t, ok := s.triples[key]; ok {
			out = append(out, t)
		}
	}
	return out
}
