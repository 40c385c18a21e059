package expression

import (
	"github.com/c360studio/semgraph/rdf"
)

// Coalesce returns the first bound term from its arguments, or nil when
// every argument is unbound.
func Coalesce(terms ...rdf.Term) rdf.Term {
	for _, t := range terms {
		if t != nil {
			return t
		}
	}
	return nil
}

// If returns whenTrue when the condition holds and whenFalse otherwise.
func If(condition bool, whenTrue, whenFalse rdf.Term) rdf.Term {
	if condition {
		return whenTrue
	}
	return whenFalse
}
