package expression

import (
	"github.com/c360studio/semgraph/errors"
	"github.com/c360studio/semgraph/rdf"
	"github.com/c360studio/semgraph/vocabulary"
)

// Str returns the lexical form of a term: the IRI string for IRIs, the
// label for blank nodes, and the value for literals. A nil term is an
// evaluation error.
func Str(term rdf.Term) (string, error) {
	if term == nil {
		return "", evalError("STR", "undefined argument", errors.ErrUnboundVariable)
	}
	switch t := term.(type) {
	case rdf.IRI:
		return t.Value(), nil
	case rdf.BlankNode:
		return t.ID(), nil
	case rdf.Literal:
		return t.Value(), nil
	default:
		return "", evalError("STR", "unsupported term kind", errors.ErrInvalidTerm)
	}
}

// Lang returns the language tag of a literal, or the empty string for a
// literal without a tag or for a non-literal term.
func Lang(term rdf.Term) (string, error) {
	if term == nil {
		return "", evalError("LANG", "undefined argument", errors.ErrUnboundVariable)
	}
	if lit, ok := term.(rdf.Literal); ok {
		return lit.Language(), nil
	}
	return "", nil
}

// Datatype returns the datatype IRI of a literal. Plain literals report
// xsd:string, language-tagged literals report rdf:langString, and
// non-literal terms report the empty string.
func Datatype(term rdf.Term) (string, error) {
	if term == nil {
		return "", evalError("DATATYPE", "undefined argument", errors.ErrUnboundVariable)
	}
	lit, ok := term.(rdf.Literal)
	if !ok {
		return "", nil
	}
	if lit.Language() != "" {
		return vocabulary.RDFLangString, nil
	}
	if dt, ok := lit.Datatype(); ok {
		return dt.Value(), nil
	}
	return vocabulary.XSDString, nil
}

// Bound reports whether a term is bound. Unlike the other term predicates
// it never fails: an unbound (nil) argument is exactly what it tests for.
func Bound(term rdf.Term) bool {
	return term != nil
}

// IsIRI reports whether the term is an IRI.
func IsIRI(term rdf.Term) (bool, error) {
	if term == nil {
		return false, evalError("isIRI", "undefined argument", errors.ErrUnboundVariable)
	}
	_, ok := term.(rdf.IRI)
	return ok, nil
}

// IsBlank reports whether the term is a blank node.
func IsBlank(term rdf.Term) (bool, error) {
	if term == nil {
		return false, evalError("isBlank", "undefined argument", errors.ErrUnboundVariable)
	}
	_, ok := term.(rdf.BlankNode)
	return ok, nil
}

// IsLiteral reports whether the term is a literal.
func IsLiteral(term rdf.Term) (bool, error) {
	if term == nil {
		return false, evalError("isLiteral", "undefined argument", errors.ErrUnboundVariable)
	}
	_, ok := term.(rdf.Literal)
	return ok, nil
}

// IsNumeric reports whether the term is a literal carrying a numeric
// datatype whose value parses as a number.
func IsNumeric(term rdf.Term) (bool, error) {
	if term == nil {
		return false, evalError("isNumeric", "undefined argument", errors.ErrUnboundVariable)
	}
	lit, ok := term.(rdf.Literal)
	if !ok {
		return false, nil
	}
	return lit.IsNumeric(), nil
}

// SameTerm reports exact term identity: same kind and identical lexical
// form, datatype, and language tag. No numeric coercion is applied.
func SameTerm(a, b rdf.Term) (bool, error) {
	if a == nil || b == nil {
		return false, evalError("sameTerm", "undefined argument", errors.ErrUnboundVariable)
	}
	return rdf.SameTerm(a, b), nil
}
