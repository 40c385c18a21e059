package rdf

import (
	"fmt"
	"strings"

	"github.com/c360studio/semgraph/errors"
)

// Triple is an immutable (subject, predicate, object) fact. The subject is an
// IRI or blank node, the predicate an IRI, and the object any term.
type Triple struct {
	subject   Term
	predicate IRI
	object    Term
}

// NewTriple validates term positions and constructs a Triple.
func NewTriple(subject Term, predicate IRI, object Term) (Triple, error) {
	if subject == nil {
		return Triple{}, errors.WrapInvalid(errors.ErrInvalidTriple, "rdf", "NewTriple", "nil subject")
	}
	if subject.Kind() == KindLiteral {
		return Triple{}, errors.WrapInvalid(errors.ErrInvalidTriple, "rdf", "NewTriple",
			"literal subject not allowed")
	}
	if predicate.Value() == "" {
		return Triple{}, errors.WrapInvalid(errors.ErrInvalidTriple, "rdf", "NewTriple", "empty predicate")
	}
	if object == nil {
		return Triple{}, errors.WrapInvalid(errors.ErrInvalidTriple, "rdf", "NewTriple", "nil object")
	}
	return Triple{subject: subject, predicate: predicate, object: object}, nil
}

// Subject returns the triple's subject term.
func (t Triple) Subject() Term { return t.subject }

// Predicate returns the triple's predicate IRI.
func (t Triple) Predicate() IRI { return t.predicate }

// Object returns the triple's object term.
func (t Triple) Object() Term { return t.object }

// Key returns the triple's uniqueness key: the string join of its three
// terms. Used by indexes, the existence set, and duplicate suppression.
func (t Triple) Key() string {
	return t.subject.String() + " " + t.predicate.String() + " " + t.object.String()
}

// String renders the triple in N-Triples form.
func (t Triple) String() string {
	return t.Key() + " ."
}

// Equals compares triples by term identity in all three positions.
func (t Triple) Equals(other Triple) bool {
	return SameTerm(t.subject, other.subject) &&
		t.predicate.Equals(other.predicate) &&
		SameTerm(t.object, other.object)
}

// ParseTerm parses one N-Triples-form term: <iri>, _:id, "literal",
// "literal"@lang, or "literal"^^<datatype>. Malformed input fails with a
// parse error.
func ParseTerm(s string) (Term, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.WrapInvalid(errors.ErrParsingFailed, "rdf", "ParseTerm", "empty term")
	}

	switch {
	case strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">"):
		return NewIRI(s[1 : len(s)-1])

	case strings.HasPrefix(s, "_:"):
		return NewBlankNode(s[2:])

	case strings.HasPrefix(s, `"`):
		return parseLiteral(s)

	default:
		return nil, errors.WrapInvalid(errors.ErrParsingFailed, "rdf", "ParseTerm",
			fmt.Sprintf("unrecognized term form: %q", s))
	}
}

func parseLiteral(s string) (Term, error) {
	end := closingQuote(s)
	if end < 0 {
		return nil, errors.WrapInvalid(errors.ErrParsingFailed, "rdf", "parseLiteral",
			fmt.Sprintf("unterminated literal: %q", s))
	}

	value := unescapeLiteral(s[1:end])
	rest := s[end+1:]

	switch {
	case rest == "":
		return NewLiteral(value), nil

	case strings.HasPrefix(rest, "@"):
		lang := rest[1:]
		if lang == "" {
			return nil, errors.WrapInvalid(errors.ErrParsingFailed, "rdf", "parseLiteral", "empty language tag")
		}
		return NewLangLiteral(value, lang), nil

	case strings.HasPrefix(rest, "^^<") && strings.HasSuffix(rest, ">"):
		dt, err := NewIRI(rest[3 : len(rest)-1])
		if err != nil {
			return nil, err
		}
		return NewTypedLiteral(value, dt), nil

	default:
		return nil, errors.WrapInvalid(errors.ErrParsingFailed, "rdf", "parseLiteral",
			fmt.Sprintf("malformed literal suffix: %q", rest))
	}
}

// closingQuote finds the index of the unescaped closing quote of a literal
// that starts at index 0.
func closingQuote(s string) int {
	escaped := false
	for i := 1; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == '"':
			return i
		}
	}
	return -1
}

func unescapeLiteral(s string) string {
	replacer := strings.NewReplacer(
		`\"`, `"`,
		`\n`, "\n",
		`\r`, "\r",
		`\t`, "\t",
		`\\`, `\`,
	)
	return replacer.Replace(s)
}
