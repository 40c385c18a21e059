package expression

import (
	"fmt"
	"strconv"

	"github.com/c360studio/semgraph/errors"
	"github.com/c360studio/semgraph/rdf"
	"github.com/c360studio/semgraph/vocabulary"
)

// AsInteger casts a lexical value to an xsd:integer literal. The value must
// parse as a whole number.
func AsInteger(value string) (rdf.Literal, error) {
	if _, err := strconv.ParseInt(value, 10, 64); err != nil {
		return rdf.Literal{}, errors.WrapInvalid(errors.ErrInvalidTerm, "expression", "AsInteger",
			fmt.Sprintf("value %q is not an integer", value))
	}
	return rdf.NewTypedLiteral(value, rdf.MustIRI(vocabulary.XSDInteger)), nil
}

// AsDecimal casts a lexical value to an xsd:decimal literal.
func AsDecimal(value string) (rdf.Literal, error) {
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return rdf.Literal{}, errors.WrapInvalid(errors.ErrInvalidTerm, "expression", "AsDecimal",
			fmt.Sprintf("value %q is not a decimal", value))
	}
	return rdf.NewTypedLiteral(value, rdf.MustIRI(vocabulary.XSDDecimal)), nil
}

// AsDateTime casts a lexical value to an xsd:dateTime literal. The value
// must parse as a date or dateTime.
func AsDateTime(value string) (rdf.Literal, error) {
	if _, err := ParseDateTime(value); err != nil {
		return rdf.Literal{}, err
	}
	return rdf.NewTypedLiteral(value, rdf.MustIRI(vocabulary.XSDDateTime)), nil
}
