// Package rdf provides the RDF term model for semgraph: IRIs, literals,
// blank nodes, triples, and the solution mappings produced during query
// evaluation. Terms are immutable once constructed.
package rdf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c360studio/semgraph/errors"
	"github.com/c360studio/semgraph/vocabulary"
)

// TermKind identifies the concrete kind of an RDF term.
type TermKind int

const (
	// KindIRI is an absolute resource identifier.
	KindIRI TermKind = iota
	// KindLiteral is a value with optional datatype and language tag.
	KindLiteral
	// KindBlankNode is a store-local anonymous resource identifier.
	KindBlankNode
)

// String returns the string representation of the TermKind.
func (k TermKind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindLiteral:
		return "literal"
	case KindBlankNode:
		return "blank"
	default:
		return "unknown"
	}
}

// Term is the closed set of RDF term kinds. Only IRI, Literal, and BlankNode
// implement it.
type Term interface {
	// Kind returns the concrete kind of the term.
	Kind() TermKind

	// String renders the term in N-Triples form. It doubles as the term's
	// identity for index and cache keys.
	String() string

	// Equals compares by value: exact for IRIs and blank nodes, value
	// equality with numeric coercion for literals.
	Equals(other Term) bool

	// sealed prevents implementations outside this package so the term
	// union stays closed.
	sealed()
}

// IRI is an immutable absolute resource identifier. Equality is exact string
// equality.
type IRI struct {
	value string
}

// NewIRI validates and constructs an IRI.
func NewIRI(value string) (IRI, error) {
	if strings.TrimSpace(value) == "" {
		return IRI{}, errors.WrapInvalid(errors.ErrInvalidTerm, "rdf", "NewIRI", "empty IRI")
	}
	if strings.ContainsAny(value, " <>\"{}|\\^`\n\t") {
		return IRI{}, errors.WrapInvalid(errors.ErrInvalidTerm, "rdf", "NewIRI",
			fmt.Sprintf("IRI contains forbidden character: %q", value))
	}
	return IRI{value: value}, nil
}

// MustIRI constructs an IRI and panics on invalid input. Intended for
// vocabulary constants and tests.
func MustIRI(value string) IRI {
	iri, err := NewIRI(value)
	if err != nil {
		panic(err)
	}
	return iri
}

// Value returns the raw IRI string.
func (i IRI) Value() string { return i.value }

// Kind returns KindIRI.
func (i IRI) Kind() TermKind { return KindIRI }

// String renders the IRI in N-Triples form.
func (i IRI) String() string { return "<" + i.value + ">" }

// Equals compares IRIs by exact string equality.
func (i IRI) Equals(other Term) bool {
	o, ok := other.(IRI)
	return ok && o.value == i.value
}

func (i IRI) sealed() {}

// BlankNode is an immutable local identifier scoped to one store instance.
type BlankNode struct {
	id string
}

// NewBlankNode validates and constructs a BlankNode.
func NewBlankNode(id string) (BlankNode, error) {
	if strings.TrimSpace(id) == "" {
		return BlankNode{}, errors.WrapInvalid(errors.ErrInvalidTerm, "rdf", "NewBlankNode", "empty blank node id")
	}
	return BlankNode{id: id}, nil
}

// ID returns the local identifier.
func (b BlankNode) ID() string { return b.id }

// Kind returns KindBlankNode.
func (b BlankNode) Kind() TermKind { return KindBlankNode }

// String renders the blank node in N-Triples form.
func (b BlankNode) String() string { return "_:" + b.id }

// Equals compares blank nodes by identifier.
func (b BlankNode) Equals(other Term) bool {
	o, ok := other.(BlankNode)
	return ok && o.id == b.id
}

func (b BlankNode) sealed() {}

// Literal is an immutable lexical value with optional datatype and language
// tag.
type Literal struct {
	value    string
	datatype string // datatype IRI, empty when plain
	language string
}

// NewLiteral constructs a plain literal.
func NewLiteral(value string) Literal {
	return Literal{value: value}
}

// NewTypedLiteral constructs a literal carrying an explicit datatype IRI.
func NewTypedLiteral(value string, datatype IRI) Literal {
	return Literal{value: value, datatype: datatype.Value()}
}

// NewLangLiteral constructs a language-tagged literal.
func NewLangLiteral(value, language string) Literal {
	return Literal{value: value, language: language}
}

// Value returns the lexical value.
func (l Literal) Value() string { return l.value }

// Datatype returns the datatype IRI and whether one is present.
func (l Literal) Datatype() (IRI, bool) {
	if l.datatype == "" {
		return IRI{}, false
	}
	return IRI{value: l.datatype}, true
}

// Language returns the language tag, empty when untagged.
func (l Literal) Language() string { return l.language }

// IsNumeric reports whether the literal carries a numeric XSD datatype.
func (l Literal) IsNumeric() bool {
	return vocabulary.IsNumericDatatype(l.datatype)
}

// NumericValue parses the lexical value as a float64. Fails when the literal
// is not numeric or its lexical form does not parse.
func (l Literal) NumericValue() (float64, error) {
	if !l.IsNumeric() {
		return 0, errors.WrapInvalid(errors.ErrInvalidTerm, "rdf", "NumericValue",
			fmt.Sprintf("literal %q has non-numeric datatype", l.value))
	}
	f, err := strconv.ParseFloat(l.value, 64)
	if err != nil {
		return 0, errors.WrapInvalid(errors.ErrParsingFailed, "rdf", "NumericValue",
			fmt.Sprintf("lexical value %q is not a number", l.value))
	}
	return f, nil
}

// Kind returns KindLiteral.
func (l Literal) Kind() TermKind { return KindLiteral }

// String renders the literal in N-Triples form.
func (l Literal) String() string {
	var sb strings.Builder
	sb.WriteByte('"')
	sb.WriteString(escapeLiteral(l.value))
	sb.WriteByte('"')
	if l.language != "" {
		sb.WriteByte('@')
		sb.WriteString(l.language)
	} else if l.datatype != "" {
		sb.WriteString("^^<")
		sb.WriteString(l.datatype)
		sb.WriteByte('>')
	}
	return sb.String()
}

// Equals implements value equality: two numeric literals compare by numeric
// value regardless of datatype, everything else requires exact lexical,
// datatype, and language match.
func (l Literal) Equals(other Term) bool {
	o, ok := other.(Literal)
	if !ok {
		return false
	}
	if l.IsNumeric() && o.IsNumeric() {
		lv, lerr := l.NumericValue()
		ov, oerr := o.NumericValue()
		if lerr == nil && oerr == nil {
			return lv == ov
		}
	}
	return SameTerm(l, o)
}

func (l Literal) sealed() {}

// SameTerm reports term identity: lexical value, datatype, and language tag
// must all match exactly. No numeric coercion and no plain-literal to
// xsd:string promotion is applied.
func SameTerm(a, b Term) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch at := a.(type) {
	case Literal:
		bt := b.(Literal)
		return at.value == bt.value && at.datatype == bt.datatype && at.language == bt.language
	default:
		return a.String() == b.String()
	}
}

func escapeLiteral(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return replacer.Replace(s)
}
