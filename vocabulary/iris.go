// Package vocabulary defines the well-known IRIs the semgraph engine
// recognizes: core RDF/RDFS/XSD terms, SKOS hierarchy predicates, and the
// registry of predicates that participate in property-hierarchy traversal.
package vocabulary

// Core RDF and RDFS vocabulary
const (
	RDFType       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	RDFLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"

	RDFSLabel         = "http://www.w3.org/2000/01/rdf-schema#label"
	RDFSComment       = "http://www.w3.org/2000/01/rdf-schema#comment"
	RDFSSubClassOf    = "http://www.w3.org/2000/01/rdf-schema#subClassOf"
	RDFSSubPropertyOf = "http://www.w3.org/2000/01/rdf-schema#subPropertyOf"
	RDFSDomain        = "http://www.w3.org/2000/01/rdf-schema#domain"
	RDFSRange         = "http://www.w3.org/2000/01/rdf-schema#range"
)

// SKOS concept-scheme vocabulary
const (
	SKOSBroader   = "http://www.w3.org/2004/02/skos/core#broader"
	SKOSNarrower  = "http://www.w3.org/2004/02/skos/core#narrower"
	SKOSPrefLabel = "http://www.w3.org/2004/02/skos/core#prefLabel"
	SKOSAltLabel  = "http://www.w3.org/2004/02/skos/core#altLabel"
)

// XSD datatype IRIs
const (
	XSDString   = "http://www.w3.org/2001/XMLSchema#string"
	XSDBoolean  = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDInteger  = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDecimal  = "http://www.w3.org/2001/XMLSchema#decimal"
	XSDFloat    = "http://www.w3.org/2001/XMLSchema#float"
	XSDDouble   = "http://www.w3.org/2001/XMLSchema#double"
	XSDLong     = "http://www.w3.org/2001/XMLSchema#long"
	XSDInt      = "http://www.w3.org/2001/XMLSchema#int"
	XSDDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"
	XSDDate     = "http://www.w3.org/2001/XMLSchema#date"
)

// numericDatatypes lists XSD datatypes that compare numerically.
var numericDatatypes = map[string]bool{
	XSDInteger: true,
	XSDDecimal: true,
	XSDFloat:   true,
	XSDDouble:  true,
	XSDLong:    true,
	XSDInt:     true,
}

// IsNumericDatatype reports whether the datatype IRI denotes a numeric XSD type.
func IsNumericDatatype(iri string) bool {
	return numericDatatypes[iri]
}

// IsDateTimeDatatype reports whether the datatype IRI denotes a date/time XSD type.
func IsDateTimeDatatype(iri string) bool {
	return iri == XSDDateTime || iri == XSDDate
}
