// Package semgraph is an in-process RDF triple store with a query engine
// and a security guard, designed to be embedded inside a host application.
//
// # Architecture
//
// The module is a set of flat packages, leaves first:
//
//   - rdf: the term model (IRI, Literal, BlankNode), Triple, and
//     SolutionMapping. Value equality applies numeric coercion; SameTerm is
//     exact term identity.
//   - vocabulary: well-known IRIs and the registry of hierarchy-relating
//     predicates that feed the store's property-hierarchy index.
//   - expression: the scalar function library used during filtering
//     (string, numeric, date/time, conditional, term predicates), with
//     LRU-cached compiled regexes.
//   - store: the indexed triple store. Three term-ordered indexes (SPO,
//     POS, OSP), an exact existence set for fully-bound lookups, a
//     property-hierarchy index with memoized bounded-depth closure, result
//     caches invalidated on mutation, and a chunked batch bulk-load path.
//   - algebra: evaluation of parsed filter expressions and construct
//     templates over solution mappings, with EXISTS delegated to a
//     caller-installed sub-evaluator.
//   - security: the query guard. Validation, complexity scoring, per-client
//     rate limiting, timeout enforcement with resource tracking, and an
//     incident monitor that can escalate into emergency mode.
//   - engine: wires store, algebra, and guard into Select/Construct entry
//     points and installs the store-backed EXISTS evaluator.
//
// The module owns no wire protocol, CLI, or persistence; the host supplies
// triples and parsed query operations and consumes solutions, constructed
// triples, and the incident feed.
//
// # Observability
//
// Components log through log/slog and accept an optional
// metric.MetricsRegistry for Prometheus metrics; a nil registry disables
// metrics collection entirely.
package semgraph
