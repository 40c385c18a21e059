// Package algebra evaluates parsed query operations: filter expression trees
// over solution mappings and construct templates producing triples. It never
// sees raw query text; callers hand it an already-parsed operation tree.
package algebra

import (
	"github.com/c360studio/semgraph/rdf"
)

// Expression is the closed set of filter expression nodes. Only the node
// types in this package implement it, so evaluation can match exhaustively
// and treat any other value as a programming error.
type Expression interface {
	exprNode()
}

// TermValue is a constant term appearing in an expression.
type TermValue struct {
	Term rdf.Term
}

func (TermValue) exprNode() {}

// Variable references a solution binding by name.
type Variable struct {
	Name string
}

func (Variable) exprNode() {}

// Comparison applies a binary comparison operator to two operands.
type Comparison struct {
	Operator string
	Left     Expression
	Right    Expression
}

func (Comparison) exprNode() {}

// FunctionCall invokes a built-in scalar function by name.
type FunctionCall struct {
	Name string
	Args []Expression
}

func (FunctionCall) exprNode() {}

// Not negates its single boolean operand.
type Not struct {
	Operand Expression
}

func (Not) exprNode() {}

// And is true when every operand is true. All operands are evaluated
// eagerly; an empty operand list is vacuously true.
type And struct {
	Operands []Expression
}

func (And) exprNode() {}

// Or is true when any operand is true. All operands are evaluated eagerly;
// an empty operand list is vacuously false.
type Or struct {
	Operands []Expression
}

func (Or) exprNode() {}

// Exists tests whether a sub-pattern has at least one match in the store
// under the current bindings. Negated selects NOT EXISTS semantics.
type Exists struct {
	Patterns []TriplePattern
	Negated  bool
}

func (Exists) exprNode() {}

// PatternTerm is one position of a triple pattern: either a variable name or
// a concrete term.
type PatternTerm struct {
	variable string
	term     rdf.Term
}

// Var makes a variable pattern term.
func Var(name string) PatternTerm {
	return PatternTerm{variable: name}
}

// Bound makes a concrete pattern term.
func Bound(term rdf.Term) PatternTerm {
	return PatternTerm{term: term}
}

// IsVariable reports whether the position holds a variable.
func (p PatternTerm) IsVariable() bool {
	return p.variable != ""
}

// VariableName returns the variable name, empty for concrete terms.
func (p PatternTerm) VariableName() string {
	return p.variable
}

// Term returns the concrete term, nil for variables.
func (p PatternTerm) Term() rdf.Term {
	return p.term
}

// Resolve returns the concrete term for this position under the given
// solution: the term itself when concrete, the binding when a bound
// variable, and (nil, false) when the variable is unbound.
func (p PatternTerm) Resolve(solution *rdf.SolutionMapping) (rdf.Term, bool) {
	if !p.IsVariable() {
		return p.term, p.term != nil
	}
	if solution == nil {
		return nil, false
	}
	return solution.Get(p.variable)
}

// TriplePattern is one (subject, predicate, object) pattern in an EXISTS
// sub-pattern or a construct template.
type TriplePattern struct {
	Subject   PatternTerm
	Predicate PatternTerm
	Object    PatternTerm
}
