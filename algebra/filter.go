package algebra

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/c360studio/semgraph/errors"
	"github.com/c360studio/semgraph/expression"
	"github.com/c360studio/semgraph/rdf"
	"github.com/c360studio/semgraph/vocabulary"
)

// ExistsEvaluator re-executes a sub-pattern against the store under the
// current bindings and reports whether any match exists. The host installs
// exactly one of these at startup; it is the only path from this layer back
// into pattern execution.
type ExistsEvaluator func(ctx context.Context, patterns []TriplePattern, solution *rdf.SolutionMapping) (bool, error)

// FilterEvaluator evaluates filter expression trees against solution
// mappings.
type FilterEvaluator struct {
	exists ExistsEvaluator
	logger *slog.Logger
}

// NewFilterEvaluator creates a filter evaluator. A nil logger falls back to
// slog.Default().
func NewFilterEvaluator(logger *slog.Logger) *FilterEvaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FilterEvaluator{logger: logger}
}

// SetExistsEvaluator installs the sub-pattern evaluator. Must be called
// before any EXISTS or NOT EXISTS expression is evaluated.
func (e *FilterEvaluator) SetExistsEvaluator(fn ExistsEvaluator) {
	e.exists = fn
}

// Filter returns the subset of input solutions for which the expression
// evaluates to true, preserving input order. A row whose evaluation fails is
// skipped, not propagated; only a fatal error (EXISTS with no installed
// evaluator) aborts the stream.
func (e *FilterEvaluator) Filter(ctx context.Context, expr Expression, input []*rdf.SolutionMapping) ([]*rdf.SolutionMapping, error) {
	out := make([]*rdf.SolutionMapping, 0, len(input))
	for _, solution := range input {
		keep, err := e.EvaluateBool(ctx, expr, solution)
		if err != nil {
			if errors.IsFatal(err) {
				return nil, err
			}
			e.logger.Debug("filter row skipped", "error", err)
			continue
		}
		if keep {
			out = append(out, solution)
		}
	}
	return out, nil
}

// EvaluateBool evaluates an expression and reduces the result to its
// effective boolean value.
func (e *FilterEvaluator) EvaluateBool(ctx context.Context, expr Expression, solution *rdf.SolutionMapping) (bool, error) {
	v, err := e.Evaluate(ctx, expr, solution)
	if err != nil {
		return false, err
	}
	return effectiveBoolean(v)
}

// Evaluate evaluates an expression tree bottom-up against one solution. The
// result is an rdf.Term, bool, string, int, or float64 depending on the
// outermost node.
func (e *FilterEvaluator) Evaluate(ctx context.Context, expr Expression, solution *rdf.SolutionMapping) (any, error) {
	switch node := expr.(type) {
	case TermValue:
		if node.Term == nil {
			return nil, errors.WrapInvalid(errors.ErrInvalidTerm, "algebra", "Evaluate", "nil constant term")
		}
		return node.Term, nil

	case Variable:
		term, ok := solution.Get(node.Name)
		if !ok {
			return nil, errors.WrapInvalid(errors.ErrUnboundVariable, "algebra", "Evaluate",
				fmt.Sprintf("variable %q is not bound", node.Name))
		}
		return term, nil

	case Comparison:
		return e.evaluateComparison(ctx, node, solution)

	case FunctionCall:
		return e.evaluateFunction(ctx, node, solution)

	case Not:
		inner, err := e.EvaluateBool(ctx, node.Operand, solution)
		if err != nil {
			return nil, err
		}
		return !inner, nil

	case And:
		// All operands evaluate eagerly; empty is vacuously true.
		result := true
		for _, operand := range node.Operands {
			v, err := e.EvaluateBool(ctx, operand, solution)
			if err != nil {
				return nil, err
			}
			result = result && v
		}
		return result, nil

	case Or:
		// All operands evaluate eagerly; empty is vacuously false.
		result := false
		for _, operand := range node.Operands {
			v, err := e.EvaluateBool(ctx, operand, solution)
			if err != nil {
				return nil, err
			}
			result = result || v
		}
		return result, nil

	case Exists:
		return e.evaluateExists(ctx, node, solution)

	default:
		return nil, errors.WrapInvalid(errors.ErrInvalidPattern, "algebra", "Evaluate",
			fmt.Sprintf("unknown expression node %T", expr))
	}
}

func (e *FilterEvaluator) evaluateComparison(ctx context.Context, node Comparison, solution *rdf.SolutionMapping) (bool, error) {
	left, err := e.Evaluate(ctx, node.Left, solution)
	if err != nil {
		return false, err
	}
	right, err := e.Evaluate(ctx, node.Right, solution)
	if err != nil {
		return false, err
	}
	leftTerm, err := valueToTerm(left)
	if err != nil {
		return false, err
	}
	rightTerm, err := valueToTerm(right)
	if err != nil {
		return false, err
	}
	return expression.Compare(leftTerm, rightTerm, node.Operator)
}

func (e *FilterEvaluator) evaluateExists(ctx context.Context, node Exists, solution *rdf.SolutionMapping) (bool, error) {
	if e.exists == nil {
		return false, errors.WrapFatal(errors.ErrExistsEvaluatorMissing, "algebra", "evaluateExists",
			"EXISTS evaluated before SetExistsEvaluator")
	}
	found, err := e.exists(ctx, node.Patterns, solution)
	if err != nil {
		return false, errors.Wrap(err, "algebra", "evaluateExists", "sub-pattern evaluation")
	}
	if node.Negated {
		return !found, nil
	}
	return found, nil
}

// effectiveBoolean reduces an evaluation result to a boolean: booleans pass
// through, strings test non-empty, numbers test non-zero, and literals
// reduce by their datatype. IRIs and blank nodes have no boolean value.
func effectiveBoolean(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		return val != "", nil
	case int:
		return val != 0, nil
	case float64:
		return val != 0, nil
	case rdf.Literal:
		return literalBoolean(val)
	case rdf.Term:
		return false, errors.WrapInvalid(errors.ErrInvalidTerm, "algebra", "effectiveBoolean",
			fmt.Sprintf("term %s has no boolean value", val))
	default:
		return false, errors.WrapInvalid(errors.ErrInvalidTerm, "algebra", "effectiveBoolean",
			fmt.Sprintf("value %T has no boolean value", v))
	}
}

func literalBoolean(l rdf.Literal) (bool, error) {
	if dt, ok := l.Datatype(); ok && dt.Value() == vocabulary.XSDBoolean {
		return l.Value() == "true" || l.Value() == "1", nil
	}
	if l.IsNumeric() {
		n, err := l.NumericValue()
		if err != nil {
			return false, err
		}
		return n != 0, nil
	}
	return l.Value() != "", nil
}

// valueToTerm lifts a primitive evaluation result into a term so it can flow
// through the generic comparison path.
func valueToTerm(v any) (rdf.Term, error) {
	switch val := v.(type) {
	case rdf.Term:
		return val, nil
	case string:
		return rdf.NewLiteral(val), nil
	case bool:
		return rdf.NewTypedLiteral(strconv.FormatBool(val), rdf.MustIRI(vocabulary.XSDBoolean)), nil
	case int:
		return rdf.NewTypedLiteral(strconv.Itoa(val), rdf.MustIRI(vocabulary.XSDInteger)), nil
	case float64:
		return rdf.NewTypedLiteral(strconv.FormatFloat(val, 'f', -1, 64), rdf.MustIRI(vocabulary.XSDDecimal)), nil
	default:
		return nil, errors.WrapInvalid(errors.ErrInvalidTerm, "algebra", "valueToTerm",
			fmt.Sprintf("value %T cannot be used as a term", v))
	}
}
