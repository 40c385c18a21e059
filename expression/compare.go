package expression

import (
	"fmt"

	"github.com/c360studio/semgraph/errors"
	"github.com/c360studio/semgraph/rdf"
	"github.com/c360studio/semgraph/vocabulary"
)

// Compare evaluates a binary comparison between two terms. Two numeric
// literals compare by numeric value regardless of datatype, two date/time
// literals compare by instant, and everything else compares by lexical form.
// An unknown operator or an unbound argument is an evaluation error.
func Compare(a, b rdf.Term, operator string) (bool, error) {
	if a == nil || b == nil {
		return false, evalError("compare", "undefined argument", errors.ErrUnboundVariable)
	}

	switch operator {
	case OpEqual:
		return a.Equals(b), nil
	case OpNotEqual:
		return !a.Equals(b), nil
	case OpLessThan, OpLessThanEqual, OpGreaterThan, OpGreaterThanEqual:
		ord, err := compareOrder(a, b)
		if err != nil {
			return false, err
		}
		switch operator {
		case OpLessThan:
			return ord < 0, nil
		case OpLessThanEqual:
			return ord <= 0, nil
		case OpGreaterThan:
			return ord > 0, nil
		default:
			return ord >= 0, nil
		}
	default:
		return false, evalError("compare",
			fmt.Sprintf("unknown operator %q", operator), errors.ErrUnknownOperator)
	}
}

// compareOrder returns -1, 0, or 1 ordering a before, equal to, or after b.
func compareOrder(a, b rdf.Term) (int, error) {
	la, aIsLit := a.(rdf.Literal)
	lb, bIsLit := b.(rdf.Literal)
	if aIsLit && bIsLit {
		if la.IsNumeric() && lb.IsNumeric() {
			va, err := la.NumericValue()
			if err != nil {
				return 0, err
			}
			vb, err := lb.NumericValue()
			if err != nil {
				return 0, err
			}
			return orderFloat(va, vb), nil
		}
		if isDateTimeLiteral(la) && isDateTimeLiteral(lb) {
			ta, err := ParseDateTime(la.Value())
			if err != nil {
				return 0, err
			}
			tb, err := ParseDateTime(lb.Value())
			if err != nil {
				return 0, err
			}
			return ta.Compare(tb), nil
		}
		return orderString(la.Value(), lb.Value()), nil
	}
	return orderString(a.String(), b.String()), nil
}

func isDateTimeLiteral(l rdf.Literal) bool {
	dt, ok := l.Datatype()
	return ok && vocabulary.IsDateTimeDatatype(dt.Value())
}

func orderFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func orderString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
