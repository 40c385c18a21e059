// Package expression implements the scalar function library used during
// filter evaluation: RDF-term predicates, string, numeric, date/time, and
// conditional functions, plus generic comparison. Every function is pure and
// deterministic except where documented as failing (undefined term argument,
// invalid regex, unparsable date, unknown operator).
package expression

import (
	"fmt"
)

// Comparison operators accepted by Compare.
const (
	OpEqual            = "="
	OpNotEqual         = "!="
	OpLessThan         = "<"
	OpLessThanEqual    = "<="
	OpGreaterThan      = ">"
	OpGreaterThanEqual = ">="
)

// EvaluationError represents an error during function evaluation
type EvaluationError struct {
	Function string
	Message  string
	Err      error
}

func (e *EvaluationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("evaluation error in %s: %s: %v", e.Function, e.Message, e.Err)
	}
	return fmt.Sprintf("evaluation error in %s: %s", e.Function, e.Message)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// evalError is a shorthand constructor for EvaluationError.
func evalError(function, message string, err error) *EvaluationError {
	return &EvaluationError{Function: function, Message: message, Err: err}
}
