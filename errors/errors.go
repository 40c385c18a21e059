// Package errors provides standardized error handling patterns for semgraph
// components. It includes error classification, standard error variables, and
// helper functions for consistent error wrapping across the engine.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorTransient represents temporary errors that may be retried
	ErrorTransient ErrorClass = iota
	// ErrorInvalid represents errors due to invalid input or configuration
	ErrorInvalid
	// ErrorFatal represents unrecoverable errors that should stop processing
	ErrorFatal
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorTransient:
		return "transient"
	case ErrorInvalid:
		return "invalid"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Term and triple errors
	ErrParsingFailed   = errors.New("parsing failed")
	ErrInvalidTerm     = errors.New("invalid RDF term")
	ErrInvalidTriple   = errors.New("invalid triple")
	ErrUnboundVariable = errors.New("unbound variable")

	// Store errors
	ErrTripleNotFound  = errors.New("triple not found")
	ErrBatchNotActive  = errors.New("no batch in progress")
	ErrBatchActive     = errors.New("batch already in progress")
	ErrBatchOverflow   = errors.New("batch buffer overflow")
	ErrDepthExceeded   = errors.New("traversal depth exceeded")
	ErrInvalidPattern  = errors.New("invalid query pattern")
	ErrResultsTooLarge = errors.New("query results limit exceeded")

	// Evaluation errors
	ErrUnknownFunction        = errors.New("unknown function")
	ErrUnknownOperator        = errors.New("unknown operator")
	ErrInvalidRegex           = errors.New("invalid regex pattern")
	ErrInvalidDate            = errors.New("invalid date value")
	ErrExistsEvaluatorMissing = errors.New("exists evaluator not configured")

	// Security errors
	ErrUnauthorizedOperation = errors.New("unauthorized operation")
	ErrInjectionDetected     = errors.New("injection pattern detected")
	ErrQueryTooComplex       = errors.New("query too complex")
	ErrRateLimited           = errors.New("rate limited")
	ErrEmergencyMode         = errors.New("emergency mode active")
	ErrQueryTimeout          = errors.New("query timeout exceeded")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingConfig = errors.New("missing required configuration")

	// Resource errors
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrInvalidData       = errors.New("invalid data format")
)

// ClassifiedError wraps an error with its classification
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsTransient checks if an error is transient and may be retried
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorTransient
	}

	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrQueryTimeout)
}

// IsFatal checks if an error is fatal and should stop processing
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorFatal
	}

	if errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingConfig) ||
		errors.Is(err, ErrExistsEvaluatorMissing) ||
		errors.Is(err, ErrResourceExhausted) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	fatalPatterns := []string{
		"fatal",
		"panic",
		"corrupted",
		"invalid config",
		"missing config",
	}
	for _, pattern := range fatalPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// IsInvalid checks if an error is due to invalid input
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorInvalid
	}

	return errors.Is(err, ErrParsingFailed) ||
		errors.Is(err, ErrInvalidTerm) ||
		errors.Is(err, ErrInvalidTriple) ||
		errors.Is(err, ErrInvalidData) ||
		errors.Is(err, ErrInvalidRegex) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidPattern)
}

// IsSecurity checks if an error is a security rejection
func IsSecurity(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrUnauthorizedOperation) ||
		errors.Is(err, ErrInjectionDetected) ||
		errors.Is(err, ErrQueryTooComplex) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrEmergencyMode)
}

// Classify returns the error class for an error
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorTransient // Default for nil
	}

	if IsFatal(err) {
		return ErrorFatal
	}
	if IsInvalid(err) {
		return ErrorInvalid
	}

	// Default to transient for unknown errors
	return ErrorTransient
}

// newClassified creates a new classified error
// This is an internal helper - use WrapTransient(), WrapFatal(), or WrapInvalid() instead.
func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapTransient wraps an error as transient with context
func WrapTransient(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorTransient, wrappedErr, component, method, wrappedErr.Error())
}

// WrapFatal wraps an error as fatal with context
func WrapFatal(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorFatal, wrappedErr, component, method, wrappedErr.Error())
}

// WrapInvalid wraps an error as invalid with context
func WrapInvalid(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorInvalid, wrappedErr, component, method, wrappedErr.Error())
}
