package security

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/c360studio/semgraph/errors"
)

// forbiddenOperations are mutating keywords a read-only query surface must
// never carry.
var forbiddenOperations = []string{
	"DROP GRAPH",
	"DROP ALL",
	"CLEAR GRAPH",
	"CLEAR ALL",
	"CREATE GRAPH",
	"INSERT DATA",
	"DELETE DATA",
	"DELETE WHERE",
	"LOAD",
}

// injectionPatterns describe structural injection attempts, chiefly a
// mutating statement chained after a read query.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)}\s*;\s*(insert|delete|drop|clear|load|create)\b`),
	regexp.MustCompile(`(?is);\s*(drop|clear)\s+(graph|all)\b`),
}

type validator struct{}

// validate checks query text for unauthorized operations and injection
// patterns. On a match it returns the rejection reason alongside a
// sentinel-classified error naming the offending construct.
func (v validator) validate(text string) (string, error) {
	upper := strings.ToUpper(text)
	for _, op := range forbiddenOperations {
		if strings.Contains(upper, op) {
			return ReasonUnauthorized, errors.WrapInvalid(errors.ErrUnauthorizedOperation, "security", "validate",
				fmt.Sprintf("forbidden operation %q", op))
		}
	}
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(text) {
			return ReasonInjection, errors.WrapInvalid(errors.ErrInjectionDetected, "security", "validate",
				"statement chaining detected")
		}
	}
	return "", nil
}
