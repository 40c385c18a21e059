package expression

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/c360studio/semgraph/errors"
	"github.com/c360studio/semgraph/pkg/cache"
)

// globalRegexCache holds compiled regular expressions keyed by pattern and
// flags so repeated REGEX filters don't recompile.
var globalRegexCache cache.Cache[*regexp.Regexp]

func init() {
	var err error
	globalRegexCache, err = cache.NewLRU[*regexp.Regexp](100)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize regex cache: %v", err))
	}
}

// compileRegex returns a cached compiled regex or compiles and caches a new
// one. The supported flag is "i" for case-insensitive matching.
func compileRegex(pattern, flags string) (*regexp.Regexp, error) {
	key := flags + "\x00" + pattern
	if re, found := globalRegexCache.Get(key); found {
		return re, nil
	}

	if err := validateRegexComplexity(pattern); err != nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidRegex, "expression", "compileRegex", err.Error())
	}

	expanded := pattern
	if strings.Contains(flags, "i") {
		expanded = "(?i)" + expanded
	}
	re, err := regexp.Compile(expanded)
	if err != nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidRegex, "expression", "compileRegex",
			fmt.Sprintf("invalid regex pattern %q: %v", pattern, err))
	}

	globalRegexCache.Set(key, re)
	return re, nil
}

// validateRegexComplexity rejects patterns likely to cause exponential
// backtracking before they reach the compiler. Heuristic, not exhaustive.
func validateRegexComplexity(pattern string) error {
	if len(pattern) > 500 {
		return fmt.Errorf("regex pattern too long (max 500 chars): %d chars", len(pattern))
	}

	dangerousFragments := []string{
		`(\w+)*\w`,
		`(\w*)+`,
		`(a+)+`,
		`([a-zA-Z]+)*`,
		`(\d+)*\d`,
		`(.*)*`,
		`(.+)+`,
		`(\s+)*\s`,
		`([^,]+)*[^,]`,
	}
	for _, fragment := range dangerousFragments {
		if strings.Contains(pattern, fragment) {
			return fmt.Errorf("regex pattern contains nested quantifiers that may cause exponential backtracking")
		}
	}

	if strings.Contains(pattern, "{") {
		for i := 1000; i <= 9999; i++ {
			if strings.Contains(pattern, fmt.Sprintf("{%d", i)) {
				return fmt.Errorf("regex pattern contains excessive repetition count (>= 1000)")
			}
		}
	}

	if strings.Count(pattern, "(") > 20 {
		return fmt.Errorf("regex pattern has too many capture groups (max 20)")
	}

	nestLevel := 0
	maxNest := 0
	for _, ch := range pattern {
		switch ch {
		case '(':
			nestLevel++
			if nestLevel > maxNest {
				maxNest = nestLevel
			}
		case ')':
			nestLevel--
		}
	}
	if maxNest > 5 {
		return fmt.Errorf("regex pattern has excessive nesting depth (max 5 levels)")
	}

	return nil
}

// clearRegexCache removes all cached patterns. Used by tests.
func clearRegexCache() {
	globalRegexCache.Clear()
}

// regexCacheSize returns the current number of cached patterns.
func regexCacheSize() int {
	return globalRegexCache.Size()
}
