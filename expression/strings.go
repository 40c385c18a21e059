package expression

import (
	"strings"
)

// Contains reports whether s contains substr.
func Contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

// StrStarts reports whether s starts with prefix.
func StrStarts(s, prefix string) bool {
	return strings.HasPrefix(s, prefix)
}

// StrEnds reports whether s ends with suffix.
func StrEnds(s, suffix string) bool {
	return strings.HasSuffix(s, suffix)
}

// StrLen returns the length of s in Unicode code points.
func StrLen(s string) int {
	return len([]rune(s))
}

// UCase returns s uppercased.
func UCase(s string) string {
	return strings.ToUpper(s)
}

// LCase returns s lowercased.
func LCase(s string) string {
	return strings.ToLower(s)
}

// SubStr extracts a substring by 1-based start position and length, both
// counted in code points. Out-of-range positions clamp to the string bounds
// rather than failing. A negative length means "to the end of the string".
func SubStr(s string, start, length int) string {
	runes := []rune(s)
	n := len(runes)

	// 1-based start, clamped into [1, n+1]
	if start < 1 {
		start = 1
	}
	begin := start - 1
	if begin >= n {
		return ""
	}

	end := n
	if length >= 0 {
		end = begin + length
		if end > n {
			end = n
		}
	}
	if end <= begin {
		return ""
	}
	return string(runes[begin:end])
}

// StrBefore returns the portion of s before the first occurrence of needle,
// or the empty string when needle does not occur.
func StrBefore(s, needle string) string {
	idx := strings.Index(s, needle)
	if idx < 0 {
		return ""
	}
	return s[:idx]
}

// StrAfter returns the portion of s after the first occurrence of needle,
// or the empty string when needle does not occur.
func StrAfter(s, needle string) string {
	idx := strings.Index(s, needle)
	if idx < 0 {
		return ""
	}
	return s[idx+len(needle):]
}

// Concat joins any number of strings.
func Concat(parts ...string) string {
	return strings.Join(parts, "")
}

// Replace substitutes every match of pattern in s with replacement. The
// pattern is a regular expression subject to the same validation and caching
// as Regex.
func Replace(s, pattern, replacement string) (string, error) {
	re, err := compileRegex(pattern, "")
	if err != nil {
		return "", err
	}
	return re.ReplaceAllString(s, replacement), nil
}

// Regex reports whether s matches pattern. The only supported flag is "i"
// for case-insensitive matching. An invalid or dangerous pattern is an
// evaluation error, never a silent false.
func Regex(s, pattern, flags string) (bool, error) {
	re, err := compileRegex(pattern, flags)
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}
