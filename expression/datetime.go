package expression

import (
	"fmt"
	"math"
	"time"

	"github.com/c360studio/semgraph/errors"
)

// dateTimeLayouts lists the lexical forms accepted for date/time values, in
// order of preference.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDateTime parses a date or dateTime lexical form. An unparsable value
// is an evaluation error.
func ParseDateTime(value string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.WrapInvalid(errors.ErrInvalidDate, "expression", "ParseDateTime",
		fmt.Sprintf("value %q is not a valid date or dateTime", value))
}

// Year extracts the year component of a date value.
func Year(value string) (int, error) {
	t, err := ParseDateTime(value)
	if err != nil {
		return 0, err
	}
	return t.Year(), nil
}

// Month extracts the month component of a date value.
func Month(value string) (int, error) {
	t, err := ParseDateTime(value)
	if err != nil {
		return 0, err
	}
	return int(t.Month()), nil
}

// Day extracts the day-of-month component of a date value.
func Day(value string) (int, error) {
	t, err := ParseDateTime(value)
	if err != nil {
		return 0, err
	}
	return t.Day(), nil
}

// Hours extracts the hour component of a dateTime value.
func Hours(value string) (int, error) {
	t, err := ParseDateTime(value)
	if err != nil {
		return 0, err
	}
	return t.Hour(), nil
}

// Minutes extracts the minute component of a dateTime value.
func Minutes(value string) (int, error) {
	t, err := ParseDateTime(value)
	if err != nil {
		return 0, err
	}
	return t.Minute(), nil
}

// Seconds extracts the seconds component of a dateTime value, including any
// fractional part.
func Seconds(value string) (float64, error) {
	t, err := ParseDateTime(value)
	if err != nil {
		return 0, err
	}
	return float64(t.Second()) + float64(t.Nanosecond())/1e9, nil
}

// Timezone returns the timezone offset of a dateTime value in the form
// "+05:30" or "Z" for UTC.
func Timezone(value string) (string, error) {
	t, err := ParseDateTime(value)
	if err != nil {
		return "", err
	}
	_, offset := t.Zone()
	if offset == 0 {
		return "Z", nil
	}
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	return fmt.Sprintf("%s%02d:%02d", sign, offset/3600, (offset%3600)/60), nil
}

// Now returns the current instant in RFC 3339 form.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// DateDiffMinutes returns the absolute difference in minutes between two date
// values, rounded to the nearest whole minute.
func DateDiffMinutes(from, to string) (float64, error) {
	a, err := ParseDateTime(from)
	if err != nil {
		return 0, err
	}
	b, err := ParseDateTime(to)
	if err != nil {
		return 0, err
	}
	return math.Round(math.Abs(b.Sub(a).Minutes())), nil
}

// DateDiffHours returns the absolute difference in hours between two date
// values, rounded to two decimal places.
func DateDiffHours(from, to string) (float64, error) {
	a, err := ParseDateTime(from)
	if err != nil {
		return 0, err
	}
	b, err := ParseDateTime(to)
	if err != nil {
		return 0, err
	}
	return math.Round(math.Abs(b.Sub(a).Hours())*100) / 100, nil
}
