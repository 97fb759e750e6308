package domain

import (
	"strconv"
	"strings"
	"time"
)

const (
	// BulletinTimeLayout is the upstream bulletin timestamp format.
	BulletinTimeLayout = "200601021504"

	// QueryDateLayout is the upstream date-range parameter format.
	QueryDateLayout = "20060102"

	// HumanTimeLayout is the user-facing timestamp format.
	HumanTimeLayout = "2006-01-02 15:04"
)

// ParseBulletinTime parses a YYYYMMDDHHMM bulletin timestamp. The second
// return is false when the value does not parse; callers decide whether the
// record is skipped or sorted as minimal.
func ParseBulletinTime(s string) (time.Time, bool) {
	t, err := time.Parse(BulletinTimeLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatBulletinTime renders a bulletin timestamp human-readably,
// e.g. "201709031600" -> "2017-09-03 16:00". Unparsable input is returned as-is.
func FormatBulletinTime(s string) string {
	t, ok := ParseBulletinTime(s)
	if !ok {
		return s
	}
	return t.Format(HumanTimeLayout)
}

// ParseInt parses s as an integer, returning def and false on failure.
func ParseInt(s string, def int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def, false
	}
	return n, true
}

// ParseFloat parses s as a float64, returning 0 and false on failure.
func ParseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
