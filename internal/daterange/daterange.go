// Package daterange expands an anchor day and an optional look-back period
// into the calendar days a report covers.
package daterange

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DayLayout is the format used for days on the command line and in output.
const DayLayout = "2006-01-02"

// ErrInvalidPeriod is returned for durations that are not P<n>D or P<n>W.
var ErrInvalidPeriod = errors.New("invalid period")

// MaxPeriodDays caps how far back a period may reach.
const MaxPeriodDays = 3660

var periodPattern = regexp.MustCompile(`^P(\d+)([DW])$`)

// Period is a look-back window measured in whole days.
type Period struct {
	Days int
}

// ParsePeriod parses a simple ISO 8601 duration such as P7D or P2W.
func ParsePeriod(s string) (Period, error) {
	m := periodPattern.FindStringSubmatch(strings.ToUpper(s))
	if m == nil {
		return Period{}, fmt.Errorf("%w: %q, expected a format like P7D (7 days) or P1W (1 week)", ErrInvalidPeriod, s)
	}

	amount, err := strconv.Atoi(m[1])
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q: %v", ErrInvalidPeriod, s, err)
	}

	unit := 1
	if m[2] == "W" {
		unit = 7
	}
	if amount > MaxPeriodDays/unit {
		return Period{}, fmt.Errorf("%w: %q reaches back more than %d days", ErrInvalidPeriod, s, MaxPeriodDays)
	}
	amount *= unit
	return Period{Days: amount}, nil
}

func (p Period) String() string {
	if p.Days > 0 && p.Days%7 == 0 {
		return fmt.Sprintf("P%dW", p.Days/7)
	}
	return fmt.Sprintf("P%dD", p.Days)
}

// ParseDay parses a YYYY-MM-DD day in the local timezone.
func ParseDay(s string) (time.Time, error) {
	day, err := time.ParseInLocation(DayLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q, expected YYYY-MM-DD", s)
	}
	return day, nil
}

// Truncate returns midnight of t's calendar date in t's location.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Yesterday returns the calendar day before now.
func Yesterday(now time.Time) time.Time {
	return Truncate(now).AddDate(0, 0, -1)
}

// Resolve returns every day from anchor minus period through anchor,
// ascending. Without a period the result is just the anchor day.
func Resolve(anchor time.Time, period *Period) []time.Time {
	end := Truncate(anchor)
	if period == nil || period.Days <= 0 {
		return []time.Time{end}
	}

	days := make([]time.Time, 0, period.Days+1)
	for day := end.AddDate(0, 0, -period.Days); !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

// Format renders a day as YYYY-MM-DD.
func Format(day time.Time) string {
	return day.Format(DayLayout)
}
