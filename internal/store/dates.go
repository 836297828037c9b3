package store

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used for streak and routine keys.
const DateLayout = "2006-01-02"

// Day returns the calendar date of t in its own location.
func Day(t time.Time) string {
	return t.Format(DateLayout)
}

func (b *base) today() string {
	return Day(b.now())
}

// daysBetween counts calendar days from a to b, both in DateLayout.
func daysBetween(a, b string) (int, error) {
	from, err := time.Parse(DateLayout, a)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", a, ErrInvalidDate)
	}
	to, err := time.Parse(DateLayout, b)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", b, ErrInvalidDate)
	}
	return int(to.Sub(from).Hours() / 24), nil
}

// advanceStreak applies the day-difference rule: the day after the last
// completion extends the streak, a gap restarts it at 1, the same day
// changes nothing. It reports whether anything changed.
func advanceStreak(current int, last, today string) (int, bool) {
	if last == "" {
		return 1, true
	}
	diff, err := daysBetween(last, today)
	if err != nil {
		return 1, true
	}
	switch {
	case diff == 1:
		return current + 1, true
	case diff > 1:
		return 1, true
	}
	return current, false
}

func validDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("date %q: %w", date, ErrInvalidDate)
	}
	return nil
}
