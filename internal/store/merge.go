package store

import (
	"slices"
	"strings"
	"time"
)

var clockLayouts = []string{"15:04", "3:04 PM", "3:04PM", "15:04:05"}

// parseClock returns minutes after midnight for a "14:30" or "2:30 PM" style time.
func parseClock(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}

// MergeByID joins several item lists into one agenda. Later lists override
// earlier ones for the same id. The result is ordered by time of day, with
// unparseable times last in their original order.
func MergeByID(lists ...[]TimedRoutineItem) []TimedRoutineItem {
	var all []TimedRoutineItem
	for _, l := range lists {
		all = append(all, l...)
	}
	merged := dedupeByID(all, func(t TimedRoutineItem) string { return t.ID })
	slices.SortStableFunc(merged, func(a, b TimedRoutineItem) int {
		am, aok := parseClock(a.Time)
		bm, bok := parseClock(b.Time)
		switch {
		case aok && bok:
			return am - bm
		case aok:
			return -1
		case bok:
			return 1
		}
		return 0
	})
	return merged
}
