// Package calendar answers day-membership questions over the canonical
// schedule set and builds the month grid the calendar view renders.
// Membership is by local calendar day — (year, month, day) equality — never
// by instant or UTC comparison.
package calendar

import (
	"sort"
	"time"

	"github.com/buscal-console/pkg/schedule/models"
)

// OnDay returns the schedules whose calendar date matches the day of
// target. A zero target yields an empty result, never a panic; rendering
// code calls this once per day cell and must be able to trust it blindly.
func OnDay(set []models.CanonicalSchedule, target time.Time) []models.CanonicalSchedule {
	if target.IsZero() {
		return nil
	}

	want := models.DateOf(target)
	var out []models.CanonicalSchedule
	for _, s := range set {
		if s.CalendarDate == want {
			out = append(out, s)
		}
	}
	return out
}

// HasOnDay reports whether any schedule falls on the day of target.
func HasOnDay(set []models.CanonicalSchedule, target time.Time) bool {
	return len(OnDay(set, target)) > 0
}

// SortByDeparture orders schedules by departure instant ascending, the
// display order of the day panel. Sorting is a presentation concern; the
// canonical set itself keeps fetch order.
func SortByDeparture(set []models.CanonicalSchedule) {
	sort.SliceStable(set, func(i, j int) bool {
		return set[i].Departure.Before(set[j].Departure)
	})
}

// DaysInMonth builds the month grid: one zero time.Time per leading blank
// (the Sunday-indexed weekday of the 1st), then one date per day of the
// month in loc. No trailing padding. Invalid (year, month) yields an empty
// grid.
func DaysInMonth(year int, month time.Month, loc *time.Location) []time.Time {
	if year <= 0 || month < time.January || month > time.December {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	// Day 0 of the next month is the last day of this one.
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc)

	days := make([]time.Time, 0, int(first.Weekday())+last.Day())
	for i := 0; i < int(first.Weekday()); i++ {
		days = append(days, time.Time{})
	}
	for day := 1; day <= last.Day(); day++ {
		days = append(days, time.Date(year, month, day, 0, 0, 0, 0, loc))
	}
	return days
}

type Direction int

const (
	Previous Direction = iota
	Next
)

// ShiftMonth moves exactly one calendar month, keeping the day-of-month.
// Overflow follows Go's AddDate normalization: Jan 31 shifted forward lands
// on Mar 2 or 3, not the end of February. A zero current date is a no-op.
func ShiftMonth(current time.Time, dir Direction) time.Time {
	if current.IsZero() {
		return current
	}
	if dir == Previous {
		return current.AddDate(0, -1, 0)
	}
	return current.AddDate(0, 1, 0)
}

// SameDay reports whether two instants fall on the same local calendar day.
// Zero values match nothing.
func SameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	return models.DateOf(a) == models.DateOf(b)
}
