package models

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a schedule. Unrecognized values coming
// from the backend are passed through as-is; displays fall back to a neutral
// style for them.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusDelayed    Status = "delayed"
	StatusActive     Status = "active"
)

// Known reports whether the status is one of the recognized values.
func (s Status) Known() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled, StatusDelayed, StatusActive:
		return true
	}
	return false
}

// DisplayClass maps a status to a display style name, with a neutral
// fallback for values the enum does not cover.
func (s Status) DisplayClass() string {
	switch s {
	case StatusScheduled:
		return "blue"
	case StatusInProgress:
		return "yellow"
	case StatusCompleted:
		return "green"
	case StatusCancelled:
		return "red"
	default:
		return "gray"
	}
}

// CalendarDate is a timezone-naive local date: (year, month, day) with no
// time component. Two schedules share a day cell iff their CalendarDates are
// equal, regardless of the underlying instants.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar-day components of t as-is. Callers are
// expected to convert t into the viewing location first.
func DateOf(t time.Time) CalendarDate {
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d CalendarDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// CanonicalSchedule is the validated in-memory representation backing the
// calendar view. Instances only exist for records whose departure and
// arrival both parsed and are in order; there is no partially-valid state.
type CanonicalSchedule struct {
	ID string

	CalendarDate CalendarDate

	Departure time.Time
	Arrival   time.Time

	RouteLabel string
	BusLabel   string

	Status         Status
	PassengerCount int
}

// Duration is the scheduled trip length. Always positive by construction.
func (s CanonicalSchedule) Duration() time.Duration {
	return s.Arrival.Sub(s.Departure)
}

// FormatDuration renders a duration the way the schedule panel shows it,
// e.g. "2h 15m".
func FormatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", h, m)
}
