// Package recurrence expands the creation form's frequency choice into the
// concrete schedule series the backend expects, one creation request per
// occurrence.
package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/buscal-console/internal/api"
	"github.com/buscal-console/pkg/schedule/models"
)

// Frequencies offered by the creation form.
const (
	FrequencyOnce     = "once"
	FrequencyDaily    = "daily"
	FrequencyWeekly   = "weekly"
	FrequencyWeekdays = "weekdays"
)

// DefaultOccurrences bounds how far a recurring series is expanded.
const DefaultOccurrences = 30

// Expand turns a creation request into the series it describes. "once" (or
// an absent frequency) passes the request through untouched; the recurring
// frequencies produce up to count occurrences starting at the request's
// departure, each as a single-shot request.
func Expand(req api.CreateRequest, loc *time.Location, count int) ([]api.CreateRequest, error) {
	if req.Frequency == "" || req.Frequency == FrequencyOnce {
		return []api.CreateRequest{req}, nil
	}
	if loc == nil {
		loc = time.Local
	}
	if count <= 0 {
		count = DefaultOccurrences
	}

	departure, arrival, err := parseTimes(req, loc)
	if err != nil {
		return nil, err
	}
	duration := arrival.Sub(departure)
	if duration <= 0 {
		return nil, fmt.Errorf("arrival %s is not after departure %s", req.ArrivalTime, req.DepartureTime)
	}

	opt := rrule.ROption{Dtstart: departure, Count: count}
	switch req.Frequency {
	case FrequencyDaily:
		opt.Freq = rrule.DAILY
	case FrequencyWeekly:
		opt.Freq = rrule.WEEKLY
	case FrequencyWeekdays:
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR}
	default:
		return nil, fmt.Errorf("unknown frequency %q", req.Frequency)
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("building recurrence rule: %w", err)
	}

	var out []api.CreateRequest
	for _, occ := range rule.All() {
		occ = occ.In(loc)
		single := req
		single.Frequency = FrequencyOnce
		single.Date = occ.Format("2006-01-02")
		single.DepartureTime = occ.Format(time.RFC3339)
		single.ArrivalTime = occ.Add(duration).Format(time.RFC3339)
		out = append(out, single)
	}
	return out, nil
}

// parseTimes accepts either full timestamps or the form's bare "HH:MM"
// clock values combined with the request date.
func parseTimes(req api.CreateRequest, loc *time.Location) (time.Time, time.Time, error) {
	date, ok := models.ParseTimestamp(req.Date, loc)
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q", req.Date)
	}

	departure, err := parseOne(req.DepartureTime, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid departure time %q", req.DepartureTime)
	}
	arrival, err := parseOne(req.ArrivalTime, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid arrival time %q", req.ArrivalTime)
	}
	return departure, arrival, nil
}

func parseOne(value string, date time.Time, loc *time.Location) (time.Time, error) {
	if t, ok := models.ParseTimestamp(value, loc); ok {
		return t, nil
	}
	clock, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, loc), nil
}
