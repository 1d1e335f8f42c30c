// Package normalizer turns untrusted backend schedule records into the
// canonical representation the calendar view renders. Validation is
// per-record: bad records are dropped and counted, never raised, and a
// record is only admitted whole — both instants valid and in order.
package normalizer

import (
	"fmt"
	"time"

	"github.com/buscal-console/pkg/schedule/models"
)

// Rejection reasons tracked in Diagnostics.
const (
	ReasonNotObject    = "not_object"
	ReasonMissingTimes = "missing_times"
	ReasonBadDeparture = "bad_departure"
	ReasonBadArrival   = "bad_arrival"
	ReasonBadDate      = "bad_date"
	ReasonOrder        = "order"
)

// Diagnostics summarizes one normalization pass. It replaces the per-record
// console noise the backend's other consumers rely on: callers that care can
// inspect it, callers that don't can ignore it.
type Diagnostics struct {
	Accepted int
	Rejected int
	Reasons  map[string]int
}

func (d *Diagnostics) reject(reason string) {
	d.Rejected++
	if d.Reasons == nil {
		d.Reasons = make(map[string]int)
	}
	d.Reasons[reason]++
}

// Normalizer validates raw schedule records against a viewing location.
// The location decides which wall-clock day an instant belongs to.
type Normalizer struct {
	loc *time.Location
}

func New(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{loc: loc}
}

// Normalize validates each record independently and returns the accepted
// subset in input order, plus counts of what was dropped and why. It never
// fails: all-invalid input yields an empty slice, and the caller decides
// whether that is worth surfacing.
func (n *Normalizer) Normalize(raws []models.RawScheduleRecord) ([]models.CanonicalSchedule, Diagnostics) {
	out := make([]models.CanonicalSchedule, 0, len(raws))
	var diag Diagnostics

	for i, raw := range raws {
		cs, reason := n.normalizeOne(raw, i)
		if reason != "" {
			diag.reject(reason)
			continue
		}
		diag.Accepted++
		out = append(out, cs)
	}

	return out, diag
}

// normalizeOne runs the validation pipeline for a single record. A non-empty
// reason means rejection; there is no partial admission.
func (n *Normalizer) normalizeOne(raw models.RawScheduleRecord, index int) (models.CanonicalSchedule, string) {
	if raw.Malformed {
		return models.CanonicalSchedule{}, ReasonNotObject
	}

	if raw.DepartureTime == "" || raw.ArrivalTime == "" {
		return models.CanonicalSchedule{}, ReasonMissingTimes
	}

	departure, ok := models.ParseTimestamp(raw.DepartureTime, n.loc)
	if !ok {
		return models.CanonicalSchedule{}, ReasonBadDeparture
	}

	arrival, ok := models.ParseTimestamp(raw.ArrivalTime, n.loc)
	if !ok {
		return models.CanonicalSchedule{}, ReasonBadArrival
	}

	calendarDate, ok := n.resolveCalendarDate(raw.Date, departure)
	if !ok {
		return models.CanonicalSchedule{}, ReasonBadDate
	}

	// Same-instant and inverted schedules are invalid, not clamped.
	if !arrival.After(departure) {
		return models.CanonicalSchedule{}, ReasonOrder
	}

	return models.CanonicalSchedule{
		ID:             resolveID(raw, index),
		CalendarDate:   calendarDate,
		Departure:      departure,
		Arrival:        arrival,
		RouteLabel:     resolveRouteLabel(raw),
		BusLabel:       resolveBusLabel(raw),
		Status:         resolveStatus(raw.Status),
		PassengerCount: resolveCount(raw.PassengerCount),
	}, ""
}

// resolveCalendarDate prefers the explicit date field; a record without one
// belongs to the local calendar day of its departure. An explicit date that
// does not parse rejects the record outright rather than guessing.
func (n *Normalizer) resolveCalendarDate(rawDate string, departure time.Time) (models.CalendarDate, bool) {
	if rawDate != "" {
		t, ok := models.ParseTimestamp(rawDate, n.loc)
		if !ok {
			return models.CalendarDate{}, false
		}
		return models.DateOf(t.In(n.loc)), true
	}
	return models.DateOf(departure.In(n.loc)), true
}

// resolveID falls back to a positional placeholder when the backend omits
// an id. Placeholder identity is not stable across refetches; the whole set
// is rebuilt on every fetch, so nothing durable hangs off it.
func resolveID(raw models.RawScheduleRecord, index int) string {
	if raw.ID != "" {
		return raw.ID
	}
	if raw.AltID != "" {
		return raw.AltID
	}
	return fmt.Sprintf("temp-%d", index)
}

// Label precedence: plain string reference, nested object name, flat id
// field, then "Unknown". Matches the tolerance of the backend's other
// consumers.
func resolveRouteLabel(raw models.RawScheduleRecord) string {
	if raw.Route != nil {
		if raw.Route.IsFlat && raw.Route.Flat != "" {
			return raw.Route.Flat
		}
		if raw.Route.Name != "" {
			return raw.Route.Name
		}
	}
	if raw.RouteID != "" {
		return raw.RouteID
	}
	return "Unknown"
}

func resolveBusLabel(raw models.RawScheduleRecord) string {
	if raw.Bus != nil {
		if raw.Bus.IsFlat && raw.Bus.Flat != "" {
			return raw.Bus.Flat
		}
		if raw.Bus.BusNumber != "" {
			return raw.Bus.BusNumber
		}
	}
	if raw.BusID != "" {
		return raw.BusID
	}
	return "Unknown"
}

// resolveStatus defaults absent statuses but deliberately does not validate
// against the enum; displays tolerate unknown values.
func resolveStatus(s string) models.Status {
	if s == "" {
		return models.StatusScheduled
	}
	return models.Status(s)
}

func resolveCount(c models.FlexCount) int {
	if !c.Set || c.Value < 0 {
		return 0
	}
	return c.Value
}
