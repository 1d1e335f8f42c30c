// Package export renders canonical schedules as an iCalendar feed so staff
// can subscribe to a day's or month's departures from their own calendar
// apps.
package export

import (
	"fmt"
	"io"

	ical "github.com/arran4/golang-ical"

	"github.com/buscal-console/pkg/schedule/models"
)

const productID = "-//buscal//bus schedule calendar//EN"

// BuildCalendar converts schedules into a VCALENDAR. Events use the
// schedule id as UID, span departure to arrival, and carry status and
// passenger count in the description.
func BuildCalendar(schedules []models.CanonicalSchedule, name string) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, s := range schedules {
		ev := cal.AddEvent(fmt.Sprintf("%s@buscal", s.ID))
		ev.SetDtStampTime(s.Departure)
		ev.SetStartAt(s.Departure)
		ev.SetEndAt(s.Arrival)
		ev.SetSummary(fmt.Sprintf("%s (bus %s)", s.RouteLabel, s.BusLabel))
		ev.SetDescription(fmt.Sprintf("Status: %s\nPassengers: %d", s.Status, s.PassengerCount))
	}

	return cal
}

// Write serializes the schedules as ICS to w.
func Write(w io.Writer, schedules []models.CanonicalSchedule, name string) error {
	return BuildCalendar(schedules, name).SerializeTo(w)
}
