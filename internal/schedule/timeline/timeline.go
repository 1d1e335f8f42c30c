// Package timeline groups a day's schedules into fixed hourly slots for the
// 24-hour timeline strip.
package timeline

import (
	"time"

	"github.com/buscal-console/pkg/schedule/models"
)

// DefaultSlotHours are the hour marks the reference view shows,
// 06:00 through 18:00 inclusive.
var DefaultSlotHours = []int{6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}

// Bucketize maps each schedule to the slot whose hour equals the hour of
// its departure in loc — minutes are ignored, so a 10:45 departure sits in
// the 10:00 bucket. Departures outside the slot set are simply absent; a
// schedule lands in exactly one bucket or none.
func Bucketize(daySchedules []models.CanonicalSchedule, slotHours []int, loc *time.Location) map[int][]models.CanonicalSchedule {
	if loc == nil {
		loc = time.Local
	}

	slots := make(map[int]bool, len(slotHours))
	for _, h := range slotHours {
		slots[h] = true
	}

	buckets := make(map[int][]models.CanonicalSchedule)
	for _, s := range daySchedules {
		hour := s.Departure.In(loc).Hour()
		if slots[hour] {
			buckets[hour] = append(buckets[hour], s)
		}
	}
	return buckets
}
