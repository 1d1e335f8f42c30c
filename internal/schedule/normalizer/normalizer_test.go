package normalizer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/buscal-console/pkg/schedule/models"
)

var testLoc = time.FixedZone("UTC+10", 10*3600)

func decodeRecords(t *testing.T, payload string) []models.RawScheduleRecord {
	t.Helper()
	var records []models.RawScheduleRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	return records
}

func TestNormalizeValidRecord(t *testing.T) {
	records := decodeRecords(t, `[{
		"departureTime": "2025-10-05T09:00:00Z",
		"arrivalTime": "2025-10-05T10:30:00Z",
		"date": "2025-10-05",
		"bus": {"busNumber": "UEM-01"},
		"route": {"name": "Campus Loop"}
	}]`)

	set, diag := New(testLoc).Normalize(records)
	if len(set) != 1 {
		t.Fatalf("expected 1 canonical schedule, got %d", len(set))
	}
	if diag.Accepted != 1 || diag.Rejected != 0 {
		t.Errorf("unexpected diagnostics: %+v", diag)
	}

	s := set[0]
	if s.BusLabel != "UEM-01" {
		t.Errorf("bus label = %q, want UEM-01", s.BusLabel)
	}
	if s.RouteLabel != "Campus Loop" {
		t.Errorf("route label = %q, want Campus Loop", s.RouteLabel)
	}
	if s.Status != models.StatusScheduled {
		t.Errorf("status = %q, want scheduled default", s.Status)
	}
	if s.PassengerCount != 0 {
		t.Errorf("passenger count = %d, want 0 default", s.PassengerCount)
	}
	want := models.CalendarDate{Year: 2025, Month: time.October, Day: 5}
	if s.CalendarDate != want {
		t.Errorf("calendar date = %v, want %v", s.CalendarDate, want)
	}
}

func TestNormalizeRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		reason  string
	}{
		{
			"non-object element",
			`["junk"]`,
			ReasonNotObject,
		},
		{
			"missing departure",
			`[{"arrivalTime": "2025-10-05T10:30:00Z"}]`,
			ReasonMissingTimes,
		},
		{
			"missing arrival",
			`[{"departureTime": "2025-10-05T09:00:00Z"}]`,
			ReasonMissingTimes,
		},
		{
			"unparseable departure",
			`[{"departureTime": "bad", "arrivalTime": "2025-10-05T10:30:00Z"}]`,
			ReasonBadDeparture,
		},
		{
			"unparseable arrival",
			`[{"departureTime": "2025-10-05T09:00:00Z", "arrivalTime": "bad"}]`,
			ReasonBadArrival,
		},
		{
			"explicit date that does not parse",
			`[{"departureTime": "2025-10-05T09:00:00Z", "arrivalTime": "2025-10-05T10:30:00Z", "date": "not-a-date"}]`,
			ReasonBadDate,
		},
		{
			"arrival equals departure",
			`[{"departureTime": "2025-10-05T09:00:00Z", "arrivalTime": "2025-10-05T09:00:00Z"}]`,
			ReasonOrder,
		},
		{
			"arrival before departure",
			`[{"departureTime": "2025-10-05T09:00:00Z", "arrivalTime": "2025-10-05T08:00:00Z"}]`,
			ReasonOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, diag := New(testLoc).Normalize(decodeRecords(t, tt.payload))
			if len(set) != 0 {
				t.Fatalf("expected empty set, got %d schedules", len(set))
			}
			if diag.Rejected != 1 {
				t.Errorf("rejected = %d, want 1", diag.Rejected)
			}
			if diag.Reasons[tt.reason] != 1 {
				t.Errorf("reasons = %v, want one %q", diag.Reasons, tt.reason)
			}
		})
	}
}

func TestNormalizeDerivesCalendarDateFromDeparture(t *testing.T) {
	// Two naive wall-clock departures 20 minutes apart across midnight must
	// land on different calendar days.
	records := decodeRecords(t, `[
		{"departureTime": "2025-03-10T23:50:00", "arrivalTime": "2025-03-11T01:00:00"},
		{"departureTime": "2025-03-11T00:10:00", "arrivalTime": "2025-03-11T01:00:00"}
	]`)

	set, _ := New(testLoc).Normalize(records)
	if len(set) != 2 {
		t.Fatalf("expected 2 schedules, got %d", len(set))
	}
	if set[0].CalendarDate == set[1].CalendarDate {
		t.Errorf("schedules across midnight share a day: %v", set[0].CalendarDate)
	}
	if set[0].CalendarDate.Day != 10 || set[1].CalendarDate.Day != 11 {
		t.Errorf("days = %d and %d, want 10 and 11",
			set[0].CalendarDate.Day, set[1].CalendarDate.Day)
	}
}

func TestNormalizeLabelPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		route   string
		bus     string
	}{
		{
			"flat strings win",
			`[{"departureTime": "2025-10-05T09:00:00Z", "arrivalTime": "2025-10-05T10:00:00Z",
			   "route": "R-flat", "bus": "B-flat", "routeId": "R-id", "busId": "B-id"}]`,
			"R-flat", "B-flat",
		},
		{
			"nested names next",
			`[{"departureTime": "2025-10-05T09:00:00Z", "arrivalTime": "2025-10-05T10:00:00Z",
			   "route": {"name": "Campus Loop"}, "bus": {"busNumber": "UEM-01"},
			   "routeId": "R-id", "busId": "B-id"}]`,
			"Campus Loop", "UEM-01",
		},
		{
			"flat id fields next",
			`[{"departureTime": "2025-10-05T09:00:00Z", "arrivalTime": "2025-10-05T10:00:00Z",
			   "route": {}, "bus": {}, "routeId": "R-id", "busId": "B-id"}]`,
			"R-id", "B-id",
		},
		{
			"unknown fallback",
			`[{"departureTime": "2025-10-05T09:00:00Z", "arrivalTime": "2025-10-05T10:00:00Z"}]`,
			"Unknown", "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, _ := New(testLoc).Normalize(decodeRecords(t, tt.payload))
			if len(set) != 1 {
				t.Fatalf("expected 1 schedule, got %d", len(set))
			}
			if set[0].RouteLabel != tt.route {
				t.Errorf("route label = %q, want %q", set[0].RouteLabel, tt.route)
			}
			if set[0].BusLabel != tt.bus {
				t.Errorf("bus label = %q, want %q", set[0].BusLabel, tt.bus)
			}
		})
	}
}

func TestNormalizeIDFallback(t *testing.T) {
	records := decodeRecords(t, `[
		{"id": "real", "departureTime": "2025-10-05T09:00:00Z", "arrivalTime": "2025-10-05T10:00:00Z"},
		{"_id": "mongo", "departureTime": "2025-10-05T09:00:00Z", "arrivalTime": "2025-10-05T10:00:00Z"},
		{"departureTime": "2025-10-05T09:00:00Z", "arrivalTime": "2025-10-05T10:00:00Z"}
	]`)

	set, _ := New(testLoc).Normalize(records)
	if len(set) != 3 {
		t.Fatalf("expected 3 schedules, got %d", len(set))
	}
	if set[0].ID != "real" || set[1].ID != "mongo" || set[2].ID != "temp-2" {
		t.Errorf("ids = %q %q %q", set[0].ID, set[1].ID, set[2].ID)
	}
}

func TestNormalizeStatusAndCount(t *testing.T) {
	records := decodeRecords(t, `[
		{"departureTime": "2025-10-05T09:00:00Z", "arrivalTime": "2025-10-05T10:00:00Z",
		 "status": "in-progress", "passengerCount": 23},
		{"departureTime": "2025-10-05T09:00:00Z", "arrivalTime": "2025-10-05T10:00:00Z",
		 "status": "mystery", "passengerCount": -4}
	]`)

	set, _ := New(testLoc).Normalize(records)
	if len(set) != 2 {
		t.Fatalf("expected 2 schedules, got %d", len(set))
	}
	if set[0].Status != models.StatusInProgress || set[0].PassengerCount != 23 {
		t.Errorf("first schedule = %q/%d", set[0].Status, set[0].PassengerCount)
	}
	// Unrecognized statuses pass through; negative counts clamp to zero.
	if set[1].Status != models.Status("mystery") {
		t.Errorf("status = %q, want passthrough", set[1].Status)
	}
	if set[1].PassengerCount != 0 {
		t.Errorf("negative count = %d, want 0", set[1].PassengerCount)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := New(testLoc)

	first, _ := n.Normalize(decodeRecords(t, `[{
		"id": "s1",
		"departureTime": "2025-10-05T09:00:00+10:00",
		"arrivalTime": "2025-10-05T10:30:00+10:00",
		"date": "2025-10-05",
		"route": "Campus Loop",
		"bus": "UEM-01",
		"status": "completed",
		"passengerCount": 18
	}]`))
	if len(first) != 1 {
		t.Fatalf("expected 1 schedule, got %d", len(first))
	}

	// Re-express the canonical schedule as raw fields and run it through
	// again; the result must be identical.
	s := first[0]
	reraw := []models.RawScheduleRecord{{
		ID:            s.ID,
		Date:          s.CalendarDate.String(),
		DepartureTime: s.Departure.Format(time.RFC3339),
		ArrivalTime:   s.Arrival.Format(time.RFC3339),
		Route:         &models.RefField{Flat: s.RouteLabel, IsFlat: true},
		Bus:           &models.RefField{Flat: s.BusLabel, IsFlat: true},
		Status:        string(s.Status),
		PassengerCount: models.FlexCount{
			Value: s.PassengerCount,
			Set:   true,
		},
	}}

	second, diag := n.Normalize(reraw)
	if len(second) != 1 {
		t.Fatalf("round trip lost the schedule: %+v", diag)
	}
	got, want := second[0], s
	if got.ID != want.ID || got.CalendarDate != want.CalendarDate ||
		!got.Departure.Equal(want.Departure) || !got.Arrival.Equal(want.Arrival) ||
		got.RouteLabel != want.RouteLabel || got.BusLabel != want.BusLabel ||
		got.Status != want.Status || got.PassengerCount != want.PassengerCount {
		t.Errorf("round trip changed the schedule:\n got %+v\nwant %+v", got, want)
	}
}

func TestNormalizeKeepsProcessingOrder(t *testing.T) {
	records := decodeRecords(t, `[
		{"id": "b", "departureTime": "2025-10-05T15:00:00Z", "arrivalTime": "2025-10-05T16:00:00Z"},
		{"departureTime": "bad", "arrivalTime": "2025-10-05T16:00:00Z"},
		{"id": "a", "departureTime": "2025-10-05T09:00:00Z", "arrivalTime": "2025-10-05T10:00:00Z"}
	]`)

	set, diag := New(testLoc).Normalize(records)
	if len(set) != 2 {
		t.Fatalf("expected 2 schedules, got %d", len(set))
	}
	// Arrival order of processing, not departure order.
	if set[0].ID != "b" || set[1].ID != "a" {
		t.Errorf("order = %q, %q; want b, a", set[0].ID, set[1].ID)
	}
	if diag.Accepted != 2 || diag.Rejected != 1 {
		t.Errorf("diagnostics = %+v", diag)
	}
}

func TestNormalizeEmptyAndAllInvalid(t *testing.T) {
	set, diag := New(testLoc).Normalize(nil)
	if len(set) != 0 || diag.Accepted != 0 || diag.Rejected != 0 {
		t.Errorf("nil input: set=%d diag=%+v", len(set), diag)
	}

	set, diag = New(testLoc).Normalize(decodeRecords(t, `[
		{"departureTime": "bad", "arrivalTime": "2025-10-05T10:30:00Z"},
		null
	]`))
	if len(set) != 0 {
		t.Errorf("all-invalid input produced %d schedules", len(set))
	}
	if diag.Rejected != 2 {
		t.Errorf("rejected = %d, want 2", diag.Rejected)
	}
}
