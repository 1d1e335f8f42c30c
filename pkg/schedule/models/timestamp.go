package models

import (
	"strings"
	"time"
)

// Accepted timestamp layouts, in the order they are tried. The backend mixes
// RFC3339 values with naive timestamps that carry no timezone information.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999", // naive, optional microseconds
	"2006-01-02",                 // date only
}

// ParseTimestamp parses a backend timestamp in one of the accepted layouts.
// Naive values (no zone offset) are interpreted in loc, so that wall-clock
// times line up with the viewer's calendar. It never returns an error; the
// second result reports whether parsing succeeded.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
