package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// RawScheduleRecord is a schedule exactly as the backend returns it. The API
// is loosely typed: fields go missing, timestamps arrive in several formats,
// and route/bus are sometimes plain id strings and sometimes nested objects.
// Nothing here is trusted until it passes through the normalizer.
type RawScheduleRecord struct {
	ID    string `json:"id"`
	AltID string `json:"_id"`

	RouteID string    `json:"routeId"`
	BusID   string    `json:"busId"`
	Route   *RefField `json:"route"`
	Bus     *RefField `json:"bus"`

	Date          string `json:"date"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
	CreatedAt     string `json:"createdAt"`

	Status         string    `json:"status"`
	PassengerCount FlexCount `json:"passengerCount"`

	// Malformed marks elements that were not JSON objects (null, strings,
	// numbers) or failed to decode at all. The normalizer rejects these.
	Malformed bool `json:"-"`
}

// UnmarshalJSON tolerates non-object list elements instead of failing the
// whole response decode. Bad elements come out with Malformed set.
func (r *RawScheduleRecord) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		r.Malformed = true
		return nil
	}

	type alias RawScheduleRecord
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		r.Malformed = true
		return nil
	}
	*r = RawScheduleRecord(a)
	return nil
}

// RefField is a route or bus reference that arrives either as a plain id
// string or as a nested object. It is resolved into a single display label
// during normalization; downstream code never re-inspects the shape.
type RefField struct {
	// Flat holds the value when the field was a plain JSON string.
	Flat   string
	IsFlat bool

	// Object form.
	ID        string
	Name      string
	BusNumber string
}

type refObject struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BusNumber string `json:"busNumber"`
}

func (f *RefField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		f.Flat = s
		f.IsFlat = true
	case '{':
		var obj refObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil
		}
		f.ID = obj.ID
		f.Name = obj.Name
		f.BusNumber = obj.BusNumber
	}
	// Any other shape is treated as absent.
	return nil
}

func (f RefField) MarshalJSON() ([]byte, error) {
	if f.IsFlat {
		return json.Marshal(f.Flat)
	}
	return json.Marshal(refObject{ID: f.ID, Name: f.Name, BusNumber: f.BusNumber})
}

// FlexCount is a passenger count that may arrive as a JSON number, a numeric
// string, or garbage. Anything unusable reads as unset.
type FlexCount struct {
	Value int
	Set   bool
}

func (c *FlexCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		c.Value = int(n)
		c.Set = true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.Atoi(s); err == nil {
			c.Value = v
			c.Set = true
		}
	}
	return nil
}

func (c FlexCount) MarshalJSON() ([]byte, error) {
	if !c.Set {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%d", c.Value)), nil
}
