package api

import (
	"net/url"
	"strconv"

	"github.com/buscal-console/pkg/schedule/models"
)

// ListResponse is the paginated body of GET /schedule.
type ListResponse struct {
	Schedules []models.RawScheduleRecord `json:"schedules"`
	Total     int                        `json:"total"`
	Page      int                        `json:"page"`
	Pages     int                        `json:"pages"`
}

// Query holds the optional filters of GET /schedule. The zero value lists
// everything; the calendar view always queries unfiltered and slices
// client-side.
type Query struct {
	RouteID string
	BusID   string
	Date    string
	Status  string
	Page    int
	Limit   int
}

func (q Query) values() url.Values {
	v := url.Values{}
	if q.RouteID != "" {
		v.Set("routeId", q.RouteID)
	}
	if q.BusID != "" {
		v.Set("busId", q.BusID)
	}
	if q.Date != "" {
		v.Set("date", q.Date)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// CreateRequest is the creation payload of POST /schedule.
type CreateRequest struct {
	RouteID       string `json:"routeId"`
	BusID         string `json:"busId"`
	Date          string `json:"date"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
	Frequency     string `json:"frequency,omitempty"`
	Status        string `json:"status,omitempty"`
}
