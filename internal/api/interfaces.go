package api

import (
	"context"

	"github.com/buscal-console/pkg/schedule/models"
)

type ScheduleLister interface {
	List(ctx context.Context, query Query) (*ListResponse, error)
}

type ScheduleCreator interface {
	Create(ctx context.Context, req CreateRequest) (*models.RawScheduleRecord, error)
}

// ScheduleService is the backend surface the calendar view depends on.
type ScheduleService interface {
	ScheduleLister
	ScheduleCreator
}
