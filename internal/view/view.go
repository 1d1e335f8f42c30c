// Package view holds the calendar screen's state: the canonical schedule
// set, the month cursor, the selected day, and the loading/error state. All
// reads are computed over the in-memory set; the only asynchronous work is
// the fetch that replaces it.
package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/buscal-console/internal/api"
	"github.com/buscal-console/internal/common/logger"
	"github.com/buscal-console/internal/common/notify"
	"github.com/buscal-console/internal/schedule/calendar"
	"github.com/buscal-console/internal/schedule/normalizer"
	"github.com/buscal-console/internal/schedule/recurrence"
	"github.com/buscal-console/internal/schedule/timeline"
	"github.com/buscal-console/pkg/schedule/models"
)

// ErrAllInvalid is the display string for a fetch whose records all failed
// validation.
const ErrAllInvalid = "All schedule data was invalid. Please check the database."

// Config tunes a View. Zero values fall back to the local timezone, the
// reference slot hours, and the wall clock.
type Config struct {
	Location  *time.Location
	SlotHours []int
	Now       func() time.Time
}

type View struct {
	svc      api.ScheduleService
	norm     *normalizer.Normalizer
	loc      *time.Location
	slots    []int
	now      func() time.Time
	logger   logger.Logger
	notifier *notify.Client

	mu        sync.Mutex
	schedules []models.CanonicalSchedule
	diag      normalizer.Diagnostics
	current   time.Time // month cursor
	selected  time.Time
	loading   bool
	errMsg    string
	seq       uint64 // latest issued fetch sequence
}

func New(svc api.ScheduleService, cfg Config, log logger.Logger, notifier *notify.Client) *View {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if len(cfg.SlotHours) == 0 {
		cfg.SlotHours = timeline.DefaultSlotHours
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if notifier == nil {
		notifier = notify.NewClient("")
	}

	now := cfg.Now().In(cfg.Location)
	return &View{
		svc:      svc,
		norm:     normalizer.New(cfg.Location),
		loc:      cfg.Location,
		slots:    cfg.SlotHours,
		now:      cfg.Now,
		logger:   log,
		notifier: notifier,
		current:  now,
		selected: now,
	}
}

// Refresh fetches the full schedule list, normalizes it, and replaces the
// canonical set wholesale. Each call takes a new sequence number; a
// completion that is no longer the latest issued fetch is discarded, so
// rapid navigation can never overwrite newer state with a stale response.
// On failure the set is cleared rather than left stale and the error is
// kept as a retryable display string.
func (v *View) Refresh(ctx context.Context) error {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	v.loading = true
	v.errMsg = ""
	v.mu.Unlock()

	resp, err := v.svc.List(ctx, api.Query{})

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.seq {
		v.logger.Debug("Discarding stale fetch result", "seq", seq, "latest", v.seq)
		return nil
	}
	v.loading = false

	if err != nil {
		v.schedules = nil
		v.diag = normalizer.Diagnostics{}
		v.errMsg = fmt.Sprintf("Failed to load schedules: %v", err)
		v.logger.Error("Schedule refresh failed", "error", err)
		if nerr := v.notifier.RefreshFailed(err); nerr != nil {
			v.logger.Warn("Failure alert not delivered", "error", nerr)
		}
		return err
	}

	set, diag := v.norm.Normalize(resp.Schedules)
	v.schedules = set
	v.diag = diag

	if diag.Accepted == 0 && len(resp.Schedules) > 0 {
		v.errMsg = ErrAllInvalid
		v.logger.Warn("Every fetched schedule record was rejected",
			"fetched", len(resp.Schedules), "reasons", diag.Reasons)
		if nerr := v.notifier.AllRecordsRejected(len(resp.Schedules), diag.Reasons); nerr != nil {
			v.logger.Warn("Failure alert not delivered", "error", nerr)
		}
	} else {
		v.logger.Info("Schedule set replaced",
			"accepted", diag.Accepted, "rejected", diag.Rejected)
	}

	return nil
}

// NavigateMonth shifts the month cursor and refetches. An invalid cursor
// makes navigation a no-op.
func (v *View) NavigateMonth(ctx context.Context, dir calendar.Direction) error {
	v.mu.Lock()
	shifted := calendar.ShiftMonth(v.current, dir)
	if shifted.Equal(v.current) {
		v.mu.Unlock()
		return nil
	}
	v.current = shifted
	v.mu.Unlock()

	return v.Refresh(ctx)
}

// GoToToday resets the cursor and selection to the current day.
func (v *View) GoToToday() {
	now := v.now().In(v.loc)
	v.mu.Lock()
	v.current = now
	v.selected = now
	v.mu.Unlock()
}

// SelectDate picks the day whose panel and timeline are shown. Zero dates
// are ignored.
func (v *View) SelectDate(d time.Time) {
	if d.IsZero() {
		return
	}
	v.mu.Lock()
	v.selected = d.In(v.loc)
	v.mu.Unlock()
}

// Create expands the request's frequency into single occurrences, posts
// each, and reconciles by refetching the whole set.
func (v *View) Create(ctx context.Context, req api.CreateRequest) error {
	reqs, err := recurrence.Expand(req, v.loc, 0)
	if err != nil {
		return err
	}
	for _, r := range reqs {
		if _, err := v.svc.Create(ctx, r); err != nil {
			return fmt.Errorf("creating schedule on %s: %w", r.Date, err)
		}
	}
	return v.Refresh(ctx)
}

// Schedules returns a copy of the canonical set in fetch order.
func (v *View) Schedules() []models.CanonicalSchedule {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]models.CanonicalSchedule, len(v.schedules))
	copy(out, v.schedules)
	return out
}

func (v *View) Diagnostics() normalizer.Diagnostics {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.diag
}

func (v *View) Err() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errMsg
}

func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

func (v *View) CurrentMonth() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

func (v *View) SelectedDate() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected
}

// MonthGrid returns the day cells for the cursor month, leading blanks as
// zero times.
func (v *View) MonthGrid() []time.Time {
	v.mu.Lock()
	cur := v.current
	v.mu.Unlock()
	return calendar.DaysInMonth(cur.Year(), cur.Month(), v.loc)
}

// SelectedDaySchedules returns the selected day's schedules sorted by
// departure ascending, the panel's display order.
func (v *View) SelectedDaySchedules() []models.CanonicalSchedule {
	v.mu.Lock()
	day := calendar.OnDay(v.schedules, v.selected)
	v.mu.Unlock()
	calendar.SortByDeparture(day)
	return day
}

// HasSchedulesOn reports whether a day cell should carry a marker.
func (v *View) HasSchedulesOn(d time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return calendar.HasOnDay(v.schedules, d)
}

// CountOn returns the number of schedules on a day cell.
func (v *View) CountOn(d time.Time) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(calendar.OnDay(v.schedules, d))
}

// TimelineBuckets groups the selected day's schedules into the configured
// hourly slots.
func (v *View) TimelineBuckets() map[int][]models.CanonicalSchedule {
	return timeline.Bucketize(v.SelectedDaySchedules(), v.slots, v.loc)
}

// SlotHours exposes the configured hour marks in display order.
func (v *View) SlotHours() []int {
	out := make([]int, len(v.slots))
	copy(out, v.slots)
	return out
}

// IsToday reports whether d is the current local day.
func (v *View) IsToday(d time.Time) bool {
	return calendar.SameDay(d, v.now().In(v.loc))
}
