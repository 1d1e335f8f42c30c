package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/buscal-console/internal/common/logger"
)

const refreshTimeout = 30 * time.Second

// Refresher re-runs View.Refresh on a cron schedule so a long-lived console
// session keeps showing current data without manual reloads.
type Refresher struct {
	view   *View
	spec   string
	logger logger.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

func NewRefresher(v *View, spec string, logger logger.Logger) *Refresher {
	return &Refresher{
		view:   v,
		spec:   spec,
		logger: logger,
	}
}

// Start schedules the refresh job and blocks until ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("refresher already running")
	}

	c := cron.New()
	_, err := c.AddFunc(r.spec, func() {
		refreshCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
		defer cancel()
		if err := r.view.Refresh(refreshCtx); err != nil {
			r.logger.Error("Scheduled refresh failed", "error", err)
		}
	})
	if err != nil {
		r.mu.Unlock()
		return fmt.Errorf("invalid refresh cron %q: %w", r.spec, err)
	}

	r.cron = c
	r.running = true
	r.mu.Unlock()

	r.logger.Info("Starting auto-refresh", "cron", r.spec)
	c.Start()

	<-ctx.Done()
	return r.Stop()
}

// Stop halts the cron scheduler and waits for a running job to finish.
func (r *Refresher) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return fmt.Errorf("refresher not running")
	}

	<-r.cron.Stop().Done()
	r.running = false
	r.logger.Info("Auto-refresh stopped")
	return nil
}
