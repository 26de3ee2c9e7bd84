package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"BeesDashboard/internal/dashboard"
)

// Scheduler periodically clears the weekly data cache and re-warms it so
// page loads rarely wait on the upstream source.
type Scheduler struct {
	Cron      *cron.Cron
	Dashboard *dashboard.Dashboard
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, d *dashboard.Dashboard) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Dashboard: d,
		Ctx:       ctx,
	}
}

// RegisterRefresh registers the refresh task on a six-field cron spec.
func (s *Scheduler) RegisterRefresh(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// DefaultCleanupSpec prunes expired cache entries every fifteen minutes.
const DefaultCleanupSpec = "0 */15 * * * *"

// RegisterCleanup registers the expired-entry sweep on a six-field cron spec.
func (s *Scheduler) RegisterCleanup(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.cleanupTask); err != nil {
		return fmt.Errorf("register cleanup task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately.
func (s *Scheduler) RunRefreshNow() error {
	return s.refresh()
}

func (s *Scheduler) refreshTask() {
	if err := s.refresh(); err != nil {
		log.Printf("[ERROR] scheduled refresh: %v", err)
	}
}

func (s *Scheduler) cleanupTask() {
	s.Dashboard.Prune()
}

func (s *Scheduler) refresh() error {
	log.Println("[INFO] running scheduled refresh")
	s.Dashboard.Refresh()
	page, err := s.Dashboard.RenderDefault(s.Ctx, s.Dashboard.Years.Default)
	if err != nil {
		return fmt.Errorf("warm cache: %w", err)
	}
	log.Printf("[INFO] cache warmed: %d charts, %d warnings", len(page.Charts)-len(page.Warnings()), len(page.Warnings()))
	return nil
}
