package publish

import (
	"context"
	"time"

	"github.com/myblog/blog/pkg/logger"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs the export at the top of every hour.
const DefaultSchedule = "0 * * * *"

const exportTimeout = 2 * time.Minute

// Scheduler runs an Exporter periodically.
type Scheduler struct {
	exporter *Exporter
	cron     *cron.Cron
}

func NewScheduler(exporter *Exporter) *Scheduler {
	return &Scheduler{exporter: exporter, cron: cron.New()}
}

// Start registers the export job with a standard five field cron expression
// and starts the scheduler.
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return err
	}
	s.cron.Start()
	logger.Infof("export scheduler started (%s)", schedule)
	return nil
}

// Stop halts the scheduler and waits for a running export to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Infof("export scheduler stopped")
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()
	if _, err := s.exporter.Export(ctx); err != nil {
		logger.Errorf("scheduled export failed: %v", err)
	}
}
