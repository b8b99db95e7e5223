package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"tubelens-backend/internal/services"
)

// Service refreshes the daily idea set on a cron schedule. A run already
// in flight is skipped rather than overlapped.
type Service struct {
	ideas    *services.IdeasService
	cron     *cron.Cron
	spec     string
	running  atomic.Bool
	runLimit time.Duration
}

func NewService(ideas *services.IdeasService, spec string) *Service {
	return &Service{
		ideas:    ideas,
		cron:     cron.New(),
		spec:     spec,
		runLimit: 10 * time.Minute,
	}
}

// Start registers the refresh job and kicks off one run immediately so a
// fresh deployment serves ideas before the first scheduled tick.
func (s *Service) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.run)
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Idea scheduler started with spec %q", s.spec)

	go s.run()
	return nil
}

func (s *Service) run() {
	if !s.running.CompareAndSwap(false, true) {
		logrus.Warn("Skipping idea refresh, previous run still in progress")
		return
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), s.runLimit)
	defer cancel()

	logrus.Info("Starting scheduled idea refresh")
	if _, err := s.ideas.Refresh(ctx); err != nil {
		logrus.Errorf("Scheduled idea refresh failed: %v", err)
	}
}

// Stop halts the schedule; an in-flight run finishes on its own.
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Idea scheduler stopped")
	}
}
