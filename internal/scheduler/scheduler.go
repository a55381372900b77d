package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Nariman739/ramadan-bot/internal/domain"
)

// Scheduler fires the morning and evening notifications at fixed wall-clock
// times in the configured location. Exact-time triggering belongs to cron;
// the notifier itself is safe to invoke twice for the same slot.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

// New registers the two daily entries. morning and evening are local "HH:MM"
// clock values.
func New(loc *time.Location, morning, evening string, n *Notifier, log *zap.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(loc))

	morningSpec, err := cronSpec(morning)
	if err != nil {
		return nil, fmt.Errorf("morning time: %w", err)
	}
	eveningSpec, err := cronSpec(evening)
	if err != nil {
		return nil, fmt.Errorf("evening time: %w", err)
	}

	if _, err := c.AddFunc(morningSpec, func() { n.MorningFiring(context.Background()) }); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(eveningSpec, func() { n.EveningFiring(context.Background()) }); err != nil {
		return nil, err
	}

	return &Scheduler{cron: c, log: log}, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop halts scheduling and waits for a running firing to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// cronSpec turns "HH:MM" into a daily cron entry.
func cronSpec(clock string) (string, error) {
	mins, err := domain.ParseClock(clock)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %d * * *", mins%60, mins/60), nil
}
