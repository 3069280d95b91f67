package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Sweeper drives the periodic forgetting-curve pass. It runs the sweep once
// at startup and then on a fixed wall-clock cadence, independent of any
// in-flight user action. There is no cancellation path other than Stop.
type Sweeper struct {
	scheduler *gocron.Scheduler
	cards     *CardService
	interval  time.Duration
	logger    *slog.Logger
}

// NewSweeper creates a sweeper running every interval.
func NewSweeper(cards *CardService, interval time.Duration, logger *slog.Logger) (*Sweeper, error) {
	if cards == nil {
		return nil, errors.New("sweeper: cards cannot be nil")
	}
	if interval <= 0 {
		return nil, errors.New("sweeper: interval must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Sweeper{
		scheduler: gocron.NewScheduler(time.UTC),
		cards:     cards,
		interval:  interval,
		logger:    logger.With(slog.String("component", "sweeper")),
	}, nil
}

// Start runs one sweep immediately, then schedules the periodic job in the
// background.
func (s *Sweeper) Start() error {
	s.run()
	if _, err := s.scheduler.Every(s.interval).Do(s.run); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	s.logger.Info("sweeper started", slog.Duration("interval", s.interval))
	return nil
}

// Stop terminates the periodic job.
func (s *Sweeper) Stop() {
	s.scheduler.Stop()
}

func (s *Sweeper) run() {
	count := s.cards.CheckForgettingCurve(context.Background())
	if count > 0 {
		s.logger.Info("sweep complete", slog.Int("reverted", count))
	}
}
