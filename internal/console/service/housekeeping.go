package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/waypointhq/console/internal/console/store"
)

// DefaultEmailIntentTTL is how long an unverified email-change intent stays
// on a user record before housekeeping clears it.
const DefaultEmailIntentTTL = 168 * time.Hour

// HousekeepingService periodically deletes expired records so invitation
// tokens, provider sessions, verification links, and stale email-change
// intents don't accumulate forever.
type HousekeepingService struct {
	Store          store.Store
	Logger         *slog.Logger
	Interval       time.Duration
	EmailIntentTTL time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval, emailIntentTTL time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if emailIntentTTL <= 0 {
		emailIntentTTL = DefaultEmailIntentTTL
	}

	return &HousekeepingService{
		Store:          st,
		Logger:         logger,
		Interval:       interval,
		EmailIntentTTL: emailIntentTTL,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the background worker and waits for any in-progress
// cleanup to finish.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup()

	for {
		select {
		case <-ticker.C:
			s.Cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup performs one deletion pass. Each deletion is independent; a
// failure in one won't stop the others.
func (s *HousekeepingService) Cleanup() {
	ctx := context.Background()
	s.Logger.Debug("starting housekeeping cleanup")

	var successful int

	if err := s.Store.Tokens().DeleteExpired(ctx); err != nil {
		s.Logger.Error("failed to delete expired invitation tokens", "error", err)
	} else {
		successful++
	}

	if err := s.Store.Sessions().DeleteExpired(ctx); err != nil {
		s.Logger.Error("failed to delete expired provider sessions", "error", err)
	} else {
		successful++
	}

	if err := s.Store.Verifications().DeleteExpired(ctx); err != nil {
		s.Logger.Error("failed to delete expired verification links", "error", err)
	} else {
		successful++
	}

	cutoff := time.Now().UTC().Add(-s.EmailIntentTTL)
	if err := s.Store.Users().ClearStaleEmailIntents(ctx, cutoff); err != nil {
		s.Logger.Error("failed to clear stale email-change intents", "error", err)
	} else {
		successful++
	}

	s.Logger.Info("housekeeping cleanup completed", "successful_cleanups", successful)
}
