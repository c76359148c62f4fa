package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	DefaultAlertSpec  = "@every 4h"
	DefaultDigestSpec = "@hourly"
)

// Runner is what the scheduler drives.
type Runner interface {
	RunAlerts(ctx context.Context) (Stats, error)
	RunDigests(ctx context.Context) (Stats, error)
}

// Scheduler wraps robfig/cron and triggers the alert and digest cycles.
type Scheduler struct {
	cron       *cron.Cron
	runner     Runner
	alertSpec  string
	digestSpec string
	logger     *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(runner Runner, alertSpec, digestSpec string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if alertSpec == "" {
		alertSpec = DefaultAlertSpec
	}
	if digestSpec == "" {
		digestSpec = DefaultDigestSpec
	}
	return &Scheduler{
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		runner:     runner,
		alertSpec:  alertSpec,
		digestSpec: digestSpec,
		logger:     logger,
	}
}

// Start registers both jobs and starts the scheduler. One alert cycle runs
// immediately so new alerts do not wait for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if _, err := s.cron.AddFunc(s.alertSpec, func() { s.runAlerts(ctx) }); err != nil {
		cancel()
		return fmt.Errorf("cron.AddFunc alerts: %w", err)
	}
	if _, err := s.cron.AddFunc(s.digestSpec, func() { s.runDigests(ctx) }); err != nil {
		cancel()
		return fmt.Errorf("cron.AddFunc digests: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("alert_spec", s.alertSpec), zap.String("digest_spec", s.digestSpec))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runAlerts(ctx)
	}()
	return nil
}

// Stop cancels running cycles and waits for them to return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runAlerts(ctx context.Context) {
	if _, err := s.runner.RunAlerts(ctx); err != nil {
		s.logCycleError("alerts", err)
	}
}

func (s *Scheduler) runDigests(ctx context.Context) {
	if _, err := s.runner.RunDigests(ctx); err != nil {
		s.logCycleError("digests", err)
	}
}

func (s *Scheduler) logCycleError(cycle string, err error) {
	if errors.Is(err, ErrCycleInProgress) {
		s.logger.Info("cycle skipped, another instance holds the lock", zap.String("cycle", cycle))
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	s.logger.Error("cycle failed", zap.String("cycle", cycle), zap.Error(err))
}
