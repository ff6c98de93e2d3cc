package balance

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler periodically runs the yearly reset sweep. The sweep itself is
// gated per user on the stored leave year, so the check interval only affects
// how quickly stale balances are picked up after a year boundary, never how
// often carry-over is applied.
type Scheduler struct {
	service       *Service
	logger        *slog.Logger
	CheckInterval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewScheduler(service *Service, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		service:       service,
		logger:        logger,
		CheckInterval: 24 * time.Hour,
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		return
	}

	// Fresh channel per run so a stopped scheduler can be started again.
	s.stop = make(chan struct{})
	s.ticker = time.NewTicker(s.CheckInterval)
	s.wg.Add(1)
	go s.run(s.ticker, s.stop)

	s.logger.Info("yearly reset scheduler started", "check_interval", s.CheckInterval)
}

func (s *Scheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer s.wg.Done()

	for {
		select {
		case <-ticker.C:
			if _, err := s.service.RunYearlyReset(context.Background()); err != nil {
				s.logger.Error("scheduled yearly reset failed", "error", err)
			}
		case <-stop:
			return
		}
	}
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}

	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.ticker = nil

	s.logger.Info("yearly reset scheduler stopped")
}
