package refresh

import (
	"context"
	"sync"
	"time"

	"stock-screener/src/helpers"
	"stock-screener/src/logger"
)

// MarketHours reports whether any tracked exchange is trading.
type MarketHours interface {
	AnyMarketOpen() bool
	UpdateSymbols(symbols []string)
}

// Scheduler refreshes the store in the background while markets are open.
type Scheduler struct {
	Orchestrator *Orchestrator
	Market       MarketHours
	Interval     time.Duration
	Logger       *logger.Logger

	errors     *helpers.ErrorHandler
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.Mutex
}

// -----------------------------------------------------------------------------

// NewScheduler keeps market's exchange set in step with the orchestrator's
// ticker list.
func NewScheduler(o *Orchestrator, market MarketHours, interval time.Duration, log *logger.Logger) *Scheduler {
	if market != nil {
		o.OnTickersChanged(market.UpdateSymbols)
	}
	return &Scheduler{
		Orchestrator: o,
		Market:       market,
		Interval:     interval,
		Logger:       log,
		errors:       helpers.NewErrorHandler(log),
	}
}

// -----------------------------------------------------------------------------

// Start launches the loop. The first stale check runs immediately so a fresh
// process serves data without waiting for market hours.
func (s *Scheduler) Start(parentCtx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelFunc != nil {
		return
	}
	ctx, cancel := context.WithCancel(parentCtx)
	s.cancelFunc = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)
	s.Logger.Info("Background refresh every %v", s.Interval)
}

// Stop cancels the loop and waits for an in-flight cycle to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		s.wg.Wait()
		s.Logger.Info("Background refresh stopped")
	}
}

// -----------------------------------------------------------------------------

func (s *Scheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	s.tick(ctx, true)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx, false)
		}
	}
}

// -----------------------------------------------------------------------------

func (s *Scheduler) tick(ctx context.Context, first bool) {
	if !first && s.Market != nil && !s.Market.AnyMarketOpen() {
		s.Logger.Debug("All markets are closed. Skipping refresh.")
		return
	}

	if s.errors.ShouldBackOff() {
		s.Logger.Warning("Skipping one refresh after %d consecutive failures", s.errors.ErrorCount)
		s.errors.ResetErrorCount()
		return
	}

	_, err := s.Orchestrator.RefreshIfStale(ctx)
	s.errors.Handle(err, "background refresh")
}
