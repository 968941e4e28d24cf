package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stock-screener/src/helpers"
	"stock-screener/src/interfaces"
	"stock-screener/src/logger"
	"stock-screener/src/models"
	"stock-screener/src/normalizer"
	"stock-screener/src/store"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultFetchTimeout = 10 * time.Second
	persistTimeout      = 30 * time.Second
)

// Orchestrator runs refresh cycles: fetch every configured ticker, normalize
// or substitute a placeholder, then install the whole batch at once.
type Orchestrator struct {
	Provider     interfaces.IQuoteProvider
	Store        *store.QuoteStore
	Repository   interfaces.IQuoteRepository
	Logger       *logger.Logger
	Tickers      []string
	FetchTimeout time.Duration
	Concurrency  int
	TTL          time.Duration

	mu          sync.Mutex // one cycle at a time
	tickersMu   sync.RWMutex
	tickerHooks []func([]string)
	group       singleflight.Group
	publisher   interfaces.ISnapshotPublisher
	now         func() time.Time
}

// -----------------------------------------------------------------------------

func NewOrchestrator(cfg *models.MConfig, provider interfaces.IQuoteProvider, st *store.QuoteStore, repo interfaces.IQuoteRepository, log *logger.Logger) *Orchestrator {
	timeout := time.Duration(cfg.Network.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	ttl := time.Duration(cfg.DataSource.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Orchestrator{
		Provider:     provider,
		Store:        st,
		Repository:   repo,
		Logger:       log,
		Tickers:      append([]string(nil), cfg.DataSource.Tickers...),
		FetchTimeout: timeout,
		Concurrency:  max(1, cfg.Network.ConcurrentRequests),
		TTL:          ttl,
		now:          time.Now,
	}
}

// SetPublisher registers where new snapshots are pushed after each cycle.
func (o *Orchestrator) SetPublisher(p interfaces.ISnapshotPublisher) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.publisher = p
}

// TickerList returns a copy of the configured tickers.
func (o *Orchestrator) TickerList() []string {
	o.tickersMu.RLock()
	defer o.tickersMu.RUnlock()
	return append([]string(nil), o.Tickers...)
}

// SetTickers replaces the ticker list used by the next cycle and notifies
// every OnTickersChanged hook.
func (o *Orchestrator) SetTickers(tickers []string) {
	o.tickersMu.Lock()
	o.Tickers = append([]string(nil), tickers...)
	hooks := append(([]func([]string))(nil), o.tickerHooks...)
	o.tickersMu.Unlock()

	for _, hook := range hooks {
		hook(append([]string(nil), tickers...))
	}
}

// OnTickersChanged registers fn to be called after each SetTickers.
func (o *Orchestrator) OnTickersChanged(fn func([]string)) {
	o.tickersMu.Lock()
	defer o.tickersMu.Unlock()
	o.tickerHooks = append(o.tickerHooks, fn)
}

// -----------------------------------------------------------------------------

// Refresh runs one full cycle. Per-ticker failures become placeholders and
// are listed in the result; the returned error is only about installing or
// persisting the batch.
func (o *Orchestrator) Refresh(ctx context.Context) (models.MRefreshResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	start := o.now()
	quotes, failures := o.fetchAll(ctx, start)

	if err := o.Store.ReplaceAll(quotes); err != nil {
		return models.MRefreshResult{}, fmt.Errorf("install snapshot: %w", err)
	}

	result := models.MRefreshResult{
		Count:       len(quotes),
		Failures:    failures,
		LastUpdated: o.Store.LastUpdated(),
		Duration:    o.now().Sub(start),
	}
	o.Logger.Info("Refreshed %d tickers (%d failed) in %v", result.Count, len(failures), result.Duration)

	if o.publisher != nil {
		o.publisher.Publish(models.NewSnapshotMessage(models.SnapshotUpdate, o.Store.GetAll(), result.LastUpdated))
	}

	if o.Repository != nil {
		// the snapshot is already live; persist it even when ctx was cancelled
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
		defer cancel()
		if err := o.Repository.ReplaceAll(pctx, o.Store.InInsertionOrder()); err != nil {
			o.Logger.Error("Failed to persist snapshot: %v", err)
			return result, helpers.NewStorageError("persist snapshot", err)
		}
	}

	return result, nil
}

// -----------------------------------------------------------------------------

// RefreshIfStale refreshes when the store is older than TTL. Concurrent
// callers share a single cycle. It reports whether a cycle ran.
func (o *Orchestrator) RefreshIfStale(ctx context.Context) (bool, error) {
	if !IsStale(o.Store.LastUpdated(), o.now(), o.TTL) {
		return false, nil
	}

	_, err, _ := o.group.Do("refresh", func() (any, error) {
		// another caller may have finished a cycle while we waited
		if !IsStale(o.Store.LastUpdated(), o.now(), o.TTL) {
			return nil, nil
		}
		return o.Refresh(context.WithoutCancel(ctx))
	})
	return true, err
}

// -----------------------------------------------------------------------------

// fetchAll returns one quote per ticker in list order plus the tickers that
// fell back to a placeholder.
func (o *Orchestrator) fetchAll(ctx context.Context, updatedAt time.Time) ([]models.MQuote, []string) {
	tickers := o.TickerList()
	quotes := make([]models.MQuote, len(tickers))
	failed := make([]bool, len(tickers))

	var g errgroup.Group
	g.SetLimit(max(1, o.Concurrency))

	for i, ticker := range tickers {
		g.Go(func() error {
			q, err := o.fetchOne(ctx, ticker, updatedAt)
			if err != nil {
				o.Logger.Warning("Using placeholder for %s: %v", ticker, err)
				q = normalizer.Placeholder(ticker, updatedAt)
				failed[i] = true
			}
			quotes[i] = q
			return nil
		})
	}
	_ = g.Wait()

	var failures []string
	for i, f := range failed {
		if f {
			failures = append(failures, tickers[i])
		}
	}
	return quotes, failures
}

// -----------------------------------------------------------------------------

func (o *Orchestrator) fetchOne(ctx context.Context, ticker string, updatedAt time.Time) (models.MQuote, error) {
	fctx, cancel := context.WithTimeout(ctx, o.FetchTimeout)
	defer cancel()

	raw, err := o.Provider.FetchQuote(fctx, ticker)
	if err != nil {
		return models.MQuote{}, err
	}
	o.Logger.Debug("Fetched %s (%d history points)", ticker, len(raw.History))
	return normalizer.Normalize(ticker, raw.Payload, raw.History, updatedAt), nil
}

// -----------------------------------------------------------------------------

// LatestPrice fetches the live price for ticker, bounded by FetchTimeout.
func (o *Orchestrator) LatestPrice(ctx context.Context, ticker string) (float64, error) {
	fctx, cancel := context.WithTimeout(ctx, o.FetchTimeout)
	defer cancel()
	return o.Provider.FetchLatestPrice(fctx, ticker)
}

// -----------------------------------------------------------------------------

// Restore loads the persisted snapshot into the store.
func (o *Orchestrator) Restore(ctx context.Context) (int, error) {
	if o.Repository == nil {
		return 0, nil
	}
	quotes, err := o.Repository.LoadAll(ctx)
	if err != nil {
		return 0, helpers.NewStorageError("load snapshot", err)
	}
	if len(quotes) == 0 {
		return 0, nil
	}
	if err := o.Store.Restore(quotes); err != nil {
		return 0, err
	}
	return len(quotes), nil
}
