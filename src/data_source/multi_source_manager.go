package datasource

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"stock-screener/src/helpers"
	"stock-screener/src/interfaces"
	"stock-screener/src/logger"
	"stock-screener/src/models"
)

// MultiSourceManager asks its sources in order and returns the first
// successful answer for a ticker.
type MultiSourceManager struct {
	Logger  *logger.Logger
	mu      sync.RWMutex
	order   []string
	sources map[string]interfaces.IQuoteProvider
}

// -----------------------------------------------------------------------------

func NewMultiSourceManager(sources []interfaces.IQuoteProvider, log *logger.Logger) *MultiSourceManager {
	m := &MultiSourceManager{
		Logger:  log,
		sources: make(map[string]interfaces.IQuoteProvider),
	}

	for _, s := range sources {
		if err := m.AddSource(s); err != nil {
			m.Logger.Warning("Skipping source: %v", err)
		}
	}

	return m
}

// -----------------------------------------------------------------------------

// AddSource appends a source as the lowest priority fallback.
func (m *MultiSourceManager) AddSource(source interfaces.IQuoteProvider) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := source.Name()
	if _, exists := m.sources[name]; exists {
		return fmt.Errorf("source %s already exists", name)
	}

	m.sources[name] = source
	m.order = append(m.order, name)
	m.Logger.Info("Added source: %s (priority %d)", name, len(m.order))
	return nil
}

// -----------------------------------------------------------------------------

// RemoveSource drops a source
func (m *MultiSourceManager) RemoveSource(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sources[name]; !exists {
		return fmt.Errorf("source %s not found", name)
	}

	delete(m.sources, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			break
		}
	}
	m.Logger.Info("Removed source: %s", name)
	return nil
}

// -----------------------------------------------------------------------------

// GetSource retrieves a source by name
func (m *MultiSourceManager) GetSource(name string) (interfaces.IQuoteProvider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	source, exists := m.sources[name]
	if !exists {
		return nil, fmt.Errorf("source %s not found", name)
	}
	return source, nil
}

// -----------------------------------------------------------------------------

// GetAllSources returns the sources in priority order
func (m *MultiSourceManager) GetAllSources() []interfaces.IQuoteProvider {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]interfaces.IQuoteProvider, 0, len(m.order))
	for _, name := range m.order {
		list = append(list, m.sources[name])
	}
	return list
}

// -----------------------------------------------------------------------------

// Name returns "MultiSourceManager"
func (m *MultiSourceManager) Name() string {
	return "MultiSourceManager"
}

// -----------------------------------------------------------------------------

func (m *MultiSourceManager) FetchQuote(ctx context.Context, ticker string) (models.MRawQuote, error) {
	return firstSuccess(ctx, m, ticker, func(ctx context.Context, s interfaces.IQuoteProvider) (models.MRawQuote, error) {
		return s.FetchQuote(ctx, ticker)
	})
}

// -----------------------------------------------------------------------------

func (m *MultiSourceManager) FetchLatestPrice(ctx context.Context, ticker string) (float64, error) {
	return firstSuccess(ctx, m, ticker, func(ctx context.Context, s interfaces.IQuoteProvider) (float64, error) {
		return s.FetchLatestPrice(ctx, ticker)
	})
}

// -----------------------------------------------------------------------------

// firstSuccess walks the sources in order. The combined error only matches
// helpers.ErrNoData when every source reported no data.
func firstSuccess[T any](ctx context.Context, m *MultiSourceManager, ticker string, call func(context.Context, interfaces.IQuoteProvider) (T, error)) (T, error) {
	var zero T
	sources := m.GetAllSources()
	if len(sources) == 0 {
		return zero, helpers.NewConfigurationError("no quote sources configured")
	}

	var failures []error
	noData := 0
	for _, src := range sources {
		res, err := call(ctx, src)
		if err == nil {
			return res, nil
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		m.Logger.Debug("Source %s failed for %s: %v", src.Name(), ticker, err)
		if errors.Is(err, helpers.ErrNoData) {
			noData++
			continue
		}
		failures = append(failures, err)
	}

	if noData == len(sources) {
		return zero, &helpers.NoDataError{Ticker: ticker}
	}
	return zero, fmt.Errorf("all sources failed for %s: %w", ticker, errors.Join(failures...))
}
