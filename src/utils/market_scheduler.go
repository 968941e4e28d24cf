package utils

import (
	"sync"
	"time"

	"stock-screener/src/logger"
)

// MarketScheduler tracks which exchanges the configured tickers trade on.
type MarketScheduler struct {
	Calendars map[string]*TradingCalendar
	Logger    *logger.Logger
	mu        sync.RWMutex
	now       func() time.Time
}

// -----------------------------------------------------------------------------

func NewMarketScheduler(symbols []string, l *logger.Logger) *MarketScheduler {
	ms := &MarketScheduler{
		Calendars: make(map[string]*TradingCalendar),
		Logger:    l,
		now:       time.Now,
	}
	ms.MapSymbolsToCalendars(symbols)
	return ms
}

// -----------------------------------------------------------------------------

// MapSymbolsToCalendars replaces the symbol to calendar mapping.
func (ms *MarketScheduler) MapSymbolsToCalendars(symbols []string) {
	calendars := make(map[string]*TradingCalendar, len(symbols))
	for _, symbol := range symbols {
		calendars[symbol] = GetCalendar(symbol)
	}

	ms.mu.Lock()
	ms.Calendars = calendars
	ms.mu.Unlock()

	ms.Logger.Info("MarketScheduler: Mapped %d symbols to %d unique calendars.",
		len(symbols), len(ms.uniqueCalendars()))
}

// UpdateSymbols remaps the tracked exchanges after a ticker list change.
func (ms *MarketScheduler) UpdateSymbols(symbols []string) {
	ms.MapSymbolsToCalendars(symbols)
}

// -----------------------------------------------------------------------------

// AnyMarketOpen checks if ANY tracked markets are currently open
func (ms *MarketScheduler) AnyMarketOpen() bool {
	return ms.AnyMarketOpenAt(ms.now())
}

// AnyMarketOpenAt is AnyMarketOpen for an explicit instant.
func (ms *MarketScheduler) AnyMarketOpenAt(t time.Time) bool {
	for _, cal := range ms.uniqueCalendars() {
		if cal.IsOpenOnMinute(t.UTC()) {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------

func (ms *MarketScheduler) uniqueCalendars() []*TradingCalendar {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	seen := make(map[*TradingCalendar]bool)
	var out []*TradingCalendar
	for _, cal := range ms.Calendars {
		if !seen[cal] {
			seen[cal] = true
			out = append(out, cal)
		}
	}
	return out
}
