// Package store holds the process-wide quote table.
package store

import (
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"stock-screener/src/models"
)

// snapshot is immutable once published.
type snapshot struct {
	ordered     []models.MQuote // by PriceChangePercent desc, ties in insertion order
	inserted    []models.MQuote // as given to ReplaceAll
	byTicker    map[string]int  // index into inserted
	lastUpdated time.Time
}

// QuoteStore keeps the latest full set of quotes. Writers publish a new
// snapshot with a single pointer swap, so readers observe either the old or
// the new set and never a mix.
type QuoteStore struct {
	current atomic.Pointer[snapshot]
	now     func() time.Time
}

// -----------------------------------------------------------------------------

// NewQuoteStore returns an empty store. A nil clock means time.Now.
func NewQuoteStore(clock func() time.Time) *QuoteStore {
	if clock == nil {
		clock = time.Now
	}
	s := &QuoteStore{now: clock}
	s.current.Store(&snapshot{byTicker: map[string]int{}})
	return s
}

// -----------------------------------------------------------------------------

// ReplaceAll discards the previous set and installs quotes. Every quote's
// LastUpdated is set to the write time. On error the previous set is kept.
func (s *QuoteStore) ReplaceAll(quotes []models.MQuote) error {
	at := s.now()
	stamped := make([]models.MQuote, len(quotes))
	for i, q := range quotes {
		q.LastUpdated = at
		stamped[i] = q
	}
	snap, err := buildSnapshot(stamped, at)
	if err != nil {
		return err
	}
	s.current.Store(snap)
	return nil
}

// Restore installs quotes loaded from persistent storage, keeping their
// LastUpdated values. The snapshot's age is the newest of them.
func (s *QuoteStore) Restore(quotes []models.MQuote) error {
	var newest time.Time
	for _, q := range quotes {
		if q.LastUpdated.After(newest) {
			newest = q.LastUpdated
		}
	}
	snap, err := buildSnapshot(append([]models.MQuote(nil), quotes...), newest)
	if err != nil {
		return err
	}
	s.current.Store(snap)
	return nil
}

// -----------------------------------------------------------------------------

// GetAll returns the quotes ordered by PriceChangePercent descending, ties
// broken by insertion order. The slice is a copy.
func (s *QuoteStore) GetAll() []models.MQuote {
	snap := s.current.Load()
	return append([]models.MQuote(nil), snap.ordered...)
}

// InInsertionOrder returns the quotes in the order they were written.
func (s *QuoteStore) InInsertionOrder() []models.MQuote {
	snap := s.current.Load()
	return append([]models.MQuote(nil), snap.inserted...)
}

// GetByTicker looks up a single quote.
func (s *QuoteStore) GetByTicker(ticker string) (models.MQuote, bool) {
	snap := s.current.Load()
	i, ok := snap.byTicker[ticker]
	if !ok {
		return models.MQuote{}, false
	}
	return snap.inserted[i], true
}

// LastUpdated is the write time of the current set, zero when empty.
func (s *QuoteStore) LastUpdated() time.Time {
	return s.current.Load().lastUpdated
}

// Len is the number of quotes in the current set.
func (s *QuoteStore) Len() int {
	return len(s.current.Load().inserted)
}

// -----------------------------------------------------------------------------

func buildSnapshot(quotes []models.MQuote, lastUpdated time.Time) (*snapshot, error) {
	byTicker := make(map[string]int, len(quotes))
	for i, q := range quotes {
		if q.Ticker == "" {
			return nil, fmt.Errorf("quote at position %d has an empty ticker", i)
		}
		if _, dup := byTicker[q.Ticker]; dup {
			return nil, fmt.Errorf("duplicate ticker %q in batch", q.Ticker)
		}
		byTicker[q.Ticker] = i
	}

	ordered := append([]models.MQuote(nil), quotes...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PriceChangePercent > ordered[j].PriceChangePercent
	})

	if len(quotes) == 0 {
		lastUpdated = time.Time{}
	}
	return &snapshot{
		ordered:     ordered,
		inserted:    quotes,
		byTicker:    byTicker,
		lastUpdated: lastUpdated,
	}, nil
}
