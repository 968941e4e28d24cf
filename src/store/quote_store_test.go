package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"stock-screener/src/models"

	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func quote(ticker string, pct float64) models.MQuote {
	return models.MQuote{Ticker: ticker, Name: ticker, PriceChangePercent: pct}
}

func tickers(qs []models.MQuote) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Ticker
	}
	return out
}

func TestEmptyStore(t *testing.T) {
	t.Parallel()

	s := NewQuoteStore(nil)
	require.Empty(t, s.GetAll())
	require.True(t, s.LastUpdated().IsZero())
	require.Zero(t, s.Len())

	_, ok := s.GetByTicker("AAPL")
	require.False(t, ok)
}

func TestGetAllOrdersByChangePercentDescending(t *testing.T) {
	t.Parallel()

	s := NewQuoteStore(nil)
	require.NoError(t, s.ReplaceAll([]models.MQuote{
		quote("AAPL", 3.1),
		quote("TSLA", -2.0),
		quote("NVDA", 5.5),
	}))

	got := s.GetAll()
	require.Equal(t, []string{"NVDA", "AAPL", "TSLA"}, tickers(got))
	require.Equal(t, []string{"AAPL", "TSLA", "NVDA"}, tickers(s.InInsertionOrder()))
}

func TestGetAllBreaksTiesByInsertionOrder(t *testing.T) {
	t.Parallel()

	s := NewQuoteStore(nil)
	require.NoError(t, s.ReplaceAll([]models.MQuote{
		quote("B", 0),
		quote("A", 1.5),
		quote("C", 0),
		quote("D", 1.5),
	}))
	require.Equal(t, []string{"A", "D", "B", "C"}, tickers(s.GetAll()))
}

func TestReplaceAllStampsWriteTime(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 1, 2, 9, 30, 0, 0, time.UTC)
	s := NewQuoteStore(fixedClock(at))
	stale := quote("AAPL", 1)
	stale.LastUpdated = at.Add(-time.Hour)
	require.NoError(t, s.ReplaceAll([]models.MQuote{stale}))

	q, ok := s.GetByTicker("AAPL")
	require.True(t, ok)
	require.True(t, q.LastUpdated.Equal(at))
	require.True(t, s.LastUpdated().Equal(at))
}

func TestReplaceAllDiscardsPreviousSet(t *testing.T) {
	t.Parallel()

	s := NewQuoteStore(nil)
	require.NoError(t, s.ReplaceAll([]models.MQuote{quote("OLD", 1)}))
	require.NoError(t, s.ReplaceAll([]models.MQuote{quote("NEW", 2)}))

	_, ok := s.GetByTicker("OLD")
	require.False(t, ok)
	require.Equal(t, []string{"NEW"}, tickers(s.GetAll()))
}

func TestReplaceAllRejectsDuplicatesAndKeepsPreviousSet(t *testing.T) {
	t.Parallel()

	s := NewQuoteStore(nil)
	require.NoError(t, s.ReplaceAll([]models.MQuote{quote("AAPL", 1)}))

	err := s.ReplaceAll([]models.MQuote{quote("MSFT", 1), quote("MSFT", 2)})
	require.ErrorContains(t, err, "duplicate ticker")

	err = s.ReplaceAll([]models.MQuote{quote("", 1)})
	require.ErrorContains(t, err, "empty ticker")

	require.Equal(t, []string{"AAPL"}, tickers(s.GetAll()))
}

func TestGetAllReturnsCopy(t *testing.T) {
	t.Parallel()

	s := NewQuoteStore(nil)
	require.NoError(t, s.ReplaceAll([]models.MQuote{quote("AAPL", 1)}))

	got := s.GetAll()
	got[0].Ticker = "MUTATED"

	q, ok := s.GetByTicker("AAPL")
	require.True(t, ok)
	require.Equal(t, "AAPL", q.Ticker)
}

func TestRestoreKeepsStoredTimestamps(t *testing.T) {
	t.Parallel()

	t1 := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	a := quote("A", 1)
	a.LastUpdated = t1
	b := quote("B", 2)
	b.LastUpdated = t2

	s := NewQuoteStore(fixedClock(t2.Add(time.Hour)))
	require.NoError(t, s.Restore([]models.MQuote{a, b}))

	require.True(t, s.LastUpdated().Equal(t2))
	got, _ := s.GetByTicker("A")
	require.True(t, got.LastUpdated.Equal(t1))
}

// Readers must see either the complete old generation or the complete new one.
func TestReplaceAllIsAtomicForConcurrentReaders(t *testing.T) {
	t.Parallel()

	const size = 40
	batch := func(gen string) []models.MQuote {
		qs := make([]models.MQuote, size)
		for i := range qs {
			qs[i] = models.MQuote{Ticker: fmt.Sprintf("T%02d", i), Name: gen, PriceChangePercent: float64(i)}
		}
		return qs
	}
	genA, genB := batch("A"), batch("B")

	s := NewQuoteStore(nil)
	require.NoError(t, s.ReplaceAll(genA))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	errs := make(chan error, 8)

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				all := s.GetAll()
				if len(all) != size {
					errs <- fmt.Errorf("saw %d quotes", len(all))
					return
				}
				for _, q := range all {
					if q.Name != all[0].Name {
						errs <- fmt.Errorf("mixed generations %s/%s", all[0].Name, q.Name)
						return
					}
				}
			}
		}()
	}

	for i := 0; i < 2000; i++ {
		next := genA
		if i%2 == 0 {
			next = genB
		}
		require.NoError(t, s.ReplaceAll(next))
	}
	close(stop)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}
