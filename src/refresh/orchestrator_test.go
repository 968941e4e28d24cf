package refresh_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"stock-screener/src/helpers"
	"stock-screener/src/interfaces/mocks"
	"stock-screener/src/logger"
	"stock-screener/src/models"
	"stock-screener/src/normalizer"
	"stock-screener/src/refresh"
	"stock-screener/src/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testConfig(tickers ...string) *models.MConfig {
	return &models.MConfig{
		LogLevel: "CRITICAL",
		Network:  models.MNetworkConfig{RequestTimeout: 5, ConcurrentRequests: 1},
		DataSource: models.MDataSourceConfig{
			Tickers:         tickers,
			CacheTTLSeconds: 300,
		},
	}
}

func newOrchestrator(cfg *models.MConfig, p *mocks.MockIQuoteProvider, repo *mocks.MockIQuoteRepository) (*refresh.Orchestrator, *store.QuoteStore) {
	st := store.NewQuoteStore(nil)
	var o *refresh.Orchestrator
	if repo == nil {
		o = refresh.NewOrchestrator(cfg, p, st, nil, logger.NewLogger(cfg, "Test"))
	} else {
		o = refresh.NewOrchestrator(cfg, p, st, repo, logger.NewLogger(cfg, "Test"))
	}
	return o, st
}

func applePayload() models.MRawQuote {
	return models.MRawQuote{
		Ticker: "AAPL",
		Payload: models.MPayload{
			normalizer.KeyCurrentPrice:  190.0,
			normalizer.KeyPreviousClose: 185.0,
			normalizer.KeyShortName:     "Apple Inc.",
			normalizer.KeyMarketCap:     2.95e12,
		},
		History: []float64{185.0, 190.0},
	}
}

func TestRefreshSubstitutesPlaceholderForFailedTicker(t *testing.T) {
	t.Parallel()

	// Arrange
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockIQuoteProvider(ctrl)
	repo := mocks.NewMockIQuoteRepository(ctrl)

	provider.EXPECT().FetchQuote(gomock.Any(), "AAPL").Return(applePayload(), nil)
	provider.EXPECT().FetchQuote(gomock.Any(), "BADTICKER").Return(models.MRawQuote{}, &helpers.NoDataError{Ticker: "BADTICKER"})

	var persisted []models.MQuote
	repo.EXPECT().ReplaceAll(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, qs []models.MQuote) error {
		persisted = qs
		return nil
	}).Times(1)

	o, st := newOrchestrator(testConfig("AAPL", "BADTICKER"), provider, repo)

	// Act
	result, err := o.Refresh(context.Background())

	// Assert
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)
	require.Equal(t, []string{"BADTICKER"}, result.Failures)

	quotes := st.InInsertionOrder()
	require.Len(t, quotes, 2)
	require.Equal(t, "AAPL", quotes[0].Ticker)
	require.Equal(t, 5.0, quotes[0].PriceChange)
	require.True(t, quotes[0].IsPositive)

	bad := quotes[1]
	require.Equal(t, "BADTICKER", bad.Ticker)
	require.Equal(t, "BADTICKER", bad.Name)
	require.Equal(t, models.MarketStateUnknown, bad.MarketState)
	require.False(t, bad.IsPositive)
	require.Zero(t, bad.CurrentPrice)
	require.Zero(t, bad.PreviousClose)
	require.Zero(t, bad.PriceChange)
	require.Zero(t, bad.PriceChangePercent)
	require.Zero(t, bad.DayHigh)
	require.Zero(t, bad.FiftyTwoWeekLow)

	require.Equal(t, quotes, persisted)
	require.False(t, st.LastUpdated().IsZero())
}

func TestRefreshPreservesTickerOrderWhenParallel(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockIQuoteProvider(ctrl)
	tickers := []string{"A", "B", "C", "D", "E", "F"}
	delays := map[string]time.Duration{"A": 30 * time.Millisecond, "C": 10 * time.Millisecond, "F": 20 * time.Millisecond}

	provider.EXPECT().FetchQuote(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ticker string) (models.MRawQuote, error) {
		time.Sleep(delays[ticker])
		return models.MRawQuote{Ticker: ticker, Payload: models.MPayload{normalizer.KeyCurrentPrice: 10.0}}, nil
	}).Times(len(tickers))

	cfg := testConfig(tickers...)
	cfg.Network.ConcurrentRequests = 4
	o, st := newOrchestrator(cfg, provider, nil)

	_, err := o.Refresh(context.Background())
	require.NoError(t, err)

	var got []string
	for _, q := range st.InInsertionOrder() {
		got = append(got, q.Ticker)
	}
	require.Equal(t, tickers, got)
}

func TestRefreshAppliesPerFetchTimeout(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockIQuoteProvider(ctrl)
	provider.EXPECT().FetchQuote(gomock.Any(), "SLOW").DoAndReturn(func(ctx context.Context, _ string) (models.MRawQuote, error) {
		<-ctx.Done()
		return models.MRawQuote{}, ctx.Err()
	})
	provider.EXPECT().FetchQuote(gomock.Any(), "AAPL").Return(applePayload(), nil)

	o, st := newOrchestrator(testConfig("SLOW", "AAPL"), provider, nil)
	o.FetchTimeout = 20 * time.Millisecond

	result, err := o.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"SLOW"}, result.Failures)

	slow, ok := st.GetByTicker("SLOW")
	require.True(t, ok)
	require.Equal(t, models.MarketStateUnknown, slow.MarketState)
}

func TestRefreshKeepsSnapshotWhenPersistenceFails(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockIQuoteProvider(ctrl)
	repo := mocks.NewMockIQuoteRepository(ctrl)
	provider.EXPECT().FetchQuote(gomock.Any(), "AAPL").Return(applePayload(), nil)
	repo.EXPECT().ReplaceAll(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	o, st := newOrchestrator(testConfig("AAPL"), provider, repo)

	result, err := o.Refresh(context.Background())

	var storageErr *helpers.StorageError
	require.ErrorAs(t, err, &storageErr)
	require.Equal(t, 1, result.Count)
	require.Equal(t, 1, st.Len())
}

func TestRefreshPublishesSnapshot(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockIQuoteProvider(ctrl)
	publisher := mocks.NewMockISnapshotPublisher(ctrl)
	provider.EXPECT().FetchQuote(gomock.Any(), "AAPL").Return(applePayload(), nil)

	var msg models.MSnapshotMessage
	publisher.EXPECT().Publish(gomock.Any()).Do(func(m models.MSnapshotMessage) { msg = m })

	o, _ := newOrchestrator(testConfig("AAPL"), provider, nil)
	o.SetPublisher(publisher)

	_, err := o.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.SnapshotUpdate, msg.Type)
	require.Equal(t, 1, msg.TotalStocks)
	require.NotEmpty(t, msg.LastUpdated)
}

func TestRefreshIfStaleCollapsesConcurrentCallers(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockIQuoteProvider(ctrl)
	provider.EXPECT().FetchQuote(gomock.Any(), "AAPL").DoAndReturn(func(context.Context, string) (models.MRawQuote, error) {
		time.Sleep(50 * time.Millisecond)
		return applePayload(), nil
	}).Times(1)

	o, st := newOrchestrator(testConfig("AAPL"), provider, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := o.RefreshIfStale(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	require.Equal(t, 1, st.Len())

	ran, err := o.RefreshIfStale(context.Background())
	require.NoError(t, err)
	require.False(t, ran)
}

func TestRestoreLoadsPersistedSnapshot(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockIQuoteProvider(ctrl)
	repo := mocks.NewMockIQuoteRepository(ctrl)
	saved := time.Now().Add(-time.Minute)
	repo.EXPECT().LoadAll(gomock.Any()).Return([]models.MQuote{
		{Ticker: "AAPL", PriceChangePercent: 1, LastUpdated: saved},
		{Ticker: "MSFT", PriceChangePercent: 2, LastUpdated: saved},
	}, nil)

	o, st := newOrchestrator(testConfig("AAPL", "MSFT"), provider, repo)

	n, err := o.Restore(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "MSFT", st.GetAll()[0].Ticker)
	require.True(t, st.LastUpdated().Equal(saved))
}

func TestLatestPriceDelegatesToProvider(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockIQuoteProvider(ctrl)
	provider.EXPECT().FetchLatestPrice(gomock.Any(), "AAPL").Return(191.234, nil)

	o, _ := newOrchestrator(testConfig("AAPL"), provider, nil)

	price, err := o.LatestPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, 191.234, price)
}
