package datasource

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock-screener/src/helpers"
	"stock-screener/src/interfaces"
	"stock-screener/src/interfaces/mocks"
	"stock-screener/src/logger"
	"stock-screener/src/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/time/rate"
)

func quietLogger() *logger.Logger {
	return logger.NewLogger(&models.MConfig{LogLevel: "CRITICAL"}, "Test")
}

func namedMock(ctrl *gomock.Controller, name string) *mocks.MockIQuoteProvider {
	m := mocks.NewMockIQuoteProvider(ctrl)
	m.EXPECT().Name().Return(name).AnyTimes()
	return m
}

func TestMultiSourceManagerFallsBackInOrder(t *testing.T) {
	t.Parallel()

	// Arrange
	ctrl := gomock.NewController(t)
	primary := namedMock(ctrl, "yahoo")
	secondary := namedMock(ctrl, "polygon")
	want := models.MRawQuote{Ticker: "AAPL", Payload: models.MPayload{"currentPrice": 190.0}}

	gomock.InOrder(
		primary.EXPECT().FetchQuote(gomock.Any(), "AAPL").Return(models.MRawQuote{}, errors.New("timeout")),
		secondary.EXPECT().FetchQuote(gomock.Any(), "AAPL").Return(want, nil),
	)

	m := NewMultiSourceManager([]interfaces.IQuoteProvider{primary, secondary}, quietLogger())

	// Act
	got, err := m.FetchQuote(context.Background(), "AAPL")

	// Assert
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestMultiSourceManagerStopsAtFirstSuccess(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	primary := namedMock(ctrl, "yahoo")
	secondary := namedMock(ctrl, "polygon")
	primary.EXPECT().FetchLatestPrice(gomock.Any(), "MSFT").Return(411.2, nil)

	m := NewMultiSourceManager([]interfaces.IQuoteProvider{primary, secondary}, quietLogger())

	price, err := m.FetchLatestPrice(context.Background(), "MSFT")
	require.NoError(t, err)
	require.Equal(t, 411.2, price)
}

func TestMultiSourceManagerNoDataOnlyWhenEverySourceHasNone(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	primary := namedMock(ctrl, "yahoo")
	secondary := namedMock(ctrl, "polygon")
	primary.EXPECT().FetchLatestPrice(gomock.Any(), "ZZZZ").Return(0.0, &helpers.NoDataError{Ticker: "ZZZZ"}).Times(2)
	secondary.EXPECT().FetchLatestPrice(gomock.Any(), "ZZZZ").Return(0.0, &helpers.NoDataError{Ticker: "ZZZZ"})
	secondary.EXPECT().FetchLatestPrice(gomock.Any(), "ZZZZ").Return(0.0, errors.New("503"))

	m := NewMultiSourceManager([]interfaces.IQuoteProvider{primary, secondary}, quietLogger())

	_, err := m.FetchLatestPrice(context.Background(), "ZZZZ")
	require.ErrorIs(t, err, helpers.ErrNoData)

	_, err = m.FetchLatestPrice(context.Background(), "ZZZZ")
	require.Error(t, err)
	require.NotErrorIs(t, err, helpers.ErrNoData)
	require.ErrorContains(t, err, "503")
}

func TestMultiSourceManagerSourceBookkeeping(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	a := namedMock(ctrl, "a")
	b := namedMock(ctrl, "b")

	m := NewMultiSourceManager([]interfaces.IQuoteProvider{a}, quietLogger())
	require.NoError(t, m.AddSource(b))
	require.Error(t, m.AddSource(b))
	require.Len(t, m.GetAllSources(), 2)

	require.NoError(t, m.RemoveSource("a"))
	require.Error(t, m.RemoveSource("a"))

	got, err := m.GetSource("b")
	require.NoError(t, err)
	require.Equal(t, "b", got.Name())
	require.Equal(t, []interfaces.IQuoteProvider{b}, m.GetAllSources())

	require.NoError(t, m.RemoveSource("b"))
	_, err = m.FetchQuote(context.Background(), "AAPL")
	var cfgErr *helpers.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestRateLimitedProviderAllowsBurstThenWaits(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	inner := namedMock(ctrl, "yahoo")
	inner.EXPECT().FetchLatestPrice(gomock.Any(), "AAPL").Return(190.0, nil).Times(2)

	// one call per minute, burst of two
	p := NewRateLimitedProvider(inner, 1, 2)
	ctx := context.Background()

	start := time.Now()
	_, err := p.FetchLatestPrice(ctx, "AAPL")
	require.NoError(t, err)
	_, err = p.FetchLatestPrice(ctx, "AAPL")
	require.NoError(t, err)
	require.Less(t, time.Since(start), time.Second)

	// the bucket is empty and the next token is a minute away
	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = p.FetchLatestPrice(short, "AAPL")
	require.Error(t, err)
}

func TestRateLimitedProviderWithoutLimit(t *testing.T) {
	t.Parallel()

	p := NewRateLimitedProvider(namedMock(gomock.NewController(t), "yahoo"), 0, 0)
	require.Equal(t, rate.Inf, p.Limiter.Limit())
	require.Equal(t, 1, p.Limiter.Burst())
}

func TestRateLimitedProviderDelegates(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	inner := namedMock(ctrl, "yahoo")
	inner.EXPECT().FetchQuote(gomock.Any(), "AAPL").Return(models.MRawQuote{Ticker: "AAPL"}, nil)
	inner.EXPECT().FetchLatestPrice(gomock.Any(), "AAPL").Return(190.0, nil)

	p := NewRateLimitedProvider(inner, 6000, 5)
	require.Equal(t, "yahoo", p.Name())

	raw, err := p.FetchQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, "AAPL", raw.Ticker)

	price, err := p.FetchLatestPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, 190.0, price)
}

func TestNewQuoteProviderFromConfig(t *testing.T) {
	t.Parallel()

	cfg := &models.MConfig{DataSource: models.MDataSourceConfig{Sources: []models.MSourceConfig{
		{Name: "yahoo", MaxRequestsPerMinute: 120, Burst: 5},
		{Name: "polygon", APIKey: "test-key"},
	}}}

	m, err := NewQuoteProvider(cfg, nil, quietLogger())
	require.NoError(t, err)

	sources := m.GetAllSources()
	require.Len(t, sources, 2)
	require.IsType(t, &RateLimitedProvider{}, sources[0])
	require.Equal(t, "polygon", sources[1].Name())

	cfg.DataSource.Sources = []models.MSourceConfig{{Name: "bloomberg"}}
	_, err = NewQuoteProvider(cfg, nil, quietLogger())
	var cfgErr *helpers.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}
