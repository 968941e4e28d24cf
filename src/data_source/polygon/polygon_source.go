package polygon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"stock-screener/src/helpers"
	"stock-screener/src/logger"
	"stock-screener/src/models"
	"stock-screener/src/normalizer"

	polygonrest "github.com/polygon-io/client-go/rest"
	restModels "github.com/polygon-io/client-go/rest/models"
)

// historyDays is how far back daily bars are requested; weekends and
// holidays mean fewer bars come back.
const historyDays = 7

type PolygonSource struct {
	SourceConfig models.MSourceConfig
	Client       *polygonrest.Client
	Logger       *logger.Logger
	now          func() time.Time
}

// -----------------------------------------------------------------------------

func NewPolygonSource(sourceCfg models.MSourceConfig, log *logger.Logger) (*PolygonSource, error) {
	if strings.TrimSpace(sourceCfg.APIKey) == "" {
		return nil, helpers.NewConfigurationError("polygon source %q needs an api_key", sourceCfg.Name)
	}
	if sourceCfg.Name == "" {
		sourceCfg.Name = "polygon"
	}
	return &PolygonSource{
		SourceConfig: sourceCfg,
		Client:       polygonrest.New(sourceCfg.APIKey),
		Logger:       log.Named("PolygonSource-" + sourceCfg.Name),
		now:          time.Now,
	}, nil
}

// -----------------------------------------------------------------------------

func (s *PolygonSource) Name() string {
	return s.SourceConfig.Name
}

// -----------------------------------------------------------------------------

// FetchQuote combines the previous-day aggregate, a week of daily bars and
// the ticker reference details.
func (s *PolygonSource) FetchQuote(ctx context.Context, ticker string) (models.MRawQuote, error) {
	prev, err := s.previousClose(ctx, ticker)
	if err != nil {
		return models.MRawQuote{}, helpers.NewProviderError(s.Name(), ticker, err)
	}

	bars, err := s.dailyBars(ctx, ticker)
	if err != nil {
		s.Logger.Warning("Daily bars unavailable for %s: %v", ticker, err)
	}

	var details *restModels.Ticker
	res, err := s.Client.GetTickerDetails(ctx, &restModels.GetTickerDetailsParams{Ticker: ticker})
	if err != nil {
		s.Logger.Debug("Ticker details unavailable for %s: %v", ticker, err)
	} else {
		details = &res.Results
	}

	history := closesOf(bars)
	return models.MRawQuote{
		Ticker:  ticker,
		Payload: buildPayload(prev, details, bars),
		History: history,
	}, nil
}

// -----------------------------------------------------------------------------

// FetchLatestPrice returns the close of the most recent minute bar of the
// last day.
func (s *PolygonSource) FetchLatestPrice(ctx context.Context, ticker string) (float64, error) {
	order := restModels.Desc
	limit := 1
	now := s.now()
	params := &restModels.ListAggsParams{
		Ticker:     ticker,
		Multiplier: 1,
		Timespan:   restModels.Minute,
		From:       restModels.Millis(now.Add(-24 * time.Hour)),
		To:         restModels.Millis(now),
		Order:      &order,
		Limit:      &limit,
	}

	iter := s.Client.ListAggs(ctx, params)
	if iter.Next() {
		return iter.Item().Close, nil
	}
	if err := iter.Err(); err != nil {
		if isNotFound(err) {
			return 0, &helpers.NoDataError{Ticker: ticker}
		}
		return 0, helpers.NewProviderError(s.Name(), ticker, err)
	}
	return 0, &helpers.NoDataError{Ticker: ticker}
}

// -----------------------------------------------------------------------------

func (s *PolygonSource) previousClose(ctx context.Context, ticker string) (*restModels.Agg, error) {
	res, err := s.Client.GetPreviousCloseAgg(ctx, &restModels.GetPreviousCloseAggParams{Ticker: ticker})
	if err != nil {
		if isNotFound(err) {
			return nil, &helpers.NoDataError{Ticker: ticker}
		}
		return nil, fmt.Errorf("previous close: %w", err)
	}
	if len(res.Results) == 0 {
		return nil, &helpers.NoDataError{Ticker: ticker}
	}
	return &res.Results[0], nil
}

// -----------------------------------------------------------------------------

func (s *PolygonSource) dailyBars(ctx context.Context, ticker string) ([]restModels.Agg, error) {
	order := restModels.Asc
	now := s.now()
	params := &restModels.ListAggsParams{
		Ticker:     ticker,
		Multiplier: 1,
		Timespan:   restModels.Day,
		From:       restModels.Millis(now.AddDate(0, 0, -historyDays)),
		To:         restModels.Millis(now),
		Order:      &order,
	}

	var bars []restModels.Agg
	iter := s.Client.ListAggs(ctx, params)
	for iter.Next() {
		bars = append(bars, iter.Item())
	}
	return bars, iter.Err()
}

// -----------------------------------------------------------------------------

func isNotFound(err error) bool {
	var apiErr *restModels.ErrorResponse
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func closesOf(bars []restModels.Agg) []float64 {
	out := make([]float64, 0, len(bars))
	for _, b := range bars {
		if b.Close > 0 {
			out = append(out, b.Close)
		}
	}
	return out
}

// -----------------------------------------------------------------------------

// buildPayload maps Polygon aggregates and reference data onto the
// normalizer keys. Zero values from the API are treated as missing.
func buildPayload(prev *restModels.Agg, details *restModels.Ticker, bars []restModels.Agg) models.MPayload {
	p := models.MPayload{}
	setPositive := func(key string, v float64) {
		if v > 0 {
			p[key] = v
		}
	}

	// The latest daily bar is today's session when the market has traded;
	// otherwise the previous-close aggregate is the latest price.
	latest := *prev
	previous := 0.0
	if n := len(bars); n > 0 {
		latest = bars[n-1]
		if n >= 2 {
			previous = bars[n-2].Close
		}
	}
	if previous == 0 && !time.Time(latest.Timestamp).Equal(time.Time(prev.Timestamp)) {
		previous = prev.Close
	}

	setPositive(normalizer.KeyCurrentPrice, latest.Close)
	setPositive(normalizer.KeyPreviousClose, previous)
	setPositive(normalizer.KeyDayHigh, latest.High)
	setPositive(normalizer.KeyDayLow, latest.Low)
	setPositive(normalizer.KeyVolume, latest.Volume)

	if len(bars) > 0 {
		volume := 0.0
		for _, b := range bars {
			volume += b.Volume
		}
		setPositive(normalizer.KeyAverageVolume, volume/float64(len(bars)))
	}

	if details != nil {
		if strings.TrimSpace(details.Name) != "" {
			p[normalizer.KeyShortName] = details.Name
		}
		if strings.TrimSpace(details.SICDescription) != "" {
			p[normalizer.KeySector] = details.SICDescription
		}
		setPositive(normalizer.KeyMarketCap, details.MarketCap)
	}

	return p
}
