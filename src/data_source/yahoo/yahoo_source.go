package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"stock-screener/src/helpers"
	"stock-screener/src/interfaces"
	"stock-screener/src/logger"
	"stock-screener/src/models"
	"stock-screener/src/normalizer"
)

const DefaultBaseURL = "https://query1.finance.yahoo.com"

// DefaultSummaryTimeout bounds the optional quote endpoint call.
const DefaultSummaryTimeout = 3 * time.Second

type YahooFinanceSource struct {
	Config         *models.MConfig
	SourceConfig   models.MSourceConfig
	Network        interfaces.INetworkManager
	Logger         *logger.Logger
	BaseURL        string
	SummaryTimeout time.Duration
}

// -----------------------------------------------------------------------------

func NewYahooFinanceSource(cfg *models.MConfig, sourceCfg models.MSourceConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *YahooFinanceSource {
	if sourceCfg.Name == "" {
		sourceCfg.Name = "yahoo"
	}
	return &YahooFinanceSource{
		Config:         cfg,
		SourceConfig:   sourceCfg,
		Network:        netMgr,
		Logger:         log.Named("YahooFinanceSource-" + sourceCfg.Name),
		BaseURL:        DefaultBaseURL,
		SummaryTimeout: DefaultSummaryTimeout,
	}
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) Name() string {
	return s.SourceConfig.Name
}

// -----------------------------------------------------------------------------

// FetchQuote reads two days of daily bars plus the chart meta block, then
// enriches the payload from the quote endpoint when it answers.
func (s *YahooFinanceSource) FetchQuote(ctx context.Context, ticker string) (models.MRawQuote, error) {
	chart, err := s.fetchChart(ctx, ticker, "2d", "1d")
	if err != nil {
		return models.MRawQuote{}, helpers.NewProviderError(s.Name(), ticker, err)
	}

	var summary *quoteResult
	if q, err := s.fetchQuoteSummary(ctx, ticker); err != nil {
		s.Logger.Debug("Quote endpoint unavailable for %s: %v", ticker, err)
	} else {
		summary = q
	}

	history := chart.closes()
	return models.MRawQuote{
		Ticker:  ticker,
		Payload: buildPayload(chart, summary, history),
		History: history,
	}, nil
}

// -----------------------------------------------------------------------------

// FetchLatestPrice returns the last non-null one-minute close of the day.
func (s *YahooFinanceSource) FetchLatestPrice(ctx context.Context, ticker string) (float64, error) {
	chart, err := s.fetchChart(ctx, ticker, "1d", "1m")
	if err != nil {
		if errors.Is(err, helpers.ErrNoData) {
			return 0, err
		}
		return 0, helpers.NewProviderError(s.Name(), ticker, err)
	}

	closes := chart.closes()
	if len(closes) == 0 {
		return 0, &helpers.NoDataError{Ticker: ticker}
	}
	return closes[len(closes)-1], nil
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) fetchChart(ctx context.Context, ticker, rangeStr, interval string) (*chartResult, error) {
	params := map[string]string{
		"interval":       interval,
		"range":          rangeStr,
		"includePrePost": "false",
	}
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", s.BaseURL, url.PathEscape(ticker))

	respBytes, err := s.Network.Get(ctx, endpoint, params)
	if err != nil {
		if errors.Is(err, helpers.ErrNoData) {
			return nil, &helpers.NoDataError{Ticker: ticker}
		}
		return nil, fmt.Errorf("network error for %s: %w", ticker, err)
	}
	return parseChartResponse(ticker, respBytes)
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) fetchQuoteSummary(ctx context.Context, ticker string) (*quoteResult, error) {
	if s.SummaryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.SummaryTimeout)
		defer cancel()
	}

	endpoint := s.BaseURL + "/v7/finance/quote"
	respBytes, err := s.Network.Get(ctx, endpoint, map[string]string{"symbols": ticker})
	if err != nil {
		return nil, err
	}
	return parseQuoteResponse(ticker, respBytes)
}

// -----------------------------------------------------------------------------

type YahooChartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *yahooError   `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Symbol               string   `json:"symbol"`
		Currency             string   `json:"currency"`
		ExchangeName         string   `json:"exchangeName"`
		ShortName            string   `json:"shortName"`
		LongName             string   `json:"longName"`
		RegularMarketPrice   *float64 `json:"regularMarketPrice"`
		ChartPreviousClose   *float64 `json:"chartPreviousClose"`
		RegularMarketDayHigh *float64 `json:"regularMarketDayHigh"`
		RegularMarketDayLow  *float64 `json:"regularMarketDayLow"`
		RegularMarketVolume  *float64 `json:"regularMarketVolume"`
		FiftyTwoWeekHigh     *float64 `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow      *float64 `json:"fiftyTwoWeekLow"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close  []*float64 `json:"close"` // null for bars without trades
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// closes returns the non-null closes in bar order.
func (c *chartResult) closes() []float64 {
	if len(c.Indicators.Quote) == 0 {
		return nil
	}
	var out []float64
	for _, v := range c.Indicators.Quote[0].Close {
		if p := models.FromPtr(v); p.Valid {
			out = append(out, p.Float64)
		}
	}
	return out
}

// -----------------------------------------------------------------------------

func parseChartResponse(ticker string, data []byte) (*chartResult, error) {
	var resp YahooChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	if e := resp.Chart.Error; e != nil {
		if strings.EqualFold(e.Code, "Not Found") {
			return nil, &helpers.NoDataError{Ticker: ticker}
		}
		return nil, fmt.Errorf("yahoo api error: %s - %s", e.Code, e.Description)
	}

	if len(resp.Chart.Result) == 0 {
		return nil, &helpers.NoDataError{Ticker: ticker}
	}
	return &resp.Chart.Result[0], nil
}

// -----------------------------------------------------------------------------

type YahooQuoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
		Error  *yahooError   `json:"error"`
	} `json:"quoteResponse"`
}

type quoteResult struct {
	Symbol                      string   `json:"symbol"`
	ShortName                   string   `json:"shortName"`
	LongName                    string   `json:"longName"`
	MarketState                 string   `json:"marketState"`
	RegularMarketPrice          *float64 `json:"regularMarketPrice"`
	RegularMarketPreviousClose  *float64 `json:"regularMarketPreviousClose"`
	RegularMarketVolume         *float64 `json:"regularMarketVolume"`
	RegularMarketDayHigh        *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow         *float64 `json:"regularMarketDayLow"`
	AverageDailyVolume3Month    *float64 `json:"averageDailyVolume3Month"`
	FiftyTwoWeekHigh            *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow             *float64 `json:"fiftyTwoWeekLow"`
	MarketCap                   *float64 `json:"marketCap"`
	TrailingPE                  *float64 `json:"trailingPE"`
	TrailingAnnualDividendYield *float64 `json:"trailingAnnualDividendYield"`
	DividendYield               *float64 `json:"dividendYield"`
	EpsTrailingTwelveMonths     *float64 `json:"epsTrailingTwelveMonths"`
	Beta                        *float64 `json:"beta"`
}

func parseQuoteResponse(ticker string, data []byte) (*quoteResult, error) {
	var resp YahooQuoteResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}
	if e := resp.QuoteResponse.Error; e != nil {
		return nil, fmt.Errorf("yahoo api error: %s - %s", e.Code, e.Description)
	}
	for i := range resp.QuoteResponse.Result {
		if strings.EqualFold(resp.QuoteResponse.Result[i].Symbol, ticker) {
			return &resp.QuoteResponse.Result[i], nil
		}
	}
	return nil, &helpers.NoDataError{Ticker: ticker}
}

// -----------------------------------------------------------------------------

// buildPayload maps Yahoo field names onto the normalizer keys. Quote
// endpoint values win over chart meta values where both exist.
func buildPayload(chart *chartResult, summary *quoteResult, history []float64) models.MPayload {
	p := models.MPayload{}
	set := func(key string, vals ...*float64) {
		for _, v := range vals {
			if f := models.FromPtr(v); f.Valid {
				p[key] = f.Float64
				return
			}
		}
	}
	setString := func(key string, vals ...string) {
		for _, v := range vals {
			if strings.TrimSpace(v) != "" {
				p[key] = v
				return
			}
		}
	}

	meta := chart.Meta
	var prevFromHistory *float64
	if len(history) >= 2 {
		prevFromHistory = &history[len(history)-2]
	}

	if summary == nil {
		summary = &quoteResult{}
	}

	set(normalizer.KeyCurrentPrice, summary.RegularMarketPrice, meta.RegularMarketPrice)
	set(normalizer.KeyPreviousClose, summary.RegularMarketPreviousClose, prevFromHistory, meta.ChartPreviousClose)
	set(normalizer.KeyDayHigh, summary.RegularMarketDayHigh, meta.RegularMarketDayHigh)
	set(normalizer.KeyDayLow, summary.RegularMarketDayLow, meta.RegularMarketDayLow)
	set(normalizer.KeyFiftyTwoWeekHigh, summary.FiftyTwoWeekHigh, meta.FiftyTwoWeekHigh)
	set(normalizer.KeyFiftyTwoWeekLow, summary.FiftyTwoWeekLow, meta.FiftyTwoWeekLow)
	set(normalizer.KeyVolume, summary.RegularMarketVolume, meta.RegularMarketVolume)
	set(normalizer.KeyAverageVolume, summary.AverageDailyVolume3Month)
	set(normalizer.KeyMarketCap, summary.MarketCap)
	set(normalizer.KeyTrailingPE, summary.TrailingPE)
	set(normalizer.KeyDividendYield, summary.DividendYield, summary.TrailingAnnualDividendYield)
	set(normalizer.KeyTrailingEps, summary.EpsTrailingTwelveMonths)
	set(normalizer.KeyBeta, summary.Beta)
	setString(normalizer.KeyShortName, summary.ShortName, summary.LongName, meta.ShortName, meta.LongName)
	setString(normalizer.KeyMarketState, summary.MarketState)

	return p
}
