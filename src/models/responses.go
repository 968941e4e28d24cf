package models

import "time"

// TimestampLayout is the display format used by the JSON endpoints.
const TimestampLayout = "2006-01-02 15:04:05"

// MStocksResponse is the body of /stocks.json.
type MStocksResponse struct {
	LastUpdated string   `json:"last_updated"`
	Stocks      []MQuote `json:"stocks"`
	TotalStocks int      `json:"total_stocks"`
}

// MRealTimePrice is the body of /realtime/:ticker/.
type MRealTimePrice struct {
	Ticker       string  `json:"ticker"`
	CurrentPrice float64 `json:"current_price"`
	Timestamp    string  `json:"timestamp"`
}

// MErrorResponse is returned by endpoints that surface provider errors.
type MErrorResponse struct {
	Error string `json:"error"`
}

// MRefreshResult summarizes one refresh cycle.
type MRefreshResult struct {
	Count       int           `json:"count"`
	Failures    []string      `json:"failures"`
	LastUpdated time.Time     `json:"last_updated"`
	Duration    time.Duration `json:"duration"`
}

// FormatTimestamp renders t with TimestampLayout; the zero time renders empty.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}

// NewStocksResponse wraps an ordered quote list for /stocks.json.
func NewStocksResponse(quotes []MQuote, lastUpdated time.Time) MStocksResponse {
	if quotes == nil {
		quotes = []MQuote{}
	}
	return MStocksResponse{
		LastUpdated: FormatTimestamp(lastUpdated),
		Stocks:      quotes,
		TotalStocks: len(quotes),
	}
}
