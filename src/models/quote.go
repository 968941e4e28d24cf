package models

import "time"

// MMarketState is the trading session reported by the provider.
type MMarketState string

const (
	MarketStateRegular  MMarketState = "REGULAR"
	MarketStatePre      MMarketState = "PRE"
	MarketStatePost     MMarketState = "POST"
	MarketStateClosed   MMarketState = "CLOSED"
	MarketStateUnknown  MMarketState = "UNKNOWN"
	MarketStatePrePre   MMarketState = "PREPRE"
	MarketStatePostPost MMarketState = "POSTPOST"
)

// MQuote is the normalized snapshot of one ticker, the unit of storage and transfer.
type MQuote struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Sector string `json:"sector"`

	// Price information (rounded to 2dp at normalization time)
	CurrentPrice       float64 `json:"current_price"`
	PreviousClose      float64 `json:"previous_close"`
	PriceChange        float64 `json:"price_change"`
	PriceChangePercent float64 `json:"price_change_percent"`

	// Pre-formatted display strings
	MarketCapDisplay string `json:"market_cap"`
	VolumeDisplay    string `json:"volume"`
	AvgVolumeDisplay string `json:"avg_volume"`

	// Trading range, 0 when unknown
	DayHigh          float64 `json:"day_high"`
	DayLow           float64 `json:"day_low"`
	FiftyTwoWeekHigh float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  float64 `json:"fifty_two_week_low"`

	// Financial ratios, absent when unknown
	PERatio       MOptionalFloat `json:"pe_ratio"`
	DividendYield MOptionalFloat `json:"dividend_yield"`
	Beta          MOptionalFloat `json:"beta"`
	EPS           MOptionalFloat `json:"eps"`

	RSI         float64      `json:"rsi"`
	IsPositive  bool         `json:"is_positive"`
	MarketState MMarketState `json:"market_state"`
	LastUpdated time.Time    `json:"last_updated"`
}
