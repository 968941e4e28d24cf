// Package normalizer maps raw provider payloads onto models.MQuote.
//
// Every field has a defined fallback, so normalization itself never fails.
// Day and 52-week ranges fall back to 0 because the page renders them as
// ranges; the ratios (P/E, dividend yield, beta, EPS) stay absent because a 0
// ratio would be misleading.
package normalizer

import (
	"time"

	"stock-screener/src/formatter"
	"stock-screener/src/models"
)

// PlaceholderRSI is stored on every quote. No indicator is computed.
const PlaceholderRSI = 50.0

// DefaultSector is used when the provider reports none.
const DefaultSector = "N/A"

// Payload keys understood by Normalize.
const (
	KeyCurrentPrice     = "currentPrice"
	KeyPreviousClose    = "previousClose"
	KeyShortName        = "shortName"
	KeySector           = "sector"
	KeyMarketCap        = "marketCap"
	KeyVolume           = "volume"
	KeyAverageVolume    = "averageVolume"
	KeyDayHigh          = "dayHigh"
	KeyDayLow           = "dayLow"
	KeyFiftyTwoWeekHigh = "fiftyTwoWeekHigh"
	KeyFiftyTwoWeekLow  = "fiftyTwoWeekLow"
	KeyTrailingPE       = "trailingPE"
	KeyDividendYield    = "dividendYield"
	KeyBeta             = "beta"
	KeyTrailingEps      = "trailingEps"
	KeyMarketState      = "marketState"
)

// -----------------------------------------------------------------------------

// Normalize builds a quote for ticker from the provider payload and recent
// close history (most recent last). updatedAt becomes LastUpdated.
func Normalize(ticker string, payload models.MPayload, history []float64, updatedAt time.Time) models.MQuote {
	currentPrice := formatter.Round2(resolveCurrentPrice(payload, history))
	previousClose := currentPrice
	if pc, ok := payload.Float(KeyPreviousClose).Get(); ok {
		previousClose = formatter.Round2(pc)
	}

	// Change is derived from the stored (rounded) prices so the record is
	// self-consistent: PriceChange == CurrentPrice - PreviousClose.
	priceChange := formatter.Round2(currentPrice - previousClose)
	priceChangePercent := formatter.Round2(ChangePercent(priceChange, previousClose))

	name, ok := payload.String(KeyShortName)
	if !ok {
		name = ticker
	}
	sector, ok := payload.String(KeySector)
	if !ok {
		sector = DefaultSector
	}
	state := models.MarketStateRegular
	if s, ok := payload.String(KeyMarketState); ok {
		state = models.MMarketState(s)
	}

	return models.MQuote{
		Ticker:             ticker,
		Name:               name,
		Sector:             sector,
		CurrentPrice:       currentPrice,
		PreviousClose:      previousClose,
		PriceChange:        priceChange,
		PriceChangePercent: priceChangePercent,
		MarketCapDisplay:   formatter.FormatMagnitude(payload.Float(KeyMarketCap)),
		VolumeDisplay:      formatter.FormatVolume(payload.Float(KeyVolume)),
		AvgVolumeDisplay:   formatter.FormatVolume(payload.Float(KeyAverageVolume)),
		DayHigh:            formatter.Round2(payload.Float(KeyDayHigh).OrElse(0)),
		DayLow:             formatter.Round2(payload.Float(KeyDayLow).OrElse(0)),
		FiftyTwoWeekHigh:   formatter.Round2(payload.Float(KeyFiftyTwoWeekHigh).OrElse(0)),
		FiftyTwoWeekLow:    formatter.Round2(payload.Float(KeyFiftyTwoWeekLow).OrElse(0)),
		PERatio:            roundRatio(payload.Float(KeyTrailingPE)),
		DividendYield:      roundRatio(payload.Float(KeyDividendYield)),
		Beta:               roundRatio(payload.Float(KeyBeta)),
		EPS:                roundRatio(payload.Float(KeyTrailingEps)),
		RSI:                PlaceholderRSI,
		IsPositive:         priceChange > 0,
		MarketState:        state,
		LastUpdated:        updatedAt,
	}
}

// -----------------------------------------------------------------------------

// Placeholder is the quote stored for a ticker whose fetch failed.
func Placeholder(ticker string, updatedAt time.Time) models.MQuote {
	return models.MQuote{
		Ticker:           ticker,
		Name:             ticker,
		Sector:           DefaultSector,
		MarketCapDisplay: formatter.NotAvailable,
		VolumeDisplay:    formatter.NotAvailable,
		AvgVolumeDisplay: formatter.NotAvailable,
		RSI:              PlaceholderRSI,
		IsPositive:       false,
		MarketState:      models.MarketStateUnknown,
		LastUpdated:      updatedAt,
	}
}

// -----------------------------------------------------------------------------

// ChangePercent is change/base*100, or 0 when base is 0.
func ChangePercent(change, base float64) float64 {
	if base == 0 {
		return 0
	}
	return change / base * 100
}

func resolveCurrentPrice(payload models.MPayload, history []float64) float64 {
	if len(history) > 0 {
		if last := models.Some(history[len(history)-1]); last.Valid {
			return last.Float64
		}
	}
	return payload.Float(KeyCurrentPrice).OrElse(0)
}

// roundRatio rounds a present ratio and keeps an absent one absent.
func roundRatio(v models.MOptionalFloat) models.MOptionalFloat {
	f, ok := v.Get()
	if !ok {
		return v
	}
	return models.Some(formatter.Round2(f))
}
