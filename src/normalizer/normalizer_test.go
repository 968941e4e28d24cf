package normalizer

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"stock-screener/src/models"

	"github.com/stretchr/testify/require"
)

var refreshedAt = time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC)

func fullPayload() models.MPayload {
	return models.MPayload{
		KeyCurrentPrice:     190.0,
		KeyPreviousClose:    187.5,
		KeyShortName:        "Apple Inc.",
		KeySector:           "Technology",
		KeyMarketCap:        2_950_000_000_000.0,
		KeyVolume:           48_123_456,
		KeyAverageVolume:    int64(55_000_000),
		KeyDayHigh:          191.234,
		KeyDayLow:           186.777,
		KeyFiftyTwoWeekHigh: 199.62,
		KeyFiftyTwoWeekLow:  164.08,
		KeyTrailingPE:       29.41,
		KeyDividendYield:    0.52,
		KeyBeta:             1.29,
		KeyTrailingEps:      6.43,
		KeyMarketState:      "POST",
	}
}

func TestNormalizeFullPayload(t *testing.T) {
	t.Parallel()

	// Arrange: history wins over the payload's currentPrice.
	q := Normalize("AAPL", fullPayload(), []float64{186.1, 189.984}, refreshedAt)

	require.Equal(t, "AAPL", q.Ticker)
	require.Equal(t, "Apple Inc.", q.Name)
	require.Equal(t, "Technology", q.Sector)
	require.Equal(t, 189.98, q.CurrentPrice)
	require.Equal(t, 187.5, q.PreviousClose)
	require.Equal(t, 2.48, q.PriceChange)
	require.Equal(t, 1.32, q.PriceChangePercent)
	require.True(t, q.IsPositive)
	require.Equal(t, "$2.95T", q.MarketCapDisplay)
	require.Equal(t, "48.12M", q.VolumeDisplay)
	require.Equal(t, "55.00M", q.AvgVolumeDisplay)
	require.Equal(t, 191.23, q.DayHigh)
	require.Equal(t, 186.78, q.DayLow)
	require.Equal(t, 199.62, q.FiftyTwoWeekHigh)
	require.Equal(t, 164.08, q.FiftyTwoWeekLow)
	require.Equal(t, models.Some(29.41), q.PERatio)
	require.Equal(t, models.Some(0.52), q.DividendYield)
	require.Equal(t, models.Some(1.29), q.Beta)
	require.Equal(t, models.Some(6.43), q.EPS)
	require.Equal(t, PlaceholderRSI, q.RSI)
	require.Equal(t, models.MarketStatePost, q.MarketState)
	require.True(t, q.LastUpdated.Equal(refreshedAt))
}

func TestNormalizeRoundsRatios(t *testing.T) {
	t.Parallel()

	payload := fullPayload()
	payload[KeyTrailingPE] = 28.45678
	payload[KeyDividendYield] = 0.5178
	payload[KeyBeta] = 1.23456
	payload[KeyTrailingEps] = 6.4321

	q := Normalize("AAPL", payload, nil, refreshedAt)

	require.Equal(t, models.Some(28.46), q.PERatio)
	require.Equal(t, models.Some(0.52), q.DividendYield)
	require.Equal(t, models.Some(1.23), q.Beta)
	require.Equal(t, models.Some(6.43), q.EPS)
}

func TestNormalizeUsesPayloadPriceWithoutHistory(t *testing.T) {
	t.Parallel()

	q := Normalize("AAPL", fullPayload(), nil, refreshedAt)
	require.Equal(t, 190.0, q.CurrentPrice)
	require.Equal(t, 2.5, q.PriceChange)
}

func TestNormalizeMissingPreviousCloseYieldsZeroChange(t *testing.T) {
	t.Parallel()

	payloads := []models.MPayload{
		{KeyCurrentPrice: 42.0},
		{KeyCurrentPrice: 42.0, KeyPreviousClose: nil},
		{KeyCurrentPrice: 42.0, KeyPreviousClose: "n/a"},
		{KeyCurrentPrice: 42.0, KeyPreviousClose: math.NaN()},
	}
	for _, p := range payloads {
		q := Normalize("X", p, []float64{10.5}, refreshedAt)
		require.Equal(t, 10.5, q.PreviousClose)
		require.Zero(t, q.PriceChange)
		require.Zero(t, q.PriceChangePercent)
		require.False(t, q.IsPositive)
	}
}

func TestNormalizeZeroPreviousCloseGuardsDivision(t *testing.T) {
	t.Parallel()

	q := Normalize("X", models.MPayload{KeyPreviousClose: 0.0}, []float64{12.0}, refreshedAt)
	require.Equal(t, 12.0, q.PriceChange)
	require.Zero(t, q.PriceChangePercent)
	require.True(t, q.IsPositive)
	require.False(t, math.IsNaN(q.PriceChangePercent) || math.IsInf(q.PriceChangePercent, 0))
}

func TestNormalizeEmptyPayload(t *testing.T) {
	t.Parallel()

	q := Normalize("TCS.NS", models.MPayload{}, nil, refreshedAt)

	require.Equal(t, "TCS.NS", q.Name)
	require.Equal(t, DefaultSector, q.Sector)
	require.Zero(t, q.CurrentPrice)
	require.Zero(t, q.PriceChangePercent)
	require.Equal(t, "N/A", q.MarketCapDisplay)
	require.Equal(t, "N/A", q.VolumeDisplay)
	require.Equal(t, "N/A", q.AvgVolumeDisplay)
	require.Equal(t, models.MarketStateRegular, q.MarketState)

	// Ranges default to zero; ratios stay absent.
	require.Zero(t, q.DayHigh)
	require.Zero(t, q.FiftyTwoWeekLow)
	require.False(t, q.PERatio.Valid)
	require.False(t, q.DividendYield.Valid)
	require.False(t, q.Beta.Valid)
	require.False(t, q.EPS.Valid)
}

func TestNormalizeNegativeMove(t *testing.T) {
	t.Parallel()

	q := Normalize("INTC", models.MPayload{KeyPreviousClose: 40.0}, []float64{38.0}, refreshedAt)
	require.Equal(t, -2.0, q.PriceChange)
	require.Equal(t, -5.0, q.PriceChangePercent)
	require.False(t, q.IsPositive)
}

func TestNormalizeAcceptsJSONNumbers(t *testing.T) {
	t.Parallel()

	q := Normalize("AMD", models.MPayload{
		KeyPreviousClose: json.Number("100"),
		KeyTrailingPE:    json.Number("45.5"),
	}, []float64{101}, refreshedAt)
	require.Equal(t, 1.0, q.PriceChangePercent)
	require.Equal(t, models.Some(45.5), q.PERatio)
}

func TestPriceChangeMatchesStoredPrices(t *testing.T) {
	t.Parallel()

	q := Normalize("NVDA", models.MPayload{KeyPreviousClose: 875.333}, []float64{901.117}, refreshedAt)
	require.InDelta(t, q.CurrentPrice-q.PreviousClose, q.PriceChange, 1e-9)
	require.Equal(t, q.PriceChange > 0, q.IsPositive)
}

func TestPlaceholder(t *testing.T) {
	t.Parallel()

	q := Placeholder("BADTICKER", refreshedAt)

	require.Equal(t, "BADTICKER", q.Ticker)
	require.Equal(t, "BADTICKER", q.Name)
	require.Equal(t, models.MarketStateUnknown, q.MarketState)
	require.False(t, q.IsPositive)
	require.Zero(t, q.CurrentPrice)
	require.Zero(t, q.PreviousClose)
	require.Zero(t, q.PriceChange)
	require.Zero(t, q.PriceChangePercent)
	require.Zero(t, q.DayHigh)
	require.Zero(t, q.DayLow)
	require.Zero(t, q.FiftyTwoWeekHigh)
	require.Zero(t, q.FiftyTwoWeekLow)
	require.False(t, q.PERatio.Valid)
	require.Equal(t, "N/A", q.MarketCapDisplay)
}

func TestChangePercent(t *testing.T) {
	t.Parallel()

	require.Zero(t, ChangePercent(5, 0))
	require.Equal(t, 10.0, ChangePercent(5, 50))
}
