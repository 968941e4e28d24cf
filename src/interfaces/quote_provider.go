package interfaces

//go:generate mockgen -destination=mocks/mock_quote_provider.go -package=mocks -source=quote_provider.go

import (
	"context"

	"stock-screener/src/models"
)

// -----------------------------------------------------------------------------
// IQuoteProvider fetches raw quote data for a single ticker from a market
// data source.
// -----------------------------------------------------------------------------

type IQuoteProvider interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchQuote returns the raw key/value payload and the recent daily closes
	// for ticker. Any error means the ticker gets a placeholder record.
	FetchQuote(ctx context.Context, ticker string) (models.MRawQuote, error)

	// -----------------------------------------------------------------------------

	// FetchLatestPrice returns the most recent traded price. When the source
	// has no data at all it returns an error wrapping helpers.ErrNoData.
	FetchLatestPrice(ctx context.Context, ticker string) (float64, error)
}
