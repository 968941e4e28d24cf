package interfaces

//go:generate mockgen -destination=mocks/mock_quote_repository.go -package=mocks -source=quote_repository.go

import (
	"context"

	"stock-screener/src/models"
)

// -----------------------------------------------------------------------------
// IQuoteRepository defines the contract for persisting the latest quote set.
// -----------------------------------------------------------------------------

type IQuoteRepository interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the schema, tables or indexes.
	Initialize(ctx context.Context) error

	// -----------------------------------------------------------------------------

	// ReplaceAll swaps the stored set for quotes. Backends that support it do
	// this in one transaction.
	ReplaceAll(ctx context.Context, quotes []models.MQuote) error

	// -----------------------------------------------------------------------------

	// LoadAll returns the stored set in the order it was written.
	LoadAll(ctx context.Context) ([]models.MQuote, error)

	// -----------------------------------------------------------------------------

	// Close the connection
	Close() error
}
