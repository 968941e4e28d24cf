package interfaces

//go:generate mockgen -destination=mocks/mock_network_manager.go -package=mocks -source=network_manager.go

import "context"

// -----------------------------------------------------------------------------
// INetworkManager defines the contract for HTTP requests with potential proxy/retry logic.
// -----------------------------------------------------------------------------

type INetworkManager interface {

	// -----------------------------------------------------------------------------

	// Get performs a GET request to the specified URL with parameters.
	// Returns the response body as bytes or an error. A 404 is reported as
	// helpers.ErrNoData and is not retried.
	Get(ctx context.Context, url string, params map[string]string) ([]byte, error)
}
