package interfaces

//go:generate mockgen -destination=mocks/mock_data_exchange.go -package=mocks -source=data_exchange.go

import "stock-screener/src/models"

// -----------------------------------------------------------------------------
// ISnapshotPublisher pushes freshly refreshed quote sets to external listeners.
// -----------------------------------------------------------------------------

type ISnapshotPublisher interface {
	// -----------------------------------------------------------------------------
	// Publish hands a complete snapshot to listeners (websocket clients etc.)
	Publish(snapshot models.MSnapshotMessage)
}

// -----------------------------------------------------------------------------
// IServer is a long running surface (HTTP, gRPC) started and stopped by main.
// -----------------------------------------------------------------------------

type IServer interface {
	// -----------------------------------------------------------------------------
	// Start the server, blocking until it stops
	Start() error

	// -----------------------------------------------------------------------------
	// Stop the server gracefully
	Stop() error
}
