package models

import "time"

const (
	SnapshotInitial = "INITIAL"
	SnapshotUpdate  = "UPDATE"
)

// -----------------------------------------------------------------------------
// Websocket message pushed to browsers
// -----------------------------------------------------------------------------

type MSnapshotMessage struct {
	Type        string   `json:"type"` // "INITIAL" or "UPDATE"
	LastUpdated string   `json:"last_updated"`
	Stocks      []MQuote `json:"stocks"`
	TotalStocks int      `json:"total_stocks"`
}

func NewSnapshotMessage(kind string, quotes []MQuote, lastUpdated time.Time) MSnapshotMessage {
	r := NewStocksResponse(quotes, lastUpdated)
	return MSnapshotMessage{
		Type:        kind,
		LastUpdated: r.LastUpdated,
		Stocks:      r.Stocks,
		TotalStocks: r.TotalStocks,
	}
}

// -----------------------------------------------------------------------------
// Client command: "refresh" or "snapshot" (optionally limited to Tickers)
// -----------------------------------------------------------------------------

const (
	CommandRefresh  = "refresh"
	CommandSnapshot = "snapshot"
)

type MClientCommand struct {
	Command string   `json:"command"`
	Tickers []string `json:"tickers"`
}
