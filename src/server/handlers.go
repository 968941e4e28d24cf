package server

import (
	"errors"
	"net/http"
	"strings"

	"stock-screener/src/formatter"
	"stock-screener/src/helpers"
	"stock-screener/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *HTTPServer) getIndex(c *gin.Context) {
	st := s.Orchestrator.Store
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":       s.Config.Name,
		"Stocks":      st.GetAll(),
		"LastUpdated": models.FormatTimestamp(st.LastUpdated()),
	})
}

// -----------------------------------------------------------------------------

// getStocks refreshes first when the snapshot is stale. A persistence failure
// still serves the freshly installed snapshot.
func (s *HTTPServer) getStocks(c *gin.Context) {
	if _, err := s.Orchestrator.RefreshIfStale(c.Request.Context()); err != nil {
		var storageErr *helpers.StorageError
		if !errors.As(err, &storageErr) {
			s.Logger.Error("Refresh failed: %v", err)
			c.JSON(http.StatusInternalServerError, models.MErrorResponse{Error: err.Error()})
			return
		}
		s.Logger.Warning("Serving unpersisted snapshot: %v", err)
	}

	st := s.Orchestrator.Store
	lastUpdated := st.LastUpdated()
	if lastUpdated.IsZero() {
		lastUpdated = s.now()
	}
	c.JSON(http.StatusOK, models.NewStocksResponse(st.GetAll(), lastUpdated))
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) getRealTimePrice(c *gin.Context) {
	ticker := strings.TrimSpace(c.Param("ticker"))

	price, err := s.Orchestrator.LatestPrice(c.Request.Context(), ticker)
	if err != nil {
		if errors.Is(err, helpers.ErrNoData) {
			c.JSON(http.StatusNotFound, models.MErrorResponse{Error: "No data available"})
			return
		}
		s.Logger.Warning("Real-time price for %s failed: %v", ticker, err)
		c.JSON(http.StatusInternalServerError, models.MErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.MRealTimePrice{
		Ticker:       ticker,
		CurrentPrice: formatter.Round2(price),
		Timestamp:    s.now().Format(models.TimestampLayout),
	})
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tickers":                 s.Orchestrator.TickerList(),
		"cache_ttl_seconds":       int(s.Orchestrator.TTL.Seconds()),
		"update_interval_seconds": s.Config.DataSource.UpdateIntervalSeconds,
		"background_refresh":      s.Config.DataSource.BackgroundRefresh,
	})
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) getHealth(c *gin.Context) {
	st := s.Orchestrator.Store
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"stocks":       st.Len(),
		"last_updated": models.FormatTimestamp(st.LastUpdated()),
		"connections":  s.connections.Load(),
	})
}
