package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stock-screener/src/helpers"
	"stock-screener/src/interfaces/mocks"
	"stock-screener/src/logger"
	"stock-screener/src/models"
	"stock-screener/src/normalizer"
	"stock-screener/src/refresh"
	"stock-screener/src/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(tickers ...string) *models.MConfig {
	return &models.MConfig{
		Name:     "Stock Screener",
		LogLevel: "CRITICAL",
		Network:  models.MNetworkConfig{RequestTimeout: 5, ConcurrentRequests: 2},
		DataSource: models.MDataSourceConfig{
			Tickers:               tickers,
			CacheTTLSeconds:       300,
			UpdateIntervalSeconds: 60,
		},
	}
}

func newTestServer(t *testing.T, cfg *models.MConfig, provider *mocks.MockIQuoteProvider, repo *mocks.MockIQuoteRepository) (*HTTPServer, *store.QuoteStore) {
	t.Helper()
	log := logger.NewLogger(cfg, "Test")
	st := store.NewQuoteStore(nil)

	var o *refresh.Orchestrator
	if repo == nil {
		o = refresh.NewOrchestrator(cfg, provider, st, nil, log)
	} else {
		o = refresh.NewOrchestrator(cfg, provider, st, repo, log)
	}

	s := NewHTTPServer(cfg, o, log)
	o.SetPublisher(s)
	s.now = func() time.Time { return time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { _ = s.Stop() })
	return s, st
}

func applePayload() models.MRawQuote {
	return models.MRawQuote{
		Ticker: "AAPL",
		Payload: models.MPayload{
			normalizer.KeyCurrentPrice:  190.0,
			normalizer.KeyPreviousClose: 185.0,
			normalizer.KeyShortName:     "Apple Inc.",
			normalizer.KeyMarketCap:     2.95e12,
		},
		History: []float64{185.0, 190.0},
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

// -----------------------------------------------------------------------------

func TestStocksJSONRefreshesEmptyStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockIQuoteProvider(ctrl)
	provider.EXPECT().FetchQuote(gomock.Any(), "AAPL").Return(applePayload(), nil)
	provider.EXPECT().FetchQuote(gomock.Any(), "BADTICKER").Return(models.MRawQuote{}, errors.New("boom"))

	s, _ := newTestServer(t, testConfig("AAPL", "BADTICKER"), provider, nil)

	rec := get(t, s.Handler(), "/stocks.json")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		LastUpdated string           `json:"last_updated"`
		Stocks      []map[string]any `json:"stocks"`
		TotalStocks int              `json:"total_stocks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 2, body.TotalStocks)
	require.Len(t, body.Stocks, 2)
	require.NotEmpty(t, body.LastUpdated)

	require.Equal(t, "AAPL", body.Stocks[0]["ticker"])
	require.Equal(t, 2.7, body.Stocks[0]["price_change_percent"])
	require.Equal(t, "BADTICKER", body.Stocks[1]["ticker"])
	require.Equal(t, "UNKNOWN", body.Stocks[1]["market_state"])
	require.Nil(t, body.Stocks[1]["pe_ratio"])
	require.Contains(t, body.Stocks[1], "pe_ratio")
}

func TestStocksJSONServesFreshSnapshotWithoutFetching(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockIQuoteProvider(ctrl)

	s, st := newTestServer(t, testConfig("MSFT"), provider, nil)
	require.NoError(t, st.ReplaceAll([]models.MQuote{normalizer.Placeholder("MSFT", time.Now())}))

	rec := get(t, s.Handler(), "/stocks.json")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total_stocks":1`)
}

func TestStocksJSONServesSnapshotWhenPersistenceFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockIQuoteProvider(ctrl)
	repo := mocks.NewMockIQuoteRepository(ctrl)
	provider.EXPECT().FetchQuote(gomock.Any(), "AAPL").Return(applePayload(), nil)
	repo.EXPECT().ReplaceAll(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	s, _ := newTestServer(t, testConfig("AAPL"), provider, repo)

	rec := get(t, s.Handler(), "/stocks.json")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"ticker":"AAPL"`)
}

// -----------------------------------------------------------------------------

func TestRealTimePrice(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockIQuoteProvider(ctrl)
	provider.EXPECT().FetchLatestPrice(gomock.Any(), "AAPL").Return(190.456, nil)
	provider.EXPECT().FetchLatestPrice(gomock.Any(), "NOPE").Return(0.0, helpers.NewProviderError("yahoo", "NOPE", &helpers.NoDataError{Ticker: "NOPE"}))
	provider.EXPECT().FetchLatestPrice(gomock.Any(), "ERR").Return(0.0, errors.New("upstream 503"))

	s, _ := newTestServer(t, testConfig("AAPL"), provider, nil)
	h := s.Handler()

	rec := get(t, h, "/realtime/AAPL/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ticker":"AAPL","current_price":190.46,"timestamp":"2025-06-02 14:30:00"}`, rec.Body.String())

	rec = get(t, h, "/realtime/NOPE/")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"No data available"}`, rec.Body.String())

	rec = get(t, h, "/realtime/ERR/")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"upstream 503"}`, rec.Body.String())
}

// -----------------------------------------------------------------------------

func TestHealthAndConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, st := newTestServer(t, testConfig("AAPL", "TCS.NS"), mocks.NewMockIQuoteProvider(ctrl), nil)
	h := s.Handler()

	rec := get(t, h, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok","stocks":0,"last_updated":"","connections":0}`, rec.Body.String())

	require.NoError(t, st.ReplaceAll([]models.MQuote{normalizer.Placeholder("AAPL", time.Now())}))
	rec = get(t, h, "/api/health")
	require.Contains(t, rec.Body.String(), `"stocks":1`)

	rec = get(t, h, "/api/config")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"tickers":["AAPL","TCS.NS"],"cache_ttl_seconds":300,"update_interval_seconds":60,"background_refresh":false}`, rec.Body.String())
}

func TestIndexRendersSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, st := newTestServer(t, testConfig("AAPL"), mocks.NewMockIQuoteProvider(ctrl), nil)

	rec := get(t, s.Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "No data yet")

	require.NoError(t, st.ReplaceAll([]models.MQuote{normalizer.Placeholder("AAPL", time.Now())}))
	rec = get(t, s.Handler(), "/")
	body := rec.Body.String()
	require.Contains(t, body, "<td>AAPL</td>")
	require.Contains(t, body, "<td>N/A</td>")
	require.Contains(t, body, "UNKNOWN")
}

// -----------------------------------------------------------------------------

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) models.MSnapshotMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg models.MSnapshotMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocketSendsInitialThenUpdates(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockIQuoteProvider(ctrl)
	provider.EXPECT().FetchQuote(gomock.Any(), "AAPL").Return(applePayload(), nil)

	s, _ := newTestServer(t, testConfig("AAPL"), provider, nil)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	conn := dialWS(t, srv)

	initial := readSnapshot(t, conn)
	require.Equal(t, models.SnapshotInitial, initial.Type)
	require.Zero(t, initial.TotalStocks)
	require.NotNil(t, initial.Stocks)

	_, err := s.Orchestrator.Refresh(context.Background())
	require.NoError(t, err)

	update := readSnapshot(t, conn)
	require.Equal(t, models.SnapshotUpdate, update.Type)
	require.Equal(t, 1, update.TotalStocks)
	require.Equal(t, "AAPL", update.Stocks[0].Ticker)
}

func TestWebSocketSnapshotCommandFiltersTickers(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, st := newTestServer(t, testConfig("AAPL", "MSFT"), mocks.NewMockIQuoteProvider(ctrl), nil)
	now := time.Now()
	require.NoError(t, st.ReplaceAll([]models.MQuote{
		normalizer.Placeholder("AAPL", now),
		normalizer.Placeholder("MSFT", now),
	}))

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	conn := dialWS(t, srv)
	require.Equal(t, 2, readSnapshot(t, conn).TotalStocks)

	require.NoError(t, conn.WriteJSON(models.MClientCommand{Command: models.CommandSnapshot, Tickers: []string{"MSFT"}}))
	reply := readSnapshot(t, conn)
	require.Equal(t, 1, reply.TotalStocks)
	require.Equal(t, "MSFT", reply.Stocks[0].Ticker)

	// fresh store: refresh replies with the current snapshot instead of fetching
	require.NoError(t, conn.WriteJSON(models.MClientCommand{Command: models.CommandRefresh}))
	reply = readSnapshot(t, conn)
	require.Equal(t, models.SnapshotInitial, reply.Type)
	require.Equal(t, 2, reply.TotalStocks)
}

func TestStopEndsStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := testConfig("AAPL")
	cfg.Host = "127.0.0.1"
	s, _ := newTestServer(t, cfg, mocks.NewMockIQuoteProvider(ctrl), nil)

	done := make(chan error, 1)
	go func() { done <- s.Start() }()
	require.NoError(t, s.Stop())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestStartAfterStopDoesNotListen(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := testConfig("AAPL")
	cfg.Host = "127.0.0.1"
	s, _ := newTestServer(t, cfg, mocks.NewMockIQuoteProvider(ctrl), nil)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Start())
}

func TestFilterQuotes(t *testing.T) {
	quotes := []models.MQuote{{Ticker: "A"}, {Ticker: "B"}, {Ticker: "C"}}
	require.Equal(t, quotes, filterQuotes(quotes, nil))
	require.Equal(t, []models.MQuote{{Ticker: "A"}, {Ticker: "C"}}, filterQuotes(quotes, []string{"C", "A"}))
	require.Empty(t, filterQuotes(quotes, []string{"Z"}))
}
