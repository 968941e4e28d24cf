package server

import (
	"context"
	"encoding/json"
	"net/http"

	"stock-screener/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// directMessage is a reply to a single client, routed through the hub so
// only the hub goroutine ever touches a client's send channel.
type directMessage struct {
	client  *Client
	message models.MSnapshotMessage
}

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

func (s *HTTPServer) startHub() {
	s.hubOnce.Do(func() { go s.handleWebsockets() })
}

// handleWebsockets is the main Hub loop
func (s *HTTPServer) handleWebsockets() {
	for {
		select {
		case <-s.quit:
			for client := range s.clients {
				s.dropClient(client)
			}
			return

		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.connections.Store(int64(len(s.clients)))
			// Send the current snapshot on connect
			client.send <- s.currentSnapshot(models.SnapshotInitial, nil)

		case client := <-s.unregister:
			s.dropClient(client)

		case d := <-s.direct:
			if _, ok := s.clients[d.client]; ok {
				s.deliver(d.client, d.message)
			}

		case message := <-s.broadcast:
			for client := range s.clients {
				s.deliver(client, message)
			}
		}
	}
}

// deliver drops clients whose buffer is full so one slow browser cannot
// stall the hub.
func (s *HTTPServer) deliver(client *Client, message models.MSnapshotMessage) {
	select {
	case client.send <- message:
	default:
		s.Logger.Warning("Dropping slow websocket client")
		s.dropClient(client)
	}
}

func (s *HTTPServer) dropClient(client *Client) {
	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		close(client.send)
		s.connections.Store(int64(len(s.clients)))
	}
}

func (s *HTTPServer) currentSnapshot(kind string, tickers []string) models.MSnapshotMessage {
	st := s.Orchestrator.Store
	return models.NewSnapshotMessage(kind, filterQuotes(st.GetAll(), tickers), st.LastUpdated())
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Publish queues a snapshot for every connected client. It never blocks the
// refresh cycle; when the queue is full the snapshot is dropped.
func (s *HTTPServer) Publish(message models.MSnapshotMessage) {
	select {
	case <-s.quit:
	case s.broadcast <- message:
	default:
		s.Logger.Warning("Broadcast queue full, dropping %s snapshot", message.Type)
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan models.MSnapshotMessage, 16),
	}

	select {
	case s.register <- client:
	case <-s.quit:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

func (s *HTTPServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MClientCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	switch cmd.Command {
	case models.CommandSnapshot:
		s.reply(client, s.currentSnapshot(models.SnapshotInitial, cmd.Tickers))

	case models.CommandRefresh:
		// a cycle that runs broadcasts UPDATE to everyone, this client included
		go func() {
			ran, err := s.Orchestrator.RefreshIfStale(context.Background())
			if err != nil {
				s.Logger.Warning("Client-requested refresh: %v", err)
			}
			if !ran {
				s.reply(client, s.currentSnapshot(models.SnapshotInitial, cmd.Tickers))
			}
		}()
	}
}

func (s *HTTPServer) reply(client *Client, message models.MSnapshotMessage) {
	select {
	case s.direct <- directMessage{client: client, message: message}:
	case <-s.quit:
	}
}
