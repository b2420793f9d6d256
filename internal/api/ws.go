package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/equitylens/backend/internal/contracts"
	"github.com/equitylens/backend/pkg/logger"
)

const (
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second

	// Per-client send buffer. Clients that fall this far behind are dropped.
	clientSendBuffer = 16
)

// ScoreStream pushes completed scoring runs to connected WebSocket clients.
type ScoreStream struct {
	logger   *logger.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
}

// NewScoreStream creates a new score stream hub
func NewScoreStream(log *logger.Logger) *ScoreStream {
	return &ScoreStream{
		logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// Handle upgrades the request and registers the client
// GET /api/stream
func (s *ScoreStream) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	sendCh := make(chan []byte, clientSendBuffer)

	s.mu.Lock()
	s.clients[conn] = sendCh
	clientCount := len(s.clients)
	s.mu.Unlock()

	s.logger.WithField("clients", clientCount).Debug("WebSocket client connected")

	go s.writeLoop(conn, sendCh)
	go s.readLoop(conn)
}

// Broadcast sends a scoring run to every connected client. Slow clients
// are disconnected rather than blocking the caller.
func (s *ScoreStream) Broadcast(result *contracts.ScoreResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		s.logger.WithError(err).Error("Failed to marshal score result for broadcast")
		return
	}

	s.mu.RLock()
	stale := make([]*websocket.Conn, 0)
	for conn, sendCh := range s.clients {
		select {
		case sendCh <- payload:
		default:
			stale = append(stale, conn)
		}
	}
	s.mu.RUnlock()

	for _, conn := range stale {
		s.logger.Warn("Dropping slow WebSocket client")
		s.remove(conn)
	}
}

// ClientCount returns the number of connected clients
func (s *ScoreStream) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// writeLoop drains the client's send channel and keeps the connection alive
func (s *ScoreStream) writeLoop(conn *websocket.Conn, sendCh chan []byte) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-sendCh:
			if !ok {
				conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.remove(conn)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.remove(conn)
				return
			}
		}
	}
}

// readLoop discards inbound messages and detects client disconnects
func (s *ScoreStream) readLoop(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.remove(conn)
			return
		}
	}
}

// remove unregisters a client and closes its connection
func (s *ScoreStream) remove(conn *websocket.Conn) {
	s.mu.Lock()
	sendCh, ok := s.clients[conn]
	if ok {
		delete(s.clients, conn)
		close(sendCh)
	}
	s.mu.Unlock()

	if ok {
		conn.Close()
	}
}
