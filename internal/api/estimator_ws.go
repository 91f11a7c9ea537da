package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/prencipemarco/superquote-web/internal/analysis"
	"github.com/prencipemarco/superquote-web/internal/models"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPongTimeout  = 60 * time.Second
	wsPingInterval = 50 * time.Second
	wsSendBuffer   = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// the dashboard is same-origin behind the password gate
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleAnalyzeWS streams the edge estimator over a WebSocket. Each message
// from the client is the current form state; the orchestrator debounces,
// runs, and pushes updates back. One orchestrator per connection keeps
// clients isolated.
func (s *Server) handleAnalyzeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	session := &analyzeSession{
		conn:   conn,
		send:   make(chan analysis.Update, wsSendBuffer),
		logger: s.logger,
	}
	session.orchestrator = analysis.NewOrchestrator(s.engine, s.debounce, s.logger, session.publish)

	go session.writePump()
	session.readPump()
}

type analyzeSession struct {
	conn         *websocket.Conn
	orchestrator *analysis.Orchestrator
	send         chan analysis.Update
	logger       *logrus.Logger

	mu     sync.Mutex
	closed bool
}

// publish hands an orchestrator update to the write pump. A slow client
// drops intermediate updates rather than blocking the estimator; a closing
// session drops them entirely.
func (s *analyzeSession) publish(update analysis.Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.send <- update:
	default:
		s.logger.Warn("Analyze client too slow, dropping update")
	}
}

func (s *analyzeSession) readPump() {
	defer func() {
		s.orchestrator.Close()
		s.mu.Lock()
		s.closed = true
		close(s.send)
		s.mu.Unlock()
	}()

	s.conn.SetReadLimit(4096)
	_ = s.conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	})

	for {
		var query models.Query
		if err := s.conn.ReadJSON(&query); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.WithError(err).Warn("Analyze connection dropped")
			}
			return
		}
		s.orchestrator.SetInput(query)
	}
}

func (s *analyzeSession) writePump() {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case update, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := s.conn.WriteJSON(update); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
