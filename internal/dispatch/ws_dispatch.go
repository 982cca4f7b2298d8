package dispatch

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/example/nemt-pricing/internal/models"
)

// WSSession represents one connected billing/ops dashboard.
type WSSession struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *WSSession) Send(q *models.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(q)
}

// WSRegistry holds connected dashboard sessions and fans quote events out to
// all of them.
type WSRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*WSSession
	logger   *slog.Logger
}

func NewWSRegistry(logger *slog.Logger) *WSRegistry {
	return &WSRegistry{sessions: make(map[string]*WSSession), logger: logger}
}

func (r *WSRegistry) Add(clientID string, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[clientID] = &WSSession{conn: conn}
}

func (r *WSRegistry) Remove(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, clientID)
}

// Broadcast sends the quote to every connected session; failed sessions are
// dropped from the registry.
func (r *WSRegistry) Broadcast(q *models.Quote) {
	r.mu.RLock()
	sessions := make(map[string]*WSSession, len(r.sessions))
	for id, s := range r.sessions {
		sessions[id] = s
	}
	r.mu.RUnlock()

	for id, s := range sessions {
		if err := s.Send(q); err != nil {
			if r.logger != nil {
				r.logger.Warn("ws send failed, dropping session", "client_id", id, "error", err)
			}
			r.Remove(id)
		}
	}
}
