package session

import (
	"sync"

	"github.com/google/uuid"

	"fanta-market-mcp/internal/engine"
	"fanta-market-mcp/internal/model"
)

// Registry hands out guided sessions by id. A new session is created per
// guided flow; opening a new one for the same manager (fresh squad/pool
// snapshot) is the reset-on-new-login behavior.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create builds a session over the supplied snapshots and registers it
// under a fresh uuid.
func (r *Registry) Create(squad, pool []model.Player, budget float64, baseSlots int, cfg engine.Config) *Session {
	s := New(uuid.NewString(), squad, pool, budget, baseSlots, cfg)
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get looks up a session by id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	return s, ok
}

// Drop removes a session.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
