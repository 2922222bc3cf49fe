package engine

import (
	"context"
	"log"
	"sync"
	"time"
)

// Manager owns the per-user engine instances. Engines are created and
// started on sign-in (or lazily on the first authenticated request after a
// server restart) and stopped on sign-out. Each engine is an isolated,
// explicitly constructed instance — nothing lives at package scope.
type Manager struct {
	store  AuthoritativeStore
	clock  Clock
	logger *log.Logger

	mu      sync.Mutex
	engines map[uint]*Engine
}

func NewManager(store AuthoritativeStore, clock Clock, logger *log.Logger) *Manager {
	return &Manager{
		store:   store,
		clock:   clock,
		logger:  logger,
		engines: make(map[uint]*Engine),
	}
}

// EngineFor returns the user's running engine, starting one in the given
// timezone if none exists yet.
func (m *Manager) EngineFor(ctx context.Context, userID uint, loc *time.Location) *Engine {
	m.mu.Lock()
	if e, ok := m.engines[userID]; ok {
		m.mu.Unlock()
		return e
	}
	e := NewEngine(userID, loc, m.store, m.clock, m.logger)
	m.engines[userID] = e
	m.mu.Unlock()

	e.Start(ctx)
	return e
}

// StopFor stops and drops the user's engine. Called on sign-out; a user
// without a running engine is a no-op.
func (m *Manager) StopFor(userID uint) {
	m.mu.Lock()
	e, ok := m.engines[userID]
	if ok {
		delete(m.engines, userID)
	}
	m.mu.Unlock()
	if ok {
		e.Stop()
	}
}

// StopAll stops every running engine. Called on server shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	engines := m.engines
	m.engines = make(map[uint]*Engine)
	m.mu.Unlock()
	for _, e := range engines {
		e.Stop()
	}
}
