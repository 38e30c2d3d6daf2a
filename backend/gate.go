package backend

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// gateTTL keeps the no-access flag for roughly a year, matching the
// lifetime of the cookie the original browser integration used.
const gateTTL = 365 * 24 * time.Hour

const gateFile = "no-access-mode.json"

type gateState struct {
	Closed  bool      `json:"closed"`
	Expires time.Time `json:"expires"`
}

// Gate is the sticky no-access flag. Once a backend call comes back 403
// the gate closes and callers are expected to skip further backend calls
// until it is explicitly cleared.
type Gate struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
	loaded bool
}

// NewGate creates a gate persisted under dir. An empty dir keeps the flag
// in memory only.
func NewGate(dir string, logger *slog.Logger) (*Gate, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		return &Gate{logger: logger, loaded: true}, nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &Gate{path: filepath.Join(dir, gateFile), logger: logger}, nil
}

// Closed reports whether no-access mode is active.
func (g *Gate) Closed(_ context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.loaded {
		g.closed = g.load()
		g.loaded = true
	}
	return g.closed
}

// Close records the no-access condition.
func (g *Gate) Close(_ context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.loaded = true
	g.persist(gateState{Closed: true, Expires: time.Now().Add(gateTTL)})
}

// Clear re-opens the gate.
func (g *Gate) Clear(_ context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = false
	g.loaded = true
	g.persist(gateState{Closed: false})
}

func (g *Gate) load() bool {
	if g.path == "" {
		return false
	}
	data, err := os.ReadFile(g.path)
	if err != nil {
		return false
	}
	var state gateState
	if err := json.Unmarshal(data, &state); err != nil {
		return false
	}
	if state.Closed && time.Now().After(state.Expires) {
		return false
	}
	return state.Closed
}

func (g *Gate) persist(state gateState) {
	if g.path == "" {
		return
	}
	data, err := json.Marshal(state)
	if err != nil {
		return
	}
	if err := os.WriteFile(g.path, data, 0o600); err != nil {
		g.logger.Debug("persisting no-access flag failed", "error", err)
	}
}
