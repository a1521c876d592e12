package orchestrator

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/wellnessd/internal/session"
)

// ErrSessionNotFound is returned when a session ID is unknown.
var ErrSessionNotFound = errors.New("session not found")

// Registry tracks live sessions. Each session gets a transport-safe ID and
// a monotonically increasing user UID; the registry owns nothing beyond the
// lookup table, the router owns the session state.
type Registry struct {
	orch *Orchestrator

	mu      sync.RWMutex
	routers map[string]*Router
	nextUID int64
}

// NewRegistry creates an empty session registry backed by orch.
func NewRegistry(orch *Orchestrator) *Registry {
	return &Registry{
		orch:    orch,
		routers: make(map[string]*Router),
		nextUID: 1,
	}
}

// Create starts a new session for the named user and returns its ID and
// router. The profile's UID is assigned here and never reused.
func (g *Registry) Create(profile session.Profile) (string, *Router, error) {
	if strings.TrimSpace(profile.Name) == "" {
		return "", nil, errors.New("profile name is required")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	profile.UID = g.nextUID
	g.nextUID++

	id := uuid.NewString()
	router := g.orch.NewRouter(session.New(profile))
	g.routers[id] = router
	return id, router, nil
}

// Get returns the router for a session ID.
func (g *Registry) Get(id string) (*Router, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	router, ok := g.routers[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return router, nil
}

// Remove forgets a session. Removing an unknown ID is a no-op.
func (g *Registry) Remove(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.routers, id)
}

// Len reports the number of live sessions.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.routers)
}
