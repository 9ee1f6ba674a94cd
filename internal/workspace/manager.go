package workspace

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/angelmondragon/marketplace-backend/internal/checkout"
	"github.com/angelmondragon/marketplace-backend/internal/session"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/kvstore"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
)

const namespacePrefix = "ws:"

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// Deps are shared by every workspace a Manager creates.
type Deps struct {
	Store            *kvstore.Store
	Authenticator    session.Authenticator
	PaymentProcessor checkout.PaymentProcessor
	SessionOptions   session.Options
	Logger           *logger.Logger
	Metrics          *metrics.Marketplace
	Clock            func() time.Time
}

type entry struct {
	ws       *Workspace
	lastSeen time.Time
}

// Manager owns the live workspaces of this process.
type Manager struct {
	deps Deps
	now  func() time.Time

	mu    sync.Mutex
	items map[string]*entry
}

func NewManager(deps Deps) (*Manager, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("kvstore required")
	}
	if deps.Authenticator == nil {
		return nil, fmt.Errorf("authenticator required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &Manager{deps: deps, now: now, items: map[string]*entry{}}, nil
}

// NewID returns a fresh workspace id.
func (m *Manager) NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id is acceptable as a workspace id.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Get returns the workspace for id, creating and initializing it on first use.
func (m *Manager) Get(ctx context.Context, id string) (*Workspace, error) {
	if !ValidID(id) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid session id").
			WithDetails(map[string]string{"session_id": "must be 8-64 letters, digits, '-' or '_'"})
	}

	if ws, ok := m.touch(id); ok {
		return ws, nil
	}

	// Init reads the backend, so it runs unlocked; a concurrent first request may win the insert.
	ws := newWorkspace(id, m.deps.Store.Namespace(namespacePrefix+id), m.deps)
	if err := ws.Init(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if e, ok := m.items[id]; ok {
		e.lastSeen = m.now()
		m.mu.Unlock()
		return e.ws, nil
	}
	m.items[id] = &entry{ws: ws, lastSeen: m.now()}
	live := len(m.items)
	m.mu.Unlock()

	m.deps.Metrics.SetActiveWorkspaces(live)
	m.deps.Logger.Debug(m.deps.Logger.WithSessionID(ctx, id), "workspace.init")
	return ws, nil
}

func (m *Manager) touch(id string) (*Workspace, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = m.now()
	return e.ws, true
}

// Lookup returns a live workspace without creating one.
func (m *Manager) Lookup(id string) (*Workspace, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok {
		return nil, false
	}
	return e.ws, true
}

// Len is the number of live workspaces.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// SweepIdle purges and forgets every workspace last used before cutoff.
func (m *Manager) SweepIdle(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	var idle []*Workspace
	for id, e := range m.items {
		if e.lastSeen.Before(cutoff) {
			idle = append(idle, e.ws)
			delete(m.items, id)
		}
	}
	m.deps.Metrics.SetActiveWorkspaces(len(m.items))
	m.mu.Unlock()

	var errs error
	for _, ws := range idle {
		if err := ws.Purge(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("purge workspace %s: %w", ws.ID, err))
		}
	}
	return len(idle), errs
}
