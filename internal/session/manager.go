// Package session keeps each browser visitor's unit of state: one global
// store plus one gateway session, held for the life of the process. Every
// session transition fans out to subscribers so auth state stays in sync
// the same way everywhere.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kingwell47/blogfront/internal/gateway"
	"github.com/kingwell47/blogfront/internal/model"
	"github.com/kingwell47/blogfront/internal/store"
)

// Event names a session transition.
type Event string

const (
	EventSignedIn       Event = "signed-in"
	EventSignedOut      Event = "signed-out"
	EventTokenRefreshed Event = "token-refreshed"
)

// refreshLeeway is how close to expiry an access token may get before a
// refresh is attempted.
const refreshLeeway = 30 * time.Second

// Listener receives every session transition with the new session, or nil
// after sign-out.
type Listener func(event Event, visitorID string, sess *model.Session)

type visitor struct {
	store   *store.Store
	session *model.Session
}

// Manager is the registry of visitors and the single source of session
// transitions.
type Manager struct {
	gw       *gateway.Client
	pageSize int

	mu        sync.Mutex
	visitors  map[string]*visitor
	listeners map[int]Listener
	nextSub   int
}

// NewManager creates an empty registry backed by the given gateway client.
func NewManager(gw *gateway.Client, pageSize int) *Manager {
	return &Manager{
		gw:        gw,
		pageSize:  pageSize,
		visitors:  make(map[string]*visitor),
		listeners: make(map[int]Listener),
	}
}

// Attach resolves a visitor ID to its entry, creating a fresh entry (and
// ID, when the given one is empty or unknown) as needed. It returns the
// canonical ID and the visitor's store.
func (m *Manager) Attach(id string) (string, *store.Store) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if v, ok := m.visitors[id]; ok {
			return id, v.store
		}
	}
	id = uuid.New().String()
	v := &visitor{store: store.New(m.pageSize)}
	m.visitors[id] = v
	return id, v.store
}

// StoreFor returns the visitor's store, or nil for an unknown ID.
func (m *Manager) StoreFor(id string) *store.Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.visitors[id]; ok {
		return v.store
	}
	return nil
}

// Session returns the visitor's current gateway session, or nil.
func (m *Manager) Session(id string) *model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.visitors[id]; ok {
		return v.session
	}
	return nil
}

// SetSession installs a session for the visitor and announces a sign-in.
func (m *Manager) SetSession(id string, sess *model.Session) {
	m.mu.Lock()
	if v, ok := m.visitors[id]; ok {
		v.session = sess
	}
	m.mu.Unlock()
	m.emit(EventSignedIn, id, sess)
}

// ClearSession drops the visitor's session and announces a sign-out.
func (m *Manager) ClearSession(id string) {
	m.mu.Lock()
	if v, ok := m.visitors[id]; ok {
		v.session = nil
	}
	m.mu.Unlock()
	m.emit(EventSignedOut, id, nil)
}

// Subscribe registers a listener for every session transition. The
// returned unsubscribe function must be invoked exactly once, on
// application teardown; extra calls are no-ops.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	sub := m.nextSub
	m.nextSub++
	m.listeners[sub] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, sub)
			m.mu.Unlock()
		})
	}
}

// Fresh returns the visitor's session, refreshing it through the gateway
// first when the access token is at or past expiry. A failed refresh
// means the session expired externally: it is cleared and a sign-out is
// announced.
func (m *Manager) Fresh(ctx context.Context, id string) *model.Session {
	sess := m.Session(id)
	if sess == nil {
		return nil
	}

	exp, err := tokenExpiry(sess.AccessToken)
	if err == nil && time.Until(exp) > refreshLeeway {
		return sess
	}
	if err != nil {
		slog.Debug("unreadable access token, refreshing", "visitor", id, "error", err)
	}

	next, err := m.gw.RefreshSession(ctx, sess.RefreshToken)
	if err != nil {
		slog.Info("session refresh failed, signing visitor out", "visitor", id, "error", err)
		m.ClearSession(id)
		return nil
	}

	m.mu.Lock()
	if v, ok := m.visitors[id]; ok {
		v.session = next
	}
	m.mu.Unlock()
	m.emit(EventTokenRefreshed, id, next)
	return next
}

// emit calls every listener outside the manager lock, so listeners are
// free to call back in.
func (m *Manager) emit(event Event, id string, sess *model.Session) {
	m.mu.Lock()
	fns := make([]Listener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(event, id, sess)
	}
}
