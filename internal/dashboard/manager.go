package dashboard

import "sync"

// Manager hands out one controller per admin session. Controllers live for
// the duration of the dashboard session and are dropped on logout.
type Manager struct {
	mu          sync.Mutex
	controllers map[string]*Controller
}

// NewManager creates an empty controller registry.
func NewManager() *Manager {
	return &Manager{controllers: make(map[string]*Controller)}
}

// For returns the session's controller, creating it on first access. The
// API binding is refreshed on every call so the controller always uses the
// session's current token.
func (m *Manager) For(sid string, api AdminAPI) *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctrl, ok := m.controllers[sid]
	if !ok {
		ctrl = NewController(api)
		m.controllers[sid] = ctrl
		return ctrl
	}
	ctrl.SetAPI(api)
	return ctrl
}

// Drop discards the session's controller, if any.
func (m *Manager) Drop(sid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.controllers, sid)
}
