// internal/event/manager.go
package event

import (
	"sync"

	"github.com/bethropolis/textcore/internal/logger"
)

// Handler receives events of the type it subscribed to.
type Handler func(e Event)

type subscription struct {
	id       int
	typ      Type // TypeUnknown for listeners
	handler  Handler
	listener Listener
}

// Manager dispatches an editor's events synchronously, in registration order.
type Manager struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID int
}

// NewManager creates a new event manager.
func NewManager() *Manager {
	return &Manager{nextID: 1}
}

// AddListener registers l for every event and returns its id.
func (m *Manager) AddListener(l Listener) int {
	return m.add(subscription{listener: l})
}

// Subscribe registers handler for one event type and returns its id.
func (m *Manager) Subscribe(eventType Type, handler Handler) int {
	id := m.add(subscription{typ: eventType, handler: handler})
	logger.DebugTagf("event", "Handler %d subscribed to %v", id, eventType)
	return id
}

func (m *Manager) add(s subscription) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.id = m.nextID
	m.nextID++
	m.subs = append(m.subs, s)
	return s.id
}

// RemoveListener removes a listener or handler by id.
func (m *Manager) RemoveListener(id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.subs {
		if s.id == id {
			m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Count returns the number of registrations.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs)
}

// Dispatch delivers e to every listener and to the handlers of its type. The
// registration list is copied first, so callbacks may add or remove
// registrations.
func (m *Manager) Dispatch(e Event) {
	m.mu.RLock()
	subs := make([]subscription, len(m.subs))
	copy(subs, m.subs)
	m.mu.RUnlock()

	if len(subs) == 0 {
		return
	}
	logger.DebugTagf("event", "Dispatching %v to %d subscriber(s)", e.Type, len(subs))
	for _, s := range subs {
		switch {
		case s.listener != nil:
			deliver(s.listener, e)
		case s.typ == e.Type:
			s.handler(e)
		}
	}
}
