package app

import (
	"sync"

	"github.com/dkeye/Huddle/internal/domain"
)

// RoomStateModel projects the last successfully fetched room-wide
// control state. Mutations go through the orchestrator call-throughs
// and land here only via the refresh that follows them.
type RoomStateModel struct {
	mu     sync.RWMutex
	state  domain.RoomState
	loaded bool
}

func NewRoomStateModel() *RoomStateModel { return &RoomStateModel{} }

func (m *RoomStateModel) Replace(s domain.RoomState) {
	m.mu.Lock()
	m.state = s
	m.loaded = true
	m.mu.Unlock()
}

// Clear resets to the zero state, used when the state panel degrades.
func (m *RoomStateModel) Clear() {
	m.mu.Lock()
	m.state = domain.RoomState{}
	m.loaded = false
	m.mu.Unlock()
}

func (m *RoomStateModel) Snapshot() domain.RoomState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.state
	s.RaisedHands = append([]domain.UserID(nil), m.state.RaisedHands...)
	return s
}

// Loaded distinguishes a genuine unlocked/empty state from a degraded
// panel that never fetched.
func (m *RoomStateModel) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}
