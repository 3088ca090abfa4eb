// Package session keeps per-operator application state, such as the ranch
// an operator is working on, for the lifetime of their login.
package session

import (
	"sync"
	"time"
)

// State is the application state of one operator.
type State struct {
	OperatorID string    `json:"operatorId"`
	RanchID    string    `json:"ranchId,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Manager handles operator states. It is safe for concurrent use.
type Manager struct {
	states map[string]State
	mu     sync.RWMutex
	now    func() time.Time
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		states: make(map[string]State),
		now:    time.Now,
	}
}

// Get retrieves the current state for an operator.
func (m *Manager) Get(operatorID string) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if state, ok := m.states[operatorID]; ok {
		return state
	}
	return State{OperatorID: operatorID}
}

// SelectRanch records the ranch an operator is working on.
func (m *Manager) SelectRanch(operatorID, ranchID string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := State{OperatorID: operatorID, RanchID: ranchID, UpdatedAt: m.now()}
	m.states[operatorID] = state
	return state
}

// Clear drops an operator's state on logout.
func (m *Manager) Clear(operatorID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, operatorID)
}
