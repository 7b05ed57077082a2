package flowrepo

import (
	"errors"
	"sync"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu    sync.RWMutex
	flows map[string]*FlowState
}

// NewInMemoryRepo creates a new in-memory login flow repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		flows: make(map[string]*FlowState),
	}
}

// Upsert stores or replaces the in-flight login state for a session
func (r *InMemoryRepo) Upsert(sessionID string, flow *FlowState) error {
	if sessionID == "" {
		return errors.New("sessionID cannot be empty")
	}
	if flow == nil {
		return errors.New("flow cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to prevent external modifications
	r.flows[sessionID] = &FlowState{
		State:     flow.State,
		ReturnURL: flow.ReturnURL,
		CreatedAt: flow.CreatedAt,
	}

	return nil
}

// Get retrieves the in-flight login state for a session
func (r *InMemoryRepo) Get(sessionID string) (*FlowState, error) {
	if sessionID == "" {
		return nil, errors.New("sessionID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	flow, exists := r.flows[sessionID]
	if !exists {
		return nil, errors.New("login flow not found")
	}

	// Return a copy to prevent external modifications
	return &FlowState{
		State:     flow.State,
		ReturnURL: flow.ReturnURL,
		CreatedAt: flow.CreatedAt,
	}, nil
}

// Delete removes the in-flight login state for a session
func (r *InMemoryRepo) Delete(sessionID string) error {
	if sessionID == "" {
		return errors.New("sessionID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.flows, sessionID)
	return nil
}

var _ Repo = (*InMemoryRepo)(nil)
