// Package session holds per-conversation state keyed by an opaque,
// caller-supplied session identifier.
package session

import (
	"sync"

	"github.com/asanchezr/consultor/internal/domain"
)

// Store is the narrow contract the engine mutates conversation state
// through. Implementations must keep sessions isolated from each other and
// report absence, never errors, for sessions with no prior activity.
// Callers are expected to serialize operations per session.
type Store interface {
	// Proposal returns the session's current proposal and the requirements
	// text it was generated from.
	Proposal(sessionID string) (*domain.Proposal, string, bool)
	// SetProposal stores a proposal together with its requirements text.
	// The two always travel together.
	SetProposal(sessionID string, p *domain.Proposal, requirements string)

	PendingChange(sessionID string) (domain.PendingChange, bool)
	SetPendingChange(sessionID string, pc domain.PendingChange)
	ClearPendingChange(sessionID string)

	LastArea(sessionID string) (string, bool)
	SetLastArea(sessionID, area string)

	Value(sessionID, key string) (string, bool)
	SetValue(sessionID, key, value string)
	ClearValue(sessionID, key string)
}

// MemoryStore keeps sessions in process memory for the process lifetime.
// No TTL, no eviction.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.SessionState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*domain.SessionState)}
}

// state returns the session record, creating it lazily. Callers must hold
// the write lock.
func (s *MemoryStore) state(id string) *domain.SessionState {
	st, ok := s.sessions[id]
	if !ok {
		st = &domain.SessionState{Extras: make(map[string]string)}
		s.sessions[id] = st
	}
	return st
}

func (s *MemoryStore) Proposal(id string) (*domain.Proposal, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[id]
	if !ok || st.Proposal == nil {
		return nil, "", false
	}
	return st.Proposal.Clone(), st.Requirements, true
}

func (s *MemoryStore) SetProposal(id string, p *domain.Proposal, requirements string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(id)
	st.Proposal = p.Clone()
	st.Requirements = requirements
}

func (s *MemoryStore) PendingChange(id string) (domain.PendingChange, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[id]
	if !ok || st.Pending == nil {
		return domain.PendingChange{}, false
	}
	return *st.Pending, true
}

func (s *MemoryStore) SetPendingChange(id string, pc domain.PendingChange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(id).Pending = &pc
}

func (s *MemoryStore) ClearPendingChange(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[id]; ok {
		st.Pending = nil
	}
}

func (s *MemoryStore) LastArea(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[id]
	if !ok || st.LastArea == "" {
		return "", false
	}
	return st.LastArea, true
}

func (s *MemoryStore) SetLastArea(id, area string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(id).LastArea = area
}

func (s *MemoryStore) Value(id, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[id]
	if !ok {
		return "", false
	}
	v, ok := st.Extras[key]
	return v, ok
}

func (s *MemoryStore) SetValue(id, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(id).Extras[key] = value
}

func (s *MemoryStore) ClearValue(id, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[id]; ok {
		delete(st.Extras, key)
	}
}
