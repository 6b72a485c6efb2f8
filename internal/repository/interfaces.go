package repository

import (
	"context"
	"errors"
	"time"

	"github.com/asanchezr/consultor/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ProposalRecord is one persisted proposal snapshot. Snapshots are
// append-only: every accepted mutation writes a new row so a session's
// history stays reconstructable.
type ProposalRecord struct {
	ID           string
	SessionID    string
	Requirements string
	Proposal     *domain.Proposal
	CreatedAt    time.Time
}

// Message is one chat turn, either side.
type Message struct {
	ID        string
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}

// ProposalLogRepo persists proposal snapshots.
type ProposalLogRepo interface {
	Save(ctx context.Context, rec *ProposalRecord) error
	LastBySession(ctx context.Context, sessionID string) (*ProposalRecord, error)
	ListBySession(ctx context.Context, sessionID string) ([]*ProposalRecord, error)
}

// MessageRepo persists the chat transcript.
type MessageRepo interface {
	Append(ctx context.Context, m *Message) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*Message, error)
}
