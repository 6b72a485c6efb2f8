package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/asanchezr/consultor/internal/db"
	"github.com/asanchezr/consultor/internal/domain"
)

// SQLiteRecorder persists chat turns and proposal snapshots. The proposal
// row and its role rows commit atomically through the unit of work.
type SQLiteRecorder struct {
	uow      db.UnitOfWork
	messages *SQLiteMessageRepo
}

func NewSQLiteRecorder(uow db.UnitOfWork, dbtx db.DBTX) *SQLiteRecorder {
	return &SQLiteRecorder{
		uow:      uow,
		messages: NewSQLiteMessageRepo(dbtx),
	}
}

func (r *SQLiteRecorder) SaveProposal(ctx context.Context, sessionID, requirements string, p *domain.Proposal) error {
	rec := &ProposalRecord{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		Requirements: requirements,
		Proposal:     p,
		CreatedAt:    time.Now().UTC(),
	}
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteProposalLogRepo(tx).Save(ctx, rec)
	})
}

func (r *SQLiteRecorder) SaveMessage(ctx context.Context, sessionID, role, text string) error {
	return r.messages.Append(ctx, &Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   text,
		CreatedAt: time.Now().UTC(),
	})
}
