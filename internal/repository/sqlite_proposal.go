package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/asanchezr/consultor/internal/db"
	"github.com/asanchezr/consultor/internal/domain"
)

// SQLiteProposalLogRepo implements ProposalLogRepo on SQLite. The full
// proposal travels as a JSON payload; team rows are additionally stored
// normalized so history can be queried per role.
type SQLiteProposalLogRepo struct {
	db db.DBTX
}

func NewSQLiteProposalLogRepo(dbtx db.DBTX) *SQLiteProposalLogRepo {
	return &SQLiteProposalLogRepo{db: dbtx}
}

func (r *SQLiteProposalLogRepo) Save(ctx context.Context, rec *ProposalRecord) error {
	payload, err := json.Marshal(rec.Proposal)
	if err != nil {
		return fmt.Errorf("encoding proposal payload: %w", err)
	}

	query := `INSERT INTO proposals (id, session_id, requirements, methodology, total_eur, contingency_pct, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID,
		rec.SessionID,
		rec.Requirements,
		rec.Proposal.Methodology,
		rec.Proposal.Budget.Total,
		rec.Proposal.Budget.Assumptions.ContingencyPct,
		string(payload),
		rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting proposal: %w", err)
	}

	for _, m := range rec.Proposal.Team {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO proposal_roles (proposal_id, role, count) VALUES (?, ?, ?)`,
			rec.ID, m.Role, m.Count); err != nil {
			return fmt.Errorf("inserting proposal role %q: %w", m.Role, err)
		}
	}
	return nil
}

func (r *SQLiteProposalLogRepo) LastBySession(ctx context.Context, sessionID string) (*ProposalRecord, error) {
	query := `SELECT id, session_id, requirements, payload, created_at
		FROM proposals WHERE session_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, sessionID)
	return r.scanProposal(row)
}

func (r *SQLiteProposalLogRepo) ListBySession(ctx context.Context, sessionID string) ([]*ProposalRecord, error) {
	query := `SELECT id, session_id, requirements, payload, created_at
		FROM proposals WHERE session_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing proposals by session: %w", err)
	}
	defer rows.Close()

	var recs []*ProposalRecord
	for rows.Next() {
		var rec ProposalRecord
		var payload, createdAtStr string
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Requirements, &payload, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning proposal row: %w", err)
		}
		if err := r.populateProposal(&rec, payload, createdAtStr); err != nil {
			return nil, err
		}
		recs = append(recs, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating proposals: %w", err)
	}
	return recs, nil
}

func (r *SQLiteProposalLogRepo) scanProposal(row *sql.Row) (*ProposalRecord, error) {
	var rec ProposalRecord
	var payload, createdAtStr string

	err := row.Scan(&rec.ID, &rec.SessionID, &rec.Requirements, &payload, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("proposal: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning proposal: %w", err)
	}
	if err := r.populateProposal(&rec, payload, createdAtStr); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *SQLiteProposalLogRepo) populateProposal(rec *ProposalRecord, payload, createdAtStr string) error {
	var p domain.Proposal
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return fmt.Errorf("decoding proposal payload: %w", err)
	}
	rec.Proposal = &p

	createdAt, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	rec.CreatedAt = createdAt
	return nil
}
