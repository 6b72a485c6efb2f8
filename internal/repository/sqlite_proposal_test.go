package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asanchezr/consultor/internal/db"
	"github.com/asanchezr/consultor/internal/domain"
	"github.com/asanchezr/consultor/internal/planner"
	"github.com/asanchezr/consultor/internal/testutil"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func sampleRecord(id, sessionID string) *ProposalRecord {
	return &ProposalRecord{
		ID:           id,
		SessionID:    sessionID,
		Requirements: "app de pagos con panel admin",
		Proposal:     planner.Generate("app de pagos con panel admin"),
		CreatedAt:    time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestProposalRepo_SaveAndLastBySession(t *testing.T) {
	d := setupTestDB(t)
	repo := NewSQLiteProposalLogRepo(d)
	ctx := context.Background()

	rec := sampleRecord("p1", "s1")
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.LastBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Requirements, got.Requirements)
	assert.Equal(t, rec.Proposal.Methodology, got.Proposal.Methodology)
	assert.Equal(t, rec.Proposal.Budget.Total, got.Proposal.Budget.Total)
	assert.Equal(t, rec.Proposal.Team, got.Proposal.Team)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
}

func TestProposalRepo_LastBySessionPicksNewest(t *testing.T) {
	d := setupTestDB(t)
	repo := NewSQLiteProposalLogRepo(d)
	ctx := context.Background()

	first := sampleRecord("p1", "s1")
	second := sampleRecord("p2", "s1")
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	second.Proposal.Methodology = "Kanban"
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.LastBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "p2", got.ID)
	assert.Equal(t, "Kanban", got.Proposal.Methodology)

	all, err := repo.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "p1", all[0].ID)
}

func TestProposalRepo_LastBySessionNotFound(t *testing.T) {
	d := setupTestDB(t)
	repo := NewSQLiteProposalLogRepo(d)

	_, err := repo.LastBySession(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRecorder_SaveProposalWritesRoleRows(t *testing.T) {
	d := setupTestDB(t)
	rec := NewSQLiteRecorder(db.NewSQLiteUnitOfWork(d), d)
	ctx := context.Background()

	p := planner.Generate("app de pagos con panel admin")
	require.NoError(t, rec.SaveProposal(ctx, "s1", "app de pagos con panel admin", p))

	var roleRows int
	require.NoError(t, d.QueryRow(`SELECT COUNT(*) FROM proposal_roles`).Scan(&roleRows))
	assert.Equal(t, len(p.Team), roleRows)
}

func TestRecorder_DuplicateRoleRollsBackWholeSnapshot(t *testing.T) {
	d := setupTestDB(t)
	rec := NewSQLiteRecorder(db.NewSQLiteUnitOfWork(d), d)
	ctx := context.Background()

	p := &domain.Proposal{
		Methodology: "Scrum",
		Team: []domain.TeamMember{
			{Role: "QA", Count: 1},
			{Role: "QA", Count: 2},
		},
	}
	require.Error(t, rec.SaveProposal(ctx, "s1", "req", p))

	var proposals int
	require.NoError(t, d.QueryRow(`SELECT COUNT(*) FROM proposals`).Scan(&proposals))
	assert.Equal(t, 0, proposals, "failed snapshot must not leave a partial row")
}

func TestRecorder_InjectedExecFailureRollsBack(t *testing.T) {
	d := setupTestDB(t)
	boom := errors.New("disk full")
	uow := &testutil.FailOnNthExecUoW{DB: d, FailOn: 2, Err: boom}
	rec := NewSQLiteRecorder(uow, d)

	p := planner.Generate("app de pagos con panel admin")
	err := rec.SaveProposal(context.Background(), "s1", "req", p)
	require.ErrorIs(t, err, boom)

	var proposals int
	require.NoError(t, d.QueryRow(`SELECT COUNT(*) FROM proposals`).Scan(&proposals))
	assert.Equal(t, 0, proposals)
}

func TestMessageRepo_AppendAndList(t *testing.T) {
	d := setupTestDB(t)
	repo := NewSQLiteMessageRepo(d)
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Append(ctx, &Message{ID: "m1", SessionID: "s1", Role: "user", Content: "hola", CreatedAt: base}))
	require.NoError(t, repo.Append(ctx, &Message{ID: "m2", SessionID: "s1", Role: "assistant", Content: "¡Hola!", CreatedAt: base.Add(time.Second)}))
	require.NoError(t, repo.Append(ctx, &Message{ID: "m3", SessionID: "other", Role: "user", Content: "x", CreatedAt: base}))

	msgs, err := repo.ListBySession(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "assistant", msgs[1].Role)

	limited, err := repo.ListBySession(ctx, "s1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMessageRepo_RejectsUnknownRole(t *testing.T) {
	d := setupTestDB(t)
	repo := NewSQLiteMessageRepo(d)

	err := repo.Append(context.Background(), &Message{
		ID: "m1", SessionID: "s1", Role: "system", Content: "x", CreatedAt: time.Now(),
	})
	assert.Error(t, err)
}
