package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asanchezr/consultor/internal/planner"
)

func TestSimilarityIndex_RetrievesClosestCase(t *testing.T) {
	d := setupTestDB(t)
	repo := NewSQLiteProposalLogRepo(d)
	ctx := context.Background()

	payments := sampleRecord("p1", "s1")
	payments.Requirements = "app de pagos con pasarela stripe y panel admin"
	payments.Proposal = planner.Generate(payments.Requirements)
	require.NoError(t, repo.Save(ctx, payments))

	education := sampleRecord("p2", "s2")
	education.Requirements = "plataforma educativa de cursos para alumnos"
	education.Proposal = planner.Generate(education.Requirements)
	require.NoError(t, repo.Save(ctx, education))

	idx := NewSimilarityIndex(d)
	cases, err := idx.SimilarCases(ctx, "app de pagos con stripe", 3)
	require.NoError(t, err)

	require.Len(t, cases, 1, "the education case shares no terms with the query")
	assert.Equal(t, "p1", cases[0].ID)
	assert.Equal(t, payments.Proposal.Methodology, cases[0].Methodology)
	assert.Equal(t, payments.Proposal.Budget.Total, cases[0].Total)
	assert.Greater(t, cases[0].Similarity, 0.0)
	assert.LessOrEqual(t, cases[0].Similarity, 1.0)
}

func TestSimilarityIndex_DeduplicatesResavedSnapshots(t *testing.T) {
	d := setupTestDB(t)
	repo := NewSQLiteProposalLogRepo(d)
	ctx := context.Background()

	first := sampleRecord("p1", "s1")
	second := sampleRecord("p2", "s1")
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	idx := NewSimilarityIndex(d)
	cases, err := idx.SimilarCases(ctx, "app de pagos con panel admin", 3)
	require.NoError(t, err)

	require.Len(t, cases, 1, "snapshots of one conversation count as one case")
	assert.Equal(t, "p2", cases[0].ID, "the newest snapshot represents the case")
}

func TestSimilarityIndex_EmptyLogAndEmptyQuery(t *testing.T) {
	d := setupTestDB(t)
	idx := NewSimilarityIndex(d)
	ctx := context.Background()

	cases, err := idx.SimilarCases(ctx, "app de pagos", 3)
	require.NoError(t, err)
	assert.Empty(t, cases)

	cases, err = idx.SimilarCases(ctx, "¿y?", 3)
	require.NoError(t, err)
	assert.Empty(t, cases)
}
