package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asanchezr/consultor/internal/domain"
	"github.com/asanchezr/consultor/internal/intents"
	"github.com/asanchezr/consultor/internal/session"
)

type stubCaseFinder struct {
	cases []SimilarCase
	query string
}

func (s *stubCaseFinder) SimilarCases(_ context.Context, query string, _ int) ([]SimilarCase, error) {
	s.query = query
	return s.cases, nil
}

func TestGenerateReply_SimilarCases(t *testing.T) {
	finder := &stubCaseFinder{cases: []SimilarCase{{
		ID:          "a1b2c3d4",
		Methodology: "Scrum",
		Team:        []domain.TeamMember{{Role: "QA", Count: 1}},
		Total:       42000,
		Similarity:  0.83,
	}}}
	e := NewEngine(session.NewMemoryStore(), intents.NewRuleClassifier(), nil, finder)
	ctx := context.Background()

	reply, tag := e.GenerateReply(ctx, "s1", "¿tienes casos parecidos a este?")

	assert.Equal(t, TagAskSimilar, tag)
	assert.Contains(t, reply, "Casos similares en mi memoria:")
	assert.Contains(t, reply, "Caso #a1b2c3d4")
	assert.Contains(t, reply, "Metodología Scrum")
	assert.Contains(t, reply, "similitud 0.83")
}

func TestGenerateReply_SimilarCasesPrefersStoredRequirements(t *testing.T) {
	finder := &stubCaseFinder{cases: []SimilarCase{{ID: "x", Methodology: "XP"}}}
	e := NewEngine(session.NewMemoryStore(), intents.NewRuleClassifier(), nil, finder)
	ctx := context.Background()

	e.GenerateReply(ctx, "s1", "/propuesta: app de pagos con panel admin")
	e.GenerateReply(ctx, "s1", "¿hay proyectos similares?")

	assert.Equal(t, "app de pagos con panel admin", finder.query)
}

func TestGenerateReply_SimilarCasesWithoutFinder(t *testing.T) {
	e := newTestEngine()

	reply, tag := e.GenerateReply(context.Background(), "s1", "¿hay proyectos similares?")

	assert.Equal(t, TagAskSimilarNone, tag)
	assert.Contains(t, reply, "/propuesta:")
}
