package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/asanchezr/consultor/internal/domain"
)

// SimilarCase is one precedent retrieved from the proposal log.
type SimilarCase struct {
	ID          string
	Methodology string
	Team        []domain.TeamMember
	Total       float64
	Similarity  float64
}

// CaseFinder retrieves past proposals whose requirements resemble a query.
// The engine works without one; similarity questions then report no data.
type CaseFinder interface {
	SimilarCases(ctx context.Context, query string, topK int) ([]SimilarCase, error)
}

const noSimilarCasesReply = "Aún no tengo casos guardados suficientes para comparar. " +
	"Genera una propuesta con '/propuesta: ...' y lo intento de nuevo."

// SimilarCasesText renders retrieved precedents for the chat.
func SimilarCasesText(cases []SimilarCase) string {
	out := []string{"Casos similares en mi memoria:"}
	for _, c := range cases {
		var team []string
		for _, m := range c.Team {
			team = append(team, fmt.Sprintf("%s x%g", m.Role, m.Count))
		}
		out = append(out, fmt.Sprintf("• Caso #%s — Metodología %s, Equipo: %s, Total: %s, similitud %.2f",
			c.ID, c.Methodology, strings.Join(team, ", "), FormatEUR(c.Total), c.Similarity))
	}
	return strings.Join(out, "\n")
}
