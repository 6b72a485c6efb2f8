package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/asanchezr/consultor/internal/db"
	"github.com/asanchezr/consultor/internal/domain"
	"github.com/asanchezr/consultor/internal/engine"
)

// SimilarityIndex answers "proyectos similares" questions from the
// proposal log: term-frequency cosine between the query and the saved
// requirements texts. It re-reads the table on every call, so snapshots
// written since the last query are searchable without a refresh step.
type SimilarityIndex struct {
	db       db.DBTX
	maxItems int
}

func NewSimilarityIndex(dbtx db.DBTX) *SimilarityIndex {
	return &SimilarityIndex{db: dbtx, maxItems: 500}
}

func (s *SimilarityIndex) SimilarCases(ctx context.Context, query string, topK int) ([]engine.SimilarCase, error) {
	qv := termVector(query)
	if len(qv) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, requirements, payload FROM proposals ORDER BY created_at DESC, id DESC LIMIT ?`,
		s.maxItems)
	if err != nil {
		return nil, fmt.Errorf("reading proposal log for similarity: %w", err)
	}
	defer rows.Close()

	type scoredDoc struct {
		id         string
		payload    string
		similarity float64
	}
	var docs []scoredDoc
	seen := make(map[string]bool)
	for rows.Next() {
		var id, requirements, payload string
		if err := rows.Scan(&id, &requirements, &payload); err != nil {
			return nil, fmt.Errorf("scanning proposal row: %w", err)
		}
		// Re-saved snapshots of one conversation share a requirements
		// text; only the newest represents the case.
		key := domain.Normalize(requirements)
		if seen[key] {
			continue
		}
		seen[key] = true
		if sim := cosine(qv, termVector(requirements)); sim > 0 {
			docs = append(docs, scoredDoc{id: id, payload: payload, similarity: sim})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating proposals: %w", err)
	}

	sort.SliceStable(docs, func(i, j int) bool { return docs[i].similarity > docs[j].similarity })
	if len(docs) > topK {
		docs = docs[:topK]
	}

	out := make([]engine.SimilarCase, 0, len(docs))
	for _, d := range docs {
		var p domain.Proposal
		if err := json.Unmarshal([]byte(d.payload), &p); err != nil {
			return nil, fmt.Errorf("decoding proposal payload: %w", err)
		}
		out = append(out, engine.SimilarCase{
			ID:          shortID(d.id),
			Methodology: p.Methodology,
			Team:        p.Team,
			Total:       p.Budget.Total,
			Similarity:  d.similarity,
		})
	}
	return out, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func termVector(text string) map[string]float64 {
	out := make(map[string]float64)
	words := strings.FieldsFunc(domain.Normalize(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if len(w) >= 3 {
			out[w]++
		}
	}
	return out
}

func cosine(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for w, x := range a {
		na += x * x
		if y, ok := b[w]; ok {
			dot += x * y
		}
	}
	for _, y := range b {
		nb += y * y
	}
	if dot == 0 || na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
