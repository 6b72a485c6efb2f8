package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_UncertaintyFavorsScrum(t *testing.T) {
	best, why, ranking := Recommend("Producto nuevo con requisitos cambiantes, queremos un MVP para validar hipótesis")

	assert.Equal(t, "Scrum", best)
	require.NotEmpty(t, ranking)
	assert.Equal(t, "Scrum", ranking[0].Method)
	assert.NotEmpty(t, why, "recommendation should always explain itself")
}

func TestScore_OpsFlowFavorsKanban(t *testing.T) {
	best, _, ranking := Recommend("Equipo de soporte con tickets e incidencias, operación 24/7 con flujo continuo")

	assert.Equal(t, "Kanban", best)
	assert.Equal(t, "Kanban", ranking[0].Method)
}

func TestScore_MixedSignalsFavorScrumban(t *testing.T) {
	text := "Desarrollo con requisitos cambiantes y soporte de incidencias, con deadline estricto"
	best, _, _ := Recommend(text)

	assert.Equal(t, "Scrumban", best, "uncertainty+ops_flow with a deadline should promote the hybrid")
}

func TestScore_FixedDeadlineFavorsDSDM(t *testing.T) {
	best, _, _ := Recommend("Proyecto con fecha límite estricta y presupuesto fijo cerrado por contrato")

	assert.Equal(t, "DSDM", best)
}

func TestScore_LargeOrgFavorsSAFe(t *testing.T) {
	best, _, _ := Recommend("Programa con varios equipos coordinados a escala de portafolio")

	assert.Equal(t, "SAFe", best)
}

func TestScore_Deterministic(t *testing.T) {
	text := "Plataforma de pagos con seguridad crítica y websockets en tiempo real"

	first := Score(text)
	second := Score(text)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Method, second[i].Method)
		assert.Equal(t, first[i].Score, second[i].Score)
		assert.Equal(t, first[i].Why, second[i].Why)
	}
}

func TestScore_CoversWholeCatalog(t *testing.T) {
	ranking := Score("")

	require.Len(t, ranking, len(Catalog))
	seen := make(map[string]bool)
	for _, e := range ranking {
		seen[e.Method] = true
	}
	for _, m := range Catalog {
		assert.True(t, seen[m.Name], "missing %s in ranking", m.Name)
	}
}

func TestScore_NegativeWeightsApply(t *testing.T) {
	ranking := Score("Tenemos una fecha límite inamovible")

	for _, e := range ranking {
		if e.Method == "Scrum" {
			assert.InDelta(t, -0.8, e.Score, 0.001, "fixed deadline should penalize Scrum")
			assert.Contains(t, e.Why, "Plazo rígido reduce flexibilidad")
		}
	}
}

func TestWhyFor_FormatsJustifications(t *testing.T) {
	text := "Operación de soporte con tickets"
	ranking := Score(text)

	lines := WhyFor(ranking, "Kanban")

	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "Kanban")
	assert.Contains(t, lines, "- Operación/soporte con flujo continuo")
}

func TestExplain_IncludesFiredSignals(t *testing.T) {
	lines := Explain("App móvil con pagos por Stripe", "XP")

	require.NotEmpty(t, lines)
	joined := ""
	for _, l := range lines {
		joined += l + "\n"
	}
	assert.Contains(t, joined, "Señales detectadas")
	assert.Contains(t, joined, "payments")
	assert.Contains(t, joined, "mobile")
}
