package planner

import (
	"testing"

	"github.com/asanchezr/consultor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_BaselineTeam(t *testing.T) {
	p := Generate("Sistema de gestión documental para una pyme")

	require.NoError(t, p.Validate())
	for _, role := range []string{"PM", "Tech Lead", "Backend Dev", "Frontend Dev", "QA", "UX/UI"} {
		m := p.FindRole(role)
		require.NotNil(t, m, "baseline role %s missing", role)
		assert.Greater(t, m.Count, 0.0)
	}
	assert.NotEmpty(t, p.Phases)
	assert.NotEmpty(t, p.Risks)
	assert.NotEmpty(t, p.Explanation)
	assert.Greater(t, p.Budget.Total, p.Budget.Labor)
}

func TestGenerate_TechnicalAdjustments(t *testing.T) {
	p := Generate("Plataforma con panel de administración, pagos con Stripe y un modelo de machine learning")

	require.NoError(t, p.Validate())
	assert.Equal(t, 1.5, p.FindRole("Frontend Dev").Count, "admin adds half a frontend")
	assert.Equal(t, 2.5, p.FindRole("Backend Dev").Count, "payments adds half a backend")
	require.NotNil(t, p.FindRole("ML Engineer"))
	assert.Equal(t, 0.5, p.FindRole("ML Engineer").Count)
}

func TestGenerate_FintechProfile(t *testing.T) {
	p := Generate("Aplicación fintech de pagos para un banco, seguridad crítica y auditorías PCI")

	require.NoError(t, p.Validate())
	assert.Equal(t, 2.0, p.FindRole("QA").Count, "fintech doubles QA")
	require.NotNil(t, p.FindRole("Security Engineer"))
	require.NotNil(t, p.FindRole("Compliance"))
	assert.Equal(t, 1.30, p.Budget.Assumptions.RateMultiplier)
	assert.Equal(t, 0.15, p.Budget.Assumptions.ContingencyPct)
	assert.Contains(t, p.Budget.Assumptions.IndustryNote, "Fintech")
}

func TestGenerate_StartupTrimsOverheadAndRates(t *testing.T) {
	p := Generate("Startup buscando su producto mínimo viable")

	require.NoError(t, p.Validate())
	assert.Equal(t, 0.25, p.FindRole("PM").Count)
	assert.Equal(t, 0.25, p.FindRole("Tech Lead").Count)
	assert.Equal(t, 0.90, p.Budget.Assumptions.RateMultiplier)
	assert.Equal(t, 0.20, p.Budget.Assumptions.ContingencyPct)
}

func TestGenerate_EnterpriseLengthensSchedule(t *testing.T) {
	standard := Generate("Sistema de reservas sencillo")
	enterprise := Generate("Sistema para varios equipos a escala de portafolio corporativo")

	assert.Greater(t, enterprise.TotalWeeks(), standard.TotalWeeks())
	require.NotNil(t, enterprise.FindRole("Architect"))
	assert.Equal(t, 1.0, enterprise.FindRole("PM").Count, "enterprise doubles PM")
}

func TestGenerate_MethodologySpecificPhases(t *testing.T) {
	kanban := GenerateFor("Soporte con tickets", "Kanban")
	scrum := GenerateFor("Soporte con tickets", "Scrum")

	assert.Equal(t, "Kanban", kanban.Methodology)
	assert.Contains(t, kanban.Phases[1].Name, "WIP")
	assert.Contains(t, scrum.Phases[1].Name, "Sprints")
}

func TestGenerate_SignalRisks(t *testing.T) {
	p := Generate("App móvil con pagos en tiempo real")

	joined := ""
	for _, r := range p.Risks {
		joined += r + "\n"
	}
	assert.Contains(t, joined, "PCI-DSS")
	assert.Contains(t, joined, "Latencia")
	assert.Contains(t, joined, "tiendas")
}

func TestGenerate_PhasesCarryDeliverables(t *testing.T) {
	p := GenerateFor("Sistema de gestión", "Scrum")

	require.NotEmpty(t, p.Phases)
	assert.NotEmpty(t, p.Phases[0].Deliverables, "discovery phase should list deliverables")
}

func TestRetune_PreservesTeamPatches(t *testing.T) {
	req := "Sistema de gestión con metodología ágil"
	p := Generate(req)
	p.SetRoleCount("PM", 2.0)
	Recompute(p)

	Retune(p, "Kanban", req)

	assert.Equal(t, "Kanban", p.Methodology)
	assert.Equal(t, 2.0, p.FindRole("PM").Count, "methodology switch must not reset patched counts")
	assert.Contains(t, p.Phases[1].Name, "WIP")
}

func TestRetune_AndPatchCommute(t *testing.T) {
	req := "Plataforma de reservas para hoteles"

	a := Generate(req)
	Retune(a, "XP", req)
	a.SetRoleCount("QA", 2.0)
	Recompute(a)

	b := Generate(req)
	b.SetRoleCount("QA", 2.0)
	Recompute(b)
	Retune(b, "XP", req)

	assert.Equal(t, a.Methodology, b.Methodology)
	assert.Equal(t, a.Budget.Total, b.Budget.Total)
	require.Equal(t, len(a.Team), len(b.Team))
	for i := range a.Team {
		assert.Equal(t, a.Team[i], b.Team[i])
	}
}

func TestBudget_Composition(t *testing.T) {
	p := Generate("Sistema interno de informes")

	var sum float64
	for _, v := range p.Budget.ByRole {
		sum += v
	}
	assert.InDelta(t, p.Budget.Labor, sum, 0.01)
	assert.InDelta(t, p.Budget.Total, p.Budget.Labor+p.Budget.Contingency, 0.01)
}

func TestRecompute_MonotoneInCounts(t *testing.T) {
	p := Generate("Sistema de gestión de almacén")
	before := p.Budget.Labor

	p.SetRoleCount("QA", p.FindRole("QA").Count+1)
	Recompute(p)

	assert.Greater(t, p.Budget.Labor, before)
}

func TestRecompute_UnknownRoleUsesDefaultRate(t *testing.T) {
	p := Generate("Sistema de gestión")
	p.SetRoleCount("Growth Hacker", 1.0)
	Recompute(p)

	weeks := float64(p.Budget.Assumptions.ProjectWeeks)
	expected := domain.RoundMoney(1.0 * weeks * DefaultWeeklyRate * p.Budget.Assumptions.RateMultiplier)
	assert.InDelta(t, expected, p.Budget.ByRole["Growth Hacker"], 0.01)
}
