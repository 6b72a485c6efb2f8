package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asanchezr/consultor/internal/planner"
)

func TestParseTeamPatch_XForm(t *testing.T) {
	ops := ParseTeamPatch("QA x2")
	require.Len(t, ops, 1)
	assert.Equal(t, TeamOp{Op: "set", Role: "qa", Count: 2}, ops[0])
}

func TestParseTeamPatch_DecimalPointAndComma(t *testing.T) {
	ops := ParseTeamPatch("Backend Dev x1.5")
	require.Len(t, ops, 1)
	assert.Equal(t, "backend dev", ops[0].Role)
	assert.Equal(t, 1.5, ops[0].Count)

	ops = ParseTeamPatch("PM x0,5")
	require.Len(t, ops, 1)
	assert.Equal(t, "pm", ops[0].Role)
	assert.Equal(t, 0.5, ops[0].Count)
}

func TestParseTeamPatch_MultipleClauses(t *testing.T) {
	ops := ParseTeamPatch("QA x2, Backend Dev x3 y UX/UI x1")
	require.Len(t, ops, 3)
	assert.Equal(t, "qa", ops[0].Role)
	assert.Equal(t, "backend dev", ops[1].Role)
	assert.Equal(t, "ux/ui", ops[2].Role)
}

func TestParseTeamPatch_VerbForms(t *testing.T) {
	ops := ParseTeamPatch("añade 0.5 QA")
	require.Len(t, ops, 1)
	assert.Equal(t, "add", ops[0].Op)
	assert.Equal(t, 0.5, ops[0].Count)

	ops = ParseTeamPatch("pon pm a 1")
	require.Len(t, ops, 1)
	assert.Equal(t, TeamOp{Op: "set", Role: "pm", Count: 1}, ops[0])

	ops = ParseTeamPatch("elimina qa y añade medio devops")
	require.Len(t, ops, 2)
	assert.Equal(t, "remove", ops[0].Op)
	assert.Equal(t, "qa", ops[0].Role)
	assert.Equal(t, TeamOp{Op: "add", Role: "devops", Count: 0.5}, ops[1])
}

func TestParseTeamPatch_RiskEditIsNotARole(t *testing.T) {
	p := ParsePatch("añade riesgo: cumplimiento RGPD")
	require.NotNil(t, p)
	assert.Empty(t, p.TeamOps)
	require.Len(t, p.AddRisks, 1)
	assert.Contains(t, p.AddRisks[0], "cumplimiento rgpd")
}

func TestParsePatch_BudgetKnobs(t *testing.T) {
	p := ParsePatch("contingencia a 15% y tarifa de backend a 1200")
	require.NotNil(t, p)
	require.NotNil(t, p.ContingencyPct)
	assert.Equal(t, 0.15, *p.ContingencyPct)
	assert.Equal(t, 1200.0, p.RoleRates["Backend Dev"])
}

func TestParsePatch_UnrelatedTextIsNil(t *testing.T) {
	assert.Nil(t, ParsePatch("hola, ¿qué tal?"))
	assert.Nil(t, ParsePatch("¿cuánto cuesta el proyecto?"))
}

func TestApplyPatch_SetIsIdempotent(t *testing.T) {
	p := planner.Generate("app de pagos con panel admin")
	patch := ParsePatch("QA x2")
	require.NoError(t, ApplyPatch(p, patch))
	require.NoError(t, ApplyPatch(p, patch))

	m := p.FindRole("QA")
	require.NotNil(t, m)
	assert.Equal(t, 2.0, m.Count)

	// No duplicate entry under case-insensitive matching.
	count := 0
	for _, tm := range p.Team {
		if tm.Role == "QA" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestApplyPatch_AddAndRemove(t *testing.T) {
	p := planner.Generate("app web con usuarios y reportes")
	base := p.FindRole("QA").Count

	require.NoError(t, ApplyPatch(p, &Patch{TeamOps: []TeamOp{{Op: "add", Role: "qa", Count: 0.5}}}))
	assert.Equal(t, base+0.5, p.FindRole("QA").Count)

	require.NoError(t, ApplyPatch(p, &Patch{TeamOps: []TeamOp{{Op: "remove", Role: "ux"}}}))
	assert.Nil(t, p.FindRole("UX/UI"))
}

func TestApplyPatch_RecomputesBudget(t *testing.T) {
	p := planner.Generate("app web con usuarios y reportes")
	before := p.Budget.Total

	require.NoError(t, ApplyPatch(p, ParsePatch("Backend Dev x4")))

	assert.Greater(t, p.Budget.Total, before)
	assert.InDelta(t, p.Budget.Labor+p.Budget.Contingency, p.Budget.Total, 0.011)
}

func TestApplyPatch_ContingencyChangesTotal(t *testing.T) {
	p := planner.Generate("app web con usuarios y reportes")

	require.NoError(t, ApplyPatch(p, ParsePatch("contingencia a 20%")))

	assert.Equal(t, 0.20, p.Budget.Assumptions.ContingencyPct)
	assert.InDelta(t, p.Budget.Labor*0.20, p.Budget.Contingency, 0.011)
}

func TestApplyPatch_ZeroContingencyMeansNoBuffer(t *testing.T) {
	p := planner.Generate("app web con usuarios y reportes")

	require.NoError(t, ApplyPatch(p, ParsePatch("contingencia a 0%")))

	assert.Equal(t, 0.0, p.Budget.Assumptions.ContingencyPct)
	assert.Equal(t, 0.0, p.Budget.Contingency)
	assert.Equal(t, p.Budget.Labor, p.Budget.Total)

	// A later team patch recomputes the budget without resurrecting a
	// default contingency.
	require.NoError(t, ApplyPatch(p, ParsePatch("QA x2")))
	assert.Equal(t, 0.0, p.Budget.Assumptions.ContingencyPct)
	assert.Equal(t, p.Budget.Labor, p.Budget.Total)
}

func TestApplyPatch_SameRoleLaterClauseWins(t *testing.T) {
	p := planner.Generate("app web con usuarios y reportes")

	require.NoError(t, ApplyPatch(p, ParsePatch("QA x2, QA x3")))

	m := p.FindRole("QA")
	require.NotNil(t, m)
	assert.Equal(t, 3.0, m.Count, "clauses apply left to right, so the last mention wins")

	entries := 0
	for _, tm := range p.Team {
		if tm.Role == "QA" {
			entries++
		}
	}
	assert.Equal(t, 1, entries)
}

func TestParseChangeRequest(t *testing.T) {
	target, ok := ParseChangeRequest("prefiero kanban para este proyecto")
	require.True(t, ok)
	assert.Equal(t, "Kanban", target)

	target, ok = ParseChangeRequest("usemos extreme programming")
	require.True(t, ok)
	assert.Equal(t, "XP", target)

	target, ok = ParseChangeRequest("scrum en vez de kanban")
	require.True(t, ok)
	assert.Equal(t, "Scrum", target)

	_, ok = ParseChangeRequest("¿qué opinas del plan?")
	assert.False(t, ok)
}
