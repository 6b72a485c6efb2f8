package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asanchezr/consultor/internal/planner"
)

const sampleRoster = "- Ana Ruiz — Backend — Python, Django, AWS — Senior — 100%\n" +
	"- Luis Pérez — QA — Cypress, E2E — Semi Senior — 50%"

func TestParseStaffList_CanonicalFormat(t *testing.T) {
	staff := ParseStaffList(sampleRoster)
	require.Len(t, staff, 2)

	ana := staff[0]
	assert.Equal(t, "Ana Ruiz", ana.Name)
	assert.Equal(t, "Backend Dev", ana.Role)
	assert.Equal(t, "senior", ana.Seniority)
	assert.Equal(t, 100, ana.AvailabilityPct)
	assert.Contains(t, ana.Skills, "Python")
	assert.Contains(t, ana.Skills, "Django")

	luis := staff[1]
	assert.Equal(t, "Luis Pérez", luis.Name)
	assert.Equal(t, "QA", luis.Role)
	assert.Equal(t, 50, luis.AvailabilityPct)
}

func TestParseStaffList_SingleLineBullets(t *testing.T) {
	staff := ParseStaffList("- Ana — Backend — Python - Luis — QA — Cypress; Eva — Frontend — React")
	require.Len(t, staff, 3)
	assert.Equal(t, "Ana", staff[0].Name)
	assert.Equal(t, "Luis", staff[1].Name)
	assert.Equal(t, "Eva", staff[2].Name)
	assert.Equal(t, "Frontend Dev", staff[2].Role)
}

func TestParseStaffList_AlternateSeparators(t *testing.T) {
	staff := ParseStaffList("Ana | Backend | Python\nLuis : QA : Cypress")
	require.Len(t, staff, 2)
	assert.Equal(t, "Backend Dev", staff[0].Role)
	assert.Equal(t, "QA", staff[1].Role)
}

func TestParseStaffList_AvailabilityDefaultsAndCaps(t *testing.T) {
	staff := ParseStaffList("Ana — Backend — Python\nPepe — QA — Cypress — 150%")
	require.Len(t, staff, 2)
	assert.Equal(t, 100, staff[0].AvailabilityPct, "missing availability defaults to full time")
	assert.Equal(t, 100, staff[1].AvailabilityPct, "availability is capped at 100")
}

func TestParseStaffList_JuniorSeniority(t *testing.T) {
	staff := ParseStaffList("Eva — Frontend — React — Junior — 80%")
	require.Len(t, staff, 1)
	assert.Equal(t, "junior", staff[0].Seniority)
	assert.Equal(t, 80, staff[0].AvailabilityPct)
}

func TestScoreStaffForRole_DeclaredRoleAndSkillsWin(t *testing.T) {
	staff := ParseStaffList(sampleRoster)
	ana, luis := staff[0], staff[1]

	assert.Greater(t, scoreStaffForRole("Backend Dev", ana), scoreStaffForRole("Backend Dev", luis))
	assert.Greater(t, scoreStaffForRole("QA", luis), scoreStaffForRole("QA", ana))
}

func TestScoreStaffForRole_LowAvailabilityPenalized(t *testing.T) {
	full := StaffMember{Name: "A", Role: "QA", Skills: []string{"Cypress"}, AvailabilityPct: 100}
	scarce := full
	scarce.AvailabilityPct = 40

	assert.Greater(t, scoreStaffForRole("QA", full), scoreStaffForRole("QA", scarce))
}

func TestSuggestStaffing_AssignsBestPersonPerRole(t *testing.T) {
	p := planner.Generate("app de pagos con panel admin")
	staff := ParseStaffList(sampleRoster)

	out := strings.Join(SuggestStaffing(p, staff), "\n")

	assert.Contains(t, out, "Asignación por rol (mejor persona y por qué)")
	assert.Contains(t, out, "- QA: Luis Pérez")
	assert.Contains(t, out, "- Backend Dev: Ana Ruiz")
	assert.Contains(t, out, "· Alternativas:")
	assert.Contains(t, out, "Asignación sugerida por fase/tareas")
}

func TestRenderTrainingPlan_ReportsUncoveredTopics(t *testing.T) {
	p := planner.Generate("app de pagos con panel admin")
	staff := ParseStaffList(sampleRoster)

	out := strings.Join(RenderTrainingPlan(p, "app de pagos con panel admin", staff), "\n")

	assert.Contains(t, out, "Gaps detectados & plan de formación")
	// Payment risks demand PCI knowledge nobody on the roster has.
	assert.Contains(t, out, "- pci —")
	assert.Contains(t, out, "Upskilling recomendado:")
	assert.Contains(t, out, "Recursos:")
	assert.Contains(t, out, "Refuerzo externo 0.5 FTE")
	// Cypress is covered by the roster, so it is not a gap.
	assert.NotContains(t, out, "- cypress —")
}

func TestGenerateReply_AcceptanceOpensStaffingFlow(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	e.GenerateReply(ctx, "s1", "/propuesta: app de pagos con panel admin")

	reply, tag := e.GenerateReply(ctx, "s1", "aceptamos la propuesta")
	require.Equal(t, TagStaffingPrompt, tag)
	assert.Contains(t, reply, "Nombre — Rol — Skills clave — Seniority — Disponibilidad%")

	reply, tag = e.GenerateReply(ctx, "s1", sampleRoster)
	require.Equal(t, TagStaffingAssigned, tag)
	assert.Contains(t, reply, "Asignación por rol")
	assert.Contains(t, reply, "Ana Ruiz")
	assert.Contains(t, reply, "Gaps detectados & plan de formación")
}

func TestGenerateReply_AcceptanceNeedsProposal(t *testing.T) {
	e := newTestEngine()

	_, tag := e.GenerateReply(context.Background(), "s1", "aceptamos la propuesta")

	assert.NotEqual(t, TagStaffingPrompt, tag)
}

func TestGenerateReply_UnreadableRoster(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	e.GenerateReply(ctx, "s1", "/propuesta: app de pagos con panel admin")

	reply, tag := e.GenerateReply(ctx, "s1", "el equipo: backend\ny también qa")

	assert.Equal(t, TagStaffingUnparsed, tag)
	assert.Contains(t, reply, "No pude reconocer la plantilla")
}

func TestGenerateReply_TrainingPlanAfterRoster(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	e.GenerateReply(ctx, "s1", "/propuesta: app de pagos con panel admin")
	e.GenerateReply(ctx, "s1", sampleRoster)

	reply, tag := e.GenerateReply(ctx, "s1", "¿qué gaps tiene el equipo?")

	assert.Equal(t, TagStaffingTraining, tag)
	assert.Contains(t, reply, "Gaps detectados & plan de formación")
}

func TestGenerateReply_TrainingPlanWithoutRosterAsksForIt(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	e.GenerateReply(ctx, "s1", "/propuesta: app de pagos con panel admin")

	reply, tag := e.GenerateReply(ctx, "s1", "¿qué carencias de formación tiene el equipo?")

	assert.Equal(t, TagStaffingNoRoster, tag)
	assert.Contains(t, reply, "plantilla")
}

func TestGenerateReply_BareFormacionStillMeansCurriculum(t *testing.T) {
	e := newTestEngine()

	_, tag := e.GenerateReply(context.Background(), "s1", "háblame de la formación en kanban")

	assert.Equal(t, TagAskCurriculum, tag)
}
