package engine

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/asanchezr/consultor/internal/domain"
	"github.com/asanchezr/consultor/internal/knowledge"
	"github.com/asanchezr/consultor/internal/planner"
)

// eurPrinter renders amounts with Spanish digit grouping ("12.345,67").
var eurPrinter = message.NewPrinter(language.Spanish)

// FormatEUR formats a monetary amount as "12.345,67 €".
func FormatEUR(x float64) string {
	return eurPrinter.Sprintf("%.2f €", x)
}

// BudgetBrief is the one-line budget summary prepended to topic replies.
func BudgetBrief(p *domain.Proposal) string {
	total := "(no estimado)"
	if p.Budget.Total > 0 {
		total = FormatEUR(p.Budget.Total)
	}
	return fmt.Sprintf("Presupuesto estimado: %s (contingencia %.0f%%);", total, p.Budget.Assumptions.ContingencyPct*100)
}

// MethodIntro opens every topic reply with methodology, budget and the top
// practices, so follow-up answers stay anchored to the current plan.
func MethodIntro(p *domain.Proposal) string {
	lines := []string{"Metodología: " + p.Methodology, BudgetBrief(p)}
	if m, ok := knowledge.Get(p.Methodology); ok && len(m.Practices) > 0 {
		pract := m.Practices
		if len(pract) > 5 {
			pract = pract[:5]
		}
		lines = append(lines, "Prácticas recomendadas: "+strings.Join(pract, ", "))
	}
	return strings.Join(lines, "\n")
}

// PrettyProposal renders the proposal as the chat-facing summary block.
func PrettyProposal(p *domain.Proposal) string {
	var team []string
	for _, m := range p.Team {
		team = append(team, fmt.Sprintf("%s x%g", m.Role, m.Count))
	}
	var phases []string
	for _, ph := range p.Phases {
		phases = append(phases, fmt.Sprintf("%s (%ds)", ph.Name, ph.Weeks))
	}

	teamLine := "👥 Equipo: (sin definir)"
	if len(team) > 0 {
		teamLine = "👥 Equipo: " + strings.Join(team, ", ")
	}
	phaseLine := "🧩 Fases: (sin definir)"
	if len(phases) > 0 {
		phaseLine = "🧩 Fases: " + strings.Join(phases, " → ")
	}
	riskLine := "⚠️ Riesgos: (no definidos)"
	if len(p.Risks) > 0 {
		riskLine = "⚠️ Riesgos: " + strings.Join(p.Risks, "; ")
	}

	return strings.Join([]string{
		"📌 Metodología: " + p.Methodology,
		teamLine,
		phaseLine,
		fmt.Sprintf("💶 Presupuesto: %s (incluye %.0f%% contingencia)", FormatEUR(p.Budget.Total), p.Budget.Assumptions.ContingencyPct*100),
		riskLine,
	}, "\n")
}

// WhyBudget explains how the estimate was derived.
func WhyBudget(p *domain.Proposal) string {
	lines := []string{
		"Presupuesto — por qué:",
		"- Estimación = (headcount equivalente × semanas × tarifa media/rol).",
		fmt.Sprintf("- Se añade un %.0f%% de contingencia para incertidumbre técnica/alcance.", p.Budget.Assumptions.ContingencyPct*100),
		fmt.Sprintf("- Total estimado: %s (labor %s + contingencia %s).",
			FormatEUR(p.Budget.Total), FormatEUR(p.Budget.Labor), FormatEUR(p.Budget.Contingency)),
	}
	if p.Budget.Assumptions.IndustryNote != "" {
		lines = append(lines, "- Contexto de tarifas: "+p.Budget.Assumptions.IndustryNote)
	}
	return strings.Join(lines, "\n")
}

// BudgetBreakdown itemizes labor per role (FTE × rate × weeks), largest
// first, plus contingency and total.
func BudgetBreakdown(p *domain.Proposal) string {
	a := p.Budget.Assumptions
	weeks := a.ProjectWeeks
	if weeks == 0 {
		weeks = p.TotalWeeks()
	}
	mult := a.RateMultiplier
	if mult == 0 {
		mult = 1.0
	}

	type line struct {
		role   string
		fte    float64
		rate   float64
		amount float64
	}
	var rows []line
	for _, m := range p.Team {
		rate := planner.DefaultWeeklyRate
		if r, ok := a.RoleRates[m.Role]; ok {
			rate = r
		}
		rate *= mult
		rows = append(rows, line{m.Role, m.Count, rate, p.Budget.ByRole[m.Role]})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].amount > rows[j].amount })

	out := []string{"Presupuesto — desglose por rol:"}
	for _, r := range rows {
		out = append(out, fmt.Sprintf("- %s: %g FTE × %s/semana × %d semanas = %s",
			r.role, r.fte, FormatEUR(r.rate), weeks, FormatEUR(r.amount)))
	}
	out = append(out,
		fmt.Sprintf("Labor: %s", FormatEUR(p.Budget.Labor)),
		fmt.Sprintf("Contingencia (%.0f%%): %s", a.ContingencyPct*100, FormatEUR(p.Budget.Contingency)),
		fmt.Sprintf("Total: %s", FormatEUR(p.Budget.Total)),
	)
	return strings.Join(out, "\n")
}

// roleReasons states the value a role brings, with extras tied to the
// requirements text.
func roleReasons(role, requirements string) []string {
	t := domain.Normalize(requirements)
	switch role {
	case "QA":
		base := []string{
			"Reduce fuga de defectos y coste de corrección en producción.",
			"Automatiza regresión y asegura criterios de aceptación.",
		}
		if strings.Contains(t, "pagos") || strings.Contains(t, "stripe") {
			base = append(base, "Necesarias pruebas de integración con pasarela y anti-fraude.")
		}
		return base
	case "UX/UI":
		base := []string{"Mejora conversión y usabilidad; reduce retrabajo de frontend."}
		for _, k := range []string{"panel", "admin", "mobile", "app"} {
			if strings.Contains(t, k) {
				base = append(base, "Define flujos y componentes reutilizables (design system).")
				break
			}
		}
		return base
	case "Tech Lead":
		return []string{"Define arquitectura, estándares y CI/CD; desbloquea al equipo y controla deuda técnica."}
	case "PM":
		return []string{"Gestiona alcance, riesgos y stakeholders; protege al equipo y vigila plazos."}
	case "Backend Dev":
		base := []string{"Implementa APIs, dominio y seguridad; rendimiento y mantenibilidad del servidor."}
		if strings.Contains(t, "pagos") {
			base = append(base, "Integra pasarela de pagos, idempotencia y auditoría.")
		}
		return base
	case "Frontend Dev":
		return []string{"Construye la UX final, estado y accesibilidad; integra con backend y diseño."}
	case "ML Engineer":
		return []string{"Prototipa/productiviza modelos; evalúa drift y sesgos; integra batch/online."}
	}
	return []string{"Aporta valor específico al alcance detectado."}
}

// WhyRoleCount justifies the FTE assigned to one role.
func WhyRoleCount(role string, count float64, requirements string) string {
	reasons := roleReasons(role, requirements)
	switch {
	case count == 0.5:
		reasons = append([]string{"Dedicación parcial (0,5) por alcance acotado/consultivo."}, reasons...)
	case count == 1:
		reasons = append([]string{"1 persona suficiente para ownership y coordinación del área."}, reasons...)
	case count == 2:
		reasons = append([]string{"2 personas para paralelizar trabajo y reducir camino crítico."}, reasons...)
	case count > 2:
		reasons = append([]string{fmt.Sprintf("%g personas para throughput y cobertura de módulos en paralelo.", count)}, reasons...)
	}
	return fmt.Sprintf("¿Por qué %g %s?\n- %s", count, role, strings.Join(reasons, "\n- "))
}

// WhyTeam justifies the staffing as a whole and lists the breakdown.
func WhyTeam(p *domain.Proposal, requirements string) string {
	t := domain.Normalize(requirements)
	reasons := []string{
		"Cobertura completa del ciclo: PM, Tech Lead, Backend/Frontend, QA, UX/UI.",
		"Dimensionado para equilibrar time-to-market y coste.",
	}
	if strings.Contains(t, "pagos") || strings.Contains(t, "stripe") {
		reasons = append(reasons, "Se añade 0,5 Backend (payments) por PCI-DSS e idempotencia.")
	}
	if strings.Contains(t, "admin") || strings.Contains(t, "panel") {
		reasons = append(reasons, "Se añade 0,5 Frontend (admin) para backoffice (tablas, filtros).")
	}
	if strings.Contains(t, "ml") || strings.Contains(t, "ia") || strings.Contains(t, "modelo") {
		reasons = append(reasons, "Se añade 0,5 ML Engineer para prototipos y puesta en producción.")
	}

	var breakdown []string
	for _, m := range p.Team {
		breakdown = append(breakdown, fmt.Sprintf("- %s x%g", m.Role, m.Count))
	}
	return "Equipo — por qué:\n- " + strings.Join(reasons, "\n- ") + "\nDesglose:\n" + strings.Join(breakdown, "\n")
}

// WhyMethod justifies the chosen methodology with its score and the top of
// the ranking.
func WhyMethod(requirements, method string) string {
	why := knowledge.Explain(requirements, method)
	out := "¿Por qué " + method + "?\n- " + strings.Join(why, "\n- ")

	ranking := knowledge.Score(requirements)
	for _, e := range ranking {
		if e.Method == method {
			var top []string
			for i := 0; i < len(ranking) && i < 3; i++ {
				top = append(top, fmt.Sprintf("%s(%.2f)", ranking[i].Method, ranking[i].Score))
			}
			out += fmt.Sprintf("\nPuntuación %s: %.2f. Top3: %s.", method, e.Score, strings.Join(top, ", "))
			break
		}
	}
	return out
}

// DiscoveryPlan details the discovery phase for the current plan.
func DiscoveryPlan(p *domain.Proposal) string {
	weeks := 2
	for _, ph := range p.Phases {
		n := domain.Normalize(ph.Name)
		if strings.Contains(n, "discover") || strings.Contains(n, "descubrimiento") || strings.Contains(n, "incepcion") {
			weeks = ph.Weeks
			break
		}
	}

	out := []string{
		MethodIntro(p),
		fmt.Sprintf("## Plan detallado para la fase de Discovery (%d semanas)", weeks),
		"### Objetivos principales:",
		"- Definir alcance y límites del proyecto",
		"- Identificar riesgos técnicos y de negocio",
		"- Establecer decisiones técnicas y arquitectura inicial (ADRs)",
		"- Crear backlog inicial y priorizar MVP",
		"### Workshops y sesiones clave:",
	}
	switch knowledge.Resolve(p.Methodology) {
	case "Scrum":
		out = append(out,
			"- Sprint 0 / Kick-off (1–2 semanas): alinear Product Backlog y Definition of Ready",
			"- Workshop de Priorización con PO y stakeholders",
			"- Sesión técnica: spike para riesgos críticos")
	case "XP":
		out = append(out,
			"- Kick-off técnico con prototipos rápidos y spikes TDD",
			"- Sesiones de pair-programming para validar enfoques técnicos")
	case "Kanban":
		out = append(out,
			"- Taller de policies y entrada de trabajo para discovery",
			"- Mapear flujo de trabajo y dependencias")
	default:
		out = append(out,
			"- Kick-off con stakeholders y equipo técnico",
			"- Workshop de historias de usuario y priorización")
	}
	out = append(out,
		"### Entregables esperados:",
		"- Documento de visión y alcance",
		"- Backlog priorizado (historias con criterios de aceptación)",
		"- ADRs con decisiones técnicas críticas",
		"- Plan de releases y riesgos identificados",
		"### Responsabilidades (según roles detectados):")
	for _, m := range p.Team {
		r := domain.Normalize(m.Role)
		switch {
		case r == "pm":
			out = append(out, "- PM: lidera stakeholders, prioriza backlog y asegura decisiones de negocio")
		case strings.Contains(r, "tech") || strings.Contains(r, "lead"):
			out = append(out, "- Tech Lead: define estrategia técnica, coordina spikes y ADRs")
		case strings.Contains(r, "backend"):
			out = append(out, "- Backend: analizar integraciones, APIs y requisitos no funcionales")
		case strings.Contains(r, "frontend"):
			out = append(out, "- Frontend: prototipado rápido, validar UX y componentes críticos")
		case strings.Contains(r, "qa"):
			out = append(out, "- QA: preparar criterios de aceptación y estrategia de pruebas desde el inicio")
		}
	}
	out = append(out, "\nNota: "+BudgetBrief(p)+" Ajusta el alcance de Discovery si el presupuesto es limitado.")
	return strings.Join(out, "\n")
}

// RiskAnalysis prioritizes the plan's risks with mitigations.
func RiskAnalysis(p *domain.Proposal) string {
	out := []string{
		MethodIntro(p),
		"## Análisis de riesgos técnicos — Prioridad y mitigación",
		"### Riesgo: Rendimiento y escalabilidad",
		"- Mitigaciones: definir SLOs, benchmarks y pruebas de carga tempranas",
		"- Plan de capacity y métricas para detectar degradación",
		"### Riesgo: Seguridad y compliance",
		"- Mitigaciones: security reviews regulares, OWASP checklist, SAST/DAST en CI",
		"- Gestión de secretos y políticas de acceso",
	}
	switch knowledge.Resolve(p.Methodology) {
	case "Scrum":
		out = append(out, "\nRecomendaciones (Scrum): revisar riesgos cada sprint, asignar owners y añadir mitigaciones en el backlog como stories o spikes.")
	case "XP":
		out = append(out, "\nRecomendaciones (XP): mitigar riesgos críticos mediante TDD, pair programming y spikes técnicos cortos.")
	case "Kanban":
		out = append(out, "\nRecomendaciones (Kanban): visualizar riesgos en el tablero, limitar WIP en columnas críticas y priorizar mitigaciones por flujo.")
	}
	if len(p.Risks) > 0 {
		out = append(out, "\nRiesgos detectados en la propuesta:")
		for _, r := range p.Risks {
			out = append(out, fmt.Sprintf("- %s — Priorizar por impacto/probabilidad y asignar owner.", r))
		}
	}
	if p.Budget.Total > 0 && p.Budget.Total < 20000 {
		out = append(out, "\nNota: presupuesto reducido — prioriza mitigaciones críticas (security, pagos) y usa spikes cortos en lugar de ampliaciones de equipo.")
	}
	return strings.Join(out, "\n")
}

// KPIPlan recommends metrics for the current methodology.
func KPIPlan(p *domain.Proposal) string {
	out := []string{MethodIntro(p), "## KPIs recomendados — técnicos y de negocio"}
	switch knowledge.Resolve(p.Methodology) {
	case "Scrum":
		out = append(out,
			"- Velocidad del equipo (historias completadas/sprint)",
			"- Sprint completion rate",
			"- Lead time por historia",
			"- Defect escape rate (bugs en producción)")
	case "Kanban":
		out = append(out,
			"- Lead time y cycle time (por tipo de trabajo)",
			"- Throughput (items completados/semana)",
			"- WIP por columna")
	case "XP":
		out = append(out,
			"- Cobertura de tests",
			"- Tiempo medio de resolución de fallos",
			"- MTTR (Mean Time to Restore)")
	default:
		out = append(out,
			"- Métricas de adopción: usuarios activos, retención",
			"- Métricas de calidad: bugs/semana, cobertura de tests",
			"- Métricas de entrega: lead time, deploy frequency")
	}
	return strings.Join(out, "\n")
}

// QAPlan lays out the testing strategy for the current methodology.
func QAPlan(p *domain.Proposal) string {
	out := []string{MethodIntro(p), "## Plan de QA y estrategia de pruebas"}
	switch knowledge.Resolve(p.Methodology) {
	case "XP":
		out = append(out,
			"- TDD como práctica central; tests en cada commit",
			"- Pair programming y code review intensivo",
			"- Automatizar E2E y contract tests en CI")
	case "Scrum":
		out = append(out,
			"- Integrar QA en el sprint: criterios de aceptación claros y Definition of Done",
			"- Automatización en CI para pruebas unitarias e integración",
			"- E2E en environment de staging previo a release")
	case "Kanban":
		out = append(out,
			"- Pipeline continuo de pruebas: unit, integration y smoke tests",
			"- Gates de calidad en pasos del flujo para evitar regresiones")
	default:
		out = append(out,
			"- Definir niveles de testing: unit/integration/e2e/performance/security",
			"- Integrar suites automáticas en CI")
	}
	if p.Budget.Total > 0 && p.Budget.Total < 30000 {
		out = append(out, "\nNota: con presupuesto limitado prioriza smoke tests y automatización mínima para flujos críticos; externaliza tests de performance si hace falta.")
	}
	return strings.Join(out, "\n")
}

// DeploymentPlan outlines the CI/CD and release approach.
func DeploymentPlan(p *domain.Proposal) string {
	out := []string{
		MethodIntro(p),
		"## Estrategia de despliegue y CI/CD",
		"- Pipelines: build → test → security → deploy",
		"- Recomendado: deploy automatizado a staging y despliegue controlado a producción (canary/blue-green)",
		"- Monitoreo: métricas de error, latencia y uso de recursos",
	}
	switch knowledge.Resolve(p.Methodology) {
	case "SAFe":
		out = append(out, "- En SAFe: coordina releases por Program Increments y documenta runbooks y rollback claramente.")
	case "DevOps":
		out = append(out, "- Enfoque DevOps: infra as code, pipelines reproducibles y observabilidad como código.")
	}
	return strings.Join(out, "\n")
}

// DeliverablesPlan lists per-phase deliverables.
func DeliverablesPlan(p *domain.Proposal) string {
	out := []string{MethodIntro(p), "## Entregables por fase"}
	for _, ph := range p.Phases {
		out = append(out,
			fmt.Sprintf("### %s (%d semanas)", ph.Name, ph.Weeks),
			"#### Documentación mínima:",
			"- Plan de la fase; criterios de aceptación; lista de riesgos",
			"#### Código / Artefactos técnicos:",
			"- Repositorio con tests básicos y CI configurado")
		n := domain.Normalize(ph.Name)
		switch {
		case strings.Contains(n, "discover") || strings.Contains(n, "descubrimiento") || strings.Contains(n, "incepcion"):
			out = append(out, "- Documento de visión; backlog priorizado; ADRs")
		case strings.Contains(n, "sprint") || strings.Contains(n, "desarrollo") || strings.Contains(n, "iteracion") || strings.Contains(n, "implementacion"):
			out = append(out, "- Incremento funcional entregable; API docs; migration scripts")
		case strings.Contains(n, "qa") || strings.Contains(n, "hardening"):
			out = append(out, "- Reports de tests, coverage y resultados de performance")
		case strings.Contains(n, "deploy") || strings.Contains(n, "release") || strings.Contains(n, "despliegue") || strings.Contains(n, "produccion"):
			out = append(out, "- Release notes, runbook de despliegue, checklist pre/post")
		}
	}
	return strings.Join(out, "\n")
}

// SourcesText cites the references behind the current proposal.
func SourcesText(p *domain.Proposal) string {
	if len(p.Sources) == 0 {
		return "No tengo fuentes registradas para esta propuesta."
	}
	out := []string{"Fuentes generales de la propuesta — referencias:"}
	for _, s := range p.Sources {
		out = append(out, fmt.Sprintf("- %s: *%s* (%d). %s", s.Author, s.Title, s.Year, s.URL))
	}
	return strings.Join(out, "\n")
}

// CurriculumText describes how a methodology is worked day to day:
// ceremonies, typical phases, roles, metrics and advanced advice.
func CurriculumText(method string) string {
	c, ok := knowledge.CurriculumFor(method)
	if !ok {
		return "No tengo temario detallado para " + method + ". Pídeme el catálogo y te digo cuáles manejo."
	}
	name := knowledge.Resolve(method)
	out := []string{"Cómo se trabaja en " + name + ":"}
	block := func(title string, items []string) {
		if len(items) > 0 {
			out = append(out, "- "+title+": "+strings.Join(items, ", "))
		}
	}
	block("Ceremonias", c.Rituals)
	block("Fases típicas", c.Phases)
	block("Roles", c.Roles)
	block("Métricas", c.Metrics)
	block("Consejos avanzados", c.Advanced)
	return strings.Join(out, "\n")
}

// CatalogText lists the supported methodologies with one-line briefs.
func CatalogText() string {
	out := []string{"Metodologías que manejo:"}
	for _, name := range knowledge.Names() {
		out = append(out, fmt.Sprintf("- %s: %s", name, knowledge.MethodBrief(name)))
	}
	out = append(out, "Dime tus requisitos o usa '/propuesta: ...' y te recomiendo la que mejor encaja.")
	return strings.Join(out, "\n")
}

// PhasesSummary explains each phase of the plan in one line.
func PhasesSummary(p *domain.Proposal) string {
	out := []string{fmt.Sprintf("Fases justificadas según la metodología %s:", p.Methodology)}
	for _, ph := range p.Phases {
		d := knowledge.PhaseFor(ph.Name)
		goal := "aporta entregables que reducen riesgos específicos"
		if len(d.Goals) > 0 {
			goal = d.Goals[0]
		}
		out = append(out, fmt.Sprintf("- %s (%d semanas): %s", ph.Name, ph.Weeks, goal))
	}
	return strings.Join(out, "\n")
}
