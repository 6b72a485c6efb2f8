package planner

import (
	"github.com/asanchezr/consultor/internal/domain"
	"github.com/asanchezr/consultor/internal/knowledge"
)

// baselineTeam is the staffing template every proposal starts from.
var baselineTeam = []domain.TeamMember{
	{Role: "PM", Count: 0.5},
	{Role: "Tech Lead", Count: 0.5},
	{Role: "Backend Dev", Count: 2.0},
	{Role: "Frontend Dev", Count: 1.0},
	{Role: "QA", Count: 1.0},
	{Role: "UX/UI", Count: 0.5},
}

// roleAdjustment adds FTE to a role when its signal fires. Kept as a table
// so new needs and industries extend the list without touching the builder.
type roleAdjustment struct {
	signal string
	role   string
	add    float64
}

var technicalAdjustments = []roleAdjustment{
	{"admin", "Frontend Dev", 0.5},
	{"payments", "Backend Dev", 0.5},
	{"ml_ai", "ML Engineer", 0.5},
	{"iot", "IoT Engineer", 0.5},
	{"high_availability", "DevOps", 0.5},
}

// industryProfile bundles every industry-specific adjustment: staffing,
// rates, contingency and schedule. Profiles are evaluated in order and the
// first matching signal wins, mirroring an exclusive classification.
type industryProfile struct {
	signal         string
	note           string
	rateMultiplier float64
	contingencyPct float64
	durationMult   float64
	extraRoles     []roleAdjustment
}

var industryProfiles = []industryProfile{
	{
		signal: "fintech", note: "Fintech (regulación PCI-DSS, fraude, seguridad crítica)",
		rateMultiplier: 1.30, contingencyPct: 0.15, durationMult: 1.2,
		extraRoles: []roleAdjustment{
			{role: "QA", add: 1.0},
			{role: "Security Engineer", add: 0.5},
			{role: "Compliance", add: 0.25},
		},
	},
	{
		signal: "insurtech", note: "InsurTech (compliance, cálculos actuariales)",
		rateMultiplier: 1.25, contingencyPct: 0.15, durationMult: 1.2,
		extraRoles: []roleAdjustment{
			{role: "QA", add: 0.5},
			{role: "Compliance", add: 0.25},
		},
	},
	{
		signal: "healthtech", note: "HealthTech (HIPAA, datos médicos sensibles)",
		rateMultiplier: 1.30, contingencyPct: 0.15, durationMult: 1.2,
		extraRoles: []roleAdjustment{
			{role: "QA", add: 0.5},
			{role: "Security Engineer", add: 0.5},
			{role: "HIPAA Compliance", add: 0.25},
		},
	},
	{
		signal: "legal_tech", note: "LegalTech (precisión crítica en contratos)",
		rateMultiplier: 1.20, contingencyPct: 0.10, durationMult: 1.0,
		extraRoles: []roleAdjustment{
			{role: "Security Engineer", add: 0.5},
		},
	},
	{
		signal: "gaming", note: "Gaming (talento especializado, game design)",
		rateMultiplier: 1.15, contingencyPct: 0.10, durationMult: 1.0,
		extraRoles: []roleAdjustment{
			{role: "DevOps", add: 0.5},
			{role: "Game Designer", add: 0.5},
		},
	},
	{
		signal: "media", note: "Media/Streaming (infraestructura CDN)",
		rateMultiplier: 1.10, contingencyPct: 0.10, durationMult: 1.0,
		extraRoles: []roleAdjustment{
			{role: "DevOps", add: 0.5},
		},
	},
	{
		signal: "erp", note: "Enterprise/ERP (sistemas complejos multi-módulo)",
		rateMultiplier: 1.12, contingencyPct: 0.12, durationMult: 1.4,
		extraRoles: []roleAdjustment{
			{role: "PM", add: 0.5},
			{role: "Architect", add: 0.5},
			{role: "Backend Dev", add: 1.0},
		},
	},
	{
		signal: "large_org", note: "Enterprise/ERP (sistemas complejos multi-módulo)",
		rateMultiplier: 1.12, contingencyPct: 0.12, durationMult: 1.4,
		extraRoles: []roleAdjustment{
			{role: "PM", add: 0.5},
			{role: "Architect", add: 0.5},
			{role: "Backend Dev", add: 1.0},
		},
	},
	{
		signal: "logistics", note: "Logistics/Retail/Travel (mercado competitivo)",
		rateMultiplier: 0.95, contingencyPct: 0.10, durationMult: 1.0,
	},
	{
		signal: "retail", note: "Logistics/Retail/Travel (mercado competitivo)",
		rateMultiplier: 0.95, contingencyPct: 0.10, durationMult: 1.0,
	},
	{
		signal: "travel", note: "Logistics/Retail/Travel (mercado competitivo)",
		rateMultiplier: 0.95, contingencyPct: 0.10, durationMult: 1.0,
	},
	{
		signal: "startup", note: "Startup (equity compensation, riesgo compartido)",
		rateMultiplier: 0.90, contingencyPct: 0.20, durationMult: 0.8,
	},
}

var defaultProfile = industryProfile{
	note: "Industria estándar", rateMultiplier: 1.0, contingencyPct: 0.10, durationMult: 1.0,
}

// BaseRoleRates is EUR per person-week before industry multipliers.
var BaseRoleRates = map[string]float64{
	"PM":                1200.0,
	"Tech Lead":         1400.0,
	"Backend Dev":       1100.0,
	"Frontend Dev":      1000.0,
	"QA":                900.0,
	"UX/UI":             1000.0,
	"ML Engineer":       1400.0,
	"Security Engineer": 1500.0,
	"Compliance":        1300.0,
	"HIPAA Compliance":  1400.0,
	"DevOps":            1200.0,
	"IoT Engineer":      1300.0,
	"Game Designer":     1100.0,
	"Architect":         1500.0,
}

// DefaultWeeklyRate applies to roles outside the rate table, pre-multiplier.
const DefaultWeeklyRate = 1000.0

// roleSkills annotates each staffed role with its expected competencies.
// Roles added later through patches carry no annotation.
var roleSkills = map[string][]string{
	"PM":                {"gestión de stakeholders", "priorización", "riesgos"},
	"Tech Lead":         {"arquitectura", "code review", "CI/CD"},
	"Backend Dev":       {"APIs", "modelado de dominio", "seguridad"},
	"Frontend Dev":      {"SPA", "accesibilidad", "integración de APIs"},
	"QA":                {"automatización", "pruebas de regresión", "criterios de aceptación"},
	"UX/UI":             {"research", "prototipado", "design system"},
	"ML Engineer":       {"modelado", "MLOps", "evaluación de drift"},
	"Security Engineer": {"OWASP", "threat modeling", "SAST/DAST"},
	"DevOps":            {"infra as code", "observabilidad", "pipelines"},
	"Architect":         {"diseño de sistemas", "integraciones", "ADRs"},
}

// phasePlans maps a methodology to its baseline phase breakdown. Week
// counts are pre-multiplier.
var phasePlans = map[string][]domain.Phase{
	"Kanban": {
		{Name: "Descubrimiento & Diseño", Weeks: 2},
		{Name: "Implementación flujo continuo (WIP/Columnas)", Weeks: 4},
		{Name: "QA continuo & Observabilidad", Weeks: 2},
		{Name: "Estabilización & Puesta en Producción", Weeks: 1},
	},
	"XP": {
		{Name: "Discovery + Historias & CRC", Weeks: 2},
		{Name: "Iteraciones con TDD/Refactor/CI", Weeks: 6},
		{Name: "Hardening & Pruebas de Aceptación", Weeks: 2},
		{Name: "Release & Handover", Weeks: 1},
	},
	"Scrum": {
		{Name: "Incepción & Plan de Releases", Weeks: 2},
		{Name: "Sprints de Desarrollo (2w)", Weeks: 6},
		{Name: "QA/Hardening Sprint", Weeks: 2},
		{Name: "Despliegue & Transferencia", Weeks: 1},
	},
	"SAFe": {
		{Name: "Program Increment Planning", Weeks: 3},
		{Name: "PI Execution (5 sprints)", Weeks: 10},
		{Name: "Innovation & Planning", Weeks: 2},
		{Name: "Release & Deploy", Weeks: 1},
	},
}

var genericPhasePlan = []domain.Phase{
	{Name: "Discovery", Weeks: 2},
	{Name: "Implementación iterativa", Weeks: 6},
	{Name: "QA & Hardening", Weeks: 2},
	{Name: "Release & Handover", Weeks: 1},
}

var baselineRisks = []string{
	"Cambios de alcance sin prioridad clara",
	"Dependencias externas (APIs/terceros)",
	"Datos insuficientes para pruebas de rendimiento/escalado",
}

// signalRisks attach extra risk lines when their signal fires.
var signalRisks = []struct {
	signal string
	risk   string
}{
	{"payments", "PCI-DSS, fraude/chargebacks, idempotencia en cobros"},
	{"realtime", "Latencia/picos → colas/cachés y observabilidad"},
	{"mobile", "Aprobación en tiendas y compatibilidad de dispositivos"},
	{"ml_ai", "Calidad de datos, sesgo y monitorización de modelos"},
}

func profileFor(signals map[string]float64) industryProfile {
	for _, p := range industryProfiles {
		if signals[p.signal] == 1.0 {
			return p
		}
	}
	return defaultProfile
}

func buildTeam(signals map[string]float64, profile industryProfile) []domain.TeamMember {
	team := make([]domain.TeamMember, len(baselineTeam))
	copy(team, baselineTeam)

	add := func(role string, count float64) {
		for i := range team {
			if domain.Normalize(team[i].Role) == domain.Normalize(role) {
				team[i].Count += count
				return
			}
		}
		team = append(team, domain.TeamMember{Role: role, Count: count})
	}

	for _, adj := range technicalAdjustments {
		if signals[adj.signal] == 1.0 {
			add(adj.role, adj.add)
		}
	}
	for _, adj := range profile.extraRoles {
		add(adj.role, adj.add)
	}

	// Startups trim management overhead unless scale demands it.
	if signals["startup"] == 1.0 && signals["large_org"] != 1.0 {
		for i := range team {
			if team[i].Role == "PM" || team[i].Role == "Tech Lead" {
				if c := team[i].Count - 0.25; c >= 0.25 {
					team[i].Count = c
				} else {
					team[i].Count = 0.25
				}
			}
		}
	}

	for i := range team {
		if skills, ok := roleSkills[team[i].Role]; ok {
			team[i].Skills = append([]string(nil), skills...)
		}
	}
	return team
}

func buildPhases(method string, durationMult float64) []domain.Phase {
	base, ok := phasePlans[method]
	if !ok {
		base = genericPhasePlan
	}
	out := make([]domain.Phase, len(base))
	copy(out, base)
	for i := range out {
		w := int(float64(out[i].Weeks)*durationMult + 0.5)
		if w < 1 {
			w = 1
		}
		out[i].Weeks = w
		if d := knowledge.PhaseFor(out[i].Name); len(d.Deliverables) > 0 {
			out[i].Deliverables = append([]string(nil), d.Deliverables...)
		}
	}
	return out
}

func buildRisks(signals map[string]float64) []string {
	risks := append([]string(nil), baselineRisks...)
	for _, sr := range signalRisks {
		if signals[sr.signal] == 1.0 {
			risks = append(risks, sr.risk)
		}
	}
	return risks
}

// Generate builds the initial proposal for a requirements text: methodology
// via the scorer, then team, phases, budget and risks from the adjustment
// tables.
func Generate(requirements string) *domain.Proposal {
	method, explanation, _ := knowledge.Recommend(requirements)
	return generate(requirements, method, explanation)
}

// GenerateFor builds a proposal with the methodology fixed by the caller
// instead of the scorer. Used when the user explicitly picks one.
func GenerateFor(requirements, method string) *domain.Proposal {
	return generate(requirements, method, knowledge.Explain(requirements, method))
}

func generate(requirements, method string, explanation []string) *domain.Proposal {
	signals := knowledge.Detect(requirements)
	profile := profileFor(signals)

	p := &domain.Proposal{
		Methodology: method,
		Team:        buildTeam(signals, profile),
		Phases:      buildPhases(method, profile.durationMult),
		Risks:       buildRisks(signals),
		Explanation: explanation,
	}
	if m, ok := knowledge.Get(method); ok {
		p.Sources = append([]domain.Source(nil), m.Sources...)
	}
	p.Budget = computeBudget(p.Team, p.TotalWeeks(), profile)
	return p
}

// Retune re-derives phases, budget, risks and explanation for a new
// methodology while leaving the team untouched, so role-count patches
// survive a methodology switch and the two mutation axes compose in any
// order.
func Retune(p *domain.Proposal, method, requirements string) {
	signals := knowledge.Detect(requirements)
	profile := profileFor(signals)

	p.Methodology = method
	p.Phases = buildPhases(method, profile.durationMult)
	p.Risks = buildRisks(signals)
	p.Explanation = knowledge.Explain(requirements, method)
	if m, ok := knowledge.Get(method); ok {
		p.Sources = append([]domain.Source(nil), m.Sources...)
	} else {
		p.Sources = nil
	}
	p.Budget = computeBudget(p.Team, p.TotalWeeks(), profile)
}
