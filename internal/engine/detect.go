package engine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/asanchezr/consultor/internal/domain"
)

var yesSet = map[string]bool{
	"si": true, "s": true, "vale": true, "ok": true, "okay": true,
	"claro": true, "dale": true, "adelante": true, "hazlo": true,
	"confirmo": true, "de acuerdo": true, "por supuesto": true, "venga": true,
}

var noSet = map[string]bool{
	"no": true, "n": true, "mejor no": true, "nop": true, "negativo": true,
}

func isYes(text string) bool {
	t := strings.TrimRight(domain.CollapseSpaces(domain.Normalize(text)), ".!")
	if yesSet[t] {
		return true
	}
	return strings.HasPrefix(t, "si,") || strings.HasPrefix(t, "si ")
}

func isNo(text string) bool {
	t := strings.TrimRight(domain.CollapseSpaces(domain.Normalize(text)), ".!")
	if noSet[t] {
		return true
	}
	for _, tok := range []string{"cancel", "anula", "nunca", "no lo hagas", "no aplicar"} {
		if strings.Contains(t, tok) {
			return true
		}
	}
	return false
}

func containsAny(t string, keys ...string) bool {
	for _, k := range keys {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

func asksWhy(t string) bool {
	return containsAny(t, "por que", "porque", "justifica", "explica", "motivo")
}

func asksBudget(t string) bool {
	return containsAny(t, "presupuesto", "coste", "costos", "estimacion", "precio")
}

func asksBudgetBreakdown(t string) bool {
	return containsAny(t, "desglose", "presupuesto detallado", "detalle del presupuesto",
		"por rol", "por roles", "partidas", "coste por", "costes por", "reparto",
		"en que se gasta", "a que se destina", "capex", "opex")
}

func asksTeam(t string) bool {
	return containsAny(t, "equipo", "roles", "perfiles", "staffing", "personal", "dimension")
}

func asksRisks(t string) bool {
	return containsAny(t, "riesgo", "riesgos", "mitigacion")
}

func asksKPIs(t string) bool {
	return containsAny(t, "kpi", "kpis", "indicadores", "metricas", "metas", "dora", "slo", "sla")
}

func asksQAPlan(t string) bool {
	return containsAny(t, "plan de qa", "testing", "pruebas", "calidad")
}

func asksDeployment(t string) bool {
	return containsAny(t, "despliegue", "deploy", "ci/cd", "release")
}

func asksDeliverables(t string) bool {
	return containsAny(t, "entregables", "artefactos", "documentacion", "checklist de entrega", "sow")
}

func asksDiscovery(t string) bool {
	return containsAny(t, "descubrimiento", "discovery", "alcance", "kickoff")
}

func asksPhases(t string) bool {
	return containsAny(t, "fase", "fases", "roadmap", "timeline", "cronograma", "hitos")
}

func asksSources(t string) bool {
	return containsAny(t, "fuente", "fuentes", "autor", "autores", "bibliografia", "en que te basas")
}

func asksMethodList(t string) bool {
	return containsAny(t, "que metodologias", "metodologias usas", "metodologias soportadas",
		"lista de metodologias", "que opciones hay", "opciones de metodologia")
}

func asksCurriculum(t string) bool {
	return containsAny(t, "ceremonias", "rituales", "como se trabaja", "temario", "formacion", "eventos de")
}

// asksTrainingPlan overlaps asksCurriculum on "formacion"; the caller
// resolves the tie with the session's roster context.
func asksTrainingPlan(t string) bool {
	return containsAny(t, "gaps", "carencias", "plan de formacion", "upskilling", "formacion")
}

func asksSimilar(t string) bool {
	return containsAny(t, "similar", "parecido", "casos parecidos", "proyectos similares")
}

var acceptanceKeys = []string{
	"aceptamos la propuesta", "acepto la propuesta", "aprobamos la propuesta", "aprobada la propuesta",
	"adelante con la propuesta", "ok con la propuesta", "conforme con la propuesta",
	"cerramos la propuesta", "aprobamos el plan", "acepto el plan", "ok al plan",
	"vamos adelante", "arrancamos el proyecto", "empecemos", "comencemos", "seguimos con esta propuesta",
}

// acceptsProposal detects explicit approval of the current plan. A bare
// "sí" never counts: confirmation answers belong to the pending-change
// slot, so approval needs the proposal, the plan or a clear verb named.
func acceptsProposal(t string) bool {
	return containsAny(t, acceptanceKeys...)
}

var staffPairPat = regexp.MustCompile(`[A-Za-zÁÉÍÓÚÑáéíóúñ][^—\n]{1,40}\s—\s[A-Za-z]`)

// looksLikeStaffList detects a pasted roster: several separated lines with
// a role hint, bulleted items on one line, or at least two "name — role"
// pairs.
func looksLikeStaffList(text string) bool {
	t := domain.Normalize(text)
	roleHints := []string{"backend", "frontend", "qa", "quality", "tester", "devops", "sre", "pm",
		"product owner", "po", "ux", "ui", "mobile", "android", "ios", "ml", "data", "arquitect"}
	if strings.Contains(text, "\n") &&
		containsAny(text, "—", "-", "|", ":") &&
		containsAny(t, roleHints...) {
		return true
	}
	if strings.Contains(text, "—") && (strings.Count(text, " - ") >= 2 || strings.Contains(text, " • ") || strings.Contains(text, ";")) {
		return true
	}
	return len(staffPairPat.FindAllString(text, -1)) >= 2
}

func asksDefinition(t string) bool {
	return containsAny(t, "que es", "explicame", "en que consiste", "definicion")
}

// whyRoleCountPat matches "por qué 2 backend", "por qué 0.5 ux", etc.
var whyRoleCountPat = regexp.MustCompile(
	`(\d+(?:[.,]\d+)?)\s*(pm|project manager|tech\s*lead|arquitect[oa]?|backend|frontend|qa|tester|quality|ux|ui|ml|data|devops)`)

func asksWhyRoleCount(t string) (string, float64, bool) {
	m := whyRoleCountPat.FindStringSubmatch(t)
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return "", 0, false
	}
	return domain.CanonicalRole(m[2]), n, true
}

var requirementKeywords = []string{
	"app", "web", "api", "panel", "admin", "pagos", "login", "usuarios", "microservicios",
	"ios", "android", "realtime", "tiempo real", "ml", "ia", "modelo", "dashboard", "reportes", "integraci",
	"sistema", "plataforma", "gestion", "desarrollo",
}

// looksLikeRequirements decides whether free text is a project description
// worth generating a proposal from: two domain keywords or a long message.
func looksLikeRequirements(text string) bool {
	t := domain.Normalize(text)
	score := 0
	for _, k := range requirementKeywords {
		if strings.Contains(t, k) {
			score++
		}
	}
	return score >= 2 || len(strings.Fields(text)) >= 12
}
