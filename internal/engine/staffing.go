package engine

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/asanchezr/consultor/internal/domain"
)

// StaffMember is one person from a pasted roster.
type StaffMember struct {
	Name            string
	Role            string // canonical
	Skills          []string
	Seniority       string
	AvailabilityPct int
}

const staffRosterKey = "staff_roster"

const staffRosterPrompt = "¡Genial, propuesta aprobada! Para asignar personas a cada tarea, " +
	"cuéntame tu plantilla (una por línea) con este formato:\n" +
	"Nombre — Rol — Skills clave — Seniority — Disponibilidad%\n" +
	"Ejemplos:\n" +
	"- Ana Ruiz — Backend — Python, Django, AWS — Senior — 100%\n" +
	"- Luis Pérez — QA — Cypress, E2E — Semi Senior — 50%"

// roleSkillKeywords scores a candidate's declared skills against each
// canonical role. Only the first six keywords per role count.
var roleSkillKeywords = map[string][]string{
	"Backend Dev":       {"api", "rest", "graphql", "python", "java", "node", "spring", "django", "fastapi", "sql", "postgres", "aws", "gcp", "azure", "seguridad"},
	"Frontend Dev":      {"react", "vue", "angular", "typescript", "javascript", "css", "accesibilidad", "redux", "next", "vite"},
	"QA":                {"qa", "testing", "pruebas", "e2e", "automat", "cypress", "playwright", "jest", "pytest", "regresion", "performance", "seguridad"},
	"Tech Lead":         {"arquitect", "design", "estandares", "review", "mentoria", "lider", "solucion"},
	"PM":                {"plan", "alcance", "prioridad", "stakeholder", "roadmap", "reporte", "cadencia"},
	"DevOps":            {"ci", "cd", "docker", "kubernetes", "k8s", "terraform", "aws", "gcp", "azure", "observabilidad", "prometheus", "grafana", "pipelines", "sre"},
	"UX/UI":             {"ux", "ui", "figma", "research", "prototip", "usabilidad", "wireframe", "dise"},
	"ML Engineer":       {"ml", "modelo", "pytorch", "tensorflow", "sklearn", "serving", "etl", "warehouse"},
	"Security Engineer": {"owasp", "pentest", "sast", "dast", "threat", "seguridad", "cifrado"},
	"Architect":         {"arquitect", "integraciones", "adr", "escalabilidad", "diseno"},
}

var (
	bulletSplitPat  = regexp.MustCompile(`\s[-•]\s+|;`)
	altSeparatorPat = regexp.MustCompile(`\s[-|:]\s`)
	emDashSplitPat  = regexp.MustCompile(`\s*—\s*`)
	availabilityPat = regexp.MustCompile(`(\d{1,3})\s*%`)
	skillSplitPat   = regexp.MustCompile(`,|/|\|`)
	bareSkillPat    = regexp.MustCompile(`[a-zA-Z0-9+#/.]{2,}`)
)

var seniorityLevels = []string{"principal", "lead", "senior", "sr", "semi senior", "ssr", "mid", "jr", "junior"}

// ParseStaffList extracts roster entries from free text. The expected shape
// per item is "Nombre — Rol — Skills clave — Seniority — Disponibilidad%",
// but separators may also be " - ", " | " or " : ", and several items can
// share one line split by bullets or semicolons. Unrecognizable lines are
// skipped, never errors.
func ParseStaffList(text string) []StaffMember {
	var items []string
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		if bulletSplitPat.MatchString(ln) {
			for _, part := range bulletSplitPat.Split(ln, -1) {
				if p := strings.TrimSpace(part); p != "" {
					items = append(items, p)
				}
			}
		} else {
			items = append(items, ln)
		}
	}

	var staff []StaffMember
	for _, raw := range items {
		ln := strings.TrimSpace(strings.TrimLeft(raw, "•*- "))
		if ln == "" {
			continue
		}
		if !strings.Contains(ln, "—") {
			ln = altSeparatorPat.ReplaceAllString(ln, " — ")
			if !strings.Contains(ln, "—") {
				continue
			}
		}
		parts := emDashSplitPat.Split(ln, -1)
		if len(parts) < 2 {
			continue
		}
		m := StaffMember{
			Name:            strings.TrimSpace(parts[0]),
			Role:            domain.CanonicalRole(parts[1]),
			AvailabilityPct: 100,
		}
		rest := strings.Join(parts[2:], " — ")
		if av := availabilityPat.FindStringSubmatch(rest); av != nil {
			if n, err := strconv.Atoi(av[1]); err == nil {
				if n > 100 {
					n = 100
				}
				m.AvailabilityPct = n
			}
		}
		nrest := domain.Normalize(rest)
		for _, level := range seniorityLevels {
			if strings.Contains(nrest, level) {
				m.Seniority = level
				break
			}
		}
		for _, s := range skillSplitPat.Split(rest, -1) {
			if s = strings.TrimSpace(s); s != "" {
				m.Skills = append(m.Skills, s)
			}
		}
		if len(m.Skills) == 0 {
			m.Skills = bareSkillPat.FindAllString(rest, -1)
		}
		staff = append(staff, m)
	}
	return staff
}

// scoreStaffForRole rates a person for a role on a 0-10 heuristic: declared
// role match, skill keyword hits, seniority, and an availability penalty
// below half time.
func scoreStaffForRole(role string, p StaffMember) float64 {
	score := 0.0
	if p.Role == role {
		score += 5.0
	}
	hay := domain.Normalize(strings.Join(p.Skills, " ") + " " + p.Seniority)
	kws := roleSkillKeywords[role]
	if len(kws) > 6 {
		kws = kws[:6]
	}
	for _, kw := range kws {
		if strings.Contains(hay, kw) {
			score += 1.0
		}
	}
	s := domain.Normalize(p.Seniority)
	switch {
	case strings.Contains(s, "lead") || strings.Contains(s, "principal"):
		score += 1.5
	case strings.Contains(s, "senior") || strings.Contains(s, "sr"):
		score += 0.8
	case strings.Contains(s, "junior") || strings.Contains(s, "jr"):
		score += 0.1
	}
	if float64(p.AvailabilityPct)/100.0 < 0.5 {
		score *= 0.7
	}
	return score
}

func matchedKeywords(role string, p StaffMember) []string {
	hay := domain.Normalize(strings.Join(p.Skills, " ") + " " + p.Seniority)
	var out []string
	for _, kw := range roleSkillKeywords[role] {
		if !strings.Contains(hay, kw) {
			continue
		}
		hit := kw
		for _, s := range p.Skills {
			if domain.Normalize(s) == kw {
				hit = s
				break
			}
		}
		dup := false
		for _, o := range out {
			if o == hit {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, hit)
		}
		if len(out) == 5 {
			break
		}
	}
	return out
}

func whyPersonForRole(role string, p StaffMember) string {
	matches := matchedKeywords(role, p)
	var bits []string
	if len(matches) > 0 {
		bits = append(bits, "skills afines ("+strings.Join(matches, ", ")+")")
	}
	if p.Seniority != "" {
		bits = append(bits, "seniority "+p.Seniority)
	}
	if p.AvailabilityPct != 100 {
		bits = append(bits, fmt.Sprintf("disponibilidad %d%%", p.AvailabilityPct))
	}
	if p.Role == role && len(matches) == 0 {
		bits = append(bits, "rol declarado coincide")
	}
	if len(bits) == 0 {
		return "perfil compatible con el rol"
	}
	return strings.Join(bits, "; ")
}

// staffPhaseKey buckets a phase name into an archetype so each phase knows
// which roles it staffs.
func staffPhaseKey(name string) string {
	t := domain.Normalize(name)
	switch {
	case containsAny(t, "discover", "descubrimiento", "dise", "kickoff", "incepcion", "plan"):
		return "discovery"
	case containsAny(t, "sprint", "iterac", "kanban", "desarrollo", "build", "implementacion"):
		return "build"
	case containsAny(t, "qa", "hardening", "stabil"):
		return "qa"
	case containsAny(t, "release", "handover", "desplieg", "produ"):
		return "release"
	}
	return "generic"
}

var phaseExpectedRoles = map[string][]string{
	"discovery": {"PM", "Tech Lead", "UX/UI"},
	"build":     {"Backend Dev", "Frontend Dev", "DevOps", "QA", "Tech Lead"},
	"qa":        {"QA", "DevOps", "Backend Dev", "Frontend Dev"},
	"release":   {"DevOps", "Tech Lead", "PM"},
	"generic":   {"PM", "Tech Lead", "QA", "Backend Dev", "Frontend Dev"},
}

func rankedCandidates(role string, staff []StaffMember) []StaffMember {
	cands := append([]StaffMember(nil), staff...)
	sort.SliceStable(cands, func(i, j int) bool {
		return scoreStaffForRole(role, cands[i]) > scoreStaffForRole(role, cands[j])
	})
	return cands
}

func candidateLabel(p StaffMember) string {
	if p.Seniority != "" || p.AvailabilityPct != 100 {
		return fmt.Sprintf("%s (%s, %d%%)", p.Name, p.Seniority, p.AvailabilityPct)
	}
	return p.Name
}

// SuggestStaffing matches roster people to the plan: the best candidate per
// staffed role with the reason and two alternates, then per phase the best
// person for each role that phase expects.
func SuggestStaffing(p *domain.Proposal, staff []StaffMember) []string {
	needed := make(map[string]bool, len(p.Team))
	var roles []string
	for _, m := range p.Team {
		if m.Role != "" && !needed[m.Role] {
			needed[m.Role] = true
			roles = append(roles, m.Role)
		}
	}

	lines := []string{"Asignación por rol (mejor persona y por qué)"}
	if len(roles) == 0 {
		lines = append(lines, "- (La propuesta no tiene equipo definido todavía).")
	}
	for _, role := range roles {
		cands := rankedCandidates(role, staff)
		if len(cands) == 0 {
			lines = append(lines, fmt.Sprintf("- %s: (no hay candidatos cargados)", role))
			continue
		}
		best := cands[0]
		lines = append(lines, fmt.Sprintf("- %s: %s → %s", role, candidateLabel(best), whyPersonForRole(role, best)))
		var alts []string
		for _, c := range cands[1:] {
			alts = append(alts, c.Name)
			if len(alts) == 2 {
				break
			}
		}
		if len(alts) > 0 {
			lines = append(lines, "  · Alternativas: "+strings.Join(alts, ", "))
		}
	}

	lines = append(lines, "", "Asignación sugerida por fase/tareas")
	for _, ph := range p.Phases {
		var expected []string
		for _, role := range phaseExpectedRoles[staffPhaseKey(ph.Name)] {
			if needed[role] {
				expected = append(expected, role)
			}
		}
		if len(expected) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s:", ph.Name))
		for _, role := range expected {
			cands := rankedCandidates(role, staff)
			if len(cands) == 0 {
				lines = append(lines, fmt.Sprintf("  • %s: (sin candidatos)", role))
				continue
			}
			best := cands[0]
			lines = append(lines, fmt.Sprintf("  • %s → %s: %s", role, candidateLabel(best), whyPersonForRole(role, best)))
		}
	}
	return lines
}

// trainingCatalog pairs each critical topic with two suggested resources.
var trainingCatalog = map[string][]string{
	"cypress":       {"Cypress fundamentals (oficial)", "Curso E2E con Cypress"},
	"playwright":    {"Playwright intro (MS)", "Playwright testing cookbook"},
	"tdd":           {"TDD by example (K. Beck)", "Katas TDD (cyber-dojo)"},
	"owasp":         {"OWASP Top 10 (oficial)", "Cheat Sheets OWASP"},
	"pci":           {"PCI-DSS overview", "Stripe Radar & antifraude"},
	"stripe":        {"Stripe Payments (docs)", "Idempotency keys (Stripe)"},
	"kubernetes":    {"Kubernetes fundamentals (CKAD)", "K8s Hands-on Labs"},
	"terraform":     {"Terraform up & running", "Oficial HashiCorp - intro"},
	"observability": {"Prometheus + Grafana (labs)", "OpenTelemetry 101"},
	"react":         {"React beta docs", "React Testing Library"},
	"typescript":    {"TS handbook", "Tipos avanzados para React"},
	"django":        {"Django tutorial oficial", "DRF guía práctica"},
	"fastapi":       {"FastAPI docs", "Pydantic patterns"},
	"spring":        {"Spring Boot guides", "Spring Security basics"},
	"node":          {"Node + Express docs", "Pruebas con Jest/Supertest"},
	"postgres":      {"PostgreSQL performance", "Migrations & índices"},
	"ci/cd":         {"GitHub Actions (oficial)", "GitLab CI pipelines"},
	"performance":   {"k6/Locust intro", "Rendimiento web (MDN)"},
}

// inferRequiredTopics derives the must-have topics from the requirements
// text, the plan's risks and phases, and the methodology.
func inferRequiredTopics(p *domain.Proposal, requirements string) []string {
	req := make(map[string]bool)
	add := func(topics ...string) {
		for _, t := range topics {
			req[t] = true
		}
	}
	r := domain.Normalize(requirements)
	if containsAny(r, "aws", "gcp", "azure", "cloud") {
		add("kubernetes", "terraform", "observability", "ci/cd")
	}
	if containsAny(r, "react", "frontend") {
		add("react", "typescript", "ci/cd")
	}
	if containsAny(r, "django", "fastapi") {
		add("django", "fastapi", "ci/cd")
	}
	if containsAny(r, "spring", "java") {
		add("spring", "ci/cd")
	}
	if strings.Contains(r, "node") {
		add("node", "ci/cd")
	}
	if strings.Contains(r, "postgres") {
		add("postgres")
	}

	risks := domain.Normalize(strings.Join(p.Risks, " "))
	if containsAny(risks, "pci", "fraude", "chargeback") {
		add("pci", "stripe", "owasp")
	}
	for _, ph := range p.Phases {
		n := domain.Normalize(ph.Name)
		if containsAny(n, "qa", "hardening") {
			add("cypress", "playwright", "owasp", "performance")
			break
		}
	}
	m := domain.Normalize(p.Methodology)
	if containsAny(m, "xp", "scrum") {
		add("tdd")
	}

	out := make([]string, 0, len(req))
	for t := range req {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func personHasTopic(p StaffMember, topic string) bool {
	blob := domain.Normalize(strings.Join(p.Skills, " ") + " " + p.Seniority + " " + p.Role)
	return strings.Contains(blob, domain.Normalize(topic))
}

// closestUpskillingCandidates picks the three people best positioned to
// learn a topic: nearest role, seniority bonus, weighted by availability,
// with a bump when the topic already appears partially in their profile.
func closestUpskillingCandidates(staff []StaffMember, topic string) []StaffMember {
	proximity := func(p StaffMember) float64 {
		base := 0.0
		switch topic {
		case "cypress", "playwright", "tdd", "owasp", "performance":
			if p.Role == "QA" || p.Role == "Backend Dev" || p.Role == "Frontend Dev" {
				base += 1.0
			}
		case "kubernetes", "terraform", "observability", "ci/cd":
			if p.Role == "DevOps" || p.Role == "Tech Lead" || p.Role == "Backend Dev" {
				base += 1.0
			}
		case "react", "typescript":
			if p.Role == "Frontend Dev" {
				base += 1.0
			}
		case "django", "fastapi", "spring", "node", "postgres":
			if p.Role == "Backend Dev" || p.Role == "Tech Lead" {
				base += 1.0
			}
		}
		s := domain.Normalize(p.Seniority)
		if containsAny(s, "lead", "principal", "senior") {
			base += 0.5
		}
		avail := float64(p.AvailabilityPct) / 100.0
		if avail < 0.3 {
			avail = 0.3
		}
		base *= avail
		if personHasTopic(p, topic) {
			base += 1.0
		}
		return base
	}
	cands := append([]StaffMember(nil), staff...)
	sort.SliceStable(cands, func(i, j int) bool { return proximity(cands[i]) > proximity(cands[j]) })
	if len(cands) > 3 {
		cands = cands[:3]
	}
	return cands
}

// RenderTrainingPlan reports the topics the plan needs that nobody on the
// roster covers, who should upskill into each, resources, and the external
// reinforcement fallback.
func RenderTrainingPlan(p *domain.Proposal, requirements string, staff []StaffMember) []string {
	topics := inferRequiredTopics(p, requirements)
	if len(topics) == 0 {
		return []string{"(No detecto temas críticos a partir del stack/metodología actual.)"}
	}
	var gaps []string
	for _, topic := range topics {
		covered := false
		for _, person := range staff {
			if personHasTopic(person, topic) {
				covered = true
				break
			}
		}
		if !covered {
			gaps = append(gaps, topic)
		}
	}

	lines := []string{"Gaps detectados & plan de formación"}
	if len(gaps) == 0 {
		return append(lines, "- ✔︎ No hay carencias relevantes respecto al stack/metodología.")
	}
	for _, g := range gaps {
		lines = append(lines, fmt.Sprintf("- %s — Necesario por stack/dominio/fases (p.ej., %s).", g, p.Methodology))
		if cands := closestUpskillingCandidates(staff, g); len(cands) > 0 {
			var who []string
			for _, c := range cands {
				who = append(who, fmt.Sprintf("%s (%s %d%%)", c.Name, c.Role, c.AvailabilityPct))
			}
			lines = append(lines, "  • Upskilling recomendado: "+strings.Join(who, ", "))
		}
		if res := trainingCatalog[g]; len(res) > 0 {
			lines = append(lines, "  • Recursos: "+strings.Join(res, " | "))
		}
		lines = append(lines, "  • Alternativa: Refuerzo externo 0.5 FTE durante 2–4 semanas si no hay disponibilidad interna.")
	}
	return lines
}

func (e *Engine) saveSessionStaff(sessionID string, staff []StaffMember) {
	if raw, err := json.Marshal(staff); err == nil {
		e.store.SetValue(sessionID, staffRosterKey, string(raw))
	}
}

func (e *Engine) sessionStaff(sessionID string) ([]StaffMember, bool) {
	raw, ok := e.store.Value(sessionID, staffRosterKey)
	if !ok {
		return nil, false
	}
	var staff []StaffMember
	if err := json.Unmarshal([]byte(raw), &staff); err != nil || len(staff) == 0 {
		return nil, false
	}
	return staff, true
}
