package knowledge

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ScoreEntry is the ranked result for one methodology: the accumulated
// score and one justification line per rule that fired.
type ScoreEntry struct {
	Method string
	Score  float64
	Why    []string
}

type condition func(s map[string]float64) bool

// rule is one (condition, weight, justification) tuple. Rules are data, not
// branching: adding a methodology or a rule never touches the algorithm.
type rule struct {
	when   condition
	weight float64
	why    string
}

type methodRules struct {
	method string
	rules  []rule
}

func on(names ...string) condition {
	return func(s map[string]float64) bool {
		for _, n := range names {
			if s[n] != 1.0 {
				return false
			}
		}
		return true
	}
}

func onAny(names ...string) condition {
	return func(s map[string]float64) bool {
		for _, n := range names {
			if s[n] == 1.0 {
				return true
			}
		}
		return false
	}
}

func onWithout(yes, no string) condition {
	return func(s map[string]float64) bool {
		return s[yes] == 1.0 && s[no] != 1.0
	}
}

func always() condition {
	return func(map[string]float64) bool { return true }
}

// scoringRules follows the catalog declaration order so the stable sort
// breaks score ties in favor of earlier-declared methodologies.
var scoringRules = []methodRules{
	{"Scrum", []rule{
		{on("uncertainty"), +2.0, "Requisitos cambiantes/descubrimiento"},
		{on("ml_ai"), +0.5, "Prototipos/validación iterativa"},
		{on("fixed_deadline"), -0.8, "Plazo rígido reduce flexibilidad"},
		{on("ops_flow"), -0.5, "Operación 24/7 encaja mejor con Kanban"},
	}},
	{"Kanban", []rule{
		{on("ops_flow"), +2.0, "Operación/soporte con flujo continuo"},
		{on("realtime"), +0.7, "Lead time corto con variabilidad"},
		{on("fixed_deadline"), -0.4, "Fechas rígidas piden timeboxing"},
	}},
	{"Scrumban", []rule{
		{on("uncertainty", "ops_flow"), +2.0, "Mix desarrollo+operación"},
		{onWithout("uncertainty", "ops_flow"), +0.8, "Cambios frecuentes con control de flujo"},
		{onWithout("ops_flow", "uncertainty"), +0.6, "WIP + planificación ligera"},
	}},
	{"XP", []rule{
		{on("quality_critical"), +2.0, "Calidad/fiabilidad crítica"},
		{onAny("payments", "realtime"), +1.0, "Dominios sensibles"},
	}},
	{"Lean", []rule{
		{on("uncertainty"), +1.5, "Hipótesis y aprendizaje"},
		{on("small_project"), +0.3, "Experimentación ligera"},
	}},
	{"Crystal", []rule{
		{on("small_project"), +1.0, "Equipos pequeños, foco en personas"},
	}},
	{"FDD", []rule{
		{on("many_features"), +1.2, "Dominio modelable por features"},
		{on("uncertainty"), -0.5, "Descubrimiento continuo no encaja"},
	}},
	{"DSDM", []rule{
		{onAny("fixed_deadline", "fixed_budget"), +2.0, "Timeboxing y alcance negociable"},
		{on("regulated"), +0.5, "Más gobernanza"},
	}},
	{"SAFe", []rule{
		{on("large_org"), +2.0, "Coordinación multi-equipo/portafolio"},
		{on("regulated"), +0.5, "Necesidad de gobernanza"},
	}},
	{"DevOps", []rule{
		{onAny("integrations", "realtime"), +0.5, "Despliegues y feedback continuos"},
		{always(), +0.3, "Prácticas compatibles con Scrum/Kanban/SAFe"},
	}},
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Score evaluates every methodology's rule table against the detected
// signals and returns the ranking, highest score first. The sort is stable,
// so ties resolve to catalog declaration order. Re-scoring the same text is
// deterministic.
func Score(text string) []ScoreEntry {
	signals := Detect(text)
	out := make([]ScoreEntry, 0, len(scoringRules))
	for _, mr := range scoringRules {
		entry := ScoreEntry{Method: mr.method}
		for _, r := range mr.rules {
			if r.when(signals) {
				entry.Score += r.weight
				entry.Why = append(entry.Why, r.why)
			}
		}
		entry.Score = round2(entry.Score)
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Recommend returns the top-ranked methodology, the explanation lines for
// it and the full ranking. All-zero input is not an error: the first
// catalog methodology wins the all-way tie.
func Recommend(text string) (string, []string, []ScoreEntry) {
	ranking := Score(text)
	best := ranking[0].Method
	return best, Explain(text, best), ranking
}

// Explain assembles the human-readable rationale for choosing a methodology
// from the catalog entry plus the signals detected in the text.
func Explain(text, method string) []string {
	var lines []string
	if m, ok := Get(method); ok {
		lines = append(lines, "Visión: "+m.Vision)
		if len(m.FitWhen) > 0 {
			lines = append(lines, "Encaja bien si: "+strings.Join(m.FitWhen, "; "))
		}
		if len(m.AvoidWhen) > 0 {
			lines = append(lines, "Evitar si: "+strings.Join(m.AvoidWhen, "; "))
		}
		if len(m.Practices) > 0 {
			lines = append(lines, "Prácticas clave: "+strings.Join(m.Practices, ", "))
		}
		if len(m.Risks) > 0 {
			lines = append(lines, "Riesgos a vigilar: "+strings.Join(m.Risks, "; "))
		}
	}
	if hits := Fired(Detect(text)); len(hits) > 0 {
		lines = append(lines, "Señales detectadas en tus requisitos: "+strings.Join(hits, ", "))
	}
	return lines
}

// WhyFor returns the justification lines recorded for one methodology in
// the ranking, formatted for display.
func WhyFor(ranking []ScoreEntry, method string) []string {
	for _, e := range ranking {
		if e.Method == method {
			out := make([]string, 0, len(e.Why)+1)
			out = append(out, fmt.Sprintf("%s puntúa %.2f:", e.Method, e.Score))
			for _, w := range e.Why {
				out = append(out, "- "+w)
			}
			return out
		}
	}
	return nil
}
