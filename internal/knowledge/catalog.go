package knowledge

import (
	"fmt"
	"strings"

	"github.com/asanchezr/consultor/internal/domain"
)

// Methodology is one static catalog entry. The catalog is read-only after
// process start; declaration order doubles as the scoring tie-break order.
type Methodology struct {
	Name      string
	Vision    string
	FitWhen   []string
	AvoidWhen []string
	Practices []string
	Risks     []string
	Sources   []domain.Source
}

var Catalog = []Methodology{
	{
		Name:   "Scrum",
		Vision: "Marco para gestionar complejidad mediante inspección y adaptación en iteraciones cortas.",
		FitWhen: []string{
			"Requisitos cambiantes, descubrimiento de producto y MVP",
			"Alto contacto con stakeholders y feedback frecuente",
		},
		AvoidWhen: []string{
			"Plazos y alcance rígidos sin margen de negociación",
			"Necesidad de operación 24/7 con interrupciones constantes",
		},
		Practices: []string{"Sprints", "Daily", "Review", "Retros", "Product Backlog", "Definition of Done"},
		Risks:     []string{"Scope creep si no hay DoR/DoD claros", "Ritualismo sin foco en valor"},
		Sources: []domain.Source{
			{Author: "Ken Schwaber & Jeff Sutherland", Title: "The Scrum Guide", Year: 2020, URL: "https://scrumguides.org"},
		},
	},
	{
		Name:   "Kanban",
		Vision: "Método evolutivo para mejorar flujo, limitar WIP y acortar tiempos de entrega.",
		FitWhen: []string{
			"Operación/soporte 24x7, trabajo de tamaño variable e interrupciones",
			"Necesidad de visualizar cuellos de botella y mejorar lead time",
		},
		AvoidWhen: []string{"Se requieren compromisos por sprint/fecha fija estricta"},
		Practices: []string{"Tablero de flujo", "Límites WIP", "Lead/Cycle time", "Políticas explícitas"},
		Risks:     []string{"Si no se respetan WIP → multitarea y bloqueos", "Falta de cadencia si el contexto la exige"},
		Sources: []domain.Source{
			{Author: "David J. Anderson", Title: "Kanban: Successful Evolutionary Change for Your Technology Business", Year: 2010, URL: "https://djaa.com"},
		},
	},
	{
		Name:   "Scrumban",
		Vision: "Híbrido: planificación ligera de Scrum + control de flujo de Kanban.",
		FitWhen: []string{
			"Mezcla de desarrollo nuevo + mantenimiento/soporte",
			"Cambios frecuentes sin perder visibilidad del flujo",
		},
		AvoidWhen: []string{"Contextos que exigen gobernanza pesada/escala corporativa formal"},
		Practices: []string{"Backlog ligero", "Tablero con WIP", "Revisiones periódicas"},
		Risks:     []string{"Ambigüedad de cadencia si no se define una mínima"},
		Sources: []domain.Source{
			{Author: "Corey Ladas", Title: "Scrumban", Year: 2009, URL: "https://leansoftwareengineering.com/ksse/scrumban/"},
		},
	},
	{
		Name:   "XP",
		Vision: "Prácticas técnicas que elevan la calidad y la velocidad con seguridad.",
		FitWhen: []string{
			"Calidad/fiabilidad crítica (pagos/seguridad/tiempo real)",
			"Necesidad de feedback técnico muy rápido",
		},
		AvoidWhen: []string{"Organizaciones que no aceptan prácticas técnicas intensivas"},
		Practices: []string{"TDD", "Pair Programming", "Refactorización continua", "Integración Continua"},
		Risks:     []string{"Requiere disciplina y cultura de ingeniería madura"},
		Sources: []domain.Source{
			{Author: "Kent Beck", Title: "Extreme Programming Explained (2nd ed.)", Year: 2004, URL: "ISBN 0321278658"},
		},
	},
	{
		Name:      "Lean",
		Vision:    "Eliminar desperdicio y acelerar aprendizaje (Construir–Medir–Aprender).",
		FitWhen:   []string{"Hipótesis de negocio con alta incertidumbre (producto/mercado)"},
		AvoidWhen: []string{"Gobernanza rígida que impide iteraciones y experimentación"},
		Practices: []string{"MVP", "Métricas accionables", "Kaizen", "Mapas de valor"},
		Risks:     []string{"Mala interpretación de MVP → calidad insuficiente"},
		Sources: []domain.Source{
			{Author: "Mary & Tom Poppendieck", Title: "Lean Software Development: An Agile Toolkit", Year: 2003, URL: "ISBN 0321150783"},
			{Author: "Eric Ries", Title: "The Lean Startup", Year: 2011, URL: "https://theleanstartup.com"},
		},
	},
	{
		Name:      "Crystal",
		Vision:    "Familia de procesos ligeros centrados en personas y comunicación.",
		FitWhen:   []string{"Equipos pequeños, riesgo moderado, alta comunicación directa"},
		AvoidWhen: []string{"Necesidad de escalado o coordinación multi-equipo formal"},
		Practices: []string{"Ajuste del proceso según tamaño y criticidad", "Énfasis en comunicación"},
		Risks:     []string{"Poca estructura para contextos complejos o regulados"},
		Sources: []domain.Source{
			{Author: "Alistair Cockburn", Title: "Crystal Clear", Year: 2004, URL: "ISBN 0201699478"},
		},
	},
	{
		Name:      "FDD",
		Vision:    "Planificación y entrega orientadas a features con modelado de dominio.",
		FitWhen:   []string{"Dominios con muchas funcionalidades discretas y claras"},
		AvoidWhen: []string{"Altísima incertidumbre o descubrimiento de producto"},
		Practices: []string{"Lista de features", "Plan por feature", "Diseño por feature"},
		Risks:     []string{"Puede ser rígido si el alcance cambia continuamente"},
		Sources: []domain.Source{
			{Author: "Jeff De Luca & Peter Coad", Title: "Feature-Driven Development", Year: 1997, URL: "https://www.featuredrivendevelopment.com"},
		},
	},
	{
		Name:      "DSDM",
		Vision:    "Timeboxing fuerte con alcance negociable; énfasis en gobernanza.",
		FitWhen:   []string{"Plazo y presupuesto fijos; priorización MoSCoW; negocio muy implicado"},
		AvoidWhen: []string{"Alcance 100% innegociable sin flexibilidad"},
		Practices: []string{"Timeboxes", "MoSCoW", "Colaboración intensiva del negocio"},
		Risks:     []string{"Necesita compromiso fuerte del negocio en priorización"},
		Sources: []domain.Source{
			{Author: "Agile Business Consortium", Title: "DSDM Agile Project Framework", Year: 2014, URL: "https://www.agilebusiness.org"},
		},
	},
	{
		Name:      "SAFe",
		Vision:    "Marco para escalar Agile con coordinación a nivel programa/portafolio.",
		FitWhen:   []string{"Múltiples equipos/áreas, coordinación corporativa, cumplimiento/regulación"},
		AvoidWhen: []string{"Proyectos pequeños de un solo equipo (sobrecoste)"},
		Practices: []string{"Program Increments", "ARTs", "Lean-Agile Mindset"},
		Risks:     []string{"Sobrecarga de procesos si el contexto no lo requiere"},
		Sources: []domain.Source{
			{Author: "Scaled Agile, Inc.", Title: "Scaled Agile Framework (SAFe)", Year: 2023, URL: "https://framework.scaledagile.com"},
		},
	},
	{
		Name:      "DevOps",
		Vision:    "Prácticas para acelerar flujo, feedback y aprendizaje en entrega de software.",
		FitWhen:   []string{"Despliegues frecuentes, fiabilidad y seguridad; integración continua"},
		AvoidWhen: []string{"N/A: DevOps se combina con Scrum/Kanban/SAFe"},
		Practices: []string{"CI/CD", "Infra as Code", "Observabilidad", "Shift-left de seguridad"},
		Risks:     []string{"Requiere inversión cultural y técnica sostenida"},
		Sources: []domain.Source{
			{Author: "Nicole Forsgren, Jez Humble, Gene Kim", Title: "Accelerate", Year: 2018, URL: "https://itrevolution.com/product/accelerate/"},
		},
	},
}

// synonyms maps normalized alternative names to canonical catalog names.
var synonyms = map[string]string{
	"extreme programming":        "XP",
	"xp":                         "XP",
	"programacion extrema":       "XP",
	"scrumban":                   "Scrumban",
	"lean startup":               "Lean",
	"crystal clear":              "Crystal",
	"feature driven development": "FDD",
	"fdd":                        "FDD",
	"dsdm":                       "DSDM",
	"safe":                       "SAFe",
	"scaled agile":               "SAFe",
}

var byName map[string]*Methodology

func init() {
	byName = make(map[string]*Methodology, len(Catalog))
	for i := range Catalog {
		byName[domain.Normalize(Catalog[i].Name)] = &Catalog[i]
	}
}

// Get looks up a catalog entry by its canonical name.
func Get(name string) (*Methodology, bool) {
	m, ok := byName[domain.Normalize(name)]
	return m, ok
}

// Resolve normalizes a user-supplied methodology name through the synonym
// table. Names not in the catalog come back title-cased, so callers can
// still tell the user what they asked for.
func Resolve(name string) string {
	t := domain.Normalize(name)
	if canon, ok := synonyms[t]; ok {
		return canon
	}
	if m, ok := byName[t]; ok {
		return m.Name
	}
	return domain.TitleCase(name)
}

// Known reports whether the name resolves to a catalog entry.
func Known(name string) bool {
	_, ok := Get(Resolve(name))
	return ok
}

// Names returns catalog names in declaration order.
func Names() []string {
	out := make([]string, len(Catalog))
	for i, m := range Catalog {
		out[i] = m.Name
	}
	return out
}

// MentionedMethods returns catalog methods referenced anywhere in the text,
// in catalog order.
func MentionedMethods(text string) []string {
	t := domain.Normalize(text)
	var out []string
	for _, m := range Catalog {
		if strings.Contains(t, domain.Normalize(m.Name)) {
			out = append(out, m.Name)
		}
	}
	return out
}

// Compare builds a side-by-side summary of two catalog entries.
func Compare(best, other string) []string {
	b, okB := Get(best)
	o, okO := Get(other)
	out := []string{fmt.Sprintf("Comparativa %s vs %s:", best, other)}
	if okB && okO {
		out = append(out,
			fmt.Sprintf("- %s destaca en: %s", b.Name, strings.Join(b.FitWhen, "; ")),
			fmt.Sprintf("- %s destaca en: %s", o.Name, strings.Join(o.FitWhen, "; ")),
			fmt.Sprintf("- Riesgos de %s: %s", b.Name, strings.Join(b.Risks, "; ")),
			fmt.Sprintf("- Riesgos de %s: %s", o.Name, strings.Join(o.Risks, "; ")),
		)
	}
	return out
}
