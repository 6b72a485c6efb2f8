package knowledge

import (
	"strings"

	"github.com/asanchezr/consultor/internal/domain"
)

// methodBriefs holds the one-line definition per methodology used when the
// user asks "qué es X".
var methodBriefs = map[string]string{
	"Scrum":    "Iteraciones cortas (sprints) con roles y eventos definidos.",
	"Kanban":   "Flujo continuo con límites WIP y mejora evolutiva.",
	"XP":       "Prácticas técnicas (TDD, refactor, CI) e iteraciones cortas.",
	"Lean":     "Eliminar desperdicios y acelerar el flujo de valor.",
	"Scrumban": "Híbrido Scrum + Kanban para planificar y controlar el flujo.",
	"Crystal":  "Método adaptable según tamaño y criticidad del equipo.",
	"FDD":      "Entrega por funcionalidades bien definidas.",
	"DSDM":     "Ágil de negocio con timeboxes y priorización MoSCoW.",
	"SAFe":     "Escalado ágil con trenes de release y PI Planning.",
	"DevOps":   "Dev + Ops: automatización, despliegue continuo y fiabilidad.",
}

// MethodBrief returns the short definition for a methodology name, with a
// generic fallback for names outside the catalog.
func MethodBrief(name string) string {
	if b, ok := methodBriefs[Resolve(name)]; ok {
		return b
	}
	return "Enfoque para organizar trabajo y entregar valor."
}

// glossaryEntry pairs a normalized term with its definition. Order matters:
// longer, more specific terms come first so they win substring matches.
type glossaryEntry struct {
	term string
	def  string
}

var glossary = []glossaryEntry{
	{"definition of done", "Definition of Done: conjunto de criterios mínimos que debe cumplir una historia para considerarse completa (tests, documentación, revisión de código, despliegue, etc.)."},
	{"backlog priorizado", "Backlog priorizado: lista ordenada de ítems (épicas, historias) priorizados por valor y riesgo; incluye estimaciones, criterios de aceptación y dependencias."},
	{"roadmap de releases", "Roadmap de releases: calendario de alto nivel con hitos y releases previstos, objetivos por release y fechas aproximadas."},
	{"plan de releases", "Roadmap de releases: calendario de alto nivel con hitos y releases previstos y objetivos por release."},
	{"lead time", "Lead time: tiempo desde que se solicita un ítem hasta que se entrega; mide la capacidad de respuesta del sistema."},
	{"cycle time", "Cycle time: tiempo desde que se empieza a trabajar un ítem hasta que se termina; mide la eficiencia del flujo."},
	{"backlog", "Backlog: lista ordenada de ítems (épicas, historias) priorizados por valor y riesgo; incluye estimaciones y criterios de aceptación."},
	{"timebox", "Timebox: periodo fijo de tiempo asignado a una actividad; al expirar se negocia alcance, nunca la fecha."},
	{"moscow", "MoSCoW: técnica de priorización en Must/Should/Could/Won't para negociar alcance dentro de un timebox."},
	{"wip", "WIP (Work In Progress): trabajo en curso; limitarlo reduce multitarea y acorta los tiempos de entrega."},
	{"sprint", "Sprint: iteración de duración fija (habitualmente 2 semanas) que produce un incremento potencialmente desplegable."},
	{"mvp", "MVP (Minimum Viable Product): versión mínima de producto que permite validar hipótesis con el menor esfuerzo."},
	{"retrospectiva", "Retrospectiva: reunión periódica donde el equipo inspecciona su forma de trabajar y acuerda mejoras."},
	{"mttr", "MTTR (Mean Time To Recovery): tiempo medio de recuperación ante un incidente en producción."},
}

// LookupTerm finds a glossary definition mentioned in the text, or empty.
func LookupTerm(text string) string {
	t := domain.Normalize(text)
	for _, e := range glossary {
		if strings.Contains(t, e.term) {
			return e.def
		}
	}
	return ""
}

// MethodCurriculum is the training content attached to one methodology,
// keyed by topic.
type MethodCurriculum struct {
	Rituals  []string
	Phases   []string
	Roles    []string
	Metrics  []string
	Advanced []string
}

var curricula = map[string]MethodCurriculum{
	"Scrum": {
		Rituals:  []string{"Planning", "Daily", "Review", "Retrospective", "Refinement"},
		Phases:   []string{"Incepción/Plan de releases", "Sprints de desarrollo (2 semanas)", "QA/Hardening", "Despliegue y transferencia"},
		Roles:    []string{"Product Owner", "Scrum Master", "Equipo de desarrollo (Dev/QA/UX)"},
		Metrics:  []string{"Velocidad", "Burndown/Burnup", "Lead time", "Cycle time"},
		Advanced: []string{"Definition of Ready/Done claros", "Descomposición de épicas", "Evitar mini-waterfalls"},
	},
	"Kanban": {
		Rituals:  []string{"Replenishment", "Revisión de flujo", "Retro de flujo"},
		Phases:   []string{"Discovery y diseño", "Flujo continuo con WIP", "QA continuo", "Estabilización/operación"},
		Roles:    []string{"Product/Project", "Tech Lead", "Equipo (Dev/QA/UX)"},
		Metrics:  []string{"Lead time", "Throughput", "WIP", "Cumulative Flow"},
		Advanced: []string{"Políticas explícitas", "Clases de servicio/SLAs", "Gestión de bloqueos"},
	},
	"XP": {
		Rituals:  []string{"Iteraciones cortas", "Planning game", "Retro", "Integración continua"},
		Phases:   []string{"Discovery + Historias", "Iteraciones con TDD/Refactor/CI", "Pruebas de aceptación", "Release y traspaso"},
		Roles:    []string{"Cliente/PO", "Equipo de desarrollo", "Coach (opcional)"},
		Metrics:  []string{"Cobertura de tests", "Frecuencia de despliegue", "Cambios fallidos"},
		Advanced: []string{"TDD/ATDD", "Pair/Mob programming", "Feature toggles"},
	},
	"Lean": {
		Rituals:  []string{"Kaizen", "Gemba", "Revisión del flujo de valor"},
		Phases:   []string{"Mapa de valor", "Eliminar desperdicios", "Entregas por demanda"},
		Roles:    []string{"Líder de producto", "Equipo multifuncional"},
		Metrics:  []string{"Lead time", "Takt time", "WIP"},
		Advanced: []string{"JIT", "Poka-Yoke", "Teoría de colas"},
	},
	"Scrumban": {
		Rituals:  []string{"Daily", "Replenishment", "Retro"},
		Phases:   []string{"Backlog a flujo con WIP", "Revisiones periódicas", "Release continuo"},
		Roles:    []string{"PO/PM", "Scrum Master o Flow Manager", "Equipo"},
		Metrics:  []string{"Velocidad y métricas de flujo"},
		Advanced: []string{"WIP dinámico", "Políticas híbridas sprint/flujo"},
	},
	"Crystal": {
		Rituals:  []string{"Entregas frecuentes", "Retro e inspección", "Revisión de trabajo"},
		Phases:   []string{"Inicio ligero", "Iteraciones", "Release"},
		Roles:    []string{"Usuarios clave", "Equipo polivalente"},
		Metrics:  []string{"Frecuencia de entrega"},
		Advanced: []string{"Ajustar prácticas a tamaño/criticidad"},
	},
	"FDD": {
		Rituals:  []string{"Plan por funcionalidades", "Diseñar por funcionalidad", "Construir por funcionalidad"},
		Phases:   []string{"Modelo de dominio", "Lista de funcionalidades", "Diseño y construcción iterativa"},
		Roles:    []string{"Chief Programmer", "Class Owners", "Equipo"},
		Metrics:  []string{"Progreso por funcionalidad"},
		Advanced: []string{"Feature teams y ownership claro"},
	},
	"DSDM": {
		Rituals:  []string{"Timeboxing", "MoSCoW", "Workshops"},
		Phases:   []string{"Preproyecto", "Exploración", "Ingeniería", "Implementación"},
		Roles:    []string{"Business Sponsor/Visionary", "Team Leader", "Solution Dev/Tester"},
		Metrics:  []string{"Cumplimiento de timebox", "Valor entregado"},
		Advanced: []string{"Facilitación y MoSCoW estricta"},
	},
	"SAFe": {
		Rituals:  []string{"PI Planning", "System demo", "Inspect & Adapt"},
		Phases:   []string{"ARTs por PI", "Cadencias sincronizadas", "Release train"},
		Roles:    []string{"Product Manager/PO", "RTE", "System Architect"},
		Metrics:  []string{"Predictabilidad", "Tiempo de flujo", "Objetivos de PI"},
		Advanced: []string{"Lean Portfolio y guardrails de inversión"},
	},
	"DevOps": {
		Rituals:  []string{"Postmortems sin culpa", "Revisión de pipeline", "Game days"},
		Phases:   []string{"Integración continua", "Despliegue continuo", "Operación y observabilidad", "Mejora continua"},
		Roles:    []string{"Dev", "Ops/SRE", "Security"},
		Metrics:  []string{"DORA: frecuencia despliegue, tiempo de entrega, MTTR, tasa de fallos"},
		Advanced: []string{"Infraestructura como código", "Entrega progresiva", "SLO/SLA y error budgets"},
	},
}

// CurriculumFor returns the training content for a methodology name.
func CurriculumFor(name string) (MethodCurriculum, bool) {
	c, ok := curricula[Resolve(name)]
	return c, ok
}
