package knowledge

import (
	"fmt"
	"strings"

	"github.com/asanchezr/consultor/internal/domain"
)

// PhaseDetail is the static knowledge attached to one canonical delivery
// phase: what it is for, what it produces, how to run it and how to tell
// it went well. Phase names in proposals map onto these via alias matching.
type PhaseDetail struct {
	Key          string
	Title        string
	Aliases      []string
	Goals        []string
	Deliverables []string
	Practices    []string
	KPIs         []string
	Roles        []string
}

// PhaseCatalog holds the canonical phases in execution order.
var PhaseCatalog = []PhaseDetail{
	{
		Key:     "discovery",
		Title:   "Incepción / Discovery",
		Aliases: []string{"incepcion", "inception", "discovery", "descubrimiento", "inicio", "kickoff", "plan de releases", "release planning", "diseno", "design"},
		Goals: []string{
			"Alinear visión, alcance y riesgos.",
			"Definir roadmap y criterios de éxito (DoR/DoD).",
			"Acordar governance, cadencia y Definition of Ready.",
		},
		Deliverables: []string{
			"Mapa de alcance y priorización.",
			"Plan de releases inicial y milestones.",
			"Backlog inicial con épicas/historias y riesgos identificados.",
		},
		Practices: []string{
			"Workshops con stakeholders.",
			"Decisiones visibles (ADR).",
			"Políticas de entrada al flujo/sprint claras.",
		},
		KPIs: []string{
			"Claridad de alcance consensuada.",
			"Riesgos y supuestos registrados.",
			"Aprobación de stakeholders.",
		},
		Roles: []string{"PM", "Tech Lead", "UX/UI"},
	},
	{
		Key:     "build",
		Title:   "Desarrollo iterativo",
		Aliases: []string{"sprint", "sprints", "iteraciones", "iteracion", "desarrollo", "implementacion", "implementation", "build", "flujo continuo"},
		Goals: []string{
			"Entregar valor incremental con feedback frecuente.",
			"Mantener calidad interna alta.",
		},
		Deliverables: []string{
			"Incremento potencialmente desplegable.",
			"Código revisado y probado.",
			"Demo/Review con stakeholders.",
		},
		Practices: []string{
			"Cadencia corta con límites WIP razonables.",
			"Pairing/PRs, definición de 'hecho' compartida.",
			"Backlog refinado.",
		},
		KPIs: []string{
			"Lead time / cycle time.",
			"Velocidad estable.",
			"Baja tasa de defectos por iteración.",
		},
		Roles: []string{"Backend Dev", "Frontend Dev", "DevOps", "QA", "Tech Lead"},
	},
	{
		Key:     "qa",
		Title:   "QA / Hardening",
		Aliases: []string{"qa", "quality", "calidad", "hardening", "estabilizacion", "stabilization", "aceptacion", "pruebas de aceptacion", "testing"},
		Goals: []string{
			"Reducir defectos y riesgo operativo antes del release.",
			"Validar criterios de aceptación, performance y seguridad.",
		},
		Deliverables: []string{
			"Plan de pruebas ejecutado y evidencias.",
			"Pruebas de carga y seguridad.",
			"Issues críticos cerrados.",
		},
		Practices: []string{
			"Automatización de regresión/UI.",
			"Ambiente staging 'production-like'.",
			"Control de cambios (code freeze) acotado.",
		},
		KPIs: []string{
			"Tasa de defectos abierta/cerrada.",
			"Cobertura de pruebas.",
			"Resultados de performance.",
		},
		Roles: []string{"QA", "DevOps", "Backend Dev", "Frontend Dev"},
	},
	{
		Key:     "release",
		Title:   "Despliegue & Transferencia",
		Aliases: []string{"despliegue", "release", "go-live", "produccion", "handover", "transferencia", "salida a produccion"},
		Goals: []string{
			"Poner el incremento en producción de forma segura.",
			"Transferir conocimiento a Operaciones/cliente.",
		},
		Deliverables: []string{
			"Checklist de release completado.",
			"Plan de rollback y comunicación.",
			"Documentación operativa y formación.",
		},
		Practices: []string{
			"Deploy gradual / feature flags.",
			"Observabilidad y alertas activas.",
			"Postmortem ligero si hay incidencias.",
		},
		KPIs: []string{
			"Tiempo de recuperación (MTTR).",
			"Incidentes post-release.",
			"Adopción del usuario final.",
		},
		Roles: []string{"DevOps", "Tech Lead", "PM"},
	},
}

var genericPhase = PhaseDetail{
	Key:   "generic",
	Title: "Fase del proyecto",
	Goals: []string{"Contribuir al resultado del proyecto bajo el enfoque seleccionado."},
	Deliverables: []string{
		"Artefactos definidos para cerrar la fase.",
		"Riesgos mitigados y decisiones registradas.",
	},
	Practices: []string{
		"Definir criterios de entrada/salida.",
		"Visibilidad del trabajo y deudas.",
	},
	Roles: []string{"PM", "Tech Lead", "QA", "Backend Dev", "Frontend Dev"},
}

// PhaseFor maps a free-form phase name onto its catalog detail. Unmatched
// names get the generic fallback, never an error.
func PhaseFor(name string) *PhaseDetail {
	t := domain.Normalize(name)
	for i := range PhaseCatalog {
		for _, alias := range PhaseCatalog[i].Aliases {
			if strings.Contains(t, alias) {
				return &PhaseCatalog[i]
			}
		}
	}
	return &genericPhase
}

// ExplainPhase renders the detailed description block for one phase of the
// current proposal.
func ExplainPhase(name, method string) string {
	d := PhaseFor(name)
	block := func(title string, bullets []string) string {
		return title + ":\n- " + strings.Join(bullets, "\n- ")
	}
	parts := []string{fmt.Sprintf("%s — descripción detallada", name)}
	parts = append(parts, block("Objetivo", d.Goals))
	parts = append(parts, block("Entregables", d.Deliverables))
	parts = append(parts, block("Buenas prácticas", d.Practices))
	if len(d.KPIs) > 0 {
		parts = append(parts, block("KPIs", d.KPIs))
	}
	parts = append(parts, fmt.Sprintf("Metodología actual: %s.", method))
	return strings.Join(parts, "\n\n")
}
