package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/asanchezr/consultor/internal/domain"
	"github.com/asanchezr/consultor/internal/intents"
	"github.com/asanchezr/consultor/internal/knowledge"
	"github.com/asanchezr/consultor/internal/planner"
	"github.com/asanchezr/consultor/internal/session"
)

// Recorder persists conversational artifacts for later consultation.
type Recorder interface {
	SaveProposal(ctx context.Context, sessionID, requirements string, p *domain.Proposal) error
	SaveMessage(ctx context.Context, sessionID, role, text string) error
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) SaveProposal(context.Context, string, string, *domain.Proposal) error {
	return nil
}
func (NoopRecorder) SaveMessage(context.Context, string, string, string) error { return nil }

// Engine is the conversational core: it keeps per-session proposals in the
// store and turns each user message into a reply plus a branch tag.
type Engine struct {
	store      session.Store
	classifier intents.Classifier
	recorder   Recorder
	cases      CaseFinder
	observer   Observer
}

func NewEngine(store session.Store, classifier intents.Classifier, recorder Recorder, finder CaseFinder, observers ...Observer) *Engine {
	if recorder == nil {
		recorder = NoopRecorder{}
	}
	return &Engine{
		store:      store,
		classifier: classifier,
		recorder:   recorder,
		cases:      finder,
		observer:   observerOrNoop(observers),
	}
}

// GetLastProposal exposes the stored proposal for callers outside the chat
// loop (CLI subcommands, persistence).
func (e *Engine) GetLastProposal(sessionID string) (*domain.Proposal, string, bool) {
	return e.store.Proposal(sessionID)
}

// SetLastProposal replaces the stored proposal, e.g. when resuming a saved
// session.
func (e *Engine) SetLastProposal(sessionID string, p *domain.Proposal, requirements string) {
	e.store.SetProposal(sessionID, p, requirements)
}

const (
	greetReply   = "¡Hola! ¿Quieres generar una propuesta de proyecto? Describe tus requisitos o usa '/propuesta: ...' y te entrego un plan completo."
	goodbyeReply = "¡Hasta luego! Si quieres, deja aquí los requisitos y seguiré trabajando en la propuesta."
	thanksReply  = "¡A ti! Si necesitas presupuesto o plan de equipo, dime los requisitos."
	helpReply    = "Puedo: 1) generar una propuesta completa (equipo, fases, metodología, presupuesto, riesgos), " +
		"2) explicar por qué tomo cada decisión (con citas), 3) evaluar y aplicar cambios con confirmación (sí/no) en metodología y en toda la propuesta.\n" +
		"Ejemplos: 'añade 0.5 QA', 'tarifa de Backend a 1200', 'contingencia a 15%', '/cambiar: Kanban', 'añade riesgo: cumplimiento RGPD'."
	fallbackReply = "Te he entendido. Dame más contexto (objetivo, usuarios, módulos clave) " +
		"o escribe '/propuesta: ...' y te entrego un plan completo con justificación y fuentes."
	noProposalForAsk = "Aún no tengo una propuesta guardada en esta sesión. Genera una con '/propuesta: ...' y te doy el detalle."
)

// GenerateReply advances the session state machine one message. The second
// return value tags which branch produced the reply.
func (e *Engine) GenerateReply(ctx context.Context, sessionID, message string) (string, string) {
	text := strings.TrimSpace(message)
	_ = e.recorder.SaveMessage(ctx, sessionID, "user", text)

	started := time.Now()
	reply, tag := e.reply(ctx, sessionID, text)
	e.observer.ObserveReply(ctx, ReplyEvent{
		SessionID: sessionID,
		Tag:       tag,
		Duration:  time.Since(started),
		StartedAt: started,
	})
	_ = e.recorder.SaveMessage(ctx, sessionID, "assistant", reply)
	return reply, tag
}

func (e *Engine) reply(ctx context.Context, sessionID, text string) (string, string) {
	proposal, reqText, hasProposal := e.store.Proposal(sessionID)

	// 1) Pending methodology change waits for sí/no before anything else.
	if pending, ok := e.store.PendingChange(sessionID); ok {
		switch {
		case isYes(text):
			e.store.ClearPendingChange(sessionID)
			if !hasProposal {
				return "Necesito una propuesta base antes de cambiar. Usa '/propuesta: ...'.", TagMethodChangeNoProposal
			}
			planner.Retune(proposal, pending.TargetMethodology, reqText)
			e.store.SetProposal(sessionID, proposal, reqText)
			_ = e.recorder.SaveProposal(ctx, sessionID, reqText, proposal)
			return PrettyProposal(proposal), TagMethodChangeConfirmed
		case isNo(text):
			e.store.ClearPendingChange(sessionID)
			return "Perfecto, mantengo la metodología actual.", TagMethodChangeDeclined
		default:
			return "Tengo un cambio de metodología pendiente. ¿Lo aplico? sí/no", TagMethodChangeAdvice
		}
	}

	// 2) Explicit proposal command.
	if arg, ok := commandArg(text, "/propuesta:"); ok {
		req := arg
		if req == "" {
			req = "Proyecto genérico"
		}
		p := planner.Generate(req)
		tag := TagProposalCreated
		if hasProposal {
			tag = TagProposalReplaced
		}
		e.store.SetProposal(sessionID, p, req)
		_ = e.recorder.SaveProposal(ctx, sessionID, req, p)
		return PrettyProposal(p), tag
	}

	// 3) Explicit change command: a known methodology retunes on the spot,
	// anything else is parsed as a proposal patch and applied directly. The
	// prefix is the user being explicit, so no confirmation round-trip.
	if arg, ok := commandArg(text, "/cambiar:"); ok {
		if knowledge.Known(arg) {
			if !hasProposal {
				return "Primero necesito una propuesta en esta sesión. Usa '/propuesta: ...' y luego pide el cambio.", TagMethodChangeNoProposal
			}
			target := knowledge.Resolve(arg)
			planner.Retune(proposal, target, reqText)
			e.store.SetProposal(sessionID, proposal, reqText)
			_ = e.recorder.SaveProposal(ctx, sessionID, reqText, proposal)
			return PrettyProposal(proposal), TagMethodChanged
		}
		if patch := ParsePatch(arg); !patch.Empty() {
			if !hasProposal {
				return "Primero necesito una propuesta en esta sesión. Usa '/propuesta: ...' y después propón cambios.", TagChangeCommandNoProposal
			}
			return e.applyPatch(ctx, sessionID, proposal, reqText, patch)
		}
		return "No entendí qué cambiar. Puedes usar ejemplos: '/cambiar: añade 0.5 QA', '/cambiar: contingencia a 15%'", TagChangeCommandUnparsed
	}

	// 4) Explicit approval of the plan opens the staffing flow: ask for
	// the roster.
	if hasProposal && acceptsProposal(domain.Normalize(text)) {
		e.store.SetLastArea(sessionID, "staffing")
		return staffRosterPrompt, TagStaffingPrompt
	}

	// 5) A pasted roster gets matched against the plan: assignment per role
	// and per phase, plus the skill-gap training plan.
	if hasProposal && looksLikeStaffList(text) {
		staff := ParseStaffList(text)
		if len(staff) == 0 {
			return "No pude reconocer la plantilla. Usa: 'Nombre — Rol — Skills — Seniority — %'.", TagStaffingUnparsed
		}
		e.saveSessionStaff(sessionID, staff)
		e.store.SetLastArea(sessionID, "staffing")
		out := SuggestStaffing(proposal, staff)
		out = append(out, "")
		out = append(out, RenderTrainingPlan(proposal, reqText, staff)...)
		return strings.Join(out, "\n"), TagStaffingAssigned
	}

	// 6) Natural-language methodology switch: advice plus confirmation.
	if target, ok := ParseChangeRequest(text); ok && knowledge.Known(target) {
		if !hasProposal {
			return fmt.Sprintf("Para evaluar si conviene cambiar a %s, necesito una propuesta base. "+
				"Genera una con '/propuesta: ...' y vuelvo a aconsejarte.", target), TagMethodChangeNoProposal
		}
		advice := changeAdvice(proposal.Methodology, target, reqText)
		e.store.SetPendingChange(sessionID, domain.PendingChange{TargetMethodology: target})
		return advice + fmt.Sprintf("\n¿Quieres que cambie el plan a %s ahora? sí/no", target), TagMethodChangeAdvice
	}

	// 7) Natural-language proposal patch, applied directly.
	if patch := ParsePatch(text); !patch.Empty() {
		if !hasProposal {
			return "Para ajustar el equipo necesito una propuesta base. Genera una con '/propuesta: ...' y aplico el cambio.", TagPatchNoProposal
		}
		return e.applyPatch(ctx, sessionID, proposal, reqText, patch)
	}

	// 8) Small-talk intents.
	if intent, _, err := e.classifier.Predict(ctx, text); err == nil {
		switch intent {
		case intents.IntentGreet:
			return greetReply, TagIntentGreet
		case intents.IntentGoodbye:
			return goodbyeReply, TagIntentGoodbye
		case intents.IntentThanks:
			return thanksReply, TagIntentThanks
		case intents.IntentHelp:
			return helpReply, TagIntentHelp
		}
	}

	// 9) Similar past cases retrieved from the proposal log.
	if asksSimilar(domain.Normalize(text)) {
		query := reqText
		if query == "" {
			query = text
		}
		if e.cases != nil {
			if sims, err := e.cases.SimilarCases(ctx, query, 3); err == nil && len(sims) > 0 {
				return SimilarCasesText(sims), TagAskSimilar
			}
		}
		return noSimilarCasesReply, TagAskSimilarNone
	}

	// 10) Topic questions about the current plan.
	if reply, tag, ok := e.topicReply(sessionID, proposal, reqText, hasProposal, text); ok {
		return reply, tag
	}

	// 11) Free text that reads like requirements becomes a proposal.
	if looksLikeRequirements(text) {
		p := planner.Generate(text)
		tag := TagProposalCreated
		if hasProposal {
			tag = TagProposalReplaced
		}
		e.store.SetProposal(sessionID, p, text)
		_ = e.recorder.SaveProposal(ctx, sessionID, text, p)
		return PrettyProposal(p), tag
	}

	return fallbackReply, TagFallback
}

func (e *Engine) applyPatch(ctx context.Context, sessionID string, p *domain.Proposal, reqText string, patch *Patch) (string, string) {
	if err := ApplyPatch(p, patch); err != nil {
		return "No puedo aplicar ese cambio: " + err.Error(), TagChangeCommandUnparsed
	}
	e.store.SetProposal(sessionID, p, reqText)
	_ = e.recorder.SaveProposal(ctx, sessionID, reqText, p)
	return PrettyProposal(p), TagProposalPatched
}

// topicReply answers follow-up questions about the stored proposal. The
// detector order goes from most to least specific so "por qué 2 backend"
// never falls through to the generic team answer.
func (e *Engine) topicReply(sessionID string, p *domain.Proposal, reqText string, hasProposal bool, text string) (string, string, bool) {
	t := domain.Normalize(text)

	if asksMethodList(t) {
		return CatalogText(), TagAskCatalog, true
	}
	if asksSources(t) {
		if !hasProposal {
			return "Aún no tengo una propuesta guardada en esta sesión. Genera una con '/propuesta: ...' y te cito autores y documentación.", TagAskNoProposal, true
		}
		return SourcesText(p), TagAskSources, true
	}
	if asksTrainingPlan(t) {
		// With a roster on record the question is about this team's gaps;
		// without one, only the explicit gap phrasings claim it and a bare
		// "formación" still means the methodology curriculum.
		if staff, ok := e.sessionStaff(sessionID); ok && hasProposal {
			return strings.Join(RenderTrainingPlan(p, reqText, staff), "\n"), TagStaffingTraining, true
		}
		if containsAny(t, "gaps", "carencias", "upskilling", "plan de formacion") {
			return "Pásame primero tu plantilla (Nombre — Rol — Skills — Seniority — %) y te detecto gaps y plan de formación.", TagStaffingNoRoster, true
		}
	}
	if asksCurriculum(t) {
		if methods := knowledge.MentionedMethods(text); len(methods) > 0 {
			return CurriculumText(methods[0]), TagAskCurriculum, true
		}
		if hasProposal {
			return CurriculumText(p.Methodology), TagAskCurriculum, true
		}
	}
	if asksDefinition(t) {
		if methods := knowledge.MentionedMethods(text); len(methods) > 0 {
			return methods[0] + ": " + knowledge.MethodBrief(methods[0]), TagAskDefinition, true
		}
		if def := knowledge.LookupTerm(text); def != "" {
			return def, TagAskDefinition, true
		}
	}

	if asksWhy(t) {
		if role, count, ok := asksWhyRoleCount(t); ok && hasProposal {
			if m := p.FindRole(role); m != nil {
				e.store.SetLastArea(sessionID, "equipo")
				return WhyRoleCount(m.Role, m.Count, reqText), TagAskWhyRoleCount, true
			}
			return WhyRoleCount(role, count, reqText), TagAskWhyRoleCount, true
		}
		if asksTeam(t) {
			if !hasProposal {
				return noProposalForAsk, TagAskNoProposal, true
			}
			e.store.SetLastArea(sessionID, "equipo")
			return WhyTeam(p, reqText), TagAskWhyTeam, true
		}
		if asksBudget(t) {
			if !hasProposal {
				return noProposalForAsk, TagAskNoProposal, true
			}
			e.store.SetLastArea(sessionID, "presupuesto")
			return WhyBudget(p), TagAskBudget, true
		}
		if methods := knowledge.MentionedMethods(text); len(methods) >= 2 {
			return strings.Join(knowledge.Compare(methods[0], methods[1]), "\n"), TagAskWhyMethod, true
		} else if len(methods) == 1 && hasProposal {
			e.store.SetLastArea(sessionID, "metodologia")
			return WhyMethod(reqText, methods[0]), TagAskWhyMethod, true
		} else if strings.Contains(t, "metodolog") && hasProposal {
			e.store.SetLastArea(sessionID, "metodologia")
			return WhyMethod(reqText, p.Methodology), TagAskWhyMethod, true
		}
		if asksPhases(t) {
			if !hasProposal {
				return "Aún no tengo una propuesta para explicar las fases. Genera una con '/propuesta: ...' y te explico cada fase y su motivo.", TagAskNoProposal, true
			}
			e.store.SetLastArea(sessionID, "fases")
			return PhasesSummary(p), TagAskPhases, true
		}
		if hasProposal {
			generic := []string{
				"Metodología: " + p.Methodology,
				"Equipo dimensionado por módulos detectados y equilibrio coste/velocidad.",
				"Fases cubren descubrimiento a entrega; cada una reduce un riesgo.",
				"Presupuesto = headcount × semanas × tarifa por rol + % de contingencia.",
			}
			return "Explicación general:\n- " + strings.Join(generic, "\n- "), TagAskWhyMethod, true
		}
		return "Puedo justificar metodología, equipo, fases, presupuesto y riesgos. " +
			"Genera una propuesta con '/propuesta: ...' y la explico punto por punto.", TagAskNoProposal, true
	}

	if asksBudgetBreakdown(t) {
		if !hasProposal {
			return "Genera primero una propuesta con '/propuesta: ...' para poder desglosar el presupuesto por rol.", TagAskNoProposal, true
		}
		e.store.SetLastArea(sessionID, "presupuesto")
		return BudgetBreakdown(p), TagAskBudgetBreakdown, true
	}
	if asksBudget(t) {
		if !hasProposal {
			return "Para estimar presupuesto considero: alcance → equipo → semanas → tarifas por rol + % de contingencia.\n" +
				"Genera una propuesta con '/propuesta: ...' y te doy el detalle.", TagAskNoProposal, true
		}
		e.store.SetLastArea(sessionID, "presupuesto")
		return BudgetBreakdown(p), TagAskBudget, true
	}

	// Action-style follow-ups need a plan to detail.
	type action struct {
		match  func(string) bool
		render func(*domain.Proposal) string
		tag    string
	}
	for _, a := range []action{
		{asksDiscovery, DiscoveryPlan, TagAskDiscovery},
		{asksRisks, RiskAnalysis, TagAskRisks},
		{asksKPIs, KPIPlan, TagAskKPIs},
		{asksQAPlan, QAPlan, TagAskQAPlan},
		{asksDeployment, DeploymentPlan, TagAskDeployment},
		{asksDeliverables, DeliverablesPlan, TagAskDeliverables},
	} {
		if a.match(t) {
			if !hasProposal {
				return "Necesito una propuesta base para generar el detalle. Usa '/propuesta: ...' primero.", TagAskNoProposal, true
			}
			return a.render(p), a.tag, true
		}
	}

	if asksTeam(t) {
		if !hasProposal {
			return "Perfiles típicos: PM, Tech Lead, Backend, Frontend, QA, UX. " +
				"La cantidad depende de módulos: pagos, panel admin, mobile, IA… " +
				"Describe el alcance y dimensiono el equipo.", TagAskNoProposal, true
		}
		e.store.SetLastArea(sessionID, "equipo")
		return WhyTeam(p, reqText), TagAskTeam, true
	}
	if asksPhases(t) {
		if !hasProposal {
			return "Aún no tengo una propuesta para explicar las fases. Genera una con '/propuesta: ...' y te explico cada fase y su motivo.", TagAskNoProposal, true
		}
		e.store.SetLastArea(sessionID, "fases")
		if d := phaseMentioned(text, p); d != "" {
			return knowledge.ExplainPhase(d, p.Methodology), TagAskPhaseDetail, true
		}
		return PhasesSummary(p), TagAskPhases, true
	}

	return "", "", false
}

// phaseMentioned returns the proposal phase named in the text, if any.
func phaseMentioned(text string, p *domain.Proposal) string {
	t := domain.Normalize(text)
	for _, ph := range p.Phases {
		n := domain.Normalize(ph.Name)
		if strings.Contains(t, n) {
			return ph.Name
		}
		// Match on the phase's leading word too ("sprints", "hardening").
		if first := strings.Fields(n); len(first) > 0 && len(first[0]) > 3 && strings.Contains(t, first[0]) {
			return ph.Name
		}
	}
	return ""
}

// changeAdvice compares the current methodology against the requested one
// and states whether the switch looks sensible. A small margin avoids
// flip-flopping on near ties.
func changeAdvice(current, target, requirements string) string {
	ranking := knowledge.Score(requirements)
	scores := make(map[string]float64, len(ranking))
	for _, e := range ranking {
		scores[e.Method] = e.Score
	}
	const margin = 0.02
	advisable := scores[target] >= scores[current]+margin

	msg := []string{fmt.Sprintf("Propones cambiar a %s (actual: %s).", target, current)}
	if advisable {
		msg = append(msg, "Sí parece conveniente el cambio.")
	} else {
		msg = append(msg, "No aconsejo el cambio en este contexto.")
	}
	msg = append(msg, fmt.Sprintf("Puntuaciones → %s: %.2f • %s: %.2f", current, scores[current], target, scores[target]))

	if advisable {
		if why := knowledge.WhyFor(ranking, target); len(why) > 0 {
			msg = append(msg, "Razones:")
			msg = append(msg, why...)
		}
		if m, ok := knowledge.Get(current); ok && len(m.AvoidWhen) > 0 {
			msg = append(msg, fmt.Sprintf("Cuándo no conviene %s: %s", current, strings.Join(m.AvoidWhen, "; ")))
		}
	} else {
		if why := knowledge.WhyFor(ranking, current); len(why) > 0 {
			msg = append(msg, "Razones para mantener:")
			msg = append(msg, why...)
		}
		if m, ok := knowledge.Get(target); ok && len(m.AvoidWhen) > 0 {
			msg = append(msg, fmt.Sprintf("Riesgos si cambiamos a %s: %s", target, strings.Join(m.AvoidWhen, "; ")))
		}
	}
	return strings.Join(msg, "\n")
}

func commandArg(text, prefix string) (string, bool) {
	if !strings.HasPrefix(strings.ToLower(text), prefix) {
		return "", false
	}
	return strings.TrimSpace(text[len(prefix):]), true
}
