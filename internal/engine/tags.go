package engine

// Reply tags are short machine-readable labels identifying which branch of
// the conversational state machine produced a reply. Calling layers and
// tests assert on them; they are never parsed further.
const (
	TagProposalCreated  = "proposal.created"
	TagProposalReplaced = "proposal.replaced"

	TagMethodChanged           = "method.changed"
	TagMethodChangeAdvice      = "method.change.advice"
	TagMethodChangeConfirmed   = "method.change.confirmed"
	TagMethodChangeDeclined    = "method.change.declined"
	TagMethodChangeNoProposal  = "method.change.no_proposal"
	TagChangeCommandUnparsed   = "change.unparsed"
	TagChangeCommandNoProposal = "change.no_proposal"

	TagProposalPatched = "proposal.patched"
	TagPatchNoProposal = "patch.no_proposal"

	TagStaffingPrompt   = "staffing.prompt"
	TagStaffingAssigned = "staffing.assigned"
	TagStaffingUnparsed = "staffing.unparsed"
	TagStaffingTraining = "staffing.training"
	TagStaffingNoRoster = "staffing.no_roster"

	TagIntentGreet   = "intent.greet"
	TagIntentGoodbye = "intent.goodbye"
	TagIntentThanks  = "intent.thanks"
	TagIntentHelp    = "intent.help"

	TagAskBudget          = "ask.budget"
	TagAskBudgetBreakdown = "ask.budget.breakdown"
	TagAskTeam            = "ask.team"
	TagAskWhyTeam         = "ask.team.why"
	TagAskWhyRoleCount    = "ask.team.role_count"
	TagAskWhyMethod       = "ask.method.why"
	TagAskRisks           = "ask.risks"
	TagAskKPIs            = "ask.kpis"
	TagAskQAPlan          = "ask.qa_plan"
	TagAskDeployment      = "ask.deployment"
	TagAskDeliverables    = "ask.deliverables"
	TagAskDiscovery       = "ask.discovery"
	TagAskPhases          = "ask.phases"
	TagAskPhaseDetail     = "ask.phase.detail"
	TagAskSources         = "ask.sources"
	TagAskCatalog         = "ask.catalog"
	TagAskCurriculum      = "ask.curriculum"
	TagAskSimilar         = "ask.similar"
	TagAskSimilarNone     = "ask.similar.none"
	TagAskDefinition      = "ask.definition"
	TagAskNoProposal      = "ask.no_proposal"

	TagFallback = "fallback"
)
