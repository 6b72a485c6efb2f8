package planner

import (
	"github.com/asanchezr/consultor/internal/domain"
)

func rateFor(role string, rates map[string]float64, multiplier float64) float64 {
	if r, ok := rates[role]; ok {
		return r * multiplier
	}
	return DefaultWeeklyRate * multiplier
}

func computeBudget(team []domain.TeamMember, weeks int, profile industryProfile) domain.Budget {
	assumptions := domain.BudgetAssumptions{
		ProjectWeeks:   weeks,
		RoleRates:      BaseRoleRates,
		RateMultiplier: profile.rateMultiplier,
		IndustryNote:   profile.note,
		ContingencyPct: profile.contingencyPct,
	}
	return budgetFrom(team, assumptions)
}

func budgetFrom(team []domain.TeamMember, a domain.BudgetAssumptions) domain.Budget {
	byRole := make(map[string]float64, len(team))
	var labor float64
	for _, m := range team {
		rate := rateFor(m.Role, a.RoleRates, a.RateMultiplier)
		cost := m.Count * float64(a.ProjectWeeks) * rate
		byRole[m.Role] += cost
		labor += cost
	}
	labor = domain.RoundMoney(labor)
	contingency := domain.RoundMoney(a.ContingencyPct * labor)
	return domain.Budget{
		Labor:       labor,
		Contingency: contingency,
		Total:       domain.RoundMoney(labor + contingency),
		ByRole:      byRole,
		Assumptions: a,
	}
}

// Recompute rebuilds the budget from the proposal's recorded assumptions
// after a team patch. Rates, multiplier and contingency stay as originally
// derived; only the staffing input changes. A zero ContingencyPct is a
// valid assumption (the user asked for no buffer), so it is never filled
// back in.
func Recompute(p *domain.Proposal) {
	a := p.Budget.Assumptions
	if a.RoleRates == nil {
		a.RoleRates = BaseRoleRates
	}
	if a.RateMultiplier == 0 {
		a.RateMultiplier = 1.0
	}
	if a.ProjectWeeks == 0 {
		a.ProjectWeeks = p.TotalWeeks()
	}
	p.Budget = budgetFrom(p.Team, a)
}
