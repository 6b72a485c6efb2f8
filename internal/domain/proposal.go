package domain

import (
	"fmt"
	"math"
)

// Source is a citable reference backing a recommendation.
type Source struct {
	Author string
	Title  string
	Year   int
	URL    string
}

// TeamMember is one staffed role with a fractional FTE count.
type TeamMember struct {
	Role   string
	Count  float64
	Skills []string
}

// Phase is one step of the delivery plan.
type Phase struct {
	Name         string
	Weeks        int
	Deliverables []string
}

// BudgetAssumptions records the inputs the budget was derived from, so a
// patched proposal can be recomputed without re-running the planner.
type BudgetAssumptions struct {
	ProjectWeeks   int
	RoleRates      map[string]float64 // EUR per person-week, canonical role → rate
	RateMultiplier float64
	IndustryNote   string
	ContingencyPct float64
}

// Budget holds the monetary estimate for a proposal. All amounts are EUR
// rounded to two decimals.
type Budget struct {
	Labor       float64
	Contingency float64
	Total       float64
	ByRole      map[string]float64
	Assumptions BudgetAssumptions
}

// Proposal is the mutable work product tracked per session: methodology,
// staffing, phase plan, budget and the reasoning behind them. Mutations go
// through the engine's patch path, which revalidates after every change.
type Proposal struct {
	Methodology string
	Team        []TeamMember
	Phases      []Phase
	Budget      Budget
	Risks       []string
	Explanation []string
	Sources     []Source
}

// RoundMoney rounds a monetary amount to two decimals.
func RoundMoney(x float64) float64 {
	return math.Round(x*100) / 100
}

// Validate checks the structural invariants: no negative FTE counts, no
// duplicate canonical role, no negative phase durations.
func (p *Proposal) Validate() error {
	seen := make(map[string]bool, len(p.Team))
	for _, m := range p.Team {
		if m.Count < 0 {
			return fmt.Errorf("role %q has negative count %g", m.Role, m.Count)
		}
		key := Normalize(m.Role)
		if seen[key] {
			return fmt.Errorf("duplicate canonical role %q", m.Role)
		}
		seen[key] = true
	}
	for _, ph := range p.Phases {
		if ph.Weeks < 0 {
			return fmt.Errorf("phase %q has negative duration %d", ph.Name, ph.Weeks)
		}
	}
	return nil
}

// FindRole returns the team entry matching the role under normalized
// comparison, or nil.
func (p *Proposal) FindRole(role string) *TeamMember {
	key := Normalize(role)
	for i := range p.Team {
		if Normalize(p.Team[i].Role) == key {
			return &p.Team[i]
		}
	}
	return nil
}

// SetRoleCount overwrites the count of an existing role or appends a new
// team entry. The role is expected to be canonical already.
func (p *Proposal) SetRoleCount(role string, count float64) {
	if m := p.FindRole(role); m != nil {
		m.Count = count
		return
	}
	p.Team = append(p.Team, TeamMember{Role: role, Count: count})
}

// TotalFTE sums the fractional headcount across the team.
func (p *Proposal) TotalFTE() float64 {
	var sum float64
	for _, m := range p.Team {
		sum += m.Count
	}
	return sum
}

// TotalWeeks sums the phase durations.
func (p *Proposal) TotalWeeks() int {
	var sum int
	for _, ph := range p.Phases {
		sum += ph.Weeks
	}
	return sum
}

// Clone returns a deep copy so patch evaluation never aliases stored state.
func (p *Proposal) Clone() *Proposal {
	if p == nil {
		return nil
	}
	out := *p
	out.Team = make([]TeamMember, len(p.Team))
	for i, m := range p.Team {
		out.Team[i] = m
		out.Team[i].Skills = append([]string(nil), m.Skills...)
	}
	out.Phases = make([]Phase, len(p.Phases))
	for i, ph := range p.Phases {
		out.Phases[i] = ph
		out.Phases[i].Deliverables = append([]string(nil), ph.Deliverables...)
	}
	out.Risks = append([]string(nil), p.Risks...)
	out.Explanation = append([]string(nil), p.Explanation...)
	out.Sources = append([]Source(nil), p.Sources...)
	out.Budget.ByRole = cloneFloatMap(p.Budget.ByRole)
	out.Budget.Assumptions.RoleRates = cloneFloatMap(p.Budget.Assumptions.RoleRates)
	return &out
}

func cloneFloatMap(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
