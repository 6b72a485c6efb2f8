package engine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/asanchezr/consultor/internal/domain"
	"github.com/asanchezr/consultor/internal/knowledge"
	"github.com/asanchezr/consultor/internal/planner"
)

// TeamOp is one structured mutation of the proposal's team list.
type TeamOp struct {
	Op    string // "set", "add" or "remove"
	Role  string // raw role text, canonicalized at apply time
	Count float64
}

// Patch is the parsed form of a change command. A nil or empty patch means
// the text was not recognized as a change at all.
type Patch struct {
	TeamOps        []TeamOp
	ContingencyPct *float64
	RoleRates      map[string]float64
	AddRisks       []string
	RemoveRisks    []string
}

func (p *Patch) Empty() bool {
	return p == nil ||
		(len(p.TeamOps) == 0 && p.ContingencyPct == nil && len(p.RoleRates) == 0 &&
			len(p.AddRisks) == 0 && len(p.RemoveRisks) == 0)
}

var (
	xClausePat    = regexp.MustCompile(`([a-z/][a-z/ ]*?)\s*x\s*(\d+(?:[.,]\d+)?|medio|media)`)
	addVerbPat    = regexp.MustCompile(`(?:anade|agrega|suma|incluye|mete)\s+(?:(\d+(?:[.,]\d+)?|medio|media)\s+)?([a-z/][a-z/ ]*)`)
	setNumRolePat = regexp.MustCompile(`(?:pon|deja|ajusta|establece|sube|baja)\s+(\d+(?:[.,]\d+)?|medio|media)\s+([a-z/][a-z/ ]*)`)
	setRoleNumPat = regexp.MustCompile(`(?:pon|deja|ajusta|establece|sube|baja|pasa|cambia)\s+(?:el |la |al )?([a-z/][a-z/ ]*?)\s+(?:a|en)\s+(\d+(?:[.,]\d+)?|medio|media)`)
	remVerbPat    = regexp.MustCompile(`(?:quita|elimina|borra|saca)\s+(?:el |la |al )?([a-z/][a-z/ ]*)`)

	clauseSplitPat = regexp.MustCompile(`\s*,\s*|\s+y\s+`)
	contingencyPat = regexp.MustCompile(`contingencia\s+(?:a\s+)?(\d+(?:[.,]\d+)?)\s*%`)
	roleRatePat    = regexp.MustCompile(`(?:tarifa|rate)\s+(?:de\s+)?([a-z/][a-z/ ]*?)\s+a\s+(\d+)`)
	addRiskPat     = regexp.MustCompile(`(?:anade|agrega)\s+riesgo:?\s+(.+)`)
	removeRiskPat  = regexp.MustCompile(`(?:quita|elimina)\s+riesgo:?\s+(.+)`)
)

// parseCount turns a numeric token into a float. Decimal comma and the
// words "medio"/"media" are accepted; anything unparsable falls back to
// 1.0 so one bad clause never aborts the whole command.
func parseCount(tok string) float64 {
	s := strings.TrimSpace(strings.ToLower(tok))
	switch s {
	case "", "medio", "media":
		if s == "" {
			return 1.0
		}
		return 0.5
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 1.0
	}
	return f
}

// notARole filters captures that are change targets of their own (risks,
// phases, budget knobs), so "añade riesgo: ..." never staffs a "Riesgo".
func notARole(role string) bool {
	for _, k := range []string{"riesgo", "fase", "contingencia", "tarifa", "semana"} {
		if strings.Contains(role, k) {
			return true
		}
	}
	return false
}

// ParseTeamPatch extracts team operations from free text. The explicit
// "<role> x<number>" form wins; verb phrasings ("añade 0.5 qa", "pon pm a
// 1", "quita ux") are the fallback. Commands split into clauses on commas
// and "y"; ops come back in left-to-right order.
func ParseTeamPatch(text string) []TeamOp {
	clauses := clauseSplitPat.Split(domain.Normalize(text), -1)

	var ops []TeamOp
	for _, clause := range clauses {
		for _, m := range xClausePat.FindAllStringSubmatch(clause, -1) {
			if role := strings.TrimSpace(m[1]); !notARole(role) {
				ops = append(ops, TeamOp{Op: "set", Role: role, Count: parseCount(m[2])})
			}
		}
	}
	if len(ops) > 0 {
		return ops
	}

	for _, clause := range clauses {
		if m := addVerbPat.FindStringSubmatch(clause); m != nil && !notARole(strings.TrimSpace(m[2])) {
			ops = append(ops, TeamOp{Op: "add", Role: strings.TrimSpace(m[2]), Count: parseCount(m[1])})
			continue
		}
		if m := setRoleNumPat.FindStringSubmatch(clause); m != nil && !notARole(strings.TrimSpace(m[1])) {
			ops = append(ops, TeamOp{Op: "set", Role: strings.TrimSpace(m[1]), Count: parseCount(m[2])})
			continue
		}
		if m := setNumRolePat.FindStringSubmatch(clause); m != nil && !notARole(strings.TrimSpace(m[2])) {
			ops = append(ops, TeamOp{Op: "set", Role: strings.TrimSpace(m[2]), Count: parseCount(m[1])})
			continue
		}
		if m := remVerbPat.FindStringSubmatch(clause); m != nil && !notARole(strings.TrimSpace(m[1])) {
			ops = append(ops, TeamOp{Op: "remove", Role: strings.TrimSpace(m[1])})
		}
	}
	return ops
}

// ParsePatch recognizes every supported change shape in one command: team
// operations, contingency, role rates and risk edits.
func ParsePatch(text string) *Patch {
	t := domain.Normalize(text)
	p := &Patch{TeamOps: ParseTeamPatch(text)}

	if m := contingencyPat.FindStringSubmatch(t); m != nil {
		pct := parseCount(m[1]) / 100.0
		p.ContingencyPct = &pct
	}
	for _, m := range roleRatePat.FindAllStringSubmatch(t, -1) {
		if p.RoleRates == nil {
			p.RoleRates = make(map[string]float64)
		}
		rate, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		p.RoleRates[domain.CanonicalRole(m[1])] = rate
	}
	for _, m := range addRiskPat.FindAllStringSubmatch(t, -1) {
		p.AddRisks = append(p.AddRisks, strings.TrimSpace(m[1]))
	}
	for _, m := range removeRiskPat.FindAllStringSubmatch(t, -1) {
		p.RemoveRisks = append(p.RemoveRisks, strings.TrimSpace(m[1]))
	}

	if p.Empty() {
		return nil
	}
	return p
}

// ApplyPatch mutates the proposal in place: team ops left to right with
// merge-or-insert semantics, then budget assumption edits, then risk
// edits, then a budget recompute. Idempotent for "set" operations.
func ApplyPatch(p *domain.Proposal, patch *Patch) error {
	for _, op := range patch.TeamOps {
		role := domain.CanonicalRole(op.Role)
		switch op.Op {
		case "set":
			p.SetRoleCount(role, op.Count)
		case "add":
			if m := p.FindRole(role); m != nil {
				m.Count += op.Count
			} else {
				p.SetRoleCount(role, op.Count)
			}
		case "remove":
			removeRole(p, role)
		}
	}

	if patch.ContingencyPct != nil {
		p.Budget.Assumptions.ContingencyPct = *patch.ContingencyPct
	}
	if len(patch.RoleRates) > 0 {
		rates := make(map[string]float64, len(p.Budget.Assumptions.RoleRates)+len(patch.RoleRates))
		for k, v := range p.Budget.Assumptions.RoleRates {
			rates[k] = v
		}
		for k, v := range patch.RoleRates {
			// Rates recorded by the user are effective, not pre-multiplier.
			if p.Budget.Assumptions.RateMultiplier > 0 {
				v = v / p.Budget.Assumptions.RateMultiplier
			}
			rates[k] = v
		}
		p.Budget.Assumptions.RoleRates = rates
	}

	for _, r := range patch.AddRisks {
		p.Risks = append(p.Risks, r)
	}
	for _, r := range patch.RemoveRisks {
		p.Risks = filterRisks(p.Risks, r)
	}

	if err := p.Validate(); err != nil {
		return err
	}
	planner.Recompute(p)
	return nil
}

func removeRole(p *domain.Proposal, role string) {
	key := domain.Normalize(role)
	out := p.Team[:0]
	for _, m := range p.Team {
		if domain.Normalize(m.Role) != key {
			out = append(out, m)
		}
	}
	p.Team = out
}

func filterRisks(risks []string, needle string) []string {
	key := domain.Normalize(needle)
	var out []string
	for _, r := range risks {
		if !strings.Contains(domain.Normalize(r), key) {
			out = append(out, r)
		}
	}
	return out
}

var changeRequestPat = regexp.MustCompile(
	`(?:cambiar\s+a|cambia\s+a|cambiamos\s+a|usar|usemos|quiero|prefiero|pasar\s+a|pasamos\s+a|mejor)\s+` +
		`(scrum|kanban|scrumban|xp|lean|crystal|fdd|dsdm|safe|devops|extreme programming|scaled agile)`)

var insteadOfPat = regexp.MustCompile(
	`(scrum|kanban|scrumban|xp|lean|crystal|fdd|dsdm|safe|devops)\s+(?:en\s+vez\s+de|en\s+lugar\s+de)\s+` +
		`(scrum|kanban|scrumban|xp|lean|crystal|fdd|dsdm|safe|devops)`)

// ParseChangeRequest detects a natural-language methodology switch and
// returns the resolved target name.
func ParseChangeRequest(text string) (string, bool) {
	t := domain.Normalize(text)
	if m := insteadOfPat.FindStringSubmatch(t); m != nil {
		return knowledge.Resolve(m[1]), true
	}
	if m := changeRequestPat.FindStringSubmatch(t); m != nil {
		return knowledge.Resolve(m[1]), true
	}
	return "", false
}
