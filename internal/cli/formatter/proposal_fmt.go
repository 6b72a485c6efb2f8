package formatter

import (
	"fmt"
	"strings"

	"github.com/asanchezr/consultor/internal/domain"
	"github.com/asanchezr/consultor/internal/engine"
	"github.com/asanchezr/consultor/internal/knowledge"
)

// FormatProposal renders a proposal for terminal output: header, team,
// phases, budget and risks.
func FormatProposal(p *domain.Proposal) string {
	var b strings.Builder

	b.WriteString(Header("Propuesta — "+p.Methodology) + "\n\n")

	b.WriteString(Bold("Equipo") + "\n")
	for _, m := range p.Team {
		b.WriteString(fmt.Sprintf("  %s %s", StyleBlue.Render(fmt.Sprintf("x%g", m.Count)), m.Role))
		if len(m.Skills) > 0 {
			b.WriteString(" " + Dim("("+strings.Join(m.Skills, ", ")+")"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + Bold("Fases") + "\n")
	for _, ph := range p.Phases {
		b.WriteString(fmt.Sprintf("  %s %s\n", StyleGreen.Render(fmt.Sprintf("%2d sem", ph.Weeks)), ph.Name))
	}

	b.WriteString("\n" + Bold("Presupuesto") + "\n")
	b.WriteString(fmt.Sprintf("  Labor        %s\n", engine.FormatEUR(p.Budget.Labor)))
	b.WriteString(fmt.Sprintf("  Contingencia %s (%.0f%%)\n", engine.FormatEUR(p.Budget.Contingency), p.Budget.Assumptions.ContingencyPct*100))
	b.WriteString(fmt.Sprintf("  %s %s\n", Bold("Total"), StyleYellow.Render(engine.FormatEUR(p.Budget.Total))))
	if note := p.Budget.Assumptions.IndustryNote; note != "" {
		b.WriteString("  " + Dim(note) + "\n")
	}

	if len(p.Risks) > 0 {
		b.WriteString("\n" + Bold("Riesgos") + "\n")
		for _, r := range p.Risks {
			b.WriteString("  " + StyleRed.Render("•") + " " + r + "\n")
		}
	}

	return b.String()
}

// FormatRanking renders a scored methodology ranking, best first.
func FormatRanking(ranking []knowledge.ScoreEntry) string {
	var b strings.Builder
	b.WriteString(Header("Ranking de metodologías") + "\n\n")
	for i, e := range ranking {
		style := StyleFg
		if i == 0 {
			style = StyleGreen
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", style.Render(fmt.Sprintf("%-10s %5.2f", e.Method, e.Score)), Dim(strings.Join(e.Why, "; "))))
	}
	return b.String()
}
