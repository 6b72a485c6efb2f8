package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Synonyms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"scaled agile", "SAFe"},
		{"SAFE", "SAFe"},
		{"extreme programming", "XP"},
		{"Programación Extrema", "XP"},
		{"lean startup", "Lean"},
		{"kanban", "Kanban"},
		{"SCRUM", "Scrum"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Resolve(tc.in), "input %q", tc.in)
	}
}

func TestResolve_UnknownNameTitleCased(t *testing.T) {
	got := Resolve("waterfall clásico")

	assert.Equal(t, "Waterfall Clásico", got)
	assert.False(t, Known(got))
}

func TestGet_DiacriticInsensitive(t *testing.T) {
	m, ok := Get("scrum")
	require.True(t, ok)
	assert.Equal(t, "Scrum", m.Name)

	_, ok = Get("rup")
	assert.False(t, ok)
}

func TestCatalog_EveryEntryComplete(t *testing.T) {
	for _, m := range Catalog {
		assert.NotEmpty(t, m.Vision, "%s vision", m.Name)
		assert.NotEmpty(t, m.FitWhen, "%s fit conditions", m.Name)
		assert.NotEmpty(t, m.Practices, "%s practices", m.Name)
		assert.NotEmpty(t, m.Sources, "%s sources", m.Name)
	}
}

func TestCatalog_ScoringRulesAligned(t *testing.T) {
	require.Len(t, scoringRules, len(Catalog))
	for i, mr := range scoringRules {
		assert.Equal(t, Catalog[i].Name, mr.method, "rule table order must match catalog order")
	}
}

func TestMentionedMethods(t *testing.T) {
	got := MentionedMethods("prefiero Kanban antes que Scrum para esto")

	assert.Equal(t, []string{"Scrum", "Kanban"}, got, "catalog order, not mention order")
}

func TestCompare_KnownPair(t *testing.T) {
	lines := Compare("Scrum", "Kanban")

	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "Scrum vs Kanban")
	assert.Greater(t, len(lines), 1)
}
