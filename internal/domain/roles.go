package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// roleSynonym maps a normalized substring to a canonical role name.
// Order matters: earlier entries win when several substrings match,
// so the more specific keys come first.
type roleSynonym struct {
	key   string
	canon string
}

var roleSynonyms = []roleSynonym{
	{"project manager", "PM"},
	{"tech lead", "Tech Lead"},
	{"arquitect", "Tech Lead"},
	{"backend", "Backend Dev"},
	{"frontend", "Frontend Dev"},
	{"quality", "QA"},
	{"tester", "QA"},
	{"qa", "QA"},
	{"disen", "UX/UI"},
	{"ux", "UX/UI"},
	{"ui", "UX/UI"},
	{"machine learning", "ML Engineer"},
	{"data", "ML Engineer"},
	{"ml", "ML Engineer"},
	{"devops", "DevOps"},
	{"sre", "DevOps"},
	{"seguridad", "Security Engineer"},
	{"security", "Security Engineer"},
	{"compliance", "Compliance"},
	{"pm", "PM"},
}

var titleCaser = cases.Title(language.Spanish)

// TitleCase title-cases free text with Spanish casing rules.
func TitleCase(s string) string {
	return titleCaser.String(CollapseSpaces(strings.TrimSpace(s)))
}

// CanonicalRole resolves free-form role text to its canonical name.
// Unknown roles are never rejected: the title-cased original is used,
// so "growth hacker x1" still lands in the team list.
func CanonicalRole(text string) string {
	t := Normalize(text)
	for _, syn := range roleSynonyms {
		if strings.Contains(t, syn.key) {
			return syn.canon
		}
	}
	return TitleCase(text)
}

// RolesMentioned extracts every canonical role referenced in the text.
func RolesMentioned(text string) []string {
	t := Normalize(text)
	seen := make(map[string]bool)
	var out []string
	for _, syn := range roleSynonyms {
		if strings.Contains(t, syn.key) && !seen[syn.canon] {
			seen[syn.canon] = true
			out = append(out, syn.canon)
		}
	}
	return out
}
