package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalRole_Synonyms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"PM", "PM"},
		{"project manager", "PM"},
		{"tester", "QA"},
		{"Quality Assurance", "QA"},
		{"qa senior", "QA"},
		{"desarrollador backend", "Backend Dev"},
		{"Frontend", "Frontend Dev"},
		{"diseñadora UX", "UX/UI"},
		{"machine learning engineer", "ML Engineer"},
		{"ingeniero de seguridad", "Security Engineer"},
		{"SRE", "DevOps"},
		{"arquitecto", "Tech Lead"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanonicalRole(tc.in), "input %q", tc.in)
	}
}

func TestCanonicalRole_UnknownFallsBackToTitleCase(t *testing.T) {
	assert.Equal(t, "Growth Hacker", CanonicalRole("growth hacker"))
}

func TestRolesMentioned(t *testing.T) {
	got := RolesMentioned("necesito un backend y dos testers, quizá devops")

	assert.Contains(t, got, "Backend Dev")
	assert.Contains(t, got, "QA")
	assert.Contains(t, got, "DevOps")
}
