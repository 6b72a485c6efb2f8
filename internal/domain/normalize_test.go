package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Incepción", "incepcion"},
		{"  METODOLOGÍA Ágil  ", "metodologia agil"},
		{"diseño", "diseno"},
		{"qa", "qa"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.in), "input %q", tc.in)
	}
}

func TestCollapseSpaces(t *testing.T) {
	assert.Equal(t, "a b c", CollapseSpaces("a   b\t c"))
	assert.Equal(t, "", CollapseSpaces("   "))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Growth Hacker", TitleCase("growth   hacker"))
}
