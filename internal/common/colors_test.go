package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmpireColor(t *testing.T) {
	tests := []struct {
		name     string
		id       int
		expected string
	}{
		{"unclaimed is gray", -1, colorGray},
		{"first empire red", 0, "\033[31m"},
		{"second empire blue", 1, "\033[34m"},
		{"palette wraps", len(EmpireColors), EmpireColors[0]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EmpireColor(tt.id))
		})
	}
}

func TestEmpireColorsDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range EmpireColors {
		assert.False(t, seen[c], "duplicate color %q", c)
		seen[c] = true
	}
	assert.False(t, seen[colorGray], "unclaimed color must differ from empire colors")
}

func TestColorize(t *testing.T) {
	out := Colorize(2, "A")
	assert.True(t, strings.HasPrefix(out, EmpireColor(2)))
	assert.True(t, strings.HasSuffix(out, ColorReset))
	assert.Contains(t, out, "A")
}
