package slug

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMake_Deterministic(t *testing.T) {
	first := Make("Household Budget Impacts")
	require.Equal(t, "household-budget-impacts", first)

	// Repeated calls with identical text always agree.
	for range 5 {
		require.Equal(t, first, Make("Household Budget Impacts"))
	}
}

func TestMake_Cases(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"punctuation stripped", "Costs for Energy at Home!", "costs-for-energy-at-home"},
		{"whitespace runs collapse", "a   b\t c", "a-b-c"},
		{"hyphen runs collapse", "pre--release -- builds", "pre-release-builds"},
		{"edge hyphens trimmed", "- leading and trailing -", "leading-and-trailing"},
		{"digits kept", "Section 2.1 Overview", "section-21-overview"},
		{"accents fold to ascii", "Énergie à la maison", "energie-a-la-maison"},
		{"empty", "", ""},
		{"symbols only", "&*()!!", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Make(tc.in))
		})
	}
}
