package api

import (
	"testing"

	"github.com/talgya/contagion/internal/interventions"
)

func TestSuggest(t *testing.T) {
	ids := interventions.IDs()
	tests := []struct {
		input, want string
	}{
		{"quarantien", "quarantine"},
		{"mask_mandat", "mask_mandate"},
		{"MASK_MANDATE", "mask_mandate"},
		{"close_scools", "close_schools"},
		{"vaccination", "vaccination_campaign"},
		{"teleport", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := suggest(tt.input, ids); got != tt.want {
				t.Errorf("suggest(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
