package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		input float64
	}{
		{"gpt-4o-mini", 0.15},
		{"claude-sonnet-4-20250514", 3},
		{"claude-haiku-4-5-20251001", 1},
		{"gpt-4o-2024-08-06", 2.5},
		{"google/gemini-2.0-flash-exp", 0.1},
		{"openai/gpt-4o-mini:free", 0.15},
		{"Gemini-2.5-Pro", 1.25},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			c := LookupCost(tt.model)
			if c == nil {
				t.Fatal("no price")
			}
			if c.InputPerMTok != tt.input {
				t.Errorf("input price = %v, want %v", c.InputPerMTok, tt.input)
			}
		})
	}

	for _, unknown := range []string{"", "mock", "llama-3-70b", "-exp"} {
		if c := LookupCost(unknown); c != nil {
			t.Errorf("LookupCost(%q) = %+v, want nil", unknown, c)
		}
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 3, OutputPerMTok: 15}
	got := c.Cost(2_000, 1_000)
	if math.Abs(got-0.021) > 1e-12 {
		t.Errorf("cost = %v, want 0.021", got)
	}
	if c.Cost(0, 0) != 0 {
		t.Error("zero tokens should cost nothing")
	}
}
