package tools

import (
	"encoding/json"
	"testing"
)

func TestNewRegistryCatalogue(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	want := []string{
		NameWeightHistory, NameRecentSessions, NameCheckinStats,
		NameNextSession, NameSessionByIndex, NameWeekSessions,
		NameNutritionTargets, NameTrainingPrefs, NameNutritionLog,
		NameUserProfile, NameWeeklyProgress, NameExerciseHistory,
	}
	specs := reg.Specs()
	if len(specs) != len(want) {
		t.Fatalf("catalogue size = %d, want %d", len(specs), len(want))
	}
	for i, name := range want {
		if specs[i].Name != name {
			t.Errorf("specs[%d].Name = %q, want %q", i, specs[i].Name, name)
		}
		if specs[i].Description == "" {
			t.Errorf("tool %s has an empty description", name)
		}
		var params map[string]any
		if err := json.Unmarshal(specs[i].Parameters, &params); err != nil {
			t.Errorf("tool %s parameters are not valid JSON: %v", name, err)
		}
	}

	tools := reg.OpenAITools()
	if len(tools) != len(want) {
		t.Fatalf("OpenAITools size = %d, want %d", len(tools), len(want))
	}
}

func TestRegistryValidate(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	tests := []struct {
		name    string
		tool    string
		raw     string
		wantErr bool
	}{
		{"valid weeks", NameWeightHistory, `{"weeks": 8}`, false},
		{"weeks below minimum", NameWeightHistory, `{"weeks": 0}`, true},
		{"weeks wrong type", NameWeightHistory, `{"weeks": "four"}`, true},
		{"empty args allowed when all fields default", NameWeightHistory, ``, false},
		{"valid index", NameSessionByIndex, `{"index": 2}`, false},
		{"index zero rejected", NameSessionByIndex, `{"index": 0}`, true},
		{"index missing rejected", NameSessionByIndex, `{}`, true},
		{"index absent body rejected", NameSessionByIndex, ``, true},
		{"no-arg tool accepts empty", NameWeekSessions, ``, false},
		{"malformed json", NameNutritionLog, `{"days":`, true},
		{"unknown tool", "get_secrets", `{}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.validate(tt.tool, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Errorf("validate(%s, %s) error = %v, wantErr %v", tt.tool, tt.raw, err, tt.wantErr)
			}
		})
	}
}

// The same raw arguments must validate identically on every call: schema
// compilation is done once and must not be stateful.
func TestRegistryValidateDeterministic(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	raw := json.RawMessage(`{"index": 0}`)
	for i := 0; i < 3; i++ {
		if err := reg.validate(NameSessionByIndex, raw); err == nil {
			t.Fatalf("attempt %d: index=0 passed validation", i+1)
		}
	}
}
