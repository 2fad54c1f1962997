package coach

import (
	"encoding/json"
	"testing"
)

func TestContextUnmarshalSplitsKnownAndExtra(t *testing.T) {
	raw := `{
		"goalType": "perte de poids",
		"trainingFrequency": 3,
		"equipment": ["haltères"],
		"appVersion": "2.4.1",
		"abTestBucket": 7
	}`

	var ctx Context
	if err := json.Unmarshal([]byte(raw), &ctx); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if ctx.GoalType != "perte de poids" || ctx.TrainingFrequency != 3 {
		t.Errorf("known fields not decoded: %+v", ctx)
	}
	if len(ctx.Equipment) != 1 || ctx.Equipment[0] != "haltères" {
		t.Errorf("equipment = %v", ctx.Equipment)
	}
	if len(ctx.Extra) != 2 {
		t.Fatalf("extra = %v, want 2 passthrough keys", ctx.Extra)
	}
	if ctx.Extra["appVersion"] != "2.4.1" {
		t.Errorf("appVersion = %v", ctx.Extra["appVersion"])
	}
}

func TestContextMarshalRoundTrip(t *testing.T) {
	ctx := Context{
		GoalType: "maintenance",
		Extra:    map[string]any{"source": "mobile"},
	}
	raw, err := json.Marshal(ctx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Context
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.GoalType != "maintenance" {
		t.Errorf("goalType = %q", decoded.GoalType)
	}
	if decoded.Extra["source"] != "mobile" {
		t.Errorf("extra = %v", decoded.Extra)
	}
}

func TestContextEmptyExtraIsNil(t *testing.T) {
	var ctx Context
	if err := json.Unmarshal([]byte(`{"goalType":"cut"}`), &ctx); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ctx.Extra != nil {
		t.Errorf("extra = %v, want nil", ctx.Extra)
	}
}
