package coach

import (
	"strings"
	"testing"

	"fitcoach/services/coach-api/internal/domain/tools"
)

func testCatalogue(t *testing.T) []tools.Spec {
	t.Helper()
	reg, err := tools.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg.Specs()
}

func TestResolveConsentGranted(t *testing.T) {
	granted := true
	decision := ResolveConsent(&granted, Sanitize(nil), testCatalogue(t))

	if !decision.ToolsEnabled {
		t.Fatal("tools must be enabled when consent is explicitly true")
	}
	if !strings.Contains(decision.SystemPrompt, tools.NameWeightHistory) {
		t.Error("grounded prompt must list the tool catalogue")
	}
	if !strings.Contains(decision.SystemPrompt, "Appelle toujours un outil") {
		t.Error("grounded prompt must carry the call-a-tool-first directive")
	}
	if strings.Contains(decision.SystemPrompt, GenericDisclosurePrefix) {
		t.Error("grounded prompt must not reference the generic disclosure marker")
	}
}

func TestResolveConsentDenied(t *testing.T) {
	denied := false
	tests := []struct {
		name    string
		consent *bool
	}{
		{"explicit false", &denied},
		{"absent", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := ResolveConsent(tt.consent, Sanitize(nil), testCatalogue(t))
			if decision.ToolsEnabled {
				t.Fatal("tools must be disabled")
			}
			if !strings.Contains(decision.SystemPrompt, GenericDisclosurePrefix) {
				t.Error("generic prompt must require the disclosure marker")
			}
			if strings.Contains(decision.SystemPrompt, tools.NameWeightHistory) {
				t.Error("generic prompt must not mention tools")
			}
		})
	}
}

func TestPromptsEmbedSanitizedFields(t *testing.T) {
	fields := Sanitize(&Context{GoalType: "perte de poids", TrainingFrequency: 3})
	granted := true

	for _, decision := range []ConsentDecision{
		ResolveConsent(&granted, fields, testCatalogue(t)),
		ResolveConsent(nil, fields, testCatalogue(t)),
	} {
		if !strings.Contains(decision.SystemPrompt, "perte de poids") {
			t.Error("prompt missing goal field")
		}
		if !strings.Contains(decision.SystemPrompt, "3 sessions/week") {
			t.Error("prompt missing frequency field")
		}
	}
}
