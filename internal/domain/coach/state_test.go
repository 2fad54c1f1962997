package coach

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"fitcoach/services/coach-api/internal/domain/tools"
)

func userMsg(content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: content}
}

func TestStateTransitionsDoNotMutateReceiver(t *testing.T) {
	base := NewState(true, []openai.ChatCompletionMessage{userMsg("salut")})

	withPrompt := base.WithSystemPrompt("prompt")
	if len(base.Messages()) != 1 {
		t.Fatalf("WithSystemPrompt mutated the receiver: %d messages", len(base.Messages()))
	}
	if len(withPrompt.Messages()) != 2 {
		t.Fatalf("prompt state has %d messages, want 2", len(withPrompt.Messages()))
	}
	if withPrompt.Messages()[0].Role != openai.ChatMessageRoleSystem {
		t.Error("system prompt must be first")
	}

	assistant := openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleAssistant,
		ToolCalls: []openai.ToolCall{
			{ID: "call_1", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: tools.NameWeightHistory}},
		},
	}
	calls := []tools.Call{{ID: "call_1", Name: tools.NameWeightHistory, Arguments: `{"weeks": 4}`}}
	results := []tools.Result{{Success: true, Summary: "2 weight entries"}}

	afterRound := withPrompt.WithToolRound(assistant, calls, results).NextIteration()

	if withPrompt.Iteration() != 0 || len(withPrompt.DataSources()) != 0 {
		t.Error("WithToolRound mutated the receiver")
	}
	if afterRound.Iteration() != 1 {
		t.Errorf("iteration = %d, want 1", afterRound.Iteration())
	}

	messages := afterRound.Messages()
	if len(messages) != 4 {
		t.Fatalf("transcript length = %d, want 4", len(messages))
	}
	toolMsg := messages[3]
	if toolMsg.Role != openai.ChatMessageRoleTool || toolMsg.ToolCallID != "call_1" {
		t.Errorf("tool message malformed: %+v", toolMsg)
	}

	sources := afterRound.DataSources()
	if len(sources) != 1 {
		t.Fatalf("data sources = %d, want 1", len(sources))
	}
	if sources[0].Tool != tools.NameWeightHistory || sources[0].Summary != "2 weight entries" {
		t.Errorf("data source = %+v", sources[0])
	}
	if string(sources[0].Args) != `{"weeks": 4}` {
		t.Errorf("args = %s", sources[0].Args)
	}
}

func TestStateAccessorsReturnCopies(t *testing.T) {
	state := NewState(true, []openai.ChatCompletionMessage{userMsg("salut")})
	messages := state.Messages()
	messages[0].Content = "tampered"
	if state.Messages()[0].Content != "salut" {
		t.Error("Messages() must return a copy")
	}
}

func TestStateDropsInvalidArgsFromProvenance(t *testing.T) {
	state := NewState(true, nil)
	assistant := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant}
	calls := []tools.Call{{ID: "c1", Name: tools.NameNextSession, Arguments: "not json"}}
	results := []tools.Result{{Success: true, Summary: "ok"}}

	sources := state.WithToolRound(assistant, calls, results).DataSources()
	if len(sources) != 1 {
		t.Fatalf("data sources = %d", len(sources))
	}
	if sources[0].Args != nil {
		t.Errorf("invalid args must be dropped, got %s", sources[0].Args)
	}
}
