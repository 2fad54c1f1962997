package coach

import (
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"

	"fitcoach/services/coach-api/internal/domain/tools"
)

// DataSourceEntry is the provenance record of one executed tool call,
// surfaced to the caller as response metadata. Append-only: entries are
// never mutated after creation.
type DataSourceEntry struct {
	Tool    string          `json:"tool"`
	Args    json.RawMessage `json:"args,omitempty"`
	Summary string          `json:"summary"`
}

// State is the orchestration state for one request. It is a value type and
// every transition returns a new State; the loop never mutates a prior
// state, which keeps the bound check and termination independently
// testable.
type State struct {
	messages       []openai.ChatCompletionMessage
	iteration      int
	dataSources    []DataSourceEntry
	consentGranted bool
}

// NewState seeds the state with the conversation messages.
func NewState(consentGranted bool, messages []openai.ChatCompletionMessage) State {
	copied := make([]openai.ChatCompletionMessage, len(messages))
	copy(copied, messages)
	return State{messages: copied, consentGranted: consentGranted}
}

// WithSystemPrompt returns a state whose transcript starts with the given
// system message.
func (s State) WithSystemPrompt(prompt string) State {
	messages := make([]openai.ChatCompletionMessage, 0, len(s.messages)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: prompt,
	})
	messages = append(messages, s.messages...)

	next := s
	next.messages = messages
	return next
}

// WithToolRound appends one completed tool round: the assistant's tool-call
// message, one tool-result message per call (in call order) and one
// DataSourceEntry per call.
func (s State) WithToolRound(assistant openai.ChatCompletionMessage, calls []tools.Call, results []tools.Result) State {
	messages := make([]openai.ChatCompletionMessage, len(s.messages), len(s.messages)+1+len(calls))
	copy(messages, s.messages)
	messages = append(messages, assistant)

	sources := make([]DataSourceEntry, len(s.dataSources), len(s.dataSources)+len(calls))
	copy(sources, s.dataSources)

	for i, call := range calls {
		content, err := json.Marshal(results[i])
		if err != nil {
			content = []byte(`{"success":false,"error":"result serialization failed"}`)
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			ToolCallID: call.ID,
			Content:    string(content),
		})
		sources = append(sources, DataSourceEntry{
			Tool:    call.Name,
			Args:    normalizeArgs(call.Arguments),
			Summary: results[i].Summary,
		})
	}

	next := s
	next.messages = messages
	next.dataSources = sources
	return next
}

// NextIteration returns a state with the iteration counter advanced.
func (s State) NextIteration() State {
	next := s
	next.iteration++
	return next
}

// Messages returns a copy of the accumulated transcript.
func (s State) Messages() []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// DataSources returns a copy of the accumulated provenance entries.
func (s State) DataSources() []DataSourceEntry {
	out := make([]DataSourceEntry, len(s.dataSources))
	copy(out, s.dataSources)
	return out
}

func (s State) Iteration() int { return s.iteration }

func (s State) ConsentGranted() bool { return s.consentGranted }

func normalizeArgs(raw string) json.RawMessage {
	if raw == "" || !json.Valid([]byte(raw)) {
		return nil
	}
	return json.RawMessage(raw)
}
