package coach

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"

	"fitcoach/services/coach-api/internal/domain/tools"
	"fitcoach/services/coach-api/internal/infrastructure/logger"
	"fitcoach/services/coach-api/internal/infrastructure/metrics"
	"fitcoach/services/coach-api/internal/infrastructure/observability"
	"fitcoach/services/coach-api/internal/utils/platformerrors"
)

// Gateway is the negotiation side of the LLM boundary: a non-streaming
// probe used while tool selection is in progress. The terminal streaming
// call is issued by the transport layer from the final transcript.
type Gateway interface {
	Negotiate(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error)
}

// ToolRunner executes one round of tool calls and returns results in call
// order.
type ToolRunner interface {
	ExecuteRound(ctx context.Context, userID uint, calls []tools.Call) []tools.Result
}

// RunResult is what the orchestration loop hands back for streaming: the
// final accumulated transcript (to be re-issued with stream enabled), the
// provenance entries and the number of tool rounds performed.
type RunResult struct {
	Transcript  []openai.ChatCompletionMessage
	DataSources []DataSourceEntry
	Rounds      int
}

// Orchestrator drives the bounded negotiate/execute cycle between the
// gateway and the tool executor. One instance is shared across requests;
// all per-request state lives in State values.
type Orchestrator struct {
	gateway       Gateway
	runner        ToolRunner
	registry      *tools.Registry
	matcher       Matcher
	model         string
	maxIterations int
}

func NewOrchestrator(gateway Gateway, runner ToolRunner, registry *tools.Registry, matcher Matcher, model string, maxIterations int) *Orchestrator {
	return &Orchestrator{
		gateway:       gateway,
		runner:        runner,
		registry:      registry,
		matcher:       matcher,
		model:         model,
		maxIterations: maxIterations,
	}
}

// Run executes the loop for one request. When tools are disabled it
// performs no gateway call at all: the transcript goes straight to the
// streaming call. Tool execution failures are absorbed into the transcript;
// only gateway failures and iteration exhaustion are returned as errors.
func (o *Orchestrator) Run(ctx context.Context, userID uint, decision ConsentDecision, conversation []openai.ChatCompletionMessage) (*RunResult, error) {
	ctx, span := observability.StartSpan(ctx, "coach-api", "coach.orchestrate")
	defer span.End()

	state := NewState(decision.ToolsEnabled, conversation).WithSystemPrompt(decision.SystemPrompt)

	if !decision.ToolsEnabled {
		metrics.OrchestrationRounds.Observe(0)
		return &RunResult{Transcript: state.Messages()}, nil
	}

	forced := o.matchForcedTool(conversation)
	toolDefs := o.registry.OpenAITools()

	for {
		if state.Iteration() >= o.maxIterations {
			err := platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExhausted,
				"the coach could not finish gathering data for this question, please try again", nil, "")
			observability.RecordError(ctx, err)
			return nil, err
		}

		req := openai.ChatCompletionRequest{
			Model:    o.model,
			Messages: state.Messages(),
			Tools:    toolDefs,
		}
		if state.Iteration() == 0 && forced != nil {
			req.ToolChoice = openai.ToolChoice{
				Type:     openai.ToolTypeFunction,
				Function: openai.ToolFunction{Name: forced.Name},
			}
		}

		resp, err := o.gateway.Negotiate(ctx, req)
		if err != nil {
			observability.RecordError(ctx, err)
			return nil, err
		}
		if len(resp.Choices) == 0 {
			err := platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
				"the coach is temporarily unavailable, please try again", nil, "")
			observability.RecordError(ctx, err)
			return nil, err
		}

		assistant := resp.Choices[0].Message
		if len(assistant.ToolCalls) == 0 {
			// Negotiation is over; the probe response body is discarded and
			// the same transcript is re-issued with streaming enabled.
			metrics.OrchestrationRounds.Observe(float64(state.Iteration()))
			observability.AddSpanAttributes(ctx,
				attribute.Int("orchestration.rounds", state.Iteration()),
				attribute.Int("orchestration.data_sources", len(state.DataSources())),
			)
			return &RunResult{
				Transcript:  state.Messages(),
				DataSources: state.DataSources(),
				Rounds:      state.Iteration(),
			}, nil
		}

		calls := o.toCalls(assistant.ToolCalls, forced, state.Iteration())
		results := o.runner.ExecuteRound(ctx, userID, calls)

		for i, call := range calls {
			log := logger.GetLogger()
			log.Info().
				Str("tool", call.Name).
				Int("iteration", state.Iteration()).
				Bool("success", results[i].Success).
				Msg("tool round")
		}

		state = state.WithToolRound(assistant, calls, results).NextIteration()
	}
}

// matchForcedTool runs the pre-router over the latest user message. The
// hint only applies to the first round and must name a catalogue tool.
func (o *Orchestrator) matchForcedTool(conversation []openai.ChatCompletionMessage) *ForcedTool {
	if o.matcher == nil {
		return nil
	}
	for i := len(conversation) - 1; i >= 0; i-- {
		if conversation[i].Role != openai.ChatMessageRoleUser {
			continue
		}
		forced := o.matcher.Match(conversation[i].Content)
		if forced != nil && !o.registry.Has(forced.Name) {
			return nil
		}
		return forced
	}
	return nil
}

// toCalls converts wire tool calls preserving request order. On the forced
// first round, a forced call whose arguments the model left empty inherits
// the arguments extracted by the pre-router.
func (o *Orchestrator) toCalls(toolCalls []openai.ToolCall, forced *ForcedTool, iteration int) []tools.Call {
	calls := make([]tools.Call, 0, len(toolCalls))
	for _, tc := range toolCalls {
		call := tools.Call{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}
		if iteration == 0 && forced != nil && forced.Args != "" &&
			call.Name == forced.Name && (call.Arguments == "" || call.Arguments == "{}") {
			call.Arguments = forced.Args
		}
		calls = append(calls, call)
	}
	return calls
}
