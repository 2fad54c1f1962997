package chathandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"

	"fitcoach/services/coach-api/internal/domain/coach"
	"fitcoach/services/coach-api/internal/domain/tools"
	"fitcoach/services/coach-api/internal/infrastructure/billing"
	"fitcoach/services/coach-api/internal/infrastructure/database/repository/usagerepo"
	"fitcoach/services/coach-api/internal/infrastructure/gateway"
	"fitcoach/services/coach-api/internal/infrastructure/logger"
	"fitcoach/services/coach-api/internal/infrastructure/observability"
	"fitcoach/services/coach-api/internal/interfaces/httpserver/middlewares"
	chatrequests "fitcoach/services/coach-api/internal/interfaces/httpserver/requests/chat"
	"fitcoach/services/coach-api/internal/interfaces/httpserver/responses"
)

const (
	dataSourcesHeader = "X-Data-Sources"
	userIDHeader      = "X-User-ID"
)

// ChatHandler drives one coach chat request end to end: validation,
// sanitization, the consent gate, entitlement, the tool negotiation loop and
// finally the streaming relay.
type ChatHandler struct {
	orchestrator *coach.Orchestrator
	gateway      *gateway.Client
	registry     *tools.Registry
	entitlement  *billing.EntitlementService
	usage        usagerepo.Repository
	model        string
}

func NewChatHandler(
	orchestrator *coach.Orchestrator,
	gatewayClient *gateway.Client,
	registry *tools.Registry,
	entitlement *billing.EntitlementService,
	usage usagerepo.Repository,
	model string,
) *ChatHandler {
	return &ChatHandler{
		orchestrator: orchestrator,
		gateway:      gatewayClient,
		registry:     registry,
		entitlement:  entitlement,
		usage:        usage,
		model:        model,
	}
}

// PostChat handles POST /v1/chat. The response is an SSE stream of
// provider-format chunks; data provenance and the resolved caller identity
// travel as response headers set before the first body byte.
func (h *ChatHandler) PostChat(reqCtx *gin.Context) {
	ctx, span := observability.StartSpan(reqCtx.Request.Context(), "coach-api", "ChatHandler.PostChat")
	defer span.End()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok {
		responses.HandleErrorWithStatus(reqCtx, http.StatusUnauthorized, errors.New("no principal resolved"), "unauthorized")
		return
	}

	var request chatrequests.ChatRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		responses.HandleValidationError(reqCtx, []responses.FieldError{
			{Field: "body", Reason: "request body must be a valid JSON chat request"},
		})
		return
	}
	if fields := request.Validate(); len(fields) > 0 {
		responses.HandleValidationError(reqCtx, fields)
		return
	}

	observability.AddSpanAttributes(ctx,
		attribute.Int("user.id", int(principal.UserID)),
		attribute.Int("chat.message_count", len(request.Messages)),
		attribute.Bool("chat.data_consent", request.DataConsent != nil && *request.DataConsent),
	)

	promptFields := coach.Sanitize(request.Context)
	decision := coach.ResolveConsent(request.DataConsent, promptFields, h.registry.Specs())

	if err := h.entitlement.Authorize(ctx, principal.UserID); err != nil {
		observability.RecordError(ctx, err)
		responses.HandleError(reqCtx, err, "access denied")
		return
	}

	result, err := h.orchestrator.Run(ctx, principal.UserID, decision, request.Messages)
	if err != nil {
		observability.RecordError(ctx, err)
		responses.HandleError(reqCtx, err, "the coach is temporarily unavailable, please try again")
		return
	}

	streamRequest := openai.ChatCompletionRequest{
		Model:    h.model,
		Messages: result.Transcript,
	}

	err = h.gateway.StreamFinal(reqCtx, streamRequest, func() {
		h.setStreamHeaders(reqCtx, principal.UserID, result.DataSources)
	})
	if err != nil {
		observability.RecordError(ctx, err)
		if reqCtx.Writer.Written() {
			// Streaming already started; the error can only be logged.
			log := logger.GetLogger()
			log.Error().Err(err).Msg("stream aborted mid-response")
			return
		}
		responses.HandleError(reqCtx, err, "the coach is temporarily unavailable, please try again")
		return
	}

	h.recordInteraction(ctx, reqCtx, principal.UserID, decision, result)
}

// setStreamHeaders attaches provenance and identity metadata. It runs after
// the provider accepted the streaming call and before the first body byte,
// since headers cannot be retrofitted once streaming starts.
func (h *ChatHandler) setStreamHeaders(reqCtx *gin.Context, userID uint, sources []coach.DataSourceEntry) {
	if sources == nil {
		sources = []coach.DataSourceEntry{}
	}
	if encoded, err := json.Marshal(sources); err == nil {
		reqCtx.Writer.Header().Set(dataSourcesHeader, string(encoded))
	}
	reqCtx.Writer.Header().Set(userIDHeader, strconv.FormatUint(uint64(userID), 10))
	middlewares.PrepareSSE(reqCtx)
	reqCtx.Writer.WriteHeader(http.StatusOK)
}

// recordInteraction persists usage accounting after the stream completed.
// Failures are logged; they never affect the response.
func (h *ChatHandler) recordInteraction(ctx context.Context, reqCtx *gin.Context, userID uint, decision coach.ConsentDecision, result *coach.RunResult) {
	err := h.usage.Record(context.WithoutCancel(ctx), usagerepo.Interaction{
		UserID:         userID,
		RequestID:      middlewares.RequestIDFromContext(reqCtx),
		Model:          h.model,
		ConsentGranted: decision.ToolsEnabled,
		ToolCalls:      len(result.DataSources),
		Rounds:         result.Rounds,
	})
	if err != nil {
		log := logger.GetLogger()
		log.Warn().Err(err).Uint("user_id", userID).Msg("unable to record interaction")
	}
}
