package chathandler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"resty.dev/v3"

	"fitcoach/services/coach-api/internal/domain/coach"
	"fitcoach/services/coach-api/internal/domain/fitness"
	"fitcoach/services/coach-api/internal/domain/tools"
	"fitcoach/services/coach-api/internal/infrastructure/auth"
	"fitcoach/services/coach-api/internal/infrastructure/billing"
	"fitcoach/services/coach-api/internal/infrastructure/database/repository/usagerepo"
	"fitcoach/services/coach-api/internal/infrastructure/gateway"
)

type emptyStore struct{}

func (emptyStore) WeightHistory(context.Context, uint, time.Time) ([]fitness.WeightEntry, error) {
	return nil, nil
}
func (emptyStore) RecentSessions(context.Context, uint, int) ([]fitness.Session, error) {
	return nil, nil
}
func (emptyStore) CheckIns(context.Context, uint, time.Time) ([]fitness.CheckIn, error) {
	return nil, nil
}
func (emptyStore) NextSession(context.Context, uint, time.Time) (*fitness.Session, error) {
	return nil, nil
}
func (emptyStore) SessionsBetween(context.Context, uint, time.Time, time.Time) ([]fitness.Session, error) {
	return nil, nil
}
func (emptyStore) NutritionDays(context.Context, uint, time.Time) ([]fitness.NutritionDay, error) {
	return nil, nil
}
func (emptyStore) Profile(context.Context, uint) (*fitness.Profile, error) { return nil, nil }
func (emptyStore) Preferences(context.Context, uint) (*fitness.Preferences, error) {
	return nil, nil
}
func (emptyStore) ExerciseHistory(context.Context, uint, string, time.Time) ([]fitness.Session, error) {
	return nil, nil
}

type recordingUsage struct {
	mu       sync.Mutex
	recorded []usagerepo.Interaction
}

func (u *recordingUsage) CountByUser(context.Context, uint) (int64, error) { return 0, nil }
func (u *recordingUsage) Record(_ context.Context, interaction usagerepo.Interaction) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.recorded = append(u.recorded, interaction)
	return nil
}

// upstream fakes the LLM provider: non-streaming calls get a plain answer,
// streaming calls get SSE chunks. Set failStatus to make it reject streams.
type upstream struct {
	mu         sync.Mutex
	negotiates int
	streams    int
	failStatus int
}

func (u *upstream) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Stream bool `json:"stream"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		u.mu.Lock()
		if req.Stream {
			u.streams++
		} else {
			u.negotiates++
		}
		fail := u.failStatus
		u.mu.Unlock()

		if fail != 0 {
			w.WriteHeader(fail)
			fmt.Fprint(w, `{"error":{"message":"provider secret detail"}}`)
			return
		}

		if !req.Stream {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"done"}}]}`)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Bonjour\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}
}

func newTestHandler(t *testing.T, up *upstream, usage usagerepo.Repository) *ChatHandler {
	t.Helper()

	server := httptest.NewServer(up.handler())
	t.Cleanup(server.Close)

	registry, err := tools.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	executor := tools.NewExecutor(registry, emptyStore{})
	client := gateway.NewClient(resty.New(), server.URL, "test-key", 5*time.Second)
	orchestrator := coach.NewOrchestrator(client, executor, registry,
		coach.NewKeywordMatcher(), "gpt-4o-mini", 5)
	entitlement := billing.NewEntitlementService(billing.AlwaysEntitled{}, usage)

	return NewChatHandler(orchestrator, client, registry, entitlement, usage, "gpt-4o-mini")
}

func performChat(handler *ChatHandler, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("principal", &auth.Principal{UserID: 7, Subject: "user-7"})
	handler.PostChat(c)
	return recorder
}

func TestPostChatStreamsWithProvenanceHeaders(t *testing.T) {
	up := &upstream{}
	usage := &recordingUsage{}
	handler := newTestHandler(t, up, usage)

	body := `{"messages":[{"role":"user","content":"donne-moi un conseil"}],"dataConsent":true}`
	recorder := performChat(handler, body)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	if got := recorder.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := recorder.Header().Get("X-User-ID"); got != "7" {
		t.Errorf("X-User-ID = %q", got)
	}
	if got := recorder.Header().Get("X-Data-Sources"); got != "[]" {
		t.Errorf("X-Data-Sources = %q", got)
	}
	if !strings.Contains(recorder.Body.String(), "Bonjour") {
		t.Errorf("stream not relayed: %q", recorder.Body.String())
	}
	if !strings.Contains(recorder.Body.String(), "[DONE]") {
		t.Errorf("missing stream sentinel: %q", recorder.Body.String())
	}
	if up.negotiates != 1 || up.streams != 1 {
		t.Errorf("negotiates = %d, streams = %d, want 1 and 1", up.negotiates, up.streams)
	}
	if len(usage.recorded) != 1 || usage.recorded[0].UserID != 7 || !usage.recorded[0].ConsentGranted {
		t.Errorf("interaction not recorded: %+v", usage.recorded)
	}
}

func TestPostChatWithoutConsentSkipsNegotiation(t *testing.T) {
	up := &upstream{}
	handler := newTestHandler(t, up, &recordingUsage{})

	body := `{"messages":[{"role":"user","content":"combien je pèse ?"}]}`
	recorder := performChat(handler, body)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	if up.negotiates != 0 {
		t.Errorf("negotiates = %d, want 0 when consent is absent", up.negotiates)
	}
	if up.streams != 1 {
		t.Errorf("streams = %d, want exactly one provider call", up.streams)
	}
	if got := recorder.Header().Get("X-Data-Sources"); got != "[]" {
		t.Errorf("X-Data-Sources = %q", got)
	}
}

func TestPostChatValidationFailureListsAllFields(t *testing.T) {
	up := &upstream{}
	handler := newTestHandler(t, up, &recordingUsage{})

	body := `{"messages":[{"role":"robot","content":"hi"}],"context":{"trainingFrequency":12}}`
	recorder := performChat(handler, body)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	var resp struct {
		Error  string `json:"error"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Fields) != 2 {
		t.Errorf("fields = %+v, want both violations reported", resp.Fields)
	}
	if up.negotiates != 0 || up.streams != 0 {
		t.Error("provider must not be called for invalid requests")
	}
}

func TestPostChatProviderRateLimitYieldsCleanError(t *testing.T) {
	up := &upstream{failStatus: http.StatusTooManyRequests}
	handler := newTestHandler(t, up, &recordingUsage{})

	body := `{"messages":[{"role":"user","content":"bonjour"}]}`
	recorder := performChat(handler, body)

	if recorder.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	if strings.Contains(recorder.Body.String(), "provider secret detail") {
		t.Error("provider payload leaked to the caller")
	}
	if recorder.Header().Get("X-Data-Sources") != "" {
		t.Error("provenance headers must not be set on failed streams")
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == "" {
		t.Error("error body must carry a user-safe message")
	}
}
