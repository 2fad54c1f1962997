package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"fitcoach/services/coach-api/internal/domain/fitness"
	"fitcoach/services/coach-api/internal/infrastructure/logger"
	"fitcoach/services/coach-api/internal/infrastructure/metrics"
)

// Executor runs catalogue tools against the backing store. Every lookup is
// scoped to the authenticated user id passed by the caller; tools never
// accept a user identifier in their arguments.
type Executor struct {
	registry *Registry
	store    fitness.Store
	now      func() time.Time
}

func NewExecutor(registry *Registry, store fitness.Store) *Executor {
	return &Executor{registry: registry, store: store, now: time.Now}
}

// NewExecutorAt pins the executor's clock, for tests and replay.
func NewExecutorAt(registry *Registry, store fitness.Store, now func() time.Time) *Executor {
	return &Executor{registry: registry, store: store, now: now}
}

// Execute validates the call's raw arguments and performs the lookup.
// Invalid arguments degrade to defaults where a safe default exists;
// otherwise they produce a {success:false} result. Store failures also
// produce {success:false} — the caller decides whether that aborts anything.
func (e *Executor) Execute(ctx context.Context, userID uint, call Call) Result {
	start := time.Now()
	result := e.dispatch(ctx, userID, call)

	outcome := "success"
	if !result.Success {
		outcome = "failure"
	}
	metrics.ToolExecutionsTotal.WithLabelValues(call.Name, outcome).Inc()
	metrics.ToolExecutionDuration.WithLabelValues(call.Name).Observe(time.Since(start).Seconds())

	log := logger.GetLogger()
	log.Debug().
		Str("tool", call.Name).
		Str("call_id", call.ID).
		Bool("success", result.Success).
		Str("summary", result.Summary).
		Msg("tool executed")

	return result
}

// ExecuteRound runs one round of tool calls concurrently and returns the
// results in call order. Individual failures never abort the round.
func (e *Executor) ExecuteRound(ctx context.Context, userID uint, calls []Call) []Result {
	results := make([]Result, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			results[i] = e.Execute(gctx, userID, call)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (e *Executor) dispatch(ctx context.Context, userID uint, call Call) Result {
	raw := json.RawMessage(call.Arguments)
	switch call.Name {
	case NameWeightHistory:
		return e.weightHistory(ctx, userID, raw)
	case NameRecentSessions:
		return e.recentSessions(ctx, userID, raw)
	case NameCheckinStats:
		return e.checkinStats(ctx, userID, raw)
	case NameNextSession:
		return e.nextSession(ctx, userID)
	case NameSessionByIndex:
		return e.sessionByIndex(ctx, userID, raw)
	case NameWeekSessions:
		return e.weekSessions(ctx, userID)
	case NameNutritionTargets:
		return e.nutritionTargets(ctx, userID)
	case NameTrainingPrefs:
		return e.trainingPreferences(ctx, userID)
	case NameNutritionLog:
		return e.nutritionLog(ctx, userID, raw)
	case NameUserProfile:
		return e.userProfile(ctx, userID)
	case NameWeeklyProgress:
		return e.weeklyProgress(ctx, userID)
	case NameExerciseHistory:
		return e.exerciseHistory(ctx, userID, raw)
	default:
		return failure(fmt.Sprintf("unknown tool %q", call.Name), "tool not in catalogue")
	}
}

// decodeLenient validates and decodes arguments for tools whose every field
// has a safe default. On any validation or decode failure dst is left at its
// zero value so the per-tool defaulting applies.
func (e *Executor) decodeLenient(name string, raw json.RawMessage, dst any) {
	if len(raw) == 0 {
		return
	}
	if err := e.registry.validate(name, raw); err != nil {
		log := logger.GetLogger()
		log.Warn().Str("tool", name).Err(err).Msg("invalid tool arguments, using defaults")
		return
	}
	_ = json.Unmarshal(raw, dst)
}

// decodeStrict validates and decodes arguments for tools with a field that
// has no safe default. Any failure is returned to the caller.
func (e *Executor) decodeStrict(name string, raw json.RawMessage, dst any) error {
	if err := e.registry.validate(name, raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func storeFailure(name string, err error) Result {
	log := logger.GetLogger()
	log.Error().Str("tool", name).Err(err).Msg("store lookup failed")
	return failure("data lookup failed", "lookup could not be completed")
}
