package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fitcoach/services/coach-api/internal/domain/fitness"
)

const defaultRecentLimit = 5

type recentSessionsArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"minimum=1,maximum=20,description=Maximum number of sessions to return"`
}

type sessionByIndexArgs struct {
	Index int `json:"index" jsonschema:"minimum=1,description=1-based position of the session within the current week"`
}

type exerciseLineView struct {
	Name     string  `json:"name"`
	Sets     int     `json:"sets"`
	Reps     int     `json:"reps"`
	WeightKg float64 `json:"weight_kg,omitempty"`
}

type sessionView struct {
	Title       string             `json:"title"`
	Type        string             `json:"type,omitempty"`
	ScheduledAt string             `json:"scheduled_at"`
	Completed   bool               `json:"completed"`
	Exercises   []exerciseLineView `json:"exercises,omitempty"`
}

func newSessionView(s fitness.Session) sessionView {
	view := sessionView{
		Title:       s.Title,
		Type:        s.SessionType,
		ScheduledAt: s.ScheduledAt.Format(time.RFC3339),
		Completed:   s.Completed,
	}
	for _, ex := range s.Exercises {
		view.Exercises = append(view.Exercises, exerciseLineView{
			Name:     ex.Name,
			Sets:     ex.Sets,
			Reps:     ex.Reps,
			WeightKg: ex.WeightKg,
		})
	}
	return view
}

func newSessionViews(sessions []fitness.Session) []sessionView {
	views := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, newSessionView(s))
	}
	return views
}

func (e *Executor) recentSessions(ctx context.Context, userID uint, raw json.RawMessage) Result {
	var args recentSessionsArgs
	e.decodeLenient(NameRecentSessions, raw, &args)
	if args.Limit < 1 || args.Limit > 20 {
		args.Limit = defaultRecentLimit
	}

	sessions, err := e.store.RecentSessions(ctx, userID, args.Limit)
	if err != nil {
		return storeFailure(NameRecentSessions, err)
	}
	if len(sessions) == 0 {
		return success([]sessionView{}, "0 sessions on record")
	}

	completed := 0
	for _, s := range sessions {
		if s.Completed {
			completed++
		}
	}
	return success(newSessionViews(sessions),
		fmt.Sprintf("%d recent sessions (%d completed)", len(sessions), completed))
}

func (e *Executor) nextSession(ctx context.Context, userID uint) Result {
	session, err := e.store.NextSession(ctx, userID, e.now())
	if err != nil {
		return storeFailure(NameNextSession, err)
	}
	if session == nil {
		return success(nil, "no upcoming session scheduled")
	}
	return success(newSessionView(*session),
		fmt.Sprintf("next session %q scheduled for %s",
			session.Title, session.ScheduledAt.Format(time.DateOnly)))
}

func (e *Executor) sessionByIndex(ctx context.Context, userID uint, raw json.RawMessage) Result {
	var args sessionByIndexArgs
	if err := e.decodeStrict(NameSessionByIndex, raw, &args); err != nil {
		return failure(fmt.Sprintf("invalid arguments: %v", err), "session lookup rejected")
	}

	from, to := fitness.WeekRange(e.now())
	sessions, err := e.store.SessionsBetween(ctx, userID, from, to)
	if err != nil {
		return storeFailure(NameSessionByIndex, err)
	}
	if args.Index > len(sessions) {
		return failure(
			fmt.Sprintf("no session at index %d: the current week has %d sessions", args.Index, len(sessions)),
			fmt.Sprintf("%d sessions this week, index %d out of range", len(sessions), args.Index))
	}

	session := sessions[args.Index-1]
	return success(newSessionView(session),
		fmt.Sprintf("session %d of the week: %q on %s",
			args.Index, session.Title, session.ScheduledAt.Format(time.DateOnly)))
}

func (e *Executor) weekSessions(ctx context.Context, userID uint) Result {
	from, to := fitness.WeekRange(e.now())
	sessions, err := e.store.SessionsBetween(ctx, userID, from, to)
	if err != nil {
		return storeFailure(NameWeekSessions, err)
	}
	if len(sessions) == 0 {
		return success([]sessionView{}, "0 sessions scheduled this week")
	}

	completed := 0
	for _, s := range sessions {
		if s.Completed {
			completed++
		}
	}
	return success(newSessionViews(sessions),
		fmt.Sprintf("%d sessions this week (%d completed)", len(sessions), completed))
}
