package tools

import (
	"context"
	"fmt"

	"fitcoach/services/coach-api/internal/domain/fitness"
)

type weeklyProgressView struct {
	WeekPlanned      int `json:"week_planned"`
	WeekCompleted    int `json:"week_completed"`
	WeekAdherence    int `json:"week_adherence_pct"`
	PrevWeekPlanned  int `json:"prev_week_planned"`
	PrevWeekComplete int `json:"prev_week_completed"`
	PrevWeekAdheres  int `json:"prev_week_adherence_pct"`
	DeltaPct         int `json:"delta_pct"`
}

func adherencePct(completed, planned int) int {
	if planned == 0 {
		return 0
	}
	return completed * 100 / planned
}

func countCompleted(sessions []fitness.Session) int {
	n := 0
	for _, s := range sessions {
		if s.Completed {
			n++
		}
	}
	return n
}

func (e *Executor) weeklyProgress(ctx context.Context, userID uint) Result {
	weekStart, weekEnd := fitness.WeekRange(e.now())

	current, err := e.store.SessionsBetween(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return storeFailure(NameWeeklyProgress, err)
	}
	previous, err := e.store.SessionsBetween(ctx, userID, weekStart.AddDate(0, 0, -7), weekStart)
	if err != nil {
		return storeFailure(NameWeeklyProgress, err)
	}

	view := weeklyProgressView{
		WeekPlanned:      len(current),
		WeekCompleted:    countCompleted(current),
		PrevWeekPlanned:  len(previous),
		PrevWeekComplete: countCompleted(previous),
	}
	view.WeekAdherence = adherencePct(view.WeekCompleted, view.WeekPlanned)
	view.PrevWeekAdheres = adherencePct(view.PrevWeekComplete, view.PrevWeekPlanned)
	view.DeltaPct = view.WeekAdherence - view.PrevWeekAdheres

	if view.WeekPlanned == 0 && view.PrevWeekPlanned == 0 {
		return success(view, "no sessions planned this week or last week")
	}
	return success(view, fmt.Sprintf("this week %d/%d sessions (%d%%), last week %d/%d (%d%%)",
		view.WeekCompleted, view.WeekPlanned, view.WeekAdherence,
		view.PrevWeekComplete, view.PrevWeekPlanned, view.PrevWeekAdheres))
}
