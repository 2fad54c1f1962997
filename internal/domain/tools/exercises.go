package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

const defaultExerciseWeeks = 8

type exerciseHistoryArgs struct {
	Exercise string `json:"exercise,omitempty" jsonschema:"maxLength=100,description=Free-text exercise name to filter on"`
	Weeks    int    `json:"weeks,omitempty" jsonschema:"minimum=1,maximum=52,description=Number of weeks to look back"`
}

func (e *Executor) exerciseHistory(ctx context.Context, userID uint, raw json.RawMessage) Result {
	var args exerciseHistoryArgs
	e.decodeLenient(NameExerciseHistory, raw, &args)
	if args.Weeks < 1 || args.Weeks > 52 {
		args.Weeks = defaultExerciseWeeks
	}
	if len(args.Exercise) > 100 {
		args.Exercise = args.Exercise[:100]
	}

	since := e.now().AddDate(0, 0, -7*args.Weeks)
	sessions, err := e.store.ExerciseHistory(ctx, userID, args.Exercise, since)
	if err != nil {
		return storeFailure(NameExerciseHistory, err)
	}

	scope := "all exercises"
	if args.Exercise != "" {
		scope = fmt.Sprintf("%q", args.Exercise)
	}
	if len(sessions) == 0 {
		return success([]sessionView{},
			fmt.Sprintf("0 records found for %s over the last %d weeks", scope, args.Weeks))
	}
	return success(newSessionViews(sessions),
		fmt.Sprintf("%d sessions with %s over the last %d weeks", len(sessions), scope, args.Weeks))
}
