package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const defaultWeightWeeks = 4

type weightHistoryArgs struct {
	Weeks int `json:"weeks,omitempty" jsonschema:"minimum=1,maximum=52,description=Number of weeks to look back"`
}

type weightEntryView struct {
	Date     string  `json:"date"`
	WeightKg float64 `json:"weight_kg"`
}

func (e *Executor) weightHistory(ctx context.Context, userID uint, raw json.RawMessage) Result {
	var args weightHistoryArgs
	e.decodeLenient(NameWeightHistory, raw, &args)
	if args.Weeks < 1 || args.Weeks > 52 {
		args.Weeks = defaultWeightWeeks
	}

	since := e.now().AddDate(0, 0, -7*args.Weeks)
	entries, err := e.store.WeightHistory(ctx, userID, since)
	if err != nil {
		return storeFailure(NameWeightHistory, err)
	}

	if len(entries) == 0 {
		return success([]weightEntryView{},
			fmt.Sprintf("0 records found for the last %d weeks", args.Weeks))
	}

	views := make([]weightEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, weightEntryView{
			Date:     entry.RecordedAt.Format(time.DateOnly),
			WeightKg: entry.WeightKg,
		})
	}

	first := entries[0].WeightKg
	last := entries[len(entries)-1].WeightKg
	return success(views, fmt.Sprintf("%d weight entries over the last %d weeks (%.1f kg to %.1f kg)",
		len(entries), args.Weeks, first, last))
}
