package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

const defaultCheckinWeeks = 4

type checkinStatsArgs struct {
	Weeks int `json:"weeks,omitempty" jsonschema:"minimum=1,maximum=52,description=Number of weeks to look back"`
}

type checkinStatsView struct {
	Count         int            `json:"count"`
	AvgEnergy     float64        `json:"avg_energy"`
	AvgSleepHours float64        `json:"avg_sleep_hours"`
	Moods         map[string]int `json:"moods,omitempty"`
}

func (e *Executor) checkinStats(ctx context.Context, userID uint, raw json.RawMessage) Result {
	var args checkinStatsArgs
	e.decodeLenient(NameCheckinStats, raw, &args)
	if args.Weeks < 1 || args.Weeks > 52 {
		args.Weeks = defaultCheckinWeeks
	}

	since := e.now().AddDate(0, 0, -7*args.Weeks)
	checkins, err := e.store.CheckIns(ctx, userID, since)
	if err != nil {
		return storeFailure(NameCheckinStats, err)
	}
	if len(checkins) == 0 {
		return success(checkinStatsView{},
			fmt.Sprintf("0 records found for the last %d weeks", args.Weeks))
	}

	var energySum, sleepSum decimal.Decimal
	moods := make(map[string]int)
	for _, c := range checkins {
		energySum = energySum.Add(decimal.NewFromInt(int64(c.EnergyLevel)))
		sleepSum = sleepSum.Add(decimal.NewFromFloat(c.SleepHours))
		if c.Mood != "" {
			moods[c.Mood]++
		}
	}

	count := decimal.NewFromInt(int64(len(checkins)))
	stats := checkinStatsView{
		Count:         len(checkins),
		AvgEnergy:     energySum.Div(count).Round(1).InexactFloat64(),
		AvgSleepHours: sleepSum.Div(count).Round(1).InexactFloat64(),
		Moods:         moods,
	}
	return success(stats, fmt.Sprintf("%d check-ins over the last %d weeks: avg energy %.1f/10, avg sleep %.1fh",
		stats.Count, args.Weeks, stats.AvgEnergy, stats.AvgSleepHours))
}
