package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fitcoach/services/coach-api/internal/domain/fitness"
)

const defaultNutritionDays = 7

// Activity multipliers applied to BMR, keyed by normalized activity level.
var activityFactors = map[string]decimal.Decimal{
	"sedentary":   decimal.NewFromFloat(1.2),
	"light":       decimal.NewFromFloat(1.375),
	"moderate":    decimal.NewFromFloat(1.55),
	"active":      decimal.NewFromFloat(1.725),
	"very_active": decimal.NewFromFloat(1.9),
}

// Calorie adjustment applied on top of TDEE, keyed by normalized goal type.
var goalAdjustments = map[string]decimal.Decimal{
	"weight_loss": decimal.NewFromInt(-400),
	"cut":         decimal.NewFromInt(-400),
	"muscle_gain": decimal.NewFromInt(300),
	"bulk":        decimal.NewFromInt(300),
}

type nutritionLogArgs struct {
	Days int `json:"days,omitempty" jsonschema:"minimum=1,maximum=90,description=Number of days to look back"`
}

type nutritionDayView struct {
	Date     string `json:"date"`
	Calories int    `json:"calories"`
	ProteinG int    `json:"protein_g"`
	CarbsG   int    `json:"carbs_g"`
	FatG     int    `json:"fat_g"`
}

type nutritionTargetsView struct {
	BMR           int    `json:"bmr"`
	TDEE          int    `json:"tdee"`
	CalorieTarget int    `json:"calorie_target"`
	ProteinG      int    `json:"protein_g"`
	CarbsG        int    `json:"carbs_g"`
	FatG          int    `json:"fat_g"`
	GoalType      string `json:"goal_type,omitempty"`
	ActivityLevel string `json:"activity_level,omitempty"`
}

// basalMetabolicRate implements the Mifflin-St Jeor equation:
// 10*weight + 6.25*height - 5*age, +5 for males and -161 otherwise.
func basalMetabolicRate(weightKg, heightCm float64, age int, sex string) decimal.Decimal {
	bmr := decimal.NewFromFloat(weightKg).Mul(decimal.NewFromInt(10)).
		Add(decimal.NewFromFloat(heightCm).Mul(decimal.NewFromFloat(6.25))).
		Sub(decimal.NewFromInt(int64(age)).Mul(decimal.NewFromInt(5)))
	switch strings.ToLower(sex) {
	case "male", "m", "homme", "h":
		return bmr.Add(decimal.NewFromInt(5))
	default:
		return bmr.Sub(decimal.NewFromInt(161))
	}
}

func profileAge(p *fitness.Profile, now time.Time) (int, bool) {
	if p.Age != nil {
		return *p.Age, true
	}
	if p.BirthDate == nil {
		return 0, false
	}
	age := now.Year() - p.BirthDate.Year()
	if now.YearDay() < p.BirthDate.YearDay() {
		age--
	}
	return age, true
}

func (e *Executor) nutritionTargets(ctx context.Context, userID uint) Result {
	profile, err := e.store.Profile(ctx, userID)
	if err != nil {
		return storeFailure(NameNutritionTargets, err)
	}
	if profile == nil {
		return failure("no profile on record", "nutrition targets unavailable: profile missing")
	}
	age, ok := profileAge(profile, e.now())
	if !ok || profile.WeightKg <= 0 || profile.HeightCm <= 0 {
		return failure("profile incomplete: weight, height and age are required",
			"nutrition targets unavailable: profile incomplete")
	}

	bmr := basalMetabolicRate(profile.WeightKg, profile.HeightCm, age, profile.Sex)

	factor, ok := activityFactors[strings.ToLower(profile.ActivityLevel)]
	if !ok {
		factor = activityFactors["moderate"]
	}
	tdee := bmr.Mul(factor)

	target := tdee
	if adj, ok := goalAdjustments[strings.ToLower(profile.GoalType)]; ok {
		target = target.Add(adj)
	}

	// Protein 1.8 g/kg, fat 25% of calories, carbs fill the remainder.
	protein := decimal.NewFromFloat(1.8).Mul(decimal.NewFromFloat(profile.WeightKg)).Round(0)
	fat := target.Mul(decimal.NewFromFloat(0.25)).Div(decimal.NewFromInt(9)).Round(0)
	carbs := target.
		Sub(protein.Mul(decimal.NewFromInt(4))).
		Sub(fat.Mul(decimal.NewFromInt(9))).
		Div(decimal.NewFromInt(4)).Round(0)

	view := nutritionTargetsView{
		BMR:           int(bmr.Round(0).IntPart()),
		TDEE:          int(tdee.Round(0).IntPart()),
		CalorieTarget: int(target.Round(0).IntPart()),
		ProteinG:      int(protein.IntPart()),
		CarbsG:        int(carbs.IntPart()),
		FatG:          int(fat.IntPart()),
		GoalType:      profile.GoalType,
		ActivityLevel: profile.ActivityLevel,
	}
	return success(view, fmt.Sprintf("daily target %d kcal (TDEE %d): %dg protein, %dg carbs, %dg fat",
		view.CalorieTarget, view.TDEE, view.ProteinG, view.CarbsG, view.FatG))
}

func (e *Executor) nutritionLog(ctx context.Context, userID uint, raw json.RawMessage) Result {
	var args nutritionLogArgs
	e.decodeLenient(NameNutritionLog, raw, &args)
	if args.Days < 1 || args.Days > 90 {
		args.Days = defaultNutritionDays
	}

	since := e.now().AddDate(0, 0, -args.Days)
	days, err := e.store.NutritionDays(ctx, userID, since)
	if err != nil {
		return storeFailure(NameNutritionLog, err)
	}
	if len(days) == 0 {
		return success([]nutritionDayView{},
			fmt.Sprintf("0 records found for the last %d days", args.Days))
	}

	views := make([]nutritionDayView, 0, len(days))
	caloriesSum := 0
	for _, d := range days {
		views = append(views, nutritionDayView{
			Date:     d.Date.Format(time.DateOnly),
			Calories: d.Calories,
			ProteinG: d.ProteinG,
			CarbsG:   d.CarbsG,
			FatG:     d.FatG,
		})
		caloriesSum += d.Calories
	}
	avg := caloriesSum / len(days)
	return success(views, fmt.Sprintf("%d logged days over the last %d days, avg %d kcal/day",
		len(days), args.Days, avg))
}
