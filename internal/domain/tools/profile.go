package tools

import (
	"context"
	"fmt"
	"strings"
)

type profileView struct {
	Sex           string   `json:"sex,omitempty"`
	Age           int      `json:"age,omitempty"`
	HeightCm      float64  `json:"height_cm,omitempty"`
	WeightKg      float64  `json:"weight_kg,omitempty"`
	ActivityLevel string   `json:"activity_level,omitempty"`
	GoalType      string   `json:"goal_type,omitempty"`
	Allergies     []string `json:"allergies,omitempty"`
}

type preferencesView struct {
	Split          string   `json:"split,omitempty"`
	Frequency      int      `json:"frequency,omitempty"`
	PreferredZones []string `json:"preferred_zones,omitempty"`
	Equipment      []string `json:"equipment,omitempty"`
	Limitations    []string `json:"limitations,omitempty"`
}

func (e *Executor) userProfile(ctx context.Context, userID uint) Result {
	profile, err := e.store.Profile(ctx, userID)
	if err != nil {
		return storeFailure(NameUserProfile, err)
	}
	if profile == nil {
		return failure("no profile on record", "profile missing")
	}

	view := profileView{
		Sex:           profile.Sex,
		HeightCm:      profile.HeightCm,
		WeightKg:      profile.WeightKg,
		ActivityLevel: profile.ActivityLevel,
		GoalType:      profile.GoalType,
		Allergies:     profile.Allergies,
	}
	if age, ok := profileAge(profile, e.now()); ok {
		view.Age = age
	}

	summary := fmt.Sprintf("profile: %.0f kg, %.0f cm", profile.WeightKg, profile.HeightCm)
	if view.Age > 0 {
		summary += fmt.Sprintf(", %d years", view.Age)
	}
	if profile.GoalType != "" {
		summary += ", goal " + profile.GoalType
	}
	return success(view, summary)
}

func (e *Executor) trainingPreferences(ctx context.Context, userID uint) Result {
	prefs, err := e.store.Preferences(ctx, userID)
	if err != nil {
		return storeFailure(NameTrainingPrefs, err)
	}
	if prefs == nil {
		return failure("no training preferences on record", "training preferences missing")
	}

	view := preferencesView{
		Split:          prefs.Split,
		Frequency:      prefs.Frequency,
		PreferredZones: prefs.PreferredZones,
		Equipment:      prefs.Equipment,
		Limitations:    prefs.Limitations,
	}

	parts := []string{}
	if prefs.Split != "" {
		parts = append(parts, prefs.Split+" split")
	}
	if prefs.Frequency > 0 {
		parts = append(parts, fmt.Sprintf("%dx/week", prefs.Frequency))
	}
	if len(prefs.Limitations) > 0 {
		parts = append(parts, fmt.Sprintf("%d limitations", len(prefs.Limitations)))
	}
	summary := "training preferences"
	if len(parts) > 0 {
		summary += ": " + strings.Join(parts, ", ")
	}
	return success(view, summary)
}
