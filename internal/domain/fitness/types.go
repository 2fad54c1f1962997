package fitness

import (
	"time"
)

// WeightEntry is one bodyweight measurement.
type WeightEntry struct {
	ID         uint
	UserID     uint
	WeightKg   float64
	RecordedAt time.Time
}

// SessionExercise is one exercise line inside a training session.
type SessionExercise struct {
	Name     string
	Sets     int
	Reps     int
	WeightKg float64
}

// Session is a scheduled or completed training session.
type Session struct {
	ID          uint
	UserID      uint
	Title       string
	SessionType string
	ScheduledAt time.Time
	Completed   bool
	CompletedAt *time.Time
	Exercises   []SessionExercise
}

// CheckIn is a periodic wellbeing check-in.
type CheckIn struct {
	ID          uint
	UserID      uint
	EnergyLevel int
	SleepHours  float64
	Mood        string
	Notes       string
	RecordedAt  time.Time
}

// NutritionDay aggregates one day of logged nutrition.
type NutritionDay struct {
	ID       uint
	UserID   uint
	Date     time.Time
	Calories int
	ProteinG int
	CarbsG   int
	FatG     int
}

// Profile is the user's coaching profile. Age may be absent when BirthDate
// is recorded instead.
type Profile struct {
	UserID        uint
	Sex           string
	HeightCm      float64
	WeightKg      float64
	BirthDate     *time.Time
	Age           *int
	ActivityLevel string
	GoalType      string
	Allergies     []string
}

// Preferences captures how the user likes to train.
type Preferences struct {
	UserID         uint
	Split          string
	Frequency      int
	PreferredZones []string
	Equipment      []string
	Limitations    []string
}
