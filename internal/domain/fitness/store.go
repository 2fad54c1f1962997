package fitness

import (
	"context"
	"time"
)

// Store is the read-only query surface the coaching tools run against.
// Every method is scoped to a single user id; implementations must never
// return another user's records.
//
// Ordering contracts: WeightHistory, SessionsBetween, NutritionDays and
// ExerciseHistory return records in ascending chronological order;
// RecentSessions returns the most recent first. Singleton lookups
// (NextSession, Profile, Preferences) return (nil, nil) when no record
// exists.
type Store interface {
	WeightHistory(ctx context.Context, userID uint, since time.Time) ([]WeightEntry, error)
	RecentSessions(ctx context.Context, userID uint, limit int) ([]Session, error)
	CheckIns(ctx context.Context, userID uint, since time.Time) ([]CheckIn, error)
	NextSession(ctx context.Context, userID uint, after time.Time) (*Session, error)
	SessionsBetween(ctx context.Context, userID uint, from, to time.Time) ([]Session, error)
	NutritionDays(ctx context.Context, userID uint, since time.Time) ([]NutritionDay, error)
	Profile(ctx context.Context, userID uint) (*Profile, error)
	Preferences(ctx context.Context, userID uint) (*Preferences, error)
	ExerciseHistory(ctx context.Context, userID uint, exercise string, since time.Time) ([]Session, error)
}
