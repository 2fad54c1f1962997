package dbschema

import (
	"time"

	"fitcoach/services/coach-api/internal/domain/fitness"
	"fitcoach/services/coach-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(WeightEntry{})
}

// WeightEntry is one persisted bodyweight measurement.
type WeightEntry struct {
	BaseModel
	UserID     uint      `gorm:"not null;index:idx_weight_entries_user_recorded"`
	WeightKg   float64   `gorm:"type:numeric(5,2);not null"`
	RecordedAt time.Time `gorm:"not null;index:idx_weight_entries_user_recorded"`
}

// EtoD converts the entity to its domain representation.
func (w *WeightEntry) EtoD() fitness.WeightEntry {
	return fitness.WeightEntry{
		ID:         w.ID,
		UserID:     w.UserID,
		WeightKg:   w.WeightKg,
		RecordedAt: w.RecordedAt,
	}
}
