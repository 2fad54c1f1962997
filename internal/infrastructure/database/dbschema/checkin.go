package dbschema

import (
	"time"

	"fitcoach/services/coach-api/internal/domain/fitness"
	"fitcoach/services/coach-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(CheckIn{})
}

// CheckIn is one persisted wellbeing check-in.
type CheckIn struct {
	BaseModel
	UserID      uint      `gorm:"not null;index:idx_checkins_user_recorded"`
	EnergyLevel int       `gorm:"not null;default:0"`
	SleepHours  float64   `gorm:"type:numeric(4,2)"`
	Mood        string    `gorm:"type:varchar(50)"`
	Notes       string    `gorm:"type:text"`
	RecordedAt  time.Time `gorm:"not null;index:idx_checkins_user_recorded"`
}

// EtoD converts the entity to its domain representation.
func (c *CheckIn) EtoD() fitness.CheckIn {
	return fitness.CheckIn{
		ID:          c.ID,
		UserID:      c.UserID,
		EnergyLevel: c.EnergyLevel,
		SleepHours:  c.SleepHours,
		Mood:        c.Mood,
		Notes:       c.Notes,
		RecordedAt:  c.RecordedAt,
	}
}
