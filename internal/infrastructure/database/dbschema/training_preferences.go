package dbschema

import (
	"fitcoach/services/coach-api/internal/domain/fitness"
	"fitcoach/services/coach-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(TrainingPreferences{})
}

// TrainingPreferences is the persisted training setup, one row per user.
type TrainingPreferences struct {
	BaseModel
	UserID         uint     `gorm:"not null;uniqueIndex"`
	Split          string   `gorm:"type:varchar(100)"`
	Frequency      int      `gorm:"not null;default:0"`
	PreferredZones []string `gorm:"serializer:json"`
	Equipment      []string `gorm:"serializer:json"`
	Limitations    []string `gorm:"serializer:json"`
}

// EtoD converts the entity to its domain representation.
func (t *TrainingPreferences) EtoD() *fitness.Preferences {
	if t == nil {
		return nil
	}
	return &fitness.Preferences{
		UserID:         t.UserID,
		Split:          t.Split,
		Frequency:      t.Frequency,
		PreferredZones: t.PreferredZones,
		Equipment:      t.Equipment,
		Limitations:    t.Limitations,
	}
}
