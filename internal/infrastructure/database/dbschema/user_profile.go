package dbschema

import (
	"time"

	"fitcoach/services/coach-api/internal/domain/fitness"
	"fitcoach/services/coach-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(UserProfile{})
}

// UserProfile is the persisted coaching profile, one row per user.
type UserProfile struct {
	BaseModel
	UserID        uint    `gorm:"not null;uniqueIndex"`
	Sex           string  `gorm:"type:varchar(20)"`
	HeightCm      float64 `gorm:"type:numeric(5,2)"`
	WeightKg      float64 `gorm:"type:numeric(5,2)"`
	BirthDate     *time.Time
	Age           *int
	ActivityLevel string   `gorm:"type:varchar(50)"`
	GoalType      string   `gorm:"type:varchar(100)"`
	Allergies     []string `gorm:"serializer:json"`
}

// EtoD converts the entity to its domain representation.
func (p *UserProfile) EtoD() *fitness.Profile {
	if p == nil {
		return nil
	}
	return &fitness.Profile{
		UserID:        p.UserID,
		Sex:           p.Sex,
		HeightCm:      p.HeightCm,
		WeightKg:      p.WeightKg,
		BirthDate:     p.BirthDate,
		Age:           p.Age,
		ActivityLevel: p.ActivityLevel,
		GoalType:      p.GoalType,
		Allergies:     p.Allergies,
	}
}
