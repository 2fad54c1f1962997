package dbschema

import (
	"fitcoach/services/coach-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(CoachInteraction{})
}

// CoachInteraction records one completed chat request. The per-user count
// feeds the first-use-free entitlement rule.
type CoachInteraction struct {
	BaseModel
	PublicID       string `gorm:"type:varchar(64);uniqueIndex"`
	UserID         uint   `gorm:"not null;index"`
	RequestID      string `gorm:"type:varchar(64)"`
	Model          string `gorm:"type:varchar(100)"`
	ConsentGranted bool   `gorm:"not null;default:false"`
	ToolCalls      int    `gorm:"not null;default:0"`
	Rounds         int    `gorm:"not null;default:0"`
}
