package dbschema

import (
	"time"

	"fitcoach/services/coach-api/internal/domain/fitness"
	"fitcoach/services/coach-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(NutritionDay{})
}

// NutritionDay aggregates one day of logged nutrition.
type NutritionDay struct {
	BaseModel
	UserID   uint      `gorm:"not null;uniqueIndex:ux_nutrition_days_user_date"`
	Date     time.Time `gorm:"type:date;not null;uniqueIndex:ux_nutrition_days_user_date"`
	Calories int       `gorm:"not null;default:0"`
	ProteinG int       `gorm:"not null;default:0"`
	CarbsG   int       `gorm:"not null;default:0"`
	FatG     int       `gorm:"not null;default:0"`
}

// EtoD converts the entity to its domain representation.
func (n *NutritionDay) EtoD() fitness.NutritionDay {
	return fitness.NutritionDay{
		ID:       n.ID,
		UserID:   n.UserID,
		Date:     n.Date,
		Calories: n.Calories,
		ProteinG: n.ProteinG,
		CarbsG:   n.CarbsG,
		FatG:     n.FatG,
	}
}
