package dbschema

import (
	"time"

	"fitcoach/services/coach-api/internal/domain/fitness"
	"fitcoach/services/coach-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(TrainingSession{}, SessionExercise{})
}

// TrainingSession is one scheduled or completed workout.
type TrainingSession struct {
	BaseModel
	UserID      uint      `gorm:"not null;index:idx_training_sessions_user_scheduled"`
	Title       string    `gorm:"type:varchar(255);not null"`
	SessionType string    `gorm:"type:varchar(100)"`
	ScheduledAt time.Time `gorm:"not null;index:idx_training_sessions_user_scheduled"`
	Completed   bool      `gorm:"not null;default:false"`
	CompletedAt *time.Time
	Exercises   []SessionExercise `gorm:"foreignKey:TrainingSessionID"`
}

// SessionExercise is one exercise line inside a session.
type SessionExercise struct {
	BaseModel
	TrainingSessionID uint    `gorm:"not null;index"`
	Name              string  `gorm:"type:varchar(255);not null;index"`
	Sets              int     `gorm:"not null;default:0"`
	Reps              int     `gorm:"not null;default:0"`
	WeightKg          float64 `gorm:"type:numeric(6,2)"`
}

// EtoD converts the entity, including its exercises, to the domain type.
func (s *TrainingSession) EtoD() fitness.Session {
	session := fitness.Session{
		ID:          s.ID,
		UserID:      s.UserID,
		Title:       s.Title,
		SessionType: s.SessionType,
		ScheduledAt: s.ScheduledAt,
		Completed:   s.Completed,
		CompletedAt: s.CompletedAt,
	}
	for _, ex := range s.Exercises {
		session.Exercises = append(session.Exercises, fitness.SessionExercise{
			Name:     ex.Name,
			Sets:     ex.Sets,
			Reps:     ex.Reps,
			WeightKg: ex.WeightKg,
		})
	}
	return session
}

// SessionsEtoD converts a slice of entities.
func SessionsEtoD(entities []TrainingSession) []fitness.Session {
	out := make([]fitness.Session, 0, len(entities))
	for i := range entities {
		out = append(out, entities[i].EtoD())
	}
	return out
}
