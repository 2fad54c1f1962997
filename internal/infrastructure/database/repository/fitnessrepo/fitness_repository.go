package fitnessrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fitcoach/services/coach-api/internal/domain/fitness"
	"fitcoach/services/coach-api/internal/infrastructure/database/dbschema"
	"fitcoach/services/coach-api/internal/utils/platformerrors"
)

// FitnessGormRepository is the gorm-backed fitness.Store. It only reads;
// every query is filtered by user id.
type FitnessGormRepository struct {
	db *gorm.DB
}

var _ fitness.Store = (*FitnessGormRepository)(nil)

func NewFitnessGormRepository(db *gorm.DB) fitness.Store {
	return &FitnessGormRepository{db: db}
}

func (repo *FitnessGormRepository) WeightHistory(ctx context.Context, userID uint, since time.Time) ([]fitness.WeightEntry, error) {
	var entities []dbschema.WeightEntry
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND recorded_at >= ?", userID, since).
		Order("recorded_at ASC").
		Find(&entities).Error
	if err != nil {
		return nil, repoError(ctx, "failed to load weight history", err)
	}

	out := make([]fitness.WeightEntry, 0, len(entities))
	for i := range entities {
		out = append(out, entities[i].EtoD())
	}
	return out, nil
}

func (repo *FitnessGormRepository) RecentSessions(ctx context.Context, userID uint, limit int) ([]fitness.Session, error) {
	var entities []dbschema.TrainingSession
	err := repo.db.WithContext(ctx).
		Preload("Exercises").
		Where("user_id = ?", userID).
		Order("scheduled_at DESC").
		Limit(limit).
		Find(&entities).Error
	if err != nil {
		return nil, repoError(ctx, "failed to load recent sessions", err)
	}
	return dbschema.SessionsEtoD(entities), nil
}

func (repo *FitnessGormRepository) CheckIns(ctx context.Context, userID uint, since time.Time) ([]fitness.CheckIn, error) {
	var entities []dbschema.CheckIn
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND recorded_at >= ?", userID, since).
		Order("recorded_at ASC").
		Find(&entities).Error
	if err != nil {
		return nil, repoError(ctx, "failed to load check-ins", err)
	}

	out := make([]fitness.CheckIn, 0, len(entities))
	for i := range entities {
		out = append(out, entities[i].EtoD())
	}
	return out, nil
}

func (repo *FitnessGormRepository) NextSession(ctx context.Context, userID uint, after time.Time) (*fitness.Session, error) {
	var entity dbschema.TrainingSession
	err := repo.db.WithContext(ctx).
		Preload("Exercises").
		Where("user_id = ? AND completed = false AND scheduled_at >= ?", userID, after).
		Order("scheduled_at ASC").
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, repoError(ctx, "failed to load next session", err)
	}
	session := entity.EtoD()
	return &session, nil
}

func (repo *FitnessGormRepository) SessionsBetween(ctx context.Context, userID uint, from, to time.Time) ([]fitness.Session, error) {
	var entities []dbschema.TrainingSession
	err := repo.db.WithContext(ctx).
		Preload("Exercises").
		Where("user_id = ? AND scheduled_at >= ? AND scheduled_at < ?", userID, from, to).
		Order("scheduled_at ASC").
		Find(&entities).Error
	if err != nil {
		return nil, repoError(ctx, "failed to load sessions in range", err)
	}
	return dbschema.SessionsEtoD(entities), nil
}

func (repo *FitnessGormRepository) NutritionDays(ctx context.Context, userID uint, since time.Time) ([]fitness.NutritionDay, error) {
	var entities []dbschema.NutritionDay
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date ASC").
		Find(&entities).Error
	if err != nil {
		return nil, repoError(ctx, "failed to load nutrition log", err)
	}

	out := make([]fitness.NutritionDay, 0, len(entities))
	for i := range entities {
		out = append(out, entities[i].EtoD())
	}
	return out, nil
}

func (repo *FitnessGormRepository) Profile(ctx context.Context, userID uint) (*fitness.Profile, error) {
	var entity dbschema.UserProfile
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, repoError(ctx, "failed to load user profile", err)
	}
	return entity.EtoD(), nil
}

func (repo *FitnessGormRepository) Preferences(ctx context.Context, userID uint) (*fitness.Preferences, error) {
	var entity dbschema.TrainingPreferences
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, repoError(ctx, "failed to load training preferences", err)
	}
	return entity.EtoD(), nil
}

func (repo *FitnessGormRepository) ExerciseHistory(ctx context.Context, userID uint, exercise string, since time.Time) ([]fitness.Session, error) {
	query := repo.db.WithContext(ctx).
		Preload("Exercises").
		Where("user_id = ? AND completed = true AND scheduled_at >= ?", userID, since).
		Order("scheduled_at ASC")

	if exercise != "" {
		subquery := repo.db.Model(&dbschema.SessionExercise{}).
			Select("training_session_id").
			Where("name ILIKE ?", "%"+exercise+"%")
		query = query.Where("id IN (?)", subquery)
	}

	var entities []dbschema.TrainingSession
	if err := query.Find(&entities).Error; err != nil {
		return nil, repoError(ctx, "failed to load exercise history", err)
	}
	return dbschema.SessionsEtoD(entities), nil
}

func repoError(ctx context.Context, message string, err error) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository,
		platformerrors.ErrorTypeDatabaseError, message, err, "")
}
