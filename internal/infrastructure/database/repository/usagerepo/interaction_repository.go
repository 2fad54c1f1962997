package usagerepo

import (
	"context"

	"gorm.io/gorm"

	"fitcoach/services/coach-api/internal/infrastructure/database/dbschema"
	"fitcoach/services/coach-api/internal/utils/idgen"
	"fitcoach/services/coach-api/internal/utils/platformerrors"
)

// Interaction is one completed chat request, recorded after streaming ends.
type Interaction struct {
	UserID         uint
	RequestID      string
	Model          string
	ConsentGranted bool
	ToolCalls      int
	Rounds         int
}

// Repository tracks coach interactions per user.
type Repository interface {
	CountByUser(ctx context.Context, userID uint) (int64, error)
	Record(ctx context.Context, interaction Interaction) error
}

type InteractionGormRepository struct {
	db *gorm.DB
}

var _ Repository = (*InteractionGormRepository)(nil)

func NewInteractionGormRepository(db *gorm.DB) Repository {
	return &InteractionGormRepository{db: db}
}

func (repo *InteractionGormRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&dbschema.CoachInteraction{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to count interactions", err, "")
	}
	return count, nil
}

func (repo *InteractionGormRepository) Record(ctx context.Context, interaction Interaction) error {
	publicID, err := idgen.GenerateSecureID("chat", 24)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal, "failed to generate interaction id", err, "")
	}

	entity := dbschema.CoachInteraction{
		PublicID:       publicID,
		UserID:         interaction.UserID,
		RequestID:      interaction.RequestID,
		Model:          interaction.Model,
		ConsentGranted: interaction.ConsentGranted,
		ToolCalls:      interaction.ToolCalls,
		Rounds:         interaction.Rounds,
	}
	if err := repo.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to record interaction", err, "")
	}
	return nil
}
