package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planweaver/planweaver-backend/internal/logger"
	"github.com/planweaver/planweaver-backend/internal/types"
)

type ClientProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profiles []*types.ClientProfile) ([]*types.ClientProfile, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ClientProfile, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.ClientProfile, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.ClientProfile, error)
	Save(ctx context.Context, tx *gorm.DB, profile *types.ClientProfile) (*types.ClientProfile, error)
}

type clientProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientProfileRepo(db *gorm.DB, baseLog *logger.Logger) ClientProfileRepo {
	repoLog := baseLog.With("repo", "ClientProfileRepo")
	return &clientProfileRepo{db: db, log: repoLog}
}

func (cpr *clientProfileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.ClientProfile) ([]*types.ClientProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = cpr.db
	}

	if len(profiles) == 0 {
		return []*types.ClientProfile{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&profiles).Error; err != nil {
		return nil, err
	}

	return profiles, nil
}

func (cpr *clientProfileRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ClientProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = cpr.db
	}

	var results []*types.ClientProfile

	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (cpr *clientProfileRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.ClientProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = cpr.db
	}

	var results []*types.ClientProfile

	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (cpr *clientProfileRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.ClientProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = cpr.db
	}

	var results []*types.ClientProfile

	if err := transaction.WithContext(ctx).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (cpr *clientProfileRepo) Save(ctx context.Context, tx *gorm.DB, profile *types.ClientProfile) (*types.ClientProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = cpr.db
	}

	if profile == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}

	return profile, nil
}
