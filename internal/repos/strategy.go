package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/planweaver/planweaver-backend/internal/logger"
	"github.com/planweaver/planweaver-backend/internal/types"
)

type StrategyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, strategies []*types.Strategy) ([]*types.Strategy, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Strategy, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*types.Strategy, error)
	GetCustom(ctx context.Context, tx *gorm.DB) ([]*types.Strategy, error)
	Save(ctx context.Context, tx *gorm.DB, strategy *types.Strategy) (*types.Strategy, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type strategyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStrategyRepo(db *gorm.DB, baseLog *logger.Logger) StrategyRepo {
	repoLog := baseLog.With("repo", "StrategyRepo")
	return &strategyRepo{db: db, log: repoLog}
}

func (sr *strategyRepo) Create(ctx context.Context, tx *gorm.DB, strategies []*types.Strategy) ([]*types.Strategy, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(strategies) == 0 {
		return []*types.Strategy{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&strategies).Error; err != nil {
		return nil, err
	}

	return strategies, nil
}

func (sr *strategyRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Strategy, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.Strategy

	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (sr *strategyRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*types.Strategy, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.Strategy

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

func (sr *strategyRepo) GetCustom(ctx context.Context, tx *gorm.DB) ([]*types.Strategy, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.Strategy

	if err := transaction.WithContext(ctx).
		Where("is_custom = ?", true).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (sr *strategyRepo) Save(ctx context.Context, tx *gorm.DB, strategy *types.Strategy) (*types.Strategy, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if strategy == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Save(strategy).Error; err != nil {
		return nil, err
	}

	return strategy, nil
}

func (sr *strategyRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Strategy{}).Error; err != nil {
		return err
	}

	return nil
}

func (sr *strategyRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Strategy{}).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
