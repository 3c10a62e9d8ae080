package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studymaster-backend/internal/logger"
	"github.com/yungbote/studymaster-backend/internal/types"
)

type UserClassRepo interface {
	Create(ctx context.Context, tx *gorm.DB, classes []*types.UserClass) ([]*types.UserClass, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.UserClass, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserClass, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type userClassRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserClassRepo(db *gorm.DB, baseLog *logger.Logger) UserClassRepo {
	return &userClassRepo{db: db, log: baseLog.With("repo", "UserClassRepo")}
}

func (r *userClassRepo) Create(ctx context.Context, tx *gorm.DB, classes []*types.UserClass) ([]*types.UserClass, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(classes) == 0 {
		return []*types.UserClass{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *userClassRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.UserClass, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserClass
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

func (r *userClassRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserClass, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserClass
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userClassRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.UserClass{}).Error
}
