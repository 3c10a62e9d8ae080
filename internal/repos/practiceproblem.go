package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studymaster-backend/internal/logger"
	"github.com/yungbote/studymaster-backend/internal/types"
)

type PracticeProblemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, problems []*types.PracticeProblem) ([]*types.PracticeProblem, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PracticeProblem, error)
	GetByEventID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.PracticeProblem, error)
	Update(ctx context.Context, tx *gorm.DB, problem *types.PracticeProblem) error
	DeleteByEventID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) error
}

type practiceProblemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPracticeProblemRepo(db *gorm.DB, baseLog *logger.Logger) PracticeProblemRepo {
	return &practiceProblemRepo{db: db, log: baseLog.With("repo", "PracticeProblemRepo")}
}

func (r *practiceProblemRepo) Create(ctx context.Context, tx *gorm.DB, problems []*types.PracticeProblem) ([]*types.PracticeProblem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(problems) == 0 {
		return []*types.PracticeProblem{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&problems).Error; err != nil {
		return nil, err
	}
	return problems, nil
}

func (r *practiceProblemRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PracticeProblem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.PracticeProblem
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *practiceProblemRepo) GetByEventID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.PracticeProblem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PracticeProblem
	if eventID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *practiceProblemRepo) Update(ctx context.Context, tx *gorm.DB, problem *types.PracticeProblem) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if problem == nil || problem.ID == uuid.Nil {
		return nil
	}

	return transaction.WithContext(ctx).Save(problem).Error
}

func (r *practiceProblemRepo) DeleteByEventID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if eventID == uuid.Nil {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&types.PracticeProblem{}).Error
}
