package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studymaster-backend/internal/logger"
	"github.com/yungbote/studymaster-backend/internal/types"
)

type CalendarEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, events []*types.CalendarEvent) ([]*types.CalendarEvent, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.CalendarEvent, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CalendarEvent, error)
	GetByUserAndClassName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, className string) ([]*types.CalendarEvent, error)
	UpdateContent(ctx context.Context, tx *gorm.DB, id uuid.UUID, content string) error
	UpdatePracticeProblemsRaw(ctx context.Context, tx *gorm.DB, id uuid.UUID, raw string) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	DeleteByUserAndClassName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, className string) error
}

type calendarEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCalendarEventRepo(db *gorm.DB, baseLog *logger.Logger) CalendarEventRepo {
	return &calendarEventRepo{db: db, log: baseLog.With("repo", "CalendarEventRepo")}
}

func (r *calendarEventRepo) Create(ctx context.Context, tx *gorm.DB, events []*types.CalendarEvent) ([]*types.CalendarEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(events) == 0 {
		return []*types.CalendarEvent{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *calendarEventRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.CalendarEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CalendarEvent
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

func (r *calendarEventRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CalendarEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CalendarEvent
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *calendarEventRepo) GetByUserAndClassName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, className string) ([]*types.CalendarEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CalendarEvent
	if userID == uuid.Nil || className == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND class_name = ?", userID, className).
		Order("start_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *calendarEventRepo) UpdateContent(ctx context.Context, tx *gorm.DB, id uuid.UUID, content string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.CalendarEvent{}).
		Where("id = ?", id).
		Update("content", content).Error
}

func (r *calendarEventRepo) UpdatePracticeProblemsRaw(ctx context.Context, tx *gorm.DB, id uuid.UUID, raw string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.CalendarEvent{}).
		Where("id = ?", id).
		Update("practice_problems_raw", raw).Error
}

func (r *calendarEventRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.CalendarEvent{}).Error
}

func (r *calendarEventRepo) DeleteByUserAndClassName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, className string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil || className == "" {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("user_id = ? AND class_name = ?", userID, className).
		Delete(&types.CalendarEvent{}).Error
}
