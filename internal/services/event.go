package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studymaster-backend/internal/logger"
	"github.com/yungbote/studymaster-backend/internal/repos"
	"github.com/yungbote/studymaster-backend/internal/requestdata"
	"github.com/yungbote/studymaster-backend/internal/types"
)

type CalendarEventService interface {
	CreateEvent(ctx context.Context, tx *gorm.DB, event *types.CalendarEvent) (*types.CalendarEvent, error)
	GetUserEvents(ctx context.Context, tx *gorm.DB) ([]*types.CalendarEvent, error)
	GetEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (*types.CalendarEvent, error)
	UpdateEventContent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, content string) error
	DeleteEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) error
}

type calendarEventService struct {
	db        *gorm.DB
	log       *logger.Logger
	eventRepo repos.CalendarEventRepo
}

func NewCalendarEventService(db *gorm.DB, baseLog *logger.Logger, eventRepo repos.CalendarEventRepo) CalendarEventService {
	return &calendarEventService{
		db:        db,
		log:       baseLog.With("service", "CalendarEventService"),
		eventRepo: eventRepo,
	}
}

func (s *calendarEventService) CreateEvent(ctx context.Context, tx *gorm.DB, event *types.CalendarEvent) (*types.CalendarEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	if event == nil {
		return nil, fmt.Errorf("event is nil")
	}
	if event.Title == "" {
		return nil, fmt.Errorf("event title is required")
	}
	if event.EndDate.Before(event.StartDate) {
		return nil, fmt.Errorf("event end precedes start")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	created, err := s.eventRepo.Create(ctx, transaction, []*types.CalendarEvent{event})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func (s *calendarEventService) GetUserEvents(ctx context.Context, tx *gorm.DB) ([]*types.CalendarEvent, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}
	return s.eventRepo.GetByUserID(ctx, transaction, rd.UserID)
}

func (s *calendarEventService) GetEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (*types.CalendarEvent, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	events, err := s.eventRepo.GetByIDs(ctx, transaction, []uuid.UUID{eventID})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 || events[0].UserID != rd.UserID {
		return nil, fmt.Errorf("event not found")
	}
	return events[0], nil
}

func (s *calendarEventService) UpdateEventContent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, content string) error {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	if _, err := s.GetEvent(ctx, transaction, eventID); err != nil {
		return err
	}
	return s.eventRepo.UpdateContent(ctx, transaction, eventID, content)
}

func (s *calendarEventService) DeleteEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	if _, err := s.GetEvent(ctx, transaction, eventID); err != nil {
		return err
	}
	return s.eventRepo.DeleteByIDs(ctx, transaction, []uuid.UUID{eventID})
}
