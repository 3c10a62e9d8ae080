package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/studymaster-backend/internal/logger"
	"github.com/yungbote/studymaster-backend/internal/repos"
	"github.com/yungbote/studymaster-backend/internal/requestdata"
	"github.com/yungbote/studymaster-backend/internal/types"
)

type UserClassService interface {
	RegisterClass(ctx context.Context, tx *gorm.DB, userID uuid.UUID, className, rawContent string, assignmentTypes []types.AssignmentType) (*types.UserClass, error)
	GetUserClasses(ctx context.Context, tx *gorm.DB) ([]*types.UserClass, error)
	DeleteClass(ctx context.Context, tx *gorm.DB, classID uuid.UUID) error
}

type userClassService struct {
	db        *gorm.DB
	log       *logger.Logger
	classRepo repos.UserClassRepo
	eventRepo repos.CalendarEventRepo
}

func NewUserClassService(
	db *gorm.DB,
	baseLog *logger.Logger,
	classRepo repos.UserClassRepo,
	eventRepo repos.CalendarEventRepo,
) UserClassService {
	return &userClassService{
		db:        db,
		log:       baseLog.With("service", "UserClassService"),
		classRepo: classRepo,
		eventRepo: eventRepo,
	}
}

// RegisterClass creates the class record. Duplicate names are permitted;
// only an empty name is rejected.
func (s *userClassService) RegisterClass(ctx context.Context, tx *gorm.DB, userID uuid.UUID, className, rawContent string, assignmentTypes []types.AssignmentType) (*types.UserClass, error) {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	className = strings.TrimSpace(className)
	if className == "" {
		return nil, fmt.Errorf("class name is required")
	}
	if len(assignmentTypes) == 0 {
		assignmentTypes = types.DefaultAssignmentTypes()
	}

	typesJSON, err := json.Marshal(assignmentTypes)
	if err != nil {
		return nil, fmt.Errorf("marshal assignment types: %w", err)
	}

	class := &types.UserClass{
		ID:              uuid.New(),
		UserID:          userID,
		ClassName:       className,
		RawContent:      rawContent,
		AssignmentTypes: datatypes.JSON(typesJSON),
	}
	if _, err := s.classRepo.Create(ctx, transaction, []*types.UserClass{class}); err != nil {
		s.log.Error("RegisterClass failed", "error", err, "class_name", className)
		return nil, err
	}
	return class, nil
}

func (s *userClassService) GetUserClasses(ctx context.Context, tx *gorm.DB) ([]*types.UserClass, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}
	return s.classRepo.GetByUserID(ctx, transaction, rd.UserID)
}

// DeleteClass removes the class and, in bulk, every event that belongs to
// it.
func (s *userClassService) DeleteClass(ctx context.Context, tx *gorm.DB, classID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return fmt.Errorf("request data not set in context")
	}
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	classes, err := s.classRepo.GetByIDs(ctx, transaction, []uuid.UUID{classID})
	if err != nil {
		return err
	}
	if len(classes) == 0 || classes[0].UserID != rd.UserID {
		return fmt.Errorf("class not found")
	}

	if err := s.eventRepo.DeleteByUserAndClassName(ctx, transaction, rd.UserID, classes[0].ClassName); err != nil {
		s.log.Error("DeleteClass: deleting class events failed", "error", err, "class_id", classID)
		return err
	}
	return s.classRepo.DeleteByIDs(ctx, transaction, []uuid.UUID{classID})
}
