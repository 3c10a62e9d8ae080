package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studymaster-backend/internal/logger"
	"github.com/yungbote/studymaster-backend/internal/sse"
	"github.com/yungbote/studymaster-backend/internal/types"
)

// SubmissionResult reports how a schedule submission went. Failures are
// aggregated; the coordinator never retries them.
type SubmissionResult struct {
	Submitted     int                            `json:"submitted"`
	Failed        int                            `json:"failed"`
	Filtered      int                            `json:"filtered"`
	FailedEvents  []*EventPersistenceFailedError `json:"-"`
	FailedIndexes []int                          `json:"failedIndexes,omitempty"`
	Class         *types.UserClass               `json:"class"`
}

type SubmissionService interface {
	SubmitSchedule(ctx context.Context, tx *gorm.DB, userID uuid.UUID, className, rawContent string, assignmentTypes []types.AssignmentType, events []*types.CalendarEvent) (*SubmissionResult, error)
}

type submissionService struct {
	db       *gorm.DB
	log      *logger.Logger
	events   CalendarEventService
	classes  UserClassService
	hub      *sse.SSEHub
}

func NewSubmissionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	events CalendarEventService,
	classes UserClassService,
	hub *sse.SSEHub,
) SubmissionService {
	return &submissionService{
		db:      db,
		log:     baseLog.With("service", "SubmissionService"),
		events:  events,
		classes: classes,
		hub:     hub,
	}
}

// SubmitSchedule persists parsed events one at a time, strictly in list
// order. Sequential submission is deliberate: the persistence API has no
// batch endpoint and no idempotency key, so one index maps to one request
// and the third-party quota never sees a burst. A failed event is logged
// and counted but never aborts its siblings. Class registration happens
// exactly once afterwards, regardless of partial event failure.
func (s *submissionService) SubmitSchedule(ctx context.Context, tx *gorm.DB, userID uuid.UUID, className, rawContent string, assignmentTypes []types.AssignmentType, events []*types.CalendarEvent) (*SubmissionResult, error) {
	result := &SubmissionResult{}

	kept := make([]*types.CalendarEvent, 0, len(events))
	for _, event := range events {
		if event.Type == types.EventTypeOther {
			result.Filtered++
			continue
		}
		kept = append(kept, event)
	}

	for i, event := range kept {
		event.UserID = userID
		event.ClassName = className
		if _, err := s.events.CreateEvent(ctx, tx, event); err != nil {
			perr := &EventPersistenceFailedError{Index: i, Title: event.Title, Err: err}
			s.log.Warn("event submission failed", "index", i, "title", event.Title, "error", err)
			result.Failed++
			result.FailedEvents = append(result.FailedEvents, perr)
			result.FailedIndexes = append(result.FailedIndexes, i)
			continue
		}
		result.Submitted++
		s.publish(userID, sse.SSEEventSubmissionProgress, map[string]any{
			"submitted": result.Submitted,
			"failed":    result.Failed,
			"total":     len(kept),
		})
	}

	class, err := s.classes.RegisterClass(ctx, tx, userID, className, rawContent, assignmentTypes)
	if err != nil {
		s.log.Error("class registration failed", "class_name", className, "error", err)
		return result, fmt.Errorf("%w: %v", ErrClassRegistrationFailed, err)
	}
	result.Class = class
	s.publish(userID, sse.SSEEventClassRegistered, map[string]any{
		"class_id":   class.ID,
		"class_name": class.ClassName,
	})

	return result, nil
}

func (s *submissionService) publish(userID uuid.UUID, event sse.SSEEvent, data any) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(sse.SSEMessage{Channel: userID.String(), Event: event, Data: data})
}
