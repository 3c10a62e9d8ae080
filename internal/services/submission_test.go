package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studymaster-backend/internal/types"
)

func scheduleEvents(titles ...string) []*types.CalendarEvent {
	start := time.Date(2026, 1, 12, 10, 0, 0, 0, time.Local)
	events := make([]*types.CalendarEvent, 0, len(titles))
	for i, title := range titles {
		events = append(events, &types.CalendarEvent{
			Title:     title,
			StartDate: start.AddDate(0, 0, i*7),
			EndDate:   start.AddDate(0, 0, i*7).Add(75 * time.Minute),
			Content:   "content",
			Type:      "Lecture",
		})
	}
	return events
}

func TestSubmitSchedule_PartialFailureDoesNotAbortSiblings(t *testing.T) {
	eventSvc := newFakeEventService()
	eventSvc.failTitles["Week 2"] = true
	classSvc := &fakeClassService{}
	svc := NewSubmissionService(nil, testLogger(t), eventSvc, classSvc, nil)

	userID := uuid.New()
	result, err := svc.SubmitSchedule(context.Background(), nil, userID, "CS101", "raw syllabus", nil, scheduleEvents("Week 1", "Week 2", "Week 3"))
	if err != nil {
		t.Fatalf("SubmitSchedule: %v", err)
	}
	if result.Submitted != 2 || result.Failed != 1 {
		t.Fatalf("expected 2 submitted 1 failed, got %d/%d", result.Submitted, result.Failed)
	}
	if len(result.FailedIndexes) != 1 || result.FailedIndexes[0] != 1 {
		t.Fatalf("expected failed index [1], got %v", result.FailedIndexes)
	}
	if len(eventSvc.created) != 2 {
		t.Fatalf("expected 2 persisted events, got %d", len(eventSvc.created))
	}
	if eventSvc.created[0].Title != "Week 1" || eventSvc.created[1].Title != "Week 3" {
		t.Fatalf("unexpected persisted order: %q, %q", eventSvc.created[0].Title, eventSvc.created[1].Title)
	}
}

func TestSubmitSchedule_RegistersClassExactlyOnce(t *testing.T) {
	eventSvc := newFakeEventService()
	classSvc := &fakeClassService{}
	svc := NewSubmissionService(nil, testLogger(t), eventSvc, classSvc, nil)

	result, err := svc.SubmitSchedule(context.Background(), nil, uuid.New(), "CS101", "raw", nil, scheduleEvents("A", "B", "C"))
	if err != nil {
		t.Fatalf("SubmitSchedule: %v", err)
	}
	if len(classSvc.registered) != 1 {
		t.Fatalf("expected exactly 1 class registration, got %d", len(classSvc.registered))
	}
	if result.Class == nil || result.Class.ClassName != "CS101" {
		t.Fatalf("expected registered class on result, got %+v", result.Class)
	}
}

func TestSubmitSchedule_FiltersOtherEvents(t *testing.T) {
	eventSvc := newFakeEventService()
	classSvc := &fakeClassService{}
	svc := NewSubmissionService(nil, testLogger(t), eventSvc, classSvc, nil)

	events := scheduleEvents("Keep", "Drop")
	events[1].Type = types.EventTypeOther

	result, err := svc.SubmitSchedule(context.Background(), nil, uuid.New(), "CS101", "raw", nil, events)
	if err != nil {
		t.Fatalf("SubmitSchedule: %v", err)
	}
	if result.Filtered != 1 || result.Submitted != 1 {
		t.Fatalf("expected 1 filtered 1 submitted, got %d/%d", result.Filtered, result.Submitted)
	}
	for _, created := range eventSvc.created {
		if created.Type == types.EventTypeOther {
			t.Fatalf("Other event was persisted: %+v", created)
		}
	}
}

func TestSubmitSchedule_RegistrationFailureIsFatal(t *testing.T) {
	eventSvc := newFakeEventService()
	classSvc := &fakeClassService{failNext: true}
	svc := NewSubmissionService(nil, testLogger(t), eventSvc, classSvc, nil)

	result, err := svc.SubmitSchedule(context.Background(), nil, uuid.New(), "CS101", "raw", nil, scheduleEvents("A"))
	if !errors.Is(err, ErrClassRegistrationFailed) {
		t.Fatalf("expected ErrClassRegistrationFailed, got %v", err)
	}
	// Events submitted before the registration failure stay submitted.
	if result == nil || result.Submitted != 1 {
		t.Fatalf("expected partial result with 1 submitted, got %+v", result)
	}
}
