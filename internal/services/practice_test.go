package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/studymaster-backend/internal/types"
)

func TestSplitPracticeProblems_NumberedList(t *testing.T) {
	raw := "1. What is a binary heap?\n2. Prove insertion is O(log n).\n3. Describe heapify."
	problems := SplitPracticeProblems(raw, uuid.New())
	if len(problems) != 3 {
		t.Fatalf("expected 3 problems, got %d", len(problems))
	}
	if problems[0].ProblemText != "What is a binary heap?" {
		t.Fatalf("unexpected first problem: %q", problems[0].ProblemText)
	}
	for i, p := range problems {
		if p.Position != i+1 {
			t.Fatalf("expected position %d, got %d", i+1, p.Position)
		}
	}
}

func TestSplitPracticeProblems_DropsEmptySegments(t *testing.T) {
	problems := SplitPracticeProblems("1.   \n2. Real question", uuid.New())
	if len(problems) != 1 {
		t.Fatalf("expected 1 problem, got %d", len(problems))
	}
	if problems[0].ProblemText != "Real question" {
		t.Fatalf("unexpected problem text: %q", problems[0].ProblemText)
	}
}

func TestSplitPracticeProblems_UnusableOutputYieldsEmptySet(t *testing.T) {
	if got := SplitPracticeProblems("", uuid.New()); len(got) != 0 {
		t.Fatalf("expected empty set for empty input, got %d", len(got))
	}
	if got := SplitPracticeProblems("   \n  ", uuid.New()); len(got) != 0 {
		t.Fatalf("expected empty set for whitespace input, got %d", len(got))
	}
}

func TestGetOrGenerateProblems_GeneratesOncePerEvent(t *testing.T) {
	eventSvc := newFakeEventService()
	eventRepo := newFakeEventRepo()
	problemRepo := newFakeProblemRepo()
	ai := &fakeAIClient{responses: []string{"1. Q one\n2. Q two"}}

	event := &types.CalendarEvent{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Title:     "Midterm",
		Content:   "Heaps\nDetails below",
		ClassName: "CS101",
		Type:      "Exam",
	}
	eventSvc.events[event.ID] = event
	eventRepo.events[event.ID] = event

	svc := NewPracticeService(nil, testLogger(t), ai, eventSvc, eventRepo, problemRepo, nil)

	problems, err := svc.GetOrGenerateProblems(context.Background(), nil, event.ID)
	if err != nil {
		t.Fatalf("GetOrGenerateProblems: %v", err)
	}
	if len(problems) != 2 {
		t.Fatalf("expected 2 problems, got %d", len(problems))
	}
	if event.PracticeProblemsRaw == nil {
		t.Fatalf("expected raw problems cached on event")
	}

	// Second call must serve the cache, not the model.
	again, err := svc.GetOrGenerateProblems(context.Background(), nil, event.ID)
	if err != nil {
		t.Fatalf("second GetOrGenerateProblems: %v", err)
	}
	if len(again) != 2 {
		t.Fatalf("expected 2 cached problems, got %d", len(again))
	}
	if ai.calls != 1 {
		t.Fatalf("expected exactly 1 model call, got %d", ai.calls)
	}
	// Authoring problems runs on the large model, not the grading one.
	if ai.models[0] != ai.ScheduleModel() {
		t.Fatalf("expected generation on %q, got %q", ai.ScheduleModel(), ai.models[0])
	}
}

func TestGetOrGenerateProblems_EmptyModelOutputIsNotAnError(t *testing.T) {
	eventSvc := newFakeEventService()
	eventRepo := newFakeEventRepo()
	problemRepo := newFakeProblemRepo()
	ai := &fakeAIClient{responses: []string{""}}

	event := &types.CalendarEvent{ID: uuid.New(), UserID: uuid.New(), Title: "Quiz", Content: "Topic", ClassName: "CS101", Type: "Exam"}
	eventSvc.events[event.ID] = event
	eventRepo.events[event.ID] = event

	svc := NewPracticeService(nil, testLogger(t), ai, eventSvc, eventRepo, problemRepo, nil)

	problems, err := svc.GetOrGenerateProblems(context.Background(), nil, event.ID)
	if err != nil {
		t.Fatalf("GetOrGenerateProblems: %v", err)
	}
	if len(problems) != 0 {
		t.Fatalf("expected empty problem set, got %d", len(problems))
	}
	// Generation is still recorded so the event is not regenerated forever.
	if event.PracticeProblemsRaw == nil {
		t.Fatalf("expected raw cache set even for empty output")
	}
}
