package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studymaster-backend/internal/logger"
	"github.com/yungbote/studymaster-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

// fakeAIClient replays scripted responses in call order.
type fakeAIClient struct {
	responses []string
	errs      []error
	calls     int
	requests  [][]AIMessage
	models    []string
}

func (f *fakeAIClient) Chat(ctx context.Context, model string, messages []AIMessage) (string, error) {
	i := f.calls
	f.calls++
	f.requests = append(f.requests, messages)
	f.models = append(f.models, model)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", &ModelCallFailedError{Err: fmt.Errorf("no scripted response for call %d", i)}
}

func (f *fakeAIClient) ScheduleModel() string { return "fake-schedule-model" }
func (f *fakeAIClient) GradingModel() string  { return "fake-grading-model" }

// fakeRecognizer returns canned OCR text, or fails for flagged inputs.
type fakeRecognizer struct {
	text    string
	failFor map[string]error
}

func (f *fakeRecognizer) RecognizeImage(ctx context.Context, data []byte) (string, error) {
	if err, ok := f.failFor[string(data)]; ok {
		return "", err
	}
	return f.text, nil
}

// fakeEventService backs CalendarEventService with a map. failTitles marks
// titles whose creation should fail.
type fakeEventService struct {
	events     map[uuid.UUID]*types.CalendarEvent
	failTitles map[string]bool
	created    []*types.CalendarEvent
}

func newFakeEventService() *fakeEventService {
	return &fakeEventService{
		events:     make(map[uuid.UUID]*types.CalendarEvent),
		failTitles: make(map[string]bool),
	}
}

func (f *fakeEventService) CreateEvent(ctx context.Context, tx *gorm.DB, event *types.CalendarEvent) (*types.CalendarEvent, error) {
	if f.failTitles[event.Title] {
		return nil, fmt.Errorf("simulated persistence failure")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	f.events[event.ID] = event
	f.created = append(f.created, event)
	return event, nil
}

func (f *fakeEventService) GetUserEvents(ctx context.Context, tx *gorm.DB) ([]*types.CalendarEvent, error) {
	var out []*types.CalendarEvent
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventService) GetEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (*types.CalendarEvent, error) {
	event, ok := f.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event not found")
	}
	return event, nil
}

func (f *fakeEventService) UpdateEventContent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, content string) error {
	event, ok := f.events[eventID]
	if !ok {
		return fmt.Errorf("event not found")
	}
	event.Content = content
	return nil
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) error {
	delete(f.events, eventID)
	return nil
}

// fakeClassService counts registrations and optionally fails them.
type fakeClassService struct {
	registered []*types.UserClass
	failNext   bool
}

func (f *fakeClassService) RegisterClass(ctx context.Context, tx *gorm.DB, userID uuid.UUID, className, rawContent string, assignmentTypes []types.AssignmentType) (*types.UserClass, error) {
	if f.failNext {
		return nil, fmt.Errorf("simulated registration failure")
	}
	class := &types.UserClass{ID: uuid.New(), UserID: userID, ClassName: className, RawContent: rawContent}
	f.registered = append(f.registered, class)
	return class, nil
}

func (f *fakeClassService) GetUserClasses(ctx context.Context, tx *gorm.DB) ([]*types.UserClass, error) {
	return f.registered, nil
}

func (f *fakeClassService) DeleteClass(ctx context.Context, tx *gorm.DB, classID uuid.UUID) error {
	return nil
}

// fakeProblemRepo backs PracticeProblemRepo with a map.
type fakeProblemRepo struct {
	problems map[uuid.UUID]*types.PracticeProblem
}

func newFakeProblemRepo() *fakeProblemRepo {
	return &fakeProblemRepo{problems: make(map[uuid.UUID]*types.PracticeProblem)}
}

func (f *fakeProblemRepo) Create(ctx context.Context, tx *gorm.DB, problems []*types.PracticeProblem) ([]*types.PracticeProblem, error) {
	for _, p := range problems {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		f.problems[p.ID] = p
	}
	return problems, nil
}

func (f *fakeProblemRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PracticeProblem, error) {
	p, ok := f.problems[id]
	if !ok {
		return nil, fmt.Errorf("problem not found")
	}
	return p, nil
}

func (f *fakeProblemRepo) GetByEventID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.PracticeProblem, error) {
	var out []*types.PracticeProblem
	for _, p := range f.problems {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProblemRepo) Update(ctx context.Context, tx *gorm.DB, problem *types.PracticeProblem) error {
	if _, ok := f.problems[problem.ID]; !ok {
		return fmt.Errorf("problem not found")
	}
	f.problems[problem.ID] = problem
	return nil
}

func (f *fakeProblemRepo) DeleteByEventID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) error {
	for id, p := range f.problems {
		if p.EventID == eventID {
			delete(f.problems, id)
		}
	}
	return nil
}

// fakeEventRepo covers only what the practice generator touches.
type fakeEventRepo struct {
	events map[uuid.UUID]*types.CalendarEvent
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*types.CalendarEvent)}
}

func (f *fakeEventRepo) Create(ctx context.Context, tx *gorm.DB, events []*types.CalendarEvent) ([]*types.CalendarEvent, error) {
	for _, e := range events {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		f.events[e.ID] = e
	}
	return events, nil
}

func (f *fakeEventRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.CalendarEvent, error) {
	var out []*types.CalendarEvent
	for _, id := range ids {
		if e, ok := f.events[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CalendarEvent, error) {
	var out []*types.CalendarEvent
	for _, e := range f.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) GetByUserAndClassName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, className string) ([]*types.CalendarEvent, error) {
	var out []*types.CalendarEvent
	for _, e := range f.events {
		if e.UserID == userID && e.ClassName == className {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) UpdateContent(ctx context.Context, tx *gorm.DB, id uuid.UUID, content string) error {
	if e, ok := f.events[id]; ok {
		e.Content = content
	}
	return nil
}

func (f *fakeEventRepo) UpdatePracticeProblemsRaw(ctx context.Context, tx *gorm.DB, id uuid.UUID, raw string) error {
	if e, ok := f.events[id]; ok {
		e.PracticeProblemsRaw = &raw
	}
	return nil
}

func (f *fakeEventRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(f.events, id)
	}
	return nil
}

func (f *fakeEventRepo) DeleteByUserAndClassName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, className string) error {
	for id, e := range f.events {
		if e.UserID == userID && e.ClassName == className {
			delete(f.events, id)
		}
	}
	return nil
}
