package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studymaster-backend/internal/logger"
	"github.com/yungbote/studymaster-backend/internal/repos"
	"github.com/yungbote/studymaster-backend/internal/sse"
	"github.com/yungbote/studymaster-backend/internal/types"
)

const practiceSystemPrompt = `You will be given a course, along with a specific topic from that course.
Make a list of five total practice problems / questions from the given topic that could be asked on an exam for the given course.
Do not include anything else in your response other than the study guide. Use LaTeX syntax if there is any mathematical notation needed.
(I.E. Don't include an intro or outro to your response saying "Here are practice questions ..." or anything along those lines. Keep the problem list clean.)
Make the practice problem list labels each practice problem with a number before it. For example: 1. {practice problem 1}. \n 2. {practice problem 2} ...`

// problemSplitRe matches the canonical numbering the prompt asks for: a
// leading integer followed by a period.
var problemSplitRe = regexp.MustCompile(`[0-9]+\.`)

type PracticeService interface {
	GetOrGenerateProblems(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.PracticeProblem, error)
}

type practiceService struct {
	db          *gorm.DB
	log         *logger.Logger
	ai          AIClient
	events      CalendarEventService
	eventRepo   repos.CalendarEventRepo
	problemRepo repos.PracticeProblemRepo
	hub         *sse.SSEHub
}

func NewPracticeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	ai AIClient,
	events CalendarEventService,
	eventRepo repos.CalendarEventRepo,
	problemRepo repos.PracticeProblemRepo,
	hub *sse.SSEHub,
) PracticeService {
	return &practiceService{
		db:          db,
		log:         baseLog.With("service", "PracticeService"),
		ai:          ai,
		events:      events,
		eventRepo:   eventRepo,
		problemRepo: problemRepo,
		hub:         hub,
	}
}

// GetOrGenerateProblems returns the event's problem set, generating and
// caching it on first access. Generation happens at most once per event;
// afterwards the cached rows are returned as-is. An empty set from the
// model is returned as zero problems rather than an error.
func (s *practiceService) GetOrGenerateProblems(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.PracticeProblem, error) {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	event, err := s.events.GetEvent(ctx, transaction, eventID)
	if err != nil {
		return nil, err
	}

	if event.PracticeProblemsRaw != nil {
		return s.problemRepo.GetByEventID(ctx, transaction, eventID)
	}

	raw, err := s.generate(ctx, event)
	if err != nil {
		return nil, err
	}

	problems := SplitPracticeProblems(raw, event.ID)
	if len(problems) > 0 {
		if _, err := s.problemRepo.Create(ctx, transaction, problems); err != nil {
			return nil, err
		}
	}
	if err := s.eventRepo.UpdatePracticeProblemsRaw(ctx, transaction, event.ID, raw); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Publish(sse.SSEMessage{
			Channel: event.UserID.String(),
			Event:   sse.SSEEventPracticeReady,
			Data:    map[string]any{"event_id": event.ID, "count": len(problems)},
		})
	}
	return problems, nil
}

func (s *practiceService) generate(ctx context.Context, event *types.CalendarEvent) (string, error) {
	topic := firstLine(event.Content)
	messages := []AIMessage{
		{Role: RoleSystem, Content: practiceSystemPrompt},
		{
			Role: RoleUser,
			Content: fmt.Sprintf("The course is %s, and the content that these problems should be based off of is %s.",
				event.ClassName, topic),
		},
	}
	// Problem authoring gets the large model; only grading verdicts run on
	// the mini model.
	raw, err := s.ai.Chat(ctx, s.ai.ScheduleModel(), messages)
	if err != nil {
		s.log.Warn("practice generation failed", "event_id", event.ID, "error", err)
		return "", err
	}
	return raw, nil
}

// SplitPracticeProblems deterministically splits raw model output on the
// numbered-label pattern. Empty segments are dropped.
func SplitPracticeProblems(raw string, eventID uuid.UUID) []*types.PracticeProblem {
	segments := problemSplitRe.Split(raw, -1)
	problems := make([]*types.PracticeProblem, 0, len(segments))
	for _, segment := range segments {
		text := strings.TrimSpace(segment)
		if text == "" {
			continue
		}
		problems = append(problems, &types.PracticeProblem{
			ID:          uuid.New(),
			EventID:     eventID,
			Position:    len(problems) + 1,
			ProblemText: text,
		})
	}
	return problems
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
