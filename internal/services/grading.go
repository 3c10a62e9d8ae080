package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studymaster-backend/internal/logger"
	"github.com/yungbote/studymaster-backend/internal/repos"
	"github.com/yungbote/studymaster-backend/internal/types"
)

// incorrectAttemptLimit bounds how many model-call rounds a user can spend
// on one problem before the engine concedes and reveals the answer.
const incorrectAttemptLimit = 2

// GradeOutcome is the closed set of transition results. Correct and
// Exhausted are terminal; Retry leaves the problem unlocked;
// AlreadyLocked means the submission was a no-op.
type GradeOutcome string

const (
	OutcomeCorrect       GradeOutcome = "correct"
	OutcomeRetry         GradeOutcome = "retry"
	OutcomeExhausted     GradeOutcome = "exhausted"
	OutcomeAlreadyLocked GradeOutcome = "already_locked"
)

type GradeResult struct {
	Outcome GradeOutcome           `json:"outcome"`
	Problem *types.PracticeProblem `json:"problem"`
}

type GradingService interface {
	SubmitAnswer(ctx context.Context, tx *gorm.DB, problemID uuid.UUID, answer string) (*GradeResult, error)
	Results(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (*PracticeResults, error)
}

// PracticeResults is the derived results view, available once every
// problem in the set is locked.
type PracticeResults struct {
	Complete bool `json:"complete"`
	Correct  int  `json:"correct"`
	Total    int  `json:"total"`
}

type gradingService struct {
	db          *gorm.DB
	log         *logger.Logger
	ai          AIClient
	events      CalendarEventService
	problemRepo repos.PracticeProblemRepo

	// One mutex per problem so concurrent submissions for the same
	// problem never interleave. Problems are otherwise independent.
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewGradingService(
	db *gorm.DB,
	baseLog *logger.Logger,
	ai AIClient,
	events CalendarEventService,
	problemRepo repos.PracticeProblemRepo,
) GradingService {
	return &gradingService{
		db:          db,
		log:         baseLog.With("service", "GradingService"),
		ai:          ai,
		events:      events,
		problemRepo: problemRepo,
		locks:       make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *gradingService) problemLock(problemID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[problemID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[problemID] = lock
	}
	return lock
}

// forgetLock drops the mutex for a terminally locked problem so the map
// does not grow without bound. Submissions after that point are no-ops
// that only read persisted state, so losing mutual exclusion is harmless.
func (s *gradingService) forgetLock(problemID uuid.UUID) {
	s.mu.Lock()
	delete(s.locks, problemID)
	s.mu.Unlock()
}

// SubmitAnswer runs one grading transition for the problem. A locked
// problem is left untouched and reported as AlreadyLocked. Otherwise the
// engine runs the two-stage oracle: first it asks the model to compute its
// own reference answer for the problem, then it asks the model to judge
// the user's answer against that reference, constrained to a True/False
// verdict. The reference answer is only ever revealed to the user when the
// attempt limit locks the problem.
func (s *gradingService) SubmitAnswer(ctx context.Context, tx *gorm.DB, problemID uuid.UUID, answer string) (*GradeResult, error) {
	lock := s.problemLock(problemID)
	lock.Lock()
	defer lock.Unlock()

	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	problem, err := s.problemRepo.GetByID(ctx, transaction, problemID)
	if err != nil {
		return nil, err
	}
	event, err := s.events.GetEvent(ctx, transaction, problem.EventID)
	if err != nil {
		return nil, err
	}

	if problem.IsLocked {
		s.forgetLock(problemID)
		return &GradeResult{Outcome: OutcomeAlreadyLocked, Problem: problem}, nil
	}

	problem.UserAnswer = answer

	canonical, err := s.computeCanonicalAnswer(ctx, event.ClassName, problem.ProblemText)
	if err != nil {
		return nil, err
	}
	correct, err := s.verifyAnswer(ctx, canonical, answer)
	if err != nil {
		return nil, err
	}

	var outcome GradeOutcome
	switch {
	case correct:
		problem.Feedback = types.FeedbackCorrect
		problem.IsLocked = true
		outcome = OutcomeCorrect
	default:
		problem.IncorrectAttempts++
		if problem.IncorrectAttempts >= incorrectAttemptLimit {
			problem.Feedback = types.FeedbackExhausted
			problem.IsLocked = true
			problem.CorrectAnswer = canonical
			outcome = OutcomeExhausted
		} else {
			problem.Feedback = types.FeedbackTryAgain
			outcome = OutcomeRetry
		}
	}

	if err := s.problemRepo.Update(ctx, transaction, problem); err != nil {
		return nil, err
	}
	if problem.IsLocked {
		s.forgetLock(problemID)
	}
	return &GradeResult{Outcome: outcome, Problem: problem}, nil
}

// Stage one: anchor the model to its own computed answer before it judges
// anything. Grading the user's answer in a single call is unreliable for
// open-ended problems.
func (s *gradingService) computeCanonicalAnswer(ctx context.Context, className, problemText string) (string, error) {
	messages := []AIMessage{
		{
			Role: RoleSystem,
			Content: fmt.Sprintf(`You will act as a grader, checking problems that are submitted for their correctness for the class %s.
You will first be provided the question, that you will give your answer to, then you will be given the user's answer that you will check for accuracy.`, className),
		},
		{
			Role:    RoleUser,
			Content: fmt.Sprintf("The question is: %s. Find the correct answer for this question/problem.", problemText),
		},
	}
	raw, err := s.ai.Chat(ctx, s.ai.GradingModel(), messages)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// Stage two: the canonical answer is fed back as assistant context and the
// model is constrained to a literal True/False verdict.
func (s *gradingService) verifyAnswer(ctx context.Context, canonical, answer string) (bool, error) {
	messages := []AIMessage{
		{Role: RoleAssistant, Content: canonical},
		{
			Role: RoleUser,
			Content: fmt.Sprintf(`The response for the original question provided to you that you will check is "%s". Your response should either be 'True' if the answer is correct and specific, or 'False' if the user's answer is wrong or too general to be considered correct.`, answer),
		},
	}
	raw, err := s.ai.Chat(ctx, s.ai.GradingModel(), messages)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(raw) == "True", nil
}

// Results computes the derived completion predicate and score for an
// event's problem set. Complete is true exactly when every problem is
// locked; nothing is stored.
func (s *gradingService) Results(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (*PracticeResults, error) {
	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	if _, err := s.events.GetEvent(ctx, transaction, eventID); err != nil {
		return nil, err
	}
	problems, err := s.problemRepo.GetByEventID(ctx, transaction, eventID)
	if err != nil {
		return nil, err
	}

	results := &PracticeResults{Complete: len(problems) > 0, Total: len(problems)}
	for _, problem := range problems {
		if !problem.IsLocked {
			results.Complete = false
		}
		if problem.Feedback == types.FeedbackCorrect {
			results.Correct++
		}
	}
	return results, nil
}
