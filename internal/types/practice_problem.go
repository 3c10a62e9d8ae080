package types

import (
	"time"

	"github.com/google/uuid"
)

// Feedback values a practice problem can carry. The grading engine writes
// nothing else into the Feedback column.
const (
	FeedbackNone      = ""
	FeedbackTryAgain  = "Try again."
	FeedbackCorrect   = "Correct!"
	FeedbackExhausted = "Incorrect. Here's the correct answer:"
)

type PracticeProblem struct {
	ID      uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID uuid.UUID      `gorm:"type:uuid;not null;index" json:"event_id"`
	Event   *CalendarEvent `gorm:"constraint:OnDelete:CASCADE;foreignKey:EventID;references:ID" json:"event,omitempty"`
	// Position is the 1-based order of the problem within its event's set.
	Position          int       `gorm:"column:position;not null" json:"position"`
	ProblemText       string    `gorm:"column:problem_text;type:text;not null" json:"problemText"`
	UserAnswer        string    `gorm:"column:user_answer;type:text" json:"userAnswer"`
	Feedback          string    `gorm:"column:feedback" json:"feedback"`
	IncorrectAttempts int       `gorm:"column:incorrect_attempts;not null;default:0" json:"incorrectAttempts"`
	IsLocked          bool      `gorm:"column:is_locked;not null;default:false" json:"isLocked"`
	CorrectAnswer     string    `gorm:"column:correct_answer;type:text" json:"correctAnswer"`
	CreatedAt         time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PracticeProblem) TableName() string { return "practice_problem" }
