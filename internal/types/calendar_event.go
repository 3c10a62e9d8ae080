package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventTypeOther marks discardable clarification artifacts. Events of this
// type are never persisted by the submission coordinator.
const EventTypeOther = "Other"

type CalendarEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	StartDate time.Time `gorm:"column:start_date;not null" json:"startDate"`
	EndDate   time.Time `gorm:"column:end_date;not null" json:"endDate"`
	Content   string    `gorm:"column:content;type:text" json:"content"`
	ClassName string    `gorm:"column:class_name;not null;index" json:"className"`
	Type      string    `gorm:"column:type;not null" json:"type"`
	// PracticeProblemsRaw caches the model's raw problem text. Nil means
	// problems were never generated for this event.
	PracticeProblemsRaw *string        `gorm:"column:practice_problems_raw;type:text" json:"practiceProblems,omitempty"`
	ExamFor             *string        `gorm:"column:exam_for" json:"examFor,omitempty"`
	CreatedAt           time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CalendarEvent) TableName() string { return "calendar_event" }
