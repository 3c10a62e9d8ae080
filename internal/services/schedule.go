package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studymaster-backend/internal/logger"
	"github.com/yungbote/studymaster-backend/internal/types"
)

// clarificationPrefix is the literal marker the synthesis prompt instructs
// the model to emit when the syllabus is too ambiguous to schedule. The
// prefix is load-bearing: it is part of the deployed prompt contract, so
// the parser keys off it byte-for-byte instead of sniffing the payload.
const clarificationPrefix = "True"

const scheduleSystemPrompt = `You build course calendars from syllabus text.
You will be given the event types to schedule, the date of the first day of class, and the raw syllabus content.
If the syllabus content is too ambiguous or incomplete to produce a schedule, respond with the word True, then a single space, then a JSON object of the form {"questions": ["..."]} listing the questions you need answered.
Otherwise respond with only a JSON array of week objects. Each week object has a "sessions" array, and each session has exactly these string fields: "date" (YYYY-MM-DD), "startTime" (HH:MM), "endTime" (HH:MM), "title", "content", "type".
The "type" of each session must be one of the provided event types. Do not include any prose around the JSON.`

// ScheduleRequest is a fully assembled synthesis request: the message list
// and the model to send it to.
type ScheduleRequest struct {
	Model    string
	Messages []AIMessage
}

// ScheduleParseResult is exactly one of two shapes: clarification
// questions routed back to the user, or parsed calendar events.
type ScheduleParseResult struct {
	Questions []string
	Events    []*types.CalendarEvent
}

type ScheduleService interface {
	BuildScheduleRequest(assignmentTypes []types.AssignmentType, startDate string, text string) (*ScheduleRequest, error)
	ParseScheduleResponse(raw string, className string, userID uuid.UUID) (*ScheduleParseResult, error)
}

type scheduleService struct {
	log   *logger.Logger
	model string
}

func NewScheduleService(baseLog *logger.Logger, model string) ScheduleService {
	return &scheduleService{
		log:   baseLog.With("service", "ScheduleService"),
		model: model,
	}
}

// BuildScheduleRequest assembles the synthesis request from the checked
// event-type taxonomy, the course start date, and the extracted syllabus
// text. Pure; the only failure mode is empty text.
func (s *scheduleService) BuildScheduleRequest(assignmentTypes []types.AssignmentType, startDate string, text string) (*ScheduleRequest, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("syllabus text is empty")
	}

	names := make([]string, 0, len(assignmentTypes))
	for _, t := range assignmentTypes {
		if t.Checked {
			names = append(names, t.Name)
		}
	}

	user := fmt.Sprintf("The event types are: %s. The first day of class is %s. The syllabus content is:\n%s",
		strings.Join(names, ", "), startDate, text)

	return &ScheduleRequest{
		Model: s.model,
		Messages: []AIMessage{
			{Role: RoleSystem, Content: scheduleSystemPrompt},
			{Role: RoleUser, Content: user},
		},
	}, nil
}

type scheduleWeek struct {
	Sessions []scheduleSession `json:"sessions"`
}

// Pointer fields so a missing key is distinguishable from an empty value.
type scheduleSession struct {
	Date      *string `json:"date"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Type      *string `json:"type"`
}

type clarificationPayload struct {
	Questions []string `json:"questions"`
}

// ParseScheduleResponse classifies the raw model response into exactly one
// of two modes. A response starting with the literal clarification prefix
// is parsed as a question set; anything else is parsed as a schedule. A
// single malformed session rejects the whole response so the caller
// retries synthesis instead of persisting a partial schedule.
func (s *scheduleService) ParseScheduleResponse(raw string, className string, userID uuid.UUID) (*ScheduleParseResult, error) {
	if strings.HasPrefix(raw, clarificationPrefix) {
		// The prompt puts one separator byte after the marker, so the
		// questions payload begins at offset 5.
		if len(raw) < 5 {
			return nil, fmt.Errorf("%w: no payload after marker", ErrMalformedClarificationPayload)
		}
		return parseClarification(raw[5:])
	}
	events, err := parseScheduleEvents(raw, className, userID)
	if err != nil {
		return nil, err
	}
	return &ScheduleParseResult{Events: events}, nil
}

func parseClarification(payload string) (*ScheduleParseResult, error) {
	var parsed clarificationPayload
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedClarificationPayload, err)
	}
	if parsed.Questions == nil {
		return nil, fmt.Errorf("%w: missing questions array", ErrMalformedClarificationPayload)
	}
	return &ScheduleParseResult{Questions: parsed.Questions}, nil
}

func parseScheduleEvents(raw string, className string, userID uuid.UUID) ([]*types.CalendarEvent, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	var weeks []scheduleWeek
	if err := json.Unmarshal([]byte(cleaned), &weeks); err != nil {
		return nil, &MalformedSchedulePayloadError{Week: -1, Session: -1, Err: err}
	}

	var events []*types.CalendarEvent
	for wi, week := range weeks {
		for si, session := range week.Sessions {
			if session.Date == nil || session.StartTime == nil || session.EndTime == nil ||
				session.Title == nil || session.Content == nil || session.Type == nil {
				return nil, &MalformedSchedulePayloadError{
					Week: wi, Session: si,
					Err: fmt.Errorf("session missing required field"),
				}
			}

			start, err := parseSessionInstant(*session.Date, *session.StartTime)
			if err != nil {
				return nil, &MalformedSchedulePayloadError{Week: wi, Session: si, Err: err}
			}
			end, err := parseSessionInstant(*session.Date, *session.EndTime)
			if err != nil {
				return nil, &MalformedSchedulePayloadError{Week: wi, Session: si, Err: err}
			}
			if end.Before(start) {
				return nil, &MalformedSchedulePayloadError{
					Week: wi, Session: si,
					Err: fmt.Errorf("end %s before start %s", *session.EndTime, *session.StartTime),
				}
			}

			events = append(events, &types.CalendarEvent{
				UserID:    userID,
				Title:     *session.Title,
				StartDate: start,
				EndDate:   end,
				Content:   *session.Content,
				ClassName: className,
				Type:      *session.Type,
			})
		}
	}
	return events, nil
}

// parseSessionInstant combines a session date and wall-clock time into a
// timezone-naive local instant. No timezone conversion is performed.
func parseSessionInstant(date, clock string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02T15:04", date+"T"+clock, time.Local)
}
