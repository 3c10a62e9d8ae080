package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studymaster-backend/internal/types"
)

func newScheduleService(t *testing.T) ScheduleService {
	t.Helper()
	return NewScheduleService(testLogger(t), "test-model")
}

func TestBuildScheduleRequest_IncludesOnlyCheckedTypes(t *testing.T) {
	svc := newScheduleService(t)

	req, err := svc.BuildScheduleRequest([]types.AssignmentType{
		{Name: "Exam", Checked: true, Required: true},
		{Name: "Lecture", Checked: true, Required: true},
		{Name: "Homework", Checked: false},
	}, "2026-01-12", "syllabus text")
	if err != nil {
		t.Fatalf("BuildScheduleRequest: %v", err)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(req.Messages))
	}
	user := req.Messages[1].Content
	if !strings.Contains(user, "Exam, Lecture") {
		t.Fatalf("expected checked types in user message, got %q", user)
	}
	if strings.Contains(user, "Homework") {
		t.Fatalf("unchecked type leaked into user message: %q", user)
	}
	if !strings.Contains(user, "2026-01-12") {
		t.Fatalf("start date missing from user message: %q", user)
	}
}

func TestBuildScheduleRequest_RejectsEmptyText(t *testing.T) {
	svc := newScheduleService(t)
	if _, err := svc.BuildScheduleRequest(types.DefaultAssignmentTypes(), "2026-01-12", "   "); err == nil {
		t.Fatalf("expected error for empty syllabus text")
	}
}

func TestParseScheduleResponse_ClarificationMode(t *testing.T) {
	svc := newScheduleService(t)

	// The shape the synthesis prompt instructs: marker, one space, JSON.
	raw := `True {"questions":["What days does the class meet?","When is the final exam?"]}`
	result, err := svc.ParseScheduleResponse(raw, "CS101", uuid.New())
	if err != nil {
		t.Fatalf("ParseScheduleResponse: %v", err)
	}
	if len(result.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(result.Questions))
	}
	if result.Events != nil {
		t.Fatalf("clarification result must not carry events")
	}
}

func TestParseScheduleResponse_PromptAndParserAgreeOnPayloadOffset(t *testing.T) {
	svc := newScheduleService(t)

	// The parser reads the payload from offset 5. The prompt must therefore
	// ask for exactly one separator byte between the marker and the JSON; a
	// payload glued directly to the marker loses its opening brace.
	if !strings.Contains(scheduleSystemPrompt, "the word True, then a single space, then a JSON object") {
		t.Fatalf("synthesis prompt no longer pins the single-space payload offset")
	}
	if _, err := svc.ParseScheduleResponse(`True{"questions":["q"]}`, "CS101", uuid.New()); !errors.Is(err, ErrMalformedClarificationPayload) {
		t.Fatalf("expected ErrMalformedClarificationPayload for missing separator, got %v", err)
	}
	result, err := svc.ParseScheduleResponse(`True {"questions":["q"]}`, "CS101", uuid.New())
	if err != nil {
		t.Fatalf("documented clarification shape rejected: %v", err)
	}
	if len(result.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(result.Questions))
	}
}

func TestParseScheduleResponse_BareMarkerIsMalformed(t *testing.T) {
	svc := newScheduleService(t)
	_, err := svc.ParseScheduleResponse("True", "CS101", uuid.New())
	if !errors.Is(err, ErrMalformedClarificationPayload) {
		t.Fatalf("expected ErrMalformedClarificationPayload, got %v", err)
	}
}

func TestParseScheduleResponse_MalformedClarificationJSON(t *testing.T) {
	svc := newScheduleService(t)
	_, err := svc.ParseScheduleResponse("True {not json", "CS101", uuid.New())
	if !errors.Is(err, ErrMalformedClarificationPayload) {
		t.Fatalf("expected ErrMalformedClarificationPayload, got %v", err)
	}
}

func TestParseScheduleResponse_ScheduleModeWithFences(t *testing.T) {
	svc := newScheduleService(t)
	userID := uuid.New()

	raw := "```json\n" + `[
	  {"sessions": [
	    {"date": "2026-01-12", "startTime": "10:00", "endTime": "11:15", "title": "Intro", "content": "Course overview", "type": "Lecture"},
	    {"date": "2026-02-20", "startTime": "10:00", "endTime": "11:15", "title": "Midterm", "content": "Chapters 1-4", "type": "Exam"}
	  ]}
	]` + "\n```"

	result, err := svc.ParseScheduleResponse(raw, "CS101", userID)
	if err != nil {
		t.Fatalf("ParseScheduleResponse: %v", err)
	}
	if len(result.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(result.Events))
	}
	first := result.Events[0]
	if first.Title != "Intro" || first.ClassName != "CS101" || first.UserID != userID {
		t.Fatalf("unexpected first event: %+v", first)
	}
	wantStart := time.Date(2026, 1, 12, 10, 0, 0, 0, time.Local)
	if !first.StartDate.Equal(wantStart) {
		t.Fatalf("expected start %v, got %v", wantStart, first.StartDate)
	}
	if result.Events[1].Type != "Exam" {
		t.Fatalf("expected Exam type, got %q", result.Events[1].Type)
	}
}

func TestParseScheduleResponse_MissingFieldNamesPosition(t *testing.T) {
	svc := newScheduleService(t)

	raw := `[
	  {"sessions": [
	    {"date": "2026-01-12", "startTime": "10:00", "endTime": "11:15", "title": "Intro", "content": "x", "type": "Lecture"}
	  ]},
	  {"sessions": [
	    {"date": "2026-01-19", "startTime": "10:00", "endTime": "11:15", "content": "missing title", "type": "Lecture"}
	  ]}
	]`

	_, err := svc.ParseScheduleResponse(raw, "CS101", uuid.New())
	var malformed *MalformedSchedulePayloadError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedSchedulePayloadError, got %v", err)
	}
	if malformed.Week != 1 || malformed.Session != 0 {
		t.Fatalf("expected week 1 session 0, got week %d session %d", malformed.Week, malformed.Session)
	}
}

func TestParseScheduleResponse_EndBeforeStartRejected(t *testing.T) {
	svc := newScheduleService(t)

	raw := `[{"sessions": [
	  {"date": "2026-01-12", "startTime": "11:00", "endTime": "09:00", "title": "Backwards", "content": "x", "type": "Lecture"}
	]}]`

	_, err := svc.ParseScheduleResponse(raw, "CS101", uuid.New())
	var malformed *MalformedSchedulePayloadError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedSchedulePayloadError, got %v", err)
	}
}

func TestParseScheduleResponse_NonJSONRejectedAsSchedule(t *testing.T) {
	svc := newScheduleService(t)
	_, err := svc.ParseScheduleResponse("I cannot build a schedule from this.", "CS101", uuid.New())
	var malformed *MalformedSchedulePayloadError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedSchedulePayloadError, got %v", err)
	}
	if malformed.Week != -1 {
		t.Fatalf("expected week -1 for top-level parse failure, got %d", malformed.Week)
	}
}
