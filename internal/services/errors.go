package services

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedDocumentKind is returned for document kinds the
	// extractor has no handler for.
	ErrUnsupportedDocumentKind = errors.New("unsupported document kind")

	// ErrMalformedClarificationPayload is returned when a clarification-mode
	// response does not carry a parseable questions payload.
	ErrMalformedClarificationPayload = errors.New("malformed clarification payload")

	// ErrClassRegistrationFailed is fatal to the add-class flow.
	ErrClassRegistrationFailed = errors.New("class registration failed")
)

// ExtractionFailedError aborts a whole batch, naming the document that
// failed. Index is the document's position in submission order.
type ExtractionFailedError struct {
	Index int
	Err   error
}

func (e *ExtractionFailedError) Error() string {
	return fmt.Sprintf("extraction failed for document %d: %v", e.Index, e.Err)
}

func (e *ExtractionFailedError) Unwrap() error { return e.Err }

// MalformedSchedulePayloadError rejects an entire schedule-mode response.
// Week and Session are -1 when the payload failed before reaching that
// level of structure.
type MalformedSchedulePayloadError struct {
	Week    int
	Session int
	Err     error
}

func (e *MalformedSchedulePayloadError) Error() string {
	if e.Week < 0 {
		return fmt.Sprintf("malformed schedule payload: %v", e.Err)
	}
	return fmt.Sprintf("malformed schedule payload at week %d session %d: %v", e.Week, e.Session, e.Err)
}

func (e *MalformedSchedulePayloadError) Unwrap() error { return e.Err }

// EventPersistenceFailedError records one failed event submission. These
// are aggregated by the coordinator, never fatal to sibling submissions.
type EventPersistenceFailedError struct {
	Index int
	Title string
	Err   error
}

func (e *EventPersistenceFailedError) Error() string {
	return fmt.Sprintf("event persistence failed for event %d (%q): %v", e.Index, e.Title, e.Err)
}

func (e *EventPersistenceFailedError) Unwrap() error { return e.Err }

// ModelCallFailedError surfaces a generative model failure. The core never
// retries these; retry policy belongs to the caller.
type ModelCallFailedError struct {
	Err error
}

func (e *ModelCallFailedError) Error() string {
	return fmt.Sprintf("model call failed: %v", e.Err)
}

func (e *ModelCallFailedError) Unwrap() error { return e.Err }
