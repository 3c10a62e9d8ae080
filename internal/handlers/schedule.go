package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studymaster-backend/internal/requestdata"
	"github.com/yungbote/studymaster-backend/internal/services"
	"github.com/yungbote/studymaster-backend/internal/sse"
	"github.com/yungbote/studymaster-backend/internal/types"
)

type ScheduleHandler struct {
	textExtract       services.TextExtractService
	scheduleService   services.ScheduleService
	submissionService services.SubmissionService
	ai                services.AIClient
	hub               *sse.SSEHub
}

func NewScheduleHandler(
	textExtract services.TextExtractService,
	scheduleService services.ScheduleService,
	submissionService services.SubmissionService,
	ai services.AIClient,
	hub *sse.SSEHub,
) *ScheduleHandler {
	return &ScheduleHandler{
		textExtract:       textExtract,
		scheduleService:   scheduleService,
		submissionService: submissionService,
		ai:                ai,
		hub:               hub,
	}
}

// Extract accepts uploaded syllabus documents plus optional pasted text and
// returns one concatenated text blob. Files and text arrive as multipart
// form data under "files" and "text".
func (sh *ScheduleHandler) Extract(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_multipart", err)
		return
	}

	var docs []services.Document
	for _, header := range form.File["files"] {
		file, err := header.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "file_open_failed", err)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "file_read_failed", err)
			return
		}
		doc := services.Document{
			Kind: documentKindFor(header.Filename, header.Header.Get("Content-Type")),
			Name: header.Filename,
			Data: data,
		}
		if doc.Kind == services.DocumentKindPlainText {
			doc.Text = string(data)
		}
		docs = append(docs, doc)
	}
	if text := strings.TrimSpace(c.PostForm("text")); text != "" {
		docs = append(docs, services.Document{Kind: services.DocumentKindPlainText, Text: text})
	}
	if len(docs) == 0 {
		RespondError(c, http.StatusBadRequest, "no_documents", errors.New("no files or text provided"))
		return
	}

	extracted, err := sh.textExtract.ExtractBatch(c.Request.Context(), docs)
	if err != nil {
		var extractionErr *services.ExtractionFailedError
		if errors.As(err, &extractionErr) {
			RespondError(c, http.StatusUnprocessableEntity, "extraction_failed", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "extraction_failed", err)
		return
	}
	RespondOK(c, gin.H{"text": extracted})
}

type synthesizeRequest struct {
	ClassName       string                 `json:"class_name"`
	StartDate       string                 `json:"start_date"`
	AssignmentTypes []types.AssignmentType `json:"assignment_types"`
	Text            string                 `json:"text"`
}

// Synthesize sends the extracted syllabus text through the model and
// classifies the response: either clarification questions for the user or a
// parsed schedule ready for review. Nothing is persisted here.
func (sh *ScheduleHandler) Synthesize(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("missing request identity"))
		return
	}

	var req synthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if len(req.AssignmentTypes) == 0 {
		req.AssignmentTypes = types.DefaultAssignmentTypes()
	}

	scheduleReq, err := sh.scheduleService.BuildScheduleRequest(req.AssignmentTypes, req.StartDate, req.Text)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	raw, err := sh.ai.Chat(c.Request.Context(), scheduleReq.Model, scheduleReq.Messages)
	if err != nil {
		RespondError(c, http.StatusBadGateway, "model_call_failed", err)
		return
	}

	parsed, err := sh.scheduleService.ParseScheduleResponse(raw, req.ClassName, rd.UserID)
	if err != nil {
		RespondError(c, http.StatusBadGateway, "model_output_malformed", err)
		return
	}

	if parsed.Questions != nil {
		RespondOK(c, gin.H{"clarification_needed": true, "questions": parsed.Questions})
		return
	}

	if sh.hub != nil {
		sh.hub.Publish(sse.SSEMessage{
			Channel: rd.UserID.String(),
			Event:   sse.SSEEventScheduleReady,
			Data:    map[string]any{"class_name": req.ClassName, "events": len(parsed.Events)},
		})
	}
	RespondOK(c, gin.H{"clarification_needed": false, "events": parsed.Events})
}

type submitRequest struct {
	ClassName       string                 `json:"class_name"`
	RawContent      string                 `json:"raw_content"`
	AssignmentTypes []types.AssignmentType `json:"assignment_types"`
	Events          []*types.CalendarEvent `json:"events"`
}

// Submit persists a reviewed schedule and registers the class.
func (sh *ScheduleHandler) Submit(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("missing request identity"))
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := sh.submissionService.SubmitSchedule(c.Request.Context(), nil, rd.UserID, req.ClassName, req.RawContent, req.AssignmentTypes, req.Events)
	if err != nil {
		if errors.Is(err, services.ErrClassRegistrationFailed) {
			// Events that made it in stay in; report the partial result.
			c.JSON(http.StatusBadGateway, gin.H{"result": result, "error": err.Error()})
			return
		}
		RespondError(c, http.StatusInternalServerError, "submit_failed", err)
		return
	}
	RespondOK(c, gin.H{"result": result})
}

func documentKindFor(filename, contentType string) services.DocumentKind {
	switch {
	case strings.EqualFold(filepath.Ext(filename), ".pdf") || contentType == "application/pdf":
		return services.DocumentKindPDF
	case strings.HasPrefix(contentType, "image/"):
		return services.DocumentKindImage
	case strings.HasPrefix(contentType, "text/"):
		return services.DocumentKindPlainText
	default:
		return services.DocumentKind(strings.TrimPrefix(filepath.Ext(filename), "."))
	}
}
