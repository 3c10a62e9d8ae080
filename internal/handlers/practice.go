package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studymaster-backend/internal/services"
)

type PracticeHandler struct {
	practiceService services.PracticeService
	gradingService  services.GradingService
}

func NewPracticeHandler(practiceService services.PracticeService, gradingService services.GradingService) *PracticeHandler {
	return &PracticeHandler{practiceService: practiceService, gradingService: gradingService}
}

// GetProblems returns the event's practice set, generating it on first
// access. An empty list with generated=true means the model produced no
// usable problems.
func (ph *PracticeHandler) GetProblems(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_event_id", err)
		return
	}
	problems, err := ph.practiceService.GetOrGenerateProblems(c.Request.Context(), nil, eventID)
	if err != nil {
		var modelErr *services.ModelCallFailedError
		if errors.As(err, &modelErr) {
			RespondError(c, http.StatusBadGateway, "model_call_failed", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "get_problems_failed", err)
		return
	}
	RespondOK(c, gin.H{"problems": problems})
}

func (ph *PracticeHandler) SubmitAnswer(c *gin.Context) {
	problemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_problem_id", err)
		return
	}
	var req struct {
		Answer string `json:"answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := ph.gradingService.SubmitAnswer(c.Request.Context(), nil, problemID, req.Answer)
	if err != nil {
		var modelErr *services.ModelCallFailedError
		if errors.As(err, &modelErr) {
			RespondError(c, http.StatusBadGateway, "model_call_failed", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "submit_answer_failed", err)
		return
	}
	RespondOK(c, result)
}

func (ph *PracticeHandler) GetResults(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_event_id", err)
		return
	}
	results, err := ph.gradingService.Results(c.Request.Context(), nil, eventID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "get_results_failed", err)
		return
	}
	RespondOK(c, results)
}
