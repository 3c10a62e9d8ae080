package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studymaster-backend/internal/services"
)

type EventHandler struct {
	eventService services.CalendarEventService
}

func NewEventHandler(eventService services.CalendarEventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (eh *EventHandler) GetEvents(c *gin.Context) {
	events, err := eh.eventService.GetUserEvents(c.Request.Context(), nil)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_events_failed", err)
		return
	}
	RespondOK(c, gin.H{"events": events})
}

// GetEvent returns the event along with its content rendered for display.
func (eh *EventHandler) GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_event_id", err)
		return
	}
	event, err := eh.eventService.GetEvent(c.Request.Context(), nil, eventID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "event_not_found", err)
		return
	}
	RespondOK(c, gin.H{
		"event":             event,
		"formatted_content": services.FormatContent(event.Content),
	})
}

func (eh *EventHandler) UpdateEventContent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_event_id", err)
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := eh.eventService.UpdateEventContent(c.Request.Context(), nil, eventID, req.Content); err != nil {
		RespondError(c, http.StatusBadRequest, "update_event_failed", err)
		return
	}
	RespondOK(c, gin.H{"updated": eventID})
}

func (eh *EventHandler) DeleteEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_event_id", err)
		return
	}
	if err := eh.eventService.DeleteEvent(c.Request.Context(), nil, eventID); err != nil {
		RespondError(c, http.StatusBadRequest, "delete_event_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": eventID})
}
