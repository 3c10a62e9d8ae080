package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studymaster-backend/internal/services"
)

type ClassHandler struct {
	classService services.UserClassService
}

func NewClassHandler(classService services.UserClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

func (ch *ClassHandler) GetClasses(c *gin.Context) {
	classes, err := ch.classService.GetUserClasses(c.Request.Context(), nil)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_classes_failed", err)
		return
	}
	RespondOK(c, gin.H{"classes": classes})
}

func (ch *ClassHandler) DeleteClass(c *gin.Context) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_class_id", err)
		return
	}
	if err := ch.classService.DeleteClass(c.Request.Context(), nil, classID); err != nil {
		RespondError(c, http.StatusBadRequest, "delete_class_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": classID})
}
