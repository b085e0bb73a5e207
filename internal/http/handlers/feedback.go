package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/codewitheasy-admin/internal/http/response"
	"github.com/yungbote/codewitheasy-admin/internal/platform/apierr"
	"github.com/yungbote/codewitheasy-admin/internal/platform/logger"
	"github.com/yungbote/codewitheasy-admin/internal/services"
)

type FeedbackHandler struct {
	log      *logger.Logger
	feedback services.FeedbackService
}

func NewFeedbackHandler(log *logger.Logger, feedback services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{log: log.With("handler", "FeedbackHandler"), feedback: feedback}
}

// Register mounts the lesson-scoped routes on the lesson-feedback group.
// They must be registered before the generic /:id routes.
func (h *FeedbackHandler) Register(g *gin.RouterGroup) {
	g.GET("/stats", h.GlobalStats)
	g.GET("/lesson/:lessonId", h.ListForLesson)
	g.POST("/lesson/:lessonId", h.Submit)
	g.GET("/lesson/:lessonId/stats", h.LessonStats)
}

func (h *FeedbackHandler) ListForLesson(c *gin.Context) {
	rows, err := h.feedback.ListForLesson(c.Request.Context(), c.Param("lessonId"))
	if err != nil {
		h.log.Error("ListForLesson failed", "lesson_id", c.Param("lessonId"), "error", err)
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "data": rows})
}

func (h *FeedbackHandler) Submit(c *gin.Context) {
	var in services.FeedbackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondAPIError(c, apierr.Validation("request body must be a JSON object: %v", err))
		return
	}
	fb, _, err := h.feedback.Submit(c.Request.Context(), c.Param("lessonId"), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "data": fb})
}

func (h *FeedbackHandler) LessonStats(c *gin.Context) {
	st, err := h.feedback.LessonStats(c.Request.Context(), c.Param("lessonId"))
	if err != nil {
		h.log.Error("LessonStats failed", "lesson_id", c.Param("lessonId"), "error", err)
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "data": st})
}

func (h *FeedbackHandler) GlobalStats(c *gin.Context) {
	st, err := h.feedback.GlobalStats(c.Request.Context())
	if err != nil {
		h.log.Error("GlobalStats failed", "error", err)
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "data": st})
}
