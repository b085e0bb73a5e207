package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/codewitheasy-admin/internal/http/response"
	"github.com/yungbote/codewitheasy-admin/internal/platform/apierr"
	"github.com/yungbote/codewitheasy-admin/internal/platform/codesandbox"
	"github.com/yungbote/codewitheasy-admin/internal/platform/logger"
)

type SandboxHandler struct {
	log *logger.Logger
}

func NewSandboxHandler(log *logger.Logger) *SandboxHandler {
	return &SandboxHandler{log: log.With("handler", "SandboxHandler")}
}

type createSandboxRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Title    string `json:"title"`
}

func (h *SandboxHandler) Create(c *gin.Context) {
	var req createSandboxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.Validation("request body must be a JSON object: %v", err))
		return
	}
	sb, err := codesandbox.Define(req.Code, req.Language, req.Title)
	switch {
	case errors.Is(err, codesandbox.ErrEmptyCode), errors.Is(err, codesandbox.ErrMissingDefaultApp):
		response.RespondAPIError(c, apierr.Validation("%s", err.Error()))
		return
	case err != nil:
		h.log.Error("Create sandbox failed", "language", req.Language, "error", err)
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "data": sb})
}
