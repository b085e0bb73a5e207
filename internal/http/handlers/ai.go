package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/codewitheasy-admin/internal/http/response"
	"github.com/yungbote/codewitheasy-admin/internal/pkg/httpx"
	"github.com/yungbote/codewitheasy-admin/internal/platform/apierr"
	"github.com/yungbote/codewitheasy-admin/internal/platform/logger"
	"github.com/yungbote/codewitheasy-admin/internal/platform/openai"
	"github.com/yungbote/codewitheasy-admin/internal/services"
)

type AIHandler struct {
	log        *logger.Logger
	courseCopy services.CourseCopyService
	billing    openai.Client
	now        func() time.Time
}

// NewAIHandler accepts a nil billing client; the balance route then reports
// the key as not configured.
func NewAIHandler(log *logger.Logger, courseCopy services.CourseCopyService, billing openai.Client) *AIHandler {
	return &AIHandler{log: log.With("handler", "AIHandler"), courseCopy: courseCopy, billing: billing, now: time.Now}
}

func (h *AIHandler) GenerateDescription(c *gin.Context) {
	var in services.DescriptionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondAPIError(c, apierr.Validation("request body must be a JSON object: %v", err))
		return
	}
	desc, err := h.courseCopy.GenerateDescription(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "description": desc})
}

func (h *AIHandler) GenerateBenefits(c *gin.Context) {
	var in services.BenefitsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondAPIError(c, apierr.Validation("request body must be a JSON object: %v", err))
		return
	}
	benefits, err := h.courseCopy.GenerateBenefits(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "benefits": benefits})
}

func (h *AIHandler) Balance(c *gin.Context) {
	if h.billing == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "OpenAI API key not configured"})
		return
	}
	bal, err := h.balance(c.Request.Context())
	if err != nil {
		var sc httpx.HTTPStatusCoder
		if errors.As(err, &sc) && sc.HTTPStatusCode() == http.StatusUnauthorized {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid OpenAI API key",
				"data":    openai.Zero(h.now()),
			})
			return
		}
		h.log.Error("OpenAI balance failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to check OpenAI balance",
			"details": err.Error(),
		})
		return
	}
	response.RespondOK(c, gin.H{"success": true, "data": bal})
}

func (h *AIHandler) balance(ctx context.Context) (openai.Balance, error) {
	sub, err := h.billing.Subscription(ctx)
	if err != nil {
		return openai.Balance{}, err
	}
	usage, err := h.billing.Usage(ctx)
	if err != nil {
		return openai.Balance{}, err
	}
	return openai.Summarize(sub, usage, h.now()), nil
}
