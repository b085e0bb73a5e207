package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const APIVersion = "1.0.0"

type HealthHandler struct {
	endpoints map[string]string
	now       func() time.Time
}

// NewHealthHandler takes the catalog of mounted prefixes served at /.
func NewHealthHandler(endpoints map[string]string) *HealthHandler {
	return &HealthHandler{endpoints: endpoints, now: time.Now}
}

func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "CodeWithEasy Admin API",
		"version":   APIVersion,
		"endpoints": h.endpoints,
	})
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
	})
}
