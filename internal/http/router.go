package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/codewitheasy-admin/internal/http/handlers"
	httpMW "github.com/yungbote/codewitheasy-admin/internal/http/middleware"
	"github.com/yungbote/codewitheasy-admin/internal/http/response"
	"github.com/yungbote/codewitheasy-admin/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AllowedOrigins []string
	// TracingService enables otelgin spans under this service name.
	TracingService string

	AuthMiddleware *httpMW.AuthMiddleware

	Resources       []*httpH.ResourceHandler
	FeedbackHandler *httpH.FeedbackHandler
	AIHandler       *httpH.AIHandler
	SandboxHandler  *httpH.SandboxHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if cfg.Log != nil {
			cfg.Log.Error("panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		}
		response.RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("Internal Server Error"))
		c.Abort()
	}))
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	health := httpH.NewHealthHandler(endpointCatalog(cfg))
	r.GET("/", health.Index)
	r.GET("/health", health.HealthCheck)

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		for _, h := range cfg.Resources {
			g := api.Group("/" + h.Resource().Name)
			if cfg.FeedbackHandler != nil && h.Resource().Name == "lesson-feedback" {
				cfg.FeedbackHandler.Register(g)
			}
			h.Register(g)
		}

		if cfg.AIHandler != nil {
			api.POST("/gemini/generate-description", cfg.AIHandler.GenerateDescription)
			api.POST("/gemini/generate-benefits", cfg.AIHandler.GenerateBenefits)
			api.GET("/openai/balance", cfg.AIHandler.Balance)
		}

		if cfg.SandboxHandler != nil {
			api.POST("/codesandbox/create", cfg.SandboxHandler.Create)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("Not Found"))
	})
	return r
}

// endpointCatalog lists mounted prefixes keyed in camelCase
// ("lesson-progress" becomes "lessonProgress").
func endpointCatalog(cfg RouterConfig) map[string]string {
	out := make(map[string]string, len(cfg.Resources)+3)
	for _, h := range cfg.Resources {
		name := h.Resource().Name
		out[camel(name)] = "/api/" + name
	}
	if cfg.AIHandler != nil {
		out["gemini"] = "/api/gemini"
		out["openai"] = "/api/openai"
	}
	if cfg.SandboxHandler != nil {
		out["codesandbox"] = "/api/codesandbox"
	}
	return out
}

func camel(s string) string {
	parts := strings.Split(s, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
