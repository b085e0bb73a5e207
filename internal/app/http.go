package app

import (
	"github.com/yungbote/codewitheasy-admin/internal/data/resource"
	"github.com/yungbote/codewitheasy-admin/internal/http"
	httpH "github.com/yungbote/codewitheasy-admin/internal/http/handlers"
	httpMW "github.com/yungbote/codewitheasy-admin/internal/http/middleware"
	"github.com/yungbote/codewitheasy-admin/internal/platform/logger"
)

func wireRouterConfig(log *logger.Logger, cfg Config, clients Clients, storage Storage, svcs Services, cat *resource.Catalog) http.RouterConfig {
	log.Info("Wiring handlers...")
	resources := make([]*httpH.ResourceHandler, 0, len(cat.All()))
	for _, res := range cat.All() {
		resources = append(resources, httpH.NewResourceHandler(log, storage.Backend, cat, res.Name))
	}
	rc := http.RouterConfig{
		Log:             log,
		AllowedOrigins:  cfg.AllowedOrigins,
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, svcs.Auth),
		Resources:       resources,
		FeedbackHandler: httpH.NewFeedbackHandler(log, svcs.Feedback),
		AIHandler:       httpH.NewAIHandler(log, svcs.CourseCopy, clients.OpenAI),
		SandboxHandler:  httpH.NewSandboxHandler(log),
	}
	if cfg.Otel.Enabled {
		rc.TracingService = cfg.Otel.ServiceName
	}
	return rc
}
