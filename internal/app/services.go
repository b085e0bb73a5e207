package app

import (
	"github.com/yungbote/codewitheasy-admin/internal/data/resource"
	"github.com/yungbote/codewitheasy-admin/internal/platform/logger"
	"github.com/yungbote/codewitheasy-admin/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Feedback   services.FeedbackService
	CourseCopy services.CourseCopyService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, storage Storage, cat *resource.Catalog) Services {
	log.Info("Wiring services...")
	// A nil *supabase.Client must not become a non-nil interface.
	var identity services.IdentityProvider
	if clients.Supabase != nil {
		identity = clients.Supabase
	}
	return Services{
		Auth:       services.NewAuthService(log, identity, cfg.SupabaseJWTSecret),
		Feedback:   services.NewFeedbackService(log, storage.Backend, cat),
		CourseCopy: services.NewCourseCopyService(log, clients.Gemini),
	}
}
