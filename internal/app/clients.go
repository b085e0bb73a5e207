package app

import (
	"fmt"

	"github.com/yungbote/codewitheasy-admin/internal/platform/gemini"
	"github.com/yungbote/codewitheasy-admin/internal/platform/logger"
	"github.com/yungbote/codewitheasy-admin/internal/platform/openai"
	"github.com/yungbote/codewitheasy-admin/internal/platform/supabase"
)

// Clients holds the outbound API clients. Any of them may be nil when its
// credentials are not configured.
type Clients struct {
	Supabase *supabase.Client
	Gemini   gemini.Client
	OpenAI   openai.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	if cfg.SupabaseURL != "" && cfg.SupabaseServiceRoleKey != "" {
		sb, err := supabase.New(supabase.Config{
			URL:            cfg.SupabaseURL,
			ServiceRoleKey: cfg.SupabaseServiceRoleKey,
			Timeout:        cfg.RESTTimeout,
		}, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init supabase client: %w", err)
		}
		out.Supabase = sb
	}

	if cfg.GeminiAPIKey != "" {
		g, err := gemini.NewClient(log, gemini.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel, MaxRetries: 2})
		if err != nil {
			return Clients{}, fmt.Errorf("init gemini client: %w", err)
		}
		out.Gemini = g
	} else {
		log.Warn("GEMINI_API_KEY not set; course copy generation disabled")
	}

	if cfg.OpenAIAPIKey != "" {
		o, err := openai.NewClient(log, openai.Config{APIKey: cfg.OpenAIAPIKey, BaseURL: cfg.OpenAIBaseURL, MaxRetries: 2})
		if err != nil {
			return Clients{}, fmt.Errorf("init openai client: %w", err)
		}
		out.OpenAI = o
	} else {
		log.Warn("OPENAI_API_KEY not set; balance endpoint will report it")
	}
	return out, nil
}
