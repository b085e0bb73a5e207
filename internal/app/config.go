package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/codewitheasy-admin/internal/data/db"
	"github.com/yungbote/codewitheasy-admin/internal/observability"
	"github.com/yungbote/codewitheasy-admin/internal/platform/envutil"
)

const (
	BackendGorm = "gorm"
	BackendREST = "rest"
)

type Config struct {
	Port    string
	LogMode string

	Backend     string
	DatabaseURL string
	AutoMigrate bool

	SupabaseURL            string
	SupabaseServiceRoleKey string
	SupabaseJWTSecret      string
	RESTTimeout            time.Duration

	AllowedOrigins []string

	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIBaseURL string

	Otel observability.OtelConfig
}

// LoadConfig reads the process environment. Call envutil.LoadDotEnv first
// to pick up a local .env.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:                   envutil.String("PORT", "3000"),
		LogMode:                envutil.String("LOG_MODE", "development"),
		Backend:                strings.ToLower(envutil.String("BACKEND", BackendGorm)),
		DatabaseURL:            databaseURL(),
		AutoMigrate:            envutil.Bool("DB_AUTO_MIGRATE", true),
		SupabaseURL:            envutil.String("SUPABASE_URL", ""),
		SupabaseServiceRoleKey: envutil.String("SUPABASE_SERVICE_ROLE_KEY", ""),
		SupabaseJWTSecret:      envutil.String("SUPABASE_JWT_SECRET", ""),
		RESTTimeout:            envutil.Seconds("REST_TIMEOUT_SECONDS", 30*time.Second),
		AllowedOrigins:         envutil.List("CORS_ALLOWED_ORIGINS"),
		GeminiAPIKey:           envutil.String("GEMINI_API_KEY", ""),
		GeminiModel:            envutil.String("GEMINI_MODEL", ""),
		OpenAIAPIKey:           envutil.String("OPENAI_API_KEY", ""),
		OpenAIBaseURL:          envutil.String("OPENAI_BASE_URL", ""),
		Otel:                   observability.OtelConfigFromEnv(),
	}

	switch cfg.Backend {
	case BackendGorm:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("BACKEND=gorm needs DATABASE_URL or POSTGRES_HOST")
		}
	case BackendREST:
		if cfg.SupabaseURL == "" || cfg.SupabaseServiceRoleKey == "" {
			return Config{}, fmt.Errorf("BACKEND=rest needs SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY")
		}
	default:
		return Config{}, fmt.Errorf("unknown BACKEND %q (want gorm or rest)", cfg.Backend)
	}
	if cfg.SupabaseJWTSecret == "" && cfg.SupabaseURL == "" {
		return Config{}, fmt.Errorf("token verification needs SUPABASE_JWT_SECRET or SUPABASE_URL")
	}
	return cfg, nil
}

func (c Config) Address() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func databaseURL() string {
	if dsn := envutil.String("DATABASE_URL", ""); dsn != "" {
		return dsn
	}
	host := envutil.String("POSTGRES_HOST", "")
	if host == "" {
		return ""
	}
	return db.PostgresDSN(
		host,
		envutil.String("POSTGRES_PORT", "5432"),
		envutil.String("POSTGRES_USER", "postgres"),
		envutil.String("POSTGRES_PASSWORD", ""),
		envutil.String("POSTGRES_NAME", "postgres"),
	)
}
