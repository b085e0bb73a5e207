package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yungbote/codewitheasy-admin/internal/platform/logger"
)

var ErrInvalidToken = errors.New("invalid token")

type Config struct {
	URL            string
	ServiceRoleKey string
	Timeout        time.Duration
}

// User is the subset of the auth user object the API relies on.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Client struct {
	log  *logger.Logger
	cfg  Config
	rest *resty.Client
	auth *resty.Client
}

func New(cfg Config, baseLog *logger.Logger) (*Client, error) {
	cfg.URL = strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if cfg.URL == "" {
		return nil, fmt.Errorf("missing SUPABASE_URL")
	}
	if strings.TrimSpace(cfg.ServiceRoleKey) == "" {
		return nil, fmt.Errorf("missing SUPABASE_SERVICE_ROLE_KEY")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	log := baseLog.With("client", "Supabase")
	log.Info("Supabase client configured", "url", cfg.URL, "key_len", len(cfg.ServiceRoleKey))

	rest := resty.New().
		SetBaseURL(cfg.URL+"/rest/v1").
		SetTimeout(cfg.Timeout).
		SetHeader("apikey", cfg.ServiceRoleKey).
		SetAuthToken(cfg.ServiceRoleKey).
		SetHeader("Accept", "application/json")

	auth := resty.New().
		SetBaseURL(cfg.URL+"/auth/v1").
		SetTimeout(cfg.Timeout).
		SetHeader("apikey", cfg.ServiceRoleKey)

	return &Client{log: log, cfg: cfg, rest: rest, auth: auth}, nil
}

// REST is the PostgREST client, authenticated with the service role key.
func (c *Client) REST() *resty.Client { return c.rest }

// GetUser resolves an access token to its auth user.
func (c *Client) GetUser(ctx context.Context, token string) (*User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	var u User
	resp, err := c.auth.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&u).
		Get("/user")
	if err != nil {
		return nil, fmt.Errorf("supabase get user: %w", err)
	}
	switch {
	case resp.StatusCode() == http.StatusUnauthorized, resp.StatusCode() == http.StatusForbidden:
		return nil, ErrInvalidToken
	case resp.IsError():
		return nil, fmt.Errorf("supabase get user: http %d: %s", resp.StatusCode(), resp.String())
	}
	if u.ID == "" {
		return nil, ErrInvalidToken
	}
	return &u, nil
}
