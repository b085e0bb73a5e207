package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	pkgerrors "github.com/yungbote/codewitheasy-admin/internal/pkg/errors"
	"github.com/yungbote/codewitheasy-admin/internal/platform/ctxutil"
	"github.com/yungbote/codewitheasy-admin/internal/platform/logger"
	"github.com/yungbote/codewitheasy-admin/internal/platform/supabase"
)

// IdentityProvider resolves an access token remotely.
type IdentityProvider interface {
	GetUser(ctx context.Context, token string) (*supabase.User, error)
}

type AuthService interface {
	// SetContextFromToken verifies token and attaches the caller's principal.
	SetContextFromToken(ctx context.Context, token string) (context.Context, error)
}

type authService struct {
	log       *logger.Logger
	identity  IdentityProvider
	jwtSecret []byte
}

// NewAuthService verifies HS256 tokens locally when jwtSecret is set and
// asks identity otherwise.
func NewAuthService(log *logger.Logger, identity IdentityProvider, jwtSecret string) AuthService {
	s := &authService{log: log.With("service", "AuthService"), identity: identity}
	if secret := strings.TrimSpace(jwtSecret); secret != "" {
		s.jwtSecret = []byte(secret)
	}
	return s
}

type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return ctx, fmt.Errorf("missing token: %w", pkgerrors.ErrUnauthorized)
	}

	var (
		p   *ctxutil.Principal
		err error
	)
	switch {
	case s.jwtSecret != nil:
		p, err = s.verifyLocal(token)
	case s.identity != nil:
		p, err = s.verifyRemote(ctx, token)
	default:
		err = errors.New("no token verifier configured")
	}
	if err != nil {
		s.log.Debug("Token rejected", "error", err)
		return ctx, fmt.Errorf("invalid token: %w", pkgerrors.ErrUnauthorized)
	}
	return ctxutil.WithPrincipal(ctx, p), nil
}

func (s *authService) verifyLocal(token string) (*ctxutil.Principal, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return &ctxutil.Principal{Subject: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}

func (s *authService) verifyRemote(ctx context.Context, token string) (*ctxutil.Principal, error) {
	u, err := s.identity.GetUser(ctx, token)
	if err != nil {
		return nil, err
	}
	return &ctxutil.Principal{Subject: u.ID, Email: u.Email, Role: u.Role}, nil
}
