package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/harbormaster/internal/domain"
	"github.com/yourorg/harbormaster/internal/observability/metrics"
	"github.com/yourorg/harbormaster/internal/security/auth"
)

// AuthService authenticates staff accounts and hands out bearer tokens.
// It owns no persistent state of its own.
type AuthService struct {
	users  domain.UserRepository
	tokens *auth.TokenManager
	logger *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(users domain.UserRepository, tokens *auth.TokenManager, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// LoginResult is returned on successful authentication. Token carries
// the "Bearer " prefix so clients can echo it back verbatim.
type LoginResult struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    IdentityInfo `json:"user"`
}

// IdentityInfo mirrors the claims embedded in the token
type IdentityInfo struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Login checks credentials and issues a 24h token. Unknown email and
// wrong password stay distinguishable so the HTTP layer can map them to
// 404 and 403 respectively.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("login attempt with unknown email", slog.String("email", email))
			metrics.ObserveLogin("unknown_user")
		}
		return nil, err
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		s.logger.Info("login failed with wrong password", slog.String("email", email))
		metrics.ObserveLogin("wrong_password")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Username)
	if err != nil {
		s.logger.Error("failed to issue token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	metrics.ObserveLogin("success")
	s.logger.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return &LoginResult{
		Message: "authenticate_succeeded",
		Token:   "Bearer " + token,
		User: IdentityInfo{
			ID:       user.ID,
			Email:    user.Email,
			Username: user.Username,
		},
	}, nil
}
