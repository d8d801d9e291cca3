package service

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/yourorg/harbormaster/internal/domain"
	"github.com/yourorg/harbormaster/internal/security/auth"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserService owns staff account records. Passwords are hashed at
// creation and re-hashed only when a patch carries a new password.
type UserService struct {
	users  domain.UserRepository
	logger *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(users domain.UserRepository, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{users: users, logger: logger}
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return domain.NewValidationError("email", "must look like local@domain.tld")
	}
	return nil
}

// List returns all users, passwords stripped
func (s *UserService) List() ([]domain.UserView, error) {
	users, err := s.users.List()
	if err != nil {
		return nil, err
	}

	views := make([]domain.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.View())
	}
	return views, nil
}

// Get returns one user by email, password stripped
func (s *UserService) Get(email string) (*domain.UserView, error) {
	user, err := s.users.GetByEmail(NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	view := user.View()
	return &view, nil
}

// Create registers a new staff account with a hashed password
func (s *UserService) Create(username, email, password string) (*domain.UserView, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.NewValidationError("username", "is required")
	}

	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	if err := auth.ValidatePassword(password); err != nil {
		return nil, domain.NewValidationError("password", err.Error())
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.logger.Info("user created", slog.String("email", user.Email))

	view := user.View()
	return &view, nil
}

// Update applies a partial patch to the user identified by email. The
// password hash is recomputed only when the patch carries a password.
func (s *UserService) Update(email string, patch domain.UserPatch) (*domain.UserView, error) {
	user, err := s.users.GetByEmail(NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" {
			return nil, domain.NewValidationError("username", "is required")
		}
		user.Username = username
	}
	if patch.Email != nil {
		newEmail := NormalizeEmail(*patch.Email)
		if err := validateEmail(newEmail); err != nil {
			return nil, err
		}
		user.Email = newEmail
	}
	if patch.Password != nil {
		if err := auth.ValidatePassword(*patch.Password); err != nil {
			return nil, domain.NewValidationError("password", err.Error())
		}
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			s.logger.Error("failed to hash password", slog.String("error", err.Error()))
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(user); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", slog.String("email", user.Email))

	view := user.View()
	return &view, nil
}

// Delete removes a user by email. Absence of a match is not an error.
func (s *UserService) Delete(email string) error {
	if err := s.users.Delete(NormalizeEmail(email)); err != nil {
		return err
	}
	s.logger.Info("user deleted", slog.String("email", email))
	return nil
}
