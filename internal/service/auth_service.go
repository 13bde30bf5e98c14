package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thenextevent/site-api/internal/models"
	"github.com/thenextevent/site-api/internal/utils"
)

// adminUserStore is the data access surface AuthService needs.
type adminUserStore interface {
	Create(user *models.AdminUser) error
	GetByEmail(email string) (*models.AdminUser, error)
	GetByID(id int) (*models.AdminUser, error)
	GetAll() ([]models.AdminUser, error)
	Update(user *models.AdminUser) error
	UpdatePassword(id int, passwordHash string) error
	UpdateLastLogin(id int) error
	SetStatus(id int, status models.UserStatus) error
}

const minPasswordLength = 8

// AuthService implements admin account management and login.
type AuthService struct {
	users     adminUserStore
	jwtSecret string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users adminUserStore, jwtSecret string) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret}
}

// LoginResult is a successful authentication.
type LoginResult struct {
	User      *models.AdminUser `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// Login verifies credentials and issues a token. Unknown emails, wrong
// passwords and deactivated accounts are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive() {
		return nil, utils.ErrInvalidCredentials
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, utils.ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(user.ID); err != nil {
		// Login still succeeds; the stamp is informational.
		log.Error().Err(err).Int("user_id", user.ID).Msg("Failed to update last login")
	} else {
		now := time.Now()
		user.LastLoginAt = &now
	}

	token, expiresAt, err := utils.GenerateJWT(s.jwtSecret, user.ID, user.Email, []string{"admin"})
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info().Int("user_id", user.ID).Str("email", user.Email).Msg("Admin logged in")
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Register creates a new active admin account.
func (s *AuthService) Register(email, password, firstName, lastName string) (*models.AdminUser, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", utils.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", utils.ErrValidation, minPasswordLength)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.AdminUser{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Status:       models.UserStatusActive,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	log.Info().Int("user_id", user.ID).Str("email", user.Email).Msg("Admin account created")
	return user, nil
}

// GetByID returns one account.
func (s *AuthService) GetByID(id int) (*models.AdminUser, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// List returns the active accounts ordered by email. Deactivated accounts
// never appear in the listing.
func (s *AuthService) List() ([]models.AdminUser, error) {
	users, err := s.users.GetAll()
	if err != nil {
		return nil, err
	}
	active := users[:0]
	for _, u := range users {
		if u.IsActive() {
			active = append(active, u)
		}
	}
	return active, nil
}

// UpdateProfile changes an account's email and name.
func (s *AuthService) UpdateProfile(id int, email, firstName, lastName string) (*models.AdminUser, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", utils.ErrValidation)
	}

	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	user.Email = email
	user.FirstName = firstName
	user.LastName = lastName
	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before storing a new one.
func (s *AuthService) ChangePassword(id int, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", utils.ErrValidation, minPasswordLength)
	}

	user, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if !user.IsActive() {
		return utils.ErrUserNotFound
	}
	if !utils.CheckPassword(currentPassword, user.PasswordHash) {
		return utils.ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.UpdatePassword(id, hash)
}

// Deactivate retires an account. The row and its email stay reserved, so the
// address cannot be registered again.
func (s *AuthService) Deactivate(id int) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	if err := s.users.SetStatus(id, models.UserStatusDeactivated); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	log.Info().Int("user_id", id).Msg("Admin account deactivated")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
