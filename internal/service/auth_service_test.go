package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thenextevent/site-api/internal/models"
	"github.com/thenextevent/site-api/internal/utils"
)

// MockAdminUserStore is a mock implementation of adminUserStore.
type MockAdminUserStore struct {
	mock.Mock
}

func (m *MockAdminUserStore) Create(user *models.AdminUser) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockAdminUserStore) GetByEmail(email string) (*models.AdminUser, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminUser), args.Error(1)
}

func (m *MockAdminUserStore) GetByID(id int) (*models.AdminUser, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminUser), args.Error(1)
}

func (m *MockAdminUserStore) GetAll() ([]models.AdminUser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AdminUser), args.Error(1)
}

func (m *MockAdminUserStore) Update(user *models.AdminUser) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockAdminUserStore) UpdatePassword(id int, passwordHash string) error {
	args := m.Called(id, passwordHash)
	return args.Error(0)
}

func (m *MockAdminUserStore) UpdateLastLogin(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockAdminUserStore) SetStatus(id int, status models.UserStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func activeUser(t *testing.T, password string) *models.AdminUser {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	return &models.AdminUser{
		ID:           7,
		Email:        "admin@example.com",
		PasswordHash: hash,
		Status:       models.UserStatusActive,
	}
}

func TestLoginSuccess(t *testing.T) {
	store := new(MockAdminUserStore)
	user := activeUser(t, "s3cret-pass")
	store.On("GetByEmail", "admin@example.com").Return(user, nil)
	store.On("UpdateLastLogin", 7).Return(nil)

	svc := NewAuthService(store, "jwt-secret")
	result, err := svc.Login("Admin@Example.com", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, 7, result.User.ID)
	assert.NotEmpty(t, result.Token)
	assert.WithinDuration(t, time.Now().Add(utils.TokenTTL), result.ExpiresAt, 5*time.Second)
	assert.NotNil(t, result.User.LastLoginAt)
	store.AssertExpectations(t)
}

func TestLoginUnknownEmail(t *testing.T) {
	store := new(MockAdminUserStore)
	store.On("GetByEmail", "nobody@example.com").Return(nil, sql.ErrNoRows)

	svc := NewAuthService(store, "jwt-secret")
	_, err := svc.Login("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	store := new(MockAdminUserStore)
	store.On("GetByEmail", "admin@example.com").Return(activeUser(t, "right"), nil)

	svc := NewAuthService(store, "jwt-secret")
	_, err := svc.Login("admin@example.com", "wrong")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
	store.AssertNotCalled(t, "UpdateLastLogin", mock.Anything)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	store := new(MockAdminUserStore)
	user := activeUser(t, "s3cret-pass")
	user.Status = models.UserStatusDeactivated
	store.On("GetByEmail", "admin@example.com").Return(user, nil)

	svc := NewAuthService(store, "jwt-secret")
	_, err := svc.Login("admin@example.com", "s3cret-pass")
	// Indistinguishable from a wrong password.
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestRegisterHashesPassword(t *testing.T) {
	store := new(MockAdminUserStore)
	store.On("Create", mock.MatchedBy(func(u *models.AdminUser) bool {
		return u.Email == "new@example.com" &&
			u.Status == models.UserStatusActive &&
			u.PasswordHash != "long-enough-password" &&
			utils.CheckPassword("long-enough-password", u.PasswordHash)
	})).Return(nil)

	svc := NewAuthService(store, "jwt-secret")
	user, err := svc.Register("New@Example.com", "long-enough-password", "Sam", "Lee")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	store.AssertExpectations(t)
}

func TestRegisterShortPassword(t *testing.T) {
	svc := NewAuthService(new(MockAdminUserStore), "jwt-secret")
	_, err := svc.Register("new@example.com", "short", "", "")
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestRegisterInvalidEmail(t *testing.T) {
	svc := NewAuthService(new(MockAdminUserStore), "jwt-secret")
	_, err := svc.Register("not-an-email", "long-enough-password", "", "")
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := new(MockAdminUserStore)
	store.On("Create", mock.Anything).Return(utils.ErrDuplicateEmail)

	svc := NewAuthService(store, "jwt-secret")
	_, err := svc.Register("taken@example.com", "long-enough-password", "", "")
	assert.ErrorIs(t, err, utils.ErrDuplicateEmail)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	store := new(MockAdminUserStore)
	store.On("GetByID", 7).Return(activeUser(t, "current-pass"), nil)

	svc := NewAuthService(store, "jwt-secret")
	err := svc.ChangePassword(7, "not-current", "new-long-password")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
	store.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)
}

func TestChangePasswordDeactivatedAccount(t *testing.T) {
	user := activeUser(t, "current-pass")
	user.Status = models.UserStatusDeactivated

	store := new(MockAdminUserStore)
	store.On("GetByID", 7).Return(user, nil)

	svc := NewAuthService(store, "jwt-secret")
	err := svc.ChangePassword(7, "current-pass", "new-long-password")
	assert.ErrorIs(t, err, utils.ErrUserNotFound)
	store.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)
}

func TestListExcludesDeactivatedAccounts(t *testing.T) {
	deactivated := *activeUser(t, "x")
	deactivated.ID = 8
	deactivated.Email = "gone@example.com"
	deactivated.Status = models.UserStatusDeactivated

	store := new(MockAdminUserStore)
	store.On("GetAll").Return([]models.AdminUser{*activeUser(t, "x"), deactivated}, nil)

	svc := NewAuthService(store, "jwt-secret")
	users, err := svc.List()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, models.UserStatusActive, users[0].Status)
}

func TestChangePasswordSuccess(t *testing.T) {
	store := new(MockAdminUserStore)
	store.On("GetByID", 7).Return(activeUser(t, "current-pass"), nil)
	store.On("UpdatePassword", 7, mock.MatchedBy(func(hash string) bool {
		return utils.CheckPassword("new-long-password", hash)
	})).Return(nil)

	svc := NewAuthService(store, "jwt-secret")
	require.NoError(t, svc.ChangePassword(7, "current-pass", "new-long-password"))
	store.AssertExpectations(t)
}

func TestDeactivate(t *testing.T) {
	store := new(MockAdminUserStore)
	store.On("GetByID", 7).Return(activeUser(t, "x"), nil)
	store.On("SetStatus", 7, models.UserStatusDeactivated).Return(nil)

	svc := NewAuthService(store, "jwt-secret")
	require.NoError(t, svc.Deactivate(7))
	store.AssertExpectations(t)
}

func TestDeactivateUnknownUser(t *testing.T) {
	store := new(MockAdminUserStore)
	store.On("GetByID", 99).Return(nil, sql.ErrNoRows)

	svc := NewAuthService(store, "jwt-secret")
	err := svc.Deactivate(99)
	assert.ErrorIs(t, err, utils.ErrUserNotFound)
}
