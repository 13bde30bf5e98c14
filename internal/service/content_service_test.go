package service

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thenextevent/site-api/internal/models"
	"github.com/thenextevent/site-api/internal/repository"
	"github.com/thenextevent/site-api/internal/utils"
)

// MockContentStore is a mock implementation of contentStore.
type MockContentStore struct {
	mock.Mock
}

func (m *MockContentStore) Create(content *models.WebsiteContent) error {
	args := m.Called(content)
	return args.Error(0)
}

func (m *MockContentStore) Update(content *models.WebsiteContent) error {
	args := m.Called(content)
	return args.Error(0)
}

func (m *MockContentStore) GetByID(id int) (*models.WebsiteContent, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WebsiteContent), args.Error(1)
}

func (m *MockContentStore) GetByKey(contentKey string) (*models.WebsiteContent, error) {
	args := m.Called(contentKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WebsiteContent), args.Error(1)
}

func (m *MockContentStore) GetAll(filter *repository.ContentFilter) (*repository.ContentListResult, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ContentListResult), args.Error(1)
}

func (m *MockContentStore) GetActive(sectionKey string) ([]models.WebsiteContent, error) {
	args := m.Called(sectionKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WebsiteContent), args.Error(1)
}

func (m *MockContentStore) SetSortOrder(id, sortOrder int) error {
	args := m.Called(id, sortOrder)
	return args.Error(0)
}

func (m *MockContentStore) ToggleActive(id int) (*models.WebsiteContent, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WebsiteContent), args.Error(1)
}

func (m *MockContentStore) BulkUpdate(ids []int, upd *repository.ContentBulkUpdate) (int64, error) {
	args := m.Called(ids, upd)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContentStore) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestGetByLanguageArabicSwapsLocalizedFields(t *testing.T) {
	store := new(MockContentStore)
	store.On("GetActive", "").Return([]models.WebsiteContent{
		{
			ContentKey:    "hero.title",
			Name:          "Welcome",
			NameAR:        "مرحبا",
			Description:   "The next event",
			DescriptionAR: "الحدث القادم",
		},
		{
			// No Arabic translation recorded; default text is kept.
			ContentKey:  "hero.subtitle",
			Name:        "Join us",
			Description: "Sign up today",
		},
	}, nil)

	svc := NewContentService(store)
	list, err := svc.GetByLanguage("ar")
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "مرحبا", list[0].Name)
	assert.Equal(t, "الحدث القادم", list[0].Description)
	assert.Equal(t, "مرحبا", list[0].NameAR)

	assert.Equal(t, "Join us", list[1].Name)
	assert.Equal(t, "Sign up today", list[1].Description)
}

func TestGetByLanguageDefault(t *testing.T) {
	store := new(MockContentStore)
	store.On("GetActive", "").Return([]models.WebsiteContent{
		{ContentKey: "hero.title", Name: "Welcome", NameAR: "مرحبا"},
	}, nil)

	svc := NewContentService(store)
	list, err := svc.GetByLanguage("en")
	require.NoError(t, err)
	assert.Equal(t, "Welcome", list[0].Name)
}

func TestGetBySectionQueriesActiveRows(t *testing.T) {
	store := new(MockContentStore)
	store.On("GetActive", "hero").Return([]models.WebsiteContent{}, nil)

	svc := NewContentService(store)
	_, err := svc.GetBySection("hero")
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestContentBulkUpdateSkipsEmptyInput(t *testing.T) {
	svc := NewContentService(new(MockContentStore))

	count, err := svc.BulkUpdate(nil, &repository.ContentBulkUpdate{})
	require.NoError(t, err)
	assert.Zero(t, count)

	// IDs without any field to apply are also a no-op.
	count, err = svc.BulkUpdate([]int{1, 2}, &repository.ContentBulkUpdate{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestContentBulkUpdateReportsAffectedRows(t *testing.T) {
	active := false
	store := new(MockContentStore)
	store.On("BulkUpdate", []int{1, 2, 99}, mock.Anything).Return(int64(2), nil)

	svc := NewContentService(store)
	count, err := svc.BulkUpdate([]int{1, 2, 99}, &repository.ContentBulkUpdate{IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestToggleActiveNotFound(t *testing.T) {
	store := new(MockContentStore)
	store.On("ToggleActive", 7).Return(nil, sql.ErrNoRows)

	svc := NewContentService(store)
	_, err := svc.ToggleActive(7)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestCreateContentRequiresKey(t *testing.T) {
	svc := NewContentService(new(MockContentStore))
	err := svc.Create(&models.WebsiteContent{Name: "No key"})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestCreateContentDuplicateKey(t *testing.T) {
	store := new(MockContentStore)
	store.On("Create", mock.Anything).Return(utils.ErrDuplicateContentKey)

	svc := NewContentService(store)
	err := svc.Create(&models.WebsiteContent{ContentKey: "hero.title"})
	assert.ErrorIs(t, err, utils.ErrDuplicateContentKey)
}

func TestGetByKeyNotFound(t *testing.T) {
	store := new(MockContentStore)
	store.On("GetByKey", "missing").Return(nil, sql.ErrNoRows)

	svc := NewContentService(store)
	_, err := svc.GetByKey("missing")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestGetByKeyHidesInactiveBlock(t *testing.T) {
	store := new(MockContentStore)
	store.On("GetByKey", "hero.title").Return(&models.WebsiteContent{
		ContentKey: "hero.title",
		Name:       "Hidden",
		IsActive:   false,
	}, nil)

	svc := NewContentService(store)
	_, err := svc.GetByKey("hero.title")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
