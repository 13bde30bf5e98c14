package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thenextevent/site-api/internal/models"
	"github.com/thenextevent/site-api/internal/notify"
	"github.com/thenextevent/site-api/internal/repository"
	"github.com/thenextevent/site-api/internal/utils"
)

// MockFormStore is a mock implementation of formStore.
type MockFormStore struct {
	mock.Mock
}

func (m *MockFormStore) Create(sub *models.FormSubmission) error {
	args := m.Called(sub)
	return args.Error(0)
}

func (m *MockFormStore) GetByID(id int) (*models.FormSubmission, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormSubmission), args.Error(1)
}

func (m *MockFormStore) GetAll(filter *repository.FormFilter) (*repository.FormListResult, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.FormListResult), args.Error(1)
}

func (m *MockFormStore) GetAllForExport(filter *repository.FormFilter) ([]models.FormSubmission, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FormSubmission), args.Error(1)
}

func (m *MockFormStore) Update(id int, upd *repository.FormUpdate) error {
	args := m.Called(id, upd)
	return args.Error(0)
}

func (m *MockFormStore) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockFormStore) BulkMarkRead(ids []int, read bool) (int, error) {
	args := m.Called(ids, read)
	return args.Int(0), args.Error(1)
}

func (m *MockFormStore) BulkUpdateStatus(ids []int, status string) (int, error) {
	args := m.Called(ids, status)
	return args.Int(0), args.Error(1)
}

func (m *MockFormStore) BulkDelete(ids []int) (int, error) {
	args := m.Called(ids)
	return args.Int(0), args.Error(1)
}

func (m *MockFormStore) GetStats() (*repository.FormStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.FormStats), args.Error(1)
}

func (m *MockFormStore) GetDailyCounts(days int) ([]repository.DailyCount, error) {
	args := m.Called(days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.DailyCount), args.Error(1)
}

// recordingDispatcher captures enqueued events.
type recordingDispatcher struct {
	events []notify.Event
}

func (d *recordingDispatcher) Enqueue(evt notify.Event) bool {
	d.events = append(d.events, evt)
	return true
}

func TestSubmitStoresAndEnqueues(t *testing.T) {
	store := new(MockFormStore)
	store.On("Create", mock.MatchedBy(func(s *models.FormSubmission) bool {
		return s.Status == models.FormStatusNew && !s.IsRead
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*models.FormSubmission).ID = 11
	}).Return(nil)

	dispatcher := &recordingDispatcher{}
	svc := NewFormService(store, dispatcher)

	sub := &models.FormSubmission{
		Name:    "  Dana  ",
		Email:   "dana@example.com",
		Message: "Hello there",
	}
	require.NoError(t, svc.Submit(sub))

	assert.Equal(t, "Dana", sub.Name)
	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, notify.KindFormSubmitted, dispatcher.events[0].Kind)
	assert.Equal(t, 11, dispatcher.events[0].SubmissionID)
}

func TestSubmitValidation(t *testing.T) {
	svc := NewFormService(new(MockFormStore), &recordingDispatcher{})

	tests := []struct {
		name string
		sub  models.FormSubmission
	}{
		{"missing name", models.FormSubmission{Email: "a@b.c", Message: "hi"}},
		{"missing email", models.FormSubmission{Name: "Dana", Message: "hi"}},
		{"bad email", models.FormSubmission{Name: "Dana", Email: "nope", Message: "hi"}},
		{"missing message", models.FormSubmission{Name: "Dana", Email: "a@b.c"}},
		{"blank message", models.FormSubmission{Name: "Dana", Email: "a@b.c", Message: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := tt.sub
			assert.ErrorIs(t, svc.Submit(&sub), utils.ErrValidation)
		})
	}
}

func TestBulkUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewFormService(new(MockFormStore), &recordingDispatcher{})
	_, err := svc.BulkUpdateStatus([]int{1, 2}, "Bogus")
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestBulkOpsEmptyIDList(t *testing.T) {
	svc := NewFormService(new(MockFormStore), &recordingDispatcher{})

	count, err := svc.BulkMarkRead(nil, true)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = svc.BulkDelete(nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDailyCountsZeroFills(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	store := new(MockFormStore)
	store.On("GetDailyCounts", 7).Return([]repository.DailyCount{
		{Date: yesterday, Count: 3},
		{Date: today, Count: 1},
	}, nil)

	svc := NewFormService(store, &recordingDispatcher{})
	counts, err := svc.DailyCounts(7)
	require.NoError(t, err)
	require.Len(t, counts, 7)

	// Ascending, ending today, gaps filled with zero.
	assert.Equal(t, today, counts[6].Date)
	assert.Equal(t, 1, counts[6].Count)
	assert.Equal(t, yesterday, counts[5].Date)
	assert.Equal(t, 3, counts[5].Count)
	for _, c := range counts[:5] {
		assert.Zero(t, c.Count)
	}
}

func TestExportCSVQuotesAndEscapes(t *testing.T) {
	company := `Acme "Quotes" Ltd`
	store := new(MockFormStore)
	store.On("GetAllForExport", mock.Anything).Return([]models.FormSubmission{
		{
			ID:          1,
			Name:        "Dana",
			Email:       "dana@example.com",
			Company:     &company,
			Message:     "Line with, comma",
			Status:      models.FormStatusNew,
			SubmittedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		},
	}, nil)

	svc := NewFormService(store, &recordingDispatcher{})
	csv, err := svc.ExportCSV(&repository.FormFilter{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Name,Email,Phone,Company,Message,Status,IsRead,AdminNotes,SubmittedAt", lines[0])
	assert.Contains(t, lines[1], `"Acme ""Quotes"" Ltd"`)
	assert.Contains(t, lines[1], `"Line with, comma"`)
	assert.Contains(t, lines[1], `"2026-03-14 09:30:00"`)
}
