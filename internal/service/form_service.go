package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thenextevent/site-api/internal/models"
	"github.com/thenextevent/site-api/internal/notify"
	"github.com/thenextevent/site-api/internal/repository"
	"github.com/thenextevent/site-api/internal/utils"
)

// formStore is the data access surface FormService needs.
type formStore interface {
	Create(sub *models.FormSubmission) error
	GetByID(id int) (*models.FormSubmission, error)
	GetAll(filter *repository.FormFilter) (*repository.FormListResult, error)
	GetAllForExport(filter *repository.FormFilter) ([]models.FormSubmission, error)
	Update(id int, upd *repository.FormUpdate) error
	Delete(id int) error
	BulkMarkRead(ids []int, read bool) (int, error)
	BulkUpdateStatus(ids []int, status string) (int, error)
	BulkDelete(ids []int) (int, error)
	GetStats() (*repository.FormStats, error)
	GetDailyCounts(days int) ([]repository.DailyCount, error)
}

// FormService manages contact form intake and the admin inbox.
type FormService struct {
	forms      formStore
	dispatcher notify.Dispatcher
}

// NewFormService creates a new FormService.
func NewFormService(forms formStore, dispatcher notify.Dispatcher) *FormService {
	return &FormService{forms: forms, dispatcher: dispatcher}
}

// Submit stores a public contact form entry and queues the admin
// notification. A full notification queue never fails the submission.
func (s *FormService) Submit(sub *models.FormSubmission) error {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Message = strings.TrimSpace(sub.Message)

	if sub.Name == "" {
		return fmt.Errorf("%w: name is required", utils.ErrValidation)
	}
	if sub.Email == "" || !strings.Contains(sub.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", utils.ErrValidation)
	}
	if sub.Message == "" {
		return fmt.Errorf("%w: message is required", utils.ErrValidation)
	}

	sub.Status = models.FormStatusNew
	sub.IsRead = false
	if err := s.forms.Create(sub); err != nil {
		return fmt.Errorf("failed to store submission: %w", err)
	}

	log.Info().Int("submission_id", sub.ID).Str("email", sub.Email).Msg("Contact form submitted")

	s.dispatcher.Enqueue(notify.Event{
		Kind:         notify.KindFormSubmitted,
		SubmissionID: sub.ID,
	})
	return nil
}

// List returns submissions for the admin inbox with filters and pagination.
func (s *FormService) List(filter *repository.FormFilter) (*repository.FormListResult, error) {
	return s.forms.GetAll(filter)
}

// GetByID returns one submission.
func (s *FormService) GetByID(id int) (*models.FormSubmission, error) {
	sub, err := s.forms.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	return sub, nil
}

// Update applies admin edits (status, read flag, notes) to a submission.
func (s *FormService) Update(id int, upd *repository.FormUpdate) (*models.FormSubmission, error) {
	if upd.Status != nil && !validFormStatus(*upd.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", utils.ErrValidation, *upd.Status)
	}
	if err := s.forms.Update(id, upd); err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete removes a submission permanently.
func (s *FormService) Delete(id int) error {
	return s.forms.Delete(id)
}

// BulkMarkRead sets the read flag on many submissions, returning how many
// rows actually changed.
func (s *FormService) BulkMarkRead(ids []int, read bool) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.forms.BulkMarkRead(ids, read)
}

// BulkUpdateStatus sets the status on many submissions.
func (s *FormService) BulkUpdateStatus(ids []int, status string) (int, error) {
	if !validFormStatus(status) {
		return 0, fmt.Errorf("%w: unknown status %q", utils.ErrValidation, status)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return s.forms.BulkUpdateStatus(ids, status)
}

// BulkDelete removes many submissions.
func (s *FormService) BulkDelete(ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.forms.BulkDelete(ids)
}

// Stats returns inbox statistics for the dashboard.
func (s *FormService) Stats() (*repository.FormStats, error) {
	return s.forms.GetStats()
}

// DailyCounts returns per-day submission counts for the last N days in
// ascending date order. Days without submissions appear with a zero count.
func (s *FormService) DailyCounts(days int) ([]repository.DailyCount, error) {
	if days < 1 {
		days = 30
	}

	counts, err := s.forms.GetDailyCounts(days)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]int, len(counts))
	for _, c := range counts {
		byDate[c.Date] = c.Count
	}

	out := make([]repository.DailyCount, 0, days)
	start := time.Now().AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		out = append(out, repository.DailyCount{Date: date, Count: byDate[date]})
	}
	return out, nil
}

// ExportCSV renders every submission matching the filter as CSV. All fields
// are quoted; embedded quotes are doubled.
func (s *FormService) ExportCSV(filter *repository.FormFilter) (string, error) {
	subs, err := s.forms.GetAllForExport(filter)
	if err != nil {
		return "", fmt.Errorf("failed to load submissions: %w", err)
	}

	var b strings.Builder
	b.WriteString("ID,Name,Email,Phone,Company,Message,Status,IsRead,AdminNotes,SubmittedAt\n")
	for _, sub := range subs {
		fields := []string{
			strconv.Itoa(sub.ID),
			sub.Name,
			sub.Email,
			deref(sub.Phone),
			deref(sub.Company),
			sub.Message,
			sub.Status,
			strconv.FormatBool(sub.IsRead),
			deref(sub.AdminNotes),
			sub.SubmittedAt.Format("2006-01-02 15:04:05"),
		}
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvField(f))
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// csvField quotes a value and doubles embedded quotes.
func csvField(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func validFormStatus(status string) bool {
	switch status {
	case models.FormStatusNew, models.FormStatusInProgress, models.FormStatusResolved:
		return true
	}
	return false
}
