package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/thenextevent/site-api/internal/models"
)

// EmailRepository handles data access for the email configuration singleton
// and the outbound email log.
type EmailRepository struct {
	db *sqlx.DB
}

// NewEmailRepository creates a new EmailRepository.
func NewEmailRepository(db *sqlx.DB) *EmailRepository {
	return &EmailRepository{db: db}
}

// GetConfiguration returns the singleton configuration row, or sql.ErrNoRows
// if it has never been saved.
func (r *EmailRepository) GetConfiguration() (*models.EmailConfiguration, error) {
	var cfg models.EmailConfiguration
	err := r.db.Get(&cfg, `
		SELECT id, smtp_server, smtp_port, sender_email, sender_name, sender_password,
		       is_enabled, use_ssl, notification_emails, created_at, updated_at
		FROM email_configurations
		WHERE id = $1
	`, models.EmailConfigurationID)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfiguration upserts the singleton row in place.
func (r *EmailRepository) SaveConfiguration(cfg *models.EmailConfiguration) error {
	const q = `
		INSERT INTO email_configurations (
			id, smtp_server, smtp_port, sender_email, sender_name, sender_password,
			is_enabled, use_ssl, notification_emails
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			smtp_server = EXCLUDED.smtp_server,
			smtp_port = EXCLUDED.smtp_port,
			sender_email = EXCLUDED.sender_email,
			sender_name = EXCLUDED.sender_name,
			sender_password = EXCLUDED.sender_password,
			is_enabled = EXCLUDED.is_enabled,
			use_ssl = EXCLUDED.use_ssl,
			notification_emails = EXCLUDED.notification_emails,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	return r.db.QueryRow(q,
		models.EmailConfigurationID, cfg.SMTPServer, cfg.SMTPPort, cfg.SenderEmail,
		cfg.SenderName, cfg.SenderPassword, cfg.IsEnabled, cfg.UseSSL, cfg.NotificationEmails,
	).Scan(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt)
}

// InsertLog records one outbound email attempt.
func (r *EmailRepository) InsertLog(entry *models.EmailLogEntry) error {
	const q = `
		INSERT INTO email_log (recipient, subject, kind, status, error)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, sent_at`

	return r.db.QueryRow(q,
		entry.Recipient, entry.Subject, entry.Kind, entry.Status, entry.Error,
	).Scan(&entry.ID, &entry.SentAt)
}

// EmailLogFilter holds filters for email log queries.
type EmailLogFilter struct {
	Kind   *string
	Status *string
	Page   int
	Limit  int
}

// EmailLogResult contains paginated log entries.
type EmailLogResult struct {
	Entries    []models.EmailLogEntry
	TotalItems int
	TotalPages int
	Page       int
	Limit      int
}

// GetLog returns log entries with filters and pagination, newest first.
func (r *EmailRepository) GetLog(filter *EmailLogFilter) (*EmailLogResult, error) {
	baseQ := `FROM email_log WHERE 1=1`

	args := []interface{}{}
	argIdx := 1

	if filter.Kind != nil && *filter.Kind != "" {
		baseQ += fmt.Sprintf(" AND kind = $%d", argIdx)
		args = append(args, *filter.Kind)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseQ += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQ := "SELECT COUNT(*) " + baseQ
	var total int
	if err := r.db.Get(&total, countQ, args...); err != nil {
		return nil, err
	}

	p := NormalizePagination(filter.Page, filter.Limit)

	selectQ := fmt.Sprintf(
		"SELECT id, recipient, subject, kind, status, error, sent_at %s ORDER BY sent_at DESC LIMIT $%d OFFSET $%d",
		baseQ, argIdx, argIdx+1)
	args = append(args, p.Limit, p.Offset)

	var entries []models.EmailLogEntry
	if err := r.db.Select(&entries, selectQ, args...); err != nil {
		return nil, err
	}

	return &EmailLogResult{
		Entries:    entries,
		TotalItems: total,
		TotalPages: TotalPages(total, p.Limit),
		Page:       p.Page,
		Limit:      p.Limit,
	}, nil
}

// EmailLogStats contains delivery statistics.
type EmailLogStats struct {
	Total  int `db:"total" json:"total"`
	Sent   int `db:"sent" json:"sent"`
	Failed int `db:"failed" json:"failed"`
	Today  int `db:"today" json:"today"`
}

// GetLogStats returns aggregate delivery statistics.
func (r *EmailRepository) GetLogStats() (*EmailLogStats, error) {
	const q = `
		SELECT
			COUNT(*) as total,
			COUNT(*) FILTER (WHERE status = 'sent') as sent,
			COUNT(*) FILTER (WHERE status = 'failed') as failed,
			COUNT(*) FILTER (WHERE sent_at >= date_trunc('day', NOW())) as today
		FROM email_log`

	var stats EmailLogStats
	if err := r.db.Get(&stats, q); err != nil {
		return nil, err
	}
	return &stats, nil
}
