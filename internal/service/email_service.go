package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/thenextevent/site-api/internal/models"
	"github.com/thenextevent/site-api/internal/notify"
	"github.com/thenextevent/site-api/internal/repository"
	"github.com/thenextevent/site-api/internal/utils"
	"github.com/thenextevent/site-api/pkg/mailer"
)

// emailStore is the data access surface EmailService needs.
type emailStore interface {
	GetConfiguration() (*models.EmailConfiguration, error)
	SaveConfiguration(cfg *models.EmailConfiguration) error
	InsertLog(entry *models.EmailLogEntry) error
	GetLog(filter *repository.EmailLogFilter) (*repository.EmailLogResult, error)
	GetLogStats() (*repository.EmailLogStats, error)
}

// submissionGetter loads one form submission for notification rendering.
type submissionGetter interface {
	GetByID(id int) (*models.FormSubmission, error)
}

// EmailService manages the SMTP configuration singleton, sends mail, and
// records every attempt in the email log. It is also the notification
// dispatcher's handler for contact form events.
type EmailService struct {
	emails emailStore
	forms  submissionGetter
	sender mailer.Sender
}

// NewEmailService creates a new EmailService.
func NewEmailService(emails emailStore, forms submissionGetter, sender mailer.Sender) *EmailService {
	return &EmailService{emails: emails, forms: forms, sender: sender}
}

// GetConfiguration returns the singleton configuration.
func (s *EmailService) GetConfiguration() (*models.EmailConfiguration, error) {
	cfg, err := s.emails.GetConfiguration()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load email configuration: %w", err)
	}
	return cfg, nil
}

// SaveConfiguration validates and upserts the singleton. An empty password
// keeps the stored one, so the admin UI never has to echo it back.
func (s *EmailService) SaveConfiguration(cfg *models.EmailConfiguration) error {
	if cfg.IsEnabled {
		if cfg.SMTPServer == "" {
			return fmt.Errorf("%w: smtpServer is required when sending is enabled", utils.ErrValidation)
		}
		if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
			return fmt.Errorf("%w: smtpPort must be between 1 and 65535", utils.ErrValidation)
		}
		if cfg.SenderEmail == "" || !strings.Contains(cfg.SenderEmail, "@") {
			return fmt.Errorf("%w: a valid senderEmail is required when sending is enabled", utils.ErrValidation)
		}
	}

	if cfg.SenderPassword == "" {
		existing, err := s.emails.GetConfiguration()
		if err == nil {
			cfg.SenderPassword = existing.SenderPassword
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to load email configuration: %w", err)
		}
	}

	if err := s.emails.SaveConfiguration(cfg); err != nil {
		return fmt.Errorf("failed to save email configuration: %w", err)
	}
	log.Info().Bool("enabled", cfg.IsEnabled).Str("smtp_server", cfg.SMTPServer).Msg("Email configuration saved")
	return nil
}

// SendTest delivers a short test message to one recipient using the stored
// configuration.
func (s *EmailService) SendTest(recipient string) error {
	if recipient == "" || !strings.Contains(recipient, "@") {
		return fmt.Errorf("%w: a valid recipient is required", utils.ErrValidation)
	}

	cfg, err := s.GetConfiguration()
	if err != nil {
		return err
	}
	if !cfg.IsEnabled {
		return fmt.Errorf("%w: email sending is disabled", utils.ErrValidation)
	}

	msg := mailer.Message{
		To:      []string{recipient},
		Subject: "Test email",
		Body:    "This is a test email confirming the SMTP configuration works.",
	}
	return s.sendAndLog(cfg, msg, models.EmailKindTest)
}

// SendManual delivers an admin-composed message.
func (s *EmailService) SendManual(to []string, subject, body string, html bool) error {
	if len(to) == 0 {
		return fmt.Errorf("%w: at least one recipient is required", utils.ErrValidation)
	}
	if subject == "" {
		return fmt.Errorf("%w: subject is required", utils.ErrValidation)
	}

	cfg, err := s.GetConfiguration()
	if err != nil {
		return err
	}
	if !cfg.IsEnabled {
		return fmt.Errorf("%w: email sending is disabled", utils.ErrValidation)
	}

	msg := mailer.Message{To: to, Subject: subject, Body: body, HTML: html}
	return s.sendAndLog(cfg, msg, models.EmailKindManual)
}

// HandleNotification delivers the admin notification for one queued event.
// Disabled sending or an empty recipient list skips silently; a delivery
// failure is recorded in the log and returned.
func (s *EmailService) HandleNotification(ctx context.Context, evt notify.Event) error {
	if evt.Kind != notify.KindFormSubmitted {
		return nil
	}

	cfg, err := s.GetConfiguration()
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil
		}
		return err
	}
	if !cfg.IsEnabled {
		return nil
	}
	recipients := cfg.NotificationList()
	if len(recipients) == 0 {
		return nil
	}

	sub, err := s.forms.GetByID(evt.SubmissionID)
	if err != nil {
		return fmt.Errorf("failed to load submission %d: %w", evt.SubmissionID, err)
	}

	msg := mailer.Message{
		To:      recipients,
		Subject: fmt.Sprintf("New contact form submission from %s", sub.Name),
		Body:    renderSubmissionBody(sub),
		HTML:    true,
	}
	return s.sendAndLog(cfg, msg, models.EmailKindFormNotification)
}

// GetLog returns outbound email history.
func (s *EmailService) GetLog(filter *repository.EmailLogFilter) (*repository.EmailLogResult, error) {
	return s.emails.GetLog(filter)
}

// LogStats returns aggregate delivery statistics.
func (s *EmailService) LogStats() (*repository.EmailLogStats, error) {
	return s.emails.GetLogStats()
}

// sendAndLog delivers the message and records one log entry per recipient.
func (s *EmailService) sendAndLog(cfg *models.EmailConfiguration, msg mailer.Message, kind string) error {
	sendErr := s.sender.Send(mailer.Config{
		Host:     cfg.SMTPServer,
		Port:     cfg.SMTPPort,
		Username: cfg.SenderEmail,
		Password: cfg.SenderPassword,
		From:     cfg.SenderEmail,
		FromName: cfg.SenderName,
		UseSSL:   cfg.UseSSL,
	}, msg)

	status := models.EmailStatusSent
	errText := ""
	if sendErr != nil {
		status = models.EmailStatusFailed
		errText = sendErr.Error()
	}

	for _, recipient := range msg.To {
		entry := &models.EmailLogEntry{
			Recipient: recipient,
			Subject:   msg.Subject,
			Kind:      kind,
			Status:    status,
			Error:     errText,
		}
		if err := s.emails.InsertLog(entry); err != nil {
			log.Error().Err(err).Str("recipient", recipient).Msg("Failed to record email log entry")
		}
	}

	if sendErr != nil {
		return fmt.Errorf("failed to send email: %w", sendErr)
	}
	log.Info().Strs("recipients", msg.To).Str("kind", kind).Msg("Email sent")
	return nil
}

func renderSubmissionBody(sub *models.FormSubmission) string {
	var b strings.Builder
	b.WriteString("<h2>New contact form submission</h2>")
	b.WriteString("<table>")
	writeRow := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(fmt.Sprintf("<tr><td><strong>%s</strong></td><td>%s</td></tr>", label, htmlEscape(value)))
	}
	writeRow("Name", sub.Name)
	writeRow("Email", sub.Email)
	writeRow("Phone", deref(sub.Phone))
	writeRow("Company", deref(sub.Company))
	writeRow("Message", sub.Message)
	writeRow("Submitted", sub.SubmittedAt.Format("2006-01-02 15:04:05"))
	b.WriteString("</table>")
	return b.String()
}

func htmlEscape(v string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(v)
}
