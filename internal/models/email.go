package models

import (
	"strings"
	"time"
)

// EmailConfigurationID is the fixed key of the singleton configuration row.
// The row is upserted in place rather than appended, so there is never more
// than one and no order-dependent "latest" selection.
const EmailConfigurationID = 1

// EmailConfiguration is the SMTP setup used for outbound notifications.
type EmailConfiguration struct {
	ID                 int       `db:"id" json:"id"`
	SMTPServer         string    `db:"smtp_server" json:"smtpServer"`
	SMTPPort           int       `db:"smtp_port" json:"smtpPort"`
	SenderEmail        string    `db:"sender_email" json:"senderEmail"`
	SenderName         string    `db:"sender_name" json:"senderName"`
	SenderPassword     string    `db:"sender_password" json:"-"`
	IsEnabled          bool      `db:"is_enabled" json:"isEnabled"`
	UseSSL             bool      `db:"use_ssl" json:"useSSL"`
	NotificationEmails string    `db:"notification_emails" json:"notificationEmails"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}

// NotificationList splits the stored comma-separated notification addresses,
// dropping empty entries.
func (c *EmailConfiguration) NotificationList() []string {
	var out []string
	for _, addr := range strings.Split(c.NotificationEmails, ",") {
		if a := strings.TrimSpace(addr); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Email log kinds and statuses.
const (
	EmailKindTest             = "test"
	EmailKindManual           = "manual"
	EmailKindFormNotification = "form-notification"

	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailLogEntry records one outbound email attempt, success or failure.
type EmailLogEntry struct {
	ID        int       `db:"id" json:"id"`
	Recipient string    `db:"recipient" json:"recipient"`
	Subject   string    `db:"subject" json:"subject"`
	Kind      string    `db:"kind" json:"kind"`
	Status    string    `db:"status" json:"status"`
	Error     string    `db:"error" json:"error,omitempty"`
	SentAt    time.Time `db:"sent_at" json:"sentAt"`
}
