package models

import "time"

// Form submission statuses as used by the admin dashboard. Stored as free
// text; these are the values the UI writes.
const (
	FormStatusNew        = "New"
	FormStatusInProgress = "InProgress"
	FormStatusResolved   = "Resolved"
)

// FormSubmission is a contact-form entry from the public site.
type FormSubmission struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	Phone       *string   `db:"phone" json:"phone"`
	Company     *string   `db:"company" json:"company"`
	Message     string    `db:"message" json:"message"`
	Status      string    `db:"status" json:"status"`
	IsRead      bool      `db:"is_read" json:"isRead"`
	AdminNotes  *string   `db:"admin_notes" json:"adminNotes"`
	SubmittedAt time.Time `db:"submitted_at" json:"submittedAt"`
}
