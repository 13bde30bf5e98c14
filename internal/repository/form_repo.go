package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/thenextevent/site-api/internal/models"
	"github.com/thenextevent/site-api/internal/utils"
)

const formColumns = `id, name, email, phone, company, message, status, is_read, admin_notes, submitted_at`

// FormRepository handles data access for contact form submissions.
type FormRepository struct {
	db *sqlx.DB
}

// NewFormRepository creates a new FormRepository.
func NewFormRepository(db *sqlx.DB) *FormRepository {
	return &FormRepository{db: db}
}

// FormFilter holds filters for admin submission queries.
type FormFilter struct {
	Search    *string
	Status    *string
	IsRead    *bool
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
}

// FormListResult contains paginated submission results.
type FormListResult struct {
	Submissions []models.FormSubmission
	TotalItems  int
	TotalPages  int
	Page        int
	Limit       int
}

// FormUpdate carries the admin-editable fields. Nil fields are left unchanged.
type FormUpdate struct {
	Status     *string
	IsRead     *bool
	AdminNotes *string
}

// FormStats contains submission statistics for the admin dashboard.
type FormStats struct {
	Total      int `db:"total" json:"total"`
	Unread     int `db:"unread" json:"unread"`
	Today      int `db:"today" json:"today"`
	ThisWeek   int `db:"this_week" json:"thisWeek"`
	ThisMonth  int `db:"this_month" json:"thisMonth"`
	New        int `db:"new_count" json:"new"`
	InProgress int `db:"in_progress_count" json:"inProgress"`
	Resolved   int `db:"resolved_count" json:"resolved"`
}

// DailyCount is the number of submissions received on one calendar day.
type DailyCount struct {
	Date  string `db:"date" json:"date"`
	Count int    `db:"count" json:"count"`
}

func (r *FormRepository) Create(sub *models.FormSubmission) error {
	const q = `
		INSERT INTO form_submissions (name, email, phone, company, message, status, is_read)
		VALUES ($1,$2,$3,$4,$5,$6,FALSE)
		RETURNING id, submitted_at`

	return r.db.QueryRow(q,
		sub.Name, sub.Email, sub.Phone, sub.Company, sub.Message, sub.Status,
	).Scan(&sub.ID, &sub.SubmittedAt)
}

func (r *FormRepository) GetByID(id int) (*models.FormSubmission, error) {
	var s models.FormSubmission
	q := fmt.Sprintf(`SELECT %s FROM form_submissions WHERE id = $1`, formColumns)
	if err := r.db.Get(&s, q, id); err != nil {
		return nil, err
	}
	return &s, nil
}

// buildFilter appends WHERE clauses for the filter to baseQ and returns the
// extended query with its args and next placeholder index.
func buildFormFilter(baseQ string, filter *FormFilter) (string, []interface{}, int) {
	args := []interface{}{}
	argIdx := 1

	if filter == nil {
		return baseQ, args, argIdx
	}
	if filter.Search != nil && *filter.Search != "" {
		baseQ += fmt.Sprintf(
			" AND (name ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d OR message ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseQ += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.IsRead != nil {
		baseQ += fmt.Sprintf(" AND is_read = $%d", argIdx)
		args = append(args, *filter.IsRead)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseQ += fmt.Sprintf(" AND submitted_at >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseQ += fmt.Sprintf(" AND submitted_at < ($%d::date + interval '1 day')", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	return baseQ, args, argIdx
}

// GetAll returns submissions with filters and pagination, newest first.
func (r *FormRepository) GetAll(filter *FormFilter) (*FormListResult, error) {
	baseQ, args, argIdx := buildFormFilter(`FROM form_submissions WHERE 1=1`, filter)

	countQ := "SELECT COUNT(*) " + baseQ
	var total int
	if err := r.db.Get(&total, countQ, args...); err != nil {
		return nil, err
	}

	p := NormalizePagination(filter.Page, filter.Limit)

	selectQ := fmt.Sprintf("SELECT %s %s ORDER BY submitted_at DESC LIMIT $%d OFFSET $%d",
		formColumns, baseQ, argIdx, argIdx+1)
	args = append(args, p.Limit, p.Offset)

	var subs []models.FormSubmission
	if err := r.db.Select(&subs, selectQ, args...); err != nil {
		return nil, err
	}

	return &FormListResult{
		Submissions: subs,
		TotalItems:  total,
		TotalPages:  TotalPages(total, p.Limit),
		Page:        p.Page,
		Limit:       p.Limit,
	}, nil
}

// GetAllForExport returns every submission matching the filter without
// pagination, newest first. Used by the CSV export.
func (r *FormRepository) GetAllForExport(filter *FormFilter) ([]models.FormSubmission, error) {
	baseQ, args, _ := buildFormFilter(`FROM form_submissions WHERE 1=1`, filter)

	q := fmt.Sprintf("SELECT %s %s ORDER BY submitted_at DESC", formColumns, baseQ)
	var subs []models.FormSubmission
	if err := r.db.Select(&subs, q, args...); err != nil {
		return nil, err
	}
	return subs, nil
}

// Update applies the non-nil admin fields to a submission.
func (r *FormRepository) Update(id int, upd *FormUpdate) error {
	q := `UPDATE form_submissions SET id = id`

	args := []interface{}{}
	argIdx := 1

	if upd.Status != nil {
		q += fmt.Sprintf(", status = $%d", argIdx)
		args = append(args, *upd.Status)
		argIdx++
	}
	if upd.IsRead != nil {
		q += fmt.Sprintf(", is_read = $%d", argIdx)
		args = append(args, *upd.IsRead)
		argIdx++
	}
	if upd.AdminNotes != nil {
		q += fmt.Sprintf(", admin_notes = $%d", argIdx)
		args = append(args, *upd.AdminNotes)
		argIdx++
	}

	q += fmt.Sprintf(" WHERE id = $%d", argIdx)
	args = append(args, id)

	res, err := r.db.Exec(q, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *FormRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM form_submissions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// BulkMarkRead sets is_read for the given IDs and returns the affected count.
func (r *FormRepository) BulkMarkRead(ids []int, read bool) (int, error) {
	res, err := r.db.Exec(
		`UPDATE form_submissions SET is_read = $2 WHERE id = ANY($1)`,
		pq.Array(ids), read,
	)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	return int(affected), err
}

// BulkUpdateStatus sets status for the given IDs and returns the affected count.
func (r *FormRepository) BulkUpdateStatus(ids []int, status string) (int, error) {
	res, err := r.db.Exec(
		`UPDATE form_submissions SET status = $2 WHERE id = ANY($1)`,
		pq.Array(ids), status,
	)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	return int(affected), err
}

// BulkDelete removes the given IDs and returns the affected count.
func (r *FormRepository) BulkDelete(ids []int) (int, error) {
	res, err := r.db.Exec(
		`DELETE FROM form_submissions WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	return int(affected), err
}

// GetStats returns submission statistics for the dashboard.
func (r *FormRepository) GetStats() (*FormStats, error) {
	const q = `
		SELECT
			COUNT(*) as total,
			COUNT(*) FILTER (WHERE NOT is_read) as unread,
			COUNT(*) FILTER (WHERE submitted_at >= date_trunc('day', NOW())) as today,
			COUNT(*) FILTER (WHERE submitted_at >= date_trunc('week', NOW())) as this_week,
			COUNT(*) FILTER (WHERE submitted_at >= date_trunc('month', NOW())) as this_month,
			COUNT(*) FILTER (WHERE status = 'New') as new_count,
			COUNT(*) FILTER (WHERE status = 'InProgress') as in_progress_count,
			COUNT(*) FILTER (WHERE status = 'Resolved') as resolved_count
		FROM form_submissions`

	var stats FormStats
	if err := r.db.Get(&stats, q); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetDailyCounts returns per-day submission counts for the last N days,
// ascending by date. Days with no submissions are absent; the service layer
// zero-fills them.
func (r *FormRepository) GetDailyCounts(days int) ([]DailyCount, error) {
	const q = `
		SELECT
			TO_CHAR(submitted_at, 'YYYY-MM-DD') as date,
			COUNT(*) as count
		FROM form_submissions
		WHERE submitted_at >= date_trunc('day', NOW()) - ($1 - 1) * interval '1 day'
		GROUP BY TO_CHAR(submitted_at, 'YYYY-MM-DD')
		ORDER BY date ASC`

	var counts []DailyCount
	if err := r.db.Select(&counts, q, days); err != nil {
		return nil, err
	}
	return counts, nil
}
