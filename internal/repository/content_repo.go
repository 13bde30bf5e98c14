package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/thenextevent/site-api/internal/models"
	"github.com/thenextevent/site-api/internal/utils"
)

const contentColumns = `id, content_key, section_key, name, name_ar, description, description_ar,
	media_url, is_active, sort_order, created_at, updated_at`

// ContentRepository handles data access for website content blocks.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository creates a new ContentRepository.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// ContentFilter holds filters for admin content listings.
type ContentFilter struct {
	Search     *string
	SectionKey *string
	IsActive   *bool
	Page       int
	Limit      int
}

// ContentListResult contains paginated content results.
type ContentListResult struct {
	Items      []models.WebsiteContent
	TotalItems int
	TotalPages int
	Page       int
	Limit      int
}

// ContentBulkUpdate holds the fields a bulk update may rewrite. Nil fields are
// left untouched.
type ContentBulkUpdate struct {
	SectionKey *string
	IsActive   *bool
	SortOrder  *int
}

func (r *ContentRepository) Create(content *models.WebsiteContent) error {
	const q = `
		INSERT INTO website_contents (
			content_key, section_key, name, name_ar, description, description_ar,
			media_url, is_active, sort_order
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(q,
		content.ContentKey, content.SectionKey, content.Name, content.NameAR,
		content.Description, content.DescriptionAR, content.MediaURL,
		content.IsActive, content.SortOrder,
	).Scan(&content.ID, &content.CreatedAt, &content.UpdatedAt)
	if isUniqueViolation(err) {
		return utils.ErrDuplicateContentKey
	}
	return err
}

func (r *ContentRepository) Update(content *models.WebsiteContent) error {
	const q = `
		UPDATE website_contents SET
			content_key = $2,
			section_key = $3,
			name = $4,
			name_ar = $5,
			description = $6,
			description_ar = $7,
			media_url = $8,
			is_active = $9,
			sort_order = $10,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(q,
		content.ID, content.ContentKey, content.SectionKey, content.Name, content.NameAR,
		content.Description, content.DescriptionAR, content.MediaURL,
		content.IsActive, content.SortOrder,
	).Scan(&content.UpdatedAt)
	if isUniqueViolation(err) {
		return utils.ErrDuplicateContentKey
	}
	return err
}

func (r *ContentRepository) GetByID(id int) (*models.WebsiteContent, error) {
	var c models.WebsiteContent
	q := fmt.Sprintf(`SELECT %s FROM website_contents WHERE id = $1`, contentColumns)
	if err := r.db.Get(&c, q, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByKey returns the active block with the given content key. Inactive
// blocks are invisible to the public site.
func (r *ContentRepository) GetByKey(contentKey string) (*models.WebsiteContent, error) {
	var c models.WebsiteContent
	q := fmt.Sprintf(`SELECT %s FROM website_contents WHERE content_key = $1 AND is_active = TRUE`, contentColumns)
	if err := r.db.Get(&c, q, contentKey); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetAll returns content blocks for admin with filters and pagination, ordered
// by sort_order then content_key.
func (r *ContentRepository) GetAll(filter *ContentFilter) (*ContentListResult, error) {
	baseQ := `FROM website_contents WHERE 1=1`

	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		baseQ += fmt.Sprintf(" AND (content_key ILIKE $%d OR name ILIKE $%d OR description ILIKE $%d)",
			argIdx, argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.SectionKey != nil && *filter.SectionKey != "" {
		baseQ += fmt.Sprintf(" AND section_key = $%d", argIdx)
		args = append(args, *filter.SectionKey)
		argIdx++
	}
	if filter.IsActive != nil {
		baseQ += fmt.Sprintf(" AND is_active = $%d", argIdx)
		args = append(args, *filter.IsActive)
		argIdx++
	}

	countQ := "SELECT COUNT(*) " + baseQ
	var total int
	if err := r.db.Get(&total, countQ, args...); err != nil {
		return nil, err
	}

	p := NormalizePagination(filter.Page, filter.Limit)

	selectQ := fmt.Sprintf("SELECT %s %s ORDER BY sort_order ASC, content_key ASC LIMIT $%d OFFSET $%d",
		contentColumns, baseQ, argIdx, argIdx+1)
	args = append(args, p.Limit, p.Offset)

	var items []models.WebsiteContent
	if err := r.db.Select(&items, selectQ, args...); err != nil {
		return nil, err
	}

	return &ContentListResult{
		Items:      items,
		TotalItems: total,
		TotalPages: TotalPages(total, p.Limit),
		Page:       p.Page,
		Limit:      p.Limit,
	}, nil
}

// GetActive returns active blocks in display order. An empty sectionKey means
// all sections.
func (r *ContentRepository) GetActive(sectionKey string) ([]models.WebsiteContent, error) {
	q := fmt.Sprintf(`SELECT %s FROM website_contents WHERE is_active = TRUE`, contentColumns)
	args := []interface{}{}
	if sectionKey != "" {
		q += " AND section_key = $1"
		args = append(args, sectionKey)
	}
	q += " ORDER BY sort_order ASC, content_key ASC"

	var list []models.WebsiteContent
	if err := r.db.Select(&list, q, args...); err != nil {
		return nil, err
	}
	return list, nil
}

// SetSortOrder moves one block to a new display position.
func (r *ContentRepository) SetSortOrder(id, sortOrder int) error {
	res, err := r.db.Exec(
		`UPDATE website_contents SET sort_order = $2, updated_at = NOW() WHERE id = $1`,
		id, sortOrder)
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

// ToggleActive flips the active flag and returns the updated row.
func (r *ContentRepository) ToggleActive(id int) (*models.WebsiteContent, error) {
	var c models.WebsiteContent
	q := fmt.Sprintf(`
		UPDATE website_contents SET is_active = NOT is_active, updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, contentColumns)
	if err := r.db.Get(&c, q, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// BulkUpdate applies the non-nil fields to every listed block and returns the
// number of rows touched. Unknown IDs are skipped.
func (r *ContentRepository) BulkUpdate(ids []int, upd *ContentBulkUpdate) (int64, error) {
	q := `UPDATE website_contents SET updated_at = NOW()`
	args := []interface{}{pq.Array(ids)}
	argIdx := 2

	if upd.SectionKey != nil {
		q += fmt.Sprintf(", section_key = $%d", argIdx)
		args = append(args, *upd.SectionKey)
		argIdx++
	}
	if upd.IsActive != nil {
		q += fmt.Sprintf(", is_active = $%d", argIdx)
		args = append(args, *upd.IsActive)
		argIdx++
	}
	if upd.SortOrder != nil {
		q += fmt.Sprintf(", sort_order = $%d", argIdx)
		args = append(args, *upd.SortOrder)
		argIdx++
	}

	q += " WHERE id = ANY($1)"

	res, err := r.db.Exec(q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ContentRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM website_contents WHERE id = $1`, id)
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
