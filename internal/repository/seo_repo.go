package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/thenextevent/site-api/internal/models"
	"github.com/thenextevent/site-api/internal/utils"
)

const seoColumns = `id, page_url, title, title_ar, description, description_ar,
	keywords, keywords_ar, og_title, og_title_ar, og_description, og_description_ar,
	og_image, canonical_url, is_active, created_at, updated_at`

// SeoRepository handles data access for per-page SEO metadata.
type SeoRepository struct {
	db *sqlx.DB
}

// NewSeoRepository creates a new SeoRepository.
func NewSeoRepository(db *sqlx.DB) *SeoRepository {
	return &SeoRepository{db: db}
}

// SeoFilter holds filters for admin metadata listings.
type SeoFilter struct {
	Search   *string
	IsActive *bool
	Page     int
	Limit    int
}

// SeoListResult contains paginated metadata results.
type SeoListResult struct {
	Items      []models.SeoMetadata
	TotalItems int
	TotalPages int
	Page       int
	Limit      int
}

func (r *SeoRepository) Create(meta *models.SeoMetadata) error {
	const q = `
		INSERT INTO seo_metadata (
			page_url, title, title_ar, description, description_ar,
			keywords, keywords_ar, og_title, og_title_ar,
			og_description, og_description_ar, og_image, canonical_url, is_active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(q,
		meta.PageURL, meta.Title, meta.TitleAR, meta.Description, meta.DescriptionAR,
		meta.Keywords, meta.KeywordsAR, meta.OgTitle, meta.OgTitleAR,
		meta.OgDescription, meta.OgDescriptionAR, meta.OgImage, meta.CanonicalURL, meta.IsActive,
	).Scan(&meta.ID, &meta.CreatedAt, &meta.UpdatedAt)
	if isUniqueViolation(err) {
		return utils.ErrDuplicatePageURL
	}
	return err
}

func (r *SeoRepository) Update(meta *models.SeoMetadata) error {
	const q = `
		UPDATE seo_metadata SET
			page_url = $2,
			title = $3,
			title_ar = $4,
			description = $5,
			description_ar = $6,
			keywords = $7,
			keywords_ar = $8,
			og_title = $9,
			og_title_ar = $10,
			og_description = $11,
			og_description_ar = $12,
			og_image = $13,
			canonical_url = $14,
			is_active = $15,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(q,
		meta.ID, meta.PageURL, meta.Title, meta.TitleAR, meta.Description, meta.DescriptionAR,
		meta.Keywords, meta.KeywordsAR, meta.OgTitle, meta.OgTitleAR,
		meta.OgDescription, meta.OgDescriptionAR, meta.OgImage, meta.CanonicalURL, meta.IsActive,
	).Scan(&meta.UpdatedAt)
	if isUniqueViolation(err) {
		return utils.ErrDuplicatePageURL
	}
	return err
}

func (r *SeoRepository) GetByID(id int) (*models.SeoMetadata, error) {
	var m models.SeoMetadata
	q := fmt.Sprintf(`SELECT %s FROM seo_metadata WHERE id = $1`, seoColumns)
	if err := r.db.Get(&m, q, id); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetActiveByURL returns the active metadata row for a page URL. Inactive rows
// are invisible to the public site.
func (r *SeoRepository) GetActiveByURL(pageURL string) (*models.SeoMetadata, error) {
	var m models.SeoMetadata
	q := fmt.Sprintf(`SELECT %s FROM seo_metadata WHERE page_url = $1 AND is_active = TRUE`, seoColumns)
	if err := r.db.Get(&m, q, pageURL); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetAll returns metadata rows for admin with filters and pagination, ordered
// by page_url.
func (r *SeoRepository) GetAll(filter *SeoFilter) (*SeoListResult, error) {
	baseQ := `FROM seo_metadata WHERE 1=1`

	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		baseQ += fmt.Sprintf(" AND (page_url ILIKE $%d OR title ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
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

	selectQ := fmt.Sprintf("SELECT %s %s ORDER BY page_url ASC LIMIT $%d OFFSET $%d",
		seoColumns, baseQ, argIdx, argIdx+1)
	args = append(args, p.Limit, p.Offset)

	var items []models.SeoMetadata
	if err := r.db.Select(&items, selectQ, args...); err != nil {
		return nil, err
	}

	return &SeoListResult{
		Items:      items,
		TotalItems: total,
		TotalPages: TotalPages(total, p.Limit),
		Page:       p.Page,
		Limit:      p.Limit,
	}, nil
}

// GetAllForAnalytics returns every row, active or not, ordered by page_url.
func (r *SeoRepository) GetAllForAnalytics() ([]models.SeoMetadata, error) {
	var items []models.SeoMetadata
	q := fmt.Sprintf(`SELECT %s FROM seo_metadata ORDER BY page_url ASC`, seoColumns)
	if err := r.db.Select(&items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// GetAllActive returns every active row ordered by page_url, for sitemap
// generation.
func (r *SeoRepository) GetAllActive() ([]models.SeoMetadata, error) {
	var items []models.SeoMetadata
	q := fmt.Sprintf(`SELECT %s FROM seo_metadata WHERE is_active = TRUE ORDER BY page_url ASC`, seoColumns)
	if err := r.db.Select(&items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// SeoBulkUpdate holds the fields a bulk update may rewrite. Nil fields are
// left untouched.
type SeoBulkUpdate struct {
	IsActive *bool
}

// BulkUpdate applies the non-nil fields to every listed row and returns the
// number of rows touched. Unknown IDs are skipped.
func (r *SeoRepository) BulkUpdate(ids []int, upd *SeoBulkUpdate) (int64, error) {
	q := `UPDATE seo_metadata SET updated_at = NOW()`
	args := []interface{}{pq.Array(ids)}
	argIdx := 2

	if upd.IsActive != nil {
		q += fmt.Sprintf(", is_active = $%d", argIdx)
		args = append(args, *upd.IsActive)
		argIdx++
	}

	q += " WHERE id = ANY($1)"

	res, err := r.db.Exec(q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SeoRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM seo_metadata WHERE id = $1`, id)
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
