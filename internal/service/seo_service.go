package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/thenextevent/site-api/internal/models"
	"github.com/thenextevent/site-api/internal/repository"
	"github.com/thenextevent/site-api/internal/utils"
)

// seoStore is the data access surface SeoService needs.
type seoStore interface {
	Create(meta *models.SeoMetadata) error
	Update(meta *models.SeoMetadata) error
	GetByID(id int) (*models.SeoMetadata, error)
	GetActiveByURL(pageURL string) (*models.SeoMetadata, error)
	GetAll(filter *repository.SeoFilter) (*repository.SeoListResult, error)
	GetAllActive() ([]models.SeoMetadata, error)
	GetAllForAnalytics() ([]models.SeoMetadata, error)
	BulkUpdate(ids []int, upd *repository.SeoBulkUpdate) (int64, error)
	Delete(id int) error
}

// seoCache is the lookup cache surface SeoService needs.
type seoCache interface {
	Get(ctx context.Context, pageURL string) (*models.SeoMetadata, error)
	Set(ctx context.Context, meta *models.SeoMetadata) error
	Invalidate(ctx context.Context, pageURLs ...string) error
	InvalidateAll(ctx context.Context) error
}

// Recommended on-page lengths. Values outside these are flagged as
// recommendations, not errors.
const (
	titleMinLength       = 30
	titleMaxLength       = 60
	descriptionMinLength = 120
	descriptionMaxLength = 160
)

// SeoService manages per-page SEO metadata and the generated sitemap and
// robots.txt.
type SeoService struct {
	seo     seoStore
	cache   seoCache
	baseURL string
}

// NewSeoService creates a new SeoService. baseURL is the public site origin
// used in the sitemap and robots.txt, without a trailing slash.
func NewSeoService(seo seoStore, cache seoCache, baseURL string) *SeoService {
	return &SeoService{
		seo:     seo,
		cache:   cache,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// List returns metadata rows for the admin dashboard.
func (s *SeoService) List(filter *repository.SeoFilter) (*repository.SeoListResult, error) {
	return s.seo.GetAll(filter)
}

// GetByID returns one row, active or not.
func (s *SeoService) GetByID(id int) (*models.SeoMetadata, error) {
	meta, err := s.seo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load seo metadata: %w", err)
	}
	return meta, nil
}

// GetByURL returns the active metadata for a page, serving from cache when
// possible. Cache failures fall through to the database.
func (s *SeoService) GetByURL(ctx context.Context, pageURL string) (*models.SeoMetadata, error) {
	if cached, err := s.cache.Get(ctx, pageURL); err != nil {
		log.Warn().Err(err).Str("page_url", pageURL).Msg("Seo cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	meta, err := s.seo.GetActiveByURL(pageURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load seo metadata: %w", err)
	}

	if err := s.cache.Set(ctx, meta); err != nil {
		log.Warn().Err(err).Str("page_url", pageURL).Msg("Seo cache write failed")
	}
	return meta, nil
}

// Create adds metadata for a new page. The page URL must be unique.
func (s *SeoService) Create(ctx context.Context, meta *models.SeoMetadata) error {
	meta.PageURL = normalizePageURL(meta.PageURL)
	if meta.PageURL == "" {
		return fmt.Errorf("%w: pageUrl is required", utils.ErrValidation)
	}
	if err := s.seo.Create(meta); err != nil {
		return err
	}
	s.invalidate(ctx, meta.PageURL)
	log.Info().Int("seo_id", meta.ID).Str("page_url", meta.PageURL).Msg("Seo metadata created")
	return nil
}

// Update rewrites a row, invalidating both the old and new page URL.
func (s *SeoService) Update(ctx context.Context, meta *models.SeoMetadata) error {
	meta.PageURL = normalizePageURL(meta.PageURL)
	if meta.PageURL == "" {
		return fmt.Errorf("%w: pageUrl is required", utils.ErrValidation)
	}

	existing, err := s.GetByID(meta.ID)
	if err != nil {
		return err
	}
	if err := s.seo.Update(meta); err != nil {
		return err
	}
	s.invalidate(ctx, existing.PageURL, meta.PageURL)
	return nil
}

// Delete removes a row permanently.
func (s *SeoService) Delete(ctx context.Context, id int) error {
	existing, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.seo.Delete(id); err != nil {
		return err
	}
	s.invalidate(ctx, existing.PageURL)
	log.Info().Int("seo_id", id).Str("page_url", existing.PageURL).Msg("Seo metadata deleted")
	return nil
}

func (s *SeoService) invalidate(ctx context.Context, pageURLs ...string) {
	if err := s.cache.Invalidate(ctx, pageURLs...); err != nil {
		log.Warn().Err(err).Strs("page_urls", pageURLs).Msg("Seo cache invalidation failed")
	}
}

// BulkUpdate applies the given fields to every listed row. The whole cache is
// flushed rather than tracking every affected URL.
func (s *SeoService) BulkUpdate(ctx context.Context, ids []int, upd *repository.SeoBulkUpdate) (int, error) {
	if len(ids) == 0 || upd.IsActive == nil {
		return 0, nil
	}
	count, err := s.seo.BulkUpdate(ids, upd)
	if err != nil {
		return 0, err
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("Seo cache flush failed")
	}
	log.Info().Int64("count", count).Msg("Seo metadata bulk updated")
	return int(count), nil
}

// ValidationResult is the outcome of checking one page's metadata.
type ValidationResult struct {
	IsValid         bool     `json:"isValid"`
	Errors          []string `json:"errors"`
	Recommendations []string `json:"recommendations"`
}

// Validate checks metadata against on-page SEO guidelines. Missing title or
// description makes the result invalid; everything else is advisory.
func (s *SeoService) Validate(meta *models.SeoMetadata) *ValidationResult {
	result := &ValidationResult{
		Errors:          []string{},
		Recommendations: []string{},
	}

	titleLen := utf8.RuneCountInString(meta.Title)
	switch {
	case titleLen == 0:
		result.Errors = append(result.Errors, "Title is required")
	case titleLen < titleMinLength:
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("Title is shorter than %d characters; consider a more descriptive title", titleMinLength))
	case titleLen > titleMaxLength:
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("Title exceeds %d characters and may be truncated in search results", titleMaxLength))
	}

	descLen := utf8.RuneCountInString(meta.Description)
	switch {
	case descLen == 0:
		result.Errors = append(result.Errors, "Description is required")
	case descLen < descriptionMinLength:
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("Description is shorter than %d characters; consider expanding it", descriptionMinLength))
	case descLen > descriptionMaxLength:
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("Description exceeds %d characters and may be truncated in search results", descriptionMaxLength))
	}

	if meta.Keywords == "" {
		result.Recommendations = append(result.Recommendations, "Consider adding keywords")
	}
	if meta.OgTitle == "" {
		result.Recommendations = append(result.Recommendations, "Consider adding an Open Graph title for social sharing")
	}
	if meta.OgDescription == "" {
		result.Recommendations = append(result.Recommendations, "Consider adding an Open Graph description for social sharing")
	}
	if meta.OgImage == "" {
		result.Recommendations = append(result.Recommendations, "Consider adding an Open Graph image for social sharing")
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// ValidateByID runs Validate against a stored row.
func (s *SeoService) ValidateByID(id int) (*ValidationResult, error) {
	meta, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.Validate(meta), nil
}

// PageIssues lists the validation problems of one stored page.
type PageIssues struct {
	PageURL         string   `json:"pageUrl"`
	Errors          []string `json:"errors"`
	Recommendations []string `json:"recommendations"`
}

// Analytics is a site-wide metadata health summary.
type Analytics struct {
	TotalPages              int          `json:"totalPages"`
	ActivePages             int          `json:"activePages"`
	InactivePages           int          `json:"inactivePages"`
	RecentlyUpdatedPages    int          `json:"recentlyUpdatedPages"`
	PagesWithoutTitle       int          `json:"pagesWithoutTitle"`
	PagesWithoutDescription int          `json:"pagesWithoutDescription"`
	PagesWithoutKeywords    int          `json:"pagesWithoutKeywords"`
	PagesWithoutOgImage     int          `json:"pagesWithoutOgImage"`
	PagesWithIssues         int          `json:"pagesWithIssues"`
	Issues                  []PageIssues `json:"issues"`
}

// Analytics surveys every page: totals, updates inside the given window in
// days, per-field gaps, and validation issues on the active pages.
func (s *SeoService) Analytics(days int) (*Analytics, error) {
	if days <= 0 {
		days = 30
	}
	pages, err := s.seo.GetAllForAnalytics()
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	out := &Analytics{
		TotalPages: len(pages),
		Issues:     []PageIssues{},
	}
	for i := range pages {
		p := &pages[i]
		if p.IsActive {
			out.ActivePages++
		} else {
			out.InactivePages++
		}
		if p.UpdatedAt.After(cutoff) {
			out.RecentlyUpdatedPages++
		}
		if p.Title == "" {
			out.PagesWithoutTitle++
		}
		if p.Description == "" {
			out.PagesWithoutDescription++
		}
		if p.Keywords == "" {
			out.PagesWithoutKeywords++
		}
		if p.OgImage == "" {
			out.PagesWithoutOgImage++
		}

		if !p.IsActive {
			continue
		}
		r := s.Validate(p)
		if len(r.Errors) == 0 && len(r.Recommendations) == 0 {
			continue
		}
		out.PagesWithIssues++
		out.Issues = append(out.Issues, PageIssues{
			PageURL:         p.PageURL,
			Errors:          r.Errors,
			Recommendations: r.Recommendations,
		})
	}
	return out, nil
}

// Recommendations groups active pages by the improvement they need.
type Recommendations struct {
	MissingTitles       []string `json:"missingTitles"`
	ShortTitles         []string `json:"shortTitles"`
	MissingDescriptions []string `json:"missingDescriptions"`
	MissingOgImages     []string `json:"missingOgImages"`
}

// Recommendations surveys every active page for the most common gaps.
func (s *SeoService) Recommendations() (*Recommendations, error) {
	pages, err := s.seo.GetAllActive()
	if err != nil {
		return nil, err
	}

	out := &Recommendations{
		MissingTitles:       []string{},
		ShortTitles:         []string{},
		MissingDescriptions: []string{},
		MissingOgImages:     []string{},
	}
	for i := range pages {
		p := &pages[i]
		switch {
		case p.Title == "":
			out.MissingTitles = append(out.MissingTitles, p.PageURL)
		case utf8.RuneCountInString(p.Title) < titleMinLength:
			out.ShortTitles = append(out.ShortTitles, p.PageURL)
		}
		if p.Description == "" {
			out.MissingDescriptions = append(out.MissingDescriptions, p.PageURL)
		}
		if p.OgImage == "" {
			out.MissingOgImages = append(out.MissingOgImages, p.PageURL)
		}
	}
	return out, nil
}

// Sitemap renders sitemap.xml for the public site: the homepage first, then
// every active non-root page.
func (s *SeoService) Sitemap() (string, error) {
	pages, err := s.seo.GetAllActive()
	if err != nil {
		return "", fmt.Errorf("failed to load pages: %w", err)
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")

	b.WriteString("  <url>\n")
	b.WriteString(fmt.Sprintf("    <loc>%s/</loc>\n", s.baseURL))
	b.WriteString("    <changefreq>weekly</changefreq>\n")
	b.WriteString("    <priority>1.0</priority>\n")
	b.WriteString("  </url>\n")

	for _, p := range pages {
		if p.PageURL == "/" || p.PageURL == "" {
			continue
		}
		b.WriteString("  <url>\n")
		b.WriteString(fmt.Sprintf("    <loc>%s%s</loc>\n", s.baseURL, p.PageURL))
		b.WriteString(fmt.Sprintf("    <lastmod>%s</lastmod>\n", p.UpdatedAt.Format("2006-01-02")))
		b.WriteString("    <changefreq>monthly</changefreq>\n")
		b.WriteString("    <priority>0.8</priority>\n")
		b.WriteString("  </url>\n")
	}

	b.WriteString("</urlset>\n")
	return b.String(), nil
}

// Robots renders robots.txt, pointing crawlers at the sitemap.
func (s *SeoService) Robots() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /admin/\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Sitemap: %s/api/seo/sitemap.xml\n", s.baseURL))
	return b.String()
}

// normalizePageURL trims whitespace and guarantees a leading slash.
func normalizePageURL(pageURL string) string {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return ""
	}
	if !strings.HasPrefix(pageURL, "/") {
		pageURL = "/" + pageURL
	}
	return pageURL
}
