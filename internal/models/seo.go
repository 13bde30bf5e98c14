package models

import "time"

// SeoMetadata holds per-page SEO tags for the marketing site, including
// Arabic localizations and Open Graph fields.
type SeoMetadata struct {
	ID              int       `db:"id" json:"id"`
	PageURL         string    `db:"page_url" json:"pageUrl"`
	Title           string    `db:"title" json:"title"`
	TitleAR         string    `db:"title_ar" json:"titleAR"`
	Description     string    `db:"description" json:"description"`
	DescriptionAR   string    `db:"description_ar" json:"descriptionAR"`
	Keywords        string    `db:"keywords" json:"keywords"`
	KeywordsAR      string    `db:"keywords_ar" json:"keywordsAR"`
	OgTitle         string    `db:"og_title" json:"ogTitle"`
	OgTitleAR       string    `db:"og_title_ar" json:"ogTitleAR"`
	OgDescription   string    `db:"og_description" json:"ogDescription"`
	OgDescriptionAR string    `db:"og_description_ar" json:"ogDescriptionAR"`
	OgImage         string    `db:"og_image" json:"ogImage"`
	CanonicalURL    string    `db:"canonical_url" json:"canonicalUrl"`
	IsActive        bool      `db:"is_active" json:"isActive"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}
