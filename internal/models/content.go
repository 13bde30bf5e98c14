package models

import "time"

// WebsiteContent is a single editable block of the marketing site, addressed
// by its unique content_key and grouped into sections.
type WebsiteContent struct {
	ID            int       `db:"id" json:"id"`
	ContentKey    string    `db:"content_key" json:"contentKey"`
	SectionKey    string    `db:"section_key" json:"sectionKey"`
	Name          string    `db:"name" json:"name"`
	NameAR        string    `db:"name_ar" json:"nameAR"`
	Description   string    `db:"description" json:"description"`
	DescriptionAR string    `db:"description_ar" json:"descriptionAR"`
	MediaURL      string    `db:"media_url" json:"mediaUrl"`
	IsActive      bool      `db:"is_active" json:"isActive"`
	SortOrder     int       `db:"sort_order" json:"sortOrder"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}
