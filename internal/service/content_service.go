package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/thenextevent/site-api/internal/models"
	"github.com/thenextevent/site-api/internal/repository"
	"github.com/thenextevent/site-api/internal/utils"
)

// contentStore is the data access surface ContentService needs.
type contentStore interface {
	Create(content *models.WebsiteContent) error
	Update(content *models.WebsiteContent) error
	GetByID(id int) (*models.WebsiteContent, error)
	GetByKey(contentKey string) (*models.WebsiteContent, error)
	GetAll(filter *repository.ContentFilter) (*repository.ContentListResult, error)
	GetActive(sectionKey string) ([]models.WebsiteContent, error)
	SetSortOrder(id, sortOrder int) error
	ToggleActive(id int) (*models.WebsiteContent, error)
	BulkUpdate(ids []int, upd *repository.ContentBulkUpdate) (int64, error)
	Delete(id int) error
}

// ContentService manages the editable content blocks of the marketing site.
type ContentService struct {
	contents contentStore
}

// NewContentService creates a new ContentService.
func NewContentService(contents contentStore) *ContentService {
	return &ContentService{contents: contents}
}

// List returns content blocks for the admin dashboard, filtered and paginated.
func (s *ContentService) List(filter *repository.ContentFilter) (*repository.ContentListResult, error) {
	return s.contents.GetAll(filter)
}

// GetByID returns one block.
func (s *ContentService) GetByID(id int) (*models.WebsiteContent, error) {
	content, err := s.contents.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	return content, nil
}

// GetByKey returns the active block with the given content key. Hidden
// blocks are indistinguishable from missing ones.
func (s *ContentService) GetByKey(contentKey string) (*models.WebsiteContent, error) {
	content, err := s.contents.GetByKey(contentKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	if !content.IsActive {
		return nil, utils.ErrNotFound
	}
	return content, nil
}

// GetBySection returns the active blocks of one section, in display order.
func (s *ContentService) GetBySection(sectionKey string) ([]models.WebsiteContent, error) {
	return s.contents.GetActive(sectionKey)
}

// GetByLanguage returns all active blocks with the primary name and
// description swapped to the requested language. Only "ar" triggers a swap;
// anything else serves the default fields.
func (s *ContentService) GetByLanguage(lang string) ([]models.WebsiteContent, error) {
	list, err := s.contents.GetActive("")
	if err != nil {
		return nil, err
	}

	if lang == "ar" {
		for i := range list {
			if list[i].NameAR != "" {
				list[i].Name = list[i].NameAR
			}
			if list[i].DescriptionAR != "" {
				list[i].Description = list[i].DescriptionAR
			}
		}
	}
	return list, nil
}

// Create adds a new block. The content key must be unique.
func (s *ContentService) Create(content *models.WebsiteContent) error {
	if content.ContentKey == "" {
		return fmt.Errorf("%w: contentKey is required", utils.ErrValidation)
	}
	if err := s.contents.Create(content); err != nil {
		return err
	}
	log.Info().Int("content_id", content.ID).Str("content_key", content.ContentKey).Msg("Content created")
	return nil
}

// Update rewrites an existing block.
func (s *ContentService) Update(content *models.WebsiteContent) error {
	if content.ContentKey == "" {
		return fmt.Errorf("%w: contentKey is required", utils.ErrValidation)
	}
	if _, err := s.GetByID(content.ID); err != nil {
		return err
	}
	return s.contents.Update(content)
}

// SetSortOrder moves a block to a new display position.
func (s *ContentService) SetSortOrder(id, sortOrder int) error {
	return s.contents.SetSortOrder(id, sortOrder)
}

// ToggleActive flips a block's visibility and returns the updated row.
func (s *ContentService) ToggleActive(id int) (*models.WebsiteContent, error) {
	content, err := s.contents.ToggleActive(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("failed to toggle content: %w", err)
	}
	log.Info().Int("content_id", id).Bool("is_active", content.IsActive).Msg("Content visibility toggled")
	return content, nil
}

// BulkUpdate applies the given fields to every listed block. An empty ID list
// or a payload with no fields is a no-op.
func (s *ContentService) BulkUpdate(ids []int, upd *repository.ContentBulkUpdate) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if upd.SectionKey == nil && upd.IsActive == nil && upd.SortOrder == nil {
		return 0, nil
	}
	count, err := s.contents.BulkUpdate(ids, upd)
	if err != nil {
		return 0, err
	}
	log.Info().Int64("count", count).Msg("Content bulk updated")
	return int(count), nil
}

// Delete removes a block permanently.
func (s *ContentService) Delete(id int) error {
	if err := s.contents.Delete(id); err != nil {
		return err
	}
	log.Info().Int("content_id", id).Msg("Content deleted")
	return nil
}
