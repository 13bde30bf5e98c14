package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thenextevent/site-api/internal/models"
	"github.com/thenextevent/site-api/internal/repository"
)

// MockSeoStore is a mock implementation of seoStore.
type MockSeoStore struct {
	mock.Mock
}

func (m *MockSeoStore) Create(meta *models.SeoMetadata) error {
	args := m.Called(meta)
	return args.Error(0)
}

func (m *MockSeoStore) Update(meta *models.SeoMetadata) error {
	args := m.Called(meta)
	return args.Error(0)
}

func (m *MockSeoStore) GetByID(id int) (*models.SeoMetadata, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SeoMetadata), args.Error(1)
}

func (m *MockSeoStore) GetActiveByURL(pageURL string) (*models.SeoMetadata, error) {
	args := m.Called(pageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SeoMetadata), args.Error(1)
}

func (m *MockSeoStore) GetAll(filter *repository.SeoFilter) (*repository.SeoListResult, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SeoListResult), args.Error(1)
}

func (m *MockSeoStore) GetAllActive() ([]models.SeoMetadata, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SeoMetadata), args.Error(1)
}

func (m *MockSeoStore) GetAllForAnalytics() ([]models.SeoMetadata, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SeoMetadata), args.Error(1)
}

func (m *MockSeoStore) BulkUpdate(ids []int, upd *repository.SeoBulkUpdate) (int64, error) {
	args := m.Called(ids, upd)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSeoStore) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

// fakeSeoCache is an in-memory seoCache.
type fakeSeoCache struct {
	entries map[string]*models.SeoMetadata
}

func newFakeSeoCache() *fakeSeoCache {
	return &fakeSeoCache{entries: map[string]*models.SeoMetadata{}}
}

func (c *fakeSeoCache) Get(_ context.Context, pageURL string) (*models.SeoMetadata, error) {
	return c.entries[pageURL], nil
}

func (c *fakeSeoCache) Set(_ context.Context, meta *models.SeoMetadata) error {
	c.entries[meta.PageURL] = meta
	return nil
}

func (c *fakeSeoCache) Invalidate(_ context.Context, pageURLs ...string) error {
	for _, u := range pageURLs {
		delete(c.entries, u)
	}
	return nil
}

func (c *fakeSeoCache) InvalidateAll(context.Context) error {
	c.entries = map[string]*models.SeoMetadata{}
	return nil
}

func newSeoService(store *MockSeoStore) (*SeoService, *fakeSeoCache) {
	cache := newFakeSeoCache()
	return NewSeoService(store, cache, "https://thenextevent.com"), cache
}

func TestValidateTitleBoundaries(t *testing.T) {
	svc, _ := newSeoService(new(MockSeoStore))
	desc := strings.Repeat("d", 130)

	tests := []struct {
		name        string
		title       string
		wantValid   bool
		wantRecSub  string
		wantErrsLen int
	}{
		{"empty title", "", false, "", 1},
		{"29 chars too short", strings.Repeat("t", 29), true, "shorter", 0},
		{"30 chars ok", strings.Repeat("t", 30), true, "", 0},
		{"60 chars ok", strings.Repeat("t", 60), true, "", 0},
		{"61 chars too long", strings.Repeat("t", 61), true, "exceeds", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.Validate(&models.SeoMetadata{
				Title:         tt.title,
				Description:   desc,
				Keywords:      "a,b",
				OgTitle:       "x",
				OgDescription: "x",
				OgImage:       "x",
			})
			assert.Equal(t, tt.wantValid, result.IsValid)
			assert.Len(t, result.Errors, tt.wantErrsLen)
			if tt.wantRecSub == "" {
				assert.Empty(t, result.Recommendations)
			} else {
				require.Len(t, result.Recommendations, 1)
				assert.Contains(t, strings.ToLower(result.Recommendations[0]), tt.wantRecSub)
			}
		})
	}
}

func TestValidateDescriptionRequired(t *testing.T) {
	svc, _ := newSeoService(new(MockSeoStore))
	result := svc.Validate(&models.SeoMetadata{Title: strings.Repeat("t", 40)})

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Description")
	// Missing keywords and OG fields surface as recommendations.
	assert.NotEmpty(t, result.Recommendations)
}

func TestValidateCountsRunesNotBytes(t *testing.T) {
	svc, _ := newSeoService(new(MockSeoStore))
	// 35 Arabic characters: well over 60 bytes but within the length limits.
	result := svc.Validate(&models.SeoMetadata{
		Title:         strings.Repeat("م", 35),
		Description:   strings.Repeat("م", 130),
		Keywords:      "a",
		OgTitle:       "x",
		OgDescription: "x",
		OgImage:       "x",
	})
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Recommendations)
}

func TestSitemapIncludesHomepageAndActivePages(t *testing.T) {
	store := new(MockSeoStore)
	store.On("GetAllActive").Return([]models.SeoMetadata{
		{PageURL: "/", UpdatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		{PageURL: "/about", UpdatedAt: time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)},
	}, nil)

	svc, _ := newSeoService(store)
	xml, err := svc.Sitemap()
	require.NoError(t, err)

	assert.Contains(t, xml, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, xml, "<loc>https://thenextevent.com/</loc>")
	assert.Contains(t, xml, "<loc>https://thenextevent.com/about</loc>")
	assert.Contains(t, xml, "<lastmod>2026-01-05</lastmod>")
	assert.Contains(t, xml, "<changefreq>weekly</changefreq>")
	assert.Contains(t, xml, "<priority>1.0</priority>")
	assert.Contains(t, xml, "<changefreq>monthly</changefreq>")
	// The root row must not appear twice.
	assert.Equal(t, 1, strings.Count(xml, "<loc>https://thenextevent.com/</loc>"))
}

func TestRobotsPointsAtSitemap(t *testing.T) {
	svc, _ := newSeoService(new(MockSeoStore))
	robots := svc.Robots()

	assert.Contains(t, robots, "User-agent: *")
	assert.Contains(t, robots, "Disallow: /admin/")
	assert.Contains(t, robots, "Sitemap: https://thenextevent.com/api/seo/sitemap.xml")
}

func TestGetByURLServesFromCache(t *testing.T) {
	store := new(MockSeoStore)
	svc, cache := newSeoService(store)

	cached := &models.SeoMetadata{PageURL: "/about", Title: "About"}
	cache.entries["/about"] = cached

	meta, err := svc.GetByURL(context.Background(), "/about")
	require.NoError(t, err)
	assert.Equal(t, "About", meta.Title)
	store.AssertNotCalled(t, "GetActiveByURL", mock.Anything)
}

func TestGetByURLPopulatesCacheOnMiss(t *testing.T) {
	store := new(MockSeoStore)
	store.On("GetActiveByURL", "/about").Return(&models.SeoMetadata{PageURL: "/about", Title: "About"}, nil).Once()

	svc, cache := newSeoService(store)
	_, err := svc.GetByURL(context.Background(), "/about")
	require.NoError(t, err)
	assert.NotNil(t, cache.entries["/about"])
}

func TestSeoBulkUpdateFlushesCache(t *testing.T) {
	inactive := false
	store := new(MockSeoStore)
	store.On("BulkUpdate", []int{1, 2}, mock.MatchedBy(func(u *repository.SeoBulkUpdate) bool {
		return u.IsActive != nil && !*u.IsActive
	})).Return(int64(2), nil)

	svc, cache := newSeoService(store)
	cache.entries["/about"] = &models.SeoMetadata{PageURL: "/about"}

	count, err := svc.BulkUpdate(context.Background(), []int{1, 2}, &repository.SeoBulkUpdate{IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Empty(t, cache.entries)
}

func TestSeoBulkUpdateSkipsEmptyInput(t *testing.T) {
	svc, _ := newSeoService(new(MockSeoStore))

	count, err := svc.BulkUpdate(context.Background(), nil, &repository.SeoBulkUpdate{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAnalyticsCountsFieldGapsAndActivity(t *testing.T) {
	fresh := time.Now().AddDate(0, 0, -2)
	stale := time.Now().AddDate(0, 0, -90)

	store := new(MockSeoStore)
	store.On("GetAllForAnalytics").Return([]models.SeoMetadata{
		{
			PageURL: "/", IsActive: true, UpdatedAt: fresh,
			Title:       strings.Repeat("t", 40),
			Description: strings.Repeat("d", 130),
			Keywords:    "a", OgTitle: "x", OgDescription: "x", OgImage: "x",
		},
		{
			// Inactive pages count toward the field gaps but produce no issues.
			PageURL: "/old", IsActive: false, UpdatedAt: stale,
			Title: "", Description: "", Keywords: "", OgImage: "",
		},
		{
			PageURL: "/about", IsActive: true, UpdatedAt: stale,
			Title: "", Description: strings.Repeat("d", 130), Keywords: "", OgImage: "x",
		},
	}, nil)

	svc, _ := newSeoService(store)
	out, err := svc.Analytics(30)
	require.NoError(t, err)

	assert.Equal(t, 3, out.TotalPages)
	assert.Equal(t, 2, out.ActivePages)
	assert.Equal(t, 1, out.InactivePages)
	assert.Equal(t, 1, out.RecentlyUpdatedPages)
	assert.Equal(t, 2, out.PagesWithoutTitle)
	assert.Equal(t, 1, out.PagesWithoutDescription)
	assert.Equal(t, 2, out.PagesWithoutKeywords)
	assert.Equal(t, 1, out.PagesWithoutOgImage)
	assert.Equal(t, 1, out.PagesWithIssues)
	require.Len(t, out.Issues, 1)
	assert.Equal(t, "/about", out.Issues[0].PageURL)
}

func TestRecommendationsGroupsPagesByGap(t *testing.T) {
	store := new(MockSeoStore)
	store.On("GetAllActive").Return([]models.SeoMetadata{
		{PageURL: "/", Title: strings.Repeat("t", 40), Description: "d", OgImage: "x"},
		{PageURL: "/about", Title: "", Description: "d", OgImage: "x"},
		{PageURL: "/contact", Title: "Short", Description: "", OgImage: ""},
	}, nil)

	svc, _ := newSeoService(store)
	recs, err := svc.Recommendations()
	require.NoError(t, err)

	assert.Equal(t, []string{"/about"}, recs.MissingTitles)
	assert.Equal(t, []string{"/contact"}, recs.ShortTitles)
	assert.Equal(t, []string{"/contact"}, recs.MissingDescriptions)
	assert.Equal(t, []string{"/contact"}, recs.MissingOgImages)
}

func TestUpdateInvalidatesOldAndNewURL(t *testing.T) {
	store := new(MockSeoStore)
	store.On("GetByID", 3).Return(&models.SeoMetadata{ID: 3, PageURL: "/old"}, nil)
	store.On("Update", mock.Anything).Return(nil)

	svc, cache := newSeoService(store)
	cache.entries["/old"] = &models.SeoMetadata{PageURL: "/old"}
	cache.entries["/new"] = &models.SeoMetadata{PageURL: "/new"}

	err := svc.Update(context.Background(), &models.SeoMetadata{ID: 3, PageURL: "/new"})
	require.NoError(t, err)
	assert.Empty(t, cache.entries)
}
