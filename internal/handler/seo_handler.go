package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thenextevent/site-api/internal/models"
	"github.com/thenextevent/site-api/internal/repository"
	"github.com/thenextevent/site-api/internal/service"
	"github.com/thenextevent/site-api/internal/utils"
)

// SeoHandler handles SEO metadata endpoints.
type SeoHandler struct {
	seoSvc *service.SeoService
}

// NewSeoHandler constructs a SeoHandler.
func NewSeoHandler(seoSvc *service.SeoService) *SeoHandler {
	return &SeoHandler{seoSvc: seoSvc}
}

// List handles GET /api/seo
func (h *SeoHandler) List(c *gin.Context) {
	var filter repository.SeoFilter
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}
	if isActive := c.Query("isActive"); isActive != "" {
		val := isActive == "true"
		filter.IsActive = &val
	}
	if page := c.Query("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			filter.Page = p
		}
	}
	if limit := c.Query("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			filter.Limit = l
		}
	}

	result, err := h.seoSvc.List(&filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Metadata retrieved",
		result.Items, result.Page, result.Limit, result.TotalItems)
}

// GetByID handles GET /api/seo/:id
func (h *SeoHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid metadata id")
		return
	}

	meta, err := h.seoSvc.GetByID(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Metadata retrieved", meta)
}

// GetByURL handles GET /api/seo/by-url?url=/about (public)
func (h *SeoHandler) GetByURL(c *gin.Context) {
	pageURL := c.Query("url")
	if pageURL == "" {
		utils.Error(c, 400, "INVALID_REQUEST", "url query parameter is required")
		return
	}

	meta, err := h.seoSvc.GetByURL(c.Request.Context(), pageURL)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Metadata retrieved", meta)
}

type seoRequest struct {
	PageURL         string `json:"pageUrl" binding:"required"`
	Title           string `json:"title"`
	TitleAR         string `json:"titleAR"`
	Description     string `json:"description"`
	DescriptionAR   string `json:"descriptionAR"`
	Keywords        string `json:"keywords"`
	KeywordsAR      string `json:"keywordsAR"`
	OgTitle         string `json:"ogTitle"`
	OgTitleAR       string `json:"ogTitleAR"`
	OgDescription   string `json:"ogDescription"`
	OgDescriptionAR string `json:"ogDescriptionAR"`
	OgImage         string `json:"ogImage"`
	CanonicalURL    string `json:"canonicalUrl"`
	IsActive        *bool  `json:"isActive"`
}

func (r *seoRequest) toModel() *models.SeoMetadata {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &models.SeoMetadata{
		PageURL:         r.PageURL,
		Title:           r.Title,
		TitleAR:         r.TitleAR,
		Description:     r.Description,
		DescriptionAR:   r.DescriptionAR,
		Keywords:        r.Keywords,
		KeywordsAR:      r.KeywordsAR,
		OgTitle:         r.OgTitle,
		OgTitleAR:       r.OgTitleAR,
		OgDescription:   r.OgDescription,
		OgDescriptionAR: r.OgDescriptionAR,
		OgImage:         r.OgImage,
		CanonicalURL:    r.CanonicalURL,
		IsActive:        active,
	}
}

// Create handles POST /api/seo
func (h *SeoHandler) Create(c *gin.Context) {
	var req seoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "pageUrl is required")
		return
	}

	meta := req.toModel()
	if err := h.seoSvc.Create(c.Request.Context(), meta); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 201, "Metadata created", meta)
}

// Update handles PUT /api/seo/:id
func (h *SeoHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid metadata id")
		return
	}

	var req seoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "pageUrl is required")
		return
	}

	meta := req.toModel()
	meta.ID = id
	if err := h.seoSvc.Update(c.Request.Context(), meta); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Metadata updated", meta)
}

// Delete handles DELETE /api/seo/:id
func (h *SeoHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid metadata id")
		return
	}

	if err := h.seoSvc.Delete(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Metadata deleted", nil)
}

// Validate handles POST /api/seo/validate, checking a draft without storing it.
func (h *SeoHandler) Validate(c *gin.Context) {
	var req seoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "pageUrl is required")
		return
	}
	utils.Success(c, 200, "Validation complete", h.seoSvc.Validate(req.toModel()))
}

// ValidateByID handles GET /api/seo/:id/validate
func (h *SeoHandler) ValidateByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid metadata id")
		return
	}

	result, err := h.seoSvc.ValidateByID(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Validation complete", result)
}

type seoBulkUpdateRequest struct {
	IDs      []int `json:"ids" binding:"required"`
	IsActive *bool `json:"isActive"`
}

// BulkUpdate handles PATCH /api/seo/bulk-update
func (h *SeoHandler) BulkUpdate(c *gin.Context) {
	var req seoBulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "ids are required")
		return
	}

	count, err := h.seoSvc.BulkUpdate(c.Request.Context(), req.IDs, &repository.SeoBulkUpdate{
		IsActive: req.IsActive,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Metadata updated", gin.H{"updated": count})
}

// Recommendations handles GET /api/seo/recommendations
func (h *SeoHandler) Recommendations(c *gin.Context) {
	recs, err := h.seoSvc.Recommendations()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Recommendations retrieved", recs)
}

// Analytics handles GET /api/seo/analytics
func (h *SeoHandler) Analytics(c *gin.Context) {
	days := 30
	if d := c.Query("days"); d != "" {
		if v, err := strconv.Atoi(d); err == nil {
			days = v
		}
	}

	analytics, err := h.seoSvc.Analytics(days)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Analytics retrieved", analytics)
}

// Sitemap handles GET /api/seo/sitemap.xml (public)
func (h *SeoHandler) Sitemap(c *gin.Context) {
	xml, err := h.seoSvc.Sitemap()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Data(200, "application/xml; charset=utf-8", []byte(xml))
}

// Robots handles GET /api/seo/robots.txt (public)
func (h *SeoHandler) Robots(c *gin.Context) {
	c.Data(200, "text/plain; charset=utf-8", []byte(h.seoSvc.Robots()))
}
