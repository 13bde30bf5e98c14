package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thenextevent/site-api/internal/models"
	"github.com/thenextevent/site-api/internal/repository"
	"github.com/thenextevent/site-api/internal/service"
	"github.com/thenextevent/site-api/internal/utils"
)

// ContentHandler handles website content endpoints.
type ContentHandler struct {
	contentSvc *service.ContentService
}

// NewContentHandler constructs a ContentHandler.
func NewContentHandler(contentSvc *service.ContentService) *ContentHandler {
	return &ContentHandler{contentSvc: contentSvc}
}

// List handles GET /api/content
func (h *ContentHandler) List(c *gin.Context) {
	var filter repository.ContentFilter
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}
	if section := c.Query("section"); section != "" {
		filter.SectionKey = &section
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

	result, err := h.contentSvc.List(&filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Content retrieved",
		result.Items, result.Page, result.Limit, result.TotalItems)
}

// GetByID handles GET /api/content/:id
func (h *ContentHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid content id")
		return
	}

	content, err := h.contentSvc.GetByID(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Content retrieved", content)
}

// GetByKey handles GET /api/content/by-key/:key (public)
func (h *ContentHandler) GetByKey(c *gin.Context) {
	content, err := h.contentSvc.GetByKey(c.Param("key"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Content retrieved", content)
}

// GetBySection handles GET /api/content/section/:sectionKey (public)
func (h *ContentHandler) GetBySection(c *gin.Context) {
	list, err := h.contentSvc.GetBySection(c.Param("sectionKey"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Content retrieved", list)
}

// GetByLanguage handles GET /api/content/by-language/:lang (public)
func (h *ContentHandler) GetByLanguage(c *gin.Context) {
	list, err := h.contentSvc.GetByLanguage(c.Param("lang"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Content retrieved", list)
}

type contentRequest struct {
	ContentKey    string `json:"contentKey" binding:"required"`
	SectionKey    string `json:"sectionKey"`
	Name          string `json:"name"`
	NameAR        string `json:"nameAR"`
	Description   string `json:"description"`
	DescriptionAR string `json:"descriptionAR"`
	MediaURL      string `json:"mediaUrl"`
	IsActive      *bool  `json:"isActive"`
	SortOrder     int    `json:"sortOrder"`
}

func (r *contentRequest) toModel() *models.WebsiteContent {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &models.WebsiteContent{
		ContentKey:    r.ContentKey,
		SectionKey:    r.SectionKey,
		Name:          r.Name,
		NameAR:        r.NameAR,
		Description:   r.Description,
		DescriptionAR: r.DescriptionAR,
		MediaURL:      r.MediaURL,
		IsActive:      active,
		SortOrder:     r.SortOrder,
	}
}

// Create handles POST /api/content
func (h *ContentHandler) Create(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "contentKey is required")
		return
	}

	content := req.toModel()
	if err := h.contentSvc.Create(content); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 201, "Content created", content)
}

// Update handles PUT /api/content/:id
func (h *ContentHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid content id")
		return
	}

	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "contentKey is required")
		return
	}

	content := req.toModel()
	content.ID = id
	if err := h.contentSvc.Update(content); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Content updated", content)
}

type sortOrderRequest struct {
	SortOrder *int `json:"sortOrder" binding:"required"`
}

// SetSortOrder handles PATCH /api/content/:id/sort-order
func (h *ContentHandler) SetSortOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid content id")
		return
	}

	var req sortOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "sortOrder is required")
		return
	}

	if err := h.contentSvc.SetSortOrder(id, *req.SortOrder); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Sort order updated", nil)
}

// ToggleActive handles PATCH /api/content/:id/toggle-active
func (h *ContentHandler) ToggleActive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid content id")
		return
	}

	content, err := h.contentSvc.ToggleActive(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Content visibility toggled", content)
}

type contentBulkUpdateRequest struct {
	IDs        []int   `json:"ids" binding:"required"`
	SectionKey *string `json:"sectionKey"`
	IsActive   *bool   `json:"isActive"`
	SortOrder  *int    `json:"sortOrder"`
}

// BulkUpdate handles PATCH /api/content/bulk-update
func (h *ContentHandler) BulkUpdate(c *gin.Context) {
	var req contentBulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "ids are required")
		return
	}

	count, err := h.contentSvc.BulkUpdate(req.IDs, &repository.ContentBulkUpdate{
		SectionKey: req.SectionKey,
		IsActive:   req.IsActive,
		SortOrder:  req.SortOrder,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Content updated", gin.H{"updated": count})
}

// Delete handles DELETE /api/content/:id
func (h *ContentHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid content id")
		return
	}

	if err := h.contentSvc.Delete(id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Content deleted", nil)
}
