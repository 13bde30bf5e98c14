package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thenextevent/site-api/internal/models"
	"github.com/thenextevent/site-api/internal/repository"
	"github.com/thenextevent/site-api/internal/service"
	"github.com/thenextevent/site-api/internal/utils"
)

// FormHandler handles contact form endpoints.
type FormHandler struct {
	formSvc *service.FormService
}

// NewFormHandler constructs a FormHandler.
func NewFormHandler(formSvc *service.FormService) *FormHandler {
	return &FormHandler{formSvc: formSvc}
}

type submitRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   string  `json:"email" binding:"required"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Message string  `json:"message" binding:"required"`
}

// Submit handles POST /api/forms/submit (public)
func (h *FormHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "name, email and message are required")
		return
	}

	sub := &models.FormSubmission{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Message: req.Message,
	}
	if err := h.formSvc.Submit(sub); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 201, "Submission received", sub)
}

// parseFormFilter reads the shared list/export query parameters.
func parseFormFilter(c *gin.Context) *repository.FormFilter {
	var filter repository.FormFilter

	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	if isRead := c.Query("isRead"); isRead != "" {
		val := isRead == "true"
		filter.IsRead = &val
	}
	if startDate := c.Query("startDate"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := c.Query("endDate"); endDate != "" {
		filter.EndDate = &endDate
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
	return &filter
}

// List handles GET /api/forms
func (h *FormHandler) List(c *gin.Context) {
	result, err := h.formSvc.List(parseFormFilter(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Submissions retrieved",
		result.Submissions, result.Page, result.Limit, result.TotalItems)
}

// GetByID handles GET /api/forms/:id
func (h *FormHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid submission id")
		return
	}

	sub, err := h.formSvc.GetByID(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Submission retrieved", sub)
}

type updateSubmissionRequest struct {
	Status     *string `json:"status"`
	IsRead     *bool   `json:"isRead"`
	AdminNotes *string `json:"adminNotes"`
}

// Update handles PATCH /api/forms/:id
func (h *FormHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid submission id")
		return
	}

	var req updateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	sub, err := h.formSvc.Update(id, &repository.FormUpdate{
		Status:     req.Status,
		IsRead:     req.IsRead,
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Submission updated", sub)
}

// Delete handles DELETE /api/forms/:id
func (h *FormHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid submission id")
		return
	}

	if err := h.formSvc.Delete(id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Submission deleted", nil)
}

type formBulkUpdateRequest struct {
	IDs    []int   `json:"ids" binding:"required"`
	Status *string `json:"status"`
	IsRead *bool   `json:"isRead"`
}

// BulkUpdate handles PATCH /api/forms/bulk-update. Status and read flag are
// both optional; whichever is present is applied to every listed submission.
func (h *FormHandler) BulkUpdate(c *gin.Context) {
	var req formBulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "ids are required")
		return
	}

	count := 0
	if req.Status != nil {
		n, err := h.formSvc.BulkUpdateStatus(req.IDs, *req.Status)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		count = n
	}
	if req.IsRead != nil {
		n, err := h.formSvc.BulkMarkRead(req.IDs, *req.IsRead)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		if n > count {
			count = n
		}
	}
	utils.Success(c, 200, "Submissions updated", gin.H{"updated": count})
}

type bulkDeleteRequest struct {
	IDs []int `json:"ids" binding:"required"`
}

// BulkDelete handles POST /api/forms/bulk-delete
func (h *FormHandler) BulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "ids are required")
		return
	}

	count, err := h.formSvc.BulkDelete(req.IDs)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Submissions deleted", gin.H{"deleted": count})
}

// Stats handles GET /api/forms/statistics
func (h *FormHandler) Stats(c *gin.Context) {
	stats, err := h.formSvc.Stats()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Statistics retrieved", stats)
}

// DailyCounts handles GET /api/forms/daily-counts
func (h *FormHandler) DailyCounts(c *gin.Context) {
	days := 30
	if d := c.Query("days"); d != "" {
		if v, err := strconv.Atoi(d); err == nil {
			days = v
		}
	}

	counts, err := h.formSvc.DailyCounts(days)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Daily counts retrieved", counts)
}

// Export handles GET /api/forms/export/csv
func (h *FormHandler) Export(c *gin.Context) {
	csv, err := h.formSvc.ExportCSV(parseFormFilter(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="form-submissions.csv"`)
	c.Data(200, "text/csv; charset=utf-8", []byte(csv))
}
