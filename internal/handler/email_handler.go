package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thenextevent/site-api/internal/models"
	"github.com/thenextevent/site-api/internal/notify"
	"github.com/thenextevent/site-api/internal/repository"
	"github.com/thenextevent/site-api/internal/service"
	"github.com/thenextevent/site-api/internal/utils"
)

// EmailHandler handles email configuration and delivery endpoints.
type EmailHandler struct {
	emailSvc *service.EmailService
}

// NewEmailHandler constructs an EmailHandler.
func NewEmailHandler(emailSvc *service.EmailService) *EmailHandler {
	return &EmailHandler{emailSvc: emailSvc}
}

// GetConfiguration handles GET /api/email/configuration
func (h *EmailHandler) GetConfiguration(c *gin.Context) {
	cfg, err := h.emailSvc.GetConfiguration()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Configuration retrieved", cfg)
}

type emailConfigRequest struct {
	SMTPServer         string `json:"smtpServer"`
	SMTPPort           int    `json:"smtpPort"`
	SenderEmail        string `json:"senderEmail"`
	SenderName         string `json:"senderName"`
	SenderPassword     string `json:"senderPassword"`
	IsEnabled          bool   `json:"isEnabled"`
	UseSSL             bool   `json:"useSSL"`
	NotificationEmails string `json:"notificationEmails"`
}

// SaveConfiguration handles PUT /api/email/configuration
func (h *EmailHandler) SaveConfiguration(c *gin.Context) {
	var req emailConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	cfg := &models.EmailConfiguration{
		SMTPServer:         req.SMTPServer,
		SMTPPort:           req.SMTPPort,
		SenderEmail:        req.SenderEmail,
		SenderName:         req.SenderName,
		SenderPassword:     req.SenderPassword,
		IsEnabled:          req.IsEnabled,
		UseSSL:             req.UseSSL,
		NotificationEmails: req.NotificationEmails,
	}
	if err := h.emailSvc.SaveConfiguration(cfg); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Configuration saved", cfg)
}

type testEmailRequest struct {
	Recipient string `json:"recipient" binding:"required"`
}

// SendTest handles POST /api/email/test
func (h *EmailHandler) SendTest(c *gin.Context) {
	var req testEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "recipient is required")
		return
	}

	if err := h.emailSvc.SendTest(req.Recipient); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Test email sent", nil)
}

type sendEmailRequest struct {
	To      []string `json:"to" binding:"required"`
	Subject string   `json:"subject" binding:"required"`
	Body    string   `json:"body"`
	HTML    bool     `json:"html"`
}

// Send handles POST /api/email/send
func (h *EmailHandler) Send(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "to and subject are required")
		return
	}

	if err := h.emailSvc.SendManual(req.To, req.Subject, req.Body, req.HTML); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Email sent", nil)
}

type notifySubmissionRequest struct {
	SubmissionID int `json:"submissionId" binding:"required"`
}

// NotifyFormSubmission handles POST /api/email/notify-form-submission,
// re-sending the notification for a stored submission.
func (h *EmailHandler) NotifyFormSubmission(c *gin.Context) {
	var req notifySubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "submissionId is required")
		return
	}

	err := h.emailSvc.HandleNotification(c.Request.Context(), notify.Event{
		Kind:         notify.KindFormSubmitted,
		SubmissionID: req.SubmissionID,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Notification sent", nil)
}

// GetLog handles GET /api/email/history
func (h *EmailHandler) GetLog(c *gin.Context) {
	var filter repository.EmailLogFilter
	if kind := c.Query("kind"); kind != "" {
		filter.Kind = &kind
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
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

	result, err := h.emailSvc.GetLog(&filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Email log retrieved",
		result.Entries, result.Page, result.Limit, result.TotalItems)
}

// LogStats handles GET /api/email/statistics
func (h *EmailHandler) LogStats(c *gin.Context) {
	stats, err := h.emailSvc.LogStats()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Statistics retrieved", stats)
}
