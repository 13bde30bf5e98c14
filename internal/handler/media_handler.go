package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/thenextevent/site-api/internal/service"
	"github.com/thenextevent/site-api/internal/utils"
)

// MediaHandler handles hosted image endpoints.
type MediaHandler struct {
	mediaSvc *service.MediaService
}

// NewMediaHandler constructs a MediaHandler.
func NewMediaHandler(mediaSvc *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaSvc: mediaSvc}
}

// SignUpload handles GET /api/media/signature
func (h *MediaHandler) SignUpload(c *gin.Context) {
	utils.Success(c, 200, "Upload signed", h.mediaSvc.SignUpload(c.Query("publicId")))
}

// Delete handles DELETE /api/media/*publicId. The public ID may contain
// slashes, so the route captures the rest of the path.
func (h *MediaHandler) Delete(c *gin.Context) {
	publicID := strings.TrimPrefix(c.Param("publicId"), "/")
	if publicID == "" {
		utils.Error(c, 400, "INVALID_REQUEST", "publicId is required")
		return
	}

	deleted := h.mediaSvc.Delete(c.Request.Context(), publicID)
	utils.Success(c, 200, "Deletion processed", gin.H{"deleted": deleted})
}

// List handles GET /api/media/all
func (h *MediaHandler) List(c *gin.Context) {
	utils.Success(c, 200, "Images retrieved", h.mediaSvc.List(c.Request.Context()))
}
