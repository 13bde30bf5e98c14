package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thenextevent/site-api/internal/middleware"
	"github.com/thenextevent/site-api/internal/service"
	"github.com/thenextevent/site-api/internal/utils"
)

// AuthHandler handles authentication and admin account endpoints.
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "email and password are required")
		return
	}

	result, err := h.authSvc.Login(req.Email, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Login successful", result)
}

type registerRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "email and password are required")
		return
	}

	user, err := h.authSvc.Register(req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 201, "Account created", user)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authSvc.GetByID(middleware.UserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "User retrieved", user)
}

// Logout handles POST /api/auth/logout. Tokens are stateless; the client
// discards its copy and this endpoint only confirms.
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.Success(c, 200, "Logged out", nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// ChangePassword handles POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "currentPassword and newPassword are required")
		return
	}

	if err := h.authSvc.ChangePassword(middleware.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Password changed", nil)
}

// ListUsers handles GET /api/auth/users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.authSvc.List()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Users retrieved", users)
}

// GetUser handles GET /api/auth/users/:id
func (h *AuthHandler) GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid user id")
		return
	}

	user, err := h.authSvc.GetByID(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "User retrieved", user)
}

type updateUserRequest struct {
	Email     string `json:"email" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UpdateUser handles PUT /api/auth/users/:id
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid user id")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "email is required")
		return
	}

	user, err := h.authSvc.UpdateProfile(id, req.Email, req.FirstName, req.LastName)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "User updated", user)
}

// DeactivateUser handles DELETE /api/auth/users/:id
func (h *AuthHandler) DeactivateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid user id")
		return
	}

	if err := h.authSvc.Deactivate(id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "User deactivated", nil)
}
