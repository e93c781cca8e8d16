package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pettrack-backend-go/internal/core"
	"pettrack-backend-go/internal/models"
)

// UserHandler handles HTTP requests for user accounts and authentication.
type UserHandler struct {
	service core.UserService
	logger  *zap.Logger
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(service core.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

// Register handles POST /api/users/register. The body is multipart form data
// with an optional profileImage file part.
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterUserRequest
	if err := c.ShouldBind(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	image, _ := c.FormFile("profileImage")

	user, err := h.service.Register(c.Request.Context(), req, image)
	if err != nil {
		h.logger.Warn("User registration failed", zap.String("email", req.Email), zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "User registered successfully",
		Data:    user,
	})
}

// Login handles POST /api/users/login with email/password credentials.
func (h *UserHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := h.service.LoginWithEmail(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Login successful",
		Data:    user,
	})
}

// LoginWithPhone handles POST /api/users/login-phone.
func (h *UserHandler) LoginWithPhone(c *gin.Context) {
	var req models.PhoneLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := h.service.LoginWithPhone(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Login successful",
		Data:    user,
	})
}

// GoogleAuth handles POST /api/users/google-auth. It upserts the profile for a
// federated sign-in and responds 200 either way.
func (h *UserHandler) GoogleAuth(c *gin.Context) {
	var req models.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := h.service.GoogleAuth(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("Google auth failed", zap.String("firebaseUid", req.FirebaseUID), zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Authentication successful",
		Data:    user,
	})
}

// List handles GET /api/users with page/limit query parameters.
func (h *UserHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)

	users, total, err := h.service.List(c.Request.Context(), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success:    true,
		Data:       users,
		Pagination: NewPagination(page, limit, total),
	})
}

// GetByID handles GET /api/users/:id.
func (h *UserHandler) GetByID(c *gin.Context) {
	user, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: user})
}

// Update handles PUT /api/users/:id. The body is multipart form data with an
// optional replacement profileImage file part.
func (h *UserHandler) Update(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	image, _ := c.FormFile("profileImage")

	user, err := h.service.Update(c.Request.Context(), c.Param("id"), req, image)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "User updated successfully",
		Data:    user,
	})
}

// Delete handles DELETE /api/users/:id. The record is deactivated, not removed.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "User deleted successfully",
	})
}

// Verify handles POST /api/users/:id/verify, marking the user's email verified.
func (h *UserHandler) Verify(c *gin.Context) {
	user, err := h.service.Verify(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "User verified successfully",
		Data:    user,
	})
}

// UpdateNotifications handles POST /api/users/:id/update-notifications.
func (h *UserHandler) UpdateNotifications(c *gin.Context) {
	var req models.UpdateNotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	prefs, err := h.service.UpdateNotifications(c.Request.Context(), c.Param("id"), req.Notifications)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Notification preferences updated",
		Data:    prefs,
	})
}
