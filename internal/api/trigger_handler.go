package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pettrack-backend-go/internal/core"
	"pettrack-backend-go/internal/models"
)

// TriggerHandler exposes the platform event endpoints. Auth and storage
// events are delivered here by the event router rather than by end users.
type TriggerHandler struct {
	service core.LifecycleService
	logger  *zap.Logger
}

// NewTriggerHandler creates a new TriggerHandler instance.
func NewTriggerHandler(service core.LifecycleService, logger *zap.Logger) *TriggerHandler {
	return &TriggerHandler{service: service, logger: logger}
}

// AuthUserCreated handles POST /triggers/auth/user-created. The event source
// does not retry on our behalf, so processing failures are logged and the
// event is still acknowledged.
func (h *TriggerHandler) AuthUserCreated(c *gin.Context) {
	var record models.AuthUserRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.service.OnAuthUserCreated(c.Request.Context(), record); err != nil {
		h.logger.Error("Auth user-created event failed",
			zap.String("uid", record.UID), zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}

// DeleteAccount handles POST /triggers/auth/delete-account. Unlike the other
// triggers this is callable (not fire-and-forget), so failures surface to the
// caller for retry.
func (h *TriggerHandler) DeleteAccount(c *gin.Context) {
	var req models.DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.service.DeleteAccount(c.Request.Context(), req.UID); err != nil {
		h.logger.Error("Account deletion failed", zap.String("uid", req.UID), zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Account and all associated data deleted",
	})
}

// StorageObjectFinalized handles POST /triggers/storage/object-finalized.
func (h *TriggerHandler) StorageObjectFinalized(c *gin.Context) {
	var event models.StorageObjectEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.service.OnStorageObjectFinalized(c.Request.Context(), event); err != nil {
		h.logger.Error("Storage finalize event failed",
			zap.String("object", event.Name), zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}
