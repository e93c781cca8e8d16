package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pettrack-backend-go/internal/core"
	"pettrack-backend-go/internal/models"
)

// PetHandler handles HTTP requests for pet records.
type PetHandler struct {
	service core.PetService
	logger  *zap.Logger
}

// NewPetHandler creates a new PetHandler instance.
func NewPetHandler(service core.PetService, logger *zap.Logger) *PetHandler {
	return &PetHandler{service: service, logger: logger}
}

// Create handles POST /api/pets. The body is multipart form data with an
// optional petImage file part.
func (h *PetHandler) Create(c *gin.Context) {
	var req models.CreatePetRequest
	if err := c.ShouldBind(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	image, _ := c.FormFile("petImage")

	pet, err := h.service.Create(c.Request.Context(), req, image)
	if err != nil {
		h.logger.Warn("Pet creation failed", zap.String("ownerId", req.OwnerID), zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Pet registered successfully",
		Data:    pet,
	})
}

// List handles GET /api/pets with pagination and optional equality filters.
func (h *PetHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	filter := parsePetFilter(c)

	pets, total, err := h.service.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success:    true,
		Data:       pets,
		Pagination: NewPagination(page, limit, total),
	})
}

// parsePetFilter reads the optional query filters for the pet list. Values
// that fail to parse are treated as absent.
func parsePetFilter(c *gin.Context) models.PetListFilter {
	filter := models.PetListFilter{
		OwnerID: c.Query("ownerId"),
		PetType: c.Query("petType"),
	}
	if raw := c.Query("isLost"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.IsLost = &v
		}
	}
	if raw := c.Query("isFound"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.IsFound = &v
		}
	}
	return filter
}

// GetByID handles GET /api/pets/:id.
func (h *PetHandler) GetByID(c *gin.Context) {
	pet, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: pet})
}

// ListByOwner handles GET /api/pets/owner/:ownerId.
func (h *PetHandler) ListByOwner(c *gin.Context) {
	pets, err := h.service.ListByOwner(c.Request.Context(), c.Param("ownerId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: pets})
}

// Update handles PUT /api/pets/:id. The body is multipart form data with an
// optional replacement petImage file part.
func (h *PetHandler) Update(c *gin.Context) {
	var req models.UpdatePetRequest
	if err := c.ShouldBind(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	image, _ := c.FormFile("petImage")

	pet, err := h.service.Update(c.Request.Context(), c.Param("id"), req, image)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Pet updated successfully",
		Data:    pet,
	})
}

// Delete handles DELETE /api/pets/:id. The record is deactivated and its
// images are removed from storage.
func (h *PetHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Pet deleted successfully",
	})
}

// UploadPhotos handles POST /api/pets/:id/upload-photos, appending a batch of
// gallery photos from the multipart "photos" field.
func (h *PetHandler) UploadPhotos(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondValidationError(c, err)
		return
	}
	photos := form.File["photos"]

	pet, urls, err := h.service.UploadPhotos(c.Request.Context(), c.Param("id"), photos)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Photos uploaded successfully",
		Data: gin.H{
			"pet":       pet,
			"uploaded":  urls,
			"numPhotos": len(urls),
		},
	})
}

// MarkLost handles POST /api/pets/:id/mark-lost.
func (h *PetHandler) MarkLost(c *gin.Context) {
	pet, err := h.service.MarkLost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Pet marked as lost",
		Data:    pet,
	})
}

// MarkFound handles POST /api/pets/:id/mark-found.
func (h *PetHandler) MarkFound(c *gin.Context) {
	pet, err := h.service.MarkFound(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Pet marked as found",
		Data:    pet,
	})
}
