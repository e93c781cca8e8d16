package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"pettrack-backend-go/internal/core"
)

// APIResponse is the JSON envelope every endpoint responds with.
type APIResponse struct {
	Success    bool         `json:"success"`
	Message    string       `json:"message,omitempty"`
	Data       interface{}  `json:"data,omitempty"`
	Error      string       `json:"error,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`
	Pagination *Pagination  `json:"pagination,omitempty"`
}

// FieldError describes a single field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// NewPagination computes the page count from the total and the page size.
func NewPagination(page, limit, total int) *Pagination {
	totalPages := (total + limit - 1) / limit
	return &Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}

// parsePagination reads page/limit query parameters with sane defaults.
func parsePagination(c *gin.Context) (page, limit int) {
	page, limit = 1, 20
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	return page, limit
}

// respondValidationError maps a binding error to the 400 field-error list.
func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, APIResponse{
		Success: false,
		Message: "Validation failed",
		Errors:  fieldErrors(err),
	})
}

// fieldErrors converts validator errors into the per-field error list; any
// other binding error becomes a single generic entry.
func fieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: lowerFirst(fe.Field()), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "json":
		return "must be valid JSON"
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// respondServiceError maps service-layer errors to status codes: 404 for
// missing live records, 401 for bad credentials, 400 for domain violations,
// and 500 with the dependency's message for everything else.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrUserNotFound), errors.Is(err, core.ErrPetNotFound):
		c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: err.Error()})
	case errors.Is(err, core.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, APIResponse{Success: false, Error: err.Error()})
	case errors.Is(err, core.ErrDuplicateUser),
		errors.Is(err, core.ErrOwnerNotFound),
		errors.Is(err, core.ErrFileTooLarge),
		errors.Is(err, core.ErrUnsupportedFileType),
		errors.Is(err, core.ErrTooManyFiles),
		errors.Is(err, core.ErrNoFilesProvided):
		c.JSON(http.StatusBadRequest, APIResponse{Success: false, Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: err.Error()})
	}
}
