package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docparse/internal/domain"
	"docparse/internal/middleware"
)

// APIResponse is the envelope for the auxiliary JSON endpoints. The parse
// endpoint keeps its own {status, return_dict} shape.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total int `json:"total"`
	Limit int `json:"limit"`
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an enveloped error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// RespondFail sends the parse endpoint's failure record: {"status": "fail", "reason": ...}.
func RespondFail(c *gin.Context, status int, reason string) {
	c.JSON(status, gin.H{"status": string(domain.ParseStatusFail), "reason": reason})
}

// MapDomainError translates domain errors to HTTP status codes.
func MapDomainError(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrFileTooLarge), errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrMissingFile),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidRenderValue):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrSupervisorTimeout):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrUnsupportedSource):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HandleResultError maps a failed ParseResult and sends its failure record.
func HandleResultError(c *gin.Context, logger *zap.Logger, result *domain.ParseResult) {
	status := MapDomainError(result.Err)
	if status >= 500 {
		logger.Error("parse failed",
			zap.String("request_id", c.GetString(middleware.ContextKeyRequestID)),
			zap.String("reason", result.Reason),
		)
	}
	RespondFail(c, status, result.Reason)
}
