package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wrio-webgold/webgold/internal/domain/account"
	"github.com/wrio-webgold/webgold/internal/domain/ledger"
	"github.com/wrio-webgold/webgold/internal/domain/transfer"
	"github.com/wrio-webgold/webgold/internal/webgold_api/middleware"
	"github.com/wrio-webgold/webgold/internal/webgold_api/service"
)

// ErrorResponse is the envelope of every failed request. Successful requests
// return their payload bare, as the dashboard and the signing page expect.
type ErrorResponse struct {
	Error         *ErrorInfo `json:"error"`
	CorrelationID string     `json:"correlation_id,omitempty"`
}

// ErrorInfo represents error information in a response
type ErrorInfo struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(code, message string, details ...string) *ErrorResponse {
	return &ErrorResponse{
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// RespondWithError sends a JSON response with an error
func RespondWithError(c *gin.Context, statusCode int, code, message string, details ...string) {
	response := NewErrorResponse(code, message, details...)
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, response)
}

// RespondOK sends a 200 OK response with data
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// RespondCreated sends a 201 Created response with data
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// RespondBadRequest sends a 400 Bad Request response with an error
func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// RespondValidationError sends a 400 response listing what was wrong with the input
func RespondValidationError(c *gin.Context, message string, details []string) {
	RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", message, details...)
}

// RespondForbidden sends a 403 Forbidden response with an error
func RespondForbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Forbidden"
	}
	RespondWithError(c, http.StatusForbidden, "FORBIDDEN", message)
}

// RespondNotFound sends a 404 Not Found response with an error
func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, "NOT_FOUND", message)
}

// RespondConflict sends a 409 Conflict response with an error
func RespondConflict(c *gin.Context, message string) {
	RespondWithError(c, http.StatusConflict, "CONFLICT", message)
}

// RespondInternalError sends a 500 Internal Server Error response with an error
func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred")
}

// respondServiceError maps service and domain errors onto HTTP statuses
func respondServiceError(c *gin.Context, logger *slog.Logger, err error) {
	var (
		validationErr service.ValidationError
		invalidIDErr  transfer.ErrInvalidID
		forbiddenErr  transfer.ErrForbidden
		unknownKind   ledger.ErrUnknownKind
	)

	switch {
	case errors.As(err, &validationErr):
		RespondValidationError(c, validationErr.Message, validationErr.Details)
	case errors.As(err, &invalidIDErr):
		RespondValidationError(c, "Invalid transfer id", invalidIDErr.Details)
	case errors.As(err, &unknownKind):
		RespondBadRequest(c, unknownKind.Error())
	case errors.Is(err, transfer.ErrTransferNotFound{}):
		RespondNotFound(c, "Transfer not found")
	case errors.Is(err, account.ErrAccountNotFound{}):
		RespondNotFound(c, "Account not found")
	case errors.As(err, &forbiddenErr):
		RespondForbidden(c, "Not a party to this transfer")
	case errors.Is(err, service.ErrRequestInProgress):
		RespondConflict(c, "A request with this idempotency key is still being processed")
	case errors.Is(err, account.ErrInvalidWallet):
		RespondBadRequest(c, err.Error())
	case errors.Is(err, account.ErrWalletAlreadyAssigned), errors.Is(err, account.ErrWalletInUse):
		RespondConflict(c, err.Error())
	default:
		logger.Error("Request failed", "path", c.FullPath(), "error", err)
		RespondInternalError(c)
	}
}

// RespondUnauthorized sends a 401 Unauthorized response with an error
func RespondUnauthorized(c *gin.Context) {
	RespondWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
}
