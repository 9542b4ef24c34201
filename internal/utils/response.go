// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/decorahub/ecommerce-backend/internal/apperrors"
	"github.com/decorahub/ecommerce-backend/internal/i18n"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

func SuccessResponseWithMeta(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// statusByKind is the single mapping from error kind to HTTP status.
var statusByKind = map[apperrors.Kind]int{
	apperrors.KindValidation:   http.StatusBadRequest,
	apperrors.KindNotFound:     http.StatusNotFound,
	apperrors.KindConflict:     http.StatusConflict,
	apperrors.KindGateway:      http.StatusBadGateway,
	apperrors.KindUnauthorized: http.StatusUnauthorized,
	apperrors.KindForbidden:    http.StatusForbidden,
	apperrors.KindInternal:     http.StatusInternalServerError,
}

var codeByKind = map[apperrors.Kind]string{
	apperrors.KindValidation:   "VALIDATION_ERROR",
	apperrors.KindNotFound:     "NOT_FOUND",
	apperrors.KindConflict:     "CONFLICT",
	apperrors.KindGateway:      "GATEWAY_ERROR",
	apperrors.KindUnauthorized: "UNAUTHORIZED",
	apperrors.KindForbidden:    "FORBIDDEN",
	apperrors.KindInternal:     "INTERNAL_ERROR",
}

// AppErrorResponse maps a typed workflow error to its HTTP status.
func AppErrorResponse(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	message := apperrors.MessageOf(err)
	if kind == apperrors.KindInternal {
		// Internal details stay in the logs, not in the response body.
		message = "Internal server error"
	}

	ErrorResponse(c, status, codeByKind[kind], message, nil)
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	lang := GetLangFromContext(c)
	if message == "" {
		message = i18n.T(lang, i18n.KeyValidationInvalid, "request")
	}
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	lang := GetLangFromContext(c)
	if message == "" {
		message = i18n.T(lang, i18n.KeyAuthRequired)
	}
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func ForbiddenResponse(c *gin.Context, message string) {
	lang := GetLangFromContext(c)
	if message == "" {
		message = i18n.T(lang, i18n.KeyAdminAccessDenied)
	}
	ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", message, nil)
}

func NotFoundResponse(c *gin.Context, resource string) {
	lang := GetLangFromContext(c)
	message := i18n.T(lang, resource+".not_found")
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

func ConflictResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusConflict, "CONFLICT", message, nil)
}

func InternalErrorResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", message, nil)
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	lang := GetLangFromContext(c)
	message := i18n.T(lang, i18n.KeyValidationInvalid, "input")
	ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", message, errors)
}

func PaginatedResponse(c *gin.Context, result PaginationResult) {
	SetPaginationHeaders(c, result)
	SuccessResponseWithMeta(c, result.Data, gin.H{
		"pagination": gin.H{
			"page":        result.Page,
			"limit":       result.Limit,
			"total":       result.Total,
			"total_pages": result.TotalPages,
		},
	})
}

func GetLangFromContext(c *gin.Context) string {
	if lang, exists := c.Get("lang"); exists {
		if langStr, ok := lang.(string); ok {
			return langStr
		}
	}
	return "en"
}

// Context keys shared between the auth middleware and the accessors below.
// Both sides must use these constants, never string literals.
const (
	ContextUserID      = "user_id"
	ContextUserEmail   = "user_email"
	ContextUserRoles   = "user_roles"
	ContextAccessToken = "access_token"
)

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, exists := c.Get(ContextUserID); exists {
		if userIDStr, ok := userID.(string); ok {
			return userIDStr, true
		}
	}
	return "", false
}

func GetUserRolesFromContext(c *gin.Context) ([]string, bool) {
	if roles, exists := c.Get(ContextUserRoles); exists {
		if roleList, ok := roles.([]string); ok {
			return roleList, true
		}
	}
	return nil, false
}
