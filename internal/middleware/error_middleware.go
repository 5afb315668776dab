package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// HandleAPIError maps err to a status code and writes the error envelope.
// It is the single place where service errors become HTTP responses.
func HandleAPIError(c *gin.Context, err error) {
	status, code, message := classifyError(err)

	detail := dto.NewErrorDetail(code, message)
	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		detail.Message = custom.Error()
		if custom.Details != nil {
			detail = detail.WithDetails(custom.Details)
		}
	}

	if status == http.StatusInternalServerError {
		// Internal tool: the underlying message is returned to the caller.
		detail = detail.WithDetails(err.Error()).WithSeverity(dto.ErrorSeverityCritical)
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("requestId", c.GetString(RequestIDKey)).
			Msg("Request failed")
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(status, message, detail))
}

func classifyError(err error) (int, dto.ErrorCode, string) {
	switch {
	case apperrors.Is(err, apperrors.ErrUnauthorized, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrCourseNotFound, apperrors.ErrLessonNotFound, apperrors.ErrSubscriptionNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"
	case apperrors.Is(err, apperrors.ErrConflict,
		apperrors.ErrAlreadySubscribed, apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict, dto.ErrorCodeConflict, "Conflict"
	case errors.Is(err, apperrors.ErrDatabase):
		return http.StatusInternalServerError, dto.ErrorCodeDatabaseError, "An error occurred while processing the request"
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "An error occurred while processing the request"
	}
}
