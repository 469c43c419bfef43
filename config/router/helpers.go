package router

import (
	"net/http"

	"github.com/danuarta/waitlist-api/internal/log"
	apperrors "github.com/danuarta/waitlist-api/pkg/errors"
)

func GetLogger(ctx *RequestContext) *log.Logger {
	if logger := ctx.Request.Context().Value(log.LoggerKeyForContext); logger != nil {
		if l, ok := logger.(*log.Logger); ok {
			return l
		}
	}

	baseLogger := log.NewLoggerWithJSONOutput()
	return baseLogger.WithCorrelationID(ctx.Request.Context())
}

func OKResult(content any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusOK,
		Content:    content,
		Message:    message,
	}
}

// PaginatedResult is OKResult plus the listing metadata.
func PaginatedResult(content any, pagination Pagination, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusOK,
		Content:    content,
		Message:    message,
		Pagination: &pagination,
	}
}

func CreatedResult(content any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusCreated,
		Content:    content,
		Message:    message,
	}
}

func TooManyRequestsResult(content RateLimitResponse) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusTooManyRequests,
		Content:    content,
		Message:    "Too Many Requests",
	}
}

func BadRequestResult(message string, fieldErrors []apperrors.ValidationErrorResponse) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Errors:     fieldErrors,
	}
}

func UnauthorizedResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusUnauthorized,
		Message:    message,
	}
}

func NotFoundResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusNotFound,
		Message:    message,
	}
}

func InternalServerErrorResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusInternalServerError,
		Message:    message,
	}
}

func ConflictResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusConflict,
		Message:    message,
	}
}

func ErrorResult(statusCode int, message string, fieldErrors []apperrors.ValidationErrorResponse) *ServiceResult {
	return &ServiceResult{
		StatusCode: statusCode,
		Message:    message,
		Errors:     fieldErrors,
	}
}
