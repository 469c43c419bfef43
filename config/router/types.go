package router

import (
	apperrors "github.com/danuarta/waitlist-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

type RequestContext = gin.Context

type MiddlewareFunc = gin.HandlerFunc

// Pagination is the listing metadata computed per-query, never persisted.
type Pagination struct {
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	TotalData int64 `json:"totalData"`
	TotalPage int   `json:"totalPage"`
}

// ServiceResult is the uniform response envelope. Every endpoint responds with
// {content, message, errors}; listing endpoints additionally carry pagination.
// Errors is nil except on validation failures.
type ServiceResult struct {
	StatusCode int                                 `json:"-"`
	Content    any                                 `json:"content"`
	Message    string                              `json:"message"`
	Errors     []apperrors.ValidationErrorResponse `json:"errors"`
	Pagination *Pagination                         `json:"pagination,omitempty"`
}

type RateLimitResponse struct {
	Limit      int    `json:"limit"`
	Window     string `json:"window"`
	RetryAfter string `json:"retry_after"`
}

type HandlerFunction func(*RequestContext) *ServiceResult

type RESTController struct {
	name         string
	mountPoint   string
	version      string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}

func (result *ServiceResult) ToJSON() gin.H {
	body := gin.H{
		"content": result.Content,
		"message": result.Message,
		"errors":  result.Errors,
	}
	if result.Pagination != nil {
		body["pagination"] = result.Pagination
	}
	return body
}

func (result *ServiceResult) IsSuccess() bool {
	return result.StatusCode >= 200 && result.StatusCode < 300
}

func (result *ServiceResult) IsError() bool {
	return result.StatusCode >= 400
}
