package waitlist

import (
	"strconv"
	"time"

	"github.com/danuarta/waitlist-api/config/router"
	"github.com/danuarta/waitlist-api/internal/log"
	apperrors "github.com/danuarta/waitlist-api/pkg/errors"
	"github.com/danuarta/waitlist-api/pkg/ratelimit"
	"gorm.io/gorm"
)

// NewWaitlistController exposes the public signup endpoint.
func NewWaitlistController(
	db *gorm.DB,
	logger *log.Logger,
) *router.RESTController {

	return router.NewRESTController(
		"WaitlistController",
		"api/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			repository := NewWaitlistRepository(db)
			service := NewWaitlistService(logger, repository)

			signupLimiter := createSignupRateLimiter()

			rs.AddPostHandler(c, signupLimiter, "", createWaitlistEntryHandler(service))
		},
	)
}

// NewAdminWaitlistController exposes the admin listing endpoint behind the
// admin session guard.
func NewAdminWaitlistController(
	db *gorm.DB,
	logger *log.Logger,
	adminGuard router.MiddlewareFunc,
) *router.RESTController {

	return router.NewRESTController(
		"AdminWaitlistController",
		"api/admin/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			repository := NewWaitlistRepository(db)
			service := NewWaitlistService(logger, repository)

			rs.AddGetHandler(c, nil, "", listWaitlistEntriesHandler(service), adminGuard)
		},
	)
}

func createSignupRateLimiter() ratelimit.RateLimiter {
	const signupRequestsPerMinute = 30 // More permissive than monitoring (10/min)

	config := &ratelimit.RateLimitConfig{
		Requests: signupRequestsPerMinute,
		Window:   time.Minute,
	}

	return ratelimit.NewRateLimiter(config)
}

func createWaitlistEntryHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req CreateWaitlistEntryRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Failed to add you to the waitlist", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.CreateEntry(ctx.Request.Context(), &req)
		if err != nil {
			if apperrors.GetErrorType(err) == apperrors.ErrorTypeConflict {
				return router.ConflictResult(apperrors.GetHumanReadableMessage(err))
			}

			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				apperrors.ValidationFields(err),
			)
		}

		return router.CreatedResult(response, "You have been added to the waitlist")
	}
}

func listWaitlistEntriesHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		query := ListWaitlistQuery{
			Search: ctx.Query("search"),
			All:    ctx.Query("all") == "true",
		}

		if pageParam := ctx.Query("page"); pageParam != "" {
			page, err := strconv.Atoi(pageParam)
			if err != nil {
				logger.Error("Invalid page parameter", "value", pageParam, "error", err)
				return router.BadRequestResult("Invalid page parameter", nil)
			}
			query.Page = page
		}

		entries, pagination, err := service.ListEntries(ctx.Request.Context(), query)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.PaginatedResult(entries, pagination, "Success")
	}
}
