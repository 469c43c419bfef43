package auth

import (
	"encoding/json"
	"time"

	"github.com/danuarta/waitlist-api/config/router"
	"github.com/danuarta/waitlist-api/internal/log"
	apperrors "github.com/danuarta/waitlist-api/pkg/errors"
	"github.com/danuarta/waitlist-api/pkg/ratelimit"
)

type loginContent struct {
	Token string        `json:"token"`
	User  *VerifiedUser `json:"user"`
}

// NewAuthController mounts login, the two logout endpoints, and the
// session introspection endpoint.
func NewAuthController(
	logger *log.Logger,
	sessions *SessionManager,
	service AuthService,
	verifier TokenVerifier,
) *router.RESTController {

	return router.NewRESTController(
		"AuthController",
		"api",
		func(rs *router.RouterService, c *router.RESTController) {
			loginLimiter := createLoginRateLimiter()

			rs.AddPostHandler(c, loginLimiter, "login", loginHandler(sessions, service))
			rs.AddGetHandler(c, nil, "logout", logoutHandler(sessions))
			rs.AddGetHandler(c, nil, "admin/logout", adminLogoutHandler(sessions))
			rs.AddGetHandler(c, nil, "session", sessionHandler(), RequireUser(sessions, verifier))
		},
	)
}

func createLoginRateLimiter() ratelimit.RateLimiter {
	const loginRequestsPerMinute = 10 // Credential guessing gets the strictest budget

	config := &ratelimit.RateLimitConfig{
		Requests: loginRequestsPerMinute,
		Window:   time.Minute,
	}

	return ratelimit.NewRateLimiter(config)
}

func loginHandler(sessions *SessionManager, service AuthService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req LoginRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind login request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid login request", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		result, err := service.Login(ctx.Request.Context(), &req)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				apperrors.ValidationFields(err),
			)
		}

		if result.Admin {
			if err := sessions.SetAdminCookie(ctx); err != nil {
				logger.Error("Failed to set admin session cookie", "error", err)
				return router.InternalServerErrorResult("Unable to establish session")
			}
			return router.OKResult(nil, "Login successful")
		}

		userJSON, err := json.Marshal(result.User)
		if err != nil {
			logger.Error("Failed to encode user payload", "error", err)
			return router.InternalServerErrorResult("Unable to establish session")
		}
		sessions.SetUserCookies(ctx, result.Token, string(userJSON))

		return router.OKResult(loginContent{Token: result.Token, User: result.User}, "Login successful")
	}
}

func logoutHandler(sessions *SessionManager) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		sessions.ClearUserCookies(ctx)
		return router.OKResult(nil, "Logout successful")
	}
}

func adminLogoutHandler(sessions *SessionManager) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		sessions.ClearAdminCookie(ctx)
		return router.OKResult(nil, "Logout successful")
	}
}

func sessionHandler() router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		user, ok := VerifiedUserFromContext(ctx.Request.Context())
		if !ok {
			return router.UnauthorizedResult("Login required")
		}

		return router.OKResult(user, "Session active")
	}
}
