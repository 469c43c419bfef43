package auth

import (
	"context"
	"net/http"

	"github.com/danuarta/waitlist-api/config/router"
)

type contextKey string

// VerifiedUserKey holds the remotely verified user on the request context.
const VerifiedUserKey contextKey = "verified_user"

// RequireAdmin guards a route with the local-only admin session check. No
// remote call is involved: the signed cookie is the whole credential.
func RequireAdmin(sessions *SessionManager) router.MiddlewareFunc {
	return func(c *router.RequestContext) {
		if err := sessions.VerifyAdminCookie(c); err != nil {
			logger := router.GetLogger(c)
			logger.Warn("Admin session missing or invalid", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, router.UnauthorizedResult("Admin session required").ToJSON())
			return
		}

		c.Next()
	}
}

// RequireUser guards a route with the remote-verified user session: the
// bearer token cookie is checked against the auth collaborator on every
// request. Stronger than the admin check, and never interchangeable with it.
func RequireUser(sessions *SessionManager, verifier TokenVerifier) router.MiddlewareFunc {
	return func(c *router.RequestContext) {
		token, err := sessions.UserToken(c)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, router.UnauthorizedResult("Login required").ToJSON())
			return
		}

		user, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			logger := router.GetLogger(c)
			logger.Warn("User session verification failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, router.UnauthorizedResult("Invalid or expired session").ToJSON())
			return
		}

		ctx := context.WithValue(c.Request.Context(), VerifiedUserKey, user)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// VerifiedUserFromContext returns the user installed by RequireUser, if any.
func VerifiedUserFromContext(ctx context.Context) (*VerifiedUser, bool) {
	user, ok := ctx.Value(VerifiedUserKey).(*VerifiedUser)
	return user, ok
}
