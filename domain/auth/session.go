package auth

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/danuarta/waitlist-api/config/router"
	"github.com/danuarta/waitlist-api/internal/log"
	"github.com/danuarta/waitlist-api/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
)

// Cookie names follow the original deployment. All three cookies are HTTP-only.
const (
	TokenCookieName = "token"
	UserCookieName  = "user"
	AdminCookieName = "admin_session"
)

const adminSessionTTL = 7 * 24 * time.Hour

const adminScope = "admin"

type adminClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// SessionManager owns the cookie plumbing for the two session mechanisms:
// the user session (an opaque bearer token issued by the auth collaborator,
// stored as-is and verified remotely on every guarded request) and the admin
// session (a locally signed flag token, verified without any remote call).
// The two have different verification strength and are deliberately kept as
// separate code paths.
type SessionManager struct {
	secret []byte
	secure bool
}

func NewSessionManager(logger *log.Logger) *SessionManager {
	secret := utils.GetEnvTrimmed("SESSION_SECRET")
	if secret == "" {
		secret = "waitlist-dev-session-secret"
		logger.Warn("SESSION_SECRET not set; using a development default that must not reach production")
	}

	appEnv := utils.GetEnvTrimmed("APP_ENV")
	secure := appEnv == "production" || appEnv == "prod"

	return &SessionManager{secret: []byte(secret), secure: secure}
}

func (sm *SessionManager) issueAdminToken(now time.Time) (string, error) {
	claims := adminClaims{
		Scope: adminScope,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(adminSessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sm.secret)
}

func (sm *SessionManager) verifyAdminToken(tokenStr string) error {
	token, err := jwt.ParseWithClaims(tokenStr, &adminClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return sm.secret, nil
	})
	if err != nil {
		return err
	}

	claims, ok := token.Claims.(*adminClaims)
	if !ok || !token.Valid {
		return fmt.Errorf("invalid admin session token")
	}
	if claims.Scope != adminScope {
		return fmt.Errorf("unexpected session scope %q", claims.Scope)
	}

	return nil
}

// SetAdminCookie signs and installs the admin flag cookie.
func (sm *SessionManager) SetAdminCookie(ctx *router.RequestContext) error {
	token, err := sm.issueAdminToken(time.Now())
	if err != nil {
		return err
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(AdminCookieName, token, int(adminSessionTTL.Seconds()), "/", "", sm.secure, true)
	return nil
}

func (sm *SessionManager) ClearAdminCookie(ctx *router.RequestContext) {
	ctx.SetCookie(AdminCookieName, "", -1, "/", "", sm.secure, true)
}

// VerifyAdminCookie reports whether the request carries a valid admin session.
func (sm *SessionManager) VerifyAdminCookie(ctx *router.RequestContext) error {
	token, err := ctx.Cookie(AdminCookieName)
	if err != nil {
		return err
	}
	return sm.verifyAdminToken(token)
}

// SetUserCookies stores the collaborator-issued bearer token and the user
// payload. The token is opaque to this service; it is never verified locally.
func (sm *SessionManager) SetUserCookies(ctx *router.RequestContext, token string, userJSON string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(TokenCookieName, token, 0, "/", "", sm.secure, true)
	ctx.SetCookie(UserCookieName, url.QueryEscape(userJSON), 0, "/", "", sm.secure, true)
}

func (sm *SessionManager) ClearUserCookies(ctx *router.RequestContext) {
	ctx.SetCookie(TokenCookieName, "", -1, "/", "", sm.secure, true)
	ctx.SetCookie(UserCookieName, "", -1, "/", "", sm.secure, true)
}

// UserToken returns the bearer token from the user session cookie, or an
// error when no user session is present.
func (sm *SessionManager) UserToken(ctx *router.RequestContext) (string, error) {
	return ctx.Cookie(TokenCookieName)
}
