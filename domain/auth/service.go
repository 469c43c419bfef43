package auth

import (
	"context"
	"strings"

	"github.com/danuarta/waitlist-api/internal/log"
	apperrors "github.com/danuarta/waitlist-api/pkg/errors"
	"github.com/danuarta/waitlist-api/pkg/utils"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (req *LoginRequest) Validate() []apperrors.ValidationErrorResponse {
	req.Email = strings.TrimSpace(req.Email)

	if err := validate.Struct(req); err != nil {
		return apperrors.FormatValidationErrors(err, req)
	}

	return nil
}

// LoginResult distinguishes the two session kinds a login can establish.
// Admin logins carry no token: the admin session is local-only.
type LoginResult struct {
	Admin bool
	Token string
	User  *VerifiedUser
}

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
}

// AdminCredential is the single shared admin login. This is a placeholder
// credential mechanism, not a user store: one email/password pair from the
// environment, bcrypt-compared.
type AdminCredential struct {
	Email        string
	PasswordHash []byte
}

func LoadAdminCredential(logger *log.Logger) AdminCredential {
	email := utils.GetEnvTrimmedOrDefault("ADMIN_EMAIL", "admin@test.com")

	if hash := utils.GetEnvTrimmed("ADMIN_PASSWORD_HASH"); hash != "" {
		return AdminCredential{Email: email, PasswordHash: []byte(hash)}
	}

	password := utils.GetEnvTrimmedOrDefault("ADMIN_PASSWORD", "admin123")
	generated, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash admin password", "error", err)
	}

	logger.Warn("Admin credential loaded from ADMIN_PASSWORD (or its default); this is a placeholder mechanism, set ADMIN_PASSWORD_HASH in production")

	return AdminCredential{Email: email, PasswordHash: generated}
}

type authService struct {
	logger        *log.Logger
	admin         AdminCredential
	authenticator Authenticator
}

func NewAuthService(logger *log.Logger, admin AdminCredential, authenticator Authenticator) AuthService {
	return &authService{logger: logger, admin: admin, authenticator: authenticator}
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		return nil, apperrors.NewValidationError("Invalid login request", fieldErrors)
	}

	if strings.EqualFold(req.Email, s.admin.Email) {
		if bcrypt.CompareHashAndPassword(s.admin.PasswordHash, []byte(req.Password)) != nil {
			logger.Warn("Admin login rejected", "email", req.Email)
			return nil, apperrors.NewUnauthorizedError("Invalid email or password", nil)
		}

		logger.Info("Admin login accepted")
		return &LoginResult{Admin: true}, nil
	}

	token, user, err := s.authenticator.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user}, nil
}
