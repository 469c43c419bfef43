package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danuarta/waitlist-api/internal/log"
	"github.com/danuarta/waitlist-api/pkg/circuitbreaker"
	apperrors "github.com/danuarta/waitlist-api/pkg/errors"
	"github.com/danuarta/waitlist-api/pkg/retry"
	"github.com/danuarta/waitlist-api/pkg/utils"
)

// VerifiedUser is the identity payload returned by the auth collaborator.
type VerifiedUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TokenVerifier checks a bearer token against the auth collaborator.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*VerifiedUser, error)
}

// Authenticator exchanges credentials for a bearer token at the collaborator.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, *VerifiedUser, error)
}

// RemoteAuthClient talks to the external auth service. Outbound calls go
// through a circuit breaker and a bounded backoff retry; the retry policy only
// repeats transport-level failures, never auth rejections.
type RemoteAuthClient struct {
	baseURL string
	client  *http.Client
	breaker circuitbreaker.CircuitBreaker
	backoff retry.RetryPolicy
	logger  *log.Logger
}

func NewRemoteAuthClient(logger *log.Logger) *RemoteAuthClient {
	baseURL := strings.TrimRight(utils.GetEnvTrimmedOrDefault("AUTH_SERVICE_URL", "http://localhost:9090"), "/")

	return &RemoteAuthClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: circuitbreaker.NewCircuitBreaker(nil),
		backoff: retry.NewExponentialBackoff(&retry.Config{
			MaxAttempts: 2,
			BaseDelay:   200 * time.Millisecond,
			MaxDelay:    2 * time.Second,
			Multiplier:  2.0,
		}),
		logger: logger,
	}
}

type remoteLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type remoteLoginContent struct {
	Token string       `json:"token"`
	User  VerifiedUser `json:"user"`
}

type remoteLoginEnvelope struct {
	Content *remoteLoginContent `json:"content"`
	Message string              `json:"message"`
}

type remoteVerifyEnvelope struct {
	Content *VerifiedUser `json:"content"`
	Message string        `json:"message"`
}

func (c *RemoteAuthClient) Login(ctx context.Context, email, password string) (string, *VerifiedUser, error) {
	payload, err := json.Marshal(remoteLoginRequest{Email: email, Password: password})
	if err != nil {
		return "", nil, apperrors.NewInternalServerError("unable to encode login request", err)
	}

	var envelope remoteLoginEnvelope
	var unauthorized bool

	call := func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(payload))
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Content-Type", "application/json")

		resp, doErr := c.client.Do(req)
		if doErr != nil {
			return doErr
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			return json.NewDecoder(resp.Body).Decode(&envelope)
		case resp.StatusCode == http.StatusUnauthorized:
			unauthorized = true
			return nil
		default:
			return fmt.Errorf("auth service returned status %d", resp.StatusCode)
		}
	}

	if err := c.breaker.Call(func() error { return c.backoff.Execute(call) }); err != nil {
		c.logger.Error("Auth service login call failed", "error", err)
		return "", nil, apperrors.NewInternalServerError("authentication service unavailable", err)
	}

	if unauthorized {
		return "", nil, apperrors.NewUnauthorizedError("Invalid email or password", nil)
	}

	if envelope.Content == nil || envelope.Content.Token == "" {
		return "", nil, apperrors.NewInternalServerError("authentication service returned an empty session", nil)
	}

	user := envelope.Content.User
	return envelope.Content.Token, &user, nil
}

func (c *RemoteAuthClient) Verify(ctx context.Context, token string) (*VerifiedUser, error) {
	var envelope remoteVerifyEnvelope
	var unauthorized bool

	call := func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/verify", nil)
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, doErr := c.client.Do(req)
		if doErr != nil {
			return doErr
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			return json.NewDecoder(resp.Body).Decode(&envelope)
		case resp.StatusCode == http.StatusUnauthorized:
			unauthorized = true
			return nil
		default:
			return fmt.Errorf("auth service returned status %d", resp.StatusCode)
		}
	}

	if err := c.breaker.Call(func() error { return c.backoff.Execute(call) }); err != nil {
		c.logger.Error("Auth service verify call failed", "error", err)
		return nil, apperrors.NewInternalServerError("authentication service unavailable", err)
	}

	if unauthorized {
		return nil, apperrors.NewUnauthorizedError("Invalid or expired session", nil)
	}

	if envelope.Content == nil {
		return nil, apperrors.NewInternalServerError("authentication service returned an empty identity", nil)
	}

	return envelope.Content, nil
}
