package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danuarta/waitlist-api/internal/log"
	apperrors "github.com/danuarta/waitlist-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClientAgainst(t *testing.T, handler http.Handler) *RemoteAuthClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("AUTH_SERVICE_URL", server.URL)
	return NewRemoteAuthClient(log.NewLoggerWithJSONOutput())
}

func TestRemoteLoginSuccess(t *testing.T) {
	var gotBody remoteLoginRequest

	client := newClientAgainst(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": map[string]interface{}{
				"token": "remote-token",
				"user":  map[string]string{"id": "u1", "name": "Dana", "email": "dana@example.com"},
			},
		})
	}))

	token, user, err := client.Login(context.Background(), "dana@example.com", "pw")

	require.NoError(t, err)
	assert.Equal(t, "remote-token", token)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "dana@example.com", gotBody.Email)
	assert.Equal(t, "pw", gotBody.Password)
}

func TestRemoteLoginRejection(t *testing.T) {
	client := newClientAgainst(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	token, user, err := client.Login(context.Background(), "dana@example.com", "wrong")

	assert.Empty(t, token)
	assert.Nil(t, user)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.GetErrorType(err))
}

func TestRemoteLoginServiceFailure(t *testing.T) {
	client := newClientAgainst(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, _, err := client.Login(context.Background(), "dana@example.com", "pw")

	assert.Equal(t, apperrors.ErrorTypeInternalServerError, apperrors.GetErrorType(err))
}

func TestRemoteLoginEmptyContent(t *testing.T) {
	client := newClientAgainst(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"content": nil})
	}))

	_, _, err := client.Login(context.Background(), "dana@example.com", "pw")

	assert.Equal(t, apperrors.ErrorTypeInternalServerError, apperrors.GetErrorType(err))
}

func TestRemoteVerifySuccess(t *testing.T) {
	client := newClientAgainst(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/verify", r.URL.Path)
		require.Equal(t, "Bearer the-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": map[string]string{"id": "u1", "name": "Dana", "email": "dana@example.com"},
		})
	}))

	user, err := client.Verify(context.Background(), "the-token")

	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Dana", user.Name)
}

func TestRemoteVerifyRejection(t *testing.T) {
	client := newClientAgainst(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	user, err := client.Verify(context.Background(), "stale-token")

	assert.Nil(t, user)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.GetErrorType(err))
}
