package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestSessionManager(secret string) *SessionManager {
	return &SessionManager{secret: []byte(secret)}
}

func TestAdminTokenRoundTrip(t *testing.T) {
	sm := newTestSessionManager("round-trip-secret")

	token, err := sm.issueAdminToken(time.Now())
	if err != nil {
		t.Fatalf("issueAdminToken failed: %v", err)
	}

	if err := sm.verifyAdminToken(token); err != nil {
		t.Errorf("a freshly issued token must verify, got: %v", err)
	}
}

func TestAdminTokenRejectsWrongSecret(t *testing.T) {
	issuer := newTestSessionManager("secret-one")
	verifier := newTestSessionManager("secret-two")

	token, err := issuer.issueAdminToken(time.Now())
	if err != nil {
		t.Fatalf("issueAdminToken failed: %v", err)
	}

	if err := verifier.verifyAdminToken(token); err == nil {
		t.Error("a token signed with a different secret must be rejected")
	}
}

func TestAdminTokenRejectsTampering(t *testing.T) {
	sm := newTestSessionManager("tamper-secret")

	token, err := sm.issueAdminToken(time.Now())
	if err != nil {
		t.Fatalf("issueAdminToken failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if err := sm.verifyAdminToken(tampered); err == nil {
		t.Error("a tampered token must be rejected")
	}

	if err := sm.verifyAdminToken("not-a-jwt"); err == nil {
		t.Error("garbage input must be rejected")
	}
}

func TestAdminTokenRejectsExpired(t *testing.T) {
	sm := newTestSessionManager("expiry-secret")

	issuedAt := time.Now().Add(-adminSessionTTL - time.Hour)
	token, err := sm.issueAdminToken(issuedAt)
	if err != nil {
		t.Fatalf("issueAdminToken failed: %v", err)
	}

	if err := sm.verifyAdminToken(token); err == nil {
		t.Error("an expired token must be rejected")
	}
}

func TestAdminTokenRejectsWrongScope(t *testing.T) {
	sm := newTestSessionManager("scope-secret")

	claims := adminClaims{
		Scope: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sm.secret)
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	if err := sm.verifyAdminToken(token); err == nil {
		t.Error("a token without the admin scope must be rejected")
	}
}
