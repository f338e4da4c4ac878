package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ldurand/contacthub/internal/auth"
)

const testSecret = "test-secret-key"

func TestIssueAndVerify(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	token, err := m.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if claims.Email != "alice@example.com" {
		t.Fatalf("claims email mismatch: got %q", claims.Email)
	}

	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected a future expiry, got %v", claims.ExpiresAt)
	}
}

func TestVerify_Expired(t *testing.T) {
	// a negative TTL produces a token already past its expiry
	m := auth.NewManager(testSecret, -time.Minute)

	token, err := m.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	_, err = auth.NewManager(testSecret, time.Hour).Verify(token)

	if !errors.Is(err, auth.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := auth.NewManager(testSecret, time.Hour).Issue("alice@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	_, err = auth.NewManager("another-secret", time.Hour).Verify(token)

	if !errors.Is(err, auth.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	for _, tokenStr := range []string{"", "garbage", "a.b.c"} {
		_, err := m.Verify(tokenStr)

		if !errors.Is(err, auth.ErrTokenInvalid) {
			t.Fatalf("token %q: expected ErrTokenInvalid, got %v", tokenStr, err)
		}
	}
}

func TestVerify_RejectsForeignAlgorithm(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	claims := auth.Claims{
		Email: "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)

	tokenStr, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing with none failed: %v", err)
	}

	_, err = m.Verify(tokenStr)

	if !errors.Is(err, auth.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for alg=none token, got %v", err)
	}
}
