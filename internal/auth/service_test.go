package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	s := NewService(nil, "test-secret")

	token, err := s.issueToken("user_1")
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	userID, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if userID != "user_1" {
		t.Errorf("subject = %q, want user_1", userID)
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	issuer := NewService(nil, "secret-a")
	verifier := NewService(nil, "secret-b")

	token, err := issuer.issueToken("user_1")
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("token signed with another secret validated")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	s := NewService(nil, "test-secret")
	for _, in := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := s.ValidateToken(in); err == nil {
			t.Errorf("ValidateToken(%q) passed", in)
		}
	}
}

func TestValidateTokenRejectsUnsignedAlg(t *testing.T) {
	s := NewService(nil, "test-secret")

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user_1"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.ValidateToken(token); err == nil {
		t.Error("alg=none token validated")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	s := NewService(nil, "test-secret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user_1",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	token, err := expired.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.ValidateToken(token); err == nil {
		t.Error("expired token validated")
	}
}

func TestValidateTokenRequiresSubject(t *testing.T) {
	s := NewService(nil, "test-secret")

	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := anonymous.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.ValidateToken(token); err == nil {
		t.Error("token without a subject validated")
	}
}
