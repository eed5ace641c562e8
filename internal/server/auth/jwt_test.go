package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/safedrive/safedrive/internal/common"
)

var testSecret = []byte("test-signing-secret")

func TestGenerateToken_ExtractSubject(t *testing.T) {
	token, err := GenerateToken("alice@example.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	subject, err := ExtractSubject(token, testSecret)
	if err != nil {
		t.Fatalf("ExtractSubject error: %v", err)
	}
	if subject != "alice@example.com" {
		t.Fatalf("expected alice@example.com, got %q", subject)
	}
}

func TestValidateToken_SubjectMatch(t *testing.T) {
	token, err := GenerateToken("alice@example.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if !ValidateToken(token, "alice@example.com", testSecret) {
		t.Fatal("expected token to validate against its own subject")
	}
	if ValidateToken(token, "bob@example.com", testSecret) {
		t.Fatal("token validated against a different subject")
	}
	if ValidateToken(token, "Alice@example.com", testSecret) {
		t.Fatal("subject comparison must be case-sensitive")
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("alice@example.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if ValidateToken(token, "alice@example.com", []byte("other-secret")) {
		t.Fatal("token validated with the wrong signing secret")
	}
}

func TestExpiredToken(t *testing.T) {
	token, err := GenerateToken("alice@example.com", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := ExtractSubject(token, testSecret); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
	if ValidateToken(token, "alice@example.com", testSecret) {
		t.Fatal("expired token validated")
	}
}

func TestExtractSubject_Malformed(t *testing.T) {
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := ExtractSubject(tok, testSecret); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestValidateToken_RejectsNoneAlg(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	if ValidateToken(token, "alice@example.com", testSecret) {
		t.Fatal("unsigned token validated")
	}
}
