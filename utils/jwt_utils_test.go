package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(secret, "65f0c0ffee", "admin", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "65f0c0ffee" || claims.Role != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	secret := []byte("test-secret")

	expired, _ := GenerateToken(secret, "u1", "member", -time.Minute)
	otherKey, _ := GenerateToken([]byte("other"), "u1", "member", time.Hour)
	noUser, _ := GenerateToken(secret, "", "member", time.Hour)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]string{
		"expired":      expired,
		"wrong secret": otherKey,
		"no user id":   noUser,
		"alg none":     none,
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ValidateToken(secret, token); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
