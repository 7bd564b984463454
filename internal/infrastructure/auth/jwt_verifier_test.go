package auth

import (
	"errors"
	"testing"
	"time"

	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase/interfaces"

	jwt "github.com/golang-jwt/jwt/v5"
)

func TestJWTVerifier_Verify(t *testing.T) {
	v := NewJWTVerifier("secret", "bookinghub")

	t.Run("valid token", func(t *testing.T) {
		tok, err := v.Issue("p1", entities.RoleProvider, time.Hour)
		if err != nil {
			t.Fatalf("Issue() error: %v", err)
		}
		id, err := v.Verify(tok)
		if err != nil {
			t.Fatalf("Verify() error: %v", err)
		}
		if id.SubjectID != "p1" || id.Role != entities.RoleProvider || id.ExpiresAt.IsZero() {
			t.Fatalf("unexpected identity: %+v", id)
		}
	})

	t.Run("upper case role", func(t *testing.T) {
		tok := sign(t, "secret", Claims{Sub: "a1", Role: "ADMIN", RegisteredClaims: registered("bookinghub", time.Hour)})
		id, err := v.Verify(tok)
		if err != nil || id.Role != entities.RoleAdmin {
			t.Fatalf("Verify() = %+v, %v", id, err)
		}
	})

	cases := []struct {
		name string
		tok  func() string
	}{
		{"empty", func() string { return " " }},
		{"garbage", func() string { return "not-a-jwt" }},
		{"wrong secret", func() string {
			return sign(t, "other", Claims{Sub: "c1", Role: "customer", RegisteredClaims: registered("bookinghub", time.Hour)})
		}},
		{"expired", func() string {
			return sign(t, "secret", Claims{Sub: "c1", Role: "customer", RegisteredClaims: registered("bookinghub", -time.Minute)})
		}},
		{"no expiry", func() string {
			return sign(t, "secret", Claims{Sub: "c1", Role: "customer", RegisteredClaims: jwt.RegisteredClaims{Issuer: "bookinghub"}})
		}},
		{"wrong issuer", func() string {
			return sign(t, "secret", Claims{Sub: "c1", Role: "customer", RegisteredClaims: registered("elsewhere", time.Hour)})
		}},
		{"unknown role", func() string {
			return sign(t, "secret", Claims{Sub: "c1", Role: "root", RegisteredClaims: registered("bookinghub", time.Hour)})
		}},
		{"group subject", func() string {
			return sign(t, "secret", Claims{Sub: "group:admins", Role: "admin", RegisteredClaims: registered("bookinghub", time.Hour)})
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Verify(tc.tok())
			if !errors.Is(err, interfaces.ErrInvalidCredential) {
				t.Fatalf("expected ErrInvalidCredential, got %v", err)
			}
		})
	}
}

func registered(issuer string, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{Issuer: issuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl))}
}

func sign(t *testing.T, secret string, c Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() error: %v", err)
	}
	return tok
}
