package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/martclinic/clinic-auth/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    7,
		Email: "bob@example.com",
		Name:  "Bob Example",
		Role:  domain.RoleNurse,
	}
}

func TestCodec_IssueAndVerify(t *testing.T) {
	c := NewCodec("secret", time.Hour)

	tok, err := c.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := c.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "bob@example.com" || claims.Name != "Bob Example" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Role != domain.RoleNurse {
		t.Fatalf("expected role nurse, got %s", claims.Role)
	}
}

func TestCodec_Verify_WrongSecret(t *testing.T) {
	tok, err := NewCodec("secret-a", time.Hour).Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewCodec("secret-b", time.Hour).Verify(tok); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestCodec_Verify_TamperedPayload(t *testing.T) {
	c := NewCodec("secret", time.Hour)
	tok, err := c.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Elevate the role inside the payload without re-signing.
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	payload["role"] = "admin"
	mutated, _ := json.Marshal(payload)
	parts[1] = base64.RawURLEncoding.EncodeToString(mutated)

	if _, err := c.Verify(strings.Join(parts, ".")); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered payload, got %v", err)
	}
}

func TestCodec_Verify_Expired(t *testing.T) {
	c := NewCodec("secret", time.Hour)
	c.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := c.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Back to real time: token expired an hour ago but signature is intact.
	c.now = time.Now
	if _, err := c.Verify(tok); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", err)
	}
	if !c.IsExpired(tok) {
		t.Fatal("IsExpired should report true")
	}
}

func TestCodec_Verify_WrongIssuerAudience(t *testing.T) {
	c := NewCodec("secret", time.Hour)

	sign := func(iss, aud string) string {
		claims := Claims{
			UserID: 7, Email: "bob@example.com", Role: "nurse", Name: "Bob",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    iss,
				Audience:  jwt.ClaimStrings{aud},
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return tok
	}

	if _, err := c.Verify(sign("someone-else", Audience)); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected rejection for wrong issuer, got %v", err)
	}
	if _, err := c.Verify(sign(Issuer, "other-audience")); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected rejection for wrong audience, got %v", err)
	}
	if _, err := c.Verify(sign(Issuer, Audience)); err != nil {
		t.Fatalf("matching issuer/audience should verify: %v", err)
	}
}

func TestCodec_Verify_Malformed(t *testing.T) {
	c := NewCodec("secret", time.Hour)
	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := c.Verify(tok); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Errorf("Verify(%q): expected ErrTokenInvalid, got %v", tok, err)
		}
	}
}

func TestCodec_DecodeUnsafe(t *testing.T) {
	// DecodeUnsafe works across secrets: it never checks the signature.
	tok, err := NewCodec("secret-a", time.Hour).Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, ok := NewCodec("secret-b", time.Hour).DecodeUnsafe(tok)
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if claims.UserID != 7 || claims.Role != domain.RoleNurse {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, ok := NewCodec("x", time.Hour).DecodeUnsafe("not-a-token"); ok {
		t.Fatal("expected decode failure for garbage")
	}
}

func TestCodec_ShouldRefresh(t *testing.T) {
	c := NewCodec("secret", time.Hour)
	tok, err := c.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// 59m left: above a 30m threshold.
	if c.ShouldRefresh(tok, 30*time.Minute) {
		t.Fatal("fresh token should not need refresh")
	}
	// 10m left.
	c.now = func() time.Time { return time.Now().Add(50 * time.Minute) }
	if !c.ShouldRefresh(tok, 30*time.Minute) {
		t.Fatal("token within threshold should need refresh")
	}
	// Undecodable: always refresh.
	if !c.ShouldRefresh("garbage", 30*time.Minute) {
		t.Fatal("undecodable token should need refresh")
	}
}

func TestCodec_ExpiresAt(t *testing.T) {
	c := NewCodec("secret", time.Hour)
	issued := time.Now()
	c.now = func() time.Time { return issued }

	tok, err := c.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	exp, ok := c.ExpiresAt(tok)
	if !ok {
		t.Fatal("expected an expiry")
	}
	want := issued.Add(time.Hour)
	if exp.Unix() != want.Unix() {
		t.Fatalf("expiry = %v, want %v", exp, want)
	}

	if _, ok := c.ExpiresAt("garbage"); ok {
		t.Fatal("garbage should have no expiry")
	}
}
