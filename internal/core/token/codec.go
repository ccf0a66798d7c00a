// Package token implements the session token codec on HS256 JWTs.
//
// Tokens are self-contained: signature plus embedded expiry fully determine
// validity, no server-side session lookup is involved. Issuer and audience
// are fixed constants; changing either invalidates every previously issued
// token by design.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/martclinic/clinic-auth/internal/core/domain"
	"github.com/martclinic/clinic-auth/internal/core/ports"
)

const (
	Issuer   = "martclinic-direct"
	Audience = "martclinic-users"

	// DefaultTTL is the token lifetime applied when none is configured.
	DefaultTTL = 24 * time.Hour

	// DefaultRefreshThreshold is how close to expiry a token must be
	// before clients are told to refresh it.
	DefaultRefreshThreshold = 30 * time.Minute
)

// Claims is the wire payload of a session token.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a symmetric secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ ports.TokenCodec = (*Codec)(nil)

// NewCodec returns a Codec bound to secret. A non-positive ttl falls back to
// DefaultTTL.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token carrying the user's identity claims.
func (c *Codec) Issue(user *domain.User) (string, error) {
	now := c.now().UTC()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify checks signature, expiry, issuer and audience. All failures collapse
// to domain.ErrTokenInvalid so callers cannot accidentally treat one class of
// bad token as acceptable.
func (c *Codec) Verify(token string) (*ports.TokenClaims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, c.keyFunc,
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return nil, domain.ErrTokenInvalid
	}
	return &ports.TokenClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   role,
		Name:   claims.Name,
	}, nil
}

func (c *Codec) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return c.secret, nil
}

// DecodeUnsafe extracts claims without verifying the signature. Diagnostics
// only: expiry inspection, never authorization.
func (c *Codec) DecodeUnsafe(token string) (*ports.TokenClaims, bool) {
	claims, ok := c.decodeRaw(token)
	if !ok {
		return nil, false
	}
	return &ports.TokenClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   domain.Role(claims.Role),
		Name:   claims.Name,
	}, true
}

// IsExpired reports whether the token's expiry is in the past. Tokens with no
// decodable expiry count as expired.
func (c *Codec) IsExpired(token string) bool {
	exp, ok := c.ExpiresAt(token)
	if !ok {
		return true
	}
	return exp.Before(c.now())
}

// ExpiresAt returns the embedded expiry without verifying the signature.
func (c *Codec) ExpiresAt(token string) (time.Time, bool) {
	claims, ok := c.decodeRaw(token)
	if !ok || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// ShouldRefresh reports whether the token is within threshold of expiry, or
// has no decodable expiry at all. A non-positive threshold falls back to
// DefaultRefreshThreshold.
func (c *Codec) ShouldRefresh(token string, threshold time.Duration) bool {
	if threshold <= 0 {
		threshold = DefaultRefreshThreshold
	}
	exp, ok := c.ExpiresAt(token)
	if !ok {
		return true
	}
	return exp.Sub(c.now()) < threshold
}

func (c *Codec) decodeRaw(token string) (*Claims, bool) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}
