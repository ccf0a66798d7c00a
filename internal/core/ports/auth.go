package ports

import (
	"context"
	"time"

	"github.com/martclinic/clinic-auth/internal/core/domain"
)

// TokenClaims is the identity payload carried by a session token.
type TokenClaims struct {
	UserID int64
	Email  string
	Role   domain.Role
	Name   string
}

// TokenCodec signs and verifies self-contained session tokens.
type TokenCodec interface {
	// Issue signs a token for the user, valid from now until now+TTL.
	Issue(user *domain.User) (string, error)
	// Verify checks signature, expiry, issuer and audience. Every failure
	// path returns domain.ErrTokenInvalid.
	Verify(token string) (*TokenClaims, error)
	// DecodeUnsafe extracts claims without verifying the signature. For
	// diagnostics only; never use the result for authorization.
	DecodeUnsafe(token string) (*TokenClaims, bool)
	// IsExpired reports whether the token's exp claim is in the past.
	// Undecodable tokens count as expired.
	IsExpired(token string) bool
	// ExpiresAt returns the token's expiry, if one can be decoded.
	ExpiresAt(token string) (time.Time, bool)
	// ShouldRefresh reports whether less than threshold remains before
	// expiry, or the expiry cannot be decoded at all.
	ShouldRefresh(token string, threshold time.Duration) bool
}

// CredentialVerifier checks a supplied password against a stored hash.
type CredentialVerifier interface {
	Verify(passwordHash, password string) bool
	Hash(password string) (string, error)
}

// SessionValidator turns a raw bearer token into an authenticated identity.
// Resolve returns nil for every failure mode: bad token, unknown user,
// deactivated account. It never returns an error.
type SessionValidator interface {
	Resolve(ctx context.Context, token string) *domain.User
}

// LoginThrottle limits authentication attempts per email. A nil throttle
// (dev mode) allows everything.
type LoginThrottle interface {
	// Allow reports whether another attempt is permitted for this email.
	Allow(ctx context.Context, email string) (bool, error)
	// Fail records a failed attempt.
	Fail(ctx context.Context, email string) error
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, email string) error
}
