package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/martclinic/clinic-auth/internal/core/domain"
	"github.com/martclinic/clinic-auth/internal/core/ports"
)

// SessionValidator turns a presented bearer token into an authenticated user,
// or definitively rejects it. Claims in the token are treated as a hint only:
// the user is re-read from the store so role changes and deactivation take
// effect immediately, even on tokens that have not yet expired.
type SessionValidator struct {
	codec ports.TokenCodec
	users ports.UserStore
	log   zerolog.Logger
}

var _ ports.SessionValidator = (*SessionValidator)(nil)

func NewSessionValidator(codec ports.TokenCodec, users ports.UserStore, log zerolog.Logger) *SessionValidator {
	return &SessionValidator{codec: codec, users: users, log: log}
}

// Resolve returns the authenticated user, or nil for any failure: bad
// signature, expiry, unknown user, inactive account. It never returns an
// error; callers treat nil as "not authenticated" and discard the token.
func (v *SessionValidator) Resolve(ctx context.Context, token string) *domain.User {
	claims, err := v.codec.Verify(token)
	if err != nil {
		v.log.Debug().Msg("session token rejected")
		return nil
	}

	user, err := v.users.FindByID(ctx, claims.UserID)
	if err != nil {
		v.log.Debug().Int64("user_id", claims.UserID).Msg("session user no longer exists")
		return nil
	}
	if !user.IsActive {
		v.log.Debug().Int64("user_id", user.ID).Msg("session user deactivated")
		return nil
	}
	return user
}
