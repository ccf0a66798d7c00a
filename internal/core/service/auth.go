package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/martclinic/clinic-auth/internal/core/domain"
	"github.com/martclinic/clinic-auth/internal/core/ports"
)

// RequestMeta carries per-request client attributes stamped onto audit
// entries.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// RegisterInput is the self-service registration payload.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
	Phone           string
	Department      string
	Role            domain.Role
}

// PasswordChangeInput is the change-password payload.
type PasswordChangeInput struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// AuthService implements login, registration and self-service account
// operations. All audit writes are best-effort: a failed activity record
// never fails the operation that produced it.
type AuthService struct {
	users    ports.UserStore
	codec    ports.TokenCodec
	verifier ports.CredentialVerifier
	activity ports.ActivitySink
	throttle ports.LoginThrottle
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserStore,
	codec ports.TokenCodec,
	verifier ports.CredentialVerifier,
	activity ports.ActivitySink,
	throttle ports.LoginThrottle,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		codec:    codec,
		verifier: verifier,
		activity: activity,
		throttle: throttle,
		log:      log,
	}
}

// Login authenticates by email and password and issues a session token.
// Every authentication failure surfaces as domain.ErrInvalidCredentials:
// "no such account", "deactivated" and "wrong password" are deliberately
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string, meta RequestMeta) (*domain.User, string, error) {
	email = domain.NormalizeEmail(email)

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle unavailable, allowing attempt")
		} else if !allowed {
			return nil, "", domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		// A store outage is not a credential failure: propagate it raw and
		// leave the caller's throttle budget untouched.
		return nil, "", fmt.Errorf("login lookup: %w", err)
	}
	if err != nil || !user.IsActive || !s.verifier.Verify(user.PasswordHash, password) {
		s.recordFailure(ctx, email)
		return nil, "", domain.ErrInvalidCredentials
	}

	// Mutate first, issue the token only once the login is committed.
	user, err = s.users.SetLastLogin(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	tok, err := s.codec.Issue(user)
	if err != nil {
		return nil, "", err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("login throttle reset failed")
		}
	}
	s.record(ctx, ports.ActivityInput{
		UserID:    user.ID,
		Action:    domain.ActionLogin,
		Resource:  domain.ResourceAuth,
		Details:   "User logged in successfully",
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
	})
	return user, tok, nil
}

// Register creates an account and authenticates it in one step.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, meta RequestMeta) (*domain.User, string, error) {
	if in.Password != in.ConfirmPassword {
		return nil, "", domain.ErrPasswordMismatch
	}
	role := in.Role
	if role == "" {
		role = domain.RolePatient
	}
	if !role.Valid() {
		return nil, "", domain.ErrInvalidCredentials
	}

	hash, err := s.verifier.Hash(in.Password)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.Create(ctx, ports.NewUser{
		Email:        domain.NormalizeEmail(in.Email),
		Name:         in.Name,
		Role:         role,
		Phone:        in.Phone,
		Department:   in.Department,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, "", err
	}

	// Registration doubles as the first login.
	if stamped, err := s.users.SetLastLogin(ctx, user.ID); err == nil {
		user = stamped
	}
	tok, err := s.codec.Issue(user)
	if err != nil {
		return nil, "", err
	}

	s.record(ctx, ports.ActivityInput{
		UserID:     user.ID,
		Action:     domain.ActionCreate,
		Resource:   domain.ResourceUser,
		ResourceID: &user.ID,
		Details:    "New user registered",
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	})
	return user, tok, nil
}

// Logout records the logout of userID. It never fails; there is no
// server-side session to destroy, the client discards its token.
func (s *AuthService) Logout(ctx context.Context, userID int64, meta RequestMeta) {
	if userID == 0 {
		return
	}
	s.record(ctx, ports.ActivityInput{
		UserID:    userID,
		Action:    domain.ActionLogout,
		Resource:  domain.ResourceAuth,
		Details:   "User logged out",
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
	})
}

// UpdateProfile mutates the caller's own profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, upd domain.ProfileUpdate, meta RequestMeta) (*domain.User, error) {
	user, err := s.users.Update(ctx, userID, domain.UserUpdate{
		Name:       upd.Name,
		Phone:      upd.Phone,
		Department: upd.Department,
		Avatar:     upd.Avatar,
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, ports.ActivityInput{
		UserID:     userID,
		Action:     domain.ActionUpdate,
		Resource:   domain.ResourceProfile,
		ResourceID: &userID,
		Details:    "Profile updated",
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	})
	return user, nil
}

// ChangePassword verifies the current password and stores a new hash. The
// session token is not re-issued; the existing one stays valid.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, in PasswordChangeInput, meta RequestMeta) error {
	if in.NewPassword != in.ConfirmPassword {
		return domain.ErrPasswordMismatch
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.verifier.Verify(user.PasswordHash, in.CurrentPassword) {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.verifier.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	if _, err := s.users.Update(ctx, userID, domain.UserUpdate{PasswordHash: &hash}); err != nil {
		return err
	}

	s.record(ctx, ports.ActivityInput{
		UserID:     userID,
		Action:     domain.ActionUpdate,
		Resource:   domain.ResourcePassword,
		ResourceID: &userID,
		Details:    "Password changed",
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	})
	return nil
}

func (s *AuthService) record(ctx context.Context, in ports.ActivityInput) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, in); err != nil {
		s.log.Warn().Err(err).Str("action", in.Action).Str("resource", in.Resource).
			Msg("activity record dropped")
	}
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Fail(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("login throttle update failed")
	}
}
