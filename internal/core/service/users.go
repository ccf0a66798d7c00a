package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/martclinic/clinic-auth/internal/core/domain"
	"github.com/martclinic/clinic-auth/internal/core/ports"
)

// UserService implements the admin-facing user management and activity log
// operations. Capability checks (canManageUsers, canViewActivity) happen in
// the transport layer; actorID identifies the admin performing the change for
// the audit trail.
type UserService struct {
	users    ports.UserStore
	verifier ports.CredentialVerifier
	activity ports.ActivityLog
	log      zerolog.Logger
}

func NewUserService(users ports.UserStore, verifier ports.CredentialVerifier, activity ports.ActivityLog, log zerolog.Logger) *UserService {
	return &UserService{users: users, verifier: verifier, activity: activity, log: log}
}

// List returns a snapshot of users, optionally including deactivated ones.
func (s *UserService) List(ctx context.Context, activeOnly bool) ([]*domain.User, error) {
	return s.users.List(ctx, activeOnly)
}

// Get returns a single user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// CreateUser provisions an account on behalf of an administrator. Unlike
// Register it does not authenticate the new account or stamp a login.
func (s *UserService) CreateUser(ctx context.Context, actorID int64, in RegisterInput, meta RequestMeta) (*domain.User, error) {
	if in.Password != in.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidCredentials, in.Role)
	}

	hash, err := s.verifier.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Create(ctx, ports.NewUser{
		Email:        domain.NormalizeEmail(in.Email),
		Name:         in.Name,
		Role:         in.Role,
		Phone:        in.Phone,
		Department:   in.Department,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, actorID, ports.ActivityInput{
		Action:     domain.ActionCreate,
		Resource:   domain.ResourceUser,
		ResourceID: &user.ID,
		Details:    "Created user: " + user.Name,
	}, meta)
	return user, nil
}

// UpdateUser applies an admin-level mutation, including role and email.
func (s *UserService) UpdateUser(ctx context.Context, actorID, id int64, upd domain.UserUpdate, meta RequestMeta) (*domain.User, error) {
	if upd.Role != nil && !upd.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidCredentials, *upd.Role)
	}
	user, err := s.users.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actorID, ports.ActivityInput{
		Action:     domain.ActionUpdate,
		Resource:   domain.ResourceUser,
		ResourceID: &id,
		Details:    "Updated user: " + user.Name,
	}, meta)
	return user, nil
}

// SetActive toggles the soft-delete flag. Deactivation takes effect on the
// target's very next session resolution, expired token or not.
func (s *UserService) SetActive(ctx context.Context, actorID, id int64, active bool, meta RequestMeta) (*domain.User, error) {
	user, err := s.users.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	verb := "Deactivated"
	if active {
		verb = "Activated"
	}
	s.record(ctx, actorID, ports.ActivityInput{
		Action:     domain.ActionUpdate,
		Resource:   domain.ResourceUser,
		ResourceID: &id,
		Details:    verb + " user: " + user.Name,
	}, meta)
	return user, nil
}

// DeleteUser hard-deletes a record.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id int64, meta RequestMeta) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Remove(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, ports.ActivityInput{
		Action:     domain.ActionDelete,
		Resource:   domain.ResourceUser,
		ResourceID: &id,
		Details:    "Deleted user: " + user.Name,
	}, meta)
	return nil
}

// Activity returns recent audit entries, newest first. userID 0 lists across
// all users.
func (s *UserService) Activity(ctx context.Context, userID int64, limit int) ([]*domain.ActivityRecord, error) {
	return s.activity.Recent(ctx, userID, limit)
}

func (s *UserService) record(ctx context.Context, actorID int64, in ports.ActivityInput, meta RequestMeta) {
	in.UserID = actorID
	in.IPAddress = meta.IP
	in.UserAgent = meta.UserAgent
	if err := s.activity.Record(ctx, in); err != nil {
		s.log.Warn().Err(err).Str("action", in.Action).Msg("activity record dropped")
	}
}
