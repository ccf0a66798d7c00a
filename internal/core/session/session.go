// Package session provides the stateful client-side counterpart to the auth
// service: a per-client state machine that owns the current user, the bearer
// token and the most recent error, and gates capability queries on the live
// session. Embedders (a web shell, a CLI, tests) hold one Session per client
// context.
package session

import (
	"context"
	"sync"

	"github.com/martclinic/clinic-auth/internal/core/domain"
	"github.com/martclinic/clinic-auth/internal/core/ports"
	"github.com/martclinic/clinic-auth/internal/core/service"
)

// State enumerates the session lifecycle.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
	Failed
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	default:
		return "unauthenticated"
	}
}

// Session serializes all operations behind one mutex: an interleaved logout
// and login can never leave a half-authenticated state, each operation
// commits atomically.
type Session struct {
	mu        sync.Mutex
	auth      *service.AuthService
	validator ports.SessionValidator
	meta      service.RequestMeta

	state State
	user  *domain.User
	token string
	err   error
}

// New returns a Session in the Unauthenticated state. meta is stamped onto
// audit entries produced by this client.
func New(auth *service.AuthService, validator ports.SessionValidator, meta service.RequestMeta) *Session {
	return &Session{auth: auth, validator: validator, meta: meta}
}

// Bootstrap restores a session from a persisted token. A token that fails
// resolution is discarded and the session stays Unauthenticated; Bootstrap
// itself never fails.
func (s *Session) Bootstrap(ctx context.Context, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
	if token == "" {
		s.reset()
		return false
	}
	user := s.validator.Resolve(ctx, token)
	if user == nil {
		s.reset()
		return false
	}
	s.state = Authenticated
	s.user = user
	s.token = token
	return true
}

// Login authenticates and transitions to Authenticated on success. On
// failure the session holds the error and returns to Unauthenticated.
func (s *Session) Login(ctx context.Context, email, password string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
	s.state = Authenticating

	user, token, err := s.auth.Login(ctx, email, password, s.meta)
	if err != nil {
		s.fail(err)
		return nil, err
	}
	s.state = Authenticated
	s.user = user
	s.token = token
	return user, nil
}

// Register creates an account and authenticates it.
func (s *Session) Register(ctx context.Context, in service.RegisterInput) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
	s.state = Authenticating

	user, token, err := s.auth.Register(ctx, in, s.meta)
	if err != nil {
		s.fail(err)
		return nil, err
	}
	s.state = Authenticated
	s.user = user
	s.token = token
	return user, nil
}

// Logout discards the session. Idempotent, never fails; a second call is a
// no-op on an already Unauthenticated session.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
	if s.user != nil {
		s.auth.Logout(ctx, s.user.ID, s.meta)
	}
	s.reset()
}

// UpdateProfile mutates the authenticated user's own profile.
func (s *Session) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
	if s.state != Authenticated {
		s.fail(domain.ErrUnauthenticated)
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.auth.UpdateProfile(ctx, s.user.ID, upd, s.meta)
	if err != nil {
		s.fail(err)
		return nil, err
	}
	s.state = Authenticated
	s.user = user
	return user, nil
}

// ChangePassword rotates the authenticated user's password. The current
// token remains valid.
func (s *Session) ChangePassword(ctx context.Context, in service.PasswordChangeInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
	if s.state != Authenticated {
		s.fail(domain.ErrUnauthenticated)
		return domain.ErrUnauthenticated
	}
	if err := s.auth.ChangePassword(ctx, s.user.ID, in, s.meta); err != nil {
		s.fail(err)
		return err
	}
	s.state = Authenticated
	return nil
}

// IsAuthenticated reports whether a user is currently signed in.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Authenticated
}

// CurrentUser returns the signed-in user, or nil.
func (s *Session) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Token returns the bearer token for persistence across reloads, or "".
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// HasPermission answers a capability query for the current session. An
// unauthenticated session holds no capabilities at all.
func (s *Session) HasPermission(c domain.Capability) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Authenticated || s.user == nil {
		return false
	}
	return domain.HasPermission(s.user.Role, c)
}

// CurrentError returns the message of the most recent failed operation, or
// "". Each new operation clears it before proceeding.
func (s *Session) CurrentError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		return ""
	}
	return s.err.Error()
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// fail records err. A failed login or register lands in Failed (still not
// authenticated); a failed operation on a live session keeps the user signed
// in.
func (s *Session) fail(err error) {
	s.err = err
	if s.user == nil {
		s.state = Failed
	} else {
		s.state = Authenticated
	}
}

func (s *Session) reset() {
	s.state = Unauthenticated
	s.user = nil
	s.token = ""
}
