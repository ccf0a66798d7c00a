package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/martclinic/clinic-auth/internal/core/domain"
	"github.com/martclinic/clinic-auth/internal/core/ports"
	"github.com/martclinic/clinic-auth/internal/core/service"
	"github.com/martclinic/clinic-auth/internal/core/token"
	"github.com/martclinic/clinic-auth/internal/infrastructure/memory"
)

type plainVerifier struct{}

func (plainVerifier) Hash(password string) (string, error) { return "plain:" + password, nil }
func (plainVerifier) Verify(hash, password string) bool    { return hash == "plain:"+password }

type fixture struct {
	store   *memory.UserStore
	codec   *token.Codec
	session *Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewUserStore()
	codec := token.NewCodec("secret", time.Hour)
	log := zerolog.Nop()
	auth := service.NewAuthService(store, codec, plainVerifier{}, nil, nil, log)
	validator := service.NewSessionValidator(codec, store, log)
	return &fixture{
		store:   store,
		codec:   codec,
		session: New(auth, validator, service.RequestMeta{IP: "127.0.0.1"}),
	}
}

func (f *fixture) seed(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	user, err := f.store.Create(context.Background(), ports.NewUser{
		Email:        email,
		Name:         "Seeded User",
		Role:         role,
		PasswordHash: "plain:s3cret-pass",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return user
}

func TestSession_LoginLifecycle(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "doc@example.com", domain.RoleDoctor)

	if f.session.IsAuthenticated() {
		t.Fatal("new session should be unauthenticated")
	}

	user, err := f.session.Login(context.Background(), "doc@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !f.session.IsAuthenticated() || f.session.State() != Authenticated {
		t.Fatal("expected Authenticated state")
	}
	if f.session.CurrentUser().ID != user.ID {
		t.Fatal("current user mismatch")
	}
	if f.session.Token() == "" {
		t.Fatal("expected a persistable token")
	}
	if f.session.CurrentError() != "" {
		t.Fatalf("unexpected error: %s", f.session.CurrentError())
	}
}

func TestSession_LoginFailure(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "doc@example.com", domain.RoleDoctor)

	_, err := f.session.Login(context.Background(), "doc@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if f.session.IsAuthenticated() {
		t.Fatal("failed login must not authenticate")
	}
	if f.session.CurrentError() == "" {
		t.Fatal("expected a stored error message")
	}

	// The next operation clears the previous error before proceeding.
	if _, err := f.session.Login(context.Background(), "doc@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if f.session.CurrentError() != "" {
		t.Fatal("error should be cleared by the next operation")
	}
}

func TestSession_LogoutIdempotent(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "doc@example.com", domain.RoleDoctor)
	if _, err := f.session.Login(context.Background(), "doc@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("login: %v", err)
	}

	f.session.Logout(context.Background())
	if f.session.IsAuthenticated() || f.session.Token() != "" || f.session.CurrentUser() != nil {
		t.Fatal("logout should clear the session")
	}

	// Second logout is a no-op on the same terminal state.
	f.session.Logout(context.Background())
	if f.session.State() != Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %s", f.session.State())
	}
}

func TestSession_Bootstrap(t *testing.T) {
	f := newFixture(t)
	user := f.seed(t, "nurse@example.com", domain.RoleNurse)
	tok, err := f.codec.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if !f.session.Bootstrap(context.Background(), tok) {
		t.Fatal("bootstrap with a valid token should succeed")
	}
	if !f.session.IsAuthenticated() || f.session.CurrentUser().ID != user.ID {
		t.Fatal("bootstrap should restore the user")
	}
	if f.session.Token() != tok {
		t.Fatal("bootstrap should retain the presented token")
	}
}

func TestSession_Bootstrap_RejectsStaleToken(t *testing.T) {
	f := newFixture(t)
	user := f.seed(t, "nurse@example.com", domain.RoleNurse)
	tok, _ := f.codec.Issue(user)

	if _, err := f.store.SetActive(context.Background(), user.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if f.session.Bootstrap(context.Background(), tok) {
		t.Fatal("bootstrap must reject a token for a deactivated user")
	}
	if f.session.State() != Unauthenticated || f.session.Token() != "" {
		t.Fatal("rejected bootstrap should leave a clean unauthenticated session")
	}

	if f.session.Bootstrap(context.Background(), "") {
		t.Fatal("empty persisted token should not bootstrap")
	}
}

func TestSession_UpdateProfileRequiresAuth(t *testing.T) {
	f := newFixture(t)
	name := "New Name"
	if _, err := f.session.UpdateProfile(context.Background(), domain.ProfileUpdate{Name: &name}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if err := f.session.ChangePassword(context.Background(), service.PasswordChangeInput{}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSession_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "doc@example.com", domain.RoleDoctor)
	if _, err := f.session.Login(context.Background(), "doc@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("login: %v", err)
	}

	name, dept := "Dr. Updated", "Oncology"
	user, err := f.session.UpdateProfile(context.Background(), domain.ProfileUpdate{Name: &name, Department: &dept})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if user.Name != "Dr. Updated" || user.Department != "Oncology" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if f.session.CurrentUser().Name != "Dr. Updated" {
		t.Fatal("session should hold the refreshed user")
	}
}

func TestSession_HasPermission(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "nurse@example.com", domain.RoleNurse)

	// Unauthenticated sessions hold no capabilities.
	if f.session.HasPermission(domain.CanViewReservations) {
		t.Fatal("unauthenticated session granted a capability")
	}

	if _, err := f.session.Login(context.Background(), "nurse@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !f.session.HasPermission(domain.CanViewActivity) {
		t.Fatal("nurse should hold canViewActivity")
	}
	if f.session.HasPermission(domain.CanManageUsers) {
		t.Fatal("nurse must not hold canManageUsers")
	}

	f.session.Logout(context.Background())
	if f.session.HasPermission(domain.CanViewActivity) {
		t.Fatal("capabilities must vanish on logout")
	}
}
