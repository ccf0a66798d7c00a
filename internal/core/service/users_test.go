package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/martclinic/clinic-auth/internal/core/domain"
	"github.com/martclinic/clinic-auth/internal/core/ports"
	"github.com/martclinic/clinic-auth/internal/infrastructure/memory"
)

func newUserServiceFixture(t *testing.T) (*UserService, *memory.UserStore, *memory.ActivityLog) {
	t.Helper()
	store := memory.NewUserStore()
	activity := memory.NewActivityLog()
	svc := NewUserService(store, plainVerifier{}, activity, zerolog.Nop())
	return svc, store, activity
}

func TestUserService_CreateUser(t *testing.T) {
	svc, _, activity := newUserServiceFixture(t)

	user, err := svc.CreateUser(context.Background(), 1, RegisterInput{
		Email:           "new@example.com",
		Password:        "longenough",
		ConfirmPassword: "longenough",
		Name:            "New Staff",
		Role:            domain.RoleReceptionist,
	}, RequestMeta{})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Role != domain.RoleReceptionist {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	// Admin provisioning is not a login.
	if user.LastLoginAt != nil {
		t.Fatal("provisioned user should have no lastLoginAt")
	}

	records, err := activity.Recent(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != 1 || records[0].UserID != 1 || records[0].Action != domain.ActionCreate {
		t.Fatalf("expected one create record attributed to the actor, got %+v", records)
	}
}

func TestUserService_CreateUser_InvalidRole(t *testing.T) {
	svc, _, _ := newUserServiceFixture(t)
	_, err := svc.CreateUser(context.Background(), 1, RegisterInput{
		Email:           "x@example.com",
		Password:        "longenough",
		ConfirmPassword: "longenough",
		Name:            "X",
		Role:            "superuser",
	}, RequestMeta{})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_UpdateAndDelete(t *testing.T) {
	svc, store, _ := newUserServiceFixture(t)
	target, _ := store.Create(context.Background(), ports.NewUser{
		Email: "target@example.com", Name: "Target", Role: domain.RolePatient, PasswordHash: "hash",
	})

	role := domain.RoleNurse
	updated, err := svc.UpdateUser(context.Background(), 1, target.ID, domain.UserUpdate{Role: &role}, RequestMeta{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Role != domain.RoleNurse {
		t.Fatalf("role not updated: %s", updated.Role)
	}

	bad := domain.Role("superuser")
	if _, err := svc.UpdateUser(context.Background(), 1, target.ID, domain.UserUpdate{Role: &bad}, RequestMeta{}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected rejection of unknown role, got %v", err)
	}

	if err := svc.DeleteUser(context.Background(), 1, target.ID, RequestMeta{}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteUser(context.Background(), 1, target.ID, RequestMeta{}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_SetActive(t *testing.T) {
	svc, store, _ := newUserServiceFixture(t)
	target, _ := store.Create(context.Background(), ports.NewUser{
		Email: "toggle@example.com", Name: "Toggle", Role: domain.RoleDoctor, PasswordHash: "hash",
	})

	user, err := svc.SetActive(context.Background(), 1, target.ID, false, RequestMeta{})
	if err != nil {
		t.Fatalf("set active: %v", err)
	}
	if user.IsActive {
		t.Fatal("expected deactivated user")
	}

	if _, err := svc.SetActive(context.Background(), 1, 999, false, RequestMeta{}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
