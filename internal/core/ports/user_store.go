package ports

import (
	"context"

	"github.com/martclinic/clinic-auth/internal/core/domain"
)

// NewUser carries the fields required to create an account. The store fills
// in ID, CreatedAt and IsActive.
type NewUser struct {
	Email        string
	Name         string
	Role         domain.Role
	Phone        string
	Department   string
	PasswordHash string
}

// UserStore is the source of truth for user identity and role.
//
// Implementations must guarantee at most one user per email
// (case-insensitive): two concurrent Create calls with the same email may not
// both succeed; the loser gets domain.ErrDuplicateEmail.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, nu NewUser) (*domain.User, error)
	Update(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error)
	SetActive(ctx context.Context, id int64, active bool) (*domain.User, error)
	Remove(ctx context.Context, id int64) error
	List(ctx context.Context, activeOnly bool) ([]*domain.User, error)

	// SetLastLogin stamps a successful authentication. Kept separate from
	// Update so login never races with concurrent admin edits on the same
	// merge path.
	SetLastLogin(ctx context.Context, id int64) (*domain.User, error)
}
