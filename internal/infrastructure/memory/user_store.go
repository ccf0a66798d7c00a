// Package memory holds the in-memory store and activity log used in
// development mode and in tests. Both satisfy the same ports as the Mongo
// implementations; production swaps them out behind identical contracts.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/martclinic/clinic-auth/internal/core/domain"
	"github.com/martclinic/clinic-auth/internal/core/ports"
)

// UserStore is a mutex-guarded map keyed by user id. The check-then-insert
// in Create runs under the write lock, so concurrent creates with the same
// email have at most one winner.
type UserStore struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64
	now    func() time.Time
}

var _ ports.UserStore = (*UserStore)(nil)

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int64]*domain.User), nextID: 1, now: time.Now}
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u := s.findByEmailLocked(email); u != nil {
		return clone(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStore) FindByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(u), nil
}

func (s *UserStore) Create(_ context.Context, nu ports.NewUser) (*domain.User, error) {
	email := domain.NormalizeEmail(nu.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findByEmailLocked(email) != nil {
		return nil, domain.ErrDuplicateEmail
	}
	u := &domain.User{
		ID:           s.nextID,
		Email:        email,
		Name:         nu.Name,
		Role:         nu.Role,
		Phone:        nu.Phone,
		Department:   nu.Department,
		PasswordHash: nu.PasswordHash,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}
	s.nextID++
	s.users[u.ID] = u
	return clone(u), nil
}

func (s *UserStore) Update(_ context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.Email != nil {
		email := domain.NormalizeEmail(*upd.Email)
		if other := s.findByEmailLocked(email); other != nil && other.ID != id {
			return nil, domain.ErrDuplicateEmail
		}
		u.Email = email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.Department != nil {
		u.Department = *upd.Department
	}
	if upd.Avatar != nil {
		u.Avatar = *upd.Avatar
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	return clone(u), nil
}

func (s *UserStore) SetActive(_ context.Context, id int64, active bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.IsActive = active
	return clone(u), nil
}

func (s *UserStore) Remove(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *UserStore) List(_ context.Context, activeOnly bool) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		if activeOnly && !u.IsActive {
			continue
		}
		out = append(out, clone(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *UserStore) SetLastLogin(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	now := s.now().UTC()
	u.LastLoginAt = &now
	return clone(u), nil
}

func (s *UserStore) findByEmailLocked(email string) *domain.User {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

// clone shields internal state from callers; LastLoginAt is the only pointer
// field worth deep-copying.
func clone(u *domain.User) *domain.User {
	c := *u
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		c.LastLoginAt = &t
	}
	return &c
}
