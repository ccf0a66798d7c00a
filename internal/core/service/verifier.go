package service

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/martclinic/clinic-auth/internal/core/ports"
)

// BcryptVerifier implements password hashing and verification with bcrypt.
type BcryptVerifier struct {
	cost int
}

var _ ports.CredentialVerifier = (*BcryptVerifier)(nil)

// NewBcryptVerifier returns a verifier using the given cost, or
// bcrypt.DefaultCost when cost is out of range.
func NewBcryptVerifier(cost int) *BcryptVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptVerifier{cost: cost}
}

func (v *BcryptVerifier) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), v.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (v *BcryptVerifier) Verify(passwordHash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) == nil
}
