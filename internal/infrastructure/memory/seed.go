package memory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/martclinic/clinic-auth/internal/core/domain"
	"github.com/martclinic/clinic-auth/internal/core/ports"
)

type seedUser struct {
	email      string
	name       string
	role       domain.Role
	phone      string
	department string
	password   string
}

// Development accounts, one per role. Passwords here are dev-only and are
// hashed through the verifier before they reach the store.
var seedUsers = []seedUser{
	{"admin@martclinic.com", "System Administrator", domain.RoleAdmin, "+1-555-0100", "IT", "admin123"},
	{"doctor@martclinic.com", "Dr. Sarah Johnson", domain.RoleDoctor, "+1-555-0101", "Cardiology", "doctor123"},
	{"nurse@martclinic.com", "Nurse Emily Davis", domain.RoleNurse, "+1-555-0102", "Emergency", "nurse123"},
	{"reception@martclinic.com", "Receptionist Mike Wilson", domain.RoleReceptionist, "+1-555-0103", "Front Desk", "reception123"},
	{"patient@martclinic.com", "John Patient", domain.RolePatient, "+1-555-0104", "", "patient123"},
}

// Seed loads the development accounts into the store. Intended for memory
// mode only; never run against a durable store.
func Seed(ctx context.Context, store ports.UserStore, verifier ports.CredentialVerifier, log zerolog.Logger) error {
	for _, su := range seedUsers {
		hash, err := verifier.Hash(su.password)
		if err != nil {
			return err
		}
		if _, err := store.Create(ctx, ports.NewUser{
			Email:        su.email,
			Name:         su.name,
			Role:         su.role,
			Phone:        su.phone,
			Department:   su.department,
			PasswordHash: hash,
		}); err != nil {
			return err
		}
		log.Debug().Str("email", su.email).Str("role", string(su.role)).Msg("seeded dev user")
	}
	return nil
}
