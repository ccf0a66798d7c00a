package handler

import "github.com/martclinic/clinic-auth/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	Name            string `json:"name"             validate:"required"`
	Phone           string `json:"phone"`
	Department      string `json:"department"`
	Role            string `json:"role"             validate:"omitempty,oneof=admin doctor nurse receptionist patient"`
}

type profileUpdateRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Avatar     *string `json:"avatar"`
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// sessionResponse is the capability surface the UI shell consumes.
type sessionResponse struct {
	User          *domain.User       `json:"user"`
	Permissions   domain.Permissions `json:"permissions"`
	ShouldRefresh bool               `json:"should_refresh"`
}
