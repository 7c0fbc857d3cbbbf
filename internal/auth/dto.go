package auth

import (
	"github.com/mussa52/madalali-tz/internal/users"
)

// RegisterRequest is the public sign-up payload. Role may be client or agent;
// anything else falls back to client.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Phone    *string `json:"phone,omitempty"`
	Role     string  `json:"role,omitempty"`
}

// LoginRequest carries the credentials for an email/password login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the self-service partial profile update.
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty"`
}

// ChangePasswordRequest swaps the caller's password after verifying the
// current one.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// SessionResponse is returned from register and login: the sanitized account
// plus a bearer token.
type SessionResponse struct {
	User  *users.UserDTO `json:"user"`
	Token string         `json:"token"`
}
