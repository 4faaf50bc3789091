package dto

import (
	"time"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
)

type LoginRequestDTO struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginResponseDTO struct {
	Token string              `json:"token"`
	User  *domain.UserProfile `json:"user"`
}

// ProfileUpdateDTO carries only the fields the operator changed.
type ProfileUpdateDTO struct {
	Nickname *string `json:"nickname,omitempty" validate:"omitempty,max=50"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

type ChangePasswordDTO struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,nefield=OldPassword"`
}

// LoginViewDTO is what the console answers after a successful sign in.
type LoginViewDTO struct {
	User     *domain.UserProfile `json:"user"`
	Redirect string              `json:"redirect"`
}

type ProfileViewDTO struct {
	User           *domain.UserProfile `json:"user"`
	Balance        string              `json:"balance"`
	TokenExpiresAt *time.Time          `json:"token_expires_at,omitempty"`
}
