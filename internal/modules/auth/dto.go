package auth

import "customscrm/internal/domain"

type RegisterRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Password     string `json:"password" binding:"required,min=8"`
	ActivityType string `json:"activity_type" binding:"required,oneof=declarant certifier"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type CreateCompanyRequest struct {
	Name string `json:"name" binding:"required"`
	INN  string `json:"inn" binding:"required,len=9"`
}

type JoinCompanyRequest struct {
	INN string `json:"inn" binding:"required"`
}

type HandleMembershipRequest struct {
	Approve bool `json:"approve"`
}

type UpdateProfileRequest struct {
	FullName     *string `json:"full_name"`
	Phone        *string `json:"phone"`
	SoundEnabled *bool   `json:"sound_enabled"`
}

// MeResponse is the profile payload: the user plus the company they belong
// to, when any.
type MeResponse struct {
	User    domain.User     `json:"user"`
	Company *domain.Company `json:"company,omitempty"`
}
