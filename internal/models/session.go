package models

import "time"

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type Session struct {
	User   User      `json:"user"`
	Token  string    `json:"token"`
	Expiry time.Time `json:"expiry"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type ResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyResetRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type AccountUpdate struct {
	CurrentEmail string `json:"currentEmail"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	NewPassword  string `json:"newPassword,omitempty" validate:"omitempty,min=6"`
}
