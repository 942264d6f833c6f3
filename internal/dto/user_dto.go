package dto

import (
	"contract-workflow-api/internal/domain"
)

// RegisterRequest represents a self-registration
type RegisterRequest struct {
	Name     string          `json:"name" binding:"required,max=255" example:"Keyla Nascimento"`
	Email    string          `json:"email" binding:"required,email" example:"keyla@ideiabh.com"`
	Password string          `json:"password" binding:"required,min=6,max=72"`
	Role     domain.UserRole `json:"role" example:"Atendimento"`
}

// LoginRequest represents a credential check
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries an issued token and its owner
type AuthResponse struct {
	Token     string       `json:"access_token"`
	TokenType string       `json:"token_type" example:"bearer"`
	User      *domain.User `json:"user"`
}

// CreateUserRequest represents a user created by an administrator
type CreateUserRequest struct {
	Name        string             `json:"name" binding:"required,max=255"`
	Email       string             `json:"email" binding:"required,email"`
	Password    string             `json:"password" binding:"required,min=6,max=72"`
	Role        domain.UserRole    `json:"role" binding:"required"`
	Permissions domain.Permissions `json:"permissions"`
}

// UpdateUserRequest represents a partial user update. All fields are optional.
type UpdateUserRequest struct {
	Name        *string            `json:"name" binding:"omitempty,max=255"`
	Role        *domain.UserRole   `json:"role"`
	Active      *bool              `json:"active"`
	Password    *string            `json:"password" binding:"omitempty,min=6,max=72"`
	Permissions domain.Permissions `json:"permissions"`
}
