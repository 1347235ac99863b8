package dto

import "github.com/pblab/pblab/internal/app/models"

// RegisterRequest represents a user registration payload
type RegisterRequest struct {
	Email    string          `json:"email" binding:"required,email" example:"ada@school.edu"`
	Password string          `json:"password" binding:"required,min=8" example:"s3cretpass"`
	FullName string          `json:"full_name" binding:"required" example:"Ada Lovelace"`
	Role     models.RoleType `json:"role" binding:"required" example:"student"`
}

// LoginRequest represents a login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents a token refresh payload
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"refresh_expires_in"`
	TokenType        string `json:"token_type" example:"Bearer"`
}

// ProfileResponse carries the authenticated user's profile
type ProfileResponse struct {
	ID       string          `json:"id"`
	Email    string          `json:"email"`
	FullName string          `json:"full_name"`
	Role     models.RoleType `json:"role"`
}
