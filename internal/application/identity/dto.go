package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/purchase-invoice/backend/internal/domain/identity"
	"github.com/purchase-invoice/backend/internal/infrastructure/auth"
)

// RegisterRequest is the account sign-up body
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=200"`
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	Role      string `json:"role" binding:"required,oneof=PURCHASING_SPECIALIST FINANCE_SPECIALIST"`
}

// LoginRequest is the login body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is a registered account without credentials
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// TokenResponse is returned by a successful login
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ToUserResponse converts a domain User
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}

// ToTokenResponse converts an issued token
func ToTokenResponse(t *auth.Token) TokenResponse {
	return TokenResponse{
		Token:     t.AccessToken,
		TokenType: t.TokenType,
		ExpiresAt: t.ExpiresAt,
	}
}
