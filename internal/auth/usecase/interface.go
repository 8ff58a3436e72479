package usecase

import (
	authdomain "medbot-backend/internal/auth/domain"
	authdto "medbot-backend/internal/auth/dto"
)

// AuthUsecase defines the interface for account and session use cases
type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error

	// ValidateToken parses an access token and loads its user
	ValidateToken(tokenString string) (*authdomain.User, error)

	RegisterDevice(userID string, req *authdto.RegisterDeviceRequest) error
	UnregisterDevice(userID, token string) error
}
