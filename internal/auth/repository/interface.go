package repository

import authdomain "medbot-backend/internal/auth/domain"

// UserRepository defines the interface for user and refresh token persistence
type UserRepository interface {
	Create(user *authdomain.User) error
	// FindByEmail returns nil, nil when no user has the email
	FindByEmail(email string) (*authdomain.User, error)
	FindByID(id string) (*authdomain.User, error)
	Update(user *authdomain.User) error
	// SetMedicalFormFilled flags that the user completed the intake form
	SetMedicalFormFilled(userID string, filled bool) error
	SaveRefreshToken(token *authdomain.RefreshToken) error
	FindRefreshToken(token string) (*authdomain.RefreshToken, error)
	DeleteRefreshToken(token string) error
	DeleteRefreshTokensByUser(userID string) error
}
