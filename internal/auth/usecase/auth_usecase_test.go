package usecase

import (
	"testing"
	"time"

	authdomain "medbot-backend/internal/auth/domain"
	authdto "medbot-backend/internal/auth/dto"
	"medbot-backend/internal/auth/repository"
	"medbot-backend/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserRepo struct {
	users  map[string]*authdomain.User
	tokens map[string]*authdomain.RefreshToken
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users:  map[string]*authdomain.User{},
		tokens: map[string]*authdomain.RefreshToken{},
	}
}

func (m *memUserRepo) Create(user *authdomain.User) error {
	user.ID = uuid.New().String()
	user.Email = repository.NormalizeEmail(user.Email)
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	email = repository.NormalizeEmail(email)
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) FindByID(id string) (*authdomain.User, error) {
	return m.users[id], nil
}

func (m *memUserRepo) Update(user *authdomain.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) SetMedicalFormFilled(userID string, filled bool) error {
	if u, ok := m.users[userID]; ok {
		u.MedicalFormFilled = filled
	}
	return nil
}

func (m *memUserRepo) SaveRefreshToken(token *authdomain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *memUserRepo) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	return m.tokens[token], nil
}

func (m *memUserRepo) DeleteRefreshToken(token string) error {
	delete(m.tokens, token)
	return nil
}

func (m *memUserRepo) DeleteRefreshTokensByUser(userID string) error {
	for k, t := range m.tokens {
		if t.UserID == userID {
			delete(m.tokens, k)
		}
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
}

func TestAuthUsecase_RegisterLoginValidate(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewAuthUsecase(repo, nil, testConfig())

	reg, err := uc.Register(&authdto.RegisterRequest{Email: "Jane@Example.com", Password: "secret1", Name: "Jane"})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.AccessToken)
	assert.Equal(t, "jane@example.com", reg.User.Email)
	assert.NotEqual(t, "secret1", reg.User.Password)

	_, err = uc.Register(&authdto.RegisterRequest{Email: "jane@example.com", Password: "secret1", Name: "Jane"})
	assert.ErrorIs(t, err, authdomain.ErrEmailTaken)

	_, err = uc.Login(&authdto.LoginRequest{Email: "jane@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)

	_, err = uc.Login(&authdto.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)

	login, err := uc.Login(&authdto.LoginRequest{Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	user, err := uc.ValidateToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, user.ID)

	_, err = uc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, authdomain.ErrInvalidToken)
}

func TestAuthUsecase_RefreshRotatesToken(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewAuthUsecase(repo, nil, testConfig())

	reg, err := uc.Register(&authdto.RegisterRequest{Email: "a@b.co", Password: "secret1", Name: "A"})
	require.NoError(t, err)

	refreshed, err := uc.RefreshToken(reg.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken, refreshed.RefreshToken)

	_, err = uc.RefreshToken(reg.RefreshToken)
	assert.ErrorIs(t, err, authdomain.ErrRefreshTokenExpired)

	require.NoError(t, uc.Logout(refreshed.RefreshToken))
	_, err = uc.RefreshToken(refreshed.RefreshToken)
	assert.ErrorIs(t, err, authdomain.ErrRefreshTokenExpired)
}

func TestAuthUsecase_DevicesWithoutPush(t *testing.T) {
	uc := NewAuthUsecase(newMemUserRepo(), nil, testConfig())

	err := uc.RegisterDevice("u1", &authdto.RegisterDeviceRequest{Token: "tok"})
	assert.Error(t, err)
	assert.NoError(t, uc.UnregisterDevice("u1", "tok"))
}
