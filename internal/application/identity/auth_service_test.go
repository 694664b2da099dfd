package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/purchase-invoice/backend/internal/domain/identity"
	"github.com/purchase-invoice/backend/internal/domain/shared"
	"github.com/purchase-invoice/backend/internal/infrastructure/auth"
	"github.com/purchase-invoice/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "password123",
		Role:      "PURCHASING_SPECIALIST",
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("ExistsByEmail", ctx, "jane@example.com").Return(false, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return u.Email == "jane@example.com" && u.PasswordHash != "password123" && u.VerifyPassword("password123")
		})).Return(nil)

		resp, err := NewAuthService(repo, newTestJWTService(), nil).Register(ctx, validRegistration())
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", resp.Email)
		assert.Equal(t, "PURCHASING_SPECIALIST", resp.Role)
		repo.AssertExpectations(t)
	})

	t.Run("email taken", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("ExistsByEmail", ctx, "jane@example.com").Return(true, nil)

		_, err := NewAuthService(repo, newTestJWTService(), nil).Register(ctx, validRegistration())
		assert.ErrorIs(t, err, identity.ErrEmailAlreadyExists)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("lost the unique index race", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("ExistsByEmail", ctx, "jane@example.com").Return(false, nil)
		repo.On("Create", ctx, mock.Anything).Return(identity.ErrEmailAlreadyExists)

		_, err := NewAuthService(repo, newTestJWTService(), nil).Register(ctx, validRegistration())
		assert.ErrorIs(t, err, identity.ErrEmailAlreadyExists)
	})

	t.Run("unknown role", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("ExistsByEmail", ctx, "jane@example.com").Return(false, nil)

		req := validRegistration()
		req.Role = "ADMIN"
		_, err := NewAuthService(repo, newTestJWTService(), nil).Register(ctx, req)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ROLE", domainErr.Code)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	user, err := identity.NewUser("jane@example.com", "Jane", "Doe", "password123", identity.RoleFinanceSpecialist)
	require.NoError(t, err)

	t.Run("issues a token carrying the identity", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)
		jwtService := newTestJWTService()

		resp, err := NewAuthService(repo, jwtService, nil).Login(ctx, LoginRequest{Email: "jane@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, "Bearer", resp.TokenType)

		claims, err := jwtService.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, user.Identity(), claims.Identity())
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)

		_, err := NewAuthService(repo, newTestJWTService(), nil).Login(ctx, LoginRequest{Email: "jane@example.com", Password: "nope-nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "who@example.com").Return(nil, shared.ErrNotFound)

		_, err := NewAuthService(repo, newTestJWTService(), nil).Login(ctx, LoginRequest{Email: "who@example.com", Password: "password123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("repository failure is not masked", func(t *testing.T) {
		repo := new(MockUserRepository)
		boom := errors.New("connection reset")
		repo.On("FindByEmail", ctx, "jane@example.com").Return(nil, boom)

		_, err := NewAuthService(repo, newTestJWTService(), nil).Login(ctx, LoginRequest{Email: "jane@example.com", Password: "password123"})
		assert.ErrorIs(t, err, boom)
	})
}
