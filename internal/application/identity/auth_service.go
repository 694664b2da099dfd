package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/purchase-invoice/backend/internal/domain/identity"
	"github.com/purchase-invoice/backend/internal/domain/shared"
	"github.com/purchase-invoice/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// CodeInvalidCredentials is returned for any failed login
const CodeInvalidCredentials = "INVALID_CREDENTIALS"

// ErrInvalidCredentials does not say whether the email or the password was wrong
var ErrInvalidCredentials = shared.NewDomainError(CodeInvalidCredentials, "Invalid email or password")

// TokenIssuer signs access tokens for an identity
type TokenIssuer interface {
	GenerateToken(id identity.Identity) (*auth.Token, error)
}

// AuthService handles registration and login
type AuthService struct {
	userRepo identity.UserRepository
	tokens   TokenIssuer
	logger   *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo identity.UserRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates an account
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	email := strings.TrimSpace(req.Email)

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, identity.ErrEmailAlreadyExists
	}

	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	user, err := identity.NewUser(email, req.FirstName, req.LastName, req.Password, role)
	if err != nil {
		return nil, err
	}

	// A concurrent registration can still win the unique index
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("email", user.Email),
		zap.String("role", user.Role.String()),
	)

	response := ToUserResponse(user)
	return &response, nil
}

// Login verifies credentials and issues an access token carrying the
// caller identity
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	email := strings.TrimSpace(req.Email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email", zap.String("email", email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.Identity())
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, shared.NewDomainError("TOKEN_GENERATION_ERROR", "Failed to generate access token")
	}

	s.logger.Info("Login successful", zap.String("email", email))

	response := ToTokenResponse(token)
	return &response, nil
}
