package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/purchase-invoice/backend/internal/application/identity"
	"github.com/purchase-invoice/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func authRouter(svc AuthService) *gin.Engine {
	h := NewAuthHandler(svc)
	r := newRouter(identity.Identity{})
	r.POST("/api/v1/auth/register", h.Register)
	r.POST("/api/v1/auth/login", h.Login)
	return r
}

func TestAuthHandler_Register(t *testing.T) {
	body := map[string]string{
		"email":     "alice@example.com",
		"firstName": "Alice",
		"lastName":  "Smith",
		"password":  "s3cretpass",
		"role":      "PURCHASING_SPECIALIST",
	}

	t.Run("created", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Register", mock.Anything, mock.MatchedBy(func(r identityapp.RegisterRequest) bool {
			return r.Email == "alice@example.com" && r.Role == "PURCHASING_SPECIALIST"
		})).Return(&identityapp.UserResponse{ID: uuid.New(), Email: "alice@example.com"}, nil)

		w := doJSON(t, authRouter(svc), http.MethodPost, "/api/v1/auth/register", body)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "s3cretpass")
	})

	t.Run("email taken", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, identity.ErrEmailAlreadyExists)

		w := doJSON(t, authRouter(svc), http.MethodPost, "/api/v1/auth/register", body)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "EMAIL_ALREADY_EXISTS", decode(t, w).Error.Code)
	})

	t.Run("unknown role", func(t *testing.T) {
		svc := new(MockAuthService)
		bad := map[string]string{}
		for k, v := range body {
			bad[k] = v
		}
		bad["role"] = "ADMIN"

		w := doJSON(t, authRouter(svc), http.MethodPost, "/api/v1/auth/register", bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("token", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, identityapp.LoginRequest{Email: "alice@example.com", Password: "s3cretpass"}).
			Return(&identityapp.TokenResponse{Token: "jwt", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour)}, nil)

		w := doJSON(t, authRouter(svc), http.MethodPost, "/api/v1/auth/login",
			`{"email":"alice@example.com","password":"s3cretpass"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(decode(t, w).Data), `"token":"jwt"`)
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, mock.Anything).Return(nil, identityapp.ErrInvalidCredentials)

		w := doJSON(t, authRouter(svc), http.MethodPost, "/api/v1/auth/login",
			`{"email":"alice@example.com","password":"wrong"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, identityapp.CodeInvalidCredentials, decode(t, w).Error.Code)
	})

	t.Run("malformed", func(t *testing.T) {
		svc := new(MockAuthService)
		w := doJSON(t, authRouter(svc), http.MethodPost, "/api/v1/auth/login", `{"email":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
