package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/purchase-invoice/backend/internal/domain/identity"
	"github.com/purchase-invoice/backend/internal/infrastructure/auth"
	"github.com/purchase-invoice/backend/internal/infrastructure/config"
	"github.com/purchase-invoice/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	purchaser = identity.NewIdentity("alice@example.com", "Alice", "Smith", identity.RolePurchasingSpecialist)
	financier = identity.NewIdentity("fin@example.com", "Fin", "Ance", identity.RoleFinanceSpecialist)
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
}

func tokenFor(t *testing.T, svc *auth.JWTService, id identity.Identity) string {
	t.Helper()
	token, err := svc.GenerateToken(id)
	require.NoError(t, err)
	return token.AccessToken
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
