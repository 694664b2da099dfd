package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/purchase-invoice/backend/internal/domain/identity"
	"github.com/purchase-invoice/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RequireRole lets the request through when the caller holds any of roles.
// It must run after JWTAuthMiddleware.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return RequireRoleWithLogger(nil, roles...)
}

// RequireRoleWithLogger is RequireRole with denial logging
func RequireRoleWithLogger(logger *zap.Logger, roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}

		for _, role := range roles {
			if caller.HasRole(role) {
				c.Next()
				return
			}
		}

		if logger != nil {
			logger.Warn("Role check failed",
				zap.String("email", caller.Email),
				zap.String("role", caller.Role.String()),
				zap.String("path", c.FullPath()),
			)
		}
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Access denied for role "+caller.Role.String(), GetRequestID(c)))
	}
}
