package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lumocms/lumo-backend/internal/common"
	"github.com/lumocms/lumo-backend/internal/domain"
)

// APIKeyValidator validates API keys (implemented by APIKeyService)
type APIKeyValidator interface {
	ValidateAPIKey(ctx context.Context, key string) (*domain.APIKey, error)
}

// APIKeyAuth authenticates requests using an API key.
// Checks X-API-Key header or api_key query parameter.
// A missing key is Unauthorized; an unknown, expired or under-scoped key is Forbidden.
func APIKeyAuth(validator APIKeyValidator, requiredScope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			key = c.Query("api_key")
		}
		if key == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "API key required")
			c.Abort()
			return
		}

		apiKey, err := validator.ValidateAPIKey(c.Request.Context(), key)
		if err != nil {
			common.TranslateError(c, err)
			c.Abort()
			return
		}

		if requiredScope != "" && !hasScope(apiKey.Scopes, requiredScope) {
			common.ErrorResponse(c, http.StatusForbidden, "insufficient API key scope")
			c.Abort()
			return
		}

		c.Set("api_key_id", apiKey.ID)
		c.Set("tenant_id", apiKey.TenantID)
		c.Next()
	}
}

// hasScope reports whether the comma-separated scope list grants the
// required scope. Management keys pass every check.
func hasScope(scopes, required string) bool {
	for _, s := range strings.Split(scopes, ",") {
		s = strings.TrimSpace(s)
		if s == required || s == domain.ScopeManagement {
			return true
		}
	}
	return false
}

// TenantID returns the tenant bound to the authenticated API key.
func TenantID(c *gin.Context) string {
	return c.GetString("tenant_id")
}
