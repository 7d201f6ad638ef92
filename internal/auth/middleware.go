package auth

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/zendesk-mcp/internal/config"
	apperrors "github.com/spec-kit/zendesk-mcp/pkg/util"
)

// Credential locations accepted by the gate.
const (
	QueryTokenParam = "auth_token"
	APIKeyHeader    = "X-API-Key"
	bearerPrefix    = "Bearer "
)

// AuthMiddleware checks a single shared secret.
type AuthMiddleware struct {
	required bool
	token    string
	realm    string
}

// NewAuthMiddleware constructs middleware. realm is advertised in the 401 challenge.
func NewAuthMiddleware(cfg config.AuthConfig, realm string) *AuthMiddleware {
	return &AuthMiddleware{required: cfg.Required, token: cfg.Token, realm: realm}
}

// IsAuthorized reports whether the request carries the secret in the
// auth_token query parameter, a Bearer Authorization header or X-API-Key.
func (m *AuthMiddleware) IsAuthorized(c *fiber.Ctx) bool {
	if !m.required {
		return true
	}
	// An unset secret must not be matched by an absent credential.
	if m.token == "" {
		return false
	}

	if c.Query(QueryTokenParam) == m.token {
		return true
	}
	if header := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(header, bearerPrefix) {
		if strings.TrimPrefix(header, bearerPrefix) == m.token {
			return true
		}
	}
	return c.Get(APIKeyHeader) == m.token
}

// Handle rejects unauthorized requests with a Bearer challenge.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if !m.IsAuthorized(c) {
		c.Set(fiber.HeaderWWWAuthenticate, fmt.Sprintf("Bearer realm=%q", m.realm))
		return apperrors.NewUnauthorized("Unauthorized")
	}
	return c.Next()
}
