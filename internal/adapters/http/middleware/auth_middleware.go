package middleware

import (
	"strings"

	"campusvote/internal/core/domain"
	"campusvote/internal/core/services"
	"campusvote/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Context keys set by AuthMiddleware
const (
	LocalVoterID = "voterID"
	LocalRole    = "role"
	LocalToken   = "accessToken"
)

// BearerToken extracts the token from the Authorization header
func BearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// AuthMiddleware rejects requests without a valid, unrevoked bearer token
func AuthMiddleware(credentials *services.CredentialService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Authorization header, then ?access_token= for EventSource clients
		accessToken := BearerToken(c)
		if accessToken == "" {
			accessToken = c.Query("access_token")
		}

		// 2. No token found
		if accessToken == "" {
			return response.Coded(c, fiber.StatusUnauthorized,
				domain.WithMessage(domain.ErrTokenInvalid, "access token required"), nil)
		}

		// 3. Validate token and check revocation
		claims, err := credentials.Verify(c.UserContext(), accessToken)
		if err != nil {
			return response.FromError(c, err)
		}

		// 4. Set voter info in context
		c.Locals(LocalVoterID, claims.VoterID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalToken, accessToken)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(string)
		if !ok {
			return response.Coded(c, fiber.StatusUnauthorized, domain.ErrTokenInvalid, nil)
		}

		for _, allowedRole := range allowedRoles {
			if role == string(allowedRole) {
				return c.Next()
			}
		}

		return response.FromError(c, domain.ErrForbidden)
	}
}

// AdminOnly middleware allows only ADMIN role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// VoterID returns the authenticated voter id
func VoterID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalVoterID).(uint)
	return id
}
