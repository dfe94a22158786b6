// Package middleware provides HTTP middleware components for the application.
package middleware

import (
	"log"
	"strings"

	"tuplepay/internal/models"
	"tuplepay/internal/services/auth"
	"tuplepay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

// AuthMiddleware handles JWT token validation. It extracts the bearer token
// from the Authorization header and stores the claims in the request context.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	claims, err := m.authService.Authenticate(c.UserContext(), tokenString)
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return utils.Error(c, err)
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// ClaimsFrom returns the claims stored by AuthMiddleware.
func ClaimsFrom(c *fiber.Ctx) (*models.UserClaims, bool) {
	claims, ok := c.Locals(claimsKey).(*models.UserClaims)
	return claims, ok && claims != nil
}
