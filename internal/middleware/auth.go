package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/churchlife/internal/config"
	"github.com/example/churchlife/internal/models"
	"github.com/example/churchlife/internal/utils"
)

const (
	userContextKey = "currentUserID"
	roleContextKey = "currentUserRole"
)

// SessionCookieName is the HTTP-only cookie carrying the session token.
const SessionCookieName = "token"

// AuthMiddleware validates the session token from the Authorization header
// or the session cookie and loads the user ID and role into context.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			tokenString = c.Cookies(SessionCookieName)
		}
		if tokenString == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization token")
		}

		userID, role, err := utils.ParseToken(cfg.JWTSecret, tokenString)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(userContextKey, userID)
		c.Locals(roleContextKey, role)
		return c.Next()
	}
}

// RequireAdmin rejects requests whose session role is not admin. Must run
// after AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := GetCurrentUserRole(c)
		if !ok || role != models.RoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, "admin access required")
		}
		return c.Next()
	}
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}

// GetCurrentUserRole extracts the authenticated user role from context.
func GetCurrentUserRole(c *fiber.Ctx) (string, bool) {
	value := c.Locals(roleContextKey)
	if value == nil {
		return "", false
	}

	if role, ok := value.(string); ok {
		return role, true
	}

	return "", false
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
