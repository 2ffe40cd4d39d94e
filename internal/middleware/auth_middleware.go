package middleware

import (
	"strings"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/pkg/apperr"
	"go-inventory-pos/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const sessionKey = "session"

func unauthorized(message string) error {
	return apperr.New(apperr.KindUnauthorized, apperr.CodeUnauthorized, message)
}

// RequireAuth validates the bearer token and stores the caller's Session for downstream handlers
func RequireAuth(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Fail(c, unauthorized("Missing authorization token"))
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return response.Fail(c, unauthorized("Invalid authorization format. Use: Bearer <token>"))
		}

		session, err := authService.Authenticate(c.UserContext(), strings.TrimSpace(parts[1]))
		if err != nil {
			return response.Fail(c, err)
		}

		c.Locals(sessionKey, *session)
		return c.Next()
	}
}

// SessionFrom returns the Session stored by RequireAuth.
func SessionFrom(c *fiber.Ctx) (model.Session, bool) {
	session, ok := c.Locals(sessionKey).(model.Session)
	return session, ok
}

// RequireRole rejects callers whose session role differs from role
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := SessionFrom(c)
		if !ok {
			return response.Fail(c, unauthorized("Missing session"))
		}
		if session.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error": fiber.Map{
					"code":    "Forbidden",
					"message": "Forbidden: requires '" + role + "' role",
				},
			})
		}
		return c.Next()
	}
}
