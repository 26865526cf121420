// Package middleware provides authentication, logging and metrics middleware.
package middleware

import (
	"scribe/internal/token"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "token"

// AuthRequired returns a middleware that enforces authentication for
// protected routes. The session token is read from the session cookie,
// verified, and its claims are attached to the request as locals.
func AuthRequired(tokens *token.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies(SessionCookie)
		if cookie == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "You must be logged in",
			})
		}

		claims, err := tokens.Verify(cookie)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)

		return c.Next()
	}
}
