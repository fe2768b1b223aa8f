package middleware

import (
	"strings"

	"match-ladder-system/utils"

	"github.com/gofiber/fiber/v2"
)

// JWTAuthMiddleware guards protected routes. A missing or malformed
// Authorization header is 401; a present but invalid, tampered, or expired
// token is 403. On success the principal is attached to the request context.
func JWTAuthMiddleware(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if authHeader == "" || len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Access token required",
			})
		}

		claims, err := utils.ParseToken(parts[1], secret)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals("user_id", claims.ID)
		c.Locals("username", claims.Username)
		return c.Next()
	}
}
