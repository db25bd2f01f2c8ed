package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserIDLocalKey is the Fiber locals key holding the authenticated user id.
const UserIDLocalKey = "user_id"

// RequireUser rejects requests without a valid bearer token.
func RequireUser(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearer(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		uid, err := ParseToken(raw, secret)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid bearer token")
		}
		c.Locals(UserIDLocalKey, uid)
		return c.Next()
	}
}

// OptionalUser records the caller when a valid token is present and lets
// anonymous requests through. A malformed token is still rejected.
func OptionalUser(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearer(c)
		if !ok {
			return c.Next()
		}
		uid, err := ParseToken(raw, secret)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid bearer token")
		}
		c.Locals(UserIDLocalKey, uid)
		return c.Next()
	}
}

// UserID returns the authenticated user id, or 0 for an anonymous request.
func UserID(c *fiber.Ctx) int64 {
	if v, ok := c.Locals(UserIDLocalKey).(int64); ok {
		return v
	}
	return 0
}

func bearer(c *fiber.Ctx) (string, bool) {
	h := c.Get(fiber.HeaderAuthorization)
	if h == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
