package middlewares

import (
	"crypto/subtle"

	"casino/helpers"

	"github.com/gofiber/fiber/v2"
)

const (
	AdminKeyHeader  = "X-Admin-Key"
	OperatorHeader  = "X-Operator"
	operatorDefault = "admin"
)

// AdminAuth guards operator routes with a shared API key. The operator name
// from X-Operator is stored in Locals("operator") for audit fields.
func AdminAuth(apiKey string) fiber.Handler {
	expected := []byte(apiKey)

	return func(c *fiber.Ctx) error {
		got := []byte(c.Get(AdminKeyHeader))
		if len(expected) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
			return helpers.JSONStatus(c, fiber.StatusUnauthorized, "INVALID_ADMIN_KEY")
		}

		operator := c.Get(OperatorHeader)
		if operator == "" {
			operator = operatorDefault
		}
		c.Locals("operator", operator)
		return c.Next()
	}
}
