package helpers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// QueryOptionalBool returns nil when key is absent or unparsable.
func QueryOptionalBool(c *fiber.Ctx, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
