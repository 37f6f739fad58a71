package middlewares

import (
	"crypto/subtle"
	"log/slog"

	"casino/helpers"
	"casino/services"

	"github.com/gofiber/fiber/v2"
)

// WebhookAgentAuth checks the agent_code/agent_secret pair the aggregator
// sends in every seamless wallet callback body. Settings are read per request
// so rotated secrets take effect immediately.
func WebhookAgentAuth(settings *services.SettingsStore, provider string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			AgentCode   string `json:"agent_code"`
			AgentSecret string `json:"agent_secret"`
		}

		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status": 0,
				"msg":    "INVALID_JSON",
			})
		}

		setting, err := settings.Get(c.UserContext(), provider)
		if err != nil {
			slog.ErrorContext(c.UserContext(), "webhook settings unavailable", "provider", provider, "error", err)
			return helpers.SeamlessError(c, "INTERNAL_ERROR")
		}

		if setting.AgentCode == "" ||
			subtle.ConstantTimeCompare([]byte(body.AgentCode), []byte(setting.AgentCode)) != 1 ||
			subtle.ConstantTimeCompare([]byte(body.AgentSecret), []byte(setting.AgentSecret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": 0,
				"msg":    "INVALID_AGENT_CREDENTIALS",
			})
		}

		return c.Next()
	}
}
