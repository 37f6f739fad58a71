package admin

import (
	"casino/controllers"
	"casino/helpers"
	"casino/models"
	"casino/services"

	"github.com/gofiber/fiber/v2"
)

type SettingsRequest struct {
	AgentToken  string   `json:"agent_token"`
	SecretKey   string   `json:"secret_key"`
	WebhookURL  *string  `json:"webhook_url"`
	RTPDefault  *float64 `json:"rtp_default"`
	IsActive    bool     `json:"is_active"`
	AgentCode   string   `json:"agent_code"`
	AgentSecret string   `json:"agent_secret"`
}

func GetSettings(settings *services.SettingsStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := settings.Get(c.UserContext(), c.Params("provider"))
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Settings retrieved successfully", redact(s))
	}
}

func SaveSettings(settings *services.SettingsStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req SettingsRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}

		s, err := settings.Save(c.UserContext(), models.ApiSetting{
			Provider:    c.Params("provider"),
			AgentToken:  req.AgentToken,
			SecretKey:   req.SecretKey,
			WebhookURL:  req.WebhookURL,
			RTPDefault:  req.RTPDefault,
			IsActive:    req.IsActive,
			AgentCode:   req.AgentCode,
			AgentSecret: req.AgentSecret,
		})
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Settings saved successfully", redact(s))
	}
}

func redact(s models.ApiSetting) models.ApiSetting {
	if s.SecretKey != "" {
		s.SecretKey = "********"
	}
	if s.AgentSecret != "" {
		s.AgentSecret = "********"
	}
	return s
}
