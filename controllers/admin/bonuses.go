package admin

import (
	"casino/controllers"
	"casino/helpers"
	"casino/services"

	"github.com/gofiber/fiber/v2"
)

func ListBonuses(bonuses *services.BonusService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := bonuses.List(c.UserContext(), c.QueryBool("active", false))
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Bonuses retrieved successfully", list)
	}
}

func CreateBonus(bonuses *services.BonusService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req services.CreateBonusRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}
		b, err := bonuses.Create(c.UserContext(), req)
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Bonus created successfully", b)
	}
}

func SetBonusActive(bonuses *services.BonusService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req activeRequest
		if err := c.BodyParser(&req); err != nil || req.IsActive == nil {
			return helpers.JSONError(c, "IS_ACTIVE_REQUIRED")
		}
		b, err := bonuses.SetActive(c.UserContext(), c.Params("id"), *req.IsActive)
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Bonus updated successfully", b)
	}
}

func DeleteBonus(bonuses *services.BonusService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := bonuses.Delete(c.UserContext(), c.Params("id")); err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Bonus deleted", nil)
	}
}
