package user

import (
	"casino/controllers"
	"casino/helpers"
	"casino/services"

	"github.com/gofiber/fiber/v2"
)

// The lobby only ever shows active catalog rows.

func ListLobbyProviders(catalog *services.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := catalog.Providers(c.UserContext(), true)
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Providers retrieved successfully", list)
	}
}

func ListLobbyCategories(catalog *services.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := catalog.Categories(c.UserContext(), true)
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Categories retrieved successfully", list)
	}
}

func ListLobbyGames(catalog *services.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := catalog.Games(c.UserContext(), services.GameFilter{
			ProviderID: uint(c.QueryInt("provider_id", 0)),
			CategoryID: uint(c.QueryInt("category_id", 0)),
			ActiveOnly: true,
			Search:     c.Query("q"),
			Featured:   helpers.QueryOptionalBool(c, "featured"),
			New:        helpers.QueryOptionalBool(c, "new"),
			Live:       helpers.QueryOptionalBool(c, "live"),
			Original:   helpers.QueryOptionalBool(c, "original"),
			Limit:      c.QueryInt("limit", 100),
			Offset:     c.QueryInt("offset", 0),
		})
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Games retrieved successfully", list)
	}
}
