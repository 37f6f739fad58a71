package admin

import (
	"casino/controllers"
	"casino/helpers"
	"casino/services"

	"github.com/gofiber/fiber/v2"
)

type activeRequest struct {
	IsActive *bool `json:"is_active"`
}

func SyncCatalog(reconciler *services.CatalogReconciler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := reconciler.SyncCatalog(c.UserContext())
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Catalog sync finished", report)
	}
}

func ListSyncRuns(reconciler *services.CatalogReconciler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		runs, err := reconciler.RecentRuns(c.UserContext(), c.QueryInt("limit", 20))
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Sync runs retrieved successfully", runs)
	}
}

func ListProviders(catalog *services.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := catalog.Providers(c.UserContext(), c.QueryBool("active", false))
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Providers retrieved successfully", list)
	}
}

func ListGames(catalog *services.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := catalog.Games(c.UserContext(), services.GameFilter{
			ProviderID: uint(c.QueryInt("provider_id", 0)),
			CategoryID: uint(c.QueryInt("category_id", 0)),
			ActiveOnly: c.QueryBool("active", false),
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

func SetProviderActive(catalog *services.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, active, ok := parseToggle(c)
		if !ok {
			return nil
		}
		p, err := catalog.SetProviderActive(c.UserContext(), id, active)
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Provider updated successfully", p)
	}
}

func SetGameActive(catalog *services.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, active, ok := parseToggle(c)
		if !ok {
			return nil
		}
		g, err := catalog.SetGameActive(c.UserContext(), id, active)
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Game updated successfully", g)
	}
}

func ListCategories(catalog *services.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := catalog.Categories(c.UserContext(), c.QueryBool("active", false))
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Categories retrieved successfully", list)
	}
}

func CreateCategory(catalog *services.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req services.CreateCategoryRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}
		cat, err := catalog.CreateCategory(c.UserContext(), req)
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Category created successfully", cat)
	}
}

func SetCategoryActive(catalog *services.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, active, ok := parseToggle(c)
		if !ok {
			return nil
		}
		cat, err := catalog.SetCategoryActive(c.UserContext(), id, active)
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Category updated successfully", cat)
	}
}

type gameCategoryRequest struct {
	CategoryID *uint `json:"category_id"`
}

// SetGameCategory assigns a category; {"category_id": null} clears it.
func SetGameCategory(catalog *services.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return helpers.JSONError(c, "INVALID_ID")
		}
		var req gameCategoryRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}
		g, err := catalog.SetGameCategory(c.UserContext(), uint(id), req.CategoryID)
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Game updated successfully", g)
	}
}

func SetGameFlags(catalog *services.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return helpers.JSONError(c, "INVALID_ID")
		}
		var flags services.GameFlags
		if err := c.BodyParser(&flags); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}
		g, err := catalog.SetGameFlags(c.UserContext(), uint(id), flags)
		if err != nil {
			return controllers.ServiceError(c, err)
		}
		return helpers.JSONSuccess(c, "Game updated successfully", g)
	}
}

// parseToggle writes the error response itself and reports ok=false when the
// request is unusable.
func parseToggle(c *fiber.Ctx) (uint, bool, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = helpers.JSONError(c, "INVALID_ID")
		return 0, false, false
	}
	var req activeRequest
	if err := c.BodyParser(&req); err != nil || req.IsActive == nil {
		_ = helpers.JSONError(c, "IS_ACTIVE_REQUIRED")
		return 0, false, false
	}
	return uint(id), *req.IsActive, true
}
