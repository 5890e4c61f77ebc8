package routes

import (
	"recipenow-backend/internal/api/handlers"
	"recipenow-backend/internal/middleware"
	"recipenow-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App           *fiber.App
	AssetHandler  handlers.AssetHandler
	RecipeHandler handlers.RecipeHandler
	PantryHandler handlers.PantryHandler
	MatchHandler  handlers.MatchHandler
	Middleware    middleware.Middleware
	JWTService    jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Assets()
	c.Recipes()
	c.Pantry()
	c.Match()
	c.GuestRoute()
}

func (c *Config) Assets() {
	assets := c.App.Group("/api/v1/assets", c.Middleware.AuthMiddleware(c.JWTService))
	{
		assets.Post("", c.AssetHandler.UploadAsset)
		assets.Get("", c.AssetHandler.GetAssets)
		assets.Get("/:id", c.AssetHandler.GetAssetDetails)
		assets.Post("/:id/ocr-lines", c.AssetHandler.IngestOCRLines)
		assets.Get("/:id/ocr-lines", c.AssetHandler.GetOCRLines)
		assets.Post("/:id/extract", c.AssetHandler.QueueExtraction)
	}
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes", c.Middleware.AuthMiddleware(c.JWTService))
	{
		recipes.Post("", c.RecipeHandler.CreateRecipe)
		recipes.Get("", c.RecipeHandler.GetRecipes)
		recipes.Get("/:id", c.RecipeHandler.GetRecipeDetails)
		recipes.Patch("/:id", c.RecipeHandler.UpdateRecipe)
		recipes.Delete("/:id", c.RecipeHandler.DeleteRecipe)
		recipes.Post("/:id/verify", c.RecipeHandler.VerifyRecipe)
		recipes.Get("/:id/spans", c.RecipeHandler.GetSourceSpans)
		recipes.Get("/:id/field-status", c.RecipeHandler.GetFieldStatuses)
	}
}

func (c *Config) Pantry() {
	pantry := c.App.Group("/api/v1/pantry", c.Middleware.AuthMiddleware(c.JWTService))
	{
		pantry.Post("", c.PantryHandler.AddPantryItem)
		pantry.Post("/bulk", c.PantryHandler.BulkAddPantryItems)
		pantry.Get("", c.PantryHandler.GetPantryItems)
		pantry.Patch("/:id", c.PantryHandler.UpdatePantryItem)
		pantry.Delete("/:id", c.PantryHandler.DeletePantryItem)
	}
}

func (c *Config) Match() {
	match := c.App.Group("/api/v1/match", c.Middleware.AuthMiddleware(c.JWTService))
	{
		match.Get("/recipe/:id", c.MatchHandler.MatchRecipe)
		match.Get("/all", c.MatchHandler.MatchAll)
		match.Post("/shopping-list", c.MatchHandler.ShoppingList)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
