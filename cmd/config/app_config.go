package config

import (
	"os"
	"time"

	"recipenow-backend/internal/api/handlers"
	"recipenow-backend/internal/api/routes"
	"recipenow-backend/internal/middleware"
	"recipenow-backend/internal/utils"
	"recipenow-backend/internal/utils/storage"
	"recipenow-backend/pkg/asset"
	"recipenow-backend/pkg/jwt"
	"recipenow-backend/pkg/matching"
	"recipenow-backend/pkg/pantry"
	"recipenow-backend/pkg/recipe"
	"recipenow-backend/pkg/worker"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	appLogger := utils.NewLogger()
	s3 := storage.NewAwsS3()
	redisClient := redis.NewClient(&redis.Options{
		Addr:     utils.GetConfig("REDIS_ADDR"),
		Password: utils.GetConfig("REDIS_PASSWORD"),
	})
	extractionQueue := worker.NewQueue(redisClient)

	// Repository
	assetRepository := asset.NewAssetRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	pantryRepository := pantry.NewPantryRepository(db)
	matchingRepository := matching.NewMatchingRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	assetService := asset.NewAssetService(assetRepository, s3, extractionQueue, appLogger)
	recipeService := recipe.NewRecipeService(recipeRepository)
	pantryService := pantry.NewPantryService(pantryRepository)
	matchingService := matching.NewMatchingService(matchingRepository)

	// Handler
	assetHandler := handlers.NewAssetHandler(assetService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	pantryHandler := handlers.NewPantryHandler(pantryService, validator)
	matchHandler := handlers.NewMatchHandler(matchingService, validator)

	// routes
	routesConfig := routes.Config{
		App:           app,
		AssetHandler:  assetHandler,
		RecipeHandler: recipeHandler,
		PantryHandler: pantryHandler,
		MatchHandler:  matchHandler,
		Middleware:    middlewares,
		JWTService:    jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
