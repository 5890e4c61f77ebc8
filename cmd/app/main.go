package main

import (
	"log"

	"recipenow-backend/cmd/config"
	migration "recipenow-backend/cmd/database/migrate"
	"recipenow-backend/internal/utils"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("error connecting database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("error migrating database: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("error creating app: %v", err)
	}

	if err := app.Listen(":8080"); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
