package app

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/api"
	"github.com/rsichomba/portfolio-lms/config"
	"github.com/rsichomba/portfolio-lms/database"
	"github.com/rsichomba/portfolio-lms/router"
	"github.com/rsichomba/portfolio-lms/services/cron"
)

func SetupAndRunServer() error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether Postgres is running\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Seed baseline data (admin user, skills, settings)
	if db, ok := store.GetDB().(*gorm.DB); ok {
		if err := database.NewSeeder(db).SeedAll(); err != nil {
			print("Warning: seeding failed: ", err.Error(), "\n")
		}
	}

	// Raw-SQL connection for the reporting endpoints
	reporting, err := database.StartReporting()
	if err != nil {
		print("Failed to open reporting connection\n")
		return err
	}

	// Scheduled jobs (enabled unless CRON_ENABLED=false)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" {
		db, ok := store.GetDB().(*gorm.DB)
		if !ok {
			print("Warning: Failed to get database connection for cron jobs\n")
		} else {
			cronManager = cron.NewCronManager(db)
			if err := cronManager.Start(); err != nil {
				print("Warning: Failed to start cron jobs\n")
				print("Error: ", err.Error(), "\n")
			}
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		reporting.Close()
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes (security middleware is attached inside)
	router.SetupRoutes(app, store, reporting)

	return server.Run()
}
