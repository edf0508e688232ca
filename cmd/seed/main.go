package main

import (
	"log"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	gormDB := store.GetDB().(*gorm.DB)
	if err := database.NewSeeder(gormDB).SeedAll(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding completed")
	log.Println("Admin user comes from ADMIN_EMAIL and ADMIN_PASSWORD; creation is skipped when unset.")
}
