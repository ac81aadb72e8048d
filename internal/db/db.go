package db

import (
	"log"
	"os"

	"feedboard/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=feedboard port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	// Auto Migrate
	err = DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Feature{},
		&models.Bug{},
		&models.Vote{},
		&models.Comment{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	// Seed the product catalog
	seedProducts()
}

func seedProducts() {
	var count int64
	DB.Model(&models.Product{}).Count(&count)
	if count > 0 {
		log.Println("Products already seeded, skipping")
		return
	}

	products := []models.Product{
		{Name: "dof-onboarding", Description: "Driver onboarding funnel"},
		{Name: "dof-portal", Description: "Operations portal"},
		{Name: "dof-payments", Description: "Payouts and invoicing"},
		{Name: "dof-mobile", Description: "Driver mobile app"},
	}

	for _, product := range products {
		if err := DB.Create(&product).Error; err != nil {
			log.Printf("Failed to create product %s: %v", product.Name, err)
		}
	}
	log.Println("Initial products created successfully")
}
