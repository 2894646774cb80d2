package config

import (
	"log"

	"gorm.io/gorm"

	"github.com/Congmoow/Campus-Market/models"
)

func Migrate(db *gorm.DB) error {
	// Migrate the schema
	err := db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Favorite{},
		&models.Order{},
		&models.ChatSession{},
		&models.ChatMessage{},
	)
	if err != nil {
		log.Printf("Failed to migrate database schema: %v", err)
		return err
	}

	log.Println("Database migrations completed successfully...")

	// Ensure the default categories exist even on normal migration
	SeedCategories(db)

	return nil
}
