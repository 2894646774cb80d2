package config

import (
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Congmoow/Campus-Market/models"
)

// SeedCategories inserts the default marketplace categories, skipping any
// that already exist.
func SeedCategories(db *gorm.DB) {
	names := []string{
		"Books & Textbooks",
		"Electronics",
		"Clothing",
		"Sports & Outdoors",
		"Dorm Essentials",
		"Bicycles & Scooters",
		"Other",
	}

	categories := make([]models.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, models.Category{Name: name})
	}

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&categories).Error; err != nil {
		log.Printf("Failed to seed categories: %v", err)
		return
	}
	log.Println("Categories seeded.")
}
