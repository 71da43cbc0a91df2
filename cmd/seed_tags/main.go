package main

import (
	"log"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/database"
	"github.com/forkful/forkful-backend/internal/models"
)

// Seeds the default recipe tags. Tags have no mutation endpoints, so new
// installations get their catalog from here.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	tags := []models.Tag{
		{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
		{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
		{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
		{Name: "Dessert", Color: "#F9A62B", Slug: "dessert"},
	}

	for _, tag := range tags {
		result := db.Where(models.Tag{Slug: tag.Slug}).FirstOrCreate(&tag)
		if result.Error != nil {
			log.Fatalf("failed to seed tag %s: %v", tag.Slug, result.Error)
		}
		if result.RowsAffected > 0 {
			log.Printf("created tag %s", tag.Slug)
		}
	}
	log.Println("tags seeded")
}
