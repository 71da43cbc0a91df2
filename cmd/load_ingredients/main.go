package main

import (
	"flag"
	"log"
	"os"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/database"
	"github.com/forkful/forkful-backend/internal/service"
)

// Loads the ingredient reference dataset from a CSV file of
// "name,measurement_unit" rows. Safe to re-run: existing rows are skipped.
func main() {
	path := flag.String("file", "", "path to the ingredients CSV (defaults to INGREDIENTS_CSV)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *path == "" {
		*path = cfg.IngredientCSV
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	file, err := os.Open(*path)
	if err != nil {
		log.Fatalf("failed to open %s: %v", *path, err)
	}
	defer file.Close()

	imported, err := service.NewCatalogService(db).ImportIngredientsCSV(file)
	if err != nil {
		log.Fatalf("import failed after %d rows: %v", imported, err)
	}
	log.Printf("imported %d new ingredients", imported)
}
