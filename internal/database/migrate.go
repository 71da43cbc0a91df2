package database

import (
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/models"
)

// Migrate creates or updates the schema for every model, including the
// composite unique indexes that back membership-pair uniqueness.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.RecipeTag{},
		&models.Favorite{},
		&models.ShoppingCart{},
	)
}
