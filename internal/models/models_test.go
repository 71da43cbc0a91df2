package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&User{}, &Follow{}, &Tag{}, &Ingredient{},
		&Recipe{}, &RecipeIngredient{}, &RecipeTag{},
		&Favorite{}, &ShoppingCart{},
	))
	return db
}

func TestFollowUniquePair(t *testing.T) {
	db := openDB(t)
	reader := User{Username: "reader", Email: "reader@example.com", PasswordHash: "x"}
	author := User{Username: "author", Email: "author@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&reader).Error)
	require.NoError(t, db.Create(&author).Error)

	require.NoError(t, db.Create(&Follow{UserID: reader.ID, AuthorID: author.ID}).Error)
	err := db.Create(&Follow{UserID: reader.ID, AuthorID: author.ID}).Error
	assert.Error(t, err)
}

func TestFavoriteUniquePair(t *testing.T) {
	db := openDB(t)
	user := User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	recipe := Recipe{AuthorID: user.ID, Name: "Pancakes", Text: "mix", CookingTime: 10}
	require.NoError(t, db.Create(&recipe).Error)

	require.NoError(t, db.Create(&Favorite{UserID: user.ID, RecipeID: recipe.ID}).Error)
	err := db.Create(&Favorite{UserID: user.ID, RecipeID: recipe.ID}).Error
	assert.Error(t, err)
}

func TestRecipeIngredientUniquePair(t *testing.T) {
	db := openDB(t)
	user := User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	recipe := Recipe{AuthorID: user.ID, Name: "Pancakes", Text: "mix", CookingTime: 10}
	require.NoError(t, db.Create(&recipe).Error)
	flour := Ingredient{Name: "flour", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&flour).Error)

	require.NoError(t, db.Create(&RecipeIngredient{RecipeID: recipe.ID, IngredientID: flour.ID, Amount: 100}).Error)
	err := db.Create(&RecipeIngredient{RecipeID: recipe.ID, IngredientID: flour.ID, Amount: 200}).Error
	assert.Error(t, err)
}

func TestIngredientUniqueNameUnitPair(t *testing.T) {
	db := openDB(t)
	require.NoError(t, db.Create(&Ingredient{Name: "flour", MeasurementUnit: "g"}).Error)

	// same name under a different unit is a distinct ingredient
	require.NoError(t, db.Create(&Ingredient{Name: "flour", MeasurementUnit: "tbsp"}).Error)

	err := db.Create(&Ingredient{Name: "flour", MeasurementUnit: "g"}).Error
	assert.Error(t, err)
}

func TestUserIsAdmin(t *testing.T) {
	regular := User{Role: RoleUser}
	admin := User{Role: RoleAdmin}
	assert.False(t, regular.IsAdmin())
	assert.True(t, admin.IsAdmin())
}

func TestPasswordHashNotSerialized(t *testing.T) {
	user := User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash", Role: RoleUser}
	data, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hash")
	assert.NotContains(t, string(data), "role")
}
