package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/models"
)

// RecipeService handles recipe CRUD, favorite/cart membership and the
// shopping-list aggregation.
type RecipeService struct {
	db     *gorm.DB
	images *ImageService
}

func NewRecipeService(db *gorm.DB, images *ImageService) *RecipeService {
	return &RecipeService{db: db, images: images}
}

// IngredientAmount is one {id, amount} pair from a recipe submission.
type IngredientAmount struct {
	ID     uint
	Amount int
}

// RecipeInput is a validated create/update payload. Image is either a base64
// data URI or an already-stored URL.
type RecipeInput struct {
	Name        string
	Text        string
	CookingTime int
	Image       string
	TagIDs      []uint
	Ingredients []IngredientAmount
}

func validateRecipeInput(in RecipeInput) error {
	if in.CookingTime < 1 {
		return NewValidationError("cooking_time", "cooking time must be a positive integer")
	}
	if len(in.Ingredients) == 0 {
		return NewValidationError("ingredients", "at least one ingredient is required")
	}
	if len(in.TagIDs) == 0 {
		return NewValidationError("tags", "at least one tag is required")
	}
	seen := make(map[uint]bool, len(in.Ingredients))
	for _, item := range in.Ingredients {
		if item.Amount < 1 {
			return NewValidationError("amount", "ingredient amount must be a positive integer")
		}
		if seen[item.ID] {
			return NewValidationError("ingredients", "ingredient ids must be unique")
		}
		seen[item.ID] = true
	}
	return nil
}

// checkReferences verifies every supplied tag and ingredient id exists.
func checkReferences(tx *gorm.DB, in RecipeInput) error {
	var tagCount int64
	if err := tx.Model(&models.Tag{}).Where("id IN ?", in.TagIDs).Count(&tagCount).Error; err != nil {
		return err
	}
	if int(tagCount) != len(in.TagIDs) {
		return fmt.Errorf("%w: unknown tag id", ErrNotFound)
	}

	ids := make([]uint, 0, len(in.Ingredients))
	for _, item := range in.Ingredients {
		ids = append(ids, item.ID)
	}
	var ingredientCount int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&ingredientCount).Error; err != nil {
		return err
	}
	if int(ingredientCount) != len(ids) {
		return fmt.Errorf("%w: unknown ingredient id", ErrNotFound)
	}
	return nil
}

func insertAssociations(tx *gorm.DB, recipeID uint, in RecipeInput) error {
	rows := make([]models.RecipeIngredient, 0, len(in.Ingredients))
	for _, item := range in.Ingredients {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return err
	}

	tags := make([]models.RecipeTag, 0, len(in.TagIDs))
	for _, tagID := range in.TagIDs {
		tags = append(tags, models.RecipeTag{RecipeID: recipeID, TagID: tagID})
	}
	return tx.Create(&tags).Error
}

// Create persists a recipe owned by authorID together with its tag and
// ingredient associations in one transaction.
func (s *RecipeService) Create(ctx context.Context, authorID uint, in RecipeInput) (*models.Recipe, error) {
	if err := validateRecipeInput(in); err != nil {
		return nil, err
	}

	imageURL, err := s.images.StoreBase64(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        in.Name,
		ImageURL:    imageURL,
		Text:        in.Text,
		CookingTime: in.CookingTime,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, in); err != nil {
			return err
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return insertAssociations(tx, recipe.ID, in)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, recipe.ID)
}

// Update replaces the recipe's scalar fields and fully replaces its tag and
// ingredient associations. Only the author or an admin may update.
func (s *RecipeService) Update(ctx context.Context, actorID, recipeID uint, in RecipeInput) (*models.Recipe, error) {
	if err := validateRecipeInput(in); err != nil {
		return nil, err
	}

	var recipe models.Recipe
	if err := s.db.First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.authorize(actorID, &recipe); err != nil {
		return nil, err
	}

	imageURL := recipe.ImageURL
	if in.Image != "" {
		var err error
		imageURL, err = s.images.StoreBase64(ctx, in.Image)
		if err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, in); err != nil {
			return err
		}
		updates := map[string]interface{}{
			"name":         in.Name,
			"text":         in.Text,
			"cooking_time": in.CookingTime,
			"image_url":    imageURL,
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		return insertAssociations(tx, recipeID, in)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, recipeID)
}

// Delete removes a recipe. Only the author or an admin may delete.
func (s *RecipeService) Delete(ctx context.Context, actorID, recipeID uint) error {
	var recipe models.Recipe
	if err := s.db.First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.authorize(actorID, &recipe); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, recipeID).Error
	})
}

func (s *RecipeService) authorize(actorID uint, recipe *models.Recipe) error {
	if recipe.AuthorID == actorID {
		return nil
	}
	var actor models.User
	if err := s.db.First(&actor, actorID).Error; err != nil {
		return ErrForbidden
	}
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// Get loads a recipe with its author, tags and ingredient amounts.
func (s *RecipeService) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// RecipeFilter narrows the recipe listing. Zero values mean "no filter".
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    uint
	FavoritedBy uint
	InCartOf    uint
	Limit       int
	Page        int
}

func (s *RecipeService) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.id DESC")

	if len(filter.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs).
			Distinct("recipes.*")
	}
	if filter.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if filter.FavoritedBy != 0 {
		query = query.
			Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
			Where("favorites.user_id = ?", filter.FavoritedBy)
	}
	if filter.InCartOf != 0 {
		query = query.
			Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipes.id").
			Where("shopping_carts.user_id = ?", filter.InCartOf)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
		if filter.Page > 1 {
			query = query.Offset((filter.Page - 1) * filter.Limit)
		}
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// RecipeFlags carries the per-user booleans of the recipe read view.
type RecipeFlags struct {
	Favorited      bool
	InShoppingCart bool
}

// FlagsFor computes is_favorited / is_in_shopping_cart for a batch of
// recipes. Anonymous callers (userID == 0) get all-false flags.
func (s *RecipeService) FlagsFor(userID uint, recipeIDs []uint) (map[uint]RecipeFlags, error) {
	flags := make(map[uint]RecipeFlags, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return flags, nil
	}

	var favoriteIDs []uint
	err := s.db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &favoriteIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range favoriteIDs {
		f := flags[id]
		f.Favorited = true
		flags[id] = f
	}

	var cartIDs []uint
	err = s.db.Model(&models.ShoppingCart{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &cartIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range cartIDs {
		f := flags[id]
		f.InShoppingCart = true
		flags[id] = f
	}
	return flags, nil
}

// AddFavorite inserts a (user, recipe) favorite pair and returns the recipe
// for the compact response. Duplicate pairs are rejected.
func (s *RecipeService) AddFavorite(userID, recipeID uint) (*models.Recipe, error) {
	return s.addMembership(userID, recipeID, &models.Favorite{UserID: userID, RecipeID: recipeID}, "already in favorites")
}

func (s *RecipeService) RemoveFavorite(userID, recipeID uint) error {
	result := s.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&models.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddToCart inserts a (user, recipe) shopping-cart pair.
func (s *RecipeService) AddToCart(userID, recipeID uint) (*models.Recipe, error) {
	return s.addMembership(userID, recipeID, &models.ShoppingCart{UserID: userID, RecipeID: recipeID}, "already in shopping cart")
}

func (s *RecipeService) RemoveFromCart(userID, recipeID uint) error {
	result := s.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&models.ShoppingCart{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RecipeService) addMembership(userID, recipeID uint, row interface{}, duplicateMsg string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var count int64
	if err := s.db.Model(row).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, NewValidationError("recipe", duplicateMsg)
	}

	if err := s.db.Create(row).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ShoppingListItem is one aggregated line of the shopping list.
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Amount          int64
}

// ShoppingList sums ingredient amounts across every recipe in the user's
// shopping cart, grouped by (name, measurement unit).
func (s *RecipeService) ShoppingList(ctx context.Context, userID uint) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := s.db.WithContext(ctx).
		Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RenderShoppingList formats the aggregated items as the downloadable text
// report. An empty cart yields the header line alone.
func RenderShoppingList(items []ShoppingListItem) string {
	var b strings.Builder
	b.WriteString("Shopping list:")
	for _, item := range items {
		fmt.Fprintf(&b, "\n%s - %d %s", item.Name, item.Amount, item.MeasurementUnit)
	}
	b.WriteString("\n")
	return b.String()
}
