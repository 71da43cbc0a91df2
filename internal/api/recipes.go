package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/httperr"
	"github.com/forkful/forkful-backend/internal/middleware"
	"github.com/forkful/forkful-backend/internal/models"
	"github.com/forkful/forkful-backend/internal/service"
)

// RecipeHandler serves recipe CRUD, favorites, the shopping cart and the
// shopping-list download.
type RecipeHandler struct {
	recipes     *service.RecipeService
	users       *service.UserService
	auth        *service.AuthService
	rateLimiter *middleware.RateLimiter
}

func NewRecipeHandler(recipes *service.RecipeService, users *service.UserService, auth *service.AuthService, rateLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipes:     recipes,
		users:       users,
		auth:        auth,
		rateLimiter: rateLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.auth), h.ListRecipes)
		recipes.GET("/download_shopping_cart", middleware.AuthMiddleware(h.auth), h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.auth), h.GetRecipe)
		recipes.POST("", middleware.AuthMiddleware(h.auth), h.rateLimiter.RateLimitMiddleware(), h.CreateRecipe)
		recipes.PATCH("/:id", middleware.AuthMiddleware(h.auth), h.rateLimiter.RateLimitMiddleware(), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.auth), h.DeleteRecipe)
		recipes.POST("/:id/favorite", middleware.AuthMiddleware(h.auth), h.AddFavorite)
		recipes.DELETE("/:id/favorite", middleware.AuthMiddleware(h.auth), h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", middleware.AuthMiddleware(h.auth), h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", middleware.AuthMiddleware(h.auth), h.RemoveFromCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewerID := middleware.CurrentUserID(c)

	filter := service.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
	}
	if author := c.Query("author"); author != "" {
		if id, err := strconv.ParseUint(author, 10, 32); err == nil {
			filter.AuthorID = uint(id)
		}
	}
	// membership filters only make sense for authenticated callers
	if c.Query("is_favorited") == "1" && viewerID != 0 {
		filter.FavoritedBy = viewerID
	}
	if c.Query("is_in_shopping_cart") == "1" && viewerID != 0 {
		filter.InCartOf = viewerID
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 1 {
		filter.Page = page
	}

	recipes, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	out, err := h.serializeRecipes(viewerID, recipes)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	out, err := h.serializeRecipes(middleware.CurrentUserID(c), []models.Recipe{*recipe})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, out[0])
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}

	userID := middleware.CurrentUserID(c)
	recipe, err := h.recipes.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	out, err := h.serializeRecipes(userID, []models.Recipe{*recipe})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out[0])
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}

	userID := middleware.CurrentUserID(c)
	recipe, err := h.recipes.Update(c.Request.Context(), userID, id, req.toInput())
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	out, err := h.serializeRecipes(userID, []models.Recipe{*recipe})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, out[0])
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		httperr.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addMembership(c, h.recipes.AddFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeMembership(c, h.recipes.RemoveFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addMembership(c, h.recipes.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeMembership(c, h.recipes.RemoveFromCart)
}

func (h *RecipeHandler) addMembership(c *gin.Context, add func(userID, recipeID uint) (*models.Recipe, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	recipe, err := add(middleware.CurrentUserID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRecipeSummary(recipe))
}

func (h *RecipeHandler) removeMembership(c *gin.Context, remove func(userID, recipeID uint) error) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := remove(middleware.CurrentUserID(c), id); err != nil {
		httperr.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	items, err := h.recipes.ShoppingList(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.RenderShoppingList(items)))
}

// serializeRecipes builds the canonical read view: nested tags, author with
// is_subscribed, ingredient amounts and the two per-user booleans (false for
// anonymous callers).
func (h *RecipeHandler) serializeRecipes(viewerID uint, recipes []models.Recipe) ([]RecipeResponse, error) {
	ids := make([]uint, 0, len(recipes))
	for i := range recipes {
		ids = append(ids, recipes[i].ID)
	}
	flags, err := h.recipes.FlagsFor(viewerID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		recipe := &recipes[i]

		subscribed := false
		if recipe.Author != nil {
			subscribed, err = h.users.IsSubscribed(viewerID, recipe.AuthorID)
			if err != nil {
				return nil, err
			}
		}

		ingredients := make([]IngredientAmountResponse, 0, len(recipe.Ingredients))
		for _, row := range recipe.Ingredients {
			item := IngredientAmountResponse{
				ID:     row.IngredientID,
				Amount: row.Amount,
			}
			if row.Ingredient != nil {
				item.Name = row.Ingredient.Name
				item.MeasurementUnit = row.Ingredient.MeasurementUnit
			}
			ingredients = append(ingredients, item)
		}

		var author UserResponse
		if recipe.Author != nil {
			author = newUserResponse(recipe.Author, subscribed)
		}

		tags := recipe.Tags
		if tags == nil {
			tags = []models.Tag{}
		}

		f := flags[recipe.ID]
		out = append(out, RecipeResponse{
			ID:               recipe.ID,
			Tags:             tags,
			Author:           author,
			Ingredients:      ingredients,
			IsFavorited:      f.Favorited,
			IsInShoppingCart: f.InShoppingCart,
			Name:             recipe.Name,
			Image:            recipe.ImageURL,
			Text:             recipe.Text,
			CookingTime:      recipe.CookingTime,
		})
	}
	return out, nil
}
