package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/httperr"
	"github.com/forkful/forkful-backend/internal/middleware"
	"github.com/forkful/forkful-backend/internal/service"
)

// UserHandler serves registration, login, profiles and subscriptions.
type UserHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

func NewUserHandler(auth *service.AuthService, users *service.UserService) *UserHandler {
	return &UserHandler{auth: auth, users: users}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth/token/login", h.Login)

	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", middleware.OptionalAuthMiddleware(h.auth), h.ListUsers)
		users.GET("/me", middleware.AuthMiddleware(h.auth), h.Me)
		users.GET("/subscriptions", middleware.AuthMiddleware(h.auth), h.ListSubscriptions)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.auth), h.GetUser)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(h.auth), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(h.auth), h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}

	user, err := h.auth.Register(service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user, false))
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}

	token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AuthToken: token})
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.GetUser(middleware.CurrentUserID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user, false))
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers()
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	viewerID := middleware.CurrentUserID(c)
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		subscribed, err := h.users.IsSubscribed(viewerID, users[i].ID)
		if err != nil {
			httperr.FromError(c, err)
			return
		}
		out = append(out, newUserResponse(&users[i], subscribed))
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	subscribed, err := h.users.IsSubscribed(middleware.CurrentUserID(c), user.ID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user, subscribed))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := pathID(c)
	if !ok {
		return
	}
	userID := middleware.CurrentUserID(c)

	if _, err := h.users.Subscribe(userID, authorID); err != nil {
		httperr.FromError(c, err)
		return
	}

	sub, err := h.users.AuthorWithRecipes(authorID, recipesLimit(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSubscriptionResponse(sub, true))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.users.Unsubscribe(middleware.CurrentUserID(c), authorID); err != nil {
		httperr.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	subs, err := h.users.Subscriptions(middleware.CurrentUserID(c), recipesLimit(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	out := make([]SubscriptionResponse, 0, len(subs))
	for i := range subs {
		out = append(out, newSubscriptionResponse(&subs[i], true))
	}
	c.JSON(http.StatusOK, out)
}

// recipesLimit parses the recipes_limit query parameter. Absent or
// non-numeric values mean no truncation.
func recipesLimit(c *gin.Context) int {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return -1
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return -1
	}
	return limit
}

// pathID parses the :id route parameter; unparseable ids are treated the
// same as missing rows.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.NotFound(c, "not found")
		return 0, false
	}
	return uint(id), true
}
