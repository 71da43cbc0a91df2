package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/api"
	"github.com/forkful/forkful-backend/internal/middleware"
	"github.com/forkful/forkful-backend/internal/router"
	"github.com/forkful/forkful-backend/internal/service"
)

// Server wires the services and handlers onto an HTTP server.
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New assembles the full application against the given dependencies.
// store may be nil, in which case images land in the local media directory.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store service.ObjectStore, logger *zap.Logger) *Server {
	if store == nil {
		store = service.NewLocalStore(cfg.MediaDir, cfg.MediaBaseURL)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	userService := service.NewUserService(db)
	catalogService := service.NewCatalogService(db)
	imageService := service.NewImageService(store)
	recipeService := service.NewRecipeService(db, imageService)

	var limiter *middleware.RateLimiter
	if redisClient != nil {
		limiter = middleware.NewRecipeWriteRateLimiter(redisClient)
	}

	engine := router.Setup(
		logger,
		cfg.AllowedOrigins,
		api.NewUserHandler(authService, userService),
		api.NewRecipeHandler(recipeService, userService, authService, limiter),
		api.NewCatalogHandler(catalogService),
	)

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:    cfg.Addr(),
			Handler: engine,
		},
		logger: logger,
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
