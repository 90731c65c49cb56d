package router

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/nayeem51/friendline/internal/cache"
	"github.com/nayeem51/friendline/internal/handlers"
	"github.com/nayeem51/friendline/internal/models"
	"github.com/nayeem51/friendline/internal/repositories"
	"github.com/nayeem51/friendline/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.RequestIDWithConfig(eMiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, mongoDatabase string, cacheTTL time.Duration) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Friendship{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database(mongoDatabase))

	// --- Cache coordinator shared by every service ---
	coordinator := cache.NewCoordinator(cacheTTL)

	// --- Services ---
	userService := services.NewUserService(userRepo, postRepo, friendshipRepo, coordinator)
	postService := services.NewPostService(postRepo, userRepo, coordinator)
	friendshipService := services.NewFriendshipService(friendshipRepo, userRepo, coordinator)
	timelineService := services.NewTimelineService(friendshipService, postRepo, coordinator)

	api := e.Group("/api/v1")

	// User routes
	userHandler := handlers.NewUserHandler(userService)
	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postService)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Friendship routes
	friendshipHandler := handlers.NewFriendshipHandler(friendshipService)
	friendshipHandler.RegisterFriendshipRoutes(api)
	log.Println("Friendship routes configured.")

	// Timeline routes
	timelineHandler := handlers.NewTimelineHandler(timelineService)
	timelineHandler.RegisterTimelineRoutes(api)
	log.Println("Timeline routes configured.")

	log.Println("All routes configured.")
}
