package routes

import (
	"net/http"

	adminHandler "taskflow/internal/admin/handler"
	adminService "taskflow/internal/admin/service"
	"taskflow/internal/config"
	"taskflow/internal/database"
	"taskflow/internal/logger"
	"taskflow/internal/middleware"
	"taskflow/internal/notification"
	taskHandler "taskflow/internal/task/handler"
	taskRepository "taskflow/internal/task/repository"
	taskService "taskflow/internal/task/service"
	userHandler "taskflow/internal/user/handler"
	userRepository "taskflow/internal/user/repository"
	userService "taskflow/internal/user/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(cfg *config.Config, db *database.Database) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	userRepo := userRepository.NewRepository(db)
	taskRepo := taskRepository.NewRepository(db)
	notifier := notification.NewService(cfg)

	userSvc := userService.NewService(userRepo, notifier, cfg)
	taskSvc := taskService.NewService(taskRepo)
	adminSvc := adminService.NewService(userRepo, taskRepo)

	authH := userHandler.NewHandler(userSvc)
	taskH := taskHandler.NewHandler(taskSvc)
	adminH := adminHandler.NewHandler(adminSvc)

	root := router.Group("")
	{
		authH.RegisterRoutes(root)

		protected := root.Group("")
		protected.Use(middleware.AuthMiddleware(cfg, userRepo))
		{
			authH.RegisterProfileRoutes(protected)
			taskH.RegisterRoutes(protected)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				adminH.RegisterRoutes(admin)
			}
		}
	}

	logger.Info("All routes initialized")
	return router
}
