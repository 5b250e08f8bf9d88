package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "github.com/coursebridge/coursebridge-backend/internal/handlers"
  "github.com/coursebridge/coursebridge-backend/internal/middleware"
)

type RouterConfig struct {
  AuthMiddleware    *middleware.AuthMiddleware
  ContentHandler    *handlers.ContentHandler
  TrackingHandler   *handlers.TrackingHandler
  ProgressHandler   *handlers.ProgressHandler
  StatisticsHandler *handlers.StatisticsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)

// ===============
// || Protected ||
// ===============
  protected := router.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())

  courses := protected.Group("/courses/:courseId")
  {
    // Content catalog
    courses.POST("/content", cfg.ContentHandler.CreateItem)
    courses.GET("/content", cfg.ContentHandler.ListItems)
    courses.POST("/content/upload", cfg.ContentHandler.UploadFile)
    courses.PUT("/content/reorder", cfg.ContentHandler.Reorder)
    courses.GET("/content/:itemId", cfg.ContentHandler.GetItem)
    courses.PATCH("/content/:itemId", cfg.ContentHandler.UpdateItem)
    courses.POST("/content/:itemId/publish", cfg.ContentHandler.PublishItem)
    courses.DELETE("/content/:itemId", cfg.ContentHandler.DeleteItem)

    // Access tracking
    courses.POST("/content/:itemId/track", cfg.TrackingHandler.Track)
    courses.PATCH("/content/:itemId/access", cfg.TrackingHandler.UpdateAccess)
    courses.GET("/content/:itemId/access", cfg.TrackingHandler.GetMyAccess)
    courses.GET("/content/:itemId/access/all", cfg.TrackingHandler.GetAllAccess)

    // Derived views
    courses.GET("/progress", cfg.ProgressHandler.GetMyProgress)
    courses.GET("/content/:itemId/statistics", cfg.StatisticsHandler.GetItemStatistics)
  }

  return router
}
