package app

import (
	"github.com/gin-gonic/gin"
	"github.com/coursebridge/coursebridge-backend/internal/server"
)

func wireRouter(handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthMiddleware:    middleware.Auth,
		ContentHandler:    handlers.Content,
		TrackingHandler:   handlers.Tracking,
		ProgressHandler:   handlers.Progress,
		StatisticsHandler: handlers.Statistics,
	})
}
