package app

import (
	"github.com/coursebridge/coursebridge-backend/internal/handlers"
	"github.com/coursebridge/coursebridge-backend/internal/logger"
)

type Handlers struct {
	Content    *handlers.ContentHandler
	Tracking   *handlers.TrackingHandler
	Progress   *handlers.ProgressHandler
	Statistics *handlers.StatisticsHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Content:    handlers.NewContentHandler(log, services.Catalog),
		Tracking:   handlers.NewTrackingHandler(log, services.Tracker),
		Progress:   handlers.NewProgressHandler(log, services.Progress),
		Statistics: handlers.NewStatisticsHandler(log, services.Statistics),
	}
}
