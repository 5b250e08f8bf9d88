package app

import (
	"gorm.io/gorm"

	redisclient "github.com/coursebridge/coursebridge-backend/internal/clients/redis"
	"github.com/coursebridge/coursebridge-backend/internal/logger"
	"github.com/coursebridge/coursebridge-backend/internal/services"
)

type Services struct {
	Clock      services.Clock
	Bucket     services.BucketService
	Progress   services.ProgressService
	Catalog    services.CatalogService
	Tracker    services.TrackerService
	Statistics services.StatisticsService

	ProgressBus redisclient.ProgressBus
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	clock := services.NewSystemClock()

	bucket, err := services.NewBucketService(log)
	if err != nil {
		return Services{}, err
	}

	// Progress fan-out is optional: without a Redis address the
	// recompute path still runs, it just doesn't publish.
	var notifier services.ProgressNotifier = services.NoopNotifier{}
	var bus redisclient.ProgressBus
	if cfg.RedisAddr != "" {
		bus, err = redisclient.NewProgressBus(log)
		if err != nil {
			log.Warn("Redis progress bus unavailable, continuing without fan-out", "error", err)
		} else {
			notifier = &services.BusNotifier{Bus: bus}
		}
	}

	progress := services.NewProgressService(db, log, clock, reposet.ContentItem, reposet.ContentAccess, reposet.ContentProgress, notifier)
	catalog := services.NewCatalogService(db, log, clock, reposet.Course, reposet.ContentItem, reposet.ContentAccess, bucket)
	tracker := services.NewTrackerService(db, log, clock, reposet.ContentItem, reposet.ContentAccess, progress)
	statistics := services.NewStatisticsService(db, log, clock, reposet.ContentItem, reposet.ContentAccess, reposet.CourseEnrollment)

	return Services{
		Clock:       clock,
		Bucket:      bucket,
		Progress:    progress,
		Catalog:     catalog,
		Tracker:     tracker,
		Statistics:  statistics,
		ProgressBus: bus,
	}, nil
}
