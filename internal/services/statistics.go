package services

import (
  "context"
  "fmt"
  "math"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/coursebridge/coursebridge-backend/internal/logger"
  apperrors "github.com/coursebridge/coursebridge-backend/internal/pkg/errors"
  "github.com/coursebridge/coursebridge-backend/internal/repos"
  "github.com/coursebridge/coursebridge-backend/internal/types"
)

type StatisticsService interface {
  Compute(ctx context.Context, tx *gorm.DB, courseID, itemID uuid.UUID) (*types.ContentStatistics, error)
}

type statisticsService struct {
  db             *gorm.DB
  log            *logger.Logger
  clock          Clock
  itemRepo       repos.ContentItemRepo
  accessRepo     repos.ContentAccessRepo
  enrollmentRepo repos.CourseEnrollmentRepo
}

func NewStatisticsService(
  db *gorm.DB,
  baseLog *logger.Logger,
  clock Clock,
  itemRepo repos.ContentItemRepo,
  accessRepo repos.ContentAccessRepo,
  enrollmentRepo repos.CourseEnrollmentRepo,
) StatisticsService {
  return &statisticsService{
    db:             db,
    log:            baseLog.With("service", "StatisticsService"),
    clock:          clock,
    itemRepo:       itemRepo,
    accessRepo:     accessRepo,
    enrollmentRepo: enrollmentRepo,
  }
}

// Compute is a pure read-side derivation over the item's access
// records plus the roster size. Nothing is persisted; every call
// recomputes.
func (s *statisticsService) Compute(ctx context.Context, tx *gorm.DB, courseID, itemID uuid.UUID) (*types.ContentStatistics, error) {
  item, err := s.itemRepo.GetByID(ctx, tx, courseID, itemID)
  if err != nil {
    return nil, err
  }
  if item == nil {
    return nil, fmt.Errorf("%w: content item %s", apperrors.ErrNotFound, itemID)
  }

  records, err := s.accessRepo.ListByContentID(ctx, tx, itemID)
  if err != nil {
    return nil, err
  }
  enrolled, err := s.enrollmentRepo.CountByCourseID(ctx, tx, courseID)
  if err != nil {
    return nil, err
  }

  stats := &types.ContentStatistics{
    ContentID:        itemID,
    ContentTitle:     item.Title,
    TotalStudents:    int(enrolled),
    StudentsAccessed: len(records),
    CalculatedAt:     s.clock.Now(),
  }
  if len(records) == 0 {
    return stats, nil
  }

  var accessSum, timeSum, completionSum int
  for _, rec := range records {
    if rec.IsCompleted {
      stats.StudentsCompleted++
    }
    accessSum += rec.AccessCount
    timeSum += rec.TotalTimeSpent
    completionSum += rec.CompletionPercentage
    if stats.MostRecentAccess == nil || rec.LastAccessedAt.After(*stats.MostRecentAccess) {
      last := rec.LastAccessedAt
      stats.MostRecentAccess = &last
    }
  }
  n := float64(len(records))
  stats.AverageAccessCount = math.Round(float64(accessSum)/n*10) / 10
  stats.AverageTimeSpent = int(math.Round(float64(timeSum) / n))
  stats.AverageCompletionPercentage = int(math.Round(float64(completionSum) / n))
  return stats, nil
}
