package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/coursebridge/coursebridge-backend/internal/logger"
  apperrors "github.com/coursebridge/coursebridge-backend/internal/pkg/errors"
  "github.com/coursebridge/coursebridge-backend/internal/repos"
  "github.com/coursebridge/coursebridge-backend/internal/types"
)

type UpdateAccessInput struct {
  IsCompleted          *bool `json:"is_completed"`
  CompletionPercentage *int  `json:"completion_percentage"`
  // TimeSpent is a delta in seconds added to the cumulative counter.
  TimeSpent     *int `json:"time_spent"`
  Downloaded    bool `json:"downloaded"`
  VideoProgress *int `json:"video_progress"`
  VideoDuration *int `json:"video_duration"`
}

type TrackerService interface {
  Track(ctx context.Context, tx *gorm.DB, courseID, itemID, studentID uuid.UUID, studentName string) (*types.ContentAccess, error)
  UpdateAccess(ctx context.Context, tx *gorm.DB, courseID, itemID, studentID uuid.UUID, patch UpdateAccessInput) (*types.ContentAccess, error)
  GetForStudent(ctx context.Context, tx *gorm.DB, itemID, studentID uuid.UUID) (*types.ContentAccess, error)
  GetAllForItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) ([]*types.ContentAccess, error)
}

type trackerService struct {
  db         *gorm.DB
  log        *logger.Logger
  clock      Clock
  itemRepo   repos.ContentItemRepo
  accessRepo repos.ContentAccessRepo
  progress   ProgressService
}

func NewTrackerService(
  db *gorm.DB,
  baseLog *logger.Logger,
  clock Clock,
  itemRepo repos.ContentItemRepo,
  accessRepo repos.ContentAccessRepo,
  progress ProgressService,
) TrackerService {
  return &trackerService{
    db:         db,
    log:        baseLog.With("service", "TrackerService"),
    clock:      clock,
    itemRepo:   itemRepo,
    accessRepo: accessRepo,
    progress:   progress,
  }
}

// Track is create-or-increment on the (item, student) record: N calls
// leave access_count=N, first_accessed_at from the first call,
// last_accessed_at from the Nth. The recompute re-reads everything
// fresh, so the trigger passes keys only.
func (s *trackerService) Track(ctx context.Context, tx *gorm.DB, courseID, itemID, studentID uuid.UUID, studentName string) (*types.ContentAccess, error) {
  if courseID == uuid.Nil || itemID == uuid.Nil || studentID == uuid.Nil {
    return nil, fmt.Errorf("%w: missing course, item or student id", apperrors.ErrInvalidArgument)
  }

  item, err := s.itemRepo.GetByID(ctx, tx, courseID, itemID)
  if err != nil {
    return nil, err
  }
  if item == nil {
    return nil, fmt.Errorf("%w: content item %s", apperrors.ErrNotFound, itemID)
  }

  now := s.clock.Now()
  record, err := s.accessRepo.GetByContentAndStudent(ctx, tx, itemID, studentID)
  if err != nil {
    return nil, err
  }
  if record == nil {
    record = &types.ContentAccess{
      ID:              uuid.New(),
      CourseID:        courseID,
      ContentID:       itemID,
      StudentID:       studentID,
      StudentName:     studentName,
      FirstAccessedAt: now,
      LastAccessedAt:  now,
      AccessCount:     1,
    }
    if err := s.accessRepo.Create(ctx, tx, record); err != nil {
      s.log.Error("Track: create failed", "error", err, "content_id", itemID, "student_id", studentID)
      return nil, err
    }
  } else {
    record.AccessCount++
    record.LastAccessedAt = now
    if err := s.accessRepo.UpdateFields(ctx, tx, record.ID, map[string]interface{}{
      "access_count":     record.AccessCount,
      "last_accessed_at": now,
    }); err != nil {
      s.log.Error("Track: increment failed", "error", err, "content_id", itemID, "student_id", studentID)
      return nil, err
    }
  }

  if _, err := s.progress.Recompute(ctx, tx, courseID, studentID); err != nil {
    s.log.Warn("Track: progress recompute failed", "error", err, "course_id", courseID, "student_id", studentID)
    return nil, err
  }
  return record, nil
}

func (s *trackerService) UpdateAccess(ctx context.Context, tx *gorm.DB, courseID, itemID, studentID uuid.UUID, patch UpdateAccessInput) (*types.ContentAccess, error) {
  record, err := s.accessRepo.GetByContentAndStudent(ctx, tx, itemID, studentID)
  if err != nil {
    return nil, err
  }
  if record == nil {
    return nil, fmt.Errorf("%w: no access record for item %s", apperrors.ErrNotFound, itemID)
  }

  if patch.CompletionPercentage != nil && (*patch.CompletionPercentage < 0 || *patch.CompletionPercentage > 100) {
    return nil, fmt.Errorf("%w: completion_percentage out of range", apperrors.ErrInvalidArgument)
  }
  if patch.TimeSpent != nil && *patch.TimeSpent < 0 {
    return nil, fmt.Errorf("%w: time_spent must be non-negative", apperrors.ErrInvalidArgument)
  }

  now := s.clock.Now()
  fields := map[string]interface{}{}
  if patch.CompletionPercentage != nil {
    record.CompletionPercentage = *patch.CompletionPercentage
    fields["completion_percentage"] = record.CompletionPercentage
  }
  if patch.TimeSpent != nil {
    record.TotalTimeSpent += *patch.TimeSpent
    fields["total_time_spent"] = record.TotalTimeSpent
  }
  if patch.Downloaded {
    record.DownloadCount++
    record.LastDownloadAt = &now
    fields["download_count"] = record.DownloadCount
    fields["last_download_at"] = now
  }
  if patch.VideoProgress != nil {
    record.VideoProgress = patch.VideoProgress
    fields["video_progress"] = *patch.VideoProgress
  }
  if patch.VideoDuration != nil {
    record.VideoDuration = patch.VideoDuration
    fields["video_duration"] = *patch.VideoDuration
  }
  // Completion is one-way: the first false→true transition stamps
  // completed_at and nothing moves it afterwards.
  if patch.IsCompleted != nil && *patch.IsCompleted && !record.IsCompleted {
    record.IsCompleted = true
    record.CompletedAt = &now
    fields["is_completed"] = true
    fields["completed_at"] = now
  }

  if len(fields) > 0 {
    if err := s.accessRepo.UpdateFields(ctx, tx, record.ID, fields); err != nil {
      s.log.Error("UpdateAccess: store write failed", "error", err, "content_id", itemID, "student_id", studentID)
      return nil, err
    }
  }

  if _, err := s.progress.Recompute(ctx, tx, courseID, studentID); err != nil {
    s.log.Warn("UpdateAccess: progress recompute failed", "error", err, "course_id", courseID, "student_id", studentID)
    return nil, err
  }
  return record, nil
}

func (s *trackerService) GetForStudent(ctx context.Context, tx *gorm.DB, itemID, studentID uuid.UUID) (*types.ContentAccess, error) {
  record, err := s.accessRepo.GetByContentAndStudent(ctx, tx, itemID, studentID)
  if err != nil {
    return nil, err
  }
  if record == nil {
    return nil, fmt.Errorf("%w: no access record for item %s", apperrors.ErrNotFound, itemID)
  }
  return record, nil
}

func (s *trackerService) GetAllForItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) ([]*types.ContentAccess, error) {
  return s.accessRepo.ListByContentID(ctx, tx, itemID)
}
