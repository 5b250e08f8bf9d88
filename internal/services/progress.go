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

type ProgressService interface {
  Recompute(ctx context.Context, tx *gorm.DB, courseID, studentID uuid.UUID) (*types.ContentProgress, error)
  Get(ctx context.Context, tx *gorm.DB, courseID, studentID uuid.UUID) (*types.ContentProgress, error)
}

type progressService struct {
  db           *gorm.DB
  log          *logger.Logger
  clock        Clock
  itemRepo     repos.ContentItemRepo
  accessRepo   repos.ContentAccessRepo
  progressRepo repos.ContentProgressRepo
  notifier     ProgressNotifier
}

func NewProgressService(
  db *gorm.DB,
  baseLog *logger.Logger,
  clock Clock,
  itemRepo repos.ContentItemRepo,
  accessRepo repos.ContentAccessRepo,
  progressRepo repos.ContentProgressRepo,
  notifier ProgressNotifier,
) ProgressService {
  return &progressService{
    db:           db,
    log:          baseLog.With("service", "ProgressService"),
    clock:        clock,
    itemRepo:     itemRepo,
    accessRepo:   accessRepo,
    progressRepo: progressRepo,
    notifier:     notifier,
  }
}

// Recompute rebuilds the per-student summary wholesale from the
// published, student-visible item list and the student's access
// records, then writes it as a full replace. Drafts and hidden items
// never count toward the totals. The row is a view: concurrent recomputes for the
// same key are safe, last writer wins.
func (s *progressService) Recompute(ctx context.Context, tx *gorm.DB, courseID, studentID uuid.UUID) (*types.ContentProgress, error) {
  if courseID == uuid.Nil || studentID == uuid.Nil {
    return nil, fmt.Errorf("%w: missing course or student id", apperrors.ErrInvalidArgument)
  }

  items, err := s.itemRepo.ListByCourseID(ctx, tx, courseID, true)
  if err != nil {
    return nil, err
  }
  records, err := s.accessRepo.ListByCourseAndStudent(ctx, tx, courseID, studentID)
  if err != nil {
    return nil, err
  }
  byContent := make(map[uuid.UUID]*types.ContentAccess, len(records))
  for _, rec := range records {
    byContent[rec.ContentID] = rec
  }

  progress := &types.ContentProgress{
    ID:                uuid.New(),
    CourseID:          courseID,
    StudentID:         studentID,
    TotalContentItems: len(items),
    ComputedAt:        s.clock.Now(),
  }
  for _, item := range items {
    rec, ok := byContent[item.ID]
    if !ok {
      continue
    }
    switch {
    case rec.IsCompleted:
      progress.CompletedItems++
    case rec.CompletionPercentage > 0:
      progress.InProgressItems++
    }
    if progress.LastAccessedAt == nil || rec.LastAccessedAt.After(*progress.LastAccessedAt) {
      last := rec.LastAccessedAt
      contentID := item.ID
      progress.LastAccessedAt = &last
      progress.LastAccessedContentID = &contentID
    }
  }
  if progress.TotalContentItems > 0 {
    progress.CompletionPercentage = int(math.Round(100 * float64(progress.CompletedItems) / float64(progress.TotalContentItems)))
  }

  if err := s.progressRepo.Replace(ctx, tx, progress); err != nil {
    s.log.Error("Recompute: store write failed", "error", err, "course_id", courseID, "student_id", studentID)
    return nil, err
  }

  if s.notifier != nil {
    if err := s.notifier.ProgressUpdated(ctx, progress); err != nil {
      s.log.Warn("Recompute: progress event publish failed", "error", err, "course_id", courseID, "student_id", studentID)
    }
  }
  return progress, nil
}

// Get returns the cached summary, materializing it lazily on first
// read.
func (s *progressService) Get(ctx context.Context, tx *gorm.DB, courseID, studentID uuid.UUID) (*types.ContentProgress, error) {
  cached, err := s.progressRepo.GetByCourseAndStudent(ctx, tx, courseID, studentID)
  if err != nil {
    return nil, err
  }
  if cached != nil {
    return cached, nil
  }
  return s.Recompute(ctx, tx, courseID, studentID)
}
