package repos

import (
  "context"
  "errors"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/coursebridge/coursebridge-backend/internal/logger"
  "github.com/coursebridge/coursebridge-backend/internal/types"
)

type ContentProgressRepo interface {
  GetByCourseAndStudent(ctx context.Context, tx *gorm.DB, courseID, studentID uuid.UUID) (*types.ContentProgress, error)
  Replace(ctx context.Context, tx *gorm.DB, row *types.ContentProgress) error
}

type contentProgressRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewContentProgressRepo(db *gorm.DB, baseLog *logger.Logger) ContentProgressRepo {
  repoLog := baseLog.With("repo", "ContentProgressRepo")
  return &contentProgressRepo{db: db, log: repoLog}
}

func (r *contentProgressRepo) GetByCourseAndStudent(ctx context.Context, tx *gorm.DB, courseID, studentID uuid.UUID) (*types.ContentProgress, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if courseID == uuid.Nil || studentID == uuid.Nil {
    return nil, nil
  }

  var result types.ContentProgress
  if err := transaction.WithContext(ctx).
    Where("course_id = ? AND student_id = ?", courseID, studentID).
    First(&result).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

// Replace is a full overwrite keyed by course_id + student_id. The
// progress row is a derived view, so last writer wins.
func (r *contentProgressRepo) Replace(ctx context.Context, tx *gorm.DB, row *types.ContentProgress) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil
  }

  existing, err := r.GetByCourseAndStudent(ctx, transaction, row.CourseID, row.StudentID)
  if err != nil {
    return err
  }
  if existing == nil {
    return transaction.WithContext(ctx).Create(row).Error
  }
  row.ID = existing.ID
  return transaction.WithContext(ctx).
    Model(&types.ContentProgress{}).
    Where("id = ?", existing.ID).
    Select("*").
    Omit("id").
    Updates(row).Error
}
