package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/coursebridge/coursebridge-backend/internal/logger"
  "github.com/coursebridge/coursebridge-backend/internal/types"
)

type CourseEnrollmentRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.CourseEnrollment) error
  CountByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error)
}

type courseEnrollmentRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCourseEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) CourseEnrollmentRepo {
  repoLog := baseLog.With("repo", "CourseEnrollmentRepo")
  return &courseEnrollmentRepo{db: db, log: repoLog}
}

func (r *courseEnrollmentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.CourseEnrollment) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return err
  }
  return nil
}

func (r *courseEnrollmentRepo) CountByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if courseID == uuid.Nil {
    return 0, nil
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.CourseEnrollment{}).
    Where("course_id = ?", courseID).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
