package repos

import (
  "context"
  "errors"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/coursebridge/coursebridge-backend/internal/logger"
  "github.com/coursebridge/coursebridge-backend/internal/types"
)

type ContentAccessRepo interface {
  Create(ctx context.Context, tx *gorm.DB, row *types.ContentAccess) error
  GetByContentAndStudent(ctx context.Context, tx *gorm.DB, contentID, studentID uuid.UUID) (*types.ContentAccess, error)
  ListByContentID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) ([]*types.ContentAccess, error)
  ListByCourseAndStudent(ctx context.Context, tx *gorm.DB, courseID, studentID uuid.UUID) ([]*types.ContentAccess, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
  DeleteByContentID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) error
}

type contentAccessRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewContentAccessRepo(db *gorm.DB, baseLog *logger.Logger) ContentAccessRepo {
  repoLog := baseLog.With("repo", "ContentAccessRepo")
  return &contentAccessRepo{db: db, log: repoLog}
}

func (r *contentAccessRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ContentAccess) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil
  }

  if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
    return err
  }
  return nil
}

func (r *contentAccessRepo) GetByContentAndStudent(ctx context.Context, tx *gorm.DB, contentID, studentID uuid.UUID) (*types.ContentAccess, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if contentID == uuid.Nil || studentID == uuid.Nil {
    return nil, nil
  }

  var result types.ContentAccess
  if err := transaction.WithContext(ctx).
    Where("content_id = ? AND student_id = ?", contentID, studentID).
    First(&result).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (r *contentAccessRepo) ListByContentID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) ([]*types.ContentAccess, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ContentAccess
  if contentID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("content_id = ?", contentID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *contentAccessRepo) ListByCourseAndStudent(ctx context.Context, tx *gorm.DB, courseID, studentID uuid.UUID) ([]*types.ContentAccess, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ContentAccess
  if courseID == uuid.Nil || studentID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("course_id = ? AND student_id = ?", courseID, studentID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *contentAccessRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil || len(fields) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Model(&types.ContentAccess{}).
    Where("id = ?", id).
    Updates(fields).Error; err != nil {
    return err
  }
  return nil
}

func (r *contentAccessRepo) DeleteByContentID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if contentID == uuid.Nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("content_id = ?", contentID).
    Delete(&types.ContentAccess{}).Error; err != nil {
    return err
  }
  return nil
}
