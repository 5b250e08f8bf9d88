package repos

import (
  "context"
  "errors"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/coursebridge/coursebridge-backend/internal/logger"
  "github.com/coursebridge/coursebridge-backend/internal/types"
)

type ContentItemRepo interface {
  Create(ctx context.Context, tx *gorm.DB, row *types.ContentItem) error
  GetByID(ctx context.Context, tx *gorm.DB, courseID, id uuid.UUID) (*types.ContentItem, error)
  ListByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, visibleOnly bool) ([]*types.ContentItem, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, courseID, id uuid.UUID, fields map[string]interface{}) (int64, error)
  DeleteByID(ctx context.Context, tx *gorm.DB, courseID, id uuid.UUID) (int64, error)
}

type contentItemRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewContentItemRepo(db *gorm.DB, baseLog *logger.Logger) ContentItemRepo {
  repoLog := baseLog.With("repo", "ContentItemRepo")
  return &contentItemRepo{db: db, log: repoLog}
}

func (r *contentItemRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ContentItem) error {
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

func (r *contentItemRepo) GetByID(ctx context.Context, tx *gorm.DB, courseID, id uuid.UUID) (*types.ContentItem, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if courseID == uuid.Nil || id == uuid.Nil {
    return nil, nil
  }

  var result types.ContentItem
  if err := transaction.WithContext(ctx).
    Where("course_id = ? AND id = ?", courseID, id).
    First(&result).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (r *contentItemRepo) ListByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, visibleOnly bool) ([]*types.ContentItem, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ContentItem
  if courseID == uuid.Nil {
    return results, nil
  }

  query := transaction.WithContext(ctx).Where("course_id = ?", courseID)
  if visibleOnly {
    // Student-visible means both gates pass: the flag and the
    // publication status.
    query = query.Where("visible_to_students = ? AND status = ?", true, types.ContentStatusPublished)
  }
  if err := query.Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *contentItemRepo) UpdateFields(ctx context.Context, tx *gorm.DB, courseID, id uuid.UUID, fields map[string]interface{}) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if courseID == uuid.Nil || id == uuid.Nil || len(fields) == 0 {
    return 0, nil
  }

  res := transaction.WithContext(ctx).
    Model(&types.ContentItem{}).
    Where("course_id = ? AND id = ?", courseID, id).
    Updates(fields)
  if res.Error != nil {
    return 0, res.Error
  }
  return res.RowsAffected, nil
}

func (r *contentItemRepo) DeleteByID(ctx context.Context, tx *gorm.DB, courseID, id uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if courseID == uuid.Nil || id == uuid.Nil {
    return 0, nil
  }

  res := transaction.WithContext(ctx).
    Where("course_id = ? AND id = ?", courseID, id).
    Delete(&types.ContentItem{})
  if res.Error != nil {
    return 0, res.Error
  }
  return res.RowsAffected, nil
}
