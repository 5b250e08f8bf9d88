package services

import (
  "context"
  "encoding/json"
  "fmt"
  "io"
  "sort"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  apperrors "github.com/coursebridge/coursebridge-backend/internal/pkg/errors"
  "github.com/coursebridge/coursebridge-backend/internal/logger"
  "github.com/coursebridge/coursebridge-backend/internal/repos"
  "github.com/coursebridge/coursebridge-backend/internal/types"
)

type CreateContentItemInput struct {
  Type        string `json:"type"`
  Title       string `json:"title"`
  Description string `json:"description"`

  ParentID    *uuid.UUID `json:"parent_id"`
  Order       *int       `json:"order"`
  IndentLevel *int       `json:"indent_level"`

  FileName string `json:"file_name"`
  FileURL  string `json:"file_url"`
  FileSize int64  `json:"file_size"`
  MimeType string `json:"mime_type"`

  ExternalURL  string     `json:"external_url"`
  TextContent  string     `json:"text_content"`
  LinkedItemID *uuid.UUID `json:"linked_item_id"`

  Status            *string    `json:"status"`
  VisibleToStudents *bool      `json:"visible_to_students"`
  AvailableFrom     *time.Time `json:"available_from"`
  AvailableUntil    *time.Time `json:"available_until"`

  RequirePreviousCompletion bool        `json:"require_previous_completion"`
  PrerequisiteContentIDs    []uuid.UUID `json:"prerequisite_content_ids"`

  IsGraded bool `json:"is_graded"`
  Points   *int `json:"points"`
}

type UpdateContentItemInput struct {
  Title       *string `json:"title"`
  Description *string `json:"description"`

  ParentID    *uuid.UUID `json:"parent_id"`
  Order       *int       `json:"order"`
  IndentLevel *int       `json:"indent_level"`

  ExternalURL *string `json:"external_url"`
  TextContent *string `json:"text_content"`

  Status            *string    `json:"status"`
  VisibleToStudents *bool      `json:"visible_to_students"`
  AvailableFrom     *time.Time `json:"available_from"`
  AvailableUntil    *time.Time `json:"available_until"`

  RequirePreviousCompletion *bool       `json:"require_previous_completion"`
  PrerequisiteContentIDs    []uuid.UUID `json:"prerequisite_content_ids"`

  IsGraded *bool `json:"is_graded"`
  Points   *int  `json:"points"`
}

type FileUploadInput struct {
  FileName    string
  MimeType    string
  FileSize    int64
  Title       string
  Description string
  ParentID    *uuid.UUID
  Order       *int
  Body        io.Reader
}

// DeleteOutcome reports the two phases of an item deletion
// independently so orphaned binaries can be reconciled out-of-band.
type DeleteOutcome struct {
  MetadataDeleted bool   `json:"metadata_deleted"`
  StorageReleased bool   `json:"storage_released"`
  StorageError    string `json:"storage_error,omitempty"`
}

type CatalogService interface {
  CreateItem(ctx context.Context, tx *gorm.DB, courseID, authorID uuid.UUID, input CreateContentItemInput) (*types.ContentItem, error)
  ListItems(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, includeHidden bool) ([]*types.ContentItem, error)
  GetItem(ctx context.Context, tx *gorm.DB, courseID, itemID uuid.UUID) (*types.ContentItem, error)
  UpdateItem(ctx context.Context, tx *gorm.DB, courseID, itemID uuid.UUID, patch UpdateContentItemInput) (*types.ContentItem, error)
  PublishItem(ctx context.Context, tx *gorm.DB, courseID, itemID uuid.UUID) (*types.ContentItem, error)
  DeleteItem(ctx context.Context, courseID, itemID uuid.UUID) (*DeleteOutcome, error)
  UploadFile(ctx context.Context, tx *gorm.DB, courseID, authorID uuid.UUID, input FileUploadInput) (*types.ContentItem, error)
  Reorder(ctx context.Context, courseID uuid.UUID, itemIDs []uuid.UUID, newOrders []int) error
}

type catalogService struct {
  db         *gorm.DB
  log        *logger.Logger
  clock      Clock
  courseRepo repos.CourseRepo
  itemRepo   repos.ContentItemRepo
  accessRepo repos.ContentAccessRepo
  bucket     BucketService
}

func NewCatalogService(
  db *gorm.DB,
  baseLog *logger.Logger,
  clock Clock,
  courseRepo repos.CourseRepo,
  itemRepo repos.ContentItemRepo,
  accessRepo repos.ContentAccessRepo,
  bucket BucketService,
) CatalogService {
  return &catalogService{
    db:         db,
    log:        baseLog.With("service", "CatalogService"),
    clock:      clock,
    courseRepo: courseRepo,
    itemRepo:   itemRepo,
    accessRepo: accessRepo,
    bucket:     bucket,
  }
}

func (s *catalogService) CreateItem(ctx context.Context, tx *gorm.DB, courseID, authorID uuid.UUID, input CreateContentItemInput) (*types.ContentItem, error) {
  if courseID == uuid.Nil || authorID == uuid.Nil {
    return nil, fmt.Errorf("%w: missing course or author id", apperrors.ErrInvalidArgument)
  }
  if err := validateItemPayload(input); err != nil {
    return nil, err
  }

  course, err := s.courseRepo.GetByID(ctx, tx, courseID)
  if err != nil {
    return nil, err
  }
  if course == nil {
    return nil, fmt.Errorf("%w: course %s", apperrors.ErrNotFound, courseID)
  }

  now := s.clock.Now()
  item := &types.ContentItem{
    ID:          uuid.New(),
    CourseID:    courseID,
    ParentID:    input.ParentID,
    Order:       0,
    IndentLevel: 0,
    Type:        input.Type,
    Title:       input.Title,
    Description: input.Description,

    FileName: input.FileName,
    FileURL:  input.FileURL,
    FileSize: input.FileSize,
    MimeType: input.MimeType,

    ExternalURL:  input.ExternalURL,
    TextContent:  input.TextContent,
    LinkedItemID: input.LinkedItemID,

    Status:            types.ContentStatusDraft,
    VisibleToStudents: true,
    AvailableFrom:     input.AvailableFrom,
    AvailableUntil:    input.AvailableUntil,

    RequirePreviousCompletion: input.RequirePreviousCompletion,

    IsGraded: input.IsGraded,
    Points:   input.Points,

    CreatedBy: authorID,
    CreatedAt: now,
    UpdatedAt: now,
  }
  if input.Order != nil {
    item.Order = *input.Order
  }
  if input.IndentLevel != nil {
    item.IndentLevel = *input.IndentLevel
  }
  if input.Status != nil {
    if !validContentStatus(*input.Status) {
      return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidArgument, *input.Status)
    }
    item.Status = *input.Status
  }
  if input.VisibleToStudents != nil {
    item.VisibleToStudents = *input.VisibleToStudents
  }
  if len(input.PrerequisiteContentIDs) > 0 {
    raw, err := json.Marshal(input.PrerequisiteContentIDs)
    if err != nil {
      return nil, fmt.Errorf("%w: prerequisite ids: %v", apperrors.ErrInvalidArgument, err)
    }
    item.PrerequisiteContentIDs = datatypes.JSON(raw)
  }

  if err := s.itemRepo.Create(ctx, tx, item); err != nil {
    s.log.Error("CreateItem: store write failed", "error", err, "course_id", courseID)
    return nil, err
  }
  return item, nil
}

// ListItems sorts post-fetch; the store gives no ordering guarantee.
func (s *catalogService) ListItems(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, includeHidden bool) ([]*types.ContentItem, error) {
  if courseID == uuid.Nil {
    return nil, fmt.Errorf("%w: missing course id", apperrors.ErrInvalidArgument)
  }
  items, err := s.itemRepo.ListByCourseID(ctx, tx, courseID, !includeHidden)
  if err != nil {
    s.log.Warn("ListItems: store read failed", "error", err, "course_id", courseID)
    return nil, err
  }
  sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })
  return items, nil
}

func (s *catalogService) GetItem(ctx context.Context, tx *gorm.DB, courseID, itemID uuid.UUID) (*types.ContentItem, error) {
  item, err := s.itemRepo.GetByID(ctx, tx, courseID, itemID)
  if err != nil {
    return nil, err
  }
  if item == nil {
    return nil, fmt.Errorf("%w: content item %s", apperrors.ErrNotFound, itemID)
  }
  return item, nil
}

func (s *catalogService) UpdateItem(ctx context.Context, tx *gorm.DB, courseID, itemID uuid.UUID, patch UpdateContentItemInput) (*types.ContentItem, error) {
  fields := map[string]interface{}{}
  if patch.Title != nil {
    fields["title"] = *patch.Title
  }
  if patch.Description != nil {
    fields["description"] = *patch.Description
  }
  if patch.ParentID != nil {
    fields["parent_id"] = *patch.ParentID
  }
  if patch.Order != nil {
    fields["order"] = *patch.Order
  }
  if patch.IndentLevel != nil {
    fields["indent_level"] = *patch.IndentLevel
  }
  if patch.ExternalURL != nil {
    fields["external_url"] = *patch.ExternalURL
  }
  if patch.TextContent != nil {
    fields["text_content"] = *patch.TextContent
  }
  if patch.Status != nil {
    if !validContentStatus(*patch.Status) {
      return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidArgument, *patch.Status)
    }
    fields["status"] = *patch.Status
  }
  if patch.VisibleToStudents != nil {
    fields["visible_to_students"] = *patch.VisibleToStudents
  }
  if patch.AvailableFrom != nil {
    fields["available_from"] = *patch.AvailableFrom
  }
  if patch.AvailableUntil != nil {
    fields["available_until"] = *patch.AvailableUntil
  }
  if patch.RequirePreviousCompletion != nil {
    fields["require_previous_completion"] = *patch.RequirePreviousCompletion
  }
  if patch.PrerequisiteContentIDs != nil {
    raw, err := json.Marshal(patch.PrerequisiteContentIDs)
    if err != nil {
      return nil, fmt.Errorf("%w: prerequisite ids: %v", apperrors.ErrInvalidArgument, err)
    }
    fields["prerequisite_content_ids"] = datatypes.JSON(raw)
  }
  if patch.IsGraded != nil {
    fields["is_graded"] = *patch.IsGraded
  }
  if patch.Points != nil {
    fields["points"] = *patch.Points
  }
  fields["updated_at"] = s.clock.Now()

  affected, err := s.itemRepo.UpdateFields(ctx, tx, courseID, itemID, fields)
  if err != nil {
    s.log.Error("UpdateItem: store write failed", "error", err, "content_id", itemID)
    return nil, err
  }
  if affected == 0 {
    return nil, fmt.Errorf("%w: content item %s", apperrors.ErrNotFound, itemID)
  }
  return s.GetItem(ctx, tx, courseID, itemID)
}

// PublishItem is idempotent; republishing just re-stamps published_at.
func (s *catalogService) PublishItem(ctx context.Context, tx *gorm.DB, courseID, itemID uuid.UUID) (*types.ContentItem, error) {
  now := s.clock.Now()
  affected, err := s.itemRepo.UpdateFields(ctx, tx, courseID, itemID, map[string]interface{}{
    "status":       types.ContentStatusPublished,
    "published_at": now,
    "updated_at":   now,
  })
  if err != nil {
    s.log.Error("PublishItem: store write failed", "error", err, "content_id", itemID)
    return nil, err
  }
  if affected == 0 {
    return nil, fmt.Errorf("%w: content item %s", apperrors.ErrNotFound, itemID)
  }
  return s.GetItem(ctx, tx, courseID, itemID)
}

// DeleteItem releases the binary first (best-effort, reported but
// never blocking), then removes the metadata row and its access
// records in one transaction.
func (s *catalogService) DeleteItem(ctx context.Context, courseID, itemID uuid.UUID) (*DeleteOutcome, error) {
  item, err := s.GetItem(ctx, nil, courseID, itemID)
  if err != nil {
    return nil, err
  }

  outcome := &DeleteOutcome{}
  if item.Type == types.ContentTypeFile && item.StoragePath != "" {
    if err := s.bucket.DeleteObject(ctx, item.StoragePath); err != nil {
      s.log.Warn("DeleteItem: binary release failed, proceeding with metadata delete",
        "error", err, "content_id", itemID, "storage_path", item.StoragePath)
      outcome.StorageError = err.Error()
    } else {
      outcome.StorageReleased = true
    }
  }

  err = s.db.Transaction(func(tx *gorm.DB) error {
    if err := s.accessRepo.DeleteByContentID(ctx, tx, itemID); err != nil {
      return err
    }
    affected, err := s.itemRepo.DeleteByID(ctx, tx, courseID, itemID)
    if err != nil {
      return err
    }
    if affected == 0 {
      return fmt.Errorf("%w: content item %s", apperrors.ErrNotFound, itemID)
    }
    return nil
  })
  if err != nil {
    s.log.Error("DeleteItem: metadata delete failed", "error", err, "content_id", itemID)
    return outcome, err
  }
  outcome.MetadataDeleted = true
  return outcome, nil
}

// UploadFile stores the binary, classifies it and creates the item
// directly in published status; uploads skip the draft stage.
func (s *catalogService) UploadFile(ctx context.Context, tx *gorm.DB, courseID, authorID uuid.UUID, input FileUploadInput) (*types.ContentItem, error) {
  if courseID == uuid.Nil || authorID == uuid.Nil {
    return nil, fmt.Errorf("%w: missing course or author id", apperrors.ErrInvalidArgument)
  }
  if input.FileName == "" || input.Body == nil {
    return nil, fmt.Errorf("%w: file name and body are required", apperrors.ErrInvalidArgument)
  }

  course, err := s.courseRepo.GetByID(ctx, tx, courseID)
  if err != nil {
    return nil, err
  }
  if course == nil {
    return nil, fmt.Errorf("%w: course %s", apperrors.ErrNotFound, courseID)
  }

  itemID := uuid.New()
  storagePath := fmt.Sprintf("courses/%s/content/%s/%s", courseID, itemID, input.FileName)
  publicURL, err := s.bucket.SaveObject(ctx, storagePath, input.Body, input.MimeType)
  if err != nil {
    s.log.Error("UploadFile: binary save failed", "error", err, "course_id", courseID)
    return nil, fmt.Errorf("%w: %v", apperrors.ErrDependency, err)
  }

  title := input.Title
  if title == "" {
    title = input.FileName
  }
  now := s.clock.Now()
  item := &types.ContentItem{
    ID:          itemID,
    CourseID:    courseID,
    ParentID:    input.ParentID,
    Type:        types.ContentTypeFile,
    Title:       title,
    Description: input.Description,

    FileType:    ClassifyFileType(input.MimeType, input.FileName),
    FileName:    input.FileName,
    FileSize:    input.FileSize,
    FileURL:     publicURL,
    StoragePath: storagePath,
    MimeType:    input.MimeType,

    Status:            types.ContentStatusPublished,
    VisibleToStudents: true,

    CreatedBy:   authorID,
    CreatedAt:   now,
    UpdatedAt:   now,
    PublishedAt: &now,
  }
  if input.Order != nil {
    item.Order = *input.Order
  }

  if err := s.itemRepo.Create(ctx, tx, item); err != nil {
    s.log.Error("UploadFile: store write failed", "error", err, "content_id", itemID)
    return nil, err
  }
  return item, nil
}

// Reorder applies every (item, order) assignment in one transaction;
// an unknown item id rolls the whole batch back.
func (s *catalogService) Reorder(ctx context.Context, courseID uuid.UUID, itemIDs []uuid.UUID, newOrders []int) error {
  if courseID == uuid.Nil {
    return fmt.Errorf("%w: missing course id", apperrors.ErrInvalidArgument)
  }
  if len(itemIDs) != len(newOrders) {
    return fmt.Errorf("%w: %d item ids but %d orders", apperrors.ErrInvalidArgument, len(itemIDs), len(newOrders))
  }
  if len(itemIDs) == 0 {
    return nil
  }

  now := s.clock.Now()
  return s.db.Transaction(func(tx *gorm.DB) error {
    for i, id := range itemIDs {
      affected, err := s.itemRepo.UpdateFields(ctx, tx, courseID, id, map[string]interface{}{
        "order":      newOrders[i],
        "updated_at": now,
      })
      if err != nil {
        return err
      }
      if affected == 0 {
        return fmt.Errorf("%w: content item %s", apperrors.ErrNotFound, id)
      }
    }
    return nil
  })
}

func validContentStatus(status string) bool {
  switch status {
  case types.ContentStatusDraft, types.ContentStatusPublished, types.ContentStatusScheduled, types.ContentStatusHidden:
    return true
  }
  return false
}

func validateItemPayload(input CreateContentItemInput) error {
  if input.Title == "" {
    return fmt.Errorf("%w: title is required", apperrors.ErrInvalidArgument)
  }
  switch input.Type {
  case types.ContentTypeFolder:
    return nil
  case types.ContentTypeFile:
    if input.FileName == "" {
      return fmt.Errorf("%w: file items require file_name", apperrors.ErrInvalidArgument)
    }
  case types.ContentTypeLink:
    if input.ExternalURL == "" {
      return fmt.Errorf("%w: link items require external_url", apperrors.ErrInvalidArgument)
    }
  case types.ContentTypeText:
    if input.TextContent == "" {
      return fmt.Errorf("%w: text items require text_content", apperrors.ErrInvalidArgument)
    }
  case types.ContentTypeAssignmentLink, types.ContentTypeQuizLink:
    if input.LinkedItemID == nil || *input.LinkedItemID == uuid.Nil {
      return fmt.Errorf("%w: linked items require linked_item_id", apperrors.ErrInvalidArgument)
    }
  default:
    return fmt.Errorf("%w: unknown content type %q", apperrors.ErrInvalidArgument, input.Type)
  }
  return nil
}
