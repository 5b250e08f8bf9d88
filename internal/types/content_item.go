package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Content item kinds. Only folders may hold children in the canonical
// model; legacy rows may still reference other kinds as parents.
const (
	ContentTypeFolder         = "folder"
	ContentTypeFile           = "file"
	ContentTypeLink           = "link"
	ContentTypeText           = "text"
	ContentTypeAssignmentLink = "assignment_link"
	ContentTypeQuizLink       = "quiz_link"
)

// Publication states for a content item.
const (
	ContentStatusDraft     = "draft"
	ContentStatusPublished = "published"
	ContentStatusScheduled = "scheduled"
	ContentStatusHidden    = "hidden"
)

// File type buckets assigned by MIME classification on upload.
const (
	FileTypeVideo        = "VIDEO"
	FileTypeAudio        = "AUDIO"
	FileTypeImage        = "IMAGE"
	FileTypePDF          = "PDF"
	FileTypeDocument     = "DOCUMENT"
	FileTypePresentation = "PRESENTATION"
	FileTypeSpreadsheet  = "SPREADSHEET"
	FileTypeArchive      = "ARCHIVE"
	FileTypeCode         = "CODE"
	FileTypeOther        = "OTHER"
)

type ContentItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course   *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`

	// Tree position. ParentID nil means root; IndentLevel is a display
	// hint only, parent_id is the authoritative shape.
	ParentID    *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Order       int        `gorm:"column:order;not null;default:0" json:"order"`
	IndentLevel int        `gorm:"column:indent_level;not null;default:0" json:"indent_level"`

	Type        string `gorm:"column:type;not null" json:"type"`
	Title       string `gorm:"column:title;not null" json:"title"`
	Description string `gorm:"column:description" json:"description,omitempty"`

	// File payload.
	FileType    string `gorm:"column:file_type" json:"file_type,omitempty"`
	FileName    string `gorm:"column:file_name" json:"file_name,omitempty"`
	FileSize    int64  `gorm:"column:file_size" json:"file_size,omitempty"`
	FileURL     string `gorm:"column:file_url" json:"file_url,omitempty"`
	StoragePath string `gorm:"column:storage_path" json:"storage_path,omitempty"`
	MimeType    string `gorm:"column:mime_type" json:"mime_type,omitempty"`

	// Link payload.
	ExternalURL string `gorm:"column:external_url" json:"external_url,omitempty"`

	// Text payload.
	TextContent string `gorm:"column:text_content" json:"text_content,omitempty"`

	// Linked assignment/quiz payload.
	LinkedItemID *uuid.UUID `gorm:"type:uuid;column:linked_item_id" json:"linked_item_id,omitempty"`

	// No column defaults here: a default tag makes the ORM drop the
	// zero value on insert, which would silently turn a hidden or draft
	// row into a visible one. The service layer owns the defaults.
	Status            string     `gorm:"column:status;not null" json:"status"`
	VisibleToStudents bool       `gorm:"column:visible_to_students;not null" json:"visible_to_students"`
	AvailableFrom     *time.Time `gorm:"column:available_from" json:"available_from,omitempty"`
	AvailableUntil    *time.Time `gorm:"column:available_until" json:"available_until,omitempty"`

	// Prerequisite gating is advisory metadata; access denial is the
	// consuming layer's policy decision.
	RequirePreviousCompletion bool           `gorm:"column:require_previous_completion;not null;default:false" json:"require_previous_completion"`
	PrerequisiteContentIDs    datatypes.JSON `gorm:"column:prerequisite_content_ids;type:jsonb" json:"prerequisite_content_ids,omitempty"`

	IsGraded bool `gorm:"column:is_graded;not null;default:false" json:"is_graded"`
	Points   *int `gorm:"column:points" json:"points,omitempty"`

	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
}

func (ContentItem) TableName() string { return "content_item" }
