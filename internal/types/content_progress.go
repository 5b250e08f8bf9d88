package types

import (
	"time"

	"github.com/google/uuid"
)

// ContentProgress is the per-(course, student) rollup across all
// visible content items. It is a view over content_access rows: only
// the recompute path writes it and it is always rebuildable.
type ContentProgress struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index:idx_course_student,unique" json:"course_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index:idx_course_student,unique" json:"student_id"`

	TotalContentItems    int `gorm:"column:total_content_items;not null;default:0" json:"total_content_items"`
	CompletedItems       int `gorm:"column:completed_items;not null;default:0" json:"completed_items"`
	InProgressItems      int `gorm:"column:in_progress_items;not null;default:0" json:"in_progress_items"`
	CompletionPercentage int `gorm:"column:completion_percentage;not null;default:0" json:"completion_percentage"`

	LastAccessedContentID *uuid.UUID `gorm:"type:uuid;column:last_accessed_content_id" json:"last_accessed_content_id,omitempty"`
	LastAccessedAt        *time.Time `gorm:"column:last_accessed_at" json:"last_accessed_at,omitempty"`

	ComputedAt time.Time `gorm:"column:computed_at;not null" json:"computed_at"`
}

func (ContentProgress) TableName() string { return "content_progress" }
