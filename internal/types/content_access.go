package types

import (
	"time"

	"github.com/google/uuid"
)

// ContentAccess is one student's interaction history with one content
// item. Keyed by (content_id, student_id); created lazily on first
// access and cascaded away with the item.
type ContentAccess struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"course_id"`
	ContentID uuid.UUID    `gorm:"type:uuid;not null;index:idx_content_student,unique" json:"content_id"`
	Content   *ContentItem `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContentID;references:ID" json:"content,omitempty"`
	StudentID uuid.UUID    `gorm:"type:uuid;not null;index:idx_content_student,unique" json:"student_id"`

	StudentName string `gorm:"column:student_name" json:"student_name"`

	FirstAccessedAt time.Time `gorm:"column:first_accessed_at;not null" json:"first_accessed_at"`
	LastAccessedAt  time.Time `gorm:"column:last_accessed_at;not null" json:"last_accessed_at"`
	AccessCount     int       `gorm:"column:access_count;not null;default:1" json:"access_count"`

	IsCompleted          bool       `gorm:"column:is_completed;not null;default:false" json:"is_completed"`
	CompletedAt          *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CompletionPercentage int        `gorm:"column:completion_percentage;not null;default:0" json:"completion_percentage"`

	// Cumulative seconds, client-reported.
	TotalTimeSpent int `gorm:"column:total_time_spent;not null;default:0" json:"total_time_spent"`

	DownloadCount  int        `gorm:"column:download_count;not null;default:0" json:"download_count"`
	LastDownloadAt *time.Time `gorm:"column:last_download_at" json:"last_download_at,omitempty"`

	// Media items only.
	VideoProgress *int `gorm:"column:video_progress" json:"video_progress,omitempty"`
	VideoDuration *int `gorm:"column:video_duration" json:"video_duration,omitempty"`
}

func (ContentAccess) TableName() string { return "content_access" }
