package types

import (
	"time"

	"github.com/google/uuid"
)

// CourseEnrollment is the roster row the statistics calculator counts.
type CourseEnrollment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index:idx_course_member,unique" json:"course_id"`
	Course    *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index:idx_course_member,unique" json:"student_id"`
	Student   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (CourseEnrollment) TableName() string { return "course_enrollment" }
