package types

import (
	"time"

	"github.com/google/uuid"
)

// ContentStatistics is the per-item rollup across all students. It is
// derived on every call and never persisted; there is deliberately no
// TableName here.
type ContentStatistics struct {
	ContentID    uuid.UUID `json:"content_id"`
	ContentTitle string    `json:"content_title"`

	TotalStudents     int `json:"total_students"`
	StudentsAccessed  int `json:"students_accessed"`
	StudentsCompleted int `json:"students_completed"`

	AverageAccessCount          float64 `json:"average_access_count"`
	AverageTimeSpent            int     `json:"average_time_spent"`
	AverageCompletionPercentage int     `json:"average_completion_percentage"`

	MostRecentAccess *time.Time `json:"most_recent_access,omitempty"`
	CalculatedAt     time.Time  `json:"calculated_at"`
}
