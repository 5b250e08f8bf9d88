package app

import (
	"gorm.io/gorm"
	"github.com/coursebridge/coursebridge-backend/internal/logger"
	"github.com/coursebridge/coursebridge-backend/internal/repos"
)

type Repos struct {
	Course           repos.CourseRepo
	CourseEnrollment repos.CourseEnrollmentRepo
	ContentItem      repos.ContentItemRepo
	ContentAccess    repos.ContentAccessRepo
	ContentProgress  repos.ContentProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Course:           repos.NewCourseRepo(db, log),
		CourseEnrollment: repos.NewCourseEnrollmentRepo(db, log),
		ContentItem:      repos.NewContentItemRepo(db, log),
		ContentAccess:    repos.NewContentAccessRepo(db, log),
		ContentProgress:  repos.NewContentProgressRepo(db, log),
	}
}
