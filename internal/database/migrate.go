package database

import (
	"github.com/s/onlineLearning/internal/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lesson{},
		&models.Enrollment{},
		&models.LessonCompletion{},
		&models.Certificate{},
		&models.CourseReview{},
		&models.FavoriteCourse{},
		&models.FavoriteWebinar{},
		&models.Webinar{},
		&models.ActivityLog{},
	)
}
