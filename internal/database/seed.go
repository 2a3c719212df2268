package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/s/onlineLearning/internal/auth"
	"github.com/s/onlineLearning/internal/models"
)

const (
	SeedAdminEmail    = "admin@example.com"
	SeedAdminPassword = "admin123"
)

// Seed создает демо-данные; повторный запуск ничего не дублирует.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		hash, err := auth.HashPassword(SeedAdminPassword)
		if err != nil {
			return err
		}
		admin := models.User{Name: "Администратор", Email: SeedAdminEmail, PasswordHash: hash, Role: models.RoleAdmin}
		if err := tx.Where(models.User{Email: SeedAdminEmail}).FirstOrCreate(&admin).Error; err != nil {
			return err
		}

		course := models.Course{
			Title:       "Основы Go",
			Description: "Вводный курс по языку Go",
			Instructor:  "Иван Петров",
			Duration:    "4 недели",
			Category:    "Программирование",
		}
		var existing int64
		if err := tx.Model(&models.Course{}).Where("title = ?", course.Title).Count(&existing).Error; err != nil {
			return err
		}
		if existing == 0 {
			if err := tx.Create(&course).Error; err != nil {
				return err
			}
			for i, title := range []string{"Установка и первая программа", "Типы и функции", "Горутины и каналы"} {
				l := models.Lesson{CourseID: course.ID, Title: title, Duration: "30 мин", Order: i + 1}
				if err := tx.Create(&l).Error; err != nil {
					return err
				}
			}
		}

		webinar := models.Webinar{
			Title:      "Конкурентность на практике",
			Instructor: "Иван Петров",
			Date:       time.Now().AddDate(0, 0, 7).Truncate(time.Hour),
			Duration:   "1 час",
			Topics:     []string{"goroutines", "context"},
			Category:   "Программирование",
		}
		return tx.Where(models.Webinar{Title: webinar.Title}).FirstOrCreate(&webinar).Error
	})
}
