// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/s/onlineLearning/internal/database"
	"github.com/s/onlineLearning/internal/models"
)

func Logger(t *testing.T) *zap.Logger {
	t.Helper()
	return zaptest.NewLogger(t)
}

// DB returns a migrated in-memory SQLite database private to the test.
func DB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Open(database.Options{Driver: "sqlite", DSN: dsn, LogLevel: logger.Silent})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// одно соединение: sqlite не умеет параллельных писателей
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func SeedUser(t *testing.T, db *gorm.DB, name string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Name:  name,
		Email: fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Role:  role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedCourse creates a course with n lessons ordered 1..n.
func SeedCourse(t *testing.T, db *gorm.DB, title string, n int) *models.Course {
	t.Helper()
	c := &models.Course{Title: title, Description: title + " description", Instructor: "Instructor", Category: "General"}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	for i := 0; i < n; i++ {
		l := models.Lesson{CourseID: c.ID, Title: fmt.Sprintf("Lesson %d", i+1), Duration: "10 min", Order: i + 1}
		if err := db.Create(&l).Error; err != nil {
			t.Fatalf("seed lesson: %v", err)
		}
		c.Lessons = append(c.Lessons, l)
	}
	return c
}

func SeedWebinar(t *testing.T, db *gorm.DB, title string) *models.Webinar {
	t.Helper()
	w := &models.Webinar{Title: title, Instructor: "Instructor", Topics: []string{"go"}}
	if err := db.Create(w).Error; err != nil {
		t.Fatalf("seed webinar: %v", err)
	}
	return w
}
