package learning

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/s/onlineLearning/internal/apperr"
	"github.com/s/onlineLearning/internal/models"
	"github.com/s/onlineLearning/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	return NewService(db, testutil.Logger(t)), db
}

func wantKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := apperr.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}

func courseStudents(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var c models.Course
	if err := db.Unscoped().First(&c, id).Error; err != nil {
		t.Fatal(err)
	}
	return c.Students
}

func countRows(t *testing.T, db *gorm.DB, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Where(where, args...).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func mustEnroll(t *testing.T, s *Service, userID, courseID uint) *EnrollmentView {
	t.Helper()
	v, err := s.Enroll(context.Background(), userID, courseID)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	return v
}
