package learning

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/s/onlineLearning/internal/apperr"
	"github.com/s/onlineLearning/internal/metrics"
	"github.com/s/onlineLearning/internal/models"
	"github.com/s/onlineLearning/internal/storage"
)

// lessonOrder — "order" зарезервировано в SQL, поэтому колонку квотирует сам диалект
var lessonOrder = clause.OrderByColumn{Column: clause.Column{Name: "order"}}

func orderedLessons(db *gorm.DB) *gorm.DB { return db.Order(lessonOrder) }

// Enroll записывает пользователя на курс и увеличивает счётчик студентов в той же транзакции.
func (s *Service) Enroll(ctx context.Context, userID, courseID uint) (*EnrollmentView, error) {
	var view *EnrollmentView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.Select("id").First(&course, courseID).Error; err != nil {
			return notFoundOr(err, "Курс не найден")
		}

		e := models.Enrollment{UserID: userID, CourseID: courseID, Progress: 0}
		if err := tx.Create(&e).Error; err != nil {
			if storage.IsDuplicateKey(err) {
				return apperr.Conflict("Вы уже записаны на этот курс")
			}
			return internal(err)
		}

		err := tx.Model(&models.Course{}).Where("id = ?", courseID).
			UpdateColumn("students", gorm.Expr("students + 1")).Error
		if err != nil {
			return internal(err)
		}
		if err := logActivity(tx, userID, models.ActionEnroll, "course=%d enrollment=%d", courseID, e.ID); err != nil {
			return internal(err)
		}

		if err := tx.Preload("Lessons", orderedLessons).First(&course, courseID).Error; err != nil {
			return internal(err)
		}
		view = &EnrollmentView{
			ID:        e.ID,
			UserID:    e.UserID,
			CourseID:  e.CourseID,
			Progress:  e.Progress,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
			Course:    courseSummary(&course),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Enrollments.Inc()
	s.log.Info("enrolled", zap.Uint("user_id", userID), zap.Uint("course_id", courseID), zap.Uint("enrollment_id", view.ID))
	return view, nil
}

// Unenroll удаляет запись и её завершения уроков. Выданный сертификат остаётся,
// у него только обнуляется enrollment_id.
func (s *Service) Unenroll(ctx context.Context, enrollmentID, userID uint) error {
	var courseID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e models.Enrollment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&e, enrollmentID).Error; err != nil {
			return notFoundOr(err, "Запись на курс не найдена")
		}
		if e.UserID != userID {
			return apperr.Forbidden("Нет доступа к этой записи")
		}
		courseID = e.CourseID

		if err := tx.Where("enrollment_id = ?", e.ID).Delete(&models.LessonCompletion{}).Error; err != nil {
			return internal(err)
		}
		err := tx.Model(&models.Certificate{}).Where("enrollment_id = ?", e.ID).
			Update("enrollment_id", nil).Error
		if err != nil {
			return internal(err)
		}
		if err := tx.Delete(&e).Error; err != nil {
			return internal(err)
		}
		// счётчик не уходит ниже нуля, даже если разъехался с реальным числом записей
		err = tx.Unscoped().Model(&models.Course{}).Where("id = ?", e.CourseID).
			UpdateColumn("students", gorm.Expr("CASE WHEN students > 0 THEN students - 1 ELSE 0 END")).Error
		if err != nil {
			return internal(err)
		}
		return logActivity(tx, userID, models.ActionUnenroll, "course=%d enrollment=%d", e.CourseID, e.ID)
	})
	if err != nil {
		return err
	}

	metrics.Unenrollments.Inc()
	s.log.Info("unenrolled", zap.Uint("user_id", userID), zap.Uint("course_id", courseID), zap.Uint("enrollment_id", enrollmentID))
	return nil
}

// ListEnrollments возвращает записи пользователя, последние обновлённые сверху.
// Прогресс каждой пересчитывается из завершённых уроков.
func (s *Service) ListEnrollments(ctx context.Context, userID uint) ([]EnrollmentView, error) {
	db := s.db.WithContext(ctx)
	var rows []models.Enrollment
	err := db.Where("user_id = ?", userID).
		Preload("Course.Lessons", orderedLessons).
		Preload("Certificate").
		Order("updated_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, internal(err)
	}

	out := make([]EnrollmentView, 0, len(rows))
	for i := range rows {
		out = append(out, s.enrollmentView(db, &rows[i]))
	}
	return out, nil
}

// CheckEnrollment отвечает, записан ли пользователь на курс
func (s *Service) CheckEnrollment(ctx context.Context, userID, courseID uint) (*EnrollmentView, bool, error) {
	db := s.db.WithContext(ctx)
	var rows []models.Enrollment
	err := db.Where("user_id = ? AND course_id = ?", userID, courseID).
		Preload("Course.Lessons", orderedLessons).
		Preload("Certificate").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, false, internal(err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	v := s.enrollmentView(db, &rows[0])
	return &v, true, nil
}

func (s *Service) enrollmentView(db *gorm.DB, e *models.Enrollment) EnrollmentView {
	v := EnrollmentView{
		ID:          e.ID,
		UserID:      e.UserID,
		CourseID:    e.CourseID,
		Progress:    e.Progress,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		Certificate: certificateRef(e.Certificate),
	}
	// мягко удалённый курс не подгружается через Preload
	if e.Course.ID == 0 {
		v.Course = deletedCourse(e.CourseID)
		return v
	}
	v.Progress = s.refreshProgress(db, e)
	v.Course = courseSummary(&e.Course)
	return v
}
