package learning

import (
	"context"
	"math"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/s/onlineLearning/internal/apperr"
	"github.com/s/onlineLearning/internal/metrics"
	"github.com/s/onlineLearning/internal/models"
)

// progressEpsilon — расхождение, начиная с которого сохранённый прогресс перезаписывается
const progressEpsilon = 0.01

const (
	msgLessonCompleted   = "Урок завершен"
	msgLessonAlreadyDone = "Урок уже завершен"
	msgCourseCompleted   = "Курс завершен! Сертификат получен."
)

// progressPercent: round(100 * completed / total), 0 для курса без уроков
func progressPercent(completed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	p := math.Round(100 * float64(completed) / float64(total))
	return math.Min(p, 100)
}

// computeProgress считает только завершения уроков, которые сейчас есть в курсе
func computeProgress(tx *gorm.DB, enrollmentID, courseID uint) (float64, error) {
	var total int64
	if err := tx.Model(&models.Lesson{}).Where("course_id = ?", courseID).Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	var completed int64
	err := tx.Model(&models.LessonCompletion{}).
		Joins("JOIN lessons ON lessons.id = lesson_completions.lesson_id").
		Where("lesson_completions.enrollment_id = ? AND lessons.course_id = ?", enrollmentID, courseID).
		Count(&completed).Error
	if err != nil {
		return 0, err
	}
	return progressPercent(completed, total), nil
}

// CompleteLesson отмечает урок пройденным. Запись блокируется на время транзакции,
// поэтому два одновременных завершения последнего урока выдают один сертификат.
func (s *Service) CompleteLesson(ctx context.Context, enrollmentID, lessonID, userID uint) (*CompletionResult, error) {
	var (
		res      CompletionResult
		newRow   bool
		issued   bool
		courseID uint
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e models.Enrollment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&e, enrollmentID).Error; err != nil {
			return notFoundOr(err, "Запись на курс не найдена")
		}
		if e.UserID != userID {
			return apperr.Forbidden("Нет доступа к этой записи")
		}
		courseID = e.CourseID

		var lesson models.Lesson
		if err := tx.Where("id = ? AND course_id = ?", lessonID, e.CourseID).First(&lesson).Error; err != nil {
			return notFoundOr(err, "Урок не найден в этом курсе")
		}

		completion := models.LessonCompletion{EnrollmentID: e.ID, LessonID: lesson.ID}
		ins := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).Create(&completion)
		if ins.Error != nil {
			return internal(ins.Error)
		}

		progress := e.Progress
		if ins.RowsAffected == 0 {
			res.AlreadyCompleted = true
			res.Message = msgLessonAlreadyDone
		} else {
			newRow = true
			p, err := computeProgress(tx, e.ID, e.CourseID)
			if err != nil {
				return internal(err)
			}
			progress = p
			if err := tx.Model(&e).Updates(map[string]any{"progress": progress, "updated_at": s.now()}).Error; err != nil {
				return internal(err)
			}
			if err := logActivity(tx, userID, models.ActionLessonComplete, "enrollment=%d lesson=%d progress=%.0f", e.ID, lesson.ID, progress); err != nil {
				return internal(err)
			}
			res.Message = msgLessonCompleted
		}
		res.Progress = progress

		if progress >= 100 {
			var course models.Course
			if err := tx.Unscoped().Select("id", "title").First(&course, e.CourseID).Error; err != nil {
				return internal(err)
			}
			cert, created, err := s.issueIfEligible(tx, &e, course.Title)
			if err != nil {
				return err
			}
			issued = created
			res.Certificate = certificateRef(cert)
			if newRow {
				res.Message = msgCourseCompleted
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if newRow {
		metrics.LessonCompletions.Inc()
	}
	if issued {
		metrics.CertificatesIssued.Inc()
		s.log.Info("certificate issued",
			zap.Uint("enrollment_id", enrollmentID),
			zap.Uint("course_id", courseID),
			zap.String("certificate", res.Certificate.CertificateNumber))
	}
	s.log.Debug("lesson complete",
		zap.Uint("enrollment_id", enrollmentID),
		zap.Uint("lesson_id", lessonID),
		zap.Float64("progress", res.Progress),
		zap.Bool("already_completed", res.AlreadyCompleted))
	return &res, nil
}

// CheckCompletion — только чтение, владение проверяется так же, как при завершении
func (s *Service) CheckCompletion(ctx context.Context, enrollmentID, lessonID, userID uint) (bool, error) {
	db := s.db.WithContext(ctx)
	var e models.Enrollment
	if err := db.Select("id", "user_id").First(&e, enrollmentID).Error; err != nil {
		return false, notFoundOr(err, "Запись на курс не найдена")
	}
	if e.UserID != userID {
		return false, apperr.Forbidden("Нет доступа к этой записи")
	}
	var n int64
	err := db.Model(&models.LessonCompletion{}).
		Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).
		Count(&n).Error
	if err != nil {
		return false, internal(err)
	}
	return n > 0, nil
}

// refreshProgress пересчитывает прогресс при чтении и сохраняет его, если он разошёлся
// с сохранённым. Ошибки не фатальны: возвращается сохранённое значение.
func (s *Service) refreshProgress(db *gorm.DB, e *models.Enrollment) float64 {
	computed, err := computeProgress(db, e.ID, e.CourseID)
	if err != nil {
		s.log.Warn("progress recompute failed", zap.Uint("enrollment_id", e.ID), zap.Error(err))
		return e.Progress
	}
	if math.Abs(e.Progress-computed) > progressEpsilon {
		// пишем только поверх прочитанного значения: параллельный CompleteLesson не затирается
		res := db.Model(&models.Enrollment{}).
			Where("id = ? AND progress = ?", e.ID, e.Progress).
			UpdateColumn("progress", computed)
		switch {
		case res.Error != nil:
			s.log.Warn("progress write-back failed", zap.Uint("enrollment_id", e.ID), zap.Error(res.Error))
		case res.RowsAffected == 0:
			s.log.Debug("progress changed concurrently, write-back skipped", zap.Uint("enrollment_id", e.ID))
		default:
			metrics.ProgressRepairs.Inc()
			s.log.Debug("progress repaired",
				zap.Uint("enrollment_id", e.ID),
				zap.Float64("stored", e.Progress),
				zap.Float64("computed", computed))
		}
	}
	e.Progress = computed
	return computed
}
