package learning

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/s/onlineLearning/internal/apperr"
	"github.com/s/onlineLearning/internal/models"
)

const (
	MinRating = 1
	MaxRating = 5
)

// SubmitReview создаёт или обновляет отзыв пользователя и пересчитывает рейтинг курса
// как среднее по всем отзывам. Второе значение — true, если отзыв создан.
func (s *Service) SubmitReview(ctx context.Context, courseID, userID uint, rating int, text string) (*ReviewView, bool, error) {
	text = strings.TrimSpace(text)
	if rating < MinRating || rating > MaxRating {
		return nil, false, apperr.Invalid("Оценка должна быть от 1 до 5")
	}
	if text == "" {
		return nil, false, apperr.Invalid("Текст отзыва обязателен")
	}

	var (
		view    ReviewView
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// блокировка курса сериализует пересчёт среднего между отзывами разных пользователей
		var course models.Course
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&course, courseID).Error; err != nil {
			return notFoundOr(err, "Курс не найден")
		}

		var n int64
		if err := tx.Model(&models.CourseReview{}).Where("course_id = ? AND user_id = ?", courseID, userID).Count(&n).Error; err != nil {
			return internal(err)
		}
		created = n == 0

		review := models.CourseReview{CourseID: courseID, UserID: userID, Rating: rating, Text: text}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "text", "updated_at"}),
		}).Create(&review).Error
		if err != nil {
			return internal(err)
		}

		// id после upsert надёжен не во всех диалектах, перечитываем
		var saved models.CourseReview
		if err := tx.Preload("User").Where("course_id = ? AND user_id = ?", courseID, userID).First(&saved).Error; err != nil {
			return internal(err)
		}

		var avg sql.NullFloat64
		if err := tx.Model(&models.CourseReview{}).Select("AVG(rating)").Where("course_id = ?", courseID).Row().Scan(&avg); err != nil {
			return internal(err)
		}
		if avg.Valid {
			err := tx.Model(&models.Course{}).Where("id = ?", courseID).UpdateColumn("rating", avg.Float64).Error
			if err != nil {
				return internal(err)
			}
		}
		if err := logActivity(tx, userID, models.ActionReview, "course=%d rating=%d", courseID, rating); err != nil {
			return internal(err)
		}

		view = reviewView(&saved)
		view.CourseRating = avg.Float64
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.log.Info("review saved",
		zap.Uint("course_id", courseID),
		zap.Uint("user_id", userID),
		zap.Int("rating", rating),
		zap.Bool("created", created),
		zap.Float64("course_rating", view.CourseRating))
	return &view, created, nil
}

func (s *Service) ListReviews(ctx context.Context, courseID uint) ([]ReviewView, error) {
	var rows []models.CourseReview
	err := s.db.WithContext(ctx).Preload("User").
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, internal(err)
	}
	out := make([]ReviewView, 0, len(rows))
	for i := range rows {
		out = append(out, reviewView(&rows[i]))
	}
	return out, nil
}
