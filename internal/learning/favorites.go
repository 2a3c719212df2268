package learning

import (
	"context"

	"gorm.io/gorm"

	"github.com/s/onlineLearning/internal/apperr"
	"github.com/s/onlineLearning/internal/models"
	"github.com/s/onlineLearning/internal/storage"
)

// ToggleFavoriteCourse добавляет курс в избранное или убирает его оттуда.
// Возвращает новое состояние.
func (s *Service) ToggleFavoriteCourse(ctx context.Context, userID, courseID uint) (bool, error) {
	var favorite bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Course{}).Where("id = ?", courseID).Count(&n).Error; err != nil {
			return internal(err)
		}
		if n == 0 {
			return apperr.NotFound("Курс не найден")
		}
		var err error
		favorite, err = toggle(tx, &models.FavoriteCourse{UserID: userID, CourseID: courseID},
			"user_id = ? AND course_id = ?", userID, courseID)
		return err
	})
	return favorite, err
}

func (s *Service) ToggleFavoriteWebinar(ctx context.Context, userID, webinarID uint) (bool, error) {
	var favorite bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Webinar{}).Where("id = ?", webinarID).Count(&n).Error; err != nil {
			return internal(err)
		}
		if n == 0 {
			return apperr.NotFound("Вебинар не найден")
		}
		var err error
		favorite, err = toggle(tx, &models.FavoriteWebinar{UserID: userID, WebinarID: webinarID},
			"user_id = ? AND webinar_id = ?", userID, webinarID)
		return err
	})
	return favorite, err
}

// toggle: есть строка — удаляем, нет — создаём. Параллельно созданная строка
// (дубль по уникальному индексу) означает, что объект уже в избранном.
func toggle(tx *gorm.DB, row any, where string, args ...any) (bool, error) {
	res := tx.Where(where, args...).Delete(row)
	if res.Error != nil {
		return false, internal(res.Error)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	if err := tx.Transaction(func(sp *gorm.DB) error { return sp.Create(row).Error }); err != nil {
		if storage.IsDuplicateKey(err) {
			return true, nil
		}
		return false, internal(err)
	}
	return true, nil
}

func (s *Service) ListFavoriteCourseIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := s.db.WithContext(ctx).Model(&models.FavoriteCourse{}).
		Where("user_id = ?", userID).Order("created_at DESC").
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, internal(err)
	}
	return ids, nil
}

func (s *Service) ListFavoriteWebinarIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := s.db.WithContext(ctx).Model(&models.FavoriteWebinar{}).
		Where("user_id = ?", userID).Order("created_at DESC").
		Pluck("webinar_id", &ids).Error
	if err != nil {
		return nil, internal(err)
	}
	return ids, nil
}
