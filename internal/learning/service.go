// Package learning implements enrollment, lesson progress, certificate issuance,
// reviews and the rest of the catalog operations on top of gorm.
package learning

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/s/onlineLearning/internal/apperr"
	"github.com/s/onlineLearning/internal/models"
	"github.com/s/onlineLearning/internal/storage"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	now        func() time.Time
	certNumber func(courseTitle string, at time.Time) string
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{
		db:         db,
		log:        log.With(zap.String("component", "learning")),
		now:        time.Now,
		certNumber: certificateNumber,
	}
}

// notFoundOr переводит ErrRecordNotFound в NotFound с сообщением, остальное — в Internal.
func notFoundOr(err error, msg string) error {
	if storage.IsNotFound(err) {
		return apperr.NotFound(msg)
	}
	return internal(err)
}

func internal(err error) error {
	if err == nil {
		return nil
	}
	// уже классифицирована (например, вернулась из вложенной транзакции)
	if _, ok := err.(*apperr.Error); ok {
		return err
	}
	return apperr.Internal("", err)
}

func logActivity(tx *gorm.DB, userID uint, action, format string, args ...any) error {
	entry := models.ActivityLog{
		UserID:  userID,
		Action:  action,
		Details: fmt.Sprintf(format, args...),
	}
	return tx.Create(&entry).Error
}
