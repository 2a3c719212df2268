package learning

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/s/onlineLearning/internal/apperr"
	"github.com/s/onlineLearning/internal/metrics"
	"github.com/s/onlineLearning/internal/models"
	"github.com/s/onlineLearning/internal/storage"
)

// maxCertificateAttempts ограничивает перегенерацию номера при коллизии
const maxCertificateAttempts = 5

const certAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// certificateNumber: CERT-<первые 3 символа названия>-<unix ms>-<6 случайных символов>
func certificateNumber(courseTitle string, at time.Time) string {
	prefix := []rune(strings.ToUpper(strings.TrimSpace(courseTitle)))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	if len(prefix) == 0 {
		prefix = []rune("CRS")
	}
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = certAlphabet[rand.IntN(len(certAlphabet))]
	}
	return fmt.Sprintf("CERT-%s-%d-%s", string(prefix), at.UnixMilli(), suffix)
}

// issueIfEligible возвращает существующий сертификат записи или выдаёт новый.
// Вставка идёт в savepoint: дубль номера откатывает только её и повторяется с новым номером,
// дубль по enrollment_id значит, что сертификат уже выдан параллельно.
func (s *Service) issueIfEligible(tx *gorm.DB, e *models.Enrollment, courseTitle string) (*models.Certificate, bool, error) {
	existing, err := findCertificate(tx, e.ID)
	if err != nil {
		return nil, false, internal(err)
	}
	if existing != nil {
		return existing, false, nil
	}

	for attempt := 1; attempt <= maxCertificateAttempts; attempt++ {
		now := s.now()
		enrollmentID := e.ID
		cert := models.Certificate{
			PublicID:          uuid.NewString(),
			EnrollmentID:      &enrollmentID,
			UserID:            e.UserID,
			CourseID:          e.CourseID,
			CertificateNumber: s.certNumber(courseTitle, now),
			IssuedAt:          now,
		}
		err := tx.Transaction(func(sp *gorm.DB) error {
			return sp.Create(&cert).Error
		})
		if err == nil {
			if err := logActivity(tx, e.UserID, models.ActionCertificateIssued, "enrollment=%d certificate=%s", e.ID, cert.CertificateNumber); err != nil {
				return nil, false, internal(err)
			}
			return &cert, true, nil
		}
		if !storage.IsDuplicateKey(err) {
			return nil, false, internal(err)
		}

		existing, ferr := findCertificate(tx, e.ID)
		if ferr != nil {
			return nil, false, internal(ferr)
		}
		if existing != nil {
			return existing, false, nil
		}
		metrics.CertificateCollisions.Inc()
		s.log.Warn("certificate number collision",
			zap.Uint("enrollment_id", e.ID),
			zap.String("number", cert.CertificateNumber),
			zap.Int("attempt", attempt))
	}
	return nil, false, apperr.Conflict("Не удалось сгенерировать уникальный номер сертификата, повторите запрос")
}

func findCertificate(db *gorm.DB, enrollmentID uint) (*models.Certificate, error) {
	var certs []models.Certificate
	if err := db.Where("enrollment_id = ?", enrollmentID).Limit(1).Find(&certs).Error; err != nil {
		return nil, err
	}
	if len(certs) == 0 {
		return nil, nil
	}
	return &certs[0], nil
}

// GetCertificate — публичная проверка сертификата по id; курс показывается, даже если удалён
func (s *Service) GetCertificate(ctx context.Context, publicID string) (*CertificateView, error) {
	if _, err := uuid.Parse(publicID); err != nil {
		return nil, apperr.NotFound("Сертификат не найден")
	}
	var c models.Certificate
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Course", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("public_id = ?", publicID).
		First(&c).Error
	if err != nil {
		return nil, notFoundOr(err, "Сертификат не найден")
	}

	v := &CertificateView{ID: c.PublicID, CertificateNumber: c.CertificateNumber, IssuedAt: c.IssuedAt}
	v.Course.ID = c.CourseID
	v.Course.Title = c.Course.Title
	v.Course.Description = c.Course.Description
	v.Course.Instructor = c.Course.Instructor
	v.Course.Category = c.Course.Category
	v.User.ID = c.UserID
	v.User.Name = c.User.Name
	v.User.Email = c.User.Email
	return v, nil
}
