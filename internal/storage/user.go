package storage

import (
	"errors"
	"strings"

	"github.com/s/onlineLearning/internal/models"
	"gorm.io/gorm"
)

// ErrEmailRequired — новый аккаунт Google без email создать нельзя: email уникален
var ErrEmailRequired = errors.New("storage: google profile has no email")

// SaveGoogleUser находит пользователя по Google ID (или по email, если аккаунт
// был создан через регистрацию) и обновляет его, иначе создаёт нового студента.
func SaveGoogleUser(db *gorm.DB, info models.User) (*models.User, error) {
	var existing models.User

	// 1. Ищем по Google ID
	result := db.Where("google_id = ?", info.GoogleID).First(&existing)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) && info.Email != "" {
		// 2. Аккаунт с паролем: привязываем Google ID к нему
		result = db.Where("email = ?", normalizeEmail(info.Email)).First(&existing)
	}

	switch {
	case result.Error == nil:
		// Роль не трогаем — ей управляет админ
		updates := map[string]interface{}{
			"google_id": info.GoogleID,
			"name":      info.Name,
			"avatar":    info.Avatar,
		}
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}
		return &existing, nil

	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		info.Email = normalizeEmail(info.Email)
		if info.Email == "" {
			return nil, ErrEmailRequired
		}
		info.Role = models.RoleStudent
		if err := db.Create(&info).Error; err != nil {
			return nil, err
		}
		return &info, nil

	default:
		return nil, result.Error
	}
}

func CreateUser(db *gorm.DB, u *models.User) error {
	u.Email = normalizeEmail(u.Email)
	return db.Create(u).Error
}

func FindUserByEmail(db *gorm.DB, email string) (*models.User, error) {
	var u models.User
	if err := db.Where("email = ?", normalizeEmail(email)).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
