package learning

import (
	"context"
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/s/onlineLearning/internal/apperr"
	"github.com/s/onlineLearning/internal/auth"
	"github.com/s/onlineLearning/internal/models"
	"github.com/s/onlineLearning/internal/storage"
)

type RegisterInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// Register создаёт пользователя с паролем. При регистрации доступны только
// роли STUDENT и TEACHER, всё остальное становится STUDENT.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Invalid("Имя, email и пароль обязательны")
	}
	if !strings.Contains(in.Email, "@") {
		return nil, apperr.Invalid("Некорректный email")
	}
	if len(in.Password) < auth.MinPasswordLen {
		return nil, apperr.Invalid("Пароль должен содержать минимум 6 символов")
	}
	role := in.Role
	if role != models.RoleTeacher {
		role = models.RoleStudent
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, internal(err)
	}
	u := models.User{Name: in.Name, Email: in.Email, PasswordHash: hash, Role: role}
	if err := storage.CreateUser(s.db.WithContext(ctx), &u); err != nil {
		if storage.IsDuplicateKey(err) {
			return nil, apperr.Conflict("Пользователь с таким email уже существует")
		}
		return nil, internal(err)
	}
	s.log.Info("user registered", zap.Uint("user_id", u.ID), zap.String("role", string(u.Role)))
	return &u, nil
}

// Authenticate проверяет email и пароль. На любое несовпадение ответ один и тот же.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := storage.FindUserByEmail(s.db.WithContext(ctx), email)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, apperr.Unauthenticated("Неверный email или пароль")
		}
		return nil, internal(err)
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, apperr.Unauthenticated("Неверный email или пароль")
	}
	return u, nil
}

func (s *Service) SaveGoogleUser(ctx context.Context, info auth.GoogleUserInfo) (*models.User, error) {
	if info.ID == "" {
		return nil, apperr.Invalid("Google не вернул идентификатор пользователя")
	}
	googleID := info.ID
	u, err := storage.SaveGoogleUser(s.db.WithContext(ctx), models.User{
		Name:     info.Name,
		Email:    info.Email,
		GoogleID: &googleID,
		Avatar:   info.Picture,
	})
	if errors.Is(err, storage.ErrEmailRequired) {
		return nil, apperr.Invalid("Google не передал email, вход невозможен")
	}
	if err != nil {
		return nil, internal(err)
	}
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFoundOr(err, "Пользователь не найден")
	}
	return &u, nil
}

// UpdateInterests сохраняет ответы анкеты интересов и отмечает, что тест пройден
func (s *Service) UpdateInterests(ctx context.Context, userID uint, interests []string) (*models.User, error) {
	if interests == nil {
		return nil, apperr.Invalid("interests обязательны")
	}
	clean := make([]string, 0, len(interests))
	for _, v := range interests {
		if v = strings.TrimSpace(v); v != "" {
			clean = append(clean, v)
		}
	}
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Interests = clean
	u.HasCompletedTest = true
	if err := s.db.WithContext(ctx).Model(u).Select("interests", "has_completed_test").Updates(u).Error; err != nil {
		return nil, internal(err)
	}
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, internal(err)
	}
	return users, nil
}

func (s *Service) ChangeRole(ctx context.Context, userID uint, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, apperr.Invalid("Недопустимая роль")
	}
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(u).Update("role", role).Error; err != nil {
		return nil, internal(err)
	}
	u.Role = role
	s.log.Info("role changed", zap.Uint("user_id", userID), zap.String("role", string(role)))
	return u, nil
}

// StudentsResults — все записи на курсы для отчёта учителя/админа, свежие сверху
func (s *Service) StudentsResults(ctx context.Context) ([]StudentResult, error) {
	var rows []models.Enrollment
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Course", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, internal(err)
	}
	out := make([]StudentResult, 0, len(rows))
	for _, e := range rows {
		out = append(out, StudentResult{
			StudentID:      e.UserID,
			StudentName:    e.User.Name,
			StudentEmail:   e.User.Email,
			CourseID:       e.CourseID,
			CourseTitle:    e.Course.Title,
			CourseCategory: e.Course.Category,
			Instructor:     e.Course.Instructor,
			Duration:       e.Course.Duration,
			Progress:       int(math.Round(e.Progress)),
			EnrollmentDate: e.CreatedAt,
			LastUpdate:     e.UpdatedAt,
		})
	}
	return out, nil
}
