package learning

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/s/onlineLearning/internal/apperr"
	"github.com/s/onlineLearning/internal/models"
)

type LessonInput struct {
	Title    string  `json:"title"`
	Duration string  `json:"duration"`
	Content  *string `json:"content"`
}

type CourseInput struct {
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	FullDescription string        `json:"full_description"`
	Instructor      string        `json:"instructor"`
	Duration        string        `json:"duration"`
	Category        string        `json:"category"`
	Price           float64       `json:"price"`
	Image           string        `json:"image"`
	Lessons         []LessonInput `json:"lessons"`
}

type WebinarInput struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	FullDescription string    `json:"full_description"`
	Instructor      string    `json:"instructor"`
	InstructorBio   string    `json:"instructor_bio"`
	Date            time.Time `json:"date"`
	Duration        string    `json:"duration"`
	IsLive          bool      `json:"is_live"`
	Topics          []string  `json:"topics"`
	Category        string    `json:"category"`
}

func (in *CourseInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return apperr.Invalid("Название курса обязательно")
	}
	if in.Price < 0 {
		return apperr.Invalid("Цена не может быть отрицательной")
	}
	for i := range in.Lessons {
		if err := in.Lessons[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

func (in *LessonInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Duration = strings.TrimSpace(in.Duration)
	if in.Title == "" || in.Duration == "" {
		return apperr.Invalid("Название и длительность урока обязательны")
	}
	return nil
}

// ListCourses — каталог, category фильтрует по категории (пусто — все)
func (s *Service) ListCourses(ctx context.Context, category string) ([]models.Course, error) {
	q := s.db.WithContext(ctx).Preload("Lessons", orderedLessons).Order("created_at DESC")
	if category = strings.TrimSpace(category); category != "" {
		q = q.Where("category = ?", category)
	}
	var courses []models.Course
	if err := q.Find(&courses).Error; err != nil {
		return nil, internal(err)
	}
	return courses, nil
}

func (s *Service) GetCourse(ctx context.Context, id uint) (*CourseDetail, error) {
	var c models.Course
	err := s.db.WithContext(ctx).Preload("Lessons", orderedLessons).First(&c, id).Error
	if err != nil {
		return nil, notFoundOr(err, "Курс не найден")
	}
	reviews, err := s.ListReviews(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CourseDetail{Course: c, Reviews: reviews}, nil
}

// CreateCourse создаёт курс вместе с уроками; порядок уроков — по позиции во входе, с 1.
func (s *Service) CreateCourse(ctx context.Context, in CourseInput) (*models.Course, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c := models.Course{
		Title:           in.Title,
		Description:     in.Description,
		FullDescription: in.FullDescription,
		Instructor:      in.Instructor,
		Duration:        in.Duration,
		Category:        in.Category,
		Price:           in.Price,
		Image:           in.Image,
	}
	for i, l := range in.Lessons {
		c.Lessons = append(c.Lessons, models.Lesson{Title: l.Title, Duration: l.Duration, Content: l.Content, Order: i + 1})
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, internal(err)
	}
	s.log.Info("course created", zap.Uint("course_id", c.ID), zap.Int("lessons", len(c.Lessons)))
	return &c, nil
}

// UpdateCourse меняет поля курса; уроки правятся отдельными методами.
func (s *Service) UpdateCourse(ctx context.Context, id uint, in CourseInput) (*models.Course, error) {
	in.Lessons = nil
	if err := in.validate(); err != nil {
		return nil, err
	}
	var c models.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&c, id).Error; err != nil {
			return notFoundOr(err, "Курс не найден")
		}
		err := tx.Model(&c).Select("title", "description", "full_description", "instructor", "duration", "category", "price", "image").
			Updates(models.Course{
				Title:           in.Title,
				Description:     in.Description,
				FullDescription: in.FullDescription,
				Instructor:      in.Instructor,
				Duration:        in.Duration,
				Category:        in.Category,
				Price:           in.Price,
				Image:           in.Image,
			}).Error
		if err != nil {
			return internal(err)
		}
		return tx.Preload("Lessons", orderedLessons).First(&c, id).Error
	})
	if err != nil {
		return nil, internal(err)
	}
	return &c, nil
}

// DeleteCourse — мягкое удаление: записи и сертификаты на курс остаются
func (s *Service) DeleteCourse(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Course{}, id)
	if res.Error != nil {
		return internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Курс не найден")
	}
	s.log.Info("course deleted", zap.Uint("course_id", id))
	return nil
}

// AddLessons дописывает уроки в конец курса: order = max + 1, +2, ...
func (s *Service) AddLessons(ctx context.Context, courseID uint, in []LessonInput) ([]models.Lesson, error) {
	if len(in) == 0 {
		return nil, apperr.Invalid("Нужен хотя бы один урок")
	}
	for i := range in {
		if err := in[i].validate(); err != nil {
			return nil, err
		}
	}

	var created []models.Lesson
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&course, courseID).Error; err != nil {
			return notFoundOr(err, "Курс не найден")
		}
		var maxOrder int
		err := tx.Model(&models.Lesson{}).
			Select("COALESCE(MAX(?), 0)", clause.Column{Name: "order"}).
			Where("course_id = ?", courseID).
			Row().Scan(&maxOrder)
		if err != nil {
			return internal(err)
		}
		for i, l := range in {
			created = append(created, models.Lesson{
				CourseID: courseID,
				Title:    l.Title,
				Duration: l.Duration,
				Content:  l.Content,
				Order:    maxOrder + i + 1,
			})
		}
		return internal(tx.Create(&created).Error)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) GetLesson(ctx context.Context, courseID, lessonID uint) (*models.Lesson, error) {
	var l models.Lesson
	err := s.db.WithContext(ctx).Where("id = ? AND course_id = ?", lessonID, courseID).First(&l).Error
	if err != nil {
		return nil, notFoundOr(err, "Урок не найден")
	}
	return &l, nil
}

func (s *Service) UpdateLesson(ctx context.Context, courseID, lessonID uint, in LessonInput) (*models.Lesson, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	l, err := s.GetLesson(ctx, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(l).Select("title", "duration", "content").
		Updates(models.Lesson{Title: in.Title, Duration: in.Duration, Content: in.Content}).Error
	if err != nil {
		return nil, internal(err)
	}
	l.Title, l.Duration, l.Content = in.Title, in.Duration, in.Content
	return l, nil
}

// DeleteLesson удаляет урок и все отметки о его прохождении
func (s *Service) DeleteLesson(ctx context.Context, courseID, lessonID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l models.Lesson
		if err := tx.Where("id = ? AND course_id = ?", lessonID, courseID).First(&l).Error; err != nil {
			return notFoundOr(err, "Урок не найден")
		}
		if err := tx.Where("lesson_id = ?", l.ID).Delete(&models.LessonCompletion{}).Error; err != nil {
			return internal(err)
		}
		return internal(tx.Delete(&l).Error)
	})
}

func (s *Service) ListWebinars(ctx context.Context) ([]models.Webinar, error) {
	var ws []models.Webinar
	if err := s.db.WithContext(ctx).Order("date DESC").Find(&ws).Error; err != nil {
		return nil, internal(err)
	}
	return ws, nil
}

func (s *Service) CreateWebinar(ctx context.Context, in WebinarInput) (*models.Webinar, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperr.Invalid("Название вебинара обязательно")
	}
	if in.Date.IsZero() {
		return nil, apperr.Invalid("Дата вебинара обязательна")
	}
	w := models.Webinar{
		Title:           in.Title,
		Description:     in.Description,
		FullDescription: in.FullDescription,
		Instructor:      in.Instructor,
		InstructorBio:   in.InstructorBio,
		Date:            in.Date,
		Duration:        in.Duration,
		IsLive:          in.IsLive,
		Topics:          in.Topics,
		Category:        in.Category,
	}
	if err := s.db.WithContext(ctx).Create(&w).Error; err != nil {
		return nil, internal(err)
	}
	return &w, nil
}
