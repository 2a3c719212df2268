package models

import (
	"time"

	"gorm.io/gorm"
)

// Course (Курс)
type Course struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title           string  `json:"title"`
	Description     string  `json:"description"`
	FullDescription string  `json:"full_description"`
	Instructor      string  `json:"instructor"` // свободный текст, не внешний ключ
	Duration        string  `json:"duration"`
	Category        string  `gorm:"index" json:"category"`
	Price           float64 `json:"price"`
	Image           string  `json:"image"`

	// Агрегаты. Students поддерживается инкрементом/декрементом в транзакции записи,
	// Rating пересчитывается как среднее по отзывам.
	Students int     `gorm:"not null;default:0" json:"students"`
	Rating   float64 `gorm:"not null;default:0" json:"rating"`

	Lessons []Lesson       `json:"lessons,omitempty"`
	Reviews []CourseReview `json:"reviews,omitempty"`
}

// Lesson (Урок)
type Lesson struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	CourseID uint    `gorm:"index;not null" json:"course_id"`
	Title    string  `json:"title"`
	Duration string  `json:"duration"`
	Content  *string `json:"content,omitempty"`
	Order    int     `gorm:"not null" json:"order"`
}
