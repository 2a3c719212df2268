package models

import "time"

// CourseReview - Отзыв к курсу, не больше одного от пользователя на курс
type CourseReview struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CourseID uint   `gorm:"not null;uniqueIndex:idx_review_course_user" json:"course_id"`
	UserID   uint   `gorm:"not null;uniqueIndex:idx_review_course_user" json:"user_id"`
	Rating   int    `gorm:"not null" json:"rating"` // 1-5
	Text     string `json:"text"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// FavoriteCourse / FavoriteWebinar - наличие строки означает "в избранном"
type FavoriteCourse struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_fav_course_user" json:"user_id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_fav_course_user" json:"course_id"`
}

type FavoriteWebinar struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_fav_webinar_user" json:"user_id"`
	WebinarID uint      `gorm:"not null;uniqueIndex:idx_fav_webinar_user" json:"webinar_id"`
}
