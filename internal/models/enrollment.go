package models

import "time"

// Enrollment (Запись на курс). Progress — кэш, пересчитываемый из LessonCompletion.
// Удаляется физически, чтобы после отписки можно было записаться снова.
type Enrollment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID   uint    `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
	CourseID uint    `gorm:"not null;uniqueIndex:idx_enrollment_user_course;index" json:"course_id"`
	Progress float64 `gorm:"not null;default:0" json:"progress"`

	User        User         `json:"-" gorm:"foreignKey:UserID"`
	Course      Course       `json:"-" gorm:"foreignKey:CourseID"`
	Certificate *Certificate `json:"certificate,omitempty" gorm:"foreignKey:EnrollmentID;constraint:OnDelete:SET NULL;"`
}

// LessonCompletion — сам факт существования строки означает, что урок пройден.
type LessonCompletion struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	EnrollmentID uint      `gorm:"not null;uniqueIndex:idx_completion_enrollment_lesson" json:"enrollment_id"`
	LessonID     uint      `gorm:"not null;uniqueIndex:idx_completion_enrollment_lesson;index" json:"lesson_id"`
	CompletedAt  time.Time `gorm:"autoCreateTime" json:"completed_at"`
}

// Certificate (Сертификат). EnrollmentID обнуляется при отписке: сертификат остаётся
// подтверждением прохождения курса.
type Certificate struct {
	ID                uint      `gorm:"primarykey" json:"-"`
	PublicID          string    `gorm:"uniqueIndex;size:36;not null" json:"id"`
	EnrollmentID      *uint     `gorm:"uniqueIndex" json:"-"`
	UserID            uint      `gorm:"index;not null" json:"user_id"`
	CourseID          uint      `gorm:"index;not null" json:"course_id"`
	CertificateNumber string    `gorm:"uniqueIndex;size:64;not null" json:"certificate_number"`
	IssuedAt          time.Time `gorm:"not null" json:"issued_at"`

	User   User   `json:"-" gorm:"foreignKey:UserID"`
	Course Course `json:"-" gorm:"foreignKey:CourseID"`
}
