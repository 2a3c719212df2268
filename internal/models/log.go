package models

import (
	"time"
)

// Действия, которые пишутся в журнал активности
const (
	ActionEnroll            = "enroll"
	ActionUnenroll          = "unenroll"
	ActionLessonComplete    = "lesson_complete"
	ActionCertificateIssued = "certificate_issued"
	ActionReview            = "review"
)

// ActivityLog хранит историю действий пользователя
type ActivityLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Action    string    `gorm:"size:32" json:"action"`
	Details   string    `json:"details"` // Например: "course=3 lesson=12"
	CreatedAt time.Time `json:"created_at"`
}
