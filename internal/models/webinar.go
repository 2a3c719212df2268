package models

import (
	"time"

	"gorm.io/datatypes"
)

// Webinar (Вебинар)
type Webinar struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Title           string                      `json:"title"`
	Description     string                      `json:"description"`
	FullDescription string                      `json:"full_description"`
	Instructor      string                      `json:"instructor"`
	InstructorBio   string                      `json:"instructor_bio"`
	Date            time.Time                   `gorm:"index" json:"date"`
	Duration        string                      `json:"duration"`
	Participants    int                         `gorm:"not null;default:0" json:"participants"`
	IsLive          bool                        `json:"is_live"`
	Topics          datatypes.JSONSlice[string] `json:"topics"`
	Category        string                      `json:"category"`
}
