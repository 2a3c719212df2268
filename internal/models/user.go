package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string  `json:"name"`
	Email        string  `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string  `json:"-"`
	GoogleID     *string `gorm:"uniqueIndex;size:64" json:"-"`
	Avatar       string  `json:"avatar"`
	Role         Role    `gorm:"size:16;default:STUDENT" json:"role"`

	Interests        datatypes.JSONSlice[string] `json:"interests"`
	HasCompletedTest bool                        `json:"has_completed_test"`
}
