package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("medical details not found")
)

// MedicalProfile is the latest intake form a user submitted. Each submission replaces it.
type MedicalProfile struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	UserID            string    `json:"user_id" gorm:"uniqueIndex;not null"`
	Email             string    `json:"email" gorm:"index;not null"`
	Age               int       `json:"age" gorm:"not null"`
	Gender            string    `json:"gender" gorm:"size:16;not null"`
	MedicalConditions string    `json:"medical_conditions" gorm:"type:text"`
	Allergies         string    `json:"allergies" gorm:"type:text"`
	Medications       string    `json:"medications" gorm:"type:text"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (MedicalProfile) TableName() string {
	return "medical_profiles"
}
