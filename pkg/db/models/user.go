package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity. Walk-in registrants are
// created by email alone and carry no password hash.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash *string    `gorm:"column:password_hash"`
	FullName     string     `gorm:"column:full_name;not null;default:''"`
	Phone        *string    `gorm:"column:phone"`
	College      *string    `gorm:"column:college"`
	Department   *string    `gorm:"column:department"`
	YearOfStudy  *string    `gorm:"column:year_of_study"`
	IsAdmin      bool       `gorm:"column:is_admin;not null;default:false"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
