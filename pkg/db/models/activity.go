package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aiverse-events/aiverse-backend/pkg/enums"
)

// Activity records an immutable user-visible action. Rows are only ever
// appended; nothing in the system updates or deletes them.
type Activity struct {
	ID        uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID          `gorm:"column:user_id;type:uuid;not null"`
	Action    string             `gorm:"type:text;not null"`
	Type      enums.ActivityType `gorm:"type:text;not null;default:'other'"`
	Timestamp time.Time          `gorm:"column:timestamp;autoCreateTime"`
}

// TableName keeps the plural irregular.
func (Activity) TableName() string { return "activities" }
