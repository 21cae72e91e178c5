package models

import (
	"time"

	"github.com/google/uuid"
)

// Registration ties a user to an event. Exactly one row may exist per
// (user, event) pair; the row is never deleted, only its IsActive flag
// changes. IsActive starts true and is re-asserted on payment approval so a
// rejected or abandoned payment can be told apart from a confirmed one
// without losing history.
type Registration struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:registrations_user_event_key"`
	EventID      uuid.UUID `gorm:"column:event_id;type:uuid;not null;uniqueIndex:registrations_user_event_key"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	RegisteredAt time.Time `gorm:"column:registered_at;autoCreateTime"`
}
