package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aiverse-events/aiverse-backend/pkg/enums"
)

// Event is an occasion users can register for. The workflow engine only
// reads RegistrationFee and identity; the rest is presentation data.
type Event struct {
	ID               uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title            string            `gorm:"type:text;not null"`
	Slug             string            `gorm:"type:text;not null;uniqueIndex"`
	Description      string            `gorm:"type:text;not null;default:''"`
	ShortDescription string            `gorm:"column:short_description;not null;default:''"`
	Date             time.Time         `gorm:"column:date;not null"`
	EndDate          *time.Time        `gorm:"column:end_date"`
	Venue            string            `gorm:"type:text;not null;default:''"`
	RegistrationFee  decimal.Decimal   `gorm:"column:registration_fee;type:numeric(10,2);not null;default:0"`
	MaxParticipants  *int              `gorm:"column:max_participants"`
	Status           enums.EventStatus `gorm:"type:text;not null;default:'upcoming'"`
	IsFeatured       bool              `gorm:"column:is_featured;not null;default:false"`
	CoverImageURL    *string           `gorm:"column:cover_image_url"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// HasFee reports whether registering for the event requires a payment.
func (e Event) HasFee() bool {
	return e.RegistrationFee.IsPositive()
}
