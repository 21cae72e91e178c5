package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aiverse-events/aiverse-backend/pkg/enums"
)

// Payment tracks one fee-payment attempt. Proof of payment is verified by a
// human; ScreenshotURL points at externally stored evidence. AutoCreated
// marks rows the workflow coordinator generated at registration time; a
// partial unique index on (user_id, event_id) where auto_created backstops
// the coordinator's check-then-create step.
type Payment struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	EventID       *uuid.UUID          `gorm:"column:event_id;type:uuid"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(10,2);not null"`
	TransactionID string              `gorm:"column:transaction_id;not null;default:''"`
	ScreenshotURL *string             `gorm:"column:screenshot_url"`
	Status        enums.PaymentStatus `gorm:"type:text;not null;default:'pending'"`
	Notes         string              `gorm:"type:text;not null;default:''"`
	AutoCreated   bool                `gorm:"column:auto_created;not null;default:false"`
	SubmittedAt   time.Time           `gorm:"column:submitted_at;autoCreateTime"`
	ProcessedAt   *time.Time          `gorm:"column:processed_at"`
	ProcessedBy   *uuid.UUID          `gorm:"column:processed_by;type:uuid"`
}
