package activity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
	"github.com/aiverse-events/aiverse-backend/pkg/enums"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service defines operations that record and read the activity trail.
type Service interface {
	Record(ctx context.Context, tx *gorm.DB, input RecordInput) (*models.Activity, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Activity, error)
	ListRecent(ctx context.Context, limit int) ([]models.Activity, error)
}

type service struct {
	repo Repository
}

// RecordInput captures the immutable data an activity record requires.
type RecordInput struct {
	UserID uuid.UUID          `json:"user_id"`
	Action string             `json:"action"`
	Type   enums.ActivityType `json:"type"`
}

// NewService wires an activity service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("activity repository required")
	}
	return &service{repo: repo}, nil
}

// Record appends one activity row. When tx is non-nil the write joins the
// caller's transaction so the record commits or rolls back with the
// operation it describes.
func (s *service) Record(ctx context.Context, tx *gorm.DB, input RecordInput) (*models.Activity, error) {
	if input.UserID == uuid.Nil {
		return nil, fmt.Errorf("user id is required")
	}
	action := strings.TrimSpace(input.Action)
	if action == "" {
		return nil, fmt.Errorf("action is required")
	}

	activityType := input.Type
	if !activityType.IsValid() {
		activityType = enums.ActivityTypeOther
	}

	record := &models.Activity{
		UserID: input.UserID,
		Action: action,
		Type:   activityType,
	}
	if err := s.repo.WithTx(tx).Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Activity, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id is required")
	}
	return s.repo.ListByUserID(ctx, userID, clampLimit(limit))
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]models.Activity, error) {
	return s.repo.ListRecent(ctx, clampLimit(limit))
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
