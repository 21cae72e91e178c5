package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
)

// UserDTO is the public shape of a user returned by the API.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Phone       *string    `json:"phone,omitempty"`
	College     *string    `json:"college,omitempty"`
	Department  *string    `json:"department,omitempty"`
	YearOfStudy *string    `json:"year_of_study,omitempty"`
	IsAdmin     bool       `json:"is_admin"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// FromModel maps a user model into its DTO form.
func FromModel(user *models.User) UserDTO {
	if user == nil {
		return UserDTO{}
	}
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Phone:       user.Phone,
		College:     user.College,
		Department:  user.Department,
		YearOfStudy: user.YearOfStudy,
		IsAdmin:     user.IsAdmin,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
