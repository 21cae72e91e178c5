package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aiverse-events/aiverse-backend/internal/activity"
	pkgAuth "github.com/aiverse-events/aiverse-backend/pkg/auth"
	"github.com/aiverse-events/aiverse-backend/pkg/config"
	"github.com/aiverse-events/aiverse-backend/pkg/db"
	"github.com/aiverse-events/aiverse-backend/pkg/db/models"
	"github.com/aiverse-events/aiverse-backend/pkg/enums"
	pkgerrors "github.com/aiverse-events/aiverse-backend/pkg/errors"
	"github.com/aiverse-events/aiverse-backend/pkg/logger"
	"github.com/aiverse-events/aiverse-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines account operations for attendees and admins.
type Service interface {
	Signup(ctx context.Context, input SignupInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetOrCreateByEmail(ctx context.Context, tx *gorm.DB, input ProfileInput) (*models.User, bool, error)
}

type activityRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, input activity.RecordInput) (*models.Activity, error)
}

type service struct {
	repo        Repository
	activities  activityRecorder
	logg        *logger.Logger
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// SignupInput carries the fields for a credentialed account.
type SignupInput struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	FullName    string  `json:"full_name" validate:"required"`
	Phone       *string `json:"phone"`
	College     *string `json:"college"`
	Department  *string `json:"department"`
	YearOfStudy *string `json:"year_of_study"`
}

// ProfileInput carries the walk-in registrant fields. No password; the
// account exists so registrations and payments have an owner.
type ProfileInput struct {
	Email       string  `json:"email" validate:"required,email"`
	FullName    string  `json:"full_name"`
	Phone       *string `json:"phone"`
	College     *string `json:"college"`
	Department  *string `json:"department"`
	YearOfStudy *string `json:"year_of_study"`
}

// LoginInput is the credential pair presented at login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult bundles the minted token with the authenticated user.
type LoginResult struct {
	AccessToken string  `json:"access_token"`
	User        UserDTO `json:"user"`
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo           Repository
	Activities     activityRecorder
	Logger         *logger.Logger
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		repo:        params.Repo,
		activities:  params.Activities,
		logg:        params.Logger,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: &hash,
		FullName:     fullName,
		Phone:        input.Phone,
		College:      input.College,
		Department:   input.Department,
		YearOfStudy:  input.YearOfStudy,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") || db.IsUniqueViolation(err, "email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return user, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user.PasswordHash == nil {
		// walk-in account created from a registration form; no login
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	valid, err := security.VerifyPassword(input.Password, *user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		JTI:     uuid.NewString(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	// trail only; a failed write must not block the login
	if s.activities != nil {
		if _, err := s.activities.Record(ctx, nil, activity.RecordInput{
			UserID: user.ID,
			Action: "Logged in",
			Type:   enums.ActivityTypeLogin,
		}); err != nil {
			s.logg.Error(s.logg.WithUserID(ctx, user.ID.String()), "record login activity", err)
		}
	}

	return &LoginResult{AccessToken: accessToken, User: FromModel(user)}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

// GetOrCreateByEmail finds the account owning the provided email or creates
// a passwordless one. The bool result reports whether a new row was
// inserted. Concurrent creates are serialized by the unique email
// constraint; the loser re-reads the winner's row.
func (s *service) GetOrCreateByEmail(ctx context.Context, tx *gorm.DB, input ProfileInput) (*models.User, bool, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	repo := s.repo.WithTx(tx)

	existing, err := repo.FindByEmail(ctx, email)
	if err == nil {
		if refreshProfile(existing, input) {
			if uerr := repo.Update(ctx, existing); uerr != nil {
				return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, uerr, "refresh user profile")
			}
		}
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	user := &models.User{
		Email:       email,
		FullName:    strings.TrimSpace(input.FullName),
		Phone:       input.Phone,
		College:     input.College,
		Department:  input.Department,
		YearOfStudy: input.YearOfStudy,
	}
	if err := repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") || db.IsUniqueViolation(err, "email") {
			winner, ferr := repo.FindByEmail(ctx, email)
			if ferr != nil {
				return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, ferr, "load user after unique violation")
			}
			return winner, false, nil
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return user, true, nil
}

// refreshProfile copies non-empty fields from a later submission onto an
// existing account. Empty fields never blank out stored data.
func refreshProfile(user *models.User, input ProfileInput) bool {
	changed := false
	if name := strings.TrimSpace(input.FullName); name != "" && name != user.FullName {
		user.FullName = name
		changed = true
	}
	for _, f := range []struct {
		src *string
		dst **string
	}{
		{input.Phone, &user.Phone},
		{input.College, &user.College},
		{input.Department, &user.Department},
		{input.YearOfStudy, &user.YearOfStudy},
	} {
		if f.src != nil && strings.TrimSpace(*f.src) != "" {
			if *f.dst == nil || **f.dst != *f.src {
				*f.dst = f.src
				changed = true
			}
		}
	}
	return changed
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
