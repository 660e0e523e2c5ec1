package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/repositories"
)

type ProfileService interface {
	GetProfile(ctx context.Context, email string) (*models.UserView, error)
	RegisterUser(ctx context.Context, email, fullName, pwd string) (*models.UserView, error)
	Authenticate(ctx context.Context, email, pwd string) (*models.UserView, error)
	UpdateFullName(ctx context.Context, email, fullName string) error
	UpdateResumeText(ctx context.Context, email string, resume *string) error
	GetFilters(ctx context.Context, email string) (models.Filters, error)
	SetFilters(ctx context.Context, email string, filters models.Filters) error
}

type profileService struct {
	userRepo repositories.UserRepository
	log      *zap.Logger
}

func NewProfileService(userRepo repositories.UserRepository, log *zap.Logger) ProfileService {
	return &profileService{
		userRepo: userRepo,
		log:      log,
	}
}

// findUser maps an absent record to ErrNotFound.
func (s *profileService) findUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, notFoundOr(email, err, "find user")
	}

	return user, nil
}

func notFoundOr(email string, err error, action string) error {
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// GetProfile implements ProfileService.
func (s *profileService) GetProfile(ctx context.Context, email string) (*models.UserView, error) {
	user, err := s.findUser(ctx, email)
	if err != nil {
		return nil, err
	}

	view := user.View()
	return &view, nil
}

// RegisterUser implements ProfileService.
func (s *profileService) RegisterUser(ctx context.Context, email, fullName, pwd string) (*models.UserView, error) {
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("user %s: %w", email, ErrAlreadyExists)
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user := &models.User{
		Email:    email,
		FullName: &fullName,
		Pwd:      pwd,
		Filters:  datatypes.NewJSONType(models.NormalizeFilters(models.Filters{})),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same email.
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("user %s: %w", email, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user registered", zap.String("email", email))

	view := user.View()
	return &view, nil
}

// absentUserPwd is compared against when the email is unknown so both
// failure paths do the same work.
const absentUserPwd = "absent-user-credential"

// Authenticate implements ProfileService. Unknown email and wrong password
// yield the same error.
func (s *profileService) Authenticate(ctx context.Context, email, pwd string) (*models.UserView, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		subtle.ConstantTimeCompare([]byte(absentUserPwd), []byte(pwd))
		return nil, ErrInvalidCredentials
	}

	if subtle.ConstantTimeCompare([]byte(user.Pwd), []byte(pwd)) != 1 {
		return nil, ErrInvalidCredentials
	}

	view := user.View()
	return &view, nil
}

// UpdateFullName implements ProfileService.
func (s *profileService) UpdateFullName(ctx context.Context, email, fullName string) error {
	if err := s.userRepo.UpdateFullName(ctx, email, fullName); err != nil {
		return notFoundOr(email, err, "update full name")
	}
	return nil
}

// UpdateResumeText implements ProfileService. A nil resume clears the field.
func (s *profileService) UpdateResumeText(ctx context.Context, email string, resume *string) error {
	if err := s.userRepo.UpdateResume(ctx, email, resume); err != nil {
		return notFoundOr(email, err, "update resume")
	}
	return nil
}

// GetFilters implements ProfileService.
func (s *profileService) GetFilters(ctx context.Context, email string) (models.Filters, error) {
	user, err := s.findUser(ctx, email)
	if err != nil {
		return models.Filters{}, err
	}

	return user.NormalizedFilters(), nil
}

// SetFilters implements ProfileService. The stored filters are replaced wholesale.
func (s *profileService) SetFilters(ctx context.Context, email string, filters models.Filters) error {
	if err := s.userRepo.UpdateFilters(ctx, email, models.NormalizeFilters(filters)); err != nil {
		return notFoundOr(email, err, "update filters")
	}
	return nil
}
