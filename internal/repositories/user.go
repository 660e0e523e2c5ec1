package repositories

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"alfredoptarigan/job-matcher/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateFullName(ctx context.Context, email, fullName string) error
	UpdateResume(ctx context.Context, email string, resume *string) error
	UpdateFilters(ctx context.Context, email string, filters models.Filters) error
}

type userRepository struct {
	users *Collection[models.User]
}

func NewUserRepository(db *gorm.DB, table string) UserRepository {
	return &userRepository{users: NewCollection[models.User](db, table, "email")}
}

// Create implements UserRepository.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.users.Insert(ctx, user)
}

// FindByEmail implements UserRepository.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.users.Get(ctx, email)
}

// UpdateFullName implements UserRepository.
func (r *userRepository) UpdateFullName(ctx context.Context, email, fullName string) error {
	return r.users.UpdateByKey(ctx, email, map[string]interface{}{"full_name": fullName})
}

// UpdateResume implements UserRepository.
func (r *userRepository) UpdateResume(ctx context.Context, email string, resume *string) error {
	return r.users.UpdateByKey(ctx, email, map[string]interface{}{"resume": resume})
}

// UpdateFilters implements UserRepository.
func (r *userRepository) UpdateFilters(ctx context.Context, email string, filters models.Filters) error {
	return r.users.UpdateByKey(ctx, email, map[string]interface{}{
		"filters": datatypes.NewJSONType(filters),
	})
}
