package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/job-matcher/internal/models"
)

type JobSourceRepository interface {
	Create(ctx context.Context, source *models.JobSource) error
	FindAll(ctx context.Context) ([]models.JobSource, error)
	FindByUser(ctx context.Context, email string) ([]models.JobSource, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ActiveOwners(ctx context.Context) ([]string, error)
	MarkSynced(ctx context.Context, email, syncedAt string) (int64, error)
}

type jobSourceRepository struct {
	sources *Collection[models.JobSource]
}

func NewJobSourceRepository(db *gorm.DB, table string) JobSourceRepository {
	return &jobSourceRepository{sources: NewCollection[models.JobSource](db, table, "id")}
}

const jobSourceOrder = "created_at ASC, id ASC"

// Create implements JobSourceRepository. The id is assigned here when unset.
func (r *jobSourceRepository) Create(ctx context.Context, source *models.JobSource) error {
	if source.ID == uuid.Nil {
		source.ID = uuid.New()
	}
	return r.sources.Insert(ctx, source)
}

// FindAll implements JobSourceRepository.
func (r *jobSourceRepository) FindAll(ctx context.Context) ([]models.JobSource, error) {
	return r.sources.Find(ctx, Query{Order: jobSourceOrder})
}

// FindByUser implements JobSourceRepository.
func (r *jobSourceRepository) FindByUser(ctx context.Context, email string) ([]models.JobSource, error) {
	return r.sources.Find(ctx, Query{
		Where: "user_id = ?",
		Args:  []interface{}{email},
		Order: jobSourceOrder,
	})
}

// Delete implements JobSourceRepository.
func (r *jobSourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.sources.DeleteByKey(ctx, id)
}

// ActiveOwners implements JobSourceRepository.
func (r *jobSourceRepository) ActiveOwners(ctx context.Context) ([]string, error) {
	return r.sources.Distinct(ctx, "user_id", Query{
		Where: "enabled = ?",
		Args:  []interface{}{true},
	})
}

// MarkSynced implements JobSourceRepository.
func (r *jobSourceRepository) MarkSynced(ctx context.Context, email, syncedAt string) (int64, error) {
	return r.sources.UpdateWhere(ctx, Query{
		Where: "user_id = ? AND enabled = ?",
		Args:  []interface{}{email, true},
	}, map[string]interface{}{"last_sync": syncedAt})
}
