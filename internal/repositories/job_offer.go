package repositories

import (
	"context"

	"gorm.io/gorm"

	"alfredoptarigan/job-matcher/internal/models"
)

// An external posting id can be ingested for several users, so offers are
// keyed by owner and id together.
var (
	jobOfferKey = []string{"id", "user_id"}

	// Columns owned by the ingestion workflow. cover_letter and created_at
	// survive a re-ingest.
	jobOfferIngestColumns = []string{
		"title", "company", "location", "type", "salary", "description",
		"requirements", "stack", "experience", "posted_date", "source", "url",
		"is_match", "match_score", "ai_summary", "updated_at",
	}
)

type JobOfferRepository interface {
	FindByUser(ctx context.Context, email string) ([]models.JobOffer, error)
	FindOwned(ctx context.Context, email, id string) (*models.JobOffer, error)
	FindByID(ctx context.Context, id string) ([]models.JobOffer, error)
	Upsert(ctx context.Context, offers []models.JobOffer) error
	UpdateCoverLetter(ctx context.Context, email, id, coverLetter string) error
}

type jobOfferRepository struct {
	offers *Collection[models.JobOffer]
}

func NewJobOfferRepository(db *gorm.DB, table string) JobOfferRepository {
	return &jobOfferRepository{offers: NewCollection[models.JobOffer](db, table, "id")}
}

// FindByUser implements JobOfferRepository. Newest postings come first; id
// breaks ties so the order is stable.
func (r *jobOfferRepository) FindByUser(ctx context.Context, email string) ([]models.JobOffer, error) {
	return r.offers.Find(ctx, Query{
		Where: "user_id = ?",
		Args:  []interface{}{email},
		Order: "posted_date DESC, id ASC",
	})
}

// FindOwned implements JobOfferRepository.
func (r *jobOfferRepository) FindOwned(ctx context.Context, email, id string) (*models.JobOffer, error) {
	return r.offers.FindOne(ctx, Query{
		Where: "user_id = ? AND id = ?",
		Args:  []interface{}{email, id},
	})
}

// FindByID implements JobOfferRepository. It returns every owner's copy of
// the posting, ordered by owner.
func (r *jobOfferRepository) FindByID(ctx context.Context, id string) ([]models.JobOffer, error) {
	return r.offers.Find(ctx, Query{
		Where: "id = ?",
		Args:  []interface{}{id},
		Order: "user_id ASC",
	})
}

// Upsert implements JobOfferRepository.
func (r *jobOfferRepository) Upsert(ctx context.Context, offers []models.JobOffer) error {
	return r.offers.Upsert(ctx, offers, jobOfferKey, jobOfferIngestColumns)
}

// UpdateCoverLetter implements JobOfferRepository.
func (r *jobOfferRepository) UpdateCoverLetter(ctx context.Context, email, id, coverLetter string) error {
	affected, err := r.offers.UpdateWhere(ctx, Query{
		Where: "user_id = ? AND id = ?",
		Args:  []interface{}{email, id},
	}, map[string]interface{}{"cover_letter": coverLetter})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
