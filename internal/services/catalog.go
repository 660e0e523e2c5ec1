package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/repositories"
)

type CatalogService interface {
	ListJobOffers(ctx context.Context, email string) ([]models.JobOffer, error)
	ListJobSources(ctx context.Context, email string) ([]models.JobSource, error)
	ListAllJobSources(ctx context.Context) ([]models.JobSource, error)
	CreateJobSource(ctx context.Context, req models.CreateJobSourceRequest) (*models.JobSource, error)
	DeleteJobSource(ctx context.Context, id string) error
	IngestJobOffers(ctx context.Context, email string, offers []models.JobOffer) (int, error)
	ActiveSourceOwners(ctx context.Context) ([]string, error)
	MarkSourcesSynced(ctx context.Context, email string, at time.Time) error
}

type catalogService struct {
	offerRepo  repositories.JobOfferRepository
	sourceRepo repositories.JobSourceRepository
	events     Publisher
	log        *zap.Logger
}

func NewCatalogService(
	offerRepo repositories.JobOfferRepository,
	sourceRepo repositories.JobSourceRepository,
	events Publisher,
	log *zap.Logger,
) CatalogService {
	return &catalogService{
		offerRepo:  offerRepo,
		sourceRepo: sourceRepo,
		events:     events,
		log:        log,
	}
}

// ListJobOffers implements CatalogService. Records whose score falls outside
// the valid range are skipped rather than served.
func (s *catalogService) ListJobOffers(ctx context.Context, email string) ([]models.JobOffer, error) {
	offers, err := s.offerRepo.FindByUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list job offers: %w", err)
	}

	valid := make([]models.JobOffer, 0, len(offers))
	for _, offer := range offers {
		if !models.ValidMatchScore(offer.MatchScore) {
			s.log.Warn("skipping job offer with out-of-range match score",
				zap.String("id", offer.ID),
				zap.String("user_id", email),
				zap.Int("match_score", offer.MatchScore),
			)
			continue
		}
		offer.Normalize()
		valid = append(valid, offer)
	}

	return valid, nil
}

// ListJobSources implements CatalogService.
func (s *catalogService) ListJobSources(ctx context.Context, email string) ([]models.JobSource, error) {
	sources, err := s.sourceRepo.FindByUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list job sources: %w", err)
	}
	return sources, nil
}

// ListAllJobSources implements CatalogService.
func (s *catalogService) ListAllJobSources(ctx context.Context) ([]models.JobSource, error) {
	sources, err := s.sourceRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list job sources: %w", err)
	}
	return sources, nil
}

// CreateJobSource implements CatalogService.
func (s *catalogService) CreateJobSource(ctx context.Context, req models.CreateJobSourceRequest) (*models.JobSource, error) {
	source := &models.JobSource{
		ID:       uuid.New(),
		Name:     req.Name,
		Type:     req.Type,
		URL:      req.URL,
		Enabled:  req.Enabled,
		LastSync: req.LastSync,
		UserID:   req.UserID,
	}

	if err := s.sourceRepo.Create(ctx, source); err != nil {
		return nil, fmt.Errorf("failed to create job source: %w", err)
	}

	s.log.Info("job source created",
		zap.String("id", source.ID.String()),
		zap.String("user_id", source.UserID),
		zap.String("type", source.Type),
	)
	publishEvent(ctx, s.events, s.log, Event{
		Type:    EventJobSourceCreated,
		Email:   source.UserID,
		Payload: map[string]interface{}{"id": source.ID.String(), "name": source.Name},
	})

	return source, nil
}

// DeleteJobSource implements CatalogService.
func (s *catalogService) DeleteJobSource(ctx context.Context, id string) error {
	sourceID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("job source id %q: %w", id, ErrInvalidID)
	}

	if err := s.sourceRepo.Delete(ctx, sourceID); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return fmt.Errorf("job source %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete job source: %w", err)
	}

	s.log.Info("job source deleted", zap.String("id", sourceID.String()))
	publishEvent(ctx, s.events, s.log, Event{
		Type:    EventJobSourceDeleted,
		Payload: map[string]interface{}{"id": sourceID.String()},
	})

	return nil
}

// IngestJobOffers implements CatalogService. The whole batch is rejected if
// any offer is malformed. A repeated id within one batch keeps its last
// occurrence.
func (s *catalogService) IngestJobOffers(ctx context.Context, email string, offers []models.JobOffer) (int, error) {
	batch := make([]models.JobOffer, 0, len(offers))
	seen := make(map[string]int, len(offers))
	for i, offer := range offers {
		offer.ID = strings.TrimSpace(offer.ID)
		if offer.ID == "" {
			return 0, fmt.Errorf("offer %d has no id: %w", i, ErrValidation)
		}
		if !models.ValidMatchScore(offer.MatchScore) {
			return 0, fmt.Errorf("offer %s score %d: %w", offer.ID, offer.MatchScore, ErrInvalidMatchScore)
		}
		offer.UserID = email
		offer.Normalize()
		if at, ok := seen[offer.ID]; ok {
			batch[at] = offer
			continue
		}
		seen[offer.ID] = len(batch)
		batch = append(batch, offer)
	}

	if err := s.offerRepo.Upsert(ctx, batch); err != nil {
		return 0, fmt.Errorf("failed to ingest job offers: %w", err)
	}

	s.log.Info("job offers ingested", zap.String("user_id", email), zap.Int("count", len(batch)))
	publishEvent(ctx, s.events, s.log, Event{
		Type:    EventJobOffersIngested,
		Email:   email,
		Payload: map[string]interface{}{"count": len(batch)},
	})

	return len(batch), nil
}

// ActiveSourceOwners implements CatalogService.
func (s *catalogService) ActiveSourceOwners(ctx context.Context) ([]string, error) {
	owners, err := s.sourceRepo.ActiveOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list source owners: %w", err)
	}
	return owners, nil
}

// MarkSourcesSynced implements CatalogService.
func (s *catalogService) MarkSourcesSynced(ctx context.Context, email string, at time.Time) error {
	if _, err := s.sourceRepo.MarkSynced(ctx, email, at.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to mark sources synced: %w", err)
	}
	return nil
}
