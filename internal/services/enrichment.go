package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/repositories"
)

type EnrichmentStage string

const (
	StageValidated  EnrichmentStage = "validated"
	StageForwarded  EnrichmentStage = "forwarded"
	StageReconciled EnrichmentStage = "reconciled"
	StageFailed     EnrichmentStage = "failed"
)

// EnrichmentService runs the upload-analyze flow: the document goes to the
// external processor, which writes filters and resume onto the user record,
// and the result is read back from the store.
type EnrichmentService interface {
	UploadAndAnalyze(ctx context.Context, email, filename string, content []byte) (*models.ResumeExtracted, error)
}

type enrichmentService struct {
	processor ProcessorClient
	inspector PDFInspector
	userRepo  repositories.UserRepository
	events    Publisher
	log       *zap.Logger
}

func NewEnrichmentService(
	processor ProcessorClient,
	inspector PDFInspector,
	userRepo repositories.UserRepository,
	events Publisher,
	log *zap.Logger,
) EnrichmentService {
	return &enrichmentService{
		processor: processor,
		inspector: inspector,
		userRepo:  userRepo,
		events:    events,
		log:       log,
	}
}

// UploadAndAnalyze implements EnrichmentService.
func (s *enrichmentService) UploadAndAnalyze(ctx context.Context, email, filename string, content []byte) (*models.ResumeExtracted, error) {
	log := s.log.With(zap.String("email", email), zap.String("filename", filename))

	if !s.processor.Configured() {
		return nil, s.fail(log, fmt.Errorf("processor url: %w", ErrNotConfigured))
	}

	if err := s.inspector.CheckFilename(filename); err != nil {
		return nil, s.fail(log, err)
	}

	info := s.inspector.Inspect(content)
	if !info.HasHeader {
		log.Warn("uploaded resume has no PDF header, forwarding anyway")
	}

	log.Info("resume enrichment stage",
		zap.String("stage", string(StageValidated)),
		zap.Int("size", info.Size),
		zap.Int("pages", info.PageCount),
		zap.Bool("readable", info.Readable),
		zap.Bool("has_text", info.HasText),
	)

	if err := s.processor.Analyze(ctx, email, filename, content); err != nil {
		return nil, s.fail(log, fmt.Errorf("failed to analyze resume: %w", err))
	}

	log.Info("resume enrichment stage", zap.String("stage", string(StageForwarded)))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, s.fail(log, fmt.Errorf("user %s: %w", email, ErrNotFoundAfterProcessing))
		}
		return nil, s.fail(log, fmt.Errorf("failed to read back user: %w", err))
	}

	result := &models.ResumeExtracted{
		Filters: user.NormalizedFilters(),
		Resume:  user.Resume,
	}

	log.Info("resume enrichment stage",
		zap.String("stage", string(StageReconciled)),
		zap.Bool("has_resume", result.Resume != nil),
	)
	publishEvent(ctx, s.events, s.log, Event{
		Type:  EventResumeAnalyzed,
		Email: email,
		Payload: map[string]interface{}{
			"filename": filename,
			"pages":    info.PageCount,
		},
	})

	return result, nil
}

func (s *enrichmentService) fail(log *zap.Logger, err error) error {
	log.Warn("resume enrichment stage",
		zap.String("stage", string(StageFailed)),
		zap.Error(err),
	)
	return err
}
