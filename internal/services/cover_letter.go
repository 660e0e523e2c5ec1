package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/repositories"
)

// CoverLetterGenerator produces letter text. Implementations never touch the store.
type CoverLetterGenerator interface {
	Generate(ctx context.Context, req models.CoverLetterRequest) (string, error)
}

type webhookGenerator struct {
	url        string
	httpClient *http.Client
}

func NewWebhookGenerator(url string, timeout time.Duration) CoverLetterGenerator {
	return &webhookGenerator{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// coverLetterKeys are the fields a workflow may put the letter under, in
// order of preference.
var coverLetterKeys = []string{"coverLetter", "cover_letter", "text", "output"}

// Generate implements CoverLetterGenerator.
func (g *webhookGenerator) Generate(ctx context.Context, req models.CoverLetterRequest) (string, error) {
	if strings.TrimSpace(g.url) == "" {
		return "", fmt.Errorf("cover letter url: %w", ErrNotConfigured)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode cover letter request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build cover letter request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	body, err := callUpstream(g.httpClient, "cover letter generator", httpReq)
	if err != nil {
		return "", err
	}

	letter := extractCoverLetter(body)
	if letter == "" {
		return "", fmt.Errorf("cover letter generator: %w", ErrGenerationEmpty)
	}

	return letter, nil
}

// extractCoverLetter accepts a JSON object, a one-element JSON array of
// objects, a JSON string, or plain text.
func extractCoverLetter(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	var decoded interface{}
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return string(trimmed)
	}

	switch v := decoded.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]interface{}:
		return letterFromObject(v)
	case []interface{}:
		if len(v) > 0 {
			if obj, ok := v[0].(map[string]interface{}); ok {
				return letterFromObject(obj)
			}
		}
	}

	return ""
}

func letterFromObject(obj map[string]interface{}) string {
	for _, key := range coverLetterKeys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

type geminiGenerator struct {
	gemini  GeminiService
	prompts *PromptBuilder
}

func NewGeminiGenerator(gemini GeminiService, prompts *PromptBuilder) CoverLetterGenerator {
	return &geminiGenerator{gemini: gemini, prompts: prompts}
}

// Generate implements CoverLetterGenerator.
func (g *geminiGenerator) Generate(ctx context.Context, req models.CoverLetterRequest) (string, error) {
	prompt := g.prompts.BuildCoverLetterPrompt(req.JobDescription, req.Resume)
	return g.gemini.GenerateText(ctx, prompt, 0.7)
}

type unconfiguredGenerator struct {
	reason string
}

// NewUnconfiguredGenerator stands in when the selected provider lacks its
// settings; every call fails with ErrNotConfigured.
func NewUnconfiguredGenerator(reason string) CoverLetterGenerator {
	return &unconfiguredGenerator{reason: reason}
}

func (g *unconfiguredGenerator) Generate(context.Context, models.CoverLetterRequest) (string, error) {
	return "", fmt.Errorf("%s: %w", g.reason, ErrNotConfigured)
}

type CoverLetterService interface {
	GenerateCoverLetter(ctx context.Context, req models.CoverLetterRequest) (string, error)
}

type coverLetterService struct {
	generator CoverLetterGenerator
	offerRepo repositories.JobOfferRepository
	userRepo  repositories.UserRepository
	events    Publisher
	log       *zap.Logger
}

func NewCoverLetterService(
	generator CoverLetterGenerator,
	offerRepo repositories.JobOfferRepository,
	userRepo repositories.UserRepository,
	events Publisher,
	log *zap.Logger,
) CoverLetterService {
	return &coverLetterService{
		generator: generator,
		offerRepo: offerRepo,
		userRepo:  userRepo,
		events:    events,
		log:       log,
	}
}

// GenerateCoverLetter implements CoverLetterService. A resolved offer gets
// the letter stored on it; otherwise the letter is only returned.
func (s *coverLetterService) GenerateCoverLetter(ctx context.Context, req models.CoverLetterRequest) (string, error) {
	offer, err := s.resolveOffer(ctx, req)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(req.Resume) == "" && offer != nil {
		req.Resume = s.storedResume(ctx, offer.UserID)
	}

	letter, err := s.generator.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to generate cover letter: %w", err)
	}

	if offer == nil {
		s.log.Info("cover letter generated without a stored job offer", zap.String("id", req.ID))
		return letter, nil
	}

	if err := s.offerRepo.UpdateCoverLetter(ctx, offer.UserID, offer.ID, letter); err != nil {
		if !errors.Is(err, repositories.ErrRecordNotFound) {
			return "", fmt.Errorf("failed to store cover letter: %w", err)
		}
		s.log.Warn("job offer removed before cover letter was stored", zap.String("id", offer.ID))
		return letter, nil
	}

	s.log.Info("cover letter generated", zap.String("id", offer.ID), zap.String("user_id", offer.UserID))
	publishEvent(ctx, s.events, s.log, Event{
		Type:    EventCoverLetterGenerated,
		Email:   offer.UserID,
		Payload: map[string]interface{}{"id": offer.ID},
	})

	return letter, nil
}

// resolveOffer finds the offer a letter belongs to. Without an owner in the
// request the posting id must be held by exactly one user.
func (s *coverLetterService) resolveOffer(ctx context.Context, req models.CoverLetterRequest) (*models.JobOffer, error) {
	if req.UserID != "" {
		offer, err := s.offerRepo.FindOwned(ctx, req.UserID, req.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to find job offer: %w", err)
		}
		return offer, nil
	}

	copies, err := s.offerRepo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find job offer: %w", err)
	}
	switch len(copies) {
	case 0:
		return nil, nil
	case 1:
		return &copies[0], nil
	default:
		s.log.Info("job offer held by several users, letter will not be stored",
			zap.String("id", req.ID),
			zap.Int("owners", len(copies)),
		)
		return nil, nil
	}
}

func (s *coverLetterService) storedResume(ctx context.Context, email string) string {
	if email == "" {
		return ""
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrRecordNotFound) {
			s.log.Warn("failed to load stored resume", zap.String("email", email), zap.Error(err))
		}
		return ""
	}
	if user.Resume == nil {
		return ""
	}

	return *user.Resume
}
