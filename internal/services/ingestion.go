package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/logger"
)

// JobLoadTrigger asks the ingestion workflow to fetch fresh offers for a
// user. The workflow writes them back through the job offer webhook.
type JobLoadTrigger interface {
	TriggerJobLoad(ctx context.Context, email string) error
}

type jobLoadTrigger struct {
	url        string
	httpClient *http.Client
	events     Publisher
	log        *zap.Logger
}

func NewJobLoadTrigger(url string, timeout time.Duration, events Publisher, log *zap.Logger) JobLoadTrigger {
	return &jobLoadTrigger{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		events:     events,
		log:        log,
	}
}

// TriggerJobLoad implements JobLoadTrigger.
func (t *jobLoadTrigger) TriggerJobLoad(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("user_email is required: %w", ErrValidation)
	}
	if strings.TrimSpace(t.url) == "" {
		return fmt.Errorf("job load trigger url: %w", ErrNotConfigured)
	}

	payload, err := json.Marshal(map[string]string{"user_email": email})
	if err != nil {
		return fmt.Errorf("failed to encode job load request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build job load request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := callUpstream(t.httpClient, "job load workflow", req)
	if err != nil {
		return fmt.Errorf("failed to trigger job load: %w", err)
	}

	t.log.Info("job load triggered",
		zap.String("email", email),
		logger.Body("response", body, 120),
	)
	publishEvent(ctx, t.events, t.log, Event{Type: EventJobLoadTriggered, Email: email})

	return nil
}
