package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/logger"
)

const maxUpstreamBody = 1 << 20

// ProcessorClient forwards a resume to the external analysis workflow. A
// successful call means the workflow has written its results onto the user
// record; the response body carries nothing we rely on.
type ProcessorClient interface {
	Configured() bool
	Analyze(ctx context.Context, email, filename string, content []byte) error
}

type processorClient struct {
	url        string
	httpClient *http.Client
	log        *zap.Logger
}

func NewProcessorClient(url string, timeout time.Duration, log *zap.Logger) ProcessorClient {
	return &processorClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Configured implements ProcessorClient.
func (c *processorClient) Configured() bool {
	return strings.TrimSpace(c.url) != ""
}

// Analyze implements ProcessorClient. The call is made once; callers decide
// whether to retry.
func (c *processorClient) Analyze(ctx context.Context, email, filename string, content []byte) error {
	if !c.Configured() {
		return fmt.Errorf("processor url: %w", ErrNotConfigured)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("email", email); err != nil {
		return fmt.Errorf("failed to write email field: %w", err)
	}
	if err := writer.WriteField("filename", filename); err != nil {
		return fmt.Errorf("failed to write filename field: %w", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("failed to write file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return fmt.Errorf("failed to build processor request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	respBody, err := callUpstream(c.httpClient, "processor", req)
	if err != nil {
		return err
	}

	c.log.Debug("processor responded",
		zap.String("email", email),
		logger.Body("body", respBody, 200),
	)

	return nil
}

// callUpstream executes req and turns transport failures and non-2xx
// responses into *UpstreamError.
func callUpstream(client *http.Client, service string, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, &UpstreamError{
			Service: service,
			Timeout: isTimeout(err),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, &UpstreamError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Timeout:    isTimeout(err),
			Err:        fmt.Errorf("failed to read response: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
