package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/services"
)

type UploadHandler struct {
	enrichment  services.EnrichmentService
	maxFileSize int64
	log         *zap.Logger
}

func NewUploadHandler(
	enrichment services.EnrichmentService,
	maxFileSize int64,
	log *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		enrichment:  enrichment,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

// HandleUploadAnalyze handles POST /users/:email/resume/upload-analyze
func (h *UploadHandler) HandleUploadAnalyze(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return respondError(c, h.log, fmt.Errorf("multipart field 'file' is required: %w", services.ErrValidation))
	}

	if file.Size > h.maxFileSize {
		return respondError(c, h.log, fmt.Errorf("file too large, max size: %d bytes: %w", h.maxFileSize, services.ErrValidation))
	}

	src, err := file.Open()
	if err != nil {
		return respondError(c, h.log, fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, h.maxFileSize+1))
	if err != nil {
		return respondError(c, h.log, fmt.Errorf("failed to read uploaded file: %w", err))
	}

	result, err := h.enrichment.UploadAndAnalyze(c.UserContext(), email, file.Filename, content)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(result)
}
