package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/services"
)

type CoverLetterHandler struct {
	coverLetters services.CoverLetterService
	validator    *RequestValidator
	log          *zap.Logger
}

func NewCoverLetterHandler(coverLetters services.CoverLetterService, validator *RequestValidator, log *zap.Logger) *CoverLetterHandler {
	return &CoverLetterHandler{
		coverLetters: coverLetters,
		validator:    validator,
		log:          log,
	}
}

// HandleGenerate handles POST /cover-letter/generate
func (h *CoverLetterHandler) HandleGenerate(c *fiber.Ctx) error {
	var req models.CoverLetterRequest
	if err := h.validator.bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	letter, err := h.coverLetters.GenerateCoverLetter(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(models.CoverLetterResponse{CoverLetter: letter})
}
