package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/services"
)

type JobSourceHandler struct {
	catalog   services.CatalogService
	validator *RequestValidator
	log       *zap.Logger
}

func NewJobSourceHandler(catalog services.CatalogService, validator *RequestValidator, log *zap.Logger) *JobSourceHandler {
	return &JobSourceHandler{
		catalog:   catalog,
		validator: validator,
		log:       log,
	}
}

// HandleListUserSources handles GET /users/:email/job-sources
func (h *JobSourceHandler) HandleListUserSources(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	sources, err := h.catalog.ListJobSources(c.UserContext(), email)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(sources)
}

// HandleListAll handles GET /job-sources
func (h *JobSourceHandler) HandleListAll(c *fiber.Ctx) error {
	sources, err := h.catalog.ListAllJobSources(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(sources)
}

// HandleCreate handles POST /job-sources
func (h *JobSourceHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateJobSourceRequest
	if err := h.validator.bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	source, err := h.catalog.CreateJobSource(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(source)
}

// HandleDelete handles DELETE /job-sources/:id
func (h *JobSourceHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.catalog.DeleteJobSource(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(statusOK)
}
