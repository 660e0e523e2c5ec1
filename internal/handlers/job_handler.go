package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/services"
)

type JobHandler struct {
	catalog   services.CatalogService
	trigger   services.JobLoadTrigger
	validator *RequestValidator
	log       *zap.Logger
}

func NewJobHandler(
	catalog services.CatalogService,
	trigger services.JobLoadTrigger,
	validator *RequestValidator,
	log *zap.Logger,
) *JobHandler {
	return &JobHandler{
		catalog:   catalog,
		trigger:   trigger,
		validator: validator,
		log:       log,
	}
}

// HandleListJobOffers handles GET /users/:email/job-offers
func (h *JobHandler) HandleListJobOffers(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	offers, err := h.catalog.ListJobOffers(c.UserContext(), email)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(offers)
}

// HandleLoadNewJobs handles POST /job-offers/load-new
func (h *JobHandler) HandleLoadNewJobs(c *fiber.Ctx) error {
	var req models.LoadNewJobsRequest
	if err := h.validator.bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	if err := h.trigger.TriggerJobLoad(c.UserContext(), req.UserEmail); err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(statusOK)
}

// HandleIngestJobOffers handles POST /webhook/job-offers, called by the
// ingestion workflow with the offers it found for one user.
func (h *JobHandler) HandleIngestJobOffers(c *fiber.Ctx) error {
	var req models.IngestJobOffersRequest
	if err := h.validator.bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	n, err := h.catalog.IngestJobOffers(c.UserContext(), req.UserEmail, req.Offers)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(models.IngestJobOffersResponse{Status: "ok", Ingested: n})
}
