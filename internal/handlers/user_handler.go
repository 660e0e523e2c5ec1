package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/services"
)

type UserHandler struct {
	profiles  services.ProfileService
	validator *RequestValidator
	log       *zap.Logger
}

func NewUserHandler(profiles services.ProfileService, validator *RequestValidator, log *zap.Logger) *UserHandler {
	return &UserHandler{
		profiles:  profiles,
		validator: validator,
		log:       log,
	}
}

var statusOK = models.StatusResponse{Status: "ok"}

// HandleGetUser handles GET /users/:email
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	user, err := h.profiles.GetProfile(c.UserContext(), email)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(user)
}

// HandleUpdateUser handles PUT /users/:email
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req models.UserProfileUpdate
	if err := h.validator.bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	if err := h.profiles.UpdateFullName(c.UserContext(), email, req.FullName); err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(statusOK)
}

// HandleUpdateResume handles PUT /users/:email/resume. An empty body clears the resume.
func (h *UserHandler) HandleUpdateResume(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req models.ResumeUpdate
	if len(c.Body()) > 0 {
		if err := h.validator.bind(c, &req); err != nil {
			return respondError(c, h.log, err)
		}
	}

	if err := h.profiles.UpdateResumeText(c.UserContext(), email, req.Resume); err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(statusOK)
}

// HandleGetFilters handles GET /users/:email/filters
func (h *UserHandler) HandleGetFilters(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	filters, err := h.profiles.GetFilters(c.UserContext(), email)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(models.FiltersResponse{Filters: filters})
}

// HandleUpdateFilters handles PUT /users/:email/filters
func (h *UserHandler) HandleUpdateFilters(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req models.FiltersUpdate
	if err := h.validator.bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	if err := h.profiles.SetFilters(c.UserContext(), email, *req.Filters); err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(statusOK)
}
