package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/services"
)

type AuthHandler struct {
	profiles  services.ProfileService
	validator *RequestValidator
	log       *zap.Logger
}

func NewAuthHandler(profiles services.ProfileService, validator *RequestValidator, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		profiles:  profiles,
		validator: validator,
		log:       log,
	}
}

// HandleRegister handles POST /register
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := h.validator.bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	user, err := h.profiles.RegisterUser(c.UserContext(), req.Email, req.FullName, req.Pwd)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(user)
}

// HandleLogin handles POST /login
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := h.validator.bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	user, err := h.profiles.Authenticate(c.UserContext(), req.Email, req.Pwd)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(user)
}
