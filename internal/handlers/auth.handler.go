package handlers

import (
	"time"

	"showroom/internal/app"
	authController "showroom/internal/controllers/auth"
	"showroom/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

const (
	AUTH_RATE_LIMIT        = 10
	AUTH_RATE_LIMIT_WINDOW = time.Minute
)

type AuthHandler struct {
	Handler
	controller authController.AuthControllerInterface
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	return &AuthHandler{
		controller: app.Controllers.Auth,
		Handler:    newHandler(app, router, "auth_handler"),
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")
	limited := limiter.New(limiter.Config{
		Max:        AUTH_RATE_LIMIT,
		Expiration: AUTH_RATE_LIMIT_WINDOW,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, try again later",
			})
		},
	})

	auth.Post("/register", limited, h.register)
	auth.Post("/login", limited, h.login)
	auth.Post("/forgot-password", limited, h.forgotPassword)
	auth.Post("/update-password", h.middleware.OptionalAuth(), h.updatePassword)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	log := h.log.Function("register")

	var req authController.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	response, err := h.controller.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var req authController.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	response, err := h.controller.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(response)
}

func (h *AuthHandler) forgotPassword(c *fiber.Ctx) error {
	log := h.log.Function("forgotPassword")

	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return badRequest(c, "email is required")
	}

	if err := h.controller.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{
		"message": "If the account exists, a reset link has been sent",
	})
}

func (h *AuthHandler) updatePassword(c *fiber.Ctx) error {
	log := h.log.Function("updatePassword")

	var req authController.UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.controller.UpdatePassword(c.UserContext(), middleware.GetUser(c), req); err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"message": "Password updated"})
}
