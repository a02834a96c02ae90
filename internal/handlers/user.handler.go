package handlers

import (
	"showroom/internal/app"
	userController "showroom/internal/controllers/users"
	"showroom/internal/handlers/middleware"
	"showroom/pkg/pagination"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	controller userController.UserControllerInterface
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	return &UserHandler{
		controller: app.Controllers.User,
		Handler:    newHandler(app, router, "user_handler"),
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users", h.middleware.RequireAuth())
	users.Get("/me", h.getCurrentUser)
	users.Put("/me", h.updateCurrentUser)

	superadmin := h.router.Group(
		"/superadmin",
		h.middleware.RequireAuth(),
		h.middleware.RequireSuperadmin(),
	)
	superadmin.Get("/users", h.listUsers)
	superadmin.Put("/users/:id/role", h.setRole)
}

func (h *UserHandler) getCurrentUser(c *fiber.Ctx) error {
	log := h.log.Function("getCurrentUser")

	profile, err := h.controller.Me(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"user": profile})
}

func (h *UserHandler) updateCurrentUser(c *fiber.Ctx) error {
	log := h.log.Function("updateCurrentUser")

	var req userController.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	profile, err := h.controller.UpdateMe(c.UserContext(), middleware.GetUser(c), req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"user": profile})
}

func (h *UserHandler) listUsers(c *fiber.Ctx) error {
	log := h.log.Function("listUsers")

	params := pagination.GetParams(c)

	users, total, err := h.controller.ListUsers(c.UserContext(), middleware.GetUser(c), pageOf(params))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(pagination.NewResponse(users, params, total))
}

func (h *UserHandler) setRole(c *fiber.Ctx) error {
	log := h.log.Function("setRole")

	userID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	profile, err := h.controller.SetRole(c.UserContext(), middleware.GetUser(c), userID, req.Role)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"user": profile})
}
