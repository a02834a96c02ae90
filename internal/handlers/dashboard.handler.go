package handlers

import (
	"showroom/internal/app"
	dashboardController "showroom/internal/controllers/dashboard"
	"showroom/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	Handler
	controller dashboardController.DashboardControllerInterface
}

func NewDashboardHandler(app app.App, router fiber.Router) *DashboardHandler {
	return &DashboardHandler{
		controller: app.Controllers.Dashboard,
		Handler:    newHandler(app, router, "dashboard_handler"),
	}
}

func (h *DashboardHandler) Register() {
	h.router.Get(
		"/admin/dashboard",
		h.middleware.RequireAuth(),
		h.middleware.RequireStaff(),
		h.getDashboard,
	)
}

func (h *DashboardHandler) getDashboard(c *fiber.Ctx) error {
	log := h.log.Function("getDashboard")

	dashboard, err := h.controller.Get(c.UserContext(), middleware.GetUser(c), c.QueryInt("year"))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(dashboard)
}
