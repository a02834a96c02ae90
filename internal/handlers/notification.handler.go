package handlers

import (
	"showroom/internal/app"
	notificationController "showroom/internal/controllers/notifications"
	"showroom/internal/handlers/middleware"
	"showroom/pkg/pagination"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	Handler
	controller notificationController.NotificationControllerInterface
}

func NewNotificationHandler(app app.App, router fiber.Router) *NotificationHandler {
	return &NotificationHandler{
		controller: app.Controllers.Notification,
		Handler:    newHandler(app, router, "notification_handler"),
	}
}

func (h *NotificationHandler) Register() {
	notifications := h.router.Group("/notifications", h.middleware.RequireAuth())
	notifications.Get("/", h.listNotifications)
	notifications.Put("/read-all", h.markAllRead)
	notifications.Put("/:id/read", h.markRead)
}

func (h *NotificationHandler) listNotifications(c *fiber.Ctx) error {
	log := h.log.Function("listNotifications")

	params := pagination.GetParams(c)

	list, err := h.controller.List(c.UserContext(), middleware.GetUser(c), c.QueryBool("unread"), pageOf(params))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(list)
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	log := h.log.Function("markRead")

	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	if err := h.controller.MarkRead(c.UserContext(), middleware.GetUser(c), id); err != nil {
		return respondError(c, log, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) markAllRead(c *fiber.Ctx) error {
	log := h.log.Function("markAllRead")

	updated, err := h.controller.MarkAllRead(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"updated": updated})
}
