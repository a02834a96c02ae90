package handlers

import (
	"showroom/internal/app"
	bookingController "showroom/internal/controllers/bookings"
	"showroom/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type BookingHandler struct {
	Handler
	controller bookingController.BookingControllerInterface
}

func NewBookingHandler(app app.App, router fiber.Router) *BookingHandler {
	return &BookingHandler{
		controller: app.Controllers.Booking,
		Handler:    newHandler(app, router, "booking_handler"),
	}
}

func (h *BookingHandler) Register() {
	auth := h.middleware.RequireAuth()
	staff := h.middleware.RequireStaff()

	h.router.Post("/bookings", auth, h.createBooking)
	h.router.Get("/bookings/mine", auth, h.listMine)
	h.router.Get("/admin/bookings", auth, staff, h.listForAdmin)
	h.router.Put("/admin/bookings", auth, staff, h.setStatus)
}

func (h *BookingHandler) createBooking(c *fiber.Ctx) error {
	log := h.log.Function("createBooking")

	var req bookingController.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	booking, err := h.controller.Create(c.UserContext(), middleware.GetUser(c), req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) listMine(c *fiber.Ctx) error {
	log := h.log.Function("listMine")

	bookings, err := h.controller.ListMine(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"bookings": bookings})
}

func (h *BookingHandler) listForAdmin(c *fiber.Ctx) error {
	log := h.log.Function("listForAdmin")

	bookings, err := h.controller.ListForAdmin(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"bookings": bookings})
}

// setStatus takes {bookingId, status}; an unchanged status answers 200 without a write.
func (h *BookingHandler) setStatus(c *fiber.Ctx) error {
	log := h.log.Function("setStatus")

	var req bookingController.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	booking, err := h.controller.SetStatus(c.UserContext(), middleware.GetUser(c), req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}
